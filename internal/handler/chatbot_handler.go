package handler

import (
	"net/http"
	"strings"

	"improvemycity/internal/chatbot"
	"improvemycity/internal/middleware"
	"improvemycity/internal/model"
	"improvemycity/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatbotHandler struct {
	complaintService *service.ComplaintService
}

func NewChatbotHandler(complaintService *service.ComplaintService) *ChatbotHandler {
	return &ChatbotHandler{complaintService: complaintService}
}

// Query handles POST /api/chatbot. The router only ever sees the caller's
// own complaints.
func (h *ChatbotHandler) Query(c *gin.Context) {
	user := middleware.Identity(c)

	var req model.ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, model.ChatbotResponse{
			Response: "Please type a message to get started!",
		})
		return
	}

	complaints, err := h.complaintService.ListMine(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ChatbotResponse{
		Response: chatbot.Respond(req.Message, complaints),
	})
}
