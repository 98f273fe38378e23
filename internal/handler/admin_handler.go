package handler

import (
	"net/http"

	"improvemycity/internal/middleware"
	"improvemycity/internal/model"
	"improvemycity/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler serves the admin-only status/comment mutations.
type AdminHandler struct {
	complaintService *service.ComplaintService
}

func NewAdminHandler(complaintService *service.ComplaintService) *AdminHandler {
	return &AdminHandler{complaintService: complaintService}
}

// UpdateStatus handles PATCH /api/admin/complaints/status/:id. Status is
// required; the optional comment rides along in the same update.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	user := middleware.Identity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !model.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status value"})
		return
	}

	complaint, err := h.complaintService.AdminUpdate(id, &req.Status, req.AdminComment, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Complaint status updated successfully",
		"complaint": complaint,
	})
}

// UpdateComment handles PATCH /api/admin/complaints/comment/:id.
func (h *AdminHandler) UpdateComment(c *gin.Context) {
	user := middleware.Identity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	complaint, err := h.complaintService.AdminUpdate(id, nil, &req.AdminComment, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Admin comment updated",
		"complaint": complaint,
	})
}
