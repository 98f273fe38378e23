package handler

import (
	"net/http"

	"improvemycity/internal/middleware"
	"improvemycity/internal/model"
	"improvemycity/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComplaintHandler struct {
	complaintService *service.ComplaintService
}

func NewComplaintHandler(complaintService *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// Create handles POST /api/complaints. Owner and status come from the
// authenticated identity, not the payload.
func (h *ComplaintHandler) Create(c *gin.Context) {
	user := middleware.Identity(c)

	var req model.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All required fields must be filled"})
		return
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Complaint created successfully",
		"complaint": complaint,
	})
}

// ListMine handles GET /api/complaints/my.
func (h *ComplaintHandler) ListMine(c *gin.Context) {
	user := middleware.Identity(c)

	complaints, err := h.complaintService.ListMine(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaints)
}

// ListAll handles GET /api/complaints.
func (h *ComplaintHandler) ListAll(c *gin.Context) {
	complaints, err := h.complaintService.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaints)
}

// GetByID handles GET /api/complaints/:id.
func (h *ComplaintHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
		return
	}

	complaint, err := h.complaintService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// GetStatus handles GET /api/complaints/chatbot/status/:id.
func (h *ComplaintHandler) GetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
		return
	}

	status, err := h.complaintService.GetStatus(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Update handles PUT /api/complaints/:id (admin). Partial update: omitted
// fields keep their stored values.
func (h *ComplaintHandler) Update(c *gin.Context) {
	user := middleware.Identity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
		return
	}

	var req model.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	complaint, err := h.complaintService.AdminUpdate(id, req.Status, req.AdminMessage, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Complaint updated successfully",
		"complaint": complaint,
	})
}

// Delete handles DELETE /api/complaints/:id (admin). Hard delete.
func (h *ComplaintHandler) Delete(c *gin.Context) {
	user := middleware.Identity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
		return
	}

	if err := h.complaintService.Delete(id, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}
