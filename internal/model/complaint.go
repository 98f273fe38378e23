package model

import (
	"time"

	"github.com/google/uuid"
)

type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

type Category string

const (
	CategoryRoad        Category = "Road"
	CategoryGarbage     Category = "Garbage"
	CategoryElectricity Category = "Electricity"
	CategoryWater       Category = "Water"
	CategoryOther       Category = "Other"
)

// ValidStatus reports whether s is one of the three lifecycle statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known complaint category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryRoad, CategoryGarbage, CategoryElectricity, CategoryWater, CategoryOther:
		return true
	}
	return false
}

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type Complaint struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	OwnerName    *string         `json:"owner_name,omitempty"`
	OwnerEmail   *string         `json:"owner_email,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     Category        `json:"category"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Location     Location        `json:"location"`
	Status       ComplaintStatus `json:"status"`
	AdminComment string          `json:"admin_comment"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Request/Response DTOs
type CreateComplaintRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=150"`
	Description string   `json:"description" binding:"required,min=5"`
	Category    Category `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
	Lat         *float64 `json:"lat" binding:"required"`
	Lng         *float64 `json:"lng" binding:"required"`
}

// UpdateComplaintRequest carries the admin's partial update. Omitted fields
// retain their stored values.
type UpdateComplaintRequest struct {
	Status       *ComplaintStatus `json:"status"`
	AdminMessage *string          `json:"adminMessage"`
}

type UpdateStatusRequest struct {
	Status       ComplaintStatus `json:"status" binding:"required"`
	AdminComment *string         `json:"adminComment"`
}

type UpdateCommentRequest struct {
	AdminComment string `json:"adminComment" binding:"required"`
}

type ComplaintStatusResponse struct {
	Status  ComplaintStatus `json:"status"`
	Message string          `json:"message"`
}

type ChatbotRequest struct {
	Message string `json:"message"`
}

type ChatbotResponse struct {
	Response string `json:"response"`
}
