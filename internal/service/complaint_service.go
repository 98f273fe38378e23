package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"improvemycity/internal/messaging"
	"improvemycity/internal/model"
	"improvemycity/internal/repository"

	"github.com/google/uuid"
)

// ComplaintStore is the persistence surface the complaint service needs.
type ComplaintStore interface {
	Create(complaint *model.Complaint) error
	FindByID(id uuid.UUID) (*model.Complaint, error)
	FindAll() ([]model.Complaint, error)
	FindByOwnerID(ownerID uuid.UUID) ([]model.Complaint, error)
	UpdateFields(id uuid.UUID, status *model.ComplaintStatus, adminComment *string) error
	Delete(id uuid.UUID) error
}

// OutboxStore records a notification event alongside the mutation it follows.
type OutboxStore interface {
	Create(routingKey string, payload interface{}) error
}

// Geocoder resolves coordinates to a human-readable address. Implementations
// never fail; they fall back to a sentinel string.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) string
}

type ComplaintService struct {
	complaints ComplaintStore
	outbox     OutboxStore
	geocoder   Geocoder
}

func NewComplaintService(complaints ComplaintStore, outbox OutboxStore, geocoder Geocoder) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		outbox:     outbox,
		geocoder:   geocoder,
	}
}

// Create persists a new complaint for the caller. Owner and status come from
// the server, never from the payload; the address lookup is best-effort.
func (s *ComplaintService) Create(ctx context.Context, owner *model.User, req *model.CreateComplaintRequest) (*model.Complaint, error) {
	category := req.Category
	if category == "" {
		category = model.CategoryOther
	}
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	address := s.geocoder.ReverseGeocode(ctx, *req.Lat, *req.Lng)

	now := time.Now()
	complaint := &model.Complaint{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		ImageURL:    req.ImageURL,
		Location: model.Location{
			Lat:     *req.Lat,
			Lng:     *req.Lng,
			Address: address,
		},
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.complaints.Create(complaint); err != nil {
		return nil, err
	}

	complaint.OwnerName = &owner.Name
	complaint.OwnerEmail = &owner.Email

	return complaint, nil
}

// ListMine returns the caller's complaints newest first.
func (s *ComplaintService) ListMine(ownerID uuid.UUID) ([]model.Complaint, error) {
	complaints, err := s.complaints.FindByOwnerID(ownerID)
	if err != nil {
		return nil, err
	}
	if complaints == nil {
		complaints = []model.Complaint{}
	}
	return complaints, nil
}

// ListAll returns every complaint newest first, owner info joined. Visible to
// any authenticated caller.
func (s *ComplaintService) ListAll() ([]model.Complaint, error) {
	complaints, err := s.complaints.FindAll()
	if err != nil {
		return nil, err
	}
	if complaints == nil {
		complaints = []model.Complaint{}
	}
	return complaints, nil
}

func (s *ComplaintService) GetByID(id uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.complaints.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return complaint, nil
}

func (s *ComplaintService) GetStatus(id uuid.UUID) (*model.ComplaintStatusResponse, error) {
	complaint, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	return &model.ComplaintStatusResponse{
		Status:  complaint.Status,
		Message: fmt.Sprintf("Your complaint is currently: %s", complaint.Status),
	}, nil
}

// AdminUpdate applies whichever of status/adminComment are present; omitted
// fields keep their stored values. Any of the three statuses may be set, in
// any order. The notification event is recorded after the update and its
// failure is logged, never surfaced.
func (s *ComplaintService) AdminUpdate(id uuid.UUID, status *model.ComplaintStatus, adminComment *string, actor *model.User) (*model.Complaint, error) {
	if actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if status != nil && !model.ValidStatus(*status) {
		return nil, fmt.Errorf("%w: invalid status value", ErrValidation)
	}

	if err := s.complaints.UpdateFields(id, status, adminComment); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updated, err := s.complaints.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.enqueueStatusNotification(updated)

	return updated, nil
}

func (s *ComplaintService) Delete(id uuid.UUID, actor *model.User) error {
	if actor.Role != model.RoleAdmin {
		return ErrForbidden
	}

	if err := s.complaints.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (s *ComplaintService) enqueueStatusNotification(complaint *model.Complaint) {
	event := messaging.StatusUpdateMessage{
		ComplaintID:  complaint.ID.String(),
		Title:        complaint.Title,
		NewStatus:    string(complaint.Status),
		AdminComment: complaint.AdminComment,
		OwnerID:      complaint.OwnerID.String(),
		Timestamp:    time.Now().Unix(),
	}
	if complaint.OwnerName != nil {
		event.OwnerName = *complaint.OwnerName
	}
	if complaint.OwnerEmail != nil {
		event.OwnerEmail = *complaint.OwnerEmail
	}

	if err := s.outbox.Create(messaging.RoutingKeyStatusUpdate, event); err != nil {
		log.Printf("complaint: enqueue notification for %s: %v", complaint.ID, err)
	}
}
