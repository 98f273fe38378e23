package service_test

import (
	"context"
	"errors"
	"testing"

	"improvemycity/internal/messaging"
	"improvemycity/internal/model"
	"improvemycity/internal/repository"
	"improvemycity/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func statusPtr(v model.ComplaintStatus) *model.ComplaintStatus { return &v }

func newCitizen(name, email string) *model.User {
	return &model.User{ID: uuid.New(), Name: name, Email: email, Role: model.RoleCitizen}
}

func newAdmin() *model.User {
	return &model.User{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
}

func TestCreateForcesPendingAndOwner(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)
	owner := newCitizen("Alice", "alice@example.com")

	var persisted *model.Complaint
	store.On("Create", mock.AnythingOfType("*model.Complaint")).Run(func(args mock.Arguments) {
		persisted = args.Get(0).(*model.Complaint)
	}).Return(nil)

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{address: "1 Main St, Springfield"})
	complaint, err := svc.Create(context.Background(), owner, &model.CreateComplaintRequest{
		Title:       "Broken streetlight",
		Description: "Light out for a week",
		Lat:         floatPtr(12.9),
		Lng:         floatPtr(77.6),
	})

	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, model.StatusPending, persisted.Status)
	assert.Equal(t, owner.ID, persisted.OwnerID)
	assert.Equal(t, model.CategoryOther, persisted.Category, "category defaults to Other")
	assert.Equal(t, "1 Main St, Springfield", persisted.Location.Address)
	assert.Equal(t, 12.9, complaint.Location.Lat)
	assert.Equal(t, 77.6, complaint.Location.Lng)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{address: "x"})
	_, err := svc.Create(context.Background(), newCitizen("Alice", "a@example.com"), &model.CreateComplaintRequest{
		Title:       "Broken streetlight",
		Description: "Light out for a week",
		Category:    "Potholes",
		Lat:         floatPtr(12.9),
		Lng:         floatPtr(77.6),
	})

	assert.ErrorIs(t, err, service.ErrValidation)
	store.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateSurvivesGeocodeFallback(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)

	var persisted *model.Complaint
	store.On("Create", mock.AnythingOfType("*model.Complaint")).Run(func(args mock.Arguments) {
		persisted = args.Get(0).(*model.Complaint)
	}).Return(nil)

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{address: "Unknown location"})
	_, err := svc.Create(context.Background(), newCitizen("Alice", "a@example.com"), &model.CreateComplaintRequest{
		Title:       "Garbage pileup",
		Description: "Overflowing bins on the corner",
		Category:    model.CategoryGarbage,
		Lat:         floatPtr(1.0),
		Lng:         floatPtr(2.0),
	})

	require.NoError(t, err)
	assert.Equal(t, "Unknown location", persisted.Location.Address)
}

func TestGetByIDNotFound(t *testing.T) {
	store := new(MockComplaintStore)
	store.On("FindByID", mock.AnythingOfType("uuid.UUID")).Return(nil, repository.ErrNoRows)

	svc := service.NewComplaintService(store, new(MockOutboxStore), &stubGeocoder{})
	_, err := svc.GetByID(uuid.New())

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListMineReturnsEmptySliceNotNil(t *testing.T) {
	store := new(MockComplaintStore)
	ownerID := uuid.New()
	store.On("FindByOwnerID", ownerID).Return(nil, nil)

	svc := service.NewComplaintService(store, new(MockOutboxStore), &stubGeocoder{})
	complaints, err := svc.ListMine(ownerID)

	require.NoError(t, err)
	assert.NotNil(t, complaints)
	assert.Empty(t, complaints)
}

func TestAdminUpdateForbiddenForCitizen(t *testing.T) {
	store := new(MockComplaintStore)

	svc := service.NewComplaintService(store, new(MockOutboxStore), &stubGeocoder{})
	_, err := svc.AdminUpdate(uuid.New(), statusPtr(model.StatusResolved), nil, newCitizen("Eve", "eve@example.com"))

	assert.ErrorIs(t, err, service.ErrForbidden)
	store.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminUpdateRejectsInvalidStatus(t *testing.T) {
	store := new(MockComplaintStore)

	svc := service.NewComplaintService(store, new(MockOutboxStore), &stubGeocoder{})
	_, err := svc.AdminUpdate(uuid.New(), statusPtr("Closed"), nil, newAdmin())

	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAdminUpdateNotFound(t *testing.T) {
	store := new(MockComplaintStore)
	store.On("UpdateFields", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrNoRows)

	svc := service.NewComplaintService(store, new(MockOutboxStore), &stubGeocoder{})
	_, err := svc.AdminUpdate(uuid.New(), statusPtr(model.StatusResolved), nil, newAdmin())

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAdminUpdateCommentOnlyLeavesStatusAlone(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)
	id := uuid.New()

	updated := &model.Complaint{
		ID:           id,
		OwnerID:      uuid.New(),
		Title:        "Broken streetlight",
		Status:       model.StatusPending,
		AdminComment: "We are on it",
		OwnerEmail:   strPtr("alice@example.com"),
	}

	store.On("UpdateFields", id, (*model.ComplaintStatus)(nil), strPtr("We are on it")).Return(nil)
	store.On("FindByID", id).Return(updated, nil)
	outbox.On("Create", messaging.RoutingKeyStatusUpdate, mock.Anything).Return(nil)

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{})
	result, err := svc.AdminUpdate(id, nil, strPtr("We are on it"), newAdmin())

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, result.Status, "status untouched by comment-only update")
	store.AssertExpectations(t)
}

func TestAdminUpdateEnqueuesNotificationWithOwnerEmail(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)
	id := uuid.New()
	ownerID := uuid.New()

	updated := &model.Complaint{
		ID:           id,
		OwnerID:      ownerID,
		Title:        "Broken streetlight",
		Status:       model.StatusResolved,
		AdminComment: "Fixed",
		OwnerName:    strPtr("Alice"),
		OwnerEmail:   strPtr("alice@example.com"),
	}

	store.On("UpdateFields", id, statusPtr(model.StatusResolved), strPtr("Fixed")).Return(nil)
	store.On("FindByID", id).Return(updated, nil)

	var event messaging.StatusUpdateMessage
	outbox.On("Create", messaging.RoutingKeyStatusUpdate, mock.AnythingOfType("messaging.StatusUpdateMessage")).
		Run(func(args mock.Arguments) {
			event = args.Get(1).(messaging.StatusUpdateMessage)
		}).Return(nil)

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{})
	result, err := svc.AdminUpdate(id, statusPtr(model.StatusResolved), strPtr("Fixed"), newAdmin())

	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, result.Status)
	assert.Equal(t, "Fixed", result.AdminComment)
	assert.Equal(t, "alice@example.com", event.OwnerEmail)
	assert.Equal(t, ownerID.String(), event.OwnerID)
	assert.Equal(t, string(model.StatusResolved), event.NewStatus)
}

func TestAdminUpdateOutboxFailureNotSurfaced(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)
	id := uuid.New()

	updated := &model.Complaint{ID: id, OwnerID: uuid.New(), Status: model.StatusInProgress}

	store.On("UpdateFields", id, mock.Anything, mock.Anything).Return(nil)
	store.On("FindByID", id).Return(updated, nil)
	outbox.On("Create", mock.Anything, mock.Anything).Return(errors.New("outbox table unavailable"))

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{})
	result, err := svc.AdminUpdate(id, statusPtr(model.StatusInProgress), nil, newAdmin())

	require.NoError(t, err, "notification failure never surfaces to the caller")
	assert.Equal(t, model.StatusInProgress, result.Status)
}

func TestAdminUpdateAllowsStatusRegression(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)
	id := uuid.New()

	updated := &model.Complaint{ID: id, OwnerID: uuid.New(), Status: model.StatusPending}

	store.On("UpdateFields", id, statusPtr(model.StatusPending), (*string)(nil)).Return(nil)
	store.On("FindByID", id).Return(updated, nil)
	outbox.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{})
	result, err := svc.AdminUpdate(id, statusPtr(model.StatusPending), nil, newAdmin())

	require.NoError(t, err, "Resolved back to Pending is allowed")
	assert.Equal(t, model.StatusPending, result.Status)
}

func TestDeleteAdminOnly(t *testing.T) {
	store := new(MockComplaintStore)

	svc := service.NewComplaintService(store, new(MockOutboxStore), &stubGeocoder{})

	err := svc.Delete(uuid.New(), newCitizen("Eve", "eve@example.com"))
	assert.ErrorIs(t, err, service.ErrForbidden)
	store.AssertNotCalled(t, "Delete", mock.Anything)

	id := uuid.New()
	store.On("Delete", id).Return(nil)
	assert.NoError(t, svc.Delete(id, newAdmin()))
}

func TestDeleteNotFound(t *testing.T) {
	store := new(MockComplaintStore)
	store.On("Delete", mock.Anything).Return(repository.ErrNoRows)

	svc := service.NewComplaintService(store, new(MockOutboxStore), &stubGeocoder{})
	err := svc.Delete(uuid.New(), newAdmin())

	assert.ErrorIs(t, err, service.ErrNotFound)
}

// Full lifecycle: a citizen files a complaint, an admin resolves it with a
// comment, and the owner's address ends up on the outgoing notification.
func TestComplaintLifecycleScenario(t *testing.T) {
	store := new(MockComplaintStore)
	outbox := new(MockOutboxStore)
	citizen := newCitizen("U1", "u1@example.com")

	var created *model.Complaint
	store.On("Create", mock.AnythingOfType("*model.Complaint")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*model.Complaint)
	}).Return(nil)

	svc := service.NewComplaintService(store, outbox, &stubGeocoder{address: "Unknown location"})
	complaint, err := svc.Create(context.Background(), citizen, &model.CreateComplaintRequest{
		Title:       "Broken streetlight",
		Description: "Light out for a week",
		Lat:         floatPtr(12.9),
		Lng:         floatPtr(77.6),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, complaint.Status)
	assert.Equal(t, citizen.ID, complaint.OwnerID)

	// Admin resolves it.
	created.Status = model.StatusResolved
	created.AdminComment = "Fixed"
	created.OwnerName = &citizen.Name
	created.OwnerEmail = &citizen.Email

	store.On("UpdateFields", created.ID, statusPtr(model.StatusResolved), strPtr("Fixed")).Return(nil)
	store.On("FindByID", created.ID).Return(created, nil)

	var event messaging.StatusUpdateMessage
	outbox.On("Create", messaging.RoutingKeyStatusUpdate, mock.AnythingOfType("messaging.StatusUpdateMessage")).
		Run(func(args mock.Arguments) {
			event = args.Get(1).(messaging.StatusUpdateMessage)
		}).Return(nil)

	resolved, err := svc.AdminUpdate(created.ID, statusPtr(model.StatusResolved), strPtr("Fixed"), newAdmin())
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, resolved.Status)
	assert.Equal(t, "Fixed", resolved.AdminComment)
	assert.Equal(t, "u1@example.com", event.OwnerEmail, "dispatcher invoked with the owner's address")
}
