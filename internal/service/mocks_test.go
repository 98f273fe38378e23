package service_test

import (
	"context"

	"improvemycity/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) FindByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

type MockComplaintStore struct {
	mock.Mock
}

func (m *MockComplaintStore) Create(complaint *model.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockComplaintStore) FindByID(id uuid.UUID) (*model.Complaint, error) {
	args := m.Called(id)
	if c := args.Get(0); c != nil {
		return c.(*model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockComplaintStore) FindAll() ([]model.Complaint, error) {
	args := m.Called()
	if c := args.Get(0); c != nil {
		return c.([]model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockComplaintStore) FindByOwnerID(ownerID uuid.UUID) ([]model.Complaint, error) {
	args := m.Called(ownerID)
	if c := args.Get(0); c != nil {
		return c.([]model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockComplaintStore) UpdateFields(id uuid.UUID, status *model.ComplaintStatus, adminComment *string) error {
	args := m.Called(id, status, adminComment)
	return args.Error(0)
}

func (m *MockComplaintStore) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockOutboxStore struct {
	mock.Mock
}

func (m *MockOutboxStore) Create(routingKey string, payload interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// stubGeocoder always resolves to a fixed address, mirroring the best-effort
// contract of the real geocoder.
type stubGeocoder struct {
	address string
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) string {
	return g.address
}
