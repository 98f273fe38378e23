package service

import (
	"errors"

	"improvemycity/internal/model"
	"improvemycity/internal/repository"

	"github.com/google/uuid"
)

// NotificationStore is the persistence surface for the in-app feed.
type NotificationStore interface {
	GetByUserID(userID uuid.UUID) ([]model.Notification, error)
	GetUnreadCount(userID uuid.UUID) (int, error)
	MarkAsRead(notificationID, userID uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
}

type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) GetUserNotifications(userID uuid.UUID) (*model.NotificationListResponse, error) {
	notifications, err := s.notifications.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	unreadCount, err := s.notifications.GetUnreadCount(userID)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unreadCount,
	}, nil
}

func (s *NotificationService) MarkAsRead(notificationID, userID uuid.UUID) error {
	err := s.notifications.MarkAsRead(notificationID, userID)
	if errors.Is(err, repository.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *NotificationService) MarkAllAsRead(userID uuid.UUID) error {
	return s.notifications.MarkAllAsRead(userID)
}
