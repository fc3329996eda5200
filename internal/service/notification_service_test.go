package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gigflow/gigflow-backend/internal/models"
	"github.com/gigflow/gigflow-backend/internal/pkg/apperror"
	"github.com/gigflow/gigflow-backend/internal/repository"
)

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	if args.Error(0) == nil {
		notification.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockNotificationRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func TestNotificationService_CreateForWS(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo)
	ctx := context.Background()

	userID := uuid.New()
	var saved *models.Notification
	repo.On("Create", ctx, mock.AnythingOfType("*models.Notification")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.Notification)
		}).
		Return(nil)

	err := svc.CreateNotificationForWS(ctx, userID, "new_bid", map[string]interface{}{"gig_title": "Лендинг"})
	assert.NoError(t, err)

	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(saved.Payload, &payload))
	assert.Equal(t, "new_bid", payload["event"])
	assert.False(t, saved.IsRead)
	assert.Equal(t, userID, saved.UserID)
}

func TestNotificationService_List_LimitClamped(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo)
	ctx := context.Background()

	userID := uuid.New()
	repo.On("List", ctx, userID, 20, 0, false).Return([]models.Notification{}, nil)

	_, err := svc.ListNotifications(ctx, userID, -1, -5, false)
	assert.NoError(t, err)
	repo.AssertCalled(t, "List", ctx, userID, 20, 0, false)
}

func TestNotificationService_MarkAsRead_NotFound(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo)
	ctx := context.Background()

	id := uuid.New()
	userID := uuid.New()
	repo.On("MarkAsRead", ctx, id, userID).Return(repository.ErrNotificationNotFound)

	err := svc.MarkAsRead(ctx, id, userID)
	assert.True(t, apperror.IsNotFound(err))
}
