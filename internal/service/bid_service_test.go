package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gigflow/gigflow-backend/internal/models"
	"github.com/gigflow/gigflow-backend/internal/pkg/apperror"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/gigflow/gigflow-backend/internal/repository/common"
)

type mockBidRepo struct {
	mock.Mock
}

func (m *mockBidRepo) Create(ctx context.Context, bid *models.Bid) error {
	args := m.Called(ctx, bid)
	if args.Error(0) == nil {
		bid.ID = uuid.New()
		bid.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *mockBidRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bid), args.Error(1)
}

func (m *mockBidRepo) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.BidWithFreelancer, error) {
	args := m.Called(ctx, gigID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BidWithFreelancer), args.Error(1)
}

func (m *mockBidRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Bid, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bid), args.Error(1)
}

func (m *mockBidRepo) RejectOtherPending(ctx context.Context, gigID, hiredBidID uuid.UUID) (int64, error) {
	args := m.Called(ctx, gigID, hiredBidID)
	return args.Get(0).(int64), args.Error(1)
}

type mockGigRepoForBids struct {
	mock.Mock
}

func (m *mockGigRepoForBids) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

func (m *mockGigRepoForBids) AssignIfOpen(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockUserRepoForBids struct {
	mock.Mock
}

func (m *mockUserRepoForBids) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// mockHub собирает отправленные события для проверок.
type mockHub struct {
	events []hubEvent
}

type hubEvent struct {
	userID uuid.UUID
	event  string
	data   interface{}
}

func (m *mockHub) BroadcastToUser(userID uuid.UUID, event string, data interface{}) error {
	m.events = append(m.events, hubEvent{userID: userID, event: event, data: data})
	return nil
}

func newBidServiceForTest() (*BidService, *mockBidRepo, *mockGigRepoForBids, *mockUserRepoForBids, *mockHub) {
	bidRepo := new(mockBidRepo)
	gigRepo := new(mockGigRepoForBids)
	userRepo := new(mockUserRepoForBids)
	hub := &mockHub{}
	svc := NewBidService(bidRepo, gigRepo, userRepo)
	svc.SetHub(hub)
	return svc, bidRepo, gigRepo, userRepo, hub
}

func openGig(ownerID uuid.UUID) *models.Gig {
	return &models.Gig{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "Сайт-визитка",
		Description: "Нужен лендинг на неделю работы",
		Budget:      500,
		Status:      models.GigStatusOpen,
		CreatedAt:   time.Now(),
	}
}

func TestBidService_SubmitBid_Success(t *testing.T) {
	svc, bidRepo, gigRepo, userRepo, hub := newBidServiceForTest()
	ctx := context.Background()

	ownerID := uuid.New()
	freelancerID := uuid.New()
	gig := openGig(ownerID)

	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)
	bidRepo.On("Create", ctx, mock.AnythingOfType("*models.Bid")).Return(nil)
	userRepo.On("GetByID", ctx, freelancerID).Return(&models.User{ID: freelancerID, Name: "Иван"}, nil)

	bid, err := svc.SubmitBid(ctx, SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  freelancerID,
		Message:       "Готов взяться, делал похожие проекты",
		ProposedPrice: 450,
	})

	assert.NoError(t, err)
	assert.NotNil(t, bid)
	assert.Equal(t, models.BidStatusPending, bid.Status)
	assert.NotEqual(t, uuid.Nil, bid.ID)

	// Владелец гига получает событие о новом отклике.
	assert.Len(t, hub.events, 1)
	assert.Equal(t, ownerID, hub.events[0].userID)
	assert.Equal(t, EventNewBid, hub.events[0].event)
}

func TestBidService_SubmitBid_GigNotFound(t *testing.T) {
	svc, _, gigRepo, _, _ := newBidServiceForTest()
	ctx := context.Background()

	gigID := uuid.New()
	gigRepo.On("GetByID", ctx, gigID).Return(nil, repository.ErrGigNotFound)

	_, err := svc.SubmitBid(ctx, SubmitBidInput{
		GigID:         gigID,
		FreelancerID:  uuid.New(),
		Message:       "Готов взяться",
		ProposedPrice: 100,
	})

	assert.True(t, apperror.IsNotFound(err))
}

func TestBidService_SubmitBid_GigNotOpen(t *testing.T) {
	svc, _, gigRepo, _, hub := newBidServiceForTest()
	ctx := context.Background()

	gig := openGig(uuid.New())
	gig.Status = models.GigStatusAssigned
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.SubmitBid(ctx, SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  uuid.New(),
		Message:       "Готов взяться",
		ProposedPrice: 100,
	})

	assert.True(t, apperror.IsInvalidState(err))
	assert.Empty(t, hub.events)
}

func TestBidService_SubmitBid_OwnGig(t *testing.T) {
	svc, _, gigRepo, _, _ := newBidServiceForTest()
	ctx := context.Background()

	ownerID := uuid.New()
	gig := openGig(ownerID)
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.SubmitBid(ctx, SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  ownerID,
		Message:       "Откликаюсь на свой же гиг",
		ProposedPrice: 100,
	})

	assert.True(t, apperror.IsForbidden(err))
}

func TestBidService_SubmitBid_Duplicate(t *testing.T) {
	svc, bidRepo, gigRepo, _, hub := newBidServiceForTest()
	ctx := context.Background()

	gig := openGig(uuid.New())
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)
	bidRepo.On("Create", ctx, mock.AnythingOfType("*models.Bid")).Return(common.ErrAlreadyExists)

	_, err := svc.SubmitBid(ctx, SubmitBidInput{
		GigID:         gig.ID,
		FreelancerID:  uuid.New(),
		Message:       "Повторный отклик",
		ProposedPrice: 100,
	})

	assert.True(t, apperror.IsConflict(err))
	assert.Empty(t, hub.events)
}

func TestBidService_SubmitBid_EmptyMessage(t *testing.T) {
	svc, _, _, _, _ := newBidServiceForTest()
	ctx := context.Background()

	_, err := svc.SubmitBid(ctx, SubmitBidInput{
		GigID:         uuid.New(),
		FreelancerID:  uuid.New(),
		Message:       "",
		ProposedPrice: 100,
	})

	assert.True(t, apperror.IsValidation(err))
}

func TestBidService_SubmitBid_NonPositivePrice(t *testing.T) {
	svc, _, _, _, _ := newBidServiceForTest()
	ctx := context.Background()

	_, err := svc.SubmitBid(ctx, SubmitBidInput{
		GigID:         uuid.New(),
		FreelancerID:  uuid.New(),
		Message:       "Готов взяться",
		ProposedPrice: 0,
	})

	assert.True(t, apperror.IsValidation(err))
}

func TestBidService_ListBids_OwnerOnly(t *testing.T) {
	svc, _, gigRepo, _, _ := newBidServiceForTest()
	ctx := context.Background()

	gig := openGig(uuid.New())
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.ListBids(ctx, gig.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))
}

func TestBidService_ListBids_Success(t *testing.T) {
	svc, bidRepo, gigRepo, _, _ := newBidServiceForTest()
	ctx := context.Background()

	ownerID := uuid.New()
	gig := openGig(ownerID)
	expected := []models.BidWithFreelancer{
		{Bid: models.Bid{ID: uuid.New()}, FreelancerName: "Анна"},
		{Bid: models.Bid{ID: uuid.New()}, FreelancerName: "Пётр"},
	}

	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)
	bidRepo.On("ListByGig", ctx, gig.ID).Return(expected, nil)

	bids, err := svc.ListBids(ctx, gig.ID, ownerID)
	assert.NoError(t, err)
	assert.Len(t, bids, 2)
	assert.Equal(t, "Анна", bids[0].FreelancerName)
}

func TestBidService_Hire_Success(t *testing.T) {
	svc, bidRepo, gigRepo, _, hub := newBidServiceForTest()
	ctx := context.Background()

	ownerID := uuid.New()
	freelancerID := uuid.New()
	gig := openGig(ownerID)
	bid := &models.Bid{
		ID:           uuid.New(),
		GigID:        gig.ID,
		FreelancerID: freelancerID,
		Status:       models.BidStatusPending,
	}
	hired := &models.Bid{
		ID:           bid.ID,
		GigID:        gig.ID,
		FreelancerID: freelancerID,
		Status:       models.BidStatusHired,
	}

	bidRepo.On("GetByID", ctx, bid.ID).Return(bid, nil)
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)
	gigRepo.On("AssignIfOpen", ctx, gig.ID).Return(true, nil)
	bidRepo.On("UpdateStatus", ctx, bid.ID, models.BidStatusHired).Return(hired, nil)
	bidRepo.On("RejectOtherPending", ctx, gig.ID, bid.ID).Return(int64(2), nil)

	result, err := svc.Hire(ctx, bid.ID, ownerID)

	assert.NoError(t, err)
	assert.Equal(t, models.BidStatusHired, result.Status)
	bidRepo.AssertCalled(t, "RejectOtherPending", ctx, gig.ID, bid.ID)

	// Событие о найме уходит фрилансеру, а не владельцу.
	assert.Len(t, hub.events, 1)
	assert.Equal(t, freelancerID, hub.events[0].userID)
	assert.Equal(t, EventHired, hub.events[0].event)
}

func TestBidService_Hire_NotOwner(t *testing.T) {
	svc, bidRepo, gigRepo, _, _ := newBidServiceForTest()
	ctx := context.Background()

	gig := openGig(uuid.New())
	bid := &models.Bid{ID: uuid.New(), GigID: gig.ID, FreelancerID: uuid.New(), Status: models.BidStatusPending}

	bidRepo.On("GetByID", ctx, bid.ID).Return(bid, nil)
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.Hire(ctx, bid.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))
	gigRepo.AssertNotCalled(t, "AssignIfOpen", ctx, gig.ID)
}

func TestBidService_Hire_BidNotFound(t *testing.T) {
	svc, bidRepo, _, _, _ := newBidServiceForTest()
	ctx := context.Background()

	bidID := uuid.New()
	bidRepo.On("GetByID", ctx, bidID).Return(nil, repository.ErrBidNotFound)

	_, err := svc.Hire(ctx, bidID, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

// Проигравший гонку найм получает INVALID_STATE, а не 500:
// условная запись вернула "не захвачено".
func TestBidService_Hire_LostRace(t *testing.T) {
	svc, bidRepo, gigRepo, _, hub := newBidServiceForTest()
	ctx := context.Background()

	ownerID := uuid.New()
	gig := openGig(ownerID)
	bid := &models.Bid{ID: uuid.New(), GigID: gig.ID, FreelancerID: uuid.New(), Status: models.BidStatusPending}

	bidRepo.On("GetByID", ctx, bid.ID).Return(bid, nil)
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)
	gigRepo.On("AssignIfOpen", ctx, gig.ID).Return(false, nil)

	_, err := svc.Hire(ctx, bid.ID, ownerID)

	assert.True(t, apperror.IsInvalidState(err))
	bidRepo.AssertNotCalled(t, "UpdateStatus", ctx, bid.ID, models.BidStatusHired)
	assert.Empty(t, hub.events)
}

// Сбой массового отклонения не откатывает уже состоявшийся найм.
func TestBidService_Hire_RejectOthersFailureDoesNotFailHire(t *testing.T) {
	svc, bidRepo, gigRepo, _, hub := newBidServiceForTest()
	ctx := context.Background()

	ownerID := uuid.New()
	freelancerID := uuid.New()
	gig := openGig(ownerID)
	bid := &models.Bid{ID: uuid.New(), GigID: gig.ID, FreelancerID: freelancerID, Status: models.BidStatusPending}
	hired := &models.Bid{ID: bid.ID, GigID: gig.ID, FreelancerID: freelancerID, Status: models.BidStatusHired}

	bidRepo.On("GetByID", ctx, bid.ID).Return(bid, nil)
	gigRepo.On("GetByID", ctx, gig.ID).Return(gig, nil)
	gigRepo.On("AssignIfOpen", ctx, gig.ID).Return(true, nil)
	bidRepo.On("UpdateStatus", ctx, bid.ID, models.BidStatusHired).Return(hired, nil)
	bidRepo.On("RejectOtherPending", ctx, gig.ID, bid.ID).Return(int64(0), errors.New("deadlock detected"))

	result, err := svc.Hire(ctx, bid.ID, ownerID)

	assert.NoError(t, err)
	assert.Equal(t, models.BidStatusHired, result.Status)
	assert.Len(t, hub.events, 1)
}
