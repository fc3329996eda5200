package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gigflow/gigflow-backend/internal/logger"
	"github.com/gigflow/gigflow-backend/internal/models"
	"github.com/gigflow/gigflow-backend/internal/pkg/apperror"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/gigflow/gigflow-backend/internal/repository/common"
	"github.com/gigflow/gigflow-backend/internal/validation"
)

// WebSocket события жизненного цикла откликов.
const (
	EventNewBid = "new_bid"
	EventHired  = "hired"
)

// BidRepository описывает взаимодействие сервиса с хранилищем откликов.
type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.BidWithFreelancer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Bid, error)
	RejectOtherPending(ctx context.Context, gigID, hiredBidID uuid.UUID) (int64, error)
}

// GigRepositoryForBids описывает минимальный контракт с хранилищем гигов.
type GigRepositoryForBids interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	AssignIfOpen(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepositoryForBids описывает минимальный контракт с хранилищем пользователей.
type UserRepositoryForBids interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// WSNotifier интерфейс для отправки WebSocket уведомлений.
type WSNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data interface{}) error
}

// BidService содержит бизнес-логику жизненного цикла откликов:
// создание отклика, просмотр владельцем и найм исполнителя.
type BidService struct {
	bids  BidRepository
	gigs  GigRepositoryForBids
	users UserRepositoryForBids
	hub   WSNotifier
}

// NewBidService создаёт новый сервис откликов.
func NewBidService(bids BidRepository, gigs GigRepositoryForBids, users UserRepositoryForBids) *BidService {
	return &BidService{bids: bids, gigs: gigs, users: users}
}

// SetHub устанавливает WebSocket hub для отправки уведомлений.
func (s *BidService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// SubmitBidInput описывает входные данные отклика.
type SubmitBidInput struct {
	GigID         uuid.UUID
	FreelancerID  uuid.UUID
	Message       string
	ProposedPrice float64
}

// SubmitBid создаёт отклик на открытый гиг.
// Уникальность пары (гиг, фрилансер) гарантирует индекс в хранилище:
// при гонке двух одинаковых откликов проигравший получает Conflict.
func (s *BidService) SubmitBid(ctx context.Context, in SubmitBidInput) (*models.Bid, error) {
	if err := validation.ValidateBidMessage(in.Message); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice("предложенная цена", in.ProposedPrice); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	gig, err := s.gigs.GetByID(ctx, in.GigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить гиг")
	}

	if gig.Status != models.GigStatusOpen {
		return nil, apperror.ErrGigNotOpen
	}

	if gig.OwnerID == in.FreelancerID {
		return nil, apperror.ErrOwnGigBid
	}

	bid := &models.Bid{
		GigID:         in.GigID,
		FreelancerID:  in.FreelancerID,
		Message:       in.Message,
		ProposedPrice: in.ProposedPrice,
		Status:        models.BidStatusPending,
	}

	if err := s.bids.Create(ctx, bid); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.ErrDuplicateBid
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить отклик")
	}

	s.notifyNewBid(ctx, gig, bid)

	return bid, nil
}

// ListBids возвращает отклики на гиг, новые первыми. Доступно только владельцу.
func (s *BidService) ListBids(ctx context.Context, gigID, requesterID uuid.UUID) ([]models.BidWithFreelancer, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить гиг")
	}

	if gig.OwnerID != requesterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отклики видны только владельцу гига")
	}

	bids, err := s.bids.ListByGig(ctx, gigID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить отклики")
	}

	return bids, nil
}

// Hire выбирает исполнителя по отклику. Переход open -> assigned выполняется
// условной записью в хранилище: победителя определяет сама запись, без
// блокировок на уровне приложения. После успеха гонки отклик переводится в
// hired, остальные pending отклики гига отклоняются.
func (s *BidService) Hire(ctx context.Context, bidID, requesterID uuid.UUID) (*models.Bid, error) {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrBidNotFound) {
			return nil, apperror.ErrBidNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить отклик")
	}

	gig, err := s.gigs.GetByID(ctx, bid.GigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить гиг")
	}

	if gig.OwnerID != requesterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нанимать исполнителя может только владелец гига")
	}

	claimed, err := s.gigs.AssignIfOpen(ctx, gig.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить статус гига")
	}
	if !claimed {
		// Конкурирующий найм уже перевёл гиг из open.
		return nil, apperror.ErrGigNotOpenForHire
	}

	// Гонка выиграна: с этого момента найм считается состоявшимся.
	hired, err := s.bids.UpdateStatus(ctx, bid.ID, models.BidStatusHired)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "гиг назначен, но не удалось обновить отклик")
	}

	// Массовое отклонение не входит в ту же атомарную запись, что и найм.
	// Ошибка здесь оставляет pending отклики на не-open гиге; это
	// восстановимое рассогласование, найм не откатывается.
	if _, err := s.bids.RejectOtherPending(ctx, gig.ID, bid.ID); err != nil && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"gig_id": gig.ID,
			"bid_id": bid.ID,
			"error":  err.Error(),
		}).Warn("не удалось отклонить остальные отклики после найма")
	}

	s.notifyHired(gig, hired)

	return hired, nil
}

// notifyNewBid отправляет владельцу гига событие о новом отклике.
// Доставка best-effort: ошибка не влияет на созданный отклик.
func (s *BidService) notifyNewBid(ctx context.Context, gig *models.Gig, bid *models.Bid) {
	if s.hub == nil {
		return
	}

	freelancerName := ""
	if freelancer, err := s.users.GetByID(ctx, bid.FreelancerID); err == nil {
		freelancerName = freelancer.Name
	}

	if err := s.hub.BroadcastToUser(gig.OwnerID, EventNewBid, map[string]interface{}{
		"gig_id":          gig.ID,
		"gig_title":       gig.Title,
		"freelancer_name": freelancerName,
	}); err != nil && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"gig_id": gig.ID,
			"error":  err.Error(),
		}).Warn("не удалось отправить уведомление о новом отклике")
	}
}

// notifyHired отправляет нанятому фрилансеру событие о выборе исполнителя.
func (s *BidService) notifyHired(gig *models.Gig, bid *models.Bid) {
	if s.hub == nil {
		return
	}

	if err := s.hub.BroadcastToUser(bid.FreelancerID, EventHired, map[string]interface{}{
		"gig_id":    gig.ID,
		"gig_title": gig.Title,
		"message":   "Вас выбрали исполнителем для «" + gig.Title + "»",
	}); err != nil && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"gig_id": gig.ID,
			"bid_id": bid.ID,
			"error":  err.Error(),
		}).Warn("не удалось отправить уведомление о найме")
	}
}
