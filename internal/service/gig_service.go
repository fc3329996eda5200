package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gigflow/gigflow-backend/internal/models"
	"github.com/gigflow/gigflow-backend/internal/pkg/apperror"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/gigflow/gigflow-backend/internal/validation"
)

// GigRepository описывает взаимодействие сервиса с хранилищем гигов.
type GigRepository interface {
	Create(ctx context.Context, gig *models.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	GetByIDWithOwner(ctx context.Context, id uuid.UUID) (*models.GigWithOwner, error)
	List(ctx context.Context, params repository.ListFilterParams) ([]models.GigWithOwner, error)
	AssignIfOpen(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GigService содержит бизнес-логику работы с гигами.
type GigService struct {
	repo GigRepository
}

// NewGigService создаёт новый сервис гигов.
func NewGigService(repo GigRepository) *GigService {
	return &GigService{repo: repo}
}

// CreateGigInput описывает входные данные.
type CreateGigInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Budget      float64
}

// CreateGig создаёт гиг со статусом open и возвращает его.
func (s *GigService) CreateGig(ctx context.Context, in CreateGigInput) (*models.Gig, error) {
	if err := validation.ValidateGigTitle(in.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateGigDescription(in.Description); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice("бюджет", in.Budget); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	gig := &models.Gig{
		OwnerID:     in.OwnerID,
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		Status:      models.GigStatusOpen,
	}

	if err := s.repo.Create(ctx, gig); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать гиг")
	}

	return gig, nil
}

// ListGigs возвращает гиги с фильтрацией и поиском.
// Без явного статуса показываются только открытые гиги.
func (s *GigService) ListGigs(ctx context.Context, params repository.ListFilterParams) ([]models.GigWithOwner, error) {
	if params.Status == "" {
		params.Status = models.GigStatusOpen
	} else if _, ok := models.ValidGigStatuses[params.Status]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус гига")
	}

	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	gigs, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить гиги")
	}

	return gigs, nil
}

// GetGig возвращает гиг с данными владельца.
func (s *GigService) GetGig(ctx context.Context, id uuid.UUID) (*models.GigWithOwner, error) {
	gig, err := s.repo.GetByIDWithOwner(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить гиг")
	}
	return gig, nil
}

// DeleteGig удаляет гиг. Разрешено владельцу и администратору.
func (s *GigService) DeleteGig(ctx context.Context, id, requesterID uuid.UUID, requesterRole string) error {
	gig, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return apperror.ErrGigNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить гиг")
	}

	if gig.OwnerID != requesterID && requesterRole != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeForbidden, "нет прав на удаление этого гига")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return apperror.ErrGigNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось удалить гиг")
	}

	return nil
}
