package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gigflow/gigflow-backend/internal/models"
)

// GigRepository отвечает за работу с гигами.
type GigRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// Ошибки уровня репозитория.
var (
	ErrGigNotFound = errors.New("gig not found")
)

// NewGigRepository создаёт новый экземпляр.
func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create сохраняет новый гиг со статусом open.
func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	query := `
		INSERT INTO gigs (owner_id, title, description, budget, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		gig.OwnerID,
		gig.Title,
		gig.Description,
		gig.Budget,
		gig.Status,
	).Scan(&gig.ID, &gig.CreatedAt); err != nil {
		return fmt.Errorf("gig repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает гиг по идентификатору.
func (r *GigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	query := `
		SELECT id, owner_id, title, description, budget, status, created_at
		FROM gigs
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &gig, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("gig repository: get by id %w", err)
	}
	return &gig, nil
}

// GetByIDWithOwner возвращает гиг вместе с публичными данными владельца.
func (r *GigRepository) GetByIDWithOwner(ctx context.Context, id uuid.UUID) (*models.GigWithOwner, error) {
	var gig models.GigWithOwner
	query := `
		SELECT g.id, g.owner_id, g.title, g.description, g.budget, g.status, g.created_at,
		       u.name AS owner_name, u.email AS owner_email
		FROM gigs g
		JOIN users u ON u.id = g.owner_id
		WHERE g.id = $1
	`
	if err := r.db.GetContext(ctx, &gig, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("gig repository: get by id with owner %w", err)
	}
	return &gig, nil
}

// ListFilterParams задаёт фильтры списка гигов.
type ListFilterParams struct {
	Search string
	Status string
	Limit  int
	Offset int
}

// List возвращает гиги с фильтрацией по статусу и текстовым поиском, новые первыми.
func (r *GigRepository) List(ctx context.Context, params ListFilterParams) ([]models.GigWithOwner, error) {
	qb := r.builder.
		Select(
			"g.id", "g.owner_id", "g.title", "g.description", "g.budget", "g.status", "g.created_at",
			"u.name AS owner_name", "u.email AS owner_email",
		).
		From("gigs g").
		Join("users u ON u.id = g.owner_id").
		OrderBy("g.created_at DESC")

	if params.Status != "" {
		qb = qb.Where(sq.Eq{"g.status": params.Status})
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"g.title": pattern},
			sq.ILike{"g.description": pattern},
		})
	}

	if params.Limit > 0 {
		qb = qb.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		qb = qb.Offset(uint64(params.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("gig repository: build list query %w", err)
	}

	gigs := []models.GigWithOwner{}
	if err := r.db.SelectContext(ctx, &gigs, query, args...); err != nil {
		return nil, fmt.Errorf("gig repository: list %w", err)
	}

	return gigs, nil
}

// AssignIfOpen атомарно переводит гиг из open в assigned.
// Условие на текущий статус входит в сам UPDATE: хранилище остаётся
// единственным арбитром гонки, победитель определяется порядком записи.
// Возвращает false, если гиг уже покинул статус open.
func (r *GigRepository) AssignIfOpen(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE gigs
		SET status = $1
		WHERE id = $2 AND status = $3
	`
	res, err := r.db.ExecContext(ctx, query, models.GigStatusAssigned, id, models.GigStatusOpen)
	if err != nil {
		return false, fmt.Errorf("gig repository: assign if open %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("gig repository: assign if open rows affected %w", err)
	}

	return affected == 1, nil
}

// Delete удаляет гиг. Отклики удаляются каскадно на уровне схемы.
func (r *GigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gigs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("gig repository: delete %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("gig repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrGigNotFound
	}

	return nil
}
