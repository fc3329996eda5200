package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gigflow/gigflow-backend/internal/models"
	"github.com/gigflow/gigflow-backend/internal/repository/common"
)

// BidRepository отвечает за работу с откликами на гиги.
type BidRepository struct {
	db *sqlx.DB
}

// ErrBidNotFound возвращается, когда отклик не найден.
var ErrBidNotFound = errors.New("bid not found")

// Код PostgreSQL для нарушения уникального ограничения.
const pgUniqueViolation = "23505"

// NewBidRepository создаёт новый экземпляр.
func NewBidRepository(db *sqlx.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create сохраняет новый отклик. Нарушение уникального индекса
// (gig_id, freelancer_id) возвращается как common.ErrAlreadyExists:
// при гонке двух одинаковых откликов проигравший получает именно её.
func (r *BidRepository) Create(ctx context.Context, bid *models.Bid) error {
	query := `
		INSERT INTO bids (gig_id, freelancer_id, message, proposed_price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		bid.GigID,
		bid.FreelancerID,
		bid.Message,
		bid.ProposedPrice,
		bid.Status,
	).Scan(&bid.ID, &bid.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("bid repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает отклик по идентификатору.
func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	query := `
		SELECT id, gig_id, freelancer_id, message, proposed_price, status, created_at
		FROM bids
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &bid, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("bid repository: get by id %w", err)
	}
	return &bid, nil
}

// ListByGig возвращает отклики на гиг с данными фрилансеров, новые первыми.
func (r *BidRepository) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.BidWithFreelancer, error) {
	bids := []models.BidWithFreelancer{}
	query := `
		SELECT b.id, b.gig_id, b.freelancer_id, b.message, b.proposed_price, b.status, b.created_at,
		       u.name AS freelancer_name, u.email AS freelancer_email
		FROM bids b
		JOIN users u ON u.id = b.freelancer_id
		WHERE b.gig_id = $1
		ORDER BY b.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &bids, query, gigID); err != nil {
		return nil, fmt.Errorf("bid repository: list by gig %w", err)
	}
	return bids, nil
}

// UpdateStatus устанавливает статус отклика и возвращает обновлённую запись.
func (r *BidRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Bid, error) {
	var bid models.Bid
	query := `
		UPDATE bids
		SET status = $1
		WHERE id = $2
		RETURNING id, gig_id, freelancer_id, message, proposed_price, status, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, status, id).StructScan(&bid); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("bid repository: update status %w", err)
	}
	return &bid, nil
}

// RejectOtherPending переводит все прочие pending отклики гига в rejected.
// Отклики в статусах withdrawn/hired/rejected не затрагиваются.
// Возвращает количество отклонённых откликов.
func (r *BidRepository) RejectOtherPending(ctx context.Context, gigID, hiredBidID uuid.UUID) (int64, error) {
	query := `
		UPDATE bids
		SET status = $1
		WHERE gig_id = $2 AND id <> $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, models.BidStatusRejected, gigID, hiredBidID, models.BidStatusPending)
	if err != nil {
		return 0, fmt.Errorf("bid repository: reject other pending %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bid repository: reject other pending rows affected %w", err)
	}

	return affected, nil
}
