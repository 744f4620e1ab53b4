package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/connectin/backend/internal/models"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository defines the interface for connection data operations
type ConnectionRepository interface {
	CreateRequest(ctx context.Context, req *models.ConnectionRequest) error
	GetRequestByID(ctx context.Context, id uint) (*models.ConnectionRequest, error)
	FindPendingBetween(ctx context.Context, a, b uint) (*models.ConnectionRequest, error)
	GetPendingForRecipient(ctx context.Context, userID uint) ([]models.ConnectionRequest, error)
	Accept(ctx context.Context, requestID uint) (*models.ConnectionRequest, error)
	Reject(ctx context.Context, requestID uint) error
	RemoveConnection(ctx context.Context, a, b uint) error
	AreConnected(ctx context.Context, a, b uint) (bool, error)
	GetConnectionIDs(ctx context.Context, userID uint) ([]uint, error)
	GetConnections(ctx context.Context, userID uint) ([]models.User, error)
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// CreateRequest stores a new pending request. The partial unique index on
// pair_key rejects a second open request for the same pair.
func (r *PostgresConnectionRepository) CreateRequest(ctx context.Context, req *models.ConnectionRequest) error {
	req.Status = models.ConnectionStatusPending
	req.PairKey = models.PairKey(req.SenderID, req.RecipientID)

	err := r.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.InvalidOperation("a connection request already exists between these users")
	}
	return dbError(err, "")
}

// GetRequestByID retrieves a connection request by ID
func (r *PostgresConnectionRepository) GetRequestByID(ctx context.Context, id uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, dbError(err, "connection request not found")
	}
	return &req, nil
}

// FindPendingBetween returns the pending request between a and b in either direction.
func (r *PostgresConnectionRepository) FindPendingBetween(ctx context.Context, a, b uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("pair_key = ? AND status = ?", models.PairKey(a, b), models.ConnectionStatusPending).
		First(&req).Error
	if err != nil {
		return nil, dbError(err, "no pending connection request")
	}
	return &req, nil
}

// GetPendingForRecipient retrieves all pending requests addressed to a user
func (r *PostgresConnectionRepository) GetPendingForRecipient(ctx context.Context, userID uint) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, dbError(err, "")
	}
	return requests, nil
}

// Accept moves a pending request to accepted and links both users in one
// transaction. Losing a race against another accept or reject yields NotFound.
func (r *PostgresConnectionRepository) Accept(ctx context.Context, requestID uint) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ConnectionRequest{}).
			Where("id = ? AND status = ?", requestID, models.ConnectionStatusPending).
			Update("status", models.ConnectionStatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("connection request is no longer pending")
		}

		if err := tx.First(&req, requestID).Error; err != nil {
			return err
		}

		links := []models.UserConnection{
			{UserID: req.SenderID, ConnectionID: req.RecipientID},
			{UserID: req.RecipientID, ConnectionID: req.SenderID},
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
	if err != nil {
		return nil, dbError(err, "connection request not found")
	}
	return &req, nil
}

// Reject moves a pending request to rejected.
func (r *PostgresConnectionRepository) Reject(ctx context.Context, requestID uint) error {
	result := r.db.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("id = ? AND status = ?", requestID, models.ConnectionStatusPending).
		Update("status", models.ConnectionStatusRejected)
	if result.Error != nil {
		return dbError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("connection request is no longer pending")
	}
	return nil
}

// RemoveConnection unlinks both directions and clears the pair's accepted
// requests so that a new request can be sent later.
func (r *PostgresConnectionRepository) RemoveConnection(ctx context.Context, a, b uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("(user_id = ? AND connection_id = ?) OR (user_id = ? AND connection_id = ?)", a, b, b, a).
			Delete(&models.UserConnection{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("users are not connected")
		}

		return tx.Where("pair_key = ? AND status = ?", models.PairKey(a, b), models.ConnectionStatusAccepted).
			Delete(&models.ConnectionRequest{}).Error
	})
	return dbError(err, "")
}

func (r *PostgresConnectionRepository) AreConnected(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserConnection{}).
		Where("user_id = ? AND connection_id = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, dbError(err, "")
	}
	return count > 0, nil
}

func (r *PostgresConnectionRepository) GetConnectionIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.UserConnection{}).
		Where("user_id = ?", userID).
		Order("connection_id").
		Pluck("connection_id", &ids).Error
	if err != nil {
		return nil, dbError(err, "")
	}
	return ids, nil
}

// GetConnections retrieves the connected users of a user
func (r *PostgresConnectionRepository) GetConnections(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	sub := r.db.Model(&models.UserConnection{}).Select("connection_id").Where("user_id = ?", userID)
	if err := r.db.WithContext(ctx).Where("id IN (?)", sub).Order("name").Find(&users).Error; err != nil {
		return nil, dbError(err, "")
	}
	return users, nil
}
