package repositories

import (
	"context"

	"github.com/anonto42/connectin/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	GetSuggestions(ctx context.Context, userID uint, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return dbError(r.db.WithContext(ctx).Create(user).Error, "")
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, dbError(err, "user not found")
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, dbError(err, "user not found")
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, dbError(err, "user not found")
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, dbError(err, "user not found")
	}
	return &user, nil
}

// GetUsersByIDs resolves a batch of ids; missing ids are absent from the map.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	result := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, dbError(err, "")
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return dbError(r.db.WithContext(ctx).Save(user).Error, "user not found")
}

// GetSuggestions returns users who are neither the given user nor connected to them.
func (r *PostgresUserRepository) GetSuggestions(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	var users []models.User
	connected := r.db.Model(&models.UserConnection{}).Select("connection_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("id <> ? AND id NOT IN (?)", userID, connected).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, dbError(err, "")
	}
	return users, nil
}
