package repositories

import (
	"errors"

	"github.com/anonto42/connectin/backend/internal/models"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every relational table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserConnection{},
		&models.ConnectionRequest{},
		&models.Notification{},
		&models.NotificationRecipient{},
	)
}

// dbError converts GORM errors into AppErrors.
func dbError(err error, notFound string) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Wrap(err, apperrors.ErrCodeAlreadyExists, "record already exists")
	default:
		return apperrors.Internal(err, "database error")
	}
}
