package repositories

import (
	"context"

	"github.com/anonto42/connectin/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// Create inserts the notification together with its recipient rows.
func (r *postgresNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return dbError(r.db.WithContext(ctx).Create(notification).Error, "")
}

func (r *postgresNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).Preload("Recipients").First(&n, id).Error; err != nil {
		return nil, dbError(err, "notification not found")
	}
	return &n, nil
}

// ListForUser returns the notifications addressed to a user, newest first.
func (r *postgresNotificationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Joins("JOIN notification_recipients nr ON nr.notification_id = notifications.id").
		Where("nr.user_id = ?", userID).
		Preload("Recipients").
		Order("notifications.created_at DESC").
		Order("notifications.id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, dbError(err, "")
	}
	return notifications, nil
}

func (r *postgresNotificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Joins("JOIN notification_recipients nr ON nr.notification_id = notifications.id").
		Where("nr.user_id = ? AND notifications.read = ?", userID, false).
		Count(&count).Error
	return count, dbError(err, "")
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return dbError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return dbError(gorm.ErrRecordNotFound, "notification not found")
	}
	return nil
}

// Delete removes the notification and its recipient rows.
func (r *postgresNotificationRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notification_id = ?", id).Delete(&models.NotificationRecipient{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Notification{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return dbError(err, "notification not found")
}
