package models

import "time"

// Notification types
const (
	NotificationTypeLike               = "like"
	NotificationTypeComment            = "comment"
	NotificationTypeConnectionAccepted = "connectionAccepted"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID            uint                    `json:"id" gorm:"primaryKey"`
	Type          string                  `json:"type" gorm:"size:30;index;not null"`
	RelatedUserID uint                    `json:"related_user_id" gorm:"index"`
	RelatedPostID string                  `json:"related_post_id,omitempty" gorm:"size:24"` // MongoDB ObjectID hex
	Read          bool                    `json:"read" gorm:"not null;default:false;index"`
	CreatedAt     time.Time               `json:"created_at" gorm:"index"`
	Recipients    []NotificationRecipient `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// NotificationRecipient addresses a notification to one user.
type NotificationRecipient struct {
	NotificationID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID         uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (n *Notification) RecipientIDs() []uint {
	ids := make([]uint, len(n.Recipients))
	for i, r := range n.Recipients {
		ids[i] = r.UserID
	}
	return ids
}

func (n *Notification) IsRecipient(userID uint) bool {
	for _, r := range n.Recipients {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// NotificationView is a notification with its related entities populated.
type NotificationView struct {
	ID          uint         `json:"id"`
	Type        string       `json:"type"`
	Recipients  []uint       `json:"recipients"`
	RelatedUser *UserCompact `json:"related_user"`
	RelatedPost *PostCompact `json:"related_post,omitempty"`
	Read        bool         `json:"read"`
	CreatedAt   time.Time    `json:"created_at"`
}
