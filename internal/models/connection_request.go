package models

import (
	"fmt"
	"time"
)

// ConnectionRequest represents a connection request between two users
type ConnectionRequest struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	SenderID    uint   `json:"sender_id" gorm:"index;not null"`
	RecipientID uint   `json:"recipient_id" gorm:"index;not null"`
	Status      string `json:"status" gorm:"type:varchar(20);not null;index"`
	// Unordered pair key; at most one non-rejected request may exist per pair.
	PairKey   string    `json:"-" gorm:"size:41;not null;uniqueIndex:idx_open_request_pair,where:status <> 'rejected'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Connection request status constants
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusRejected = "rejected"
)

// Connection status as seen by one user looking at another
const (
	RelationNotConnected    = "not_connected"
	RelationRequestSent     = "request_sent"
	RelationRequestReceived = "request_received"
	RelationConnected       = "connected"
)

// PairKey returns the same key for (a, b) and (b, a).
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// ConnectionStatus is the response of the status lookup.
type ConnectionStatus struct {
	Status    string `json:"status"`
	RequestID uint   `json:"request_id,omitempty"`
}

// PendingRequestView is an incoming request with its sender populated.
type PendingRequestView struct {
	ID        uint        `json:"id"`
	Sender    UserCompact `json:"sender"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
