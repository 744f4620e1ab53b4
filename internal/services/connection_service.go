package services

import (
	"context"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/anonto42/connectin/backend/pkg/metrics"
)

// ConnectionService drives the connection request lifecycle:
// none -> pending -> accepted | rejected, and accepted -> none on removal.
type ConnectionService struct {
	conns    repositories.ConnectionRepository
	users    repositories.UserRepository
	notifier *NotificationService
}

func NewConnectionService(conns repositories.ConnectionRepository, users repositories.UserRepository, notifier *NotificationService) *ConnectionService {
	return &ConnectionService{
		conns:    conns,
		users:    users,
		notifier: notifier,
	}
}

func (s *ConnectionService) SendRequest(ctx context.Context, requester, target uint) (*models.ConnectionRequest, error) {
	if requester == target {
		return nil, apperrors.InvalidOperation("you can't send a request to yourself")
	}
	if _, err := s.users.GetUserByID(ctx, target); err != nil {
		return nil, err
	}

	connected, err := s.conns.AreConnected(ctx, requester, target)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, apperrors.InvalidOperation("you are already connected")
	}

	existing, err := s.conns.FindPendingBetween(ctx, requester, target)
	if err != nil && !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.SenderID == requester {
			return nil, apperrors.InvalidOperation("a connection request already exists")
		}
		return nil, apperrors.InvalidOperation("this user already sent you a connection request")
	}

	req := &models.ConnectionRequest{SenderID: requester, RecipientID: target}
	if err := s.conns.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	metrics.ConnectionTransitions.WithLabelValues("requested").Inc()
	return req, nil
}

// AcceptRequest links both users and notifies the original sender.
func (s *ConnectionService) AcceptRequest(ctx context.Context, requestID, actor uint) (*models.ConnectionRequest, error) {
	if _, err := s.pendingFor(ctx, requestID, actor); err != nil {
		return nil, err
	}

	req, err := s.conns.Accept(ctx, requestID)
	if err != nil {
		return nil, err
	}
	metrics.ConnectionTransitions.WithLabelValues("accepted").Inc()

	// the connection is committed at this point; a failed notification is only logged
	if _, err := s.notifier.Emit(ctx, Event{
		Type:        models.NotificationTypeConnectionAccepted,
		Recipients:  []uint{req.SenderID},
		RelatedUser: actor,
	}); err != nil {
		logger.Error("Failed to emit connection accepted notification", "request_id", req.ID, "error", err)
	}
	return req, nil
}

func (s *ConnectionService) RejectRequest(ctx context.Context, requestID, actor uint) (*models.ConnectionRequest, error) {
	req, err := s.pendingFor(ctx, requestID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.conns.Reject(ctx, requestID); err != nil {
		return nil, err
	}
	metrics.ConnectionTransitions.WithLabelValues("rejected").Inc()
	req.Status = models.ConnectionStatusRejected
	return req, nil
}

// pendingFor loads a request the actor may act on as its recipient.
func (s *ConnectionService) pendingFor(ctx context.Context, requestID, actor uint) (*models.ConnectionRequest, error) {
	req, err := s.conns.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RecipientID != actor {
		return nil, apperrors.Forbidden("not authorized to respond to this request")
	}
	if req.Status != models.ConnectionStatusPending {
		return nil, apperrors.NotFound("this request has already been processed")
	}
	return req, nil
}

func (s *ConnectionService) RemoveConnection(ctx context.Context, actor, other uint) error {
	if err := s.conns.RemoveConnection(ctx, actor, other); err != nil {
		return err
	}
	metrics.ConnectionTransitions.WithLabelValues("removed").Inc()
	return nil
}

// GetStatus derives the relation between viewer and target from the store.
func (s *ConnectionService) GetStatus(ctx context.Context, viewer, target uint) (*models.ConnectionStatus, error) {
	connected, err := s.conns.AreConnected(ctx, viewer, target)
	if err != nil {
		return nil, err
	}
	if connected {
		return &models.ConnectionStatus{Status: models.RelationConnected}, nil
	}

	pending, err := s.conns.FindPendingBetween(ctx, viewer, target)
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeNotFound):
		return &models.ConnectionStatus{Status: models.RelationNotConnected}, nil
	case err != nil:
		return nil, err
	case pending.SenderID == viewer:
		return &models.ConnectionStatus{Status: models.RelationRequestSent, RequestID: pending.ID}, nil
	default:
		return &models.ConnectionStatus{Status: models.RelationRequestReceived, RequestID: pending.ID}, nil
	}
}

// ListPendingRequests returns the incoming pending requests with sender summaries.
func (s *ConnectionService) ListPendingRequests(ctx context.Context, userID uint) ([]models.PendingRequestView, error) {
	requests, err := s.conns.GetPendingForRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint, len(requests))
	for i, r := range requests {
		senderIDs[i] = r.SenderID
	}
	senders, err := s.users.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.PendingRequestView, 0, len(requests))
	for _, r := range requests {
		sender, ok := senders[r.SenderID]
		if !ok {
			continue
		}
		views = append(views, models.PendingRequestView{
			ID:        r.ID,
			Sender:    sender.ToCompact(),
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return views, nil
}

func (s *ConnectionService) ListConnections(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	users, err := s.conns.GetConnections(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out, nil
}
