package services

import (
	"context"
	"fmt"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/anonto42/connectin/backend/pkg/mailer"
	"github.com/anonto42/connectin/backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailNotifier delivers a single email. Failures are never fatal to the caller.
type EmailNotifier interface {
	NotifyByEmail(ctx context.Context, to string, payload mailer.Payload) error
}

// Event describes one domain event to fan out.
type Event struct {
	Type        string
	Recipients  []uint
	RelatedUser uint
	RelatedPost string
	// Excerpt is quoted in the comment email.
	Excerpt string
}

type NotificationService struct {
	repo      repositories.NotificationRepository
	users     repositories.UserRepository
	posts     repositories.PostRepository
	email     EmailNotifier
	clientURL string
}

func NewNotificationService(
	repo repositories.NotificationRepository,
	users repositories.UserRepository,
	posts repositories.PostRepository,
	email EmailNotifier,
	clientURL string,
) *NotificationService {
	return &NotificationService{
		repo:      repo,
		users:     users,
		posts:     posts,
		email:     email,
		clientURL: clientURL,
	}
}

// Emit stores one notification addressed to every recipient except the
// actor. It returns nil when no recipient is left.
func (s *NotificationService) Emit(ctx context.Context, ev Event) (*models.Notification, error) {
	switch ev.Type {
	case models.NotificationTypeLike, models.NotificationTypeComment, models.NotificationTypeConnectionAccepted:
	default:
		return nil, apperrors.Validation(fmt.Sprintf("unknown notification type %q", ev.Type))
	}

	recipients := make([]models.NotificationRecipient, 0, len(ev.Recipients))
	seen := make(map[uint]bool, len(ev.Recipients))
	for _, id := range ev.Recipients {
		if id == 0 || id == ev.RelatedUser || seen[id] {
			continue
		}
		seen[id] = true
		recipients = append(recipients, models.NotificationRecipient{UserID: id})
	}
	if len(recipients) == 0 {
		metrics.NotificationsSuppressed.WithLabelValues(ev.Type).Inc()
		return nil, nil
	}

	n := &models.Notification{
		Type:          ev.Type,
		RelatedUserID: ev.RelatedUser,
		RelatedPostID: ev.RelatedPost,
		Recipients:    recipients,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.NotificationsEmitted.WithLabelValues(ev.Type).Inc()

	if ev.Type == models.NotificationTypeComment {
		s.sendCommentEmails(ctx, n, ev.Excerpt)
	}
	return n, nil
}

// sendCommentEmails is best-effort: every failure is logged and counted.
func (s *NotificationService) sendCommentEmails(ctx context.Context, n *models.Notification, excerpt string) {
	if s.email == nil {
		return
	}

	ids := append(n.RecipientIDs(), n.RelatedUserID)
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		metrics.EmailFailures.WithLabelValues(mailer.KindComment).Inc()
		logger.Error("Failed to resolve comment email recipients", "notification_id", n.ID, "error", err)
		return
	}
	actor := users[n.RelatedUserID]

	for _, id := range n.RecipientIDs() {
		recipient, ok := users[id]
		if !ok || recipient.Email == "" {
			continue
		}
		payload := mailer.Payload{
			Kind:          mailer.KindComment,
			RecipientName: recipient.Name,
			ActorName:     actor.Name,
			PostURL:       fmt.Sprintf("%s/post/%s", s.clientURL, n.RelatedPostID),
			Content:       excerpt,
		}
		if err := s.email.NotifyByEmail(ctx, recipient.Email, payload); err != nil {
			metrics.EmailFailures.WithLabelValues(mailer.KindComment).Inc()
			logger.Warn("Comment email not delivered", "user_id", id, "notification_id", n.ID, "error", err)
		}
	}
}

// ListForUser returns the user's notifications, newest first, with the
// related user and post resolved.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]models.NotificationView, error) {
	notifications, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(notifications))
	postIDs := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		userIDs = append(userIDs, n.RelatedUserID)
		if oid, err := primitive.ObjectIDFromHex(n.RelatedPostID); err == nil {
			postIDs = append(postIDs, oid)
		}
	}

	users, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := models.NotificationView{
			ID:         n.ID,
			Type:       n.Type,
			Recipients: n.RecipientIDs(),
			Read:       n.Read,
			CreatedAt:  n.CreatedAt,
		}
		if u, ok := users[n.RelatedUserID]; ok {
			compact := u.ToCompact()
			view.RelatedUser = &compact
		}
		if oid, err := primitive.ObjectIDFromHex(n.RelatedPostID); err == nil {
			if p, ok := posts[oid]; ok {
				compact := p.ToCompact()
				view.RelatedPost = &compact
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead flips read to true. Marking an already read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, id, actor uint) (*models.Notification, error) {
	n, err := s.ownedBy(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id, actor uint) error {
	if _, err := s.ownedBy(ctx, id, actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *NotificationService) ownedBy(ctx context.Context, id, actor uint) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRecipient(actor) {
		return nil, apperrors.Forbidden("notification belongs to another user")
	}
	return n, nil
}
