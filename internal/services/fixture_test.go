package services

import (
	"context"
	"testing"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	"github.com/anonto42/connectin/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

type fixture struct {
	db     *gorm.DB
	users  repositories.UserRepository
	conns  repositories.ConnectionRepository
	posts  *testutil.PostStore
	mailer *testutil.Mailer
	images *testutil.ImageStore

	notifications *NotificationService
	connections   *ConnectionService
	postService   *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	f := &fixture{
		db:     db,
		users:  repositories.NewPostgresUserRepository(db),
		conns:  repositories.NewPostgresConnectionRepository(db),
		posts:  testutil.NewPostStore(),
		mailer: &testutil.Mailer{},
		images: &testutil.ImageStore{},
	}
	f.notifications = NewNotificationService(
		repositories.NewPostgresNotificationRepository(db), f.users, f.posts, f.mailer, "http://localhost:5173")
	f.connections = NewConnectionService(f.conns, f.users, f.notifications)
	f.postService = NewPostService(f.posts, f.users, f.conns, f.notifications, NewImages(f.images))
	return f
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	return testutil.CreateUser(t, f.db, username)
}

// connect runs the full send/accept handshake between a and b.
func (f *fixture) connect(t *testing.T, a, b *models.User) {
	t.Helper()

	req, err := f.connections.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = f.connections.AcceptRequest(ctx, req.ID, b.ID)
	require.NoError(t, err)
}

func (f *fixture) notificationsOf(t *testing.T, kind string) []models.Notification {
	t.Helper()

	var out []models.Notification
	require.NoError(t, f.db.Preload("Recipients").Where("type = ?", kind).Order("id").Find(&out).Error)
	return out
}
