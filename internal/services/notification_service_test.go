package services

import (
	"errors"
	"testing"

	"github.com/anonto42/connectin/backend/internal/models"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/anonto42/connectin/backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit_SuppressesActor(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	n, err := f.notifications.Emit(ctx, Event{
		Type:        models.NotificationTypeLike,
		Recipients:  []uint{alice.ID},
		RelatedUser: alice.ID,
		RelatedPost: "65f000000000000000000001",
	})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, f.notificationsOf(t, models.NotificationTypeLike))
}

func TestEmit_DeduplicatesRecipients(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")

	n, err := f.notifications.Emit(ctx, Event{
		Type:        models.NotificationTypeLike,
		Recipients:  []uint{bob.ID, alice.ID, bob.ID, carol.ID},
		RelatedUser: alice.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, n)

	stored := f.notificationsOf(t, models.NotificationTypeLike)
	require.Len(t, stored, 1)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, stored[0].RecipientIDs())
	assert.False(t, stored[0].Read)
}

func TestEmit_UnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.notifications.Emit(ctx, Event{Type: "follow", Recipients: []uint{1}, RelatedUser: 2})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestEmit_CommentSendsEmail(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	_, err := f.notifications.Emit(ctx, Event{
		Type:        models.NotificationTypeComment,
		Recipients:  []uint{alice.ID},
		RelatedUser: bob.ID,
		RelatedPost: "65f000000000000000000001",
		Excerpt:     "Nice!",
	})
	require.NoError(t, err)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, alice.Email, sent[0].To)
	assert.Equal(t, mailer.KindComment, sent[0].Payload.Kind)
	assert.Equal(t, alice.Name, sent[0].Payload.RecipientName)
	assert.Equal(t, bob.Name, sent[0].Payload.ActorName)
	assert.Equal(t, "Nice!", sent[0].Payload.Content)
	assert.Equal(t, "http://localhost:5173/post/65f000000000000000000001", sent[0].Payload.PostURL)
}

func TestEmit_EmailFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.mailer.Err = errors.New("smtp: connection refused")

	n, err := f.notifications.Emit(ctx, Event{
		Type:        models.NotificationTypeComment,
		Recipients:  []uint{alice.ID},
		RelatedUser: bob.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Len(t, f.mailer.Sent(), 1)
	assert.Len(t, f.notificationsOf(t, models.NotificationTypeComment), 1)
}

func TestEmit_LikeSendsNoEmail(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	_, err := f.notifications.Emit(ctx, Event{
		Type:        models.NotificationTypeLike,
		Recipients:  []uint{alice.ID},
		RelatedUser: bob.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.Sent())
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")

	post, err := f.postService.CreatePost(ctx, alice.ID, "Hello", "")
	require.NoError(t, err)

	_, err = f.notifications.Emit(ctx, Event{
		Type: models.NotificationTypeLike, Recipients: []uint{alice.ID}, RelatedUser: bob.ID, RelatedPost: post.ID,
	})
	require.NoError(t, err)
	_, err = f.notifications.Emit(ctx, Event{
		Type: models.NotificationTypeConnectionAccepted, Recipients: []uint{alice.ID}, RelatedUser: carol.ID,
	})
	require.NoError(t, err)
	_, err = f.notifications.Emit(ctx, Event{
		Type: models.NotificationTypeLike, Recipients: []uint{bob.ID}, RelatedUser: carol.ID,
	})
	require.NoError(t, err)

	views, err := f.notifications.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// newest first
	assert.Equal(t, models.NotificationTypeConnectionAccepted, views[0].Type)
	require.NotNil(t, views[0].RelatedUser)
	assert.Equal(t, "carol", views[0].RelatedUser.Username)
	assert.Nil(t, views[0].RelatedPost)

	assert.Equal(t, models.NotificationTypeLike, views[1].Type)
	require.NotNil(t, views[1].RelatedUser)
	assert.Equal(t, "bob", views[1].RelatedUser.Username)
	require.NotNil(t, views[1].RelatedPost)
	assert.Equal(t, "Hello", views[1].RelatedPost.Content)
	assert.Equal(t, []uint{alice.ID}, views[1].Recipients)

	count, err := f.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMarkRead_Idempotent(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	n, err := f.notifications.Emit(ctx, Event{
		Type: models.NotificationTypeLike, Recipients: []uint{alice.ID}, RelatedUser: bob.ID,
	})
	require.NoError(t, err)

	_, err = f.notifications.MarkRead(ctx, n.ID, bob.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeForbidden))

	_, err = f.notifications.MarkRead(ctx, 9999, alice.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	for i := 0; i < 2; i++ {
		read, err := f.notifications.MarkRead(ctx, n.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, read.Read)
	}

	count, err := f.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteNotification(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	n, err := f.notifications.Emit(ctx, Event{
		Type: models.NotificationTypeLike, Recipients: []uint{alice.ID}, RelatedUser: bob.ID,
	})
	require.NoError(t, err)

	err = f.notifications.Delete(ctx, n.ID, bob.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeForbidden))

	require.NoError(t, f.notifications.Delete(ctx, n.ID, alice.ID))

	err = f.notifications.Delete(ctx, n.ID, alice.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	var recipients int64
	require.NoError(t, f.db.Model(&models.NotificationRecipient{}).Count(&recipients).Error)
	assert.Zero(t, recipients)
}
