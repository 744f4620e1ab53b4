package repositories_test

import (
	"context"
	"testing"

	"github.com/anonto42/connectin/backend/internal/models"
	"github.com/anonto42/connectin/backend/internal/repositories"
	"github.com/anonto42/connectin/backend/internal/testutil"
	apperrors "github.com/anonto42/connectin/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRepository_AcceptWritesBothDirections(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repositories.NewPostgresConnectionRepository(db)
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	ids, err := repo.GetConnectionIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	req := &models.ConnectionRequest{SenderID: a.ID, RecipientID: b.ID}
	require.NoError(t, repo.CreateRequest(ctx, req))
	assert.Equal(t, models.PairKey(b.ID, a.ID), req.PairKey)

	found, err := repo.FindPendingBetween(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, found.ID)

	accepted, err := repo.Accept(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusAccepted, accepted.Status)

	for _, pair := range [][2]uint{{a.ID, b.ID}, {b.ID, a.ID}} {
		ok, err := repo.AreConnected(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err = repo.Accept(ctx, req.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	_, err = repo.FindPendingBetween(ctx, a.ID, b.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestConnectionRepository_OneOpenRequestPerPair(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repositories.NewPostgresConnectionRepository(db)
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	first := &models.ConnectionRequest{SenderID: a.ID, RecipientID: b.ID}
	require.NoError(t, repo.CreateRequest(ctx, first))

	err := repo.CreateRequest(ctx, &models.ConnectionRequest{SenderID: b.ID, RecipientID: a.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidOperation))

	require.NoError(t, repo.Reject(ctx, first.ID))
	assert.True(t, apperrors.HasCode(repo.Reject(ctx, first.ID), apperrors.ErrCodeNotFound))

	// rejected requests no longer hold the pair
	require.NoError(t, repo.CreateRequest(ctx, &models.ConnectionRequest{SenderID: b.ID, RecipientID: a.ID}))
}

func TestConnectionRepository_RemoveConnection(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repositories.NewPostgresConnectionRepository(db)
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	err := repo.RemoveConnection(ctx, a.ID, b.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	req := &models.ConnectionRequest{SenderID: a.ID, RecipientID: b.ID}
	require.NoError(t, repo.CreateRequest(ctx, req))
	_, err = repo.Accept(ctx, req.ID)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveConnection(ctx, b.ID, a.ID))

	ok, err := repo.AreConnected(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ids, err := repo.GetConnectionIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.CreateRequest(ctx, &models.ConnectionRequest{SenderID: a.ID, RecipientID: b.ID}))
}

func TestUserRepository_Suggestions(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	users := repositories.NewPostgresUserRepository(db)
	conns := repositories.NewPostgresConnectionRepository(db)
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	c := testutil.CreateUser(t, db, "carol")

	req := &models.ConnectionRequest{SenderID: a.ID, RecipientID: b.ID}
	require.NoError(t, conns.CreateRequest(ctx, req))
	_, err := conns.Accept(ctx, req.ID)
	require.NoError(t, err)

	suggestions, err := users.GetSuggestions(ctx, a.ID, 3)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, c.ID, suggestions[0].ID)

	byID, err := users.GetUsersByIDs(ctx, []uint{a.ID, c.ID, a.ID})
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	_, err = users.GetUserByUsername(ctx, "nobody")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	assert.True(t, apperrors.HasCode(users.CreateUser(ctx, &models.User{Name: "Dup", Username: "alice", Email: "x@example.com"}), apperrors.ErrCodeAlreadyExists))
}
