package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
)

func TestGuard_Verify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner, other := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	p := model.OwnedPlayer{ID: uuid.Must(uuid.NewV4()), UserID: owner, CurrentLevel: 1, IsActive: true}
	g := NewGuard(newFakeOwnedRepo(p))

	got, err := g.Verify(ctx, p.ID, owner)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	// another user's instance and a missing instance look the same
	_, err = g.Verify(ctx, p.ID, other)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	_, err = g.Verify(ctx, uuid.Must(uuid.NewV4()), owner)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	_, err = g.Verify(ctx, uuid.Nil, owner)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestGuard_StorageErrorPassesThrough(t *testing.T) {
	t.Parallel()
	repo := newFakeOwnedRepo()
	repo.err = errors.New("db down")
	g := NewGuard(repo)

	_, err := g.Verify(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	require.EqualError(t, err, "db down")
	require.NotErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestVerifyOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.VerifyOwner(ctx, f.player.ID, f.userID))
	require.ErrorIs(t, f.svc.VerifyOwner(ctx, f.player.ID, uuid.Must(uuid.NewV4())), errs.ErrNotAuthorized)
	require.ErrorIs(t, f.svc.VerifyOwner(ctx, uuid.Must(uuid.NewV4()), f.userID), errs.ErrNotAuthorized)
}
