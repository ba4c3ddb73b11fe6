package follow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/follow"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/store/storetest"
)

func TestFollow_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)
	s := store.New(db)
	g := follow.NewGraph(s)
	alice := storetest.CreateUser(t, db, "alice")
	bob := storetest.CreateUser(t, db, "bob")

	require.NoError(t, g.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, g.Follow(ctx, alice.ID, bob.ID))

	n, err := s.CountFollows(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := g.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	authors, err := g.FollowedAuthors(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, authors)
}

func TestFollow_SelfIsNoop(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)
	s := store.New(db)
	g := follow.NewGraph(s)
	alice := storetest.CreateUser(t, db, "alice")

	require.NoError(t, g.Follow(ctx, alice.ID, alice.ID))

	n, err := s.CountFollows(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestUnfollow_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := storetest.NewDB(t)
	s := store.New(db)
	g := follow.NewGraph(s)
	alice := storetest.CreateUser(t, db, "alice")
	bob := storetest.CreateUser(t, db, "bob")

	require.NoError(t, g.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, g.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, g.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, g.Unfollow(ctx, alice.ID, bob.ID))

	ok, err := g.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsFollowing_Anonymous(t *testing.T) {
	db := storetest.NewDB(t)
	g := follow.NewGraph(store.New(db))
	bob := storetest.CreateUser(t, db, "bob")

	ok, err := g.IsFollowing(context.Background(), 0, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
