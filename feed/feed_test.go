package feed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/feed"
	"github.com/cppla/yatube/follow"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/paginator"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/store/storetest"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func ids(t *testing.T, seq paginator.Sequence[models.Post]) []uint {
	t.Helper()
	posts, err := seq.Slice(context.Background(), 0, 100)
	require.NoError(t, err)
	out := []uint{}
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func setup(t *testing.T) (*feed.Assembler, *follow.Graph, *store.Store) {
	t.Helper()
	s := store.New(storetest.NewDB(t))
	g := follow.NewGraph(s)
	return feed.NewAssembler(s, g), g, s
}

func TestGlobal_NewestFirst(t *testing.T) {
	a, _, s := setup(t)
	db := s.DB()
	u := storetest.CreateUser(t, db, "alice")
	p1 := storetest.CreatePost(t, db, u, nil, base, storetest.PostText(1))
	p2 := storetest.CreatePost(t, db, u, nil, base.Add(time.Minute), storetest.PostText(2))

	assert.Equal(t, []uint{p2.ID, p1.ID}, ids(t, a.Global()))
}

func TestGroup_FiltersAndUnknownSlug(t *testing.T) {
	ctx := context.Background()
	a, _, s := setup(t)
	db := s.DB()
	u := storetest.CreateUser(t, db, "alice")
	cats := storetest.CreateGroup(t, db, "cats")
	inGroup := storetest.CreatePost(t, db, u, cats, base, storetest.PostText(1))
	storetest.CreatePost(t, db, u, nil, base.Add(time.Minute), storetest.PostText(2))

	g, seq, err := a.Group(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, cats.ID, g.ID)
	assert.Equal(t, []uint{inGroup.ID}, ids(t, seq))

	_, _, err = a.Group(ctx, "dogs")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestProfile_OnlyAuthorPosts(t *testing.T) {
	ctx := context.Background()
	a, _, s := setup(t)
	db := s.DB()
	alice := storetest.CreateUser(t, db, "alice")
	bob := storetest.CreateUser(t, db, "bob")
	mine := storetest.CreatePost(t, db, alice, nil, base, storetest.PostText(1))
	storetest.CreatePost(t, db, bob, nil, base, storetest.PostText(2))

	u, seq, err := a.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.Equal(t, []uint{mine.ID}, ids(t, seq))

	_, _, err = a.Profile(ctx, "nobody")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestFollowed_TracksFollowSet(t *testing.T) {
	ctx := context.Background()
	a, g, s := setup(t)
	db := s.DB()
	reader := storetest.CreateUser(t, db, "reader")
	alice := storetest.CreateUser(t, db, "alice")
	bob := storetest.CreateUser(t, db, "bob")
	pa := storetest.CreatePost(t, db, alice, nil, base, storetest.PostText(1))
	pb := storetest.CreatePost(t, db, bob, nil, base.Add(time.Minute), storetest.PostText(2))
	storetest.CreatePost(t, db, reader, nil, base.Add(2*time.Minute), storetest.PostText(3))

	seq := a.Followed(reader.ID)
	n, err := seq.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.Empty(t, ids(t, seq))

	require.NoError(t, g.Follow(ctx, reader.ID, alice.ID))
	assert.Equal(t, []uint{pa.ID}, ids(t, seq))

	require.NoError(t, g.Follow(ctx, reader.ID, bob.ID))
	assert.Equal(t, []uint{pb.ID, pa.ID}, ids(t, seq))

	page, err := paginator.Paginate(ctx, seq, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
}
