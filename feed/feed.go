// Package feed selects the posts shown on each listing page.
// Every listing is ordered newest first (created_at, then id) and is returned
// as a lazy paginator.Sequence that re-queries the store on each use.
package feed

import (
	"context"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/paginator"
	"github.com/cppla/yatube/store"
)

// Source is the subset of the store the assembler reads.
type Source interface {
	GroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	Posts(f store.PostFilter) paginator.Sequence[models.Post]
}

// Follows resolves the authors a user subscribes to.
type Follows interface {
	FollowedAuthors(ctx context.Context, userID uint) ([]uint, error)
}

// Assembler builds the global, group, profile and followed feeds.
type Assembler struct {
	src     Source
	follows Follows
}

// NewAssembler wires the assembler to its data sources.
func NewAssembler(src Source, follows Follows) *Assembler {
	return &Assembler{src: src, follows: follows}
}

// Global lists every post.
func (a *Assembler) Global() paginator.Sequence[models.Post] {
	return a.src.Posts(store.PostFilter{})
}

// Group lists the posts of the group with slug. Unknown slugs wrap store.ErrNotFound.
func (a *Assembler) Group(ctx context.Context, slug string) (*models.Group, paginator.Sequence[models.Post], error) {
	g, err := a.src.GroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	return g, a.src.Posts(store.PostFilter{GroupID: g.ID}), nil
}

// Profile lists the posts written by username.
func (a *Assembler) Profile(ctx context.Context, username string) (*models.User, paginator.Sequence[models.Post], error) {
	u, err := a.src.UserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	return u, a.src.Posts(store.PostFilter{AuthorID: u.ID}), nil
}

// Followed lists posts by the authors userID follows. The follow set is
// read again on every Count and Slice.
func (a *Assembler) Followed(userID uint) paginator.Sequence[models.Post] {
	return followedSequence{a: a, userID: userID}
}

type followedSequence struct {
	a      *Assembler
	userID uint
}

func (s followedSequence) resolve(ctx context.Context) (paginator.Sequence[models.Post], error) {
	ids, err := s.a.follows.FollowedAuthors(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return paginator.Empty[models.Post](), nil
	}
	return s.a.src.Posts(store.PostFilter{AuthorIn: ids}), nil
}

func (s followedSequence) Count(ctx context.Context) (int64, error) {
	seq, err := s.resolve(ctx)
	if err != nil {
		return 0, err
	}
	return seq.Count(ctx)
}

func (s followedSequence) Slice(ctx context.Context, offset, limit int) ([]models.Post, error) {
	seq, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return seq.Slice(ctx, offset, limit)
}
