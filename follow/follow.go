// Package follow maintains the directed user -> author subscription graph.
// Every operation is idempotent.
package follow

import (
	"context"
	"fmt"
)

// Edges is the persistence the graph needs.
type Edges interface {
	CreateFollow(ctx context.Context, userID, authorID uint) error
	DeleteFollow(ctx context.Context, userID, authorID uint) error
	FollowExists(ctx context.Context, userID, authorID uint) (bool, error)
	FollowedAuthorIDs(ctx context.Context, userID uint) ([]uint, error)
}

// Graph answers and mutates follow relations.
type Graph struct {
	edges Edges
}

// NewGraph returns a Graph backed by edges.
func NewGraph(edges Edges) *Graph {
	return &Graph{edges: edges}
}

// Follow makes user follow author. Following yourself or an author already
// followed changes nothing.
func (g *Graph) Follow(ctx context.Context, userID, authorID uint) error {
	if userID == authorID {
		return nil
	}
	if err := g.edges.CreateFollow(ctx, userID, authorID); err != nil {
		return fmt.Errorf("follow %d -> %d: %w", userID, authorID, err)
	}
	return nil
}

// Unfollow removes the edge if present.
func (g *Graph) Unfollow(ctx context.Context, userID, authorID uint) error {
	if err := g.edges.DeleteFollow(ctx, userID, authorID); err != nil {
		return fmt.Errorf("unfollow %d -> %d: %w", userID, authorID, err)
	}
	return nil
}

// IsFollowing is false for anonymous viewers (userID 0).
func (g *Graph) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return g.edges.FollowExists(ctx, userID, authorID)
}

// FollowedAuthors lists the authors user follows.
func (g *Graph) FollowedAuthors(ctx context.Context, userID uint) ([]uint, error) {
	return g.edges.FollowedAuthorIDs(ctx, userID)
}
