package store

import (
	"context"
	"fmt"
)

// Counts holds the authoritative count queries. Each method is read-only and
// usable as a counter.Resolver.
type Counts struct {
	repos *Repositories
}

// NewCounts creates the count queries over repos.
func NewCounts(repos *Repositories) *Counts {
	return &Counts{repos: repos}
}

// Followers counts the members following m.
func (c *Counts) Followers(ctx context.Context, m *Member) (int64, error) {
	n, err := c.repos.Follows.Count(ctx, Where("following_id", m.ID))
	if err != nil {
		return 0, fmt.Errorf("count followers of member %d: %w", m.ID, err)
	}
	return int64(n), nil
}

// Followings counts the members m follows.
func (c *Counts) Followings(ctx context.Context, m *Member) (int64, error) {
	n, err := c.repos.Follows.Count(ctx, Where("follower_id", m.ID))
	if err != nil {
		return 0, fmt.Errorf("count followings of member %d: %w", m.ID, err)
	}
	return int64(n), nil
}

// Favors counts the favors given to s.
func (c *Counts) Favors(ctx context.Context, s *Spot) (int64, error) {
	n, err := c.repos.Favors.Count(ctx, Where("spot_id", s.ID))
	if err != nil {
		return 0, fmt.Errorf("count favors of spot %d: %w", s.ID, err)
	}
	return int64(n), nil
}

// Comments counts the comments posted on s.
func (c *Counts) Comments(ctx context.Context, s *Spot) (int64, error) {
	n, err := c.repos.Comments.Count(ctx, Where("spot_id", s.ID))
	if err != nil {
		return 0, fmt.Errorf("count comments of spot %d: %w", s.ID, err)
	}
	return int64(n), nil
}

// Spots counts every spot posted about p, listed or not.
func (c *Counts) Spots(ctx context.Context, p *Place) (int64, error) {
	n, err := c.repos.Spots.Count(ctx, Where("place_id", p.ID))
	if err != nil {
		return 0, fmt.Errorf("count spots of place %d: %w", p.ID, err)
	}
	return int64(n), nil
}

// Replies counts the replies posted under comment.
func (c *Counts) Replies(ctx context.Context, comment *Comment) (int64, error) {
	n, err := c.repos.Comments.Count(ctx, Where("parent_id", comment.ID))
	if err != nil {
		return 0, fmt.Errorf("count replies of comment %d: %w", comment.ID, err)
	}
	return int64(n), nil
}
