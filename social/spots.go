package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/yigil-travel/yigil-counts/store"
	"go.uber.org/zap"
)

// SpotSummary is a spot as listed on a place page.
type SpotSummary struct {
	*store.Spot
	FavorCount   int64 `json:"favorCount"`
	CommentCount int64 `json:"commentCount"`
}

// Spots manages spots and the place listings built from them.
type Spots struct {
	repos    *store.Repositories
	counters *Counters
	logger   *zap.Logger
}

// NewSpots creates the spot service.
func NewSpots(repos *store.Repositories, counters *Counters, logger *zap.Logger) *Spots {
	return &Spots{repos: repos, counters: counters, logger: nopIfNil(logger).Named("spots")}
}

// Create posts a new spot by memberID about placeID.
func (s *Spots) Create(ctx context.Context, memberID, placeID int64, title string) (*store.Spot, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	spot, err := s.repos.Spots.Create(ctx, &store.Spot{
		MemberID:  memberID,
		PlaceID:   placeID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create spot in place %d: %w", placeID, err)
	}

	invalidate(ctx, s.logger, s.counters.Spots, store.PlaceRef(placeID))
	return spot, nil
}

// Delete removes memberID's spot together with its favors and comments.
// A spot owned by someone else is reported as not found.
func (s *Spots) Delete(ctx context.Context, memberID, spotID int64) error {
	var (
		spot    *store.Spot
		parents []*store.Comment
	)

	err := s.repos.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		spot, err = s.repos.Spots.GetTx(ctx, tx,
			store.Where("id", spotID),
			store.Where("member_id", memberID))
		if store.IsNotFound(err) {
			return ErrSpotNotFound
		}
		if err != nil {
			return fmt.Errorf("load spot %d: %w", spotID, err)
		}

		parents, _, err = s.repos.Comments.ListTx(ctx, tx,
			store.Where("spot_id", spotID),
			store.WhereNull("parent_id"),
			store.OrderByID())
		if err != nil {
			return fmt.Errorf("list comments of spot %d: %w", spotID, err)
		}

		if err := s.repos.Favors.DeleteWhereTx(ctx, tx, store.DeleteWhere("spot_id", spotID)); err != nil {
			return fmt.Errorf("delete favors of spot %d: %w", spotID, err)
		}
		if err := s.repos.Comments.DeleteWhereTx(ctx, tx, store.DeleteWhere("spot_id", spotID)); err != nil {
			return fmt.Errorf("delete comments of spot %d: %w", spotID, err)
		}
		if err := s.repos.Spots.DeleteTx(ctx, tx, spot); err != nil {
			return fmt.Errorf("delete spot %d: %w", spotID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidate(ctx, s.logger, s.counters.Spots, store.PlaceRef(spot.PlaceID))
	invalidate(ctx, s.logger, s.counters.Favors, store.SpotRef(spotID))
	invalidate(ctx, s.logger, s.counters.Comments, store.SpotRef(spotID))
	for _, parent := range parents {
		invalidate(ctx, s.logger, s.counters.Replies, parent)
	}
	return nil
}

// Summaries lists the public spots of placeID that are not part of a course,
// oldest first, with their counts.
func (s *Spots) Summaries(ctx context.Context, placeID int64) ([]SpotSummary, error) {
	spots, _, err := s.repos.Spots.List(ctx,
		store.Where("place_id", placeID),
		store.Where("is_in_course", false),
		store.Where("is_private", false),
		store.OrderByID())
	if err != nil {
		return nil, fmt.Errorf("list spots of place %d: %w", placeID, err)
	}

	summaries := make([]SpotSummary, 0, len(spots))
	for _, spot := range spots {
		favors, err := s.counters.Favors.EnsureCount(ctx, spot)
		if err != nil {
			return nil, err
		}
		comments, err := s.counters.Comments.EnsureCount(ctx, spot)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SpotSummary{
			Spot:         spot,
			FavorCount:   favors.Count,
			CommentCount: comments.Count,
		})
	}

	return summaries, nil
}
