package social

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigil-travel/yigil-counts/counter"
	"github.com/yigil-travel/yigil-counts/store"
	"go.uber.org/zap"
)

// Favors manages spot favors.
type Favors struct {
	repos    *store.Repositories
	counters *Counters
	logger   *zap.Logger
}

// NewFavors creates the favor service.
func NewFavors(repos *store.Repositories, counters *Counters, logger *zap.Logger) *Favors {
	return &Favors{repos: repos, counters: counters, logger: nopIfNil(logger).Named("favors")}
}

// Favor records that memberID likes spotID. The unique favors_pair_idx
// index decides between concurrent calls for the same pair.
func (f *Favors) Favor(ctx context.Context, memberID, spotID int64) error {
	_, err := f.repos.Favors.Create(ctx, &store.Favor{
		ID:        uuid.New(),
		MemberID:  memberID,
		SpotID:    spotID,
		CreatedAt: time.Now().UTC(),
	})
	if store.IsDuplicate(f.repos.DB, err) {
		return ErrAlreadyFavored
	}
	if err != nil {
		return fmt.Errorf("create favor of spot %d by member %d: %w", spotID, memberID, err)
	}

	invalidate(ctx, f.logger, f.counters.Favors, store.SpotRef(spotID))
	return nil
}

// Unfavor removes memberID's favor from spotID.
func (f *Favors) Unfavor(ctx context.Context, memberID, spotID int64) error {
	exists, err := f.exists(ctx, memberID, spotID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFavored
	}

	err = f.repos.Favors.DeleteWhere(ctx,
		store.DeleteWhere("member_id", memberID),
		store.DeleteWhere("spot_id", spotID))
	if err != nil {
		return fmt.Errorf("delete favor of spot %d by member %d: %w", spotID, memberID, err)
	}

	invalidate(ctx, f.logger, f.counters.Favors, store.SpotRef(spotID))
	return nil
}

// Count returns the favor count of spotID.
func (f *Favors) Count(ctx context.Context, spotID int64) (counter.CountRecord, error) {
	return f.counters.Favors.EnsureCount(ctx, store.SpotRef(spotID))
}

func (f *Favors) exists(ctx context.Context, memberID, spotID int64) (bool, error) {
	n, err := f.repos.Favors.Count(ctx,
		store.Where("member_id", memberID),
		store.Where("spot_id", spotID))
	if err != nil {
		return false, fmt.Errorf("lookup favor of spot %d by member %d: %w", spotID, memberID, err)
	}
	return n > 0, nil
}
