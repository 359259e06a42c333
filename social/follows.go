package social

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigil-travel/yigil-counts/store"
	"go.uber.org/zap"
)

// FollowCounts is the pair of counts shown on a member profile.
type FollowCounts struct {
	MemberID   int64 `json:"memberId"`
	Followers  int64 `json:"followerCount"`
	Followings int64 `json:"followingCount"`
}

// Follows manages the follow graph.
type Follows struct {
	repos    *store.Repositories
	counters *Counters
	logger   *zap.Logger
}

// NewFollows creates the follow service.
func NewFollows(repos *store.Repositories, counters *Counters, logger *zap.Logger) *Follows {
	return &Follows{repos: repos, counters: counters, logger: nopIfNil(logger).Named("follows")}
}

// Follow makes followerID follow followingID. The unique follows_pair_idx
// index decides between concurrent calls for the same pair.
func (f *Follows) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	_, err := f.repos.Follows.Create(ctx, &store.Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	})
	if store.IsDuplicate(f.repos.DB, err) {
		return ErrAlreadyFollowing
	}
	if err != nil {
		return fmt.Errorf("create follow %d -> %d: %w", followerID, followingID, err)
	}

	f.invalidate(ctx, followerID, followingID)
	return nil
}

// Unfollow removes the edge followerID -> followingID.
func (f *Follows) Unfollow(ctx context.Context, followerID, followingID int64) error {
	exists, err := f.exists(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFollowing
	}

	err = f.repos.Follows.DeleteWhere(ctx,
		store.DeleteWhere("follower_id", followerID),
		store.DeleteWhere("following_id", followingID))
	if err != nil {
		return fmt.Errorf("delete follow %d -> %d: %w", followerID, followingID, err)
	}

	f.invalidate(ctx, followerID, followingID)
	return nil
}

// Counts returns the follower and following counts of memberID.
func (f *Follows) Counts(ctx context.Context, memberID int64) (FollowCounts, error) {
	member := store.MemberRef(memberID)

	followers, err := f.counters.Followers.EnsureCount(ctx, member)
	if err != nil {
		return FollowCounts{}, err
	}
	followings, err := f.counters.Followings.EnsureCount(ctx, member)
	if err != nil {
		return FollowCounts{}, err
	}

	return FollowCounts{
		MemberID:   memberID,
		Followers:  followers.Count,
		Followings: followings.Count,
	}, nil
}

func (f *Follows) exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	n, err := f.repos.Follows.Count(ctx,
		store.Where("follower_id", followerID),
		store.Where("following_id", followingID))
	if err != nil {
		return false, fmt.Errorf("lookup follow %d -> %d: %w", followerID, followingID, err)
	}
	return n > 0, nil
}

func (f *Follows) invalidate(ctx context.Context, followerID, followingID int64) {
	invalidate(ctx, f.logger, f.counters.Followers, store.MemberRef(followingID))
	invalidate(ctx, f.logger, f.counters.Followings, store.MemberRef(followerID))
}
