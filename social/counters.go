package social

import (
	"context"

	"github.com/yigil-travel/yigil-counts/counter"
	"github.com/yigil-travel/yigil-counts/store"
	"go.uber.org/zap"
)

// Counters groups the coordinators the services invalidate and read.
type Counters struct {
	Followers  *counter.Coordinator[*store.Member]
	Followings *counter.Coordinator[*store.Member]
	Favors     *counter.Coordinator[*store.Spot]
	Comments   *counter.Coordinator[*store.Spot]
	Replies    *counter.Coordinator[*store.Comment]
	Spots      *counter.Coordinator[*store.Place]
}

func invalidate[S counter.Subject](ctx context.Context, logger *zap.Logger, c *counter.Coordinator[S], subject S) {
	if err := c.Invalidate(ctx, subject); err != nil {
		logger.Warn("Failed to invalidate count after write",
			zap.String("kind", c.Kind()),
			zap.Int64("subject_id", subject.SubjectID()),
			zap.Error(err))
	}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
