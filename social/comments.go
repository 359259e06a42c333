package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/yigil-travel/yigil-counts/counter"
	"github.com/yigil-travel/yigil-counts/store"
	"go.uber.org/zap"
)

// CommentSummary is a top-level comment as listed under a spot.
type CommentSummary struct {
	*store.Comment
	ReplyCount int64 `json:"replyCount"`
}

// Comments manages spot comments and their replies.
type Comments struct {
	repos    *store.Repositories
	counters *Counters
	logger   *zap.Logger
}

// NewComments creates the comment service.
func NewComments(repos *store.Repositories, counters *Counters, logger *zap.Logger) *Comments {
	return &Comments{repos: repos, counters: counters, logger: nopIfNil(logger).Named("comments")}
}

// Add posts a comment on spotID.
func (c *Comments) Add(ctx context.Context, memberID, spotID int64, content string) (*store.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	comment, err := c.repos.Comments.Create(ctx, &store.Comment{
		MemberID:  memberID,
		SpotID:    spotID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment on spot %d: %w", spotID, err)
	}

	invalidate(ctx, c.logger, c.counters.Comments, store.SpotRef(spotID))
	return comment, nil
}

// Reply answers parentID. Replies land on the parent's spot and count
// towards both its comment count and the parent's reply count.
func (c *Comments) Reply(ctx context.Context, memberID, parentID int64, content string) (*store.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	parent, err := c.get(ctx, c.repos.DB, parentID)
	if err != nil {
		return nil, err
	}
	if parent.IsReply() {
		return nil, ErrNestedReply
	}

	reply, err := c.repos.Comments.Create(ctx, &store.Comment{
		MemberID:  memberID,
		SpotID:    parent.SpotID,
		ParentID:  &parent.ID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create reply to comment %d: %w", parentID, err)
	}

	invalidate(ctx, c.logger, c.counters.Comments, store.SpotRef(parent.SpotID))
	invalidate(ctx, c.logger, c.counters.Replies, parent)
	return reply, nil
}

// Delete removes the comment with the given id. Deleting a top-level comment
// also removes its replies.
func (c *Comments) Delete(ctx context.Context, commentID int64) error {
	var comment *store.Comment

	err := c.repos.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		comment, err = c.get(ctx, tx, commentID)
		if err != nil {
			return err
		}

		if !comment.IsReply() {
			if err := c.repos.Comments.DeleteWhereTx(ctx, tx, store.DeleteWhere("parent_id", commentID)); err != nil {
				return fmt.Errorf("delete replies of comment %d: %w", commentID, err)
			}
		}
		if err := c.repos.Comments.DeleteTx(ctx, tx, comment); err != nil {
			return fmt.Errorf("delete comment %d: %w", commentID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidate(ctx, c.logger, c.counters.Comments, store.SpotRef(comment.SpotID))
	if comment.IsReply() {
		invalidate(ctx, c.logger, c.counters.Replies, store.CommentRef(*comment.ParentID))
	} else {
		invalidate(ctx, c.logger, c.counters.Replies, comment)
	}
	return nil
}

// Count returns the comment count of spotID, replies included.
func (c *Comments) Count(ctx context.Context, spotID int64) (counter.CountRecord, error) {
	return c.counters.Comments.EnsureCount(ctx, store.SpotRef(spotID))
}

// Replies returns the reply count of commentID.
func (c *Comments) Replies(ctx context.Context, commentID int64) (counter.CountRecord, error) {
	return c.counters.Replies.EnsureCount(ctx, store.CommentRef(commentID))
}

// Parents lists the top-level comments of spotID, oldest first, with their
// reply counts.
func (c *Comments) Parents(ctx context.Context, spotID int64) ([]CommentSummary, error) {
	comments, _, err := c.repos.Comments.List(ctx,
		store.Where("spot_id", spotID),
		store.WhereNull("parent_id"),
		store.OrderByID())
	if err != nil {
		return nil, fmt.Errorf("list comments of spot %d: %w", spotID, err)
	}

	summaries := make([]CommentSummary, 0, len(comments))
	for _, comment := range comments {
		replies, err := c.counters.Replies.EnsureCount(ctx, comment)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, CommentSummary{Comment: comment, ReplyCount: replies.Count})
	}

	return summaries, nil
}

func (c *Comments) get(ctx context.Context, db bun.IDB, commentID int64) (*store.Comment, error) {
	comment, err := c.repos.Comments.GetTx(ctx, db, store.Where("id", commentID))
	if store.IsNotFound(err) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load comment %d: %w", commentID, err)
	}
	return comment, nil
}
