package social

import "errors"

var (
	ErrSelfFollow       = errors.New("social: members cannot follow themselves")
	ErrAlreadyFollowing = errors.New("social: already following")
	ErrNotFollowing     = errors.New("social: not following")
	ErrAlreadyFavored   = errors.New("social: spot already favored")
	ErrNotFavored       = errors.New("social: spot not favored")
	ErrEmptyComment     = errors.New("social: comment content is empty")
	ErrCommentNotFound  = errors.New("social: comment not found")
	ErrNestedReply      = errors.New("social: replies cannot be answered")
	ErrEmptyTitle       = errors.New("social: spot title is empty")
	ErrSpotNotFound     = errors.New("social: spot not found")
)
