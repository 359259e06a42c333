package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Member is a registered user. Members are the subjects of follow counts.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Nickname  string    `bun:"nickname,notnull" json:"nickname"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// SubjectID implements counter.Subject.
func (m *Member) SubjectID() int64 { return m.ID }

// MemberRef returns a Member carrying only its id.
func MemberRef(id int64) *Member { return &Member{ID: id} }

// Place is a named location spots are attached to.
type Place struct {
	bun.BaseModel `bun:"table:places,alias:p"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Address   string    `bun:"address" json:"address"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// SubjectID implements counter.Subject.
func (p *Place) SubjectID() int64 { return p.ID }

// PlaceRef returns a Place carrying only its id.
func PlaceRef(id int64) *Place { return &Place{ID: id} }

// Spot is a member's post about a place. Spots that belong to a course or
// are private still count towards their place but are not listed on it.
type Spot struct {
	bun.BaseModel `bun:"table:spots,alias:s"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	MemberID   int64     `bun:"member_id,notnull" json:"memberId"`
	PlaceID    int64     `bun:"place_id,notnull" json:"placeId"`
	Title      string    `bun:"title,notnull" json:"title"`
	IsInCourse bool      `bun:"is_in_course,notnull" json:"isInCourse"`
	IsPrivate  bool      `bun:"is_private,notnull" json:"isPrivate"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// SubjectID implements counter.Subject.
func (s *Spot) SubjectID() int64 { return s.ID }

// SpotRef returns a Spot carrying only its id.
func SpotRef(id int64) *Spot { return &Spot{ID: id} }

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	FollowerID  int64     `bun:"follower_id,notnull" json:"followerId"`
	FollowingID int64     `bun:"following_id,notnull" json:"followingId"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Favor records that a member liked a spot.
type Favor struct {
	bun.BaseModel `bun:"table:favors,alias:fv"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	MemberID  int64     `bun:"member_id,notnull" json:"memberId"`
	SpotID    int64     `bun:"spot_id,notnull" json:"spotId"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Comment is a member's comment on a spot. A comment with a ParentID is a
// reply; replies are one level deep and are the subjects of reply counts.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	MemberID  int64     `bun:"member_id,notnull" json:"memberId"`
	SpotID    int64     `bun:"spot_id,notnull" json:"spotId"`
	ParentID  *int64    `bun:"parent_id" json:"parentId,omitempty"`
	Content   string    `bun:"content,notnull" json:"content"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// SubjectID implements counter.Subject.
func (c *Comment) SubjectID() int64 { return c.ID }

// CommentRef returns a Comment carrying only its id.
func CommentRef(id int64) *Comment { return &Comment{ID: id} }

// IsReply reports whether c answers another comment.
func (c *Comment) IsReply() bool { return c.ParentID != nil }
