package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/yigil-travel/yigil-counts/store"
)

// SQLiteConfig returns a store.Config for a private in-memory database.
func SQLiteConfig() store.Config {
	return store.Config{
		Driver: store.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
}

// NewSQLiteDB opens an in-memory database with the counter schema applied.
// It is closed when the test ends.
func NewSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := store.Open(ctx, SQLiteConfig())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.CreateSchema(ctx, db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

// Dataset is the JSON layout of a seed fixture.
type Dataset struct {
	Members  []*store.Member  `json:"members"`
	Places   []*store.Place   `json:"places"`
	Spots    []*store.Spot    `json:"spots"`
	Follows  []*store.Follow  `json:"follows"`
	Favors   []*store.Favor   `json:"favors"`
	Comments []*store.Comment `json:"comments"`
}

// SeedFixture loads the dataset at path and inserts it into db.
func SeedFixture(t *testing.T, db bun.IDB, path string) *Dataset {
	t.Helper()

	var data Dataset
	LoadFixtureJSON(t, path, &data)
	Seed(t, db, &data)
	return &data
}

// Seed inserts every row of data. Missing follow and favor ids and all
// missing timestamps are filled in.
func Seed(t *testing.T, db bun.IDB, data *Dataset) {
	t.Helper()

	now := time.Now().UTC()
	for _, f := range data.Follows {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}
	}
	for _, f := range data.Favors {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}
	}
	for _, c := range data.Comments {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
	}
	for _, m := range data.Members {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
	}
	for _, p := range data.Places {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
	}
	for _, s := range data.Spots {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
	}

	ctx := context.Background()
	insert := func(name string, n int, model any) {
		if n == 0 {
			return
		}
		if _, err := db.NewInsert().Model(model).Exec(ctx); err != nil {
			t.Fatalf("failed to seed %s: %v", name, err)
		}
	}

	insert("members", len(data.Members), &data.Members)
	insert("places", len(data.Places), &data.Places)
	insert("spots", len(data.Spots), &data.Spots)
	insert("follows", len(data.Follows), &data.Follows)
	insert("favors", len(data.Favors), &data.Favors)
	insert("comments", len(data.Comments), &data.Comments)
}
