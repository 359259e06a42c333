package store

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repositories bundles the repositories the counters and services read from.
type Repositories struct {
	DB       *bun.DB
	Spots    repository.Repository[*Spot]
	Follows  repository.Repository[*Follow]
	Favors   repository.Repository[*Favor]
	Comments repository.Repository[*Comment]
}

// NewRepositories builds the repositories on top of db.
func NewRepositories(db *bun.DB) *Repositories {
	return &Repositories{
		DB:    db,
		Spots: repository.NewRepository(db, serialHandlers(func() *Spot { return &Spot{} })),
		Follows: repository.NewRepository(db, repository.ModelHandlers[*Follow]{
			NewRecord:     func() *Follow { return &Follow{} },
			GetID:         func(f *Follow) uuid.UUID { return f.ID },
			SetID:         func(f *Follow, id uuid.UUID) { f.ID = id },
			GetIdentifier: func() string { return "id" },
		}),
		Favors: repository.NewRepository(db, repository.ModelHandlers[*Favor]{
			NewRecord:     func() *Favor { return &Favor{} },
			GetID:         func(f *Favor) uuid.UUID { return f.ID },
			SetID:         func(f *Favor, id uuid.UUID) { f.ID = id },
			GetIdentifier: func() string { return "id" },
		}),
		Comments: repository.NewRepository(db, serialHandlers(func() *Comment { return &Comment{} })),
	}
}

// serialHandlers serves models keyed by a database sequence. The repository
// only assigns uuids, so the id is left to the database and read back from
// the insert's RETURNING clause.
func serialHandlers[T any](newRecord func() T) repository.ModelHandlers[T] {
	return repository.ModelHandlers[T]{
		NewRecord:     newRecord,
		GetID:         func(T) uuid.UUID { return uuid.Nil },
		SetID:         func(T, uuid.UUID) {},
		GetIdentifier: func() string { return "id" },
	}
}

// Where matches rows whose column equals value.
func Where(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	}
}

// WhereNull matches rows whose column is NULL.
func WhereNull(column string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? IS NULL", bun.Ident(column))
	}
}

// OrderByID sorts rows oldest first and lifts the repository's default page
// size of 25.
func OrderByID() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("? ASC", bun.Ident("id")).Limit(0)
	}
}

// DeleteWhere matches rows to delete whose column equals value.
func DeleteWhere(column string, value any) repository.DeleteCriteria {
	return func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	}
}
