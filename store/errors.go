package store

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// IsDuplicate reports whether err is a unique constraint violation raised by
// db. Repository inserts return raw driver errors, so they are mapped here.
func IsDuplicate(db *bun.DB, err error) bool {
	if err == nil {
		return false
	}
	if repository.IsDuplicatedKey(err) {
		return true
	}
	return repository.IsDuplicatedKey(repository.MapDatabaseError(err, repository.DetectDriver(db)))
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return repository.IsRecordNotFound(err)
}
