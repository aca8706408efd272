package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey reports a unique-constraint violation.
	ErrDuplicateKey = errors.New("duplicate_key")
	// ErrNotFound reports an absent row.
	ErrNotFound = errors.New("record_not_found")
)

// TranslateError is the single boundary between driver-native error
// vocabulary and the application taxonomy. Repositories pass every store
// error through here; nothing above this function inspects driver codes.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicateKeyErr(err) {
		return ErrDuplicateKey
	}
	return err
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	// PostgreSQL (SQLSTATE 23505)
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return true
	}

	return false
}
