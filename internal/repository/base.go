// Package repository provides data access layer implementations for the
// application. Every mutation that pairs a relation change with a
// denormalized counter adjustment runs inside a single transaction, and
// uniqueness is enforced by the store's unique indexes; application-level
// pre-reads only produce friendlier errors on the fast path.
package repository

import (
	"errors"
	"strings"

	"orbit/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolationCode is the PostgreSQL error code for unique_violation.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a store-level uniqueness
// constraint failure, for either the postgres or the sqlite driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// translateNotFound maps gorm.ErrRecordNotFound to the API's 404 error.
func translateNotFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
