package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Error taxonomy shared by the domain services. Callers branch on these with
// errors.Is: a ConstraintViolation is retryable with a fresh token, the rest
// are reported as-is.
var (
	// ErrConstraintViolation is a unique-key collision, e.g. a duplicate
	// work order serial.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrNotFound means the operation referenced a nonexistent id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the entity is not in the state the operation
	// requires, e.g. reviewing an already-reviewed edit request.
	ErrInvalidState = errors.New("invalid state")

	// ErrExternalService is a collaborator failure. Never fatal to the
	// core: callers proceed with degraded or absent data.
	ErrExternalService = errors.New("external service failure")

	// ErrNotOwner means a technician touched a work order owned by
	// someone else.
	ErrNotOwner = errors.New("not owner")
)

// isDuplicateKey reports whether err is a unique-constraint violation from
// the underlying driver. MySQL and sqlite word their errors differently and
// only some GORM drivers translate to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
