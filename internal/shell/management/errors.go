package management

import (
	"errors"
	"fmt"

	"github.com/artpar/katla/internal/shell/store"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a record, or a record it references, does not exist.
	ErrNotFound = errors.New("requested resource not found")

	// ErrConflict is returned when a write would break a uniqueness or lifecycle rule.
	ErrConflict = errors.New("requested resource has conflict")

	// ErrNilStore is returned by constructors given a nil store.
	ErrNilStore = errors.New("store must not be nil")

	// ErrNilMapper is returned by constructors given a nil mapping profile.
	ErrNilMapper = errors.New("mapping profile must not be nil")
)

// Entity kinds.
const (
	EntityHive        = "hive"
	EntityHiveSection = "hive_section"
	EntityProduct     = "product"
)

// Fields named by rejected operations.
const (
	FieldCode   = "code"
	FieldHiveID = "hive_id"
	FieldStatus = "is_deleted"
)

// Error describes a rejected or failed service operation.
// Err is ErrNotFound, ErrConflict or the underlying store error.
type Error struct {
	Op      string
	Entity  string
	ID      int
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %s", e.Op, e.Entity, e.ID, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Entity, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(op, entity string, id int) *Error {
	return &Error{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf("%s %d not found", entity, id),
		Err:     ErrNotFound,
	}
}

// referenceNotFound reports a missing record referenced through field.
func referenceNotFound(op, entity, field string, id int) *Error {
	err := notFound(op, entity, id)
	err.Field = field
	return err
}

func conflict(op, entity string, id int, field, message string) *Error {
	return &Error{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Field:   field,
		Message: message,
		Err:     ErrConflict,
	}
}

func codeConflict(op, entity string, id int, code string) *Error {
	return conflict(op, entity, id, FieldCode, fmt.Sprintf("%s with code %q already exists", entity, code))
}

// translate converts an error raised inside a service operation into an *Error.
// Errors that already are *Error pass through unchanged.
func translate(op, entity string, id int, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(op, entity, id)
	case errors.Is(err, store.ErrDuplicateCode):
		return conflict(op, entity, id, FieldCode, fmt.Sprintf("%s code already exists", entity))
	}
	return &Error{Op: op, Entity: entity, ID: id, Message: err.Error(), Err: err}
}

func isForeignKey(err error) bool {
	return errors.Is(err, store.ErrForeignKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
