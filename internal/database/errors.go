package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

type DuplicateKey struct {
	nested error
}

func (e *DuplicateKey) Error() string {
	return e.nested.Error()
}

func (e *DuplicateKey) Unwrap() error {
	return e.nested
}

func IsDuplicateKey(err error) bool {
	duplicateKey := &DuplicateKey{}
	return errors.As(err, &duplicateKey)
}

// UnknownStudents is returned when a course references students that do not exist.
type UnknownStudents struct {
	IDs []uint
}

func (e *UnknownStudents) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("unknown students: %s", strings.Join(ids, ", "))
}

func IsUnknownStudents(err error) bool {
	unknown := &UnknownStudents{}
	return errors.As(err, &unknown)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// gorm does not translate driver errors for us
// https://github.com/go-gorm/gorm/issues/4037
func pgErrorCode(err error) string {
	var perr *pgconn.PgError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}

func translateEnrollmentError(err error, studentIDs []uint) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return &DuplicateKey{err}
	case isForeignKeyViolation(err):
		return &UnknownStudents{IDs: studentIDs}
	default:
		return err
	}
}
