package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDocumentNotFound is returned by store implementations when a lookup or a
// by-id write matches no document. The catalog service turns it into a
// NotFoundError naming the entity.
var ErrDocumentNotFound = errors.New("document not found")

// ValidationError lists every field of a request that failed validation.
// Fields keeps rule-table order so clients can render errors predictably.
type ValidationError struct {
	Fields  []string
	Reasons map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Reasons: map[string]string{}}
}

// Add records a failing field. The first reason recorded for a field wins.
func (e *ValidationError) Add(field, reason string) {
	if _, ok := e.Reasons[field]; ok {
		return
	}
	e.Fields = append(e.Fields, field)
	e.Reasons[field] = reason
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// OrNil returns nil when nothing was recorded so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, e.Reasons[f])
	}
	return strings.Join(msgs, "; ")
}

// Invalid is a shortcut for a single-field validation failure.
func Invalid(field, reason string) *ValidationError {
	e := NewValidationError()
	e.Add(field, reason)
	return e
}

// NotFoundError reports a missing target or referenced document.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a violated uniqueness constraint.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
