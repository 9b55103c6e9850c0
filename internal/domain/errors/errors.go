package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalid  = errors.New("invalid")
	ErrUpstream = errors.New("upstream failure")
	ErrShape    = errors.New("unexpected payload shape")
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// ShapeError reports an upstream record that does not match the expected
// shape. Index is -1 when the payload as a whole is wrong.
type ShapeError struct {
	Index int
	Field string
	Msg   string
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("payload: %s", e.Msg)
	}
	return fmt.Sprintf("record %d: %s: %s", e.Index, e.Field, e.Msg)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// UpstreamError carries the HTTP status of a failed upstream call.
type UpstreamError struct {
	URL    string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
