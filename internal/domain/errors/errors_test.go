package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorAccumulates(t *testing.T) {
	var ve ValidationError
	assert.False(t, ve.HasAny())

	ve.Add("site.title", "must not be empty")
	ve.Add("", "bare message")

	assert.True(t, ve.HasAny())
	assert.True(t, errors.Is(ve, ErrInvalid))
	assert.Contains(t, ve.Error(), " - site.title: must not be empty\n")
	assert.Contains(t, ve.Error(), " - bare message\n")
}

func TestShapeErrorMessage(t *testing.T) {
	err := error(&ShapeError{Index: 2, Field: "title", Msg: "missing"})
	assert.Equal(t, "record 2: title: missing", err.Error())
	assert.True(t, errors.Is(err, ErrShape))

	whole := &ShapeError{Index: -1, Msg: "expected a JSON array"}
	assert.Equal(t, "payload: expected a JSON array", whole.Error())
}

func TestUpstreamErrorIs(t *testing.T) {
	err := error(&UpstreamError{URL: "https://dev.to/api/articles", Status: 500})
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Contains(t, err.Error(), "unexpected status 500")
}
