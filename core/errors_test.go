package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewFieldError("code", "Program code must be unique.")
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Program code must be unique.", err.Error())
	assert.Equal(t, []FieldError{{Field: "code", Error: "Program code must be unique."}}, vErr.Fields)

	noMsg := &ValidationError{Fields: []FieldError{{"a", "bad"}, {"b", "worse"}}}
	assert.Equal(t, "a: bad; b: worse", noMsg.Error())

	noMsg.Merge(&ValidationError{Fields: []FieldError{{"c", "meh"}}})
	assert.Len(t, noMsg.Fields, 3)
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("integrity"), "saving")))
	assert.False(t, IsShutdown(errors.New("nope")))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hello", CleanString("  Hello \n"))
	assert.Equal(t, "hello", CleanString("  HeLLo ", true))
}
