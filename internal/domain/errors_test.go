package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(NewNotFoundError("blog not found")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrapped: %w", NewForbiddenError("forbidden_not_owner", "no"))))
	assert.Equal(t, KindStoreFailure, KindOf(errors.New("boom")))
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	dup := AsError(fmt.Errorf("insert user: %w", ErrDuplicate))
	require.NotNil(t, dup)
	assert.Equal(t, KindConflict, dup.Kind)
	assert.ErrorIs(t, dup, ErrDuplicate)

	ref := AsError(fmt.Errorf("delete user: %w", ErrReferenced))
	assert.Equal(t, KindConflict, ref.Kind)

	raw := errors.New("connection reset")
	failure := AsError(raw)
	assert.Equal(t, KindStoreFailure, failure.Kind)
	assert.ErrorIs(t, failure, raw)

	v := NewFieldError("title", "is required")
	assert.Same(t, v, AsError(v))
	assert.Equal(t, "is required", v.Fields["title"])
}
