package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := New(ErrKindConnectionFailed, "ping failed")
	assert.Equal(t, "[connection_failed] ping failed", err.Error())
}

func TestError_MessageWithCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(ErrKindConnectionFailed, "ping failed", cause)
	assert.Equal(t, "[connection_failed] ping failed: dial tcp: refused", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrKindAmbiguousTable, "table %q matches %d live tables", "users", 2)
	assert.Equal(t, `[ambiguous_table] table "users" matches 2 live tables`, err.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("native")
	err := Wrap(ErrKindIntrospection, "query failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		kind ErrKind
		pred func(error) bool
	}{
		{ErrKindConfiguration, IsConfiguration},
		{ErrKindConnectionFailed, IsConnectionFailed},
		{ErrKindTimeout, IsTimeout},
		{ErrKindIntrospection, IsIntrospection},
		{ErrKindAmbiguousTable, IsAmbiguousTable},
		{ErrKindInvalidInput, IsInvalidInput},
		{ErrKindStorage, IsStorage},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.True(t, tt.pred(New(tt.kind, "x")))
			assert.False(t, tt.pred(New(ErrKindUnknown, "x")))
			assert.False(t, tt.pred(errors.New("plain")))
			assert.False(t, tt.pred(nil))
		})
	}
}

func TestPredicates_WrappedChain(t *testing.T) {
	inner := New(ErrKindTimeout, "deadline exceeded")
	outer := fmt.Errorf("exporting db %q: %w", "shop", inner)

	assert.True(t, IsTimeout(outer))
	assert.False(t, IsConnectionFailed(outer))
}

func TestKindString_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", ErrKindUnknown.String())
	assert.Equal(t, "unknown", ErrKind(99).String())
}

func TestErrorsAs(t *testing.T) {
	err := Wrap(ErrKindStorage, "upload failed", errors.New("s3: denied"))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, ErrKindStorage, e.Kind)
	assert.Equal(t, "upload failed", e.Message)
}
