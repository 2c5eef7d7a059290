package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaport/schemaport/internal/errs"
)

func TestResolver_ExactMatch(t *testing.T) {
	r := NewResolver([]string{"Customers", "orders"})

	resolved, ok, err := r.Resolve("orders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "orders", resolved)
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver([]string{"Customers"})

	// Resolving an already-exact-case name returns it unchanged, repeatedly
	for i := 0; i < 3; i++ {
		resolved, ok, err := r.Resolve("Customers")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "Customers", resolved)
	}
}

func TestResolver_CaseInsensitiveFallback(t *testing.T) {
	r := NewResolver([]string{"Customers", "orders"})

	resolved, ok, err := r.Resolve("customers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Customers", resolved)
}

func TestResolver_Miss(t *testing.T) {
	r := NewResolver([]string{"Customers"})

	resolved, ok, err := r.Resolve("ghost_table")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, resolved)
}

func TestResolver_AmbiguousCaseCollision(t *testing.T) {
	r := NewResolver([]string{"Users", "users"})

	_, _, err := r.Resolve("USERS")
	require.Error(t, err)
	assert.True(t, errs.IsAmbiguousTable(err))
}

func TestResolver_ExactMatchBeatsCollision(t *testing.T) {
	r := NewResolver([]string{"Users", "users"})

	// An exact hit never consults the case-insensitive index
	resolved, ok, err := r.Resolve("users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "users", resolved)
}

func TestResolver_NotFuzzy(t *testing.T) {
	r := NewResolver([]string{"customers"})

	_, ok, err := r.Resolve("customer")
	require.NoError(t, err)
	assert.False(t, ok)
}
