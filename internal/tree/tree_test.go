package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/grove/internal/domain"
	groveerrors "github.com/mrz1836/grove/internal/errors"
)

func TestHasPrefix(t *testing.T) {
	p := domain.Path{"r", "a", "b"}

	assert.True(t, HasPrefix(p, domain.Path{"r"}))
	assert.True(t, HasPrefix(p, domain.Path{"r", "a"}))
	assert.True(t, HasPrefix(p, p), "a path is a prefix of itself")
	assert.True(t, HasPrefix(p, domain.Path{}), "the empty path prefixes everything")
	assert.False(t, HasPrefix(p, domain.Path{"a"}))
	assert.False(t, HasPrefix(p, domain.Path{"r", "b"}))
	assert.False(t, HasPrefix(p, domain.Path{"r", "a", "b", "c"}), "longer paths are never prefixes")
}

func TestDescendantAndChildPredicates(t *testing.T) {
	root := domain.Path{"r"}
	a := domain.Path{"r", "a"}
	ab := domain.Path{"r", "a", "b"}
	abc := domain.Path{"r", "a", "b", "c"}

	assert.True(t, IsDescendantOf(a, root))
	assert.True(t, IsDescendantOf(abc, root))
	assert.True(t, IsDescendantOf(abc, a))
	assert.False(t, IsDescendantOf(a, a), "a path is not its own descendant")
	assert.False(t, IsDescendantOf(root, a))

	assert.True(t, IsImmediateChildOf(a, root))
	assert.True(t, IsImmediateChildOf(ab, a))
	assert.False(t, IsImmediateChildOf(abc, a), "grandchildren are not immediate children")
	assert.False(t, IsImmediateChildOf(root, a))
	assert.False(t, IsImmediateChildOf(a, a))
}

func TestRewrite(t *testing.T) {
	// Task "a" lives under the root; descendant "c" sits two levels below it.
	oldPrefix := domain.Path{"r", "a"}
	descendant := domain.Path{"r", "a", "b", "c"}

	// Move "a" under "p": the suffix below "a" must be preserved exactly.
	newPrefix := domain.Path{"r", "p", "a"}
	rewritten, err := Rewrite(descendant, oldPrefix, newPrefix)
	require.NoError(t, err)
	assert.Equal(t, domain.Path{"r", "p", "a", "b", "c"}, rewritten)
}

func TestRewrite_RoundTrip(t *testing.T) {
	oldPrefix := domain.Path{"r", "a"}
	newPrefix := domain.Path{"r", "p", "a"}
	original := domain.Path{"r", "a", "b"}

	there, err := Rewrite(original, oldPrefix, newPrefix)
	require.NoError(t, err)
	back, err := Rewrite(there, newPrefix, oldPrefix)
	require.NoError(t, err)
	assert.Equal(t, original, back, "moving there and back must restore the original path")
}

func TestRewrite_NotADescendant(t *testing.T) {
	_, err := Rewrite(domain.Path{"r", "x", "y"}, domain.Path{"r", "a"}, domain.Path{"r", "p", "a"})
	assert.ErrorIs(t, err, groveerrors.ErrInvalidTaskPath)
}

func TestRewrite_DoesNotAliasInput(t *testing.T) {
	newPrefix := domain.Path{"r", "p", "a"}
	rewritten, err := Rewrite(domain.Path{"r", "a", "b"}, domain.Path{"r", "a"}, newPrefix)
	require.NoError(t, err)

	rewritten[1] = "mutated"
	assert.Equal(t, "p", newPrefix[1], "rewrite output must not share backing arrays")
}
