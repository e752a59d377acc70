// Package tree provides pure calculations over materialized task paths:
// parent and depth derivation, child/descendant predicates, and the
// path-rewrite math used when a subtree is moved.
//
// Everything in this package is a pure function over domain.Path values;
// no I/O and no store access happen here.
package tree

import (
	"github.com/mrz1836/grove/internal/domain"
	groveerrors "github.com/mrz1836/grove/internal/errors"
)

// HasPrefix reports whether p starts with the full sequence prefix.
// A path is a prefix of itself.
func HasPrefix(p, prefix domain.Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// IsDescendantOf reports whether p is a proper descendant of ancestorPath,
// i.e. ancestorPath is a strict prefix of p.
func IsDescendantOf(p, ancestorPath domain.Path) bool {
	return len(p) > len(ancestorPath) && HasPrefix(p, ancestorPath)
}

// IsImmediateChildOf reports whether p is exactly one level below
// parentPath.
func IsImmediateChildOf(p, parentPath domain.Path) bool {
	return len(p) == len(parentPath)+1 && HasPrefix(p, parentPath)
}

// Rewrite computes a descendant's path after its ancestor moved: the old
// ancestor prefix is replaced by the new one, preserving the suffix below
// the moved node. It fails if p does not actually start with oldPrefix.
func Rewrite(p, oldPrefix, newPrefix domain.Path) (domain.Path, error) {
	if !HasPrefix(p, oldPrefix) {
		return nil, groveerrors.Wrapf(groveerrors.ErrInvalidTaskPath,
			"path of %s does not descend from moved ancestor %s", p.Last(), oldPrefix.Last())
	}
	out := make(domain.Path, 0, len(newPrefix)+len(p)-len(oldPrefix))
	out = append(out, newPrefix...)
	out = append(out, p[len(oldPrefix):]...)
	return out, nil
}
