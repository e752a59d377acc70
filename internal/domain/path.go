package domain

import (
	"slices"

	groveerrors "github.com/mrz1836/grove/internal/errors"
)

// Path is the materialized ancestry path of a task: the ordered sequence of
// task ids from the root to the task itself, inclusive. The last element is
// always the task's own id, and len(path)-1 is the task's depth.
//
// Parent/child linkage is always derived from paths, never from object
// references, so trees of Tasks can never form reference cycles.
type Path []string

// Validate checks the path invariants for a task with the given id:
// the path is non-empty, every element is UUID-shaped, and the last
// element equals ownID.
func (p Path) Validate(ownID string) error {
	if len(p) == 0 {
		return groveerrors.Wrap(groveerrors.ErrInvalidTaskPath, "path is empty")
	}
	for _, id := range p {
		if err := ValidateID(id); err != nil {
			return groveerrors.Wrapf(groveerrors.ErrInvalidTaskPath, "path element %q is not a valid id", id)
		}
	}
	if p[len(p)-1] != ownID {
		return groveerrors.Wrapf(groveerrors.ErrInvalidTaskPath,
			"path terminates at %q, want own id %q", p[len(p)-1], ownID)
	}
	return nil
}

// Last returns the final path element (the owning task's id), or "" for an
// empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// ParentID returns the second-to-last path element, or "" if the path has
// no parent segment (the root task).
func (p Path) ParentID() string {
	if len(p) < 2 {
		return ""
	}
	return p[len(p)-2]
}

// Depth returns the depth of the task: 0 for the root, 1 for its immediate
// children, and so on.
func (p Path) Depth() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Contains reports whether id appears anywhere in the path.
func (p Path) Contains(id string) bool {
	return slices.Contains(p, id)
}

// Clone returns an independent copy of the path. Transforms use this so a
// derived Task never aliases the backing array of its source.
func (p Path) Clone() Path {
	return slices.Clone(p)
}

// Equal reports whether two paths are element-wise identical.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Child returns a new path extending p with the given child id.
func (p Path) Child(id string) Path {
	child := make(Path, 0, len(p)+1)
	child = append(child, p...)
	return append(child, id)
}
