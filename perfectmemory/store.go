package perfectmemory

import (
	"fmt"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
)

// Store is an append-only sequence of snapshots of a fixed resolution.
// A snapshot's index is its identifier and never changes; snapshots are
// only removed all at once by Clear.
type Store[T imgproc.Pixel] struct {
	size      imgproc.Size
	snapshots []*imgproc.Image[T]
}

// NewStore returns an empty store for images of the given size.
func NewStore[T imgproc.Pixel](size imgproc.Size) (*Store[T], error) {
	if size.Empty() {
		return nil, fmt.Errorf("%w: invalid resolution %s", core.ErrPrecondition, size)
	}
	return &Store[T]{size: size}, nil
}

// Size returns the resolution every snapshot has.
func (s *Store[T]) Size() imgproc.Size {
	return s.size
}

// Add copies img into the store and returns its index.
func (s *Store[T]) Add(img *imgproc.Image[T]) (int, error) {
	if img == nil {
		return 0, fmt.Errorf("%w: nil snapshot", core.ErrPrecondition)
	}
	if err := core.CheckSize("snapshot", s.size, img.Size()); err != nil {
		return 0, err
	}
	s.snapshots = append(s.snapshots, img.Clone())
	return len(s.snapshots) - 1, nil
}

// Len returns the number of snapshots.
func (s *Store[T]) Len() int {
	return len(s.snapshots)
}

// At returns snapshot i. The image must not be modified.
func (s *Store[T]) At(i int) (*imgproc.Image[T], error) {
	if i < 0 || i >= len(s.snapshots) {
		return nil, fmt.Errorf("%w: snapshot %d out of range [0, %d)", core.ErrPrecondition, i, len(s.snapshots))
	}
	return s.snapshots[i], nil
}

// Clear drops every snapshot.
func (s *Store[T]) Clear() {
	clear(s.snapshots)
	s.snapshots = s.snapshots[:0]
}
