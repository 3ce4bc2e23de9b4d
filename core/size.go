package core

import "fmt"

// Size is the unwrap resolution of a panoramic image: one column per
// heading sample, Width columns covering 360 degrees.
type Size struct {
	Width  int
	Height int
}

// Pixels returns the number of pixels in an image of this size.
func (s Size) Pixels() int {
	return s.Width * s.Height
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
