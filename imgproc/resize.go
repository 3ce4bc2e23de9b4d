package imgproc

import (
	"fmt"

	"github.com/anthonynsimon/bild/transform"

	"github.com/hupe1980/antnav/core"
)

// Resize scales img to size with bilinear filtering. The input is returned
// as a copy when it already has the requested size.
func Resize(img *Gray, size Size) (*Gray, error) {
	if size.Empty() {
		return nil, fmt.Errorf("%w: invalid target size %s", core.ErrPrecondition, size)
	}
	if img.Size() == size {
		return img.Clone(), nil
	}
	scaled := transform.Resize(ToImage(img), size.Width, size.Height, transform.Linear)
	return FromImage(scaled), nil
}
