package differencer

import (
	"github.com/hupe1980/antnav/imgproc"
)

// AbsDiff scores images by their mean absolute pixel difference.
type AbsDiff[T imgproc.Pixel] struct{}

// NewAbsDiff returns an AbsDiff differencer.
func NewAbsDiff[T imgproc.Pixel]() *AbsDiff[T] {
	return &AbsDiff[T]{}
}

// Difference implements Differencer.
func (d *AbsDiff[T]) Difference(a, b *imgproc.Image[T], m1, m2 imgproc.Mask) (float32, error) {
	m, n, err := prepare(a, b, m1, m2)
	if err != nil {
		return 0, err
	}

	var sum float64
	m.ValidRuns(len(a.Pix), func(start, end int) {
		pa, pb := a.Pix[start:end], b.Pix[start:end]
		for i := range pa {
			diff := float64(pa[i]) - float64(pb[i])
			if diff < 0 {
				diff = -diff
			}
			sum += diff
		}
	})

	return float32(sum / float64(n)), nil
}
