package differencer

import (
	"math"

	"github.com/hupe1980/antnav/imgproc"
)

// RMSDiff scores images by their root-mean-square pixel difference.
//
// Squared differences are written to a scratch buffer owned by the
// instance, so an RMSDiff must not be shared between goroutines.
type RMSDiff[T imgproc.Pixel] struct {
	scratch []float64
}

// NewRMSDiff returns an RMSDiff differencer.
func NewRMSDiff[T imgproc.Pixel]() *RMSDiff[T] {
	return &RMSDiff[T]{}
}

// Difference implements Differencer.
func (d *RMSDiff[T]) Difference(a, b *imgproc.Image[T], m1, m2 imgproc.Mask) (float32, error) {
	m, n, err := prepare(a, b, m1, m2)
	if err != nil {
		return 0, err
	}

	if cap(d.scratch) < len(a.Pix) {
		d.scratch = make([]float64, len(a.Pix))
	}
	sq := d.scratch[:len(a.Pix)]
	for i := range sq {
		diff := float64(a.Pix[i]) - float64(b.Pix[i])
		sq[i] = diff * diff
	}

	var sum float64
	m.ValidRuns(len(sq), func(start, end int) {
		for _, v := range sq[start:end] {
			sum += v
		}
	})

	return float32(math.Sqrt(sum / float64(n))), nil
}
