package differencer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
)

// CorrCoefficient scores images by 1 - |r| where r is the Pearson
// correlation of their valid pixels. Scores lie in [0, 1].
//
// Only uint8 and float32 pixels are supported. An image that is constant
// over the compared pixels has no defined correlation and yields
// core.ErrDegenerateInput.
type CorrCoefficient[T imgproc.Pixel] struct {
	maskSupport bool
	x, y        []float64
}

// NewCorrCoefficient returns a CorrCoefficient differencer. Masked
// correlation is enabled unless WithMaskSupport(false) is given.
func NewCorrCoefficient[T imgproc.Pixel](opts ...Option) *CorrCoefficient[T] {
	o := applyOptions(opts)
	return &CorrCoefficient[T]{maskSupport: o.maskSupport}
}

// Difference implements Differencer.
func (d *CorrCoefficient[T]) Difference(a, b *imgproc.Image[T], m1, m2 imgproc.Mask) (float32, error) {
	if err := checkCorrPixel[T](); err != nil {
		return 0, err
	}
	if !d.maskSupport && (!m1.Empty() || !m2.Empty()) {
		return 0, fmt.Errorf("%w: masked correlation is disabled", core.ErrCapabilityUnavailable)
	}

	m, n, err := prepare(a, b, m1, m2)
	if err != nil {
		return 0, err
	}

	if cap(d.x) < n {
		d.x = make([]float64, n)
		d.y = make([]float64, n)
	}
	x, y := d.x[:0], d.y[:0]
	m.ValidRuns(len(a.Pix), func(start, end int) {
		for i := start; i < end; i++ {
			x = append(x, float64(a.Pix[i]))
			y = append(y, float64(b.Pix[i]))
		}
	})

	if _, sd := stat.PopMeanStdDev(x, nil); sd == 0 {
		return 0, fmt.Errorf("%w: first image is constant", core.ErrDegenerateInput)
	}
	if _, sd := stat.PopMeanStdDev(y, nil); sd == 0 {
		return 0, fmt.Errorf("%w: second image is constant", core.ErrDegenerateInput)
	}

	r := math.Abs(stat.Correlation(x, y, nil))
	if r > 1 {
		r = 1
	}
	return float32(1 - r), nil
}

func checkCorrPixel[T imgproc.Pixel]() error {
	var zero T
	switch any(zero).(type) {
	case uint8, float32:
		return nil
	default:
		return &core.UnsupportedFormatError{Type: imgproc.TypeName[T]()}
	}
}
