package infomax

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
)

// InfoMax is an online-trained familiarity network over 8-bit images.
type InfoMax struct {
	size         imgproc.Size
	learningRate float64
	numSide      int
	sidePixels   int
	seed         uint64
	fixedSeed    bool
	logger       *slog.Logger

	weights *mat.Dense

	// Scratch vectors; owned by the instance.
	x, u, y, yu, v *mat.VecDense
	zeroSide       []float64
}

// New returns an InfoMax for images of the given size.
func New(size imgproc.Size, opts ...Option) (*InfoMax, error) {
	o := options{learningRate: DefaultLearningRate, sidePixels: 1}
	for _, fn := range opts {
		fn(&o)
	}

	if size.Empty() {
		return nil, fmt.Errorf("%w: invalid resolution %s", core.ErrPrecondition, size)
	}
	if o.numSide < 0 || (o.numSide > 0 && o.sidePixels < 1) {
		return nil, fmt.Errorf("%w: invalid non-retinatopic inputs %d×%d", core.ErrPrecondition, o.numSide, o.sidePixels)
	}
	if o.learningRate <= 0 || math.IsNaN(o.learningRate) || math.IsInf(o.learningRate, 0) {
		return nil, fmt.Errorf("%w: learning rate must be positive and finite, got %v", core.ErrPrecondition, o.learningRate)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	im := &InfoMax{
		size:         size,
		learningRate: o.learningRate,
		numSide:      o.numSide,
		sidePixels:   o.sidePixels,
		seed:         o.seed,
		fixedSeed:    o.hasSeed,
		logger:       logger,
		zeroSide:     make([]float64, o.numSide),
	}

	n := im.NumInputs()
	im.x = mat.NewVecDense(n, nil)
	im.u = mat.NewVecDense(n, nil)
	im.y = mat.NewVecDense(n, nil)
	im.yu = mat.NewVecDense(n, nil)
	im.v = mat.NewVecDense(n, nil)

	if o.initialWeights != nil {
		r, c := o.initialWeights.Dims()
		if r != n || c != n {
			return nil, fmt.Errorf("%w: initial weights are %d×%d, want %d×%d", core.ErrPrecondition, r, c, n, n)
		}
		im.weights = mat.DenseCopyOf(o.initialWeights)
		logger.Debug("infomax initialised from given weights", "inputs", n)
	} else {
		im.ClearMemory()
	}

	return im, nil
}

// Resolution returns the image size the network accepts.
func (im *InfoMax) Resolution() imgproc.Size {
	return im.size
}

// NumInputs returns the length of the fused input vector, which is also
// the dimension of the square weight matrix.
func (im *InfoMax) NumInputs() int {
	return im.size.Pixels() + im.numSide*im.sidePixels
}

// LearningRate returns the configured learning rate.
func (im *InfoMax) LearningRate() float64 {
	return im.learningRate
}

// Seed returns the seed of the most recent random weight draw.
func (im *InfoMax) Seed() uint64 {
	return im.seed
}

// Weights returns a copy of the weight matrix.
func (im *InfoMax) Weights() *mat.Dense {
	return mat.DenseCopyOf(im.weights)
}

// Train applies one learning step for img with a zero side channel.
func (im *InfoMax) Train(img *imgproc.Gray) error {
	return im.TrainWith(img, im.zeroSide)
}

// TrainWith applies one learning step for img and side-channel values in
// [0, 1]:
//
//	u = W·x, y = tanh(u)
//	W ← W + (η/N)·(I − (y+u)·uᵀ)·W
//
// The update is evaluated as a scale plus a rank-one correction.
func (im *InfoMax) TrainWith(img *imgproc.Gray, side []float64) error {
	if err := im.fuse(img, side); err != nil {
		return err
	}

	im.u.MulVec(im.weights, im.x)
	n := im.u.Len()
	for i := 0; i < n; i++ {
		ui := im.u.AtVec(i)
		yi := math.Tanh(ui)
		im.y.SetVec(i, yi)
		im.yu.SetVec(i, yi+ui)
	}

	// (I − (y+u)·uᵀ)·W = W − (y+u)·(Wᵀu)ᵀ
	im.v.MulVec(im.weights.T(), im.u)
	rate := im.learningRate / float64(n)
	im.weights.Scale(1+rate, im.weights)
	im.weights.RankOne(im.weights, -rate, im.yu, im.v)

	return nil
}

// Test returns the novelty of img with a zero side channel.
func (im *InfoMax) Test(img *imgproc.Gray) (float32, error) {
	return im.TestWith(img, im.zeroSide)
}

// TestWith returns the novelty Σ|W·x| of img and side-channel values. It
// never changes the weights.
func (im *InfoMax) TestWith(img *imgproc.Gray, side []float64) (float32, error) {
	if err := im.fuse(img, side); err != nil {
		return 0, err
	}
	im.v.MulVec(im.weights, im.x)
	return float32(floats.Norm(im.v.RawVector().Data, 1)), nil
}

// ClearMemory replaces the weights with a fresh random draw. With a fixed
// seed this restores the initial random weights.
func (im *InfoMax) ClearMemory() {
	if !im.fixedSeed {
		im.seed = rand.Uint64()
	}
	im.weights = RandomWeights(im.NumInputs(), im.seed)
	im.logger.Info("infomax weights drawn", "seed", im.seed, "inputs", im.NumInputs())
}

// fuse writes the normalised pixels followed by the quantised side
// channel into x.
func (im *InfoMax) fuse(img *imgproc.Gray, side []float64) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", core.ErrPrecondition)
	}
	if err := core.CheckSize("image", im.size, img.Size()); err != nil {
		return err
	}
	if len(side) != im.numSide {
		return fmt.Errorf("%w: got %d non-retinatopic inputs, want %d", core.ErrPrecondition, len(side), im.numSide)
	}

	data := im.x.RawVector().Data
	imgproc.Normalize(img, data)

	off := len(img.Pix)
	for _, r := range side {
		q := float64(quantise(r)) / 255
		for j := 0; j < im.sidePixels; j++ {
			data[off] = q
			off++
		}
	}
	return nil
}

// quantise converts a value in [0, 1] to a byte, rounding and clamping.
func quantise(r float64) uint8 {
	v := math.Round(r * 255)
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
