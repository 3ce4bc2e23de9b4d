package testutil

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/antnav/imgproc"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// UniformImage returns an 8-bit image with independent uniform pixels.
func (r *RNG) UniformImage(size imgproc.Size) *imgproc.Gray {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := imgproc.New[uint8](size)
	for i := range img.Pix {
		img.Pix[i] = uint8(r.rand.Intn(256))
	}
	return img
}

// UniformImages returns n independent uniform images.
func (r *RNG) UniformImages(n int, size imgproc.Size) []*imgproc.Gray {
	imgs := make([]*imgproc.Gray, n)
	for i := range imgs {
		imgs[i] = r.UniformImage(size)
	}
	return imgs
}

// Float32Image returns a float image with uniform pixels in [0, 1).
func (r *RNG) Float32Image(size imgproc.Size) *imgproc.Gray32F {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := imgproc.New[float32](size)
	for i := range img.Pix {
		img.Pix[i] = r.rand.Float32()
	}
	return img
}

// Panorama returns a synthetic panoramic scene: a bright sky over a dark
// skyline whose height varies smoothly with azimuth, plus mild texture.
// The skyline is built from a few random harmonics so the scene has no
// rotational symmetry.
func (r *RNG) Panorama(size imgproc.Size) *imgproc.Gray {
	r.mu.Lock()
	defer r.mu.Unlock()

	const harmonics = 5
	amps := make([]float64, harmonics)
	phases := make([]float64, harmonics)
	for k := range harmonics {
		amps[k] = r.rand.Float64() / float64(k+1)
		phases[k] = r.rand.Float64() * 2 * math.Pi
	}

	img := imgproc.New[uint8](size)
	for x := 0; x < size.Width; x++ {
		theta := 2 * math.Pi * float64(x) / float64(size.Width)
		h := 0.0
		for k := range harmonics {
			h += amps[k] * math.Sin(float64(k+1)*theta+phases[k])
		}
		// Map roughly [-2, 2] onto the image height.
		horizon := float64(size.Height) * (0.5 + h/4)

		for y := 0; y < size.Height; y++ {
			var v float64
			if float64(y) < horizon {
				v = 200 + 40*float64(y)/float64(size.Height)
			} else {
				v = 40 + 30*math.Sin(3*theta+float64(y))
			}
			v += r.rand.Float64()*10 - 5
			img.Set(x, y, clampByte(v))
		}
	}
	return img
}

// Scene is a smooth synthetic world that can be viewed from any heading.
// It satisfies rotater.Renderer[uint8].
type Scene struct {
	amps   []float64
	phases []float64
}

// Scene returns a random scene.
func (r *RNG) Scene() *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()

	const harmonics = 4
	s := &Scene{amps: make([]float64, harmonics), phases: make([]float64, harmonics)}
	for k := range harmonics {
		s.amps[k] = 0.5 + r.rand.Float64()/float64(k+1)
		s.phases[k] = r.rand.Float64() * 2 * math.Pi
	}
	return s
}

// View renders the scene as seen facing heading degrees. Column x shows
// azimuth heading + 360*x/width.
func (s *Scene) View(size imgproc.Size, heading float64) *imgproc.Gray {
	img := imgproc.New[uint8](size)
	s.draw(heading, img)
	return img
}

// Render implements rotater.Renderer[uint8].
func (s *Scene) Render(_ context.Context, heading float64, dst *imgproc.Gray) error {
	s.draw(heading, dst)
	return nil
}

func (s *Scene) draw(heading float64, dst *imgproc.Gray) {
	for x := 0; x < dst.Width; x++ {
		theta := (heading + 360*float64(x)/float64(dst.Width)) * math.Pi / 180
		h := 0.0
		for k := range s.amps {
			h += s.amps[k] * math.Sin(float64(k+1)*theta+s.phases[k])
		}
		horizon := float64(dst.Height) * (0.5 + h/8)
		for y := 0; y < dst.Height; y++ {
			// Soft horizon edge keeps the view continuous in heading.
			sky := 1 / (1 + math.Exp(2*(float64(y)-horizon)))
			v := 40 + 180*sky + 20*math.Sin(3*theta)
			dst.Set(x, y, clampByte(v))
		}
	}
}

// Route returns n panoramas of one scene as seen from successive positions.
// Each view differs from the previous by noise of the given amplitude and a
// one-column skyline shift every few steps.
func (r *RNG) Route(n int, size imgproc.Size, noise float64) []*imgproc.Gray {
	base := r.Panorama(size)

	r.mu.Lock()
	defer r.mu.Unlock()

	route := make([]*imgproc.Gray, n)
	var scratch []uint8
	for i := range route {
		view := base.Clone()
		scratch = view.RollLeft(i/3, scratch)
		for j, v := range view.Pix {
			view.Pix[j] = clampByte(float64(v) + (r.rand.Float64()*2-1)*noise*float64(i+1))
		}
		route[i] = view
	}
	return route
}

// Rolled returns a copy of img circularly shifted left by k columns.
func Rolled[T imgproc.Pixel](img *imgproc.Image[T], k int) *imgproc.Image[T] {
	out := img.Clone()
	out.RollLeft(k, nil)
	return out
}

// Constant returns an image with every pixel set to v.
func Constant[T imgproc.Pixel](size imgproc.Size, v T) *imgproc.Image[T] {
	img := imgproc.New[T](size)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// AngleDiff returns the absolute difference of two headings in degrees,
// accounting for wrap-around.
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
