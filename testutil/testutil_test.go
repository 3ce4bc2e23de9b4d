package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/antnav/imgproc"
)

func TestUniformImageDeterministic(t *testing.T) {
	size := imgproc.Size{Width: 16, Height: 4}

	a := NewRNG(4711).UniformImage(size)
	b := NewRNG(4711).UniformImage(size)

	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, size, a.Size())
}

func TestResetReplaysSequence(t *testing.T) {
	rng := NewRNG(7)
	first := rng.Intn(1000)
	rng.Reset()
	assert.Equal(t, first, rng.Intn(1000))
	assert.Equal(t, int64(7), rng.Seed())
}

func TestPanoramaHasNoRotationalSymmetry(t *testing.T) {
	size := imgproc.Size{Width: 36, Height: 8}
	pano := NewRNG(1).Panorama(size)

	require.Equal(t, size, pano.Size())
	for k := 1; k < size.Width; k++ {
		assert.NotEqual(t, pano.Pix, Rolled(pano, k).Pix, "roll %d", k)
	}
}

func TestRoute(t *testing.T) {
	size := imgproc.Size{Width: 20, Height: 5}
	route := NewRNG(3).Route(6, size, 1)

	require.Len(t, route, 6)
	for _, view := range route {
		assert.Equal(t, size, view.Size())
	}
}

func TestAngleDiff(t *testing.T) {
	assert.InDelta(t, 0, AngleDiff(-180, 180), 1e-9)
	assert.InDelta(t, 20, AngleDiff(170, -170), 1e-9)
	assert.InDelta(t, 90, AngleDiff(45, -45), 1e-9)
}
