package imgproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/antnav/core"
)

func TestMaskZeroValueIsAbsent(t *testing.T) {
	var m Mask
	size := Size{Width: 4, Height: 3}

	assert.True(t, m.Empty())
	assert.Equal(t, 12, m.CountUnmasked(size))
	assert.True(t, m.IsValid(5))
	assert.NoError(t, m.Check(size))
	assert.Nil(t, m.Image())
}

func TestMaskFromImage(t *testing.T) {
	img := New[uint8](Size{Width: 3, Height: 2})
	copy(img.Pix, []uint8{255, 0, 1, 0, 0, 9})

	m, err := MaskFromImage(img)
	require.NoError(t, err)

	assert.False(t, m.Empty())
	assert.Equal(t, 3, m.CountUnmasked(img.Size()))
	assert.False(t, m.IsValid(1))
	assert.True(t, m.IsValid(2))
	assert.Equal(t, []uint8{255, 0, 255, 0, 0, 255}, m.Image().Pix)

	_, err = MaskFromImage[uint8](nil)
	assert.ErrorIs(t, err, core.ErrPrecondition)
}

func TestMaskCheck(t *testing.T) {
	m, err := MaskFromInvalid(Size{Width: 2, Height: 2}, 0)
	require.NoError(t, err)

	err = m.Check(Size{Width: 4, Height: 1})
	assert.ErrorIs(t, err, core.ErrPrecondition)

	_, err = MaskFromInvalid(Size{Width: 2, Height: 2}, 4)
	assert.ErrorIs(t, err, core.ErrPrecondition)
}

func TestCombine(t *testing.T) {
	size := Size{Width: 4, Height: 1}
	a, _ := MaskFromInvalid(size, 0, 1)
	b, _ := MaskFromInvalid(size, 1, 3)

	t.Run("Intersection", func(t *testing.T) {
		c, err := Combine(a, b)
		require.NoError(t, err)
		assert.Equal(t, 1, c.CountUnmasked(size))
		assert.True(t, c.IsValid(2))
	})

	t.Run("Commutative", func(t *testing.T) {
		ab, _ := Combine(a, b)
		ba, _ := Combine(b, a)
		assert.True(t, ab.Equal(ba))
	})

	t.Run("Idempotent", func(t *testing.T) {
		aa, _ := Combine(a, a)
		assert.True(t, aa.Equal(a))
	})

	t.Run("AbsentIsIdentity", func(t *testing.T) {
		c, err := Combine(Mask{}, b)
		require.NoError(t, err)
		assert.True(t, c.Equal(b))

		c, err = Combine(a, Mask{})
		require.NoError(t, err)
		assert.True(t, c.Equal(a))

		c, err = Combine(Mask{}, Mask{})
		require.NoError(t, err)
		assert.True(t, c.Empty())
	})

	t.Run("SizeMismatch", func(t *testing.T) {
		other, _ := MaskFromInvalid(Size{Width: 2, Height: 2}, 0)
		_, err := Combine(a, other)
		assert.ErrorIs(t, err, core.ErrPrecondition)
	})
}

func TestApplyMask(t *testing.T) {
	size := Size{Width: 3, Height: 1}
	src := New[float32](size)
	copy(src.Pix, []float32{1, 2, 3})
	dst := New[float32](size)
	m, _ := MaskFromInvalid(size, 1)

	require.NoError(t, ApplyMask(m, src, dst))
	assert.Equal(t, []float32{1, 0, 3}, dst.Pix)

	require.NoError(t, ApplyMask(Mask{}, src, dst))
	assert.Equal(t, []float32{1, 2, 3}, dst.Pix)
}

func TestValidRuns(t *testing.T) {
	size := Size{Width: 4, Height: 2}
	m, _ := MaskFromInvalid(size, 0, 3, 4)

	var runs [][2]int
	m.ValidRuns(size.Pixels(), func(start, end int) {
		runs = append(runs, [2]int{start, end})
	})
	assert.Equal(t, [][2]int{{1, 3}, {5, 8}}, runs)

	runs = nil
	Mask{}.ValidRuns(size.Pixels(), func(start, end int) {
		runs = append(runs, [2]int{start, end})
	})
	assert.Equal(t, [][2]int{{0, 8}}, runs)
}

func TestMaskRollLeftMatchesImageRoll(t *testing.T) {
	size := Size{Width: 5, Height: 2}
	img := New[uint8](size)
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Pix[0] = 0
	img.Pix[7] = 0

	m, err := MaskFromImage(img)
	require.NoError(t, err)

	for step := 0; step < 2*size.Width; step++ {
		rolledImg := img.Clone()
		rolledImg.RollLeft(step, nil)
		want, err := MaskFromImage(rolledImg)
		require.NoError(t, err)

		assert.True(t, m.RollLeft(step).Equal(want), "step %d", step)
	}
}

func TestPreparedMask(t *testing.T) {
	size := Size{Width: 5, Height: 2}
	m, err := MaskFromInvalid(size, 0, 3, 4, 9)
	require.NoError(t, err)

	collect := func(m Mask) [][2]int {
		var out [][2]int
		m.ValidRuns(size.Pixels(), func(start, end int) {
			out = append(out, [2]int{start, end})
		})
		return out
	}

	p := m.Prepared()
	assert.Equal(t, [][2]int{{1, 3}, {5, 9}}, collect(p))
	assert.Equal(t, collect(m), collect(p))
	assert.True(t, p.Equal(m))

	// Combining with the absent mask keeps the cached runs.
	c, err := Combine(p, Mask{})
	require.NoError(t, err)
	allocs := testing.AllocsPerRun(10, func() {
		c.ValidRuns(size.Pixels(), func(int, int) {})
	})
	assert.Zero(t, allocs)

	// A shorter pixel count falls back to walking the bitmap.
	var short [][2]int
	p.ValidRuns(4, func(start, end int) {
		short = append(short, [2]int{start, end})
	})
	assert.Equal(t, [][2]int{{1, 3}}, short)

	var absent Mask
	assert.True(t, absent.Prepared().Empty())
}
