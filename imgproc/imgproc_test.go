package imgproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/antnav/core"
)

func seq(size Size) *Gray {
	img := New[uint8](size)
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	return img
}

func TestRollLeft(t *testing.T) {
	img := seq(Size{Width: 4, Height: 2})

	scratch := img.RollLeft(1, nil)

	assert.Equal(t, []uint8{1, 2, 3, 0, 5, 6, 7, 4}, img.Pix)
	assert.Len(t, scratch, 1)
}

func TestRollLeftComposes(t *testing.T) {
	a := seq(Size{Width: 7, Height: 3})
	b := a.Clone()

	var scratch []uint8
	scratch = a.RollLeft(2, scratch)
	a.RollLeft(2, scratch)
	b.RollLeft(4, nil)

	assert.Equal(t, b.Pix, a.Pix)
}

func TestRollLeftFullTurnIsIdentity(t *testing.T) {
	a := seq(Size{Width: 5, Height: 2})
	want := a.Clone()

	a.RollLeft(5, nil)
	assert.Equal(t, want.Pix, a.Pix)

	a.RollLeft(-1, nil)
	a.RollLeft(1, nil)
	assert.Equal(t, want.Pix, a.Pix)
}

func TestFromPix(t *testing.T) {
	_, err := FromPix(Size{Width: 2, Height: 2}, []float32{1, 2, 3})
	require.ErrorIs(t, err, core.ErrPrecondition)

	img, err := FromPix(Size{Width: 2, Height: 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, float32(4), img.At(1, 1))
}

func TestCopyFromSizeMismatch(t *testing.T) {
	a := New[uint8](Size{Width: 2, Height: 2})
	b := New[uint8](Size{Width: 3, Height: 2})

	err := a.CopyFrom(b)

	var sizeErr *core.SizeMismatchError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, Size{Width: 2, Height: 2}, sizeErr.Expected)
}

func TestIsConstant(t *testing.T) {
	img := New[uint16](Size{Width: 3, Height: 1})
	assert.True(t, img.IsConstant())
	img.Pix[2] = 1
	assert.False(t, img.IsConstant())
}

func TestImageConversionRoundTrip(t *testing.T) {
	img := seq(Size{Width: 6, Height: 3})

	back := FromImage(ToImage(img))
	assert.Equal(t, img.Pix, back.Pix)

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	rgba.Set(1, 0, color.RGBA{A: 255})
	g := FromImage(rgba)
	assert.Equal(t, []uint8{200, 0}, g.Pix)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "uint8", TypeName[uint8]())
	assert.Equal(t, "float64", TypeName[float64]())
}

func TestResize(t *testing.T) {
	img := New[uint8](Size{Width: 8, Height: 4})
	for i := range img.Pix {
		img.Pix[i] = 100
	}

	out, err := Resize(img, Size{Width: 4, Height: 2})
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 4, Height: 2}, out.Size())
	for _, v := range out.Pix {
		assert.InDelta(t, 100, int(v), 1)
	}

	same, err := Resize(img, img.Size())
	require.NoError(t, err)
	assert.Equal(t, img.Pix, same.Pix)
	same.Pix[0] = 0
	assert.Equal(t, uint8(100), img.Pix[0])

	_, err = Resize(img, Size{})
	assert.ErrorIs(t, err, core.ErrPrecondition)
}
