package routedb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/internal/compress"
	"github.com/hupe1980/antnav/internal/hash"
)

// ErrCorrupt is returned when a stored snapshot cannot be decoded.
var ErrCorrupt = errors.New("routedb: corrupt snapshot")

// Format is the on-store encoding of a snapshot.
type Format int

const (
	// PNG stores 8-bit greyscale PNG files.
	PNG Format = iota
	// RawLZ4 stores LZ4-compressed raw pixels.
	RawLZ4
	// RawZSTD stores ZSTD-compressed raw pixels.
	RawZSTD
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case RawLZ4:
		return "lz4"
	case RawZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case RawLZ4:
		return ".lz4"
	case RawZSTD:
		return ".zst"
	default:
		return ".png"
	}
}

// ParseFormat parses a format name or extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "", "png":
		return PNG, nil
	case "lz4":
		return RawLZ4, nil
	case "zstd", "zst":
		return RawZSTD, nil
	default:
		return PNG, fmt.Errorf("%w: unknown route format %q", core.ErrUnsupportedFormat, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Format) codec() compress.Type {
	if f == RawZSTD {
		return compress.ZSTD
	}
	return compress.LZ4
}

// Filename returns the blob name of snapshot i.
func Filename(i int, f Format) string {
	return fmt.Sprintf("image_%05d%s", i, f.Extension())
}

const (
	rawMagic      = "ANR1"
	rawHeaderSize = 16

	// The block header stores sizes as uint32.
	maxRawPixels = 1<<32 - 1
)

// Encode serialises img in format f.
func Encode(img *imgproc.Gray, f Format) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil snapshot", core.ErrPrecondition)
	}

	switch f {
	case PNG:
		var buf bytes.Buffer
		if err := imgio.PNGEncoder()(&buf, imgproc.ToImage(img)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case RawLZ4, RawZSTD:
		block, err := compress.Encode(img.Pix, f.codec())
		if err != nil {
			return nil, err
		}
		out := make([]byte, rawHeaderSize, rawHeaderSize+len(block))
		copy(out, rawMagic)
		binary.LittleEndian.PutUint32(out[4:], uint32(img.Width))
		binary.LittleEndian.PutUint32(out[8:], uint32(img.Height))
		binary.LittleEndian.PutUint32(out[12:], hash.CRC32C(img.Pix))
		return append(out, block...), nil
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, f)
	}
}

// Decode parses a snapshot stored in format f.
func Decode(data []byte, f Format) (*imgproc.Gray, error) {
	switch f {
	case PNG:
		src, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		return imgproc.FromImage(src), nil
	case RawLZ4, RawZSTD:
		return decodeRaw(data, f)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, f)
	}
}

func decodeRaw(data []byte, f Format) (*imgproc.Gray, error) {
	if len(data) < rawHeaderSize || string(data[:4]) != rawMagic {
		return nil, fmt.Errorf("%w: missing %s header", ErrCorrupt, rawMagic)
	}
	size := imgproc.Size{
		Width:  int(binary.LittleEndian.Uint32(data[4:])),
		Height: int(binary.LittleEndian.Uint32(data[8:])),
	}
	sum := binary.LittleEndian.Uint32(data[12:])

	pixels := uint64(binary.LittleEndian.Uint32(data[4:])) * uint64(binary.LittleEndian.Uint32(data[8:]))
	if pixels == 0 || pixels > maxRawPixels {
		return nil, fmt.Errorf("%w: invalid resolution %s", ErrCorrupt, size)
	}
	declared, err := compress.RawSize(data[rawHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint64(declared) != pixels {
		return nil, fmt.Errorf("%w: %s image but block holds %d bytes", ErrCorrupt, size, declared)
	}

	pix, err := compress.Decode(data[rawHeaderSize:], f.codec(), int(pixels))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if hash.CRC32C(pix) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	img, err := imgproc.FromPix(size, pix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return img, nil
}
