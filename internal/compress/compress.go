// Package compress implements single-block LZ4 and ZSTD compression for
// raw snapshot files.
//
// A block is laid out as
//
//	[UncompressedSize uint32][CompressedSize uint32][Data...]
//
// in little endian. A CompressedSize of 0 means Data is stored verbatim,
// which happens whenever compression does not pay off.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type is the compression algorithm of a block.
type Type uint8

const (
	// None stores blocks uncompressed.
	None Type = 0
	// LZ4 is fast block compression.
	LZ4 Type = 1
	// ZSTD trades speed for a better ratio.
	ZSTD Type = 2
)

// String returns the name of the algorithm.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// HeaderSize is the size of the block header in bytes.
const HeaderSize = 8

var (
	// ErrCorrupt is returned when a block cannot be decoded.
	ErrCorrupt = errors.New("compress: corrupt block")
	// ErrUnknownType is returned for an unsupported algorithm.
	ErrUnknownType = errors.New("compress: unknown compression type")
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode compresses data into a single block with header.
func Encode(data []byte, t Type) ([]byte, error) {
	if t > ZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}

	var compressed []byte

	switch {
	case len(data) == 0 || t == None:
	case t == LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case t == ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	// Keep the raw bytes unless compression saves at least 10%.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, HeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[HeaderSize:], data)
		return out, nil
	}

	out := make([]byte, HeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[HeaderSize:], compressed)
	return out, nil
}

// RawSize returns the uncompressed size a block header declares.
func RawSize(block []byte) (int, error) {
	if len(block) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(block))
	}
	return int(binary.LittleEndian.Uint32(block[0:])), nil
}

// Decode decompresses a block written by Encode with the same Type. The
// block must declare exactly want uncompressed bytes; nothing is
// allocated for a block that does not.
func Decode(block []byte, t Type, want int) ([]byte, error) {
	if len(block) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(block))
	}

	rawSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	payload := block[HeaderSize:]

	if want < 0 || uint64(rawSize) != uint64(want) {
		return nil, fmt.Errorf("%w: block declares %d bytes, want %d", ErrCorrupt, rawSize, want)
	}

	if compressedSize == 0 {
		if uint64(len(payload)) < uint64(rawSize) {
			return nil, fmt.Errorf("%w: truncated raw block", ErrCorrupt)
		}
		out := make([]byte, rawSize)
		copy(out, payload)
		return out, nil
	}

	if uint64(len(payload)) < uint64(compressedSize) {
		return nil, fmt.Errorf("%w: truncated compressed block", ErrCorrupt)
	}
	payload = payload[:compressedSize]
	out := make([]byte, rawSize)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case ZSTD:
		var h zstd.Header
		if err := h.Decode(payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if h.HasFCS && h.FrameContentSize != uint64(rawSize) {
			return nil, fmt.Errorf("%w: frame declares %d bytes, want %d", ErrCorrupt, h.FrameContentSize, rawSize)
		}

		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(payload, out[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}
