package terrain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

const (
	snapshotMagic   = "VXHF"
	snapshotVersion = 1
	headerSize      = 4 + 1 + 4 + 8 // magic, version, size, seed
	maxSnapshotSize = 4096
)

// Snapshot format errors.
var (
	ErrInvalidSnapshotMagic       = errors.New("invalid snapshot magic: expected 'VXHF'")
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")
	ErrTruncatedSnapshot          = errors.New("truncated snapshot data")
	ErrInvalidHeight              = errors.New("invalid column height")
	ErrSnapshotTooLarge           = errors.New("snapshot grid too large")
)

// heightBytes returns the heights as little-endian uint16 values.
func (hf *HeightField) heightBytes() []byte {
	buf := make([]byte, 2*len(hf.Heights))
	for i, h := range hf.Heights {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(min(h, math.MaxUint16)))
	}
	return buf
}

// Checksum returns an xxhash64 digest of the size and heights.
// Two fields with the same checksum are, for all practical purposes, identical.
func (hf *HeightField) Checksum() uint64 {
	d := xxhash.New()
	var sz [4]byte
	binary.LittleEndian.PutUint32(sz[:], uint32(hf.Size))
	_, _ = d.Write(sz[:])
	_, _ = d.Write(hf.heightBytes())
	return d.Sum64()
}

// MarshalBinary encodes the field as a zstd-compressed snapshot.
func (hf *HeightField) MarshalBinary() ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer enc.Close()

	var out bytes.Buffer
	out.WriteString(snapshotMagic)
	out.WriteByte(snapshotVersion)
	_ = binary.Write(&out, binary.LittleEndian, uint32(hf.Size))
	_ = binary.Write(&out, binary.LittleEndian, hf.Seed)
	out.Write(enc.EncodeAll(hf.heightBytes(), nil))

	return out.Bytes(), nil
}

// UnmarshalHeightField decodes a snapshot produced by MarshalBinary.
func UnmarshalHeightField(data []byte) (*HeightField, error) {
	if len(data) < headerSize {
		return nil, ErrTruncatedSnapshot
	}
	if string(data[:4]) != snapshotMagic {
		return nil, ErrInvalidSnapshotMagic
	}
	if data[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSnapshotVersion, data[4])
	}

	size := int(binary.LittleEndian.Uint32(data[5:9]))
	seed := int64(binary.LittleEndian.Uint64(data[9:17]))
	if size > maxSnapshotSize {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotTooLarge, size)
	}

	want := 2 * size * size
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(max(1, want))))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data[headerSize:], nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, fmt.Errorf("%w: heights exceed %d bytes", ErrTruncatedSnapshot, want)
	}
	if err != nil {
		return nil, fmt.Errorf("decompressing heights: %w", err)
	}
	if len(raw) != want {
		return nil, fmt.Errorf("%w: expected %d height bytes, got %d", ErrTruncatedSnapshot, want, len(raw))
	}

	hf := &HeightField{
		Seed:    seed,
		Size:    size,
		Heights: make([]int, size*size),
	}
	for i := range hf.Heights {
		h := int(binary.LittleEndian.Uint16(raw[2*i:]))
		if h < minHeight {
			return nil, fmt.Errorf("%w: %d at column %d", ErrInvalidHeight, h, i)
		}
		hf.Heights[i] = h
	}

	return hf, nil
}
