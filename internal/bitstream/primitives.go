package bitstream

import (
	"encoding/binary"
	"io"
)

// readFull reads exactly len(buf) bytes, translating any short read
// (including a clean io.EOF with zero bytes consumed) to
// io.ErrUnexpectedEOF: once a caller has started decoding a primitive
// value, any failure to complete it means the stream ended mid-value.
func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return io.ErrUnexpectedEOF
	}

	return nil
}

func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

func ReadU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadU24 reads a 24-bit big-endian unsigned integer, the width used by
// every full box's version+flags header.
func ReadU24(r io.Reader) (uint32, error) {
	var buf [3]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}

	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
}

func ReadU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(buf[:]), nil
}

func ReadU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(buf[:]), nil
}

func ReadI16(r io.Reader) (int16, error) {
	v, err := ReadU16(r)

	return int16(v), err
}

func ReadI32(r io.Reader) (int32, error) {
	v, err := ReadU32(r)

	return int32(v), err
}

func ReadI64(r io.Reader) (int64, error) {
	v, err := ReadU64(r)

	return int64(v), err
}

// ReadFourCC reads a raw 4-byte box-type or brand identifier.
func ReadFourCC(r io.Reader) ([4]byte, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return buf, err
	}

	return buf, nil
}

// ReadFixed8_8 reads an 8.8 fixed-point value as its raw u16 representation;
// callers divide by 256 to get the float value, or keep it raw for
// lossless round-tripping.
func ReadFixed8_8(r io.Reader) (uint16, error) { //nolint:revive,stylecheck // name mirrors the wire format
	return ReadU16(r)
}

// ReadFixed16_16 reads a 16.16 fixed-point value as its raw u32
// representation (the layout of mvhd's rate, tkhd's width/height, and an
// audio sample entry's sample rate).
func ReadFixed16_16(r io.Reader) (uint32, error) { //nolint:revive,stylecheck // name mirrors the wire format
	return ReadU32(r)
}

// ReadMatrix3x3 reads nine signed 16.16 fixed-point values in row-major
// order, the layout of tkhd's and mvhd's transformation matrix.
func ReadMatrix3x3(r io.Reader) ([9]int32, error) {
	var m [9]int32

	for i := range m {
		v, err := ReadI32(r)
		if err != nil {
			return m, err
		}

		m[i] = v
	}

	return m, nil
}

// ReadPascalString reads a one-byte-length-prefixed string, as used inside
// some legacy QuickTime sample description fields.
func ReadPascalString(r io.Reader) (string, error) {
	n, err := ReadU8(r)
	if err != nil {
		return "", err
	}

	buf := make([]byte, n)
	if err := readFull(r, buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

// SkipN discards exactly n bytes, translating a short skip to
// io.ErrUnexpectedEOF the same way every other primitive read does.
func SkipN(r io.Reader, n int) error {
	if n <= 0 {
		return nil
	}

	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return io.ErrUnexpectedEOF
	}

	return nil
}
