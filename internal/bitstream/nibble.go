package bitstream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
)

// ReadNibblePair reads one byte as two 4-bit fields (high nibble first),
// the packing tenc version 1 uses for its crypt/skip byte block counts.
func ReadNibblePair(r io.Reader) (hi, lo uint8, err error) {
	b, err := ReadU8(r)
	if err != nil {
		return 0, 0, err
	}

	br := bitio.NewReader(bytes.NewReader([]byte{b}))

	h, err := br.ReadBits(4)
	if err != nil {
		return 0, 0, io.ErrUnexpectedEOF
	}

	l, err := br.ReadBits(4)
	if err != nil {
		return 0, 0, io.ErrUnexpectedEOF
	}

	return uint8(h), uint8(l), nil
}
