package bitstream

import (
	"io"

	"github.com/mycophonic/isobmff"
)

// ReadDescriptorLength reads an MPEG-4 descriptor size: a base-128
// variable-length quantity where the high bit of each byte marks
// continuation, used throughout ESDS's descriptor tree (tag, size, tag,
// size, ...). Encoders may pad the encoding across up to four bytes even
// when the value would fit in fewer.
func ReadDescriptorLength(r io.Reader) (uint32, error) {
	var size uint32

	for i := 0; i < 4; i++ {
		b, err := ReadU8(r)
		if err != nil {
			return 0, err
		}

		size = size<<7 | uint32(b&0x7f)

		if b&0x80 == 0 {
			return size, nil
		}

		if i == 3 {
			return 0, isobmff.Invalidf("descriptor length exceeds 4 bytes")
		}
	}

	return size, nil
}

// ReadDescriptorTag reads a one-byte ESDS descriptor tag followed by its
// length, returning the tag and the bounded body substream.
func ReadDescriptorTag(r io.Reader) (tag uint8, body *Substream, err error) {
	tag, err = ReadU8(r)
	if err != nil {
		return 0, nil, err
	}

	length, err := ReadDescriptorLength(r)
	if err != nil {
		return 0, nil, err
	}

	return tag, Limited(r, uint64(length)), nil
}
