// Package box implements the recursive box-tree walk: reading one header
// at a time (compact or 64-bit extended), bounding each box's body to
// exactly its declared size, and routing known box types to caller-supplied
// handlers while silently skipping everything else.
package box

import (
	"errors"
	"io"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// ReadHeader reads one box header from r. It returns io.EOF, unmodified,
// when the stream ends cleanly before any header bytes are consumed, the
// signal that a container has no more children. Any other short read is
// reported as isobmff.ErrUnexpectedEOF: a header was started but not
// finished.
func ReadHeader(r io.Reader) (isobmff.Header, error) {
	var buf [8]byte

	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return isobmff.Header{}, io.EOF
		}

		return isobmff.Header{}, isobmff.ErrUnexpectedEOF
	}

	size := uint64(uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]))

	var name isobmff.FourCC

	copy(name[:], buf[4:8])

	headerBytes := uint8(8)

	if size == 1 {
		ext, err := bitstream.ReadU64(r)
		if err != nil {
			return isobmff.Header{}, isobmff.ErrUnexpectedEOF
		}

		size = ext
		headerBytes = 16
	}

	if size != 0 && size < uint64(headerBytes) {
		return isobmff.Header{}, isobmff.Invalidf("box %q too small: size %d < header %d", name, size, headerBytes)
	}

	return isobmff.Header{Name: name, Size: size, HeaderBytes: headerBytes}, nil
}
