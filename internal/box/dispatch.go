package box

import (
	"errors"
	"io"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/logging"
)

// DefaultMaxDepth bounds box containment nesting. A real ISO BMFF tree
// never nests more than a handful of levels deep (moov/trak/mdia/minf/stbl
// is five); this generously caps recursive descent against pathological or
// malicious input without random access to validate structure up front.
// Callers needing a different bound (parser.WithMaxBoxDepth) pass it
// through Dispatch's maxDepth parameter instead of overriding this
// constant.
const DefaultMaxDepth = 64

// Handler processes one box's bounded body. It must consume only what it
// understands; the dispatcher discards anything left over once it
// returns, so trailing padding is silently tolerated.
type Handler func(body *bitstream.Substream) error

// Table maps box FourCCs to handlers for one containment level.
type Table map[isobmff.FourCC]Handler

// Dispatch walks boxes within parent, invoking table's handler for each
// recognized box and skipping (and logging) every other box. topLevel
// controls how a handler's isobmff.ErrUnsupported is treated: at the top
// level it is returned to the caller (the parser session surfaces it
// without poisoning); at any nested level it is logged and swallowed, per
// the dispatcher's containment rules.
//
// Dispatch returns nil once parent is exhausted, isobmff.ErrUnexpectedEOF
// if the stream ended mid-box, or an error wrapping isobmff.ErrInvalidData
// for structurally invalid input.
func Dispatch(parent *bitstream.Substream, table Table, topLevel bool, depth, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	if depth > maxDepth {
		return isobmff.Invalidf("box containment exceeds max depth %d", maxDepth)
	}

	for {
		before := parent.Remaining()

		hdr, err := ReadHeader(parent)

		switch {
		case errors.Is(err, io.EOF):
			if before != bitstream.Unbounded && before != 0 {
				// The enclosing box still owes bytes: the stream ended mid-box.
				return isobmff.ErrUnexpectedEOF
			}

			return nil
		case errors.Is(err, isobmff.ErrUnexpectedEOF):
			return isobmff.ErrUnexpectedEOF
		case err != nil:
			return err
		}

		var bodyLen uint64

		switch {
		case hdr.Size == 0 && before == bitstream.Unbounded:
			bodyLen = bitstream.Unbounded
		case hdr.Size == 0:
			bodyLen = before - uint64(hdr.HeaderBytes)
		default:
			bodyLen = hdr.Size - uint64(hdr.HeaderBytes)
			if before != bitstream.Unbounded && bodyLen > before-uint64(hdr.HeaderBytes) {
				return isobmff.Invalidf("box %q declares size %d beyond enclosing container", hdr.Name, hdr.Size)
			}
		}

		body := bitstream.Limited(parent, bodyLen)

		handler, known := table[hdr.Name]
		if !known {
			logging.Logger().Debug().Str("box", hdr.Name.String()).Msg("skipping unknown box")

			if err := body.Discard(); err != nil {
				return isobmff.ErrUnexpectedEOF
			}

			continue
		}

		if handlerErr := handler(body); handlerErr != nil {
			switch {
			case errors.Is(handlerErr, isobmff.ErrUnsupported) && topLevel:
				return handlerErr
			case errors.Is(handlerErr, isobmff.ErrUnsupported):
				logging.Logger().Debug().
					Str("box", hdr.Name.String()).
					Err(handlerErr).
					Msg("skipping unsupported box")
			default:
				return handlerErr
			}
		}

		if err := body.Discard(); err != nil {
			return isobmff.ErrUnexpectedEOF
		}
	}
}
