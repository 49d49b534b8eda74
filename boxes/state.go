// Package boxes implements the typed per-box-family readers: one function
// per box type, each consuming a bounded body substream and recording
// whatever it parses onto the in-progress MediaContext/Track.
package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/internal/box"
)

// state carries the in-progress parse result and whatever "current"
// container context a handler needs (which track a trak-scoped box
// belongs to), threaded through the recursive box.Dispatch calls via
// closures built in this package.
type state struct {
	ctx             *isobmff.MediaContext
	track           *isobmff.Track
	entry           *isobmff.SampleEntry
	sinf            *isobmff.Sinf
	sawMvhd         bool
	sawNonEmptyElst bool
	maxDepth        int
}

// Parse drives the top-level box dispatch over r, producing a
// MediaContext. maxDepth bounds box containment nesting (zero or negative
// selects box.DefaultMaxDepth); callers reach this through
// parser.WithMaxBoxDepth. Parse returns isobmff.ErrNoMoov if the stream
// ends cleanly without an mvhd having been parsed inside a moov box (so a
// moov that lacks mvhd is reported the same way), and otherwise whatever
// error box.Dispatch surfaces (isobmff.ErrUnexpectedEOF, a wrapped
// ErrInvalidData, or a top-level ErrUnsupported).
func Parse(r *bitstream.Substream, maxDepth int) (*isobmff.MediaContext, error) {
	st := &state{ctx: &isobmff.MediaContext{}, maxDepth: maxDepth}

	table := box.Table{
		isobmff.NewFourCC("ftyp"): st.readFtyp,
		isobmff.NewFourCC("moov"): st.readMoov,
		isobmff.NewFourCC("moof"): st.readMoof,
		isobmff.NewFourCC("pssh"): st.readTopLevelPssh,
	}

	err := box.Dispatch(r, table, true, 0, st.maxDepth)
	if err != nil {
		return st.ctx, err
	}

	if !st.sawMvhd {
		return st.ctx, isobmff.ErrNoMoov
	}

	return st.ctx, nil
}
