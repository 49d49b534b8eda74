package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/internal/box"
)

// readMvex records the file as fragmented and, if present, captures mehd's
// fragment_duration. trex entries (per-track defaults for fragment
// samples) aren't part of this parser's data model and are skipped as
// unknown boxes.
func (st *state) readMvex(body *bitstream.Substream) error {
	if st.ctx.Mvex == nil {
		st.ctx.Mvex = &isobmff.MovieExtends{}
	}

	table := box.Table{
		isobmff.NewFourCC("mehd"): st.readMehd,
	}

	return box.Dispatch(body, table, false, 2, st.maxDepth)
}

func (st *state) readMehd(body *bitstream.Substream) error {
	version, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	if _, err := bitstream.ReadU24(body); err != nil { // flags
		return err
	}

	var duration uint64

	if version == 1 {
		duration, err = bitstream.ReadU64(body)
		if err != nil {
			return err
		}
	} else {
		d32, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration = uint64(d32)
	}

	st.ctx.Mvex.FragmentDuration = &duration

	return nil
}
