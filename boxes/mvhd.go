package boxes

import (
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readMvhd parses the movie header: version 0 carries 32-bit
// creation/modification/duration times, version 1 carries 64-bit ones.
// Only timescale and duration are surfaced on MediaContext.
func (st *state) readMvhd(body *bitstream.Substream) error {
	if st.sawMvhd {
		return nil // first well-formed occurrence wins
	}

	version, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	if _, err := bitstream.ReadU24(body); err != nil { // flags
		return err
	}

	var duration uint64

	if version == 1 {
		if _, err := bitstream.ReadU64(body); err != nil { // creation_time
			return err
		}

		if _, err := bitstream.ReadU64(body); err != nil { // modification_time
			return err
		}

		timescale, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration, err = bitstream.ReadU64(body)
		if err != nil {
			return err
		}

		st.ctx.Timescale = &timescale
	} else {
		if _, err := bitstream.ReadU32(body); err != nil { // creation_time
			return err
		}

		if _, err := bitstream.ReadU32(body); err != nil { // modification_time
			return err
		}

		timescale, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration32, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration = uint64(duration32)
		st.ctx.Timescale = &timescale
	}

	st.ctx.Duration = &duration
	st.sawMvhd = true

	return nil
}
