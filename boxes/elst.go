package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/logging"
)

// emptyEditMediaTime is the wire-format sentinel marking an edit-list
// entry as empty (presentation gap with no corresponding media).
const emptyEditMediaTime = -1

// readElst parses the edit list. Only one non-empty media entry is
// modelled: the segment_durations of the empty entries (media_time -1)
// that precede it are summed into EmptyDuration, and its own media_time is
// kept as-is. A second
// non-empty entry is logged and ignored; callers generally cannot handle
// arbitrary edit programs.
func (st *state) readElst(body *bitstream.Substream) error {
	version, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	if _, err := bitstream.ReadU24(body); err != nil { // flags
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	entrySize := uint64(12)
	if version == 1 {
		entrySize = 20
	}

	if uint64(entryCount)*entrySize != body.Remaining() {
		return isobmff.Invalidf("elst: entry_count %d does not match remaining body length", entryCount)
	}

	var emptyDuration uint64

	for i := uint32(0); i < entryCount; i++ {
		var (
			segmentDuration uint64
			mediaTime       int64
		)

		if version == 1 {
			segmentDuration, err = bitstream.ReadU64(body)
			if err != nil {
				return err
			}

			mediaTime, err = bitstream.ReadI64(body)
			if err != nil {
				return err
			}
		} else {
			segDur32, err := bitstream.ReadU32(body)
			if err != nil {
				return err
			}

			mt32, err := bitstream.ReadI32(body)
			if err != nil {
				return err
			}

			segmentDuration = uint64(segDur32)
			mediaTime = int64(mt32)
		}

		if _, err := bitstream.ReadI16(body); err != nil { // media_rate_integer
			return err
		}

		if _, err := bitstream.ReadI16(body); err != nil { // media_rate_fraction
			return err
		}

		if mediaTime == emptyEditMediaTime {
			emptyDuration += segmentDuration

			continue
		}

		if st.track.Elst != nil {
			logging.Logger().Warn().
				Uint32("entry", i).
				Msg("ignoring additional non-empty edit-list entry")

			continue
		}

		st.track.Elst = &isobmff.EditList{
			EmptyDuration: emptyDuration,
			MediaTime:     mediaTime,
		}
	}

	return nil
}
