package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readMdhd parses the media header: the track's own timescale and
// duration, paired with whatever track ID tkhd has already recorded (tkhd
// precedes mdia in every trak this parser has seen; if it hasn't run yet
// the pairing defaults to track ID 0).
func (st *state) readMdhd(body *bitstream.Substream) error {
	version, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	if _, err := bitstream.ReadU24(body); err != nil { // flags
		return err
	}

	var duration uint64

	var timescale uint32

	if version == 1 {
		if _, err := bitstream.ReadU64(body); err != nil { // creation_time
			return err
		}

		if _, err := bitstream.ReadU64(body); err != nil { // modification_time
			return err
		}

		timescale, err = bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration, err = bitstream.ReadU64(body)
		if err != nil {
			return err
		}
	} else {
		if _, err := bitstream.ReadU32(body); err != nil { // creation_time
			return err
		}

		if _, err := bitstream.ReadU32(body); err != nil { // modification_time
			return err
		}

		timescale, err = bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration32, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration = uint64(duration32)
	}

	if _, err := bitstream.ReadU16(body); err != nil { // packed language
		return err
	}

	if _, err := bitstream.ReadU16(body); err != nil { // pre_defined / reserved
		return err
	}

	var trackID uint32
	if st.track.ID != nil {
		trackID = *st.track.ID
	}

	st.track.Timescale = &isobmff.TrackTimescale{Scale: timescale, TrackID: trackID}
	st.track.Duration = &isobmff.TrackDuration{Value: duration, TrackID: trackID}

	return nil
}
