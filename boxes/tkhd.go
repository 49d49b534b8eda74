package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

const tkhdEnabledFlag = 0x1

// readTkhd parses the track header: version 0/1 time widths, the track ID,
// duration, and the transformation matrix (from which Rotation is derived
// at query time).
func (st *state) readTkhd(body *bitstream.Substream) error {
	version, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	flags, err := bitstream.ReadU24(body)
	if err != nil {
		return err
	}

	var (
		trackID  uint32
		duration uint64
	)

	if version == 1 {
		if _, err := bitstream.ReadU64(body); err != nil { // creation_time
			return err
		}

		if _, err := bitstream.ReadU64(body); err != nil { // modification_time
			return err
		}

		trackID, err = bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		if _, err := bitstream.ReadU32(body); err != nil { // reserved
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

		trackID, err = bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		if _, err := bitstream.ReadU32(body); err != nil { // reserved
			return err
		}

		duration32, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		duration = uint64(duration32)
	}

	if _, err := bitstream.ReadU64(body); err != nil { // reserved[2]
		return err
	}

	if _, err := bitstream.ReadI16(body); err != nil { // layer
		return err
	}

	if _, err := bitstream.ReadI16(body); err != nil { // alternate_group
		return err
	}

	if _, err := bitstream.ReadI16(body); err != nil { // volume
		return err
	}

	if _, err := bitstream.ReadU16(body); err != nil { // reserved
		return err
	}

	matrix, err := bitstream.ReadMatrix3x3(body)
	if err != nil {
		return err
	}

	width, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	height, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	st.track.ID = &trackID
	st.track.Tkhd = &isobmff.TrackHeader{
		Disabled:   flags&tkhdEnabledFlag == 0,
		Duration:   duration,
		Width1616:  width,
		Height1616: height,
		Matrix:     isobmff.Matrix3x3(matrix),
	}

	return nil
}
