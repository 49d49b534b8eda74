package boxes

import (
	"encoding/binary"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readDOps parses the Opus-in-ISOBMFF header (dOps, RFC draft
// opus-in-isobmff §4.3.2) and re-serializes it as Raw in the OpusHead
// layout a libopus decoder takes: the "OpusHead" magic and version 1, the
// dOps fields with their multi-byte values little-endian, then the channel
// mapping family and every byte after it unchanged.
func (st *state) readDOps(body *bitstream.Substream) error {
	raw, err := body.ReadAll()
	if err != nil {
		return err
	}

	if len(raw) < 11 {
		return isobmff.Invalidf("dOps: record too short: %d bytes", len(raw))
	}

	hdr := &isobmff.OpusHeader{
		OutputChannelCount: raw[1],
		PreSkip:            uint16(raw[2])<<8 | uint16(raw[3]),
		InputSampleRate:    uint32(raw[4])<<24 | uint32(raw[5])<<16 | uint32(raw[6])<<8 | uint32(raw[7]),
		OutputGain:         int16(uint16(raw[8])<<8 | uint16(raw[9])),
	}

	head := make([]byte, 0, len(raw)+8)
	head = append(head, "OpusHead"...)
	head = append(head, 1, hdr.OutputChannelCount)
	head = binary.LittleEndian.AppendUint16(head, hdr.PreSkip)
	head = binary.LittleEndian.AppendUint32(head, hdr.InputSampleRate)
	head = binary.LittleEndian.AppendUint16(head, uint16(hdr.OutputGain))
	head = append(head, raw[10:]...)
	hdr.Raw = head

	if st.entry != nil && st.entry.Audio != nil {
		st.entry.Audio.Opus = hdr
	}

	return nil
}
