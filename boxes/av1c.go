package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readAv1C parses the AV1CodecConfigurationRecord (aom-av1 §5.3.1): the
// packed profile/level/tier/bit-depth byte trio that precede the raw
// config OBUs, which are kept as part of Raw rather than re-parsed.
func (st *state) readAv1C(body *bitstream.Substream) error {
	raw, err := body.ReadAll()
	if err != nil {
		return err
	}

	if len(raw) < 4 {
		return isobmff.Invalidf("av1C: record too short: %d bytes", len(raw))
	}

	cfg := &isobmff.AV1Config{
		Raw:                  raw,
		Profile:              (raw[1] >> 5) & 0x7,
		Level:                raw[1] & 0x1f,
		Tier:                 (raw[2] >> 7) & 0x1,
		Monochrome:           (raw[2]>>4)&0x1 != 0,
		ChromaSubsamplingX:   (raw[2] >> 3) & 0x1,
		ChromaSubsamplingY:   (raw[2] >> 2) & 0x1,
		ChromaSamplePosition: raw[2] & 0x3,
	}

	highBitdepth := (raw[2] >> 6) & 0x1
	twelveBit := (raw[2] >> 5) & 0x1

	switch {
	case highBitdepth == 0:
		cfg.BitDepth = 8
	case cfg.Profile == 2 && twelveBit == 1:
		cfg.BitDepth = 12
	default:
		cfg.BitDepth = 10
	}

	if st.entry != nil && st.entry.Video != nil {
		st.entry.Video.AV1 = cfg
	}

	return nil
}
