package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readVpcC parses the VPCodecConfigurationRecord (webm-project vp-mp4
// §4.3): profile, level, and the packed bit-depth/chroma-subsampling byte
// that follow the full-box version/flags header.
func (st *state) readVpcC(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	raw, err := body.ReadAll()
	if err != nil {
		return err
	}

	if len(raw) < 3 {
		return isobmff.Invalidf("vpcC: record too short: %d bytes", len(raw))
	}

	cfg := &isobmff.VPxConfig{
		Raw:               raw,
		Profile:           raw[0],
		Level:             raw[1],
		BitDepth:          (raw[2] >> 4) & 0xf,
		ChromaSubsampling: (raw[2] >> 1) & 0x7,
	}

	if st.entry != nil && st.entry.Video != nil {
		st.entry.Video.VPx = cfg
	}

	return nil
}
