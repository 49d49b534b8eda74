package boxes

import "github.com/mycophonic/isobmff/internal/bitstream"

// readAvcC captures the raw AVCDecoderConfigurationRecord (SPS/PPS plus
// NAL length size) verbatim; this parser doesn't interpret its internal
// parameter-set structure.
func (st *state) readAvcC(body *bitstream.Substream) error {
	raw, err := body.ReadAll()
	if err != nil {
		return err
	}

	if st.entry != nil && st.entry.Video != nil {
		st.entry.Video.AVC = raw
	}

	return nil
}
