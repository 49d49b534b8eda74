package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readDfLa captures the FLAC METADATA_BLOCK_STREAMINFO wrapped in a dfLa
// box (FLAC-in-ISOBMFF draft §3) verbatim; callers hand Raw straight to a
// FLAC decoder's STREAMINFO input.
func (st *state) readDfLa(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	raw, err := body.ReadAll()
	if err != nil {
		return err
	}

	if st.entry != nil && st.entry.Audio != nil {
		st.entry.Audio.FLAC = &isobmff.FlacStreamInfo{Raw: raw}
	}

	return nil
}
