package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readAlacConfig captures the ALACSpecificConfig magic cookie nested
// inside an 'alac' sample entry. The cookie has no version/flags prefix.
func (st *state) readAlacConfig(body *bitstream.Substream) error {
	raw, err := body.ReadAll()
	if err != nil {
		return err
	}

	if st.entry != nil && st.entry.Audio != nil {
		st.entry.Audio.ALAC = &isobmff.ALACCookie{Raw: raw}
	}

	return nil
}
