package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/internal/box"
)

// readSinf parses the protection scheme information box: the wrapped
// sample entry's original format, the scheme in use, and (for schi/tenc)
// the per-track encryption parameters. The finished Sinf is appended to
// the enclosing sample entry's Protection list.
func (st *state) readSinf(body *bitstream.Substream) error {
	sinf := &isobmff.Sinf{}

	prev := st.sinf
	st.sinf = sinf

	defer func() { st.sinf = prev }()

	table := box.Table{
		isobmff.NewFourCC("frma"): st.readFrma,
		isobmff.NewFourCC("schm"): st.readSchm,
		isobmff.NewFourCC("schi"): st.readSchi,
	}

	if err := box.Dispatch(body, table, false, 7, st.maxDepth); err != nil {
		return err
	}

	if st.entry != nil {
		st.entry.Protection = append(st.entry.Protection, *sinf)
	}

	return nil
}

func (st *state) readFrma(body *bitstream.Substream) error {
	format, err := bitstream.ReadFourCC(body)
	if err != nil {
		return err
	}

	if st.sinf != nil {
		st.sinf.OriginalFormat = format
	}

	return nil
}

func (st *state) readSchm(body *bitstream.Substream) error {
	if _, err := bitstream.ReadU32(body); err != nil { // version+flags
		return err
	}

	schemeType, err := bitstream.ReadFourCC(body)
	if err != nil {
		return err
	}

	schemeVersion, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	if st.sinf != nil {
		st.sinf.SchemeType = schemeType
		st.sinf.SchemeVersion = schemeVersion
	}

	return nil
}

func (st *state) readSchi(body *bitstream.Substream) error {
	table := box.Table{
		isobmff.NewFourCC("tenc"): st.readTenc,
	}

	return box.Dispatch(body, table, false, 8, st.maxDepth)
}
