package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/internal/box"
)

func (st *state) readMoov(body *bitstream.Substream) error {
	table := box.Table{
		isobmff.NewFourCC("mvhd"): st.readMvhd,
		isobmff.NewFourCC("mvex"): st.readMvex,
		isobmff.NewFourCC("trak"): st.readTrak,
	}

	return box.Dispatch(body, table, false, 1, st.maxDepth)
}

func (st *state) readTrak(body *bitstream.Substream) error {
	track := &isobmff.Track{Kind: isobmff.KindUnknown}
	st.ctx.Tracks = append(st.ctx.Tracks, track)

	prev := st.track
	st.track = track

	defer func() { st.track = prev }()

	table := box.Table{
		isobmff.NewFourCC("tkhd"): st.readTkhd,
		isobmff.NewFourCC("edts"): st.readEdts,
		isobmff.NewFourCC("mdia"): st.readMdia,
	}

	return box.Dispatch(body, table, false, 2, st.maxDepth)
}

func (st *state) readEdts(body *bitstream.Substream) error {
	table := box.Table{
		isobmff.NewFourCC("elst"): st.readElst,
	}

	return box.Dispatch(body, table, false, 3, st.maxDepth)
}

func (st *state) readMdia(body *bitstream.Substream) error {
	table := box.Table{
		isobmff.NewFourCC("mdhd"): st.readMdhd,
		isobmff.NewFourCC("hdlr"): st.readHdlr,
		isobmff.NewFourCC("minf"): st.readMinf,
	}

	return box.Dispatch(body, table, false, 3, st.maxDepth)
}

func (st *state) readMinf(body *bitstream.Substream) error {
	table := box.Table{
		isobmff.NewFourCC("stbl"): st.readStbl,
	}

	return box.Dispatch(body, table, false, 4, st.maxDepth)
}

func (st *state) readStbl(body *bitstream.Substream) error {
	table := box.Table{
		isobmff.NewFourCC("stsd"): st.readStsd,
		isobmff.NewFourCC("stts"): st.readStts,
		isobmff.NewFourCC("stsc"): st.readStsc,
		isobmff.NewFourCC("stsz"): st.readStsz,
		isobmff.NewFourCC("stco"): st.readStco,
		isobmff.NewFourCC("co64"): st.readCo64,
		isobmff.NewFourCC("stss"): st.readStss,
		isobmff.NewFourCC("ctts"): st.readCtts,
	}

	return box.Dispatch(body, table, false, 5, st.maxDepth)
}

// readMoof accepts the fragment box structurally (it's a declared
// top-level child in the containment table) but does not descend into
// traf: fragment sample data isn't required for init-segment parsing.
func (st *state) readMoof(_ *bitstream.Substream) error {
	return nil
}

func (st *state) readTopLevelPssh(body *bitstream.Substream) error {
	return st.readPssh(body)
}
