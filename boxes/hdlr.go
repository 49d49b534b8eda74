package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readHdlr parses the handler reference box, setting the track kind from
// the handler_type FourCC. The trailing component name string is not
// retained.
func (st *state) readHdlr(body *bitstream.Substream) error {
	if _, err := bitstream.ReadU32(body); err != nil { // version+flags
		return err
	}

	if _, err := bitstream.ReadU32(body); err != nil { // pre_defined
		return err
	}

	handlerType, err := bitstream.ReadFourCC(body)
	if err != nil {
		return err
	}

	st.track.Kind = handlerKind(handlerType)

	return nil
}

func handlerKind(fourCC [4]byte) isobmff.TrackKind {
	switch string(fourCC[:]) {
	case "vide":
		return isobmff.KindVideo
	case "soun":
		return isobmff.KindAudio
	case "meta":
		return isobmff.KindMetadata
	default:
		return isobmff.KindUnknown
	}
}
