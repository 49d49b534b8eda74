package sampletable

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// applyEditList rewrites every sample's composition timestamps to account
// for a single non-empty edit: the presentation timeline starts
// EmptyDuration (movie timescale) after zero, and what plays first is the
// track's media_time (track timescale) rather than its own time zero.
// Samples whose media predates media_time aren't dropped; this parser
// exposes the full composition timeline and lets callers decide what to
// trim at media_time.
func applyEditList(indices []isobmff.Indice, edit isobmff.EditList, trackScale int64, movieTimescale uint32) {
	mediaTimeUs, ok := bitstream.RationalScale(edit.MediaTime, trackScale, 1_000_000)
	if !ok {
		return
	}

	emptyDurationUs, ok := bitstream.RationalScale(int64(edit.EmptyDuration), int64(movieTimescale), 1_000_000)
	if !ok {
		return
	}

	shift := emptyDurationUs - mediaTimeUs

	for i := range indices {
		indices[i].StartComposition += shift
		indices[i].EndComposition += shift
	}
}
