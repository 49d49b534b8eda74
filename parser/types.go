package parser

import "github.com/mycophonic/isobmff"

// TrackInfo is the summary query surface for one track: its kind, codec,
// id, duration, and edit-list-adjusted media time, all in microseconds.
type TrackInfo struct {
	Kind        isobmff.TrackKind
	Codec       isobmff.CodecType
	TrackID     uint32
	DurationUs  int64
	MediaTimeUs int64
}

// AudioInfo is the codec-specific query surface for an audio track's
// primary sample description. ExtraData carries whatever
// codec-specific configuration blob the caller needs to initialize a
// decoder (ESDS decoder-specific-data, the Opus dOps payload, the FLAC
// STREAMINFO block, or the ALAC magic cookie), empty when the codec has
// none.
type AudioInfo struct {
	Codec        isobmff.CodecType
	ChannelCount uint16
	SampleSize   uint16
	SampleRate   uint32
	Protection   []isobmff.Sinf
	ExtraData    []byte
}

// VideoInfo is the codec-specific query surface for a video track's
// primary sample description. Rotation is derived from
// the track header's transformation matrix at query time (0, 90, 180, or
// 270).
type VideoInfo struct {
	Codec      isobmff.CodecType
	Width      uint16
	Height     uint16
	Rotation   uint16
	Protection []isobmff.Sinf
	ExtraData  []byte
}

// FragmentInfo reports the fragment-duration metadata carried by an mvex
// box, converted to microseconds.
type FragmentInfo struct {
	FragmentDurationUs int64
}
