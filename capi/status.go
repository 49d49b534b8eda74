// Package capi implements the host-facing C ABI: an opaque parser handle,
// a pull-style read callback, and a small, stable query surface for
// tracks, codec info, fragment info, pssh data, and the sample index,
// wired over parser.Parser through cgo //export functions. The cgo
// surface itself lives in capi.go, gated
// behind a cgo build constraint; this file's types and status mapping are
// plain Go so they compile (and can be unit tested) without a C toolchain.
package capi

import (
	"errors"

	"github.com/mycophonic/isobmff"
)

// Mp4parseStatus is the C ABI status code. Ordinals are stable and part
// of the ABI contract.
type Mp4parseStatus int32

const (
	StatusOk Mp4parseStatus = iota
	StatusBadArg
	StatusInvalid
	StatusUnsupported
	StatusEof
	StatusIo
	StatusOom
)

// Mp4parseTrackType is the C ABI track-kind ordinal. Metadata and Unknown
// tracks both surface as Metadata at the ABI boundary, which only
// enumerates Video/Audio/Metadata.
type Mp4parseTrackType int32

const (
	TrackTypeVideo Mp4parseTrackType = iota
	TrackTypeAudio
	TrackTypeMetadata
)

// Mp4parseCodec is the C ABI codec tag ordinal.
type Mp4parseCodec int32

const (
	CodecUnknown Mp4parseCodec = iota
	CodecAac
	CodecFlac
	CodecOpus
	CodecAvc
	CodecVp9
	CodecAv1
	CodecMp3
	CodecMp4v
	CodecJpeg
	CodecAc3
	CodecEc3
	CodecAlac
	CodecXheaac
)

// statusFromError maps this module's sentinel error taxonomy onto the C
// ABI's status ordinals.
func statusFromError(err error) Mp4parseStatus {
	switch {
	case err == nil:
		return StatusOk
	case errors.Is(err, isobmff.ErrBadArg):
		return StatusBadArg
	case errors.Is(err, isobmff.ErrUnsupported):
		return StatusUnsupported
	case errors.Is(err, isobmff.ErrUnexpectedEOF):
		return StatusEof
	case errors.Is(err, isobmff.ErrIO):
		return StatusIo
	case errors.Is(err, isobmff.ErrOOM):
		return StatusOom
	default:
		return StatusInvalid
	}
}

func trackTypeFromKind(k isobmff.TrackKind) Mp4parseTrackType {
	switch k {
	case isobmff.KindVideo:
		return TrackTypeVideo
	case isobmff.KindAudio:
		return TrackTypeAudio
	default:
		return TrackTypeMetadata
	}
}

func codecFromType(c isobmff.CodecType) Mp4parseCodec { //nolint:cyclop
	switch c {
	case isobmff.CodecAAC:
		return CodecAac
	case isobmff.CodecFLAC:
		return CodecFlac
	case isobmff.CodecOpus:
		return CodecOpus
	case isobmff.CodecAVC, isobmff.CodecEncryptedVideo:
		return CodecAvc
	case isobmff.CodecVP9:
		return CodecVp9
	case isobmff.CodecAV1:
		return CodecAv1
	case isobmff.CodecMP3:
		return CodecMp3
	case isobmff.CodecMP4V:
		return CodecMp4v
	case isobmff.CodecJPEG:
		return CodecJpeg
	case isobmff.CodecAC3:
		return CodecAc3
	case isobmff.CodecEC3:
		return CodecEc3
	case isobmff.CodecALAC:
		return CodecAlac
	case isobmff.CodecXHEAAC:
		return CodecXheaac
	case isobmff.CodecEncryptedAudio:
		return CodecAac
	default:
		return CodecUnknown
	}
}
