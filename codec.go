package isobmff

// TrackKind classifies a track by its handler type.
type TrackKind uint8

const (
	KindVideo TrackKind = iota
	KindAudio
	KindMetadata
	KindUnknown
)

func (k TrackKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// CodecType identifies the codec carried by a sample entry. The Encrypted
// variants are reported instead of the underlying codec when the sample
// entry is protected (its original format is still recoverable from
// Sinf.OriginalFormat).
type CodecType uint8

const (
	CodecUnknown CodecType = iota
	CodecAAC
	CodecFLAC
	CodecOpus
	CodecAVC
	CodecVP9
	CodecAV1
	CodecMP3
	CodecMP4V
	CodecJPEG
	CodecAC3
	CodecEC3
	CodecALAC
	CodecXHEAAC
	CodecEncryptedVideo
	CodecEncryptedAudio
)

func (c CodecType) String() string {
	switch c {
	case CodecAAC:
		return "aac"
	case CodecFLAC:
		return "flac"
	case CodecOpus:
		return "opus"
	case CodecAVC:
		return "avc"
	case CodecVP9:
		return "vp9"
	case CodecAV1:
		return "av1"
	case CodecMP3:
		return "mp3"
	case CodecMP4V:
		return "mp4v"
	case CodecJPEG:
		return "jpeg"
	case CodecAC3:
		return "ac3"
	case CodecEC3:
		return "ec3"
	case CodecALAC:
		return "alac"
	case CodecXHEAAC:
		return "xheaac"
	case CodecEncryptedVideo:
		return "encrypted-video"
	case CodecEncryptedAudio:
		return "encrypted-audio"
	default:
		return "unknown"
	}
}

// AudioCodec is the narrower codec set ESDS can signal directly (it never
// signals video codecs, and never signals "encrypted").
type AudioCodec uint8

const (
	AudioCodecUnknown AudioCodec = iota
	AudioCodecAAC
	AudioCodecMP3
	AudioCodecXHEAAC
)
