package isobmff

// Header is a parsed box header. Size includes the header itself;
// HeaderBytes is 8 for a compact header, 16 when the 64-bit extended size
// field was present.
type Header struct {
	Name        FourCC
	Size        uint64
	HeaderBytes uint8
}

// Matrix3x3 holds a track's transformation matrix as nine 16.16
// fixed-point values in row-major order.
type Matrix3x3 [9]int32

// TrackHeader is the subset of tkhd fields this parser surfaces.
type TrackHeader struct {
	Disabled   bool
	Duration   uint64
	Width1616  uint32
	Height1616 uint32
	Matrix     Matrix3x3
}

// EditList is the single non-empty edit this parser models, expressed in
// movie timescale (EmptyDuration) and track timescale (MediaTime).
// MediaTime of -1 in the wire format denotes an empty edit and is folded
// into EmptyDuration rather than represented here.
type EditList struct {
	EmptyDuration uint64
	MediaTime     int64
}

// TrackTimescale pairs a track's media timescale with the track it came
// from.
type TrackTimescale struct {
	Scale   uint32
	TrackID uint32
}

// TrackDuration pairs a track's media-timescale duration with the track it
// came from.
type TrackDuration struct {
	Value   uint64
	TrackID uint32
}

// StscEntry is one run-length entry of the sample-to-chunk table.
type StscEntry struct {
	FirstChunk      uint32
	SamplesPerChunk uint32
	SampleDescIndex uint32
}

// StszTable is the sample-size table. SampleSize is a non-zero constant
// size shared by every sample, in which case Sizes is empty; otherwise
// Sizes holds one entry per sample.
type StszTable struct {
	SampleSize  uint32
	Sizes       []uint32
	SampleCount uint32
}

// TimeToSampleEntry is one run-length entry of the decode-time table.
type TimeToSampleEntry struct {
	SampleCount uint32
	SampleDelta uint32
}

// CompositionOffsetEntry is one run-length entry of the composition-time
// offset table. TimeOffset is always stored signed: version 0 (unsigned on
// the wire) is reinterpreted, since many real files carry negative offsets
// in version 0 fields.
type CompositionOffsetEntry struct {
	SampleCount uint32
	TimeOffset  int32
}

// AV1Config carries the parsed av1C configuration record.
type AV1Config struct {
	Raw                  []byte
	Profile              uint8
	Level                uint8
	Tier                 uint8
	BitDepth             uint8
	Monochrome           bool
	ChromaSubsamplingX   uint8
	ChromaSubsamplingY   uint8
	ChromaSamplePosition uint8
}

// VPxConfig carries the parsed vpcC configuration record (VP8/VP9).
type VPxConfig struct {
	Raw               []byte
	Profile           uint8
	Level             uint8
	BitDepth          uint8
	ChromaSubsampling uint8
}

// ESDSConfig carries the fields this parser extracts from an MPEG-4 ESDS
// descriptor tree, plus the raw decoder-specific-info blob the host needs
// to initialize an AAC/MP3 decoder.
type ESDSConfig struct {
	Raw                 []byte
	AudioCodec          AudioCodec
	AudioObjectType     uint8
	AudioSampleRate     uint32
	AudioChannelCount   uint16
	DecoderSpecificData []byte
}

// OpusHeader carries the Opus-in-ISOBMFF (dOps) header fields, plus the
// full box payload re-serialized in the layout the host expects to feed a
// libopus decoder.
type OpusHeader struct {
	Raw                []byte
	OutputChannelCount uint8
	PreSkip            uint16
	InputSampleRate    uint32
	OutputGain         int16
}

// FlacStreamInfo carries the 34-byte STREAMINFO metadata block captured
// from a dfLa box.
type FlacStreamInfo struct {
	Raw []byte
}

// ALACCookie carries the ALACSpecificConfig magic cookie bytes captured
// verbatim from an alac box; legacy 'frma'/'alac' atom wrappers are not
// stripped.
type ALACCookie struct {
	Raw []byte
}

// VideoSampleEntry carries the fields common to video sample entries plus
// whichever codec-specific configuration record was present.
type VideoSampleEntry struct {
	Width  uint16
	Height uint16
	AVC    []byte
	AV1    *AV1Config
	VPx    *VPxConfig
	JPEG   bool
}

// AudioSampleEntry carries the fields common to audio sample entries plus
// whichever codec-specific configuration record was present.
type AudioSampleEntry struct {
	ChannelCount uint16
	SampleSize   uint16
	SampleRate   uint32
	ESDS         *ESDSConfig
	Opus         *OpusHeader
	FLAC         *FlacStreamInfo
	ALAC         *ALACCookie
	AC3          []byte
	EC3          []byte
}

// SampleEntryKind tags which of Video/Audio is populated on a SampleEntry.
type SampleEntryKind uint8

const (
	SampleEntryUnknown SampleEntryKind = iota
	SampleEntryVideo
	SampleEntryAudio
)

// SampleEntry is one entry of an stsd box: a tagged Video|Audio|Unknown
// variant sharing a codec type, original sample-entry FourCC, and any
// protection metadata.
type SampleEntry struct {
	Kind       SampleEntryKind
	CodecType  CodecType
	CodeName   FourCC
	Protection []Sinf
	Video      *VideoSampleEntry
	Audio      *AudioSampleEntry
}

// SampleTable is the parsed stsd box: an ordered sequence of sample
// descriptions.
type SampleTable struct {
	Descriptions []SampleEntry
}

// Tenc is a track-level encryption parameters box (schi/tenc).
type Tenc struct {
	IsEncrypted         uint8
	IVSize              uint8
	KeyID               [16]byte
	CryptByteBlockCount *uint8
	SkipByteBlockCount  *uint8
	ConstantIV          []byte
}

// Sinf is a protection scheme information box: the sample entry's original
// (pre-encryption) format, the protection scheme in use, and its
// encryption parameters.
type Sinf struct {
	OriginalFormat FourCC
	SchemeType     FourCC
	SchemeVersion  uint32
	Tenc           *Tenc
}

// Pssh is a Protection System Specific Header box: DRM initialization data
// plus BoxContent, the whole box (header included) re-serialized from the
// parsed fields for callers that need to hand it to a CDM. BoxContent is not
// a byte-for-byte copy: the flags are written as zero, the size is always a
// 32-bit compact header, and bytes after the data field are not kept.
type Pssh struct {
	SystemID   [16]byte
	KeyIDs     [][16]byte
	Data       []byte
	BoxContent []byte
}

// Indice is one entry of the flat, random-access sample index the
// sample-table builder produces: a byte range in the original stream plus
// decode and composition timestamps in microseconds.
type Indice struct {
	StartOffset      uint64
	EndOffset        uint64
	StartComposition int64
	EndComposition   int64
	StartDecode      int64
	Sync             bool
}

// Track is one trak entry of a parsed movie.
type Track struct {
	ID        *uint32
	Kind      TrackKind
	Timescale *TrackTimescale
	Duration  *TrackDuration
	Tkhd      *TrackHeader
	Elst      *EditList
	Stsd      *SampleTable

	Stsc        []StscEntry
	Stco        []uint64
	Stsz        StszTable
	Stts        []TimeToSampleEntry
	Ctts        []CompositionOffsetEntry
	Stss        []uint32
	StssPresent bool
}

// MovieExtends mirrors the mvex box: its mere presence marks the file as
// fragmented.
type MovieExtends struct {
	FragmentDuration *uint64
}

// MediaContext is the root parse result: everything this parser recovered
// from one ISO BMFF stream.
type MediaContext struct {
	Timescale *uint32
	Duration  *uint64
	Tracks    []*Track
	Mvex      *MovieExtends
	Psshs     []Pssh
}
