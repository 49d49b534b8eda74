package parser_test

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/parser"
)

func i32(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))

	return b
}

func mvhdWithTimescale(timescale, duration uint32) []byte {
	return box("mvhd", concat(
		u32(0), // version+flags
		u32(0), u32(0),
		u32(timescale),
		u32(duration),
		u32(0x00010000), u16(0x0100), zeros(2),
		zeros(8),
		identityMatrix(),
		zeros(16), u32(3),
	))
}

func tkhdWithMatrix(trackID uint32, matrix []byte) []byte {
	return box("tkhd", concat(
		u32(0x000001), // version+flags (track_enabled)
		u32(0), u32(0),
		u32(trackID), u32(0),
		u32(4000),
		zeros(8),
		zeros(2), zeros(2), zeros(2), zeros(2),
		matrix,
		u32(320<<16), u32(240<<16),
	))
}

// rotation90Matrix is a pure 90-degree rotation: top-left 2x2 of
// (0, 1.0, -1.0, 0) in 16.16 fixed point, w = 1.0 in 2.30.
func rotation90Matrix() []byte {
	m := make([]byte, 36)
	binary.BigEndian.PutUint32(m[4:8], 0x00010000)
	negOne := int32(-0x00010000)
	binary.BigEndian.PutUint32(m[12:16], uint32(negOne))
	binary.BigEndian.PutUint32(m[32:36], 0x40000000)

	return m
}

func edts(segmentDuration uint32, mediaTime int32) []byte {
	elst := box("elst", concat(
		u32(0), // version+flags
		u32(1), // entry_count
		u32(segmentDuration),
		i32(mediaTime),
		u16(1), u16(0), // media_rate
	))

	return box("edts", elst)
}

func mp4a() []byte {
	return box("mp4a", concat(
		zeros(6), u16(1), // reserved, data_reference_index
		zeros(8),          // reserved[2]
		u16(2), u16(16),   // channelcount, samplesize
		zeros(4),          // pre_defined + reserved
		u32(48000<<16),    // samplerate 16.16
	))
}

func videoTrak(trackID uint32, timescale, duration uint32) []byte {
	avcC := []byte{1, 0x64, 0, 0x1f, 0xff, 0xe0, 0x00}
	stbl := box("stbl", stsd(avc1(avcC)))
	mdia := box("mdia", concat(mdhd(timescale, duration), hdlr("vide"), box("minf", stbl)))

	return box("trak", concat(tkhd(trackID), mdia))
}

func audioTrak(trackID uint32, timescale, duration uint32, mediaTime int32) []byte {
	stbl := box("stbl", stsd(mp4a()))
	mdia := box("mdia", concat(mdhd(timescale, duration), hdlr("soun"), box("minf", stbl)))

	return box("trak", concat(tkhd(trackID), edts(duration, mediaTime), mdia))
}

func TestParserTwoTrackDurationsAndMediaTime(t *testing.T) {
	ftyp := box("ftyp", concat([]byte("mp42"), u32(0), []byte("isom"), []byte("mp42")))
	moov := box("moov", concat(
		mvhdWithTimescale(1000, 62),
		videoTrak(1, 12800, 512),
		audioTrak(2, 48000, 2944, 1024),
	))

	p, err := parser.New(readerFor(concat(ftyp, moov)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.Read(context.Background()); err != nil {
		t.Fatalf("Read: %v", err)
	}

	count, err := p.TrackCount()
	if err != nil {
		t.Fatalf("TrackCount: %v", err)
	}

	if count != 2 {
		t.Fatalf("TrackCount = %d, want 2", count)
	}

	video, err := p.TrackInfo(0)
	if err != nil {
		t.Fatalf("TrackInfo(0): %v", err)
	}

	if video.Kind != isobmff.KindVideo || video.DurationUs != 40_000 {
		t.Errorf("video TrackInfo = %+v, want Kind=KindVideo DurationUs=40000", video)
	}

	audio, err := p.TrackInfo(1)
	if err != nil {
		t.Fatalf("TrackInfo(1): %v", err)
	}

	if audio.Kind != isobmff.KindAudio || audio.DurationUs != 61_333 {
		t.Errorf("audio TrackInfo = %+v, want Kind=KindAudio DurationUs=61333", audio)
	}

	if audio.MediaTimeUs != 21_333 {
		t.Errorf("audio MediaTimeUs = %d, want 21333", audio.MediaTimeUs)
	}
}

func TestParserVideoRotation90(t *testing.T) {
	avcC := []byte{1, 0x64, 0, 0x1f, 0xff, 0xe0, 0x00}
	stbl := box("stbl", stsd(avc1(avcC)))
	mdia := box("mdia", concat(mdhd(12800, 512), hdlr("vide"), box("minf", stbl)))
	trak := box("trak", concat(tkhdWithMatrix(1, rotation90Matrix()), mdia))
	moov := box("moov", concat(mvhd(), trak))

	p, err := parser.New(readerFor(moov))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.Read(context.Background()); err != nil {
		t.Fatalf("Read: %v", err)
	}

	video, err := p.VideoInfo(0)
	if err != nil {
		t.Fatalf("VideoInfo: %v", err)
	}

	if video.Rotation != 90 {
		t.Errorf("Rotation = %d, want 90", video.Rotation)
	}
}

func TestParserFragmentedInitSegment(t *testing.T) {
	mehd := box("mehd", concat(u32(0), u32(10_032_000)))
	mvex := box("mvex", mehd)

	// An init segment's trak carries a sample description but empty
	// stts/stsc/stco tables; the samples live in later moof fragments.
	avcC := []byte{1, 0x64, 0, 0x1f, 0xff, 0xe0, 0x00}
	stbl := box("stbl", concat(
		stsd(avc1(avcC)),
		box("stts", concat(u32(0), u32(0))),
		box("stsc", concat(u32(0), u32(0))),
		box("stco", concat(u32(0), u32(0))),
	))
	mdia := box("mdia", concat(mdhd(12800, 0), hdlr("vide"), box("minf", stbl)))
	trak := box("trak", concat(tkhd(1), mdia))
	moov := box("moov", concat(mvhdWithTimescale(1_000_000, 0), mvex, trak))

	p, err := parser.New(readerFor(moov))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.Read(context.Background()); err != nil {
		t.Fatalf("Read: %v", err)
	}

	fragmented, err := p.IsFragmented(1)
	if err != nil {
		t.Fatalf("IsFragmented: %v", err)
	}

	if !fragmented {
		t.Error("IsFragmented = false, want true (mvex present, sample tables empty)")
	}

	frag, err := p.FragmentInfo()
	if err != nil {
		t.Fatalf("FragmentInfo: %v", err)
	}

	if frag.FragmentDurationUs != 10_032_000 {
		t.Errorf("FragmentDurationUs = %d, want 10032000", frag.FragmentDurationUs)
	}
}

// TestParserTinyBoxRegression replays a crash-corpus input: a box whose
// declared size is smaller than its own header. It must fail cleanly with
// invalid-data, never crash or allocate unboundedly.
func TestParserTinyBoxRegression(t *testing.T) {
	input := []byte{0x00, 0x00, 0x00, 0x04, 0xa6, 0x00, 0x04, 0xa6}

	p, err := parser.New(readerFor(input))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readErr := p.Read(context.Background())
	if !errors.Is(readErr, isobmff.ErrInvalidData) {
		t.Fatalf("Read = %v, want isobmff.ErrInvalidData", readErr)
	}

	if _, err := p.TrackCount(); !errors.Is(err, isobmff.ErrBadArg) {
		t.Errorf("TrackCount after invalid input = %v, want isobmff.ErrBadArg", err)
	}
}

func TestParserPsshInfoSerialization(t *testing.T) {
	systemID := []byte{
		0x10, 0x77, 0xef, 0xec, 0xc0, 0xb2, 0x4d, 0x02,
		0xac, 0xe3, 0x3c, 0x1e, 0x52, 0xe2, 0xfb, 0x4b,
	}
	kid := make([]byte, 16)
	kid[15] = 1

	pssh := box("pssh", concat(
		[]byte{1, 0, 0, 0}, // version=1, flags
		systemID,
		u32(1), // kid_count
		kid,
		u32(0), // data_size
	))

	p, err := parser.New(readerFor(concat(pssh, box("moov", mvhd()))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.Read(context.Background()); err != nil {
		t.Fatalf("Read: %v", err)
	}

	data, err := p.PsshInfo()
	if err != nil {
		t.Fatalf("PsshInfo: %v", err)
	}

	if len(data) != 16+4+len(pssh) {
		t.Fatalf("len(PsshInfo) = %d, want %d", len(data), 16+4+len(pssh))
	}

	if string(data[:16]) != string(systemID) {
		t.Errorf("serialized system_id = %x, want %x", data[:16], systemID)
	}

	size := binary.NativeEndian.Uint32(data[16:20])
	if int(size) != len(pssh) {
		t.Errorf("serialized size = %d, want %d", size, len(pssh))
	}

	if string(data[20:]) != string(pssh) {
		t.Errorf("serialized box_content differs from the original box bytes")
	}
}
