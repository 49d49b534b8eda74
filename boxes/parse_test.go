package boxes_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/boxes"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

func mvhd() []byte {
	return box("mvhd", fullBox(0, 0, concat(
		u32(0), u32(0), // creation/modification time
		u32(1000),      // timescale
		u32(10_000),    // duration
		u32(0x00010000), // rate
		u16(0x0100),     // volume
		zeros(2),        // reserved
		zeros(8),        // reserved[2]
		identityMatrix(),
		zeros(16), // pre_defined
		u32(2),    // next_track_id
	)))
}

func identityMatrix() []byte {
	m := make([]byte, 36)
	binary.BigEndian.PutUint32(m[0:4], 0x00010000)
	binary.BigEndian.PutUint32(m[20:24], 0x00010000)
	binary.BigEndian.PutUint32(m[32:36], 0x40000000)

	return m
}

func tkhd(trackID uint32) []byte {
	return box("tkhd", fullBox(0, 0x1, concat(
		u32(0), u32(0), // creation/modification time
		u32(trackID),
		u32(0),     // reserved
		u32(10000), // duration
		zeros(8),   // reserved[2]
		i16(0), i16(0), i16(0), // layer, alt group, volume
		u16(0), // reserved
		identityMatrix(),
		u32(320<<16), u32(240<<16), // width, height
	)))
}

func mdhd(timescale, duration uint32) []byte {
	return box("mdhd", fullBox(0, 0, concat(
		u32(0), u32(0),
		u32(timescale),
		u32(duration),
		u16(0x55c4), // packed language
		u16(0),
	)))
}

func hdlr(handlerType string) []byte {
	return box("hdlr", concat(
		u32(0), // version+flags
		u32(0), // pre_defined
		[]byte(handlerType),
		zeros(12), // reserved[3]
		[]byte("Handler\x00"),
	))
}

func avc1(avcC []byte) []byte {
	entry := concat(
		zeros(6), u16(1), // reserved, data_reference_index
		zeros(16), // pre_defined/reserved
		u16(320), u16(240),
		u32(0x00480000), u32(0x00480000), // h/v resolution
		u32(0), u16(1), // reserved, frame_count
		zeros(32), // compressorname
		u16(24),   // depth
		i16(-1),   // pre_defined
		box("avcC", avcC),
	)

	return box("avc1", entry)
}

func stsd(sampleEntry []byte) []byte {
	return box("stsd", concat(
		u32(0), // version+flags
		u32(1), // entry_count
		sampleEntry,
	))
}

func stts(entries [][2]uint32) []byte {
	body := concat(u32(0), u32(uint32(len(entries))))
	for _, e := range entries {
		body = append(body, concat(u32(e[0]), u32(e[1]))...)
	}

	return box("stts", body)
}

func stsc(entries [][3]uint32) []byte {
	body := concat(u32(0), u32(uint32(len(entries))))
	for _, e := range entries {
		body = append(body, concat(u32(e[0]), u32(e[1]), u32(e[2]))...)
	}

	return box("stsc", body)
}

func stszFixed(size, count uint32) []byte {
	return box("stsz", concat(u32(0), u32(size), u32(count)))
}

func stco(offsets []uint32) []byte {
	body := concat(u32(0), u32(uint32(len(offsets))))
	for _, o := range offsets {
		body = append(body, u32(o)...)
	}

	return box("stco", body)
}

func buildMinimalMovie() []byte {
	avcC := []byte{1, 0x64, 0, 0x1f, 0xff, 0xe0, 0x00}
	stbl := box("stbl", concat(
		stsd(avc1(avcC)),
		stts([][2]uint32{{4, 1000}}),
		stsc([][3]uint32{{1, 4, 1}}),
		stszFixed(100, 4),
		stco([]uint32{1000}),
	))
	minf := box("minf", stbl)
	mdia := box("mdia", concat(mdhd(1000, 4000), hdlr("vide"), minf))
	trak := box("trak", concat(tkhd(1), mdia))
	moov := box("moov", concat(mvhd(), trak))

	return concat(box("ftyp", concat([]byte("isom"), u32(0), []byte("isomiso2avc1mp41"))), moov)
}

func TestParseMinimalMovie(t *testing.T) {
	data := buildMinimalMovie()

	sub := bitstream.NewUnbounded(bytes.NewReader(data))

	ctx, err := boxes.Parse(sub, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if ctx.Timescale == nil || *ctx.Timescale != 1000 {
		t.Fatalf("ctx.Timescale = %v, want 1000", ctx.Timescale)
	}

	if len(ctx.Tracks) != 1 {
		t.Fatalf("len(ctx.Tracks) = %d, want 1", len(ctx.Tracks))
	}

	track := ctx.Tracks[0]

	if track.ID == nil || *track.ID != 1 {
		t.Errorf("track.ID = %v, want 1", track.ID)
	}

	if track.Kind != isobmff.KindVideo {
		t.Errorf("track.Kind = %v, want KindVideo", track.Kind)
	}

	if track.Stsd == nil || len(track.Stsd.Descriptions) != 1 {
		t.Fatalf("track.Stsd = %+v, want one description", track.Stsd)
	}

	entry := track.Stsd.Descriptions[0]
	if entry.CodecType != isobmff.CodecAVC {
		t.Errorf("entry.CodecType = %v, want CodecAVC", entry.CodecType)
	}

	if entry.Video == nil || entry.Video.Width != 320 || entry.Video.Height != 240 {
		t.Errorf("entry.Video = %+v, want width=320 height=240", entry.Video)
	}

	if len(track.Stco) != 1 || track.Stco[0] != 1000 {
		t.Errorf("track.Stco = %v, want [1000]", track.Stco)
	}
}

func TestParseNoMoovFails(t *testing.T) {
	data := box("ftyp", concat([]byte("isom"), u32(0)))

	sub := bitstream.NewUnbounded(bytes.NewReader(data))

	_, err := boxes.Parse(sub, 0)
	if !errors.Is(err, isobmff.ErrNoMoov) {
		t.Errorf("Parse(no moov) = %v, want isobmff.ErrNoMoov", err)
	}
}

func TestParseTruncatedStreamReportsUnexpectedEOF(t *testing.T) {
	data := buildMinimalMovie()
	truncated := data[:len(data)-20]

	sub := bitstream.NewUnbounded(bytes.NewReader(truncated))

	_, err := boxes.Parse(sub, 0)
	if !errors.Is(err, isobmff.ErrUnexpectedEOF) {
		t.Errorf("Parse(truncated) = %v, want isobmff.ErrUnexpectedEOF", err)
	}
}

func encv(avcC []byte, sinf []byte) []byte {
	entry := concat(
		zeros(6), u16(1), // reserved, data_reference_index
		zeros(16), // pre_defined/reserved
		u16(320), u16(240),
		u32(0x00480000), u32(0x00480000), // h/v resolution
		u32(0), u16(1), // reserved, frame_count
		zeros(32), // compressorname
		u16(24),   // depth
		i16(-1),   // pre_defined
		box("avcC", avcC),
		sinf,
	)

	return box("encv", entry)
}

func TestParseEncryptedVideoEntry(t *testing.T) {
	keyID := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	frma := box("frma", []byte("avc1"))
	schm := box("schm", concat(u32(0), []byte("cenc"), u32(0x00010000)))
	tenc := box("tenc", concat(
		fullBox(0, 0, nil),
		u8(0), u8(0), // reserved
		u8(1),  // isProtected
		u8(16), // iv_size
		keyID,
	))
	sinf := box("sinf", concat(frma, schm, box("schi", tenc)))

	avcC := []byte{1, 0x64, 0, 0x1f, 0xff, 0xe0, 0x00}
	stbl := box("stbl", stsd(encv(avcC, sinf)))
	mdia := box("mdia", concat(mdhd(12800, 512), hdlr("vide"), box("minf", stbl)))
	moov := box("moov", concat(mvhd(), box("trak", concat(tkhd(1), mdia))))

	sub := bitstream.NewUnbounded(bytes.NewReader(moov))

	ctx, err := boxes.Parse(sub, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	entry := ctx.Tracks[0].Stsd.Descriptions[0]

	if entry.CodecType != isobmff.CodecEncryptedVideo {
		t.Errorf("entry.CodecType = %v, want CodecEncryptedVideo", entry.CodecType)
	}

	if len(entry.Protection) != 1 {
		t.Fatalf("len(entry.Protection) = %d, want 1", len(entry.Protection))
	}

	prot := entry.Protection[0]

	if prot.SchemeType.String() != "cenc" || prot.OriginalFormat.String() != "avc1" {
		t.Errorf("Protection = %+v, want scheme cenc, original format avc1", prot)
	}

	if prot.Tenc == nil || prot.Tenc.IsEncrypted != 1 || prot.Tenc.IVSize != 16 {
		t.Errorf("Tenc = %+v, want IsEncrypted=1 IVSize=16", prot.Tenc)
	}

	if prot.Tenc != nil && !bytes.Equal(prot.Tenc.KeyID[:], keyID) {
		t.Errorf("KeyID = %x, want %x", prot.Tenc.KeyID, keyID)
	}
}
