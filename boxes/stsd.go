package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/internal/box"
)

// readStsd parses the sample description box: an entry_count followed by
// that many sample entries. Each sample entry shares the same size+format
// framing as an ordinary box header, so box.ReadHeader is reused to walk
// them rather than duplicating that framing logic.
func (st *state) readStsd(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	table := &isobmff.SampleTable{Descriptions: make([]isobmff.SampleEntry, 0, entryCount)}

	for i := uint32(0); i < entryCount; i++ {
		hdr, err := box.ReadHeader(body)
		if err != nil {
			return err
		}

		if hdr.Size < uint64(hdr.HeaderBytes) {
			return isobmff.Invalidf("stsd: sample entry %q too small", hdr.Name)
		}

		entryBody := bitstream.Limited(body, hdr.Size-uint64(hdr.HeaderBytes))

		entry, err := st.readSampleEntry(hdr.Name, entryBody)
		if err != nil {
			return err
		}

		if err := entryBody.Discard(); err != nil {
			return isobmff.ErrUnexpectedEOF
		}

		table.Descriptions = append(table.Descriptions, entry)
	}

	st.track.Stsd = table

	return nil
}

func (st *state) readSampleEntry(name isobmff.FourCC, body *bitstream.Substream) (isobmff.SampleEntry, error) {
	if err := bitstream.SkipN(body, 6); err != nil { // reserved
		return isobmff.SampleEntry{}, err
	}

	if _, err := bitstream.ReadU16(body); err != nil { // data_reference_index
		return isobmff.SampleEntry{}, err
	}

	entry := isobmff.SampleEntry{CodeName: name}
	st.entry = &entry

	switch st.track.Kind {
	case isobmff.KindVideo:
		if err := st.readVideoSampleEntry(&entry, body); err != nil {
			return isobmff.SampleEntry{}, err
		}
	case isobmff.KindAudio:
		if err := st.readAudioSampleEntry(&entry, body); err != nil {
			return isobmff.SampleEntry{}, err
		}
	default:
		// Unrecognized track kind: still consume nested boxes in case a
		// protection wrapper is present, but leave Kind unset.
		if err := box.Dispatch(body, st.sinfOnlyTable(), false, 6, st.maxDepth); err != nil {
			return isobmff.SampleEntry{}, err
		}
	}

	entry.CodecType = codecFromName(name, entry.CodecType)

	st.entry = nil

	return entry, nil
}

func (st *state) readVideoSampleEntry(entry *isobmff.SampleEntry, body *bitstream.Substream) error {
	entry.Kind = isobmff.SampleEntryVideo
	video := &isobmff.VideoSampleEntry{}
	entry.Video = video

	if err := bitstream.SkipN(body, 16); err != nil { // pre_defined/reserved
		return err
	}

	width, err := bitstream.ReadU16(body)
	if err != nil {
		return err
	}

	height, err := bitstream.ReadU16(body)
	if err != nil {
		return err
	}

	video.Width = width
	video.Height = height

	if err := bitstream.SkipN(body, 4+4+4+2); err != nil { // h/v resolution, reserved, frame_count
		return err
	}

	if err := bitstream.SkipN(body, 32); err != nil { // compressorname
		return err
	}

	if _, err := bitstream.ReadU16(body); err != nil { // depth
		return err
	}

	if _, err := bitstream.ReadI16(body); err != nil { // pre_defined
		return err
	}

	if entry.CodeName.String() == "jpeg" {
		video.JPEG = true
	}

	table := box.Table{
		isobmff.NewFourCC("avcC"): st.readAvcC,
		isobmff.NewFourCC("av1C"): st.readAv1C,
		isobmff.NewFourCC("vpcC"): st.readVpcC,
		isobmff.NewFourCC("sinf"): st.readSinf,
	}

	return box.Dispatch(body, table, false, 6, st.maxDepth)
}

func (st *state) readAudioSampleEntry(entry *isobmff.SampleEntry, body *bitstream.Substream) error {
	entry.Kind = isobmff.SampleEntryAudio
	audio := &isobmff.AudioSampleEntry{}
	entry.Audio = audio

	if err := bitstream.SkipN(body, 8); err != nil { // reserved[2]
		return err
	}

	channelCount, err := bitstream.ReadU16(body)
	if err != nil {
		return err
	}

	sampleSize, err := bitstream.ReadU16(body)
	if err != nil {
		return err
	}

	if err := bitstream.SkipN(body, 4); err != nil { // pre_defined + reserved
		return err
	}

	sampleRate, err := bitstream.ReadFixed16_16(body)
	if err != nil {
		return err
	}

	audio.ChannelCount = channelCount
	audio.SampleSize = sampleSize
	audio.SampleRate = sampleRate >> 16

	table := box.Table{
		isobmff.NewFourCC("esds"): st.readEsds,
		isobmff.NewFourCC("dOps"): st.readDOps,
		isobmff.NewFourCC("dfLa"): st.readDfLa,
		isobmff.NewFourCC("alac"): st.readAlacConfig,
		isobmff.NewFourCC("sinf"): st.readSinf,
	}

	return box.Dispatch(body, table, false, 6, st.maxDepth)
}

func (st *state) sinfOnlyTable() box.Table {
	return box.Table{
		isobmff.NewFourCC("sinf"): st.readSinf,
	}
}

// codecFromName maps a sample entry's own FourCC to a CodecType for the
// codecs that don't need their configuration box to disambiguate further.
// Protected entries (encv/enca) always report the Encrypted variant, even
// when ESDS already resolved the underlying codec. Otherwise esds-bearing
// entries (mp4a) and already-assigned codecs (ESDS resolving AAC vs
// xHE-AAC vs MP3) are left untouched if already set.
func codecFromName(name isobmff.FourCC, current isobmff.CodecType) isobmff.CodecType {
	switch name.String() {
	case "encv":
		return isobmff.CodecEncryptedVideo
	case "enca":
		return isobmff.CodecEncryptedAudio
	}

	if current != isobmff.CodecUnknown {
		return current
	}

	switch name.String() {
	case "avc1", "avc3":
		return isobmff.CodecAVC
	case "vp09":
		return isobmff.CodecVP9
	case "av01":
		return isobmff.CodecAV1
	case "mp4v":
		return isobmff.CodecMP4V
	case "jpeg":
		return isobmff.CodecJPEG
	case "Opus":
		return isobmff.CodecOpus
	case "fLaC":
		return isobmff.CodecFLAC
	case "alac":
		return isobmff.CodecALAC
	case "ac-3":
		return isobmff.CodecAC3
	case "ec-3":
		return isobmff.CodecEC3
	default:
		return current
	}
}
