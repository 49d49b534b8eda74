package boxes

import (
	"bytes"
	"io"

	"github.com/icza/bitio"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// mpeg4SampleRates is the MPEG-4 Audio sampling_frequency_index table
// (ISO/IEC 14496-3 Table 1.16). Index 15 means "read an explicit 24-bit
// rate instead" and isn't listed here.
var mpeg4SampleRates = [...]uint32{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

const (
	esTag                = 0x03
	decoderConfigTag     = 0x04
	decoderSpecificTag   = 0x05
	objectTypeIndicMP3A  = 0x6B
	objectTypeIndicMP3B  = 0x69
	objectTypeIndicAACLC = 0x40
)

// readEsds parses an MPEG-4 ES_Descriptor tree down to the
// DecoderSpecificInfo payload, then the embedded AudioSpecificConfig for
// AAC-family streams. MP3-in-MP4 (objectTypeIndication 0x69/0x6B) carries
// no AudioSpecificConfig and is recognized from objectTypeIndication alone.
func (st *state) readEsds(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	raw, err := body.ReadAll()
	if err != nil {
		return err
	}

	cfg := &isobmff.ESDSConfig{Raw: raw}

	if err := parseESDescriptor(bytes.NewReader(raw), cfg); err != nil {
		return err
	}

	if st.entry != nil && st.entry.Audio != nil {
		st.entry.Audio.ESDS = cfg
		st.entry.CodecType = audioCodecType(cfg.AudioCodec)
	}

	return nil
}

func parseESDescriptor(r io.Reader, cfg *isobmff.ESDSConfig) error {
	tag, esBody, err := bitstream.ReadDescriptorTag(r)
	if err != nil {
		return err
	}

	if tag != esTag {
		return isobmff.Invalidf("esds: expected ES_Descriptor tag, got %#x", tag)
	}

	if _, err := bitstream.ReadU16(esBody); err != nil { // ES_ID
		return err
	}

	flags, err := bitstream.ReadU8(esBody)
	if err != nil {
		return err
	}

	if flags&0x80 != 0 {
		if err := bitstream.SkipN(esBody, 2); err != nil { // dependsOn_ES_ID
			return err
		}
	}

	if flags&0x40 != 0 {
		if _, err := bitstream.ReadPascalString(esBody); err != nil { // URL
			return err
		}
	}

	if flags&0x20 != 0 {
		if err := bitstream.SkipN(esBody, 2); err != nil { // OCR_ES_ID
			return err
		}
	}

	return parseDecoderConfigDescriptor(esBody, cfg)
}

func parseDecoderConfigDescriptor(r io.Reader, cfg *isobmff.ESDSConfig) error {
	tag, dcBody, err := bitstream.ReadDescriptorTag(r)
	if err != nil {
		return err
	}

	if tag != decoderConfigTag {
		return isobmff.Invalidf("esds: expected DecoderConfigDescriptor tag, got %#x", tag)
	}

	objectTypeIndication, err := bitstream.ReadU8(dcBody)
	if err != nil {
		return err
	}

	if err := bitstream.SkipN(dcBody, 1); err != nil { // streamType+upStream+reserved
		return err
	}

	if err := bitstream.SkipN(dcBody, 3+4+4); err != nil { // bufferSizeDB, maxBitrate, avgBitrate
		return err
	}

	switch objectTypeIndication {
	case objectTypeIndicMP3A, objectTypeIndicMP3B:
		cfg.AudioCodec = isobmff.AudioCodecMP3

		return nil
	}

	if dcBody.Remaining() == 0 {
		return nil
	}

	tag, dsiBody, err := bitstream.ReadDescriptorTag(dcBody)
	if err != nil {
		return err
	}

	if tag != decoderSpecificTag {
		return nil
	}

	dsi, err := dsiBody.ReadAll()
	if err != nil {
		return err
	}

	cfg.DecoderSpecificData = dsi

	return parseAudioSpecificConfig(dsi, cfg)
}

// parseAudioSpecificConfig extracts audioObjectType, sampling rate, and
// channel configuration from the MPEG-4 AudioSpecificConfig bitstream
// (ISO/IEC 14496-3 §1.6.2.1), including the escape encoding for object
// types 32 and above that xHE-AAC (type 42) uses.
func parseAudioSpecificConfig(data []byte, cfg *isobmff.ESDSConfig) error {
	br := bitio.NewReader(bytes.NewReader(data))

	objectType, err := br.ReadBits(5)
	if err != nil {
		return isobmff.ErrUnexpectedEOF
	}

	if objectType == 31 {
		ext, err := br.ReadBits(6)
		if err != nil {
			return isobmff.ErrUnexpectedEOF
		}

		objectType = 32 + ext
	}

	cfg.AudioObjectType = uint8(objectType)

	freqIndex, err := br.ReadBits(4)
	if err != nil {
		return isobmff.ErrUnexpectedEOF
	}

	var sampleRate uint32

	if freqIndex == 0xf {
		rate, err := br.ReadBits(24)
		if err != nil {
			return isobmff.ErrUnexpectedEOF
		}

		sampleRate = uint32(rate)
	} else if int(freqIndex) < len(mpeg4SampleRates) {
		sampleRate = mpeg4SampleRates[freqIndex]
	}

	channelConfig, err := br.ReadBits(4)
	if err != nil {
		return isobmff.ErrUnexpectedEOF
	}

	cfg.AudioSampleRate = sampleRate
	cfg.AudioChannelCount = uint16(channelConfig)

	switch cfg.AudioObjectType {
	case 42:
		cfg.AudioCodec = isobmff.AudioCodecXHEAAC
	default:
		cfg.AudioCodec = isobmff.AudioCodecAAC
	}

	return nil
}

func audioCodecType(c isobmff.AudioCodec) isobmff.CodecType {
	switch c {
	case isobmff.AudioCodecAAC:
		return isobmff.CodecAAC
	case isobmff.AudioCodecXHEAAC:
		return isobmff.CodecXHEAAC
	case isobmff.AudioCodecMP3:
		return isobmff.CodecMP3
	default:
		return isobmff.CodecUnknown
	}
}
