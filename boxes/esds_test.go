package boxes

import (
	"testing"

	"github.com/mycophonic/isobmff"
)

// aacLCAudioSpecificConfig builds a minimal AAC-LC AudioSpecificConfig:
// object_type=2 (AAC LC), sampling_frequency_index=4 (44100), channels=2.
func aacLCAudioSpecificConfig() []byte {
	// bits: objectType(5)=00010, freqIndex(4)=0100, channelConfig(4)=0010,
	// padded with zero bits to a byte boundary.
	// 00010 0100 0010 0000 -> 0001 0010 0001 0000
	return []byte{0b00010010, 0b00010000}
}

func TestParseAudioSpecificConfigAACLC(t *testing.T) {
	cfg := &isobmff.ESDSConfig{}

	if err := parseAudioSpecificConfig(aacLCAudioSpecificConfig(), cfg); err != nil {
		t.Fatalf("parseAudioSpecificConfig: %v", err)
	}

	if cfg.AudioObjectType != 2 {
		t.Errorf("AudioObjectType = %d, want 2", cfg.AudioObjectType)
	}

	if cfg.AudioSampleRate != 44100 {
		t.Errorf("AudioSampleRate = %d, want 44100", cfg.AudioSampleRate)
	}

	if cfg.AudioChannelCount != 2 {
		t.Errorf("AudioChannelCount = %d, want 2", cfg.AudioChannelCount)
	}

	if cfg.AudioCodec != isobmff.AudioCodecAAC {
		t.Errorf("AudioCodec = %v, want AudioCodecAAC", cfg.AudioCodec)
	}
}

func TestParseAudioSpecificConfigXHEAAC(t *testing.T) {
	// objectType escape: 11111 (31) then ext=001010 (10) -> 32+10=42,
	// followed by freqIndex=0100 (4), channelConfig=0010 (2), zero-padded
	// to a 24-bit (3-byte) boundary.
	// byte0: 1111 1001 = 0xF9
	// byte1: 0100 1000 = 0x48
	// byte2: 0100 0000 = 0x40
	data := []byte{0xF9, 0x48, 0x40}

	cfg := &isobmff.ESDSConfig{}

	if err := parseAudioSpecificConfig(data, cfg); err != nil {
		t.Fatalf("parseAudioSpecificConfig: %v", err)
	}

	if cfg.AudioObjectType != 42 {
		t.Errorf("AudioObjectType = %d, want 42", cfg.AudioObjectType)
	}

	if cfg.AudioCodec != isobmff.AudioCodecXHEAAC {
		t.Errorf("AudioCodec = %v, want AudioCodecXHEAAC", cfg.AudioCodec)
	}
}

func TestParseAudioSpecificConfigTruncated(t *testing.T) {
	cfg := &isobmff.ESDSConfig{}

	if err := parseAudioSpecificConfig(nil, cfg); err == nil {
		t.Error("parseAudioSpecificConfig(nil) = nil error, want an error")
	}
}

func TestAudioCodecType(t *testing.T) {
	tests := map[isobmff.AudioCodec]isobmff.CodecType{
		isobmff.AudioCodecAAC:     isobmff.CodecAAC,
		isobmff.AudioCodecXHEAAC:  isobmff.CodecXHEAAC,
		isobmff.AudioCodecMP3:     isobmff.CodecMP3,
		isobmff.AudioCodecUnknown: isobmff.CodecUnknown,
	}

	for in, want := range tests {
		if got := audioCodecType(in); got != want {
			t.Errorf("audioCodecType(%v) = %v, want %v", in, got, want)
		}
	}
}
