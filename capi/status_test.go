package capi

import (
	"errors"
	"testing"

	"github.com/mycophonic/isobmff"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Mp4parseStatus
	}{
		{"nil", nil, StatusOk},
		{"bad_arg", isobmff.ErrBadArg, StatusBadArg},
		{"unsupported", isobmff.Unsupportedf("nope"), StatusUnsupported},
		{"eof", isobmff.ErrUnexpectedEOF, StatusEof},
		{"io", isobmff.IOf("disk fail"), StatusIo},
		{"oom", isobmff.ErrOOM, StatusOom},
		{"other", errors.New("boom"), StatusInvalid},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := statusFromError(test.err); got != test.want {
				t.Errorf("statusFromError(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}

func TestTrackTypeFromKind(t *testing.T) {
	tests := []struct {
		kind isobmff.TrackKind
		want Mp4parseTrackType
	}{
		{isobmff.KindVideo, TrackTypeVideo},
		{isobmff.KindAudio, TrackTypeAudio},
		{isobmff.KindMetadata, TrackTypeMetadata},
		{isobmff.KindUnknown, TrackTypeMetadata},
	}

	for _, test := range tests {
		if got := trackTypeFromKind(test.kind); got != test.want {
			t.Errorf("trackTypeFromKind(%v) = %v, want %v", test.kind, got, test.want)
		}
	}
}

func TestCodecFromType(t *testing.T) {
	tests := []struct {
		codec isobmff.CodecType
		want  Mp4parseCodec
	}{
		{isobmff.CodecAAC, CodecAac},
		{isobmff.CodecAVC, CodecAvc},
		{isobmff.CodecEncryptedVideo, CodecAvc},
		{isobmff.CodecEncryptedAudio, CodecAac},
		{isobmff.CodecXHEAAC, CodecXheaac},
		{isobmff.CodecUnknown, CodecUnknown},
	}

	for _, test := range tests {
		if got := codecFromType(test.codec); got != test.want {
			t.Errorf("codecFromType(%v) = %v, want %v", test.codec, got, test.want)
		}
	}
}
