//go:build cgo

package capi

/*
#include <stdint.h>
#include <stddef.h>
#include <stdlib.h>
#include <string.h>

typedef int64_t (*mp4parse_read_fn)(uint8_t *buffer, size_t size, void *userdata);

static int64_t mp4parse_call_read(mp4parse_read_fn fn, uint8_t *buffer, size_t size, void *userdata) {
	return fn(buffer, size, userdata);
}

typedef struct {
	uint32_t length;
	const uint8_t *data;
	const void *indices;
} Mp4parseByteData;

typedef struct {
	int32_t track_type;
	int32_t codec;
	uint32_t track_id;
	int64_t duration_us;
	int64_t media_time_us;
} Mp4parseTrackInfo;

typedef struct {
	int32_t codec;
	uint16_t channels;
	uint16_t bits_per_sample;
	uint32_t sample_rate;
	Mp4parseByteData extra_data;
	uint8_t protected_scheme;
	char scheme_type[4];
} Mp4parseTrackAudioInfo;

typedef struct {
	int32_t codec;
	uint16_t width;
	uint16_t height;
	uint16_t rotation;
	Mp4parseByteData extra_data;
	uint8_t protected_scheme;
	char scheme_type[4];
} Mp4parseTrackVideoInfo;

typedef struct {
	int64_t fragment_duration_us;
} Mp4parseFragmentInfo;

typedef struct {
	uint64_t start_offset;
	uint64_t end_offset;
	int64_t start_composition;
	int64_t end_composition;
	int64_t start_decode;
	uint8_t sync;
} Mp4parseIndice;
*/
import "C"

import (
	"context"
	"fmt"
	"runtime/cgo"
	"unsafe"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/parser"
)

// session is the opaque handle's payload: a parser.Parser plus the
// C-heap scratch buffers this package must own so that pointers it hands
// back to the host stay valid after the call returns. Each scratch field is freed and
// reallocated on its own next write, and all of them are freed together
// on mp4parse_free.
type session struct {
	p          *parser.Parser
	readFn     C.mp4parse_read_fn
	userdata   unsafe.Pointer
	audioExtra unsafe.Pointer
	videoExtra unsafe.Pointer
	psshBuf    unsafe.Pointer
	indiceBuf  unsafe.Pointer
}

func (s *session) read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	n := C.mp4parse_call_read(s.readFn, (*C.uint8_t)(unsafe.Pointer(&buf[0])), C.size_t(len(buf)), s.userdata)

	switch {
	case n < 0:
		return 0, fmt.Errorf("capi: host read callback returned %d", int64(n))
	case n == 0:
		return 0, nil
	default:
		return int(n), nil
	}
}

func (s *session) freeScratch() {
	for _, p := range []*unsafe.Pointer{&s.audioExtra, &s.videoExtra, &s.psshBuf, &s.indiceBuf} {
		if *p != nil {
			C.free(*p)
			*p = nil
		}
	}
}

func cAllocCopy(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}

	ptr := C.malloc(C.size_t(len(data)))
	if ptr == nil {
		return nil
	}

	C.memcpy(ptr, unsafe.Pointer(&data[0]), C.size_t(len(data)))

	return ptr
}

func copySchemeType(dst *[4]C.char, fourCC isobmff.FourCC) {
	for i := 0; i < 4; i++ {
		dst[i] = C.char(fourCC[i])
	}
}

func boolToUint8(v bool) C.uint8_t {
	if v {
		return 1
	}

	return 0
}

func sessionFromHandle(h C.uintptr_t) *session {
	if h == 0 {
		return nil
	}

	sess, ok := cgo.Handle(h).Value().(*session)
	if !ok {
		return nil
	}

	return sess
}

// Available reports whether this build includes the cgo-exported C ABI.
func Available() bool { return true }

//export mp4parse_new
func mp4parse_new(readFn C.mp4parse_read_fn, userdata unsafe.Pointer) C.uintptr_t { //nolint:revive,stylecheck // C ABI naming
	if readFn == nil {
		return 0
	}

	sess := &session{readFn: readFn, userdata: userdata}

	p, err := parser.New(sess.read)
	if err != nil {
		return 0
	}

	sess.p = p

	return C.uintptr_t(cgo.NewHandle(sess))
}

//export mp4parse_read
func mp4parse_read(h C.uintptr_t) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil {
		return C.int32_t(StatusBadArg)
	}

	err := sess.p.Read(context.Background())

	return C.int32_t(statusFromError(err))
}

//export mp4parse_free
func mp4parse_free(h C.uintptr_t) { //nolint:revive,stylecheck // C ABI naming
	if h == 0 {
		return
	}

	handle := cgo.Handle(h)
	if sess, ok := handle.Value().(*session); ok {
		sess.freeScratch()
	}

	handle.Delete()
}

//export mp4parse_get_track_count
func mp4parse_get_track_count(h C.uintptr_t, out *C.uint32_t) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = 0

	n, err := sess.p.TrackCount()
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	*out = C.uint32_t(n)

	return C.int32_t(StatusOk)
}

//export mp4parse_get_track_info
func mp4parse_get_track_info(h C.uintptr_t, index C.uint32_t, out *C.Mp4parseTrackInfo) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = C.Mp4parseTrackInfo{}

	info, err := sess.p.TrackInfo(int(index))
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	out.track_type = C.int32_t(trackTypeFromKind(info.Kind))
	out.codec = C.int32_t(codecFromType(info.Codec))
	out.track_id = C.uint32_t(info.TrackID)
	out.duration_us = C.int64_t(info.DurationUs)
	out.media_time_us = C.int64_t(info.MediaTimeUs)

	return C.int32_t(StatusOk)
}

//export mp4parse_get_track_audio_info
func mp4parse_get_track_audio_info(h C.uintptr_t, index C.uint32_t, out *C.Mp4parseTrackAudioInfo) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = C.Mp4parseTrackAudioInfo{}

	info, err := sess.p.AudioInfo(int(index))
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	if sess.audioExtra != nil {
		C.free(sess.audioExtra)
	}

	sess.audioExtra = cAllocCopy(info.ExtraData)

	out.codec = C.int32_t(codecFromType(info.Codec))
	out.channels = C.uint16_t(info.ChannelCount)
	out.bits_per_sample = C.uint16_t(info.SampleSize)
	out.sample_rate = C.uint32_t(info.SampleRate)
	out.extra_data.length = C.uint32_t(len(info.ExtraData))
	out.extra_data.data = (*C.uint8_t)(sess.audioExtra)

	if len(info.Protection) > 0 {
		out.protected_scheme = 1
		copySchemeType(&out.scheme_type, info.Protection[0].SchemeType)
	}

	return C.int32_t(StatusOk)
}

//export mp4parse_get_track_video_info
func mp4parse_get_track_video_info(h C.uintptr_t, index C.uint32_t, out *C.Mp4parseTrackVideoInfo) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = C.Mp4parseTrackVideoInfo{}

	info, err := sess.p.VideoInfo(int(index))
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	if sess.videoExtra != nil {
		C.free(sess.videoExtra)
	}

	sess.videoExtra = cAllocCopy(info.ExtraData)

	out.codec = C.int32_t(codecFromType(info.Codec))
	out.width = C.uint16_t(info.Width)
	out.height = C.uint16_t(info.Height)
	out.rotation = C.uint16_t(info.Rotation)
	out.extra_data.length = C.uint32_t(len(info.ExtraData))
	out.extra_data.data = (*C.uint8_t)(sess.videoExtra)

	if len(info.Protection) > 0 {
		out.protected_scheme = 1
		copySchemeType(&out.scheme_type, info.Protection[0].SchemeType)
	}

	return C.int32_t(StatusOk)
}

//export mp4parse_get_fragment_info
func mp4parse_get_fragment_info(h C.uintptr_t, out *C.Mp4parseFragmentInfo) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = C.Mp4parseFragmentInfo{}

	info, err := sess.p.FragmentInfo()
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	out.fragment_duration_us = C.int64_t(info.FragmentDurationUs)

	return C.int32_t(StatusOk)
}

//export mp4parse_is_fragmented
func mp4parse_is_fragmented(h C.uintptr_t, trackID C.uint32_t, out *C.uint8_t) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = 0

	fragmented, err := sess.p.IsFragmented(uint32(trackID))
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	*out = boolToUint8(fragmented)

	return C.int32_t(StatusOk)
}

//export mp4parse_get_pssh_info
func mp4parse_get_pssh_info(h C.uintptr_t, out *C.Mp4parseByteData) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = C.Mp4parseByteData{}

	data, err := sess.p.PsshInfo()
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	if sess.psshBuf != nil {
		C.free(sess.psshBuf)
	}

	sess.psshBuf = cAllocCopy(data)
	out.length = C.uint32_t(len(data))
	out.data = (*C.uint8_t)(sess.psshBuf)

	return C.int32_t(StatusOk)
}

//export mp4parse_get_indice_table
func mp4parse_get_indice_table(h C.uintptr_t, trackID C.uint32_t, out *C.Mp4parseByteData) C.int32_t { //nolint:revive,stylecheck // C ABI naming
	sess := sessionFromHandle(h)
	if sess == nil || out == nil {
		return C.int32_t(StatusBadArg)
	}

	*out = C.Mp4parseByteData{}

	indices, err := sess.p.IndiceTable(uint32(trackID))
	if err != nil {
		return C.int32_t(statusFromError(err))
	}

	if sess.indiceBuf != nil {
		C.free(sess.indiceBuf)
		sess.indiceBuf = nil
	}

	if len(indices) == 0 {
		return C.int32_t(StatusOk)
	}

	itemSize := unsafe.Sizeof(C.Mp4parseIndice{})

	buf := C.malloc(C.size_t(itemSize) * C.size_t(len(indices)))
	if buf == nil {
		return C.int32_t(StatusOom)
	}

	items := unsafe.Slice((*C.Mp4parseIndice)(buf), len(indices))

	for i, ind := range indices {
		items[i] = C.Mp4parseIndice{
			start_offset:      C.uint64_t(ind.StartOffset),
			end_offset:        C.uint64_t(ind.EndOffset),
			start_composition: C.int64_t(ind.StartComposition),
			end_composition:   C.int64_t(ind.EndComposition),
			start_decode:      C.int64_t(ind.StartDecode),
			sync:              boolToUint8(ind.Sync),
		}
	}

	sess.indiceBuf = buf
	out.length = C.uint32_t(len(indices))
	out.indices = buf

	return C.int32_t(StatusOk)
}
