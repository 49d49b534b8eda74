// Package parser implements the Go-facing half of the parser session: an
// idiomatic wrapper around the box dispatcher and sample-table builder
// exposing a small, stable query surface (track enumeration,
// codec-specific info, fragment info, pssh serialization, and the
// per-track sample index) driven by a pull-style host read callback.
// Package capi wraps this type behind the C ABI.
package parser

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/boxes"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/internal/sampletable"
	"github.com/mycophonic/isobmff/logging"
)

// Parser is a streaming ISO BMFF parser session. It owns the host read
// callback, the parsed MediaContext, and the lazily-built per-track sample
// index cache. Read is single-caller; query methods are safe to call
// concurrently with each other once Read has returned, and the
// indice-table cache deduplicates concurrent first-time builds for the
// same track through singleflight rather than racing.
type Parser struct {
	read     ReadFunc
	maxDepth int

	mu       sync.Mutex
	ctx      *isobmff.MediaContext
	parsed   bool
	poisoned bool

	indiceGroup singleflight.Group
	indiceMu    sync.RWMutex
	indiceCache map[uint32][]isobmff.Indice
}

// New creates a Parser driven by read. It reports isobmff.ErrBadArg if
// read is nil, mirroring the C ABI's rejection of a null io/read_fn pair.
func New(read ReadFunc, opts ...Option) (*Parser, error) {
	if read == nil {
		return nil, isobmff.ErrBadArg
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Parser{
		read:        read,
		maxDepth:    cfg.maxBoxDepth,
		indiceCache: make(map[uint32][]isobmff.Indice),
	}, nil
}

// Read drives the top-level box dispatcher once, populating the session's
// MediaContext. It is idempotent after a successful (or cleanly
// end-of-stream) parse: later calls return nil without re-reading the
// stream. ctx is honored between reads of the host callback; the C ABI
// has no cancellation concept and is unaffected by it.
//
// Read returns isobmff.ErrUnsupported without poisoning the session when a
// top-level box is well-formed but not implemented; it
// returns isobmff.ErrUnexpectedEOF without poisoning when the stream ends
// mid-box (the context reflects whatever was parsed up to that point); and
// it poisons the session (every subsequent query returns
// isobmff.ErrBadArg) on isobmff.ErrInvalidData, isobmff.ErrNoMoov, or a
// host callback failure (reported as isobmff.ErrIO).
func (p *Parser) Read(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.poisoned {
		return isobmff.ErrBadArg
	}

	if p.parsed {
		return nil
	}

	cr := &ctxReader{ctx: ctx, fn: p.read}
	sub := bitstream.NewUnbounded(cr)

	mctx, err := boxes.Parse(sub, p.maxDepth)
	p.ctx = mctx

	switch {
	case cr.ioErr != nil:
		p.poisoned = true

		return isobmff.IOf("host read callback failed: %v", cr.ioErr)
	case err == nil:
		p.parsed = true

		return nil
	case errors.Is(err, isobmff.ErrUnsupported):
		return err
	case errors.Is(err, isobmff.ErrUnexpectedEOF):
		p.parsed = true

		return err
	default:
		logging.Logger().Debug().Err(err).Msg("poisoning session after fatal parse error")

		p.poisoned = true

		return err
	}
}

// snapshot returns the current MediaContext under lock, or
// isobmff.ErrBadArg if the session is poisoned or Read has not been called
// yet.
func (p *Parser) snapshot() (*isobmff.MediaContext, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.poisoned || p.ctx == nil {
		return nil, isobmff.ErrBadArg
	}

	return p.ctx, nil
}

// TrackCount reports the number of tracks parsed so far. It fails
// isobmff.ErrInvalidData if the count exceeds math.MaxUint32, which never
// happens with real input since each track costs at least one box.
func (p *Parser) TrackCount() (uint32, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return 0, err
	}

	if len(ctx.Tracks) > math.MaxUint32 {
		return 0, isobmff.Invalidf("parser: track count exceeds uint32")
	}

	return uint32(len(ctx.Tracks)), nil
}

// trackAt returns the index'th track, or isobmff.ErrBadArg if index is out
// of range.
func trackAt(ctx *isobmff.MediaContext, index int) (*isobmff.Track, error) {
	if index < 0 || index >= len(ctx.Tracks) {
		return nil, isobmff.ErrBadArg
	}

	return ctx.Tracks[index], nil
}

func findTrack(ctx *isobmff.MediaContext, trackID uint32) *isobmff.Track {
	for _, t := range ctx.Tracks {
		if t.ID != nil && *t.ID == trackID {
			return t
		}
	}

	return nil
}

func primaryEntry(track *isobmff.Track) *isobmff.SampleEntry {
	if track.Stsd == nil || len(track.Stsd.Descriptions) == 0 {
		return nil
	}

	return &track.Stsd.Descriptions[0]
}

// TrackInfo reports the summary fields for the index'th track.
func (p *Parser) TrackInfo(index int) (TrackInfo, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return TrackInfo{}, err
	}

	track, err := trackAt(ctx, index)
	if err != nil {
		return TrackInfo{}, err
	}

	info := TrackInfo{Kind: track.Kind}

	if track.ID != nil {
		info.TrackID = *track.ID
	}

	if entry := primaryEntry(track); entry != nil {
		info.Codec = entry.CodecType
	}

	trackScale := int64(0)
	if track.Timescale != nil {
		trackScale = int64(track.Timescale.Scale)
	}

	if track.Duration != nil && trackScale != 0 {
		if us, ok := bitstream.RationalScale(int64(track.Duration.Value), trackScale, 1_000_000); ok {
			info.DurationUs = us
		}
	}

	movieScale := int64(0)
	if ctx.Timescale != nil {
		movieScale = int64(*ctx.Timescale)
	}

	if track.Elst != nil && trackScale != 0 && movieScale != 0 {
		mediaTimeUs, okMedia := bitstream.RationalScale(track.Elst.MediaTime, trackScale, 1_000_000)
		emptyDurationUs, okEmpty := bitstream.RationalScale(int64(track.Elst.EmptyDuration), movieScale, 1_000_000)

		if okMedia && okEmpty {
			info.MediaTimeUs = mediaTimeUs - emptyDurationUs
		}
	}

	return info, nil
}

// AudioInfo reports the codec-specific fields for the index'th track's
// primary sample description. It fails isobmff.ErrBadArg if that entry
// isn't an audio sample entry.
func (p *Parser) AudioInfo(index int) (AudioInfo, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return AudioInfo{}, err
	}

	track, err := trackAt(ctx, index)
	if err != nil {
		return AudioInfo{}, err
	}

	entry := primaryEntry(track)
	if entry == nil || entry.Kind != isobmff.SampleEntryAudio || entry.Audio == nil {
		return AudioInfo{}, isobmff.ErrBadArg
	}

	audio := entry.Audio
	info := AudioInfo{
		Codec:        entry.CodecType,
		ChannelCount: audio.ChannelCount,
		SampleSize:   audio.SampleSize,
		SampleRate:   audio.SampleRate,
		Protection:   entry.Protection,
	}

	switch {
	case audio.ESDS != nil:
		info.ExtraData = audio.ESDS.DecoderSpecificData

		if audio.ESDS.AudioSampleRate != 0 {
			info.SampleRate = audio.ESDS.AudioSampleRate
		}

		if audio.ESDS.AudioChannelCount != 0 {
			info.ChannelCount = audio.ESDS.AudioChannelCount
		}
	case audio.Opus != nil:
		info.ExtraData = audio.Opus.Raw
	case audio.FLAC != nil:
		info.ExtraData = audio.FLAC.Raw
	case audio.ALAC != nil:
		info.ExtraData = audio.ALAC.Raw
	case len(audio.AC3) != 0:
		info.ExtraData = audio.AC3
	case len(audio.EC3) != 0:
		info.ExtraData = audio.EC3
	}

	return info, nil
}

// VideoInfo reports the codec-specific fields for the index'th track's
// primary sample description. It fails isobmff.ErrBadArg if that entry
// isn't a video sample entry.
func (p *Parser) VideoInfo(index int) (VideoInfo, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return VideoInfo{}, err
	}

	track, err := trackAt(ctx, index)
	if err != nil {
		return VideoInfo{}, err
	}

	entry := primaryEntry(track)
	if entry == nil || entry.Kind != isobmff.SampleEntryVideo || entry.Video == nil {
		return VideoInfo{}, isobmff.ErrBadArg
	}

	video := entry.Video
	info := VideoInfo{
		Codec:      entry.CodecType,
		Width:      video.Width,
		Height:     video.Height,
		Protection: entry.Protection,
	}

	if track.Tkhd != nil {
		info.Rotation = rotationFromMatrix(track.Tkhd.Matrix)
	}

	switch {
	case len(video.AVC) != 0:
		info.ExtraData = video.AVC
	case video.AV1 != nil:
		info.ExtraData = video.AV1.Raw
	case video.VPx != nil:
		info.ExtraData = video.VPx.Raw
	}

	return info, nil
}

// FragmentInfo reports the movie-extends fragment duration. It fails
// isobmff.ErrInvalidData if the parsed stream has no mvex box.
func (p *Parser) FragmentInfo() (FragmentInfo, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return FragmentInfo{}, err
	}

	if ctx.Mvex == nil {
		return FragmentInfo{}, isobmff.Invalidf("parser: no mvex box")
	}

	if ctx.Mvex.FragmentDuration == nil {
		return FragmentInfo{}, nil
	}

	movieScale := int64(0)
	if ctx.Timescale != nil {
		movieScale = int64(*ctx.Timescale)
	}

	us, ok := bitstream.RationalScale(int64(*ctx.Mvex.FragmentDuration), movieScale, 1_000_000)
	if !ok {
		return FragmentInfo{}, isobmff.Invalidf("parser: fragment duration overflow")
	}

	return FragmentInfo{FragmentDurationUs: us}, nil
}

// IsFragmented reports whether the stream is fragmented (an mvex box is
// present) and trackID's own sample tables are empty, i.e. its samples
// live in movie fragments rather than in this init segment.
func (p *Parser) IsFragmented(trackID uint32) (bool, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return false, err
	}

	if ctx.Mvex == nil {
		return false, nil
	}

	track := findTrack(ctx, trackID)
	if track == nil {
		return false, isobmff.Invalidf("parser: unknown track id %d", trackID)
	}

	return len(track.Stsc) == 0 && len(track.Stco) == 0 && len(track.Stts) == 0, nil
}

// PsshInfo serializes every parsed pssh box as
// repeat{system_id[16] || u32 size (native-endian) || box_content[size]}.
// The size field is native-endian, a quirk of the established C ABI wire
// format this parser preserves rather than normalizes.
func (p *Parser) PsshInfo() ([]byte, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	for _, pssh := range ctx.Psshs {
		buf.Write(pssh.SystemID[:])

		var sizeBuf [4]byte
		binary.NativeEndian.PutUint32(sizeBuf[:], uint32(len(pssh.BoxContent)))
		buf.Write(sizeBuf[:])
		buf.Write(pssh.BoxContent)
	}

	return buf.Bytes(), nil
}

// IndiceTable returns the flat, random-access sample index for trackID,
// building it on first request and caching it for the session's lifetime.
// Concurrent first-time requests for the same track
// collapse onto a single build via singleflight.
func (p *Parser) IndiceTable(trackID uint32) ([]isobmff.Indice, error) {
	ctx, err := p.snapshot()
	if err != nil {
		return nil, err
	}

	p.indiceMu.RLock()
	cached, ok := p.indiceCache[trackID]
	p.indiceMu.RUnlock()

	if ok {
		return cached, nil
	}

	key := strconv.FormatUint(uint64(trackID), 10)

	v, err, _ := p.indiceGroup.Do(key, func() (any, error) {
		p.indiceMu.RLock()
		if cached, ok := p.indiceCache[trackID]; ok {
			p.indiceMu.RUnlock()

			return cached, nil
		}
		p.indiceMu.RUnlock()

		track := findTrack(ctx, trackID)
		if track == nil {
			return nil, isobmff.Invalidf("parser: unknown track id %d", trackID)
		}

		movieScale := uint32(0)
		if ctx.Timescale != nil {
			movieScale = *ctx.Timescale
		}

		indices, buildErr := sampletable.Build(track, movieScale)
		if buildErr != nil {
			return nil, buildErr
		}

		p.indiceMu.Lock()
		p.indiceCache[trackID] = indices
		p.indiceMu.Unlock()

		return indices, nil
	})
	if err != nil {
		return nil, err
	}

	indices, _ := v.([]isobmff.Indice)

	return indices, nil
}
