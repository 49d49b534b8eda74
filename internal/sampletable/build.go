// Package sampletable flattens a track's stsc/stco/stsz/stts/ctts/stss
// tables into a single ordered slice of random-access sample records, each
// carrying a byte range plus decode and composition timestamps expressed in
// microseconds.
package sampletable

import (
	"sort"

	"github.com/samber/lo"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// Build flattens track's sample tables into a flat []isobmff.Indice in
// sample order. movieTimescale is used only to convert an edit list's
// EmptyDuration (expressed in movie-timescale units) into the track's
// microsecond timeline.
func Build(track *isobmff.Track, movieTimescale uint32) ([]isobmff.Indice, error) {
	if track.Timescale == nil {
		return nil, isobmff.Invalidf("sampletable: track has no timescale")
	}

	if track.Stsd == nil {
		return nil, isobmff.Invalidf("sampletable: track has no sample description")
	}

	chunkOffsets, chunkSampleCounts, err := expandChunks(track)
	if err != nil {
		return nil, err
	}

	sampleCount := 0
	for _, n := range chunkSampleCounts {
		sampleCount += n
	}

	sizes, err := sampleSizes(track.Stsz, sampleCount)
	if err != nil {
		return nil, err
	}

	offsets, err := byteRanges(chunkOffsets, chunkSampleCounts, sizes)
	if err != nil {
		return nil, err
	}

	if err := checkSyncSamples(track, sampleCount); err != nil {
		return nil, err
	}

	decodeDeltas := expandTimeToSample(track.Stts, sampleCount)
	compOffsets := expandCompositionOffsets(track.Ctts, sampleCount)

	trackScale := int64(track.Timescale.Scale)

	indices := make([]isobmff.Indice, sampleCount)
	durationsUs := make([]int64, sampleCount)

	var decodeAccum int64

	for i := 0; i < sampleCount; i++ {
		startDecode := decodeAccum
		endDecode := decodeAccum + int64(decodeDeltas[i])
		decodeAccum = endDecode

		startComposition := startDecode + int64(compOffsets[i])

		startDecodeUs, ok := bitstream.RationalScale(startDecode, trackScale, 1_000_000)
		if !ok {
			return nil, isobmff.Invalidf("sampletable: decode timestamp overflow at sample %d", i)
		}

		endDecodeUs, ok := bitstream.RationalScale(endDecode, trackScale, 1_000_000)
		if !ok {
			return nil, isobmff.Invalidf("sampletable: decode timestamp overflow at sample %d", i)
		}

		startCompositionUs, ok := bitstream.RationalScale(startComposition, trackScale, 1_000_000)
		if !ok {
			return nil, isobmff.Invalidf("sampletable: composition timestamp overflow at sample %d", i)
		}

		indices[i] = isobmff.Indice{
			StartOffset:      offsets[i].start,
			EndOffset:        offsets[i].end,
			StartDecode:      startDecodeUs,
			StartComposition: startCompositionUs,
			Sync:             isSync(track, i),
		}
		durationsUs[i] = endDecodeUs - startDecodeUs
	}

	resortEndComposition(indices, durationsUs)

	if track.Elst != nil {
		applyEditList(indices, *track.Elst, trackScale, movieTimescale)
	}

	return indices, nil
}

type byteRange struct {
	start uint64
	end   uint64
}

// expandChunks walks the stsc run-length table and assigns a sample count
// to each physical chunk (one entry per Stco offset). An entry whose
// first_chunk does not advance past the previous one, or a chunk count
// that disagrees with len(Stco), is invalid data rather than a tolerated
// mismatch.
func expandChunks(track *isobmff.Track) (offsets []uint64, sampleCounts []int, err error) {
	totalChunks := len(track.Stco)
	if totalChunks == 0 {
		return nil, nil, nil
	}

	if len(track.Stsc) == 0 {
		return nil, nil, isobmff.Invalidf("sampletable: %d chunks but no stsc entries", totalChunks)
	}

	samplesPerChunk := make([]int, totalChunks)

	for i, entry := range track.Stsc {
		first := int(entry.FirstChunk)
		if first < 1 || first > totalChunks {
			return nil, nil, isobmff.Invalidf("sampletable: stsc first_chunk %d out of range [1,%d]", first, totalChunks)
		}

		last := totalChunks + 1
		if i+1 < len(track.Stsc) {
			last = int(track.Stsc[i+1].FirstChunk)
		}

		if last <= first {
			return nil, nil, isobmff.Invalidf("sampletable: stsc entries not strictly increasing")
		}

		for chunk := first; chunk < last && chunk <= totalChunks; chunk++ {
			samplesPerChunk[chunk-1] = int(entry.SamplesPerChunk)
		}
	}

	return track.Stco, samplesPerChunk, nil
}

func sampleSizes(table isobmff.StszTable, sampleCount int) ([]uint32, error) {
	if table.SampleSize != 0 {
		return lo.RepeatBy(sampleCount, func(int) uint32 { return table.SampleSize }), nil
	}

	if len(table.Sizes) != sampleCount {
		return nil, isobmff.Invalidf("sampletable: stsz has %d sizes, chunk table implies %d samples", len(table.Sizes), sampleCount)
	}

	return table.Sizes, nil
}

func byteRanges(chunkOffsets []uint64, chunkSampleCounts []int, sizes []uint32) ([]byteRange, error) {
	ranges := make([]byteRange, 0, len(sizes))

	idx := 0

	for chunk, count := range chunkSampleCounts {
		offset := chunkOffsets[chunk]

		for i := 0; i < count; i++ {
			if idx >= len(sizes) {
				return nil, isobmff.Invalidf("sampletable: ran out of sample sizes while distributing chunk %d", chunk)
			}

			size := uint64(sizes[idx])
			ranges = append(ranges, byteRange{start: offset, end: offset + size})
			offset += size
			idx++
		}
	}

	return ranges, nil
}

// expandTimeToSample flattens stts run-length entries into one decode
// delta per sample. The result always has sampleCount entries: the sample
// count derived from stsc/stsz takes precedence over the run lengths stts
// claims, so extra deltas are dropped and a table that is too short is
// padded with zero.
func expandTimeToSample(entries []isobmff.TimeToSampleEntry, sampleCount int) []uint32 {
	deltas := lo.FlatMap(entries, func(e isobmff.TimeToSampleEntry, _ int) []uint32 {
		return lo.RepeatBy(int(e.SampleCount), func(int) uint32 { return e.SampleDelta })
	})

	return padUint32(deltas, sampleCount)
}

func expandCompositionOffsets(entries []isobmff.CompositionOffsetEntry, sampleCount int) []int32 {
	offsets := lo.FlatMap(entries, func(e isobmff.CompositionOffsetEntry, _ int) []int32 {
		return lo.RepeatBy(int(e.SampleCount), func(int) int32 { return e.TimeOffset })
	})

	return padInt32(offsets, sampleCount)
}

func padUint32(s []uint32, n int) []uint32 {
	if len(s) >= n {
		return s[:n]
	}

	return append(s, make([]uint32, n-len(s))...)
}

func padInt32(s []int32, n int) []int32 {
	if len(s) >= n {
		return s[:n]
	}

	return append(s, make([]int32, n-len(s))...)
}

// checkSyncSamples validates that every stss entry (a 1-based sample
// number) falls within the track's actual sample count; out-of-range
// indices are invalid data.
func checkSyncSamples(track *isobmff.Track, sampleCount int) error {
	if !track.StssPresent {
		return nil
	}

	for _, n := range track.Stss {
		if n == 0 || int(n) > sampleCount {
			return isobmff.Invalidf("sampletable: stss index %d out of range [1,%d]", n, sampleCount)
		}
	}

	return nil
}

func isSync(track *isobmff.Track, sampleIndex int) bool {
	if !track.StssPresent {
		return true
	}

	sampleNumber := uint32(sampleIndex + 1)

	for _, n := range track.Stss {
		if n == sampleNumber {
			return true
		}
	}

	return false
}

// resortEndComposition fills in each sample's EndComposition by walking the
// indices in composition order and setting a sample's end to the next
// sample's start: composition offsets can reorder samples relative to
// decode order, so a sample's on-wire duration (its own stts delta) isn't
// generally its presentation duration. The last sample in composition
// order falls back to its own decode-derived duration, since there is no
// following sample to bound it.
func resortEndComposition(indices []isobmff.Indice, durationsUs []int64) {
	order := make([]int, len(indices))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return indices[order[a]].StartComposition < indices[order[b]].StartComposition
	})

	for pos, idx := range order {
		if pos+1 < len(order) {
			indices[idx].EndComposition = indices[order[pos+1]].StartComposition
		} else {
			indices[idx].EndComposition = indices[idx].StartComposition + durationsUs[idx]
		}
	}
}
