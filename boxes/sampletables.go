package boxes

import (
	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// checkEntryCount validates that entryCount entries of entrySize bytes
// exactly consume a full-box body's remaining length, before any parser
// loops entry_count times: a crafted entry_count near 0xFFFFFFFF is
// rejected here before any slice is sized from it.
func checkEntryCount(remaining uint64, entryCount uint32, entrySize uint64) error {
	if uint64(entryCount)*entrySize != remaining {
		return isobmff.Invalidf("entry_count %d * %d does not match remaining body length %d", entryCount, entrySize, remaining)
	}

	return nil
}

func readFullBoxHeader(body *bitstream.Substream) (version uint8, err error) {
	version, err = bitstream.ReadU8(body)
	if err != nil {
		return 0, err
	}

	if _, err := bitstream.ReadU24(body); err != nil { // flags
		return 0, err
	}

	return version, nil
}

// readStsc parses the sample-to-chunk table. An entry whose first_chunk
// equals the previous entry's is invalid; a decreasing first_chunk is not
// rejected here, only later by the sample-table builder.
func (st *state) readStsc(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	if err := checkEntryCount(body.Remaining(), entryCount, 12); err != nil {
		return err
	}

	entries := make([]isobmff.StscEntry, 0, entryCount)

	var lastFirstChunk uint32

	for i := uint32(0); i < entryCount; i++ {
		firstChunk, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		samplesPerChunk, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		sampleDescIndex, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		if i > 0 && firstChunk == lastFirstChunk {
			return isobmff.Invalidf("stsc: duplicate first_chunk %d", firstChunk)
		}

		lastFirstChunk = firstChunk

		entries = append(entries, isobmff.StscEntry{
			FirstChunk:      firstChunk,
			SamplesPerChunk: samplesPerChunk,
			SampleDescIndex: sampleDescIndex,
		})
	}

	st.track.Stsc = entries

	return nil
}

func (st *state) readStco(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	if err := checkEntryCount(body.Remaining(), entryCount, 4); err != nil {
		return err
	}

	offsets := make([]uint64, entryCount)

	for i := range offsets {
		v, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		offsets[i] = uint64(v)
	}

	if len(st.track.Stco) == 0 {
		st.track.Stco = offsets
	}

	return nil
}

func (st *state) readCo64(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	if err := checkEntryCount(body.Remaining(), entryCount, 8); err != nil {
		return err
	}

	offsets := make([]uint64, entryCount)

	for i := range offsets {
		v, err := bitstream.ReadU64(body)
		if err != nil {
			return err
		}

		offsets[i] = v
	}

	// co64 supersedes a 32-bit stco for the same track (64-bit offsets are
	// only emitted when needed, but a file may emit both; co64 wins).
	st.track.Stco = offsets

	return nil
}

func (st *state) readStsz(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	sampleSize, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	sampleCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	table := isobmff.StszTable{SampleSize: sampleSize, SampleCount: sampleCount}

	if sampleSize == 0 {
		if err := checkEntryCount(body.Remaining(), sampleCount, 4); err != nil {
			return err
		}

		sizes := make([]uint32, sampleCount)

		for i := range sizes {
			v, err := bitstream.ReadU32(body)
			if err != nil {
				return err
			}

			if v == 0 {
				return isobmff.Invalidf("stsz: sample %d has zero size", i)
			}

			sizes[i] = v
		}

		table.Sizes = sizes
	} else if body.Remaining() != 0 {
		return isobmff.Invalidf("stsz: constant sample_size but %d trailing bytes", body.Remaining())
	}

	st.track.Stsz = table

	return nil
}

func (st *state) readStts(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	if err := checkEntryCount(body.Remaining(), entryCount, 8); err != nil {
		return err
	}

	entries := make([]isobmff.TimeToSampleEntry, entryCount)

	for i := range entries {
		count, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		delta, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		entries[i] = isobmff.TimeToSampleEntry{SampleCount: count, SampleDelta: delta}
	}

	st.track.Stts = entries

	return nil
}

// readCtts parses the composition-time-offset table. Version 0 stores the
// offset as an unsigned u32 on the wire but many real files store negative
// offsets in it anyway; this parser reinterprets the raw bits as signed
// unconditionally.
func (st *state) readCtts(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	if err := checkEntryCount(body.Remaining(), entryCount, 8); err != nil {
		return err
	}

	entries := make([]isobmff.CompositionOffsetEntry, entryCount)

	for i := range entries {
		count, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		offset, err := bitstream.ReadI32(body)
		if err != nil {
			return err
		}

		entries[i] = isobmff.CompositionOffsetEntry{SampleCount: count, TimeOffset: offset}
	}

	st.track.Ctts = entries

	return nil
}

// readStss parses the sync-sample table: 1-based sample indices that are
// random-access points. Presence of this box (even with zero entries)
// means non-listed samples are not sync samples.
func (st *state) readStss(body *bitstream.Substream) error {
	if _, err := readFullBoxHeader(body); err != nil {
		return err
	}

	entryCount, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	if err := checkEntryCount(body.Remaining(), entryCount, 4); err != nil {
		return err
	}

	entries := make([]uint32, entryCount)

	for i := range entries {
		v, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		if v == 0 {
			return isobmff.Invalidf("stss: sample index must be 1-based, got 0")
		}

		entries[i] = v
	}

	st.track.Stss = entries
	st.track.StssPresent = true

	return nil
}
