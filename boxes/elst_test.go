package boxes

import (
	"bytes"
	"testing"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

func TestReadElstEmptyThenNonEmpty(t *testing.T) {
	body := concatBytes(
		[]byte{0, 0, 0, 0}, // version=0, flags=0
		[]byte{0, 0, 0, 2}, // entry_count=2
		// empty edit: segment_duration=500, media_time=-1
		[]byte{0, 0, 1, 0xf4}, []byte{0xff, 0xff, 0xff, 0xff}, []byte{0, 1, 0, 0},
		// non-empty edit: segment_duration=1000, media_time=200
		[]byte{0, 0, 3, 0xe8}, []byte{0, 0, 0, 200}, []byte{0, 1, 0, 0},
	)

	st := &state{ctx: &isobmff.MediaContext{}, track: &isobmff.Track{}}

	sub := bitstream.Limited(bytes.NewReader(body), uint64(len(body)))
	if err := st.readElst(sub); err != nil {
		t.Fatalf("readElst: %v", err)
	}

	if st.track.Elst == nil {
		t.Fatal("track.Elst is nil")
	}

	if st.track.Elst.EmptyDuration != 500 {
		t.Errorf("EmptyDuration = %d, want 500", st.track.Elst.EmptyDuration)
	}

	if st.track.Elst.MediaTime != 200 {
		t.Errorf("MediaTime = %d, want 200", st.track.Elst.MediaTime)
	}
}

func TestReadElstSecondNonEmptyIgnored(t *testing.T) {
	body := concatBytes(
		[]byte{0, 0, 0, 0},
		[]byte{0, 0, 0, 2},
		[]byte{0, 0, 0, 100}, []byte{0, 0, 0, 10}, []byte{0, 1, 0, 0},
		[]byte{0, 0, 0, 200}, []byte{0, 0, 0, 20}, []byte{0, 1, 0, 0},
	)

	st := &state{ctx: &isobmff.MediaContext{}, track: &isobmff.Track{}}

	sub := bitstream.Limited(bytes.NewReader(body), uint64(len(body)))
	if err := st.readElst(sub); err != nil {
		t.Fatalf("readElst: %v", err)
	}

	if st.track.Elst.MediaTime != 10 {
		t.Errorf("MediaTime = %d, want 10 (first non-empty entry wins)", st.track.Elst.MediaTime)
	}
}

func TestReadElstEntryCountMismatch(t *testing.T) {
	body := concatBytes(
		[]byte{0, 0, 0, 0},
		[]byte{0, 0, 0, 2}, // claims 2 entries
		[]byte{0, 0, 0, 100}, []byte{0, 0, 0, 10}, []byte{0, 1, 0, 0}, // only 1 present
	)

	st := &state{ctx: &isobmff.MediaContext{}, track: &isobmff.Track{}}

	sub := bitstream.Limited(bytes.NewReader(body), uint64(len(body)))
	if err := st.readElst(sub); err == nil {
		t.Error("readElst with mismatched entry_count = nil error, want an error")
	}
}
