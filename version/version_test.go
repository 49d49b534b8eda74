package version

import "testing"

func TestDefaultsAreNonEmpty(t *testing.T) {
	if Name() != "isobmff" {
		t.Errorf("Name() = %q, want %q", Name(), "isobmff")
	}

	if Version() == "" {
		t.Error("Version() is empty")
	}

	if Commit() == "" {
		t.Error("Commit() is empty")
	}

	if Date() == "" {
		t.Error("Date() is empty")
	}
}
