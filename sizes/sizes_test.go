package sizes

import "testing"

func TestGetKnownPreset(t *testing.T) {
	preset, err := Get("small")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if preset.Pages <= 0 {
		t.Fatalf("Pages = %d, want positive", preset.Pages)
	}
}

func TestGetUnknownPresetErrors(t *testing.T) {
	if _, err := Get("nonexistent"); err == nil {
		t.Fatal("Get() error = nil, want non-nil for unknown slug")
	}
}

func TestListReturnsAllPresets(t *testing.T) {
	rows := List()
	if len(rows) == 0 {
		t.Fatal("List() returned no presets")
	}
	seen := make(map[string]bool)
	for _, p := range rows {
		seen[p.Slug] = true
	}
	for _, want := range []string{"tiny", "small", "medium", "large", "huge"} {
		if !seen[want] {
			t.Errorf("List() missing preset %q", want)
		}
	}
}
