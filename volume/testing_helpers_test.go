package volume

import (
	"testing"

	"github.com/nanofs/nanofs/pagestore"
)

// newTestVolume mounts a fresh in-memory volume with totalPages pages,
// formatting it on first use just like a real image.
func newTestVolume(t *testing.T, totalPages int) *Volume {
	t.Helper()
	store := pagestore.NewMemStore(totalPages)
	v, err := Mount(store)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return v
}
