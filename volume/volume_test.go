package volume

import (
	"testing"

	"github.com/nanofs/nanofs"
	"github.com/nanofs/nanofs/pagestore"
)

func TestMountFormatsRootDirectory(t *testing.T) {
	v := newTestVolume(t, 40)

	stat, err := v.GetStat("/")
	if err != nil {
		t.Fatalf("GetStat(/) error = %v", err)
	}
	if stat.Mode&nanofs.S_IFMT != nanofs.S_IFDIR {
		t.Fatalf("root mode = %o, want directory bit set", stat.Mode)
	}
	if stat.Size != PageSize {
		t.Fatalf("root size = %d, want %d", stat.Size, PageSize)
	}
	if stat.Nlink != 2 {
		t.Fatalf("root nlink = %d, want 2", stat.Nlink)
	}

	names, err := v.List("/")
	if err != nil {
		t.Fatalf("List(/) error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List(/) = %v, want exactly . and ..", names)
	}
}

func TestMountIsIdempotentOnExistingImage(t *testing.T) {
	store := pagestore.NewMemStore(40)
	v1, err := Mount(store)
	if err != nil {
		t.Fatalf("first Mount() error = %v", err)
	}
	if err := v1.CreateInodeAtPath("/marker", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}

	v2, err := Mount(store)
	if err != nil {
		t.Fatalf("second Mount() error = %v", err)
	}

	names, err := v2.List("/")
	if err != nil {
		t.Fatalf("List(/) error = %v", err)
	}
	found := false
	for _, n := range names {
		if n == "marker" {
			found = true
		}
	}
	if !found {
		t.Fatalf("List(/) = %v, expected remounting to preserve /marker", names)
	}
}
