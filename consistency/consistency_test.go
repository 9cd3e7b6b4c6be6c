package consistency_test

import (
	"testing"

	"github.com/nanofs/nanofs"
	"github.com/nanofs/nanofs/consistency"
	"github.com/nanofs/nanofs/pagestore"
	"github.com/nanofs/nanofs/volume"
)

func TestCheckPassesOnFreshImage(t *testing.T) {
	vol, err := volume.Mount(pagestore.NewMemStore(40))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if err := consistency.Check(vol); err != nil {
		t.Fatalf("Check() on fresh image = %v, want nil", err)
	}
}

func TestCheckPassesAfterNestedActivity(t *testing.T) {
	vol, err := volume.Mount(pagestore.NewMemStore(60))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if err := vol.CreateDir("/d"); err != nil {
		t.Fatalf("CreateDir() error = %v", err)
	}
	if err := vol.CreateInodeAtPath("/d/f", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}
	if _, err := vol.WriteFile("/d/f", []byte("data"), 0); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := vol.Link("/d/f", "/g"); err != nil {
		t.Fatalf("Link() error = %v", err)
	}

	if err := consistency.Check(vol); err != nil {
		t.Fatalf("Check() after activity = %v, want nil", err)
	}
}

func TestCheckCatchesOrphanedBitmapBit(t *testing.T) {
	vol, err := volume.Mount(pagestore.NewMemStore(40))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	vol.SetDataBlockAllocated(5, true)

	if err := consistency.Check(vol); err == nil {
		t.Fatal("Check() = nil, want error for a data block marked allocated but unreachable")
	}
}
