package volume

import (
	"fmt"
	"syscall"

	"github.com/nanofs/nanofs"
	"github.com/nanofs/nanofs/internal/nanolog"
	"github.com/nanofs/nanofs/pagestore"
)

// Volume is the single mounted storage engine: the bitmaps, inode table,
// and data-block region of one backing pagestore.PageStore. It takes no
// locks of its own; per spec.md's concurrency model, exactly one operation
// runs against a Volume at a time, with the caller (the bridge package)
// providing the exclusion domain.
type Volume struct {
	store      pagestore.PageStore
	dataBitmap bitmapView
	inoBitmap  bitmapView
	numInodes  int
	numBlocks  int
}

// Mount backs a Volume by store and initializes it if the image is fresh.
// If inode 0 already has a non-zero mode, Mount leaves the image untouched:
// storage_init is idempotent per spec.md §4.7 / §8.
func Mount(store pagestore.PageStore) (*Volume, error) {
	total := store.PageCount()
	if total <= DataBlockStart {
		return nil, fmt.Errorf("volume: image has %d pages, need more than %d for the data region", total, DataBlockStart)
	}

	v := &Volume{
		store:     store,
		numInodes: inodesPerTable,
		numBlocks: total - DataBlockStart,
	}
	v.dataBitmap = newBitmapView(store.Page(DataBitmapPage), v.numBlocks)
	v.inoBitmap = newBitmapView(store.Page(InodeBitmapPage), v.numInodes)

	root, err := v.getInode(0)
	if err != nil {
		return nil, err
	}
	if root.mode() != 0 {
		nanolog.Debug("mount: existing image, skipping initialization")
		return v, nil
	}

	nanolog.Info("mount: fresh image, formatting root directory")
	if err := v.initializeFreshImage(); err != nil {
		return nil, err
	}
	return v, nil
}

// Sync flushes the backing store.
func (v *Volume) Sync() error {
	return v.store.Sync()
}

// Close flushes and releases the backing store. The Volume must not be used
// afterward.
func (v *Volume) Close() error {
	return v.store.Close()
}

func errno(code syscall.Errno) error {
	return nanofs.NewDriverError(code)
}

func errnof(code syscall.Errno, format string, args ...interface{}) error {
	return nanofs.NewDriverErrorWithMessage(code, fmt.Sprintf(format, args...))
}
