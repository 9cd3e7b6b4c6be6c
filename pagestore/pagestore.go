// Package pagestore backs a fixed-size disk image with a writable memory
// map, divided into 4 KiB pages. It is the "pages" collaborator spec.md
// treats as external to the core storage engine: volume.Volume only ever
// consumes the PageStore interface, never this package's concrete type.
package pagestore

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// PageSize is the fixed size of a single page, in bytes.
const PageSize = 4096

// PageStore exposes a fixed-size image as a sequence of fixed-size pages.
type PageStore interface {
	// Page returns the byte region backing page i. Writes through the
	// returned slice are visible to subsequent Page(i) calls and are
	// persisted to the backing file on Sync/Close.
	Page(i int) []byte
	// PageCount returns the total number of pages in the store.
	PageCount() int
	// Sync flushes all modified pages to the backing file.
	Sync() error
	// Close flushes and releases the memory map and backing file handle.
	Close() error
}

// Store is a PageStore backed by a memory-mapped file opened with
// os.OpenFile and mapped read-write with unix.Mmap.
type Store struct {
	file  *os.File
	data  []byte
	pages int
}

// Open maps the file at path as a page store of exactly totalPages pages,
// creating and zero-extending the file first if it doesn't already exist or
// is smaller than required.
func Open(path string, totalPages int) (*Store, error) {
	if totalPages <= 0 {
		return nil, fmt.Errorf("pagestore: totalPages must be positive, got %d", totalPages)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pagestore: opening %q: %w", path, err)
	}

	requiredSize := int64(totalPages) * PageSize
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("pagestore: statting %q: %w", path, err)
	}
	if info.Size() < requiredSize {
		if err := file.Truncate(requiredSize); err != nil {
			file.Close()
			return nil, fmt.Errorf("pagestore: growing %q to %d bytes: %w", path, requiredSize, err)
		}
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(requiredSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("pagestore: mmap %q: %w", path, err)
	}

	return &Store{file: file, data: data, pages: totalPages}, nil
}

// Page returns the byte region for page i. It panics on an out-of-range
// index, like a slice index expression would; callers bound i themselves
// using PageCount, matching the bitmap package's "no bounds check" contract.
func (s *Store) Page(i int) []byte {
	start := i * PageSize
	return s.data[start : start+PageSize : start+PageSize]
}

// PageCount returns the total number of pages backing this store.
func (s *Store) PageCount() int {
	return s.pages
}

// Sync flushes all dirty pages to the backing file via msync.
func (s *Store) Sync() error {
	if err := unix.Msync(s.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("pagestore: msync: %w", err)
	}
	return nil
}

// Close flushes, unmaps, and closes the backing file. The store must not be
// used afterward.
func (s *Store) Close() error {
	if err := s.Sync(); err != nil {
		return err
	}
	if err := unix.Munmap(s.data); err != nil {
		return fmt.Errorf("pagestore: munmap: %w", err)
	}
	return s.file.Close()
}
