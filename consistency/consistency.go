// Package consistency implements an offline checker for the invariants
// spec.md §8 requires to hold after any sequence of operations: directory
// name uniqueness, the presence of "." and "..", the size/block-count
// relationship for regular files, and agreement between the inode/data
// bitmaps and what's actually allocated or reachable.
//
// It walks the volume the way the namespace operations do, through
// volume.Volume's exported surface plus the raw accessors in
// volume/debug.go the bitmap checks need, and aggregates every violation
// it finds rather than stopping at the first one, using
// hashicorp/go-multierror the way the teacher repo aggregates validation
// failures.
package consistency

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/nanofs/nanofs/volume"
)

// Check walks vol from its root and returns every invariant violation it
// finds as a *multierror.Error, or nil if the image is consistent.
func Check(vol *volume.Volume) error {
	var result *multierror.Error
	visited := map[uint64]bool{}
	blockUseCount := map[int32]int{}

	var walk func(path string)
	walk = func(path string) {
		stat, err := vol.GetStat(path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("stat %q: %w", path, err))
			return
		}
		if visited[stat.Ino] {
			return
		}
		visited[stat.Ino] = true

		blocks, err := vol.BlockList(int(stat.Ino))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("block list %q: %w", path, err))
			return
		}
		for _, b := range blocks {
			blockUseCount[b]++
		}

		indirect, err := vol.IndirectBlock(int(stat.Ino))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("indirect block %q: %w", path, err))
			return
		}
		if indirect >= 0 {
			blockUseCount[indirect]++
		}

		if !stat.IsDir() {
			if stat.Size > int64(len(blocks))*volume.PageSize {
				result = multierror.Append(result, fmt.Errorf(
					"%q: size %d exceeds block list capacity (%d blocks * %d)",
					path, stat.Size, len(blocks), volume.PageSize))
			}
			return
		}

		names, err := vol.List(path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("list %q: %w", path, err))
			return
		}

		seen := map[string]bool{}
		hasDot, hasDotDot := false, false
		for _, name := range names {
			if seen[name] {
				result = multierror.Append(result, fmt.Errorf("%q: duplicate entry name %q", path, name))
			}
			seen[name] = true
			switch name {
			case ".":
				hasDot = true
			case "..":
				hasDotDot = true
			}
		}
		if !hasDot {
			result = multierror.Append(result, fmt.Errorf("%q: missing \".\" entry", path))
		}
		if !hasDotDot {
			result = multierror.Append(result, fmt.Errorf("%q: missing \"..\" entry", path))
		}

		for _, name := range names {
			if name == "." || name == ".." {
				continue
			}
			childPath := path
			if childPath != "/" {
				childPath += "/"
			}
			childPath += name
			walk(childPath)
		}
	}

	walk("/")

	for i := 0; i < vol.NumInodes(); i++ {
		mode, err := vol.InodeMode(i)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", i, err))
			continue
		}
		if allocated := vol.InodeAllocated(i); allocated != (mode != 0) {
			result = multierror.Append(result, fmt.Errorf(
				"inode %d: bitmap allocated=%v but mode=%#o", i, allocated, mode))
		}
	}

	for b := 0; b < vol.NumBlocks(); b++ {
		allocated := vol.DataBlockAllocated(b)
		used := blockUseCount[int32(b)]
		if allocated != (used == 1) {
			result = multierror.Append(result, fmt.Errorf(
				"data block %d: bitmap allocated=%v but reachable use count=%d", b, allocated, used))
		}
	}

	return result.ErrorOrNil()
}
