package volume

import "syscall"

// readFile copies up to len(buf) bytes starting at offset from the file at
// path into buf, returning the number of bytes actually copied. The copy
// proceeds in spans: each span starts at the block holding the next byte
// of interest and extends through as many numerically contiguous blocks as
// possible, so the per-block distance to the next allocation is computed
// once per span rather than once per block; within a span, each page is
// still copied separately since Page() slices don't extend past one page.
func (v *Volume) readFile(path string, buf []byte, offset int64) (int, error) {
	inodeIdx, err := v.resolve(path)
	if err != nil {
		return 0, err
	}
	inode, err := v.getInode(int(inodeIdx))
	if err != nil {
		return 0, err
	}
	if inode.isDir() {
		return 0, errno(syscall.EISDIR)
	}

	size := int64(inode.size())
	if offset >= size {
		return 0, nil
	}
	n := len(buf)
	if remaining := size - offset; int64(n) > remaining {
		n = int(remaining)
	}
	if n <= 0 {
		return 0, nil
	}

	blocks := v.blockIDs(inode)
	copied := 0
	for copied < n {
		pos := offset + int64(copied)
		blockIdx := int(pos / PageSize)
		withinBlock := int(pos % PageSize)

		spanBlocks := 1
		for blockIdx+spanBlocks < len(blocks) &&
			blocks[blockIdx+spanBlocks] == blocks[blockIdx]+int32(spanBlocks) {
			spanBlocks++
		}

		available := spanBlocks*PageSize - withinBlock
		want := n - copied
		if want > available {
			want = available
		}

		// The span may cover more than one page; Page() slices are capped
		// at PageSize, so each page within the span gets its own copy.
		remaining := want
		pageOffset := withinBlock
		for b := 0; remaining > 0; b++ {
			page := v.dataPage(blocks[blockIdx+b])
			chunk := PageSize - pageOffset
			if chunk > remaining {
				chunk = remaining
			}
			copy(buf[copied:copied+chunk], page[pageOffset:pageOffset+chunk])
			copied += chunk
			remaining -= chunk
			pageOffset = 0
		}
	}
	return copied, nil
}

// writeFile copies buf into the file at path starting at offset, growing
// the file first if the write extends past the current size. Stamps mtime
// and ctime to "now."
func (v *Volume) writeFile(path string, buf []byte, offset int64) (int, error) {
	inodeIdx, err := v.resolve(path)
	if err != nil {
		return 0, err
	}
	inode, err := v.getInode(int(inodeIdx))
	if err != nil {
		return 0, err
	}
	if inode.isDir() {
		return 0, errno(syscall.EISDIR)
	}

	n := len(buf)
	newEnd := offset + int64(n)
	if newEnd > int64(inode.size()) {
		if err := v.setFileToSize(inode, newEnd); err != nil {
			return 0, err
		}
	}

	blocks := v.blockIDs(inode)
	copied := 0
	for copied < n {
		pos := offset + int64(copied)
		blockIdx := int(pos / PageSize)
		withinBlock := int(pos % PageSize)

		spanBlocks := 1
		for blockIdx+spanBlocks < len(blocks) &&
			blocks[blockIdx+spanBlocks] == blocks[blockIdx]+int32(spanBlocks) {
			spanBlocks++
		}

		available := spanBlocks*PageSize - withinBlock
		want := n - copied
		if want > available {
			want = available
		}

		// The span may cover more than one page; Page() slices are capped
		// at PageSize, so each page within the span gets its own copy.
		remaining := want
		pageOffset := withinBlock
		for b := 0; remaining > 0; b++ {
			page := v.dataPage(blocks[blockIdx+b])
			chunk := PageSize - pageOffset
			if chunk > remaining {
				chunk = remaining
			}
			copy(page[pageOffset:pageOffset+chunk], buf[copied:copied+chunk])
			copied += chunk
			remaining -= chunk
			pageOffset = 0
		}
	}

	inode.stampTimes(false, true, true)
	return copied, nil
}

// setFileToSize adjusts inode's block list to cover newSize bytes and sets
// size accordingly. Growth does not zero the newly reserved blocks; they
// are only zeroed when freed.
func (v *Volume) setFileToSize(inode inodeRef, newSize int64) error {
	wantBlocks := int((newSize + PageSize - 1) / PageSize)
	if newSize == 0 {
		wantBlocks = 0
	}
	haveBlocks := len(v.blockIDs(inode))

	if diff := wantBlocks - haveBlocks; diff > 0 {
		if err := v.reserveBlocksFor(inode, diff); err != nil {
			return err
		}
	} else if diff < 0 {
		v.removeTrailingBlocks(inode, -diff)
	}

	inode.setSize(uint32(newSize))
	return nil
}

// truncateFile unconditionally releases every block the file owns, then
// resizes to newSize from empty. This is destructive, not a "shrink to N."
func (v *Volume) truncateFile(path string, newSize int64) error {
	inodeIdx, err := v.resolve(path)
	if err != nil {
		return err
	}
	inode, err := v.getInode(int(inodeIdx))
	if err != nil {
		return err
	}
	if inode.isDir() {
		return errno(syscall.EISDIR)
	}

	v.freeAllBlocks(inode)
	inode.setSize(0)
	if err := v.setFileToSize(inode, newSize); err != nil {
		return err
	}
	inode.stampTimes(false, true, true)
	return nil
}
