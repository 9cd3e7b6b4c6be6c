package volume

// The accessors below expose raw allocator and block-list state for the
// consistency checker, which has to compare the bitmaps against what's
// actually reachable rather than anything derivable from a single inode's
// own stat record.

// NumInodes returns the total inode-table capacity.
func (v *Volume) NumInodes() int { return v.numInodes }

// NumBlocks returns the total data-block region capacity.
func (v *Volume) NumBlocks() int { return v.numBlocks }

// InodeAllocated reports whether the inode bitmap has bit i set.
func (v *Volume) InodeAllocated(i int) bool { return v.inoBitmap.read(i) }

// DataBlockAllocated reports whether the data bitmap has bit b set.
func (v *Volume) DataBlockAllocated(b int) bool { return v.dataBitmap.read(b) }

// SetDataBlockAllocated forces the data bitmap's bit b, bypassing the
// allocator. It exists for tests that need to construct a deliberately
// inconsistent image to exercise the consistency checker.
func (v *Volume) SetDataBlockAllocated(b int, allocated bool) { v.dataBitmap.set(b, allocated) }

// InodeMode returns inode i's raw mode field; zero means the inode is free.
func (v *Volume) InodeMode(i int) (uint32, error) {
	inode, err := v.getInode(i)
	if err != nil {
		return 0, err
	}
	return inode.mode(), nil
}

// BlockList returns the ordered data-block indices inode i's direct slots
// and indirect block reach, the same traversal blockIDs uses internally.
// It does not include the indirect block's own index, since that's
// overhead rather than file content; see IndirectBlock.
func (v *Volume) BlockList(i int) ([]int32, error) {
	inode, err := v.getInode(i)
	if err != nil {
		return nil, err
	}
	return v.blockIDs(inode), nil
}

// IndirectBlock returns the data-block index of inode i's indirect block,
// or -1 if it has none. This block is allocated and holds the tail of the
// block list, but BlockList doesn't include it since it isn't file content.
func (v *Volume) IndirectBlock(i int) (int32, error) {
	inode, err := v.getInode(i)
	if err != nil {
		return 0, err
	}
	return inode.indirect(), nil
}
