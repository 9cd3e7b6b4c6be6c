package volume

import "syscall"

// dataPage returns the raw page backing data-block index b.
func (v *Volume) dataPage(b int32) []byte {
	return v.store.Page(DataBlockStart + int(b))
}

// reserveInode flips the first free bit in the inode bitmap and returns its
// index, or ENOMEM if the table is full.
func (v *Volume) reserveInode() (int, error) {
	i := v.inoBitmap.firstFree()
	if i < 0 {
		return 0, errno(syscall.ENOMEM)
	}
	v.inoBitmap.set(i, true)
	return i, nil
}

// reserveDataBlock flips the first free bit in the data bitmap and returns
// its index, or ENOSPC if the region is full.
func (v *Volume) reserveDataBlock() (int32, error) {
	b := v.dataBitmap.firstFree()
	if b < 0 {
		return 0, errno(syscall.ENOSPC)
	}
	v.dataBitmap.set(b, true)
	return int32(b), nil
}

func (v *Volume) freeDataBlock(b int32) {
	page := v.dataPage(b)
	for i := range page {
		page[i] = 0
	}
	v.dataBitmap.set(int(b), false)
}

// blockIDs returns the ordered list of data-block indices reachable from
// inode: direct slots in order (skipping unused), then, if an indirect
// block is present, the run of non-zero indices stored inside it up to the
// first zero entry.
func (v *Volume) blockIDs(inode inodeRef) []int32 {
	ids := make([]int32, 0, NumDirectSlots)
	for slot := 0; slot < NumDirectSlots; slot++ {
		if b := inode.directSlot(slot); b != unusedBlockID {
			ids = append(ids, b)
		}
	}

	ind := inode.indirect()
	if ind == unusedBlockID {
		return ids
	}

	page := v.dataPage(ind)
	for i := 0; i < indirectBlockCapacity; i++ {
		entry := int32(byteOrder.Uint32(page[i*4:]))
		if entry == 0 {
			break
		}
		ids = append(ids, entry)
	}
	return ids
}

// addBlock appends blockID to inode's block list, preferring a direct slot
// and falling back to the indirect block, allocating it on first use.
func (v *Volume) addBlock(inode inodeRef, blockID int32) error {
	for slot := 0; slot < NumDirectSlots; slot++ {
		if inode.directSlot(slot) == unusedBlockID {
			inode.setDirectSlot(slot, blockID)
			return nil
		}
	}

	ind := inode.indirect()
	if ind == unusedBlockID {
		newInd, err := v.reserveDataBlock()
		if err != nil {
			return err
		}
		inode.setIndirect(newInd)
		ind = newInd
	}

	page := v.dataPage(ind)
	for i := 0; i < indirectBlockCapacity; i++ {
		entry := int32(byteOrder.Uint32(page[i*4:]))
		if entry == 0 {
			byteOrder.PutUint32(page[i*4:], uint32(blockID))
			return nil
		}
	}
	return errno(syscall.ENOSPC)
}

// freeAllBlocks releases every block in inode's list, including the
// indirect block itself, and resets the inode's block-id state.
func (v *Volume) freeAllBlocks(inode inodeRef) {
	for slot := 0; slot < NumDirectSlots; slot++ {
		if b := inode.directSlot(slot); b != unusedBlockID {
			v.freeDataBlock(b)
			inode.setDirectSlot(slot, unusedBlockID)
		}
	}

	if ind := inode.indirect(); ind != unusedBlockID {
		page := v.dataPage(ind)
		for i := 0; i < indirectBlockCapacity; i++ {
			entry := int32(byteOrder.Uint32(page[i*4:]))
			if entry == 0 {
				break
			}
			v.freeDataBlock(entry)
		}
		v.freeDataBlock(ind)
		inode.setIndirect(unusedBlockID)
	}
}

// reserveBlocksFor attempts to acquire n additional data blocks for inode,
// trying a contiguous run first and falling back to per-block allocation.
// On any mid-way failure it releases everything the inode holds (not just
// the blocks just acquired) and returns ENOSPC, per spec.
func (v *Volume) reserveBlocksFor(inode inodeRef, n int) error {
	if n <= 0 {
		return nil
	}

	if start := v.dataBitmap.findRange(n); start >= 0 {
		// Mark the whole run first, so an indirect block allocated part-way
		// through comes from outside the run instead of from inside it.
		for i := 0; i < n; i++ {
			v.dataBitmap.set(start+i, true)
		}
		for i := 0; i < n; i++ {
			if err := v.addBlock(inode, int32(start+i)); err != nil {
				for j := i; j < n; j++ {
					v.dataBitmap.set(start+j, false)
				}
				v.freeAllBlocks(inode)
				return errno(syscall.ENOSPC)
			}
		}
		return nil
	}

	for i := 0; i < n; i++ {
		b, err := v.reserveDataBlock()
		if err != nil {
			v.freeAllBlocks(inode)
			return errno(syscall.ENOSPC)
		}
		if err := v.addBlock(inode, b); err != nil {
			v.freeAllBlocks(inode)
			return errno(syscall.ENOSPC)
		}
	}
	return nil
}

// removeTrailingBlocks frees the last n blocks by descending index,
// generalized to walk the indirect block once the direct slots are
// exhausted: open question #3 is resolved by always being able to shrink
// through the indirect region rather than rejecting the shrink with
// ENOSPC.
func (v *Volume) removeTrailingBlocks(inode inodeRef, n int) {
	for i := 0; i < n; i++ {
		if ind := inode.indirect(); ind != unusedBlockID {
			page := v.dataPage(ind)
			last := -1
			for j := 0; j < indirectBlockCapacity; j++ {
				entry := int32(byteOrder.Uint32(page[j*4:]))
				if entry == 0 {
					break
				}
				last = j
			}
			if last >= 0 {
				freed := v.entryAt(page, last)
				byteOrder.PutUint32(page[last*4:], 0)
				v.freeDataBlock(freed)
				if last == 0 {
					// That was the only entry; reclaim the indirect
					// block itself now instead of leaving it allocated
					// until the next shrink comes along.
					v.freeDataBlock(ind)
					inode.setIndirect(unusedBlockID)
				}
				continue
			}
			// Indirect block was already empty; free it too.
			v.freeDataBlock(ind)
			inode.setIndirect(unusedBlockID)
		}

		freedDirect := false
		for slot := NumDirectSlots - 1; slot >= 0; slot-- {
			if b := inode.directSlot(slot); b != unusedBlockID {
				inode.setDirectSlot(slot, unusedBlockID)
				v.freeDataBlock(b)
				freedDirect = true
				break
			}
		}
		if !freedDirect {
			return
		}
	}
}

func (v *Volume) entryAt(page []byte, i int) int32 {
	return int32(byteOrder.Uint32(page[i*4:]))
}

// configureInode writes an inode's metadata: mode, size, owner (caller's
// effective ids), all three timestamps stamped to "now," the direct slot
// table, and the indirect block id. num_hard_links is set to 1.
func (v *Volume) configureInode(i int, mode uint32, size uint32, direct [NumDirectSlots]int32, indirect int32, uid, gid uint32) (inodeRef, error) {
	inode, err := v.getInode(i)
	if err != nil {
		return inodeRef{}, err
	}

	inode.setMode(mode)
	inode.setSize(size)
	inode.setUid(uid)
	inode.setGid(gid)
	inode.setNlink(1)
	for slot := 0; slot < NumDirectSlots; slot++ {
		inode.setDirectSlot(slot, direct[slot])
	}
	inode.setIndirect(indirect)
	inode.stampTimes(true, true, true)
	return inode, nil
}

// freeInode releases every block owned by inode i, zeros its record, and
// clears its allocation bit.
func (v *Volume) freeInode(i int) error {
	inode, err := v.getInode(i)
	if err != nil {
		return err
	}
	v.freeAllBlocks(inode)
	inode.zero()
	v.inoBitmap.set(i, false)
	return nil
}
