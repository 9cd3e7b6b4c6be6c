package volume

import (
	"bytes"
	"syscall"
)

// dirPageBitmap returns a bitmapView over the entry-use bitmap of a
// directory page.
func dirPageBitmap(page []byte) bitmapView {
	return newBitmapView(page[:directoryBitmapBytes], NumDirectoryEntries)
}

func dirEntrySlice(page []byte, slot int) []byte {
	start := directoryEntriesStart + slot*directoryEntrySize
	return page[start : start+directoryEntrySize]
}

func dirEntryName(entry []byte) string {
	raw := entry[directoryEntryOffName : directoryEntryOffName+DirectoryEntryNameLen]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

func setDirEntryName(entry []byte, name string) {
	nameBytes := entry[directoryEntryOffName : directoryEntryOffName+DirectoryEntryNameLen]
	for i := range nameBytes {
		nameBytes[i] = 0
	}
	copy(nameBytes, name)
}

func dirEntryInode(entry []byte) int32 {
	return int32(byteOrder.Uint32(entry[directoryEntryOffInode:]))
}

func setDirEntryInode(entry []byte, inode int32) {
	byteOrder.PutUint32(entry[directoryEntryOffInode:], uint32(inode))
}

// lookup scans every directory page in dirInode's block list, then every
// occupied slot of each page, returning the first inode index whose name
// matches exactly.
func (v *Volume) lookup(dirInode inodeRef, name string) (int32, error) {
	for _, b := range v.blockIDs(dirInode) {
		page := v.dataPage(b)
		bm := dirPageBitmap(page)
		for slot := 0; slot < NumDirectoryEntries; slot++ {
			if !bm.read(slot) {
				continue
			}
			entry := dirEntrySlice(page, slot)
			if dirEntryName(entry) == name {
				return dirEntryInode(entry), nil
			}
		}
	}
	return 0, errnof(syscall.ENOENT, "no such entry: %q", name)
}

// addEntry places a new (name, childIndex) entry into the first directory
// page with a free slot, allocating a fresh page via addBlock if none has
// room.
func (v *Volume) addEntry(dirInode inodeRef, name string, childIndex int32) error {
	if len(name) > DirectoryEntryNameLen-1 {
		return errnof(syscall.ENAMETOOLONG, "name %q exceeds %d bytes", name, DirectoryEntryNameLen-1)
	}
	if _, err := v.lookup(dirInode, name); err == nil {
		return errnof(syscall.EEXIST, "entry already exists: %q", name)
	}

	for _, b := range v.blockIDs(dirInode) {
		page := v.dataPage(b)
		bm := dirPageBitmap(page)
		if slot := bm.firstFree(); slot >= 0 {
			entry := dirEntrySlice(page, slot)
			setDirEntryName(entry, name)
			setDirEntryInode(entry, childIndex)
			bm.set(slot, true)
			return nil
		}
	}

	newBlock, err := v.reserveDataBlock()
	if err != nil {
		return err
	}
	if err := v.addBlock(dirInode, newBlock); err != nil {
		v.freeDataBlock(newBlock)
		return err
	}

	page := v.dataPage(newBlock)
	bm := dirPageBitmap(page)
	entry := dirEntrySlice(page, 0)
	setDirEntryName(entry, name)
	setDirEntryInode(entry, childIndex)
	bm.set(0, true)
	return nil
}

// removeEntry clears the slot holding name. It does not coalesce or free
// emptied directory pages, and does not touch num_hard_links.
func (v *Volume) removeEntry(dirInode inodeRef, name string) error {
	for _, b := range v.blockIDs(dirInode) {
		page := v.dataPage(b)
		bm := dirPageBitmap(page)
		for slot := 0; slot < NumDirectoryEntries; slot++ {
			if !bm.read(slot) {
				continue
			}
			entry := dirEntrySlice(page, slot)
			if dirEntryName(entry) == name {
				for i := range entry {
					entry[i] = 0
				}
				bm.set(slot, false)
				return nil
			}
		}
	}
	return errnof(syscall.ENOENT, "no such entry: %q", name)
}

// listNames returns every entry name in dirInode's pages, in no particular
// order.
func (v *Volume) listNames(dirInode inodeRef) []string {
	var names []string
	for _, b := range v.blockIDs(dirInode) {
		page := v.dataPage(b)
		bm := dirPageBitmap(page)
		for slot := 0; slot < NumDirectoryEntries; slot++ {
			if bm.read(slot) {
				names = append(names, dirEntryName(dirEntrySlice(page, slot)))
			}
		}
	}
	return names
}

// countEntries returns the number of occupied slots across dirInode's
// pages, used by remove_dir's emptiness check.
func (v *Volume) countEntries(dirInode inodeRef) int {
	count := 0
	for _, b := range v.blockIDs(dirInode) {
		page := v.dataPage(b)
		bm := dirPageBitmap(page)
		for slot := 0; slot < NumDirectoryEntries; slot++ {
			if bm.read(slot) {
				count++
			}
		}
	}
	return count
}
