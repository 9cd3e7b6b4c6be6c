package volume

import "github.com/nanofs/nanofs"

// initializeFreshImage formats a brand-new image: zeroes both bitmap
// pages, reserves inode 0 and a data block for it, configures inode 0 as a
// directory, and inserts "." and ".." both pointing at inode 0. Block
// index 0 is reserved for the root's first directory page, per the
// resolution of open question #6: the indirect-block zero terminator
// would otherwise be ambiguous with a legitimately-addressed block 0.
func (v *Volume) initializeFreshImage() error {
	dataPage := v.store.Page(DataBitmapPage)
	for i := range dataPage {
		dataPage[i] = 0
	}
	inoPage := v.store.Page(InodeBitmapPage)
	for i := range inoPage {
		inoPage[i] = 0
	}
	v.dataBitmap = newBitmapView(dataPage, v.numBlocks)
	v.inoBitmap = newBitmapView(inoPage, v.numInodes)

	v.inoBitmap.set(0, true)
	v.dataBitmap.set(0, true)

	root, err := v.configureInode(0, nanofs.S_IFDIR|0700, PageSize, emptyDirect, unusedBlockID, defaultUID, defaultGID)
	if err != nil {
		return err
	}
	root.setDirectSlot(0, 0)

	if err := v.addEntry(root, ".", 0); err != nil {
		return err
	}
	if err := v.addEntry(root, "..", 0); err != nil {
		return err
	}
	root.setNlink(2)
	return nil
}
