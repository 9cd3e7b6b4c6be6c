package volume

import (
	"syscall"
	"time"

	"github.com/nanofs/nanofs"
)

// inodeRef is a mutable view into one record of the inode table, bounded to
// the page(s) backing it. It is not retained across operations; the spec's
// "accessor functions return typed views bounded to one operation" note
// applies here.
type inodeRef struct {
	record []byte
	index  int
}

// getInode returns a view of inode i's record. i is not range-checked
// against allocation state, only against table bounds.
func (v *Volume) getInode(i int) (inodeRef, error) {
	if i < 0 || i >= v.numInodes {
		return inodeRef{}, errnof(syscall.ENOENT, "inode %d out of range [0, %d)", i, v.numInodes)
	}

	offset := inodeTableOffset(i)
	page := InodeTableStart + offset/PageSize
	within := offset % PageSize

	// An inode record never straddles a page boundary: inodeTableOffset
	// packs whole records into each page. The guard stays explicit since
	// it's load-bearing for a single page slice to suffice.
	if within+inodeRecordSize > PageSize {
		return inodeRef{}, errnof(syscall.EIO, "inode %d record straddles a page boundary", i)
	}

	buf := v.store.Page(page)
	return inodeRef{record: buf[within : within+inodeRecordSize], index: i}, nil
}

func (ir inodeRef) mode() uint32   { return byteOrder.Uint32(ir.record[inodeOffMode:]) }
func (ir inodeRef) nlink() uint32  { return byteOrder.Uint32(ir.record[inodeOffNlink:]) }
func (ir inodeRef) uid() uint32    { return byteOrder.Uint32(ir.record[inodeOffUid:]) }
func (ir inodeRef) gid() uint32    { return byteOrder.Uint32(ir.record[inodeOffGid:]) }
func (ir inodeRef) size() uint32   { return byteOrder.Uint32(ir.record[inodeOffSize:]) }
func (ir inodeRef) atime() int64   { return int64(byteOrder.Uint64(ir.record[inodeOffAtime:])) }
func (ir inodeRef) mtime() int64   { return int64(byteOrder.Uint64(ir.record[inodeOffMtime:])) }
func (ir inodeRef) ctime() int64   { return int64(byteOrder.Uint64(ir.record[inodeOffCtime:])) }
func (ir inodeRef) indirect() int32 {
	return int32(byteOrder.Uint32(ir.record[inodeOffIndirect:]))
}

func (ir inodeRef) setMode(m uint32)    { byteOrder.PutUint32(ir.record[inodeOffMode:], m) }
func (ir inodeRef) setNlink(n uint32)   { byteOrder.PutUint32(ir.record[inodeOffNlink:], n) }
func (ir inodeRef) setUid(u uint32)     { byteOrder.PutUint32(ir.record[inodeOffUid:], u) }
func (ir inodeRef) setGid(g uint32)     { byteOrder.PutUint32(ir.record[inodeOffGid:], g) }
func (ir inodeRef) setSize(s uint32)    { byteOrder.PutUint32(ir.record[inodeOffSize:], s) }
func (ir inodeRef) setAtime(t int64)    { byteOrder.PutUint64(ir.record[inodeOffAtime:], uint64(t)) }
func (ir inodeRef) setMtime(t int64)    { byteOrder.PutUint64(ir.record[inodeOffMtime:], uint64(t)) }
func (ir inodeRef) setCtime(t int64)    { byteOrder.PutUint64(ir.record[inodeOffCtime:], uint64(t)) }
func (ir inodeRef) setIndirect(b int32) { byteOrder.PutUint32(ir.record[inodeOffIndirect:], uint32(b)) }

func (ir inodeRef) directSlot(slot int) int32 {
	off := inodeOffDirect + slot*4
	return int32(byteOrder.Uint32(ir.record[off:]))
}

func (ir inodeRef) setDirectSlot(slot int, block int32) {
	off := inodeOffDirect + slot*4
	byteOrder.PutUint32(ir.record[off:], uint32(block))
}

func (ir inodeRef) isDir() bool { return ir.mode()&nanofs.S_IFMT == nanofs.S_IFDIR }
func (ir inodeRef) isRegular() bool {
	return ir.mode()&nanofs.S_IFMT == nanofs.S_IFREG
}

func now() int64 { return time.Now().Unix() }

func (ir inodeRef) stampTimes(access, modify, change bool) {
	t := now()
	if access {
		ir.setAtime(t)
	}
	if modify {
		ir.setMtime(t)
	}
	if change {
		ir.setCtime(t)
	}
}

// zero clears the entire record, as free_inode's "zero the record" step
// requires.
func (ir inodeRef) zero() {
	for i := range ir.record {
		ir.record[i] = 0
	}
	for slot := 0; slot < NumDirectSlots; slot++ {
		ir.setDirectSlot(slot, unusedBlockID)
	}
	ir.setIndirect(unusedBlockID)
}
