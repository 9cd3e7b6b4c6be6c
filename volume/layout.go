// Package volume implements the on-image storage engine: bitmap allocation,
// the inode table, directory pages, path resolution, and the namespace
// operations the kernel bridge calls. It consumes pagestore.PageStore as an
// abstract collaborator and never touches a file descriptor itself.
package volume

import "encoding/binary"

// PageSize is the fixed size, in bytes, of one page of the backing image.
const PageSize = 4096

// Fixed page assignments, load-bearing for image compatibility.
const (
	DataBitmapPage  = 0
	InodeBitmapPage = 1
	InodeTableStart = 2
	InodeTableEnd   = 20 // exclusive; pages 2..19
	DataBlockStart  = 20
)

// Byte order for every packed on-image integer field.
var byteOrder = binary.LittleEndian

// Inode record layout: mode, nlink, uid, gid, size (i32 each), atime, mtime,
// ctime (i64 each), direct[10] (i32 each), indirect (i32).
const (
	inodeOffMode     = 0
	inodeOffNlink    = 4
	inodeOffUid      = 8
	inodeOffGid      = 12
	inodeOffSize     = 16
	inodeOffAtime    = 20
	inodeOffMtime    = 28
	inodeOffCtime    = 36
	inodeOffDirect   = 44
	inodeRecordSize  = inodeOffDirect + NumDirectSlots*4 + 4
	inodeOffIndirect = inodeOffDirect + NumDirectSlots*4
)

// NumDirectSlots is the number of direct data-block slots an inode carries.
const NumDirectSlots = 10

// unusedBlockID marks an empty direct slot or an absent indirect block.
const unusedBlockID = -1

// inodesPerPage is the number of whole inode records packed into one page
// of the inode table; the leftover bytes at the end of each page are unused.
const inodesPerPage = PageSize / inodeRecordSize

// inodesPerTable is the number of inode records that fit in the fixed
// 18-page inode table region.
const inodesPerTable = (InodeTableEnd - InodeTableStart) * inodesPerPage

// Directory page layout: a 15-bit entry-use bitmap (rounded up to whole
// bytes), followed by 15 fixed-width entries of {name[256]; inode int32}.
const (
	NumDirectoryEntries     = 15
	DirectoryEntryNameLen   = 256
	directoryEntrySize      = DirectoryEntryNameLen + 4
	directoryBitmapBytes    = (NumDirectoryEntries + 7) / 8
	directoryEntriesStart   = directoryBitmapBytes
	directoryPageUsedBytes  = directoryEntriesStart + NumDirectoryEntries*directoryEntrySize
	directoryEntryOffName   = 0
	directoryEntryOffInode  = DirectoryEntryNameLen
)

// indirectBlockCapacity is the number of int32 block indices an indirect
// block can hold, reserving none for a length prefix: the sequence is
// terminated by the first zero entry instead.
const indirectBlockCapacity = PageSize/4 - 1

// inodeTableOffset returns the byte offset of inode i's record from the
// start of page InodeTableStart. Records are packed page by page, so no
// record crosses a page boundary.
func inodeTableOffset(i int) int {
	return (i/inodesPerPage)*PageSize + (i%inodesPerPage)*inodeRecordSize
}
