package volume

import (
	"syscall"

	"github.com/nanofs/nanofs"
)

// defaultUID/defaultGID are the owner ids stamped onto freshly created
// inodes. nanofs doesn't model a calling-process credential (spec
// Non-goal: permission enforcement), so every object is owned uniformly.
const (
	defaultUID = 0
	defaultGID = 0
)

var emptyDirect [NumDirectSlots]int32

func init() {
	for i := range emptyDirect {
		emptyDirect[i] = unusedBlockID
	}
}

// CreateInodeAtPath reserves a fresh regular-file (or otherwise typed, per
// mode) inode and links it into its parent directory under basename(path).
func (v *Volume) CreateInodeAtPath(path string, mode uint32) error {
	parent, err := v.resolveParent(path)
	if err != nil {
		return err
	}
	parentInode, err := v.getInode(int(parent))
	if err != nil {
		return err
	}
	if !parentInode.isDir() {
		return errno(syscall.ENOTDIR)
	}

	idx, err := v.reserveInode()
	if err != nil {
		return err
	}
	if _, err := v.configureInode(idx, mode, 0, emptyDirect, unusedBlockID, defaultUID, defaultGID); err != nil {
		v.inoBitmap.set(idx, false)
		return err
	}

	if err := v.addEntry(parentInode, basename(path), int32(idx)); err != nil {
		v.freeInode(idx)
		return err
	}
	return nil
}

// CreateDir creates a directory inode at path, populating it with "." and
// ".." entries and giving it nlink = 2 (one for its parent's entry, one
// for its own "."), per the convention chosen for open question #4.
func (v *Volume) CreateDir(path string) error {
	parent, err := v.resolveParent(path)
	if err != nil {
		return err
	}
	parentInode, err := v.getInode(int(parent))
	if err != nil {
		return err
	}
	if !parentInode.isDir() {
		return errno(syscall.ENOTDIR)
	}

	idx, err := v.reserveInode()
	if err != nil {
		return err
	}
	newInode, err := v.configureInode(idx, nanofs.S_IFDIR|0755, PageSize, emptyDirect, unusedBlockID, defaultUID, defaultGID)
	if err != nil {
		v.inoBitmap.set(idx, false)
		return err
	}

	if err := v.addEntry(parentInode, basename(path), int32(idx)); err != nil {
		v.freeInode(idx)
		return err
	}

	if err := v.addEntry(newInode, ".", int32(idx)); err != nil {
		v.removeEntry(parentInode, basename(path))
		v.freeInode(idx)
		return err
	}
	if err := v.addEntry(newInode, "..", parent); err != nil {
		v.removeEntry(newInode, ".")
		v.removeEntry(parentInode, basename(path))
		v.freeInode(idx)
		return err
	}

	newInode.setNlink(2)
	if parentInode.index != int(idx) {
		parentInode.setNlink(parentInode.nlink() + 1)
	}
	return nil
}

// Link resolves src to an inode and adds an entry named basename(dst) in
// parent_of(dst) pointing at it, incrementing num_hard_links.
func (v *Volume) Link(src, dst string) error {
	srcIdx, err := v.resolve(src)
	if err != nil {
		return err
	}
	srcInode, err := v.getInode(int(srcIdx))
	if err != nil {
		return err
	}
	if srcInode.isDir() {
		return errno(syscall.EISDIR)
	}

	parent, err := v.resolveParent(dst)
	if err != nil {
		return err
	}
	parentInode, err := v.getInode(int(parent))
	if err != nil {
		return err
	}
	if !parentInode.isDir() {
		return errno(syscall.ENOTDIR)
	}

	if err := v.addEntry(parentInode, basename(dst), srcIdx); err != nil {
		return err
	}
	srcInode.setNlink(srcInode.nlink() + 1)
	srcInode.stampTimes(false, false, true)
	return nil
}

// Unlink removes the parent-directory entry for path and decrements the
// target's num_hard_links, freeing it at zero. Per the resolution of open
// question #1, directories are rejected with EISDIR; removal of a
// directory goes solely through RemoveDir.
func (v *Volume) Unlink(path string) error {
	idx, err := v.resolve(path)
	if err != nil {
		return err
	}
	inode, err := v.getInode(int(idx))
	if err != nil {
		return err
	}
	if inode.isDir() {
		return errno(syscall.EISDIR)
	}

	parent, err := v.resolveParent(path)
	if err != nil {
		return err
	}
	parentInode, err := v.getInode(int(parent))
	if err != nil {
		return err
	}

	if err := v.removeEntry(parentInode, basename(path)); err != nil {
		return err
	}

	remaining := inode.nlink() - 1
	inode.setNlink(remaining)
	if remaining == 0 {
		return v.freeInode(int(idx))
	}
	inode.stampTimes(false, false, true)
	return nil
}

// Rename implements rename as link(from, to) followed by unlink(from), per
// spec: this preserves num_hard_links net and the inode's content, but is
// not atomic. A failure in the unlink step after a successful link leaves
// the file visible at both names; this is documented, not "fixed." Renaming
// onto a name that already exists fails with EEXIST rather than replacing
// it, since addEntry rejects duplicate names outright.
func (v *Volume) Rename(from, to string) error {
	if err := v.Link(from, to); err != nil {
		return err
	}
	return v.Unlink(from)
}

// RemoveDir resolves path to a directory inode and removes it if empty of
// everything but "." and "..": it drops the parent's entry, decrements the
// parent's nlink, and frees the directory inode directly (Unlink rejects
// directories).
func (v *Volume) RemoveDir(path string) error {
	idx, err := v.resolve(path)
	if err != nil {
		return err
	}
	inode, err := v.getInode(int(idx))
	if err != nil {
		return err
	}
	if !inode.isDir() {
		return errno(syscall.ENOTDIR)
	}
	if v.countEntries(inode) > 2 {
		return errno(syscall.ENOTEMPTY)
	}

	parent, err := v.resolveParent(path)
	if err != nil {
		return err
	}
	parentInode, err := v.getInode(int(parent))
	if err != nil {
		return err
	}

	if err := v.removeEntry(parentInode, basename(path)); err != nil {
		return err
	}
	if parentInode.index != int(idx) {
		parentInode.setNlink(parentInode.nlink() - 1)
	}
	return v.freeInode(int(idx))
}

// SetTime writes the atime/mtime seconds fields.
func (v *Volume) SetTime(path string, atime, mtime int64) error {
	idx, err := v.resolve(path)
	if err != nil {
		return err
	}
	inode, err := v.getInode(int(idx))
	if err != nil {
		return err
	}
	inode.setAtime(atime)
	inode.setMtime(mtime)
	inode.stampTimes(false, false, true)
	return nil
}

// SetMode overwrites the whole mode field, file-type bits included, so
// callers pass the full mode including type.
func (v *Volume) SetMode(path string, mode uint32) error {
	idx, err := v.resolve(path)
	if err != nil {
		return err
	}
	inode, err := v.getInode(int(idx))
	if err != nil {
		return err
	}
	inode.setMode(mode)
	inode.stampTimes(false, false, true)
	return nil
}

// List returns the directory's entry names at path.
func (v *Volume) List(path string) ([]string, error) {
	idx, err := v.resolve(path)
	if err != nil {
		return nil, err
	}
	inode, err := v.getInode(int(idx))
	if err != nil {
		return nil, err
	}
	if !inode.isDir() {
		return nil, errno(syscall.ENOTDIR)
	}
	return v.listNames(inode), nil
}

// Truncate unconditionally releases the file's blocks and resizes from
// empty to newSize.
func (v *Volume) Truncate(path string, newSize int64) error {
	return v.truncateFile(path, newSize)
}

// ReadFile reads up to len(buf) bytes from path at offset.
func (v *Volume) ReadFile(path string, buf []byte, offset int64) (int, error) {
	return v.readFile(path, buf, offset)
}

// WriteFile writes buf into path at offset, growing the file as needed.
func (v *Volume) WriteFile(path string, buf []byte, offset int64) (int, error) {
	return v.writeFile(path, buf, offset)
}
