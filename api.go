package nanofs

import "time"

// Stat is the POSIX `stat`-shaped record nanofs populates for `get_stat`.
// Fields nanofs doesn't track (dev, rdev) are always zero, per spec.
type Stat struct {
	Dev       uint64
	Ino       uint64
	Mode      uint32
	Nlink     uint32
	Uid       uint32
	Gid       uint32
	Rdev      uint64
	Size      int64
	BlockSize int64
	Blocks    int64
	Atime     time.Time
	Mtime     time.Time
	Ctime     time.Time
}

// IsDir reports whether the mode's type bits indicate a directory.
func (s *Stat) IsDir() bool {
	return s.Mode&S_IFMT == S_IFDIR
}

// IsRegular reports whether the mode's type bits indicate a regular file.
func (s *Stat) IsRegular() bool {
	return s.Mode&S_IFMT == S_IFREG
}
