package volume

import (
	"time"

	"github.com/nanofs/nanofs"
)

// GetStat populates a POSIX stat-shaped record for path: dev=0, rdev=0,
// ino=inode index, blksize=PageSize, blocks=ceil(size/512).
func (v *Volume) GetStat(path string) (nanofs.Stat, error) {
	idx, err := v.resolve(path)
	if err != nil {
		return nanofs.Stat{}, err
	}
	inode, err := v.getInode(int(idx))
	if err != nil {
		return nanofs.Stat{}, err
	}

	size := int64(inode.size())
	return nanofs.Stat{
		Dev:       0,
		Ino:       uint64(idx),
		Mode:      inode.mode(),
		Nlink:     inode.nlink(),
		Uid:       inode.uid(),
		Gid:       inode.gid(),
		Rdev:      0,
		Size:      size,
		BlockSize: PageSize,
		Blocks:    (size + 511) / 512,
		Atime:     time.Unix(inode.atime(), 0),
		Mtime:     time.Unix(inode.mtime(), 0),
		Ctime:     time.Unix(inode.ctime(), 0),
	}, nil
}
