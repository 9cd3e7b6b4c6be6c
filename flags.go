package nanofs

////////////////////////////////////////////////////////////////////////////////
// File mode bits. These mirror the traditional Unix `mode_t` layout; nanofs
// only ever sets S_IFDIR or S_IFREG in the type field since symlinks, device
// nodes, and sockets are out of scope.

const (
	S_IXOTH = 1 << iota
	S_IWOTH = 1 << iota
	S_IROTH = 1 << iota
	S_IXGRP = 1 << iota
	S_IWGRP = 1 << iota
	S_IRGRP = 1 << iota
	S_IXUSR = 1 << iota
	S_IWUSR = 1 << iota
	S_IRUSR = 1 << iota
	S_ISVTX = 1 << iota
	S_ISGID = 1 << iota
	S_ISUID = 1 << iota
	_       = 1 << iota // S_IFIFO, unused: no FIFOs on this file system
	_       = 1 << iota // S_IFCHR, unused: no device nodes
	S_IFDIR = 1 << iota
	S_IFREG = 1 << iota
)

const S_IFMT = S_IFDIR | S_IFREG

const S_IRWXO = S_IXOTH | S_IWOTH | S_IROTH
const S_IRWXG = S_IXGRP | S_IWGRP | S_IRGRP
const S_IRWXU = S_IXUSR | S_IWUSR | S_IRUSR

////////////////////////////////////////////////////////////////////////////////
// Mount flags

// MountFlags controls the permissions a volume is mounted with. nanofs does
// not enforce per-user permission bits (spec Non-goal), but it does enforce
// the coarser read/write grant the image was mounted with.
type MountFlags int

const (
	MountFlagsAllowRead  = MountFlags(1 << iota)
	MountFlagsAllowWrite = MountFlags(1 << iota)
)

const MountFlagsAllowReadWrite = MountFlagsAllowRead | MountFlagsAllowWrite

func (flags MountFlags) CanRead() bool  { return flags&MountFlagsAllowRead != 0 }
func (flags MountFlags) CanWrite() bool { return flags&MountFlagsAllowWrite != 0 }
