package bridge

import (
	"context"
	"path"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/nanofs/nanofs"
	"github.com/nanofs/nanofs/internal/nanolog"
)

// node is the single InodeEmbedder type used for every entry in the tree.
// It carries no per-file state of its own; every callback recomputes the
// object's absolute path from the kernel-bridge Inode graph and resolves
// it against the shared volume, mirroring loopbackNode.path() in
// hanwen-go-fuse's reference loopback filesystem.
type node struct {
	fs.Inode
	root *Root
}

var (
	_ fs.NodeLookuper  = (*node)(nil)
	_ fs.NodeReaddirer = (*node)(nil)
	_ fs.NodeGetattrer = (*node)(nil)
	_ fs.NodeSetattrer = (*node)(nil)
	_ fs.NodeMkdirer   = (*node)(nil)
	_ fs.NodeCreater   = (*node)(nil)
	_ fs.NodeUnlinker  = (*node)(nil)
	_ fs.NodeRmdirer   = (*node)(nil)
	_ fs.NodeRenamer   = (*node)(nil)
	_ fs.NodeLinker    = (*node)(nil)
	_ fs.NodeReader    = (*node)(nil)
	_ fs.NodeWriter    = (*node)(nil)
)

// path returns this node's absolute nanofs path, "/" for the tree root.
func (n *node) path() string {
	p := n.Path(n.Root())
	if p == "" {
		return "/"
	}
	return "/" + p
}

// toErrno unwraps a nanofs.DriverError into the syscall.Errno the fs
// package expects, defaulting to EIO for anything else.
func toErrno(err error) syscall.Errno {
	if err == nil {
		return fs.OK
	}
	if de, ok := err.(*nanofs.DriverError); ok {
		return de.Errno()
	}
	nanolog.Warn("bridge: unrecognized error", "error", err)
	return syscall.EIO
}

func fillAttr(out *fuse.Attr, st nanofs.Stat) {
	out.Ino = st.Ino
	out.Size = uint64(st.Size)
	out.Blocks = uint64(st.Blocks)
	out.Mode = st.Mode
	out.Nlink = st.Nlink
	out.Uid = st.Uid
	out.Gid = st.Gid
	out.Rdev = uint32(st.Rdev)
	out.Blksize = uint32(st.BlockSize)
	out.Atime = uint64(st.Atime.Unix())
	out.Mtime = uint64(st.Mtime.Unix())
	out.Ctime = uint64(st.Ctime.Unix())
}

func (n *node) lookupChild(ctx context.Context, childPath string) (*fs.Inode, syscall.Errno) {
	n.root.mu.Lock()
	defer n.root.mu.Unlock()

	st, err := n.root.Vol.GetStat(childPath)
	if err != nil {
		return nil, toErrno(err)
	}

	out := &fuse.EntryOut{}
	fillAttr(&out.Attr, st)

	child := n.root.NewNode()
	ch := n.NewInode(ctx, child, fs.StableAttr{Mode: st.Mode, Ino: st.Ino})
	return ch, fs.OK
}

func (n *node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := path.Join(n.path(), name)

	n.root.mu.Lock()
	st, err := n.root.Vol.GetStat(childPath)
	n.root.mu.Unlock()
	if err != nil {
		return nil, toErrno(err)
	}
	fillAttr(&out.Attr, st)

	child := n.root.NewNode()
	ch := n.NewInode(ctx, child, fs.StableAttr{Mode: st.Mode, Ino: st.Ino})
	return ch, fs.OK
}

func (n *node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	n.root.mu.Lock()
	st, err := n.root.Vol.GetStat(n.path())
	n.root.mu.Unlock()
	if err != nil {
		return toErrno(err)
	}
	fillAttr(&out.Attr, st)
	return fs.OK
}

func (n *node) Setattr(ctx context.Context, f fs.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	p := n.path()

	n.root.mu.Lock()
	defer n.root.mu.Unlock()

	if mode, ok := in.GetMode(); ok {
		if err := n.root.Vol.SetMode(p, mode); err != nil {
			return toErrno(err)
		}
	}
	if mtime, ok := in.GetMTime(); ok {
		atime, aok := in.GetATime()
		if !aok {
			atime = mtime
		}
		if err := n.root.Vol.SetTime(p, atime.Unix(), mtime.Unix()); err != nil {
			return toErrno(err)
		}
	}
	if size, ok := in.GetSize(); ok {
		if err := n.root.Vol.Truncate(p, int64(size)); err != nil {
			return toErrno(err)
		}
	}

	st, err := n.root.Vol.GetStat(p)
	if err != nil {
		return toErrno(err)
	}
	fillAttr(&out.Attr, st)
	return fs.OK
}

type dirStream struct {
	names []string
	i     int
}

func (d *dirStream) HasNext() bool { return d.i < len(d.names) }
func (d *dirStream) Next() (fuse.DirEntry, syscall.Errno) {
	name := d.names[d.i]
	d.i++
	return fuse.DirEntry{Name: name}, fs.OK
}
func (d *dirStream) Close() {}

func (n *node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	n.root.mu.Lock()
	names, err := n.root.Vol.List(n.path())
	n.root.mu.Unlock()
	if err != nil {
		return nil, toErrno(err)
	}
	return &dirStream{names: names}, fs.OK
}

func (n *node) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := path.Join(n.path(), name)

	n.root.mu.Lock()
	err := n.root.Vol.CreateDir(childPath)
	n.root.mu.Unlock()
	if err != nil {
		return nil, toErrno(err)
	}
	return n.lookupChild(ctx, childPath)
}

func (n *node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	childPath := path.Join(n.path(), name)

	n.root.mu.Lock()
	err := n.root.Vol.CreateInodeAtPath(childPath, nanofs.S_IFREG|(mode&^nanofs.S_IFMT))
	n.root.mu.Unlock()
	if err != nil {
		return nil, nil, 0, toErrno(err)
	}

	ch, errno := n.lookupChild(ctx, childPath)
	return ch, nil, 0, errno
}

func (n *node) Unlink(ctx context.Context, name string) syscall.Errno {
	childPath := path.Join(n.path(), name)
	n.root.mu.Lock()
	defer n.root.mu.Unlock()
	return toErrno(n.root.Vol.Unlink(childPath))
}

func (n *node) Rmdir(ctx context.Context, name string) syscall.Errno {
	childPath := path.Join(n.path(), name)
	n.root.mu.Lock()
	defer n.root.mu.Unlock()
	return toErrno(n.root.Vol.RemoveDir(childPath))
}

func (n *node) Rename(ctx context.Context, name string, newParent fs.InodeEmbedder, newName string, flags uint32) syscall.Errno {
	oldPath := path.Join(n.path(), name)

	newParentNode, ok := newParent.(*node)
	if !ok {
		return syscall.EINVAL
	}
	newPath := path.Join(newParentNode.path(), newName)

	n.root.mu.Lock()
	defer n.root.mu.Unlock()
	return toErrno(n.root.Vol.Rename(oldPath, newPath))
}

func (n *node) Link(ctx context.Context, target fs.InodeEmbedder, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	targetNode, ok := target.(*node)
	if !ok {
		return nil, syscall.EINVAL
	}
	srcPath := targetNode.path()
	dstPath := path.Join(n.path(), name)

	n.root.mu.Lock()
	err := n.root.Vol.Link(srcPath, dstPath)
	n.root.mu.Unlock()
	if err != nil {
		return nil, toErrno(err)
	}
	return n.lookupChild(ctx, dstPath)
}

func (n *node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	n.root.mu.Lock()
	defer n.root.mu.Unlock()

	count, err := n.root.Vol.ReadFile(n.path(), dest, off)
	if err != nil {
		return nil, toErrno(err)
	}
	return fuse.ReadResultData(dest[:count]), fs.OK
}

func (n *node) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	n.root.mu.Lock()
	defer n.root.mu.Unlock()

	count, err := n.root.Vol.WriteFile(n.path(), data, off)
	if err != nil {
		return 0, toErrno(err)
	}
	return uint32(count), fs.OK
}
