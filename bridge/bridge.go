// Package bridge adapts volume.Volume's path-addressed API to the
// node-based kernel-bridge interface of github.com/hanwen/go-fuse/v2/fs,
// the way hanwen-go-fuse's own loopback filesystem adapts a real POSIX
// tree: one node type recomputes its absolute path on every call via
// Inode.Path and delegates to the shared backing store.
//
// Per spec.md's concurrency model, volume.Volume itself takes no locks;
// this package supplies the single exclusion domain the spec requires by
// serializing every node callback through one mutex.
package bridge

import (
	"sync"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/nanofs/nanofs"
	"github.com/nanofs/nanofs/volume"
)

// Root holds the shared state every node in the tree delegates to: the
// mounted volume and the mutex that makes the whole operation surface a
// single exclusion domain.
type Root struct {
	mu  sync.Mutex
	Vol *volume.Volume
}

// NewRoot wraps vol for mounting with fs.Mount.
func NewRoot(vol *volume.Volume) *Root {
	return &Root{Vol: vol}
}

// NewNode returns the InodeEmbedder fs.Mount should use for the tree root.
func (r *Root) NewNode() fs.InodeEmbedder {
	return &node{root: r}
}

// Mount serves vol as a POSIX file system at dir until the returned
// server is unmounted, using the mount-flag grant recorded at image open
// time. write access is reflected in the mount's read-only option: the
// core itself does not gate individual calls on MountFlags, per spec.md's
// "the core only consumes the image path" external-interface note.
func Mount(dir string, vol *volume.Volume, flags nanofs.MountFlags) (*fuse.Server, error) {
	root := NewRoot(vol)
	opts := &fs.Options{}
	opts.MountOptions.Name = "nanofs"
	opts.MountOptions.FsName = "nanofs"
	opts.MountOptions.Options = append(opts.MountOptions.Options, "allow_other")
	if !flags.CanWrite() {
		opts.MountOptions.Options = append(opts.MountOptions.Options, "ro")
	}

	return fs.Mount(dir, root.NewNode(), opts)
}
