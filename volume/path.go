package volume

import (
	"strings"
	"syscall"
)

// splitComponents consumes the leading "/" and splits the remainder on
// "/". A trailing "/" produces an empty final component, which terminates
// resolution at the directory it names.
func splitComponents(path string) ([]string, error) {
	if path == "" || path[0] != '/' {
		return nil, errnof(syscall.ENOENT, "path %q must be absolute", path)
	}
	if path == "/" {
		return nil, nil
	}
	return strings.Split(path[1:], "/"), nil
}

// resolve walks from the root inode (0) following each path component via
// directory lookup. It does not interpret "." or ".." specially: they
// resolve only because every directory carries real entries of those
// names.
func (v *Volume) resolve(path string) (int32, error) {
	components, err := splitComponents(path)
	if err != nil {
		return 0, err
	}

	current := int32(0)
	for _, comp := range components {
		if comp == "" {
			break
		}
		dir, err := v.getInode(int(current))
		if err != nil {
			return 0, err
		}
		if !dir.isDir() {
			return 0, errno(syscall.ENOTDIR)
		}
		current, err = v.lookup(dir, comp)
		if err != nil {
			return 0, err
		}
	}
	return current, nil
}

// basename returns the last path component.
func basename(path string) string {
	idx := strings.LastIndexByte(path, '/')
	return path[idx+1:]
}

// parentPath returns path with its last component dropped, preserving the
// leading "/".
func parentPath(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx == 0 {
		return "/"
	}
	return path[:idx]
}

// resolveParent resolves parent_of(path), returning its inode.
func (v *Volume) resolveParent(path string) (int32, error) {
	return v.resolve(parentPath(path))
}
