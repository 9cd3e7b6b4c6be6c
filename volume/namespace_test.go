package volume

import (
	"errors"
	"syscall"
	"testing"

	"github.com/nanofs/nanofs"
)

func TestCreateWriteReadRoundTrip(t *testing.T) {
	v := newTestVolume(t, 40)

	if err := v.CreateInodeAtPath("/a", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}

	n, err := v.WriteFile("/a", []byte("hello\n"), 0)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if n != 6 {
		t.Fatalf("WriteFile() wrote %d bytes, want 6", n)
	}

	buf := make([]byte, 6)
	n, err = v.ReadFile("/a", buf, 0)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(buf[:n]) != "hello\n" {
		t.Fatalf("ReadFile() = %q, want %q", buf[:n], "hello\n")
	}

	stat, err := v.GetStat("/a")
	if err != nil {
		t.Fatalf("GetStat() error = %v", err)
	}
	if stat.Size != 6 {
		t.Fatalf("GetStat().Size = %d, want 6", stat.Size)
	}
}

func TestCreateDirListsDotAndDotDot(t *testing.T) {
	v := newTestVolume(t, 40)

	if err := v.CreateDir("/d"); err != nil {
		t.Fatalf("CreateDir() error = %v", err)
	}

	names, err := v.List("/d")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	if !set["."] || !set[".."] {
		t.Fatalf("List(/d) = %v, want . and ..", names)
	}
}

func TestLinkAndUnlinkAdjustNlink(t *testing.T) {
	v := newTestVolume(t, 40)

	if err := v.CreateInodeAtPath("/x", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}
	if err := v.Link("/x", "/y"); err != nil {
		t.Fatalf("Link() error = %v", err)
	}

	stat, err := v.GetStat("/x")
	if err != nil {
		t.Fatalf("GetStat(/x) error = %v", err)
	}
	if stat.Nlink != 2 {
		t.Fatalf("nlink after link = %d, want 2", stat.Nlink)
	}

	if err := v.Unlink("/x"); err != nil {
		t.Fatalf("Unlink(/x) error = %v", err)
	}

	stat, err = v.GetStat("/y")
	if err != nil {
		t.Fatalf("GetStat(/y) error = %v", err)
	}
	if stat.Nlink != 1 {
		t.Fatalf("nlink after unlink = %d, want 1", stat.Nlink)
	}

	if _, err := v.GetStat("/x"); !errors.Is(err, syscall.ENOENT) {
		t.Fatalf("GetStat(/x) error = %v, want ENOENT", err)
	}
}

func TestLinkThenUnlinkOfNewNameIsNoOp(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/a", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}
	before, err := v.GetStat("/a")
	if err != nil {
		t.Fatalf("GetStat() error = %v", err)
	}

	if err := v.Link("/a", "/b"); err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if err := v.Unlink("/b"); err != nil {
		t.Fatalf("Unlink() error = %v", err)
	}

	after, err := v.GetStat("/a")
	if err != nil {
		t.Fatalf("GetStat() error = %v", err)
	}
	if after.Nlink != before.Nlink {
		t.Fatalf("nlink changed across link+unlink: before %d, after %d", before.Nlink, after.Nlink)
	}
}

func TestCreateInodeAtPathRejectsDuplicateName(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/a", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}
	err := v.CreateInodeAtPath("/a", nanofs.S_IFREG|0644)
	if !errors.Is(err, syscall.EEXIST) {
		t.Fatalf("CreateInodeAtPath() duplicate error = %v, want EEXIST", err)
	}
}

func TestUnlinkOnDirectoryReturnsEISDIR(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateDir("/d"); err != nil {
		t.Fatalf("CreateDir() error = %v", err)
	}
	if err := v.Unlink("/d"); !errors.Is(err, syscall.EISDIR) {
		t.Fatalf("Unlink(/d) error = %v, want EISDIR", err)
	}
}

func TestRemoveDirRejectsNonEmptyThenSucceeds(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateDir("/d"); err != nil {
		t.Fatalf("CreateDir() error = %v", err)
	}
	if err := v.CreateInodeAtPath("/d/f", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}

	if err := v.RemoveDir("/d"); !errors.Is(err, syscall.ENOTEMPTY) {
		t.Fatalf("RemoveDir() on non-empty dir error = %v, want ENOTEMPTY", err)
	}

	if err := v.Unlink("/d/f"); err != nil {
		t.Fatalf("Unlink(/d/f) error = %v", err)
	}
	if err := v.RemoveDir("/d"); err != nil {
		t.Fatalf("RemoveDir() on empty dir error = %v", err)
	}
	if _, err := v.GetStat("/d"); !errors.Is(err, syscall.ENOENT) {
		t.Fatalf("GetStat(/d) after removal error = %v, want ENOENT", err)
	}
}

func TestRenameRoundTripRestoresTree(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/a", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}
	if _, err := v.WriteFile("/a", []byte("payload"), 0); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := v.Rename("/a", "/b"); err != nil {
		t.Fatalf("Rename(/a, /b) error = %v", err)
	}
	if err := v.Rename("/b", "/a"); err != nil {
		t.Fatalf("Rename(/b, /a) error = %v", err)
	}

	buf := make([]byte, 7)
	n, err := v.ReadFile("/a", buf, 0)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(buf[:n]) != "payload" {
		t.Fatalf("ReadFile() = %q, want %q", buf[:n], "payload")
	}
	if _, err := v.GetStat("/b"); !errors.Is(err, syscall.ENOENT) {
		t.Fatalf("GetStat(/b) error = %v, want ENOENT", err)
	}
}

func TestReadOnDirectoryReturnsEISDIR(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateDir("/d"); err != nil {
		t.Fatalf("CreateDir() error = %v", err)
	}
	buf := make([]byte, 8)
	if _, err := v.ReadFile("/d", buf, 0); !errors.Is(err, syscall.EISDIR) {
		t.Fatalf("ReadFile(/d) error = %v, want EISDIR", err)
	}
}

func TestListOnFileReturnsENOTDIR(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/f", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}
	if _, err := v.List("/f"); !errors.Is(err, syscall.ENOTDIR) {
		t.Fatalf("List(/f) error = %v, want ENOTDIR", err)
	}
}

func TestTruncateToZeroFreesAllBlocks(t *testing.T) {
	v := newTestVolume(t, 60)
	if err := v.CreateInodeAtPath("/big", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}

	before := v.dataBitmap.firstFree()

	buf := make([]byte, 20000)
	if _, err := v.WriteFile("/big", buf, 0); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if got := v.dataBitmap.firstFree(); got == before {
		t.Fatalf("expected data blocks to be consumed by WriteFile, firstFree stayed at %d", before)
	}

	if err := v.Truncate("/big", 0); err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}

	stat, err := v.GetStat("/big")
	if err != nil {
		t.Fatalf("GetStat() error = %v", err)
	}
	if stat.Size != 0 {
		t.Fatalf("size after truncate = %d, want 0", stat.Size)
	}

	if got := v.dataBitmap.firstFree(); got != before {
		t.Fatalf("data bitmap did not return to its pre-write state: firstFree before=%d after=%d", before, got)
	}
}
