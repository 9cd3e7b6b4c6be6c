package volume

import (
	"bytes"
	"testing"

	"github.com/nanofs/nanofs"
)

func TestWriteSpanningTwoBlocksRoundTrips(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/f", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}

	offset := int64(PageSize - 1)
	payload := []byte{0xAA, 0xBB}

	n, err := v.WriteFile("/f", payload, offset)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("WriteFile() wrote %d bytes, want 2", n)
	}

	buf := make([]byte, 2)
	n, err = v.ReadFile("/f", buf, offset)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Fatalf("ReadFile() = %v, want %v", buf[:n], payload)
	}
}

func TestWriteForcesIndirectBlockPastTenDirectSlots(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/f", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}

	// 11 blocks' worth of data: ten direct slots plus one entry that must
	// land in the indirect block.
	size := int64(NumDirectSlots+1) * PageSize
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i)
	}

	if _, err := v.WriteFile("/f", buf, 0); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	idx, err := v.resolve("/f")
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	inode, err := v.getInode(int(idx))
	if err != nil {
		t.Fatalf("getInode() error = %v", err)
	}
	if inode.indirect() == unusedBlockID {
		t.Fatalf("expected indirect block to be allocated after %d blocks", NumDirectSlots+1)
	}

	readBack := make([]byte, size)
	n, err := v.ReadFile("/f", readBack, 0)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(readBack[:n], buf) {
		t.Fatalf("round-tripped data does not match what was written")
	}
}

func TestWriteAtOffsetGrowsFile(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/f", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}

	if _, err := v.WriteFile("/f", []byte("tail"), 100); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	stat, err := v.GetStat("/f")
	if err != nil {
		t.Fatalf("GetStat() error = %v", err)
	}
	if stat.Size != 104 {
		t.Fatalf("size after offset write = %d, want 104", stat.Size)
	}
}

func TestReadPastEndOfFileReturnsZero(t *testing.T) {
	v := newTestVolume(t, 40)
	if err := v.CreateInodeAtPath("/f", nanofs.S_IFREG|0644); err != nil {
		t.Fatalf("CreateInodeAtPath() error = %v", err)
	}
	if _, err := v.WriteFile("/f", []byte("abc"), 0); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	buf := make([]byte, 10)
	n, err := v.ReadFile("/f", buf, 100)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if n != 0 {
		t.Fatalf("ReadFile() past EOF returned %d bytes, want 0", n)
	}
}
