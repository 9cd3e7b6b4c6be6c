package testfixtures

import (
	"fmt"
	"io"

	"github.com/nanofs/nanofs/pagestore"
	"github.com/xaionaro-go/bytesextra"
)

// LoadGoldenImage decompresses a fixture produced by CompressImage and
// returns a pagestore.PageStore over it (wantPages pages, erroring if the
// decompressed size doesn't match) along with an io.ReadWriteSeeker view
// of the same bytes for tests that want to inspect or diff raw image
// contents directly.
func LoadGoldenImage(compressed []byte, wantPages int) (pagestore.PageStore, io.ReadWriteSeeker, error) {
	raw, err := DecompressImage(compressed)
	if err != nil {
		return nil, nil, err
	}

	wantBytes := wantPages * pagestore.PageSize
	if len(raw) != wantBytes {
		return nil, nil, fmt.Errorf(
			"testfixtures: golden image is %d bytes, want %d (%d pages)", len(raw), wantBytes, wantPages)
	}

	store, err := pagestore.NewMemStoreFromBytes(raw)
	if err != nil {
		return nil, nil, err
	}
	return store, bytesextra.NewReadWriteSeeker(raw), nil
}
