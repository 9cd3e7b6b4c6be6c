package volume

import "github.com/boljen/go-bitmap"

// bitmapView wraps an on-image page's bytes as a bit-addressed allocation
// map, following the same github.com/boljen/go-bitmap usage as the common
// allocator, but operating in place over page memory instead of an owned
// buffer: NewSlice wraps rather than copies, so writes land directly on the
// mapped page.
type bitmapView struct {
	bits bitmap.Bitmap
	size int
}

func newBitmapView(page []byte, size int) bitmapView {
	return bitmapView{bits: bitmap.NewSlice(page), size: size}
}

// set assigns bit i. No bounds check: callers bound by size themselves.
func (v bitmapView) set(i int, on bool) {
	v.bits.Set(i, on)
}

// read returns the value of bit i.
func (v bitmapView) read(i int) bool {
	return v.bits.Get(i)
}

// firstFree returns the lowest index < size with value 0, or -1 if the map
// is full.
func (v bitmapView) firstFree() int {
	for i := 0; i < v.size; i++ {
		if !v.bits.Get(i) {
			return i
		}
	}
	return -1
}

// findRange returns the lowest start position s such that bits [s, s+k) are
// all zero and s+k <= size, or -1 if no such run exists.
//
// On encountering a set bit inside a candidate window, the next candidate
// starts immediately past that bit rather than at window+1: this is the
// same linear single-pass scan as the common allocator's findRun, just
// phrased over an explicit window instead of a running count.
func (v bitmapView) findRange(k int) int {
	if k <= 0 {
		return -1
	}

	runStart := 0
	runLen := 0
	for i := 0; i < v.size; i++ {
		if v.bits.Get(i) {
			runLen = 0
			runStart = i + 1
			continue
		}
		runLen++
		if runLen == k {
			return runStart
		}
	}
	return -1
}
