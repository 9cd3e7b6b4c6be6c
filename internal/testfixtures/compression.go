// Package testfixtures provides the codec for compressed golden disk
// images and in-memory image helpers for tests, adapted from the teacher's
// utilities/compression and testing packages: disk images compress well
// under run-length encoding (long runs of zero bytes in sparse regions),
// so fixtures are stored as RLE8 encoded then gzipped, and decompressed
// on demand into an in-memory read-write-seeker.
package testfixtures

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"math"
)

// byteRun is one run of a single repeated byte value in an RLE8 stream.
type byteRun struct {
	value  byte
	length int
}

// nextRun scans src for the next run of identical bytes, behaving like
// io.Reader.Read: a non-zero length comes back with either a nil error or
// io.EOF; a zero length always comes back with a non-nil error.
func nextRun(src io.ByteScanner) (byteRun, error) {
	first, err := src.ReadByte()
	if err != nil {
		return byteRun{}, err
	}

	length := 1
	for ; length < math.MaxInt; length++ {
		b, err := src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return byteRun{value: first, length: length}, io.EOF
			}
			return byteRun{}, err
		}
		if b != first {
			src.UnreadByte()
			return byteRun{value: first, length: length}, nil
		}
	}
	return byteRun{value: first, length: length}, nil
}

// compressRLE8 encodes input as a sequence of literal bytes interspersed
// with (byte, byte, count) triples for runs of two or more repeats.
func compressRLE8(input io.Reader, output io.Writer) error {
	scanner := bufio.NewReader(input)
	for {
		run, runErr := nextRun(scanner)
		if runErr != nil && !errors.Is(runErr, io.EOF) {
			return runErr
		}

		for run.length >= 2 {
			repeatCount := run.length - 2
			if repeatCount > 255 {
				repeatCount = 255
			}
			if _, err := output.Write([]byte{run.value, run.value, byte(repeatCount)}); err != nil {
				return err
			}
			run.length -= repeatCount + 2
		}
		if run.length == 1 {
			if _, err := output.Write([]byte{run.value}); err != nil {
				return err
			}
		}

		if runErr != nil {
			return nil
		}
	}
}

// decompressRLE8 reverses compressRLE8.
func decompressRLE8(input io.Reader, output io.Writer) error {
	source := bufio.NewReader(input)
	lastByte := -1

	for {
		current, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("testfixtures: reading RLE8 stream: %w", err)
		}

		var chunk []byte
		if int(current) == lastByte {
			repeatCount, err := source.ReadByte()
			if err != nil {
				return fmt.Errorf("testfixtures: truncated RLE8 run: %w", err)
			}
			chunk = bytes.Repeat([]byte{current}, int(repeatCount)+1)
			lastByte = -1
		} else {
			lastByte = int(current)
			chunk = []byte{current}
		}

		if _, err := output.Write(chunk); err != nil {
			return fmt.Errorf("testfixtures: writing decompressed output: %w", err)
		}
	}
}

// CompressImage RLE8-encodes then gzips image, the format golden fixtures
// are stored in. This package embeds no fixtures of its own.
func CompressImage(image []byte) ([]byte, error) {
	var rleBuf bytes.Buffer
	if err := compressRLE8(bytes.NewReader(image), &rleBuf); err != nil {
		return nil, fmt.Errorf("testfixtures: RLE8 compression: %w", err)
	}

	var out bytes.Buffer
	gz, err := gzip.NewWriterLevel(&out, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("testfixtures: creating gzip writer: %w", err)
	}
	if _, err := gz.Write(rleBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("testfixtures: gzip compression: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("testfixtures: closing gzip writer: %w", err)
	}
	return out.Bytes(), nil
}

// DecompressImage reverses CompressImage.
func DecompressImage(compressed []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("testfixtures: creating gzip reader: %w", err)
	}
	defer gz.Close()

	var out bytes.Buffer
	if err := decompressRLE8(gz, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
