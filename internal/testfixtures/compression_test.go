package testfixtures

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/nanofs/nanofs/pagestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":           {},
		"no runs":         {0, 1, 2, 3, 4},
		"short run":       {9, 5, 5, 5, 5, 5, 3, 7},
		"long run":        bytes.Repeat([]byte{5}, 1024),
		"run of 257":      bytes.Repeat([]byte{8}, 257),
		"all zero page":   make([]byte, pagestore.PageSize),
		"mixed with zero": append(bytes.Repeat([]byte{0}, 600), []byte{1, 2, 3}...),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			compressed, err := CompressImage(input)
			require.NoError(t, err)

			output, err := DecompressImage(compressed)
			require.NoError(t, err)
			assert.Equal(t, input, output)
		})
	}
}

func TestCompressRandomDataRoundTrips(t *testing.T) {
	input := make([]byte, 8192)
	_, err := rand.Read(input)
	require.NoError(t, err)

	compressed, err := CompressImage(input)
	require.NoError(t, err)

	output, err := DecompressImage(compressed)
	require.NoError(t, err)
	assert.Equal(t, input, output)
}

func TestLoadGoldenImageRejectsWrongSize(t *testing.T) {
	compressed, err := CompressImage(make([]byte, pagestore.PageSize))
	require.NoError(t, err)

	_, _, err = LoadGoldenImage(compressed, 2)
	assert.Error(t, err)
}

func TestLoadGoldenImageExposesPagesAndRawBytes(t *testing.T) {
	raw := make([]byte, 3*pagestore.PageSize)
	raw[pagestore.PageSize] = 0x7F

	compressed, err := CompressImage(raw)
	require.NoError(t, err)

	store, rws, err := LoadGoldenImage(compressed, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, store.PageCount())
	assert.Equal(t, byte(0x7F), store.Page(1)[0])

	roundTrip := make([]byte, len(raw))
	n, err := rws.Read(roundTrip)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, raw, roundTrip)
}
