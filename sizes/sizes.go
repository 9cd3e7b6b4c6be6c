// Package sizes provides named image-size presets for nanofsctl, adapted
// from the teacher's disks package: a CSV table of named configurations
// unmarshaled through gocarina/gocsv, looked up by slug.
package sizes

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Preset names a page count to format a fresh image with.
type Preset struct {
	Name  string `csv:"name"`
	Slug  string `csv:"slug"`
	Pages int    `csv:"pages"`
	Notes string `csv:"notes"`
}

//go:embed presets.csv
var presetsRawCSV string

var presets map[string]Preset

func init() {
	presets = make(map[string]Preset)
	reader := strings.NewReader(presetsRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Preset) error {
		if _, exists := presets[row.Slug]; exists {
			return fmt.Errorf("sizes: duplicate preset slug %q", row.Slug)
		}
		presets[row.Slug] = row
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("sizes: parsing embedded presets.csv: %s", err))
	}
}

// Get looks up a preset by slug.
func Get(slug string) (Preset, error) {
	preset, ok := presets[slug]
	if !ok {
		return Preset{}, fmt.Errorf("sizes: no preset named %q", slug)
	}
	return preset, nil
}

// List returns every preset, in CSV order.
func List() []Preset {
	var rows []Preset
	if err := gocsv.UnmarshalString(presetsRawCSV, &rows); err != nil {
		return nil
	}
	return rows
}
