// Package library holds the built-in song table: a small set of example
// bytebeat expressions a user can browse and load into the editor.
package library

import (
	_ "embed"
	"encoding/csv"
	"strings"

	"github.com/kajmany/bytebeat/internal/invariant"
)

//go:embed songs.csv
var songsCSV string

// Song is one library entry.
type Song struct {
	Author      string
	Name        string
	Description string
	Code        string
}

// Songs is the static, built-in song table, parsed once at package init
// from the embedded CSV so the binary ships with example compositions
// without a runtime file dependency.
var Songs = mustParseSongs(songsCSV)

func mustParseSongs(csvText string) []Song {
	r := csv.NewReader(strings.NewReader(csvText))
	records, err := r.ReadAll()
	if err != nil {
		panic("library: malformed embedded songs.csv: " + err.Error())
	}
	invariant.Precondition(len(records) > 1, "songs.csv must have a header and at least one row")

	header := records[0]
	invariant.Precondition(len(header) == 4, "songs.csv header must have 4 columns")

	songs := make([]Song, 0, len(records)-1)
	for _, rec := range records[1:] {
		invariant.Precondition(len(rec) == 4, "songs.csv row must have 4 columns, got %d", len(rec))
		songs = append(songs, Song{
			Author:      rec[0],
			Name:        rec[1],
			Description: rec[2],
			Code:        rec[3],
		})
	}
	return songs
}

// Page returns a slice of Songs starting at index start, at most size
// entries, clamped to the table's bounds. Used by the library view's
// pagination (PgUp/PgDn).
func Page(start, size int) []Song {
	if start < 0 {
		start = 0
	}
	if start >= len(Songs) {
		return nil
	}
	end := start + size
	if end > len(Songs) {
		end = len(Songs)
	}
	return Songs[start:end]
}
