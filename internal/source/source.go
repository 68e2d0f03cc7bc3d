// Package source reads listing records from local CSV and XLSX files as
// a lazy, pull-based stream.
package source

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// Source yields records one at a time. Next returns io.EOF after the
// last record and a *RowError for a malformed row the caller may skip
// by calling Next again. Any other error means the stream itself broke
// and must be abandoned. Sources are finite and not restartable.
type Source interface {
	// Header returns the input header row as read from the file.
	Header() []string
	Next() (model.RawRecord, error)
	Close() error
}

// RowError marks a single malformed row. The stream remains usable;
// the next call to Next moves past the bad row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return e.Err.Error()
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Open picks a reader by file extension. CSV is the default for unknown
// extensions.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return OpenXLSX(path)
	default:
		return OpenCSV(path)
	}
}

// Count returns the number of data rows in the file. Rows that fail to
// parse still count; they will surface as per-row errors during the
// real pass. Stream-level failures abort the count.
func Count(path string) (int, error) {
	src, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	n := 0
	for {
		_, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		var rowErr *RowError
		if err != nil && !errors.As(err, &rowErr) {
			return 0, eris.Wrapf(err, "source: count rows of %s", path)
		}
		n++
	}
}

// canonical maps normalized header names to record fields. Normalization
// strips spaces, underscores, and dashes and lowercases, so
// "reviewCount", "review_count", and "Review Count" all land on the same
// field.
var canonical = map[string]func(*model.RawRecord, string){
	"name":        func(r *model.RawRecord, v string) { r.Name = v },
	"address":     func(r *model.RawRecord, v string) { r.Address = v },
	"city":        func(r *model.RawRecord, v string) { r.City = v },
	"state":       func(r *model.RawRecord, v string) { r.State = v },
	"zip":         func(r *model.RawRecord, v string) { r.Zip = v },
	"zipcode":     func(r *model.RawRecord, v string) { r.Zip = v },
	"phone":       func(r *model.RawRecord, v string) { r.Phone = v },
	"website":     func(r *model.RawRecord, v string) { r.Website = v },
	"hours":       func(r *model.RawRecord, v string) { r.Hours = v },
	"rating":      func(r *model.RawRecord, v string) { r.Rating = v },
	"reviewcount": func(r *model.RawRecord, v string) { r.ReviewCount = v },
	"photos":      func(r *model.RawRecord, v string) { r.Photos = v },
	"services":    func(r *model.RawRecord, v string) { r.Services = v },
	"features":    func(r *model.RawRecord, v string) { r.Features = v },
	"description": func(r *model.RawRecord, v string) { r.Description = v },
}

// NormalizeColumn lowercases a header name and strips spaces,
// underscores, and dashes. The write side uses it to map records back
// onto input columns.
func NormalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, name)
}

// mapRow builds a RawRecord from a row using the header. Cells beyond
// the header are dropped; missing cells are empty. Unrecognized columns
// are preserved in Extra in header order.
func mapRow(header []string, row []string) model.RawRecord {
	var rec model.RawRecord
	for i, col := range header {
		var val string
		if i < len(row) {
			val = strings.TrimSpace(row[i])
		}
		if set, ok := canonical[NormalizeColumn(col)]; ok {
			set(&rec, val)
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[col] = val
		rec.ExtraKeys = append(rec.ExtraKeys, col)
	}
	return rec
}

func errEmptyFile(path string) error {
	return eris.Errorf("source: %s has no header row", path)
}
