package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/laundrymap/enrich-cli/internal/model"
	"github.com/laundrymap/enrich-cli/internal/source"
)

// enrichColumns are appended after the input columns in the output
// header, in this order.
var enrichColumns = []string{"slug", "seoTags", "seoSummary", "seoDescription", "premiumScore"}

// writer emits enriched rows to a CSV file. The header is the input
// header followed by the enrichment columns, written up front so a
// zero-row input still produces a well-formed file.
type writer struct {
	f      *os.File
	w      *csv.Writer
	header []string
}

func newWriter(path string, inputHeader []string) (*writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: create output %s", path)
	}

	w := csv.NewWriter(f)
	header := append(append([]string(nil), inputHeader...), enrichColumns...)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "pipeline: write header")
	}

	return &writer{f: f, w: w, header: header}, nil
}

// writeEnriched emits a fully enriched row.
func (wr *writer) writeEnriched(rec model.EnrichedRecord) error {
	row := wr.rawCells(rec.RawRecord)
	row = append(row,
		rec.Slug,
		strings.Join(rec.SEOTags, "; "),
		rec.SEOSummary,
		rec.SEODescription,
		strconv.Itoa(rec.PremiumScore),
	)
	if err := wr.w.Write(row); err != nil {
		return eris.Wrap(err, "pipeline: write row")
	}
	return nil
}

// writeRaw emits an unenriched row with empty enrichment columns. Used
// when enrichment fails: the original record is never dropped.
func (wr *writer) writeRaw(rec model.RawRecord) error {
	row := wr.rawCells(rec)
	row = append(row, make([]string, len(enrichColumns))...)
	if err := wr.w.Write(row); err != nil {
		return eris.Wrap(err, "pipeline: write row")
	}
	return nil
}

// rawCells maps a record back onto the input columns. Unrecognized
// columns are restored from Extra.
func (wr *writer) rawCells(rec model.RawRecord) []string {
	cells := make([]string, 0, len(wr.header))
	for _, col := range wr.header[:len(wr.header)-len(enrichColumns)] {
		cells = append(cells, cellValue(rec, col))
	}
	return cells
}

func (wr *writer) Close() error {
	wr.w.Flush()
	flushErr := wr.w.Error()
	closeErr := wr.f.Close()
	if flushErr != nil {
		return eris.Wrap(flushErr, "pipeline: flush output")
	}
	if closeErr != nil {
		return eris.Wrap(closeErr, "pipeline: close output")
	}
	return nil
}

// cellValue extracts the value of one input column from a record,
// mirroring the header mapping used on the read side.
func cellValue(rec model.RawRecord, col string) string {
	switch source.NormalizeColumn(col) {
	case "name":
		return rec.Name
	case "address":
		return rec.Address
	case "city":
		return rec.City
	case "state":
		return rec.State
	case "zip", "zipcode":
		return rec.Zip
	case "phone":
		return rec.Phone
	case "website":
		return rec.Website
	case "hours":
		return rec.Hours
	case "rating":
		return rec.Rating
	case "reviewcount":
		return rec.ReviewCount
	case "photos":
		return rec.Photos
	case "services":
		return rec.Services
	case "features":
		return rec.Features
	case "description":
		return rec.Description
	default:
		return rec.Extra[col]
	}
}
