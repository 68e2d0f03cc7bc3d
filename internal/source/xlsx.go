package source

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// XLSXSource iterates over the first sheet of a spreadsheet. The
// underlying library holds the workbook in memory, so iteration is over
// already-loaded rows.
type XLSXSource struct {
	header []string
	rows   []*xlsx.Row
	pos    int
}

// OpenXLSX opens a spreadsheet and reads the header from its first sheet.
func OpenXLSX(path string) (*XLSXSource, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("source: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, errEmptyFile(path)
	}

	return &XLSXSource{
		header: rowToStrings(sheet.Rows[0]),
		rows:   sheet.Rows[1:],
	}, nil
}

// Header returns the header row.
func (s *XLSXSource) Header() []string {
	return s.header
}

// Next returns the next data row, or io.EOF after the last one.
func (s *XLSXSource) Next() (model.RawRecord, error) {
	if s.pos >= len(s.rows) {
		return model.RawRecord{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return mapRow(s.header, rowToStrings(row)), nil
}

// Close is a no-op; the workbook is fully loaded at open time.
func (s *XLSXSource) Close() error {
	return nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
