package source

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// CSVSource streams rows from a CSV file with a header row.
type CSVSource struct {
	f      *os.File
	reader *csv.Reader
	header []string
}

// OpenCSV opens a CSV file and reads its header row.
func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open %s", path)
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		f.Close()
		return nil, errEmptyFile(path)
	}
	if err != nil {
		f.Close()
		return nil, eris.Wrapf(err, "source: read header of %s", path)
	}

	return &CSVSource{f: f, reader: reader, header: header}, nil
}

// Header returns the header row.
func (s *CSVSource) Header() []string {
	return s.header
}

// Next reads the next data row. Malformed rows come back as *RowError
// and the reader stays positioned on the following row; I/O failures
// are fatal because the reader cannot advance past them.
func (s *CSVSource) Next() (rec model.RawRecord, err error) {
	row, err := s.reader.Read()
	if err == io.EOF {
		return rec, io.EOF
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return rec, &RowError{Row: parseErr.Line, Err: err}
	}
	if err != nil {
		return rec, eris.Wrap(err, "source: read row")
	}
	return mapRow(s.header, row), nil
}

// Close releases the underlying file.
func (s *CSVSource) Close() error {
	return s.f.Close()
}
