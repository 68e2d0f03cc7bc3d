package source

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTempXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Listings")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestOpenXLSXAndIterate(t *testing.T) {
	path := writeTempXLSX(t, [][]string{
		{"Name", "Address", "City", "State", "Zip Code", "rating", "owner_notes"},
		{"ABC Laundry", "123 Main St", "Austin", "TX", "78701", "4.8", "call back"},
		{"Sud City", "456 Oak Ave", "Dallas", "TX", "75201", "3.9", ""},
	})

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t,
		[]string{"Name", "Address", "City", "State", "Zip Code", "rating", "owner_notes"},
		src.Header())

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "ABC Laundry", rec.Name)
	assert.Equal(t, "Austin", rec.City)
	assert.Equal(t, "78701", rec.Zip)
	assert.InDelta(t, 4.8, rec.RatingValue(), 0.001)
	assert.Equal(t, []string{"owner_notes"}, rec.ExtraKeys)
	assert.Equal(t, "call back", rec.Extra["owner_notes"])

	rec, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, "Sud City", rec.Name)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenXLSXHeaderOnly(t *testing.T) {
	path := writeTempXLSX(t, [][]string{{"name", "city"}})

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenXLSXEmptySheet(t *testing.T) {
	path := writeTempXLSX(t, nil)
	_, err := Open(path)
	assert.Error(t, err)
}

func TestCountXLSX(t *testing.T) {
	path := writeTempXLSX(t, [][]string{
		{"name", "city"},
		{"A", "X"},
		{"B", "Y"},
	})

	n, err := Count(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
