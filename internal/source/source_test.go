package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenCSVAndIterate(t *testing.T) {
	path := writeTempCSV(t, "name,address,city,state,zip,rating\n"+
		"ABC Laundry,123 Main St,Austin,TX,78701,4.8\n"+
		"Sud City,456 Oak Ave,Dallas,TX,75201,3.9\n")

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, []string{"name", "address", "city", "state", "zip", "rating"}, src.Header())

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "ABC Laundry", rec.Name)
	assert.Equal(t, "Austin", rec.City)
	assert.InDelta(t, 4.8, rec.RatingValue(), 0.001)

	rec, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, "Sud City", rec.Name)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestHeaderAliases(t *testing.T) {
	path := writeTempCSV(t, "Name,Zip Code,review_count,reviewCount\nA,78701,5,\n")

	src, err := OpenCSV(path)
	require.NoError(t, err)
	defer src.Close()

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", rec.Name)
	assert.Equal(t, "78701", rec.Zip)
	// Later columns overwrite earlier aliases; the last one is empty here.
	assert.Equal(t, "", rec.ReviewCount)
}

func TestUnknownColumnsPreserved(t *testing.T) {
	path := writeTempCSV(t, "name,city,owner_notes,source_id\nABC,Austin,call back,gmaps-77\n")

	src, err := OpenCSV(path)
	require.NoError(t, err)
	defer src.Close()

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"owner_notes", "source_id"}, rec.ExtraKeys)
	assert.Equal(t, "call back", rec.Extra["owner_notes"])
	assert.Equal(t, "gmaps-77", rec.Extra["source_id"])
}

func TestShortAndLongRows(t *testing.T) {
	path := writeTempCSV(t, "name,city,state\nOnlyName\nA,B,C,extra-cell\n")

	src, err := OpenCSV(path)
	require.NoError(t, err)
	defer src.Close()

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "OnlyName", rec.Name)
	assert.Equal(t, "", rec.City)

	rec, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, "C", rec.State)
}

func TestMalformedRowIsRowError(t *testing.T) {
	path := writeTempCSV(t, "name,city\nA,Austin\nB,bad\"cell\nC,Dallas\n")

	src, err := OpenCSV(path)
	require.NoError(t, err)
	defer src.Close()

	rec, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", rec.Name)

	_, err = src.Next()
	require.Error(t, err)
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)

	// The bad row is consumed; the stream keeps going.
	rec, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, "C", rec.Name)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestEmptyFileFails(t *testing.T) {
	path := writeTempCSV(t, "")
	_, err := OpenCSV(path)
	assert.Error(t, err)
}

func TestHeaderOnlyFile(t *testing.T) {
	path := writeTempCSV(t, "name,city\n")
	src, err := OpenCSV(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	path := writeTempCSV(t, "name,city\nA,X\nB,Y\nC,Z\n")
	n, err := Count(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCountIncludesMalformedRows(t *testing.T) {
	path := writeTempCSV(t, "name,city\nA,X\nB,bad\"cell\nC,Z\n")
	n, err := Count(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
