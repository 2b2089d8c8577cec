package office

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/allkit/docapi/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, name := range []string{"word", "excel", "powerpoint", "Word"} {
		kind, err := ParseKind(name)
		assert.NoError(t, err, name)
		assert.NotEmpty(t, kind.Extensions())
	}

	_, err := ParseKind("image")
	assert.Error(t, err)
	_, err = ParseKind("")
	assert.Error(t, err)
}

func TestKindAccepts(t *testing.T) {
	assert.True(t, KindWord.Accepts("report.DOCX"))
	assert.True(t, KindExcel.Accepts("sheet.xlsx"))
	assert.True(t, KindPowerPoint.Accepts("deck.ppt"))
	assert.False(t, KindWord.Accepts("deck.pptx"))
	assert.False(t, KindExcel.Accepts("noext"))
}

func TestWriteReadDocx(t *testing.T) {
	pages := [][]string{
		{"Hello", "  indented line", ""},
		{"second <page> & more"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDocx(&buf, pages))

	got, err := ReadDocx(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, pages, got)
}

func TestWriteReadXlsx(t *testing.T) {
	rows := [][]string{
		{"name", "qty"},
		{},
		{"apple", "", "3"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXlsx(&buf, rows))

	got, err := ReadXlsx(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"name", "qty"}, got[0])
	assert.Empty(t, got[1])
	assert.Equal(t, []string{"apple", "", "3"}, got[2])
}

func TestColumnName(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"}
	for index, name := range cases {
		assert.Equal(t, name, ColumnName(index))
		assert.Equal(t, index, ColumnIndex(name))
	}
}

func TestReadDocxInvalid(t *testing.T) {
	_, err := ReadDocx([]byte("not a zip"))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXlsx(&buf, [][]string{{"a"}}))
	_, err = ReadDocx(buf.Bytes())
	assert.Error(t, err)
}

func TestToPDF(t *testing.T) {
	soffice, err := exec.LookPath("soffice")
	if err != nil {
		t.Skip("soffice not found in PATH")
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello"), 0644))

	converter := NewConverter(shell.New(2*time.Minute), soffice)
	output, err := converter.ToPDF(context.Background(), input, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Equal(t, "note.pdf", filepath.Base(output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestToPDFNotFound(t *testing.T) {
	dir := t.TempDir()
	converter := NewConverter(nil, filepath.Join(dir, "no-soffice"))
	_, err := converter.ToPDF(context.Background(), filepath.Join(dir, "a.docx"), dir)
	assert.ErrorIs(t, err, shell.ErrNotFound)
}
