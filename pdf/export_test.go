package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/allkit/docapi/archive"
	"github.com/allkit/docapi/office"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "Invoice\tTotal\nApples\t3\n\fThanks\n\f"

func TestParseExportFormat(t *testing.T) {
	for _, name := range []string{"image", "word", "excel", "powerpoint", "Word"} {
		_, err := ParseExportFormat(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseExportFormat("pdf")
	assert.Error(t, err)
}

func TestExportWord(t *testing.T) {
	pdf := &PDF{cmd: &fakeCommand{text: sampleText}}
	artifact, err := NewExporter(pdf, nil).Export(context.Background(), "a.pdf", t.TempDir(), ExportWord)
	require.NoError(t, err)
	assert.Equal(t, "converted.docx", artifact.Name)

	pages, err := office.ReadDocx(artifact.Data)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Invoice\tTotal", "Apples\t3"}, {"Thanks"}}, pages)
}

func TestExportExcel(t *testing.T) {
	pdf := &PDF{cmd: &fakeCommand{text: sampleText}}
	artifact, err := NewExporter(pdf, nil).Export(context.Background(), "a.pdf", t.TempDir(), ExportExcel)
	require.NoError(t, err)
	assert.Equal(t, "converted.xlsx", artifact.Name)

	rows, err := office.ReadXlsx(artifact.Data)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Invoice", "Total"}, {"Apples", "3"}, {"Thanks"}}, rows)
}

func TestExportTextFailure(t *testing.T) {
	pdf := &PDF{cmd: &fakeCommand{err: errors.New("pdftotext failed")}}
	_, err := NewExporter(pdf, nil).Export(context.Background(), "a.pdf", t.TempDir(), ExportWord)
	assert.Error(t, err)
}

type fakeSlides struct{}

func (fakeSlides) ToPresentation(ctx context.Context, inputPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	output := filepath.Join(outDir, "a.pptx")
	return output, os.WriteFile(output, []byte("pptx"), 0644)
}

func TestExportPowerPoint(t *testing.T) {
	pdf := &PDF{cmd: &fakeCommand{}}
	artifact, err := NewExporter(pdf, fakeSlides{}).Export(context.Background(), "a.pdf", t.TempDir(), ExportPowerPoint)
	require.NoError(t, err)
	assert.Equal(t, "converted.pptx", artifact.Name)
	assert.Equal(t, []byte("pptx"), artifact.Data)

	_, err = NewExporter(pdf, nil).Export(context.Background(), "a.pdf", t.TempDir(), ExportPowerPoint)
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestExportImages(t *testing.T) {
	requireTool(t, "pdftoppm")
	input := writeFixture(t, "a.pdf", blankPDF(t, small, medium))

	artifact, err := NewExporter(New(Options{}), nil).Export(context.Background(), input, t.TempDir(), ExportImage)
	require.NoError(t, err)
	assert.Equal(t, "converted_images.zip", artifact.Name)

	entries, err := archive.Read(artifact.Data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "page_1.png", entries[0].Name)
	assert.Equal(t, "page_2.png", entries[1].Name)
}
