package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/allkit/docapi/archive"
	"github.com/allkit/docapi/office"
	"github.com/yaoapp/kun/log"
)

// ExportFormat the target of a PDF export
type ExportFormat string

const (
	// ExportImage a ZIP of one PNG per page
	ExportImage ExportFormat = "image"
	// ExportWord a docx with the extracted text
	ExportWord ExportFormat = "word"
	// ExportExcel a xlsx with the extracted text
	ExportExcel ExportFormat = "excel"
	// ExportPowerPoint a pptx imported by LibreOffice
	ExportPowerPoint ExportFormat = "powerpoint"
)

// ExportDPI the resolution of exported page images
const ExportDPI = 200

// ParseExportFormat parses an export format name
func ParseExportFormat(name string) (ExportFormat, error) {
	switch format := ExportFormat(strings.ToLower(name)); format {
	case ExportImage, ExportWord, ExportExcel, ExportPowerPoint:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output type %q", name)
	}
}

// Artifact a converted file ready to be sent
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// SlideConverter turns a PDF into a presentation
type SlideConverter interface {
	ToPresentation(ctx context.Context, inputPath, outDir string) (string, error)
}

// Exporter converts a PDF into other formats page by page
type Exporter struct {
	pdf    *PDF
	slides SlideConverter
}

// NewExporter create a new exporter
func NewExporter(pdf *PDF, slides SlideConverter) *Exporter {
	return &Exporter{pdf: pdf, slides: slides}
}

// Export converts the PDF at filePath, workDir receives the intermediate files
func (e *Exporter) Export(ctx context.Context, filePath, workDir string, format ExportFormat) (*Artifact, error) {
	switch format {
	case ExportImage:
		return e.images(ctx, filePath, workDir)
	case ExportWord:
		return e.word(ctx, filePath)
	case ExportExcel:
		return e.excel(ctx, filePath)
	case ExportPowerPoint:
		return e.powerpoint(ctx, filePath, workDir)
	default:
		return nil, fmt.Errorf("invalid output type %q", format)
	}
}

func (e *Exporter) images(ctx context.Context, filePath, workDir string) (*Artifact, error) {
	files, err := e.pdf.Render(ctx, filePath, RenderConfig{
		OutputDir:    filepath.Join(workDir, "pages"),
		OutputPrefix: "page",
		Format:       "png",
		DPI:          ExportDPI,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]archive.Entry, 0, len(files))
	for i, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		entries = append(entries, archive.Entry{Name: fmt.Sprintf("page_%d.png", i+1), Data: data})
	}

	data, err := archive.Bytes(entries)
	if err != nil {
		return nil, err
	}
	log.Trace("[PDF] exported %d page images", len(entries))
	return &Artifact{Name: "converted_images.zip", ContentType: "application/zip", Data: data}, nil
}

func (e *Exporter) word(ctx context.Context, filePath string) (*Artifact, error) {
	pages, err := e.pdf.Text(ctx, filePath)
	if err != nil {
		return nil, err
	}

	lines := make([][]string, len(pages))
	for i, page := range pages {
		lines[i] = pageLines(page)
	}

	var buf bytes.Buffer
	if err := office.WriteDocx(&buf, lines); err != nil {
		return nil, err
	}
	return &Artifact{
		Name:        "converted.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        buf.Bytes(),
	}, nil
}

func (e *Exporter) excel(ctx context.Context, filePath string) (*Artifact, error) {
	pages, err := e.pdf.Text(ctx, filePath)
	if err != nil {
		return nil, err
	}

	rows := [][]string{}
	for _, page := range pages {
		for _, line := range pageLines(page) {
			rows = append(rows, strings.Split(line, "\t"))
		}
	}

	var buf bytes.Buffer
	if err := office.WriteXlsx(&buf, rows); err != nil {
		return nil, err
	}
	return &Artifact{
		Name:        "converted.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func (e *Exporter) powerpoint(ctx context.Context, filePath, workDir string) (*Artifact, error) {
	if e.slides == nil {
		return nil, ErrNotImplemented
	}

	output, err := e.slides.ToPresentation(ctx, filePath, filepath.Join(workDir, "slides"))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Name:        "converted.pptx",
		ContentType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		Data:        data,
	}, nil
}

func pageLines(page string) []string {
	page = strings.TrimRight(page, "\n")
	if page == "" {
		return []string{}
	}
	return strings.Split(page, "\n")
}
