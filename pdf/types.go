package pdf

import (
	"context"
	"errors"
	"time"

	"github.com/allkit/docapi/shell"
)

// ErrNotImplemented is returned when a feature is not implemented for the current platform
var ErrNotImplemented = errors.New("feature not implemented for this platform")

// Tool defines the external PDF engines used by this package
type Tool string

const (
	// ToolPdftoppm is the poppler-utils renderer
	ToolPdftoppm Tool = "pdftoppm" // poppler-utils
	// ToolMutool is the mupdf-tools renderer
	ToolMutool Tool = "mutool" // mupdf-tools
	// ToolPdftotext is the poppler-utils text extractor
	ToolPdftotext Tool = "pdftotext" // poppler-utils
	// ToolGhostscript is the Ghostscript distiller
	ToolGhostscript Tool = "gs" // ghostscript
)

// ToolPaths contains custom paths for the external tools
type ToolPaths map[Tool]string

// Info contains information about a PDF file
type Info struct {
	FileName  string            `json:"file_name"`
	FileSize  int64             `json:"file_size"`
	PageCount int               `json:"page_count"`
	PageSizes []PageSize        `json:"page_sizes"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// PageSize the MediaBox dimensions of a page in points
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document an uploaded PDF, keyed by its declared file name.
// The bytes are owned by the request and never modified.
type Document struct {
	Name string
	Data []byte
}

// PageOrderEntry one output page slot of a page order descriptor
type PageOrderEntry struct {
	FileName   string `json:"fileName"`
	PageNumber int    `json:"pageNumber"`
	IsBlank    bool   `json:"isBlank"`
}

// PageRange an inclusive 1-based page range. From may be greater than To
// for a descending range.
type PageRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Part a named PDF produced by splitting
type Part struct {
	Name string
	Data []byte
}

// RenderConfig defines how to render PDF pages to images
type RenderConfig struct {
	OutputDir    string `json:"output_dir"`
	OutputPrefix string `json:"output_prefix"`
	Format       string `json:"format"`     // "png", "jpg", "jpeg"
	DPI          int    `json:"dpi"`        // Resolution, default 150
	PageRange    string `json:"page_range"` // e.g., "1-5" or "all"
}

// Options defines configuration for PDF processor
type Options struct {
	RenderTool Tool          `json:"render_tool,omitempty"` // Preferred rendering tool
	ToolPaths  ToolPaths     `json:"tool_paths,omitempty"`  // Custom paths to the tool executables
	Timeout    time.Duration `json:"timeout,omitempty"`     // Per-invocation timeout
	Pool       *shell.Pool   `json:"-"`                     // Shared engine workers (optional)
}

// Parser defines the contract for PDF processing operations
type Parser interface {
	// GetInfo reads PDF information
	GetInfo(ctx context.Context, doc Document) (*Info, error)

	// Render renders PDF pages to images
	Render(ctx context.Context, filePath string, config RenderConfig) ([]string, error)

	// Text extracts the text of every page, in page order
	Text(ctx context.Context, filePath string) ([]string, error)
}
