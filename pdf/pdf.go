package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/allkit/docapi/shell"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/yaoapp/kun/log"
)

// PDF handles the PDF operations that need an external engine
type PDF struct {
	renderTool Tool
	cmd        Command
}

// New creates a new PDF processor
func New(opts Options) *PDF {
	runner := shell.New(opts.Timeout)
	if opts.Pool != nil {
		runner.WithPool(opts.Pool)
	}
	cmd := NewCommand(runner, opts.ToolPaths)

	pdf := &PDF{
		renderTool: ToolPdftoppm, // Default tool
		cmd:        cmd,
	}

	// Set rendering tool preference
	if opts.RenderTool != "" {
		pdf.renderTool = opts.RenderTool
	}

	return pdf
}

// Command returns the underlying command driver
func (p *PDF) Command() Command {
	return p.cmd
}

// GetInfo reads PDF information from an in-memory document
func (p *PDF) GetInfo(ctx context.Context, doc Document) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := readSource(&doc)
	if err != nil {
		return nil, &MalformedDocumentError{Entry: -1, FileName: doc.Name, Err: err}
	}

	info := &Info{
		FileName:  doc.Name,
		FileSize:  int64(len(doc.Data)),
		PageCount: src.pageCount,
		PageSizes: make([]PageSize, 0, src.pageCount),
		Metadata:  make(map[string]string),
	}

	for i := 1; i <= src.pageCount; i++ {
		size, err := pageSize(src.ctx, i)
		if err != nil {
			return nil, &MalformedDocumentError{Entry: -1, FileName: doc.Name, Err: err}
		}
		info.PageSizes = append(info.PageSizes, size)
	}

	// Use pdfcpu's Properties function to extract metadata
	properties, err := api.Properties(bytes.NewReader(doc.Data), nil)
	if err != nil {
		// Not fatal
		log.Warn("[PDF] failed to read properties of %s: %s", doc.Name, err.Error())
	} else {
		for key, value := range properties {
			info.Metadata[key] = value
		}
	}

	return info, nil
}

// Render renders PDF pages to images and returns the image paths in page order
func (p *PDF) Render(ctx context.Context, filePath string, config RenderConfig) ([]string, error) {
	if err := validateRenderConfig(&config); err != nil {
		return nil, err
	}

	// Create output directory
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	info, err := p.GetInfo(ctx, Document{Name: filepath.Base(filePath), Data: data})
	if err != nil {
		return nil, err
	}

	// Check if the configured tool is available
	if !p.cmd.IsAvailable(p.renderTool) {
		return nil, fmt.Errorf("rendering tool %s is not available: %w", p.renderTool, shell.ErrNotFound)
	}

	switch p.renderTool {
	case ToolPdftoppm:
		return p.cmd.RenderWithPdftoppm(ctx, filePath, config, info.PageCount)
	case ToolMutool:
		return p.cmd.RenderWithMutool(ctx, filePath, config, info.PageCount)
	default:
		return nil, fmt.Errorf("unsupported rendering tool: %s", p.renderTool)
	}
}

// Text extracts the text of every page, in page order
func (p *PDF) Text(ctx context.Context, filePath string) ([]string, error) {
	output, err := p.cmd.ExtractText(ctx, filePath)
	if err != nil {
		return nil, err
	}

	// pdftotext terminates every page with a form feed
	pages := strings.Split(output, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}

// validateRenderConfig validates and sets defaults for a render configuration
func validateRenderConfig(config *RenderConfig) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	if config.OutputPrefix == "" {
		config.OutputPrefix = "page"
	}

	if config.Format == "" {
		config.Format = "png"
	}

	switch config.Format {
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("unsupported format: %s", config.Format)
	}

	if config.DPI <= 0 {
		config.DPI = 150
	}

	if config.PageRange == "" {
		config.PageRange = "all"
	}

	return nil
}
