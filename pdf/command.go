package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/allkit/docapi/shell"
)

// Command defines interface for the external PDF engines
type Command interface {
	// IsAvailable checks if a specific tool is available
	IsAvailable(tool Tool) bool

	// GetToolPath returns the executable path for a specific tool
	GetToolPath(tool Tool) string

	// RenderWithPdftoppm renders PDF pages to images using pdftoppm
	RenderWithPdftoppm(ctx context.Context, filePath string, config RenderConfig, pageCount int) ([]string, error)

	// RenderWithMutool renders PDF pages to images using mutool
	RenderWithMutool(ctx context.Context, filePath string, config RenderConfig, pageCount int) ([]string, error)

	// ExtractText extracts the layout preserved text using pdftotext
	ExtractText(ctx context.Context, filePath string) (string, error)

	// Distill re-encodes a PDF with Ghostscript using a PDFSETTINGS value
	Distill(ctx context.Context, inputPath, outputPath string, settings string) error
}

// NewCommand creates a platform-specific command driver with optional custom tool paths
func NewCommand(runner *shell.Runner, toolPaths ...ToolPaths) Command {
	// Merge all provided tool paths
	customPaths := make(ToolPaths)
	for _, paths := range toolPaths {
		for tool, path := range paths {
			customPaths[tool] = path
		}
	}

	switch runtime.GOOS {
	case "darwin":
		return NewMacOSDriver(runner, customPaths)
	case "linux":
		return NewLinuxDriver(runner, customPaths)
	case "windows":
		return NewWindowsDriver(runner, customPaths)
	default:
		// Fallback to Linux implementation for other Unix-like systems
		return NewLinuxDriver(runner, customPaths)
	}
}

// driver implements Command on top of a shell runner. The platform files
// only differ in their default tool paths.
type driver struct {
	toolPaths ToolPaths
	runner    *shell.Runner
}

func newDriver(runner *shell.Runner, defaultPaths ToolPaths, customPaths ToolPaths) *driver {
	if runner == nil {
		runner = shell.New(0)
	}

	// Merge custom paths with defaults
	finalPaths := make(ToolPaths)
	for tool, path := range defaultPaths {
		finalPaths[tool] = path
	}
	for tool, path := range customPaths {
		if path != "" {
			finalPaths[tool] = path
		}
	}

	return &driver{toolPaths: finalPaths, runner: runner}
}

// IsAvailable checks if a specific tool is available
func (d *driver) IsAvailable(tool Tool) bool {
	return d.runner.Available(d.GetToolPath(tool))
}

// GetToolPath returns the executable path for a specific tool
func (d *driver) GetToolPath(tool Tool) string {
	if path, exists := d.toolPaths[tool]; exists {
		return path
	}
	return ""
}

// RenderWithPdftoppm renders PDF pages to images using pdftoppm
func (d *driver) RenderWithPdftoppm(ctx context.Context, filePath string, config RenderConfig, pageCount int) ([]string, error) {
	// Map format to pdftoppm format flag
	var formatFlag string
	switch config.Format {
	case "jpg", "jpeg":
		formatFlag = "-jpeg"
	case "tiff":
		formatFlag = "-tiff"
	default:
		formatFlag = "-png"
	}

	startPage, endPage := parsePageRange(config.PageRange, pageCount)
	args := []string{
		formatFlag,
		"-r", strconv.Itoa(config.DPI),
		"-f", strconv.Itoa(startPage),
		"-l", strconv.Itoa(endPage),
		filePath,
		filepath.Join(config.OutputDir, config.OutputPrefix),
	}

	_, err := d.runner.Run(ctx, shell.Command{Tool: string(ToolPdftoppm), Path: d.GetToolPath(ToolPdftoppm), Args: args})
	if err != nil {
		return nil, err
	}

	return collectPages(config)
}

// RenderWithMutool renders PDF pages to images using mutool
func (d *driver) RenderWithMutool(ctx context.Context, filePath string, config RenderConfig, pageCount int) ([]string, error) {
	format := config.Format
	if format == "jpeg" {
		format = "jpg"
	}

	startPage, endPage := parsePageRange(config.PageRange, pageCount)
	args := []string{
		"draw",
		"-r", strconv.Itoa(config.DPI),
		"-F", format,
		"-o", filepath.Join(config.OutputDir, config.OutputPrefix) + "-%d." + format,
		filePath,
		fmt.Sprintf("%d-%d", startPage, endPage),
	}

	_, err := d.runner.Run(ctx, shell.Command{Tool: string(ToolMutool), Path: d.GetToolPath(ToolMutool), Args: args})
	if err != nil {
		return nil, err
	}

	return collectPages(config)
}

// ExtractText extracts the layout preserved text using pdftotext.
// Pages are separated by form feeds.
func (d *driver) ExtractText(ctx context.Context, filePath string) (string, error) {
	args := []string{"-layout", "-enc", "UTF-8", filePath, "-"}
	output, err := d.runner.Run(ctx, shell.Command{Tool: string(ToolPdftotext), Path: d.GetToolPath(ToolPdftotext), Args: args})
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// Distill re-encodes a PDF with Ghostscript
func (d *driver) Distill(ctx context.Context, inputPath, outputPath string, settings string) error {
	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=" + settings,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-dSAFER",
		"-sOutputFile=" + outputPath,
		inputPath,
	}
	_, err := d.runner.Run(ctx, shell.Command{Tool: "ghostscript", Path: d.GetToolPath(ToolGhostscript), Args: args})
	return err
}

// parsePageRange parses page range string like "1-5" or "all"
func parsePageRange(pageRange string, pageCount int) (int, int) {
	if pageRange == "" || pageRange == "all" {
		return 1, pageCount
	}

	if strings.Contains(pageRange, "-") {
		parts := strings.Split(pageRange, "-")
		if len(parts) == 2 {
			startPage, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			endPage, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 == nil && err2 == nil && startPage >= 1 && startPage <= endPage && endPage <= pageCount {
				return startPage, endPage
			}
		}
	} else {
		// Single page
		page, err := strconv.Atoi(strings.TrimSpace(pageRange))
		if err == nil && page >= 1 && page <= pageCount {
			return page, page
		}
	}

	// Default to all pages
	return 1, pageCount
}

// collectPages lists the rendered images ordered by page number.
// pdftoppm zero-pads the page number to the width of the last page.
func collectPages(config RenderConfig) ([]string, error) {
	pattern := filepath.Join(config.OutputDir, config.OutputPrefix+"-*")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images rendered")
	}

	numbers := make(map[string]int, len(files))
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		n, err := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
		if err != nil {
			return nil, fmt.Errorf("unexpected render output %s", filepath.Base(file))
		}
		numbers[file] = n
	}

	sort.Slice(files, func(i, j int) bool { return numbers[files[i]] < numbers[files[j]] })
	return files, nil
}
