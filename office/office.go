package office

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/allkit/docapi/shell"
	"github.com/yaoapp/kun/log"
)

// Kind the family of an office document
type Kind string

const (
	// KindWord text documents
	KindWord Kind = "word"
	// KindExcel spreadsheets
	KindExcel Kind = "excel"
	// KindPowerPoint presentations
	KindPowerPoint Kind = "powerpoint"
)

var extensions = map[Kind][]string{
	KindWord:       {".doc", ".docx", ".odt", ".rtf", ".txt"},
	KindExcel:      {".xls", ".xlsx", ".ods", ".csv"},
	KindPowerPoint: {".ppt", ".pptx", ".odp"},
}

// ParseKind parses an office document kind
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(name))
	if _, has := extensions[kind]; !has {
		return "", fmt.Errorf("unsupported document type: %s", name)
	}
	return kind, nil
}

// Extensions returns the file extensions accepted for the kind
func (k Kind) Extensions() []string {
	return extensions[k]
}

// Accepts reports whether the file name has an extension of the kind
func (k Kind) Accepts(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, e := range extensions[k] {
		if e == ext {
			return true
		}
	}
	return false
}

// DefaultSofficePath returns the platform default LibreOffice executable
func DefaultSofficePath() string {
	if runtime.GOOS == "windows" {
		return `C:\Program Files\LibreOffice\program\soffice.exe`
	}
	return "soffice"
}

// Converter converts documents with a headless LibreOffice
type Converter struct {
	path   string
	runner *shell.Runner
}

// NewConverter create a new LibreOffice converter, an empty path selects the platform default
func NewConverter(runner *shell.Runner, path string) *Converter {
	if path == "" {
		path = DefaultSofficePath()
	}
	if runner == nil {
		runner = shell.New(0)
	}
	return &Converter{path: path, runner: runner}
}

// Path returns the soffice executable
func (c *Converter) Path() string {
	return c.path
}

// ToPDF converts inputPath into outDir and returns the path of the PDF
func (c *Converter) ToPDF(ctx context.Context, inputPath, outDir string) (string, error) {
	return c.convert(ctx, inputPath, outDir, "pdf")
}

// ToPresentation imports a PDF into Impress and saves it as pptx
func (c *Converter) ToPresentation(ctx context.Context, inputPath, outDir string) (string, error) {
	return c.convert(ctx, inputPath, outDir, "pptx", "--infilter=impress_pdf_import")
}

func (c *Converter) convert(ctx context.Context, inputPath, outDir, format string, filters ...string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// A private profile per call, concurrent soffice instances lock a shared one
	profile, err := filepath.Abs(filepath.Join(outDir, ".lo-profile"))
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(profile)

	args := []string{
		"-env:UserInstallation=" + fileURL(profile),
		"--headless",
		"--norestore",
	}
	args = append(args, filters...)
	args = append(args, "--convert-to", format, "--outdir", outDir, inputPath)

	output, err := c.runner.Run(ctx, shell.Command{Tool: "soffice", Path: c.path, Args: args})
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	result := filepath.Join(outDir, base+"."+format)
	if _, err := os.Stat(result); err != nil {
		log.Error("[Office] %s was not converted: %s", filepath.Base(inputPath), strings.TrimSpace(string(output)))
		return "", fmt.Errorf("%s conversion failed: output file not found", format)
	}

	log.Trace("[Office] converted %s to %s", filepath.Base(inputPath), format)
	return result, nil
}

func fileURL(path string) string {
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path
}

// Tool describes the converter for inspection
func (c *Converter) Tool() shell.Tool {
	return shell.Tool{Name: "soffice", Path: c.path, VersionFlag: "--version", ConfigKey: "tools.soffice"}
}
