package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/allkit/docapi/shell"
	"github.com/yaoapp/kun/log"
)

// ParseColor parses a #rrggbb background color. An empty value or
// "transparent" returns nil.
func ParseColor(value string) (color.Color, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "transparent") {
		return nil, nil
	}

	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color %q", value)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", value)
	}
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}, nil
}

// DefaultRembgPath returns the platform default rembg executable
func DefaultRembgPath() string {
	if runtime.GOOS == "windows" {
		return "rembg.exe"
	}
	return "rembg"
}

// BackgroundRemover removes image backgrounds with the rembg CLI
type BackgroundRemover struct {
	path   string
	runner *shell.Runner
}

// NewBackgroundRemover create a new background remover, an empty path selects the platform default
func NewBackgroundRemover(runner *shell.Runner, path string) *BackgroundRemover {
	if path == "" {
		path = DefaultRembgPath()
	}
	if runner == nil {
		runner = shell.New(0)
	}
	return &BackgroundRemover{path: path, runner: runner}
}

// Tool describes the remover for inspection
func (r *BackgroundRemover) Tool() shell.Tool {
	return shell.Tool{Name: "rembg", Path: r.path, VersionFlag: "--version", ConfigKey: "tools.rembg"}
}

// Remove writes a PNG of inputPath with a transparent background to
// outputPath. A non-nil bg replaces the transparency.
func (r *BackgroundRemover) Remove(ctx context.Context, inputPath, outputPath string, bg color.Color) ([]byte, error) {
	_, err := r.runner.Run(ctx, shell.Command{Tool: "rembg", Path: r.path, Args: []string{"i", inputPath, outputPath}})
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("rembg produced no output: %w", err)
	}

	if bg == nil {
		return data, nil
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, Fill(img, bg), FormatPNG, 0); err != nil {
		return nil, err
	}

	log.Trace("[Imaging] filled background of %s", inputPath)
	return buf.Bytes(), nil
}
