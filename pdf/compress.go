package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/yaoapp/kun/log"
)

// Preset a Ghostscript compression level
type Preset string

const (
	// PresetExtreme smallest output, screen resolution images
	PresetExtreme Preset = "extreme"
	// PresetRecommended ebook quality
	PresetRecommended Preset = "recommended"
	// PresetLess printer quality
	PresetLess Preset = "less"
)

// ParsePreset parses a preset name, the empty string selects PresetRecommended
func ParsePreset(name string) (Preset, error) {
	switch Preset(name) {
	case "":
		return PresetRecommended, nil
	case PresetExtreme, PresetRecommended, PresetLess:
		return Preset(name), nil
	default:
		return "", fmt.Errorf("unknown compression preset %q", name)
	}
}

// Settings returns the -dPDFSETTINGS value of the preset
func (p Preset) Settings() string {
	switch p {
	case PresetExtreme:
		return "/screen"
	case PresetLess:
		return "/printer"
	default:
		return "/ebook"
	}
}

// Distiller compresses PDFs with Ghostscript
type Distiller struct {
	cmd Command
}

// NewDistiller create a new distiller
func NewDistiller(cmd Command) *Distiller {
	return &Distiller{cmd: cmd}
}

// Compress writes a compressed copy of input to output
func (d *Distiller) Compress(ctx context.Context, input, output string, preset Preset) error {
	if err := d.cmd.Distill(ctx, input, output, preset.Settings()); err != nil {
		return err
	}

	stat, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("ghostscript produced no output: %w", err)
	}

	log.With(log.F{"input": input, "preset": string(preset), "size": stat.Size()}).Trace("[PDF] compressed")
	return nil
}
