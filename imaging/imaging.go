package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // decode only
)

// ErrDecode is returned when an upload is not a supported image
var ErrDecode = errors.New("unsupported or corrupt image")

// ErrTooLarge is returned when an image, before or after scaling, has more than MaxPixels pixels
var ErrTooLarge = errors.New("image is too large")

// MaxPixels caps the pixel count of decoded and resized images
var MaxPixels = 100_000_000

// DefaultQuality the JPEG quality used when none is given
const DefaultQuality = 80

// Format an encodable image format
type Format string

const (
	// FormatPNG PNG
	FormatPNG Format = "png"
	// FormatJPEG JPEG
	FormatJPEG Format = "jpeg"
	// FormatGIF GIF
	FormatGIF Format = "gif"
	// FormatBMP BMP
	FormatBMP Format = "bmp"
	// FormatTIFF TIFF
	FormatTIFF Format = "tiff"
)

// ParseFormat parses an output format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return "", fmt.Errorf("webp can be read but not written")
	default:
		return "", fmt.Errorf("unsupported output format %q", name)
	}
}

// ContentType returns the MIME type
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Options image conversion options
type Options struct {
	Format  Format
	Quality int // 1-100, JPEG only
	Scale   int // percent, 100 keeps the size
}

// Decode decodes any supported image. The header is read first and images
// over MaxPixels are rejected before any pixel buffer is allocated.
func Decode(data []byte) (image.Image, string, error) {
	if _, err := DecodeConfig(data); err != nil {
		return nil, "", err
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, name, nil
}

// DecodeConfig reads the image header and checks its dimensions
func DecodeConfig(data []byte) (string, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := checkPixels(cfg.Width, cfg.Height); err != nil {
		return "", err
	}
	return name, nil
}

// scaled returns the dimensions Resize produces
func scaled(width, height, percent int) (int, int) {
	if percent <= 0 || percent == 100 {
		return width, height
	}
	return max(1, width*percent/100), max(1, height*percent/100)
}

func checkPixels(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width > MaxPixels/height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, width, height, MaxPixels)
	}
	return nil
}

// Resize scales img by percent
func Resize(img image.Image, percent int) image.Image {
	if percent <= 0 || percent == 100 {
		return img
	}

	bounds := img.Bounds()
	width, height := scaled(bounds.Dx(), bounds.Dy(), percent)

	resized := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
	return resized
}

// Fill paints img over a solid background
func Fill(img image.Image, bg color.Color) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Over)
	return out
}

// Encode writes img in the given format
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultQuality
		}
		// JPEG has no alpha channel
		return jpeg.Encode(w, Fill(img, color.White), &jpeg.Options{Quality: quality})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format: %s", format)
	}
}

// Convert decodes data, scales it and encodes it with opts
func Convert(data []byte, opts Options) ([]byte, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if err := checkPixels(scaled(bounds.Dx(), bounds.Dy(), opts.Scale)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, Resize(img, opts.Scale), opts.Format, opts.Quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
