package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/allkit/docapi/archive"
	"github.com/allkit/docapi/imaging"
	"github.com/gin-gonic/gin"
)

// convertImages POST /tools/image/converter/convert
func (s *Service) convertImages(c *gin.Context) {
	extension := strings.ToLower(strings.TrimSpace(field(c, "output_format")))
	format, err := imaging.ParseFormat(extension)
	if err != nil {
		s.abort(c, invalid("%s", err.Error()))
		return
	}

	quality, err := intField(c, "quality", imaging.DefaultQuality, 1, 100)
	if err != nil {
		s.abort(c, err)
		return
	}

	scale, err := intField(c, "scale", 100, 1, 1000)
	if err != nil {
		s.abort(c, err)
		return
	}

	files, err := s.uploads(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	opts := imaging.Options{Format: format, Quality: quality, Scale: scale}
	entries := make([]archive.Entry, 0, len(files))
	for _, file := range files {
		if err := c.Request.Context().Err(); err != nil {
			s.abort(c, err)
			return
		}

		data, err := imaging.Convert(file.Data, opts)
		if err != nil {
			s.abort(c, fmt.Errorf("%s: %w", file.Name, err))
			return
		}
		entries = append(entries, archive.Entry{Name: file.Base() + "." + extension, Data: data})
	}
	s.attachZip(c, "converted_images.zip", entries)
}

// removeBackground POST /tools/image/bgremover/remove-background
func (s *Service) removeBackground(c *gin.Context) {
	bg, err := imaging.ParseColor(field(c, "bg_color"))
	if err != nil {
		s.abort(c, invalid("%s", err.Error()))
		return
	}

	files, err := s.uploads(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.abort(c, err)
		return
	}
	defer ws.Release()

	entries := make([]archive.Entry, 0, len(files))
	for _, file := range files {
		input, err := ws.StageBytes(file.Name, file.Data)
		if err != nil {
			s.abort(c, err)
			return
		}

		output := input + ".nobg.png"
		data, err := s.remover.Remove(c.Request.Context(), input, output, bg)
		if err != nil {
			s.abort(c, err)
			return
		}
		entries = append(entries, archive.Entry{Name: file.Base() + ".png", Data: data})
	}
	s.attachZip(c, "transparent-images.zip", entries)
}

// intField parses an optional integer field within [lo, hi]
func intField(c *gin.Context, name string, value int, lo int, hi int) (int, error) {
	raw := field(c, name)
	if raw == "" {
		return value, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, invalid("Field %s must be an integer between %d and %d", name, lo, hi)
	}
	return n, nil
}
