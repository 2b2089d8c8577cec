package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/allkit/docapi/archive"
	"github.com/allkit/docapi/pdf"
	"github.com/allkit/docapi/shell"
	"github.com/allkit/docapi/workspace"
	"github.com/gin-gonic/gin"
	"github.com/yaoapp/kun/log"
)

// organize POST /api/pdf/organize-pdf
func (s *Service) organize(c *gin.Context) {
	files, err := s.uploads(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	order, err := parsePageOrder(c.PostForm("pageOrder"))
	if err != nil {
		s.abort(c, err)
		return
	}

	data, err := s.assembler.Assemble(c.Request.Context(), documents(files), order)
	if err != nil {
		s.abort(c, err)
		return
	}

	log.Info("[API] organized %d pages from %d files", len(order), len(files))
	attachment(c, "organized.pdf", mimePDF, data)
}

// merge POST /tools/pdf/merge-pdf
func (s *Service) merge(c *gin.Context) {
	files, err := s.uploads(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	if err := requirePDF(files...); err != nil {
		s.abort(c, err)
		return
	}

	data, err := pdf.Merge(c.Request.Context(), documents(files))
	if err != nil {
		s.abort(c, err)
		return
	}
	attachment(c, "merged.pdf", mimePDF, data)
}

// compress POST /tools/pdf/compress-pdf
func (s *Service) compress(c *gin.Context) {
	preset, err := pdf.ParsePreset(field(c, "preset"))
	if err != nil {
		s.abort(c, invalid("%s", err.Error()))
		return
	}

	files, err := s.uploads(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	if err := requirePDF(files...); err != nil {
		s.abort(c, err)
		return
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.abort(c, err)
		return
	}
	defer ws.Release()

	out, err := ws.Mkdir("out")
	if err != nil {
		s.abort(c, err)
		return
	}

	ctx := c.Request.Context()
	entries := []archive.Entry{}
	var last error
	for i, file := range files {
		input, err := ws.StageBytes(file.Name, file.Data)
		if err != nil {
			s.abort(c, err)
			return
		}

		output := filepath.Join(out, fmt.Sprintf("%03d.pdf", i+1))
		if err := s.distiller.Compress(ctx, input, output, preset); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, shell.ErrNotFound) {
				s.abort(c, err)
				return
			}
			log.Warn("[API] compress %s (#%d): %s", file.Name, i+1, err.Error())
			last = err
			continue
		}

		data, err := os.ReadFile(output)
		if err != nil {
			s.abort(c, err)
			return
		}
		entries = append(entries, archive.Entry{Name: "compressed_" + workspace.SafeName(file.Name), Data: data})
	}

	if len(entries) == 0 {
		s.abort(c, last)
		return
	}
	s.attachZip(c, "compressed_pdfs.zip", entries)
}

// split POST /api/pdf/split
func (s *Service) split(c *gin.Context) {
	file, err := s.single(c, "file")
	if err != nil {
		s.abort(c, err)
		return
	}

	if err := requirePDF(file); err != nil {
		s.abort(c, err)
		return
	}

	expr := field(c, "page_ranges")
	if expr == "" {
		s.abort(c, invalid("Field page_ranges is required"))
		return
	}

	ranges, err := pdf.ParsePageRanges(expr)
	if err != nil {
		s.abort(c, err)
		return
	}

	doc := pdf.Document{Name: file.Name, Data: file.Data}
	switch mode := field(c, "mode"); mode {
	case "", "extract":
		data, err := s.assembler.Extract(c.Request.Context(), doc, ranges)
		if err != nil {
			s.abort(c, err)
			return
		}
		attachment(c, "split.pdf", mimePDF, data)

	case "files":
		parts, err := s.assembler.SplitRanges(c.Request.Context(), doc, ranges)
		if err != nil {
			s.abort(c, err)
			return
		}
		entries := make([]archive.Entry, len(parts))
		for i, part := range parts {
			entries[i] = archive.Entry{Name: part.Name, Data: part.Data}
		}
		s.attachZip(c, "split_pdfs.zip", entries)

	default:
		s.abort(c, invalid("Invalid mode %q, expected extract or files", mode))
	}
}

// pdfToAny POST /api/pdf/pdf-to-any
func (s *Service) pdfToAny(c *gin.Context) {
	format, err := pdf.ParseExportFormat(field(c, "output_type"))
	if err != nil {
		s.abort(c, invalid("Invalid output type. Supported types: image, word, excel, powerpoint"))
		return
	}

	file, err := s.single(c, "file")
	if err != nil {
		s.abort(c, err)
		return
	}

	if err := requirePDF(file); err != nil {
		s.abort(c, err)
		return
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.abort(c, err)
		return
	}
	defer ws.Release()

	input, err := ws.StageBytes(file.Name, file.Data)
	if err != nil {
		s.abort(c, err)
		return
	}

	workDir, err := ws.Mkdir("export")
	if err != nil {
		s.abort(c, err)
		return
	}

	artifact, err := s.exporter.Export(c.Request.Context(), input, workDir, format)
	if err != nil {
		s.abort(c, err)
		return
	}
	attachment(c, artifact.Name, artifact.ContentType, artifact.Data)
}

// documents keys uploads by their declared file name
func documents(files []upload) []pdf.Document {
	docs := make([]pdf.Document, len(files))
	for i, file := range files {
		docs[i] = pdf.Document{Name: file.Name, Data: file.Data}
	}
	return docs
}
