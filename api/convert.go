package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/allkit/docapi/archive"
	"github.com/allkit/docapi/imaging"
	"github.com/allkit/docapi/office"
	"github.com/allkit/docapi/workspace"
	"github.com/gin-gonic/gin"
	"github.com/yaoapp/kun/log"
)

// MaxWordFiles the most files a single Word conversion accepts
const MaxWordFiles = 10

// converter turns one upload into PDF bytes
type converter func(ctx context.Context, ws *workspace.Workspace, file upload) ([]byte, error)

// convertToPDF POST /api/convert-to-pdf
func (s *Service) convertToPDF(c *gin.Context) {
	kind := strings.ToLower(field(c, "type"))
	if kind == "" {
		s.abort(c, invalid("Field type is required"))
		return
	}

	files, err := s.uploads(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	var convert converter
	if kind == "image" {
		convert = imageToPDF
	} else {
		doc, err := office.ParseKind(kind)
		if err != nil {
			s.abort(c, invalid("Invalid type %q. Supported types: image, word, powerpoint, excel", kind))
			return
		}
		for _, file := range files {
			if !doc.Accepts(file.Name) {
				s.abort(c, invalid("File %s is not a supported %s document", file.Name, doc))
				return
			}
		}
		convert = s.officeToPDF
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.abort(c, err)
		return
	}
	defer ws.Release()

	entries := make([]archive.Entry, 0, len(files))
	for _, file := range files {
		data, err := convert(c.Request.Context(), ws, file)
		if err != nil {
			s.abort(c, err)
			return
		}
		entries = append(entries, archive.Entry{Name: file.Base() + ".pdf", Data: data})
	}

	if len(entries) == 1 {
		attachment(c, entries[0].Name, mimePDF, entries[0].Data)
		return
	}
	s.attachZip(c, "converted_pdfs.zip", entries)
}

// wordToPDF POST /api/pdf/from/word
// Unsupported or failing files are reported and skipped.
func (s *Service) wordToPDF(c *gin.Context) {
	files, err := s.uploads(c)
	if err != nil {
		s.abort(c, err)
		return
	}

	if len(files) > MaxWordFiles {
		s.abort(c, invalid("Maximum %d files allowed per request", MaxWordFiles))
		return
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.abort(c, err)
		return
	}
	defer ws.Release()

	ctx := c.Request.Context()
	failures := []string{}
	entries := []archive.Entry{}
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Name))
		if ext != ".doc" && ext != ".docx" {
			failures = append(failures, fmt.Sprintf("Unsupported file: %s", file.Name))
			continue
		}

		data, err := s.officeToPDF(ctx, ws, file)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				s.abort(c, err)
				return
			}
			_, detail := classify(err, s.option.Production)
			log.Error("[API] word to pdf %s: %s", file.Name, err.Error())
			failures = append(failures, fmt.Sprintf("Error processing %s: %s", file.Name, detail))
			continue
		}
		entries = append(entries, archive.Entry{Name: file.Base() + ".pdf", Data: data})
	}

	switch len(entries) {
	case 0:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"detail": "No valid Word files were converted.",
			"errors": failures,
		})
	case 1:
		attachment(c, entries[0].Name, mimePDF, entries[0].Data)
	default:
		s.attachZip(c, "converted_pdfs.zip", entries)
	}
}

func (s *Service) officeToPDF(ctx context.Context, ws *workspace.Workspace, file upload) ([]byte, error) {
	input, err := ws.StageBytes(file.Name, file.Data)
	if err != nil {
		return nil, err
	}

	outDir, err := ws.Mkdir("pdf-" + filepath.Base(filepath.Dir(input)))
	if err != nil {
		return nil, err
	}

	output, err := s.office.ToPDF(ctx, input, outDir)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(output)
}

func imageToPDF(ctx context.Context, ws *workspace.Workspace, file upload) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := imaging.ToPDF(file.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Name, err)
	}
	return data, nil
}
