package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/allkit/docapi/workspace"
	"github.com/gin-gonic/gin"
)

// upload a file read from a multipart request
type upload struct {
	Name string
	Data []byte
}

// Base returns the file name without its extension
func (u upload) Base() string {
	name := workspace.SafeName(u.Name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// uploads reads every file of the "files" field, in upload order
func (s *Service) uploads(c *gin.Context) ([]upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, invalid("Invalid multipart form: %s", err.Error())
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["files[]"]
	}

	if len(headers) == 0 {
		return nil, invalid("No files uploaded")
	}

	res := make([]upload, 0, len(headers))
	for _, header := range headers {
		file, err := s.read(header)
		if err != nil {
			return nil, err
		}
		res = append(res, file)
	}
	return res, nil
}

// single reads the one file of the given field
func (s *Service) single(c *gin.Context, field string) (upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return upload{}, invalid("Field %s is required", field)
	}
	return s.read(header)
}

func (s *Service) read(header *multipart.FileHeader) (upload, error) {
	limit := s.option.MaxUploadSize
	if limit > 0 && header.Size > limit {
		return upload{}, invalid("File %s size must be less than %s", header.Filename, formatSize(limit))
	}

	file, err := header.Open()
	if err != nil {
		return upload{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	reader := io.Reader(file)
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return upload{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}

	if limit > 0 && int64(len(data)) > limit {
		return upload{}, invalid("File %s size must be less than %s", header.Filename, formatSize(limit))
	}
	return upload{Name: header.Filename, Data: data}, nil
}

// requirePDF fails when any upload is not a PDF
func requirePDF(files ...upload) error {
	for _, file := range files {
		if !workspace.IsPDF(file.Data) {
			return invalid("File %s is not a PDF", file.Name)
		}
	}
	return nil
}

// field returns the first non empty value of the query or the form
func field(c *gin.Context, name string) string {
	if value := strings.TrimSpace(c.Query(name)); value != "" {
		return value
	}
	return strings.TrimSpace(c.PostForm(name))
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<30 && size%(1<<30) == 0:
		return fmt.Sprintf("%dGB", size>>30)
	case size >= 1<<20 && size%(1<<20) == 0:
		return fmt.Sprintf("%dMB", size>>20)
	case size >= 1<<10 && size%(1<<10) == 0:
		return fmt.Sprintf("%dKB", size>>10)
	}
	return fmt.Sprintf("%dB", size)
}
