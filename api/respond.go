package api

import (
	"mime"
	"net/http"

	"github.com/allkit/docapi/archive"
	"github.com/gin-gonic/gin"
)

const (
	mimePDF = "application/pdf"
	mimeZip = "application/zip"
)

// attachment sends data as a downloadable file
func attachment(c *gin.Context, name string, contentType string, data []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, contentType, data)
}

// attachZip sends entries as a ZIP archive
func (s *Service) attachZip(c *gin.Context, name string, entries []archive.Entry) {
	data, err := archive.Bytes(entries)
	if err != nil {
		s.abort(c, err)
		return
	}
	attachment(c, name, mimeZip, data)
}
