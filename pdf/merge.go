package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/yaoapp/kun/log"
)

// ErrTooFewDocuments is returned when a merge has less than two inputs
var ErrTooFewDocuments = errors.New("at least two PDF files are required")

// Merge concatenates all pages of docs in upload order
func Merge(ctx context.Context, docs []Document) ([]byte, error) {
	if len(docs) < 2 {
		return nil, ErrTooFewDocuments
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	readers := make([]io.ReadSeeker, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := api.Validate(bytes.NewReader(doc.Data), conf); err != nil {
			return nil, &MalformedDocumentError{Entry: -1, FileName: doc.Name, Err: err}
		}
		readers[i] = bytes.NewReader(doc.Data)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, &SerializationError{Err: err}
	}

	log.Trace("[PDF] merged %d documents", len(docs))
	return out.Bytes(), nil
}
