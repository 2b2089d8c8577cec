package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/yaoapp/kun/log"
)

// Assembler builds one PDF from pages of several uploaded PDFs and
// synthesized blank pages. An Assembler holds no per-request state and is
// safe for concurrent use.
type Assembler struct{}

// NewAssembler create a new assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// source a lazily parsed uploaded document. Extracted pages are kept so an
// entry repeating a page reuses the same bytes.
type source struct {
	ctx       *model.Context
	pageCount int
	pages     map[int]*page
}

// page one page of the output document, serialized on its own
type page struct {
	data []byte
	size PageSize
}

// Assemble returns a PDF whose pages follow order exactly. Documents are
// matched by exact name, the first uploaded document wins on duplicates, and
// a document is only parsed once an entry references it. Any failing entry
// aborts the assembly and nothing is returned.
func (a *Assembler) Assemble(ctx context.Context, docs []Document, order []PageOrderEntry) ([]byte, error) {
	if len(order) == 0 {
		return nil, ErrEmptyPageOrder
	}

	index := make(map[string]*Document, len(docs))
	for i := range docs {
		if _, has := index[docs[i].Name]; !has {
			index[docs[i].Name] = &docs[i]
		}
	}

	return a.assemble(ctx, index, map[string]*source{}, order)
}

// assemble builds the output from already indexed documents. sources may be
// seeded with documents the caller has parsed.
func (a *Assembler) assemble(ctx context.Context, index map[string]*Document, sources map[string]*source, order []PageOrderEntry) ([]byte, error) {
	pages := make([]page, 0, len(order))
	for i, entry := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsBlank {
			size := A4
			if len(pages) > 0 {
				size = pages[len(pages)-1].size
			}

			var buf bytes.Buffer
			if err := WriteBlank(&buf, size); err != nil {
				return nil, &SerializationError{Err: err}
			}
			pages = append(pages, page{data: buf.Bytes(), size: size})
			continue
		}

		doc, has := index[entry.FileName]
		if !has {
			return nil, &DocumentNotFoundError{Entry: i, FileName: entry.FileName}
		}

		src, has := sources[doc.Name]
		if !has {
			var err error
			src, err = readSource(doc)
			if err != nil {
				return nil, &MalformedDocumentError{Entry: i, FileName: doc.Name, Err: err}
			}
			sources[doc.Name] = src
		}

		if entry.PageNumber < 1 || entry.PageNumber > src.pageCount {
			return nil, &PageOutOfRangeError{
				Entry:      i,
				FileName:   doc.Name,
				PageNumber: entry.PageNumber,
				PageCount:  src.pageCount,
			}
		}

		p, err := src.page(entry.PageNumber)
		if err != nil {
			return nil, &MalformedDocumentError{Entry: i, FileName: doc.Name, Err: err}
		}
		pages = append(pages, *p)
	}

	data, err := concat(pages)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}

	log.Trace("[PDF] assembled %d pages from %d documents", len(pages), len(sources))
	return data, nil
}

// readSource parses and validates a document
func readSource(doc *Document) (*source, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc.Data), conf)
	if err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}
	return &source{ctx: ctx, pageCount: ctx.PageCount, pages: map[int]*page{}}, nil
}

// page copies a single page into a standalone PDF
func (s *source) page(pageNr int) (*page, error) {
	if p, has := s.pages[pageNr]; has {
		return p, nil
	}

	size, err := pageSize(s.ctx, pageNr)
	if err != nil {
		return nil, err
	}

	r, err := api.ExtractPage(s.ctx, pageNr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract page %d: %w", pageNr, err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", pageNr, err)
	}

	p := &page{data: data, size: size}
	s.pages[pageNr] = p
	return p, nil
}

// pageSize returns the (inherited) MediaBox size of a page
func pageSize(ctx *model.Context, pageNr int) (PageSize, error) {
	_, _, inh, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return PageSize{}, err
	}

	box := inh.MediaBox
	if box == nil {
		box = inh.CropBox
	}
	if box == nil {
		return PageSize{}, fmt.Errorf("page %d has no MediaBox", pageNr)
	}

	return PageSize{Width: box.Width(), Height: box.Height()}, nil
}

// concat joins single page PDFs in order
func concat(pages []page) ([]byte, error) {
	if len(pages) == 1 {
		return pages[0].data, nil
	}

	readers := make([]io.ReadSeeker, len(pages))
	for i := range pages {
		readers[i] = bytes.NewReader(pages[i].data)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.OptimizeDuplicateContentStreams = true

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
