package pdf

import (
	"errors"
	"fmt"
)

// ErrEmptyPageOrder is returned when a page order descriptor has no entries
var ErrEmptyPageOrder = errors.New("page order is empty")

// DocumentNotFoundError a page order entry names a file that was not uploaded
type DocumentNotFoundError struct {
	Entry    int // 0-based index of the offending entry
	FileName string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("entry %d: file not found: %s", e.Entry, e.FileName)
}

// PageOutOfRangeError a page order entry names a page the document does not have
type PageOutOfRangeError struct {
	Entry      int
	FileName   string
	PageNumber int
	PageCount  int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("entry %d: invalid page number %d for file %s (%d pages)", e.Entry, e.PageNumber, e.FileName, e.PageCount)
}

// MalformedDocumentError a source document could not be parsed
type MalformedDocumentError struct {
	Entry    int // -1 when the failure is not tied to a page order entry
	FileName string
	Err      error
}

func (e *MalformedDocumentError) Error() string {
	if e.Entry < 0 {
		return fmt.Sprintf("failed to read PDF %s: %v", e.FileName, e.Err)
	}
	return fmt.Sprintf("entry %d: failed to read PDF %s: %v", e.Entry, e.FileName, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// SerializationError the output document could not be written
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to write output PDF: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// InvalidRangeError a page range expression could not be parsed
type InvalidRangeError struct {
	Expr   string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid page range %q: %s", e.Expr, e.Reason)
}
