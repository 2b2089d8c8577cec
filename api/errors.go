package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/allkit/docapi/imaging"
	"github.com/allkit/docapi/pdf"
	"github.com/allkit/docapi/shell"
	"github.com/gin-gonic/gin"
	goerrors "github.com/go-errors/errors"
	"github.com/yaoapp/kun/log"
)

// ErrInvalidRequest the request is missing fields or carries invalid values
var ErrInvalidRequest = errors.New("invalid request")

// StatusClientClosed the client went away before the response was written
const StatusClientClosed = 499

// invalid returns an ErrInvalidRequest with a caller facing message
func invalid(format string, args ...interface{}) error {
	return &requestError{message: fmt.Sprintf(format, args...)}
}

type requestError struct {
	message string
}

func (e *requestError) Error() string { return e.message }

func (e *requestError) Is(target error) bool { return target == ErrInvalidRequest }

// classify maps an error to a status code and a detail message
func classify(err error, production bool) (int, string) {
	var (
		notFound   *pdf.DocumentNotFoundError
		outOfRange *pdf.PageOutOfRangeError
		malformed  *pdf.MalformedDocumentError
		badRange   *pdf.InvalidRangeError
		serialize  *pdf.SerializationError
		exit       *shell.ExitError
	)

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pdf.ErrEmptyPageOrder),
		errors.Is(err, pdf.ErrTooFewDocuments),
		errors.Is(err, imaging.ErrDecode),
		errors.Is(err, imaging.ErrTooLarge),
		errors.As(err, &notFound),
		errors.As(err, &outOfRange),
		errors.As(err, &malformed),
		errors.As(err, &badRange):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, shell.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Conversion timed out"

	case errors.Is(err, context.Canceled):
		return StatusClientClosed, "Request canceled"

	case errors.As(err, &serialize):
		if production {
			return http.StatusInternalServerError, "Failed to write output PDF"
		}
		return http.StatusInternalServerError, err.Error()

	case errors.As(err, &exit):
		if production {
			return http.StatusInternalServerError, fmt.Sprintf("Conversion failed: %s exited with an error", exit.Tool)
		}
		return http.StatusInternalServerError, fmt.Sprintf("Conversion failed: %s: %s", err.Error(), exit.Output)

	case errors.Is(err, shell.ErrNotFound):
		if production {
			return http.StatusInternalServerError, "Conversion engine is not available"
		}
		return http.StatusInternalServerError, err.Error()
	}

	if production {
		return http.StatusInternalServerError, "Internal server error"
	}
	return http.StatusInternalServerError, fmt.Sprintf("Internal server error: %s", err.Error())
}

// abort writes the error response
func (s *Service) abort(c *gin.Context, err error) {
	code, detail := classify(err, s.option.Production)
	if code >= http.StatusInternalServerError {
		log.With(log.F{"method": c.Request.Method, "path": c.Request.URL.Path}).Error("[API] %s", err.Error())
		log.Trace("[API] %s", goerrors.Wrap(err, 1).ErrorStack())
	} else {
		log.Debug("[API] %s %s %d %s", c.Request.Method, c.Request.URL.Path, code, detail)
	}
	c.AbortWithStatusJSON(code, gin.H{"detail": detail})
}
