package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	docs := []Document{
		{Name: "a.pdf", Data: blankPDF(t, small, medium)},
		{Name: "b.pdf", Data: blankPDF(t, large)},
	}

	data, err := Merge(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, []PageSize{small, medium, large}, pageSizes(t, data))
}

func TestMergeTooFew(t *testing.T) {
	_, err := Merge(context.Background(), []Document{{Name: "a.pdf", Data: blankPDF(t, small)}})
	assert.ErrorIs(t, err, ErrTooFewDocuments)
}

func TestMergeMalformed(t *testing.T) {
	docs := []Document{
		{Name: "a.pdf", Data: blankPDF(t, small)},
		{Name: "bad.pdf", Data: []byte("garbage")},
	}

	_, err := Merge(context.Background(), docs)
	var malformed *MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "bad.pdf", malformed.FileName)
}
