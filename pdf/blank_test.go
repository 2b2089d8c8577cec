package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBlank(t *testing.T) {
	data := blankPDF(t, A4, PageSize{612, 792}, PageSize{841.89, 595.28})
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.True(t, bytes.HasSuffix(data, []byte("%%EOF\n")))
	assert.Equal(t, []PageSize{A4, {612, 792}, {841.89, 595.28}}, pageSizes(t, data))
}

func TestWriteBlankInvalid(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteBlank(&buf))
	assert.Error(t, WriteBlank(&buf, PageSize{0, 100}))
	assert.Error(t, WriteBlank(&buf, PageSize{100, -1}))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "595", formatNumber(595))
	assert.Equal(t, "841.89", formatNumber(841.89))
	require.Equal(t, "1 0 R 2 0 R", joinRefs([]string{"1 0 R", "2 0 R"}))
}
