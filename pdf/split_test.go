package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRanges(t *testing.T) {
	tests := []struct {
		expr string
		want []PageRange
	}{
		{"1", []PageRange{{1, 1}}},
		{"1-3", []PageRange{{1, 3}}},
		{"1-3,5,7-9", []PageRange{{1, 3}, {5, 5}, {7, 9}}},
		{"3-1", []PageRange{{3, 1}}},
		{" 2 - 4 , 6 ", []PageRange{{2, 4}, {6, 6}}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParsePageRanges(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageRangesInvalid(t *testing.T) {
	for _, expr := range []string{"", "a", "1-", "-3", "1,,2", "1-2-3", "0", "0-2", "1;2"} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParsePageRanges(expr)
			var invalid *InvalidRangeError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestPageRangePages(t *testing.T) {
	assert.Equal(t, []int{2}, PageRange{2, 2}.Pages())
	assert.Equal(t, []int{1, 2, 3}, PageRange{1, 3}.Pages())
	assert.Equal(t, []int{3, 2, 1}, PageRange{3, 1}.Pages())
	assert.Equal(t, "1-3", PageRange{1, 3}.String())
	assert.Equal(t, "5", PageRange{5, 5}.String())
}

func TestExtract(t *testing.T) {
	a := NewAssembler()
	doc := Document{Name: "a.pdf", Data: blankPDF(t, small, medium, large)}

	data, err := a.Extract(context.Background(), doc, []PageRange{{3, 2}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []PageSize{large, medium, small}, pageSizes(t, data))

	_, err = a.Extract(context.Background(), doc, []PageRange{{2, 4}})
	var outOfRange *PageOutOfRangeError
	assert.ErrorAs(t, err, &outOfRange)
}

func TestSplitRanges(t *testing.T) {
	a := NewAssembler()
	doc := Document{Name: "report.pdf", Data: blankPDF(t, small, medium, large)}

	parts, err := a.SplitRanges(context.Background(), doc, []PageRange{{1, 2}, {3, 3}})
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, "report_1-2.pdf", parts[0].Name)
	assert.Equal(t, []PageSize{small, medium}, pageSizes(t, parts[0].Data))
	assert.Equal(t, "report_3.pdf", parts[1].Name)
	assert.Equal(t, []PageSize{large}, pageSizes(t, parts[1].Data))
}

func TestExtractRangePastLastPage(t *testing.T) {
	a := NewAssembler()
	doc := Document{Name: "a.pdf", Data: blankPDF(t, small, medium, large)}

	tests := []struct {
		name   string
		ranges []PageRange
		entry  int
		page   int
	}{
		{"huge end", []PageRange{{1, 2000000000}}, 0, 2000000000},
		{"huge start", []PageRange{{2000000000, 1}}, 0, 2000000000},
		{"second range", []PageRange{{1, 2}, {3, 9}}, 1, 9},
		{"zero", []PageRange{{0, 2}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Extract(context.Background(), doc, tt.ranges)
			var outOfRange *PageOutOfRangeError
			require.ErrorAs(t, err, &outOfRange)
			assert.Equal(t, tt.entry, outOfRange.Entry)
			assert.Equal(t, tt.page, outOfRange.PageNumber)
			assert.Equal(t, 3, outOfRange.PageCount)

			_, err = a.SplitRanges(context.Background(), doc, tt.ranges)
			assert.ErrorAs(t, err, &outOfRange)
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	a := NewAssembler()
	_, err := a.Extract(context.Background(), Document{Name: "bad.pdf", Data: []byte("not a pdf")}, []PageRange{{1, 1}})

	var malformed *MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, -1, malformed.Entry)
	assert.Equal(t, "bad.pdf", malformed.FileName)
}
