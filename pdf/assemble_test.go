package pdf

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	small  = PageSize{100, 200}
	medium = PageSize{300, 400}
	large  = PageSize{500, 600}
)

func fixtures(t *testing.T) []Document {
	return []Document{
		{Name: "a.pdf", Data: blankPDF(t, small, medium, large)},
		{Name: "b.pdf", Data: blankPDF(t, PageSize{612, 792})},
	}
}

func TestAssembleOrder(t *testing.T) {
	a := NewAssembler()
	order := []PageOrderEntry{
		{FileName: "a.pdf", PageNumber: 3},
		{FileName: "b.pdf", PageNumber: 1},
		{FileName: "a.pdf", PageNumber: 1},
		{FileName: "a.pdf", PageNumber: 1},
		{FileName: "a.pdf", PageNumber: 2},
	}

	data, err := a.Assemble(context.Background(), fixtures(t), order)
	require.NoError(t, err)
	assert.Equal(t, []PageSize{large, {612, 792}, small, small, medium}, pageSizes(t, data))
}

func TestAssembleScenario(t *testing.T) {
	a := NewAssembler()
	order := []PageOrderEntry{
		{FileName: "a.pdf", PageNumber: 2},
		{IsBlank: true},
		{FileName: "b.pdf", PageNumber: 1},
	}

	data, err := a.Assemble(context.Background(), fixtures(t), order)
	require.NoError(t, err)

	// the blank page takes the size of a.pdf page 2
	assert.Equal(t, []PageSize{medium, medium, {612, 792}}, pageSizes(t, data))
}

func TestAssembleSinglePage(t *testing.T) {
	a := NewAssembler()
	data, err := a.Assemble(context.Background(), fixtures(t), []PageOrderEntry{{FileName: "a.pdf", PageNumber: 3}})
	require.NoError(t, err)
	assert.Equal(t, []PageSize{large}, pageSizes(t, data))
}

func TestAssembleBlank(t *testing.T) {
	a := NewAssembler()

	t.Run("first", func(t *testing.T) {
		data, err := a.Assemble(context.Background(), nil, []PageOrderEntry{{IsBlank: true}, {IsBlank: true}})
		require.NoError(t, err)
		assert.Equal(t, []PageSize{A4, A4}, pageSizes(t, data))
	})

	t.Run("after page", func(t *testing.T) {
		order := []PageOrderEntry{
			{FileName: "a.pdf", PageNumber: 1},
			{IsBlank: true},
			{FileName: "a.pdf", PageNumber: 3},
			{IsBlank: true},
			{IsBlank: true},
		}
		data, err := a.Assemble(context.Background(), fixtures(t), order)
		require.NoError(t, err)
		assert.Equal(t, []PageSize{small, small, large, large, large}, pageSizes(t, data))
	})

	t.Run("ignores file fields", func(t *testing.T) {
		order := []PageOrderEntry{{FileName: "missing.pdf", PageNumber: 99, IsBlank: true}}
		data, err := a.Assemble(context.Background(), nil, order)
		require.NoError(t, err)
		assert.Equal(t, []PageSize{A4}, pageSizes(t, data))
	})
}

func TestAssembleDocumentNotFound(t *testing.T) {
	a := NewAssembler()
	order := []PageOrderEntry{
		{FileName: "a.pdf", PageNumber: 1},
		{FileName: "c.pdf", PageNumber: 1},
	}

	data, err := a.Assemble(context.Background(), fixtures(t), order)
	assert.Nil(t, data)

	var notFound *DocumentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "c.pdf", notFound.FileName)
	assert.Equal(t, 1, notFound.Entry)
	assert.Contains(t, err.Error(), "c.pdf")
}

func TestAssembleNameIsCaseSensitive(t *testing.T) {
	a := NewAssembler()
	_, err := a.Assemble(context.Background(), fixtures(t), []PageOrderEntry{{FileName: "A.pdf", PageNumber: 1}})

	var notFound *DocumentNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAssemblePageOutOfRange(t *testing.T) {
	a := NewAssembler()
	for _, n := range []int{0, -1, 4, 100} {
		data, err := a.Assemble(context.Background(), fixtures(t), []PageOrderEntry{
			{IsBlank: true},
			{FileName: "a.pdf", PageNumber: n},
		})
		assert.Nil(t, data)

		var outOfRange *PageOutOfRangeError
		require.ErrorAs(t, err, &outOfRange, "page %d", n)
		assert.Equal(t, 1, outOfRange.Entry)
		assert.Equal(t, "a.pdf", outOfRange.FileName)
		assert.Equal(t, n, outOfRange.PageNumber)
		assert.Equal(t, 3, outOfRange.PageCount)
	}
}

func TestAssembleMalformed(t *testing.T) {
	a := NewAssembler()
	docs := append(fixtures(t), Document{Name: "bad.pdf", Data: []byte("%PDF-1.4 garbage")})

	// an unreferenced document is never parsed
	data, err := a.Assemble(context.Background(), docs, []PageOrderEntry{{FileName: "b.pdf", PageNumber: 1}})
	require.NoError(t, err)
	assert.Len(t, pageSizes(t, data), 1)

	data, err = a.Assemble(context.Background(), docs, []PageOrderEntry{
		{FileName: "b.pdf", PageNumber: 1},
		{FileName: "bad.pdf", PageNumber: 1},
	})
	assert.Nil(t, data)

	var malformed *MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "bad.pdf", malformed.FileName)
	assert.Equal(t, 1, malformed.Entry)
	assert.Error(t, malformed.Unwrap())
}

func TestAssembleEmptyOrder(t *testing.T) {
	a := NewAssembler()
	_, err := a.Assemble(context.Background(), fixtures(t), nil)
	assert.ErrorIs(t, err, ErrEmptyPageOrder)

	_, err = a.Assemble(context.Background(), fixtures(t), []PageOrderEntry{})
	assert.ErrorIs(t, err, ErrEmptyPageOrder)
}

func TestAssembleDuplicateNames(t *testing.T) {
	a := NewAssembler()
	docs := []Document{
		{Name: "a.pdf", Data: blankPDF(t, small)},
		{Name: "a.pdf", Data: blankPDF(t, medium, large)},
	}

	data, err := a.Assemble(context.Background(), docs, []PageOrderEntry{{FileName: "a.pdf", PageNumber: 1}})
	require.NoError(t, err)
	assert.Equal(t, []PageSize{small}, pageSizes(t, data))

	_, err = a.Assemble(context.Background(), docs, []PageOrderEntry{{FileName: "a.pdf", PageNumber: 2}})
	var outOfRange *PageOutOfRangeError
	assert.ErrorAs(t, err, &outOfRange)
}

func TestAssembleIdempotent(t *testing.T) {
	a := NewAssembler()
	docs := fixtures(t)
	order := []PageOrderEntry{
		{FileName: "b.pdf", PageNumber: 1},
		{IsBlank: true},
		{FileName: "a.pdf", PageNumber: 2},
	}

	docs = append(docs, Document{Name: "c.pdf", Data: textPDF(t, medium, "C-1", "C-2")})
	order = append(order, PageOrderEntry{FileName: "c.pdf", PageNumber: 2})

	first, err := a.Assemble(context.Background(), docs, order)
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), docs, order)
	require.NoError(t, err)

	assert.Equal(t, pageSizes(t, first), pageSizes(t, second))
	assert.Equal(t, pageContents(t, first), pageContents(t, second))
}

func TestAssembleCopiesContent(t *testing.T) {
	a := NewAssembler()
	docs := []Document{
		{Name: "x.pdf", Data: textPDF(t, small, "X-1", "X-2", "X-3")},
		{Name: "y.pdf", Data: textPDF(t, large, "Y-1", "Y-2")},
	}
	order := []PageOrderEntry{
		{FileName: "y.pdf", PageNumber: 2},
		{FileName: "x.pdf", PageNumber: 3},
		{IsBlank: true},
		{FileName: "x.pdf", PageNumber: 1},
		{FileName: "y.pdf", PageNumber: 1},
	}

	data, err := a.Assemble(context.Background(), docs, order)
	require.NoError(t, err)

	show := func(marker string) string {
		return "BT /F1 12 Tf 10 10 Td (" + marker + ") Tj ET"
	}
	assert.Equal(t, []printed{
		{Content: show("Y-2"), Font: "Helvetica", Size: large},
		{Content: show("X-3"), Font: "Helvetica", Size: small},
		{Size: small},
		{Content: show("X-1"), Font: "Helvetica", Size: small},
		{Content: show("Y-1"), Font: "Helvetica", Size: large},
	}, pageContents(t, data))
}

func TestAssembleSinglePageKeepsInheritedAttributes(t *testing.T) {
	a := NewAssembler()
	docs := []Document{{Name: "x.pdf", Data: textPDF(t, medium, "X-1", "X-2")}}

	data, err := a.Assemble(context.Background(), docs, []PageOrderEntry{{FileName: "x.pdf", PageNumber: 2}})
	require.NoError(t, err)
	assert.Equal(t, []printed{{Content: "BT /F1 12 Tf 10 10 Td (X-2) Tj ET", Font: "Helvetica", Size: medium}}, pageContents(t, data))
}

func TestAssembleRepeatedPage(t *testing.T) {
	a := NewAssembler()
	body := strings.Repeat("REPEATED-CONTENT-", 4000)
	docs := []Document{{Name: "x.pdf", Data: textPDF(t, medium, body)}}

	once, err := a.Assemble(context.Background(), docs, []PageOrderEntry{{FileName: "x.pdf", PageNumber: 1}})
	require.NoError(t, err)

	order := make([]PageOrderEntry, 10)
	for i := range order {
		order[i] = PageOrderEntry{FileName: "x.pdf", PageNumber: 1}
	}
	repeated, err := a.Assemble(context.Background(), docs, order)
	require.NoError(t, err)

	pages := pageContents(t, repeated)
	require.Len(t, pages, 10)
	for _, p := range pages {
		assert.Contains(t, p.Content, body)
	}

	// the content stream is stored once
	assert.Less(t, len(repeated), 2*len(once))
}

func TestSourcePageCache(t *testing.T) {
	src, err := readSource(&Document{Name: "x.pdf", Data: textPDF(t, small, "X-1", "X-2")})
	require.NoError(t, err)

	first, err := src.page(2)
	require.NoError(t, err)
	second, err := src.page(2)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, src.pages, 1)
}

func TestAssembleDoesNotModifyInputs(t *testing.T) {
	a := NewAssembler()
	docs := fixtures(t)
	original := append([]byte(nil), docs[0].Data...)

	_, err := a.Assemble(context.Background(), docs, []PageOrderEntry{{FileName: "a.pdf", PageNumber: 1}, {FileName: "a.pdf", PageNumber: 2}})
	require.NoError(t, err)
	assert.Equal(t, original, docs[0].Data)
}

func TestAssembleCanceled(t *testing.T) {
	a := NewAssembler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Assemble(ctx, fixtures(t), []PageOrderEntry{{FileName: "a.pdf", PageNumber: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}
