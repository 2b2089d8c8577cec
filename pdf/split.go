package pdf

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var rangeExpr = regexp.MustCompile(`^(\d+(-\d+)?)(,\d+(-\d+)?)*$`)

// ParsePageRanges parses a page range expression like "1-3,5,9-7".
// A range whose start is greater than its end selects pages in descending order.
func ParsePageRanges(expr string) ([]PageRange, error) {
	expr = strings.ReplaceAll(expr, " ", "")
	if expr == "" {
		return nil, &InvalidRangeError{Expr: expr, Reason: "empty"}
	}

	if !rangeExpr.MatchString(expr) {
		return nil, &InvalidRangeError{Expr: expr, Reason: "expected a list like 1-3,5,7-9"}
	}

	ranges := []PageRange{}
	for _, part := range strings.Split(expr, ",") {
		bounds := strings.SplitN(part, "-", 2)
		from, err := strconv.Atoi(bounds[0])
		if err != nil {
			return nil, &InvalidRangeError{Expr: expr, Reason: err.Error()}
		}

		to := from
		if len(bounds) == 2 {
			to, err = strconv.Atoi(bounds[1])
			if err != nil {
				return nil, &InvalidRangeError{Expr: expr, Reason: err.Error()}
			}
		}

		if from < 1 || to < 1 {
			return nil, &InvalidRangeError{Expr: expr, Reason: "pages start at 1"}
		}
		ranges = append(ranges, PageRange{From: from, To: to})
	}

	return ranges, nil
}

// Pages expands the range into page numbers
func (r PageRange) Pages() []int {
	step := 1
	if r.From > r.To {
		step = -1
	}

	pages := make([]int, 0, abs(r.To-r.From)+1)
	for n := r.From; ; n += step {
		pages = append(pages, n)
		if n == r.To {
			break
		}
	}
	return pages
}

func (r PageRange) String() string {
	if r.From == r.To {
		return strconv.Itoa(r.From)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// Extract copies the pages selected by ranges into a single PDF
func (a *Assembler) Extract(ctx context.Context, doc Document, ranges []PageRange) ([]byte, error) {
	src, err := checkRanges(&doc, ranges)
	if err != nil {
		return nil, err
	}

	index := map[string]*Document{doc.Name: &doc}
	return a.assemble(ctx, index, map[string]*source{doc.Name: src}, rangeOrder(doc.Name, ranges))
}

// SplitRanges produces one PDF per range, named <base>_<from>-<to>.pdf
func (a *Assembler) SplitRanges(ctx context.Context, doc Document, ranges []PageRange) ([]Part, error) {
	src, err := checkRanges(&doc, ranges)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(doc.Name, ".pdf")
	base = strings.TrimSuffix(base, ".PDF")

	index := map[string]*Document{doc.Name: &doc}
	sources := map[string]*source{doc.Name: src}

	parts := make([]Part, 0, len(ranges))
	for _, r := range ranges {
		data, err := a.assemble(ctx, index, sources, rangeOrder(doc.Name, []PageRange{r}))
		if err != nil {
			return nil, err
		}
		parts = append(parts, Part{Name: fmt.Sprintf("%s_%s.pdf", base, r), Data: data})
	}
	return parts, nil
}

// checkRanges parses doc and rejects any range past its last page. Ranges are
// only expanded into page numbers once they are known to fit.
func checkRanges(doc *Document, ranges []PageRange) (*source, error) {
	src, err := readSource(doc)
	if err != nil {
		return nil, &MalformedDocumentError{Entry: -1, FileName: doc.Name, Err: err}
	}

	for i, r := range ranges {
		first, last := r.From, r.To
		if first > last {
			first, last = last, first
		}

		page := 0
		switch {
		case first < 1:
			page = first
		case last > src.pageCount:
			page = last
		default:
			continue
		}
		return nil, &PageOutOfRangeError{Entry: i, FileName: doc.Name, PageNumber: page, PageCount: src.pageCount}
	}
	return src, nil
}

func rangeOrder(name string, ranges []PageRange) []PageOrderEntry {
	order := []PageOrderEntry{}
	for _, r := range ranges {
		for _, n := range r.Pages() {
			order = append(order, PageOrderEntry{FileName: name, PageNumber: n})
		}
	}
	return order
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
