package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// A4 is the size used for a blank page when there is no preceding page
var A4 = PageSize{Width: 595, Height: 842}

// WriteBlank writes a PDF made of content-free pages with the given sizes.
func WriteBlank(w io.Writer, sizes ...PageSize) error {
	if len(sizes) == 0 {
		return errors.New("at least one page size is required")
	}

	var buf bytes.Buffer
	offsets := make([]int, 0, len(sizes)+2)
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	kids := make([]string, len(sizes))
	for i := range sizes {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}

	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", joinRefs(kids), len(sizes)))
	for _, size := range sizes {
		if size.Width <= 0 || size.Height <= 0 {
			return fmt.Errorf("invalid page size %gx%g", size.Width, size.Height)
		}
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Resources << >> >>",
			formatNumber(size.Width), formatNumber(size.Height)))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	_, err := w.Write(buf.Bytes())
	return err
}

func joinRefs(refs []string) string {
	var b bytes.Buffer
	for i, ref := range refs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(ref)
	}
	return b.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
