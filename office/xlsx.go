package office

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const nsSpreadsheetML = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"

// SheetName the name of the single worksheet written by WriteXlsx
const SheetName = "PDF Content"

type worksheet struct {
	XMLName xml.Name `xml:"worksheet"`
	NS      string   `xml:"xmlns,attr,omitempty"`
	Rows    []row    `xml:"sheetData>row"`
}

type row struct {
	R     int    `xml:"r,attr"`
	Cells []cell `xml:"c"`
}

type cell struct {
	R      string      `xml:"r,attr"`
	T      string      `xml:"t,attr"`
	Inline *inlineText `xml:"is"`
}

type inlineText struct {
	T string `xml:"t"`
}

// WriteXlsx writes a workbook with one sheet holding rows. Empty rows keep
// their position.
func WriteXlsx(w io.Writer, rows [][]string) error {
	sheet := worksheet{NS: nsSpreadsheetML}
	for i, values := range rows {
		r := row{R: i + 1}
		for j, value := range values {
			if value == "" {
				continue
			}
			r.Cells = append(r.Cells, cell{
				R:      ColumnName(j) + strconv.Itoa(i+1),
				T:      "inlineStr",
				Inline: &inlineText{T: value},
			})
		}
		sheet.Rows = append(sheet.Rows, r)
	}

	body, err := xml.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("failed to encode worksheet: %w", err)
	}

	return writePackage(w, []packagePart{
		{Name: "[Content_Types].xml", Data: []byte(xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>` +
			`<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>` +
			`</Types>`)},
		{Name: "_rels/.rels", Data: []byte(xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>` +
			`</Relationships>`)},
		{Name: "xl/workbook.xml", Data: []byte(xml.Header + `<workbook xmlns="` + nsSpreadsheetML + `" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets><sheet name="` + SheetName + `" sheetId="1" r:id="rId1"/></sheets></workbook>`)},
		{Name: "xl/_rels/workbook.xml.rels", Data: []byte(xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>` +
			`</Relationships>`)},
		{Name: "xl/worksheets/sheet1.xml", Data: append([]byte(xml.Header), body...)},
	})
}

// ReadXlsx returns the inline string rows of the first worksheet
func ReadXlsx(data []byte) ([][]string, error) {
	content, err := readPart(data, "xl/worksheets/sheet1.xml")
	if err != nil {
		return nil, err
	}

	var sheet worksheet
	if err := xml.Unmarshal(content, &sheet); err != nil {
		return nil, fmt.Errorf("failed to parse sheet1.xml: %w", err)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		values := []string{}
		for _, c := range r.Cells {
			col := ColumnIndex(strings.TrimRight(c.R, "0123456789"))
			for len(values) <= col {
				values = append(values, "")
			}
			if c.Inline != nil {
				values[col] = c.Inline.T
			}
		}
		rows = append(rows, values)
	}
	return rows, nil
}

// ColumnName returns the column letters of a 0-based column index, 0 is A, 26 is AA
func ColumnName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}

// ColumnIndex is the inverse of ColumnName
func ColumnIndex(name string) int {
	index := 0
	for _, c := range name {
		index = index*26 + int(c-'A'+1)
	}
	return index - 1
}
