package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

const nsWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// DocxDocument represents the main document structure
type DocxDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    DocxBody `xml:"body"`
}

// DocxBody represents the document body
type DocxBody struct {
	XMLName    xml.Name        `xml:"body"`
	Paragraphs []DocxParagraph `xml:"p"`
}

// DocxParagraph represents a paragraph in the document
type DocxParagraph struct {
	XMLName xml.Name  `xml:"p"`
	Runs    []DocxRun `xml:"r"`
}

// DocxRun represents a run of text
type DocxRun struct {
	XMLName xml.Name    `xml:"r"`
	Text    []DocxText  `xml:"t"`
	Breaks  []DocxBreak `xml:"br"`
}

// DocxText represents text content
type DocxText struct {
	XMLName xml.Name `xml:"t"`
	Value   string   `xml:",chardata"`
}

// DocxBreak represents a line or page break
type DocxBreak struct {
	XMLName xml.Name `xml:"br"`
	Type    string   `xml:"type,attr"`
}

// Outgoing document, the w: prefix is written literally
type docxOut struct {
	XMLName xml.Name `xml:"w:document"`
	NS      string   `xml:"xmlns:w,attr"`
	Body    struct {
		Paragraphs []docxParagraphOut `xml:"w:p"`
	} `xml:"w:body"`
}

type docxParagraphOut struct {
	Runs []docxRunOut `xml:"w:r"`
}

type docxRunOut struct {
	Break *docxBreakOut `xml:"w:br,omitempty"`
	Text  *docxTextOut  `xml:"w:t,omitempty"`
}

type docxBreakOut struct {
	Type string `xml:"w:type,attr"`
}

type docxTextOut struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// WriteDocx writes a Word document with one paragraph per line and a page
// break between pages.
func WriteDocx(w io.Writer, pages [][]string) error {
	doc := docxOut{NS: nsWordprocessingML}
	for i, lines := range pages {
		if i > 0 {
			doc.Body.Paragraphs = append(doc.Body.Paragraphs, docxParagraphOut{
				Runs: []docxRunOut{{Break: &docxBreakOut{Type: "page"}}},
			})
		}
		for _, line := range lines {
			doc.Body.Paragraphs = append(doc.Body.Paragraphs, docxParagraphOut{
				Runs: []docxRunOut{{Text: &docxTextOut{Space: "preserve", Value: line}}},
			})
		}
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return writePackage(w, []packagePart{
		{Name: "[Content_Types].xml", Data: []byte(xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`)},
		{Name: "_rels/.rels", Data: []byte(xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`)},
		{Name: "word/document.xml", Data: append([]byte(xml.Header), body...)},
	})
}

// ReadDocx returns the paragraph texts of a Word document grouped by page breaks
func ReadDocx(data []byte) ([][]string, error) {
	content, err := readPart(data, "word/document.xml")
	if err != nil {
		return nil, err
	}

	var doc DocxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document.xml: %w", err)
	}

	pages := [][]string{{}}
	for _, para := range doc.Body.Paragraphs {
		var text strings.Builder
		pageBreak := false
		for _, run := range para.Runs {
			for _, br := range run.Breaks {
				if br.Type == "page" {
					pageBreak = true
				}
			}
			for _, t := range run.Text {
				text.WriteString(t.Value)
			}
		}

		if pageBreak && text.Len() == 0 {
			pages = append(pages, []string{})
			continue
		}
		pages[len(pages)-1] = append(pages[len(pages)-1], text.String())
	}
	return pages, nil
}

type packagePart struct {
	Name string
	Data []byte
}

// writePackage writes an OOXML package
func writePackage(w io.Writer, parts []packagePart) error {
	zw := zip.NewWriter(w)
	now := time.Now()
	for _, part := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: part.Name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return err
		}
		if _, err := fw.Write(part.Data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// readPart reads a file from the ZIP archive
func readPart(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip file: %w", err)
	}

	for _, file := range zr.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("file not found: %s", name)
}
