package imaging

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ToPDF places each image on its own page sized to the image
func ToPDF(images ...[]byte) ([]byte, error) {
	readers := make([]io.Reader, 0, len(images))
	for _, data := range images {
		r, err := importable(data)
		if err != nil {
			return nil, err
		}
		readers = append(readers, r)
	}

	conf := model.NewDefaultConfiguration()
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, nil, conf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// importable returns a reader pdfcpu can import, formats it cannot read
// are re-encoded as PNG
func importable(data []byte) (io.Reader, error) {
	name, err := DecodeConfig(data)
	if err != nil {
		return nil, err
	}

	switch name {
	case "png", "jpeg", "tiff", "webp":
		return bytes.NewReader(data), nil
	}

	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatPNG, 0); err != nil {
		return nil, err
	}
	return &buf, nil
}
