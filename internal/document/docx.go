package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

const docxBody = "word/document.xml"

// extractDOCX returns the paragraphs of word/document.xml, one per line
func extractDOCX(_ context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "open docx archive")
	}

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", eris.Wrap(err, "open document.xml")
		}
		defer func() { _ = rc.Close() }()
		return paragraphs(rc)
	}

	return "", eris.New("docx archive has no word/document.xml")
}

// paragraphs streams WordprocessingML, joining w:t runs within each w:p
func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var out, para strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "parse document.xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(para.String()); s != "" {
					out.WriteString(s)
					out.WriteString("\n")
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	return out.String(), nil
}
