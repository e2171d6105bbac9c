package document

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

var errNoDocumentXML = errors.New("no " + docxBody + " in archive")

func readDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", &ExtractionError{Ext: "docx", Op: "open", Err: err}
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &ExtractionError{Ext: "docx", Op: "open body", Err: err}
		}
		defer rc.Close()

		text, err := docxParagraphs(rc)
		if err != nil {
			return "", &ExtractionError{Ext: "docx", Op: "decode body", Err: err}
		}
		return text, nil
	}

	return "", &ExtractionError{Ext: "docx", Op: "open body", Err: errNoDocumentXML}
}

// docxParagraphs returns the text of top level body paragraphs, one per line.
// Tables and text boxes are skipped.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines   []string
		current strings.Builder
		pDepth  int
		skip    int
		inText  bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl", "txbxContent":
				skip++
			case "p":
				if skip == 0 {
					pDepth++
					if pDepth == 1 {
						current.Reset()
					}
				}
			case "t":
				inText = skip == 0 && pDepth == 1
			case "tab":
				if skip == 0 && pDepth == 1 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if skip == 0 && pDepth == 1 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl", "txbxContent":
				skip--
			case "p":
				if skip == 0 {
					if pDepth == 1 {
						lines = append(lines, current.String())
					}
					pDepth--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
