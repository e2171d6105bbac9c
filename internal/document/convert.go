package document

import (
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// convertible are the extensions docconv maps to a known content type.
var convertible = map[string]bool{
	"doc":   true,
	"odt":   true,
	"pages": true,
	"rtf":   true,
	"xml":   true,
	"html":  true,
	"htm":   true,
	"xhtml": true,
	"pptx":  true,
}

// readConverted is the best effort reader for every other extension.
func readConverted(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !convertible[ext] {
		return "", &ExtractionError{Ext: ext, Op: "convert", Err: ErrUnsupported}
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", &ExtractionError{Ext: ext, Op: "convert", Err: err}
	}
	return res.Body, nil
}
