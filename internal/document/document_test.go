package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func assertNoStagedFiles(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged uploads must be removed")
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := NewExtractor(WithTempDir(dir))

	text, err := e.Extract(context.Background(), New("cv.TXT", []byte("\xEF\xBB\xBF  John Smith\nPython  \n\n")))
	require.NoError(t, err)
	assert.Equal(t, "John Smith\nPython", text)
	assertNoStagedFiles(t, dir)
}

func TestExtractUndecodableText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := NewExtractor(WithTempDir(dir))

	_, err := e.Extract(context.Background(), New("cv.txt", []byte{0xff, 0xfe, 0x00, 'a'}))
	require.ErrorIs(t, err, ErrUndecodableText)
	assert.False(t, IsRecoverable(err))
	assertNoStagedFiles(t, dir)
}

func TestExtractDOCX(t *testing.T) {
	t.Parallel()

	body := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Skills: </w:t></w:r><w:r><w:t>Go</w:t><w:tab/><w:t>SQL</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>`

	dir := t.TempDir()
	e := NewExtractor(WithTempDir(dir))

	text, err := e.Extract(context.Background(), New("resume.docx", buildDOCX(t, body)))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills: Go\tSQL\n\nLine one\nLine two", text)
	assertNoStagedFiles(t, dir)
}

func TestExtractRecoverableFailures(t *testing.T) {
	t.Parallel()

	notDocx := new(bytes.Buffer)
	zw := zip.NewWriter(notDocx)
	_, err := zw.Create("readme.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	tests := []struct {
		name string
		doc  Document
		op   string
		is   error
	}{
		{name: "corrupt pdf", doc: New("cv.pdf", []byte("not a pdf at all")), op: "open"},
		{name: "docx that is not a zip", doc: New("cv.docx", []byte("plain bytes")), op: "open"},
		{name: "zip without body", doc: New("cv.docx", notDocx.Bytes()), op: "open body", is: errNoDocumentXML},
		{name: "unknown extension", doc: New("cv.xyz", []byte("data")), op: "convert", is: ErrUnsupported},
		{name: "no extension", doc: New("resume", []byte("data")), op: "convert", is: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			e := NewExtractor(WithTempDir(dir))

			text, err := e.Extract(context.Background(), tt.doc)
			require.Error(t, err)
			assert.Empty(t, text)
			assert.True(t, IsRecoverable(err))

			var ee *ExtractionError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, tt.op, ee.Op)
			assert.Equal(t, tt.doc.Ext, ee.Ext)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assertNoStagedFiles(t, dir)
		})
	}
}

func TestExtractRejectsInput(t *testing.T) {
	t.Parallel()

	e := NewExtractor(WithTempDir(t.TempDir()), WithMaxBytes(4))

	_, err := e.Extract(context.Background(), New("cv.txt", []byte("too long")))
	assert.ErrorIs(t, err, ErrTooLarge)

	text, err := e.Extract(context.Background(), New("cv.txt", nil))
	assert.Empty(t, text)
	assert.ErrorIs(t, err, ErrEmptyDocument)
	assert.True(t, IsRecoverable(err), "an empty upload only means no text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Extract(ctx, New("cv.txt", []byte("ok")))
	assert.ErrorIs(t, err, context.Canceled)

	assert.EqualValues(t, 4, e.MaxBytes())
}

func TestExtractStagingFailure(t *testing.T) {
	t.Parallel()

	e := NewExtractor(WithTempDir(t.TempDir() + "/missing"))
	_, err := e.Extract(context.Background(), New("cv.txt", []byte("ok")))
	require.Error(t, err)
	assert.False(t, IsRecoverable(err))
}

func TestSafeReadRecoversPanics(t *testing.T) {
	t.Parallel()

	text, err := safeRead(func(string) (string, error) { panic("boom") }, "ignored")
	assert.Empty(t, text)
	assert.True(t, IsRecoverable(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestExtOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pdf", ExtOf("/tmp/CV.PDF"))
	assert.Equal(t, "", ExtOf("README"))
	assert.Equal(t, "docx", New("dir/resume.docx", nil).Ext)
	assert.Equal(t, "resume.docx", New("dir/resume.docx", nil).Name)
}
