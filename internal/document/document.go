// Package document turns uploaded résumé files into plain text.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxBytes limits the size of a single upload.
const DefaultMaxBytes int64 = 15 << 20

var (
	// ErrUndecodableText is returned when a plain text upload is not valid UTF-8.
	ErrUndecodableText = errors.New("text is not valid utf-8")
	// ErrUnsupported marks an extension no converter can read.
	ErrUnsupported = errors.New("unsupported document format")
	// ErrTooLarge is returned when the payload exceeds the configured limit.
	ErrTooLarge = errors.New("document is too large")
	// ErrEmptyDocument wraps a zero byte payload in a recoverable ExtractionError.
	ErrEmptyDocument = errors.New("document is empty")
)

// ExtractionError is a recoverable failure to read a document. Callers
// treat it as "nothing extracted" and carry on with empty text.
type ExtractionError struct {
	Ext string
	Op  string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s text: %s: %v", e.Ext, e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err only means that no text could be read.
func IsRecoverable(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

// Document is an uploaded payload and its declared extension.
type Document struct {
	Name string
	Ext  string
	Data []byte
}

// New derives the extension from the file name.
func New(name string, data []byte) Document {
	return Document{Name: filepath.Base(name), Ext: ExtOf(name), Data: data}
}

// ExtOf returns the lowercased extension of name without the leading dot.
func ExtOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// readFunc reads text out of a staged file.
type readFunc func(path string) (string, error)

// Extractor dispatches documents to a reader by extension. It keeps no state
// between calls and is safe for concurrent use.
type Extractor struct {
	tempDir  string
	maxBytes int64
	logger   *zap.Logger
	readers  map[string]readFunc
	fallback readFunc
}

type Option func(*Extractor)

// WithTempDir sets where uploads are staged. Empty means the OS default.
func WithTempDir(dir string) Option {
	return func(e *Extractor) { e.tempDir = dir }
}

func WithMaxBytes(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxBytes = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		maxBytes: DefaultMaxBytes,
		logger:   zap.NewNop(),
		readers: map[string]readFunc{
			"pdf":  readPDF,
			"docx": readDOCX,
			"txt":  readText,
		},
		fallback: readConverted,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportedExtensions lists the extensions with a dedicated reader.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"pdf", "docx", "txt"}
}

// MaxBytes is the configured upload limit.
func (e *Extractor) MaxBytes() int64 { return e.maxBytes }

// Extract stages doc in a temporary file, reads its text and removes the file
// on every path. The result is trimmed; empty text is a valid outcome.
// A recoverable failure is reported as *ExtractionError with empty text.
func (e *Extractor) Extract(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(strings.TrimPrefix(doc.Ext, "."))

	if len(doc.Data) == 0 {
		return "", &ExtractionError{Ext: ext, Op: "read", Err: ErrEmptyDocument}
	}
	if int64(len(doc.Data)) > e.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, len(doc.Data), e.maxBytes)
	}

	read, ok := e.readers[ext]
	if !ok {
		read = e.fallback
	}

	path, cleanup, err := e.stage(ext, doc.Data)
	if err != nil {
		return "", err
	}
	defer cleanup()

	text, err := safeRead(read, path)
	if err != nil {
		var ee *ExtractionError
		if errors.As(err, &ee) && ee.Ext == "" {
			ee.Ext = ext
		}
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// stage writes data to a uniquely named file. The returned cleanup removes it.
func (e *Extractor) stage(ext string, data []byte) (string, func(), error) {
	pattern := "resume-" + uuid.NewString() + "-*"
	if ext != "" {
		pattern += "." + ext
	}

	f, err := os.CreateTemp(e.tempDir, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("staging upload: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.logger.Warn("removing staged upload", zap.String("path", path), zap.Error(err))
		}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("staging upload: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("staging upload: %w", err)
	}

	return path, cleanup, nil
}

// safeRead converts a panic inside a third party parser into an ExtractionError.
func safeRead(read readFunc, path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Op: "parse", Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()
	return read(path)
}
