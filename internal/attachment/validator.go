// Package attachment checks bill uploads client-side so that no request is
// sent for a file the backend would refuse.
package attachment

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// MaxBillSize is the largest accepted bill, in bytes
const MaxBillSize = 5 * 1024 * 1024

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the 5 MB limit")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrUnreadablePDF   = errors.New("PDF could not be read")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// PageCounter opens a PDF and reports its page count
type PageCounter func(content []byte) (int, error)

// Validator checks bill attachments
type Validator struct {
	maxSize    int
	countPages PageCounter
	logger     *zap.Logger
}

// NewValidator creates a validator that opens PDFs with MuPDF
func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{
		maxSize:    MaxBillSize,
		countPages: fitzPageCount,
		logger:     logger,
	}
}

// WithPageCounter swaps the PDF reader, for callers without MuPDF
func (v *Validator) WithPageCounter(counter PageCounter) *Validator {
	v.countPages = counter
	return v
}

// Validate checks size, extension and, for PDFs, that the document opens
func (v *Validator) Validate(name string, content []byte) error {
	if len(content) == 0 {
		return fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}
	if len(content) > v.maxSize {
		return fmt.Errorf("%s (%d bytes): %w", name, len(content), ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%s: %w: only PDF, JPG and PNG are accepted", name, ErrUnsupportedType)
	}

	if ext == ".pdf" && v.countPages != nil {
		pages, err := v.countPages(content)
		if err != nil {
			v.logger.Warn("Rejected unreadable PDF bill", zap.String("name", name), zap.Error(err))
			return fmt.Errorf("%s: %w: %v", name, ErrUnreadablePDF, err)
		}
		if pages == 0 {
			return fmt.Errorf("%s: %w: document has no pages", name, ErrUnreadablePDF)
		}
	}

	return nil
}

func fitzPageCount(content []byte) (int, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}
