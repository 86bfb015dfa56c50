package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/expense-dashboard/internal/storage"
	"go.uber.org/zap"
)

// Format is an export file format
type Format string

const (
	FormatSpreadsheet Format = "xlsx"
	FormatPDF         Format = "pdf"
)

// ErrUnknownFormat is returned for a format with no registered writer
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "xlsx", "excel", "spreadsheet" and "pdf"
func ParseFormat(s string) (Format, error) {
	switch s {
	case "xlsx", "excel", "spreadsheet":
		return FormatSpreadsheet, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// Writer renders a table into file bytes
type Writer interface {
	Format() Format
	Render(t Table) ([]byte, error)
}

// Exporter renders tables and saves them under the export directory
type Exporter struct {
	files   storage.FileStorage
	writers map[Format]Writer
	now     func() time.Time
	logger  *zap.Logger
}

// NewExporter creates an exporter with the spreadsheet and PDF writers
func NewExporter(files storage.FileStorage, logger *zap.Logger) *Exporter {
	e := &Exporter{
		files:   files,
		writers: make(map[Format]Writer),
		now:     time.Now,
		logger:  logger,
	}
	e.Register(NewSpreadsheetWriter(logger))
	e.Register(NewPDFWriter(logger))
	return e
}

// Register adds or replaces the writer for its format
func (e *Exporter) Register(w Writer) {
	e.writers[w.Format()] = w
}

// WithClock overrides the clock used for file name dates
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// Export renders t in format and returns the saved file path
func (e *Exporter) Export(t Table, format Format) (string, error) {
	w, ok := e.writers[format]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	content, err := w.Render(t)
	if err != nil {
		return "", err
	}

	fileType := storage.FileTypeSpreadsheet
	if format == FormatPDF {
		fileType = storage.FileTypePDF
	}

	path := e.files.PathFor(FileName(t.Prefix, e.now(), string(format)))
	if err := e.files.SaveFileWithType(path, content, fileType); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	e.logger.Info("Export written",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", len(t.Rows)))
	return path, nil
}
