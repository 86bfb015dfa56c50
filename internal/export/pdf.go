package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 7.0
)

// PDFWriter renders tables as landscape A4 documents
type PDFWriter struct {
	logger *zap.Logger
}

// NewPDFWriter creates a new PDF writer
func NewPDFWriter(logger *zap.Logger) *PDFWriter {
	return &PDFWriter{logger: logger}
}

// Format implements Writer
func (w *PDFWriter) Format() Format {
	return FormatPDF
}

// Render draws the title, a shaded header, the rows and a bold footer
func (w *PDFWriter) Render(t Table) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(t.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	colWidth := pageWidth - 2*pdfMargin
	if len(t.Headers) > 0 {
		colWidth /= float64(len(t.Headers))
	}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range t.Headers {
			pdf.CellFormat(colWidth, pdfLineHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 9)
	_, pageHeight := pdf.GetPageSize()
	for _, row := range t.Rows {
		if pdf.GetY()+pdfLineHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Helvetica", "", 9)
		}
		w.drawRow(pdf, tr, row, colWidth)
	}

	if len(t.Footer) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		w.drawRow(pdf, tr, t.Footer, colWidth)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		w.logger.Error("Failed to render PDF", zap.String("title", t.Title), zap.Error(err))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *PDFWriter) drawRow(pdf *fpdf.Fpdf, tr func(string) string, row []interface{}, colWidth float64) {
	for _, cell := range row {
		align := "L"
		switch cell.(type) {
		case int, int64, float64:
			align = "R"
		}
		pdf.CellFormat(colWidth, pdfLineHeight, tr(cellText(cell)), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
