package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const maxSheetName = 31

// SpreadsheetWriter renders tables as .xlsx workbooks
type SpreadsheetWriter struct {
	logger *zap.Logger
}

// NewSpreadsheetWriter creates a new spreadsheet writer
func NewSpreadsheetWriter(logger *zap.Logger) *SpreadsheetWriter {
	return &SpreadsheetWriter{logger: logger}
}

// Format implements Writer
func (w *SpreadsheetWriter) Format() Format {
	return FormatSpreadsheet
}

// Render builds a single-sheet workbook with a bold header and footer
func (w *SpreadsheetWriter) Render(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := w.setRow(f, sheet, 1, header, boldStyle); err != nil {
		return nil, err
	}

	for i, row := range t.Rows {
		if err := w.setRow(f, sheet, i+2, row, 0); err != nil {
			return nil, err
		}
	}

	if len(t.Footer) > 0 {
		if err := w.setRow(f, sheet, len(t.Rows)+2, t.Footer, boldStyle); err != nil {
			return nil, err
		}
	}

	if len(t.Headers) > 0 {
		lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
		if err == nil {
			if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
				w.logger.Warn("Failed to set column width", zap.Error(err))
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// setRow writes values starting at column A of row, optionally styled
func (w *SpreadsheetWriter) setRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	if style != 0 && len(values) > 0 {
		end, err := excelize.CoordinatesToCellName(len(values), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, start, end, style); err != nil {
			w.logger.Warn("Failed to style row",
				zap.String("sheet", sheet),
				zap.Int("row", row),
				zap.Error(err))
		}
	}
	return nil
}

// sheetName strips characters Excel forbids and enforces the length limit
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Export"
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	return name
}
