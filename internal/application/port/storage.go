package port

import "github.com/garyjia/expense-dashboard/internal/export"

// TableExporter writes a table to a file and returns its path
type TableExporter interface {
	Export(t export.Table, format export.Format) (string, error)
}

// BillValidator checks an attachment before it is uploaded
type BillValidator interface {
	Validate(name string, content []byte) error
}
