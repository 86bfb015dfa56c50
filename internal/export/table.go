// Package export turns the currently filtered rows of a screen into a
// downloadable spreadsheet or PDF. No network I/O happens here.
package export

import (
	"fmt"
	"time"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// GrandTotalLabel heads the aggregate footer row
const GrandTotalLabel = "Grand Total"

// Table is a rendered-agnostic export: a header row, data rows and an
// optional footer. Cells are strings or numbers.
type Table struct {
	Title   string
	Prefix  string
	Headers []string
	Rows    [][]interface{}
	Footer  []interface{}
}

// FormatMoney renders an amount with exactly two decimals
func FormatMoney(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FileName builds "<prefix>_<YYYY-MM-DD>.<ext>"
func FileName(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format(entity.DateLayout), ext)
}

// GroupedOrdersTable exports grouped order lines. Dates stay as the server's ISO key.
func GroupedOrdersTable(rows []entity.GroupedRow) Table {
	t := Table{
		Title:   "Grouped Orders",
		Prefix:  "grouped_orders",
		Headers: []string{"Date", "Item", "Count", "Price", "Total"},
	}

	total := decimal.Zero
	for _, r := range rows {
		lineTotal := r.Total()
		total = total.Add(lineTotal)
		t.Rows = append(t.Rows, []interface{}{r.Date, r.ItemName, r.Count, r.Price, lineTotal.StringFixed(2)})
	}
	t.Footer = []interface{}{GrandTotalLabel, "", "", "", total.StringFixed(2)}
	return t
}

// ExpensesTable exports expense records
func ExpensesTable(rows []entity.Expense) Table {
	t := Table{
		Title:   "Expenses",
		Prefix:  "expenses",
		Headers: []string{"Date", "Description", "Type", "Amount", "Verified", "Refunded", "User"},
	}

	total := decimal.Zero
	for _, e := range rows {
		total = total.Add(decimal.NewFromFloat(e.Amount))
		t.Rows = append(t.Rows, []interface{}{
			e.Date.Display(),
			e.Description,
			e.Type,
			FormatMoney(e.Amount),
			yesNo(e.Verified),
			yesNo(e.Refunded),
			e.User,
		})
	}
	t.Footer = []interface{}{GrandTotalLabel, "", "", total.StringFixed(2), "", "", ""}
	return t
}

// ItemsTable exports the item catalog. There is no meaningful total.
func ItemsTable(items []entity.Item) Table {
	t := Table{
		Title:   "Items",
		Prefix:  "items",
		Headers: []string{"Item", "Price"},
	}
	for _, item := range items {
		t.Rows = append(t.Rows, []interface{}{item.Name, FormatMoney(item.Price)})
	}
	return t
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// cellText renders a cell for text-only outputs
func cellText(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return decimal.NewFromFloat(c).String()
	default:
		return fmt.Sprint(c)
	}
}
