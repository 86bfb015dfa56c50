package entity

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order
type OrderItem struct {
	ID       int64   `json:"id,omitempty"`
	OrderID  int64   `json:"order,omitempty"`
	ItemID   int64   `json:"item"`
	ItemName string  `json:"item_name"`
	Count    int     `json:"count"`
	Price    float64 `json:"price"`

	LocalID string `json:"-"`
}

// Key identifies the line within a local list
func (oi OrderItem) Key() string {
	if oi.LocalID != "" {
		return oi.LocalID
	}
	return strconv.FormatInt(oi.ID, 10)
}

// Total is count times unit price
func (oi OrderItem) Total() decimal.Decimal {
	return LineTotal(oi.Count, oi.Price)
}

// Order is a date-scoped collection of line items
type Order struct {
	ID       int64       `json:"id,omitempty"`
	Date     Date        `json:"date"`
	Type     string      `json:"type,omitempty"`
	Verified bool        `json:"verified"`
	User     string      `json:"user,omitempty"`
	Items    []OrderItem `json:"items"`
}

// NewOrderLine is one requested line of a new order
type NewOrderLine struct {
	ItemID int64 `json:"item"`
	Count  int   `json:"count"`
}

// NewOrder is the create-order request body
type NewOrder struct {
	Date  Date           `json:"date"`
	Type  string         `json:"type,omitempty"`
	Items []NewOrderLine `json:"items"`
}

// GroupedLine is one aggregated line of /orders/grouped-by-date/
type GroupedLine struct {
	ItemName string  `json:"item_name"`
	Count    int     `json:"count"`
	Price    float64 `json:"price"`
	Type     string  `json:"type,omitempty"`
	Verified bool    `json:"verified"`
}

// Total is count times unit price
func (l GroupedLine) Total() decimal.Decimal {
	return LineTotal(l.Count, l.Price)
}

// GroupedOrders maps an ISO date key to the lines ordered that day
type GroupedOrders map[string][]GroupedLine

// GroupedRow is a flattened GroupedLine with its date key
type GroupedRow struct {
	Date string
	GroupedLine
}

// Rows flattens the groups, sorted by date then item name
func (g GroupedOrders) Rows() []GroupedRow {
	dates := make([]string, 0, len(g))
	for date := range g {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var rows []GroupedRow
	for _, date := range dates {
		lines := append([]GroupedLine(nil), g[date]...)
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].ItemName < lines[j].ItemName
		})
		for _, line := range lines {
			rows = append(rows, GroupedRow{Date: date, GroupedLine: line})
		}
	}
	return rows
}

// Total sums every line across every date
func (g GroupedOrders) Total() decimal.Decimal {
	total := decimal.Zero
	for _, lines := range g {
		for _, line := range lines {
			total = total.Add(line.Total())
		}
	}
	return total
}

// GroupedQuery filters /orders/grouped-by-date/. Zero values are omitted.
type GroupedQuery struct {
	Type     string
	Date     string
	Verified *bool
	Page     int
}

// GroupedPage is one server page of grouped orders
type GroupedPage struct {
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  GroupedOrders `json:"results"`
}

// HasNext reports whether the server has another page
func (p GroupedPage) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// LineTotal multiplies a count by a unit price without float drift
func LineTotal(count int, price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(count)))
}
