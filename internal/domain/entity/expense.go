package entity

import "strconv"

// Expense is an "other expense" record: anything that is not a catalog order
type Expense struct {
	ID          int64   `json:"id,omitempty"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Date        Date    `json:"date"`
	Verified    bool    `json:"verified"`
	Refunded    bool    `json:"refunded"`
	Bill        string  `json:"bill,omitempty"`
	User        string  `json:"user,omitempty"`

	// LocalID identifies an optimistic placeholder until the server assigns an ID
	LocalID string `json:"-"`
}

// Key identifies the expense within a local list
func (e Expense) Key() string {
	if e.LocalID != "" {
		return e.LocalID
	}
	return strconv.FormatInt(e.ID, 10)
}

// ExpenseInput carries a create or edit request. Bill is optional.
type ExpenseInput struct {
	Description string
	Type        string
	Amount      float64
	Date        Date
	BillName    string
	Bill        []byte
}
