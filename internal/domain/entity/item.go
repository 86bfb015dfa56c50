package entity

import (
	"strconv"
	"time"
)

// Item is a catalog entry that orders reference
type Item struct {
	ID    int64   `json:"id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`

	LocalID string `json:"-"`
}

// Key identifies the item within a local list
func (i Item) Key() string {
	if i.LocalID != "" {
		return i.LocalID
	}
	return strconv.FormatInt(i.ID, 10)
}

// PricePoint is one entry of an item's price history
type PricePoint struct {
	Price     float64   `json:"price"`
	ChangedAt time.Time `json:"changed_at"`
}
