package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

// ListItems returns the item catalog
func (c *Client) ListItems(ctx context.Context) ([]entity.Item, error) {
	var items []entity.Item
	if err := c.doJSON(ctx, http.MethodGet, "/items/", nil, nil, &items); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// CreateItem adds a catalog entry
func (c *Client) CreateItem(ctx context.Context, item entity.Item) (*entity.Item, error) {
	var created entity.Item
	if err := c.doJSON(ctx, http.MethodPost, "/items/", nil, item, &created); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &created, nil
}

// UpdateItem replaces a catalog entry. A price change appends to its history.
func (c *Client) UpdateItem(ctx context.Context, item entity.Item) (*entity.Item, error) {
	var updated entity.Item
	path := fmt.Sprintf("/items/%d/", item.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, item, &updated); err != nil {
		return nil, fmt.Errorf("update item %d: %w", item.ID, err)
	}
	return &updated, nil
}

// PriceHistory returns an item's past prices, oldest first
func (c *Client) PriceHistory(ctx context.Context, itemID int64) ([]entity.PricePoint, error) {
	var history []entity.PricePoint
	path := fmt.Sprintf("/items/%d/price-history/", itemID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &history); err != nil {
		return nil, fmt.Errorf("price history for item %d: %w", itemID, err)
	}
	return history, nil
}
