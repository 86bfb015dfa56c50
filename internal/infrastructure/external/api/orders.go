package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

func groupedValues(q entity.GroupedQuery) url.Values {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	if q.Verified != nil {
		v.Set("verified", strconv.FormatBool(*q.Verified))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// ListOrders returns the current user's orders for one date
func (c *Client) ListOrders(ctx context.Context, date entity.Date) ([]entity.Order, error) {
	query := url.Values{}
	if !date.IsZero() {
		query.Set("date", date.String())
	}

	var orders []entity.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders/", query, nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// CreateOrder places an order
func (c *Client) CreateOrder(ctx context.Context, order entity.NewOrder) (*entity.Order, error) {
	var created entity.Order
	if err := c.doJSON(ctx, http.MethodPost, "/orders/", nil, order, &created); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &created, nil
}

// UpdateOrderItem changes the count of one order line
func (c *Client) UpdateOrderItem(ctx context.Context, id int64, count int) (*entity.OrderItem, error) {
	var updated entity.OrderItem
	path := fmt.Sprintf("/order-items/%d/", id)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, map[string]int{"count": count}, &updated); err != nil {
		return nil, fmt.Errorf("update order item %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteOrderItem removes one order line
func (c *Client) DeleteOrderItem(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/order-items/%d/", id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("delete order item %d: %w", id, err)
	}
	return nil
}

// GroupedOrders returns one page of orders aggregated by date
func (c *Client) GroupedOrders(ctx context.Context, q entity.GroupedQuery) (*entity.GroupedPage, error) {
	var page entity.GroupedPage
	if err := c.doJSON(ctx, http.MethodGet, "/orders/grouped-by-date/", groupedValues(q), nil, &page); err != nil {
		return nil, fmt.Errorf("grouped orders: %w", err)
	}
	if page.Results == nil {
		page.Results = entity.GroupedOrders{}
	}
	return &page, nil
}

// AvailableDates lists the dates that have at least one order
func (c *Client) AvailableDates(ctx context.Context) ([]entity.Date, error) {
	var dates []entity.Date
	if err := c.doJSON(ctx, http.MethodGet, "/orders/available-dates/", nil, nil, &dates); err != nil {
		return nil, fmt.Errorf("available dates: %w", err)
	}
	return dates, nil
}
