package view

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/garyjia/expense-dashboard/internal/application/mutation"
	"github.com/garyjia/expense-dashboard/internal/application/port"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/garyjia/expense-dashboard/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HomeView is the standard user's daily order screen
type HomeView struct {
	orders  port.OrderAPI
	items   port.ItemAPI
	session session.Reader
	logger  *zap.Logger
	now     func() time.Time

	dates    []entity.Date
	selected entity.Date
	catalog  []entity.Item
	lines    *mutation.State[entity.OrderItem]
}

// NewHomeView creates a new HomeView
func NewHomeView(orders port.OrderAPI, items port.ItemAPI, reader session.Reader, logger *zap.Logger) *HomeView {
	return &HomeView{
		orders:  orders,
		items:   items,
		session: reader,
		logger:  logger,
		now:     time.Now,
		lines:   mutation.NewState(entity.OrderItem.Key, nil),
	}
}

// Load fetches the available dates, the catalog and the orders of date.
// A zero date selects today.
func (v *HomeView) Load(ctx context.Context, date entity.Date) error {
	if date.IsZero() {
		date = entity.NewDate(v.now())
	}

	dates, err := v.orders.AvailableDates(ctx)
	if err != nil {
		v.logger.Error("Failed to load available dates", zap.Error(err))
		return err
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j].Time) })

	catalog, err := v.items.ListItems(ctx)
	if err != nil {
		v.logger.Error("Failed to load items", zap.Error(err))
		return err
	}

	orders, err := v.orders.ListOrders(ctx, date)
	if err != nil {
		v.logger.Error("Failed to load orders",
			zap.String("date", date.String()),
			zap.Error(err))
		return err
	}

	var lines []entity.OrderItem
	for _, order := range orders {
		lines = append(lines, order.Items...)
	}

	v.dates = dates
	v.catalog = catalog
	v.selected = date
	v.lines.Set(lines)
	return nil
}

// Greeting names the signed-in user
func (v *HomeView) Greeting() string {
	user, ok := v.session.User()
	if !ok {
		return "Welcome"
	}
	return "Welcome, " + user.DisplayName()
}

func (v *HomeView) Dates() []entity.Date { return v.dates }
func (v *HomeView) Selected() entity.Date { return v.selected }
func (v *HomeView) Catalog() []entity.Item { return v.catalog }
func (v *HomeView) Lines() []entity.OrderItem { return v.lines.Rows() }

// Total is the selected day's order total
func (v *HomeView) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range v.lines.Rows() {
		total = total.Add(line.Total())
	}
	return total
}

// AddItem orders count units of a catalog item on the selected date. The
// line shows up immediately and is swapped for the server's copy.
func (v *HomeView) AddItem(ctx context.Context, itemID int64, count int) (entity.OrderItem, error) {
	if err := utils.ValidateCount(count); err != nil {
		return entity.OrderItem{}, invalid("count", err)
	}

	var item *entity.Item
	for i := range v.catalog {
		if v.catalog[i].ID == itemID {
			item = &v.catalog[i]
			break
		}
	}
	if item == nil {
		return entity.OrderItem{}, &ValidationError{Field: "item", Message: fmt.Sprintf("unknown item %d", itemID)}
	}

	date := v.selected
	if date.IsZero() {
		date = entity.NewDate(v.now())
	}

	placeholder := entity.OrderItem{
		LocalID:  mutation.NewPlaceholderKey(),
		ItemID:   item.ID,
		ItemName: item.Name,
		Count:    count,
		Price:    item.Price,
	}

	created, err := mutation.Create(ctx, v.lines, placeholder, func(ctx context.Context) (entity.OrderItem, error) {
		order, err := v.orders.CreateOrder(ctx, entity.NewOrder{
			Date:  date,
			Items: []entity.NewOrderLine{{ItemID: itemID, Count: count}},
		})
		if err != nil {
			return entity.OrderItem{}, err
		}
		for i := len(order.Items) - 1; i >= 0; i-- {
			if order.Items[i].ItemID == itemID {
				return order.Items[i], nil
			}
		}
		return entity.OrderItem{}, fmt.Errorf("order %d has no line for item %d", order.ID, itemID)
	})
	if err != nil {
		v.logger.Error("Failed to add order item",
			zap.Int64("item_id", itemID),
			zap.Int("count", count),
			zap.Error(err))
		return entity.OrderItem{}, err
	}
	return created, nil
}

// UpdateCount changes a line's count, rolling back if the backend refuses
func (v *HomeView) UpdateCount(ctx context.Context, key string, count int) error {
	if err := utils.ValidateCount(count); err != nil {
		return invalid("count", err)
	}
	line, err := v.confirmedLine(key)
	if err != nil {
		return err
	}

	err = mutation.Update(ctx, v.lines, key, func(oi entity.OrderItem) entity.OrderItem {
		oi.Count = count
		return oi
	}, func(ctx context.Context) error {
		_, err := v.orders.UpdateOrderItem(ctx, line.ID, count)
		return err
	})
	if err != nil {
		v.logger.Error("Failed to update order item", zap.Int64("id", line.ID), zap.Error(err))
	}
	return err
}

// DeleteItem removes a line, restoring it if the backend refuses
func (v *HomeView) DeleteItem(ctx context.Context, key string) error {
	line, err := v.confirmedLine(key)
	if err != nil {
		return err
	}

	err = mutation.Remove(ctx, v.lines, key, func(ctx context.Context) error {
		return v.orders.DeleteOrderItem(ctx, line.ID)
	})
	if err != nil {
		v.logger.Error("Failed to delete order item", zap.Int64("id", line.ID), zap.Error(err))
	}
	return err
}

func (v *HomeView) confirmedLine(key string) (entity.OrderItem, error) {
	line, ok := v.lines.Find(key)
	if !ok {
		return entity.OrderItem{}, mutation.ErrNotFound
	}
	if line.ID == 0 {
		return entity.OrderItem{}, ErrPendingRow
	}
	return line, nil
}
