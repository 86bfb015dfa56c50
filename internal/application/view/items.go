package view

import (
	"context"
	"sort"
	"strings"

	"github.com/garyjia/expense-dashboard/internal/application/listing"
	"github.com/garyjia/expense-dashboard/internal/application/mutation"
	"github.com/garyjia/expense-dashboard/internal/application/port"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/garyjia/expense-dashboard/pkg/utils"
	"go.uber.org/zap"
)

// UpdateItemView is the admin's catalog editor
type UpdateItemView struct {
	api      port.ItemAPI
	exporter port.TableExporter
	session  session.Reader
	logger   *zap.Logger

	state  *mutation.State[entity.Item]
	list   *listing.List[entity.Item]
	filter listing.ItemFilter
}

// NewUpdateItemView creates a new UpdateItemView
func NewUpdateItemView(api port.ItemAPI, exporter port.TableExporter, reader session.Reader, pageSize int, logger *zap.Logger) *UpdateItemView {
	return &UpdateItemView{
		api:      api,
		exporter: exporter,
		session:  reader,
		logger:   logger,
		state:    mutation.NewState(entity.Item.Key, nil),
		list:     listing.New[entity.Item](pageSize),
	}
}

// Load fetches the catalog
func (v *UpdateItemView) Load(ctx context.Context) error {
	if err := requireAdmin(v.session); err != nil {
		return err
	}
	items, err := v.api.ListItems(ctx)
	if err != nil {
		v.logger.Error("Failed to load items", zap.Error(err))
		return err
	}
	v.state.Set(items)
	v.sync()
	return nil
}

func (v *UpdateItemView) sync() {
	v.list.SetRows(v.state.Rows())
}

// ApplyFilter replaces the name filter and returns to page 1
func (v *UpdateItemView) ApplyFilter(f listing.ItemFilter) {
	v.filter = f
	v.list.ReplaceFilters(f.Predicates())
}

// SetPage moves to page n of the filtered catalog
func (v *UpdateItemView) SetPage(n int) error {
	return v.list.SetPage(n)
}

// Page returns the visible page
func (v *UpdateItemView) Page() listing.Page[entity.Item] {
	return v.list.Page()
}

// UpdatePrice changes an item's price, rolling back if the backend refuses
func (v *UpdateItemView) UpdatePrice(ctx context.Context, key string, price float64) error {
	if err := utils.ValidateAmount(price); err != nil {
		return invalid("price", err)
	}
	item, ok := v.state.Find(key)
	if !ok {
		return mutation.ErrNotFound
	}
	if item.ID == 0 {
		return ErrPendingRow
	}
	item.Price = price

	err := mutation.Update(ctx, v.state, key, func(entity.Item) entity.Item {
		return item
	}, refreshFirst(v.sync, func(ctx context.Context) error {
		_, err := v.api.UpdateItem(ctx, item)
		return err
	}))
	v.sync()
	if err != nil {
		v.logger.Error("Failed to update item price",
			zap.Int64("id", item.ID),
			zap.Float64("price", price),
			zap.Error(err))
	}
	return err
}

// CreateItem adds a catalog entry
func (v *UpdateItemView) CreateItem(ctx context.Context, name string, price float64) (entity.Item, error) {
	name = strings.TrimSpace(name)
	if err := utils.ValidateRequired("name", name); err != nil {
		return entity.Item{}, invalid("name", err)
	}
	if err := utils.ValidateAmount(price); err != nil {
		return entity.Item{}, invalid("price", err)
	}

	placeholder := entity.Item{LocalID: mutation.NewPlaceholderKey(), Name: name, Price: price}
	created, err := mutation.Create(ctx, v.state, placeholder, refreshFirstCreate(v.sync, func(ctx context.Context) (entity.Item, error) {
		item, err := v.api.CreateItem(ctx, entity.Item{Name: name, Price: price})
		if err != nil {
			return entity.Item{}, err
		}
		return *item, nil
	}))
	v.sync()
	if err != nil {
		v.logger.Error("Failed to create item", zap.String("name", name), zap.Error(err))
		return entity.Item{}, err
	}
	return created, nil
}

// PriceHistory returns an item's past prices, newest first
func (v *UpdateItemView) PriceHistory(ctx context.Context, key string) ([]entity.PricePoint, error) {
	item, ok := v.state.Find(key)
	if !ok {
		return nil, mutation.ErrNotFound
	}
	if item.ID == 0 {
		return nil, ErrPendingRow
	}

	history, err := v.api.PriceHistory(ctx, item.ID)
	if err != nil {
		v.logger.Error("Failed to load price history", zap.Int64("id", item.ID), zap.Error(err))
		return nil, err
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].ChangedAt.After(history[j].ChangedAt)
	})
	return history, nil
}

// Export writes the filtered catalog
func (v *UpdateItemView) Export(format export.Format) (string, error) {
	path, err := v.exporter.Export(export.ItemsTable(v.list.Filtered()), format)
	if err != nil {
		v.logger.Error("Failed to export items", zap.Error(err))
	}
	return path, err
}
