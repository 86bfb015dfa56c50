package view

import (
	"context"
	"testing"
	"time"

	"github.com/garyjia/expense-dashboard/internal/application/listing"
	"github.com/garyjia/expense-dashboard/internal/application/mutation"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadedItems(t *testing.T, backend *mockBackend) *UpdateItemView {
	t.Helper()
	backend.ListItemsFunc = func(ctx context.Context) ([]entity.Item, error) {
		return []entity.Item{{ID: 1, Name: "Green tea", Price: 10}, {ID: 2, Name: "Cake", Price: 4.5}}, nil
	}
	v := NewUpdateItemView(backend, &recordingExporter{}, adminReader(), 10, zap.NewNop())
	require.NoError(t, v.Load(context.Background()))
	return v
}

func TestUpdateItemView_UpdatePrice(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		price     float64
		updateErr error
		wantErr   error
		wantPrice float64
	}{
		{name: "success", key: "1", price: 12, wantPrice: 12},
		{name: "zero price", key: "1", price: 0, wantErr: ErrValidation, wantPrice: 10},
		{name: "negative price", key: "1", price: -3, wantErr: ErrValidation, wantPrice: 10},
		{name: "unknown item", key: "9", price: 3, wantErr: mutation.ErrNotFound, wantPrice: 10},
		{name: "rollback", key: "1", price: 12, updateErr: errBackend, wantErr: errBackend, wantPrice: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{
				UpdateItemFunc: func(ctx context.Context, item entity.Item) (*entity.Item, error) {
					if tt.updateErr != nil {
						return nil, tt.updateErr
					}
					return &item, nil
				},
			}
			v := loadedItems(t, backend)

			err := v.UpdatePrice(context.Background(), tt.key, tt.price)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantPrice, v.Page().Rows[0].Price)
		})
	}
}

func TestUpdateItemView_PriceVisibleWhileInFlight(t *testing.T) {
	var v *UpdateItemView
	var inFlight float64
	backend := &mockBackend{
		UpdateItemFunc: func(ctx context.Context, item entity.Item) (*entity.Item, error) {
			inFlight = v.Page().Rows[0].Price
			return nil, errBackend
		},
	}
	v = loadedItems(t, backend)

	assert.ErrorIs(t, v.UpdatePrice(context.Background(), "1", 12), errBackend)
	assert.Equal(t, 12.0, inFlight)
	assert.Equal(t, 10.0, v.Page().Rows[0].Price)
}

func TestUpdateItemView_CreateItem(t *testing.T) {
	backend := &mockBackend{
		CreateItemFunc: func(ctx context.Context, item entity.Item) (*entity.Item, error) {
			item.ID = 3
			return &item, nil
		},
	}
	v := loadedItems(t, backend)

	_, err := v.CreateItem(context.Background(), " ", 2)
	assert.ErrorIs(t, err, ErrValidation)

	created, err := v.CreateItem(context.Background(), " Scone ", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "Scone", created.Name)
	assert.Equal(t, 3, v.Page().TotalRows)
}

func TestUpdateItemView_FilterAndExport(t *testing.T) {
	exporter := &recordingExporter{}
	backend := &mockBackend{}
	v := loadedItems(t, backend)
	v.exporter = exporter

	v.ApplyFilter(listing.ItemFilter{Name: "tea"})
	require.Len(t, v.Page().Rows, 1)

	_, err := v.Export(export.FormatSpreadsheet)
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{"Green tea", "10.00"}}, exporter.table.Rows)
}

func TestUpdateItemView_PriceHistory(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }
	backend := &mockBackend{
		PriceHistoryFunc: func(ctx context.Context, itemID int64) ([]entity.PricePoint, error) {
			assert.Equal(t, int64(1), itemID)
			return []entity.PricePoint{
				{Price: 8, ChangedAt: day(1)},
				{Price: 10, ChangedAt: day(20)},
				{Price: 9, ChangedAt: day(10)},
			}, nil
		},
	}
	v := loadedItems(t, backend)

	history, err := v.PriceHistory(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []float64{10, 9, 8}, []float64{history[0].Price, history[1].Price, history[2].Price})

	_, err = v.PriceHistory(context.Background(), "404")
	assert.ErrorIs(t, err, mutation.ErrNotFound)
}
