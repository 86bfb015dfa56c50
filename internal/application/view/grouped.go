package view

import (
	"context"
	"fmt"

	"github.com/garyjia/expense-dashboard/internal/application/listing"
	"github.com/garyjia/expense-dashboard/internal/application/port"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxGroupedPages bounds the page walk against a backend that never stops
// returning a next link
const maxGroupedPages = 500

// fetchAllGrouped walks every server page of the grouped report and merges
// the lines per date
func fetchAllGrouped(ctx context.Context, api port.GroupedOrderAPI, q entity.GroupedQuery) (entity.GroupedOrders, error) {
	merged := entity.GroupedOrders{}
	q.Page = 1
	for ; q.Page <= maxGroupedPages; q.Page++ {
		page, err := api.GroupedOrders(ctx, q)
		if err != nil {
			return nil, err
		}
		for date, lines := range page.Results {
			merged[date] = append(merged[date], lines...)
		}
		if !page.HasNext() {
			return merged, nil
		}
	}
	return nil, fmt.Errorf("grouped orders: more than %d pages", maxGroupedPages)
}

// RegularExpenseView is the admin's grouped order report
type RegularExpenseView struct {
	api      port.GroupedOrderAPI
	exporter port.TableExporter
	session  session.Reader
	logger   *zap.Logger

	filter listing.GroupedFilter
	list   *listing.List[entity.GroupedRow]
}

// NewRegularExpenseView creates a new RegularExpenseView
func NewRegularExpenseView(api port.GroupedOrderAPI, exporter port.TableExporter, reader session.Reader, pageSize int, logger *zap.Logger) *RegularExpenseView {
	return &RegularExpenseView{
		api:      api,
		exporter: exporter,
		session:  reader,
		logger:   logger,
		list:     listing.New[entity.GroupedRow](pageSize),
	}
}

// Load fetches every page matching the current filter. The filter is sent
// to the server and applied again locally.
func (v *RegularExpenseView) Load(ctx context.Context) error {
	if err := requireAdmin(v.session); err != nil {
		return err
	}

	groups, err := fetchAllGrouped(ctx, v.api, entity.GroupedQuery{
		Type:     v.filter.Type,
		Date:     v.filter.Date,
		Verified: v.filter.Verified,
	})
	if err != nil {
		v.logger.Error("Failed to load grouped orders", zap.Error(err))
		return err
	}

	v.list.SetRows(groups.Rows())
	v.list.ReplaceFilters(v.filter.Predicates())
	return nil
}

// ApplyFilter replaces the filter, returns to page 1 and re-fetches. The new
// filter stays in effect on the loaded rows when the fetch fails.
func (v *RegularExpenseView) ApplyFilter(ctx context.Context, f listing.GroupedFilter) error {
	v.filter = f
	v.list.ReplaceFilters(f.Predicates())
	return v.Load(ctx)
}

func (v *RegularExpenseView) Filter() listing.GroupedFilter { return v.filter }

// SetPage moves to page n of the filtered rows
func (v *RegularExpenseView) SetPage(n int) error {
	return v.list.SetPage(n)
}

// Page returns the visible page
func (v *RegularExpenseView) Page() listing.Page[entity.GroupedRow] {
	return v.list.Page()
}

// Total sums the filtered rows across all pages
func (v *RegularExpenseView) Total() decimal.Decimal {
	total := decimal.Zero
	for _, row := range v.list.Filtered() {
		total = total.Add(row.Total())
	}
	return total
}

// Export writes the filtered rows, not just the visible page
func (v *RegularExpenseView) Export(format export.Format) (string, error) {
	path, err := v.exporter.Export(export.GroupedOrdersTable(v.list.Filtered()), format)
	if err != nil {
		v.logger.Error("Failed to export grouped orders", zap.Error(err))
		return "", err
	}
	return path, nil
}
