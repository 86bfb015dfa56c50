package view

import (
	"context"

	"github.com/garyjia/expense-dashboard/internal/application/port"
	"github.com/garyjia/expense-dashboard/internal/domain/category"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardAPI is what the admin dashboard reads
type DashboardAPI interface {
	port.GroupedOrderAPI
	ListExpenses(ctx context.Context) ([]entity.Expense, error)
}

// Summary is the admin dashboard's headline numbers
type Summary struct {
	OrderTotal       decimal.Decimal
	ExpenseTotal     decimal.Decimal
	ByCategory       map[string]decimal.Decimal
	Categories       []string
	OrderDays        int
	ExpenseCount     int
	PendingExpenses  int
	PendingOrderRows int
}

// GrandTotal is orders plus expenses
func (s Summary) GrandTotal() decimal.Decimal {
	return s.OrderTotal.Add(s.ExpenseTotal)
}

// AdminDashboardView summarizes every order and expense
type AdminDashboardView struct {
	api        DashboardAPI
	classifier category.Classifier
	session    session.Reader
	logger     *zap.Logger

	summary Summary
}

// NewAdminDashboardView creates a new AdminDashboardView
func NewAdminDashboardView(api DashboardAPI, classifier category.Classifier, reader session.Reader, logger *zap.Logger) *AdminDashboardView {
	return &AdminDashboardView{
		api:        api,
		classifier: classifier,
		session:    reader,
		logger:     logger,
	}
}

// Load fetches grouped orders and expenses concurrently. Both must succeed.
func (v *AdminDashboardView) Load(ctx context.Context) error {
	if err := requireAdmin(v.session); err != nil {
		return err
	}

	var (
		groups   entity.GroupedOrders
		expenses []entity.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = fetchAllGrouped(gctx, v.api, entity.GroupedQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = v.api.ListExpenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		v.logger.Error("Failed to load dashboard", zap.Error(err))
		return err
	}

	v.summary = Summarize(groups, expenses, v.classifier)
	v.logger.Debug("Dashboard loaded",
		zap.Int("order_days", v.summary.OrderDays),
		zap.Int("expenses", v.summary.ExpenseCount))
	return nil
}

// Summary returns the figures from the last Load
func (v *AdminDashboardView) Summary() Summary {
	return v.summary
}

// Summarize totals orders and expenses. Order lines without a type count as food.
func Summarize(groups entity.GroupedOrders, expenses []entity.Expense, classifier category.Classifier) Summary {
	s := Summary{
		OrderTotal:   decimal.Zero,
		ExpenseTotal: decimal.Zero,
		ByCategory:   make(map[string]decimal.Decimal),
		Categories:   classifier.Categories(),
		OrderDays:    len(groups),
		ExpenseCount: len(expenses),
	}
	for _, c := range s.Categories {
		s.ByCategory[c] = decimal.Zero
	}

	for _, lines := range groups {
		for _, line := range lines {
			total := line.Total()
			s.OrderTotal = s.OrderTotal.Add(total)

			expenseType := line.Type
			if expenseType == "" {
				expenseType = entity.ExpenseTypeFood
			}
			c := classifier.Classify(expenseType)
			s.ByCategory[c] = s.ByCategory[c].Add(total)

			if !line.Verified {
				s.PendingOrderRows++
			}
		}
	}

	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		s.ExpenseTotal = s.ExpenseTotal.Add(amount)

		c := classifier.Classify(e.Type)
		s.ByCategory[c] = s.ByCategory[c].Add(amount)

		if !e.Verified {
			s.PendingExpenses++
		}
	}
	return s
}
