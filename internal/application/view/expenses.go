package view

import (
	"context"
	"strings"

	"github.com/garyjia/expense-dashboard/internal/application/listing"
	"github.com/garyjia/expense-dashboard/internal/application/mutation"
	"github.com/garyjia/expense-dashboard/internal/application/port"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
	"github.com/garyjia/expense-dashboard/internal/session"
	"github.com/garyjia/expense-dashboard/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// expenseRows is the filter/page/export core shared by the expense screens.
// state owns the rows; list mirrors it for filtering and paging.
type expenseRows struct {
	state    *mutation.State[entity.Expense]
	list     *listing.List[entity.Expense]
	filter   listing.ExpenseFilter
	exporter port.TableExporter
}

func newExpenseRows(exporter port.TableExporter, pageSize int) expenseRows {
	return expenseRows{
		state:    mutation.NewState(entity.Expense.Key, nil),
		list:     listing.New[entity.Expense](pageSize),
		exporter: exporter,
	}
}

func (r *expenseRows) set(rows []entity.Expense) {
	r.state.Set(rows)
	r.sync()
}

func (r *expenseRows) sync() {
	r.list.SetRows(r.state.Rows())
}

// ApplyFilter replaces the filter and returns to page 1
func (r *expenseRows) ApplyFilter(f listing.ExpenseFilter) {
	r.filter = f
	r.list.ReplaceFilters(f.Predicates())
}

func (r *expenseRows) Filter() listing.ExpenseFilter { return r.filter }

// Find returns the loaded row with the given key
func (r *expenseRows) Find(key string) (entity.Expense, bool) {
	return r.state.Find(key)
}

// SetPage moves to page n of the filtered rows
func (r *expenseRows) SetPage(n int) error {
	return r.list.SetPage(n)
}

// Page returns the visible page
func (r *expenseRows) Page() listing.Page[entity.Expense] {
	return r.list.Page()
}

// Total sums the filtered rows
func (r *expenseRows) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.list.Filtered() {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total
}

// Export writes every filtered row
func (r *expenseRows) Export(format export.Format) (string, error) {
	return r.exporter.Export(export.ExpensesTable(r.list.Filtered()), format)
}

// OtherExpenseView is the admin's list of every non-order expense
type OtherExpenseView struct {
	expenseRows

	api       port.ExpenseAPI
	validator port.BillValidator
	session   session.Reader
	logger    *zap.Logger
}

// NewOtherExpenseView creates a new OtherExpenseView
func NewOtherExpenseView(api port.ExpenseAPI, validator port.BillValidator, exporter port.TableExporter, reader session.Reader, pageSize int, logger *zap.Logger) *OtherExpenseView {
	return &OtherExpenseView{
		expenseRows: newExpenseRows(exporter, pageSize),
		api:         api,
		validator:   validator,
		session:     reader,
		logger:      logger,
	}
}

// Load fetches every user's expenses
func (v *OtherExpenseView) Load(ctx context.Context) error {
	if err := requireAdmin(v.session); err != nil {
		return err
	}
	expenses, err := v.api.ListExpenses(ctx)
	if err != nil {
		v.logger.Error("Failed to load expenses", zap.Error(err))
		return err
	}
	v.set(expenses)
	return nil
}

// ToggleVerified flips the verified flag, rolling back if the backend refuses
func (v *OtherExpenseView) ToggleVerified(ctx context.Context, key string) error {
	return v.modify(ctx, key, "verify", func(e entity.Expense) entity.Expense {
		e.Verified = !e.Verified
		return e
	})
}

// ToggleRefunded flips the refunded flag, rolling back if the backend refuses
func (v *OtherExpenseView) ToggleRefunded(ctx context.Context, key string) error {
	return v.modify(ctx, key, "refund", func(e entity.Expense) entity.Expense {
		e.Refunded = !e.Refunded
		return e
	})
}

// Edit rewrites an expense's description, type, amount and date. The bill
// cannot be replaced through an edit.
func (v *OtherExpenseView) Edit(ctx context.Context, key string, in entity.ExpenseInput) error {
	if err := validateExpenseInput(in); err != nil {
		return err
	}
	return v.modify(ctx, key, "edit", func(e entity.Expense) entity.Expense {
		e.Description = strings.TrimSpace(in.Description)
		e.Type = in.Type
		e.Amount = in.Amount
		if !in.Date.IsZero() {
			e.Date = in.Date
		}
		return e
	})
}

func (v *OtherExpenseView) modify(ctx context.Context, key, action string, fn func(entity.Expense) entity.Expense) error {
	current, err := v.confirmed(key)
	if err != nil {
		return err
	}
	next := fn(current)

	err = mutation.Update(ctx, v.state, key, func(entity.Expense) entity.Expense {
		return next
	}, refreshFirst(v.sync, func(ctx context.Context) error {
		_, err := v.api.UpdateExpense(ctx, next)
		return err
	}))
	v.sync()
	if err != nil {
		v.logger.Error("Failed to update expense",
			zap.String("action", action),
			zap.Int64("id", current.ID),
			zap.Error(err))
	}
	return err
}

// Delete removes an expense, restoring it if the backend refuses
func (v *OtherExpenseView) Delete(ctx context.Context, key string) error {
	current, err := v.confirmed(key)
	if err != nil {
		return err
	}

	err = mutation.Remove(ctx, v.state, key, refreshFirst(v.sync, func(ctx context.Context) error {
		return v.api.DeleteExpense(ctx, current.ID)
	}))
	v.sync()
	if err != nil {
		v.logger.Error("Failed to delete expense", zap.Int64("id", current.ID), zap.Error(err))
	}
	return err
}

// Create validates the form and the bill before any request, shows a
// placeholder row and swaps it for the created record.
func (v *OtherExpenseView) Create(ctx context.Context, in entity.ExpenseInput) (entity.Expense, error) {
	if err := validateExpenseInput(in); err != nil {
		return entity.Expense{}, err
	}
	if len(in.Bill) > 0 || in.BillName != "" {
		if err := v.validator.Validate(in.BillName, in.Bill); err != nil {
			return entity.Expense{}, invalid("bill", err)
		}
	}
	in.Description = strings.TrimSpace(in.Description)

	placeholder := entity.Expense{
		LocalID:     mutation.NewPlaceholderKey(),
		Description: in.Description,
		Type:        in.Type,
		Amount:      in.Amount,
		Date:        in.Date,
	}
	if user, ok := v.session.User(); ok {
		placeholder.User = user.Username
	}

	created, err := mutation.Create(ctx, v.state, placeholder, refreshFirstCreate(v.sync, func(ctx context.Context) (entity.Expense, error) {
		e, err := v.api.CreateExpense(ctx, in)
		if err != nil {
			return entity.Expense{}, err
		}
		return *e, nil
	}))
	v.sync()
	if err != nil {
		v.logger.Error("Failed to create expense", zap.Error(err))
		return entity.Expense{}, err
	}

	v.logger.Info("Expense created", zap.Int64("id", created.ID))
	return created, nil
}

// Export writes every filtered row
func (v *OtherExpenseView) Export(format export.Format) (string, error) {
	path, err := v.expenseRows.Export(format)
	if err != nil {
		v.logger.Error("Failed to export expenses", zap.Error(err))
	}
	return path, err
}

func (v *OtherExpenseView) confirmed(key string) (entity.Expense, error) {
	e, ok := v.state.Find(key)
	if !ok {
		return entity.Expense{}, mutation.ErrNotFound
	}
	if e.ID == 0 {
		return entity.Expense{}, ErrPendingRow
	}
	return e, nil
}

func validateExpenseInput(in entity.ExpenseInput) error {
	if err := utils.ValidateRequired("description", in.Description); err != nil {
		return invalid("description", err)
	}
	if err := utils.ValidateRequired("type", in.Type); err != nil {
		return invalid("type", err)
	}
	if err := utils.ValidateAmount(in.Amount); err != nil {
		return invalid("amount", err)
	}
	return nil
}

// ExpenseHistoryView is the standard user's own expenses
type ExpenseHistoryView struct {
	expenseRows

	api     port.ExpenseAPI
	session session.Reader
	logger  *zap.Logger
}

// NewExpenseHistoryView creates a new ExpenseHistoryView
func NewExpenseHistoryView(api port.ExpenseAPI, exporter port.TableExporter, reader session.Reader, pageSize int, logger *zap.Logger) *ExpenseHistoryView {
	return &ExpenseHistoryView{
		expenseRows: newExpenseRows(exporter, pageSize),
		api:         api,
		session:     reader,
		logger:      logger,
	}
}

// Load fetches the signed-in user's expenses
func (v *ExpenseHistoryView) Load(ctx context.Context) error {
	expenses, err := v.api.MyExpenses(ctx)
	if err != nil {
		v.logger.Error("Failed to load expense history", zap.Error(err))
		return err
	}
	v.set(expenses)
	return nil
}
