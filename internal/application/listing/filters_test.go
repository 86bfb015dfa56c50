package listing

import (
	"testing"
	"time"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) entity.Date {
	return entity.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func sampleExpenses() []entity.Expense {
	return []entity.Expense{
		{ID: 1, Description: "Printer paper", Type: "product", Amount: 12, Date: day(2025, 4, 1), Verified: true},
		{ID: 2, Description: "Team lunch", Type: "food", Amount: 80, Date: day(2025, 4, 2), Verified: true, Refunded: true},
		{ID: 3, Description: "Cleaning", Type: "service", Amount: 50, Date: day(2025, 4, 3)},
		{ID: 4, Description: "Snacks", Type: "Food", Amount: 9.5, Date: day(2025, 4, 5), User: "bo"},
		{ID: 5, Description: "No date", Type: "food", Amount: 1},
	}
}

func ids(rows []entity.Expense) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestExpenseFilter_Predicates(t *testing.T) {
	from := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 5, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter ExpenseFilter
		want   []int64
	}{
		{name: "no filter", filter: ExpenseFilter{}, want: []int64{1, 2, 3, 4, 5}},
		{name: "inclusive date range", filter: ExpenseFilter{From: &from, To: &to}, want: []int64{2, 3, 4}},
		{name: "open ended from", filter: ExpenseFilter{From: &to}, want: []int64{4}},
		{name: "type ignores case", filter: ExpenseFilter{Type: "food"}, want: []int64{2, 4, 5}},
		{name: "verified", filter: ExpenseFilter{Verified: BoolPtr(true)}, want: []int64{1, 2}},
		{name: "not refunded", filter: ExpenseFilter{Refunded: BoolPtr(false)}, want: []int64{1, 3, 4, 5}},
		{
			name:   "conjunction",
			filter: ExpenseFilter{Type: "food", Verified: BoolPtr(true), Refunded: BoolPtr(true), From: &from},
			want:   []int64{2},
		},
		{name: "search", filter: ExpenseFilter{Search: "LUNCH"}, want: []int64{2}},
		{name: "user", filter: ExpenseFilter{User: "bo"}, want: []int64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := New[entity.Expense](10)
			list.SetRows(sampleExpenses())
			list.ReplaceFilters(tt.filter.Predicates())

			filtered := list.Filtered()
			assert.Equal(t, tt.want, ids(filtered))
			assert.LessOrEqual(t, len(filtered), len(sampleExpenses()))
		})
	}
}

func TestGroupedFilter_Predicates(t *testing.T) {
	rows := entity.GroupedOrders{
		"2025-04-01": {{ItemName: "Tea", Count: 3, Price: 10, Type: "regular", Verified: true}},
		"2025-04-02": {{ItemName: "Coffee", Count: 1, Price: 5, Type: "guest"}},
	}.Rows()

	list := New[entity.GroupedRow](10)
	list.SetRows(rows)

	list.ReplaceFilters(GroupedFilter{Date: "2025-04-01"}.Predicates())
	assert.Len(t, list.Filtered(), 1)

	list.ReplaceFilters(GroupedFilter{Type: "GUEST", Verified: BoolPtr(false)}.Predicates())
	filtered := list.Filtered()
	if assert.Len(t, filtered, 1) {
		assert.Equal(t, "Coffee", filtered[0].ItemName)
	}
}

func TestItemFilter_Predicates(t *testing.T) {
	list := New[entity.Item](10)
	list.SetRows([]entity.Item{{ID: 1, Name: "Green Tea"}, {ID: 2, Name: "Coffee"}})
	list.ReplaceFilters(ItemFilter{Name: "tea"}.Predicates())

	filtered := list.Filtered()
	if assert.Len(t, filtered, 1) {
		assert.Equal(t, int64(1), filtered[0].ID)
	}
}
