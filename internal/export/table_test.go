package export

import (
	"testing"
	"time"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupedOrdersTable_TeaScenario(t *testing.T) {
	groups := entity.GroupedOrders{
		"2025-04-01": {{ItemName: "Tea", Count: 3, Price: 10}},
	}

	table := GroupedOrdersTable(groups.Rows())

	assert.Equal(t, []string{"Date", "Item", "Count", "Price", "Total"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []interface{}{"2025-04-01", "Tea", 3, 10.0, "30.00"}, table.Rows[0])
	assert.Equal(t, []interface{}{GrandTotalLabel, "", "", "", "30.00"}, table.Footer)
}

func TestExpensesTable(t *testing.T) {
	rows := []entity.Expense{
		{Description: "Taxi", Type: "service", Amount: 12.5, Verified: true, User: "ana",
			Date: entity.NewDate(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))},
		{Description: "Pens", Type: "product", Amount: 0.1},
		{Description: "Paper", Type: "product", Amount: 0.2, Refunded: true},
	}

	table := ExpensesTable(rows)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []interface{}{"04/01/2025", "Taxi", "service", "12.50", "Yes", "No", "ana"}, table.Rows[0])
	assert.Equal(t, "", table.Rows[1][0])
	assert.Equal(t, "Yes", table.Rows[2][5])
	assert.Equal(t, "12.80", table.Footer[3])
	assert.Len(t, table.Footer, len(table.Headers))
}

func TestItemsTable(t *testing.T) {
	table := ItemsTable([]entity.Item{{Name: "Tea", Price: 2}})
	assert.Equal(t, [][]interface{}{{"Tea", "2.00"}}, table.Rows)
	assert.Nil(t, table.Footer)
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 4, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "expenses_2025-04-01.xlsx", FileName("expenses", now, "xlsx"))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "30.00", FormatMoney(30))
	assert.Equal(t, "0.30", FormatMoney(0.1+0.2))
	assert.Equal(t, "1234.57", FormatMoney(1234.567))
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "10", cellText(10.0))
	assert.Equal(t, "2.5", cellText(2.5))
	assert.Equal(t, "3", cellText(3))
	assert.Equal(t, "", cellText(nil))
}
