package port

import (
	"context"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

// AuthAPI defines the account endpoints used before a session exists
type AuthAPI interface {
	Login(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error)
	Register(ctx context.Context, reg entity.Registration) (*entity.AuthResponse, error)
	Logout(ctx context.Context, refresh string) error
}

// OrderAPI defines order operations
type OrderAPI interface {
	ListOrders(ctx context.Context, date entity.Date) ([]entity.Order, error)
	CreateOrder(ctx context.Context, order entity.NewOrder) (*entity.Order, error)
	UpdateOrderItem(ctx context.Context, id int64, count int) (*entity.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id int64) error
	AvailableDates(ctx context.Context) ([]entity.Date, error)
}

// GroupedOrderAPI defines the aggregated order report
type GroupedOrderAPI interface {
	GroupedOrders(ctx context.Context, q entity.GroupedQuery) (*entity.GroupedPage, error)
}

// ExpenseAPI defines expense operations
type ExpenseAPI interface {
	ListExpenses(ctx context.Context) ([]entity.Expense, error)
	MyExpenses(ctx context.Context) ([]entity.Expense, error)
	CreateExpense(ctx context.Context, in entity.ExpenseInput) (*entity.Expense, error)
	UpdateExpense(ctx context.Context, expense entity.Expense) (*entity.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// ItemAPI defines catalog operations
type ItemAPI interface {
	ListItems(ctx context.Context) ([]entity.Item, error)
	CreateItem(ctx context.Context, item entity.Item) (*entity.Item, error)
	UpdateItem(ctx context.Context, item entity.Item) (*entity.Item, error)
	PriceHistory(ctx context.Context, itemID int64) ([]entity.PricePoint, error)
}

// AccountAPI defines the signed-in user's own records
type AccountAPI interface {
	Notifications(ctx context.Context) (*entity.NotificationFeed, error)
	Profile(ctx context.Context) (*entity.User, error)
	UpdateProfile(ctx context.Context, user entity.User) (*entity.User, error)
}

// Backend is everything the API client offers
type Backend interface {
	AuthAPI
	OrderAPI
	GroupedOrderAPI
	ExpenseAPI
	ItemAPI
	AccountAPI
}
