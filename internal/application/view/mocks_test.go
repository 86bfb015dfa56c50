package view

import (
	"context"
	"errors"
	"sync"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
	"github.com/garyjia/expense-dashboard/internal/infrastructure/persistence/localstore"
)

var errBackend = errors.New("backend unavailable")

// mockBackend implements every port interface through optional func fields
type mockBackend struct {
	LoginFunc           func(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error)
	RegisterFunc        func(ctx context.Context, reg entity.Registration) (*entity.AuthResponse, error)
	LogoutFunc          func(ctx context.Context, refresh string) error
	ListOrdersFunc      func(ctx context.Context, date entity.Date) ([]entity.Order, error)
	CreateOrderFunc     func(ctx context.Context, order entity.NewOrder) (*entity.Order, error)
	UpdateOrderItemFunc func(ctx context.Context, id int64, count int) (*entity.OrderItem, error)
	DeleteOrderItemFunc func(ctx context.Context, id int64) error
	AvailableDatesFunc  func(ctx context.Context) ([]entity.Date, error)
	GroupedOrdersFunc   func(ctx context.Context, q entity.GroupedQuery) (*entity.GroupedPage, error)
	ListExpensesFunc    func(ctx context.Context) ([]entity.Expense, error)
	MyExpensesFunc      func(ctx context.Context) ([]entity.Expense, error)
	CreateExpenseFunc   func(ctx context.Context, in entity.ExpenseInput) (*entity.Expense, error)
	UpdateExpenseFunc   func(ctx context.Context, expense entity.Expense) (*entity.Expense, error)
	DeleteExpenseFunc   func(ctx context.Context, id int64) error
	ListItemsFunc       func(ctx context.Context) ([]entity.Item, error)
	CreateItemFunc      func(ctx context.Context, item entity.Item) (*entity.Item, error)
	UpdateItemFunc      func(ctx context.Context, item entity.Item) (*entity.Item, error)
	PriceHistoryFunc    func(ctx context.Context, itemID int64) ([]entity.PricePoint, error)
	NotificationsFunc   func(ctx context.Context) (*entity.NotificationFeed, error)
	ProfileFunc         func(ctx context.Context) (*entity.User, error)
	UpdateProfileFunc   func(ctx context.Context, user entity.User) (*entity.User, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockBackend) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockBackend) Login(ctx context.Context, creds entity.Credentials) (*entity.AuthResponse, error) {
	m.record("Login")
	return m.LoginFunc(ctx, creds)
}

func (m *mockBackend) Register(ctx context.Context, reg entity.Registration) (*entity.AuthResponse, error) {
	m.record("Register")
	return m.RegisterFunc(ctx, reg)
}

func (m *mockBackend) Logout(ctx context.Context, refresh string) error {
	m.record("Logout")
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, refresh)
}

func (m *mockBackend) ListOrders(ctx context.Context, date entity.Date) ([]entity.Order, error) {
	m.record("ListOrders")
	return m.ListOrdersFunc(ctx, date)
}

func (m *mockBackend) CreateOrder(ctx context.Context, order entity.NewOrder) (*entity.Order, error) {
	m.record("CreateOrder")
	return m.CreateOrderFunc(ctx, order)
}

func (m *mockBackend) UpdateOrderItem(ctx context.Context, id int64, count int) (*entity.OrderItem, error) {
	m.record("UpdateOrderItem")
	return m.UpdateOrderItemFunc(ctx, id, count)
}

func (m *mockBackend) DeleteOrderItem(ctx context.Context, id int64) error {
	m.record("DeleteOrderItem")
	return m.DeleteOrderItemFunc(ctx, id)
}

func (m *mockBackend) AvailableDates(ctx context.Context) ([]entity.Date, error) {
	m.record("AvailableDates")
	return m.AvailableDatesFunc(ctx)
}

func (m *mockBackend) GroupedOrders(ctx context.Context, q entity.GroupedQuery) (*entity.GroupedPage, error) {
	m.record("GroupedOrders")
	return m.GroupedOrdersFunc(ctx, q)
}

func (m *mockBackend) ListExpenses(ctx context.Context) ([]entity.Expense, error) {
	m.record("ListExpenses")
	return m.ListExpensesFunc(ctx)
}

func (m *mockBackend) MyExpenses(ctx context.Context) ([]entity.Expense, error) {
	m.record("MyExpenses")
	return m.MyExpensesFunc(ctx)
}

func (m *mockBackend) CreateExpense(ctx context.Context, in entity.ExpenseInput) (*entity.Expense, error) {
	m.record("CreateExpense")
	return m.CreateExpenseFunc(ctx, in)
}

func (m *mockBackend) UpdateExpense(ctx context.Context, expense entity.Expense) (*entity.Expense, error) {
	m.record("UpdateExpense")
	return m.UpdateExpenseFunc(ctx, expense)
}

func (m *mockBackend) DeleteExpense(ctx context.Context, id int64) error {
	m.record("DeleteExpense")
	return m.DeleteExpenseFunc(ctx, id)
}

func (m *mockBackend) ListItems(ctx context.Context) ([]entity.Item, error) {
	m.record("ListItems")
	return m.ListItemsFunc(ctx)
}

func (m *mockBackend) CreateItem(ctx context.Context, item entity.Item) (*entity.Item, error) {
	m.record("CreateItem")
	return m.CreateItemFunc(ctx, item)
}

func (m *mockBackend) UpdateItem(ctx context.Context, item entity.Item) (*entity.Item, error) {
	m.record("UpdateItem")
	return m.UpdateItemFunc(ctx, item)
}

func (m *mockBackend) PriceHistory(ctx context.Context, itemID int64) ([]entity.PricePoint, error) {
	m.record("PriceHistory")
	return m.PriceHistoryFunc(ctx, itemID)
}

func (m *mockBackend) Notifications(ctx context.Context) (*entity.NotificationFeed, error) {
	m.record("Notifications")
	return m.NotificationsFunc(ctx)
}

func (m *mockBackend) Profile(ctx context.Context) (*entity.User, error) {
	m.record("Profile")
	return m.ProfileFunc(ctx)
}

func (m *mockBackend) UpdateProfile(ctx context.Context, user entity.User) (*entity.User, error) {
	m.record("UpdateProfile")
	return m.UpdateProfileFunc(ctx, user)
}

// fakeReader is a fixed session
type fakeReader struct {
	user *entity.User
}

func adminReader() fakeReader {
	return fakeReader{user: &entity.User{Username: "boss", Role: entity.RoleAdmin}}
}

func userReader() fakeReader {
	return fakeReader{user: &entity.User{Username: "ana", Name: "Ana Lima", Role: entity.RoleUser}}
}

func (r fakeReader) Token() string {
	if r.user == nil {
		return ""
	}
	return "token"
}

func (r fakeReader) User() (entity.User, bool) {
	if r.user == nil {
		return entity.User{}, false
	}
	return *r.user, true
}

func (r fakeReader) IsAdmin() bool {
	return r.user != nil && r.user.IsAdmin()
}

// recordingExporter keeps the last exported table
type recordingExporter struct {
	table  export.Table
	format export.Format
	err    error
}

func (e *recordingExporter) Export(t export.Table, format export.Format) (string, error) {
	e.table = t
	e.format = format
	if e.err != nil {
		return "", e.err
	}
	return "exports/" + t.Prefix + "." + string(format), nil
}

type mockBillValidator struct {
	ValidateFunc func(name string, content []byte) error
}

func (m *mockBillValidator) Validate(name string, content []byte) error {
	if m.ValidateFunc == nil {
		return nil
	}
	return m.ValidateFunc(name, content)
}

// memoryKV is an in-memory session store
type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string)}
}

func (kv *memoryKV) Get(_ context.Context, key string) (string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	if !ok {
		return "", localstore.ErrNotFound
	}
	return v, nil
}

func (kv *memoryKV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func (kv *memoryKV) Remove(_ context.Context, keys ...string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	for _, k := range keys {
		delete(kv.data, k)
	}
	return nil
}

type tokenSink struct {
	token string
}

func (t *tokenSink) SetToken(token string) { t.token = token }
func (t *tokenSink) ClearToken() { t.token = "" }

func mustDate(s string) entity.Date {
	d, err := entity.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
