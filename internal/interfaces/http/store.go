package http

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned for an unknown record
	ErrNotFound = errors.New("not found")

	// ErrUserExists is returned when registering a taken username
	ErrUserExists = errors.New("username already exists")

	// ErrBadCredentials is returned for an unknown user or wrong password
	ErrBadCredentials = errors.New("invalid username or password")
)

type account struct {
	user         entity.User
	passwordHash []byte
}

type orderRecord struct {
	id     int64
	userID int64
	date   entity.Date
	kind   string
	verify bool
}

type lineRecord struct {
	id      int64
	orderID int64
	itemID  int64
	name    string
	count   int
	price   float64
}

type expenseRecord struct {
	expense entity.Expense
	userID  int64
	bill    []byte
}

type notificationRecord struct {
	userID int64
	entity.Notification
}

// Store is the stub backend's in-memory database
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	nextID        int64
	accounts      map[string]*account
	items         map[int64]*entity.Item
	priceHistory  map[int64][]entity.PricePoint
	orders        map[int64]*orderRecord
	lines         map[int64]*lineRecord
	expenses      map[int64]*expenseRecord
	notifications []notificationRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:          time.Now,
		accounts:     make(map[string]*account),
		items:        make(map[int64]*entity.Item),
		priceHistory: make(map[int64][]entity.PricePoint),
		orders:       make(map[int64]*orderRecord),
		lines:        make(map[int64]*lineRecord),
		expenses:     make(map[int64]*expenseRecord),
	}
}

// SeedDemo adds an admin and a standard user plus a small catalog
func (s *Store) SeedDemo() error {
	if _, err := s.AddUser(entity.Registration{Username: "admin", Password: "admin", Name: "Administrator", Email: "admin@example.com"}, entity.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.AddUser(entity.Registration{Username: "user", Password: "user", Name: "Demo User", Email: "user@example.com"}, entity.RoleUser); err != nil {
		return err
	}
	for _, item := range []entity.Item{{Name: "Tea", Price: 10}, {Name: "Coffee", Price: 12}, {Name: "Sandwich", Price: 25.5}} {
		s.AddItem(item.Name, item.Price)
	}
	return nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser registers an account with a bcrypt-hashed password
func (s *Store) AddUser(reg entity.Registration, role string) (entity.User, error) {
	username := strings.TrimSpace(reg.Username)
	if username == "" || reg.Password == "" {
		return entity.User{}, fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.MinCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; ok {
		return entity.User{}, ErrUserExists
	}
	if role == "" {
		role = entity.RoleUser
	}
	acc := &account{
		user: entity.User{
			ID:       s.id(),
			Username: username,
			Name:     reg.Name,
			Email:    reg.Email,
			Role:     role,
		},
		passwordHash: hash,
	}
	s.accounts[username] = acc
	s.notifyLocked(acc.user.ID, "Welcome to the expense dashboard")
	return acc.user, nil
}

// Authenticate checks a username and password
func (s *Store) Authenticate(creds entity.Credentials) (entity.User, error) {
	s.mu.RLock()
	acc, ok := s.accounts[creds.Username]
	s.mu.RUnlock()
	if !ok {
		return entity.User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(creds.Password)); err != nil {
		return entity.User{}, ErrBadCredentials
	}
	return acc.user, nil
}

// User returns an account by ID
func (s *Store) User(id int64) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acc := s.accountLocked(id); acc != nil {
		return acc.user, nil
	}
	return entity.User{}, ErrNotFound
}

// UpdateProfile changes a user's name and email
func (s *Store) UpdateProfile(id int64, name, email string) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accountLocked(id)
	if acc == nil {
		return entity.User{}, ErrNotFound
	}
	acc.user.Name = name
	acc.user.Email = email
	return acc.user, nil
}

func (s *Store) accountLocked(id int64) *account {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

func (s *Store) usernameLocked(id int64) string {
	if acc := s.accountLocked(id); acc != nil {
		return acc.user.Username
	}
	return ""
}

// Items returns the catalog sorted by name
func (s *Store) Items() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entity.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// AddItem creates a catalog entry and its first price point
func (s *Store) AddItem(name string, price float64) entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := &entity.Item{ID: s.id(), Name: name, Price: price}
	s.items[item.ID] = item
	s.priceHistory[item.ID] = []entity.PricePoint{{Price: price, ChangedAt: s.now().UTC()}}
	return *item
}

// UpdateItem renames or reprices an item. A price change is recorded in the history.
func (s *Store) UpdateItem(id int64, name string, price float64) (entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return entity.Item{}, ErrNotFound
	}
	if name != "" {
		item.Name = name
	}
	if price != item.Price {
		item.Price = price
		s.priceHistory[id] = append(s.priceHistory[id], entity.PricePoint{Price: price, ChangedAt: s.now().UTC()})
	}
	return *item, nil
}

// PriceHistory returns an item's price points, oldest first
func (s *Store) PriceHistory(id int64) ([]entity.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history, ok := s.priceHistory[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]entity.PricePoint(nil), history...), nil
}

// CreateOrder places an order priced from the current catalog
func (s *Store) CreateOrder(userID int64, in entity.NewOrder) (entity.Order, error) {
	if len(in.Items) == 0 {
		return entity.Order{}, fmt.Errorf("an order needs at least one item")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range in.Items {
		if _, ok := s.items[line.ItemID]; !ok {
			return entity.Order{}, fmt.Errorf("item %d: %w", line.ItemID, ErrNotFound)
		}
		if line.Count <= 0 {
			return entity.Order{}, fmt.Errorf("count must be positive")
		}
	}

	date := in.Date
	if date.IsZero() {
		date = entity.NewDate(s.now())
	}
	kind := in.Type
	if kind == "" {
		kind = entity.ExpenseTypeFood
	}

	order := &orderRecord{id: s.id(), userID: userID, date: date, kind: kind}
	s.orders[order.id] = order
	for _, line := range in.Items {
		item := s.items[line.ItemID]
		rec := &lineRecord{
			id:      s.id(),
			orderID: order.id,
			itemID:  item.ID,
			name:    item.Name,
			count:   line.Count,
			price:   item.Price,
		}
		s.lines[rec.id] = rec
	}
	return s.orderLocked(order), nil
}

// Orders returns a user's orders, optionally for a single date
func (s *Store) Orders(userID int64, date entity.Date) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []entity.Order
	for _, order := range s.sortedOrdersLocked() {
		if order.userID != userID {
			continue
		}
		if !date.IsZero() && !order.date.Equal(date.Time) {
			continue
		}
		orders = append(orders, s.orderLocked(order))
	}
	return orders
}

// UpdateLine changes an order line's count. Only the owner or an admin may.
func (s *Store) UpdateLine(user entity.User, id int64, count int) (entity.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, err := s.ownedLineLocked(user, id)
	if err != nil {
		return entity.OrderItem{}, err
	}
	line.count = count
	return line.view(), nil
}

// DeleteLine removes an order line and drops the order once it is empty
func (s *Store) DeleteLine(user entity.User, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, err := s.ownedLineLocked(user, id)
	if err != nil {
		return err
	}
	delete(s.lines, id)

	for _, other := range s.lines {
		if other.orderID == line.orderID {
			return nil
		}
	}
	delete(s.orders, line.orderID)
	return nil
}

func (s *Store) ownedLineLocked(user entity.User, id int64) (*lineRecord, error) {
	line, ok := s.lines[id]
	if !ok {
		return nil, ErrNotFound
	}
	if order := s.orders[line.orderID]; order.userID != user.ID && !user.IsAdmin() {
		return nil, ErrNotFound
	}
	return line, nil
}

// SetOrderVerified marks an order verified or not
func (s *Store) SetOrderVerified(id int64, verified bool) (entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return entity.Order{}, ErrNotFound
	}
	order.verify = verified
	return s.orderLocked(order), nil
}

// AvailableDates lists the distinct order dates, oldest first. Admins see every user's.
func (s *Store) AvailableDates(user entity.User) []entity.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var dates []entity.Date
	for _, order := range s.sortedOrdersLocked() {
		if order.userID != user.ID && !user.IsAdmin() {
			continue
		}
		if key := order.date.String(); !seen[key] {
			seen[key] = true
			dates = append(dates, order.date)
		}
	}
	return dates
}

// GroupedFilter narrows the grouped report
type GroupedFilter struct {
	Type     string
	Date     string
	Verified *bool
}

// Grouped aggregates every order line by date, then by item, price, type
// and verified state
func (s *Store) Grouped(f GroupedFilter) entity.GroupedOrders {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type lineKey struct {
		name     string
		price    float64
		kind     string
		verified bool
	}
	counts := make(map[string]map[lineKey]int)

	for _, line := range s.lines {
		order := s.orders[line.orderID]
		date := order.date.String()
		if f.Date != "" && f.Date != date {
			continue
		}
		if f.Type != "" && !strings.EqualFold(f.Type, order.kind) {
			continue
		}
		if f.Verified != nil && *f.Verified != order.verify {
			continue
		}
		if counts[date] == nil {
			counts[date] = make(map[lineKey]int)
		}
		counts[date][lineKey{line.name, line.price, order.kind, order.verify}] += line.count
	}

	groups := entity.GroupedOrders{}
	for date, byKey := range counts {
		for k, count := range byKey {
			groups[date] = append(groups[date], entity.GroupedLine{
				ItemName: k.name,
				Count:    count,
				Price:    k.price,
				Type:     k.kind,
				Verified: k.verified,
			})
		}
	}
	return groups
}

func (s *Store) sortedOrdersLocked() []*orderRecord {
	orders := make([]*orderRecord, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].date.Equal(orders[j].date.Time) {
			return orders[i].date.Before(orders[j].date.Time)
		}
		return orders[i].id < orders[j].id
	})
	return orders
}

func (s *Store) orderLocked(order *orderRecord) entity.Order {
	out := entity.Order{
		ID:       order.id,
		Date:     order.date,
		Type:     order.kind,
		Verified: order.verify,
		User:     s.usernameLocked(order.userID),
		Items:    []entity.OrderItem{},
	}
	for _, line := range s.lines {
		if line.orderID == order.id {
			out.Items = append(out.Items, line.view())
		}
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ID < out.Items[j].ID })
	return out
}

func (l *lineRecord) view() entity.OrderItem {
	return entity.OrderItem{
		ID:       l.id,
		OrderID:  l.orderID,
		ItemID:   l.itemID,
		ItemName: l.name,
		Count:    l.count,
		Price:    l.price,
	}
}

// Expenses returns every expense, or only userID's when userID is non-zero
func (s *Store) Expenses(userID int64) []entity.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Expense
	for _, rec := range s.expenses {
		if userID != 0 && rec.userID != userID {
			continue
		}
		out = append(out, rec.expense)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateExpense records an expense with an optional bill
func (s *Store) CreateExpense(user entity.User, in entity.ExpenseInput) entity.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := in.Date
	if date.IsZero() {
		date = entity.NewDate(s.now())
	}
	rec := &expenseRecord{
		expense: entity.Expense{
			ID:          s.id(),
			Description: in.Description,
			Type:        in.Type,
			Amount:      in.Amount,
			Date:        date,
			User:        user.Username,
		},
		userID: user.ID,
		bill:   in.Bill,
	}
	if len(in.Bill) > 0 {
		rec.expense.Bill = fmt.Sprintf("/media/bills/%d/%s", rec.expense.ID, in.BillName)
	}
	s.expenses[rec.expense.ID] = rec
	return rec.expense
}

// UpdateExpense replaces an expense's editable fields. Only admins may
// change verified and refunded; owners may edit the rest.
func (s *Store) UpdateExpense(user entity.User, in entity.Expense) (entity.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.expenses[in.ID]
	if !ok || (rec.userID != user.ID && !user.IsAdmin()) {
		return entity.Expense{}, ErrNotFound
	}

	e := &rec.expense
	e.Description = in.Description
	e.Type = in.Type
	e.Amount = in.Amount
	if !in.Date.IsZero() {
		e.Date = in.Date
	}
	if user.IsAdmin() {
		if in.Verified != e.Verified {
			s.notifyLocked(rec.userID, fmt.Sprintf("Expense %q verification changed", e.Description))
		}
		if in.Refunded != e.Refunded {
			s.notifyLocked(rec.userID, fmt.Sprintf("Expense %q refund status changed", e.Description))
		}
		e.Verified = in.Verified
		e.Refunded = in.Refunded
	}
	return *e, nil
}

// DeleteExpense removes an expense owned by user, or any expense for an admin
func (s *Store) DeleteExpense(user entity.User, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.expenses[id]
	if !ok || (rec.userID != user.ID && !user.IsAdmin()) {
		return ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

// Notifications returns a user's messages and how many are unread
func (s *Store) Notifications(userID int64) entity.NotificationFeed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feed := entity.NotificationFeed{Notifications: []entity.Notification{}}
	for _, n := range s.notifications {
		if n.userID != userID {
			continue
		}
		feed.Notifications = append(feed.Notifications, n.Notification)
		if !n.Read {
			feed.UnreadCount++
		}
	}
	return feed
}

func (s *Store) notifyLocked(userID int64, message string) {
	s.notifications = append(s.notifications, notificationRecord{
		userID: userID,
		Notification: entity.Notification{
			ID:        s.id(),
			Message:   message,
			CreatedAt: s.now().UTC(),
		},
	})
}
