package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

const contextUserKey = "user"

// Handlers contains all HTTP request handlers
type Handlers struct {
	store           *Store
	tokens          *TokenIssuer
	groupedPageSize int
	logger          *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(store *Store, tokens *TokenIssuer, groupedPageSize int, logger *zap.Logger) *Handlers {
	return &Handlers{
		store:           store,
		tokens:          tokens,
		groupedPageSize: groupedPageSize,
		logger:          logger,
	}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

func currentUser(c *gin.Context) entity.User {
	return c.MustGet(contextUserKey).(entity.User)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handlers) storeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		abort(c, http.StatusNotFound, "not found")
		return
	}
	h.logger.Warn("Request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	abort(c, http.StatusBadRequest, err.Error())
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Authenticate rejects requests without a valid bearer token
func (h *Handlers) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		abort(c, http.StatusUnauthorized, "authentication credentials were not provided")
		return
	}

	claims, err := h.tokens.Verify(token)
	if err != nil {
		abort(c, http.StatusUnauthorized, "token is invalid or expired")
		return
	}

	user, err := h.store.User(claims.UserID)
	if err != nil {
		abort(c, http.StatusUnauthorized, "user not found")
		return
	}
	c.Set(contextUserKey, user)
	c.Next()
}

// RequireAdmin rejects non-admin users
func (h *Handlers) RequireAdmin(c *gin.Context) {
	if !currentUser(c).IsAdmin() {
		abort(c, http.StatusForbidden, "admin role required")
		return
	}
	c.Next()
}

// Login handles POST /api/login/
func (h *Handlers) Login(c *gin.Context) {
	var creds entity.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.Authenticate(creds)
	if err != nil {
		abort(c, http.StatusUnauthorized, err.Error())
		return
	}
	h.respondWithTokens(c, http.StatusOK, user)
}

// Register handles POST /api/register/
func (h *Handlers) Register(c *gin.Context) {
	var reg entity.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.AddUser(reg, entity.RoleUser)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUserExists) {
			status = http.StatusConflict
		}
		abort(c, status, err.Error())
		return
	}
	h.logger.Info("User registered", zap.String("username", user.Username))
	h.respondWithTokens(c, http.StatusCreated, user)
}

func (h *Handlers) respondWithTokens(c *gin.Context, status int, user entity.User) {
	access, refresh, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("Failed to issue tokens", zap.Error(err))
		abort(c, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	c.JSON(status, entity.AuthResponse{Access: access, Refresh: refresh, User: user})
}

// Logout handles POST /api/logout/ by revoking the refresh token
func (h *Handlers) Logout(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Refresh == "" {
		abort(c, http.StatusBadRequest, "refresh token is required")
		return
	}
	if err := h.tokens.Revoke(body.Refresh); err != nil {
		abort(c, http.StatusBadRequest, "refresh token is invalid")
		return
	}
	c.Status(http.StatusResetContent)
}

// ListItems handles GET /api/items/
func (h *Handlers) ListItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Items())
}

// CreateItem handles POST /api/items/
func (h *Handlers) CreateItem(c *gin.Context) {
	var item entity.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(item.Name) == "" || item.Price <= 0 {
		abort(c, http.StatusBadRequest, "name and a positive price are required")
		return
	}
	c.JSON(http.StatusCreated, h.store.AddItem(strings.TrimSpace(item.Name), item.Price))
}

// UpdateItem handles PUT /api/items/:id/
func (h *Handlers) UpdateItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var item entity.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.Price <= 0 {
		abort(c, http.StatusBadRequest, "price must be positive")
		return
	}

	updated, err := h.store.UpdateItem(id, strings.TrimSpace(item.Name), item.Price)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// PriceHistory handles GET /api/items/:id/price-history/
func (h *Handlers) PriceHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	history, err := h.store.PriceHistory(id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// ListOrders handles GET /api/orders/?date=
func (h *Handlers) ListOrders(c *gin.Context) {
	var date entity.Date
	if raw := c.Query("date"); raw != "" {
		parsed, err := entity.ParseDate(raw)
		if err != nil {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		date = parsed
	}

	orders := h.store.Orders(currentUser(c).ID, date)
	if orders == nil {
		orders = []entity.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders/
func (h *Handlers) CreateOrder(c *gin.Context) {
	var in entity.NewOrder
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := h.store.CreateOrder(currentUser(c).ID, in)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// VerifyOrder handles PUT /api/orders/:id/
func (h *Handlers) VerifyOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}
	order, err := h.store.SetOrderVerified(id, body.Verified)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderItem handles PUT /api/order-items/:id/
func (h *Handlers) UpdateOrderItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Count <= 0 {
		abort(c, http.StatusBadRequest, "count must be positive")
		return
	}
	line, err := h.store.UpdateLine(currentUser(c), id, body.Count)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// DeleteOrderItem handles DELETE /api/order-items/:id/
func (h *Handlers) DeleteOrderItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteLine(currentUser(c), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GroupedOrders handles GET /api/orders/grouped-by-date/. Pages hold whole
// dates, newest first, and next/previous are absolute links.
func (h *Handlers) GroupedOrders(c *gin.Context) {
	filter := GroupedFilter{Type: c.Query("type"), Date: c.Query("date")}
	if raw := c.Query("verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			abort(c, http.StatusBadRequest, "verified must be true or false")
			return
		}
		filter.Verified = &verified
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abort(c, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}

	groups := h.store.Grouped(filter)
	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	totalPages := (len(dates) + h.groupedPageSize - 1) / h.groupedPageSize
	if page > 1 && page > totalPages {
		abort(c, http.StatusNotFound, "invalid page")
		return
	}

	start := (page - 1) * h.groupedPageSize
	end := start + h.groupedPageSize
	if end > len(dates) {
		end = len(dates)
	}

	resp := entity.GroupedPage{Count: len(dates), Results: entity.GroupedOrders{}}
	for _, date := range dates[start:end] {
		resp.Results[date] = groups[date]
	}
	if page < totalPages {
		resp.Next = pageLink(c, page+1)
	}
	if page > 1 {
		resp.Previous = pageLink(c, page-1)
	}
	c.JSON(http.StatusOK, resp)
}

func pageLink(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme:   "http",
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

// AvailableDates handles GET /api/orders/available-dates/
func (h *Handlers) AvailableDates(c *gin.Context) {
	dates := h.store.AvailableDates(currentUser(c))
	if dates == nil {
		dates = []entity.Date{}
	}
	c.JSON(http.StatusOK, dates)
}

// ListExpenses handles GET /api/expenses/
func (h *Handlers) ListExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, nonNilExpenses(h.store.Expenses(0)))
}

// MyExpenses handles GET /api/expenses/mydata/
func (h *Handlers) MyExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, nonNilExpenses(h.store.Expenses(currentUser(c).ID)))
}

func nonNilExpenses(expenses []entity.Expense) []entity.Expense {
	if expenses == nil {
		return []entity.Expense{}
	}
	return expenses
}

// CreateExpense handles POST /api/expenses/ as JSON or multipart with a "bill" file
func (h *Handlers) CreateExpense(c *gin.Context) {
	in, err := bindExpenseInput(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.Description) == "" || in.Amount <= 0 {
		abort(c, http.StatusBadRequest, "description and a positive amount are required")
		return
	}
	c.JSON(http.StatusCreated, h.store.CreateExpense(currentUser(c), in))
}

func bindExpenseInput(c *gin.Context) (entity.ExpenseInput, error) {
	if c.ContentType() != "multipart/form-data" {
		var body entity.Expense
		if err := c.ShouldBindJSON(&body); err != nil {
			return entity.ExpenseInput{}, fmt.Errorf("invalid request body")
		}
		return entity.ExpenseInput{
			Description: body.Description,
			Type:        body.Type,
			Amount:      body.Amount,
			Date:        body.Date,
		}, nil
	}

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil {
		return entity.ExpenseInput{}, fmt.Errorf("invalid amount")
	}
	in := entity.ExpenseInput{
		Description: c.PostForm("description"),
		Type:        c.PostForm("type"),
		Amount:      amount,
	}
	if raw := c.PostForm("date"); raw != "" {
		if in.Date, err = entity.ParseDate(raw); err != nil {
			return entity.ExpenseInput{}, err
		}
	}

	header, err := c.FormFile("bill")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return entity.ExpenseInput{}, fmt.Errorf("invalid bill upload")
	}
	f, err := header.Open()
	if err != nil {
		return entity.ExpenseInput{}, fmt.Errorf("invalid bill upload")
	}
	defer f.Close()

	if in.Bill, err = io.ReadAll(f); err != nil {
		return entity.ExpenseInput{}, fmt.Errorf("failed to read bill")
	}
	in.BillName = filepath.Base(header.Filename)
	return in, nil
}

// UpdateExpense handles PUT /api/expenses/:id/
func (h *Handlers) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body entity.Expense
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.ID = id

	updated, err := h.store.UpdateExpense(currentUser(c), body)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteExpense handles DELETE /api/expenses/:id/
func (h *Handlers) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteExpense(currentUser(c), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Notifications handles GET /api/notifications/
func (h *Handlers) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Notifications(currentUser(c).ID))
}

// Profile handles GET /api/profile/
func (h *Handlers) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// UpdateProfile handles PUT /api/profile/
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var body entity.User
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		abort(c, http.StatusBadRequest, "name is required")
		return
	}
	user, err := h.store.UpdateProfile(currentUser(c).ID, strings.TrimSpace(body.Name), strings.TrimSpace(body.Email))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
