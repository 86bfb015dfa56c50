package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

// ListExpenses returns every user's expenses (admin)
func (c *Client) ListExpenses(ctx context.Context) ([]entity.Expense, error) {
	var expenses []entity.Expense
	if err := c.doJSON(ctx, http.MethodGet, "/expenses/", nil, nil, &expenses); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// MyExpenses returns the current user's expenses
func (c *Client) MyExpenses(ctx context.Context) ([]entity.Expense, error) {
	var expenses []entity.Expense
	if err := c.doJSON(ctx, http.MethodGet, "/expenses/mydata/", nil, nil, &expenses); err != nil {
		return nil, fmt.Errorf("my expenses: %w", err)
	}
	return expenses, nil
}

// CreateExpense records an expense. With a bill attached the request is
// multipart/form-data, otherwise JSON.
func (c *Client) CreateExpense(ctx context.Context, in entity.ExpenseInput) (*entity.Expense, error) {
	var created entity.Expense

	if len(in.Bill) == 0 {
		body := entity.Expense{
			Description: in.Description,
			Type:        in.Type,
			Amount:      in.Amount,
			Date:        in.Date,
		}
		if err := c.doJSON(ctx, http.MethodPost, "/expenses/", nil, body, &created); err != nil {
			return nil, fmt.Errorf("create expense: %w", err)
		}
		return &created, nil
	}

	payload, contentType, err := encodeExpenseForm(in)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/expenses/", nil, contentType, payload, &created); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return &created, nil
}

// UpdateExpense replaces an expense, including its verified and refunded flags
func (c *Client) UpdateExpense(ctx context.Context, expense entity.Expense) (*entity.Expense, error) {
	var updated entity.Expense
	path := fmt.Sprintf("/expenses/%d/", expense.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, expense, &updated); err != nil {
		return nil, fmt.Errorf("update expense %d: %w", expense.ID, err)
	}
	return &updated, nil
}

// DeleteExpense removes an expense
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/expenses/%d/", id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

func encodeExpenseForm(in entity.ExpenseInput) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"description": in.Description,
		"type":        in.Type,
		"amount":      strconv.FormatFloat(in.Amount, 'f', 2, 64),
	}
	if !in.Date.IsZero() {
		fields["date"] = in.Date.String()
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	part, err := w.CreateFormFile("bill", filepath.Base(in.BillName))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create bill part: %w", err)
	}
	if _, err := part.Write(in.Bill); err != nil {
		return nil, "", fmt.Errorf("failed to write bill: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
