package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
	stub "github.com/garyjia/expense-dashboard/internal/interfaces/http"
)

type harness struct {
	store     *stub.Store
	dir       string
	exportDir string
	config    string
}

// newHarness starts a seeded stub backend and writes a config pointing at it
func newHarness(t *testing.T) *harness {
	t.Helper()
	store := stub.NewStore()
	require.NoError(t, store.SeedDemo())
	server := stub.NewServer(stub.DefaultServerConfig(), store, stub.NewTokenIssuer("cli-test-secret", time.Hour), zap.NewNop())
	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	h := &harness{
		store:     store,
		dir:       dir,
		exportDir: filepath.Join(dir, "exports"),
		config:    filepath.Join(dir, "expensedash.yaml"),
	}
	yaml := fmt.Sprintf(`api:
  base_url: %s/api
  timeout: 5s
storage:
  path: %s
export:
  dir: %s
listing:
  page_size: 5
logger:
  level: error
`, srv.URL, filepath.Join(dir, "storage.db"), h.exportDir)
	require.NoError(t, os.WriteFile(h.config, []byte(yaml), 0o600))
	return h
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", h.config}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (h *harness) itemID(t *testing.T, name string) string {
	t.Helper()
	for _, item := range h.store.Items() {
		if item.Name == name {
			return strconv.FormatInt(item.ID, 10)
		}
	}
	t.Fatalf("item %q not seeded", name)
	return ""
}

func TestRun_Usage(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: nil, wantCode: 2, wantStderr: "Commands:"},
		{name: "help", args: []string{"help"}, wantCode: 0, wantStdout: "order-add"},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: 2, wantStderr: `unknown command "frobnicate"`},
		{name: "subcommand help", args: []string{"login", "-h"}, wantCode: 0, wantStderr: "Usage: expensedash login"},
		{name: "stray argument", args: []string{"whoami", "extra"}, wantCode: 1, wantStderr: `unexpected argument "extra"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := h.run(t, "", tt.args...)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantStdout != "" {
				assert.Contains(t, stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr, tt.wantStderr)
			}
		})
	}
}

func TestRun_RequiresSession(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, "", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not signed in")

	code, _, stderr = h.run(t, "wrong\n", "login", "-user", "user")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)

	code, _, _ = h.run(t, "", "login")
	assert.Equal(t, 1, code)
}

func TestRun_UserFlow(t *testing.T) {
	h := newHarness(t)
	tea := h.itemID(t, "Tea")

	code, stdout, stderr := h.run(t, "user\n", "login", "-user", "user")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Signed in as")
	assert.Contains(t, stdout, "home")

	code, stdout, _ = h.run(t, "", "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "role user")

	code, stdout, stderr = h.run(t, "", "order-add", "-item", tea, "-count", "2", "-date", "2025-04-01")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Added 2 x Tea")

	code, stdout, _ = h.run(t, "", "orders", "-date", "2025-04-01")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Catalog:")
	assert.Contains(t, stdout, "2025-04-01")
	assert.Contains(t, stdout, "Total: 20.00")

	bill := filepath.Join(h.dir, "receipt.png")
	require.NoError(t, os.WriteFile(bill, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	code, stdout, stderr = h.run(t, "", "expense-add",
		"-description", "Printer ink", "-type", "product", "-amount", "12.5",
		"-date", "2025-04-02", "-bill", bill)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Printer ink 12.50 on 04/02/2025")

	code, _, stderr = h.run(t, "", "expense-add", "-description", "Scan", "-type", "product", "-amount", "3", "-bill", filepath.Join(h.dir, "missing.gif"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to read bill")

	code, stdout, _ = h.run(t, "", "expenses", "-mine")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Printer ink")
	assert.Contains(t, stdout, "Total: 12.50")

	code, stdout, _ = h.run(t, "", "expenses", "-mine", "-search", "nothing-like-this")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "No records match")

	code, _, stderr = h.run(t, "", "grouped")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "admin role required")

	code, stdout, _ = h.run(t, "", "notifications")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "unread")

	code, stdout, stderr = h.run(t, "", "profile", "-name", "Una Ser")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Profile updated.")
	assert.Contains(t, stdout, "Una Ser")

	code, stdout, _ = h.run(t, "", "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Signed out.")

	code, _, _ = h.run(t, "", "whoami")
	assert.Equal(t, 1, code)

	code, stdout, _ = h.run(t, "", "logout")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Not signed in.")
}

func TestRun_AdminFlow(t *testing.T) {
	h := newHarness(t)
	tea := h.itemID(t, "Tea")
	teaID, _ := strconv.ParseInt(tea, 10, 64)

	user, err := h.store.Authenticate(entity.Credentials{Username: "user", Password: "user"})
	require.NoError(t, err)
	date, _ := entity.ParseDate("2025-04-01")
	_, err = h.store.CreateOrder(user.ID, entity.NewOrder{
		Date:  date,
		Items: []entity.NewOrderLine{{ItemID: teaID, Count: 2}},
	})
	require.NoError(t, err)
	expense := h.store.CreateExpense(user, entity.ExpenseInput{
		Description: "Printer ink", Type: "product", Amount: 12.5, Date: date,
	})
	expenseID := strconv.FormatInt(expense.ID, 10)

	code, stdout, stderr := h.run(t, "admin\n", "login", "-user", "admin")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "admin-dashboard")

	code, stdout, stderr = h.run(t, "", "dashboard")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Food")
	assert.Contains(t, stdout, "Grand total: 32.50")

	code, stdout, stderr = h.run(t, "", "grouped", "-export", "xlsx")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Tea")
	assert.Contains(t, stdout, "Exported to")
	files, err := filepath.Glob(filepath.Join(h.exportDir, "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	code, stdout, _ = h.run(t, "", "grouped", "-verified", "true")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "No records match")

	code, _, stderr = h.run(t, "", "grouped", "-verified", "maybe")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "expected true or false")

	code, stdout, stderr = h.run(t, "", "expense-verify", "-id", expenseID)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "verified: yes")

	code, stdout, stderr = h.run(t, "", "expense-edit", "-id", expenseID, "-amount", "15")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "updated")

	code, stdout, _ = h.run(t, "", "expenses", "-verified", "true", "-user", "user")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Printer ink")
	assert.Contains(t, stdout, "Total: 15.00")

	code, _, stderr = h.run(t, "", "expense-verify")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "-id is required")

	code, stdout, stderr = h.run(t, "", "item-price", "-id", tea, "-price", "11")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "now costs 11.00")

	code, stdout, stderr = h.run(t, "", "price-history", "-id", tea)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "11.00")

	code, stdout, stderr = h.run(t, "", "item-add", "-name", "Juice", "-price", "6")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Juice at 6.00")

	code, stdout, _ = h.run(t, "", "items", "-name", "ju")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Juice")
	assert.NotContains(t, stdout, "Sandwich")

	code, stdout, stderr = h.run(t, "", "expense-delete", "-id", expenseID)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "deleted")
}

func TestPrompter_PipedInput(t *testing.T) {
	var prompts bytes.Buffer
	p := newPrompter(strings.NewReader("first\nsecond\n"), &prompts)

	first, err := p.password("Password: ")
	require.NoError(t, err)
	second, err := p.password("Confirm password: ")
	require.NoError(t, err)
	_, err = p.password("Again: ")

	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "Password: Confirm password: Again: ", prompts.String())
}

func TestFlagValues(t *testing.T) {
	t.Run("optional bool", func(t *testing.T) {
		var o optionalBool
		assert.Equal(t, "", o.String())
		require.NoError(t, o.Set("false"))
		require.NotNil(t, o.value)
		assert.False(t, *o.value)
		assert.Error(t, o.Set("nope"))
	})

	t.Run("date", func(t *testing.T) {
		var d dateFlag
		assert.Nil(t, d.timePtr())
		require.NoError(t, d.Set("2025-04-01"))
		assert.Equal(t, "2025-04-01", d.String())
		require.NotNil(t, d.timePtr())
		assert.Error(t, d.Set("01/04/2025"))
	})

	t.Run("export format", func(t *testing.T) {
		var e exportFlag
		assert.False(t, e.requested())
		require.NoError(t, e.Set("pdf"))
		assert.Equal(t, export.FormatPDF, e.format)
		assert.True(t, e.requested())
		assert.Error(t, e.Set("csv"))
	})
}
