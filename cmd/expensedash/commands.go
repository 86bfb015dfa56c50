package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/expense-dashboard/internal/application/listing"
	"github.com/garyjia/expense-dashboard/internal/application/view"
	"github.com/garyjia/expense-dashboard/internal/domain/entity"
	"github.com/garyjia/expense-dashboard/internal/export"
	"github.com/garyjia/expense-dashboard/internal/session"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

func commandTable() []command {
	return []command{
		{"login", "Sign in and store the session", cmdLogin},
		{"register", "Create an account", cmdRegister},
		{"logout", "Sign out and clear the stored session", cmdLogout},
		{"whoami", "Show the signed-in user and landing screen", cmdWhoami},
		{"orders", "Show your order lines for a date", cmdOrders},
		{"order-add", "Order a catalog item", cmdOrderAdd},
		{"order-set", "Change an order line's count", cmdOrderSet},
		{"order-delete", "Remove an order line", cmdOrderDelete},
		{"grouped", "Grouped order report (admin)", cmdGrouped},
		{"expenses", "List expenses (admin), or your own with -mine", cmdExpenses},
		{"expense-add", "Submit an expense with an optional bill", cmdExpenseAdd},
		{"expense-verify", "Toggle an expense's verified flag (admin)", cmdExpenseVerify},
		{"expense-refund", "Toggle an expense's refunded flag (admin)", cmdExpenseRefund},
		{"expense-edit", "Edit an expense (admin)", cmdExpenseEdit},
		{"expense-delete", "Delete an expense (admin)", cmdExpenseDelete},
		{"items", "List catalog items (admin)", cmdItems},
		{"item-add", "Add a catalog item (admin)", cmdItemAdd},
		{"item-price", "Change an item's price (admin)", cmdItemPrice},
		{"price-history", "Show an item's past prices (admin)", cmdPriceHistory},
		{"notifications", "Show your notifications", cmdNotifications},
		{"profile", "Show or update your profile", cmdProfile},
		{"dashboard", "Admin totals by category", cmdDashboard},
	}
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commandTable() {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// parseArgs parses subcommand flags and rejects stray positional arguments
func parseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return nil
}

func requireID(name string, id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("-%s is required", name)
	}
	return strconv.FormatInt(id, 10), nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "login", "-user NAME")
	username := fs.String("user", "", "username")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" {
		fs.Usage()
		return errors.New("-user is required")
	}

	password, err := a.prompt.password("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	route, err := view.NewLoginView(a.session, a.client, a.logger).Submit(ctx, *username, password)
	if err != nil {
		return err
	}

	user, _ := a.session.User()
	fmt.Fprintf(a.stdout, "Signed in as %s (%s). Landing on %s.\n", user.DisplayName(), user.Role, route)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "register", "-user NAME [-name FULL] [-email ADDR]")
	username := fs.String("user", "", "username")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	password, err := a.prompt.password("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := a.prompt.password("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	route, err := view.NewRegisterView(a.session, a.client, a.logger).Submit(ctx, view.RegisterForm{
		Username: *username,
		Password: password,
		Confirm:  confirm,
		Name:     *name,
		Email:    *email,
	})
	if err != nil {
		return err
	}

	if route == session.RouteLogin {
		fmt.Fprintln(a.stdout, "Account created. Sign in with 'expensedash login'.")
		return nil
	}
	fmt.Fprintf(a.stdout, "Account created and signed in. Landing on %s.\n", route)
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "logout", "")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	decision, err := a.gate.Check(ctx)
	if err != nil {
		return err
	}
	if !decision.Admitted() {
		fmt.Fprintln(a.stdout, "Not signed in.")
		return nil
	}
	if err := a.session.Logout(ctx, a.client); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Signed out.")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "whoami", "")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	decision, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s (%s), role %s, landing on %s\n",
		decision.User.DisplayName(), decision.User.Username, decision.User.Role, decision.Route)
	return nil
}

func loadHome(ctx context.Context, a *app, date entity.Date) (*view.HomeView, error) {
	if _, err := a.requireSession(ctx); err != nil {
		return nil, err
	}
	home := view.NewHomeView(a.client, a.client, a.session, a.logger)
	if err := home.Load(ctx, date); err != nil {
		return nil, err
	}
	return home, nil
}

func cmdOrders(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "orders", "[-date YYYY-MM-DD]")
	var date dateFlag
	fs.Var(&date, "date", "order date, defaults to today")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	home, err := loadHome(ctx, a, date.date)
	if err != nil {
		return err
	}
	renderHome(a.stdout, home)
	return nil
}

func renderHome(w io.Writer, home *view.HomeView) {
	renderTitle(w, home.Greeting())

	dates := make([]string, 0, len(home.Dates()))
	for _, d := range home.Dates() {
		dates = append(dates, d.String())
	}
	if len(dates) > 0 {
		fmt.Fprintf(w, "Dates with orders: %s\n", strings.Join(dates, ", "))
	}
	catalog := make([]string, 0, len(home.Catalog()))
	for _, item := range home.Catalog() {
		catalog = append(catalog, fmt.Sprintf("#%d %s %s", item.ID, item.Name, export.FormatMoney(item.Price)))
	}
	if len(catalog) > 0 {
		fmt.Fprintf(w, "Catalog: %s\n", strings.Join(catalog, ", "))
	}
	fmt.Fprintf(w, "Orders for %s\n", home.Selected().Display())

	lines := home.Lines()
	if len(lines) == 0 {
		renderPager(w, 0, 0, 0, true)
	} else {
		rows := make([][]string, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, []string{
				l.Key(), l.ItemName, strconv.Itoa(l.Count),
				export.FormatMoney(l.Price), l.Total().StringFixed(2),
			})
		}
		renderTable(w, []string{"Line", "Item", "Count", "Price", "Total"}, rows)
	}
	renderTotal(w, "Total", home.Total())
}

func cmdOrderAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "order-add", "-item ID [-count N] [-date YYYY-MM-DD]")
	var date dateFlag
	fs.Var(&date, "date", "order date, defaults to today")
	itemID := fs.Int64("item", 0, "catalog item ID")
	count := fs.Int("count", 1, "number of units")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if *itemID <= 0 {
		return errors.New("-item is required")
	}

	home, err := loadHome(ctx, a, date.date)
	if err != nil {
		return err
	}
	line, err := home.AddItem(ctx, *itemID, *count)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %d x %s (line %s).\n", line.Count, line.ItemName, line.Key())
	renderHome(a.stdout, home)
	return nil
}

func cmdOrderSet(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "order-set", "-line ID -count N [-date YYYY-MM-DD]")
	var date dateFlag
	fs.Var(&date, "date", "order date, defaults to today")
	lineID := fs.Int64("line", 0, "order line ID")
	count := fs.Int("count", 0, "new number of units")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	key, err := requireID("line", *lineID)
	if err != nil {
		return err
	}

	home, err := loadHome(ctx, a, date.date)
	if err != nil {
		return err
	}
	if err := home.UpdateCount(ctx, key, *count); err != nil {
		return err
	}
	renderHome(a.stdout, home)
	return nil
}

func cmdOrderDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "order-delete", "-line ID [-date YYYY-MM-DD]")
	var date dateFlag
	fs.Var(&date, "date", "order date, defaults to today")
	lineID := fs.Int64("line", 0, "order line ID")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	key, err := requireID("line", *lineID)
	if err != nil {
		return err
	}

	home, err := loadHome(ctx, a, date.date)
	if err != nil {
		return err
	}
	if err := home.DeleteItem(ctx, key); err != nil {
		return err
	}
	renderHome(a.stdout, home)
	return nil
}

func cmdGrouped(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "grouped", "[-type T] [-date YYYY-MM-DD] [-verified BOOL] [-page N] [-export xlsx|pdf]")
	typ := fs.String("type", "", "order type")
	var date dateFlag
	fs.Var(&date, "date", "single date")
	var verified optionalBool
	fs.Var(&verified, "verified", "verified state")
	page := fs.Int("page", 1, "page number")
	var out exportFlag
	fs.Var(&out, "export", "write the filtered rows to a file")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	filter := listing.GroupedFilter{Type: *typ, Verified: verified.value}
	if !date.date.IsZero() {
		filter.Date = date.date.String()
	}

	v := view.NewRegularExpenseView(a.client, a.exporter, a.session, a.pageSize(), a.logger)
	if err := v.ApplyFilter(ctx, filter); err != nil {
		return err
	}
	if err := v.SetPage(*page); err != nil {
		return err
	}

	p := v.Page()
	renderTitle(a.stdout, "Regular expenses")
	if !p.Empty {
		rows := make([][]string, 0, len(p.Rows))
		for _, r := range p.Rows {
			rows = append(rows, []string{
				r.Date, r.ItemName, strconv.Itoa(r.Count),
				export.FormatMoney(r.Price), r.Total().StringFixed(2), yesNo(r.Verified),
			})
		}
		renderTable(a.stdout, []string{"Date", "Item", "Count", "Price", "Total", "Verified"}, rows)
	}
	renderPager(a.stdout, p.Number, p.TotalPages, p.TotalRows, p.Empty)
	renderTotal(a.stdout, "Total", v.Total())

	if out.requested() {
		path, err := v.Export(out.format)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Exported to %s\n", path)
	}
	return nil
}

// expenseList is what the admin and personal expense screens share
type expenseList interface {
	Load(ctx context.Context) error
	ApplyFilter(f listing.ExpenseFilter)
	SetPage(n int) error
	Page() listing.Page[entity.Expense]
	Total() decimal.Decimal
	Export(format export.Format) (string, error)
}

func cmdExpenses(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "expenses", "[-mine] [filters] [-page N] [-export xlsx|pdf]")
	mine := fs.Bool("mine", false, "only your own expenses")
	var from, to dateFlag
	fs.Var(&from, "from", "first date, inclusive")
	fs.Var(&to, "to", "last date, inclusive")
	typ := fs.String("type", "", "expense type")
	var verified, refunded optionalBool
	fs.Var(&verified, "verified", "verified state")
	fs.Var(&refunded, "refunded", "refunded state")
	user := fs.String("user", "", "submitting username")
	search := fs.String("search", "", "description contains")
	page := fs.Int("page", 1, "page number")
	var out exportFlag
	fs.Var(&out, "export", "write the filtered rows to a file")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	var list expenseList
	title := "Other expenses"
	if *mine {
		list = view.NewExpenseHistoryView(a.client, a.exporter, a.session, a.pageSize(), a.logger)
		title = "My expenses"
	} else {
		list = view.NewOtherExpenseView(a.client, a.validator, a.exporter, a.session, a.pageSize(), a.logger)
	}

	list.ApplyFilter(listing.ExpenseFilter{
		From:     from.timePtr(),
		To:       to.timePtr(),
		Type:     *typ,
		Verified: verified.value,
		Refunded: refunded.value,
		User:     *user,
		Search:   *search,
	})
	if err := list.Load(ctx); err != nil {
		return err
	}
	if err := list.SetPage(*page); err != nil {
		return err
	}

	renderTitle(a.stdout, title)
	renderExpensePage(a, list.Page())
	renderTotal(a.stdout, "Total", list.Total())

	if out.requested() {
		path, err := list.Export(out.format)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Exported to %s\n", path)
	}
	return nil
}

func renderExpensePage(a *app, p listing.Page[entity.Expense]) {
	if !p.Empty {
		rows := make([][]string, 0, len(p.Rows))
		for _, e := range p.Rows {
			rows = append(rows, []string{
				e.Key(), e.Date.Display(), e.Description, e.Type, e.User,
				export.FormatMoney(e.Amount), yesNo(e.Verified), yesNo(e.Refunded),
			})
		}
		renderTable(a.stdout, []string{"ID", "Date", "Description", "Type", "User", "Amount", "Verified", "Refunded"}, rows)
	}
	renderPager(a.stdout, p.Number, p.TotalPages, p.TotalRows, p.Empty)
}

// expenseFields registers the create and edit form flags
type expenseFields struct {
	description *string
	typ         *string
	amount      *float64
	date        dateFlag
	bill        *string
}

func newExpenseFields(fs *flag.FlagSet) *expenseFields {
	f := &expenseFields{
		description: fs.String("description", "", "what was bought"),
		typ:         fs.String("type", "", "expense type: product, food or service"),
		amount:      fs.Float64("amount", 0, "amount paid"),
		bill:        fs.String("bill", "", "path to a pdf, jpg or png bill"),
	}
	fs.Var(&f.date, "date", "expense date, defaults to today")
	return f
}

func (f *expenseFields) readBill(in *entity.ExpenseInput) error {
	if *f.bill == "" {
		return nil
	}
	content, err := os.ReadFile(*f.bill)
	if err != nil {
		return fmt.Errorf("failed to read bill: %w", err)
	}
	in.Bill = content
	in.BillName = filepath.Base(*f.bill)
	return nil
}

func cmdExpenseAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "expense-add", "-description D -type T -amount N [-date YYYY-MM-DD] [-bill PATH]")
	fields := newExpenseFields(fs)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	date := fields.date.date
	if date.IsZero() {
		date = entity.NewDate(time.Now())
	}
	in := entity.ExpenseInput{
		Description: *fields.description,
		Type:        *fields.typ,
		Amount:      *fields.amount,
		Date:        date,
	}
	if err := fields.readBill(&in); err != nil {
		return err
	}

	v := view.NewOtherExpenseView(a.client, a.validator, a.exporter, a.session, a.pageSize(), a.logger)
	created, err := v.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Expense %d created: %s %s on %s.\n",
		created.ID, created.Description, export.FormatMoney(created.Amount), created.Date.Display())
	return nil
}

// loadOtherExpenses opens the admin expense screen for a single-row action
func loadOtherExpenses(ctx context.Context, a *app, name string, args []string, extra func(fs *flag.FlagSet)) (*view.OtherExpenseView, string, error) {
	fs := newFlagSet(a, name, "-id ID")
	id := fs.Int64("id", 0, "expense ID")
	if extra != nil {
		extra(fs)
	}
	if err := parseArgs(fs, args); err != nil {
		return nil, "", err
	}
	key, err := requireID("id", *id)
	if err != nil {
		return nil, "", err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return nil, "", err
	}

	v := view.NewOtherExpenseView(a.client, a.validator, a.exporter, a.session, a.pageSize(), a.logger)
	if err := v.Load(ctx); err != nil {
		return nil, "", err
	}
	return v, key, nil
}

func cmdExpenseVerify(ctx context.Context, a *app, args []string) error {
	v, key, err := loadOtherExpenses(ctx, a, "expense-verify", args, nil)
	if err != nil {
		return err
	}
	if err := v.ToggleVerified(ctx, key); err != nil {
		return err
	}
	e, _ := v.Find(key)
	fmt.Fprintf(a.stdout, "Expense %s verified: %s\n", key, yesNo(e.Verified))
	return nil
}

func cmdExpenseRefund(ctx context.Context, a *app, args []string) error {
	v, key, err := loadOtherExpenses(ctx, a, "expense-refund", args, nil)
	if err != nil {
		return err
	}
	if err := v.ToggleRefunded(ctx, key); err != nil {
		return err
	}
	e, _ := v.Find(key)
	fmt.Fprintf(a.stdout, "Expense %s refunded: %s\n", key, yesNo(e.Refunded))
	return nil
}

func cmdExpenseEdit(ctx context.Context, a *app, args []string) error {
	var fields *expenseFields
	v, key, err := loadOtherExpenses(ctx, a, "expense-edit", args, func(fs *flag.FlagSet) {
		fields = newExpenseFields(fs)
	})
	if err != nil {
		return err
	}

	current, ok := v.Find(key)
	if !ok {
		return fmt.Errorf("expense %s not found", key)
	}

	// Unset flags keep the current values
	in := entity.ExpenseInput{
		Description: current.Description,
		Type:        current.Type,
		Amount:      current.Amount,
		Date:        current.Date,
	}
	if *fields.description != "" {
		in.Description = *fields.description
	}
	if *fields.typ != "" {
		in.Type = *fields.typ
	}
	if *fields.amount != 0 {
		in.Amount = *fields.amount
	}
	if !fields.date.date.IsZero() {
		in.Date = fields.date.date
	}
	if err := fields.readBill(&in); err != nil {
		return err
	}

	if err := v.Edit(ctx, key, in); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Expense %s updated.\n", key)
	return nil
}

func cmdExpenseDelete(ctx context.Context, a *app, args []string) error {
	v, key, err := loadOtherExpenses(ctx, a, "expense-delete", args, nil)
	if err != nil {
		return err
	}
	if err := v.Delete(ctx, key); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Expense %s deleted.\n", key)
	return nil
}

func loadItems(ctx context.Context, a *app) (*view.UpdateItemView, error) {
	if _, err := a.requireSession(ctx); err != nil {
		return nil, err
	}
	v := view.NewUpdateItemView(a.client, a.exporter, a.session, a.pageSize(), a.logger)
	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func cmdItems(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "items", "[-name TEXT] [-page N] [-export xlsx|pdf]")
	name := fs.String("name", "", "name contains")
	page := fs.Int("page", 1, "page number")
	var out exportFlag
	fs.Var(&out, "export", "write the filtered rows to a file")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	v, err := loadItems(ctx, a)
	if err != nil {
		return err
	}
	v.ApplyFilter(listing.ItemFilter{Name: *name})
	if err := v.SetPage(*page); err != nil {
		return err
	}

	p := v.Page()
	renderTitle(a.stdout, "Items")
	if !p.Empty {
		rows := make([][]string, 0, len(p.Rows))
		for _, item := range p.Rows {
			rows = append(rows, []string{item.Key(), item.Name, export.FormatMoney(item.Price)})
		}
		renderTable(a.stdout, []string{"ID", "Name", "Price"}, rows)
	}
	renderPager(a.stdout, p.Number, p.TotalPages, p.TotalRows, p.Empty)

	if out.requested() {
		path, err := v.Export(out.format)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Exported to %s\n", path)
	}
	return nil
}

func cmdItemAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "item-add", "-name NAME -price N")
	name := fs.String("name", "", "item name")
	price := fs.Float64("price", 0, "unit price")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	v, err := loadItems(ctx, a)
	if err != nil {
		return err
	}
	item, err := v.CreateItem(ctx, *name, *price)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Item %d created: %s at %s.\n", item.ID, item.Name, export.FormatMoney(item.Price))
	return nil
}

func cmdItemPrice(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "item-price", "-id ID -price N")
	id := fs.Int64("id", 0, "item ID")
	price := fs.Float64("price", 0, "new unit price")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	key, err := requireID("id", *id)
	if err != nil {
		return err
	}

	v, err := loadItems(ctx, a)
	if err != nil {
		return err
	}
	if err := v.UpdatePrice(ctx, key, *price); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Item %s now costs %s.\n", key, export.FormatMoney(*price))
	return nil
}

func cmdPriceHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "price-history", "-id ID")
	id := fs.Int64("id", 0, "item ID")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	key, err := requireID("id", *id)
	if err != nil {
		return err
	}

	v, err := loadItems(ctx, a)
	if err != nil {
		return err
	}
	history, err := v.PriceHistory(ctx, key)
	if err != nil {
		return err
	}

	renderTitle(a.stdout, "Price history for item "+key)
	if len(history) == 0 {
		renderPager(a.stdout, 0, 0, 0, true)
		return nil
	}
	rows := make([][]string, 0, len(history))
	for _, point := range history {
		rows = append(rows, []string{point.ChangedAt.Local().Format("01/02/2006 15:04"), export.FormatMoney(point.Price)})
	}
	renderTable(a.stdout, []string{"Changed", "Price"}, rows)
	return nil
}

func cmdNotifications(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "notifications", "")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	v := view.NewNotificationsView(a.client, a.logger)
	if err := v.Load(ctx); err != nil {
		return err
	}

	renderTitle(a.stdout, fmt.Sprintf("Notifications (%d unread)", v.UnreadCount()))
	notes := v.Notifications()
	if len(notes) == 0 {
		fmt.Fprintln(a.stdout, mutedStyle.Render("No notifications."))
		return nil
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{n.CreatedAt.Local().Format("01/02/2006 15:04"), n.Message, yesNo(n.Read)})
	}
	renderTable(a.stdout, []string{"When", "Message", "Read"}, rows)
	return nil
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "profile", "[-name FULL] [-email ADDR]")
	name := fs.String("name", "", "new full name")
	email := fs.String("email", "", "new email address")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	v := view.NewProfileView(a.client, a.logger)
	if err := v.Load(ctx); err != nil {
		return err
	}

	if *name != "" || *email != "" {
		current := v.Profile()
		newName, newEmail := current.Name, current.Email
		if *name != "" {
			newName = *name
		}
		if *email != "" {
			newEmail = *email
		}
		if err := v.Save(ctx, newName, newEmail); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "Profile updated.")
	}

	p := v.Profile()
	renderTable(a.stdout, []string{"Username", "Name", "Email", "Role"},
		[][]string{{p.Username, p.Name, p.Email, p.Role}})
	return nil
}

func cmdDashboard(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "dashboard", "")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	v := view.NewAdminDashboardView(a.client, a.classifier, a.session, a.logger)
	if err := v.Load(ctx); err != nil {
		return err
	}
	s := v.Summary()

	renderTitle(a.stdout, "Dashboard")
	rows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		rows = append(rows, []string{c, s.ByCategory[c].StringFixed(2)})
	}
	renderTable(a.stdout, []string{"Category", "Total"}, rows)

	fmt.Fprintf(a.stdout, "Orders: %s over %d days (%d unverified lines)\n",
		s.OrderTotal.StringFixed(2), s.OrderDays, s.PendingOrderRows)
	fmt.Fprintf(a.stdout, "Expenses: %s across %d records (%d unverified)\n",
		s.ExpenseTotal.StringFixed(2), s.ExpenseCount, s.PendingExpenses)
	renderTotal(a.stdout, "Grand total", s.GrandTotal())
	return nil
}
