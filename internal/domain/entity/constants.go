package entity

// Role constants for User
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Expense type constants. Backends send them lowercase.
const (
	ExpenseTypeProduct = "product"
	ExpenseTypeFood    = "food"
	ExpenseTypeService = "service"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DisplayDateLayout is the fixed locale format used in tables and exports
const DisplayDateLayout = "01/02/2006"
