package category

import (
	"fmt"
	"strings"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

// Dashboard categories
const (
	Product = "Product"
	Food    = "Food"
	Service = "Service"
	Other   = "Other"
)

// Scheme names, matching the dashboard.category_scheme config values
const (
	SchemeFoodOther = "food_other"
	SchemeThreeWay  = "three_way"
)

// Classifier maps an expense type to a dashboard category
type Classifier interface {
	Classify(expenseType string) string
	Categories() []string
}

// FoodOtherClassifier puts the literal type "food" in Food and everything else in Other
type FoodOtherClassifier struct{}

// Classify implements Classifier
func (FoodOtherClassifier) Classify(expenseType string) string {
	if strings.EqualFold(strings.TrimSpace(expenseType), entity.ExpenseTypeFood) {
		return Food
	}
	return Other
}

// Categories implements Classifier
func (FoodOtherClassifier) Categories() []string {
	return []string{Food, Other}
}

// ThreeWayClassifier uses the Product/Food/Service scheme of the expense forms
type ThreeWayClassifier struct{}

// Classify implements Classifier
func (ThreeWayClassifier) Classify(expenseType string) string {
	categoryMap := map[string]string{
		entity.ExpenseTypeProduct: Product,
		entity.ExpenseTypeFood:    Food,
		entity.ExpenseTypeService: Service,
	}

	if c, ok := categoryMap[strings.ToLower(strings.TrimSpace(expenseType))]; ok {
		return c
	}
	return Other
}

// Categories implements Classifier
func (ThreeWayClassifier) Categories() []string {
	return []string{Product, Food, Service, Other}
}

// ForScheme returns the classifier for a config scheme name
func ForScheme(scheme string) (Classifier, error) {
	switch scheme {
	case SchemeFoodOther, "":
		return FoodOtherClassifier{}, nil
	case SchemeThreeWay:
		return ThreeWayClassifier{}, nil
	}
	return nil, fmt.Errorf("unknown category scheme: %s", scheme)
}
