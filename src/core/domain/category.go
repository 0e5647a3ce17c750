package domain

import "strings"

// Category is a voting category a nominee can receive votes in.
type Category string

const (
	CategoryTop         Category = "top"
	CategoryFlop        Category = "flop"
	CategoryBestAction  Category = "best_action"
	CategoryWorstAction Category = "worst_action"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryTop, CategoryFlop, CategoryBestAction, CategoryWorstAction}

// ParseCategory maps user input ("Top", "best-action", ...) to a Category.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, c := range Categories {
		if string(c) == normalized {
			return c, nil
		}
	}
	return "", NewValidationError("category", "unknown category "+s)
}
