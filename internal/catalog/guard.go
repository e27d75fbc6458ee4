// Package catalog performs food searches against the backend catalog,
// guarding against cross-category queries before any request is issued.
package catalog

import (
	"fmt"
	"strings"
)

// Diet categories offered on the home screen.
const (
	CategoryVeg    = "Veg"
	CategoryNonVeg = "Non-Veg"
)

// Keyword lists for the category-mismatch guard. Matching is substring
// based on the lowercased query, same as the original storefront.
var (
	nonVegKeywords = []string{
		"chicken", "mutton", "fish", "egg", "prawn", "seafood",
		"beef", "meat", "liver", "pork", "non-veg",
	}
	vegKeywords = []string{
		"paneer", "gobi", "aloo", "dal", "mushroom", "tofu",
		"vegetarian", "pure veg", "veg thali", "veg rice", "veg food", "veg ",
	}
)

// MismatchError blocks a search whose food term contradicts the selected
// diet category. It is a validation error: surfaced to the user, fully
// recoverable by correcting the input, and never sent to the backend.
type MismatchError struct {
	Category string // selected category
	Found    string // category the query actually matches
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("select correct category (found %s item)", e.Found)
}

// CheckCategory validates that the food query fits the selected category.
// Returns a *MismatchError when it does not, nil otherwise.
func CheckCategory(category, food string) error {
	lowerFood := strings.ToLower(food)
	normalized := strings.ToLower(category)

	// Veg category must not carry a non-veg query
	if normalized == "veg" {
		for _, keyword := range nonVegKeywords {
			if strings.Contains(lowerFood, keyword) {
				return &MismatchError{Category: category, Found: CategoryNonVeg}
			}
		}
		return nil
	}

	// Non-veg category must not carry a strictly veg query
	if strings.Contains(normalized, "non") {
		for _, keyword := range vegKeywords {
			if strings.Contains(lowerFood, keyword) {
				return &MismatchError{Category: category, Found: CategoryVeg}
			}
		}
		// "veg" without "non-veg" counts as a pure veg search
		if strings.Contains(lowerFood, "veg") && !strings.Contains(lowerFood, "non-veg") {
			return &MismatchError{Category: category, Found: CategoryVeg}
		}
	}

	return nil
}
