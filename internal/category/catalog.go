package category

import "sort"

// Category is a catalog entry an expense transaction may reference.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// catalog mirrors the category set of the mobile client. Transactions store
// the key as a free string, so unknown keys are tolerated; the catalog exists
// for listing and display.
var catalog = map[string]Category{
	"groceries":      {Key: "groceries", Label: "Groceries"},
	"rent":           {Key: "rent", Label: "Rent"},
	"utilities":      {Key: "utilities", Label: "Utilities"},
	"transportation": {Key: "transportation", Label: "Transportation"},
	"entertainment":  {Key: "entertainment", Label: "Entertainment"},
	"dining":         {Key: "dining", Label: "Dining"},
	"health":         {Key: "health", Label: "Health"},
	"insurance":      {Key: "insurance", Label: "Insurance"},
	"savings":        {Key: "savings", Label: "Savings"},
	"clothing":       {Key: "clothing", Label: "Clothing"},
	"personal":       {Key: "personal", Label: "Personal"},
	"others":         {Key: "others", Label: "Others"},
}

// Lookup resolves a catalog entry by key.
func Lookup(key string) (Category, bool) {
	c, ok := catalog[key]
	return c, ok
}

// All returns the catalog sorted by key.
func All() []Category {
	out := make([]Category, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
