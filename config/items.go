package config

import (
	"strings"

	"github.com/fairwaydispatch/caddie/core/model"
)

// ItemConfig is one loadable menu entry for the scenario's item catalog.
type ItemConfig struct {
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Complexity string  `json:"complexity,omitempty"` // "simple" | "medium" | "complex"
}

func (i ItemConfig) build() model.Item {
	return model.Item{Name: i.Name, Quantity: 1, UnitPrice: i.UnitPrice, Complexity: parseComplexity(i.Complexity)}
}

func parseComplexity(s string) model.Complexity {
	switch strings.ToLower(s) {
	case "complex":
		return model.Complex
	case "simple":
		return model.Simple
	default:
		return model.Medium
	}
}

// DefaultItemCatalog is used when a scenario specifies no item_catalog.
func DefaultItemCatalog() []model.Item {
	return []model.Item{
		{Name: "soda", Quantity: 1, UnitPrice: 3, Complexity: model.Simple},
		{Name: "hot dog", Quantity: 1, UnitPrice: 6, Complexity: model.Medium},
		{Name: "club sandwich", Quantity: 1, UnitPrice: 11, Complexity: model.Complex},
		{Name: "beer", Quantity: 1, UnitPrice: 7, Complexity: model.Simple},
	}
}

// BuildCatalog constructs the item catalog from its loadable form, or
// DefaultItemCatalog if empty.
func BuildCatalog(items []ItemConfig) []model.Item {
	if len(items) == 0 {
		return DefaultItemCatalog()
	}
	out := make([]model.Item, 0, len(items))
	for _, i := range items {
		out = append(out, i.build())
	}
	return out
}
