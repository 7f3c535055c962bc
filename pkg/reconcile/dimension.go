// Package reconcile merges per-branch article snapshots into a single
// comparable view keyed by product code and computes field-level
// discrepancies for one comparison dimension at a time.
//
// Rows are rebuilt from scratch on every pass rather than incrementally
// patched, so a pass can never carry a stale diff from earlier inputs.
//
// Example usage:
//
//	result := reconcile.Reconcile(registry.Snapshots(),
//	    reconcile.WithDimension(reconcile.DimensionPrice),
//	    reconcile.WithDiffOnly(true),
//	    reconcile.WithPage(1, 100),
//	)
//	for _, row := range result.Rows {
//	    fmt.Println(row.Code, row.Values)
//	}
package reconcile

import (
	"github.com/dakkemarket/branchsync/pkg/catalog"
	"github.com/dakkemarket/branchsync/pkg/errors"
)

// Dimension is the article attribute being compared across branches.
type Dimension int

// The closed set of comparison dimensions.
const (
	// DimensionName compares article names.
	DimensionName Dimension = iota
	// DimensionPrice compares selling prices.
	DimensionPrice
	// DimensionGroup compares product groups (group name, falling back to
	// group code when the name is empty).
	DimensionGroup
	// DimensionStock compares primary stock quantities.
	DimensionStock
)

// String returns the dimension's name.
func (d Dimension) String() string {
	switch d {
	case DimensionPrice:
		return "price"
	case DimensionGroup:
		return "group"
	case DimensionStock:
		return "stock"
	default:
		return "name"
	}
}

// ParseDimension parses a dimension name as used on the command line.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "name":
		return DimensionName, nil
	case "price":
		return DimensionPrice, nil
	case "group":
		return DimensionGroup, nil
	case "stock":
		return DimensionStock, nil
	default:
		return DimensionName, errors.NewValidationError("dimension", s,
			"must be one of name, price, group, stock")
	}
}

// Dimensions returns all comparison dimensions.
func Dimensions() []Dimension {
	return []Dimension{DimensionName, DimensionPrice, DimensionGroup, DimensionStock}
}

// extractors maps each dimension to its field accessor and formatter. The
// formatted string is both the displayed value and the value compared for
// diffing: display-level agreement is what operators care about, so two
// representations of the same number that format identically are not a diff.
var extractors = map[Dimension]func(catalog.Article) string{
	DimensionName: func(a catalog.Article) string {
		return a.Name
	},
	DimensionPrice: func(a catalog.Article) string {
		return catalog.FormatPrice(a.Price)
	},
	DimensionGroup: func(a catalog.Article) string {
		if a.GroupName != "" {
			return a.GroupName
		}
		return a.GroupCode
	},
	DimensionStock: func(a catalog.Article) string {
		return catalog.FormatStock(a.Stock1)
	},
}

// Value returns the formatted comparable value of an article for this
// dimension. An empty string means the value is absent or zero.
func (d Dimension) Value(a catalog.Article) string {
	if fn, ok := extractors[d]; ok {
		return fn(a)
	}
	return ""
}
