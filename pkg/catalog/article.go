// Package catalog defines the article types shared across the branchsync system
// and the display formatting rules applied to numeric article fields.
//
// An Article is the raw per-branch record returned by a branch middleware
// service. The code field is the cross-branch join key: unique within one
// branch's snapshot, but a code may be present in some branches and absent
// in others.
package catalog

// Article is one product record as reported by a single branch.
type Article struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock1    float64 `json:"stock1"`
	Stock2    float64 `json:"stock2"`
	GroupCode string  `json:"group_code"`
	GroupName string  `json:"group_name"`
	Barcode   string  `json:"barcode,omitempty"`
	Country   string  `json:"country,omitempty"`
	Model     string  `json:"model,omitempty"`
}

// Group is one product group as reported by a single branch.
type Group struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
