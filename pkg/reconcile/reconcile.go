package reconcile

import (
	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/catalog"
)

// Row is the merged per-code view across all enabled branches for the active
// comparison dimension. Values holds one formatted value per enabled branch,
// in registry order; an empty string means the branch does not carry the code
// or reports an empty/zero value.
type Row struct {
	Code          string   `json:"code"`
	ReferenceName string   `json:"reference_name"`
	Values        []string `json:"values"`
	HasDiff       bool     `json:"has_diff"`
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Rows is the paginated row slice for the requested page.
	Rows []Row `json:"rows"`
	// Branches are the enabled branch names in registry order, matching the
	// index positions of each row's Values.
	Branches []string `json:"branches"`
	// Dimension is the comparison dimension the pass ran with.
	Dimension Dimension `json:"dimension"`
	// Total is the row count after diff-only filtering, before pagination.
	Total int `json:"total"`
	// TotalPages is the page count for the requested page size.
	TotalPages int `json:"total_pages"`
	// Page is the 1-based page the Rows slice corresponds to.
	Page int `json:"page"`
}

// Reconcile merges the given branch snapshots into reconciled rows for one
// comparison dimension.
//
// The union of codes across all snapshots is walked in first-seen order:
// branches in registry order, each branch's articles in fetch order. Each
// branch contributes its own per-branch entry; a later branch never overwrites
// an earlier branch's entry for the same code.
func Reconcile(snaps []branches.BranchSnapshot, opts ...Option) *Result {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	names := make([]string, 0, len(snaps))
	for _, s := range snaps {
		names = append(names, s.Branch)
	}

	index, order := buildIndex(snaps)

	refBranch := ""
	for _, s := range snaps {
		if s.IsReference {
			refBranch = s.Branch
			break
		}
	}

	rows := make([]Row, 0, len(order))
	for _, code := range order {
		perBranch := index[code]
		row := Row{
			Code:          code,
			ReferenceName: resolveReferenceName(snaps, perBranch, refBranch),
			Values:        make([]string, 0, len(snaps)),
		}

		// Track the first non-empty value as the reference-for-diff; any
		// later non-empty value that differs marks the row.
		first := ""
		seen := false
		for _, s := range snaps {
			value := ""
			if a, ok := perBranch[s.Branch]; ok {
				value = o.dimension.Value(a)
			}
			row.Values = append(row.Values, value)

			if value == "" {
				continue
			}
			if !seen {
				first = value
				seen = true
			} else if value != first {
				row.HasDiff = true
			}
		}

		if o.diffOnly && !row.HasDiff {
			continue
		}
		rows = append(rows, row)
	}

	total := len(rows)
	page, totalPages := clampPage(o.page, o.pageSize, total)

	return &Result{
		Rows:       paginate(rows, page, o.pageSize),
		Branches:   names,
		Dimension:  o.dimension,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}
}

// buildIndex maps code → branch name → article, recording codes in first-seen
// order. Within one branch a duplicate code overwrites that branch's entry;
// codes are unique per snapshot in practice, so this only guards bad input.
func buildIndex(snaps []branches.BranchSnapshot) (map[string]map[string]catalog.Article, []string) {
	index := make(map[string]map[string]catalog.Article)
	var order []string

	for _, s := range snaps {
		for _, a := range s.Articles {
			perBranch, ok := index[a.Code]
			if !ok {
				perBranch = make(map[string]catalog.Article)
				index[a.Code] = perBranch
				order = append(order, a.Code)
			}
			perBranch[s.Branch] = a
		}
	}
	return index, order
}

// resolveReferenceName prefers the reference branch's article name when that
// branch carries the code, then falls back to the first branch in registry
// order that does.
func resolveReferenceName(snaps []branches.BranchSnapshot, perBranch map[string]catalog.Article, refBranch string) string {
	if refBranch != "" {
		if a, ok := perBranch[refBranch]; ok {
			return a.Name
		}
	}
	for _, s := range snaps {
		if a, ok := perBranch[s.Branch]; ok {
			return a.Name
		}
	}
	return ""
}

// clampPage normalizes the requested page and computes the page count.
func clampPage(page, pageSize, total int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return page, 1
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return page, totalPages
}

// paginate slices rows for a 1-based page. A pageSize of 0 returns all rows;
// a page past the end returns an empty slice.
func paginate(rows []Row, page, pageSize int) []Row {
	if pageSize <= 0 {
		return rows
	}
	start := pageSize * (page - 1)
	if start >= len(rows) {
		return []Row{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
