package reconcile

// Option configures a reconciliation pass.
type Option func(*options)

type options struct {
	dimension Dimension
	diffOnly  bool
	page      int
	pageSize  int
}

func defaultOptions() options {
	return options{
		dimension: DimensionName,
		page:      1,
	}
}

// WithDimension selects the comparison dimension for the pass.
func WithDimension(d Dimension) Option {
	return func(o *options) {
		o.dimension = d
	}
}

// WithDiffOnly drops rows without a discrepancy when enabled. Filtering only
// ever removes rows; it never adds or reorders the remaining ones.
func WithDiffOnly(enabled bool) Option {
	return func(o *options) {
		o.diffOnly = enabled
	}
}

// WithPage applies pagination to the output rows. Pages are 1-based. A
// pageSize of 0 disables pagination and returns all rows. A page beyond the
// available range yields an empty slice rather than wrapping around.
func WithPage(page, pageSize int) Option {
	return func(o *options) {
		o.page = page
		o.pageSize = pageSize
	}
}
