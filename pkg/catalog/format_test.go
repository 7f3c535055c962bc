package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dakkemarket/branchsync/pkg/catalog"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"zero is blank", 0, ""},
		{"integral with separators", 1250000, "1,250,000"},
		{"small integral", 100, "100"},
		{"fractional keeps two decimals", 1234.5, "1,234.5"},
		{"trailing zeros stripped", 99.50, "99.5"},
		{"two significant decimals", 10.25, "10.25"},
		{"integral float renders without point", 5000.0, "5,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.FormatPrice(tt.value))
		})
	}
}

func TestFormatStock(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"zero is blank", 0, ""},
		{"integral without separators", 12500, "12500"},
		{"fractional", 2.5, "2.5"},
		{"trailing zeros stripped", 7.10, "7.1"},
		{"negative stock still renders", -3, "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.FormatStock(tt.value))
		})
	}
}

func TestFormattedAgreementIsNotADiff(t *testing.T) {
	// Two representations of the same number must format identically, since
	// the formatted form is what gets compared across branches.
	assert.Equal(t, catalog.FormatPrice(100), catalog.FormatPrice(100.00))
	assert.Equal(t, catalog.FormatStock(3), catalog.FormatStock(3.0))
}
