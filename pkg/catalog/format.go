package catalog

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pricePrinter renders grouped digits (thousands separators) for price display.
var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price for display. Zero and absent values render as the
// empty string. Integral values render without decimal places, with thousands
// separators. Non-integral values render with up to two decimal places, trailing
// zeros and a trailing decimal point stripped.
func FormatPrice(value float64) string {
	if value == 0 {
		return ""
	}
	if value == math.Trunc(value) {
		return pricePrinter.Sprintf("%d", int64(value))
	}
	return trimDecimal(pricePrinter.Sprintf("%.2f", value))
}

// FormatStock renders a stock quantity for display. Zero renders as the empty
// string. Integral values render without separators; non-integral values render
// with up to two decimal places, trailing zeros stripped.
func FormatStock(value float64) string {
	if value == 0 {
		return ""
	}
	if value == math.Trunc(value) {
		return strconv.FormatInt(int64(value), 10)
	}
	return trimDecimal(strconv.FormatFloat(value, 'f', 2, 64))
}

// trimDecimal strips trailing zeros after the decimal point, and the point
// itself when nothing remains behind it.
func trimDecimal(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
