// ABOUTME: Currency formatting for workload messages
// ABOUTME: Renders whole-dollar USD amounts with thousands separators
package workload

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders d as whole US dollars, e.g. "$125,000" or "-$4,500".
func FormatCurrency(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}
