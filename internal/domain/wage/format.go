package wage

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// FormatWon renders an amount with thousands grouping, e.g. 12,432.
func FormatWon(amount decimal.Decimal) string {
	whole := amount.Truncate(0)
	out := printer.Sprintf("%d", whole.IntPart())
	if frac := amount.Sub(whole).Abs(); !frac.IsZero() {
		out += strings.TrimPrefix(frac.String(), "0")
	}
	return out
}

func FormatAmount(amount int64) string {
	return printer.Sprintf("%d", amount)
}
