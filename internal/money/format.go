// Package money renders monetary amounts for display. Calculations elsewhere
// stay in raw float64 dollars; only formatting rounds.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders an amount as an en-US currency string, e.g. "$1,234.50".
func FormatUSD(amount float64) string {
	return printer.Sprintf("$%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
