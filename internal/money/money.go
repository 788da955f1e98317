// Package money форматирует денежные суммы для сообщений пользователю.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency - обозначение валюты витрины.
const Currency = "KSh"

// Format возвращает сумму с разделителями разрядов, например "KSh 5,000".
func Format(amount decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	if amount.IsInteger() {
		return p.Sprintf("%s %d", Currency, amount.IntPart())
	}
	return p.Sprintf("%s %.2f", Currency, amount.InexactFloat64())
}

// FormatInt - Format для целых сумм.
func FormatInt(amount int64) string {
	return Format(decimal.NewFromInt(amount))
}
