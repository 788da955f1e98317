// Package validation проверяет реквизиты оплаты, вводимые пользователем.
package validation

import (
	"strings"
	"unicode"
)

// NormalizeCardNumber убирает пробелы и дефисы, которыми пользователи разделяют группы цифр.
func NormalizeCardNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

// IsValidCardNumber проверяет номер карты по алгоритму Луна.
// Допускаются от 12 до 19 цифр, разделители игнорируются.
func IsValidCardNumber(number string) bool {
	number = NormalizeCardNumber(number)
	if len(number) < 12 || len(number) > 19 {
		return false
	}

	sum := 0
	double := false

	for i := len(number) - 1; i >= 0; i-- {
		ch := rune(number[i])
		if !unicode.IsDigit(ch) {
			return false
		}
		digit := int(ch - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}

// CardLast4 возвращает последние четыре цифры номера карты.
func CardLast4(number string) string {
	number = NormalizeCardNumber(number)
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}
