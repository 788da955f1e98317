package validation

import "strings"

// IsValidMpesaPhone проверяет номер телефона для M-Pesa: +2547XXXXXXXX, 2547XXXXXXXX
// или 07XXXXXXXX (а также 01 для новых номеров). Пробелы игнорируются.
func IsValidMpesaPhone(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.TrimPrefix(phone, "+")

	var local string
	switch {
	case strings.HasPrefix(phone, "254"):
		local = phone[3:]
	case strings.HasPrefix(phone, "0"):
		local = phone[1:]
	default:
		return false
	}

	if len(local) != 9 || (local[0] != '7' && local[0] != '1') {
		return false
	}
	for _, r := range local {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
