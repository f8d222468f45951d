package legie

import "strings"

// CheckISBN normalizes and validates an ISBN-10 or ISBN-13 (EANs validate as
// ISBN-13). Returns the bare digit form, or empty when the value is not a
// valid ISBN.
func CheckISBN(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == 'x' || r == 'X':
			return 'X'
		case r == '-' || r == ' ':
			return -1
		}
		return -1
	}, strings.TrimSpace(raw))

	switch len(cleaned) {
	case 10:
		if validISBN10(cleaned) {
			return cleaned
		}
	case 13:
		if validISBN13(cleaned) {
			return cleaned
		}
	}
	return ""
}

func validISBN10(isbn string) bool {
	sum := 0
	for i, r := range isbn {
		value := 0
		switch {
		case r >= '0' && r <= '9':
			value = int(r - '0')
		case r == 'X':
			if i != 9 {
				return false
			}
			value = 10
		default:
			return false
		}
		sum += (10 - i) * value
	}
	return sum%11 == 0
}

func validISBN13(isbn string) bool {
	sum := 0
	for i, r := range isbn {
		if r < '0' || r > '9' {
			return false
		}
		value := int(r - '0')
		if i%2 == 1 {
			value *= 3
		}
		sum += value
	}
	return sum%10 == 0
}
