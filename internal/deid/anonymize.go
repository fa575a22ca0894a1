package deid

import (
	"math/rand"

	"github.com/nivedm/datasentry/internal/pii"
)

const (
	alnumChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"
)

func randomFrom(charset string, n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = charset[rand.Intn(len(charset))]
	}
	return string(out)
}

// Anonymize replaces a value with a type-appropriate random string. No state
// is kept: two occurrences of the same input produce independent outputs.
func Anonymize(t pii.Type, _ string) string {
	switch t {
	case pii.TypeCreditCard:
		return randomFrom(alnumChars, 16)
	case pii.TypeEmail:
		return randomFrom(alnumChars, 8) + "@" + randomFrom(alnumChars, 5) + ".com"
	case pii.TypeAadhaar:
		return randomFrom(digitChars, 12)
	case pii.TypePAN:
		return randomPAN()
	case pii.TypePhone:
		return "9" + randomFrom(digitChars, 9)
	}
	return randomFrom(alnumChars, 10)
}

// randomPAN generates a PAN-shaped string: 5 upper letters, 4 digits, 1
// upper letter.
func randomPAN() string {
	return randomFrom(upperChars, 5) + randomFrom(digitChars, 4) + randomFrom(upperChars, 1)
}
