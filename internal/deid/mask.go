package deid

import (
	"strings"

	"github.com/nivedm/datasentry/internal/pii"
)

// Mask applies the format-preserving partial-reveal rules. A value that does
// not meet its type's format precondition is returned unchanged.
func Mask(t pii.Type, value string) string {
	switch t {
	case pii.TypeAadhaar:
		return MaskAadhaar(value)
	case pii.TypePAN:
		return MaskPAN(value)
	case pii.TypeCreditCard:
		return MaskCreditCard(value)
	case pii.TypeEmail:
		return MaskEmail(value)
	case pii.TypePhone:
		return MaskPhone(value)
	}
	return value
}

// MaskAadhaar keeps the first and last 4 characters and hides the middle
// group: "2345 6789 0124" becomes "2345-XXXX-0124".
func MaskAadhaar(aadhaar string) string {
	if len(digits(aadhaar)) != 12 {
		return aadhaar
	}
	return aadhaar[:4] + "-XXXX-" + aadhaar[len(aadhaar)-4:]
}

// MaskPAN keeps the first 5 and last characters: "ABCPE1234A" becomes
// "ABCPE****A".
func MaskPAN(pan string) string {
	if len(pan) != 10 {
		return pan
	}
	return pan[:5] + "****" + pan[9:]
}

// MaskCreditCard reveals only the last four digits.
func MaskCreditCard(card string) string {
	d := digits(card)
	if len(d) < 13 {
		return card
	}
	return "XXXX-XXXX-XXXX-" + d[len(d)-4:]
}

// MaskEmail hides the username, preserving its length and the domain.
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	return strings.Repeat("x", len(parts[0])) + "@" + parts[1]
}

// MaskPhone reveals the last four digits of a 10-digit number; anything else
// collapses to a fixed fully-masked string.
func MaskPhone(phone string) string {
	d := digits(phone)
	if len(d) == 10 {
		return "XXXXXX" + d[6:]
	}
	return "XXXXXXXXXX"
}
