package pii

import (
	"regexp"
	"strings"
)

var panShape = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// panEntityTypes are the valid 4th-character entity codes issued by the
// Income Tax Department.
const panEntityTypes = "ABCFGHLJPT"

// panEntityNames maps entity codes to their official descriptions.
var panEntityNames = map[byte]string{
	'P': "Individual",
	'C': "Company",
	'H': "HUF (Hindu Undivided Family)",
	'F': "Firm",
	'A': "Association of Persons (AOP)",
	'T': "Trust",
	'B': "Body of Individuals (BOI)",
	'L': "Local Authority",
	'J': "Artificial Juridical Person",
	'G': "Government",
}

// IsValid reports whether value is genuinely PII of the given type. It
// applies the type's structural and checksum rules; candidates that merely
// match a detection pattern are rejected here.
func IsValid(t Type, value string) bool {
	digits := digitsOf(value)

	switch t {
	case TypeAadhaar:
		return len(digits) == 12 && digits[0] >= '2' && digits[0] <= '9' && Verhoeff(digits)
	case TypePAN:
		return ValidatePAN(value, "")
	case TypeCreditCard:
		return len(digits) >= 13 && len(digits) <= 19 && Luhn(value)
	case TypeEmail:
		return ValidateEmail(value)
	case TypePhone:
		return len(digits) == 10 && digits[0] >= '6' && digits[0] <= '9'
	}
	return false
}

// ValidatePAN applies the full PAN ruleset: 10-character shape, entity-type
// code, the optional surname rule for individual PANs, and the check digit.
// surname may be empty; the surname rule is skipped when it is.
func ValidatePAN(pan, surname string) bool {
	pan = strings.ToUpper(strings.TrimSpace(pan))
	if len(pan) != 10 || !panShape.MatchString(pan) {
		return false
	}

	if !strings.ContainsRune(panEntityTypes, rune(pan[3])) {
		return false
	}

	// For individual PANs the 5th character is the first letter of the
	// holder's surname.
	if pan[3] == 'P' && surname != "" {
		s := strings.ToUpper(strings.TrimSpace(surname))
		if s == "" || pan[4] != s[0] {
			return false
		}
	}

	return validatePANCheckDigit(pan)
}

// validatePANCheckDigit verifies the 10th character against the weighted
// digit-sum of the first nine: digits keep their value, letters map to
// A=10..Z=35, each is multiplied by the positional weight 1/3/7 cycle with
// two-digit products digit-summed, and the total maps to a letter A-J.
func validatePANCheckDigit(pan string) bool {
	if len(pan) != 10 {
		return false
	}

	weights := [9]int{1, 3, 7, 1, 3, 7, 1, 3, 7}
	sum := 0
	for i := 0; i < 9; i++ {
		c := pan[i]
		var v int
		if c >= 'A' && c <= 'Z' {
			v = int(c-'A') + 10
		} else {
			v = int(c - '0')
		}
		w := v * weights[i]
		if w > 9 {
			w = w/10 + w%10
		}
		sum += w
	}

	check := (10 - sum%10) % 10
	return pan[9] == byte('A'+check)
}

// PANCheckDigit computes the expected 10th character for the first nine
// characters of a PAN.
func PANCheckDigit(firstNine string) byte {
	weights := [9]int{1, 3, 7, 1, 3, 7, 1, 3, 7}
	sum := 0
	for i := 0; i < 9 && i < len(firstNine); i++ {
		c := firstNine[i]
		var v int
		if c >= 'A' && c <= 'Z' {
			v = int(c-'A') + 10
		} else {
			v = int(c - '0')
		}
		w := v * weights[i]
		if w > 9 {
			w = w/10 + w%10
		}
		sum += w
	}
	return byte('A' + (10-sum%10)%10)
}

// PANEntityType returns the official description of a PAN's 4th-character
// entity code, or "Unknown".
func PANEntityType(pan string) string {
	if len(pan) < 4 {
		return "Unknown"
	}
	if name, ok := panEntityNames[pan[3]]; ok {
		return name
	}
	return "Unknown"
}

const (
	validLocalChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.!#$%&'*+/=?^_`{|}~-"
	validDomainChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-"
)

// ValidateEmail applies the structural email rules: overall and per-part
// length limits, exactly one '@', allowed character sets, no consecutive
// dots, and a dotted domain whose top-level label has at least 2 characters.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) < 5 || len(email) > 254 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}

	at := strings.IndexByte(email, '@')
	local, domain := email[:at], email[at+1:]

	if len(local) < 1 || len(local) > 64 {
		return false
	}
	if len(domain) < 1 || len(domain) > 253 {
		return false
	}
	if strings.Contains(email, "..") {
		return false
	}
	for i := 0; i < len(local); i++ {
		if !strings.ContainsRune(validLocalChars, rune(local[i])) {
			return false
		}
	}
	for i := 0; i < len(domain); i++ {
		if !strings.ContainsRune(validDomainChars, rune(domain[i])) {
			return false
		}
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") ||
		strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return false
	}

	tld := domain[strings.LastIndexByte(domain, '.')+1:]
	return len(tld) >= 2
}
