package pii

import "regexp"

// Type identifies a supported PII category.
type Type string

const (
	TypeAadhaar    Type = "aadhaar"
	TypePAN        Type = "pan"
	TypeCreditCard Type = "credit_card"
	TypeEmail      Type = "email"
	TypePhone      Type = "phone"
)

// AllTypes lists the supported types in detection order.
var AllTypes = []Type{TypeAadhaar, TypePAN, TypeCreditCard, TypeEmail, TypePhone}

// Match is a single PII candidate found in a text value. Start and End are
// byte offsets into the scanned text.
type Match struct {
	Type  Type   `json:"type"`
	Value string `json:"value"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Patterns holds one compiled matcher per PII type. Matching is deliberately
// broad: candidates that only look like PII are expected to be rejected by
// the validators, not by the patterns.
//
// The aadhaar pattern accepts 12 contiguous digits or 4-4-4 groups with any
// mix of space/dash separators; separator consistency and digit adjacency
// are enforced by the detector because RE2 has no backreferences or
// lookarounds.
var Patterns = map[Type]*regexp.Regexp{
	TypeAadhaar:    regexp.MustCompile(`[0-9]{12}|[0-9]{4}([\- ])[0-9]{4}([\- ])[0-9]{4}`),
	TypePAN:        regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`),
	TypeCreditCard: regexp.MustCompile(`\b(?:[0-9][ -]*?){13,19}\b`),
	TypeEmail:      regexp.MustCompile(`\b[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*\b`),
	TypePhone:      regexp.MustCompile(`\b[6-9][0-9]{9}\b`),
}

// displayNames maps human-facing labels to internal type keys.
var displayNames = map[string]Type{
	"Credit Card": TypeCreditCard,
	"Email":       TypeEmail,
	"Aadhaar":     TypeAadhaar,
	"PAN":         TypePAN,
	"Phone":       TypePhone,
}

// ParseType resolves a human-facing label (e.g. "Credit Card") or an internal
// key (e.g. "credit_card") to a Type. The second return value reports whether
// the name was recognized.
func ParseType(name string) (Type, bool) {
	if t, ok := displayNames[name]; ok {
		return t, true
	}
	for _, t := range AllTypes {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// DisplayName returns the human-facing label for a type.
func (t Type) DisplayName() string {
	for label, typ := range displayNames {
		if typ == t {
			return label
		}
	}
	return string(t)
}
