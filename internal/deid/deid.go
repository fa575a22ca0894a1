// Package deid maps validated PII values to replacements under one of four
// strategies. Masking and anonymization are stateless; pseudonymization and
// the selective strategy's email rule keep run-scoped state in a Session.
package deid

import "github.com/nivedm/datasentry/internal/pii"

// Strategy selects a de-identification approach.
type Strategy string

const (
	StrategyMasking          Strategy = "Masking"
	StrategyAnonymization    Strategy = "Anonymization"
	StrategyPseudonymization Strategy = "Pseudo-Anonymization"
	StrategySelective        Strategy = "Selective"
)

// Strategies lists the recognized strategies.
var Strategies = []Strategy{
	StrategyMasking,
	StrategyAnonymization,
	StrategyPseudonymization,
	StrategySelective,
}

// ParseStrategy resolves a strategy name. The second return value reports
// whether the name was recognized.
func ParseStrategy(name string) (Strategy, bool) {
	for _, s := range Strategies {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// Apply runs the selected strategy on a validated value. An unrecognized
// strategy is a passthrough; de-identification is never fatal.
func (s *Session) Apply(strategy Strategy, t pii.Type, value string) string {
	switch strategy {
	case StrategyMasking:
		return Mask(t, value)
	case StrategyAnonymization:
		return Anonymize(t, value)
	case StrategyPseudonymization:
		return s.Pseudonymize(t, value)
	case StrategySelective:
		return s.Selective(t, value)
	default:
		return value
	}
}

// digits strips every non-digit byte from s.
func digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
