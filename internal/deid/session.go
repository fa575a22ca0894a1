package deid

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nivedm/datasentry/internal/pii"
)

// Session holds the de-identification state of one processing run: the
// pseudonymization map and counters per type, and the selective strategy's
// independent email map. A fresh Session is created per run so replacements
// never leak between unrelated runs; access is serialized so first-seen
// order determines counter assignment even under concurrent cell
// processing.
type Session struct {
	mu sync.Mutex

	pseudoValues   map[pii.Type]map[string]string
	pseudoCounters map[pii.Type]int

	selectiveEmails       map[string]string
	selectiveEmailCounter int
}

// NewSession creates an empty run-scoped session.
func NewSession() *Session {
	return &Session{
		pseudoValues:    make(map[pii.Type]map[string]string),
		pseudoCounters:  make(map[pii.Type]int),
		selectiveEmails: make(map[string]string),
	}
}

// Pseudonymize returns a consistent replacement for (type, value): the first
// occurrence of a value takes the type's next counter, later occurrences
// reuse the stored replacement. Emails keep their real domain with a
// "userN" local part; other types become "{type}_{N}".
func (s *Session) Pseudonymize(t pii.Type, value string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pseudoValues[t][value]; ok {
		return existing
	}
	if s.pseudoValues[t] == nil {
		s.pseudoValues[t] = make(map[string]string)
	}
	s.pseudoCounters[t]++

	var replacement string
	if t == pii.TypeEmail {
		replacement = fmt.Sprintf("user%d@%s", s.pseudoCounters[t], emailDomain(value))
	} else {
		replacement = fmt.Sprintf("%s_%d", t, s.pseudoCounters[t])
	}
	s.pseudoValues[t][value] = replacement
	return replacement
}

// Selective applies the per-type fixed policy: cards mask to the last four
// digits, emails get a consistent per-value pseudonym with its own counter,
// Aadhaar reveals the outer groups and hides the middle four digits, and
// PANs get a fresh random shape on every call.
func (s *Session) Selective(t pii.Type, value string) string {
	switch t {
	case pii.TypeCreditCard:
		d := digits(value)
		if len(d) < 13 {
			return value
		}
		return "XXXX-XXXX-XXXX-" + d[len(d)-4:]

	case pii.TypeEmail:
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.selectiveEmails[value]; ok {
			return existing
		}
		s.selectiveEmailCounter++
		replacement := fmt.Sprintf("email%d@%s", s.selectiveEmailCounter, emailDomain(value))
		s.selectiveEmails[value] = replacement
		return replacement

	case pii.TypeAadhaar:
		d := digits(value)
		if len(d) != 12 {
			return value
		}
		return d[:4] + "XXXX" + d[8:]

	case pii.TypePAN:
		return randomPAN()
	}
	return value
}

// emailDomain extracts the domain of a well-formed address; malformed
// addresses (anything without exactly one '@') default to gmail.com.
func emailDomain(value string) string {
	parts := strings.Split(strings.TrimSpace(value), "@")
	if len(parts) != 2 {
		return "gmail.com"
	}
	return parts[1]
}
