package deid

import (
	"regexp"
	"strings"
	"testing"

	"github.com/nivedm/datasentry/internal/pii"
)

func TestPseudonymize(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		s := NewSession()

		first := s.Pseudonymize(pii.TypePhone, "9876543210")
		second := s.Pseudonymize(pii.TypePhone, "9876543210")
		if first != second {
			t.Errorf("same value produced %q then %q", first, second)
		}
		if first != "phone_1" {
			t.Errorf("first phone pseudonym = %q, want phone_1", first)
		}

		other := s.Pseudonymize(pii.TypePhone, "9123456780")
		if other != "phone_2" {
			t.Errorf("second distinct phone = %q, want phone_2", other)
		}
	})

	t.Run("CountersPerType", func(t *testing.T) {
		s := NewSession()
		if got := s.Pseudonymize(pii.TypePhone, "9876543210"); got != "phone_1" {
			t.Errorf("phone pseudonym = %q", got)
		}
		if got := s.Pseudonymize(pii.TypeAadhaar, "234567890124"); got != "aadhaar_1" {
			t.Errorf("aadhaar counter should be independent, got %q", got)
		}
	})

	t.Run("EmailKeepsDomain", func(t *testing.T) {
		s := NewSession()
		if got := s.Pseudonymize(pii.TypeEmail, "anil.k@example.com"); got != "user1@example.com" {
			t.Errorf("email pseudonym = %q, want user1@example.com", got)
		}
		if got := s.Pseudonymize(pii.TypeEmail, "second@example.org"); got != "user2@example.org" {
			t.Errorf("email pseudonym = %q, want user2@example.org", got)
		}
		// Malformed addresses fall back to gmail.com.
		if got := s.Pseudonymize(pii.TypeEmail, "two@@signs"); got != "user3@gmail.com" {
			t.Errorf("malformed email pseudonym = %q, want user3@gmail.com", got)
		}
	})

	t.Run("FreshSessionResets", func(t *testing.T) {
		s1 := NewSession()
		s1.Pseudonymize(pii.TypePhone, "9876543210")
		s1.Pseudonymize(pii.TypePhone, "9123456780")

		s2 := NewSession()
		if got := s2.Pseudonymize(pii.TypePhone, "9123456780"); got != "phone_1" {
			t.Errorf("new session should restart counters, got %q", got)
		}
	})
}

func TestSelective(t *testing.T) {
	t.Run("CreditCard", func(t *testing.T) {
		s := NewSession()
		if got := s.Selective(pii.TypeCreditCard, "4532 0151 1283 0366"); got != "XXXX-XXXX-XXXX-0366" {
			t.Errorf("selective card = %q", got)
		}
		if got := s.Selective(pii.TypeCreditCard, "123456789012"); got != "123456789012" {
			t.Errorf("short card should pass through, got %q", got)
		}
	})

	t.Run("AadhaarMiddleFour", func(t *testing.T) {
		s := NewSession()
		// Distinct from masking: outer groups revealed, middle four digits
		// replaced in place.
		if got := s.Selective(pii.TypeAadhaar, "2345 6789 0124"); got != "2345XXXX0124" {
			t.Errorf("selective aadhaar = %q, want 2345XXXX0124", got)
		}
	})

	t.Run("EmailOwnCounter", func(t *testing.T) {
		s := NewSession()
		first := s.Selective(pii.TypeEmail, "anil.k@example.com")
		if first != "email1@example.com" {
			t.Errorf("selective email = %q, want email1@example.com", first)
		}
		if again := s.Selective(pii.TypeEmail, "anil.k@example.com"); again != first {
			t.Errorf("selective email not consistent: %q vs %q", first, again)
		}
	})

	t.Run("IndependentFromPseudonymization", func(t *testing.T) {
		s := NewSession()
		// Both strategies on the same email in the same run must not share
		// counters or maps.
		pseudo := s.Pseudonymize(pii.TypeEmail, "anil.k@example.com")
		selective := s.Selective(pii.TypeEmail, "anil.k@example.com")
		if pseudo != "user1@example.com" {
			t.Errorf("pseudonymized email = %q", pseudo)
		}
		if selective != "email1@example.com" {
			t.Errorf("selective email = %q", selective)
		}
	})

	t.Run("PANRandomEachCall", func(t *testing.T) {
		s := NewSession()
		shape := regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
		first := s.Selective(pii.TypePAN, "ABCPE1234A")
		if !shape.MatchString(first) {
			t.Errorf("selective PAN %q is not PAN-shaped", first)
		}
		// No consistency requirement; draws are independent. A collision
		// across several draws is vanishingly unlikely.
		same := true
		for i := 0; i < 5; i++ {
			if s.Selective(pii.TypePAN, "ABCPE1234A") != first {
				same = false
			}
		}
		if same {
			t.Error("selective PAN appears to be deterministic")
		}
	})
}

func TestAnonymize(t *testing.T) {
	checks := []struct {
		typ     pii.Type
		pattern string
	}{
		{pii.TypeCreditCard, `^[a-zA-Z0-9]{16}$`},
		{pii.TypeEmail, `^[a-zA-Z0-9]{8}@[a-zA-Z0-9]{5}\.com$`},
		{pii.TypeAadhaar, `^[0-9]{12}$`},
		{pii.TypePAN, `^[A-Z]{5}[0-9]{4}[A-Z]$`},
		{pii.TypePhone, `^9[0-9]{9}$`},
		{pii.Type("unknown"), `^[a-zA-Z0-9]{10}$`},
	}

	for _, tc := range checks {
		re := regexp.MustCompile(tc.pattern)
		got := Anonymize(tc.typ, "original")
		if !re.MatchString(got) {
			t.Errorf("Anonymize(%s) = %q, want shape %s", tc.typ, got, tc.pattern)
		}
	}

	t.Run("NoMemoryBetweenCalls", func(t *testing.T) {
		// Two occurrences of the same input should (overwhelmingly) differ.
		same := true
		first := Anonymize(pii.TypeCreditCard, "4532015112830366")
		for i := 0; i < 5; i++ {
			if Anonymize(pii.TypeCreditCard, "4532015112830366") != first {
				same = false
			}
		}
		if same {
			t.Error("anonymization appears to reuse outputs")
		}
	})
}

func TestApply(t *testing.T) {
	s := NewSession()

	if got := s.Apply(StrategyMasking, pii.TypePAN, "ABCPE1234A"); got != "ABCPE****A" {
		t.Errorf("Apply masking = %q", got)
	}
	if got := s.Apply(StrategyPseudonymization, pii.TypePhone, "9876543210"); got != "phone_1" {
		t.Errorf("Apply pseudonymization = %q", got)
	}
	if got := s.Apply(Strategy("No-Such-Strategy"), pii.TypePhone, "9876543210"); got != "9876543210" {
		t.Errorf("unknown strategy should pass through, got %q", got)
	}
	if got := s.Apply(StrategyAnonymization, pii.TypePhone, "9876543210"); !strings.HasPrefix(got, "9") || len(got) != 10 {
		t.Errorf("Apply anonymization = %q", got)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"Masking", "Anonymization", "Pseudo-Anonymization", "Selective"} {
		if _, ok := ParseStrategy(name); !ok {
			t.Errorf("ParseStrategy(%q) not recognized", name)
		}
	}
	if _, ok := ParseStrategy("Tokenization"); ok {
		t.Error("ParseStrategy(Tokenization) should not resolve")
	}
}
