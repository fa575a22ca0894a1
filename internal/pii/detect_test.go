package pii

import "testing"

func typesIn(matches []Match) map[Type]int {
	out := make(map[Type]int)
	for _, m := range matches {
		out[m.Type]++
	}
	return out
}

func TestDetect(t *testing.T) {
	t.Run("TwelveDigitsAreAadhaarOnly", func(t *testing.T) {
		matches := Detect("123456789012")
		if len(matches) != 1 {
			t.Fatalf("expected 1 match, got %d: %v", len(matches), matches)
		}
		if matches[0].Type != TypeAadhaar {
			t.Errorf("12-digit run classified as %s, want aadhaar", matches[0].Type)
		}
		if matches[0].Value != "123456789012" {
			t.Errorf("matched value = %q", matches[0].Value)
		}
	})

	t.Run("CardContainsAadhaarSpan", func(t *testing.T) {
		// The first 12 digits of a grouped card number also look like an
		// Aadhaar; containment must leave only the card.
		matches := Detect("4532 0151 1283 0366")
		counts := typesIn(matches)
		if counts[TypeAadhaar] != 0 {
			t.Errorf("aadhaar should be suppressed inside a card span: %v", matches)
		}
		if counts[TypeCreditCard] != 1 {
			t.Errorf("expected 1 credit_card match, got %v", matches)
		}
	})

	t.Run("GroupedAadhaar", func(t *testing.T) {
		for _, text := range []string{"2345 6789 0124", "2345-6789-0124"} {
			matches := Detect(text)
			if len(matches) != 1 || matches[0].Type != TypeAadhaar {
				t.Errorf("Detect(%q) = %v, want one aadhaar", text, matches)
			}
		}
	})

	t.Run("InconsistentSeparators", func(t *testing.T) {
		if matches := Detect("2345-6789 0124"); len(matches) != 0 {
			t.Errorf("mixed separators should not match aadhaar: %v", matches)
		}
	})

	t.Run("DigitAdjacency", func(t *testing.T) {
		// A 12-digit window inside a longer digit run is not an Aadhaar
		// candidate, and a trailing dash blocks the match outright.
		for _, text := range []string{"1234567890123", "123456789012-"} {
			for _, m := range Detect(text) {
				if m.Type == TypeAadhaar {
					t.Errorf("Detect(%q) produced aadhaar match %v", text, m)
				}
			}
		}
	})

	t.Run("PhoneEmailPAN", func(t *testing.T) {
		matches := Detect("reach Anil at 9876543210 or anil.k@example.com, PAN ABCPE1234A")
		counts := typesIn(matches)
		if counts[TypePhone] != 1 || counts[TypeEmail] != 1 || counts[TypePAN] != 1 {
			t.Errorf("unexpected matches: %v", matches)
		}
	})

	t.Run("Offsets", func(t *testing.T) {
		text := "id 9876543210 end"
		matches := Detect(text)
		if len(matches) != 1 {
			t.Fatalf("expected 1 match, got %v", matches)
		}
		m := matches[0]
		if text[m.Start:m.End] != m.Value {
			t.Errorf("offsets [%d,%d) do not frame %q", m.Start, m.End, m.Value)
		}
	})

	t.Run("EmptyText", func(t *testing.T) {
		if matches := Detect(""); len(matches) != 0 {
			t.Errorf("empty text should yield no candidates: %v", matches)
		}
	})
}

func TestHasValidPII(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"234567890124", true},            // checksum-valid aadhaar
		{"123456789012", false},           // aadhaar shape, fails validation
		{"4532015112830366", true},        // Luhn-valid card
		{"4532015112830367", false},       // Luhn failure
		{"my mail is user@example.com", true},
		{"notareal@@email", false},
		{"plain text", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := HasValidPII(tc.text); got != tc.want {
			t.Errorf("HasValidPII(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
