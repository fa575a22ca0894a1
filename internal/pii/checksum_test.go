package pii

import "testing"

func TestLuhn(t *testing.T) {
	t.Run("ValidNumbers", func(t *testing.T) {
		valid := []string{
			"4532015112830366",
			"4532 0151 1283 0366",
			"4532-0151-1283-0366",
			"5425233430109903",
			"379354508162306",
		}
		for _, v := range valid {
			if !Luhn(v) {
				t.Errorf("Luhn(%q) = false, want true", v)
			}
		}
	})

	t.Run("SingleDigitFlips", func(t *testing.T) {
		// Flipping any single digit of a valid number must break the checksum.
		base := "4532015112830366"
		for i := 0; i < len(base); i++ {
			flipped := []byte(base)
			flipped[i] = '0' + (flipped[i]-'0'+1)%10
			if Luhn(string(flipped)) {
				t.Errorf("Luhn(%q) = true after flipping digit %d, want false", flipped, i)
			}
		}
	})

	t.Run("Degenerate", func(t *testing.T) {
		if Luhn("") {
			t.Error("Luhn of empty string should be false")
		}
		if Luhn("abc") {
			t.Error("Luhn of non-digits should be false")
		}
	})
}

func TestVerhoeff(t *testing.T) {
	t.Run("ValidNumbers", func(t *testing.T) {
		valid := []string{
			"234567890124",
			"498392012345",
			"999999999999",
			"2345 6789 0124",
		}
		for _, v := range valid {
			if !Verhoeff(v) {
				t.Errorf("Verhoeff(%q) = false, want true", v)
			}
		}
	})

	t.Run("SingleDigitAlterations", func(t *testing.T) {
		// Verhoeff catches all single-digit errors.
		base := "234567890124"
		for i := 0; i < len(base); i++ {
			for delta := byte(1); delta <= 9; delta++ {
				altered := []byte(base)
				altered[i] = '0' + (altered[i]-'0'+delta)%10
				if Verhoeff(string(altered)) {
					t.Errorf("Verhoeff(%q) = true after altering digit %d, want false", altered, i)
				}
			}
		}
	})

	t.Run("Degenerate", func(t *testing.T) {
		if Verhoeff("") {
			t.Error("Verhoeff of empty string should be false")
		}
	})
}
