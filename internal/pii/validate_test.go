package pii

import "testing"

func TestValidatePAN(t *testing.T) {
	t.Run("CheckDigit", func(t *testing.T) {
		// Expected 10th character for ABCPE1234 is computed, then verified.
		check := PANCheckDigit("ABCPE1234")
		pan := "ABCPE1234" + string(check)
		if !ValidatePAN(pan, "") {
			t.Errorf("ValidatePAN(%q) = false, want true", pan)
		}

		// Altering only the check digit must fail.
		for c := byte('A'); c <= 'J'; c++ {
			if c == check {
				continue
			}
			bad := "ABCPE1234" + string(c)
			if ValidatePAN(bad, "") {
				t.Errorf("ValidatePAN(%q) = true, want false", bad)
			}
		}
	})

	t.Run("KnownVector", func(t *testing.T) {
		if !ValidatePAN("ABCPE1234A", "") {
			t.Error("ABCPE1234A should be a valid PAN")
		}
		if ValidatePAN("ABCPE1234B", "") {
			t.Error("ABCPE1234B has a wrong check digit")
		}
	})

	t.Run("EntityType", func(t *testing.T) {
		// 4th character must be one of the valid entity codes; 'X' is not.
		if ValidatePAN("ABCXE1234"+string(PANCheckDigit("ABCXE1234")), "") {
			t.Error("entity code X should be rejected")
		}
		if PANEntityType("ABCPE1234A") != "Individual" {
			t.Errorf("entity type of ABCPE1234A = %q, want Individual", PANEntityType("ABCPE1234A"))
		}
		if PANEntityType("AB") != "Unknown" {
			t.Error("short PAN should report Unknown entity type")
		}
	})

	t.Run("SurnameRule", func(t *testing.T) {
		// Individual PAN: 5th character must match the surname initial when
		// a surname is supplied.
		if !ValidatePAN("ABCPE1234A", "Enfield") {
			t.Error("surname starting with E should match ABCPE1234A")
		}
		if ValidatePAN("ABCPE1234A", "Sharma") {
			t.Error("surname starting with S should not match ABCPE1234A")
		}
		if !ValidatePAN("ABCPE1234A", "") {
			t.Error("missing surname should not fail validation")
		}
	})

	t.Run("Shape", func(t *testing.T) {
		bad := []string{"", "ABCPE123", "ABCPE1234AB", "abcpe12345", "12345ABCDE"}
		for _, v := range bad {
			if ValidatePAN(v, "") {
				t.Errorf("ValidatePAN(%q) = true, want false", v)
			}
		}
		// Lowercase input is uppercased before validation.
		if !ValidatePAN("abcpe1234a", "") {
			t.Error("lowercase PAN should be normalized and accepted")
		}
	})
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"john.doe@example.com",
		"a+b@sub.domain.co.in",
		"x_1@e.io",
	}
	invalid := []string{
		"",
		"a@b",              // domain has no dot
		"a@b.c",            // TLD too short
		"no-at-sign.com",   // missing @
		"two@@example.com", // two @
		"a..b@example.com", // consecutive dots
		"a@.example.com",   // domain starts with dot
		"a@example.com-",   // domain ends with hyphen
		"a@exa mple.com",   // invalid domain character
	}

	for _, v := range valid {
		if !ValidateEmail(v) {
			t.Errorf("ValidateEmail(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if ValidateEmail(v) {
			t.Errorf("ValidateEmail(%q) = true, want false", v)
		}
	}

	t.Run("LengthLimits", func(t *testing.T) {
		long := make([]byte, 65)
		for i := range long {
			long[i] = 'a'
		}
		if ValidateEmail(string(long) + "@example.com") {
			t.Error("local part over 64 chars should be rejected")
		}
	})
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		typ   Type
		value string
		want  bool
	}{
		{TypeAadhaar, "234567890124", true},
		{TypeAadhaar, "2345 6789 0124", true},
		{TypeAadhaar, "134567890124", false}, // first digit must be 2-9
		{TypeAadhaar, "234567890125", false}, // checksum failure
		{TypeAadhaar, "23456789012", false},  // short
		{TypePAN, "ABCPE1234A", true},
		{TypePAN, "ABCPE1234B", false},
		{TypeCreditCard, "4532015112830366", true},
		{TypeCreditCard, "4532-0151-1283-0366", true},
		{TypeCreditCard, "4532015112830367", false},
		{TypeCreditCard, "453201511283", false}, // only 12 digits
		{TypeEmail, "user@example.com", true},
		{TypeEmail, "user@@example.com", false},
		{TypePhone, "9876543210", true},
		{TypePhone, "5876543210", false}, // first digit must be 6-9
		{TypePhone, "98765432101", false},
		{Type("unknown"), "anything", false},
	}

	for _, tc := range cases {
		if got := IsValid(tc.typ, tc.value); got != tc.want {
			t.Errorf("IsValid(%s, %q) = %v, want %v", tc.typ, tc.value, got, tc.want)
		}
	}
}

func TestParseType(t *testing.T) {
	if typ, ok := ParseType("Credit Card"); !ok || typ != TypeCreditCard {
		t.Errorf("ParseType(Credit Card) = %v, %v", typ, ok)
	}
	if typ, ok := ParseType("aadhaar"); !ok || typ != TypeAadhaar {
		t.Errorf("ParseType(aadhaar) = %v, %v", typ, ok)
	}
	if _, ok := ParseType("SSN"); ok {
		t.Error("ParseType(SSN) should not resolve")
	}
}
