package pii

// Detect finds all PII candidates in text and resolves overlaps between
// competing types. It returns candidates only; callers that need ground
// truth run them through IsValid.
//
// Three tie-break rules are applied, in order:
//  1. a credit_card candidate whose digits number exactly 12 is dropped
//     (a bare 12-digit run is always an Aadhaar candidate, never a card);
//  2. an aadhaar candidate fully contained in a surviving credit_card span
//     is dropped;
//  3. when the exact same substring was classified as both credit_card and
//     aadhaar, the aadhaar classification is dropped.
func Detect(text string) []Match {
	if text == "" {
		return nil
	}

	var spans []Match
	for _, t := range AllTypes {
		if t == TypeAadhaar {
			spans = append(spans, aadhaarCandidates(text)...)
			continue
		}
		for _, loc := range Patterns[t].FindAllStringIndex(text, -1) {
			spans = append(spans, Match{Type: t, Value: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
		}
	}
	if len(spans) == 0 {
		return nil
	}

	// Rule 1: pure 12-digit sequences are never credit cards.
	filtered := make([]Match, 0, len(spans))
	for _, m := range spans {
		if m.Type == TypeCreditCard && len(digitsOf(m.Value)) == 12 {
			continue
		}
		filtered = append(filtered, m)
	}

	// Rule 2: drop aadhaar candidates contained in a credit card span.
	var cardSpans [][2]int
	for _, m := range filtered {
		if m.Type == TypeCreditCard {
			cardSpans = append(cardSpans, [2]int{m.Start, m.End})
		}
	}
	contained := func(m Match) bool {
		for _, cs := range cardSpans {
			if m.Start >= cs[0] && m.End <= cs[1] {
				return true
			}
		}
		return false
	}
	survivors := make([]Match, 0, len(filtered))
	for _, m := range filtered {
		if m.Type == TypeAadhaar && contained(m) {
			continue
		}
		survivors = append(survivors, m)
	}

	// Rule 3: identical strings claimed by both types go to credit_card.
	typesByValue := make(map[string]map[Type]bool)
	for _, m := range survivors {
		if typesByValue[m.Value] == nil {
			typesByValue[m.Value] = make(map[Type]bool)
		}
		typesByValue[m.Value][m.Type] = true
	}
	final := make([]Match, 0, len(survivors))
	for _, m := range survivors {
		ts := typesByValue[m.Value]
		if m.Type == TypeAadhaar && ts[TypeCreditCard] && ts[TypeAadhaar] {
			continue
		}
		final = append(final, m)
	}

	return final
}

// aadhaarCandidates scans for Aadhaar-shaped spans: 12 contiguous digits or
// 4-4-4 groups with one consistent separator, not preceded by a digit and
// not followed by a digit or dash. The pattern over-matches (RE2 cannot
// express backreferences or lookarounds), so consistency and adjacency are
// checked here; rejected spans restart the scan one byte further so a later
// aligned candidate is not skipped.
func aadhaarCandidates(text string) []Match {
	re := Patterns[TypeAadhaar]

	var out []Match
	off := 0
	for off < len(text) {
		idx := re.FindStringSubmatchIndex(text[off:])
		if idx == nil {
			break
		}
		start, end := off+idx[0], off+idx[1]

		ok := true
		// Grouped form: both separators must be identical.
		if idx[2] >= 0 && idx[4] >= 0 && text[off+idx[2]] != text[off+idx[4]] {
			ok = false
		}
		if ok && start > 0 && isDigit(text[start-1]) {
			ok = false
		}
		if ok && end < len(text) && (isDigit(text[end]) || text[end] == '-') {
			ok = false
		}

		if ok {
			out = append(out, Match{Type: TypeAadhaar, Value: text[start:end], Start: start, End: end})
			off = end
		} else {
			off = start + 1
		}
	}
	return out
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// HasValidPII is the ground-truth check: it reports whether text contains at
// least one candidate that passes its type's validator. Detection and ground
// truth route through the same validators, so accuracy classification never
// diverges because of inconsistent rules.
func HasValidPII(text string) bool {
	if text == "" {
		return false
	}
	for _, m := range Detect(text) {
		if IsValid(m.Type, m.Value) {
			return true
		}
	}
	return false
}
