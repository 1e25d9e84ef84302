// Package identity expands a raw login identifier into the set of candidate
// values used to look a principal up, tolerating whitespace, mixed case,
// formatting punctuation, and country-code prefixes against heterogeneous
// stored data (emails and phones, strings and legacy numbers).
package identity

import (
	"strconv"
	"strings"
)

// VariantKind tags a Variant as a string or numeric candidate.
type VariantKind int

const (
	// KindString marks a candidate compared as a string.
	KindString VariantKind = iota + 1

	// KindNumeric marks a candidate compared as a number, for identifiers
	// stored numerically.
	KindNumeric
)

// Variant is one candidate representation of a login identifier.
type Variant struct {
	Kind VariantKind
	Str  string
	Num  int64
}

// StringVariant returns a string-kind variant.
func StringVariant(s string) Variant {
	return Variant{Kind: KindString, Str: s}
}

// NumericVariant returns a numeric-kind variant.
func NumericVariant(n int64) Variant {
	return Variant{Kind: KindNumeric, Num: n}
}

// localDigits is the assumed length of locally stored phone identifiers.
// Longer digit strings are treated as carrying a country-code prefix and
// additionally matched by their last-localDigits suffix.
const localDigits = 10

// Expand produces the deduplicated, insertion-ordered candidate set for one
// raw identifier:
//
//  1. the trimmed input,
//  2. its lowercase form,
//  3. its numeric form when the trimmed input is purely decimal digits,
//  4. its digits-only form when that differs from the trimmed input,
//  5. the numeric form of the digits-only string, and, past localDigits
//     digits, the last-localDigits suffix as both string and number.
//
// Empty or whitespace-only input yields an empty set; the resolver treats
// that as no match, not an error.
func Expand(raw string) []Variant {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	var set variantSet
	set.add(StringVariant(trimmed))
	set.add(StringVariant(strings.ToLower(trimmed)))

	if n, ok := parseDigits(trimmed); ok {
		set.add(NumericVariant(n))
	}

	digits := stripNonDigits(trimmed)
	if digits != "" && digits != trimmed {
		set.add(StringVariant(digits))
	}
	if digits != "" {
		if n, ok := parseDigits(digits); ok {
			set.add(NumericVariant(n))
		}
		if len(digits) > localDigits {
			suffix := digits[len(digits)-localDigits:]
			set.add(StringVariant(suffix))
			if n, ok := parseDigits(suffix); ok {
				set.add(NumericVariant(n))
			}
		}
	}

	return set.items
}

// variantSet preserves first-insertion order while deduplicating by value.
type variantSet struct {
	items []Variant
	seen  map[Variant]struct{}
}

func (s *variantSet) add(v Variant) {
	if s.seen == nil {
		s.seen = make(map[Variant]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

// parseDigits parses s as a non-negative integer when it consists purely of
// decimal digits. Digit strings that overflow int64 yield no numeric
// variant.
func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
