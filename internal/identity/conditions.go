package identity

import "strings"

// Field names a principal attribute a lookup condition matches against.
type Field string

const (
	// FieldEmail matches the principal's email.
	FieldEmail Field = "email"

	// FieldPhone matches the principal's phone.
	FieldPhone Field = "phone"
)

// Condition is one candidate equality match against the principal store.
// It is comparable, so structural deduplication is a map lookup.
type Condition struct {
	Field   Field
	Str     string
	Num     int64
	Numeric bool
}

// Conditions turns a variant set into the deduplicated lookup conditions of
// a credential query. Each string variant matches both the email and phone
// fields in its original and lowercased forms; each numeric variant matches
// the phone field only, since emails are never stored as numbers.
func Conditions(variants []Variant) []Condition {
	var (
		out  []Condition
		seen = make(map[Condition]struct{})
	)
	add := func(c Condition) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	for _, v := range variants {
		switch v.Kind {
		case KindString:
			add(Condition{Field: FieldEmail, Str: v.Str})
			add(Condition{Field: FieldEmail, Str: strings.ToLower(v.Str)})
			add(Condition{Field: FieldPhone, Str: v.Str})
			add(Condition{Field: FieldPhone, Str: strings.ToLower(v.Str)})
		case KindNumeric:
			add(Condition{Field: FieldPhone, Num: v.Num, Numeric: true})
		}
	}
	return out
}
