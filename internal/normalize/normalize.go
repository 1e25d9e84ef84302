// Package normalize sanitizes untrusted survey payloads before they are
// persisted or merged into stored documents. Every function here is total
// over decoded JSON values: bad input falls back to a safe default, never an
// error. Use these helpers instead of scattered trims and type assertions so
// create and update agree on field semantics.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/prachar-hq/apiserver/types"
)

// DefaultTitle substitutes for a blank survey title.
const DefaultTitle = "Untitled Form"

// DefaultQuestionType tags questions whose source omitted a type.
const DefaultQuestionType = "short-text"

// Title trims the value; blank or non-string input becomes DefaultTitle.
func Title(v any) string {
	s, _ := v.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTitle
	}
	return s
}

// Description trims the value; non-string input becomes the empty string.
func Description(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Status passes through only the literal "Active"; everything else,
// including absent input, becomes "Draft".
func Status(v any) string {
	if s, ok := v.(string); ok && s == types.StatusActive {
		return types.StatusActive
	}
	return types.StatusDraft
}

// AssignedACs coerces the value to a list of constituency numbers: scalars
// are wrapped, nil becomes empty, each element is truncated to an integer,
// and elements that do not coerce to a finite number are dropped.
func AssignedACs(v any) []int {
	out := make([]int, 0)
	for _, item := range asList(v) {
		if n, ok := toInt(item); ok {
			out = append(out, n)
		}
	}
	return out
}

// Questions coerces the value to a question list. Non-list input becomes an
// empty list; elements that are not objects are dropped outright. Each kept
// question gets a non-empty id (client-supplied or generated), non-empty
// text (placeholder "Question {n}" by 1-based position), a type defaulting
// to DefaultQuestionType, a boolean required flag, and, only when the
// source supplied a list, the non-empty trimmed options.
func Questions(v any) []types.Question {
	items, _ := v.([]any)
	out := make([]types.Question, 0, len(items))
	for i, item := range items {
		src, ok := item.(map[string]any)
		if !ok || src == nil {
			continue
		}
		out = append(out, question(src, i))
	}
	return out
}

func question(src map[string]any, index int) types.Question {
	q := types.Question{
		ID:       trimString(src["id"]),
		Text:     trimString(src["text"]),
		Type:     trimString(src["type"]),
		Required: toBool(src["required"]),
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Text == "" {
		q.Text = "Question " + strconv.Itoa(index+1)
	}
	if q.Type == "" {
		q.Type = DefaultQuestionType
	}
	if raw, ok := src["options"].([]any); ok {
		options := make([]string, 0, len(raw))
		for _, o := range raw {
			if s := trimString(o); s != "" {
				options = append(options, s)
			}
		}
		if len(options) > 0 {
			q.Options = options
		}
	}
	return q
}

// CreatedBy accepts only a non-empty trimmed string in the store's id
// format; everything else is omitted.
func CreatedBy(v any) *primitive.ObjectID {
	s := trimString(v)
	if s == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil
	}
	return &id
}

// CreatedByRole accepts only a non-empty trimmed string.
func CreatedByRole(v any) string {
	return trimString(v)
}

// Metadata passes through only non-null objects.
func Metadata(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil
	}
	return m
}

// Survey normalizes a whole inbound payload for the create path. Every
// field goes through its sanitizer; absent keys take the field defaults.
func Survey(payload map[string]any) types.Survey {
	s := types.Survey{
		Title:       Title(payload["title"]),
		Description: Description(payload["description"]),
		Status:      Status(payload["status"]),
		Questions:   Questions(payload["questions"]),
		AssignedACs: AssignedACs(payload["assignedACs"]),
		CreatedBy:   CreatedBy(payload["createdBy"]),
		Metadata:    Metadata(payload["metadata"]),
	}
	s.CreatedByRole = CreatedByRole(payload["createdByRole"])
	return s
}

func trimString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asList wraps scalars in a single-element list; nil becomes empty.
func asList(v any) []any {
	switch typed := v.(type) {
	case nil:
		return nil
	case []any:
		return typed
	default:
		return []any{typed}
	}
}

// toInt truncates the element to an integer. JSON numbers and numeric
// strings coerce; booleans, objects, and non-finite values do not.
func toInt(v any) (int, bool) {
	switch typed := v.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return int(math.Trunc(typed)), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(math.Trunc(f)), true
	default:
		return 0, false
	}
}
