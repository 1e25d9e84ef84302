package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Survey statuses. Anything else supplied by a client is normalized to
// StatusDraft before it reaches the store.
const (
	StatusDraft  = "Draft"
	StatusActive = "Active"
)

// Survey represents a campaign survey: an ordered set of questions, its
// lifecycle status, and the assembly constituencies it is assigned to.
// Questions are owned exclusively by their survey and have no identity or
// lifecycle outside it.
type Survey struct {
	// ID is the unique identifier of the survey.
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	// Title is the human-readable name of the survey. Never empty after
	// normalization; blank input defaults to "Untitled Form".
	Title string `json:"title" bson:"title"`

	// Description is free-form explanatory text shown to field teams.
	Description string `json:"description" bson:"description"`

	// Status is the lifecycle state, either StatusDraft or StatusActive.
	Status string `json:"status" bson:"status"`

	// Questions is the ordered question list. Always present after
	// normalization, possibly empty, never nil.
	Questions []Question `json:"questions" bson:"questions"`

	// AssignedACs lists the assembly-constituency numbers the survey is
	// assigned to.
	AssignedACs []int `json:"assignedACs" bson:"assignedACs"`

	// CreatedBy references the principal that created the survey, when the
	// client supplied a well-formed id.
	CreatedBy *primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	// CreatedByRole is the creator's role label at creation time, used by
	// the list filter.
	CreatedByRole string `json:"createdByRole,omitempty" bson:"createdByRole,omitempty"`

	// Metadata is a free-form object the clients attach for their own use.
	Metadata map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`

	// CreatedAt is the timestamp at which the survey was created.
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`

	// UpdatedAt is the timestamp of the most recent update to the survey.
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// Question is a single entry in a survey's question list.
type Question struct {
	// ID identifies the question within its survey. Client-supplied when
	// present, generated otherwise.
	ID string `json:"id" bson:"id"`

	// Text is the question prompt.
	Text string `json:"text" bson:"text"`

	// Type is an open tag describing how the question is answered,
	// e.g. "short-text", "multiple-choice", "yes-no".
	Type string `json:"type" bson:"type"`

	// Required marks whether an answer is mandatory.
	Required bool `json:"required" bson:"required"`

	// Options holds the answer choices for choice-like types. Present only
	// when the source supplied at least one non-empty option.
	Options []string `json:"options,omitempty" bson:"options,omitempty"`
}
