package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal represents an authenticatable account in the system.
// It contains identity, role, and audit metadata. Principals are created
// and mutated by the admin workflow; this service only reads them.
type Principal struct {
	// ID is the unique identifier of the principal.
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	// Name is the principal's display or full name.
	Name string `json:"name" bson:"name"`

	// Email is the principal's email address, if any. Stored values may be
	// mixed case; identifier lookups match both the original and lowercased
	// forms.
	Email *string `json:"email" bson:"email,omitempty"`

	// Phone is the principal's phone number, if any. Legacy records store it
	// as a number rather than a string, which is why identifier lookups carry
	// numeric variants.
	Phone any `json:"phone,omitempty" bson:"phone,omitempty"`

	// Role is the raw role label as stored (e.g., "Admin", "AC Manager").
	// It is normalized to a canonical Role before any authorization decision.
	Role string `json:"role" bson:"role"`

	// AssignedAC is the assembly-constituency number the principal is scoped
	// to, if any.
	AssignedAC *int `json:"assignedAC" bson:"assignedAC,omitempty"`

	// Active marks whether the principal may log in. Records written before
	// the flag existed omit it and are treated as active.
	Active *bool `json:"active,omitempty" bson:"active,omitempty"`

	// PasswordHash stores the bcrypt hash of the principal's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" bson:"passwordHash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at,omitempty" bson:"createdAt,omitempty"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updatedAt,omitempty"`
}

// IsActive reports whether the principal may log in. An absent flag counts
// as active: it predates the field.
func (p Principal) IsActive() bool {
	return p.Active == nil || *p.Active
}

// View returns the sanitized projection of the principal handed to callers
// after a successful login. The password hash never leaves the server.
func (p Principal) View(role Role) PrincipalView {
	return PrincipalView{
		ID:         p.ID.Hex(),
		Name:       p.Name,
		Email:      p.Email,
		Role:       role,
		AssignedAC: p.AssignedAC,
	}
}

// PrincipalView is the response shape of a successful login.
type PrincipalView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Role       Role    `json:"role"`
	AssignedAC *int    `json:"assignedAC"`
}
