package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prachar-hq/apiserver/internal/apperr"
	"github.com/prachar-hq/apiserver/internal/identity"
	"github.com/prachar-hq/apiserver/internal/store"
	"github.com/prachar-hq/apiserver/types"
)

// invalidCredentials is the uniform failure message for both an unknown
// identifier and a wrong password. Keeping the two indistinguishable
// prevents identifier enumeration.
const invalidCredentials = "Invalid credentials"

// UserRepository defines the principal lookups the resolver needs.
type UserRepository interface {
	FindActiveByConditions(ctx context.Context, conditions []identity.Condition) (types.Principal, error)
}

// AuthService resolves a free-form login identifier plus password into a
// sanitized principal view, or a typed failure.
type AuthService struct {
	repo UserRepository
	log  zerolog.Logger
}

func NewAuthService(repo UserRepository, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, log: log}
}

// Login authenticates the identifier/password pair. The identifier is
// expanded into its candidate variants so emails, phones, formatted phones,
// and country-code-prefixed phones all resolve against heterogeneous stored
// data. A principal whose role label is unrecognized is rejected even with
// valid credentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (types.PrincipalView, error) {
	// Only a truly empty field is a validation error. A whitespace-only
	// identifier expands to an empty variant set and fails downstream as a
	// plain credential mismatch, indistinguishable from a wrong password.
	if identifier == "" || password == "" {
		return types.PrincipalView{}, apperr.New(apperr.KindValidation, "identifier and password are required")
	}

	variants := identity.Expand(identifier)
	conditions := identity.Conditions(variants)

	principal, err := s.repo.FindActiveByConditions(ctx, conditions)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.PrincipalView{}, apperr.New(apperr.KindAuthentication, invalidCredentials)
		}
		s.log.Error().Err(err).Msg("principal lookup failed")
		return types.PrincipalView{}, apperr.Wrap(apperr.KindInternal, "authentication failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)); err != nil {
		return types.PrincipalView{}, apperr.New(apperr.KindAuthentication, invalidCredentials)
	}

	role, ok := types.ParseRole(principal.Role)
	if !ok {
		s.log.Warn().Str("principal_id", principal.ID.Hex()).Str("role", principal.Role).Msg("login rejected for unrecognized role")
		return types.PrincipalView{}, apperr.New(apperr.KindAuthorization, "role not authorized")
	}

	return principal.View(role), nil
}
