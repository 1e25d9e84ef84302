package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/prachar-hq/apiserver/internal/apperr"
	"github.com/prachar-hq/apiserver/internal/identity"
	"github.com/prachar-hq/apiserver/internal/store"
	"github.com/prachar-hq/apiserver/types"
)

// fakeUserRepo matches conditions the way the store does: equality against
// the email or phone attribute of its single principal.
type fakeUserRepo struct {
	principal types.Principal
	err       error
}

func (f *fakeUserRepo) FindActiveByConditions(_ context.Context, conditions []identity.Condition) (types.Principal, error) {
	if f.err != nil {
		return types.Principal{}, f.err
	}
	if len(conditions) == 0 || !f.principal.IsActive() {
		return types.Principal{}, store.ErrNotFound
	}
	for _, c := range conditions {
		switch c.Field {
		case identity.FieldEmail:
			if f.principal.Email != nil && !c.Numeric && *f.principal.Email == c.Str {
				return f.principal, nil
			}
		case identity.FieldPhone:
			switch stored := f.principal.Phone.(type) {
			case string:
				if !c.Numeric && stored == c.Str {
					return f.principal, nil
				}
			case int64:
				if c.Numeric && stored == c.Num {
					return f.principal, nil
				}
			}
		}
	}
	return types.Principal{}, store.ErrNotFound
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func testPrincipal(t *testing.T, role string) types.Principal {
	email := "Lead@Example.com"
	ac := 117
	return types.Principal{
		ID:           primitive.NewObjectID(),
		Name:         "Asha Verma",
		Email:        &email,
		Phone:        int64(9876543210),
		Role:         role,
		AssignedAC:   &ac,
		PasswordHash: hashOf(t, "open-sesame"),
	}
}

func newAuthService(repo UserRepository) *AuthService {
	return NewAuthService(repo, zerolog.Nop())
}

func TestLoginByEmail(t *testing.T) {
	principal := testPrincipal(t, "Admin")
	svc := newAuthService(&fakeUserRepo{principal: principal})

	view, err := svc.Login(context.Background(), "Lead@Example.com", "open-sesame")
	require.NoError(t, err)

	assert.Equal(t, principal.ID.Hex(), view.ID)
	assert.Equal(t, "Asha Verma", view.Name)
	assert.Equal(t, types.RoleL0, view.Role)
	require.NotNil(t, view.AssignedAC)
	assert.Equal(t, 117, *view.AssignedAC)
}

func TestLoginByFormattedPhone(t *testing.T) {
	// The store keeps the phone as a number; the user types it formatted
	// with a country code. The variant expansion bridges the two.
	svc := newAuthService(&fakeUserRepo{principal: testPrincipal(t, "AC Manager")})

	view, err := svc.Login(context.Background(), "+91 98765 43210", "open-sesame")
	require.NoError(t, err)
	assert.Equal(t, types.RoleL1, view.Role)
}

func TestLoginUnknownIdentifierAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{principal: testPrincipal(t, "Admin")})

	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "open-sesame")
	_, errWrongPass := svc.Login(context.Background(), "Lead@Example.com", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(errUnknown))
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(errWrongPass))
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error(), "messages must not leak which check failed")
}

func TestLoginWhitespaceIdentifierFailsAsCredentialMismatch(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{principal: testPrincipal(t, "Admin")})

	_, err := svc.Login(context.Background(), "   ", "open-sesame")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
	assert.Equal(t, invalidCredentials, apperr.Message(err))
}

func TestLoginEmptyInputs(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{principal: testPrincipal(t, "Admin")})

	_, err := svc.Login(context.Background(), "", "open-sesame")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "Lead@Example.com", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLoginUnrecognizedRoleRejected(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{principal: testPrincipal(t, "intern")})

	_, err := svc.Login(context.Background(), "Lead@Example.com", "open-sesame")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestLoginInactivePrincipalNotFound(t *testing.T) {
	inactive := false
	principal := testPrincipal(t, "Admin")
	principal.Active = &inactive
	svc := newAuthService(&fakeUserRepo{principal: principal})

	_, err := svc.Login(context.Background(), "Lead@Example.com", "open-sesame")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
}

func TestLoginStoreFaultIsInternal(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{err: assert.AnError})

	_, err := svc.Login(context.Background(), "Lead@Example.com", "open-sesame")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.NotContains(t, apperr.Message(err), assert.AnError.Error(), "store detail stays internal")
}
