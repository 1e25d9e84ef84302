package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/prachar-hq/apiserver/internal/archive"
	"github.com/prachar-hq/apiserver/internal/events"
	"github.com/prachar-hq/apiserver/internal/identity"
	"github.com/prachar-hq/apiserver/internal/services"
	"github.com/prachar-hq/apiserver/internal/store"
	"github.com/prachar-hq/apiserver/types"
)

// memUserRepo holds one principal and matches lookup conditions by equality.
type memUserRepo struct {
	principal types.Principal
}

func (m *memUserRepo) FindActiveByConditions(_ context.Context, conditions []identity.Condition) (types.Principal, error) {
	for _, c := range conditions {
		if c.Field == identity.FieldEmail && !c.Numeric && m.principal.Email != nil && *m.principal.Email == c.Str {
			return m.principal, nil
		}
		if c.Field == identity.FieldPhone && c.Numeric {
			if stored, ok := m.principal.Phone.(int64); ok && stored == c.Num {
				return m.principal, nil
			}
		}
	}
	return types.Principal{}, store.ErrNotFound
}

// memSurveyRepo is a map-backed survey store preserving merge semantics.
type memSurveyRepo struct {
	surveys map[primitive.ObjectID]types.Survey
}

func newMemSurveyRepo() *memSurveyRepo {
	return &memSurveyRepo{surveys: map[primitive.ObjectID]types.Survey{}}
}

func (m *memSurveyRepo) List(_ context.Context, filter store.SurveyFilter) ([]types.Survey, error) {
	out := make([]types.Survey, 0, len(m.surveys))
	for _, s := range m.surveys {
		if len(filter.AssignedACs) > 0 && !intersects(s.AssignedACs, filter.AssignedACs) {
			continue
		}
		if len(filter.Roles) > 0 && !containsString(filter.Roles, s.CreatedByRole) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memSurveyRepo) Get(_ context.Context, id primitive.ObjectID) (types.Survey, error) {
	s, ok := m.surveys[id]
	if !ok {
		return types.Survey{}, store.ErrNotFound
	}
	return s, nil
}

func (m *memSurveyRepo) Create(_ context.Context, survey types.Survey) (types.Survey, error) {
	survey.ID = primitive.NewObjectID()
	m.surveys[survey.ID] = survey
	return survey, nil
}

func (m *memSurveyRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) (types.Survey, error) {
	s, ok := m.surveys[id]
	if !ok {
		return types.Survey{}, store.ErrNotFound
	}
	if v, ok := set["title"]; ok {
		s.Title = v.(string)
	}
	if v, ok := set["description"]; ok {
		s.Description = v.(string)
	}
	if v, ok := set["status"]; ok {
		s.Status = v.(string)
	}
	if v, ok := set["questions"]; ok {
		s.Questions = v.([]types.Question)
	}
	if v, ok := set["assignedACs"]; ok {
		s.AssignedACs = v.([]int)
	}
	m.surveys[id] = s
	return s, nil
}

func (m *memSurveyRepo) Delete(_ context.Context, id primitive.ObjectID) (types.Survey, error) {
	s, ok := m.surveys[id]
	if !ok {
		return types.Survey{}, store.ErrNotFound
	}
	delete(m.surveys, id)
	return s, nil
}

func intersects(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

func testRouter(t *testing.T) (*chi.Mux, *memSurveyRepo) {
	t.Helper()
	log := zerolog.Nop()

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	email := "lead@example.com"
	userRepo := &memUserRepo{principal: types.Principal{
		ID:           primitive.NewObjectID(),
		Name:         "Asha Verma",
		Email:        &email,
		Phone:        int64(9876543210),
		Role:         "Admin",
		PasswordHash: string(hash),
	}}
	surveyRepo := newMemSurveyRepo()

	authService := services.NewAuthService(userRepo, log)
	surveyService := services.NewSurveyService(surveyRepo, events.NewPublisher(nil, log), archive.NewArchiver(nil, log), log)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, authService)
	})
	router.Route("/surveys", func(r chi.Router) {
		SurveyRouter(r, surveyService)
	})
	return router, surveyRepo
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", map[string]any{
		"identifier": "lead@example.com",
		"password":   "open-sesame",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User types.PrincipalView `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Asha Verma", resp.User.Name)
	assert.Equal(t, types.RoleL0, resp.User.Role)
	assert.Nil(t, resp.User.AssignedAC)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestLoginEndpointStatuses(t *testing.T) {
	router, _ := testRouter(t)

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing password", map[string]any{"identifier": "lead@example.com"}, http.StatusBadRequest},
		{"missing identifier", map[string]any{"password": "x"}, http.StatusBadRequest},
		{"unknown identifier", map[string]any{"identifier": "ghost@example.com", "password": "open-sesame"}, http.StatusUnauthorized},
		{"wrong password", map[string]any{"identifier": "lead@example.com", "password": "nope"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/auth/login", tc.body)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestLoginEndpointPhoneWithCountryCode(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", map[string]any{
		"identifier": "+91 98765 43210",
		"password":   "open-sesame",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSurveyLifecycle(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/surveys", map[string]any{
		"title":       "  ",
		"questions":   []any{map[string]any{"text": "Q?"}},
		"assignedACs": []any{"101", 102},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Survey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Untitled Form", created.Title)
	assert.Equal(t, types.StatusDraft, created.Status)
	assert.Equal(t, []int{101, 102}, created.AssignedACs)
	require.Len(t, created.Questions, 1)
	assert.NotEmpty(t, created.Questions[0].ID)

	id := created.ID.Hex()

	rec = doJSON(t, router, http.MethodGet, "/surveys/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/surveys/"+id, map[string]any{
		"description": "",
		"status":      "Active",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated types.Survey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, types.StatusActive, updated.Status)
	assert.Equal(t, "Untitled Form", updated.Title, "omitted title untouched")

	rec = doJSON(t, router, http.MethodDelete, "/surveys/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/surveys/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/surveys/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSurveyMalformedID(t *testing.T) {
	router, _ := testRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := doJSON(t, router, method, "/surveys/not-an-id", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
	}
}

func TestSurveyListFilters(t *testing.T) {
	router, repo := testRouter(t)

	seed := func(acs []int, role string) {
		_, err := repo.Create(context.Background(), types.Survey{
			Title:         "s",
			Questions:     []types.Question{},
			AssignedACs:   acs,
			CreatedByRole: role,
		})
		require.NoError(t, err)
	}
	seed([]int{101}, "Admin")
	seed([]int{102}, "Moderator")
	seed([]int{205}, "Admin")

	rec := doJSON(t, router, http.MethodGet, "/surveys?assignedAC=101,102", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []types.Survey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = doJSON(t, router, http.MethodGet, "/surveys?role=Admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = doJSON(t, router, http.MethodGet, "/surveys?role=Admin&assignedAC=205", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestSurveyUpdateEmptyBody(t *testing.T) {
	router, repo := testRouter(t)

	stored, err := repo.Create(context.Background(), types.Survey{
		Title:       "Keep Me",
		Description: "unchanged",
		Status:      types.StatusActive,
		Questions:   []types.Question{{ID: "q1", Text: "Q", Type: "yes-no"}},
		AssignedACs: []int{9},
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, "/surveys/"+stored.ID.Hex(), map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Survey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, stored.Title, updated.Title)
	assert.Equal(t, stored.Description, updated.Description)
	assert.Equal(t, stored.Status, updated.Status)
	assert.Equal(t, stored.Questions, updated.Questions)
	assert.Equal(t, stored.AssignedACs, updated.AssignedACs)
}
