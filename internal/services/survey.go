package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/prachar-hq/apiserver/internal/apperr"
	"github.com/prachar-hq/apiserver/internal/archive"
	"github.com/prachar-hq/apiserver/internal/events"
	"github.com/prachar-hq/apiserver/internal/normalize"
	"github.com/prachar-hq/apiserver/internal/store"
	"github.com/prachar-hq/apiserver/types"
)

// SurveyRepository defines persistence operations for surveys.
type SurveyRepository interface {
	List(ctx context.Context, filter store.SurveyFilter) ([]types.Survey, error)
	Get(ctx context.Context, id primitive.ObjectID) (types.Survey, error)
	Create(ctx context.Context, survey types.Survey) (types.Survey, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (types.Survey, error)
	Delete(ctx context.Context, id primitive.ObjectID) (types.Survey, error)
}

// SurveyService encapsulates survey use-cases: full normalization on create,
// field-presence merge on update, archive-then-delete, filtered listing.
type SurveyService struct {
	repo      SurveyRepository
	publisher *events.Publisher
	archiver  *archive.Archiver
	log       zerolog.Logger
}

func NewSurveyService(repo SurveyRepository, publisher *events.Publisher, archiver *archive.Archiver, log zerolog.Logger) *SurveyService {
	return &SurveyService{
		repo:      repo,
		publisher: publisher,
		archiver:  archiver,
		log:       log,
	}
}

// List returns surveys matching the filter, newest first.
func (s *SurveyService) List(ctx context.Context, filter store.SurveyFilter) ([]types.Survey, error) {
	surveys, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list surveys", err)
	}
	return surveys, nil
}

// Get returns the survey with the given id.
func (s *SurveyService) Get(ctx context.Context, id string) (types.Survey, error) {
	oid, err := parseSurveyID(id)
	if err != nil {
		return types.Survey{}, err
	}
	survey, err := s.repo.Get(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Survey{}, apperr.New(apperr.KindNotFound, "survey not found")
		}
		return types.Survey{}, apperr.Wrap(apperr.KindInternal, "failed to fetch survey", err)
	}
	return survey, nil
}

// Create normalizes the raw payload in full and persists the result.
func (s *SurveyService) Create(ctx context.Context, payload map[string]any) (types.Survey, error) {
	survey := normalize.Survey(payload)

	created, err := s.repo.Create(ctx, survey)
	if err != nil {
		if isStoreValidationError(err) {
			return types.Survey{}, apperr.Wrap(apperr.KindValidation, "survey rejected by store validation", err)
		}
		return types.Survey{}, apperr.Wrap(apperr.KindInternal, "failed to create survey", err)
	}

	s.publisher.SurveyCreated(ctx, created)
	return created, nil
}

// Update merges the raw payload into the stored survey. Only keys present in
// the payload replace stored values; absent keys leave the stored value
// untouched, so "description": "" clears the description while omitting
// description entirely preserves it.
func (s *SurveyService) Update(ctx context.Context, id string, payload map[string]any) (types.Survey, error) {
	oid, err := parseSurveyID(id)
	if err != nil {
		return types.Survey{}, err
	}

	updated, err := s.repo.Update(ctx, oid, buildUpdate(payload))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Survey{}, apperr.New(apperr.KindNotFound, "survey not found")
		}
		if isStoreValidationError(err) {
			return types.Survey{}, apperr.Wrap(apperr.KindValidation, "survey rejected by store validation", err)
		}
		return types.Survey{}, apperr.Wrap(apperr.KindInternal, "failed to update survey", err)
	}

	s.publisher.SurveyUpdated(ctx, updated)
	return updated, nil
}

// Delete removes the survey, archiving the deleted document first when an
// archive backend is configured.
func (s *SurveyService) Delete(ctx context.Context, id string) error {
	oid, err := parseSurveyID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "survey not found")
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete survey", err)
	}

	s.archiver.Survey(ctx, deleted)
	s.publisher.SurveyDeleted(ctx, deleted)
	return nil
}

// buildUpdate translates the payload into the stored-field set, honoring
// key presence. createdBy and metadata only replace the stored value when
// the supplied value is usable; a present-but-invalid value leaves them
// unchanged.
func buildUpdate(payload map[string]any) bson.M {
	set := bson.M{}
	if v, ok := payload["title"]; ok {
		set["title"] = normalize.Title(v)
	}
	if v, ok := payload["description"]; ok {
		set["description"] = normalize.Description(v)
	}
	if v, ok := payload["status"]; ok {
		set["status"] = normalize.Status(v)
	}
	if v, ok := payload["questions"]; ok {
		set["questions"] = normalize.Questions(v)
	}
	if v, ok := payload["assignedACs"]; ok {
		set["assignedACs"] = normalize.AssignedACs(v)
	}
	if v, ok := payload["createdBy"]; ok {
		if id := normalize.CreatedBy(v); id != nil {
			set["createdBy"] = *id
		}
	}
	if v, ok := payload["createdByRole"]; ok {
		if role := normalize.CreatedByRole(v); role != "" {
			set["createdByRole"] = role
		}
	}
	if v, ok := payload["metadata"]; ok {
		if metadata := normalize.Metadata(v); metadata != nil {
			set["metadata"] = metadata
		}
	}
	return set
}

// ParseRoleFilter flattens query values into a role set. Each value may be a
// comma-separated list; blanks are dropped.
func ParseRoleFilter(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseACFilter flattens query values into a constituency-number set. Each
// value may be a comma-separated list; entries that do not parse as integers
// are dropped.
func ParseACFilter(values []string) []int {
	var out []int
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if n, err := strconv.Atoi(part); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}

func parseSurveyID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.ObjectID{}, apperr.New(apperr.KindValidation, "invalid survey id")
	}
	return oid, nil
}

// isStoreValidationError reports whether err is a document-validation
// rejection from the store (schema validators on the collection).
func isStoreValidationError(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		// 121 is Mongo's DocumentValidationFailure code.
		return serverErr.HasErrorCode(121)
	}
	return false
}
