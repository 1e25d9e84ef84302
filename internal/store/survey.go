package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prachar-hq/apiserver/types"
)

const surveysCollection = "surveys"

// SurveyFilter narrows a survey listing. Empty slices mean no filtering on
// that attribute.
type SurveyFilter struct {
	// Roles restricts to surveys whose creator role is in the set.
	Roles []string

	// AssignedACs restricts to surveys assigned to any of the constituency
	// numbers.
	AssignedACs []int
}

// SurveyRepository handles persistence for surveys.
type SurveyRepository struct {
	coll *mongo.Collection
}

func NewSurveyRepository(database *mongo.Database) *SurveyRepository {
	return &SurveyRepository{coll: database.Collection(surveysCollection)}
}

// List returns surveys matching the filter, newest first.
func (r *SurveyRepository) List(ctx context.Context, filter SurveyFilter) ([]types.Survey, error) {
	query := bson.M{}
	if len(filter.Roles) > 0 {
		query["createdByRole"] = bson.M{"$in": filter.Roles}
	}
	if len(filter.AssignedACs) > 0 {
		query["assignedACs"] = bson.M{"$in": filter.AssignedACs}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]types.Survey, 0)
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

// Get returns the survey with the given id.
func (r *SurveyRepository) Get(ctx context.Context, id primitive.ObjectID) (types.Survey, error) {
	var survey types.Survey
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&survey); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Survey{}, ErrNotFound
		}
		return types.Survey{}, err
	}
	return survey, nil
}

// Create inserts a fully normalized survey and stamps both timestamps.
func (r *SurveyRepository) Create(ctx context.Context, survey types.Survey) (types.Survey, error) {
	now := time.Now().UTC()
	survey.CreatedAt = now
	survey.UpdatedAt = now
	if survey.ID.IsZero() {
		survey.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, survey); err != nil {
		return types.Survey{}, err
	}
	return survey, nil
}

// Update applies the given field set to the stored document and returns the
// updated survey. Fields absent from set are left untouched; updatedAt is
// always bumped.
func (r *SurveyRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (types.Survey, error) {
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var survey types.Survey
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&survey)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Survey{}, ErrNotFound
		}
		return types.Survey{}, err
	}
	return survey, nil
}

// Restore re-inserts an archived survey document as-is, keeping its original
// identifier and timestamps.
func (r *SurveyRepository) Restore(ctx context.Context, survey types.Survey) error {
	_, err := r.coll.InsertOne(ctx, survey)
	return err
}

// Delete removes the survey with the given id and returns the deleted
// document so callers can archive it.
func (r *SurveyRepository) Delete(ctx context.Context, id primitive.ObjectID) (types.Survey, error) {
	var survey types.Survey
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&survey); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Survey{}, ErrNotFound
		}
		return types.Survey{}, err
	}
	return survey, nil
}
