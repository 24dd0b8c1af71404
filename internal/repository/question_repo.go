package repository

import (
	"context"
	"errors"
	"mattressfit/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo stores the survey catalog in the survey_questions collection
type QuestionRepo interface {
	GetAll(ctx context.Context) ([]model.QuestionRecord, error)
	ReplaceAll(ctx context.Context, records []model.QuestionRecord) error
	Count(ctx context.Context) (int64, error)
}

type questionRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		client:     db.Client(),
		collection: db.Collection("survey_questions"),
	}
}

func (r *questionRepo) GetAll(ctx context.Context) ([]model.QuestionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.QuestionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceAll swaps the whole catalog. It runs in a transaction when the
// deployment supports one and falls back to delete-then-insert otherwise.
func (r *questionRepo) ReplaceAll(ctx context.Context, records []model.QuestionRecord) error {
	docs := make([]any, len(records))
	for i := range records {
		docs[i] = records[i]
	}

	replace := func(ctx context.Context) error {
		if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		_, err := r.collection.InsertMany(ctx, docs)
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return replace(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, replace(sc)
	})
	if isTransactionUnsupported(err) {
		return replace(ctx)
	}
	return err
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Standalone servers reject transactions with IllegalOperation (20).
func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 20
	}
	return false
}
