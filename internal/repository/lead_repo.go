package repository

import (
	"context"
	"mattressfit/internal/fault"
	"mattressfit/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeadRepo stores submitted survey responses
type LeadRepo interface {
	Create(ctx context.Context, lead *model.LeadRecord) error
	// List returns one page of leads, newest first, and the total count
	List(ctx context.Context, page, limit int) ([]*model.LeadRecord, int, error)
	Count(ctx context.Context) (int64, error)
}

type leadRepo struct {
	collection *mongo.Collection
}

// NewLeadRepo creates a Mongo-backed lead repository
func NewLeadRepo(db *mongo.Database) LeadRepo {
	return &leadRepo{
		collection: db.Collection("survey_responses"),
	}
}

func (r *leadRepo) Create(ctx context.Context, lead *model.LeadRecord) error {
	_, err := r.collection.InsertOne(ctx, lead)
	if mongo.IsDuplicateKeyError(err) {
		return fault.ErrUniqueViolation
	}
	return err
}

func (r *leadRepo) List(ctx context.Context, page, limit int) ([]*model.LeadRecord, int, error) {
	page, limit = normalizePage(page, limit)

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var leads []*model.LeadRecord
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}
	return leads, int(total), nil
}

func (r *leadRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
