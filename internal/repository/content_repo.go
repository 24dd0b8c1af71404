package repository

import (
	"context"
	"mattressfit/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentRepo stores editable site content, one document per key
type ContentRepo interface {
	GetAll(ctx context.Context) ([]model.ContentItem, error)
	Set(ctx context.Context, key string, value any) error
	SetMany(ctx context.Context, values map[string]any) error
	Count(ctx context.Context) (int64, error)
}

type contentRepo struct {
	collection *mongo.Collection
}

// NewContentRepo creates a new content repository
func NewContentRepo(db *mongo.Database) ContentRepo {
	return &contentRepo{
		collection: db.Collection("site_content"),
	}
}

func (r *contentRepo) GetAll(ctx context.Context) ([]model.ContentItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []model.ContentItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Value = plainValue(items[i].Value)
	}
	return items, nil
}

// plainValue turns decoded BSON documents into maps and slices that encode as JSON objects and arrays.
func plainValue(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	}
	return v
}

func (r *contentRepo) Set(ctx context.Context, key string, value any) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *contentRepo) SetMany(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(values))
	for key, value := range values {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"key": key}).
			SetUpdate(bson.M{"$set": bson.M{"value": value, "updated_at": now}}).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *contentRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
