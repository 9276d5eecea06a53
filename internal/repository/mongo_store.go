package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"feedback-backend/internal/models"
)

// mongoCollection is the subset of *mongo.Collection used by MongoStore.
type mongoCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
}

// MongoStore persists submissions as documents in the feedback collection,
// with aiResponse stored as a nested document.
type MongoStore struct {
	collection mongoCollection
}

func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	if db == nil {
		return nil, errors.New("repository: mongo database must not be nil")
	}
	return newMongoStore(db.Collection(CollectionName))
}

func newMongoStore(coll mongoCollection) (*MongoStore, error) {
	if coll == nil {
		return nil, errors.New("repository: mongo collection must not be nil")
	}
	return &MongoStore{collection: coll}, nil
}

func (r *MongoStore) Append(ctx context.Context, s models.Submission) error {
	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("repository: mongo insert: %w", err)
	}
	return nil
}

// ListAll returns every submission ordered by timestamp, newest first.
func (r *MongoStore) ListAll(ctx context.Context) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("repository: mongo find: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	subs := []models.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("repository: mongo decode: %w", err)
	}
	return subs, nil
}

// EnsureMongoIndexes creates the timestamp index used by ListAll.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	return err
}
