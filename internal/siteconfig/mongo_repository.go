package siteconfig

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	configCollection = "config"
	updatedAtField   = "updatedAt"
)

// MongoRepository keeps the document in the config collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a MongoDB-backed configuration repository.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(configCollection)}
}

// Get returns the stored document, or an empty one.
func (r *MongoRepository) Get(ctx context.Context) (Document, error) {
	var raw bson.M
	err := r.coll.FindOne(ctx, bson.M{}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{Fields: map[string]any{}}, nil
	}
	if err != nil {
		return Document{}, err
	}
	return fromBSON(raw), nil
}

// Merge applies fields with $set, upserting the singleton.
func (r *MongoRepository) Merge(ctx context.Context, fields map[string]any, at time.Time) (Document, error) {
	set := bson.M{updatedAtField: at.UTC()}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var raw bson.M
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$set": set}, opts).Decode(&raw); err != nil {
		return Document{}, err
	}
	return fromBSON(raw), nil
}

func fromBSON(raw bson.M) Document {
	doc := Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case "_id":
		case updatedAtField:
			switch ts := v.(type) {
			case bson.DateTime:
				doc.UpdatedAt = ts.Time().UTC()
			case time.Time:
				doc.UpdatedAt = ts.UTC()
			}
		default:
			doc.Fields[k] = v
		}
	}
	return doc
}
