package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

const postsCollection = "posts"

type postDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Title     string        `bson:"title"`
	Slug      string        `bson:"slug"`
	Excerpt   string        `bson:"excerpt"`
	Content   string        `bson:"content"`
	ImageURL  string        `bson:"imageUrl"`
	Author    string        `bson:"author"`
	Published bool          `bson:"published"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d postDocument) toPost() Post {
	return Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Slug:      d.Slug,
		Excerpt:   d.Excerpt,
		Content:   d.Content,
		ImageURL:  d.ImageURL,
		Author:    d.Author,
		Published: d.Published,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoRepository stores posts in the posts collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a MongoDB-backed post repository.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(postsCollection)}
}

// EnsureIndexes creates the unique slug index and the listing index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create posts indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, post Post) (Post, error) {
	oid := bson.NewObjectID()
	_, err := r.coll.InsertOne(ctx, postDocument{
		ID:        oid,
		Title:     post.Title,
		Slug:      post.Slug,
		Excerpt:   post.Excerpt,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Author:    post.Author,
		Published: post.Published,
		CreatedAt: post.CreatedAt.UTC(),
		UpdatedAt: post.UpdatedAt.UTC(),
	})
	if err := translateMongoError(err); err != nil {
		return Post{}, err
	}
	post.ID = oid.Hex()
	return post, nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Post, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Post{}, common.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoRepository) List(ctx context.Context, filter Filter) ([]Post, error) {
	query := bson.M{}
	if filter.PublishedOnly {
		query["published"] = true
	}
	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toPost())
	}
	return out, nil
}

func (r *MongoRepository) Update(ctx context.Context, post Post) (Post, error) {
	oid, err := bson.ObjectIDFromHex(post.ID)
	if err != nil {
		return Post{}, common.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":     post.Title,
		"slug":      post.Slug,
		"excerpt":   post.Excerpt,
		"content":   post.Content,
		"imageUrl":  post.ImageURL,
		"published": post.Published,
		"updatedAt": post.UpdatedAt.UTC(),
	}})
	if err := translateMongoError(err); err != nil {
		return Post{}, err
	}
	if res.MatchedCount == 0 {
		return Post{}, common.ErrNotFound
	}
	return post, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (Post, error) {
	var doc postDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Post{}, common.ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return doc.toPost(), nil
}

func translateMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: slug already in use", common.ErrConflict)
	}
	return err
}
