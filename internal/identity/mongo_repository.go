package identity

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

const usersCollection = "users"

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	Name      string        `bson:"name"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d userDocument) toUser() User {
	return User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: []byte(d.Password),
		Name:         d.Name,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// MongoRepository implements Repository on the users collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a MongoDB-backed identity repository.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

// Create inserts a new user.
func (r *MongoRepository) Create(ctx context.Context, user User) (User, error) {
	oid := bson.NewObjectID()
	_, err := r.coll.InsertOne(ctx, userDocument{
		ID:        oid,
		Email:     user.Email,
		Password:  string(user.PasswordHash),
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return User{}, fmt.Errorf("%w: email already registered", common.ErrConflict)
	}
	if err != nil {
		return User{}, err
	}
	user.ID = oid.Hex()
	return user, nil
}

// FindByEmail fetches a user by exact email.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID fetches a user by ObjectID hex.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return User{}, common.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, common.ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return doc.toUser(), nil
}
