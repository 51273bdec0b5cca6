package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
)

// MongoUserStore handles user persistence on MongoDB. Integer IDs come from
// a sequence document in the counters collection.
type MongoUserStore struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

// NewMongoUserStore creates a new MongoUserStore on the given database.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the unique indexes on email and name.
func (r *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("creating user indexes: %w", err)
	}
	return nil
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *MongoUserStore) Create(ctx context.Context, user *model.User) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	user.ID = id

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *MongoUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by their ID.
func (r *MongoUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// List retrieves every user.
func (r *MongoUserStore) List(ctx context.Context) ([]model.User, error) {
	cur, err := r.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

// Update applies changes and returns the updated document.
func (r *MongoUserStore) Update(ctx context.Context, id int64, changes model.UserChanges) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	user := &model.User{}
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateDocument(changes), opts).Decode(user)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Delete removes a user and returns the deleted ID.
func (r *MongoUserStore) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return 0, ErrUserNotFound
	}
	return id, nil
}

func (r *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	user := &model.User{}
	if err := r.users.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *MongoUserStore) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocating user id: %w", err)
	}
	return counter.Seq, nil
}

// updateDocument builds the $set document for changes.
func updateDocument(changes model.UserChanges) bson.M {
	set := bson.M{"updated_at": changes.UpdatedAt}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		set["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		set["role"] = string(*changes.Role)
	}
	return bson.M{"$set": set}
}
