package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

// CreateUser inserts a new account. ErrDuplicate is returned when the email is taken.
func (r *MongoDBRepository) CreateUser(ctx context.Context, user models.User) error {
	_, err := r.db.Collection(usersCollection).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to insert user %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", user.Email, err)
	}
	return nil
}

// FindUserByEmail looks an account up by its login email.
func (r *MongoDBRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, bson.M{"email": email})
}

// FindUserByID looks an account up by id.
func (r *MongoDBRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *MongoDBRepository) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	if err := r.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&user); err != nil {
		return models.User{}, fmt.Errorf("failed to load user: %w", notFound(err))
	}
	return user, nil
}

// ListUsers returns every account ordered by email.
func (r *MongoDBRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.db.Collection(usersCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateUser replaces the stored account with user.
func (r *MongoDBRepository) UpdateUser(ctx context.Context, user models.User) error {
	res, err := r.db.Collection(usersCollection).ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to update user %s: %w", user.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to update user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

// TouchLastLogin records a successful login.
func (r *MongoDBRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return fmt.Errorf("failed to update last login of %s: %w", id, err)
	}
	return nil
}

// DeleteUser removes the account with the given id.
func (r *MongoDBRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.Collection(usersCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("failed to delete user %s: %w", id, ErrNotFound)
	}
	return nil
}
