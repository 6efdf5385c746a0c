// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// IsAdministrator reports whether the user holds the admin role. An
// unknown user is simply not an administrator.
func (s *Store) IsAdministrator(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx,
		bson.M{"_id": userID, "role": "admin"},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GroupTitle returns the user's title preference and whether the field
// has ever been set. An explicitly empty title counts as set; a missing
// user counts as unset.
func (s *Store) GroupTitle(ctx context.Context, userID primitive.ObjectID) (string, bool, error) {
	var row struct {
		GroupTitle *string `bson:"group_title"`
	}
	err := s.c.FindOne(ctx,
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"group_title": 1})).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if row.GroupTitle == nil {
		return "", false, nil
	}
	return *row.GroupTitle, true, nil
}

// SetGroupTitle writes the user's title preference, but only if none
// was ever recorded. The $exists filter makes first-write-wins a single
// atomic call; two concurrent first joins cannot overwrite each other.
func (s *Store) SetGroupTitle(ctx context.Context, userID primitive.ObjectID, title string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "group_title": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{
			"group_title": title,
			"updated_at":  time.Now().UTC(),
		}})
	return err
}
