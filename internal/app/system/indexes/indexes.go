// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes here are load-bearing for the join path:
  - groups.name lets Create classify the lost-creation-race as a
    duplicate instead of silently double-creating.
  - group_members (group_name, user_id) makes member adds
    idempotent-additive under concurrent joins.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureGroupMembers(ctx, db); err != nil {
		problems = append(problems, "group_members: "+err.Error())
	}
	if err := ensureGroupRankings(ctx, db); err != nil {
		problems = append(problems, "group_rankings: "+err.Error())
	}
	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensure(ctx context.Context, c *mongo.Collection, idx []mongo.IndexModel) error {
	_, err := c.Indexes().CreateMany(ctx, idx)
	if err != nil && isOptionsConflictErr(err) {
		// Same keys under a different name (or options drift); the
		// index exists, which is all we need.
		return nil
	}
	return err
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same
// keys already exists under a different name.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("groups"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("name_ci"),
		},
		{
			Keys:    bson.D{{Key: "hidden", Value: 1}, {Key: "member_count", Value: -1}},
			Options: options.Index().SetName("hidden_member_count"),
		},
	})
}

func ensureGroupMembers(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("group_members"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_name", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_group_user"),
		},
		{
			Keys:    bson.D{{Key: "group_name", Value: 1}, {Key: "joined_at", Value: -1}},
			Options: options.Index().SetName("group_recency"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("by_user"),
		},
	})
}

func ensureGroupRankings(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("group_rankings"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_count", Value: -1}},
			Options: options.Index().SetName("by_member_count"),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("full_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	})
}
