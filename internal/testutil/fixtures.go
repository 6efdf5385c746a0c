// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/grovehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, "admin")
}

// CreateMember creates a test member user.
func (f *Fixtures) CreateMember(ctx context.Context, fullName string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, "member")
}

// CreateGroup creates a test group.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, hidden bool) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Hidden:    hidden,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	return group
}

// CreateGroupWithCount creates a test group with a preset member count.
func (f *Fixtures) CreateGroupWithCount(ctx context.Context, name string, hidden bool, memberCount int64) models.Group {
	f.t.Helper()

	group := f.CreateGroup(ctx, name, hidden)
	_, err := f.db.Collection("groups").UpdateByID(ctx, group.ID,
		map[string]any{"$set": map[string]any{"member_count": memberCount}})
	if err != nil {
		f.t.Fatalf("failed to set member count: %v", err)
	}
	group.MemberCount = memberCount
	return group
}

// CreateGroupMembership records a user as a member of a group.
func (f *Fixtures) CreateGroupMembership(ctx context.Context, groupName string, userID primitive.ObjectID) models.GroupMembership {
	f.t.Helper()

	membership := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupName: groupName,
		UserID:    userID,
		JoinedAt:  time.Now().UTC(),
	}

	_, err := f.db.Collection("group_members").InsertOne(ctx, membership)
	if err != nil {
		f.t.Fatalf("failed to create test group membership: %v", err)
	}

	return membership
}
