// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a forum account.
//
// GroupTitle is a pointer so "never set" can be told apart from
// "explicitly set to the empty string"; the join path only writes it
// while the field is absent.
type User struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"`

	Role   string `bson:"role" json:"role"`     // "admin" or "member"
	Status string `bson:"status" json:"status"` // "active" or "disabled"

	GroupTitle *string `bson:"group_title,omitempty" json:"group_title,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
