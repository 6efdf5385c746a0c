// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMembership relates a user to a group. JoinedAt doubles as the
// ordering score for recency queries over a group's member list.
type GroupMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupName string             `bson:"group_name" json:"group_name"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	JoinedAt  time.Time          `bson:"joined_at" json:"joined_at"`
}
