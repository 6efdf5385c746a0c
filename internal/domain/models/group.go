// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group represents a named group in the forum.
//
// NOTE:
//   - Groups are addressed by their unique Name everywhere in the join
//     path; the Mongo _id exists only because every document needs one.
//   - MemberCount is denormalized and maintained by the join path; it
//     is not recomputed from group_members on read.
//   - Hidden groups are excluded from the visible rankings and from
//     default listings but are otherwise normal groups.
type Group struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`

	Hidden  bool `bson:"hidden" json:"hidden"`
	System  bool `bson:"system" json:"system"`
	Private bool `bson:"private" json:"private"`

	MemberCount int64 `bson:"member_count" json:"member_count"`

	Owners []primitive.ObjectID `bson:"owners,omitempty" json:"owners,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupRank is one entry in the visible-groups ranking collection.
// The group name is the document key; MemberCount is the score used
// when browsing groups by size.
type GroupRank struct {
	Name        string `bson:"_id" json:"name"`
	MemberCount int64  `bson:"member_count" json:"member_count"`
}
