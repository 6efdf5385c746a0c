// internal/app/features/groups/handler.go
package groups

import (
	"context"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Joiner is the slice of the membership coordinator this feature needs.
type Joiner interface {
	Join(ctx context.Context, groupNames []string, userID primitive.ObjectID) error
}

// MemberLister serves the read side of the feature.
type MemberLister interface {
	Members(ctx context.Context, groupName string) ([]primitive.ObjectID, error)
}

// Handler is the shared dependency container for the groups feature.
// It holds the join coordinator, the group store's read side, and the
// logger so the individual handlers share the same core dependencies.
type Handler struct {
	Joins   Joiner
	Members MemberLister
	Log     *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler constructs a groups Handler. It is typically called from
// the bootstrap BuildHandler function, where the coordinator and stores
// are already initialized.
func NewHandler(joins Joiner, members MemberLister, logger *zap.Logger) *Handler {
	return &Handler{
		Joins:   joins,
		Members: members,
		Log:     logger,
		// Group names are user input that later ends up in rendered
		// listings; strip all markup on the way in.
		sanitizer: bluemonday.StrictPolicy(),
	}
}
