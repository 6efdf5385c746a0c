// internal/app/membership/membership.go
package membership

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrInvalidData is returned when no group-name input was supplied.
	ErrInvalidData = errors.New("invalid group name data")

	// ErrInvalidUser is returned when no user identifier was supplied.
	ErrInvalidUser = errors.New("invalid user id")

	// ErrGroupExists is the conflict signal a GroupStore must return from
	// Create when the group name is already taken. The provisioner
	// recovers from it; concurrent joiners racing to create the same
	// group are expected.
	ErrGroupExists = errors.New("group already exists")
)

// GroupFields is the subset of group fields the writer re-reads after
// the membership writes settle.
type GroupFields struct {
	Name        string
	Hidden      bool
	MemberCount int64
}

// GroupRank is one visible-groups ranking entry keyed by group name and
// scored by member count.
type GroupRank struct {
	Name        string
	MemberCount int64
}

// GroupStore is the storage contract the coordinator needs for groups.
// Every method must be atomic per call; the coordinator never assumes
// multi-call transactions.
type GroupStore interface {
	// AreMembers reports, aligned to groupNames, whether userID is
	// already a member of each group.
	AreMembers(ctx context.Context, userID primitive.ObjectID, groupNames []string) ([]bool, error)

	// Exist reports, aligned to groupNames, whether each group exists.
	Exist(ctx context.Context, groupNames []string) ([]bool, error)

	// Create makes a new group. It must return ErrGroupExists (possibly
	// wrapped) when the name is already taken.
	Create(ctx context.Context, name string, hidden bool) error

	// AddMembers records userID as a member of every named group,
	// scored by joinedAt. Re-adding an existing member must be a no-op,
	// not an error.
	AddMembers(ctx context.Context, groupNames []string, userID primitive.ObjectID, joinedAt time.Time) error

	// IncrMemberCounts increments each named group's member count by
	// one and returns the new values aligned to groupNames.
	IncrMemberCounts(ctx context.Context, groupNames []string) ([]int64, error)

	// AddOwner adds userID to every named group's owners set.
	AddOwner(ctx context.Context, groupNames []string, userID primitive.ObjectID) error

	// Fields reads name/hidden/memberCount for every named group,
	// aligned to groupNames.
	Fields(ctx context.Context, groupNames []string) ([]GroupFields, error)

	// UpsertVisibleRanks upserts the visible-groups ranking entries in
	// one batched call.
	UpsertVisibleRanks(ctx context.Context, ranks []GroupRank) error
}

// UserStore is the user-record contract the coordinator needs.
type UserStore interface {
	IsAdministrator(ctx context.Context, userID primitive.ObjectID) (bool, error)

	// GroupTitle returns the user's title preference and whether the
	// field has ever been set (an explicitly empty title counts as set).
	GroupTitle(ctx context.Context, userID primitive.ObjectID) (title string, set bool, err error)

	// SetGroupTitle records the title preference only when none was
	// ever set; a write against an already-set title (empty included)
	// must be a no-op, not an overwrite.
	SetGroupTitle(ctx context.Context, userID primitive.ObjectID, title string) error
}

// Cache is the invalidation contract. The coordinator only ever clears
// entries; reads repopulate them.
type Cache interface {
	// ClearChecks drops cached membership-check results for the user
	// and the named groups.
	ClearChecks(userID primitive.ObjectID, groupNames []string)

	// ClearMemberLists drops the cached member lists for the named
	// groups.
	ClearMemberLists(groupNames []string)
}

// Bus publishes domain events. Fire must not block and delivery is not
// guaranteed.
type Bus interface {
	Fire(topic string, payload any)
}

// EventGroupJoin is fired after a successful join with a JoinEvent
// payload.
const EventGroupJoin = "group.join"

// JoinEvent is the payload for EventGroupJoin.
type JoinEvent struct {
	GroupNames []string           `json:"group_names"`
	UserID     primitive.ObjectID `json:"user_id"`
}

// Coordinator admits users into groups while keeping the denormalized
// structures (member lists, counters, owners, visible rankings, title
// preference, caches) consistent without storage transactions.
type Coordinator struct {
	groups   GroupStore
	users    UserStore
	cache    Cache
	bus      Bus
	reserved Reserved
	log      *zap.Logger
}

// NewCoordinator wires a Coordinator. All collaborators are required;
// reserved carries the built-in group names excluded from title
// preferences.
func NewCoordinator(groups GroupStore, users UserStore, cache Cache, bus Bus, reserved Reserved, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		groups:   groups,
		users:    users,
		cache:    cache,
		bus:      bus,
		reserved: reserved,
		log:      logger,
	}
}
