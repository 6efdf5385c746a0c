// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"time"

	"github.com/dalemusser/grovehub/internal/app/membership"
	"github.com/dalemusser/grovehub/internal/app/system/groupcache"
	"github.com/dalemusser/grovehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists groups, their member lists, and the visible-groups
// rankings. Each method is a single Mongo call (or one call per key);
// there are no cross-collection transactions, which is exactly the
// consistency model the membership coordinator is built around.
type Store struct {
	groups   *mongo.Collection
	members  *mongo.Collection
	rankings *mongo.Collection
	cache    *groupcache.Cache
}

func New(db *mongo.Database, cache *groupcache.Cache) *Store {
	return &Store{
		groups:   db.Collection("groups"),
		members:  db.Collection("group_members"),
		rankings: db.Collection("group_rankings"),
		cache:    cache,
	}
}

// Create inserts a new group with zero members. A duplicate name is
// classified and returned as membership.ErrGroupExists so callers can
// branch on the conflict rather than string-match an error message.
func (s *Store) Create(ctx context.Context, name string, hidden bool) error {
	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Hidden:    hidden,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.groups.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return membership.ErrGroupExists
		}
		return err
	}
	return nil
}

// Exist reports, aligned to groupNames, whether each group exists.
func (s *Store) Exist(ctx context.Context, groupNames []string) ([]bool, error) {
	cur, err := s.groups.Find(ctx,
		bson.M{"name": bson.M{"$in": groupNames}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	found := make(map[string]bool)
	for cur.Next(ctx) {
		var row struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		found[row.Name] = true
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	exists := make([]bool, len(groupNames))
	for i, name := range groupNames {
		exists[i] = found[name]
	}
	return exists, nil
}

// AreMembers reports, aligned to groupNames, whether the user belongs
// to each group. Results are served from the membership-check cache
// when present and cached after a miss.
func (s *Store) AreMembers(ctx context.Context, userID primitive.ObjectID, groupNames []string) ([]bool, error) {
	if cached, ok := s.cache.Checks(userID, groupNames); ok {
		return cached, nil
	}

	cur, err := s.members.Find(ctx,
		bson.M{"user_id": userID, "group_name": bson.M{"$in": groupNames}},
		options.Find().SetProjection(bson.M{"group_name": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	member := make(map[string]bool)
	for cur.Next(ctx) {
		var row struct {
			GroupName string `bson:"group_name"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		member[row.GroupName] = true
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	results := make([]bool, len(groupNames))
	for i, name := range groupNames {
		results[i] = member[name]
	}
	s.cache.SetChecks(userID, groupNames, results)
	return results, nil
}

// AddMembers records the user as a member of every named group, scored
// by joinedAt. Inserts run unordered so every document is attempted;
// duplicate-key failures mean the user already held the membership and
// are not errors.
func (s *Store) AddMembers(ctx context.Context, groupNames []string, userID primitive.ObjectID, joinedAt time.Time) error {
	if len(groupNames) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(groupNames))
	for _, name := range groupNames {
		docs = append(docs, models.GroupMembership{
			GroupName: name,
			UserID:    userID,
			JoinedAt:  joinedAt,
		})
	}

	opts := options.InsertMany().SetOrdered(false)
	_, err := s.members.InsertMany(ctx, docs, opts)
	if err != nil {
		if bulkErr, ok := err.(mongo.BulkWriteException); ok {
			for _, we := range bulkErr.WriteErrors {
				if we.Code != 11000 {
					return err
				}
			}
			return nil
		}
		return err
	}
	return nil
}

// IncrMemberCounts bumps each named group's member count by one and
// returns the new values aligned to groupNames. Each increment is its
// own atomic call; two concurrent joiners both legitimately count.
func (s *Store) IncrMemberCounts(ctx context.Context, groupNames []string) ([]int64, error) {
	counts := make([]int64, len(groupNames))
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	for i, name := range groupNames {
		var row struct {
			MemberCount int64 `bson:"member_count"`
		}
		err := s.groups.FindOneAndUpdate(ctx,
			bson.M{"name": name},
			bson.M{"$inc": bson.M{"member_count": 1}},
			opts,
		).Decode(&row)
		if err == mongo.ErrNoDocuments {
			// Joining a group that was never provisioned (e.g. an empty
			// name slipped through the request); nothing to count.
			continue
		}
		if err != nil {
			return nil, err
		}
		counts[i] = row.MemberCount
	}
	return counts, nil
}

// AddOwner adds the user to every named group's owners set. $addToSet
// keeps the set semantics: re-adding an owner changes nothing.
func (s *Store) AddOwner(ctx context.Context, groupNames []string, userID primitive.ObjectID) error {
	if len(groupNames) == 0 {
		return nil
	}
	_, err := s.groups.UpdateMany(ctx,
		bson.M{"name": bson.M{"$in": groupNames}},
		bson.M{"$addToSet": bson.M{"owners": userID}})
	return err
}

// Fields reads name, hidden, and member count for every named group,
// aligned to groupNames. Groups that do not exist come back as zero
// values with an empty name.
func (s *Store) Fields(ctx context.Context, groupNames []string) ([]membership.GroupFields, error) {
	cur, err := s.groups.Find(ctx,
		bson.M{"name": bson.M{"$in": groupNames}},
		options.Find().SetProjection(bson.M{"name": 1, "hidden": 1, "member_count": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byName := make(map[string]membership.GroupFields)
	for cur.Next(ctx) {
		var row struct {
			Name        string `bson:"name"`
			Hidden      bool   `bson:"hidden"`
			MemberCount int64  `bson:"member_count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		byName[row.Name] = membership.GroupFields{
			Name:        row.Name,
			Hidden:      row.Hidden,
			MemberCount: row.MemberCount,
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	fields := make([]membership.GroupFields, len(groupNames))
	for i, name := range groupNames {
		fields[i] = byName[name]
	}
	return fields, nil
}

// UpsertVisibleRanks writes the visible-groups ranking entries in one
// unordered bulk call keyed by group name.
func (s *Store) UpsertVisibleRanks(ctx context.Context, ranks []membership.GroupRank) error {
	if len(ranks) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(ranks))
	for _, r := range ranks {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": r.Name}).
			SetReplacement(models.GroupRank{Name: r.Name, MemberCount: r.MemberCount}).
			SetUpsert(true))
	}
	_, err := s.rankings.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

// Members returns a group's member IDs, most recent joiner first,
// served from the member-list cache when present.
func (s *Store) Members(ctx context.Context, groupName string) ([]primitive.ObjectID, error) {
	if cached, ok := s.cache.MemberList(groupName); ok {
		return cached, nil
	}

	cur, err := s.members.Find(ctx,
		bson.M{"group_name": groupName},
		options.Find().
			SetSort(bson.D{{Key: "joined_at", Value: -1}}).
			SetProjection(bson.M{"user_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			UserID primitive.ObjectID `bson:"user_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.UserID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	s.cache.SetMemberList(groupName, ids)
	return ids, nil
}

// VisibleRanks lists up to limit visible groups, largest first. Used by
// the browse surface; the join path only writes rankings.
func (s *Store) VisibleRanks(ctx context.Context, limit int64) ([]models.GroupRank, error) {
	cur, err := s.rankings.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "member_count", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ranks []models.GroupRank
	if err := cur.All(ctx, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}
