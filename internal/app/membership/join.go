// internal/app/membership/join.go
package membership

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Join adds the user to every named group they are not already a member
// of, creating missing groups as hidden groups first.
//
// A nil groupNames slice is rejected with ErrInvalidData; an allocated
// empty slice is a no-op. Duplicate names are permitted and processed
// as given. The operation is not atomic across groups: a storage
// failure mid-write can leave the user joined to some of the requested
// groups and not others. Everything after the membership writes (cache
// invalidation, ranking refresh, title preference, the join event) is
// best-effort and never fails the join.
func (c *Coordinator) Join(ctx context.Context, groupNames []string, userID primitive.ObjectID) error {
	if groupNames == nil {
		return ErrInvalidData
	}
	if len(groupNames) == 0 {
		return nil
	}
	if userID.IsZero() {
		return ErrInvalidUser
	}

	elig, err := c.resolve(ctx, groupNames, userID)
	if err != nil {
		return err
	}
	if len(elig.toJoin) == 0 {
		return nil
	}

	if err := c.provision(ctx, elig.toCreate); err != nil {
		return err
	}
	if err := c.writeMemberships(ctx, elig.toJoin, userID, elig.isAdmin); err != nil {
		return err
	}

	// Invalidate only after the writes have settled, so a concurrent
	// reader cannot repopulate the caches with pre-write data.
	c.cache.ClearChecks(userID, elig.toJoin)
	c.cache.ClearMemberLists(elig.toJoin)

	if err := c.refreshVisibleRanks(ctx, elig.toJoin); err != nil {
		c.log.Warn("visible-ranking refresh failed after join",
			zap.Strings("group_names", elig.toJoin),
			zap.Error(err))
	}

	c.setGroupTitleIfUnset(ctx, elig.toJoin, userID)

	c.bus.Fire(EventGroupJoin, JoinEvent{
		GroupNames: elig.toJoin,
		UserID:     userID,
	})
	return nil
}

// JoinName is the single-group form of Join. An empty name counts as
// absent input.
func (c *Coordinator) JoinName(ctx context.Context, groupName string, userID primitive.ObjectID) error {
	if groupName == "" {
		return ErrInvalidData
	}
	return c.Join(ctx, []string{groupName}, userID)
}

type eligibility struct {
	toCreate []string
	toJoin   []string
	isAdmin  bool
}

// resolve issues the three independent reads together and derives which
// groups must be created and which the user still has to join.
func (c *Coordinator) resolve(ctx context.Context, groupNames []string, userID primitive.ObjectID) (eligibility, error) {
	var (
		wg sync.WaitGroup

		isMembers  []bool
		membersErr error
		exists     []bool
		existsErr  error
		isAdmin    bool
		adminErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		isMembers, membersErr = c.groups.AreMembers(ctx, userID, groupNames)
	}()
	go func() {
		defer wg.Done()
		exists, existsErr = c.groups.Exist(ctx, groupNames)
	}()
	go func() {
		defer wg.Done()
		isAdmin, adminErr = c.users.IsAdministrator(ctx, userID)
	}()
	wg.Wait()

	for _, err := range []error{membersErr, existsErr, adminErr} {
		if err != nil {
			return eligibility{}, err
		}
	}

	elig := eligibility{isAdmin: isAdmin}
	for i, name := range groupNames {
		if name != "" && !exists[i] {
			elig.toCreate = append(elig.toCreate, name)
		}
		// Nonexistent groups are still eligible to join; they are
		// created above before the writes happen.
		if !isMembers[i] {
			elig.toJoin = append(elig.toJoin, name)
		}
	}
	return elig, nil
}

// provision creates the missing groups, hidden, one at a time to bound
// burst load on the store. Losing a creation race is expected and
// recovered; any other failure aborts the join.
func (c *Coordinator) provision(ctx context.Context, toCreate []string) error {
	for _, name := range toCreate {
		err := c.groups.Create(ctx, name, true)
		if err == nil || errors.Is(err, ErrGroupExists) {
			continue
		}
		c.log.Error("could not create hidden group during join",
			zap.String("group_name", name),
			zap.Error(err))
		return err
	}
	return nil
}

// writeMemberships performs the membership fan-out: ordered member add,
// counter increment, and (for administrators) the owners-set add are
// issued together and awaited jointly. There is no rollback for writes
// that succeeded before a sibling failed.
func (c *Coordinator) writeMemberships(ctx context.Context, toJoin []string, userID primitive.ObjectID, isAdmin bool) error {
	joinedAt := time.Now().UTC()

	var (
		wg sync.WaitGroup

		addErr   error
		incrErr  error
		ownerErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		addErr = c.groups.AddMembers(ctx, toJoin, userID, joinedAt)
	}()
	go func() {
		defer wg.Done()
		_, incrErr = c.groups.IncrMemberCounts(ctx, toJoin)
	}()
	if isAdmin {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ownerErr = c.groups.AddOwner(ctx, toJoin, userID)
		}()
	}
	wg.Wait()

	for _, err := range []error{addErr, incrErr, ownerErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// refreshVisibleRanks re-reads the joined groups and upserts the
// visible-groups ranking for the non-hidden subset. The fields are read
// fresh rather than reusing pre-write state: concurrent joins may have
// advanced the counts further.
func (c *Coordinator) refreshVisibleRanks(ctx context.Context, joined []string) error {
	fields, err := c.groups.Fields(ctx, joined)
	if err != nil {
		return err
	}

	var ranks []GroupRank
	for _, f := range fields {
		if f.Name == "" || f.Hidden {
			continue
		}
		ranks = append(ranks, GroupRank{Name: f.Name, MemberCount: f.MemberCount})
	}
	if len(ranks) == 0 {
		return nil
	}
	return c.groups.UpsertVisibleRanks(ctx, ranks)
}

// setGroupTitleIfUnset stores a JSON list of the joined groups as the
// user's title preference, unless one was ever set before (an empty
// title counts). Pseudo-groups and privilege groups are excluded.
// Failures are absorbed: the title is cosmetic and must never fail or
// roll back a join. They are still logged so systemic breakage is
// visible to operators.
func (c *Coordinator) setGroupTitleIfUnset(ctx context.Context, joined []string, userID primitive.ObjectID) {
	var titleNames []string
	for _, name := range joined {
		if c.reserved.IsPseudoGroup(name) || c.reserved.IsPrivilegeGroup(name) {
			continue
		}
		titleNames = append(titleNames, name)
	}
	if len(titleNames) == 0 {
		return
	}

	_, set, err := c.users.GroupTitle(ctx, userID)
	if err != nil {
		c.log.Warn("group-title read failed after join",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}
	if set {
		return
	}

	encoded, err := json.Marshal(titleNames)
	if err != nil {
		c.log.Warn("group-title encode failed after join",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}
	if err := c.users.SetGroupTitle(ctx, userID, string(encoded)); err != nil {
		c.log.Warn("group-title write failed after join",
			zap.String("user_id", userID.Hex()), zap.Error(err))
	}
}
