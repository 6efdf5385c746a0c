// internal/app/system/groupcache/cache.go
package groupcache

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cache is the in-process cache for group membership data. It holds two
// keyspaces: per-group member lists and per-(user, group) membership
// bits. The join path only invalidates entries; store reads populate
// them.
//
// Check results are stored one bit per group name under the user, never
// as a batch keyed by the caller's name set. A batch key would tie the
// cached slice to one ordering of the names and hand misaligned results
// to a caller asking for the same set in a different order.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration

	lists  map[string]listEntry
	checks map[string]map[string]checkEntry // user hex -> group name -> entry
}

type listEntry struct {
	members   []primitive.ObjectID
	expiresAt time.Time
}

type checkEntry struct {
	member    bool
	expiresAt time.Time
}

// New creates a Cache whose entries live for ttl. A zero ttl means
// entries never expire (tests use this).
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:    ttl,
		lists:  make(map[string]listEntry),
		checks: make(map[string]map[string]checkEntry),
	}
}

func (c *Cache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.ttl)
}

func expired(at time.Time) bool {
	return !at.IsZero() && time.Now().After(at)
}

// MemberList returns the cached member list for a group, if present.
func (c *Cache) MemberList(groupName string) ([]primitive.ObjectID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.lists[groupName]
	if !ok || expired(entry.expiresAt) {
		return nil, false
	}
	return entry.members, true
}

// SetMemberList caches a group's member list.
func (c *Cache) SetMemberList(groupName string, members []primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[groupName] = listEntry{members: members, expiresAt: c.expiry()}
}

// Checks returns the user's cached membership bits aligned to
// groupNames. It is a hit only when every named group has an unexpired
// entry; results follow the order of groupNames, not the order any
// earlier SetChecks happened to use.
func (c *Cache) Checks(userID primitive.ObjectID, groupNames []string) ([]bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byName, ok := c.checks[userID.Hex()]
	if !ok {
		return nil, false
	}

	results := make([]bool, len(groupNames))
	for i, name := range groupNames {
		entry, ok := byName[name]
		if !ok || expired(entry.expiresAt) {
			return nil, false
		}
		results[i] = entry.member
	}
	return results, true
}

// SetChecks caches membership bits for a user, one per group name.
// results must align with groupNames.
func (c *Cache) SetChecks(userID primitive.ObjectID, groupNames []string, results []bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hex := userID.Hex()
	byName, ok := c.checks[hex]
	if !ok {
		byName = make(map[string]checkEntry)
		c.checks[hex] = byName
	}
	at := c.expiry()
	for i, name := range groupNames {
		byName[name] = checkEntry{member: results[i], expiresAt: at}
	}
}

// ClearChecks drops every cached membership bit for the user, and the
// named groups' bits for every other user. Dropping the whole user is
// deliberately coarse: their membership picture just changed, so none
// of their cached bits are worth trusting.
func (c *Cache) ClearChecks(userID primitive.ObjectID, groupNames []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, userID.Hex())

	if len(groupNames) == 0 {
		return
	}
	for hex, byName := range c.checks {
		for _, name := range groupNames {
			delete(byName, name)
		}
		if len(byName) == 0 {
			delete(c.checks, hex)
		}
	}
}

// ClearMemberLists drops the cached member lists for the named groups.
func (c *Cache) ClearMemberLists(groupNames []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range groupNames {
		delete(c.lists, name)
	}
}
