package groupstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/grovehub/internal/app/membership"
	groupstore "github.com/dalemusser/grovehub/internal/app/store/groups"
	"github.com/dalemusser/grovehub/internal/app/system/groupcache"
	"github.com/dalemusser/grovehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateDuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db, groupcache.New(0))

	if err := store.Create(ctx, "gophers", false); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	err := store.Create(ctx, "gophers", true)
	if !errors.Is(err, membership.ErrGroupExists) {
		t.Fatalf("duplicate Create: got %v, want ErrGroupExists", err)
	}
}

func TestExistAlignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateGroup(ctx, "gophers", false)
	f.CreateGroup(ctx, "plan9", true)

	store := groupstore.New(db, groupcache.New(0))
	exists, err := store.Exist(ctx, []string{"plan9", "missing", "gophers", ""})
	if err != nil {
		t.Fatalf("Exist failed: %v", err)
	}
	want := []bool{true, false, true, false}
	for i := range want {
		if exists[i] != want[i] {
			t.Errorf("exists[%d]: got %v, want %v", i, exists[i], want[i])
		}
	}
}

func TestAreMembersAndCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateMember(ctx, "Pat Quill")
	f.CreateGroup(ctx, "gophers", false)
	f.CreateGroupMembership(ctx, "gophers", user.ID)

	cache := groupcache.New(0)
	store := groupstore.New(db, cache)

	names := []string{"gophers", "plan9"}
	results, err := store.AreMembers(ctx, user.ID, names)
	if err != nil {
		t.Fatalf("AreMembers failed: %v", err)
	}
	if !results[0] || results[1] {
		t.Errorf("results: got %v, want [true false]", results)
	}

	// The miss populates the check cache.
	if cached, ok := cache.Checks(user.ID, names); !ok || !cached[0] || cached[1] {
		t.Errorf("check cache after read: got %v (ok=%v)", cached, ok)
	}
}

func TestAreMembersReorderedLookupStaysAligned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateMember(ctx, "Pat Quill")
	f.CreateGroup(ctx, "alpha", false)
	f.CreateGroup(ctx, "beta", false)
	f.CreateGroupMembership(ctx, "alpha", user.ID)

	store := groupstore.New(db, groupcache.New(0))

	first, err := store.AreMembers(ctx, user.ID, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("AreMembers failed: %v", err)
	}
	if !first[0] || first[1] {
		t.Fatalf("results: got %v, want [true false]", first)
	}

	// The second call is served from the cache; each membership bit
	// must follow its group name, not the first call's ordering.
	second, err := store.AreMembers(ctx, user.ID, []string{"beta", "alpha"})
	if err != nil {
		t.Fatalf("reordered AreMembers failed: %v", err)
	}
	if second[0] || !second[1] {
		t.Errorf("reordered results: got %v, want [false true]", second)
	}
}

func TestAddMembersTwiceIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db, groupcache.New(0))
	uid := primitive.NewObjectID()
	joined := time.Now().UTC()

	if err := store.AddMembers(ctx, []string{"gophers", "plan9"}, uid, joined); err != nil {
		t.Fatalf("first AddMembers failed: %v", err)
	}
	// Overlapping second call: the duplicate hits the unique index and is
	// tolerated, the new group still gets written.
	if err := store.AddMembers(ctx, []string{"gophers", "lounge"}, uid, joined); err != nil {
		t.Fatalf("second AddMembers failed: %v", err)
	}

	n, err := db.Collection("group_members").CountDocuments(ctx, map[string]any{"user_id": uid})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("membership rows: got %d, want 3", n)
	}
}

func TestIncrMemberCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateGroupWithCount(ctx, "gophers", false, 4)

	store := groupstore.New(db, groupcache.New(0))
	counts, err := store.IncrMemberCounts(ctx, []string{"gophers", "missing"})
	if err != nil {
		t.Fatalf("IncrMemberCounts failed: %v", err)
	}
	if counts[0] != 5 {
		t.Errorf("gophers count: got %d, want 5", counts[0])
	}
	if counts[1] != 0 {
		t.Errorf("missing group count: got %d, want 0", counts[1])
	}
}

func TestAddOwnerIsSetLike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateGroup(ctx, "gophers", false)

	store := groupstore.New(db, groupcache.New(0))
	uid := primitive.NewObjectID()

	if err := store.AddOwner(ctx, []string{"gophers"}, uid); err != nil {
		t.Fatalf("AddOwner failed: %v", err)
	}
	if err := store.AddOwner(ctx, []string{"gophers"}, uid); err != nil {
		t.Fatalf("second AddOwner failed: %v", err)
	}

	fields, err := store.Fields(ctx, []string{"gophers"})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if fields[0].Name != "gophers" {
		t.Fatalf("fields: %+v", fields[0])
	}

	var row struct {
		Owners []primitive.ObjectID `bson:"owners"`
	}
	if err := db.Collection("groups").FindOne(ctx, map[string]any{"name": "gophers"}).Decode(&row); err != nil {
		t.Fatalf("read group: %v", err)
	}
	if len(row.Owners) != 1 || row.Owners[0] != uid {
		t.Errorf("owners: got %v, want exactly one entry for the user", row.Owners)
	}
}

func TestFieldsMissingGroupIsZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateGroupWithCount(ctx, "gophers", true, 2)

	store := groupstore.New(db, groupcache.New(0))
	fields, err := store.Fields(ctx, []string{"missing", "gophers"})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if fields[0].Name != "" || fields[0].Hidden || fields[0].MemberCount != 0 {
		t.Errorf("missing group fields: %+v, want zero value", fields[0])
	}
	if fields[1].Name != "gophers" || !fields[1].Hidden || fields[1].MemberCount != 2 {
		t.Errorf("gophers fields: %+v", fields[1])
	}
}

func TestUpsertAndListVisibleRanks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db, groupcache.New(0))

	ranks := []membership.GroupRank{
		{Name: "gophers", MemberCount: 5},
		{Name: "plan9", MemberCount: 9},
	}
	if err := store.UpsertVisibleRanks(ctx, ranks); err != nil {
		t.Fatalf("UpsertVisibleRanks failed: %v", err)
	}
	// Re-upserting replaces the score instead of duplicating the entry.
	if err := store.UpsertVisibleRanks(ctx, []membership.GroupRank{{Name: "gophers", MemberCount: 6}}); err != nil {
		t.Fatalf("second UpsertVisibleRanks failed: %v", err)
	}

	got, err := store.VisibleRanks(ctx, 10)
	if err != nil {
		t.Fatalf("VisibleRanks failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rank entries: got %d, want 2", len(got))
	}
	if got[0].Name != "plan9" || got[0].MemberCount != 9 {
		t.Errorf("top rank: %+v, want plan9 at 9", got[0])
	}
	if got[1].Name != "gophers" || got[1].MemberCount != 6 {
		t.Errorf("second rank: %+v, want gophers at 6", got[1])
	}
}

func TestMembersSortedAndCached(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db, groupcache.New(0))
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	base := time.Now().UTC()

	if err := store.AddMembers(ctx, []string{"gophers"}, first, base); err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if err := store.AddMembers(ctx, []string{"gophers"}, second, base.Add(time.Minute)); err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}

	members, err := store.Members(ctx, "gophers")
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 2 || members[0] != second || members[1] != first {
		t.Errorf("members: got %v, want most recent joiner first", members)
	}

	// Second read comes from the cache even after the rows change.
	if err := store.AddMembers(ctx, []string{"gophers"}, primitive.NewObjectID(), base.Add(2*time.Minute)); err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	cached, err := store.Members(ctx, "gophers")
	if err != nil {
		t.Fatalf("cached Members failed: %v", err)
	}
	if len(cached) != 2 {
		t.Errorf("cached member list: got %d entries, want the stale 2", len(cached))
	}
}
