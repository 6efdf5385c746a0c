package membership

import "testing"

func TestIsPseudoGroup(t *testing.T) {
	r := DefaultReserved()

	for _, name := range []string{"registered-users", "verified-users", "unverified-users", "banned-users"} {
		if !r.IsPseudoGroup(name) {
			t.Errorf("IsPseudoGroup(%q) = false, want true", name)
		}
	}
	if r.IsPseudoGroup("gophers") {
		t.Error("IsPseudoGroup(gophers) = true")
	}
	if r.IsPseudoGroup("") {
		t.Error("empty name reported as a pseudo group")
	}

	// A configuration with a blank slot must not treat "" as reserved.
	blank := Reserved{Registered: "members"}
	if blank.IsPseudoGroup("") {
		t.Error("blank reserved slot matched the empty name")
	}
	if !blank.IsPseudoGroup("members") {
		t.Error("configured reserved name not matched")
	}
}

func TestIsPrivilegeGroup(t *testing.T) {
	r := DefaultReserved()

	cases := map[string]bool{
		"cid:3:privileges:groups:topics:read": true,
		"global:privileges:chat":              true,
		"gophers":                             false,
		"privileges":                          false,
		"":                                    false,
	}
	for name, want := range cases {
		if got := r.IsPrivilegeGroup(name); got != want {
			t.Errorf("IsPrivilegeGroup(%q) = %v, want %v", name, got, want)
		}
	}

	empty := Reserved{PrivilegePrefixes: []string{""}}
	if empty.IsPrivilegeGroup("anything") {
		t.Error("empty prefix matched every name")
	}
}
