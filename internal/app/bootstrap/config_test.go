package bootstrap

import (
	"testing"

	"go.uber.org/zap"
)

func TestSplitPrefixes(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"cid:,global:privileges", []string{"cid:", "global:privileges"}},
		{" cid: , global:privileges ", []string{"cid:", "global:privileges"}},
		{"cid:,,", []string{"cid:"}},
		{"", nil},
	}
	for _, tc := range cases {
		got := splitPrefixes(tc.raw)
		if len(got) != len(tc.want) {
			t.Errorf("splitPrefixes(%q) = %v, want %v", tc.raw, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitPrefixes(%q)[%d] = %q, want %q", tc.raw, i, got[i], tc.want[i])
			}
		}
	}
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "grove_hub",
		ReservedRegistered: "registered-users",
		ReservedVerified:   "verified-users",
		ReservedUnverified: "unverified-users",
		ReservedBanned:     "banned-users",
		PrivilegePrefixes:  []string{"cid:"},
	}
}

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()

	if err := ValidateConfig(nil, validAppConfig(), logger); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := validAppConfig()
	bad.MongoURI = "not-a-mongo-uri"
	if err := ValidateConfig(nil, bad, logger); err == nil {
		t.Error("bad Mongo URI accepted")
	}

	empty := validAppConfig()
	empty.ReservedBanned = ""
	if err := ValidateConfig(nil, empty, logger); err == nil {
		t.Error("empty reserved name accepted")
	}

	dup := validAppConfig()
	dup.ReservedVerified = dup.ReservedRegistered
	if err := ValidateConfig(nil, dup, logger); err == nil {
		t.Error("colliding reserved names accepted")
	}
}
