// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for GroveHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, reserved_banned, etc.
//   - Environment variables: GROVEHUB_MONGO_URI, GROVEHUB_RESERVED_BANNED, etc.
//   - Command-line flags: --mongo_uri, --reserved_banned, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "grove_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Reserved group naming
	{Name: "reserved_registered", Default: "registered-users", Desc: "Pseudo-group holding every registered user"},
	{Name: "reserved_verified", Default: "verified-users", Desc: "Pseudo-group holding verified users"},
	{Name: "reserved_unverified", Default: "unverified-users", Desc: "Pseudo-group holding unverified users"},
	{Name: "reserved_banned", Default: "banned-users", Desc: "Pseudo-group holding banned users"},
	{Name: "privilege_prefixes", Default: "cid:,global:privileges", Desc: "Comma-separated name prefixes marking privilege groups"},

	// Caching
	{Name: "member_cache_ttl", Default: "10m", Desc: "TTL for in-process member-list and membership-check caches"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GROVEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ReservedRegistered: appValues.String("reserved_registered"),
		ReservedVerified:   appValues.String("reserved_verified"),
		ReservedUnverified: appValues.String("reserved_unverified"),
		ReservedBanned:     appValues.String("reserved_banned"),
		PrivilegePrefixes:  splitPrefixes(appValues.String("privilege_prefixes")),

		MemberCacheTTL: appValues.Duration("member_cache_ttl", 10*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// splitPrefixes parses the comma-separated privilege_prefixes value,
// dropping empty entries.
func splitPrefixes(raw string) []string {
	var prefixes []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// ValidateConfig performs app-specific config validation.
//
// GroveHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and rejects reserved
// group names that collide with each other.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	seen := make(map[string]string)
	for key, name := range map[string]string{
		"reserved_registered": appCfg.ReservedRegistered,
		"reserved_verified":   appCfg.ReservedVerified,
		"reserved_unverified": appCfg.ReservedUnverified,
		"reserved_banned":     appCfg.ReservedBanned,
	} {
		if name == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("%s and %s share the reserved name %q", key, other, name)
		}
		seen[name] = key
	}

	return nil
}
