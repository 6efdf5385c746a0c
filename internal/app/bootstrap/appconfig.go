// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: core handles ports,
// TLS, logging level, CORS, and the like.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Reserved group naming. These pseudo-groups classify users rather
	// than represent user-created groups, and are excluded from
	// title-preference computation on join.
	ReservedRegistered string // e.g., "registered-users"
	ReservedVerified   string // e.g., "verified-users"
	ReservedUnverified string // e.g., "unverified-users"
	ReservedBanned     string // e.g., "banned-users"

	// PrivilegePrefixes marks privilege groups by name prefix
	// (comma-separated in config, e.g. "cid:,global:privileges").
	PrivilegePrefixes []string

	// MemberCacheTTL bounds staleness of the in-process membership
	// caches between invalidations.
	MemberCacheTTL time.Duration
}
