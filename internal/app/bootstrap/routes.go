// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	groupsfeature "github.com/dalemusser/grovehub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/grovehub/internal/app/features/health"
	"github.com/dalemusser/grovehub/internal/app/membership"
	groupstore "github.com/dalemusser/grovehub/internal/app/store/groups"
	userstore "github.com/dalemusser/grovehub/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. GroveHub wires the stores and
// the join coordinator here and mounts the group-management API on top
// of them.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	groups := groupstore.New(deps.GroveHubMongoDatabase, deps.MemberCache)
	users := userstore.New(deps.GroveHubMongoDatabase)

	reserved := membership.Reserved{
		Registered:        appCfg.ReservedRegistered,
		Verified:          appCfg.ReservedVerified,
		Unverified:        appCfg.ReservedUnverified,
		Banned:            appCfg.ReservedBanned,
		PrivilegePrefixes: appCfg.PrivilegePrefixes,
	}

	joins := membership.NewCoordinator(groups, users, deps.MemberCache, deps.EventBus, reserved, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.GroveHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Group management
	groupsHandler := groupsfeature.NewHandler(joins, groups, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	return r, nil
}
