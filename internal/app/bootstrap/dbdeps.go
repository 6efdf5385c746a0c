// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/grovehub/internal/app/system/events"
	"github.com/dalemusser/grovehub/internal/app/system/groupcache"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as your app evolves.
type DBDeps struct {
	GroveHubMongoClient   *mongo.Client
	GroveHubMongoDatabase *mongo.Database

	// In-process collaborators shared by the stores and the join
	// coordinator.
	MemberCache *groupcache.Cache
	EventBus    *events.Bus
}
