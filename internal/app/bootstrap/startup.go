// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/grovehub/internal/app/membership"
	"github.com/dalemusser/grovehub/internal/app/system/events"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// GroveHub attaches an audit subscriber so every join lands in the
// structured log even when no other consumer is listening.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	deps.EventBus.Subscribe(membership.EventGroupJoin, func(e events.Event) {
		join, ok := e.Payload.(membership.JoinEvent)
		if !ok {
			return
		}
		logger.Info("user joined groups",
			zap.String("event_id", e.ID),
			zap.String("user_id", join.UserID.Hex()),
			zap.Strings("group_names", join.GroupNames))
	})
	return nil
}
