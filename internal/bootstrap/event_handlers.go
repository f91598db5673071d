package bootstrap

import (
	"log/slog"

	"github.com/osse101/ChitDraw_Go/internal/event"
	"github.com/osse101/ChitDraw_Go/internal/metrics"
	"github.com/osse101/ChitDraw_Go/internal/projection"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Watcher  *projection.Watcher
}

// RegisterEventHandlers sets up the in-process subscribers:
// the metrics collector and the projection watcher, which refreshes on every
// raffle event so single-process deployments never wait for the poll interval.
func RegisterEventHandlers(deps EventHandlerDependencies) {
	metricsCollector := metrics.NewEventMetricsCollector()
	metricsCollector.Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	deps.Watcher.Register(deps.EventBus)
	slog.Info(LogMsgProjectionRegistered)
}
