package injector

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/autolink/internal/core/autolink"
	"github.com/zeusync/autolink/internal/core/events/bus"
	"github.com/zeusync/autolink/internal/core/observability/log"
	"github.com/zeusync/autolink/internal/core/observability/metrics"
	"github.com/zeusync/autolink/internal/core/world"
)

// Runtime is everything a host needs to place buildables and have them
// auto-linked.
type Runtime struct {
	Config   autolink.Config
	Logger   *log.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
	World    *world.World
	Bus      bus.EventBus
	Engine   *autolink.Engine
	System   *autolink.System
}

// Close stops event handling and flushes the logger.
func (r *Runtime) Close(ctx context.Context) error {
	err := r.System.Shutdown(ctx)
	_ = r.Logger.Sync()
	return err
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideWorld,
	ProvideLinker,
	ProvideEngine,
	ProvideBus,
	ProvideSystem,
)

func ProvideLogger(cfg autolink.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func ProvideMetrics(reg *prometheus.Registry) (*metrics.Collector, error) {
	return metrics.NewCollector(reg)
}

func ProvideWorld(cfg autolink.Config) *world.World {
	return world.New(cfg.World)
}

func ProvideLinker(w *world.World) *autolink.Linker {
	return autolink.NewLinker(w.Conveyors(), w.Fluids(), w.Tracks())
}

func ProvideEngine(cfg autolink.Config, w *world.World, linker *autolink.Linker, logger *log.Logger, col *metrics.Collector) *autolink.Engine {
	return autolink.NewEngine(cfg, w, linker,
		autolink.WithLogger(logger.With(log.String("component", "autolink"))),
		autolink.WithMetrics(col),
	)
}

// ProvideBus builds the construction bus with delivery metrics and logging
// attached.
func ProvideBus(col *metrics.Collector, logger *log.Logger) bus.EventBus {
	b := bus.New()
	b.AddObserver(col)
	b.AddObserver(bus.NewLogObserver(logger.With(log.String("component", "bus"))))
	return b
}

func ProvideSystem(engine *autolink.Engine, events bus.EventBus, logger *log.Logger) *autolink.System {
	return autolink.NewSystem(engine, events, logger)
}
