package autolink

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zeusync/autolink/internal/core/events/bus"
	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/observability/log"
)

// Construction events consumed by System.
const (
	EventBuildableConstructed = "buildable.constructed"
	EventBlueprintConstructed = "blueprint.constructed"
)

// BuildableConstructed is published once a single buildable finishes
// construction.
func BuildableConstructed(source string, b *models.Buildable) bus.Event {
	return bus.NewEvent(EventBuildableConstructed, source, b, nil)
}

// BlueprintConstructed is published once every child of a batch-constructed
// group has been placed.
func BlueprintConstructed(source string, children []*models.Buildable) bus.Event {
	return bus.NewEvent(EventBlueprintConstructed, source, children, map[string]any{"children": len(children)})
}

// System drives an Engine from construction events on a bus. Each event is
// processed synchronously in the publisher's goroutine; System serializes
// passes so two events never race on the connector graph.
type System struct {
	engine *Engine
	events bus.EventBus
	logger log.Log

	mu      sync.Mutex
	subs    []bus.Subscription
	reports []Report
	started bool
}

func NewSystem(engine *Engine, events bus.EventBus, logger log.Log) *System {
	if logger == nil {
		logger = log.NewNop()
	}
	return &System{
		engine: engine,
		events: events,
		logger: logger.With(log.String("system", "autolink")),
	}
}

func (s *System) Name() string { return "autolink" }

// Initialize subscribes to the construction events. Calling it twice is a
// no-op.
func (s *System) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	single, err := s.events.Subscribe(EventBuildableConstructed, s.onBuildable)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", EventBuildableConstructed, err)
	}
	group, err := s.events.Subscribe(EventBlueprintConstructed, s.onBlueprint)
	if err != nil {
		_ = single.Cancel()
		return fmt.Errorf("subscribe %s: %w", EventBlueprintConstructed, err)
	}
	s.subs = []bus.Subscription{single, group}
	s.started = true
	s.logger.Debug("system initialized")
	return nil
}

// Shutdown cancels the subscriptions.
func (s *System) Shutdown(_ context.Context) error {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.started = false
	s.mu.Unlock()

	var errs error
	for _, sub := range subs {
		errs = errors.Join(errs, s.events.Unsubscribe(sub))
	}
	return errs
}

// Drain returns the reports accumulated since the previous call.
func (s *System) Drain() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.reports
	s.reports = nil
	return out
}

func (s *System) onBuildable(ctx context.Context, e bus.Event) error {
	b, ok := e.Data().(*models.Buildable)
	if !ok {
		return fmt.Errorf("%w: %s carries %T", ErrUnexpectedPayload, e.Type(), e.Data())
	}
	s.process(ctx, b)
	return nil
}

// onBlueprint processes every child of the group once, in placement order.
func (s *System) onBlueprint(ctx context.Context, e bus.Event) error {
	children, ok := e.Data().([]*models.Buildable)
	if !ok {
		return fmt.Errorf("%w: %s carries %T", ErrUnexpectedPayload, e.Type(), e.Data())
	}
	for _, b := range children {
		s.process(ctx, b)
	}
	return nil
}

func (s *System) process(ctx context.Context, b *models.Buildable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.engine.ProcessBuildable(ctx, b)
	s.reports = append(s.reports, r)
}
