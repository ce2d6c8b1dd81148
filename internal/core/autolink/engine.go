package autolink

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/models/interfaces"
	"github.com/zeusync/autolink/internal/core/observability/log"
	"github.com/zeusync/autolink/internal/core/observability/metrics"
)

const tracerName = "github.com/zeusync/autolink/internal/core/autolink"

// Link is one connection made during a pass. From is always the connector
// owned by the processed buildable.
type Link struct {
	Family models.Family
	From   models.Connector
	To     models.Connector
}

// Report summarizes one ProcessBuildable call.
type Report struct {
	Buildable models.EntityID
	Skipped   bool
	Links     []Link
	// Registered counts fluid integrants newly added to the fluid registry.
	Registered int
}

// Count returns how many links of family f the pass made.
func (r Report) Count(f models.Family) int {
	n := 0
	for _, l := range r.Links {
		if l.Family == f {
			n++
		}
	}
	return n
}

func (r Report) Total() int { return len(r.Links) }

// Engine discovers and establishes connector links for freshly constructed
// buildables. It does no locking: callers must not process two buildables
// that share connectors concurrently.
type Engine struct {
	cfg     Config
	space   interfaces.SpatialQuery
	linker  *Linker
	logger  log.Log
	metrics *metrics.Collector
	tracer  trace.Tracer
}

type Option func(*Engine)

func WithLogger(l log.Log) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

func NewEngine(cfg Config, space interfaces.SpatialQuery, linker *Linker, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		space:  space,
		linker: linker,
		logger: log.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.linker == nil {
		e.linker = NewLinker(nil, nil, nil)
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) reject(f models.Family, reason string) {
	e.metrics.Rejected(f.String(), reason)
}

func (e *Engine) record(r *Report, f models.Family, from, to models.Connector) {
	r.Links = append(r.Links, Link{Family: f, From: from, To: to})
	e.metrics.Linked(f.String())
	e.logger.Debug("connector linked",
		log.Stringer("family", f),
		log.Uint64("from_owner", uint64(from.Owner().ID())),
		log.String("from", from.Name()),
		log.Uint64("to_owner", uint64(to.Owner().ID())),
		log.String("to", to.Name()),
	)
}

// ProcessBuildable runs one best-effort pass over b: belt, track, fluid and
// hyper connectors in that order. Each family is independent of the others.
// ctx only carries trace context; a pass always runs to completion.
func (e *Engine) ProcessBuildable(ctx context.Context, b *models.Buildable) Report {
	var report Report
	if b != nil {
		report.Buildable = b.ID()
	}
	if !ShouldScan(b) {
		report.Skipped = true
		e.metrics.SkippedBuildable()
		return report
	}

	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "autolink.ProcessBuildable", trace.WithAttributes(
		attribute.Int64("buildable.id", int64(b.ID())),
		attribute.String("buildable.kind", b.Kind().String()),
	))
	defer span.End()

	if e.cfg.Belt.Enabled {
		e.family(ctx, models.FamilyBelt, func() { e.linkBelts(b, &report) })
	}
	if e.cfg.Track.Enabled {
		e.family(ctx, models.FamilyTrack, func() { e.linkTracks(b, &report) })
	}
	if e.cfg.Fluid.Enabled {
		e.family(ctx, models.FamilyFluid, func() { e.linkFluids(b, &report) })
	}
	if e.cfg.Hyper.Enabled {
		e.family(ctx, models.FamilyHyper, func() { e.linkHypers(b, &report) })
	}

	span.SetAttributes(attribute.Int("autolink.links", report.Total()))
	elapsed := time.Since(start)
	e.metrics.ObservePass(elapsed)

	if report.Total() > 0 {
		e.logger.Info("buildable auto-linked",
			log.Uint64("id", uint64(b.ID())),
			log.Stringer("kind", b.Kind()),
			log.Int("links", report.Total()),
			log.Int("integrants_registered", report.Registered),
			log.Duration("elapsed", elapsed),
		)
	}
	return report
}

func (e *Engine) family(ctx context.Context, f models.Family, fn func()) {
	_, span := e.tracer.Start(ctx, "autolink."+f.String())
	defer span.End()
	fn()
}

func (e *Engine) linkBelts(b *models.Buildable, r *Report) {
	for _, home := range CollectBelt(b) {
		// An earlier link in this pass may have consumed the connector.
		if home.IsConnected() {
			continue
		}
		hits := e.probeBelt(home)
		if len(hits) == 0 {
			continue
		}
		if c := e.scoreBelt(home, hits); c != nil {
			e.linker.LinkBelt(home, c)
			e.record(r, models.FamilyBelt, home, c)
		}
	}
}

func (e *Engine) linkTracks(b *models.Buildable, r *Report) {
	for _, home := range CollectTrack(b) {
		hits := e.probeTrack(home)
		if len(hits) == 0 {
			continue
		}
		for _, c := range e.scoreTrack(home, hits) {
			e.linker.LinkTrack(home, c)
			e.record(r, models.FamilyTrack, home, c)
		}
	}
}

// linkFluids links every open fluid connector, then registers the integrants
// of both sides of each new link in one batch.
func (e *Engine) linkFluids(b *models.Buildable, r *Report) {
	var batch []*models.FluidIntegrant
	for _, home := range CollectFluid(b) {
		if home.Connector.IsConnected() {
			continue
		}
		hits := e.probeFluid(home.Connector)
		if len(hits) == 0 {
			continue
		}
		c, ok := e.scoreFluid(home, hits)
		if !ok {
			continue
		}
		e.linker.LinkFluid(home.Connector, c.Connector)
		e.record(r, models.FamilyFluid, home.Connector, c.Connector)
		batch = append(batch, home.Integrant, c.Integrant)
	}
	if len(batch) > 0 {
		r.Registered += e.linker.RegisterIntegrants(batch)
	}
}

func (e *Engine) linkHypers(b *models.Buildable, r *Report) {
	for _, home := range CollectHyper(b) {
		if home.IsConnected() {
			continue
		}
		hits := e.probeHyper(home)
		if len(hits) == 0 {
			continue
		}
		if c := e.scoreHyper(home, hits); c != nil {
			e.linker.LinkHyper(home, c)
			e.record(r, models.FamilyHyper, home, c)
		}
	}
}
