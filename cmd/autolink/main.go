package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/autolink/internal/core/autolink"
	"github.com/zeusync/autolink/internal/core/events/bus"
	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/observability/log"
	"github.com/zeusync/autolink/internal/core/observability/tracing"
	"github.com/zeusync/autolink/internal/core/world"
	"github.com/zeusync/autolink/internal/injector"
)

const source = "cmd/autolink"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults are used when empty)")
	scenePath := flag.String("scene", "", "path to a YAML scene to construct")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address after the run")
	flag.Parse()

	if err := run(*configPath, *scenePath, *metricsAddr, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "autolink:", err)
		os.Exit(1)
	}
}

func run(configPath, scenePath, metricsAddr string, out io.Writer) error {
	if scenePath == "" {
		return errors.New("-scene is required")
	}

	cfg := autolink.DefaultConfig()
	if configPath != "" {
		loaded, err := autolink.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := injector.InitializeRuntime(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	shutdown, err := tracing.Init(ctx, cfg.Tracing, rt.Logger)
	if err != nil {
		return err
	}
	defer tracing.ShutdownWithTimeout(context.Background(), shutdown, rt.Logger)

	scene, err := world.LoadSceneFile(scenePath)
	if err != nil {
		return err
	}
	placed, err := scene.Build()
	if err != nil {
		return err
	}

	if err = rt.System.Initialize(ctx); err != nil {
		return err
	}
	if err = construct(ctx, rt, placed); err != nil {
		return err
	}

	printReports(out, rt.System.Drain())
	printSummary(out, rt.World, rt.Bus.GetMetrics())

	if metricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, rt, metricsAddr)
}

// construct places the scene in order. Standalone buildables announce
// themselves as soon as they are placed; a blueprint group is announced once
// its last member is down.
func construct(ctx context.Context, rt *injector.Runtime, placed []world.Placed) error {
	var group []*models.Buildable
	var groupName string
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		rt.Logger.Debug("blueprint constructed", log.String("group", groupName), log.Int("children", len(group)))
		err := rt.Bus.Publish(ctx, autolink.BlueprintConstructed(source, group))
		group, groupName = nil, ""
		return err
	}

	for _, p := range placed {
		if p.Group != groupName {
			if err := flush(); err != nil {
				return err
			}
		}
		if err := rt.World.Place(p); err != nil {
			return err
		}
		if p.Group != "" {
			groupName = p.Group
			group = append(group, p.Buildable)
			continue
		}
		if err := rt.Bus.Publish(ctx, autolink.BuildableConstructed(source, p.Buildable)); err != nil {
			return err
		}
	}
	return flush()
}

func printReports(out io.Writer, reports []autolink.Report) {
	for _, r := range reports {
		if r.Skipped {
			fmt.Fprintf(out, "#%d skipped\n", r.Buildable)
			continue
		}
		for _, l := range r.Links {
			fmt.Fprintf(out, "%-5s #%d %s -> #%d %s\n",
				l.Family, l.From.Owner().ID(), l.From.Name(), l.To.Owner().ID(), l.To.Name())
		}
	}
}

func printSummary(out io.Writer, w *world.World, events bus.EventBusMetrics) {
	chains := w.Conveyors().Chains()
	fmt.Fprintf(out, "conveyor chains: %d\n", len(chains))
	for _, c := range chains {
		fmt.Fprintf(out, "  %016x loop=%t %v\n", c.ID, c.Loop, c.Members)
	}
	fmt.Fprintf(out, "fluid networks: %d\n", len(w.Fluids().Networks()))
	fmt.Fprintf(out, "track graph merges: %d\n", w.Tracks().Merges())
	fmt.Fprintf(out, "events: published=%d handlers=%d errors=%d\n",
		events.Published, events.DeliveredHandlers, events.Errors)
}

func serveMetrics(ctx context.Context, rt *injector.Runtime, addr string) error {
	srv := &http.Server{Addr: addr, Handler: rt.Metrics.Handler()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	rt.Logger.Info("serving metrics", log.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
