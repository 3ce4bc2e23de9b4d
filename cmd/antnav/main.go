// Command antnav estimates headings against stored routes.
//
// Usage:
//
//	antnav heading -config nav.json -route route1 -query view.png
//	antnav convert -config nav.json -route route1 -to zstd
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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/antnav"
	"github.com/hupe1980/antnav/blobstore"
	"github.com/hupe1980/antnav/codec"
	"github.com/hupe1980/antnav/core"
	"github.com/hupe1980/antnav/imgproc"
	"github.com/hupe1980/antnav/metric"
	"github.com/hupe1980/antnav/rotater"
	"github.com/hupe1980/antnav/routedb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "antnav:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: antnav <heading|convert> [flags]")
	}
	switch args[0] {
	case "heading":
		return runHeading(ctx, args[1:], stdout)
	case "convert":
		return runConvert(ctx, args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// navigator is the part of antnav.Navigator the command needs.
type navigator interface {
	Resolution() imgproc.Size
	LoadRoute(ctx context.Context, store blobstore.BlobStore, route string, opts ...routedb.Option) (int, error)
	Heading(ctx context.Context, query *imgproc.Gray, opts ...rotater.InSilicoOption) (core.Estimate, error)
}

// Result is printed by the heading command.
type Result struct {
	Route     string  `json:"route"`
	Snapshots int     `json:"snapshots"`
	Heading   float64 `json:"heading"`
	Radians   float64 `json:"radians"`
	Snapshot  int     `json:"snapshot"`
	Score     float32 `json:"score"`
}

func runHeading(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("heading", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON configuration file")
	route := fs.String("route", "", "route to train on")
	query := fs.String("query", "", "PNG of the current view")
	maskPath := fs.String("mask", "", "PNG mask; zero pixels are ignored")
	format := fs.String("format", "", "route format: png, lz4 or zstd")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return errors.New("heading: -query is required")
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *format != "" {
		if cfg.Format, err = routedb.ParseFormat(*format); err != nil {
			return err
		}
	}
	logger := cfg.Logger()

	var mc antnav.MetricsCollector
	reg := prometheus.NewRegistry()
	if *metricsAddr != "" {
		pc, err := metric.NewPrometheusCollector(
			metric.WithRegisterer(reg),
			metric.WithConstLabels(prometheus.Labels{"algorithm": cfg.Algorithm}),
		)
		if err != nil {
			return err
		}
		mc = pc
	}

	var mask imgproc.Mask
	if *maskPath != "" {
		img, err := readPNG(*maskPath)
		if err != nil {
			return err
		}
		if mask, err = imgproc.MaskFromImage(img); err != nil {
			return err
		}
	}

	nav, err := buildNavigator(cfg, logger, mc, mask)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	n, err := nav.LoadRoute(ctx, store, *route, routedb.WithFormat(cfg.Format))
	if err != nil {
		return fmt.Errorf("load route %q: %w", *route, err)
	}

	view, err := readPNG(*query)
	if err != nil {
		return err
	}
	if view.Size() != nav.Resolution() {
		if view, err = imgproc.Resize(view, nav.Resolution()); err != nil {
			return err
		}
	}

	est, err := nav.Heading(ctx, view, rotater.WithScanStep(cfg.ScanStep))
	if err != nil {
		return err
	}

	out, err := codec.GoJSON{}.MarshalIndent(Result{
		Route:     *route,
		Snapshots: n,
		Heading:   est.Heading,
		Radians:   est.Radians(),
		Snapshot:  est.Snapshot,
		Score:     est.Score,
	}, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout, string(out)); err != nil {
		return err
	}

	if *metricsAddr != "" {
		return serveMetrics(ctx, *metricsAddr, reg)
	}
	return nil
}

func runConvert(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON configuration file")
	route := fs.String("route", "", "route to convert")
	to := fs.String("to", "zstd", "target format: png, lz4 or zstd")
	dst := fs.String("dst", "", "target route name; defaults to the source route")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	target, err := routedb.ParseFormat(*to)
	if err != nil {
		return err
	}
	if *dst == "" {
		*dst = *route
	}
	logger := cfg.Logger().WithRoute(*route)

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}

	var n int
	if *dst == *route {
		n, err = routedb.Convert(ctx, store, *route, cfg.Format, target, routedb.WithLogger(logger.Logger))
		if err != nil {
			return err
		}
	} else {
		snapshots, err := routedb.Load(ctx, store, *route, routedb.WithFormat(cfg.Format), routedb.WithLogger(logger.Logger))
		if err != nil {
			return err
		}
		if err := routedb.Save(ctx, store, *dst, snapshots, routedb.WithFormat(target), routedb.WithLogger(logger.Logger)); err != nil {
			return err
		}
		n = len(snapshots)
	}

	_, err = fmt.Fprintf(stdout, "converted %d snapshots of %q from %s to %s\n", n, *route, cfg.Format, target)
	return err
}

func buildNavigator(cfg Config, logger *antnav.Logger, mc antnav.MetricsCollector, mask imgproc.Mask) (navigator, error) {
	switch cfg.Algorithm {
	case "infomax":
		b := antnav.InfoMax(cfg.Size()).
			LearningRate(cfg.LearningRate).
			ResizeRoute(cfg.ResizeRoute).
			Logger(logger)
		if cfg.Seed != nil {
			b = b.Seed(*cfg.Seed)
		}
		if mc != nil {
			b = b.Metrics(mc)
		}
		nav, err := b.Build()
		if err != nil {
			return nil, err
		}
		return nav, nil
	default:
		b := antnav.PerfectMemory(cfg.Size()).
			Differencer(cfg.Differencer).
			Mask(mask).
			ResizeRoute(cfg.ResizeRoute).
			Logger(logger)
		if cfg.Workers > 0 {
			b = b.Workers(cfg.Workers)
		}
		if cfg.WeightBest > 0 {
			b = b.WeightSnapshots(cfg.WeightBest)
		}
		if mc != nil {
			b = b.Metrics(mc)
		}
		nav, err := b.Build()
		if err != nil {
			return nil, err
		}
		return nav, nil
	}
}

func readPNG(path string) (*imgproc.Gray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := routedb.Decode(data, routedb.PNG)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
