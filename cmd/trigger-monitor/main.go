// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/antimetal/eventguard/internal/trigger"
	"github.com/antimetal/eventguard/pkg/clock"
	"github.com/antimetal/eventguard/pkg/eventrate"
)

var (
	capacity    = flag.Int("capacity", eventrate.DefaultCapacity, "Number of events that must arrive within the window")
	window      = flag.Uint("window", eventrate.DefaultWindow, "Window in seconds within which events count as recent")
	epsilon     = flag.Uint("epsilon", eventrate.DefaultEpsilon, "Extra seconds used to age slots on initialization")
	metricsAddr = flag.String("metrics-bind-address", "", "The address the metric endpoint binds to. Empty disables the metrics server")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger logr.Logger
	if *verbose {
		zapLog, _ := zap.NewDevelopment()
		logger = zapr.NewLogger(zapLog)
	} else {
		logger = logr.Discard()
	}
	setupLog := logger.WithName("setup")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, os.Stdin, os.Stdout); err != nil {
		setupLog.Error(err, "trigger monitor failed")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logr.Logger, in io.Reader, out io.Writer) error {
	src := clock.Default()
	cfg, err := trackerConfig(*capacity, *window, *epsilon, src, logger)
	if err != nil {
		return err
	}
	tracker, err := eventrate.New(cfg)
	if err != nil {
		return fmt.Errorf("unable to create tracker: %w", err)
	}

	reg := prometheus.NewRegistry()
	monitor, err := trigger.NewMonitor(tracker,
		trigger.WithLogger(logger.WithName("monitor")),
		trigger.WithMetrics(reg),
		trigger.WithAction(func(_ context.Context, stamps []uint32) error {
			_, err := fmt.Fprintf(out, "threshold met: %d events within %ds %v\n",
				len(stamps), *window, stamps)
			return err
		}),
	)
	if err != nil {
		return fmt.Errorf("unable to create monitor: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// The reader stays outside the group: a Scan blocked on stdin cannot be
	// interrupted, and shutdown must not wait for it.
	events := make(chan uint32)
	readErr := make(chan error, 1)
	go func() {
		defer close(events)
		readErr <- readEvents(ctx, in, src, events)
	}()

	g.Go(func() error {
		err := monitor.Run(ctx, events)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		// events closed: input is exhausted, stop the metrics server too
		cancel()
		return <-readErr
	})

	if *metricsAddr != "" {
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", "address", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// trackerConfig narrows the flag values to tracker ticks, rejecting values that
// do not fit instead of truncating them.
func trackerConfig(capacity int, window, epsilon uint, src clock.Source, logger logr.Logger) (*eventrate.Config, error) {
	if window > eventrate.MaxWindow {
		return nil, fmt.Errorf("window must be at most %d seconds, got %d", eventrate.MaxWindow, window)
	}
	if epsilon > math.MaxUint32 {
		return nil, fmt.Errorf("epsilon must be at most %d seconds, got %d", uint32(math.MaxUint32), epsilon)
	}
	cfg := &eventrate.Config{
		Capacity: capacity,
		Window:   uint32(window),
		Epsilon:  uint32(epsilon),
		Clock:    src,
		Logger:   logger,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readEvents turns every non-empty line of in into an event stamped with src.
func readEvents(ctx context.Context, in io.Reader, src clock.Source, events chan<- uint32) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		select {
		case events <- src.Now():
		case <-ctx.Done():
			return nil
		}
	}
	return scanner.Err()
}
