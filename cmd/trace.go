// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/telekom/hoptrace/internal/helper"
	"github.com/telekom/hoptrace/internal/logger"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg/config"
	"github.com/telekom/hoptrace/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"

	// tracerName is the name of the OpenTelemetry tracer of the trace command
	tracerName = "hoptrace/cmd"
)

var (
	// ErrIncompleteTrace is returned when at least one trace did not complete
	ErrIncompleteTrace = errors.New("trace did not complete")
	// ErrNoTargetsGiven is returned when neither arguments nor a targets file name a target
	ErrNoTargetsGiven = errors.New("no targets given")

	// errNoHops marks a trace that is worth retrying
	errNoHops = errors.New("trace found no hops")
)

// NewCmdTrace creates a new trace command
func NewCmdTrace() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "trace [target...]",
		Short: "Trace the network path to one or more targets",
		Long: "Trace runs the traceroute tool of the host against every target in turn.\n" +
			"In text output the hops are printed as soon as they are found.",
		Example: "  hoptrace trace example.com\n" +
			"  hoptrace trace --max-hops 15 --output json 192.0.2.1 2001:db8::1\n" +
			"  hoptrace trace --targets-file targets.yaml",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains([]string{outputText, outputJSON, outputYAML}, output) {
				return fmt.Errorf("unknown output %q, must be one of text, json or yaml", output)
			}
			return bindFlags(cmd,
				binding{flag: "max-hops", key: "trace.maxHops"},
				binding{flag: "timeout", key: "trace.timeout"},
				binding{flag: "margin", key: "trace.margin"},
				binding{flag: "retry-count", key: "retry.count"},
				binding{flag: "retry-delay", key: "retry.delay"},
				binding{flag: "targets-file", key: "targets.file"},
			)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := logger.NewContextWithLogger(cmd.Context())
			defer cancel()
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			targets, err := collectTargets(ctx, cfg, args)
			if err != nil {
				return err
			}
			if cfg.HasTelemetry() {
				tel := telemetry.New(cfg.Telemetry)
				if err = tel.InitTracing(ctx); err != nil {
					return fmt.Errorf("failed to initialize tracing: %w", err)
				}
				defer func() {
					if sErr := tel.Shutdown(context.WithoutCancel(ctx)); sErr != nil {
						logger.FromContext(ctx).WarnContext(ctx, "Spans of the traces may be lost", "error", sErr)
					}
				}()
			}
			return runTrace(ctx, cfg, traceroute.NewTracer(), targets, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int("max-hops", traceroute.DefaultMaxHops, "maximum number of hops to probe")
	cmd.Flags().Duration("timeout", traceroute.DefaultTimeout, "timeout per hop, rounded up to whole seconds")
	cmd.Flags().Duration("margin", traceroute.DefaultMargin, "added to max-hops * timeout to form the time budget of a trace")
	cmd.Flags().Int("retry-count", 0, "how often a trace that found no hops is retried")
	cmd.Flags().Duration("retry-delay", time.Second, "initial delay between retries, doubled on every retry")
	cmd.Flags().String("targets-file", "", "yaml file with a list of targets to trace")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")

	return cmd
}

// collectTargets returns the targets from the arguments followed by those of the targets file
func collectTargets(ctx context.Context, cfg *config.Config, args []string) ([]string, error) {
	targets := slices.Clone(args)
	if cfg.HasTargetsFile() {
		fromFile, err := config.NewTargetLoader(cfg).Load(ctx)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fromFile...)
	}
	if len(targets) == 0 {
		return nil, ErrNoTargetsGiven
	}
	return targets, nil
}

// runTrace traces the targets one after another and writes the results to w
func runTrace(ctx context.Context, cfg *config.Config, client traceroute.Client, targets []string, output string, w io.Writer) error {
	log := logger.FromContext(ctx)

	results := make([]traceroute.Result, 0, len(targets))
	var incomplete []string
	for _, target := range targets {
		res, err := traceTarget(ctx, cfg, client, target, output, w)
		if err != nil {
			log.ErrorContext(ctx, "Trace was aborted", "target", target, "error", err)
			return fmt.Errorf("trace to %s was aborted: %w", target, err)
		}
		results = append(results, res)
		if !res.Complete {
			incomplete = append(incomplete, target)
		}
	}

	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	}

	if len(incomplete) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteTrace, strings.Join(incomplete, ", "))
	}
	return nil
}

// traceTarget traces a single target. Traces that end incomplete without
// any hop are retried as configured. All attempts share one span.
func traceTarget(ctx context.Context, cfg *config.Config, client traceroute.Client, target, output string, w io.Writer) (traceroute.Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Trace target", trace.WithAttributes(
		attribute.String("traceroute.target", target),
	))
	defer span.End()

	var (
		res      traceroute.Result
		abort    error
		attempts int
	)
	effector := func(ctx context.Context) error {
		attempts++
		span.AddEvent("Attempt", trace.WithAttributes(attribute.Int("hoptrace.attempt", attempts)))
		var err error
		if output == outputText {
			res, err = streamText(ctx, client, target, cfg.Trace, w)
		} else {
			res, err = client.Run(ctx, target, cfg.Trace)
		}
		if err != nil {
			abort = err
			return nil
		}
		if !res.Complete && len(res.Hops) == 0 {
			return fmt.Errorf("%w: %s", errNoHops, res.Error)
		}
		return nil
	}

	err := helper.Retry(effector, cfg.Retry)(ctx)
	span.SetAttributes(
		attribute.Int("hoptrace.attempts", attempts),
		attribute.Bool("traceroute.complete", res.Complete),
	)
	if abort != nil {
		span.RecordError(abort)
		span.SetStatus(codes.Error, "trace aborted")
		return res, abort
	}
	if err != nil && !errors.Is(err, errNoHops) {
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	if !res.Complete {
		span.SetStatus(codes.Error, res.Error)
	}
	return res, nil
}

// streamText prints the hops of a trace while they arrive
func streamText(ctx context.Context, client traceroute.Client, target string, opts traceroute.Options, w io.Writer) (traceroute.Result, error) {
	maxHops := opts.MaxHops
	if maxHops == 0 {
		maxHops = traceroute.DefaultMaxHops
	}
	if _, err := fmt.Fprintf(w, "trace to %s, %d hops max\n", target, maxHops); err != nil {
		return traceroute.Result{}, err
	}

	for ev := range client.Stream(ctx, target, opts) {
		switch ev.Kind {
		case traceroute.EventHop:
			if _, err := fmt.Fprintln(w, ev.Hop.String()); err != nil {
				return traceroute.Result{}, err
			}
		case traceroute.EventComplete:
			res := ev.Result
			var err error
			switch {
			case !res.Complete:
				_, err = fmt.Fprintf(w, "trace incomplete: %s\n", res.Error)
			case res.Error != "":
				_, err = fmt.Fprintf(w, "trace complete with %d hops (%s)\n", len(res.Hops), res.Error)
			default:
				_, err = fmt.Fprintf(w, "trace complete with %d hops\n", len(res.Hops))
			}
			return res, err
		}
	}

	if ctx.Err() != nil {
		return traceroute.Result{}, context.Cause(ctx)
	}
	return traceroute.Result{}, traceroute.ErrSuperseded
}
