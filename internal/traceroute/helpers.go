// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"strings"

	"github.com/telekom/hoptrace/internal/logger"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxDiagnostics is the number of non-hop stderr lines kept to explain a failed trace.
const maxDiagnostics = 5

// logHops logs the hops in a structured format.
func logHops(ctx context.Context, hops []Hop) {
	log := logger.FromContext(ctx)
	for _, hop := range hops {
		log.DebugContext(ctx, hop.String())
	}
}

// wrapError wraps an error with a message and logs it.
// It also records the error in the current OpenTelemetry span.
func wrapError(ctx context.Context, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	caser := cases.Title(language.English)
	wrapped := fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), err)

	if isTraceError(err) {
		log.WarnContext(ctx, caser.String(fmt.Sprintf(msg, args...)), "error", err)
	} else {
		log.ErrorContext(ctx, caser.String(fmt.Sprintf(msg, args...)), "error", err)
	}
	span.SetStatus(codes.Error, wrapped.Error())
	span.RecordError(err)
	return wrapped
}

// failureMessage describes why a trace failed, adding what the tool
// reported on its error stream.
func failureMessage(err error, diagnostics []string) string {
	if len(diagnostics) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("%v: %s", err, strings.Join(diagnostics, "; "))
}
