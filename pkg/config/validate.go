// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/telekom/hoptrace/internal/logger"
)

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if vErr := c.Trace.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The trace configuration is invalid", "error", vErr)
		err = errors.Join(err, fmt.Errorf("%w: %w", ErrInvalidTraceOptions, vErr))
	}

	if vErr := c.Retry.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The retry configuration is invalid", "error", vErr)
		err = errors.Join(err, fmt.Errorf("%w: %w", ErrInvalidRetry, vErr))
	}

	if c.HasTargetsFile() {
		if vErr := c.Targets.Validate(ctx); vErr != nil {
			log.ErrorContext(ctx, "The targets configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.ErrorContext(ctx, "The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if vErr := c.Api.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The api configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// Validate validates the targets configuration
func (c *TargetsConfig) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)

	switch filepath.Ext(c.File) {
	case ".yaml", ".yml":
		return nil
	default:
		log.ErrorContext(ctx, "The targets file must be a yaml file", "path", c.File)
		return fmt.Errorf("%w: %q is not a yaml file", ErrInvalidTargetsFile, c.File)
	}
}
