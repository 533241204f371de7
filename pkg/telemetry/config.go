// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/telekom/hoptrace/internal/logger"
)

// ErrInvalidSampleRatio is returned when the sample ratio is not within [0, 1]
var ErrInvalidSampleRatio = errors.New("sample ratio must be between 0 and 1")

// Config configures the metrics and the export of trace spans.
type Config struct {
	// Enabled turns the export of spans on
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Exporter selects where spans are sent
	Exporter Exporter `yaml:"exporter" mapstructure:"exporter"`
	// Endpoint is the address of the otlp collector, required for the grpc and http exporters
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Token is sent as bearer token to the collector
	Token string `yaml:"token" mapstructure:"token"`
	// TLS configures the connection to the collector
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`
	// SampleRatio is the fraction of traces whose spans are recorded.
	// Zero records every trace.
	SampleRatio float64 `yaml:"sampleRatio" mapstructure:"sampleRatio"`
	// InstanceName identifies this hoptrace instance in metrics and spans.
	// Defaults to the hostname.
	InstanceName string `yaml:"instanceName" mapstructure:"instanceName"`
}

type TLSConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// CertPath is a pem file with the CA of the collector.
	// The system roots are used if empty.
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
}

// Validate checks the exporter, its endpoint and the sample ratio
func (c *Config) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := c.Exporter.Validate(); err != nil {
		log.ErrorContext(ctx, "Invalid exporter", "error", err)
		return err
	}

	if c.Exporter.IsExporting() && c.Endpoint == "" {
		log.ErrorContext(ctx, "Endpoint is required for otlp exporter", "exporter", c.Exporter)
		return fmt.Errorf("endpoint is required for otlp exporter %q", c.Exporter)
	}

	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		log.ErrorContext(ctx, "Invalid sample ratio", "sampleRatio", c.SampleRatio)
		return fmt.Errorf("%w, got %v", ErrInvalidSampleRatio, c.SampleRatio)
	}
	return nil
}

// instanceName returns the configured instance name or the hostname
func (c *Config) instanceName() string {
	if c.InstanceName != "" {
		return c.InstanceName
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}

// sampleRatio returns the fraction of traces to record
func (c *Config) sampleRatio() float64 {
	if c.SampleRatio == 0 {
		return 1
	}
	return c.SampleRatio
}
