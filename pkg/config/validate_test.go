// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/telekom/hoptrace/internal/helper"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg/api"
	"github.com/telekom/hoptrace/pkg/telemetry"
)

func validConfig() Config {
	return Config{
		Trace: traceroute.DefaultOptions(),
		Retry: helper.RetryConfig{Count: 2, Delay: time.Second},
		Api:   api.Config{ListeningAddress: ":8080"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr []error
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name: "valid config with targets file and telemetry",
			modify: func(c *Config) {
				c.Targets.File = "targets.yml"
				c.Telemetry = telemetry.Config{Enabled: true, Exporter: telemetry.GRPC, Endpoint: "localhost:4317"}
			},
		},
		{
			name:    "invalid trace options",
			modify:  func(c *Config) { c.Trace.MaxHops = 300 },
			wantErr: []error{ErrInvalidTraceOptions},
		},
		{
			name:    "invalid retry",
			modify:  func(c *Config) { c.Retry.Count = 10 },
			wantErr: []error{ErrInvalidRetry},
		},
		{
			name:    "targets file is not yaml",
			modify:  func(c *Config) { c.Targets.File = "targets.txt" },
			wantErr: []error{ErrInvalidTargetsFile},
		},
		{
			name:    "invalid api address",
			modify:  func(c *Config) { c.Api.ListeningAddress = "" },
			wantErr: []error{api.ErrInvalidAddress},
		},
		{
			name: "disabled telemetry is not validated",
			modify: func(c *Config) {
				c.Telemetry = telemetry.Config{Enabled: false, Exporter: "unknown"}
			},
		},
		{
			name: "multiple errors are joined",
			modify: func(c *Config) {
				c.Trace.Timeout = -time.Second
				c.Retry.Delay = -time.Second
				c.Api.ListeningAddress = ""
			},
			wantErr: []error{ErrInvalidTraceOptions, ErrInvalidRetry, api.ErrInvalidAddress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)

			err := c.Validate(t.Context())
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestConfig_Has(t *testing.T) {
	c := Config{}
	assert.False(t, c.HasTargetsFile())
	assert.False(t, c.HasTelemetry())

	c.Targets.File = "targets.yaml"
	c.Telemetry.Enabled = true
	assert.True(t, c.HasTargetsFile())
	assert.True(t, c.HasTelemetry())
}
