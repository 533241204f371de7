// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/telekom/hoptrace/internal/helper"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg/api"
	"github.com/telekom/hoptrace/pkg/telemetry"
)

type Config struct {
	// Trace holds the options applied to every trace unless a request overrides them
	Trace traceroute.Options `yaml:"trace" mapstructure:"trace"`
	// Retry is the configuration for re-running traces that found no hops
	Retry helper.RetryConfig `yaml:"retry" mapstructure:"retry"`
	// Targets is the configuration for the targets traced in batch
	Targets TargetsConfig `yaml:"targets" mapstructure:"targets"`
	// Api is the configuration for the api server
	Api api.Config `yaml:"api" mapstructure:"api"`
	// Telemetry is the configuration for the telemetry
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// TargetsConfig is the configuration for the targets file
type TargetsConfig struct {
	// File is the path to a yaml file with a list of targets
	File string `yaml:"file" mapstructure:"file"`
}

// HasTargetsFile returns true if a targets file is configured
func (c *Config) HasTargetsFile() bool {
	return c.Targets.File != ""
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}
