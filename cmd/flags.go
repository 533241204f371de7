// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/hoptrace/pkg/config"
)

// defaultAddress is the address the api listens on unless configured otherwise
const defaultAddress = ":8080"

// binding maps a command line flag to its configuration key
type binding struct {
	flag string
	key  string
}

// bindFlags binds the flags of the command to their configuration keys.
// It is called in PreRunE so only the flags of the executed command are bound.
func bindFlags(cmd *cobra.Command, bindings ...binding) error {
	for _, b := range bindings {
		if err := viper.BindPFlag(b.key, cmd.Flags().Lookup(b.flag)); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", b.flag, err)
		}
	}
	return nil
}

// loadConfig unmarshals and validates the startup configuration
func loadConfig(ctx context.Context) (*config.Config, error) {
	viper.SetDefault("api.address", defaultAddress)

	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
