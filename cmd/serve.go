// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/telekom/hoptrace/internal/logger"
	"github.com/telekom/hoptrace/pkg/hoptrace"
)

// NewCmdServe creates a new serve command
func NewCmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve traces over http",
		Long: "Serve starts an API that streams traces as newline-delimited JSON.\n" +
			"Starting a trace cancels the one that is running.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd,
				binding{flag: "address", key: "api.address"},
				binding{flag: "tls", key: "api.tls.enabled"},
				binding{flag: "tls-cert", key: "api.tls.certPath"},
				binding{flag: "tls-key", key: "api.tls.keyPath"},
			)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := logger.NewContextWithLogger(cmd.Context())
			defer cancel()
			log := logger.FromContext(ctx)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.InfoContext(ctx, "Starting hoptrace", "address", cfg.Api.ListeningAddress)
			err = hoptrace.New(cfg).Run(ctx)
			if errors.Is(err, hoptrace.ErrFinalShutdown) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().String("address", defaultAddress, "address the api listens on")
	cmd.Flags().Bool("tls", false, "serve the api with tls")
	cmd.Flags().String("tls-cert", "", "path to the tls certificate")
	cmd.Flags().String("tls-key", "", "path to the tls key")

	return cmd
}
