// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/telekom/hoptrace/pkg"
)

// NewCmdVersion creates a new version command
func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of hoptrace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version := pkg.Version
			if version == "" {
				version = "dev"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "hoptrace %s %s/%s\n", version, runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
