// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go cli --path ../../docs
//go:generate go run gen-docs.go openapi --path ../../docs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	hoptracecmd "github.com/telekom/hoptrace/cmd"
	"github.com/telekom/hoptrace/pkg/hoptrace"
	"gopkg.in/yaml.v3"
)

const openapiFile = "openapi.yaml"

func main() {
	if err := newCmdGenDocs().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCmdGenDocs creates the gen-docs command with one subcommand per kind of document
func newCmdGenDocs() *cobra.Command {
	var docPath string

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generates the reference docs of hoptrace",
	}
	cmd.PersistentFlags().StringVar(&docPath, "path", "docs", "directory the documents are written to")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "cli",
			Short: "Generate one markdown file per hoptrace command",
			RunE: func(*cobra.Command, []string) error {
				return genCLIDocs(docPath)
			},
		},
		&cobra.Command{
			Use:   "openapi",
			Short: "Generate the openapi document served under /openapi",
			RunE: func(*cobra.Command, []string) error {
				return genOpenAPI(docPath)
			},
		},
	)
	return cmd
}

// genCLIDocs writes the markdown reference of the hoptrace commands and their flags
func genCLIDocs(path string) error {
	c := hoptracecmd.BuildCmd("")
	c.DisableAutoGenTag = true
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	if err := doc.GenMarkdownTree(c, path); err != nil {
		return fmt.Errorf("failed to generate docs: %w", err)
	}
	return nil
}

// genOpenAPI writes the openapi document of the trace api as yaml
func genOpenAPI(path string) error {
	oapi, err := hoptrace.OpenAPI()
	if err != nil {
		return fmt.Errorf("failed to create openapi document: %w", err)
	}
	b, err := yaml.Marshal(oapi)
	if err != nil {
		return fmt.Errorf("failed to encode openapi document: %w", err)
	}
	if err = os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	if err = os.WriteFile(filepath.Join(path, openapiFile), b, 0o600); err != nil {
		return fmt.Errorf("failed to write openapi document: %w", err)
	}
	return nil
}
