// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/telekom/hoptrace/internal/logger"
	"gopkg.in/yaml.v3"
)

// TargetsFile is the content of a targets file
type TargetsFile struct {
	Targets []string `yaml:"targets"`
}

// TargetLoader reads the targets to trace from a local file
type TargetLoader struct {
	path string
	fsys fs.FS
}

func NewTargetLoader(cfg *Config) *TargetLoader {
	return &TargetLoader{
		path: cfg.Targets.File,
		fsys: os.DirFS(filepath.Dir(cfg.Targets.File)),
	}
}

// Load reads the targets from the file. Blank entries are skipped
// and the file must list at least one target.
func (l *TargetLoader) Load(ctx context.Context) (targets []string, err error) {
	log := logger.FromContext(ctx).With("path", l.path)

	file, err := l.fsys.Open(filepath.Base(l.path))
	if err != nil {
		log.ErrorContext(ctx, "Failed to open targets file", "error", err)
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer func() {
		cerr := file.Close()
		if cerr != nil {
			log.ErrorContext(ctx, "Failed to close targets file", "error", cerr)
			targets = nil
		}
		err = errors.Join(cerr, err)
	}()

	b, err := io.ReadAll(file)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read targets file", "error", err)
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var tf TargetsFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		log.ErrorContext(ctx, "Failed to parse targets file", "error", err)
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}

	for _, t := range tf.Targets {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		log.WarnContext(ctx, "Targets file does not contain any target")
		return nil, ErrNoTargets
	}

	log.DebugContext(ctx, "Loaded targets", "count", len(targets))
	return targets, nil
}
