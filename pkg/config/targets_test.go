// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hoptrace/pkg/config/test"
)

func TestNewTargetLoader(t *testing.T) {
	l := NewTargetLoader(&Config{Targets: TargetsConfig{File: "test/data/targets.yaml"}})

	assert.Equal(t, "test/data/targets.yaml", l.path)
	assert.NotNil(t, l.fsys)
}

func TestTargetLoader_Load_fromDisk(t *testing.T) {
	l := NewTargetLoader(&Config{Targets: TargetsConfig{File: "test/data/targets.yaml"}})

	got, err := l.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "192.0.2.1", "2001:db8::1"}, got)
}

func TestTargetLoader_Load(t *testing.T) {
	errClose := errors.New("failed to close file")
	errRead := errors.New("device not ready")

	tests := []struct {
		name        string
		fsys        *test.TargetsFS
		want        []string
		wantErrIs   error
		wantErrText string
	}{
		{
			name: "targets are trimmed",
			fsys: &test.TargetsFS{Files: map[string]string{
				"targets.yaml": test.Targets(" example.com ", "bücher.example", "192.0.2.1"),
			}},
			want: []string{"example.com", "bücher.example", "192.0.2.1"},
		},
		{
			name:      "missing file",
			fsys:      &test.TargetsFS{},
			wantErrIs: fs.ErrNotExist,
		},
		{
			name: "malformed file",
			fsys: &test.TargetsFS{Files: map[string]string{
				"targets.yaml": "targets: [example.com",
			}},
			wantErrText: "failed to parse targets file",
		},
		{
			name: "not a list of targets",
			fsys: &test.TargetsFS{Files: map[string]string{
				"targets.yaml": "this is not a valid targets file",
			}},
			wantErrText: "failed to parse targets file",
		},
		{
			name: "only blank targets",
			fsys: &test.TargetsFS{Files: map[string]string{
				"targets.yaml": test.Targets("", "  "),
			}},
			wantErrIs: ErrNoTargets,
		},
		{
			name: "empty file",
			fsys: &test.TargetsFS{Files: map[string]string{
				"targets.yaml": "",
			}},
			wantErrIs: ErrNoTargets,
		},
		{
			name: "read fails",
			fsys: &test.TargetsFS{
				Files:   map[string]string{"targets.yaml": test.Targets("example.com")},
				ReadErr: errRead,
			},
			wantErrIs: errRead,
		},
		{
			name: "close fails",
			fsys: &test.TargetsFS{
				Files:    map[string]string{"targets.yaml": test.Targets("example.com")},
				CloseErr: errClose,
			},
			wantErrIs: errClose,
		},
		{
			name: "malformed file and close fails",
			fsys: &test.TargetsFS{
				Files:    map[string]string{"targets.yaml": "targets: {"},
				CloseErr: errClose,
			},
			wantErrIs:   errClose,
			wantErrText: "failed to parse targets file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewTargetLoader(&Config{Targets: TargetsConfig{File: "/etc/hoptrace/targets.yaml"}})
			l.fsys = tt.fsys

			got, err := l.Load(t.Context())
			if tt.wantErrIs == nil && tt.wantErrText == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
			if tt.wantErrText != "" {
				assert.ErrorContains(t, err, tt.wantErrText)
			}
			assert.Nil(t, got)
		})
	}
}
