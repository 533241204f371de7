// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// TargetsFS serves targets files from memory. It can simulate files that
// fail to be read or closed.
type TargetsFS struct {
	// Files maps a file name to its content
	Files map[string]string
	// ReadErr is returned by every read of a file
	ReadErr error
	// CloseErr is returned when a file is closed
	CloseErr error
}

// Open opens the named file
func (t *TargetsFS) Open(name string) (fs.File, error) {
	content, ok := t.Files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &targetsFile{content: strings.NewReader(content), readErr: t.ReadErr, closeErr: t.CloseErr}, nil
}

// Targets renders the content of a targets file listing the given targets
func Targets(targets ...string) string {
	b, err := yaml.Marshal(struct {
		Targets []string `yaml:"targets"`
	}{Targets: targets})
	if err != nil {
		panic(err)
	}
	return string(b)
}

type targetsFile struct {
	content  *strings.Reader
	readErr  error
	closeErr error
}

func (f *targetsFile) Read(b []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.content.Read(b)
}

func (f *targetsFile) Close() error {
	return f.closeErr
}

func (f *targetsFile) Stat() (fs.FileInfo, error) {
	return nil, fs.ErrInvalid
}
