// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidTraceOptions is returned when the trace options are invalid
	ErrInvalidTraceOptions = errors.New("invalid trace options")
	// ErrInvalidRetry is returned when the retry configuration is invalid
	ErrInvalidRetry = errors.New("invalid retry configuration")
	// ErrInvalidTargetsFile is returned when the targets file path is invalid
	ErrInvalidTargetsFile = errors.New("invalid targets file")
	// ErrNoTargets is returned when the targets file does not list a single target
	ErrNoTargets = errors.New("no targets configured")
)
