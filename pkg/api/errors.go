// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned when the listening address cannot be served on
	ErrInvalidAddress = errors.New("invalid listening address")
	// ErrInvalidTLSConfig is returned when tls is enabled without a certificate and key
	ErrInvalidTLSConfig = errors.New("tls requires a certificate and key path")
)

// ErrInvalidRoute is returned when a route has an unsupported method
type ErrInvalidRoute struct {
	Route Route
}

func (e *ErrInvalidRoute) Error() string {
	return fmt.Sprintf("invalid route %s %s", e.Route.Method, e.Route.Path)
}

// ErrCreateOpenapiSchema is returned when the openapi schema of a type cannot be generated
type ErrCreateOpenapiSchema struct {
	name string
	err  error
}

func (e ErrCreateOpenapiSchema) Error() string {
	return fmt.Sprintf("failed to get schema for %s: %v", e.name, e.err)
}

func (e ErrCreateOpenapiSchema) Unwrap() error {
	return e.err
}
