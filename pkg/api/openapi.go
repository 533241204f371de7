// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"reflect"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// SchemaFromValue generates the openapi schema of the JSON representation of v.
// Properties with one of the nullable names are marked as nullable at any depth.
func SchemaFromValue(name string, v any, nullable ...string) (*openapi3.SchemaRef, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(v, openapi3.Schemas{},
		openapi3gen.SchemaCustomizer(func(field string, _ reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
			if slices.Contains(nullable, field) {
				schema.Nullable = true
			}
			return nil
		}),
	)
	if err != nil {
		return nil, ErrCreateOpenapiSchema{name: name, err: err}
	}
	return ref, nil
}
