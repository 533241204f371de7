// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hoptrace

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/telekom/hoptrace/internal/traceroute"
	"github.com/telekom/hoptrace/pkg"
	"github.com/telekom/hoptrace/pkg/api"
)

// event is the JSON form of a traceroute.Event
type event struct {
	Type   string             `json:"type"`
	Hop    *traceroute.Hop    `json:"hop,omitempty"`
	Result *traceroute.Result `json:"result,omitempty"`
}

// OpenAPI describes the trace endpoints of the hoptrace api
func OpenAPI() (*openapi3.T, error) {
	eventSchema, err := api.SchemaFromValue("event", event{}, "address", "hostname", "roundTripMs", "error")
	if err != nil {
		return nil, err
	}
	eventSchema.Value.Properties["type"].Value.Enum = []any{
		traceroute.EventHop.String(),
		traceroute.EventComplete.String(),
	}
	eventSchema.Value.Required = []string{"type"}

	version := pkg.Version
	if version == "" {
		version = "dev"
	}

	return &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "hoptrace",
			Description: "Streams the network path to a target as discovered by the traceroute tool of the host",
			Version:     version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/v1/trace", &openapi3.PathItem{
				Get: &openapi3.Operation{
					OperationID: "streamTrace",
					Summary:     "Trace the path to a target",
					Description: "Starts a trace, cancelling the active one, and streams one event per line. " +
						"Hop events are followed by exactly one complete event unless the trace is superseded.",
					Parameters: openapi3.Parameters{
						{Value: openapi3.NewQueryParameter("target").
							WithDescription("Hostname or IP address to trace").
							WithRequired(true).
							WithSchema(openapi3.NewStringSchema())},
						{Value: openapi3.NewQueryParameter("maxHops").
							WithDescription("Maximum number of hops").
							WithSchema(openapi3.NewIntegerSchema().WithMin(1).WithMax(255))},
						{Value: openapi3.NewQueryParameter("timeout").
							WithDescription("Per hop timeout as a duration, e.g. 2s").
							WithSchema(openapi3.NewStringSchema())},
					},
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().
								WithDescription("Newline-delimited stream of trace events").
								WithContent(openapi3.NewContentWithSchemaRef(eventSchema, []string{ndjsonContentType})),
						}),
						openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().WithDescription("Invalid query parameters"),
						}),
					),
				},
				Delete: &openapi3.Operation{
					OperationID: "cancelTrace",
					Summary:     "Cancel the active trace",
					Responses: openapi3.NewResponses(
						openapi3.WithStatus(http.StatusNoContent, &openapi3.ResponseRef{
							Value: openapi3.NewResponse().WithDescription("The active trace, if any, was cancelled"),
						}),
					),
				},
			}),
		),
	}, nil
}
