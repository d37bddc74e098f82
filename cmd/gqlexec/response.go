// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-engine/graphql"
)

// response is the conventional GraphQL response envelope.
// https://graphql.github.io/graphql-spec/June2018/#sec-Response-Format
type response struct {
	Data   *graphql.Value   `json:"data,omitempty"`
	Errors []*responseError `json:"errors,omitempty"`
}

type responseError struct {
	Message    string                 `json:"message"`
	Locations  []graphql.Location     `json:"locations,omitempty"`
	Path       []graphql.PathSegment  `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// newResponse builds the envelope for the result of a query. The engine stops
// at the first error, so a failed query never carries data.
func newResponse(result graphql.Value, err error) *response {
	if err == nil {
		return &response{Data: &result}
	}
	return &response{Errors: []*responseError{toResponseError(err)}}
}

func toResponseError(err error) *responseError {
	var (
		parseErr      *graphql.ParseError
		validationErr *graphql.ValidationError
		resolverErr   *graphql.ResolverError
		compatErr     *graphql.CompatibilityError
	)
	switch {
	case xerrors.As(err, &parseErr):
		return &responseError{
			Message:    parseErr.Message,
			Locations:  []graphql.Location{{Line: parseErr.Line, Column: parseErr.Column}},
			Extensions: errorKind("PARSE"),
		}
	case xerrors.As(err, &validationErr):
		return &responseError{
			Message:    validationErr.Message,
			Locations:  validationErr.Locations,
			Extensions: errorKind("VALIDATION"),
		}
	case xerrors.As(err, &resolverErr):
		// The cause was logged by the executor. Clients only see the path.
		return &responseError{
			Message:    "internal error",
			Path:       resolverErr.Path,
			Extensions: errorKind("RESOLVER"),
		}
	case xerrors.As(err, &compatErr):
		return &responseError{
			Message:    compatErr.Message,
			Path:       compatErr.Path,
			Extensions: errorKind("COMPATIBILITY"),
		}
	default:
		return &responseError{Message: err.Error()}
	}
}

func errorKind(kind string) map[string]interface{} {
	return map[string]interface{}{"kind": kind}
}
