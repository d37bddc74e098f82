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

/*
Package graphql provides a GraphQL execution engine. A Schema is built from
declarations (or schema definition language), and an Executor runs query
documents against it by asking Resolvers for field values. This package
follows the specification laid out at https://graphql.github.io/graphql-spec/June2018/
with the exceptions noted below.

Resolvers

A Resolver names its GraphQL type and produces fields on demand. Object
builds one from a table of values and functions, Reflect wraps a Go struct,
and DataResolver serves a decoded JSON or YAML tree. Resolvers of interface
and union fields pick their concrete type by returning its name from
TypeName; fragments apply when that name is one of the possible types of the
fragment's type condition.

Field methods used with Reflect must have the following signature (with square
brackets indicating optional elements):

	func (foo *Foo) Bar([ctx context.Context,] [args map[string]interface{}]) (ResultType[, error])

Input coercion

Int accepts only integer literals in the 32-bit range and Float accepts only
literals with a fraction or exponent. Lists must be written as lists: a single
value is not coerced into a one-element list. An ID may be written as a string
or an integer and is always passed to resolvers as a string.

Errors

Query returns the first error it encounters and no partial data. Each stage
has its own error type: *ParseError, *ValidationError, *ResolverError, and
*CompatibilityError. Schema construction returns *SchemaError.

Introspection, subscriptions, and custom scalars are not supported.
*/
package graphql
