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

package graphql

import (
	"reflect"
	"strconv"
)

// Nullable is implemented by Go values that may stand for null, like the
// Null types in this package. Resolvers may return a Nullable from a scalar
// field and callers may pass one as a variable.
type Nullable interface {
	// IsGraphQLNull reports whether the receiver should be represented in
	// GraphQL as null.
	IsGraphQLNull() bool

	// GraphQLValue returns the non-null value. It is only called if
	// IsGraphQLNull returns false.
	GraphQLValue() interface{}
}

// resolveNullable replaces a Nullable with nil or its value.
func resolveNullable(x interface{}) interface{} {
	n, ok := x.(Nullable)
	if !ok {
		return x
	}
	if n.IsGraphQLNull() {
		return nil
	}
	return n.GraphQLValue()
}

// unwrapValue strips pointers and interfaces from v and replaces a Nullable
// with nil or its value. A nil slice is null.
func unwrapValue(v reflect.Value) reflect.Value {
	v = unwrapPointer(v)
	if v.IsValid() && v.CanInterface() {
		if _, ok := v.Interface().(Nullable); ok {
			v = unwrapPointer(reflect.ValueOf(resolveNullable(v.Interface())))
		}
	}
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.Value{}
	}
	return v
}

// NullInt represents an Int that may be null. The zero value is null.
type NullInt struct {
	Int   int32
	Valid bool
}

// IsGraphQLNull returns !n.Valid.
func (n NullInt) IsGraphQLNull() bool { return !n.Valid }

// GraphQLValue returns n.Int.
func (n NullInt) GraphQLValue() interface{} { return n.Int }

// String returns the decimal representation or "null".
func (n NullInt) String() string {
	if !n.Valid {
		return "null"
	}
	return strconv.FormatInt(int64(n.Int), 10)
}

// NullFloat represents a Float that may be null. The zero value is null.
type NullFloat struct {
	Float float64
	Valid bool
}

// IsGraphQLNull returns !n.Valid.
func (n NullFloat) IsGraphQLNull() bool { return !n.Valid }

// GraphQLValue returns n.Float.
func (n NullFloat) GraphQLValue() interface{} { return n.Float }

// String returns the decimal representation or "null".
func (n NullFloat) String() string {
	if !n.Valid {
		return "null"
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// NullString represents a String that may be null. The zero value is null.
type NullString struct {
	S     string
	Valid bool
}

// IsGraphQLNull returns !n.Valid.
func (n NullString) IsGraphQLNull() bool { return !n.Valid }

// GraphQLValue returns n.S.
func (n NullString) GraphQLValue() interface{} { return n.S }

// String returns n.S or "null".
func (n NullString) String() string {
	if !n.Valid {
		return "null"
	}
	return n.S
}

// NullBoolean represents a Boolean that may be null. The zero value is null.
type NullBoolean struct {
	Bool  bool
	Valid bool
}

// IsGraphQLNull returns !n.Valid.
func (n NullBoolean) IsGraphQLNull() bool { return !n.Valid }

// GraphQLValue returns n.Bool.
func (n NullBoolean) GraphQLValue() interface{} { return n.Bool }

// String returns "true", "false", or "null".
func (n NullBoolean) String() string {
	if !n.Valid {
		return "null"
	}
	return strconv.FormatBool(n.Bool)
}
