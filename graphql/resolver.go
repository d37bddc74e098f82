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
	"context"

	"golang.org/x/xerrors"
)

// Resolver produces the fields of an object. The executor asks each resolver
// for its type name to decide which fragments apply and to check that it may
// appear where it was returned.
//
// ResolveField is called with the effective arguments of the field: every
// argument the field declares is present in args, with its default when it
// was omitted and nil when null was passed. Ints are passed as int, Floats as float64,
// IDs, Strings, and enums as string, lists as []interface{}, and input objects
// as map[string]interface{}.
//
// A field's result is either a plain value for scalar and enum fields, a
// Resolver (or a slice of them) for object, interface, and union fields, or
// nil for null. Errors are reported to callers of Executor.Query as a
// *ResolverError.
type Resolver interface {
	TypeName() string
	ResolveField(ctx context.Context, name string, args map[string]interface{}) (interface{}, error)
}

// ErrNoField is returned by a Resolver that does not know how to produce a
// field. The executor reports it as a *CompatibilityError.
var ErrNoField = xerrors.New("no such field")

// FieldFunc computes a field from its arguments.
type FieldFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Object is a Resolver backed by a table of attributes and functions.
type Object struct {
	typeName string
	fields   map[string]FieldFunc
}

// NewObject returns an empty Object with the given type name.
func NewObject(typeName string) *Object {
	return &Object{
		typeName: typeName,
		fields:   make(map[string]FieldFunc),
	}
}

// Attr sets a field to a fixed value and returns obj.
func (obj *Object) Attr(name string, value interface{}) *Object {
	return obj.Func(name, func(context.Context, map[string]interface{}) (interface{}, error) {
		return value, nil
	})
}

// Func sets a field to be computed by f and returns obj.
func (obj *Object) Func(name string, f FieldFunc) *Object {
	obj.fields[name] = f
	return obj
}

// TypeName returns the type name passed to NewObject.
func (obj *Object) TypeName() string {
	return obj.typeName
}

// ResolveField calls the function registered for the field.
func (obj *Object) ResolveField(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	f := obj.fields[name]
	if f == nil {
		return nil, xerrors.Errorf("%s.%s: %w", obj.typeName, name, ErrNoField)
	}
	return f(ctx, args)
}
