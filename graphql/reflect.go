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
	"reflect"

	"golang.org/x/xerrors"
)

// TypeNamer is implemented by Go values that choose their own GraphQL type
// name when served through Reflect.
type TypeNamer interface {
	GraphQLTypeName() string
}

// Reflect returns a Resolver that serves fields from a Go value.
//
// A field is read from the exported struct field with the same name as the
// GraphQL field, with the first letter capitalized, as long as the GraphQL
// field takes no arguments. Otherwise, a method with that name is called. The
// method may take an optional context.Context followed by an optional
// map[string]interface{} of arguments, and may return an error as its second
// result.
//
// Struct results (and pointers to structs) are wrapped with Reflect so nested
// objects need no extra code. Results that already implement Resolver are
// returned as-is.
//
// The type name is the Go type's name unless the value implements TypeNamer.
func Reflect(v interface{}) Resolver {
	if r, ok := v.(Resolver); ok {
		return r
	}
	return &reflectResolver{v: reflect.ValueOf(v)}
}

type reflectResolver struct {
	v reflect.Value
}

func (rr *reflectResolver) TypeName() string {
	if tn, ok := interfaceValueForAssertions(rr.v).(TypeNamer); ok {
		return tn.GraphQLTypeName()
	}
	v := unwrapPointer(rr.v)
	if !v.IsValid() {
		return ""
	}
	return v.Type().Name()
}

func (rr *reflectResolver) ResolveField(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	goValue := unwrapPointer(rr.v)
	if len(args) == 0 && goValue.Kind() == reflect.Struct {
		if sf, ok := goValue.Type().FieldByName(graphQLToGoFieldName(name)); ok && sf.PkgPath == "" {
			return reflectResult(goValue.FieldByIndex(sf.Index)), nil
		}
	}
	method := findFieldMethod(rr.v, name)
	if !method.IsValid() {
		return nil, xerrors.Errorf("%v has no field or method for %q: %w", rr.v.Type(), name, ErrNoField)
	}
	out, err := callFieldMethod(ctx, method, args)
	if err != nil {
		return nil, err
	}
	return reflectResult(out), nil
}

// reflectResult converts a Go result into what the executor expects: structs
// become resolvers and slices of structs become slices of resolvers.
func reflectResult(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
	}
	if v.CanInterface() {
		if r, ok := v.Interface().(Resolver); ok {
			return r
		}
	}
	inner := unwrapPointer(v)
	switch inner.Kind() {
	case reflect.Struct:
		return &reflectResolver{v: v}
	case reflect.Slice, reflect.Array:
		if inner.Kind() == reflect.Slice && inner.IsNil() {
			return nil
		}
		if !needsWrapping(inner.Type().Elem()) {
			return inner.Interface()
		}
		list := make([]interface{}, inner.Len())
		for i := range list {
			list[i] = reflectResult(inner.Index(i))
		}
		return list
	default:
		return v.Interface()
	}
}

// needsWrapping reports whether values of type t may need to be converted by
// reflectResult.
func needsWrapping(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Interface, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

func findFieldMethod(v reflect.Value, name string) reflect.Value {
	v = unwrapPointer(v)
	if !v.IsValid() {
		return reflect.Value{}
	}
	if v.Kind() != reflect.Interface && v.CanAddr() {
		v = v.Addr()
	}
	return v.MethodByName(graphQLToGoFieldName(name))
}

var (
	contextGoType = reflect.TypeOf(new(context.Context)).Elem()
	argsGoType    = reflect.TypeOf(new(map[string]interface{})).Elem()
	errorGoType   = reflect.TypeOf(new(error)).Elem()
)

func callFieldMethod(ctx context.Context, method reflect.Value, args map[string]interface{}) (reflect.Value, error) {
	mtype := method.Type()
	numIn := mtype.NumIn()
	var callArgs []reflect.Value
	if len(callArgs) < numIn && mtype.In(len(callArgs)) == contextGoType {
		callArgs = append(callArgs, reflect.ValueOf(ctx))
	}
	if len(callArgs) < numIn && mtype.In(len(callArgs)) == argsGoType {
		callArgs = append(callArgs, reflect.ValueOf(args))
	}
	if len(callArgs) != numIn {
		return reflect.Value{}, xerrors.Errorf("method %v: wrong parameter signature", mtype)
	}

	switch mtype.NumOut() {
	case 1:
		if mtype.Out(0) == errorGoType {
			return reflect.Value{}, xerrors.Errorf("method %v: return type must not be error", mtype)
		}
		out := method.Call(callArgs)
		return out[0], nil
	case 2:
		if mtype.Out(0) == errorGoType {
			return reflect.Value{}, xerrors.Errorf("method %v: first return type must not be error", mtype)
		}
		if got := mtype.Out(1); got != errorGoType {
			return reflect.Value{}, xerrors.Errorf("method %v: second return type must be error (found %v)", mtype, got)
		}
		out := method.Call(callArgs)
		if !out[1].IsNil() {
			return reflect.Value{}, out[1].Interface().(error)
		}
		return out[0], nil
	default:
		return reflect.Value{}, xerrors.Errorf("method %v: wrong return signature", mtype)
	}
}

func unwrapPointer(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// interfaceValueForAssertions returns the value's innermost pointer or v itself
// if v does not represent a pointer.
func interfaceValueForAssertions(v reflect.Value) interface{} {
	v = unwrapPointer(v)
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface || !v.CanAddr() {
		return v.Interface()
	}
	return v.Addr().Interface()
}

func graphQLToGoFieldName(name string) string {
	if c := name[0]; 'a' <= c && c <= 'z' {
		return string(c-'a'+'A') + name[1:]
	}
	return name
}
