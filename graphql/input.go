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
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"zombiezen.com/go/graphql-engine/internal/gqlang"
)

// IsAssignable reports whether the Go value v may be used as a value of typ.
// nil is assignable to any nullable type. Lists must be slices or arrays and
// input objects must be maps with string keys. Int accepts Go integers in the
// 32-bit range, Float accepts only Go floating-point values, and ID accepts
// strings or integers.
//
// IsAssignable panics if typ is or wraps an object, interface, or union type:
// those are checked against resolvers, not plain values.
func IsAssignable(v interface{}, typ *Type) bool {
	if typ.unwrap().IsSpreadable() {
		panic(fmt.Sprintf("graphql: IsAssignable called with composite type %v", typ))
	}
	return isAssignable(reflect.ValueOf(v), typ)
}

func isAssignable(v reflect.Value, typ *Type) bool {
	v = unwrapValue(v)
	if !v.IsValid() {
		return typ.IsNullable()
	}
	typ = typ.Nullable()
	switch typ.Kind() {
	case ListKind:
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if !isAssignable(v.Index(i), typ.listElem) {
				return false
			}
		}
		return true
	case ScalarKind:
		switch typ {
		case intType:
			_, ok := int32FromGo(v)
			return ok
		case floatType:
			return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
		case stringType:
			return v.Kind() == reflect.String
		case booleanType:
			return v.Kind() == reflect.Bool
		case idType:
			return v.Kind() == reflect.String || isIntKind(v.Kind())
		default:
			return false
		}
	case EnumKind:
		return v.Kind() == reflect.String && typ.enum.has(v.String())
	case InputObjectKind:
		if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
			return false
		}
		iter := v.MapRange()
		for iter.Next() {
			if typ.input.field(iter.Key().String()) == nil {
				return false
			}
		}
		for _, f := range typ.input.fields {
			elem := v.MapIndex(reflect.ValueOf(f.name).Convert(v.Type().Key()))
			if !elem.IsValid() {
				if f.required() {
					return false
				}
				continue
			}
			if !isAssignable(elem, f.typ) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// int32FromGo returns the value of a Go integer if it fits in a GraphQL Int.
func int32FromGo(v reflect.Value) (int32, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < math.MinInt32 || i > math.MaxInt32 {
			return 0, false
		}
		return int32(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt32 {
			return 0, false
		}
		return int32(u), true
	default:
		return 0, false
	}
}

// validateInput reports whether the literal lit is valid for typ. Variable
// references are checked against varTypes, the declared types of the
// operation's variables, rather than their values. vars is only consulted to
// allow a nullable variable with a value in a non-null position.
func validateInput(lit *gqlang.InputValue, vars map[string]interface{}, varTypes map[string]*Type, typ *Type) bool {
	if lit.VariableRef != nil {
		name := lit.VariableRef.Name.Value
		varType := varTypes[name]
		if varType == nil {
			return false
		}
		if areTypesCompatible(typ, varType) {
			return true
		}
		return !typ.IsNullable() && areTypesCompatible(typ.Nullable(), varType) && vars[name] != nil
	}
	if lit.Null != nil {
		return typ.IsNullable()
	}
	typ = typ.Nullable()
	switch typ.Kind() {
	case ListKind:
		if lit.List == nil {
			return false
		}
		for _, elem := range lit.List.Values {
			if !validateInput(elem, vars, varTypes, typ.listElem) {
				return false
			}
		}
		return true
	case ScalarKind:
		s := lit.Scalar
		if s == nil {
			return false
		}
		switch typ {
		case intType:
			if s.Type != gqlang.IntScalar {
				return false
			}
			_, err := strconv.ParseInt(s.Value, 10, 32)
			return err == nil
		case floatType:
			return s.Type == gqlang.FloatScalar
		case stringType:
			return s.Type == gqlang.StringScalar
		case booleanType:
			return s.Type == gqlang.BooleanScalar
		case idType:
			return s.Type == gqlang.StringScalar || s.Type == gqlang.IntScalar
		default:
			return false
		}
	case EnumKind:
		return lit.Scalar != nil && lit.Scalar.Type == gqlang.EnumScalar && typ.enum.has(lit.Scalar.Value)
	case InputObjectKind:
		if lit.InputObject == nil {
			return false
		}
		seen := make(map[string]bool)
		for _, f := range lit.InputObject.Fields {
			def := typ.input.field(f.Name.Value)
			if def == nil || seen[def.name] {
				return false
			}
			seen[def.name] = true
			if !validateInput(f.Value, vars, varTypes, def.typ) {
				return false
			}
		}
		for _, def := range typ.input.fields {
			if !seen[def.name] && def.required() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// coerceLiteral converts a literal that passed validateInput into its Go
// form: nil, bool, int, float64, string, []interface{}, or
// map[string]interface{}. Variable references are replaced with their bound
// values.
func coerceLiteral(lit *gqlang.InputValue, vars map[string]interface{}, typ *Type) interface{} {
	switch {
	case lit.VariableRef != nil:
		return vars[lit.VariableRef.Name.Value]
	case lit.Null != nil:
		return nil
	}
	typ = typ.Nullable()
	switch typ.Kind() {
	case ListKind:
		list := make([]interface{}, 0, len(lit.List.Values))
		for _, elem := range lit.List.Values {
			list = append(list, coerceLiteral(elem, vars, typ.listElem))
		}
		return list
	case InputObjectKind:
		m := make(map[string]interface{})
		for _, f := range lit.InputObject.Fields {
			def := typ.input.field(f.Name.Value)
			if ref := f.Value.VariableRef; ref != nil {
				// An unbound variable leaves the field absent.
				if v, bound := vars[ref.Name.Value]; bound {
					m[def.name] = v
				}
				continue
			}
			m[def.name] = coerceLiteral(f.Value, vars, def.typ)
		}
		fillInputDefaults(m, typ)
		return m
	default:
		return scalarFromLiteral(lit.Scalar, typ)
	}
}

func scalarFromLiteral(s *gqlang.ScalarValue, typ *Type) interface{} {
	switch typ {
	case intType:
		i, _ := strconv.ParseInt(s.Value, 10, 32)
		return int(i)
	case floatType:
		f, _ := strconv.ParseFloat(s.Value, 64)
		return f
	case booleanType:
		return s.Value == "true"
	default:
		// String, ID, and enums.
		return s.Value
	}
}

func fillInputDefaults(m map[string]interface{}, typ *Type) {
	for _, def := range typ.input.fields {
		if _, present := m[def.name]; !present && def.hasDefault {
			m[def.name] = coerceLiteral(def.defaultLit, nil, def.typ)
		}
	}
}

// coerceGo converts a Go value that passed isAssignable into the same forms
// that coerceLiteral produces.
func coerceGo(v reflect.Value, typ *Type) interface{} {
	v = unwrapValue(v)
	if !v.IsValid() {
		return nil
	}
	typ = typ.Nullable()
	switch typ.Kind() {
	case ListKind:
		list := make([]interface{}, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			list = append(list, coerceGo(v.Index(i), typ.listElem))
		}
		return list
	case InputObjectKind:
		m := make(map[string]interface{})
		iter := v.MapRange()
		for iter.Next() {
			name := iter.Key().String()
			m[name] = coerceGo(iter.Value(), typ.input.field(name).typ)
		}
		fillInputDefaults(m, typ)
		return m
	case EnumKind:
		return v.String()
	}
	switch typ {
	case intType:
		i, _ := int32FromGo(v)
		return int(i)
	case floatType:
		return v.Float()
	case booleanType:
		return v.Bool()
	case idType:
		return idFromGo(v)
	default:
		return v.String()
	}
}

// idFromGo formats an ID as a string. Integer IDs use their decimal form.
func idFromGo(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return v.String()
	}
}

// normalizeInput converts values decoded from JSON with json.Decoder.UseNumber
// into Go numbers: integers become int64 and anything else becomes float64.
// Nullable values are replaced with nil or their value.
func normalizeInput(v interface{}) interface{} {
	switch v := resolveNullable(v).(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case []interface{}:
		list := make([]interface{}, len(v))
		for i, elem := range v {
			list[i] = normalizeInput(elem)
		}
		return list
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, elem := range v {
			m[k] = normalizeInput(elem)
		}
		return m
	default:
		return v
	}
}

// bindVariables resolves the operation's variable definitions and binds the
// caller's values to them. Declared defaults fill in missing values. A
// missing variable of non-null type without a default is an error. Unbound
// nullable variables are left out of the returned map.
func bindVariables(source string, schema *Schema, op *gqlang.Operation, values map[string]interface{}) (bound map[string]interface{}, types map[string]*Type, err error) {
	bound = make(map[string]interface{})
	types = make(map[string]*Type)
	for _, def := range op.Variables {
		name := def.Var.Name.Value
		fail := func(format string, args ...interface{}) error {
			return &ValidationError{
				Message:   fmt.Sprintf("variable $%s: ", name) + fmt.Sprintf(format, args...),
				Locations: []Location{astPositionToLocation(def.Var.Dollar.ToPosition(source))},
			}
		}
		if types[name] != nil {
			return nil, nil, fail("declared more than once")
		}
		typ := schema.resolveTypeRef(def.Type)
		if typ == nil {
			return nil, nil, fail("undefined type %v", def.Type)
		}
		if !typ.IsInput() {
			return nil, nil, fail("%v is not an input type", typ)
		}
		types[name] = typ
		if def.Default != nil && !validateInput(def.Default, nil, nil, typ) {
			return nil, nil, fail("default value %v is not assignable to type %v", def.Default, typ)
		}
		v, ok := values[name]
		switch {
		case ok:
			v = normalizeInput(v)
			if !isAssignable(reflect.ValueOf(v), typ) {
				return nil, nil, fail("value %v is not assignable to type %v", v, typ)
			}
			bound[name] = coerceGo(reflect.ValueOf(v), typ)
		case def.Default != nil:
			bound[name] = coerceLiteral(def.Default, nil, typ)
		case !typ.IsNullable():
			return nil, nil, fail("required variable of type %v was not provided", typ)
		}
	}
	return bound, types, nil
}

// argumentValues computes the effective arguments of a field or directive.
// Every declared argument appears in the result: omitted arguments take their
// default or nil.
func argumentValues(defs []*InputValueDefinition, args gqlang.Arguments, vars map[string]interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(defs))
	for _, def := range defs {
		arg := args.ByName(def.name)
		switch {
		case arg != nil && arg.Value.VariableRef == nil:
			m[def.name] = coerceLiteral(arg.Value, vars, def.typ)
		case arg != nil:
			if v, bound := vars[arg.Value.VariableRef.Name.Value]; bound {
				m[def.name] = v
				continue
			}
			fallthrough
		default:
			m[def.name] = def.defaultValue
		}
	}
	return m
}
