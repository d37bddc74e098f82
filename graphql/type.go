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
	"fmt"
	"sync"

	"zombiezen.com/go/graphql-engine/internal/gqlang"
)

// Type is a GraphQL type interned in a Schema.
//
// Types can be compared for equality using ==. Types with the same name from
// different schemas are never equal, except for the built-in scalars.
type Type struct {
	scalar   string
	enum     *enumType
	obj      *objectType
	iface    *objectType
	union    *unionType
	input    *inputObjectType
	listElem *Type
	nonNull  bool

	// nullVariant is the same type with the nonNull flag flipped.
	// This is to ensure that either version of the type has a consistent address.
	nullVariant *Type

	listInit sync.Once
	listOf_  *Type
}

// TypeKind identifies the shape of a Type.
type TypeKind int

// Type kinds. Wrappers report ListKind or NonNullKind.
const (
	ScalarKind TypeKind = iota
	EnumKind
	ObjectKind
	InterfaceKind
	UnionKind
	InputObjectKind
	ListKind
	NonNullKind
)

func (k TypeKind) String() string {
	switch k {
	case ScalarKind:
		return "SCALAR"
	case EnumKind:
		return "ENUM"
	case ObjectKind:
		return "OBJECT"
	case InterfaceKind:
		return "INTERFACE"
	case UnionKind:
		return "UNION"
	case InputObjectKind:
		return "INPUT_OBJECT"
	case ListKind:
		return "LIST"
	case NonNullKind:
		return "NON_NULL"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// objectType holds the shape of an object or an interface.
type objectType struct {
	name       string
	fields     map[string]*FieldDefinition
	fieldOrder []string
	interfaces []string
}

func (obj *objectType) addField(f *FieldDefinition) {
	if obj.fields == nil {
		obj.fields = make(map[string]*FieldDefinition)
	}
	obj.fields[f.name] = f
	obj.fieldOrder = append(obj.fieldOrder, f.name)
}

type unionType struct {
	name    string
	members []string
}

type enumType struct {
	name    string
	values  map[string]struct{}
	ordered []string
}

func (enum *enumType) has(name string) bool {
	_, ok := enum.values[name]
	return ok
}

type inputObjectType struct {
	name   string
	fields []*InputValueDefinition
}

func (input *inputObjectType) field(name string) *InputValueDefinition {
	for _, f := range input.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// FieldDefinition is a field declared on an object or interface type.
type FieldDefinition struct {
	name string
	typ  *Type
	args []*InputValueDefinition
}

// Name returns the field's name.
func (f *FieldDefinition) Name() string { return f.name }

// Type returns the field's result type.
func (f *FieldDefinition) Type() *Type { return f.typ }

// Args returns the field's arguments in declaration order.
func (f *FieldDefinition) Args() []*InputValueDefinition { return f.args }

// Arg returns the argument with the given name or nil if the field has no
// such argument.
func (f *FieldDefinition) Arg(name string) *InputValueDefinition {
	return findInputValue(f.args, name)
}

// InputValueDefinition is an argument, a directive argument, or an input
// object field.
type InputValueDefinition struct {
	name string
	typ  *Type

	// defaultValue is the coerced Go form of defaultLit.
	// Both are only meaningful if hasDefault is true.
	defaultLit   *gqlang.InputValue
	defaultValue interface{}
	hasDefault   bool
}

// Name returns the input value's name.
func (ivd *InputValueDefinition) Name() string { return ivd.name }

// Type returns the input value's type.
func (ivd *InputValueDefinition) Type() *Type { return ivd.typ }

// Default returns the input value's default value, if any.
func (ivd *InputValueDefinition) Default() (_ interface{}, ok bool) {
	return ivd.defaultValue, ivd.hasDefault
}

// required reports whether a value must be supplied for an input object field
// or a variable.
func (ivd *InputValueDefinition) required() bool {
	return !ivd.typ.IsNullable() && !ivd.hasDefault
}

// requiredArgument reports whether a field or directive argument must be
// supplied. Every argument without a default is required, even a nullable one.
func (ivd *InputValueDefinition) requiredArgument() bool {
	return !ivd.hasDefault
}

func findInputValue(list []*InputValueDefinition, name string) *InputValueDefinition {
	for _, ivd := range list {
		if ivd.name == name {
			return ivd
		}
	}
	return nil
}

// Predefined types.
var (
	intType     = newScalarType("Int")
	floatType   = newScalarType("Float")
	stringType  = newScalarType("String")
	booleanType = newScalarType("Boolean")
	idType      = newScalarType("ID")
)

func builtinScalars() []*Type {
	return []*Type{booleanType, floatType, idType, intType, stringType}
}

func newScalarType(name string) *Type {
	return newNamedType(&Type{scalar: name}, &Type{scalar: name, nonNull: true})
}

func newEnumType(info *enumType) *Type {
	return newNamedType(&Type{enum: info}, &Type{enum: info, nonNull: true})
}

func newObjectType(info *objectType) *Type {
	return newNamedType(&Type{obj: info}, &Type{obj: info, nonNull: true})
}

func newInterfaceType(info *objectType) *Type {
	return newNamedType(&Type{iface: info}, &Type{iface: info, nonNull: true})
}

func newUnionType(info *unionType) *Type {
	return newNamedType(&Type{union: info}, &Type{union: info, nonNull: true})
}

func newInputObjectType(info *inputObjectType) *Type {
	return newNamedType(&Type{input: info}, &Type{input: info, nonNull: true})
}

func newNamedType(nullable, nonNullable *Type) *Type {
	nullable.nullVariant = nonNullable
	nonNullable.nullVariant = nullable
	return nullable
}

func listOf(elem *Type) *Type {
	elem.listInit.Do(func() {
		nullable := &Type{listElem: elem}
		nonNullable := &Type{listElem: elem, nonNull: true}
		nullable.nullVariant = nonNullable
		nonNullable.nullVariant = nullable
		elem.listOf_ = nullable
	})
	return elem.listOf_
}

// String returns the type reference string, like "[Int!]!".
func (typ *Type) String() string {
	if typ == nil {
		return "<nil>"
	}
	suffix := ""
	if typ.nonNull {
		suffix = "!"
	}
	if typ.isList() {
		return "[" + typ.listElem.String() + "]" + suffix
	}
	if name := typ.Name(); name != "" {
		return name + suffix
	}
	return "<invalid type>"
}

// Name returns the name of a named type or the empty string for a list.
// The name of a non-null named type is the name of its nullable variant.
func (typ *Type) Name() string {
	switch {
	case typ.scalar != "":
		return typ.scalar
	case typ.enum != nil:
		return typ.enum.name
	case typ.obj != nil:
		return typ.obj.name
	case typ.iface != nil:
		return typ.iface.name
	case typ.union != nil:
		return typ.union.name
	case typ.input != nil:
		return typ.input.name
	default:
		return ""
	}
}

// Kind returns the kind of the type. Non-null types always report
// NonNullKind.
func (typ *Type) Kind() TypeKind {
	switch {
	case typ.nonNull:
		return NonNullKind
	case typ.isList():
		return ListKind
	case typ.scalar != "":
		return ScalarKind
	case typ.enum != nil:
		return EnumKind
	case typ.obj != nil:
		return ObjectKind
	case typ.iface != nil:
		return InterfaceKind
	case typ.union != nil:
		return UnionKind
	default:
		return InputObjectKind
	}
}

// OfType returns the type a wrapper wraps: the element type of a list or the
// nullable variant of a non-null type. It returns nil for named types.
func (typ *Type) OfType() *Type {
	switch {
	case typ.nonNull:
		return typ.nullVariant
	case typ.isList():
		return typ.listElem
	default:
		return nil
	}
}

// IsNullable reports whether the type permits null.
func (typ *Type) IsNullable() bool {
	return !typ.nonNull
}

// Nullable returns the nullable variant of the type.
func (typ *Type) Nullable() *Type {
	if typ.IsNullable() {
		return typ
	}
	return typ.nullVariant
}

// NonNull returns the non-null variant of the type.
func (typ *Type) NonNull() *Type {
	if !typ.IsNullable() {
		return typ
	}
	return typ.nullVariant
}

// ListOf returns a list of the type.
func (typ *Type) ListOf() *Type {
	return listOf(typ)
}

// IsWrapper reports whether typ is a list or non-null type.
func (typ *Type) IsWrapper() bool {
	return typ.nonNull || typ.isList()
}

// IsScalar reports whether typ is one of the built-in scalars.
func (typ *Type) IsScalar() bool {
	return !typ.nonNull && typ.scalar != ""
}

// IsEnum reports whether typ is an enum.
func (typ *Type) IsEnum() bool {
	return !typ.nonNull && typ.enum != nil
}

// IsLeaf reports whether typ is a scalar or an enum.
func (typ *Type) IsLeaf() bool {
	return typ.IsScalar() || typ.IsEnum()
}

// IsSpreadable reports whether fragments may be spread into a selection on
// typ: true for objects, interfaces, and unions.
func (typ *Type) IsSpreadable() bool {
	return !typ.nonNull && (typ.obj != nil || typ.iface != nil || typ.union != nil)
}

// IsSelectable reports whether fields may be selected directly on typ: true
// for objects and interfaces.
func (typ *Type) IsSelectable() bool {
	return !typ.nonNull && (typ.obj != nil || typ.iface != nil)
}

// IsInput reports whether typ can be used as an argument or variable type.
// See https://graphql.github.io/graphql-spec/June2018/#IsInputType()
func (typ *Type) IsInput() bool {
	typ = typ.unwrap()
	return typ.scalar != "" || typ.enum != nil || typ.input != nil
}

// IsOutput reports whether typ can be used as a field's type.
// See https://graphql.github.io/graphql-spec/June2018/#IsOutputType()
func (typ *Type) IsOutput() bool {
	return typ.unwrap().input == nil
}

// Field returns the field with the given name on an object or interface type
// or nil if there is no such field.
func (typ *Type) Field(name string) *FieldDefinition {
	info := typ.selectable()
	if info == nil {
		return nil
	}
	return info.fields[name]
}

// Fields returns the fields of an object or interface type in declaration
// order. Fields inherited from interfaces come first.
func (typ *Type) Fields() []*FieldDefinition {
	info := typ.selectable()
	if info == nil {
		return nil
	}
	fields := make([]*FieldDefinition, 0, len(info.fieldOrder))
	for _, name := range info.fieldOrder {
		fields = append(fields, info.fields[name])
	}
	return fields
}

// Interfaces returns the names of the interfaces an object type implements.
func (typ *Type) Interfaces() []string {
	if typ.obj == nil {
		return nil
	}
	return append([]string(nil), typ.obj.interfaces...)
}

// Members returns the names of a union type's members.
func (typ *Type) Members() []string {
	if typ.union == nil {
		return nil
	}
	return append([]string(nil), typ.union.members...)
}

// EnumValues returns the values of an enum type in declaration order.
func (typ *Type) EnumValues() []string {
	if typ.enum == nil {
		return nil
	}
	return append([]string(nil), typ.enum.ordered...)
}

// InputFields returns the fields of an input object type in declaration order.
func (typ *Type) InputFields() []*InputValueDefinition {
	if typ.input == nil {
		return nil
	}
	return typ.input.fields
}

func (typ *Type) selectable() *objectType {
	if typ.obj != nil {
		return typ.obj
	}
	return typ.iface
}

func (typ *Type) isList() bool {
	return typ.listElem != nil
}

// unwrap strips any list and non-null wrappers and returns the nullable
// named type underneath.
func (typ *Type) unwrap() *Type {
	for {
		typ = typ.Nullable()
		if !typ.isList() {
			return typ
		}
		typ = typ.listElem
	}
}

// areTypesCompatible reports if a value variableType can be passed to a usage
// expecting locationType. See https://graphql.github.io/graphql-spec/June2018/#AreTypesCompatible()
func areTypesCompatible(locationType, variableType *Type) bool {
	for {
		switch {
		case !locationType.IsNullable():
			if variableType.IsNullable() {
				return false
			}
			locationType = locationType.Nullable()
			variableType = variableType.Nullable()
		case !variableType.IsNullable():
			variableType = variableType.Nullable()
		case locationType.isList():
			if !variableType.isList() {
				return false
			}
			locationType = locationType.listElem
			variableType = variableType.listElem
		case variableType.isList():
			return false
		default:
			return locationType == variableType
		}
	}
}
