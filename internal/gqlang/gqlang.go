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

// Package gqlang provides a parser for the GraphQL query language.
package gqlang

import (
	"fmt"
	"strconv"
	"strings"
)

// Document is a parsed GraphQL query document.
// https://graphql.github.io/graphql-spec/June2018/#sec-Language.Document
type Document struct {
	Operations []*Operation
	// Fragments is keyed by fragment name.
	Fragments map[string]*Fragment
}

// FindOperation finds the operation with the given name. If name is empty and
// the document has exactly one operation, then that operation is returned.
// FindOperation returns nil if no such operation exists.
func (doc *Document) FindOperation(name string) *Operation {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil
		}
		return doc.Operations[0]
	}
	for _, op := range doc.Operations {
		if op.Name != nil && op.Name.Value == name {
			return op
		}
	}
	return nil
}

// Operation is a query or a mutation.
// https://graphql.github.io/graphql-spec/June2018/#sec-Language.Operations
type Operation struct {
	Start        Pos
	Type         OperationType
	Name         *Name
	Variables    []*VariableDefinition
	Directives   []*Directive
	SelectionSet *SelectionSet
}

// OperationType is either query or mutation.
type OperationType int

// Types of operation.
const (
	Query OperationType = iota
	Mutation
)

// String returns the keyword that corresponds to the operation type.
func (typ OperationType) String() string {
	switch typ {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	default:
		return fmt.Sprintf("OperationType(%d)", int(typ))
	}
}

// SelectionSet is the set of information an operation requests.
// https://graphql.github.io/graphql-spec/June2018/#SelectionSet
type SelectionSet struct {
	LBrace Pos
	Sel    []*Selection
}

// A Selection is a field, a fragment spread, or an inline fragment.
// Exactly one of its fields is set.
// https://graphql.github.io/graphql-spec/June2018/#sec-Selection-Sets
type Selection struct {
	Field          *Field
	FragmentSpread *FragmentSpread
	InlineFragment *InlineFragment
}

// Start returns the position of the selection's first token.
func (sel *Selection) Start() Pos {
	switch {
	case sel.Field != nil:
		return sel.Field.Start()
	case sel.FragmentSpread != nil:
		return sel.FragmentSpread.Ellipsis
	case sel.InlineFragment != nil:
		return sel.InlineFragment.Ellipsis
	default:
		panic("unknown selection")
	}
}

// Directives returns the directives attached to the selection.
func (sel *Selection) Directives() []*Directive {
	switch {
	case sel.Field != nil:
		return sel.Field.Directives
	case sel.FragmentSpread != nil:
		return sel.FragmentSpread.Directives
	case sel.InlineFragment != nil:
		return sel.InlineFragment.Directives
	default:
		return nil
	}
}

// A Field is a discrete piece of information available to request within a
// selection set.
// https://graphql.github.io/graphql-spec/June2018/#sec-Language.Fields
type Field struct {
	Alias        *Name
	Name         *Name
	Arguments    Arguments
	Directives   []*Directive
	SelectionSet *SelectionSet
}

// Start returns the position of the field's first token.
func (f *Field) Start() Pos {
	if f.Alias != nil {
		return f.Alias.Start
	}
	return f.Name.Start
}

// Key returns the response key of the field: its alias if present, its name
// otherwise.
func (f *Field) Key() string {
	if f.Alias != nil {
		return f.Alias.Value
	}
	return f.Name.Value
}

// FragmentSpread is a reference to a named fragment.
// https://graphql.github.io/graphql-spec/June2018/#FragmentSpread
type FragmentSpread struct {
	Ellipsis   Pos
	Name       *Name
	Directives []*Directive
}

// InlineFragment is an anonymous fragment with an optional type condition.
// https://graphql.github.io/graphql-spec/June2018/#InlineFragment
type InlineFragment struct {
	Ellipsis      Pos
	TypeCondition *Name
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// Fragment is a named, reusable selection set.
// https://graphql.github.io/graphql-spec/June2018/#FragmentDefinition
type Fragment struct {
	Keyword       Pos
	Name          *Name
	TypeCondition *Name
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// Directive annotates a selection or an operation.
// https://graphql.github.io/graphql-spec/June2018/#sec-Language.Directives
type Directive struct {
	At        Pos
	Name      *Name
	Arguments Arguments
}

// Arguments is a list of named arguments on a field or directive.
// https://graphql.github.io/graphql-spec/June2018/#sec-Language.Arguments
type Arguments []*Argument

// ByName returns the first argument with the given name or nil if not found.
func (args Arguments) ByName(name string) *Argument {
	for _, arg := range args {
		if arg.Name.Value == name {
			return arg
		}
	}
	return nil
}

// Argument is a single element in Arguments.
type Argument struct {
	Name  *Name
	Value *InputValue
}

// An InputValue is a literal or a variable reference. Exactly one of its
// fields is set.
// https://graphql.github.io/graphql-spec/June2018/#sec-Input-Values
type InputValue struct {
	Null        *Name
	Scalar      *ScalarValue
	VariableRef *Variable
	List        *ListValue
	InputObject *InputObjectValue
}

// Start returns the position of the value's first token.
func (v *InputValue) Start() Pos {
	switch {
	case v.Null != nil:
		return v.Null.Start
	case v.Scalar != nil:
		return v.Scalar.Start
	case v.VariableRef != nil:
		return v.VariableRef.Dollar
	case v.List != nil:
		return v.List.LBracket
	case v.InputObject != nil:
		return v.InputObject.LBrace
	default:
		panic("unknown input value")
	}
}

// String returns the value in GraphQL syntax.
func (v *InputValue) String() string {
	sb := new(strings.Builder)
	v.writeTo(sb)
	return sb.String()
}

func (v *InputValue) writeTo(sb *strings.Builder) {
	switch {
	case v == nil:
		sb.WriteString("<nil>")
	case v.Null != nil:
		sb.WriteString("null")
	case v.Scalar != nil:
		sb.WriteString(v.Scalar.String())
	case v.VariableRef != nil:
		sb.WriteString(v.VariableRef.String())
	case v.List != nil:
		sb.WriteByte('[')
		for i, elem := range v.List.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			elem.writeTo(sb)
		}
		sb.WriteByte(']')
	case v.InputObject != nil:
		sb.WriteByte('{')
		for i, f := range v.InputObject.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name.Value)
			sb.WriteString(": ")
			f.Value.writeTo(sb)
		}
		sb.WriteByte('}')
	}
}

// ScalarValue is a primitive literal like a string or integer.
// Value holds the decoded text: string literals are unescaped, all other
// scalars are stored as written.
type ScalarValue struct {
	Start Pos
	Type  ScalarType
	Value string
}

// String returns the scalar in GraphQL syntax.
func (sval *ScalarValue) String() string {
	if sval.Type == StringScalar {
		return strconv.Quote(sval.Value)
	}
	return sval.Value
}

// ScalarType indicates the type of a ScalarValue.
type ScalarType int

// Scalar types.
const (
	StringScalar ScalarType = iota
	BooleanScalar
	EnumScalar
	IntScalar
	FloatScalar
)

// ListValue is a bracketed list literal.
// https://graphql.github.io/graphql-spec/June2018/#ListValue
type ListValue struct {
	LBracket Pos
	Values   []*InputValue
}

// InputObjectValue is a braced input object literal. Field order is
// preserved.
// https://graphql.github.io/graphql-spec/June2018/#ObjectValue
type InputObjectValue struct {
	LBrace Pos
	Fields []*InputObjectField
}

// InputObjectField is a single field of an InputObjectValue.
type InputObjectField struct {
	Name  *Name
	Value *InputValue
}

// A Variable is an input to a GraphQL operation.
// https://graphql.github.io/graphql-spec/June2018/#Variable
type Variable struct {
	Dollar Pos
	Name   *Name
}

// String returns the variable in the form "$foo".
func (v *Variable) String() string {
	if v == nil {
		return ""
	}
	return "$" + v.Name.String()
}

// VariableDefinition declares a variable of an operation.
// https://graphql.github.io/graphql-spec/June2018/#VariableDefinition
type VariableDefinition struct {
	Var     *Variable
	Type    *TypeRef
	Default *InputValue
}

// A Name is an identifier.
// https://graphql.github.io/graphql-spec/June2018/#sec-Names
type Name struct {
	Value string
	Start Pos
}

// End returns the position of the byte after the last character of the name.
func (n *Name) End() Pos {
	return n.Start + Pos(len(n.Value))
}

// String returns the name or the empty string if the name is nil.
func (n *Name) String() string {
	if n == nil {
		return ""
	}
	return n.Value
}

// A TypeRef is a named type or a list type, either of which may be non-null.
// Exactly one of Named or List is set.
// https://graphql.github.io/graphql-spec/June2018/#Type
type TypeRef struct {
	Start   Pos
	Named   *Name
	List    *TypeRef
	NonNull bool
}

// String returns the type reference in GraphQL syntax, like "[Int!]!".
func (ref *TypeRef) String() string {
	var s string
	switch {
	case ref == nil:
		return "<nil>"
	case ref.List != nil:
		s = "[" + ref.List.String() + "]"
	default:
		s = ref.Named.String()
	}
	if ref.NonNull {
		s += "!"
	}
	return s
}
