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

// SchemaDecl is a declarative description of a schema. It is the input to
// NewSchema. Type references are written in GraphQL syntax, like "[Int!]!",
// and default values are GraphQL constant literals, like `{x: 1}`.
type SchemaDecl struct {
	// Query is the name of the query root type. It defaults to "Query".
	Query string
	// Mutation is the name of the mutation root type. If empty, a type named
	// "Mutation" is used if one is declared.
	Mutation string

	Types      []TypeDecl
	Directives []*DirectiveDecl
}

// TypeDecl is one of *ObjectDecl, *InterfaceDecl, *UnionDecl, *EnumDecl, or
// *InputObjectDecl.
type TypeDecl interface {
	typeName() string
}

// ObjectDecl declares an object type.
type ObjectDecl struct {
	Name       string
	Interfaces []string
	Fields     []*FieldDecl
}

// InterfaceDecl declares an interface type.
type InterfaceDecl struct {
	Name   string
	Fields []*FieldDecl
}

// UnionDecl declares a union of object types.
type UnionDecl struct {
	Name    string
	Members []string
}

// EnumDecl declares an enum type.
type EnumDecl struct {
	Name   string
	Values []string
}

// InputObjectDecl declares an input object type.
type InputObjectDecl struct {
	Name   string
	Fields []*InputValueDecl
}

func (decl *ObjectDecl) typeName() string      { return decl.Name }
func (decl *InterfaceDecl) typeName() string   { return decl.Name }
func (decl *UnionDecl) typeName() string       { return decl.Name }
func (decl *EnumDecl) typeName() string        { return decl.Name }
func (decl *InputObjectDecl) typeName() string { return decl.Name }

// FieldDecl declares a field of an object or interface.
type FieldDecl struct {
	Name string
	Type string
	Args []*InputValueDecl
}

// InputValueDecl declares an argument or an input object field. An empty
// Default means the value has no default.
type InputValueDecl struct {
	Name    string
	Type    string
	Default string
}

// DirectiveDecl declares a directive that queries may use.
type DirectiveDecl struct {
	Name string
	Args []*InputValueDecl
}
