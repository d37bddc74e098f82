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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
)

func TestParseSchema(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{
			name:    "Empty",
			source:  "",
			wantErr: true,
		},
		{
			name:    "EmptyQuery",
			source:  "type Query {}",
			wantErr: true,
		},
		{
			name:    "SingleStringField",
			source:  "type Query { foo: String }",
			wantErr: false,
		},
		{
			name:    "CustomScalar",
			source:  "type Query { foo: Bar }\nscalar Bar",
			wantErr: true,
		},
		{
			name:    "DuplicateTypeName",
			source:  "type Query { foo: String }\nenum Bar { A B }\nenum Bar { C D }",
			wantErr: true,
		},
		{
			name:    "UnknownType",
			source:  "type Query { foo: Bar }",
			wantErr: true,
		},
		{
			name:    "OperationsNotAllowed",
			source:  "type Query { foo: String }\nquery { foo }",
			wantErr: true,
		},
		{
			name:    "ReservedFieldName",
			source:  "type Query { __foo: String }",
			wantErr: true,
		},
		{
			name:    "ReservedTypeName",
			source:  "type Query { foo: String }\nenum __Foo { A B }\n",
			wantErr: true,
		},
		{
			name:    "EnumQuery",
			source:  "enum Query { A B }",
			wantErr: true,
		},
		{
			name:    "BuiltinConflict",
			source:  "type Query { foo: String }\nenum String { A B }",
			wantErr: true,
		},
		{
			name:    "DuplicateFieldName",
			source:  "type Query { foo: String, foo: String }",
			wantErr: true,
		},
		{
			name:    "Arguments",
			source:  "type Query { foo(bar: Boolean!): String }",
			wantErr: false,
		},
		{
			name:    "Arguments/UnknownType",
			source:  "type Query { foo(bar: Bar): String }",
			wantErr: true,
		},
		{
			name:    "Arguments/DuplicateNames",
			source:  "type Query { foo(bar: Boolean!, bar: Boolean!): String }",
			wantErr: true,
		},
		{
			name:    "Arguments/ReservedName",
			source:  "type Query { foo(__bar: Boolean!): String }",
			wantErr: true,
		},
		{
			name:    "Arguments/OutputType",
			source:  "type Query { foo(bar: Bar): String }\ntype Bar { xyzzy: Boolean! }",
			wantErr: true,
		},
		{
			name:    "Arguments/DefaultValue",
			source:  "type Query { foo(bar: Boolean! = true): String }",
			wantErr: false,
		},
		{
			name:    "Arguments/DefaultValue/InvalidType",
			source:  "type Query { foo(bar: Boolean! = 123): String }",
			wantErr: true,
		},
		{
			name:    "Arguments/DefaultValue/NullForNullable",
			source:  "type Query { foo(bar: Boolean = null): String }",
			wantErr: false,
		},
		{
			name:    "Arguments/DefaultValue/NullForNonNullable",
			source:  "type Query { foo(bar: Boolean! = null): String }",
			wantErr: true,
		},
		{
			name: "Arguments/DefaultValue/InputObject",
			source: "type Query { foo(p: Point = {x: 1}): String }\n" +
				"input Point { x: Int!, y: Int = 0 }",
			wantErr: false,
		},
		{
			name: "Arguments/DefaultValue/InputObjectMissingField",
			source: "type Query { foo(p: Point = {y: 1}): String }\n" +
				"input Point { x: Int!, y: Int = 0 }",
			wantErr: true,
		},
		{
			name: "InterfaceFieldsRepeated",
			source: "type Query { pet: Pet }\n" +
				"interface Pet { name: String }\n" +
				"type Dog implements Pet { name: String, barks: Boolean }",
			wantErr: false,
		},
		{
			name: "InterfaceFieldChangedType",
			source: "type Query { pet: Pet }\n" +
				"interface Pet { name: String }\n" +
				"type Dog implements Pet { name: Int }",
			wantErr: true,
		},
		{
			name:    "SchemaDefinition",
			source:  "schema { query: Root }\ntype Root { foo: String }",
			wantErr: false,
		},
		{
			name:    "Subscription",
			source:  "schema { query: Query, subscription: Query }\ntype Query { foo: String }",
			wantErr: true,
		},
		{
			name:    "Extension",
			source:  "type Query { foo: String }\nextend type Query { bar: String }",
			wantErr: true,
		},
		{
			name:    "MutationNotObject",
			source:  "type Query { foo: String }\nenum Mutation { A B }",
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseSchema(test.source)
			if err != nil {
				t.Logf("Error: %v", err)
				if !test.wantErr {
					t.Fail()
				}
				var schemaErr *SchemaError
				if !xerrors.As(err, &schemaErr) {
					t.Errorf("ParseSchema returned %T; want *SchemaError", err)
				}
			} else if test.wantErr {
				t.Error("ParseSchema did not return error")
			}
		})
	}
}

func TestNewSchemaErrors(t *testing.T) {
	query := &ObjectDecl{
		Name:   "Query",
		Fields: []*FieldDecl{{Name: "foo", Type: "String"}},
	}
	tests := []struct {
		name    string
		decl    *SchemaDecl
		wantMsg string
	}{
		{
			name: "EnumTooFewValues",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&EnumDecl{Name: "Color", Values: []string{"RED"}},
			}},
			wantMsg: "enum Color must have at least two values",
		},
		{
			name: "EnumDuplicateValue",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&EnumDecl{Name: "Color", Values: []string{"RED", "RED"}},
			}},
			wantMsg: `multiple values with name "RED"`,
		},
		{
			name: "UnionTooFewMembers",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&UnionDecl{Name: "U", Members: []string{"Query"}},
			}},
			wantMsg: "union U must have at least two members",
		},
		{
			name: "UnionMemberNotObject",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&EnumDecl{Name: "Color", Values: []string{"RED", "BLUE"}},
				&UnionDecl{Name: "U", Members: []string{"Query", "Color"}},
			}},
			wantMsg: "member Color is not an object type",
		},
		{
			name: "InputObjectWithoutFields",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&InputObjectDecl{Name: "In"},
			}},
			wantMsg: "input In must have at least one field",
		},
		{
			name: "ObjectWithoutFields",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&ObjectDecl{Name: "Empty"},
			}},
			wantMsg: "object Empty must have at least one field",
		},
		{
			name: "ImplementsNonInterface",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&ObjectDecl{Name: "Dog", Interfaces: []string{"Query"}},
			}},
			wantMsg: "Query is not an interface",
		},
		{
			name: "RedeclaredInterfaceField",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&InterfaceDecl{Name: "Named", Fields: []*FieldDecl{{Name: "name", Type: "String"}}},
				&ObjectDecl{
					Name:       "Dog",
					Interfaces: []string{"Named"},
					Fields:     []*FieldDecl{{Name: "name", Type: "String"}},
				},
			}},
			wantMsg: "field name redeclares a field of interface Named",
		},
		{
			name: "InterfacesShareField",
			decl: &SchemaDecl{Types: []TypeDecl{
				query,
				&InterfaceDecl{Name: "Named", Fields: []*FieldDecl{{Name: "name", Type: "String"}}},
				&InterfaceDecl{Name: "Titled", Fields: []*FieldDecl{{Name: "name", Type: "String"}}},
				&ObjectDecl{Name: "Book", Interfaces: []string{"Named", "Titled"}},
			}},
			wantMsg: "interfaces Named and Titled both declare field name",
		},
		{
			name: "FieldOfInputType",
			decl: &SchemaDecl{Types: []TypeDecl{
				&ObjectDecl{Name: "Query", Fields: []*FieldDecl{{Name: "in", Type: "In"}}},
				&InputObjectDecl{Name: "In", Fields: []*InputValueDecl{{Name: "x", Type: "Int"}}},
			}},
			wantMsg: "In is not an output type",
		},
		{
			name: "MalformedTypeReference",
			decl: &SchemaDecl{Types: []TypeDecl{
				&ObjectDecl{Name: "Query", Fields: []*FieldDecl{{Name: "foo", Type: "[String"}}},
			}},
			wantMsg: "parse type",
		},
		{
			name:    "MissingQuery",
			decl:    &SchemaDecl{Query: "Root", Types: []TypeDecl{query}},
			wantMsg: "could not find query type Root",
		},
		{
			name: "RedeclaredBuiltinDirective",
			decl: &SchemaDecl{
				Types:      []TypeDecl{query},
				Directives: []*DirectiveDecl{{Name: "skip"}},
			},
			wantMsg: `multiple directives with name "skip"`,
		},
		{
			name: "DirectiveDefaultInvalid",
			decl: &SchemaDecl{
				Types: []TypeDecl{query},
				Directives: []*DirectiveDecl{{
					Name: "cached",
					Args: []*InputValueDecl{{Name: "ttl", Type: "Int", Default: `"soon"`}},
				}},
			},
			wantMsg: `ttl: default value "soon" is not assignable to type Int`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewSchema(test.decl)
			if err == nil {
				t.Fatalf("NewSchema did not return an error; want %q", test.wantMsg)
			}
			if !strings.Contains(err.Error(), test.wantMsg) {
				t.Errorf("NewSchema error = %q; want to contain %q", err, test.wantMsg)
			}
		})
	}
}

func TestSchemaRegistry(t *testing.T) {
	schema, err := NewSchema(&SchemaDecl{
		Types: []TypeDecl{
			&ObjectDecl{Name: "Query", Fields: []*FieldDecl{
				{Name: "pets", Type: "[Pet!]!"},
				{Name: "search", Type: "SearchResult", Args: []*InputValueDecl{
					{Name: "text", Type: "String!"},
					{Name: "limit", Type: "Int", Default: "10"},
				}},
			}},
			&InterfaceDecl{Name: "Pet", Fields: []*FieldDecl{{Name: "name", Type: "String!"}}},
			&ObjectDecl{Name: "Dog", Interfaces: []string{"Pet"}, Fields: []*FieldDecl{{Name: "barks", Type: "Boolean"}}},
			&ObjectDecl{Name: "Cat", Interfaces: []string{"Pet"}, Fields: []*FieldDecl{{Name: "meows", Type: "Boolean"}}},
			&UnionDecl{Name: "SearchResult", Members: []string{"Dog", "Cat"}},
			&EnumDecl{Name: "Size", Values: []string{"SMALL", "LARGE"}},
		},
		Directives: []*DirectiveDecl{{
			Name: "cached",
			Args: []*InputValueDecl{{Name: "ttl", Type: "Int", Default: "60"}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Resolve", func(t *testing.T) {
		dog, err := schema.Resolve("Dog")
		if err != nil {
			t.Fatal(err)
		}
		if got := dog.Kind(); got != ObjectKind {
			t.Errorf("Dog.Kind() = %v; want %v", got, ObjectKind)
		}
		if _, err := schema.Resolve("Hamster"); err == nil {
			t.Error("Resolve(\"Hamster\") did not return an error")
		}
		intType, err := schema.Resolve("Int")
		if err != nil {
			t.Fatal(err)
		}
		if !intType.IsScalar() || !intType.IsInput() || !intType.IsOutput() {
			t.Errorf("Int: IsScalar=%t IsInput=%t IsOutput=%t; want all true", intType.IsScalar(), intType.IsInput(), intType.IsOutput())
		}
	})
	t.Run("InheritedFields", func(t *testing.T) {
		dog, _ := schema.Resolve("Dog")
		var got []string
		for _, f := range dog.Fields() {
			got = append(got, f.Name()+": "+f.Type().String())
		}
		want := []string{"name: String!", "barks: Boolean"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Dog fields (-want +got):\n%s", diff)
		}
		if dog.Field("name") != schema.mustResolve(t, "Pet").Field("name") {
			t.Error("Dog.name is not the same definition as Pet.name")
		}
	})
	t.Run("ResolveAndUnwrap", func(t *testing.T) {
		pets := schema.QueryType().Field("pets").Type()
		if got, want := pets.String(), "[Pet!]!"; got != want {
			t.Errorf("pets type = %q; want %q", got, want)
		}
		if !pets.IsWrapper() || pets.IsSpreadable() {
			t.Errorf("[Pet!]!: IsWrapper=%t IsSpreadable=%t; want true, false", pets.IsWrapper(), pets.IsSpreadable())
		}
		got := schema.ResolveAndUnwrap(pets)
		if want := schema.mustResolve(t, "Pet"); got != want {
			t.Errorf("ResolveAndUnwrap(%v) = %v; want %v", pets, got, want)
		}
		if !got.IsSpreadable() || !got.IsSelectable() {
			t.Errorf("Pet: IsSpreadable=%t IsSelectable=%t; want true, true", got.IsSpreadable(), got.IsSelectable())
		}
		if pets.OfType().OfType() != got.NonNull() {
			t.Errorf("OfType chain of %v does not end at Pet!", pets)
		}
	})
	t.Run("PossibleTypes", func(t *testing.T) {
		if diff := cmp.Diff([]string{"Dog", "Cat"}, schema.ObjectsImplementing("Pet")); diff != "" {
			t.Errorf("ObjectsImplementing(\"Pet\") (-want +got):\n%s", diff)
		}
		union := schema.mustResolve(t, "SearchResult")
		if union.IsSelectable() {
			t.Error("union is selectable")
		}
		if diff := cmp.Diff([]string{"Dog", "Cat"}, schema.PossibleTypes(union)); diff != "" {
			t.Errorf("PossibleTypes(SearchResult) (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Query"}, schema.PossibleTypes(schema.QueryType().NonNull())); diff != "" {
			t.Errorf("PossibleTypes(Query!) (-want +got):\n%s", diff)
		}
		if got := schema.PossibleTypes(schema.mustResolve(t, "Size")); got != nil {
			t.Errorf("PossibleTypes(Size) = %q; want nil", got)
		}
	})
	t.Run("Defaults", func(t *testing.T) {
		limit := schema.QueryType().Field("search").Arg("limit")
		got, ok := limit.Default()
		if !ok || got != 10 {
			t.Errorf("limit default = %#v, %t; want 10, true", got, ok)
		}
		ttl := schema.Directive("cached").Arg("ttl")
		if got, _ := ttl.Default(); got != 60 {
			t.Errorf("@cached(ttl:) default = %#v; want 60", got)
		}
		if _, ok := schema.QueryType().Field("search").Arg("text").Default(); ok {
			t.Error("text has a default")
		}
	})
	t.Run("BuiltinDirectives", func(t *testing.T) {
		for _, name := range []string{"skip", "include"} {
			d := schema.Directive(name)
			if d == nil {
				t.Errorf("Directive(%q) = nil", name)
				continue
			}
			if got := d.Arg("if").Type().String(); got != "Boolean!" {
				t.Errorf("@%s(if:) type = %q; want \"Boolean!\"", name, got)
			}
		}
		if d := schema.Directive("deprecated"); d != nil {
			t.Errorf("Directive(\"deprecated\") = %v; want nil", d)
		}
	})
	t.Run("ListOfInterned", func(t *testing.T) {
		size := schema.mustResolve(t, "Size")
		if size.ListOf() != size.ListOf() {
			t.Error("ListOf returned different types for the same element")
		}
		if size.NonNull().Nullable() != size {
			t.Error("NonNull().Nullable() is not the original type")
		}
		if diff := cmp.Diff([]string{"SMALL", "LARGE"}, size.EnumValues()); diff != "" {
			t.Errorf("EnumValues (-want +got):\n%s", diff)
		}
	})
}

func (schema *Schema) mustResolve(tb testing.TB, name string) *Type {
	tb.Helper()
	typ, err := schema.Resolve(name)
	if err != nil {
		tb.Fatal(err)
	}
	return typ
}
