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

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"golang.org/x/xerrors"
)

// ParseSchema builds a schema from GraphQL schema definition language.
// Custom scalars, type extensions, and subscriptions are not supported.
//
// Object types in SDL repeat the fields of the interfaces they implement.
// Repeated fields with the same signature as the interface's are dropped so
// that the object inherits them.
func ParseSchema(source string) (*Schema, error) {
	decl, err := parseSchemaDecl(source)
	if err != nil {
		return nil, &SchemaError{err: err}
	}
	return NewSchema(decl)
}

func parseSchemaDecl(source string) (*SchemaDecl, error) {
	doc, gErr := parser.ParseSchema(&ast.Source{Name: "schema.graphql", Input: source})
	if gErr != nil {
		return nil, xerrors.Errorf("parse: %v", gErr)
	}
	if len(doc.Extensions) > 0 || len(doc.SchemaExtension) > 0 {
		return nil, xerrors.New("type extensions are not supported")
	}
	decl := new(SchemaDecl)
	for _, sd := range doc.Schema {
		for _, ot := range sd.OperationTypes {
			switch ot.Operation {
			case ast.Query:
				decl.Query = ot.Type
			case ast.Mutation:
				decl.Mutation = ot.Type
			default:
				return nil, xerrors.Errorf("%s operations are not supported", ot.Operation)
			}
		}
	}

	interfaces := make(map[string]*ast.Definition)
	for _, def := range doc.Definitions {
		if def.Kind == ast.Interface {
			interfaces[def.Name] = def
		}
	}
	for _, def := range doc.Definitions {
		switch def.Kind {
		case ast.Object:
			decl.Types = append(decl.Types, &ObjectDecl{
				Name:       def.Name,
				Interfaces: def.Interfaces,
				Fields:     fieldDecls(ownFields(def, interfaces)),
			})
		case ast.Interface:
			decl.Types = append(decl.Types, &InterfaceDecl{
				Name:   def.Name,
				Fields: fieldDecls(def.Fields),
			})
		case ast.Union:
			decl.Types = append(decl.Types, &UnionDecl{
				Name:    def.Name,
				Members: def.Types,
			})
		case ast.Enum:
			enum := &EnumDecl{Name: def.Name}
			for _, v := range def.EnumValues {
				enum.Values = append(enum.Values, v.Name)
			}
			decl.Types = append(decl.Types, enum)
		case ast.InputObject:
			input := &InputObjectDecl{Name: def.Name}
			for _, f := range def.Fields {
				input.Fields = append(input.Fields, &InputValueDecl{
					Name:    f.Name,
					Type:    f.Type.String(),
					Default: valueText(f.DefaultValue),
				})
			}
			decl.Types = append(decl.Types, input)
		case ast.Scalar:
			return nil, xerrors.Errorf("custom scalar %s is not supported", def.Name)
		default:
			return nil, xerrors.Errorf("%s: unknown definition kind %s", def.Name, def.Kind)
		}
	}
	for _, d := range doc.Directives {
		decl.Directives = append(decl.Directives, &DirectiveDecl{
			Name: d.Name,
			Args: argumentDecls(d.Arguments),
		})
	}
	return decl, nil
}

// ownFields returns the fields of an object definition minus those repeated
// verbatim from its interfaces.
func ownFields(def *ast.Definition, interfaces map[string]*ast.Definition) ast.FieldList {
	inherited := make(map[string]string)
	for _, name := range def.Interfaces {
		iface := interfaces[name]
		if iface == nil {
			continue
		}
		for _, f := range iface.Fields {
			inherited[f.Name] = fieldSignature(f)
		}
	}
	var own ast.FieldList
	for _, f := range def.Fields {
		if sig, ok := inherited[f.Name]; ok && sig == fieldSignature(f) {
			continue
		}
		own = append(own, f)
	}
	return own
}

func fieldSignature(f *ast.FieldDefinition) string {
	sb := new(strings.Builder)
	sb.WriteString(f.Type.String())
	for _, arg := range f.Arguments {
		sb.WriteString(" ")
		sb.WriteString(arg.Name)
		sb.WriteString(":")
		sb.WriteString(arg.Type.String())
		sb.WriteString("=")
		sb.WriteString(valueText(arg.DefaultValue))
	}
	return sb.String()
}

func fieldDecls(fields ast.FieldList) []*FieldDecl {
	var decls []*FieldDecl
	for _, f := range fields {
		decls = append(decls, &FieldDecl{
			Name: f.Name,
			Type: f.Type.String(),
			Args: argumentDecls(f.Arguments),
		})
	}
	return decls
}

func argumentDecls(args ast.ArgumentDefinitionList) []*InputValueDecl {
	var decls []*InputValueDecl
	for _, arg := range args {
		decls = append(decls, &InputValueDecl{
			Name:    arg.Name,
			Type:    arg.Type.String(),
			Default: valueText(arg.DefaultValue),
		})
	}
	return decls
}

func valueText(v *ast.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
