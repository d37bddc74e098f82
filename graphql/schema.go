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

	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-engine/internal/gqlang"
)

// Schema is a registry of interned types plus the directives and root types
// that queries are checked against. A Schema is immutable once built and safe
// to use from multiple goroutines.
type Schema struct {
	query      *Type
	mutation   *Type
	types      map[string]*Type
	directives map[string]*Directive

	// implementations maps an interface name to the objects that implement
	// it, in declaration order.
	implementations map[string][]string
}

// Directive is a directive definition.
type Directive struct {
	name string
	args []*InputValueDefinition
}

// Name returns the directive's name without the leading "@".
func (d *Directive) Name() string { return d.name }

// Args returns the directive's arguments in declaration order.
func (d *Directive) Args() []*InputValueDefinition { return d.args }

// Arg returns the argument with the given name or nil if there is none.
func (d *Directive) Arg(name string) *InputValueDefinition {
	return findInputValue(d.args, name)
}

func builtinDirectives() []*Directive {
	ifArg := []*InputValueDefinition{{name: "if", typ: booleanType.NonNull()}}
	return []*Directive{
		{name: "skip", args: ifArg},
		{name: "include", args: ifArg},
	}
}

const reservedPrefix = "__"

// NewSchema builds a schema from a declaration. It returns a *SchemaError if
// the declaration is inconsistent.
func NewSchema(decl *SchemaDecl) (*Schema, error) {
	schema, err := buildSchema(decl)
	if err != nil {
		return nil, &SchemaError{err: err}
	}
	return schema, nil
}

// schemaBuilder holds the state needed while a Schema is being built.
type schemaBuilder struct {
	*Schema

	// defaults are the input values with default literals. They are checked
	// once every type is complete.
	defaults []*InputValueDefinition
}

func buildSchema(decl *SchemaDecl) (*Schema, error) {
	schema := &schemaBuilder{Schema: &Schema{
		types:           make(map[string]*Type),
		directives:      make(map[string]*Directive),
		implementations: make(map[string][]string),
	}}
	for _, b := range builtinScalars() {
		schema.types[b.Name()] = b
	}
	// First pass: fill out lookup table.
	for _, t := range decl.Types {
		name := t.typeName()
		if err := checkName(name); err != nil {
			return nil, err
		}
		if schema.types[name] != nil {
			return nil, xerrors.Errorf("multiple types with name %q", name)
		}
		switch t := t.(type) {
		case *ObjectDecl:
			schema.types[name] = newObjectType(&objectType{name: name})
		case *InterfaceDecl:
			schema.types[name] = newInterfaceType(&objectType{name: name})
		case *UnionDecl:
			schema.types[name] = newUnionType(&unionType{name: name})
		case *EnumDecl:
			info, err := buildEnum(t)
			if err != nil {
				return nil, err
			}
			schema.types[name] = newEnumType(info)
		case *InputObjectDecl:
			schema.types[name] = newInputObjectType(&inputObjectType{name: name})
		default:
			return nil, xerrors.Errorf("type %s: unknown declaration %T", name, t)
		}
	}
	// Second pass: fill in definitions now that every name resolves.
	for _, t := range decl.Types {
		var err error
		switch t := t.(type) {
		case *ObjectDecl:
			err = schema.fillObject(t)
		case *InterfaceDecl:
			err = schema.fillInterface(t)
		case *UnionDecl:
			err = schema.fillUnion(t)
		case *InputObjectDecl:
			err = schema.fillInputObject(t)
		}
		if err != nil {
			return nil, err
		}
	}
	// Third pass: objects inherit the fields of their interfaces. This must
	// happen after every interface has its fields.
	for _, t := range decl.Types {
		if obj, ok := t.(*ObjectDecl); ok {
			if err := schema.inheritFields(obj); err != nil {
				return nil, err
			}
		}
	}

	for _, d := range builtinDirectives() {
		schema.directives[d.name] = d
	}
	for _, d := range decl.Directives {
		if err := checkName(d.Name); err != nil {
			return nil, xerrors.Errorf("directive: %w", err)
		}
		if schema.directives[d.Name] != nil {
			return nil, xerrors.Errorf("multiple directives with name %q", d.Name)
		}
		args, err := schema.inputValues(d.Args)
		if err != nil {
			return nil, xerrors.Errorf("directive @%s: %w", d.Name, err)
		}
		schema.directives[d.Name] = &Directive{name: d.Name, args: args}
	}
	for _, ivd := range schema.defaults {
		if !validateInput(ivd.defaultLit, nil, nil, ivd.typ) {
			return nil, xerrors.Errorf("%s: default value %v is not assignable to type %v", ivd.name, ivd.defaultLit, ivd.typ)
		}
		ivd.defaultValue = coerceLiteral(ivd.defaultLit, nil, ivd.typ)
	}

	queryName := decl.Query
	if queryName == "" {
		queryName = "Query"
	}
	schema.query = schema.types[queryName]
	if schema.query == nil {
		return nil, xerrors.Errorf("could not find query type %s", queryName)
	}
	if schema.query.Kind() != ObjectKind {
		return nil, xerrors.Errorf("query type %v must be an object", schema.query)
	}
	switch {
	case decl.Mutation != "":
		schema.mutation = schema.types[decl.Mutation]
		if schema.mutation == nil {
			return nil, xerrors.Errorf("could not find mutation type %s", decl.Mutation)
		}
	case schema.types["Mutation"] != nil:
		schema.mutation = schema.types["Mutation"]
	}
	if schema.mutation != nil && schema.mutation.Kind() != ObjectKind {
		return nil, xerrors.Errorf("mutation type %v must be an object", schema.mutation)
	}
	return schema.Schema, nil
}

func checkName(name string) error {
	if name == "" {
		return xerrors.New("empty name")
	}
	if strings.HasPrefix(name, reservedPrefix) {
		return xerrors.Errorf("use of reserved name %q", name)
	}
	return nil
}

func buildEnum(decl *EnumDecl) (*enumType, error) {
	if len(decl.Values) < 2 {
		return nil, xerrors.Errorf("enum %s must have at least two values", decl.Name)
	}
	info := &enumType{
		name:   decl.Name,
		values: make(map[string]struct{}),
	}
	for _, v := range decl.Values {
		if err := checkName(v); err != nil {
			return nil, xerrors.Errorf("enum %s: %w", decl.Name, err)
		}
		if v == "true" || v == "false" || v == "null" {
			return nil, xerrors.Errorf("enum %s: %q is not a valid enum value", decl.Name, v)
		}
		if info.has(v) {
			return nil, xerrors.Errorf("enum %s: multiple values with name %q", decl.Name, v)
		}
		info.values[v] = struct{}{}
		info.ordered = append(info.ordered, v)
	}
	return info, nil
}

func (schema *schemaBuilder) fillObject(decl *ObjectDecl) error {
	typ := schema.types[decl.Name]
	if err := schema.fillFields(typ.obj, decl.Fields); err != nil {
		return xerrors.Errorf("object %s: %w", decl.Name, err)
	}
	seen := make(map[string]bool)
	for _, name := range decl.Interfaces {
		iface := schema.types[name]
		if iface == nil {
			return xerrors.Errorf("object %s: undefined interface %s", decl.Name, name)
		}
		if iface.Kind() != InterfaceKind {
			return xerrors.Errorf("object %s: %s is not an interface", decl.Name, name)
		}
		if seen[name] {
			return xerrors.Errorf("object %s: implements %s more than once", decl.Name, name)
		}
		seen[name] = true
		typ.obj.interfaces = append(typ.obj.interfaces, name)
		schema.implementations[name] = append(schema.implementations[name], decl.Name)
	}
	return nil
}

func (schema *schemaBuilder) fillInterface(decl *InterfaceDecl) error {
	if len(decl.Fields) == 0 {
		return xerrors.Errorf("interface %s must have at least one field", decl.Name)
	}
	if err := schema.fillFields(schema.types[decl.Name].iface, decl.Fields); err != nil {
		return xerrors.Errorf("interface %s: %w", decl.Name, err)
	}
	return nil
}

func (schema *schemaBuilder) fillFields(info *objectType, decls []*FieldDecl) error {
	for _, fieldDecl := range decls {
		if err := checkName(fieldDecl.Name); err != nil {
			return err
		}
		if info.fields[fieldDecl.Name] != nil {
			return xerrors.Errorf("multiple fields named %q", fieldDecl.Name)
		}
		typ, err := schema.resolveTypeText(fieldDecl.Type)
		if err != nil {
			return xerrors.Errorf("field %s: %w", fieldDecl.Name, err)
		}
		if !typ.IsOutput() {
			return xerrors.Errorf("field %s: %v is not an output type", fieldDecl.Name, typ)
		}
		args, err := schema.inputValues(fieldDecl.Args)
		if err != nil {
			return xerrors.Errorf("field %s: %w", fieldDecl.Name, err)
		}
		info.addField(&FieldDefinition{
			name: fieldDecl.Name,
			typ:  typ,
			args: args,
		})
	}
	return nil
}

func (schema *schemaBuilder) inheritFields(decl *ObjectDecl) error {
	info := schema.types[decl.Name].obj
	own := info.fieldOrder
	var inherited []*FieldDefinition
	source := make(map[string]string)
	for _, ifaceName := range info.interfaces {
		iface := schema.types[ifaceName].iface
		for _, name := range iface.fieldOrder {
			if info.fields[name] != nil {
				return xerrors.Errorf("object %s: field %s redeclares a field of interface %s", decl.Name, name, ifaceName)
			}
			if prev, dup := source[name]; dup {
				return xerrors.Errorf("object %s: interfaces %s and %s both declare field %s", decl.Name, prev, ifaceName, name)
			}
			source[name] = ifaceName
			inherited = append(inherited, iface.fields[name])
		}
	}
	if len(own)+len(inherited) == 0 {
		return xerrors.Errorf("object %s must have at least one field", decl.Name)
	}
	if len(inherited) == 0 {
		return nil
	}
	order := make([]string, 0, len(own)+len(inherited))
	for _, f := range inherited {
		if info.fields == nil {
			info.fields = make(map[string]*FieldDefinition)
		}
		info.fields[f.name] = f
		order = append(order, f.name)
	}
	info.fieldOrder = append(order, own...)
	return nil
}

func (schema *schemaBuilder) fillUnion(decl *UnionDecl) error {
	if len(decl.Members) < 2 {
		return xerrors.Errorf("union %s must have at least two members", decl.Name)
	}
	info := schema.types[decl.Name].union
	seen := make(map[string]bool)
	for _, name := range decl.Members {
		member := schema.types[name]
		if member == nil {
			return xerrors.Errorf("union %s: undefined type %s", decl.Name, name)
		}
		if member.Kind() != ObjectKind {
			return xerrors.Errorf("union %s: member %s is not an object type", decl.Name, name)
		}
		if seen[name] {
			return xerrors.Errorf("union %s: member %s listed more than once", decl.Name, name)
		}
		seen[name] = true
		info.members = append(info.members, name)
	}
	return nil
}

func (schema *schemaBuilder) fillInputObject(decl *InputObjectDecl) error {
	if len(decl.Fields) == 0 {
		return xerrors.Errorf("input %s must have at least one field", decl.Name)
	}
	fields, err := schema.inputValues(decl.Fields)
	if err != nil {
		return xerrors.Errorf("input %s: %w", decl.Name, err)
	}
	schema.types[decl.Name].input.fields = fields
	return nil
}

// inputValues builds argument or input field definitions. Default literals
// are parsed here and checked after all types are filled in.
func (schema *schemaBuilder) inputValues(decls []*InputValueDecl) ([]*InputValueDefinition, error) {
	var list []*InputValueDefinition
	for _, decl := range decls {
		if err := checkName(decl.Name); err != nil {
			return nil, err
		}
		if findInputValue(list, decl.Name) != nil {
			return nil, xerrors.Errorf("multiple arguments named %q", decl.Name)
		}
		typ, err := schema.resolveTypeText(decl.Type)
		if err != nil {
			return nil, xerrors.Errorf("%s: %w", decl.Name, err)
		}
		if !typ.IsInput() {
			return nil, xerrors.Errorf("%s: %v is not an input type", decl.Name, typ)
		}
		ivd := &InputValueDefinition{name: decl.Name, typ: typ}
		if decl.Default != "" {
			lit, err := gqlang.ParseConstValue(decl.Default)
			if err != nil {
				return nil, xerrors.Errorf("%s: default: %w", decl.Name, err)
			}
			ivd.defaultLit = lit
			ivd.hasDefault = true
			schema.defaults = append(schema.defaults, ivd)
		}
		list = append(list, ivd)
	}
	return list, nil
}

// resolveTypeText parses a type reference like "[Int!]!" and interns it.
func (schema *Schema) resolveTypeText(text string) (*Type, error) {
	ref, err := gqlang.ParseType(text)
	if err != nil {
		return nil, err
	}
	typ := schema.resolveTypeRef(ref)
	if typ == nil {
		return nil, xerrors.Errorf("undefined type %v", ref)
	}
	return typ, nil
}

func (schema *Schema) resolveTypeRef(ref *gqlang.TypeRef) *Type {
	var typ *Type
	switch {
	case ref.Named != nil:
		typ = schema.types[ref.Named.Value]
	case ref.List != nil:
		if elem := schema.resolveTypeRef(ref.List); elem != nil {
			typ = listOf(elem)
		}
	}
	if typ == nil {
		return nil
	}
	if ref.NonNull {
		return typ.NonNull()
	}
	return typ
}

// Resolve returns the named type with the given name.
func (schema *Schema) Resolve(name string) (*Type, error) {
	typ := schema.types[name]
	if typ == nil {
		return nil, xerrors.Errorf("undefined type %q", name)
	}
	return typ, nil
}

// ResolveAndUnwrap strips any list and non-null wrappers from typ and returns
// the named type underneath.
func (schema *Schema) ResolveAndUnwrap(typ *Type) *Type {
	return typ.unwrap()
}

// ObjectsImplementing returns the names of the object types that implement
// the named interface, in declaration order.
func (schema *Schema) ObjectsImplementing(name string) []string {
	return append([]string(nil), schema.implementations[name]...)
}

// PossibleTypes returns the names of the object types a value of typ may
// have at run time: the object itself, the implementations of an interface,
// or the members of a union. It returns nil for other types.
func (schema *Schema) PossibleTypes(typ *Type) []string {
	typ = typ.unwrap()
	switch typ.Kind() {
	case ObjectKind:
		return []string{typ.Name()}
	case InterfaceKind:
		return schema.ObjectsImplementing(typ.Name())
	case UnionKind:
		return typ.Members()
	default:
		return nil
	}
}

// Directive returns the directive with the given name or nil if the schema
// does not define one. The skip and include directives are always defined.
func (schema *Schema) Directive(name string) *Directive {
	return schema.directives[name]
}

// QueryType returns the query root type.
func (schema *Schema) QueryType() *Type {
	return schema.query
}

// MutationType returns the mutation root type or nil if the schema does not
// support mutations.
func (schema *Schema) MutationType() *Type {
	return schema.mutation
}

func (schema *Schema) operationType(opType gqlang.OperationType) *Type {
	switch opType {
	case gqlang.Query:
		return schema.query
	case gqlang.Mutation:
		return schema.mutation
	default:
		panic("unknown operation type")
	}
}
