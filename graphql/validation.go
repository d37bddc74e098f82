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

	"zombiezen.com/go/graphql-engine/internal/gqlang"
)

// selectOperation picks the operation to run from a document. The name may
// only be omitted if the document has exactly one operation.
func selectOperation(doc *gqlang.Document, name string) (*gqlang.Operation, error) {
	switch {
	case len(doc.Operations) == 0:
		return nil, &ValidationError{Message: "document contains no operations"}
	case name == "" && len(doc.Operations) > 1:
		return nil, &ValidationError{Message: "must specify operation name: document contains multiple operations"}
	}
	op := doc.FindOperation(name)
	if op == nil {
		return nil, &ValidationError{Message: fmt.Sprintf("operation %q not defined", name)}
	}
	return op, nil
}

// operationRoot returns the root type for the operation.
func operationRoot(source string, schema *Schema, op *gqlang.Operation) (*Type, error) {
	typ := schema.operationType(op.Type)
	if typ == nil {
		return nil, &ValidationError{
			Message:   fmt.Sprintf("schema does not support %vs", op.Type),
			Locations: []Location{astPositionToLocation(op.Start.ToPosition(source))},
		}
	}
	return typ, nil
}

type validator struct {
	source   string
	schema   *Schema
	doc      *gqlang.Document
	vars     map[string]interface{}
	varTypes map[string]*Type

	// visiting is the set of fragments being expanded on the current path.
	visiting map[string]bool
}

// validateOperation checks an operation against the schema. vars and
// varTypes come from bindVariables. It returns the first problem found as a
// *ValidationError.
func validateOperation(source string, schema *Schema, doc *gqlang.Document, op *gqlang.Operation, vars map[string]interface{}, varTypes map[string]*Type) error {
	root, err := operationRoot(source, schema, op)
	if err != nil {
		return err
	}
	v := &validator{
		source:   source,
		schema:   schema,
		doc:      doc,
		vars:     vars,
		varTypes: varTypes,
		visiting: make(map[string]bool),
	}
	if err := v.directives(op.Directives); err != nil {
		return err
	}
	return v.selectionSet(op.SelectionSet, root)
}

func (v *validator) errorf(pos gqlang.Pos, format string, args ...interface{}) error {
	return &ValidationError{
		Message:   fmt.Sprintf(format, args...),
		Locations: []Location{astPositionToLocation(pos.ToPosition(v.source))},
	}
}

func (v *validator) selectionSet(set *gqlang.SelectionSet, typ *Type) error {
	for _, sel := range set.Sel {
		if err := v.directives(sel.Directives()); err != nil {
			return err
		}
		var err error
		switch {
		case sel.Field != nil:
			err = v.field(sel.Field, typ)
		case sel.FragmentSpread != nil:
			err = v.fragmentSpread(sel.FragmentSpread, typ)
		case sel.InlineFragment != nil:
			err = v.inlineFragment(sel.InlineFragment, typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) field(f *gqlang.Field, typ *Type) error {
	name := f.Name.Value
	if typ.Kind() == UnionKind {
		return v.errorf(f.Name.Start, "cannot query field %q on union %v; use a fragment", name, typ)
	}
	def := typ.Field(name)
	if def == nil {
		return v.errorf(f.Name.Start, "field %q not found on type %v", name, typ)
	}
	what := fmt.Sprintf("field %s.%s", typ.Name(), name)
	if err := v.arguments(f.Arguments, def.args, what, f.Name.Start); err != nil {
		return err
	}
	inner := def.typ.unwrap()
	switch {
	case inner.IsSpreadable() && f.SelectionSet == nil:
		return v.errorf(f.Name.Start, "field %q of type %v must have a selection of subfields", name, def.typ)
	case inner.IsSpreadable():
		return v.selectionSet(f.SelectionSet, inner)
	case f.SelectionSet != nil:
		return v.errorf(f.SelectionSet.LBrace, "field %q of type %v must not have a selection of subfields", name, def.typ)
	default:
		return nil
	}
}

func (v *validator) arguments(args gqlang.Arguments, defs []*InputValueDefinition, what string, pos gqlang.Pos) error {
	seen := make(map[string]bool)
	for _, arg := range args {
		name := arg.Name.Value
		def := findInputValue(defs, name)
		if def == nil {
			return v.errorf(arg.Name.Start, "unknown argument %q on %s", name, what)
		}
		if seen[name] {
			return v.errorf(arg.Name.Start, "argument %q given more than once", name)
		}
		seen[name] = true
		if !validateInput(arg.Value, v.vars, v.varTypes, def.typ) {
			return v.errorf(arg.Value.Start(), "argument %q on %s: %v is not assignable to type %v", name, what, arg.Value, def.typ)
		}
	}
	for _, def := range defs {
		if def.requiredArgument() && !seen[def.name] {
			return v.errorf(pos, "missing required argument %q on %s", def.name, what)
		}
	}
	return nil
}

func (v *validator) directives(dirs []*gqlang.Directive) error {
	seen := make(map[string]bool)
	for _, d := range dirs {
		name := d.Name.Value
		def := v.schema.Directive(name)
		if def == nil {
			return v.errorf(d.At, "unknown directive @%s", name)
		}
		if seen[name] {
			return v.errorf(d.At, "directive @%s used more than once", name)
		}
		seen[name] = true
		if err := v.arguments(d.Arguments, def.args, "directive @"+name, d.At); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) fragmentSpread(spread *gqlang.FragmentSpread, typ *Type) error {
	name := spread.Name.Value
	frag := v.doc.Fragments[name]
	if frag == nil {
		return v.errorf(spread.Name.Start, "fragment %q not defined", name)
	}
	if v.visiting[name] {
		return v.errorf(spread.Name.Start, "fragment %q spreads itself", name)
	}
	cond, err := v.typeCondition(frag.TypeCondition, typ)
	if err != nil {
		return err
	}
	if err := v.directives(frag.Directives); err != nil {
		return err
	}
	v.visiting[name] = true
	defer delete(v.visiting, name)
	return v.selectionSet(frag.SelectionSet, cond)
}

func (v *validator) inlineFragment(frag *gqlang.InlineFragment, typ *Type) error {
	cond, err := v.typeCondition(frag.TypeCondition, typ)
	if err != nil {
		return err
	}
	return v.selectionSet(frag.SelectionSet, cond)
}

// typeCondition resolves a fragment's type condition. A fragment without a
// condition applies to the enclosing type.
func (v *validator) typeCondition(name *gqlang.Name, parent *Type) (*Type, error) {
	if name == nil {
		return parent, nil
	}
	cond := v.schema.types[name.Value]
	if cond == nil {
		return nil, v.errorf(name.Start, "undefined type %s", name.Value)
	}
	if !cond.IsSpreadable() {
		return nil, v.errorf(name.Start, "cannot spread fragment on non-composite type %v", cond)
	}
	if !overlaps(v.schema.PossibleTypes(parent), v.schema.PossibleTypes(cond)) {
		return nil, v.errorf(name.Start, "fragment on %v can never match type %v", cond, parent)
	}
	return cond, nil
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
