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
	"fmt"
	"reflect"

	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-engine/internal/gqlang"
	"zombiezen.com/go/graphql-engine/internal/log"
)

// Executor runs GraphQL operations against a pair of root resolvers.
type Executor struct {
	schema   *Schema
	query    Resolver
	mutation Resolver
	opts     ExecutorOptions
}

// ExecutorOptions holds optional parameters for NewExecutor.
type ExecutorOptions struct {
	// SkipValidation disables the validation pass. Execution still checks
	// that every resolver result is compatible with the schema.
	SkipValidation bool

	// ConcurrentLists resolves the elements of object lists in parallel.
	// Result order is preserved.
	ConcurrentLists bool
}

// NewExecutor returns an executor that serves queries from query and
// mutations from mutation. mutation must be nil if and only if the schema has
// no mutation type. opts may be nil.
func NewExecutor(schema *Schema, query, mutation Resolver, opts *ExecutorOptions) (*Executor, error) {
	// Check for missing or extra arguments first.
	if query == nil {
		return nil, xerrors.New("new executor: query resolver is required")
	}
	if mutation == nil && schema.mutation != nil {
		return nil, xerrors.New("new executor: schema specified mutation type, but no mutation resolver given")
	}
	if mutation != nil && schema.mutation == nil {
		return nil, xerrors.New("new executor: mutation resolver given, but no mutation type")
	}

	// Next check that the resolvers claim the root types.
	if got, want := query.TypeName(), schema.query.Name(); got != want {
		return nil, xerrors.Errorf("new executor: query resolver has type %q; want %q", got, want)
	}
	if mutation != nil {
		if got, want := mutation.TypeName(), schema.mutation.Name(); got != want {
			return nil, xerrors.Errorf("new executor: mutation resolver has type %q; want %q", got, want)
		}
	}
	e := &Executor{
		schema:   schema,
		query:    query,
		mutation: mutation,
	}
	if opts != nil {
		e.opts = *opts
	}
	return e, nil
}

// Schema returns the schema passed to NewExecutor.
func (e *Executor) Schema() *Schema {
	return e.schema
}

// Query parses, validates, and executes a GraphQL document. operationName
// may be empty if the document has exactly one operation. variables may be
// nil; numbers decoded with json.Decoder.UseNumber are accepted.
//
// The returned error is one of *ParseError, *ValidationError,
// *ResolverError, or *CompatibilityError, or the context's error if ctx is
// done before execution finishes. Query is safe to call from multiple
// goroutines.
func (e *Executor) Query(ctx context.Context, text string, variables map[string]interface{}, operationName string) (_ Value, err error) {
	ctx, span := trace.StartSpan(ctx, "graphql.Query")
	defer func() {
		setSpanStatus(span, err)
		span.End()
	}()
	if operationName != "" {
		span.AddAttributes(trace.StringAttribute("graphql.operation_name", operationName))
	}
	logger := log.FromContext(ctx)

	doc, err := parseQuery(ctx, text)
	if err != nil {
		logger.V(1).Info("query failed to parse", "error", err.Error())
		return Value{}, err
	}
	op, err := selectOperation(doc, operationName)
	if err != nil {
		return Value{}, err
	}
	root, err := operationRoot(text, e.schema, op)
	if err != nil {
		return Value{}, err
	}
	span.AddAttributes(trace.StringAttribute("graphql.operation_type", op.Type.String()))
	vars, varTypes, err := bindVariables(text, e.schema, op, variables)
	if err != nil {
		return Value{}, err
	}
	if !e.opts.SkipValidation {
		if err := e.validate(ctx, text, doc, op, vars, varTypes); err != nil {
			logger.V(1).Info("query failed validation", "error", err.Error())
			return Value{}, err
		}
	}

	resolver := e.query
	if op.Type == gqlang.Mutation {
		resolver = e.mutation
	}
	ctx, execSpan := trace.StartSpan(ctx, "graphql.execute")
	defer execSpan.End()
	logger.V(1).Info("executing operation", "type", op.Type.String(), "name", op.Name.String())
	x := &execution{
		schema:     e.schema,
		source:     text,
		doc:        doc,
		vars:       vars,
		varTypes:   varTypes,
		concurrent: e.opts.ConcurrentLists,
	}
	fields, err := x.selectionSet(ctx, nil, op.SelectionSet, root, resolver)
	setSpanStatus(execSpan, err)
	if err != nil {
		return Value{}, err
	}
	return Value{val: fields}, nil
}

func parseQuery(ctx context.Context, text string) (*gqlang.Document, error) {
	ctx, span := trace.StartSpan(ctx, "graphql.parse")
	defer span.End()
	opts := &gqlang.ParseOptions{Logger: log.FromContext(ctx)}
	doc, err := opts.Parse(text)
	if err != nil {
		err = newParseError(err)
		setSpanStatus(span, err)
		return nil, err
	}
	return doc, nil
}

func (e *Executor) validate(ctx context.Context, source string, doc *gqlang.Document, op *gqlang.Operation, vars map[string]interface{}, varTypes map[string]*Type) error {
	_, span := trace.StartSpan(ctx, "graphql.validate")
	defer span.End()
	err := validateOperation(source, e.schema, doc, op, vars, varTypes)
	setSpanStatus(span, err)
	return err
}

// Validate parses and validates a GraphQL document without executing it.
// It returns a *ParseError or a *ValidationError.
func (schema *Schema) Validate(text string, variables map[string]interface{}, operationName string) error {
	doc, err := gqlang.Parse(text)
	if err != nil {
		return newParseError(err)
	}
	op, err := selectOperation(doc, operationName)
	if err != nil {
		return err
	}
	vars, varTypes, err := bindVariables(text, schema, op, variables)
	if err != nil {
		return err
	}
	return validateOperation(text, schema, doc, op, vars, varTypes)
}

func setSpanStatus(span *trace.Span, err error) {
	if err == nil {
		return
	}
	code := int32(trace.StatusCodeUnknown)
	switch err.(type) {
	case *ParseError, *ValidationError:
		code = trace.StatusCodeInvalidArgument
	case *CompatibilityError:
		code = trace.StatusCodeFailedPrecondition
	case *ResolverError:
		code = trace.StatusCodeInternal
	}
	if xerrors.Is(err, context.Canceled) {
		code = trace.StatusCodeCancelled
	} else if xerrors.Is(err, context.DeadlineExceeded) {
		code = trace.StatusCodeDeadlineExceeded
	}
	span.SetStatus(trace.Status{Code: code, Message: err.Error()})
}

// execution holds the state of a single Query call. It is read-only once
// execution starts, so list elements may be resolved concurrently.
type execution struct {
	schema     *Schema
	source     string
	doc        *gqlang.Document
	vars       map[string]interface{}
	varTypes   map[string]*Type
	concurrent bool
}

// selectionSet resolves a selection set against a resolver of type typ. The
// fields are returned in selection order with duplicate keys merged.
func (x *execution) selectionSet(ctx context.Context, path []PathSegment, set *gqlang.SelectionSet, typ *Type, r Resolver) ([]Field, error) {
	fields := make([]Field, 0)
	if set == nil {
		return fields, nil
	}
	if err := x.collect(ctx, path, set.Sel, typ, r, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (x *execution) collect(ctx context.Context, path []PathSegment, sels []*gqlang.Selection, typ *Type, r Resolver, fields *[]Field) error {
	for _, sel := range sels {
		if err := ctx.Err(); err != nil {
			return err
		}
		include, err := x.shouldInclude(sel.Directives())
		if err != nil {
			return err
		}
		if !include {
			continue
		}
		switch {
		case sel.Field != nil:
			f, err := x.field(ctx, path, sel.Field, typ, r)
			if err != nil {
				return err
			}
			*fields = mergeField(*fields, f)
		case sel.FragmentSpread != nil:
			frag := x.doc.Fragments[sel.FragmentSpread.Name.Value]
			if frag == nil {
				return x.errorf(sel.FragmentSpread.Name.Start, "fragment %q not defined", sel.FragmentSpread.Name.Value)
			}
			include, err := x.shouldInclude(frag.Directives)
			if err != nil {
				return err
			}
			if !include {
				continue
			}
			if err := x.fragment(ctx, path, frag.TypeCondition, frag.SelectionSet, typ, r, fields); err != nil {
				return err
			}
		case sel.InlineFragment != nil:
			frag := sel.InlineFragment
			if err := x.fragment(ctx, path, frag.TypeCondition, frag.SelectionSet, typ, r, fields); err != nil {
				return err
			}
		}
	}
	return nil
}

// fragment adds the fields of a fragment if its type condition admits the
// resolver's type name.
func (x *execution) fragment(ctx context.Context, path []PathSegment, cond *gqlang.Name, set *gqlang.SelectionSet, typ *Type, r Resolver, fields *[]Field) error {
	if cond != nil {
		condType := x.schema.types[cond.Value]
		if condType == nil || !condType.IsSpreadable() {
			return x.errorf(cond.Start, "cannot spread fragment on type %s", cond.Value)
		}
		if !contains(x.schema.PossibleTypes(condType), r.TypeName()) {
			return nil
		}
		typ = condType
	}
	return x.collect(ctx, path, set.Sel, typ, r, fields)
}

// shouldInclude evaluates the skip and include directives of a selection.
// Their effect is local to the selection they are attached to.
func (x *execution) shouldInclude(dirs []*gqlang.Directive) (bool, error) {
	for _, d := range dirs {
		name := d.Name.Value
		if name != "skip" && name != "include" {
			continue
		}
		def := x.schema.Directive(name)
		if err := x.checkArguments(d.Arguments, def.args, "directive @"+name, d.At); err != nil {
			return false, err
		}
		args := argumentValues(def.args, d.Arguments, x.vars)
		cond, ok := args["if"].(bool)
		if !ok {
			return false, x.errorf(d.At, "directive @%s requires a Boolean \"if\" argument", name)
		}
		if name == "skip" && cond || name == "include" && !cond {
			return false, nil
		}
	}
	return true, nil
}

func (x *execution) field(ctx context.Context, path []PathSegment, f *gqlang.Field, typ *Type, r Resolver) (Field, error) {
	key := f.Key()
	path = appendPath(path, PathSegment{Field: key})
	def := typ.Field(f.Name.Value)
	if def == nil {
		return Field{}, x.errorf(f.Name.Start, "field %q not found on type %v", f.Name.Value, typ)
	}
	if err := x.checkArguments(f.Arguments, def.args, fmt.Sprintf("field %s.%s", typ.Name(), f.Name.Value), f.Name.Start); err != nil {
		return Field{}, err
	}
	args := argumentValues(def.args, f.Arguments, x.vars)
	raw, err := r.ResolveField(ctx, f.Name.Value, args)
	if err != nil {
		if xerrors.Is(err, ErrNoField) {
			return Field{}, &CompatibilityError{
				Path:    path,
				Message: fmt.Sprintf("resolver for %s cannot produce field %q", r.TypeName(), f.Name.Value),
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil && xerrors.Is(err, ctxErr) {
			return Field{}, ctxErr
		}
		log.FromContext(ctx).Error(err, "resolver failed", "path", formatPath(path))
		return Field{}, &ResolverError{Path: path, err: err}
	}
	value, err := x.complete(ctx, path, def.typ, raw, f.SelectionSet)
	if err != nil {
		return Field{}, err
	}
	return Field{Key: key, Value: value}, nil
}

// checkArguments rejects arguments that cannot be coerced to their declared
// types. The validator catches these first unless it was skipped.
func (x *execution) checkArguments(args gqlang.Arguments, defs []*InputValueDefinition, what string, pos gqlang.Pos) error {
	for _, arg := range args {
		def := findInputValue(defs, arg.Name.Value)
		if def == nil {
			return x.errorf(arg.Name.Start, "unknown argument %q on %s", arg.Name.Value, what)
		}
		if !validateInput(arg.Value, x.vars, x.varTypes, def.typ) {
			return x.errorf(arg.Value.Start(), "argument %q on %s: %v is not assignable to type %v", arg.Name.Value, what, arg.Value, def.typ)
		}
	}
	for _, def := range defs {
		if def.requiredArgument() && args.ByName(def.name) == nil {
			return x.errorf(pos, "missing required argument %q on %s", def.name, what)
		}
	}
	return nil
}

// complete converts a resolver's result for a position of type typ into a
// Value, resolving nested selection sets.
func (x *execution) complete(ctx context.Context, path []PathSegment, typ *Type, raw interface{}, set *gqlang.SelectionSet) (Value, error) {
	if !typ.unwrap().IsSpreadable() {
		goValue := reflect.ValueOf(raw)
		if !isAssignable(goValue, typ) {
			return Value{}, &CompatibilityError{
				Path:    path,
				Message: fmt.Sprintf("%s is not assignable to type %v", describeGo(raw), typ),
			}
		}
		return leafValue(goValue, typ), nil
	}

	goValue := unwrapValue(reflect.ValueOf(raw))
	if !goValue.IsValid() {
		if !typ.IsNullable() {
			return Value{}, &CompatibilityError{
				Path:    path,
				Message: fmt.Sprintf("null returned for non-null type %v", typ),
			}
		}
		return Value{}, nil
	}
	typ = typ.Nullable()
	if typ.isList() {
		if goValue.Kind() != reflect.Slice && goValue.Kind() != reflect.Array {
			return Value{}, &CompatibilityError{
				Path:    path,
				Message: fmt.Sprintf("%s is not a list for type %v", describeGo(raw), typ),
			}
		}
		list, err := x.completeList(ctx, path, typ.listElem, goValue, set)
		if err != nil {
			return Value{}, err
		}
		return Value{val: list}, nil
	}

	r, ok := raw.(Resolver)
	if !ok {
		return Value{}, &CompatibilityError{
			Path:    path,
			Message: fmt.Sprintf("%s is not a resolver for type %v", describeGo(raw), typ),
		}
	}
	name := r.TypeName()
	if !contains(x.schema.PossibleTypes(typ), name) {
		return Value{}, &CompatibilityError{
			Path:    path,
			Message: fmt.Sprintf("resolver of type %q may not appear where %v is expected", name, typ),
		}
	}
	fields, err := x.selectionSet(ctx, path, set, x.schema.types[name], r)
	if err != nil {
		return Value{}, err
	}
	return Value{val: fields}, nil
}

func (x *execution) completeList(ctx context.Context, path []PathSegment, elemType *Type, goValue reflect.Value, set *gqlang.SelectionSet) ([]Value, error) {
	list := make([]Value, goValue.Len())
	if !x.concurrent || len(list) < 2 {
		for i := range list {
			var err error
			list[i], err = x.complete(ctx, appendPath(path, PathSegment{ListIndex: i}), elemType, goValue.Index(i).Interface(), set)
			if err != nil {
				return nil, err
			}
		}
		return list, nil
	}
	grp, grpCtx := errgroup.WithContext(ctx)
	for i := range list {
		i := i
		elem := goValue.Index(i).Interface()
		grp.Go(func() error {
			var err error
			list[i], err = x.complete(grpCtx, appendPath(path, PathSegment{ListIndex: i}), elemType, elem, set)
			return err
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return list, nil
}

// errorf reports a query problem found during execution. It only happens
// when validation is skipped.
func (x *execution) errorf(pos gqlang.Pos, format string, args ...interface{}) error {
	return &ValidationError{
		Message:   fmt.Sprintf(format, args...),
		Locations: []Location{astPositionToLocation(pos.ToPosition(x.source))},
	}
}

func describeGo(v interface{}) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v (%T)", v, v)
}
