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

package gqlang

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-logr/logr"
	"golang.org/x/xerrors"
)

// maxStackDepth bounds the number of simultaneously open productions.
const maxStackDepth = 256

var (
	floatPattern = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+(?:[eE][+-]?[0-9]+)?|[eE][+-]?[0-9]+)`)
	intPattern   = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)`)
)

// ParseOptions holds optional parameters for parsing.
type ParseOptions struct {
	// Logger receives a V(2) message for every step of the parser.
	Logger logr.Logger
}

// Parse parses a GraphQL query document.
func Parse(input string) (*Document, error) {
	return (*ParseOptions)(nil).Parse(input)
}

// Parse parses a GraphQL query document. A nil *ParseOptions is treated the
// same as the zero value.
func (opts *ParseOptions) Parse(input string) (*Document, error) {
	n, err := opts.run(input, new(documentFrame))
	if err != nil {
		return nil, xerrors.Errorf("parse: %w", err)
	}
	return n.(*Document), nil
}

// ParseType parses a type reference like "[Int!]!".
func ParseType(input string) (*TypeRef, error) {
	n, err := (*ParseOptions)(nil).run(input, new(typeFrame))
	if err != nil {
		return nil, xerrors.Errorf("parse type: %w", err)
	}
	return n.(*TypeRef), nil
}

// ParseConstValue parses a value literal that does not reference variables,
// like a default value.
func ParseConstValue(input string) (*InputValue, error) {
	n, err := (*ParseOptions)(nil).run(input, &valueFrame{constant: true})
	if err != nil {
		return nil, xerrors.Errorf("parse value: %w", err)
	}
	return n.(*InputValue), nil
}

type parser struct {
	r     *Reader
	stack []frame
	log   logr.Logger
}

// A frame is the state of one grammar production in progress.
type frame interface {
	// enter consumes the production's leading tokens. It is called once, as the
	// frame is pushed.
	enter(p *parser) error
	// step advances the production. Every step must push a child frame, pop at
	// least one frame, or consume input.
	step(p *parser) (action, error)
	// accept receives the node built by a finished child frame.
	accept(p *parser, node interface{}) error
	// node returns the node the production built.
	node() interface{}
}

// action is the result of a step. The driver first pops the given number of
// frames, handing each finished node to the frame below it, then pushes the
// new frame, if any.
type action struct {
	pop  int
	push frame
}

var done = action{pop: 1}

func pushFrame(f frame) action {
	return action{push: f}
}

func (opts *ParseOptions) run(input string, root frame) (interface{}, error) {
	p := &parser{
		r:   NewReader(input),
		log: logr.Discard(),
	}
	if opts != nil && opts.Logger.GetSink() != nil {
		p.log = opts.Logger
	}
	if err := p.push(root); err != nil {
		return nil, err
	}
	var result interface{}
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		depth, pos := len(p.stack), p.r.pos
		act, err := top.step(p)
		if err != nil {
			return nil, err
		}
		p.log.V(2).Info("parser step", "frame", fmt.Sprintf("%T", top), "depth", depth, "offset", pos, "pop", act.pop, "push", act.push != nil)
		for i := 0; i < act.pop && len(p.stack) > 0; i++ {
			finished := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			if len(p.stack) == 0 {
				result = finished.node()
				break
			}
			if err := p.stack[len(p.stack)-1].accept(p, finished.node()); err != nil {
				return nil, err
			}
		}
		if act.push != nil {
			if err := p.push(act.push); err != nil {
				return nil, err
			}
		}
		if act.pop == 0 && act.push == nil && p.r.pos == pos {
			return nil, xerrors.Errorf("internal error: %T made no progress at offset %d", top, pos)
		}
	}
	if !p.r.EOF() {
		return nil, p.errorf("unexpected %s after end of input", p.found())
	}
	return result, nil
}

func (p *parser) push(f frame) error {
	if len(p.stack) >= maxStackDepth {
		return p.errorf("document nested too deeply")
	}
	p.stack = append(p.stack, f)
	return f.enter(p)
}

// start returns the position of the next significant character.
func (p *parser) start() Pos {
	p.r.skipIgnored()
	return p.r.Pos()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	pos := p.r.Position()
	return &ParseError{
		Msg:    fmt.Sprintf(format, args...),
		Pos:    p.r.Pos(),
		Line:   pos.Line,
		Column: pos.Column,
		Lines:  p.r.Lines(),
	}
}

// errorAt returns an error for an earlier position in the input.
func (p *parser) errorAt(pos Pos, format string, args ...interface{}) error {
	position := pos.ToPosition(p.r.input)
	return &ParseError{
		Msg:    fmt.Sprintf(format, args...),
		Pos:    pos,
		Line:   position.Line,
		Column: position.Column,
		Lines:  sourceLines(p.r.input, position.Line),
	}
}

// expected returns an error describing what was found instead of what.
func (p *parser) expected(what string) error {
	if p.r.EOF() {
		return p.errorf("expected %s, got EOF", what)
	}
	return p.errorf("expected %s, found %s", what, p.found())
}

func (p *parser) found() string {
	if p.r.EOF() {
		return "EOF"
	}
	if name, ok := p.r.PeekName(); ok {
		return strconv.Quote(name)
	}
	c, _ := utf8.DecodeRuneInString(p.r.rest())
	return strconv.Quote(string(c))
}

// documentFrame parses a whole document.
// https://graphql.github.io/graphql-spec/June2018/#Document
type documentFrame struct {
	doc       *Document
	shorthand bool
}

func (d *documentFrame) enter(p *parser) error {
	d.doc = &Document{Fragments: make(map[string]*Fragment)}
	return nil
}

func (d *documentFrame) step(p *parser) (action, error) {
	c, ok := p.r.Peek()
	if !ok {
		return done, nil
	}
	if c == '{' {
		if len(d.doc.Operations) > 0 {
			return action{}, p.errorf("shorthand query must be the only operation in the document")
		}
		d.shorthand = true
		return pushFrame(&operationFrame{shorthand: true}), nil
	}
	switch kw, _ := p.r.PeekName(); kw {
	case "query", "mutation":
		if d.shorthand {
			return action{}, p.errorf("shorthand query must be the only operation in the document")
		}
		return pushFrame(new(operationFrame)), nil
	case "fragment":
		return pushFrame(new(fragmentFrame)), nil
	default:
		return action{}, p.expected("query, mutation, fragment, or '{'")
	}
}

func (d *documentFrame) accept(p *parser, n interface{}) error {
	switch n := n.(type) {
	case *Operation:
		d.doc.Operations = append(d.doc.Operations, n)
	case *Fragment:
		if d.doc.Fragments[n.Name.Value] != nil {
			return p.errorAt(n.Name.Start, "fragment %q defined more than once", n.Name.Value)
		}
		d.doc.Fragments[n.Name.Value] = n
	}
	return nil
}

func (d *documentFrame) node() interface{} {
	return d.doc
}

// operationFrame parses an operation definition.
// https://graphql.github.io/graphql-spec/June2018/#OperationDefinition
type operationFrame struct {
	shorthand bool
	op        *Operation
	stage     int
}

func (o *operationFrame) enter(p *parser) error {
	o.op = &Operation{Start: p.start(), Type: Query}
	if o.shorthand {
		return nil
	}
	switch {
	case p.r.MatchKeyword("query"):
		o.op.Type = Query
	case p.r.MatchKeyword("mutation"):
		o.op.Type = Mutation
	default:
		return p.expected("query or mutation")
	}
	if name, ok := p.r.ReadName(); ok {
		o.op.Name = name
	}
	return nil
}

func (o *operationFrame) step(p *parser) (action, error) {
	c, _ := p.r.Peek()
	switch {
	case o.stage < 1 && !o.shorthand && c == '(':
		o.stage = 1
		return pushFrame(new(variableDefinitionsFrame)), nil
	case o.stage < 2 && !o.shorthand && c == '@':
		o.stage = 2
		return pushFrame(new(directivesFrame)), nil
	case o.stage < 3 && c == '{':
		o.stage = 3
		return pushFrame(new(selectionSetFrame)), nil
	case o.stage < 3:
		return action{}, p.expected("selection set")
	default:
		return done, nil
	}
}

func (o *operationFrame) accept(p *parser, n interface{}) error {
	switch n := n.(type) {
	case []*VariableDefinition:
		o.op.Variables = n
	case []*Directive:
		o.op.Directives = n
	case *SelectionSet:
		o.op.SelectionSet = n
	}
	return nil
}

func (o *operationFrame) node() interface{} {
	return o.op
}

// variableDefinitionsFrame parses a parenthesized list of variable
// definitions.
// https://graphql.github.io/graphql-spec/June2018/#VariableDefinitions
type variableDefinitionsFrame struct {
	defs []*VariableDefinition
}

func (v *variableDefinitionsFrame) enter(p *parser) error {
	if !p.r.Match("(") {
		return p.expected("'('")
	}
	return nil
}

func (v *variableDefinitionsFrame) step(p *parser) (action, error) {
	c, ok := p.r.Peek()
	switch {
	case c == ')':
		if len(v.defs) == 0 {
			return action{}, p.errorf("variable definitions must not be empty")
		}
		p.r.Match(")")
		return done, nil
	case ok && c == '$':
		return pushFrame(new(variableDefinitionFrame)), nil
	default:
		return action{}, p.expected("variable definition or ')'")
	}
}

func (v *variableDefinitionsFrame) accept(p *parser, n interface{}) error {
	v.defs = append(v.defs, n.(*VariableDefinition))
	return nil
}

func (v *variableDefinitionsFrame) node() interface{} {
	return v.defs
}

// variableDefinitionFrame parses a single variable definition.
type variableDefinitionFrame struct {
	def   *VariableDefinition
	stage int
}

func (v *variableDefinitionFrame) enter(p *parser) error {
	dollar := p.start()
	if !p.r.Match("$") {
		return p.expected("'$'")
	}
	name, ok := p.r.ReadName()
	if !ok {
		return p.expected("variable name")
	}
	if !p.r.Match(":") {
		return p.expected("':'")
	}
	v.def = &VariableDefinition{Var: &Variable{Dollar: dollar, Name: name}}
	return nil
}

func (v *variableDefinitionFrame) step(p *parser) (action, error) {
	switch v.stage {
	case 0:
		v.stage = 1
		return pushFrame(new(typeFrame)), nil
	case 1:
		if p.r.Match("=") {
			v.stage = 2
			return pushFrame(&valueFrame{constant: true}), nil
		}
		return done, nil
	default:
		return done, nil
	}
}

func (v *variableDefinitionFrame) accept(p *parser, n interface{}) error {
	switch n := n.(type) {
	case *TypeRef:
		v.def.Type = n
	case *InputValue:
		v.def.Default = n
	}
	return nil
}

func (v *variableDefinitionFrame) node() interface{} {
	return v.def
}

// typeFrame parses a type reference.
// https://graphql.github.io/graphql-spec/June2018/#Type
type typeFrame struct {
	ref *TypeRef
}

func (t *typeFrame) enter(p *parser) error {
	start := p.start()
	if p.r.Match("[") {
		t.ref = &TypeRef{Start: start}
		return nil
	}
	name, ok := p.r.ReadName()
	if !ok {
		return p.expected("type")
	}
	t.ref = &TypeRef{Start: start, Named: name}
	return nil
}

func (t *typeFrame) step(p *parser) (action, error) {
	if t.ref.Named == nil {
		if t.ref.List == nil {
			return pushFrame(new(typeFrame)), nil
		}
		if !p.r.Match("]") {
			return action{}, p.expected("']'")
		}
	}
	if p.r.Match("!") {
		t.ref.NonNull = true
	}
	return done, nil
}

func (t *typeFrame) accept(p *parser, n interface{}) error {
	t.ref.List = n.(*TypeRef)
	return nil
}

func (t *typeFrame) node() interface{} {
	return t.ref
}

// directivesFrame parses one or more directives.
// https://graphql.github.io/graphql-spec/June2018/#Directives
type directivesFrame struct {
	dirs []*Directive
}

func (d *directivesFrame) enter(p *parser) error {
	return nil
}

func (d *directivesFrame) step(p *parser) (action, error) {
	if c, _ := p.r.Peek(); c == '@' {
		return pushFrame(new(directiveFrame)), nil
	}
	return done, nil
}

func (d *directivesFrame) accept(p *parser, n interface{}) error {
	d.dirs = append(d.dirs, n.(*Directive))
	return nil
}

func (d *directivesFrame) node() interface{} {
	return d.dirs
}

type directiveFrame struct {
	dir   *Directive
	stage int
}

func (d *directiveFrame) enter(p *parser) error {
	at := p.start()
	if !p.r.Match("@") {
		return p.expected("'@'")
	}
	name, ok := p.r.ReadName()
	if !ok {
		return p.expected("directive name")
	}
	d.dir = &Directive{At: at, Name: name}
	return nil
}

func (d *directiveFrame) step(p *parser) (action, error) {
	if c, _ := p.r.Peek(); d.stage == 0 && c == '(' {
		d.stage = 1
		return pushFrame(new(argumentsFrame)), nil
	}
	return done, nil
}

func (d *directiveFrame) accept(p *parser, n interface{}) error {
	d.dir.Arguments = n.(Arguments)
	return nil
}

func (d *directiveFrame) node() interface{} {
	return d.dir
}

// argumentsFrame parses a parenthesized list of arguments.
// https://graphql.github.io/graphql-spec/June2018/#Arguments
type argumentsFrame struct {
	args    Arguments
	pending *Name
}

func (a *argumentsFrame) enter(p *parser) error {
	if !p.r.Match("(") {
		return p.expected("'('")
	}
	return nil
}

func (a *argumentsFrame) step(p *parser) (action, error) {
	if c, _ := p.r.Peek(); c == ')' {
		if len(a.args) == 0 {
			return action{}, p.errorf("arguments must not be empty")
		}
		p.r.Match(")")
		return done, nil
	}
	name, ok := p.r.ReadName()
	if !ok {
		return action{}, p.expected("argument name or ')'")
	}
	if !p.r.Match(":") {
		return action{}, p.expected("':'")
	}
	a.pending = name
	return pushFrame(new(valueFrame)), nil
}

func (a *argumentsFrame) accept(p *parser, n interface{}) error {
	a.args = append(a.args, &Argument{Name: a.pending, Value: n.(*InputValue)})
	a.pending = nil
	return nil
}

func (a *argumentsFrame) node() interface{} {
	return a.args
}

// selectionSetFrame parses a braced selection set.
// https://graphql.github.io/graphql-spec/June2018/#SelectionSet
type selectionSetFrame struct {
	set *SelectionSet
}

func (s *selectionSetFrame) enter(p *parser) error {
	s.set = &SelectionSet{LBrace: p.start()}
	if !p.r.Match("{") {
		return p.expected("'{'")
	}
	return nil
}

func (s *selectionSetFrame) step(p *parser) (action, error) {
	c, ok := p.r.Peek()
	switch {
	case !ok:
		return action{}, p.expected("selection or '}'")
	case c == '}':
		if len(s.set.Sel) == 0 {
			return action{}, p.errorf("selection set must not be empty")
		}
		p.r.Match("}")
		return done, nil
	case strings.HasPrefix(p.r.rest(), "..."):
		return pushFrame(new(fragmentSelectionFrame)), nil
	default:
		return pushFrame(new(fieldFrame)), nil
	}
}

func (s *selectionSetFrame) accept(p *parser, n interface{}) error {
	s.set.Sel = append(s.set.Sel, n.(*Selection))
	return nil
}

func (s *selectionSetFrame) node() interface{} {
	return s.set
}

// fieldFrame parses a field selection.
// https://graphql.github.io/graphql-spec/June2018/#Field
type fieldFrame struct {
	f     *Field
	stage int
}

func (f *fieldFrame) enter(p *parser) error {
	name, ok := p.r.ReadName()
	if !ok {
		return p.expected("field name")
	}
	f.f = &Field{Name: name}
	if p.r.Match(":") {
		f.f.Alias = name
		if f.f.Name, ok = p.r.ReadName(); !ok {
			return p.expected("field name")
		}
	}
	return nil
}

func (f *fieldFrame) step(p *parser) (action, error) {
	c, _ := p.r.Peek()
	switch {
	case f.stage < 1 && c == '(':
		f.stage = 1
		return pushFrame(new(argumentsFrame)), nil
	case f.stage < 2 && c == '@':
		f.stage = 2
		return pushFrame(new(directivesFrame)), nil
	case f.stage < 3 && c == '{':
		f.stage = 3
		return pushFrame(new(selectionSetFrame)), nil
	default:
		return done, nil
	}
}

func (f *fieldFrame) accept(p *parser, n interface{}) error {
	switch n := n.(type) {
	case Arguments:
		f.f.Arguments = n
	case []*Directive:
		f.f.Directives = n
	case *SelectionSet:
		f.f.SelectionSet = n
	}
	return nil
}

func (f *fieldFrame) node() interface{} {
	return &Selection{Field: f.f}
}

// fragmentSelectionFrame parses a fragment spread or an inline fragment.
// "..." followed by a name other than "on" is a spread.
// https://graphql.github.io/graphql-spec/June2018/#sec-Language.Fragments
type fragmentSelectionFrame struct {
	spread *FragmentSpread
	inline *InlineFragment
	stage  int
}

func (f *fragmentSelectionFrame) enter(p *parser) error {
	ellipsis := p.start()
	if !p.r.Match("...") {
		return p.expected("'...'")
	}
	if name, ok := p.r.PeekName(); ok && name != "on" {
		spreadName, _ := p.r.ReadName()
		f.spread = &FragmentSpread{Ellipsis: ellipsis, Name: spreadName}
		return nil
	}
	f.inline = &InlineFragment{Ellipsis: ellipsis}
	if p.r.MatchKeyword("on") {
		cond, ok := p.r.ReadName()
		if !ok {
			return p.expected("type condition")
		}
		f.inline.TypeCondition = cond
	}
	return nil
}

func (f *fragmentSelectionFrame) step(p *parser) (action, error) {
	c, _ := p.r.Peek()
	switch {
	case f.stage < 1 && c == '@':
		f.stage = 1
		return pushFrame(new(directivesFrame)), nil
	case f.spread != nil:
		return done, nil
	case f.stage < 2 && c == '{':
		f.stage = 2
		return pushFrame(new(selectionSetFrame)), nil
	case f.stage < 2:
		return action{}, p.expected("selection set")
	default:
		return done, nil
	}
}

func (f *fragmentSelectionFrame) accept(p *parser, n interface{}) error {
	switch n := n.(type) {
	case []*Directive:
		if f.spread != nil {
			f.spread.Directives = n
		} else {
			f.inline.Directives = n
		}
	case *SelectionSet:
		f.inline.SelectionSet = n
	}
	return nil
}

func (f *fragmentSelectionFrame) node() interface{} {
	if f.spread != nil {
		return &Selection{FragmentSpread: f.spread}
	}
	return &Selection{InlineFragment: f.inline}
}

// fragmentFrame parses a fragment definition.
// https://graphql.github.io/graphql-spec/June2018/#FragmentDefinition
type fragmentFrame struct {
	frag  *Fragment
	stage int
}

func (f *fragmentFrame) enter(p *parser) error {
	f.frag = &Fragment{Keyword: p.start()}
	if !p.r.MatchKeyword("fragment") {
		return p.expected("fragment")
	}
	var ok bool
	if f.frag.Name, ok = p.r.ReadName(); !ok {
		return p.expected("fragment name")
	}
	if f.frag.Name.Value == "on" {
		return p.errorAt(f.frag.Name.Start, `fragment must not be named "on"`)
	}
	if !p.r.MatchKeyword("on") {
		return p.expected("'on'")
	}
	if f.frag.TypeCondition, ok = p.r.ReadName(); !ok {
		return p.expected("type condition")
	}
	return nil
}

func (f *fragmentFrame) step(p *parser) (action, error) {
	c, _ := p.r.Peek()
	switch {
	case f.stage < 1 && c == '@':
		f.stage = 1
		return pushFrame(new(directivesFrame)), nil
	case f.stage < 2 && c == '{':
		f.stage = 2
		return pushFrame(new(selectionSetFrame)), nil
	case f.stage < 2:
		return action{}, p.expected("selection set")
	default:
		return done, nil
	}
}

func (f *fragmentFrame) accept(p *parser, n interface{}) error {
	switch n := n.(type) {
	case []*Directive:
		f.frag.Directives = n
	case *SelectionSet:
		f.frag.SelectionSet = n
	}
	return nil
}

func (f *fragmentFrame) node() interface{} {
	return f.frag
}

// valueFrame parses an input value. Scalars are read entirely on entry;
// lists and input objects push a frame per element.
// https://graphql.github.io/graphql-spec/June2018/#Value
type valueFrame struct {
	// constant forbids variable references.
	constant bool

	v       *InputValue
	pending *Name
}

func (vf *valueFrame) enter(p *parser) error {
	start := p.start()
	c, ok := p.r.Peek()
	switch {
	case !ok:
		return p.expected("value")
	case c == '$':
		if vf.constant {
			return p.errorf("variables are not allowed in constant values")
		}
		p.r.Match("$")
		name, ok := p.r.ReadName()
		if !ok {
			return p.expected("variable name")
		}
		vf.v = &InputValue{VariableRef: &Variable{Dollar: start, Name: name}}
	case c == '"':
		s, err := p.stringLiteral()
		if err != nil {
			return err
		}
		vf.v = &InputValue{Scalar: &ScalarValue{Start: start, Type: StringScalar, Value: s}}
	case c == '[':
		p.r.Match("[")
		vf.v = &InputValue{List: &ListValue{LBracket: start}}
	case c == '{':
		p.r.Match("{")
		vf.v = &InputValue{InputObject: &InputObjectValue{LBrace: start}}
	case isNameChar(c):
		name, _ := p.r.ReadName()
		switch name.Value {
		case "null":
			vf.v = &InputValue{Null: name}
		case "true", "false":
			vf.v = &InputValue{Scalar: &ScalarValue{Start: start, Type: BooleanScalar, Value: name.Value}}
		default:
			vf.v = &InputValue{Scalar: &ScalarValue{Start: start, Type: EnumScalar, Value: name.Value}}
		}
	case c == '-' || isDigit(c):
		return vf.number(p, start)
	default:
		return p.expected("value")
	}
	return nil
}

func (vf *valueFrame) number(p *parser, start Pos) error {
	typ := FloatScalar
	s, ok := p.r.MatchRegexp(floatPattern)
	if !ok {
		typ = IntScalar
		if s, ok = p.r.MatchRegexp(intPattern); !ok {
			return p.expected("value")
		}
	}
	if c, ok := p.r.peekRaw(); ok && (isNameChar(c) || isDigit(c) || c == '.') {
		return p.errorf("invalid number %q", s+string(c))
	}
	vf.v = &InputValue{Scalar: &ScalarValue{Start: start, Type: typ, Value: s}}
	return nil
}

func (vf *valueFrame) step(p *parser) (action, error) {
	switch {
	case vf.v.List != nil:
		if p.r.Match("]") {
			return done, nil
		}
		if p.r.EOF() {
			return action{}, p.expected("value or ']'")
		}
		return pushFrame(&valueFrame{constant: vf.constant}), nil
	case vf.v.InputObject != nil:
		if p.r.Match("}") {
			return done, nil
		}
		name, ok := p.r.ReadName()
		if !ok {
			return action{}, p.expected("field name or '}'")
		}
		if !p.r.Match(":") {
			return action{}, p.expected("':'")
		}
		vf.pending = name
		return pushFrame(&valueFrame{constant: vf.constant}), nil
	default:
		return done, nil
	}
}

func (vf *valueFrame) accept(p *parser, n interface{}) error {
	elem := n.(*InputValue)
	if vf.v.List != nil {
		vf.v.List.Values = append(vf.v.List.Values, elem)
		return nil
	}
	vf.v.InputObject.Fields = append(vf.v.InputObject.Fields, &InputObjectField{
		Name:  vf.pending,
		Value: elem,
	})
	vf.pending = nil
	return nil
}

func (vf *valueFrame) node() interface{} {
	return vf.v
}

// stringLiteral reads a double-quoted string, decoding its escape sequences.
// https://graphql.github.io/graphql-spec/June2018/#StringValue
func (p *parser) stringLiteral() (string, error) {
	if !p.r.Match(`"`) {
		return "", p.expected("string")
	}
	sb := new(strings.Builder)
	for {
		c, ok := p.r.peekRaw()
		if !ok || c == '\n' || c == '\r' {
			return "", p.errorf("unterminated string")
		}
		p.r.readRaw()
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			e, ok := p.r.readRaw()
			if !ok {
				return "", p.errorf("unterminated string")
			}
			switch e {
			case '"', '\\', '/':
				sb.WriteByte(e)
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				hex, ok := p.r.rawString(4)
				if !ok {
					return "", p.errorf("unterminated string")
				}
				codePoint, err := strconv.ParseUint(hex, 16, 16)
				if err != nil {
					return "", p.errorf("invalid unicode escape \\u%s", hex)
				}
				cp := rune(codePoint)
				if utf16.IsSurrogate(cp) {
					if low, ok := escapedCodeUnit(p.r.rest()); ok {
						if pair := utf16.DecodeRune(cp, low); pair != utf8.RuneError {
							p.r.rawString(len(`\u0000`))
							cp = pair
						}
					}
				}
				sb.WriteRune(cp)
			default:
				return "", p.errorf("invalid escape sequence \\%c", e)
			}
		default:
			sb.WriteByte(c)
		}
	}
}

// escapedCodeUnit decodes a \uXXXX escape at the start of s without
// consuming it.
func escapedCodeUnit(s string) (rune, bool) {
	if len(s) < len(`\u0000`) || !strings.HasPrefix(s, `\u`) {
		return 0, false
	}
	n, err := strconv.ParseUint(s[2:6], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

// ParseError describes a syntax error in a GraphQL document.
type ParseError struct {
	Msg string
	Pos Pos
	// Line and Column are 1-based.
	Line   int
	Column int
	// Lines holds up to three lines of source around the error:
	// the previous line, the offending line, and the next line.
	Lines []string
}

// Error returns the message prefixed by the "line:col" of the error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// ErrorPos attempts to extract an error's Pos.
func ErrorPos(e error) (pos Pos, ok bool) {
	var pe *ParseError
	if !xerrors.As(e, &pe) {
		return 0, false
	}
	return pe.Pos, true
}

// ErrorPosition attempts to extract an error's Position.
func ErrorPosition(e error) (p Position, ok bool) {
	var pe *ParseError
	if !xerrors.As(e, &pe) {
		return Position{}, false
	}
	return Position{Line: pe.Line, Column: pe.Column}, true
}
