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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-engine/internal/gqlang"
)

// ParseError is returned when a query document is not syntactically valid.
type ParseError struct {
	Message string
	Line    int
	Column  int

	// Lines holds up to three lines of the source around the error.
	Lines []string
}

func newParseError(err error) error {
	var pe *gqlang.ParseError
	if !xerrors.As(err, &pe) {
		return err
	}
	return &ParseError{
		Message: pe.Msg,
		Line:    pe.Line,
		Column:  pe.Column,
		Lines:   pe.Lines,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %d:%d: %s", e.Line, e.Column, e.Message)
}

// Excerpt returns the source lines around the error with a caret under the
// offending column.
func (e *ParseError) Excerpt() string {
	sb := new(strings.Builder)
	for i, line := range e.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
		if e.lineNumber(i) == e.Line {
			sb.WriteString(strings.Repeat(" ", e.Column-1))
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

// lineNumber returns the 1-based line number of e.Lines[i].
func (e *ParseError) lineNumber(i int) int {
	first := e.Line - 1
	if first < 1 {
		first = 1
	}
	return first + i
}

// SchemaError is returned when a schema declaration is inconsistent.
type SchemaError struct {
	err error
}

func (e *SchemaError) Error() string {
	return "schema: " + e.err.Error()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.err
}

// ValidationError is returned when a query is syntactically valid but
// semantically wrong for the schema, or its variables cannot be bound.
type ValidationError struct {
	Message   string
	Locations []Location
}

func (e *ValidationError) Error() string {
	if len(e.Locations) == 0 {
		return "validate: " + e.Message
	}
	return fmt.Sprintf("validate: %v: %s", e.Locations[0], e.Message)
}

// ResolverError is returned when a resolver fails. The message never includes
// the resolver's error text; use xerrors.Unwrap or xerrors.As to inspect it.
type ResolverError struct {
	Path []PathSegment
	err  error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("%s: internal error", formatPath(e.Path))
}

// Unwrap returns the error the resolver returned.
func (e *ResolverError) Unwrap() error {
	return e.err
}

// CompatibilityError is returned when a resolver produces a value that does
// not fit the schema, like a string for an Int field or a resolver whose type
// name is not allowed at its position.
type CompatibilityError struct {
	Path    []PathSegment
	Message string
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("%s: %s", formatPath(e.Path), e.Message)
}

// Location identifies a position in a GraphQL document. Line and column
// are 1-based.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func astPositionToLocation(pos gqlang.Position) Location {
	return Location{
		Line:   pos.Line,
		Column: pos.Column,
	}
}

// String returns the location in the form "line:col".
func (loc Location) String() string {
	return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
}

// PathSegment identifies a field or array index in an output object.
type PathSegment struct {
	Field     string
	ListIndex int
}

// String returns the segment's index or field name as a string.
func (seg PathSegment) String() string {
	if seg.Field == "" {
		return strconv.Itoa(seg.ListIndex)
	}
	return seg.Field
}

// MarshalJSON converts the segment to a JSON integer or a JSON string.
func (seg PathSegment) MarshalJSON() ([]byte, error) {
	if seg.Field == "" {
		return strconv.AppendInt(nil, int64(seg.ListIndex), 10), nil
	}
	return json.Marshal(seg.Field)
}

// UnmarshalJSON converts JSON strings into field segments and JSON numbers into
// list index segments.
func (seg *PathSegment) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(data, []byte(`"`)) {
		i, err := json.Number(string(data)).Int64()
		if err != nil {
			return err
		}
		seg.ListIndex = int(i)
		return nil
	}
	err := json.Unmarshal(data, &seg.Field)
	return err
}

// formatPath joins a path with dots, like "hero.friends.0.name".
func formatPath(path []PathSegment) string {
	if len(path) == 0 {
		return "<root>"
	}
	parts := make([]string, len(path))
	for i, seg := range path {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// appendPath returns a new path with seg appended. The original slice is
// never modified so paths can be shared between sibling fields.
func appendPath(path []PathSegment, seg PathSegment) []PathSegment {
	newPath := make([]PathSegment, len(path), len(path)+1)
	copy(newPath, path)
	return append(newPath, seg)
}
