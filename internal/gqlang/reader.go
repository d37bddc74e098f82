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
	"strings"
)

// A Reader is a position-aware cursor over a GraphQL document. Methods that
// look for significant input first skip whitespace, commas, and comments.
// Skipped characters are never seen again.
type Reader struct {
	input string
	pos   int

	// line is the 1-based line number of pos and lineStart is the offset of
	// the first byte of that line.
	line      int
	lineStart int
}

// NewReader returns a reader positioned at the start of input.
func NewReader(input string) *Reader {
	r := &Reader{input: input, line: 1}
	if strings.HasPrefix(input, bom) {
		r.advance(len(bom))
		r.lineStart = r.pos
	}
	return r
}

// Pos returns the reader's current byte offset.
func (r *Reader) Pos() Pos {
	return Pos(r.pos)
}

// Position returns the line and column of the reader's current offset.
// The column is derived from the most recent newline.
func (r *Reader) Position() Position {
	return Position{Line: r.line, Column: r.pos - r.lineStart + 1}
}

// EOF skips insignificant characters and reports whether any input remains.
func (r *Reader) EOF() bool {
	r.skipIgnored()
	return r.pos >= len(r.input)
}

// Peek returns the next significant character without consuming it.
func (r *Reader) Peek() (byte, bool) {
	r.skipIgnored()
	if r.pos >= len(r.input) {
		return 0, false
	}
	return r.input[r.pos], true
}

// Match consumes lit if it is the next significant input.
func (r *Reader) Match(lit string) bool {
	r.skipIgnored()
	if !strings.HasPrefix(r.rest(), lit) {
		return false
	}
	r.advance(len(lit))
	return true
}

// MatchKeyword consumes kw if it is the next significant input and is not
// merely the prefix of a longer name.
func (r *Reader) MatchKeyword(kw string) bool {
	r.skipIgnored()
	rest := r.rest()
	if !strings.HasPrefix(rest, kw) {
		return false
	}
	if len(rest) > len(kw) && (isNameChar(rest[len(kw)]) || isDigit(rest[len(kw)])) {
		return false
	}
	r.advance(len(kw))
	return true
}

// LookingAt reports whether re matches at the start of the remaining
// significant input.
func (r *Reader) LookingAt(re *regexp.Regexp) bool {
	r.skipIgnored()
	loc := re.FindStringIndex(r.rest())
	return loc != nil && loc[0] == 0
}

// MatchRegexp consumes and returns the text re matches at the start of the
// remaining significant input.
func (r *Reader) MatchRegexp(re *regexp.Regexp) (string, bool) {
	r.skipIgnored()
	loc := re.FindStringIndex(r.rest())
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	return r.advance(loc[1]), true
}

// PeekName returns the next significant name without consuming it.
func (r *Reader) PeekName() (string, bool) {
	r.skipIgnored()
	n := r.nameLen()
	if n == 0 {
		return "", false
	}
	return r.input[r.pos : r.pos+n], true
}

// ReadName consumes the next significant name.
// https://graphql.github.io/graphql-spec/June2018/#Name
func (r *Reader) ReadName() (*Name, bool) {
	r.skipIgnored()
	n := r.nameLen()
	if n == 0 {
		return nil, false
	}
	start := r.Pos()
	return &Name{Value: r.advance(n), Start: start}, true
}

func (r *Reader) nameLen() int {
	rest := r.rest()
	if len(rest) == 0 || !isNameChar(rest[0]) {
		return 0
	}
	n := 1
	for n < len(rest) && (isNameChar(rest[n]) || isDigit(rest[n])) {
		n++
	}
	return n
}

// readRaw consumes the next byte without skipping anything.
// It is used inside string literals, where every character is significant.
func (r *Reader) readRaw() (byte, bool) {
	if r.pos >= len(r.input) {
		return 0, false
	}
	c := r.input[r.pos]
	r.advance(1)
	return c, true
}

// peekRaw returns the next byte without skipping anything.
func (r *Reader) peekRaw() (byte, bool) {
	if r.pos >= len(r.input) {
		return 0, false
	}
	return r.input[r.pos], true
}

// rawString consumes exactly n bytes without skipping anything.
func (r *Reader) rawString(n int) (string, bool) {
	if r.pos+n > len(r.input) {
		return "", false
	}
	return r.advance(n), true
}

// Lines returns up to three lines of source around the reader's current
// line: the previous line, the current line, and the next line.
func (r *Reader) Lines() []string {
	return sourceLines(r.input, r.line)
}

func (r *Reader) rest() string {
	return r.input[r.pos:]
}

func (r *Reader) advance(n int) string {
	s := r.input[r.pos : r.pos+n]
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if j := r.pos + i + 1; j < len(r.input) && r.input[j] == '\n' {
				continue
			}
			fallthrough
		case '\n':
			r.line++
			r.lineStart = r.pos + i + 1
		}
	}
	r.pos += n
	return s
}

// skipIgnored skips any ignored tokens.
// https://graphql.github.io/graphql-spec/June2018/#sec-Source-Text.Ignored-Tokens
func (r *Reader) skipIgnored() {
	for r.pos < len(r.input) {
		switch r.input[r.pos] {
		case ' ', '\t', '\r', '\n', ',':
			r.advance(1)
		case bom[0]:
			if !strings.HasPrefix(r.rest(), bom) {
				return
			}
			r.advance(len(bom))
		case '#':
			i := strings.IndexAny(r.rest(), "\n\r")
			if i == -1 {
				r.advance(len(r.rest()))
				return
			}
			r.advance(i)
		default:
			return
		}
	}
}

// sourceLines returns the lines numbered line-1, line, and line+1 that exist
// in input. line is 1-based.
func sourceLines(input string, line int) []string {
	all := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	var lines []string
	for n := line - 1; n <= line+1; n++ {
		if n < 1 || n > len(all) {
			continue
		}
		lines = append(lines, all[n-1])
	}
	return lines
}

// A Pos is a 0-based byte offset in a GraphQL document.
type Pos int

// ToPosition converts a byte position into a line and column number.
func (pos Pos) ToPosition(input string) Position {
	line, col := 1, 1
	for i := 0; i < int(pos) && i < len(input); i++ {
		switch input[i] {
		case bom[0]:
			if !strings.HasPrefix(input[i:], bom) {
				col++
				continue
			}
			i += len(bom) - 1
		case '\r':
			if strings.HasPrefix(input[i:], "\r\n") {
				continue
			}
			fallthrough
		case '\n':
			line++
			col = 1
		default:
			col++
		}
	}
	return Position{line, col}
}

// A Position is a line/column pair. Both are 1-based.
// The column is byte-based.
type Position struct {
	Line   int
	Column int
}

// String returns p in the form "line:col".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// isNameChar reports whether c could occur at any position in a name.
// https://graphql.github.io/graphql-spec/June2018/#Name
func isNameChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

const bom = "\ufeff"
