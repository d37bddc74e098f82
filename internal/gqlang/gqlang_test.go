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

import "testing"

func TestTypeRefString(t *testing.T) {
	for _, s := range []string{"Int", "Int!", "[Int]", "[Int!]!", "[[Foo]!]"} {
		ref, err := ParseType(s)
		if err != nil {
			t.Errorf("ParseType(%q): %v", s, err)
			continue
		}
		if got := ref.String(); got != s {
			t.Errorf("ParseType(%q).String() = %q", s, got)
		}
	}
}

func TestFindOperation(t *testing.T) {
	single, err := Parse("{ a }")
	if err != nil {
		t.Fatal(err)
	}
	if op := single.FindOperation(""); op == nil {
		t.Error(`single.FindOperation("") = nil`)
	}
	if op := single.FindOperation("Foo"); op != nil {
		t.Errorf(`single.FindOperation("Foo") = %+v; want nil`, op)
	}

	multi, err := Parse("query A { a } mutation B { b }")
	if err != nil {
		t.Fatal(err)
	}
	if op := multi.FindOperation(""); op != nil {
		t.Errorf(`multi.FindOperation("") = %+v; want nil`, op)
	}
	if op := multi.FindOperation("B"); op == nil || op.Type != Mutation {
		t.Errorf(`multi.FindOperation("B") = %+v; want mutation B`, op)
	}
}

func TestSelectionAccessors(t *testing.T) {
	doc, err := Parse("{ x: a @skip(if: true) b ... on T @include(if: false) { c } }")
	if err != nil {
		t.Fatal(err)
	}
	sel := doc.Operations[0].SelectionSet.Sel
	if got := sel[0].Field.Key(); got != "x" {
		t.Errorf("aliased Key() = %q; want \"x\"", got)
	}
	if got := sel[1].Field.Key(); got != "b" {
		t.Errorf("Key() = %q; want \"b\"", got)
	}
	if dirs := sel[0].Directives(); len(dirs) != 1 || dirs[0].Name.Value != "skip" {
		t.Errorf("sel[0].Directives() = %v; want [@skip]", dirs)
	}
	if dirs := sel[1].Directives(); len(dirs) != 0 {
		t.Errorf("sel[1].Directives() = %v; want none", dirs)
	}
	if dirs := sel[2].Directives(); len(dirs) != 1 || dirs[0].Name.Value != "include" {
		t.Errorf("sel[2].Directives() = %v; want [@include]", dirs)
	}
	if got, want := sel[2].Start(), Pos(25); got != want {
		t.Errorf("sel[2].Start() = %d; want %d", got, want)
	}
}
