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
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/google/go-cmp/cmp"
)

const starWarsSchema = `
	type Query {
		hero(episode: Episode = NEWHOPE): Character
		human(id: ID!): Human
		search(text: String!): [SearchResult!]!
		echo(value: Int = 5, flag: Boolean = false): Int
		lookup(key: String): Int
	}

	enum Episode { NEWHOPE EMPIRE JEDI }

	interface Character {
		id: ID!
		name: String!
		friends: [Character]
	}

	type Human implements Character {
		id: ID!
		name: String!
		friends: [Character]
		height: Float
	}

	type Droid implements Character {
		id: ID!
		name: String!
		friends: [Character]
		primaryFunction: String
	}

	union SearchResult = Human | Droid
`

func TestValidate(t *testing.T) {
	schema, err := ParseSchema(starWarsSchema)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		query   string
		opName  string
		vars    map[string]interface{}
		wantErr *ValidationError
	}{
		{
			name: "Valid",
			query: heredoc.Doc(`
				query Hero($ep: Episode, $withFriends: Boolean!) {
					hero(episode: $ep) {
						name
						...HumanFields
						friends @include(if: $withFriends) {
							name
						}
						... on Droid {
							primaryFunction
						}
					}
				}

				fragment HumanFields on Human {
					height
				}
			`),
			vars: map[string]interface{}{"withFriends": true},
		},
		{
			name: "UnknownField",
			query: heredoc.Doc(`
				{
					hero {
						nam
					}
				}
			`),
			wantErr: &ValidationError{
				Message:   `field "nam" not found on type Character`,
				Locations: []Location{{3, 3}},
			},
		},
		{
			name: "MissingSubselection",
			query: heredoc.Doc(`
				{
					hero
				}
			`),
			wantErr: &ValidationError{
				Message:   `field "hero" of type Character must have a selection of subfields`,
				Locations: []Location{{2, 2}},
			},
		},
		{
			name: "LeafWithSubselection",
			query: heredoc.Doc(`
				{
					hero {
						name {
							first
						}
					}
				}
			`),
			wantErr: &ValidationError{
				Message:   `field "name" of type String! must not have a selection of subfields`,
				Locations: []Location{{3, 8}},
			},
		},
		{
			name: "FieldOnUnion",
			query: heredoc.Doc(`
				{
					search(text: "x") {
						name
					}
				}
			`),
			wantErr: &ValidationError{
				Message:   `cannot query field "name" on union SearchResult; use a fragment`,
				Locations: []Location{{3, 3}},
			},
		},
		{
			name: "FragmentOnUnion",
			query: heredoc.Doc(`
				{
					search(text: "x") {
						... on Human {
							name
						}
					}
				}
			`),
		},
		{
			name: "MissingRequiredArgument",
			query: heredoc.Doc(`
				{
					human {
						name
					}
				}
			`),
			wantErr: &ValidationError{
				Message:   `missing required argument "id" on field Query.human`,
				Locations: []Location{{2, 2}},
			},
		},
		{
			name: "MissingNullableArgument",
			query: heredoc.Doc(`
				{
					lookup
				}
			`),
			wantErr: &ValidationError{
				Message:   `missing required argument "key" on field Query.lookup`,
				Locations: []Location{{2, 2}},
			},
		},
		{
			name:  "NullArgument",
			query: `{ lookup(key: null) }`,
		},
		{
			name: "UnknownArgument",
			query: heredoc.Doc(`
				{
					echo(valu: 1)
				}
			`),
			wantErr: &ValidationError{
				Message:   `unknown argument "valu" on field Query.echo`,
				Locations: []Location{{2, 7}},
			},
		},
		{
			name: "WrongArgumentType",
			query: heredoc.Doc(`
				{
					echo(value: "five")
				}
			`),
			wantErr: &ValidationError{
				Message:   `argument "value" on field Query.echo: "five" is not assignable to type Int`,
				Locations: []Location{{2, 14}},
			},
		},
		{
			name:  "MultipleOperationsWithoutName",
			query: "query A { echo }\nquery B { echo }",
			wantErr: &ValidationError{
				Message: "must specify operation name: document contains multiple operations",
			},
		},
		{
			name:   "MultipleOperationsWithName",
			query:  "query A { echo }\nquery B { echo }",
			opName: "B",
		},
		{
			name:   "UndefinedOperation",
			query:  "query A { echo }",
			opName: "B",
			wantErr: &ValidationError{
				Message: `operation "B" not defined`,
			},
		},
		{
			name:  "Mutation",
			query: "mutation { echo }",
			wantErr: &ValidationError{
				Message:   "schema does not support mutations",
				Locations: []Location{{1, 1}},
			},
		},
		{
			name: "UndefinedFragment",
			query: heredoc.Doc(`
				{
					hero {
						...Missing
					}
				}
			`),
			wantErr: &ValidationError{
				Message:   `fragment "Missing" not defined`,
				Locations: []Location{{3, 6}},
			},
		},
		{
			name: "FragmentCycle",
			query: heredoc.Doc(`
				{
					hero {
						...A
					}
				}

				fragment A on Character {
					...B
				}

				fragment B on Character {
					...A
				}
			`),
			wantErr: &ValidationError{
				Message:   `fragment "A" spreads itself`,
				Locations: []Location{{12, 5}},
			},
		},
		{
			name: "FragmentOnLeafType",
			query: heredoc.Doc(`
				{
					search(text: "x") {
						... on Episode {
							name
						}
					}
				}
			`),
			wantErr: &ValidationError{
				Message:   "cannot spread fragment on non-composite type Episode",
				Locations: []Location{{3, 10}},
			},
		},
		{
			name: "UnknownDirective",
			query: heredoc.Doc(`
				{
					echo @cached
				}
			`),
			wantErr: &ValidationError{
				Message:   "unknown directive @cached",
				Locations: []Location{{2, 7}},
			},
		},
		{
			name: "DirectiveMissingIf",
			query: heredoc.Doc(`
				{
					echo @skip
				}
			`),
			wantErr: &ValidationError{
				Message:   `missing required argument "if" on directive @skip`,
				Locations: []Location{{2, 7}},
			},
		},
		{
			name: "VariableTypeMismatch",
			query: heredoc.Doc(`
				query($flag: Boolean) {
					hero(episode: $flag) {
						name
					}
				}
			`),
			wantErr: &ValidationError{
				Message:   `argument "episode" on field Query.hero: $flag is not assignable to type Episode`,
				Locations: []Location{{2, 16}},
			},
		},
		{
			name:  "NonNullVariableMissing",
			query: `query($id: ID!) { human(id: $id) { name } }`,
			wantErr: &ValidationError{
				Message:   "variable $id: required variable of type ID! was not provided",
				Locations: []Location{{1, 7}},
			},
		},
		{
			name:  "NullableVariableWithValue",
			query: `query($id: ID) { human(id: $id) { name } }`,
			vars:  map[string]interface{}{"id": "1000"},
		},
		{
			name:  "NullableVariableWithoutValue",
			query: `query($id: ID) { human(id: $id) { name } }`,
			wantErr: &ValidationError{
				Message:   `argument "id" on field Query.human: $id is not assignable to type ID!`,
				Locations: []Location{{1, 28}},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := schema.Validate(test.query, test.vars, test.opName)
			if test.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			got, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate(...) = %v (%T); want *ValidationError", err, err)
			}
			if diff := cmp.Diff(test.wantErr, got); diff != "" {
				t.Errorf("error (-want +got):\n%s", diff)
			}
		})
	}
}
