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
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLeafValue(t *testing.T) {
	colorInfo, err := buildEnum(&EnumDecl{Name: "Color", Values: []string{"RED", "GREEN"}})
	if err != nil {
		t.Fatal(err)
	}
	colorType := newEnumType(colorInfo)
	tests := []struct {
		name    string
		goValue reflect.Value
		typ     *Type
		want    valueExpectations
	}{
		{
			name:    "String/Empty",
			goValue: reflect.ValueOf(""),
			typ:     stringType,
			want:    valueExpectations{scalar: ""},
		},
		{
			name:    "String/Nonempty",
			goValue: reflect.ValueOf("foo"),
			typ:     stringType,
			want:    valueExpectations{scalar: "foo"},
		},
		{
			name:    "String/Null",
			goValue: reflect.ValueOf(new(*string)).Elem(),
			typ:     stringType,
			want:    valueExpectations{null: true},
		},
		{
			name:    "String/Pointer",
			goValue: reflect.ValueOf(stringPtr("bar")),
			typ:     stringType,
			want:    valueExpectations{scalar: "bar"},
		},
		{
			name:    "Boolean/True",
			goValue: reflect.ValueOf(true),
			typ:     booleanType,
			want:    valueExpectations{scalar: "true"},
		},
		{
			name:    "Boolean/False",
			goValue: reflect.ValueOf(false),
			typ:     booleanType,
			want:    valueExpectations{scalar: "false"},
		},
		{
			name:    "Boolean/Null",
			goValue: reflect.ValueOf(new(*bool)).Elem(),
			typ:     booleanType,
			want:    valueExpectations{null: true},
		},
		{
			name:    "Integer/Int32/Positive",
			goValue: reflect.ValueOf(int32(123)),
			typ:     intType,
			want:    valueExpectations{scalar: "123"},
		},
		{
			name:    "Integer/Int32/Negative",
			goValue: reflect.ValueOf(int32(-123)),
			typ:     intType,
			want:    valueExpectations{scalar: "-123"},
		},
		{
			name:    "Integer/Int/Zero",
			goValue: reflect.ValueOf(int(0)),
			typ:     intType,
			want:    valueExpectations{scalar: "0"},
		},
		{
			name:    "Integer/Uint8",
			goValue: reflect.ValueOf(uint8(7)),
			typ:     intType,
			want:    valueExpectations{scalar: "7"},
		},
		{
			name:    "Integer/Null",
			goValue: reflect.ValueOf(new(*int)).Elem(),
			typ:     intType,
			want:    valueExpectations{null: true},
		},
		{
			name:    "Float",
			goValue: reflect.ValueOf(2.5),
			typ:     floatType,
			want:    valueExpectations{scalar: "2.5"},
		},
		{
			name:    "ID/String",
			goValue: reflect.ValueOf("abc"),
			typ:     idType,
			want:    valueExpectations{scalar: "abc"},
		},
		{
			name:    "ID/Int",
			goValue: reflect.ValueOf(int64(1000)),
			typ:     idType,
			want:    valueExpectations{scalar: "1000"},
		},
		{
			name:    "Enum",
			goValue: reflect.ValueOf("GREEN"),
			typ:     colorType,
			want:    valueExpectations{scalar: "GREEN"},
		},
		{
			name:    "Nullable/Valid",
			goValue: reflect.ValueOf(NullInt{Int: 42, Valid: true}),
			typ:     intType,
			want:    valueExpectations{scalar: "42"},
		},
		{
			name:    "Nullable/Null",
			goValue: reflect.ValueOf(NullString{}),
			typ:     stringType,
			want:    valueExpectations{null: true},
		},
		{
			name:    "List",
			goValue: reflect.ValueOf([]int{1, 2, 3}),
			typ:     intType.NonNull().ListOf(),
			want: valueExpectations{list: []valueExpectations{
				{scalar: "1"},
				{scalar: "2"},
				{scalar: "3"},
			}},
		},
		{
			name:    "List/Nested",
			goValue: reflect.ValueOf([][]string{{"a"}, nil}),
			typ:     stringType.ListOf().ListOf(),
			want: valueExpectations{list: []valueExpectations{
				{list: []valueExpectations{{scalar: "a"}}},
				{null: true},
			}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if !isAssignable(test.goValue, test.typ) {
				t.Fatalf("isAssignable(%v, %v) = false", test.goValue, test.typ)
			}
			got := leafValue(test.goValue, test.typ)
			test.want.check(t, got)
		})
	}
}

func stringPtr(s string) *string {
	return &s
}

type valueExpectations struct {
	null   bool
	scalar string
	list   []valueExpectations
}

func (expect *valueExpectations) check(e errorfer, v Value) {
	if gotNull := v.IsNull(); gotNull != expect.null {
		e.Errorf("v.IsNull() = %t; want %t", gotNull, expect.null)
	}
	if gotScalar := v.Scalar(); gotScalar != expect.scalar {
		e.Errorf("v.Scalar() = %q; want %q", gotScalar, expect.scalar)
	}
	if expect.list == nil {
		return
	}
	if v.Len() != len(expect.list) {
		e.Errorf("v.Len() = %d; want %d", v.Len(), len(expect.list))
		return
	}
	for i := range expect.list {
		expect.list[i].check(e, v.At(i))
	}
}

type errorfer interface {
	Errorf(format string, arguments ...interface{})
}

func TestValueAccessors(t *testing.T) {
	v := Value{val: []Field{
		{Key: "name", Value: Value{val: "R2-D2"}},
		{Key: "height", Value: Value{val: 1.09}},
		{Key: "friends", Value: Value{val: []Value{
			{val: []Field{{Key: "name", Value: Value{val: "Luke"}}}},
		}}},
		{Key: "rank", Value: Value{}},
	}}
	if got := v.NumFields(); got != 4 {
		t.Errorf("NumFields() = %d; want 4", got)
	}
	if got := v.Field(1).Key; got != "height" {
		t.Errorf("Field(1).Key = %q; want \"height\"", got)
	}
	if got := v.ValueFor("name").Scalar(); got != "R2-D2" {
		t.Errorf("ValueFor(\"name\").Scalar() = %q; want \"R2-D2\"", got)
	}
	if got := v.ValueFor("height").Scalar(); got != "1.09" {
		t.Errorf("ValueFor(\"height\").Scalar() = %q; want \"1.09\"", got)
	}
	if !v.ValueFor("rank").IsNull() {
		t.Error("ValueFor(\"rank\") is not null")
	}
	if !v.ValueFor("nope").IsNull() {
		t.Error("ValueFor(\"nope\") is not null")
	}
	friends := v.ValueFor("friends")
	if got := friends.Len(); got != 1 {
		t.Fatalf("friends.Len() = %d; want 1", got)
	}
	if got := friends.At(0).ValueFor("name").Scalar(); got != "Luke" {
		t.Errorf("friends.At(0).name = %q; want \"Luke\"", got)
	}
	if got := (Value{}).NumFields(); got != 0 {
		t.Errorf("null NumFields() = %d; want 0", got)
	}
	if got := (Value{}).Len(); got != 0 {
		t.Errorf("null Len() = %d; want 0", got)
	}
	if !(Value{val: true}).Boolean() || (Value{val: "true"}).Boolean() {
		t.Error("Boolean() only reports true for the Boolean true")
	}

	want := map[string]interface{}{
		"name":   "R2-D2",
		"height": 1.09,
		"friends": []interface{}{
			map[string]interface{}{"name": "Luke"},
		},
		"rank": nil,
	}
	if diff := cmp.Diff(want, v.GoValue()); diff != "" {
		t.Errorf("GoValue() (-want +got):\n%s", diff)
	}
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "Null", value: Value{}, want: `null`},
		{name: "Boolean", value: Value{val: false}, want: `false`},
		{name: "Int", value: Value{val: -12}, want: `-12`},
		{name: "Float", value: Value{val: 0.5}, want: `0.5`},
		{name: "String", value: Value{val: "a\"b"}, want: `"a\"b"`},
		{name: "EmptyObject", value: Value{val: []Field{}}, want: `{}`},
		{
			name:  "EmptyList",
			value: Value{val: []Value{}},
			want:  `[]`,
		},
		{
			name: "ObjectKeepsOrder",
			value: Value{val: []Field{
				{Key: "zebra", Value: Value{val: 1}},
				{Key: "apple", Value: Value{val: []Value{{val: "x"}, {}}}},
				{Key: "mango", Value: Value{val: []Field{{Key: "b", Value: Value{val: true}}}}},
			}},
			want: `{"zebra":1,"apple":["x",null],"mango":{"b":true}}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.value.MarshalJSON()
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != test.want {
				t.Errorf("MarshalJSON() = %s; want %s", got, test.want)
			}
		})
	}
}

func TestMergeField(t *testing.T) {
	obj := func(fields ...Field) Value { return Value{val: fields} }
	fields := []Field{
		{Key: "a", Value: Value{val: 1}},
		{Key: "hero", Value: obj(Field{Key: "name", Value: Value{val: "R2-D2"}})},
	}
	fields = mergeField(fields, Field{Key: "b", Value: Value{val: 2}})
	fields = mergeField(fields, Field{Key: "hero", Value: obj(
		Field{Key: "id", Value: Value{val: "2001"}},
		Field{Key: "name", Value: Value{val: "R2-D2"}},
	)})
	fields = mergeField(fields, Field{Key: "a", Value: Value{val: 3}})

	want := []Field{
		{Key: "a", Value: Value{val: 3}},
		{Key: "hero", Value: obj(
			Field{Key: "name", Value: Value{val: "R2-D2"}},
			Field{Key: "id", Value: Value{val: "2001"}},
		)},
		{Key: "b", Value: Value{val: 2}},
	}
	if diff := cmp.Diff(want, fields, cmp.AllowUnexported(Value{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
}
