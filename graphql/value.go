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
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// A Value is a result produced by executing a query. The zero value is null.
type Value struct {
	val interface{} // one of nil, bool, int, float64, string, []Value, or []Field.
}

// Field is a field in a result object.
type Field struct {
	// Key is the response object key. This may not be the same as the field name
	// when aliases are used.
	Key string
	// Value is the field's value.
	Value Value
}

// leafValue converts a Go value that passed IsAssignable for a scalar, enum,
// or list of those into a Value. IDs are always strings.
func leafValue(goValue reflect.Value, typ *Type) Value {
	goValue = unwrapValue(goValue)
	if !goValue.IsValid() {
		return Value{}
	}
	typ = typ.Nullable()
	if typ.isList() {
		list := make([]Value, goValue.Len())
		for i := range list {
			list[i] = leafValue(goValue.Index(i), typ.listElem)
		}
		return Value{val: list}
	}
	switch typ {
	case intType:
		i, _ := int32FromGo(goValue)
		return Value{val: int(i)}
	case floatType:
		return Value{val: goValue.Float()}
	case booleanType:
		return Value{val: goValue.Bool()}
	case idType:
		return Value{val: idFromGo(goValue)}
	default:
		return Value{val: goValue.String()}
	}
}

// GoValue dumps the value into one of the following Go types:
//
//   - nil interface{} for null
//   - bool, int, float64, or string for scalars and enums
//   - []interface{} for lists
//   - map[string]interface{} for objects
func (v Value) GoValue() interface{} {
	switch val := v.val.(type) {
	case nil, bool, int, float64, string:
		return val
	case []Value:
		goVal := make([]interface{}, len(val))
		for i, vv := range val {
			goVal[i] = vv.GoValue()
		}
		return goVal
	case []Field:
		goVal := make(map[string]interface{}, len(val))
		for _, f := range val {
			goVal[f.Key] = f.Value.GoValue()
		}
		return goVal
	default:
		panic("unknown type in Value.val")
	}
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.val == nil
}

// Boolean reports if v is the Boolean true.
func (v Value) Boolean() bool {
	b, _ := v.val.(bool)
	return b
}

// Scalar returns the text form of a scalar or enum value or the empty string
// if v is not a leaf.
func (v Value) Scalar() string {
	switch val := v.val.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return ""
	}
}

// Len returns the number of elements in v. Len panics if v is not a list or null.
func (v Value) Len() int {
	if v.val == nil {
		return 0
	}
	return len(v.val.([]Value))
}

// At returns v's i'th element. At panics if v is not a list or i is not in the
// range [0, v.Len()).
func (v Value) At(i int) Value {
	list := v.val.([]Value)
	return list[i]
}

// NumFields returns the number of fields in v. NumFields panics if v is not
// null or an object.
func (v Value) NumFields() int {
	switch val := v.val.(type) {
	case nil:
		return 0
	case []Field:
		return len(val)
	default:
		panic(fmt.Sprintf("invalid value for NumFields: %T", v.val))
	}
}

// Field returns v's i'th field. Field panics if v is not an object or i is not
// in the range [0, v.NumFields()).
func (v Value) Field(i int) Field {
	fields := v.val.([]Field)
	return fields[i]
}

// ValueFor returns the value of the field with the given key or the zero Value
// if v does not have the given key. ValueFor panics if v is not an object.
func (v Value) ValueFor(key string) Value {
	fields, ok := v.val.([]Field)
	if !ok {
		panic(fmt.Sprintf("invalid value for ValueFor(): %T", v.val))
	}
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}
	return Value{}
}

// MarshalJSON converts the value to JSON. Object keys keep the order in which
// they were selected.
func (v Value) MarshalJSON() ([]byte, error) {
	switch val := v.val.(type) {
	case nil:
		return []byte("null"), nil
	case bool:
		return strconv.AppendBool(nil, val), nil
	case int:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case float64, string, []Value:
		return json.Marshal(val)
	case []Field:
		var buf []byte
		buf = append(buf, '{')
		for i, f := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			fval, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf = append(buf, fval...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		panic("unknown type in Value.val")
	}
}

// mergeField adds f to fields. If a field with the same key is already
// present, it keeps its position: two objects are merged key by key and
// anything else is replaced.
func mergeField(fields []Field, f Field) []Field {
	for i := range fields {
		if fields[i].Key != f.Key {
			continue
		}
		old, oldIsObject := fields[i].Value.val.([]Field)
		add, addIsObject := f.Value.val.([]Field)
		if oldIsObject && addIsObject {
			merged := append([]Field(nil), old...)
			for _, sub := range add {
				merged = mergeField(merged, sub)
			}
			fields[i].Value = Value{val: merged}
		} else {
			fields[i].Value = f.Value
		}
		return fields
	}
	return append(fields, f)
}
