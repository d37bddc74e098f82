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

	"golang.org/x/xerrors"
)

// DataResolver returns a Resolver that serves a tree of plain data, like a
// decoded JSON or YAML document, shaped by the schema. Nested maps become
// resolvers of the field's type. Where the field's type is an interface or a
// union, the map must name its concrete type in a "__typename" key. Missing
// keys resolve to null. Arguments are ignored.
func DataResolver(schema *Schema, typeName string, data map[string]interface{}) (Resolver, error) {
	typ, err := schema.Resolve(typeName)
	if err != nil {
		return nil, xerrors.Errorf("data resolver: %w", err)
	}
	if typ.Kind() != ObjectKind {
		return nil, xerrors.Errorf("data resolver: %v is not an object type", typ)
	}
	return &dataResolver{schema: schema, typ: typ, data: data}, nil
}

type dataResolver struct {
	schema *Schema
	typ    *Type
	data   map[string]interface{}
}

func (dr *dataResolver) TypeName() string {
	return dr.typ.Name()
}

func (dr *dataResolver) ResolveField(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	def := dr.typ.Field(name)
	if def == nil {
		return nil, xerrors.Errorf("%v.%s: %w", dr.typ, name, ErrNoField)
	}
	return dr.wrap(def.typ, dr.data[name])
}

// wrap converts the data found at a position of type typ.
func (dr *dataResolver) wrap(typ *Type, v interface{}) (interface{}, error) {
	if !typ.unwrap().IsSpreadable() {
		return v, nil
	}
	typ = typ.Nullable()
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		if !typ.isList() {
			return v, nil
		}
		list := make([]interface{}, len(v))
		for i, elem := range v {
			var err error
			list[i], err = dr.wrap(typ.listElem, elem)
			if err != nil {
				return nil, xerrors.Errorf("index %d: %w", i, err)
			}
		}
		return list, nil
	case map[string]interface{}:
		if typ.isList() {
			return v, nil
		}
		concrete := typ
		if typ.Kind() != ObjectKind {
			name, _ := v["__typename"].(string)
			if name == "" {
				return nil, xerrors.Errorf("data for %v has no __typename", typ)
			}
			var err error
			concrete, err = dr.schema.Resolve(name)
			if err != nil {
				return nil, err
			}
			if concrete.Kind() != ObjectKind {
				return nil, xerrors.Errorf("__typename %s is not an object type", name)
			}
		}
		return &dataResolver{schema: dr.schema, typ: concrete, data: v}, nil
	default:
		// Leave it for the executor to reject.
		return v, nil
	}
}
