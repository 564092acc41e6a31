/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package columns describes how a table column extracts a cell from a record
// and, optionally, how the column is collected back from an add form.
package columns

import (
	"encoding/json"
	"strconv"

	"github.com/google/tabula/core/logger"
)

// Record is one entry of a remote collection. Numbers are kept as json.Number
// so that field lookups render exactly what the server sent.
type Record map[string]any

// ValueKind tags the two shapes a column value can take.
type ValueKind int

const (
	// FieldValue looks a field up by name.
	FieldValue ValueKind = iota
	// DerivedValue computes the cell from the whole record.
	DerivedValue
)

// Value is either a field name or a derive function. Use Field or Derive to
// construct one.
type Value struct {
	kind   ValueKind
	field  string
	derive func(Record) string
}

// Field returns a value that renders record[name].
func Field(name string) Value {
	return Value{kind: FieldValue, field: name}
}

// Derive returns a value that renders fn(record). fn must be pure.
func Derive(fn func(Record) string) Value {
	return Value{kind: DerivedValue, derive: fn}
}

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind {
	return v.kind
}

// FieldName returns the looked-up field name when v is a FieldValue.
func (v Value) FieldName() (string, bool) {
	if v.kind != FieldValue {
		return "", false
	}
	return v.field, true
}

// Column is one column of a table: header title, cell value and the inputs
// that collect it in the add form. Inputs may be empty.
type Column struct {
	Title  string
	Value  Value
	Inputs []Input
}

// Format renders the cell for record.
func (c Column) Format(record Record) string {
	switch c.Value.kind {
	case DerivedValue:
		if c.Value.derive == nil {
			return ""
		}
		return c.Value.derive(record)
	case FieldValue:
		v, ok := record[c.Value.field]
		if !ok {
			logger.Log.Debugf("record has no field %q for column %q", c.Value.field, c.Title)
		}
		return FormatValue(v)
	default:
		return ""
	}
}

// FormatValue converts a decoded JSON value into cell text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
