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

// Package forms builds add-row forms from column inputs and validates what
// users submit through them.
package forms

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/tabula/core/columns"
)

// ControlKind is the HTML control a field renders as.
type ControlKind int

const (
	ControlInput ControlKind = iota
	ControlSelect
)

// Field is one labeled control of a form.
type Field struct {
	Name        string
	Label       string
	Type        columns.InputType
	Required    bool
	Options     []string
	Placeholder string

	// Value is the last submitted value, shown again when the form is
	// re-rendered.
	Value string
	// Invalid marks a required field that was submitted empty.
	Invalid bool
}

// Kind returns the control the field renders as.
func (f *Field) Kind() ControlKind {
	if f.Type == columns.InputSelect {
		return ControlSelect
	}
	return ControlInput
}

// Form is the add-row form of a table.
type Form struct {
	Fields []*Field
}

// Build creates one field per declared input, in column order and then input
// order. Columns without inputs contribute nothing.
func Build(cols []columns.Column) *Form {
	form := &Form{}
	for _, col := range cols {
		for _, in := range col.ResolvedInputs() {
			form.Fields = append(form.Fields, &Field{
				Name:        in.Name,
				Label:       in.Label,
				Type:        in.Type,
				Required:    in.Required,
				Options:     in.Options,
				Placeholder: in.Placeholder,
			})
		}
	}
	return form
}

// Payload is the flat body posted to the collection.
type Payload map[string]any

// Validate checks every field against values and builds the payload.
// Required fields that are empty after trimming are marked invalid; checking
// continues so all of them are marked in one pass. hasError reports whether
// any field was invalid, in which case the payload must not be sent.
func (f *Form) Validate(values url.Values) (payload Payload, hasError bool) {
	payload = Payload{}
	for _, field := range f.Fields {
		field.Value = values.Get(field.Name)
		value := strings.TrimSpace(field.Value)

		if field.Required && value == "" {
			field.Invalid = true
			hasError = true
			continue
		}
		field.Invalid = false
		payload[field.Name] = coerce(field.Type, value)
	}
	return payload, hasError
}

// InvalidFields returns the names of fields marked invalid.
func (f *Form) InvalidFields() []string {
	var names []string
	for _, field := range f.Fields {
		if field.Invalid {
			names = append(names, field.Name)
		}
	}
	return names
}

// coerce converts numeric input. Empty is 0; anything that is not a finite
// number becomes null.
func coerce(t columns.InputType, value string) any {
	if !t.IsNumeric() {
		return value
	}
	if value == "" {
		return float64(0)
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return n
}
