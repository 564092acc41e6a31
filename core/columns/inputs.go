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

package columns

// InputType is the kind of form control an input renders as.
type InputType string

const (
	InputText   InputType = "text"
	InputNumber InputType = "number"
	InputColor  InputType = "color"
	InputSelect InputType = "select"
	InputDate   InputType = "date"
	InputEmail  InputType = "email"
)

// IsNumeric reports whether submitted values are coerced to numbers.
func (t InputType) IsNumeric() bool {
	return t == InputNumber
}

// Input declares one form control for a column. Zero fields take defaults
// when resolved: Type text, Name the column's field, Label the column title,
// Required true.
type Input struct {
	Type        InputType
	Name        string
	Label       string
	Required    *bool
	Options     []string
	Placeholder string
}

// Optional marks an input as not required.
func Optional() *bool {
	b := false
	return &b
}

// ResolvedInput is an Input with every default applied.
type ResolvedInput struct {
	Type        InputType
	Name        string
	Label       string
	Required    bool
	Options     []string
	Placeholder string
}

// ResolvedInputs applies defaults to the column's inputs, in declaration order.
// An input without a name on a derived column resolves to an empty name.
func (c Column) ResolvedInputs() []ResolvedInput {
	out := make([]ResolvedInput, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		r := ResolvedInput{
			Type:        in.Type,
			Name:        in.Name,
			Label:       in.Label,
			Required:    in.Required == nil || *in.Required,
			Options:     in.Options,
			Placeholder: in.Placeholder,
		}
		if r.Type == "" {
			r.Type = InputText
		}
		if r.Name == "" {
			r.Name, _ = c.Value.FieldName()
		}
		if r.Label == "" {
			r.Label = c.Title
		}
		out = append(out, r)
	}
	return out
}
