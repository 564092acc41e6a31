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

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/tabula/core/logger"
)

// Template returns a derived value that executes a text/template against the
// record, e.g. "{{.price}} {{.currency}}".
func Template(text string) (Value, error) {
	tmpl, err := template.New("cell").Parse(text)
	if err != nil {
		return Value{}, fmt.Errorf("failed to parse cell template: %w", err)
	}
	return Derive(func(r Record) string {
		var sb strings.Builder
		if err := tmpl.Execute(&sb, map[string]any(r)); err != nil {
			logger.Log.Warnf("cell template %q failed: %v", text, err)
			return ""
		}
		return sb.String()
	}), nil
}

// Joined renders the named fields separated by sep.
func Joined(sep string, fields ...string) Value {
	return Derive(func(r Record) string {
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = FormatValue(r[f])
		}
		return strings.Join(parts, sep)
	})
}

// ColorLabel renders a swatch filled with the colour held in field.
func ColorLabel(field string) Value {
	return Derive(func(r Record) string {
		return fmt.Sprintf(`<div style="width: 60px; height: 40px; background-color: %s; border-radius: 5px;"></div>`, FormatValue(r[field]))
	})
}

// Image renders an <img> whose alt text joins altFields with spaces.
func Image(srcField string, altFields ...string) Value {
	return Derive(func(r Record) string {
		alt := make([]string, len(altFields))
		for i, f := range altFields {
			alt[i] = FormatValue(r[f])
		}
		return fmt.Sprintf(`<img src="%s" alt="%s"/>`, FormatValue(r[srcField]), strings.Join(alt, " "))
	})
}

var birthdayLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// AgeOf renders the age in whole years of the date held in field. now is the
// clock used as "today"; nil means time.Now.
func AgeOf(field string, now func() time.Time) Value {
	if now == nil {
		now = time.Now
	}
	return Derive(func(r Record) string {
		raw := FormatValue(r[field])
		for _, layout := range birthdayLayouts {
			if birthday, err := time.Parse(layout, raw); err == nil {
				return fmt.Sprint(Age(birthday, now()))
			}
		}
		logger.Log.Debugf("cannot parse date %q in field %q", raw, field)
		return ""
	})
}

// Age returns full years between birthday and today.
func Age(birthday, today time.Time) int {
	age := today.Year() - birthday.Year()
	month := today.Month() - birthday.Month()
	if month < 0 || (month == 0 && today.Day() < birthday.Day()) {
		age--
	}
	return age
}

// FormatterFactory builds a derived value from configuration arguments.
type FormatterFactory func(args []string) (Value, error)

// Formatters are the derive helpers configuration files can refer to by name.
var Formatters = map[string]FormatterFactory{
	"color_label": func(args []string) (Value, error) {
		if len(args) != 1 {
			return Value{}, fmt.Errorf("color_label takes 1 field, got %d", len(args))
		}
		return ColorLabel(args[0]), nil
	},
	"image": func(args []string) (Value, error) {
		if len(args) < 1 {
			return Value{}, fmt.Errorf("image needs a source field")
		}
		return Image(args[0], args[1:]...), nil
	},
	"age": func(args []string) (Value, error) {
		if len(args) != 1 {
			return Value{}, fmt.Errorf("age takes 1 field, got %d", len(args))
		}
		return AgeOf(args[0], nil), nil
	},
	"joined": func(args []string) (Value, error) {
		if len(args) < 1 {
			return Value{}, fmt.Errorf("joined needs at least one field")
		}
		return Joined(" ", args...), nil
	},
}

// NewFormatter looks name up in Formatters.
func NewFormatter(name string, args []string) (Value, error) {
	factory, ok := Formatters[name]
	if !ok {
		return Value{}, fmt.Errorf("unknown formatter %q", name)
	}
	return factory(args)
}
