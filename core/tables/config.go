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

// Package tables holds table configurations and the documents rendered from
// them: the rows of the latest fetch plus the state of the add form.
package tables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/tabula/core/columns"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkupPolicy decides how derived cell text reaches the page.
type MarkupPolicy int

const (
	// MarkupTrusted injects cell text as markup, unescaped. Column values
	// are trusted to produce safe markup.
	MarkupTrusted MarkupPolicy = iota
	// MarkupEscaped escapes every cell.
	MarkupEscaped
)

// ParseMarkupPolicy accepts "trusted", "escaped" or "" (trusted).
func ParseMarkupPolicy(s string) (MarkupPolicy, error) {
	switch strings.ToLower(s) {
	case "", "trusted":
		return MarkupTrusted, nil
	case "escaped":
		return MarkupEscaped, nil
	default:
		return MarkupTrusted, fmt.Errorf("unknown markup policy %q", s)
	}
}

var (
	ErrMissingAPIURL        = errors.New("api url is empty")
	ErrNoColumns            = errors.New("table has no columns")
	ErrUnnamedInput         = errors.New("input has no name")
	ErrSelectWithoutOptions = errors.New("select input has no options")
)

// Config declares one table. It is never mutated once built.
type Config struct {
	// Name identifies the table in URLs.
	Name  string
	Title string
	// Parent names the container the add control, form and table are
	// rendered into, e.g. "#productsTable".
	Parent      string
	APIURL      string
	Columns     []columns.Column
	AllowDelete bool
	Markup      MarkupPolicy
}

// Validate reports configuration problems. An unnamed input is reported but
// still served: it posts under the empty key.
func (c *Config) Validate() []error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, ErrMissingAPIURL)
	}
	if len(c.Columns) == 0 {
		errs = append(errs, ErrNoColumns)
	}
	for _, col := range c.Columns {
		for _, in := range col.ResolvedInputs() {
			if in.Name == "" {
				errs = append(errs, fmt.Errorf("column %q: %w", col.Title, ErrUnnamedInput))
			}
			if in.Type == columns.InputSelect && len(in.Options) == 0 {
				errs = append(errs, fmt.Errorf("column %q input %q: %w", col.Title, in.Name, ErrSelectWithoutOptions))
			}
		}
	}
	return errs
}

// HasForm reports whether any column declares an input.
func (c *Config) HasForm() bool {
	for _, col := range c.Columns {
		if len(col.Inputs) > 0 {
			return true
		}
	}
	return false
}

// DisplayTitle returns Title, or the name in title case.
func (c *Config) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(c.Name, "_", " "))
}

// Catalog is the ordered set of tables a server exposes.
type Catalog struct {
	order   []string
	configs map[string]*Config
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{configs: make(map[string]*Config)}
}

// Add registers config under its name. Adding a name twice is an error.
func (c *Catalog) Add(config *Config) error {
	if config.Name == "" {
		return errors.New("table name is empty")
	}
	if _, exists := c.configs[config.Name]; exists {
		return fmt.Errorf("table %q is already registered", config.Name)
	}
	c.order = append(c.order, config.Name)
	c.configs[config.Name] = config
	return nil
}

// Get returns the config registered as name, or nil.
func (c *Catalog) Get(name string) *Config {
	return c.configs[name]
}

// All returns the configs in registration order.
func (c *Catalog) All() []*Config {
	out := make([]*Config, len(c.order))
	for i, name := range c.order {
		out[i] = c.configs[name]
	}
	return out
}
