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

// Package views turns table documents into template view models.
package views

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/forms"
	"github.com/google/tabula/core/tables"
	"github.com/google/tabula/datasources"
)

// Fixed control labels.
const (
	AddLabel      = "Click to add row"
	DeleteLabel   = "Delete"
	ActionsHeader = "Дія"
)

// PageViewModel is everything rendered into a table's parent container, in
// order: add control, form, table.
type PageViewModel struct {
	Title  string
	Parent string // container class derived from the configured selector

	ShowAdd bool
	AddURL  safehtml.URL

	Form  *FormViewModel  // nil when the form is closed
	Table *TableViewModel // nil when the last fetch failed

	Alert string // one-shot user-facing message
	Error string // why the table is missing
}

// TableViewModel holds the header and body of a rendered table.
type TableViewModel struct {
	Headers       []string
	ShowActions   bool
	ActionsHeader string
	DeleteURL     safehtml.URL
	Rows          []RowViewModel
}

// RowViewModel is one data row: the row key then one cell per column.
type RowViewModel struct {
	Key   string
	Cells []safehtml.HTML
}

// FormViewModel is the add form.
type FormViewModel struct {
	SubmitURL safehtml.URL
	CancelURL safehtml.URL
	Fields    []FieldViewModel
}

// FieldViewModel is one labeled control.
type FieldViewModel struct {
	Name        safehtml.Identifier
	Label       string
	Type        string
	IsSelect    bool
	Required    bool
	Invalid     bool
	Placeholder string
	Value       string
	Options     []OptionViewModel
}

// OptionViewModel is one option of a select control.
type OptionViewModel struct {
	Value    string
	Selected bool
}

// DocumentURL is where a document is displayed again without fetching.
func DocumentURL(id string) string {
	return "/documents/" + url.PathEscape(id)
}

// TableURL is the full page load of a table.
func TableURL(name string) string {
	return "/tables/" + url.PathEscape(name)
}

// BuildPage creates the view model of a document snapshot.
func BuildPage(s tables.Snapshot) PageViewModel {
	cfg := s.Config
	base := DocumentURL(s.ID)

	vm := PageViewModel{
		Title:   cfg.DisplayTitle(),
		Parent:  ParentClass(cfg.Parent),
		ShowAdd: cfg.HasForm(),
		AddURL:  safehtml.URLSanitized(base + "/form"),
		Alert:   s.Alert,
	}

	if s.FormOpen {
		vm.Form = buildForm(base, s.Fields)
	}

	if !s.Rendered {
		if s.RenderErr != nil {
			vm.Error = ErrorMessage(s.RenderErr)
		}
		return vm
	}

	vm.Table = buildTable(base, cfg, s.Rows)
	return vm
}

func buildTable(base string, cfg *tables.Config, rows []datasources.Entry) *TableViewModel {
	t := &TableViewModel{
		Headers:       make([]string, len(cfg.Columns)),
		ShowActions:   cfg.AllowDelete,
		ActionsHeader: ActionsHeader,
		DeleteURL:     safehtml.URLSanitized(base + "/rows/delete"),
		Rows:          make([]RowViewModel, len(rows)),
	}
	for i, col := range cfg.Columns {
		t.Headers[i] = col.Title
	}
	for i, row := range rows {
		t.Rows[i] = buildRow(cfg, row)
	}
	return t
}

func buildRow(cfg *tables.Config, row datasources.Entry) RowViewModel {
	r := RowViewModel{Key: row.Key, Cells: make([]safehtml.HTML, len(cfg.Columns))}
	for i, col := range cfg.Columns {
		r.Cells[i] = Cell(cfg.Markup, formatCell(col, row.Record))
	}
	return r
}

func formatCell(col columns.Column, record columns.Record) string {
	if record == nil {
		return ""
	}
	return col.Format(record)
}

// Cell converts cell text to HTML according to policy. Trusted text is
// injected as markup; escaped text is rendered literally.
func Cell(policy tables.MarkupPolicy, text string) safehtml.HTML {
	if policy == tables.MarkupEscaped {
		return safehtml.HTMLEscaped(text)
	}
	return uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(text)
}

func buildForm(base string, fields []forms.Field) *FormViewModel {
	f := &FormViewModel{
		SubmitURL: safehtml.URLSanitized(base + "/form/submit"),
		CancelURL: safehtml.URLSanitized(base + "/form/cancel"),
		Fields:    make([]FieldViewModel, len(fields)),
	}
	for i, field := range fields {
		fv := FieldViewModel{
			// Field names come from server-side configuration.
			Name:        uncheckedconversions.IdentifierFromStringKnownToSatisfyTypeContract(field.Name),
			Label:       field.Label,
			Type:        string(field.Type),
			IsSelect:    field.Kind() == forms.ControlSelect,
			Required:    field.Required,
			Invalid:     field.Invalid,
			Placeholder: field.Placeholder,
			Value:       field.Value,
		}
		for _, opt := range field.Options {
			fv.Options = append(fv.Options, OptionViewModel{Value: opt, Selected: opt == field.Value})
		}
		f.Fields[i] = fv
	}
	return f
}

// ParentClass turns a selector such as "#productsTable" into a class name.
func ParentClass(selector string) string {
	return strings.TrimLeft(strings.TrimSpace(selector), "#.")
}

// ErrorMessage is the text shown for a failed remote call.
func ErrorMessage(err error) string {
	var statusErr *datasources.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Error code: %d", statusErr.Status)
	}
	return err.Error()
}
