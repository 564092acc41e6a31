/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package rendering

import (
	"strings"
	"testing"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/forms"
	"github.com/google/tabula/core/tables"
	"github.com/google/tabula/core/views"
	"github.com/google/tabula/datasources"
)

func productSnapshot() tables.Snapshot {
	cfg := &tables.Config{
		Name:   "products",
		Title:  "Products",
		Parent: "#productsTable",
		APIURL: "http://example.invalid/products",
		Columns: []columns.Column{
			{Title: "Назва", Value: columns.Field("title"), Inputs: []columns.Input{{Type: columns.InputText}}},
			{Title: "Колір", Value: columns.ColorLabel("color"), Inputs: []columns.Input{{Type: columns.InputColor, Name: "color"}}},
		},
		AllowDelete: true,
	}
	return tables.Snapshot{
		ID:       "doc-1",
		Config:   cfg,
		Rendered: true,
		Rows: []datasources.Entry{
			{Key: "1", Record: columns.Record{"title": "Pen", "color": "#ff0000"}},
			{Key: "2", Record: columns.Record{"title": "Book <new>", "color": "blue"}},
		},
		FormOpen: true,
		Fields: []forms.Field{
			{Name: "title", Label: "Назва", Type: columns.InputText, Required: true, Invalid: true},
			{Name: "color", Label: "Колір", Type: columns.InputColor, Required: true, Value: "#00ff00"},
		},
		Alert: "Error when saving: create: error code: 500",
	}
}

func TestRenderPage(t *testing.T) {
	r, err := NewTableRenderer()
	if err != nil {
		t.Fatalf("NewTableRenderer: %v", err)
	}

	var sb strings.Builder
	if err := r.Render(&sb, views.BuildPage(productSnapshot())); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"<td>1</td>",
		"<td>Pen</td>",
		`background-color: #ff0000;`,
		"<td>Book <new></td>",
		`class="datatable productsTable"`,
		`type="color"`,
		`class="invalid"`,
		`role="alert"`,
		"Click to add row",
		`class="delete-btn"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}

	add := strings.Index(html, "Click to add row")
	form := strings.Index(html, `class="form-container"`)
	table := strings.Index(html, "<table>")
	if !(add < form && form < table) {
		t.Errorf("expected add control, form, table order; got %d %d %d", add, form, table)
	}
}

func TestRenderPageWithoutTable(t *testing.T) {
	r, err := NewTableRenderer()
	if err != nil {
		t.Fatalf("NewTableRenderer: %v", err)
	}
	s := productSnapshot()
	s.Rendered = false
	s.Rows = nil
	s.FormOpen = false
	s.RenderErr = &datasources.StatusError{Op: "fetch", Status: 404}

	var sb strings.Builder
	if err := r.Render(&sb, views.BuildPage(s)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := sb.String()
	if strings.Contains(html, "<table>") {
		t.Error("no table expected after a failed fetch")
	}
	if !strings.Contains(html, "Error code: 404") {
		t.Error("expected the error to be shown")
	}
}

func TestRenderLanding(t *testing.T) {
	r, err := NewTableRenderer()
	if err != nil {
		t.Fatalf("NewTableRenderer: %v", err)
	}
	s := productSnapshot()

	var sb strings.Builder
	vm := views.BuildLanding("Tables", "Remote collections", []*tables.Config{s.Config})
	if err := r.RenderLanding(&sb, vm); err != nil {
		t.Fatalf("RenderLanding: %v", err)
	}
	if !strings.Contains(sb.String(), `href="/tables/products"`) {
		t.Error("expected link to the products table")
	}
}
