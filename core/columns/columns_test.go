/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package columns

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFieldValueRendersFieldExactly(t *testing.T) {
	record := Record{"name": "Alice", "price": json.Number("19.90"), "active": true}

	tests := []struct {
		field string
		want  string
	}{
		{"name", "Alice"},
		{"price", "19.90"},
		{"active", "true"},
		{"missing", ""},
	}
	for _, tt := range tests {
		col := Column{Title: tt.field, Value: Field(tt.field)}
		if got := col.Format(record); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestDerivedValueReceivesWholeRecord(t *testing.T) {
	col := Column{Title: "Price", Value: Derive(func(r Record) string {
		return FormatValue(r["price"]) + " " + FormatValue(r["currency"])
	})}

	got := col.Format(Record{"price": json.Number("10"), "currency": "€"})
	if got != "10 €" {
		t.Errorf("expected %q, got %q", "10 €", got)
	}
}

func TestValueKind(t *testing.T) {
	if name, ok := Field("title").FieldName(); !ok || name != "title" {
		t.Errorf("Field(title).FieldName() = %q, %v", name, ok)
	}
	d := Derive(func(Record) string { return "" })
	if d.Kind() != DerivedValue {
		t.Errorf("expected DerivedValue, got %v", d.Kind())
	}
	if _, ok := d.FieldName(); ok {
		t.Error("derived value should not report a field name")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{json.Number("1e3"), "1e3"},
		{float64(2.5), "2.5"},
		{float64(10), "10"},
		{false, "false"},
		{[]any{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvedInputsDefaults(t *testing.T) {
	col := Column{
		Title: "Ціна",
		Value: Derive(func(Record) string { return "" }),
		Inputs: []Input{
			{Type: InputNumber, Name: "price", Label: "Ціна"},
			{Type: InputSelect, Name: "currency", Label: "Валюта", Options: []string{"$", "€", "₴"}, Required: Optional()},
			{Type: InputColor},
		},
	}

	got := col.ResolvedInputs()
	if len(got) != 3 {
		t.Fatalf("expected 3 inputs, got %d", len(got))
	}
	if !got[0].Required || got[0].Name != "price" {
		t.Errorf("unexpected first input: %+v", got[0])
	}
	if got[1].Required {
		t.Error("currency should be optional")
	}
	// Unnamed input on a derived column keeps an empty name.
	if got[2].Name != "" {
		t.Errorf("expected empty name, got %q", got[2].Name)
	}
	if got[2].Label != "Ціна" {
		t.Errorf("expected label to fall back to title, got %q", got[2].Label)
	}
}

func TestResolvedInputsNameFromField(t *testing.T) {
	col := Column{Title: "Назва", Value: Field("title"), Inputs: []Input{{}}}

	got := col.ResolvedInputs()
	if got[0].Name != "title" {
		t.Errorf("expected name title, got %q", got[0].Name)
	}
	if got[0].Type != InputText {
		t.Errorf("expected default type text, got %q", got[0].Type)
	}
	if !got[0].Required {
		t.Error("inputs are required by default")
	}
}

func TestTemplate(t *testing.T) {
	v, err := Template("{{.price}} {{.currency}}")
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	col := Column{Value: v}
	if got := col.Format(Record{"price": json.Number("5"), "currency": "$"}); got != "5 $" {
		t.Errorf("expected %q, got %q", "5 $", got)
	}

	if _, err := Template("{{.price"); err == nil {
		t.Error("expected parse error")
	}
}

func TestAge(t *testing.T) {
	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		birthday time.Time
		want     int
	}{
		{time.Date(2000, time.March, 10, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2000, time.March, 11, 0, 0, 0, 0, time.UTC), 23},
		{time.Date(2000, time.February, 28, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2000, time.December, 1, 0, 0, 0, 0, time.UTC), 23},
	}
	for _, tt := range tests {
		if got := Age(tt.birthday, today); got != tt.want {
			t.Errorf("Age(%v) = %d, want %d", tt.birthday, got, tt.want)
		}
	}
}

func TestAgeOf(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC) }
	col := Column{Value: AgeOf("birthday", now)}

	if got := col.Format(Record{"birthday": "1990-06-15T00:00:00Z"}); got != "33" {
		t.Errorf("expected 33, got %q", got)
	}
	if got := col.Format(Record{"birthday": "not a date"}); got != "" {
		t.Errorf("expected empty cell for bad date, got %q", got)
	}
}

func TestMarkupHelpers(t *testing.T) {
	r := Record{"avatar": "a.png", "name": "Ann", "surname": "Lee", "color": "#ff0000"}

	img := Column{Value: Image("avatar", "name", "surname")}.Format(r)
	if img != `<img src="a.png" alt="Ann Lee"/>` {
		t.Errorf("unexpected image markup %q", img)
	}
	swatch := Column{Value: ColorLabel("color")}.Format(r)
	if swatch == "" || swatch[:4] != "<div" {
		t.Errorf("unexpected colour label %q", swatch)
	}
}

func TestNewFormatter(t *testing.T) {
	if _, err := NewFormatter("joined", []string{"price", "currency"}); err != nil {
		t.Errorf("joined: %v", err)
	}
	if _, err := NewFormatter("color_label", nil); err == nil {
		t.Error("expected argument count error")
	}
	if _, err := NewFormatter("nope", nil); err == nil {
		t.Error("expected unknown formatter error")
	}
}
