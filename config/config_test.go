/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[server]
addr = ":9000"
document_ttl = "10m"

[log]
level = "debug"

[client]
rate = 0.0

[[tables]]
name = "products"
title = "products"
parent = "#productsTable"
api_url = "https://mock-api.shpp.me/rspichak/products"
markup = "escaped"

  [[tables.columns]]
  title = "Назва"
  field = "title"
    [[tables.columns.inputs]]
    type = "text"

  [[tables.columns]]
  title = "Ціна"
  template = "{{.price}} {{.currency}}"
    [[tables.columns.inputs]]
    type = "number"
    name = "price"
    label = "Ціна"
    [[tables.columns.inputs]]
    type = "select"
    name = "currency"
    label = "Валюта"
    options = ["$", "€", "₴"]
    required = false

  [[tables.columns]]
  title = "Колір"
  formatter = "color_label"
  args = ["color"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabula.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8097", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.DocumentTTL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 5.0, cfg.Client.Rate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Tables)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Server.DocumentTTL)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.0, cfg.Client.Rate)
	require.Len(t, cfg.Tables, 1)
	require.Len(t, cfg.Tables[0].Columns, 3)
	require.Len(t, cfg.Tables[0].Columns[1].Inputs, 2)
	require.NotNil(t, cfg.Tables[0].Columns[1].Inputs[1].Required)
	assert.False(t, *cfg.Tables[0].Columns[1].Inputs[1].Required)

	tcs, err := cfg.TableConfigs()
	require.NoError(t, err)
	require.Len(t, tcs, 1)
	tc := tcs[0]
	assert.Empty(t, tc.Validate())
	assert.Equal(t, tables.MarkupEscaped, tc.Markup)
	assert.True(t, tc.HasForm())

	rec := columns.Record{"title": "Pen", "price": 2, "currency": "€", "color": "red"}
	assert.Equal(t, "Pen", tc.Columns[0].Format(rec))
	assert.Equal(t, "2 €", tc.Columns[1].Format(rec))
	assert.Contains(t, tc.Columns[2].Format(rec), "background-color: red;")

	inputs := tc.Columns[1].ResolvedInputs()
	assert.Equal(t, columns.InputSelect, inputs[1].Type)
	assert.False(t, inputs[1].Required)
	assert.Equal(t, []string{"$", "€", "₴"}, inputs[1].Options)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestTableConfigsErrors(t *testing.T) {
	tests := []struct {
		name  string
		table TableConfig
	}{
		{"no name", TableConfig{Columns: []ColumnConfig{{Title: "a", Field: "a"}}}},
		{"bad markup", TableConfig{Name: "t", Markup: "raw"}},
		{"no value", TableConfig{Name: "t", Columns: []ColumnConfig{{Title: "a"}}}},
		{"two values", TableConfig{Name: "t", Columns: []ColumnConfig{{Title: "a", Field: "a", Template: "x"}}}},
		{"bad template", TableConfig{Name: "t", Columns: []ColumnConfig{{Title: "a", Template: "{{.a"}}}},
		{"unknown formatter", TableConfig{Name: "t", Columns: []ColumnConfig{{Title: "a", Formatter: "sparkle"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Tables: []TableConfig{tt.table}}
			_, err := cfg.TableConfigs()
			assert.Error(t, err)
		})
	}
}

func TestTableTitleDefaultsToName(t *testing.T) {
	cfg := &Config{Tables: []TableConfig{{Name: "orders", APIURL: "http://x", Columns: []ColumnConfig{{Title: "id", Field: "id"}}}}}
	tcs, err := cfg.TableConfigs()
	require.NoError(t, err)
	assert.Equal(t, "orders", tcs[0].Title)
}
