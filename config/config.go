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

// Package config loads the service configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/tables"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
)

// Config is the whole service configuration.
type Config struct {
	Server  ServerConfig        `koanf:"server"`
	Log     logger.LoggerConfig `koanf:"log"`
	Client  ClientConfig        `koanf:"client"`
	Landing LandingConfig       `koanf:"landing"`
	Tables  []TableConfig       `koanf:"tables"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	MaxDocuments      int           `koanf:"max_documents"`
	DocumentTTL       time.Duration `koanf:"document_ttl"`
}

// ClientConfig tunes requests to the remote collections. Rate is requests per
// second per table; zero disables limiting.
type ClientConfig struct {
	Timeout time.Duration `koanf:"timeout"`
	Rate    float64       `koanf:"rate"`
	Burst   int           `koanf:"burst"`
}

type LandingConfig struct {
	Title    string `koanf:"title"`
	Subtitle string `koanf:"subtitle"`
}

type TableConfig struct {
	Name        string         `koanf:"name"`
	Title       string         `koanf:"title"`
	Parent      string         `koanf:"parent"`
	APIURL      string         `koanf:"api_url"`
	AllowDelete bool           `koanf:"allow_delete"`
	Markup      string         `koanf:"markup"`
	Columns     []ColumnConfig `koanf:"columns"`
}

// ColumnConfig sets exactly one of Field, Template or Formatter.
type ColumnConfig struct {
	Title     string        `koanf:"title"`
	Field     string        `koanf:"field"`
	Template  string        `koanf:"template"`
	Formatter string        `koanf:"formatter"`
	Args      []string      `koanf:"args"`
	Inputs    []InputConfig `koanf:"inputs"`
}

type InputConfig struct {
	Type        string   `koanf:"type"`
	Name        string   `koanf:"name"`
	Label       string   `koanf:"label"`
	Required    *bool    `koanf:"required"`
	Options     []string `koanf:"options"`
	Placeholder string   `koanf:"placeholder"`
}

var defaults = map[string]interface{}{
	"server.addr":                "127.0.0.1:8097",
	"server.read_header_timeout": "5s",
	"server.read_timeout":        "15s",
	"server.write_timeout":       "30s",
	"server.idle_timeout":        "60s",
	"server.shutdown_timeout":    "15s",
	"server.max_documents":       1000,
	"server.document_ttl":        "30m",
	"log.level":                  "info",
	"log.file_size":              10,
	"log.file_count":             3,
	"client.timeout":             "5s",
	"client.rate":                5.0,
	"client.burst":               5,
	"landing.title":              "Tables",
	"landing.subtitle":           "Collections served from remote JSON endpoints",
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	return Load("")
}

// Load reads path over the defaults. An empty path loads the defaults only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &cfg, nil
}

// TableConfigs converts the configured tables. Unknown formatters, bad
// templates and unknown markup policies are errors; problems Config.Validate
// reports are left to the caller.
func (c *Config) TableConfigs() ([]*tables.Config, error) {
	var out []*tables.Config
	for _, tc := range c.Tables {
		cfg, err := tc.toTable()
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", tc.Name, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}

func (tc TableConfig) toTable() (*tables.Config, error) {
	if tc.Name == "" {
		return nil, errors.New("missing name")
	}
	markup, err := tables.ParseMarkupPolicy(tc.Markup)
	if err != nil {
		return nil, err
	}
	cfg := &tables.Config{
		Name:        tc.Name,
		Title:       tc.Title,
		Parent:      tc.Parent,
		APIURL:      tc.APIURL,
		AllowDelete: tc.AllowDelete,
		Markup:      markup,
	}
	if cfg.Title == "" {
		cfg.Title = tc.Name
	}
	for i, cc := range tc.Columns {
		col, err := cc.toColumn()
		if err != nil {
			return nil, fmt.Errorf("column %d (%s): %w", i, cc.Title, err)
		}
		cfg.Columns = append(cfg.Columns, col)
	}
	return cfg, nil
}

func (cc ColumnConfig) toColumn() (columns.Column, error) {
	col := columns.Column{Title: cc.Title}

	set := 0
	for _, s := range []string{cc.Field, cc.Template, cc.Formatter} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return col, errors.New("exactly one of field, template or formatter is required")
	}

	switch {
	case cc.Field != "":
		col.Value = columns.Field(cc.Field)
	case cc.Template != "":
		v, err := columns.Template(cc.Template)
		if err != nil {
			return col, err
		}
		col.Value = v
	default:
		v, err := columns.NewFormatter(cc.Formatter, cc.Args)
		if err != nil {
			return col, err
		}
		col.Value = v
	}

	for _, ic := range cc.Inputs {
		col.Inputs = append(col.Inputs, columns.Input{
			Type:        columns.InputType(ic.Type),
			Name:        ic.Name,
			Label:       ic.Label,
			Required:    ic.Required,
			Options:     ic.Options,
			Placeholder: ic.Placeholder,
		})
	}
	return col, nil
}
