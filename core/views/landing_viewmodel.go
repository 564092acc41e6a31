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

package views

import (
	"fmt"

	"github.com/google/safehtml"
	"github.com/google/tabula/core/tables"
)

// LandingViewModel lists the configured tables.
type LandingViewModel struct {
	Title    string
	Subtitle string
	Tables   []TableInfo
}

// TableInfo describes one table on the landing page.
type TableInfo struct {
	Title       string
	Description string
	URL         safehtml.URL
	Actions     string
}

// BuildLanding creates the landing page for configs.
func BuildLanding(title, subtitle string, configs []*tables.Config) LandingViewModel {
	vm := LandingViewModel{Title: title, Subtitle: subtitle}
	for _, cfg := range configs {
		actions := "read only"
		switch {
		case cfg.HasForm() && cfg.AllowDelete:
			actions = "add, delete"
		case cfg.HasForm():
			actions = "add"
		case cfg.AllowDelete:
			actions = "delete"
		}
		vm.Tables = append(vm.Tables, TableInfo{
			Title:       cfg.DisplayTitle(),
			Description: fmt.Sprintf("%d columns from %s", len(cfg.Columns), cfg.APIURL),
			URL:         safehtml.URLSanitized(TableURL(cfg.Name)),
			Actions:     actions,
		})
	}
	return vm
}
