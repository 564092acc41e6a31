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

// Package rendering turns page view models into HTML with safehtml templates.
package rendering

import (
	"embed"
	"fmt"
	"io"

	"github.com/google/safehtml/template"
	"github.com/google/tabula/core/views"
)

//go:embed templates/*
var templateFS embed.FS

// TableRenderer writes the two pages of the service: the landing list of
// tables and a document page (add control, open form, then the table).
type TableRenderer struct {
	document *template.Template
	landing  *template.Template
}

// NewTableRenderer parses the embedded templates. Both pages share the
// "style" block.
func NewTableRenderer() (*TableRenderer, error) {
	document, err := parsePage("page.html")
	if err != nil {
		return nil, err
	}
	landing, err := parsePage("landing.html")
	if err != nil {
		return nil, err
	}
	return &TableRenderer{document: document, landing: landing}, nil
}

func parsePage(name string) (*template.Template, error) {
	fs := template.TrustedFSFromEmbed(templateFS)
	t, err := template.New(name).ParseFS(fs, "templates/"+name, "templates/style.html")
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return t, nil
}

// Render writes a document page. Cells arrive as safehtml.HTML already
// converted according to the table's markup policy.
func (r *TableRenderer) Render(w io.Writer, vm views.PageViewModel) error {
	return r.document.Execute(w, vm)
}

// RenderLanding writes the list of configured tables.
func (r *TableRenderer) RenderLanding(w io.Writer, vm views.LandingViewModel) error {
	return r.landing.Execute(w, vm)
}
