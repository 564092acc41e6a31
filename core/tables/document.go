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

package tables

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/tabula/core/columns"
	"github.com/google/tabula/core/forms"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/datasources"
	"github.com/sirupsen/logrus"
)

var (
	ErrRowNotFound    = errors.New("row not found")
	ErrDeleteDisabled = errors.New("table does not allow deleting rows")
	ErrNoForm         = errors.New("table has no add form")
	ErrFormClosed     = errors.New("add form is not open")
	ErrInvalidForm    = errors.New("form has invalid fields")
)

// SubmitResult is the outcome of Document.Submit.
type SubmitResult int

const (
	// SubmitInvalid means validation failed and nothing was posted.
	SubmitInvalid SubmitResult = iota
	// SubmitFailed means the post failed; the form is kept.
	SubmitFailed
	// SubmitCreated means the row was created and the table rebuilt.
	SubmitCreated
)

// Document is one rendering of a table: what a page load produces and what
// row and form actions then operate on. Network calls run without holding the
// document lock, so overlapping actions are not ordered against each other.
type Document struct {
	id     string
	config *Config
	source datasources.Source

	mu        sync.Mutex
	rows      *orderedMap[string, columns.Record]
	rendered  bool
	renderErr error
	form      *forms.Form
	alert     string
}

// NewDocument creates an empty document. Call Render to fill it.
func NewDocument(id string, config *Config, source datasources.Source) *Document {
	return &Document{
		id:     id,
		config: config,
		source: source,
		rows:   newOrderedMap[string, columns.Record](),
	}
}

// ID returns the document id.
func (d *Document) ID() string {
	return d.id
}

// Config returns the table configuration the document renders.
func (d *Document) Config() *Config {
	return d.config
}

func (d *Document) log() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{"table": d.config.Name, "document": d.id})
}

// Render fetches the collection and replaces the rows with it. When the fetch
// fails the document holds no table and the error is kept for display.
func (d *Document) Render(ctx context.Context) error {
	collection, err := d.source.Fetch(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows.Clear()
	if err != nil {
		d.rendered = false
		d.renderErr = err
		d.log().WithError(err).Error("failed to fetch collection")
		return err
	}
	for _, e := range collection.Entries {
		d.rows.Set(e.Key, e.Record)
	}
	d.rendered = true
	d.renderErr = nil
	d.log().WithField("rows", d.rows.Len()).Debug("rendered")
	return nil
}

// DeleteRow deletes key remotely and, on success, removes exactly that row.
// Nothing is re-fetched. On failure the row stays and the error is returned.
func (d *Document) DeleteRow(ctx context.Context, key string) error {
	if !d.config.AllowDelete {
		return ErrDeleteDisabled
	}
	d.mu.Lock()
	exists := d.rows.Has(key)
	d.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: %q", ErrRowNotFound, key)
	}

	if err := d.source.Delete(ctx, key); err != nil {
		d.log().WithError(err).WithField("key", key).Error("failed to delete row")
		return err
	}

	d.mu.Lock()
	d.rows.Delete(key)
	d.mu.Unlock()
	d.log().WithField("key", key).Info("row deleted")
	return nil
}

// OpenForm attaches the add form. An open form is kept as is.
func (d *Document) OpenForm() error {
	if !d.config.HasForm() {
		return ErrNoForm
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.form == nil {
		d.form = forms.Build(d.config.Columns)
	}
	return nil
}

// CloseForm discards the add form and its values.
func (d *Document) CloseForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = nil
}

// Submit validates values against the open form and posts the payload. On
// success the form is discarded and the table rebuilt from a fresh fetch; the
// returned error is then the fetch error, if any. On a failed post the form is
// kept and an alert is set.
func (d *Document) Submit(ctx context.Context, values url.Values) (SubmitResult, error) {
	d.mu.Lock()
	if d.form == nil {
		d.mu.Unlock()
		return SubmitInvalid, ErrFormClosed
	}
	payload, hasError := d.form.Validate(values)
	invalid := d.form.InvalidFields()
	d.mu.Unlock()

	if hasError {
		d.log().WithField("fields", invalid).Debug("form rejected")
		return SubmitInvalid, ErrInvalidForm
	}

	if err := d.source.Create(ctx, payload); err != nil {
		d.log().WithError(err).Error("failed to save row")
		d.mu.Lock()
		d.alert = fmt.Sprintf("Error when saving: %v", err)
		d.mu.Unlock()
		return SubmitFailed, err
	}

	d.mu.Lock()
	d.form = nil
	d.rows.Clear()
	d.rendered = false
	d.mu.Unlock()
	d.log().Info("row created")

	return SubmitCreated, d.Render(ctx)
}

// Snapshot is a consistent copy of a document for rendering.
type Snapshot struct {
	ID        string
	Config    *Config
	Rendered  bool
	RenderErr error
	Rows      []datasources.Entry
	FormOpen  bool
	Fields    []forms.Field
	Alert     string
}

// Snapshot copies the document state. The alert is handed out once and then
// cleared.
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		ID:        d.id,
		Config:    d.config,
		Rendered:  d.rendered,
		RenderErr: d.renderErr,
		Rows:      make([]datasources.Entry, 0, d.rows.Len()),
		Alert:     d.alert,
	}
	d.rows.Range(func(key string, record columns.Record) bool {
		s.Rows = append(s.Rows, datasources.Entry{Key: key, Record: record})
		return true
	})
	if d.form != nil {
		s.FormOpen = true
		for _, f := range d.form.Fields {
			s.Fields = append(s.Fields, *f)
		}
	}
	d.alert = ""
	return s
}
