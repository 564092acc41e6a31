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

// Package server exposes configured tables over HTTP.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/rendering"
	"github.com/google/tabula/core/tables"
	"github.com/google/tabula/core/views"
	"github.com/google/tabula/datasources"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	pageLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabula_page_loads_total",
		Help: "Full table page loads by table",
	}, []string{"table"})
	rowsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabula_rows_deleted_total",
		Help: "Rows deleted through the table pages",
	}, []string{"table"})
	rowsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabula_rows_created_total",
		Help: "Rows created through the add form",
	}, []string{"table"})
	formsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabula_forms_rejected_total",
		Help: "Add form submissions rejected by validation",
	}, []string{"table"})
)

// Server handles the landing page, table pages and document actions.
type Server struct {
	catalog  *tables.Catalog
	sources  *datasources.Manager
	store    *tables.Store
	renderer *rendering.TableRenderer
	decoder  *schema.Decoder
	title    string
	subtitle string
}

// NewServer creates a server for the tables in catalog. Every table must have
// a source registered under its name.
func NewServer(catalog *tables.Catalog, sources *datasources.Manager, store *tables.Store) (*Server, error) {
	renderer, err := rendering.NewTableRenderer()
	if err != nil {
		return nil, err
	}
	for _, cfg := range catalog.All() {
		if _, ok := sources.Source(cfg.Name); !ok {
			return nil, fmt.Errorf("table %q has no source", cfg.Name)
		}
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Server{
		catalog:  catalog,
		sources:  sources,
		store:    store,
		renderer: renderer,
		decoder:  decoder,
		title:    "Tables",
		subtitle: "Collections served from remote JSON endpoints",
	}, nil
}

// SetLanding sets the landing page headings.
func (s *Server) SetLanding(title, subtitle string) {
	s.title = title
	s.subtitle = subtitle
}

// HandlerResult describes a failed request. A nil result means the handler
// already wrote its response.
type HandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) *HandlerResult

// Register adds the server routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("GET /{$}", s.handle(s.handleLanding))
	mux.Handle("GET /tables/{name}", s.handle(s.handleTable))
	mux.Handle("GET /documents/{id}", s.handle(s.handleDocument))
	mux.Handle("POST /documents/{id}/rows/delete", s.handle(s.handleDeleteRow))
	mux.Handle("POST /documents/{id}/form", s.handle(s.handleOpenForm))
	mux.Handle("POST /documents/{id}/form/cancel", s.handle(s.handleCancelForm))
	mux.Handle("POST /documents/{id}/form/submit", s.handle(s.handleSubmit))
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns a mux serving only the server routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

func (s *Server) handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		res := fn(w, r)
		entry := logger.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		})
		if res == nil {
			entry.Debug("request served")
			return
		}
		if res.Error != nil {
			entry.WithError(res.Error).Error("request failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		entry.WithField("status", res.StatusCode).Info(res.Message)
		http.Error(w, res.Message, res.StatusCode)
	})
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) *HandlerResult {
	vm := views.BuildLanding(s.title, s.subtitle, s.catalog.All())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderLanding(w, vm); err != nil {
		logger.Log.WithError(err).Error("landing page rendering error")
	}
	return nil
}

// handleTable is a full page load: a new document filled by a fresh fetch.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) *HandlerResult {
	name := r.PathValue("name")
	cfg := s.catalog.Get(name)
	if cfg == nil {
		return &HandlerResult{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("Table '%s' not found", name)}
	}
	source, ok := s.sources.Source(name)
	if !ok {
		return &HandlerResult{Error: fmt.Errorf("table %q has no source", name)}
	}

	doc := s.store.New(cfg, source)
	pageLoads.WithLabelValues(name).Inc()
	// A failed fetch is shown on the page.
	_ = doc.Render(r.Context())
	s.writePage(w, doc)
	return nil
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) *HandlerResult {
	doc, res := s.document(r)
	if res != nil {
		return res
	}
	s.writePage(w, doc)
	return nil
}

type deleteRowRequest struct {
	Key string `schema:"key,required"`
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) *HandlerResult {
	doc, res := s.document(r)
	if res != nil {
		return res
	}
	var req deleteRowRequest
	if res := s.decodeForm(r, &req); res != nil {
		return res
	}

	err := doc.DeleteRow(r.Context(), req.Key)
	switch {
	case errors.Is(err, tables.ErrDeleteDisabled):
		return &HandlerResult{StatusCode: http.StatusForbidden, Message: err.Error()}
	case errors.Is(err, tables.ErrRowNotFound):
		return &HandlerResult{StatusCode: http.StatusNotFound, Message: err.Error()}
	case err == nil:
		rowsDeleted.WithLabelValues(doc.Config().Name).Inc()
	}
	// A failed remote delete leaves the row in place; it is logged by the document.
	s.redirect(w, r, doc)
	return nil
}

func (s *Server) handleOpenForm(w http.ResponseWriter, r *http.Request) *HandlerResult {
	doc, res := s.document(r)
	if res != nil {
		return res
	}
	if err := doc.OpenForm(); err != nil {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	s.redirect(w, r, doc)
	return nil
}

func (s *Server) handleCancelForm(w http.ResponseWriter, r *http.Request) *HandlerResult {
	doc, res := s.document(r)
	if res != nil {
		return res
	}
	doc.CloseForm()
	s.redirect(w, r, doc)
	return nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) *HandlerResult {
	doc, res := s.document(r)
	if res != nil {
		return res
	}
	if err := r.ParseForm(); err != nil {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}

	result, err := doc.Submit(r.Context(), r.PostForm)
	if errors.Is(err, tables.ErrFormClosed) {
		return &HandlerResult{StatusCode: http.StatusConflict, Message: "The add form is not open"}
	}
	table := doc.Config().Name
	switch result {
	case tables.SubmitInvalid:
		formsRejected.WithLabelValues(table).Inc()
	case tables.SubmitCreated:
		rowsCreated.WithLabelValues(table).Inc()
	}
	s.redirect(w, r, doc)
	return nil
}

func (s *Server) document(r *http.Request) (*tables.Document, *HandlerResult) {
	id := r.PathValue("id")
	doc, err := s.store.Get(id)
	if errors.Is(err, tables.ErrDocumentNotFound) {
		return nil, &HandlerResult{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("Document '%s' not found. Reload the table to start again.", id),
		}
	}
	if err != nil {
		return nil, &HandlerResult{Error: err}
	}
	return doc, nil
}

func (s *Server) decodeForm(r *http.Request, dst any) *HandlerResult {
	if err := r.ParseForm(); err != nil {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	if err := s.decoder.Decode(dst, r.PostForm); err != nil {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	return nil
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, doc *tables.Document) {
	http.Redirect(w, r, views.DocumentURL(doc.ID()), http.StatusSeeOther)
}

func (s *Server) writePage(w http.ResponseWriter, doc *tables.Document) {
	vm := views.BuildPage(doc.Snapshot())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// The renderer may already have written part of the page, so only log.
	if err := s.renderer.Render(w, vm); err != nil {
		logger.Log.WithError(err).WithField("document", doc.ID()).Error("template rendering error")
	}
}
