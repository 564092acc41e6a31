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

package demo

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/tabula/core/logger"
	"github.com/sirupsen/logrus"
)

// Operations accepted by FailNext.
const (
	OpFetch  = "fetch"
	OpDelete = "delete"
	OpCreate = "create"
)

type mockCollection struct {
	keys    []string
	records map[string]map[string]any
	next    int
}

func (c *mockCollection) add(record map[string]any) string {
	c.next++
	key := strconv.Itoa(c.next)
	c.keys = append(c.keys, key)
	c.records[key] = record
	return key
}

func (c *mockCollection) remove(key string) bool {
	if _, ok := c.records[key]; !ok {
		return false
	}
	delete(c.records, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return true
}

// MockAPI is an in-memory collection service. It serves
//
//	GET    /{collection}        {"data": {key: record, ...}} in insertion order
//	POST   /{collection}        adds the JSON object in the body
//	DELETE /{collection}/{key}  removes one record
//
// Keys are assigned sequentially per collection.
type MockAPI struct {
	mux *http.ServeMux

	mu          sync.Mutex
	collections map[string]*mockCollection
	failures    map[string]int
}

// NewMockAPI returns an empty service.
func NewMockAPI() *MockAPI {
	m := &MockAPI{
		mux:         http.NewServeMux(),
		collections: make(map[string]*mockCollection),
		failures:    make(map[string]int),
	}
	m.mux.HandleFunc("GET /{collection}", m.handleList)
	m.mux.HandleFunc("POST /{collection}", m.handleCreate)
	m.mux.HandleFunc("DELETE /{collection}/{key}", m.handleDelete)
	return m
}

func (m *MockAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

func (m *MockAPI) collectionLocked(name string) *mockCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &mockCollection{records: make(map[string]map[string]any)}
		m.collections[name] = c
	}
	return c
}

// Seed appends records to collection, creating it if needed.
func (m *MockAPI) Seed(collection string, records ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collectionLocked(collection)
	for _, r := range records {
		c.add(r)
	}
}

// Keys returns the keys of collection in order.
func (m *MockAPI) Keys(collection string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Record returns one stored record.
func (m *MockAPI) Record(collection, key string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return nil, false
	}
	r, ok := c.records[key]
	return r, ok
}

// FailNext makes the next request of op answer with status.
func (m *MockAPI) FailNext(op string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = status
}

func (m *MockAPI) takeFailureLocked(op string) (int, bool) {
	status, ok := m.failures[op]
	if ok {
		delete(m.failures, op)
	}
	return status, ok
}

func (m *MockAPI) handleList(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("collection")

	m.mu.Lock()
	if status, ok := m.takeFailureLocked(OpFetch); ok {
		m.mu.Unlock()
		http.Error(w, http.StatusText(status), status)
		return
	}
	c, ok := m.collections[name]
	if !ok {
		m.mu.Unlock()
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	buf.WriteString(`{"data":{`)
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		v, err := json.Marshal(c.records[key])
		if err != nil {
			m.mu.Unlock()
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString(`}}`)
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (m *MockAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("collection")

	var record map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil || record == nil {
		http.Error(w, "body must be a JSON object", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	if status, ok := m.takeFailureLocked(OpCreate); ok {
		m.mu.Unlock()
		http.Error(w, http.StatusText(status), status)
		return
	}
	key := m.collectionLocked(name).add(record)
	m.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{"collection": name, "key": key}).Debug("mock record created")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": key})
}

func (m *MockAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	name, key := r.PathValue("collection"), r.PathValue("key")

	m.mu.Lock()
	if status, ok := m.takeFailureLocked(OpDelete); ok {
		m.mu.Unlock()
		http.Error(w, http.StatusText(status), status)
		return
	}
	c, ok := m.collections[name]
	removed := ok && c.remove(key)
	m.mu.Unlock()

	if !removed {
		http.NotFound(w, r)
		return
	}
	logger.Log.WithFields(logrus.Fields{"collection": name, "key": key}).Debug("mock record deleted")
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{}`))
}
