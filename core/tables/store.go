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
	"errors"
	"sync"
	"time"

	"github.com/google/tabula/datasources"
	"github.com/google/uuid"
)

// ErrDocumentNotFound is returned for unknown or expired document ids.
var ErrDocumentNotFound = errors.New("document not found")

type storeEntry struct {
	doc      *Document
	lastUsed time.Time
}

// Store keeps the documents of recent page loads. It holds at most max
// documents, evicting the least recently used, and drops documents idle for
// longer than ttl.
type Store struct {
	mu      sync.Mutex
	entries map[string]*storeEntry
	max     int
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a store. max <= 0 means 1000; ttl <= 0 means 30 minutes.
func NewStore(max int, ttl time.Duration) *Store {
	if max <= 0 {
		max = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		entries: make(map[string]*storeEntry),
		max:     max,
		ttl:     ttl,
		now:     time.Now,
	}
}

// New creates and stores an empty document for config.
func (s *Store) New(config *Config, source datasources.Source) *Document {
	doc := NewDocument(uuid.NewString(), config, source)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expireLocked(now)
	for len(s.entries) >= s.max {
		s.evictOldestLocked()
	}
	s.entries[doc.ID()] = &storeEntry{doc: doc, lastUsed: now}
	return doc
}

// Get returns the document with id and marks it used.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e, ok := s.entries[id]
	if !ok || now.Sub(e.lastUsed) > s.ttl {
		delete(s.entries, id)
		return nil, ErrDocumentNotFound
	}
	e.lastUsed = now
	return e.doc, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) expireLocked(now time.Time) {
	for id, e := range s.entries {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.entries, id)
		}
	}
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	delete(s.entries, oldestID)
}
