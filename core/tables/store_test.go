/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package tables

import (
	"errors"
	"testing"
	"time"
)

func TestStoreGet(t *testing.T) {
	s := NewStore(10, time.Minute)
	doc := s.New(titleConfig(false), &fakeSource{})

	got, err := s.Get(doc.ID())
	if err != nil || got != doc {
		t.Fatalf("Get: %v %v", got, err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	s := NewStore(2, time.Hour)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	a := s.New(titleConfig(false), &fakeSource{})
	clock = clock.Add(time.Second)
	b := s.New(titleConfig(false), &fakeSource{})
	clock = clock.Add(time.Second)
	s.Get(a.ID())
	clock = clock.Add(time.Second)
	s.New(titleConfig(false), &fakeSource{})

	if s.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", s.Len())
	}
	if _, err := s.Get(b.ID()); err == nil {
		t.Error("b should have been evicted")
	}
	if _, err := s.Get(a.ID()); err != nil {
		t.Error("a was used recently and should be kept")
	}
}

func TestStoreExpires(t *testing.T) {
	s := NewStore(10, time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	doc := s.New(titleConfig(false), &fakeSource{})
	clock = clock.Add(2 * time.Minute)
	if _, err := s.Get(doc.ID()); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}
}
