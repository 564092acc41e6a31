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

// Package datasources provides access to remote JSON collections: fetching
// the rows a table renders and forwarding row creation and deletion.
package datasources

import (
	"context"
	"fmt"

	"github.com/google/tabula/core/columns"
)

// Source is a remote collection a table is rendered from.
type Source interface {
	// Fetch retrieves every entry of the collection in response order.
	Fetch(ctx context.Context) (*Collection, error)

	// Delete removes the entry identified by key.
	Delete(ctx context.Context, key string) error

	// Create adds an entry built from payload.
	Create(ctx context.Context, payload map[string]any) error
}

// Entry is one keyed record of a collection.
type Entry struct {
	Key    string
	Record columns.Record
}

// Collection is the decoded body of a collection fetch.
type Collection struct {
	Entries []Entry
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// StatusError reports a non-2xx answer from the remote collection.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: error code: %d", e.Op, e.Status)
}

// IsSuccess reports whether status is in [200, 299].
func IsSuccess(status int) bool {
	return status >= 200 && status <= 299
}
