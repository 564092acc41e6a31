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

package datasources

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/google/tabula/core/columns"
)

// DecodeCollection decodes {"data": {key: record, ...}} in object iteration
// order: array-index keys ("0", "1", "10", ...) first in ascending numeric
// order, then every other key in the order it appears in the body. Other
// top-level fields are ignored. A repeated key keeps its first position and
// its last record. A null or missing data field is an error.
func DecodeCollection(r io.Reader) (*Collection, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var collection *Collection
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read field name: %w", err)
		}
		name, _ := tok.(string)
		if name != "data" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("failed to skip field %q: %w", name, err)
			}
			continue
		}
		collection, err = decodeEntries(dec)
		if err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, fmt.Errorf("response has no data field")
	}
	return collection, nil
}

func decodeEntries(dec *json.Decoder) (*Collection, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	if tok == nil {
		return nil, fmt.Errorf("data is null")
	}
	collection := &Collection{}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("data must be an object, got %v", tok)
	}

	positions := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read entry key: %w", err)
		}
		key, _ := keyTok.(string)
		var record columns.Record
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode entry %q: %w", key, err)
		}
		if i, ok := positions[key]; ok {
			collection.Entries[i].Record = record
			continue
		}
		positions[key] = len(collection.Entries)
		collection.Entries = append(collection.Entries, Entry{Key: key, Record: record})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	sortIndexKeysFirst(collection.Entries)
	return collection, nil
}

// arrayIndex reports whether key is the canonical decimal form of an array
// index (0 to 2^32-2, no sign, no leading zeros) and returns its value.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

// sortIndexKeysFirst moves array-index keys ahead of the others, ascending.
// The other keys keep their relative order.
func sortIndexKeysFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, aIdx := arrayIndex(entries[i].Key)
		b, bIdx := arrayIndex(entries[j].Key)
		switch {
		case aIdx && bIdx:
			return a < b
		default:
			return aIdx && !bIdx
		}
	})
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to parse collection: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("failed to parse collection: expected %q, got %v", want, tok)
	}
	return nil
}
