/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors
*/

package datasources

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeCollectionIterationOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "string keys keep body order",
			body: `{"status":"ok","data":{"b":{"name":"B"},"a":{"name":"A"},"c":{"name":"C"}}}`,
			want: []string{"b", "a", "c"},
		},
		{
			name: "index keys ascend numerically before other keys",
			body: `{"data":{"10":{},"2":{},"x":{},"1":{}}}`,
			want: []string{"1", "2", "10", "x"},
		},
		{
			name: "non-canonical numbers are ordinary keys",
			body: `{"data":{"z":{},"01":{},"-1":{},"1.5":{},"4294967295":{},"4294967294":{},"0":{}}}`,
			want: []string{"0", "4294967294", "z", "01", "-1", "1.5", "4294967295"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DecodeCollection(strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("DecodeCollection: %v", err)
			}
			if c.Len() != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), c.Len())
			}
			for i, key := range tt.want {
				if c.Entries[i].Key != key {
					t.Errorf("entry %d: expected key %q, got %q", i, key, c.Entries[i].Key)
				}
			}
		})
	}
}

func TestDecodeCollectionKeepsNumbers(t *testing.T) {
	c, err := DecodeCollection(strings.NewReader(`{"data":{"1":{"price":19.90}}}`))
	if err != nil {
		t.Fatalf("DecodeCollection: %v", err)
	}
	if got := c.Entries[0].Record["price"]; got != json.Number("19.90") {
		t.Errorf("expected json.Number 19.90, got %#v", got)
	}
}

func TestDecodeCollectionDuplicateKey(t *testing.T) {
	c, err := DecodeCollection(strings.NewReader(`{"data":{"1":{"v":"a"},"2":{"v":"b"},"1":{"v":"c"}}}`))
	if err != nil {
		t.Fatalf("DecodeCollection: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if c.Entries[0].Key != "1" || c.Entries[0].Record["v"] != "c" {
		t.Errorf("unexpected first entry %+v", c.Entries[0])
	}
	c, err = DecodeCollection(strings.NewReader(`{"data":{"b":{"v":"a"},"a":{"v":"b"},"b":{"v":"c"}}}`))
	if err != nil {
		t.Fatalf("DecodeCollection: %v", err)
	}
	if c.Len() != 2 || c.Entries[0].Key != "b" || c.Entries[0].Record["v"] != "c" {
		t.Errorf("unexpected entries %+v", c.Entries)
	}
}

func TestDecodeCollectionErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"no data", `{"items":[]}`},
		{"data array", `{"data":[1,2]}`},
		{"record not object", `{"data":{"1":"x"}}`},
		{"truncated", `{"data":{"1":{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCollection(strings.NewReader(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodeCollectionNullData(t *testing.T) {
	if _, err := DecodeCollection(strings.NewReader(`{"data":null}`)); err == nil {
		t.Error("expected null data to be an error")
	}
}
