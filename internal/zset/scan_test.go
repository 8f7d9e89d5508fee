// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zset

import (
	"fmt"
	"testing"
)

func Test_Scan_packed_returns_everything_in_one_call(t *testing.T) {
	s := New()
	s.Add("a", 1, AddFlags{})
	s.Add("b", 2, AddFlags{})

	results, next := s.Scan(0)
	if next != 0 {
		t.Fatalf("expected cursor 0 for a packed scan, got %d", next)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func Test_Scan_empty_set(t *testing.T) {
	s := New()
	results, next := s.Scan(0)
	if next != 0 || len(results) != 0 {
		t.Fatalf("expected empty results and cursor 0, got %d results, cursor %d", len(results), next)
	}
}

func Test_Scan_indexed_eventually_visits_every_member(t *testing.T) {
	s := NewWithThresholds(0, 64)
	total := 200
	for i := 0; i < total; i++ {
		s.Add(Member(fmt.Sprintf("member-%d", i)), Score(i), AddFlags{})
	}
	if s.Encoding() != EncodingIndexed {
		t.Fatal("expected the set under test to have promoted")
	}

	seen := make(map[Member]bool)
	var cursor uint64
	for iterations := 0; iterations < total*4; iterations++ {
		results, next := s.Scan(cursor)
		for _, r := range results {
			seen[r.Member] = true
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(seen) != total {
		t.Fatalf("expected every member visited at least once, saw %d of %d", len(seen), total)
	}
}
