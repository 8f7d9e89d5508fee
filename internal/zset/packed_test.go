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

import "testing"

func Test_packed_upsert_keeps_sorted_order(t *testing.T) {
	p := newPacked()
	p.upsert("c", 3)
	p.upsert("a", 1)
	p.upsert("b", 2)

	all := p.all()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	want := []Member{"a", "b", "c"}
	for i, e := range all {
		if e.Member() != want[i] {
			t.Fatalf("index %d: got member %q, want %q", i, e.Member(), want[i])
		}
	}
}

func Test_packed_upsert_updates_existing_member(t *testing.T) {
	p := newPacked()
	p.upsert("a", 1)
	added := p.upsert("a", 99)
	if added {
		t.Fatal("upsert on an existing member must report added=false")
	}
	sc, ok := p.score("a")
	if !ok || sc != 99 {
		t.Fatalf("got score %v, ok=%v, want 99", sc, ok)
	}
	if p.length() != 1 {
		t.Fatalf("expected single entry after re-upsert, got %d", p.length())
	}
}

func Test_packed_delete(t *testing.T) {
	p := newPacked()
	p.upsert("a", 1)
	p.upsert("b", 2)

	if !p.delete("a") {
		t.Fatal("expected delete of present member to succeed")
	}
	if p.delete("a") {
		t.Fatal("expected second delete of same member to fail")
	}
	if p.length() != 1 {
		t.Fatalf("expected 1 entry remaining, got %d", p.length())
	}
}

func Test_packed_rank_matches_sorted_position(t *testing.T) {
	p := newPacked()
	p.upsert("z", 1)
	p.upsert("a", 1)
	p.upsert("m", 1)

	// Equal scores fall back to lexicographic member order: a, m, z.
	r, ok := p.rank("m")
	if !ok || r != 1 {
		t.Fatalf("got rank %d, ok=%v, want rank 1", r, ok)
	}
}

func Test_packed_at_out_of_range(t *testing.T) {
	p := newPacked()
	p.upsert("a", 1)
	if _, ok := p.at(-1); ok {
		t.Fatal("expected at(-1) to fail")
	}
	if _, ok := p.at(1); ok {
		t.Fatal("expected at(1) to fail on a single-entry set")
	}
}
