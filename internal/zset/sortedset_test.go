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
	"math"
	"testing"
)

func Test_New_starts_packed_and_empty(t *testing.T) {
	s := New()
	if s.Encoding() != EncodingPacked {
		t.Fatal("a freshly created set must start packed")
	}
	if s.Length() != 0 {
		t.Fatalf("expected empty set, got length %d", s.Length())
	}
}

func Test_Add_basic_insert_and_score_roundtrip(t *testing.T) {
	s := New()
	outcome := s.Add("member1", 5.5, AddFlags{})
	if outcome != Added {
		t.Fatalf("expected Added, got %v", outcome)
	}
	sc, ok := s.Score("member1")
	if !ok || sc != 5.5 {
		t.Fatalf("got score %v, ok=%v, want 5.5", sc, ok)
	}
}

func Test_Add_NX_only_inserts_new_members(t *testing.T) {
	s := New()
	s.Add("member1", 1, AddFlags{})

	if got := s.Add("member1", 99, AddFlags{NX: true}); got != NoOp {
		t.Fatalf("expected NoOp for existing member under NX, got %v", got)
	}
	sc, _ := s.Score("member1")
	if sc != 1 {
		t.Fatalf("NX must not overwrite an existing score, got %v", sc)
	}
	if got := s.Add("member2", 2, AddFlags{NX: true}); got != Added {
		t.Fatalf("expected Added for new member under NX, got %v", got)
	}
}

func Test_Add_XX_only_updates_existing_members(t *testing.T) {
	s := New()
	if got := s.Add("member1", 1, AddFlags{XX: true}); got != NoOp {
		t.Fatalf("expected NoOp for a missing member under XX, got %v", got)
	}
	if s.Length() != 0 {
		t.Fatal("XX on a missing member must not create it")
	}
	s.Add("member1", 1, AddFlags{})
	if got := s.Add("member1", 2, AddFlags{XX: true}); got != Updated {
		t.Fatalf("expected Updated for an existing member under XX, got %v", got)
	}
}

func Test_Add_GT_and_LT(t *testing.T) {
	s := New()
	s.Add("member1", 5, AddFlags{})

	if got := s.Add("member1", 3, AddFlags{GT: true}); got != NoOp {
		t.Fatalf("GT must reject a lower score, got %v", got)
	}
	if got := s.Add("member1", 10, AddFlags{GT: true}); got != Updated {
		t.Fatalf("GT must accept a higher score, got %v", got)
	}
	if got := s.Add("member1", 20, AddFlags{LT: true}); got != NoOp {
		t.Fatalf("LT must reject a higher score, got %v", got)
	}
	if got := s.Add("member1", 1, AddFlags{LT: true}); got != Updated {
		t.Fatalf("LT must accept a lower score, got %v", got)
	}
}

func Test_Add_INCR_returns_Nan_on_overflow_to_nan(t *testing.T) {
	s := New()
	s.Add("member1", Score(math.Inf(1)), AddFlags{})
	outcome := s.Add("member1", Score(math.Inf(-1)), AddFlags{INCR: true})
	if outcome != Nan {
		t.Fatalf("expected Nan outcome for +inf + -inf, got %v", outcome)
	}
	sc, _ := s.Score("member1")
	if sc != Score(math.Inf(1)) {
		t.Fatal("a NaN result must not mutate the stored score")
	}
}

func Test_Add_INCR_creates_member_when_absent(t *testing.T) {
	s := New()
	outcome := s.Add("member1", 5, AddFlags{INCR: true})
	if outcome != Added {
		t.Fatalf("expected Added for INCR on a new member, got %v", outcome)
	}
	sc, _ := s.Score("member1")
	if sc != 5 {
		t.Fatalf("got %v, want 5", sc)
	}
}

func Test_Add_NX_and_INCR_on_existing_member_is_NoOp(t *testing.T) {
	s := New()
	s.Add("member1", 5, AddFlags{})
	if got := s.Add("member1", 10, AddFlags{NX: true, INCR: true}); got != NoOp {
		t.Fatalf("NX+INCR on an existing member must no-op, got %v", got)
	}
	sc, _ := s.Score("member1")
	if sc != 5 {
		t.Fatalf("NX+INCR must not touch the stored score, got %v", sc)
	}
}

func Test_Add_NX_and_INCR_on_absent_member_still_inserts(t *testing.T) {
	s := New()
	if got := s.Add("member1", 5, AddFlags{NX: true, INCR: true}); got != Added {
		t.Fatalf("NX+INCR on a new member must insert, got %v", got)
	}
	sc, _ := s.Score("member1")
	if sc != 5 {
		t.Fatalf("got %v, want 5", sc)
	}
}

func Test_Add_unchanged_score_is_NoOp(t *testing.T) {
	s := New()
	s.Add("member1", 5, AddFlags{})
	if got := s.Add("member1", 5, AddFlags{CH: true}); got != NoOp {
		t.Fatalf("re-adding the same score must be a NoOp, got %v", got)
	}
}

func Test_Delete(t *testing.T) {
	s := New()
	s.Add("member1", 1, AddFlags{})
	if !s.Delete("member1") {
		t.Fatal("expected delete of present member to succeed")
	}
	if s.Delete("member1") {
		t.Fatal("expected second delete to report false")
	}
	if s.Length() != 0 {
		t.Fatalf("expected empty set, got length %d", s.Length())
	}
}

func Test_promotion_by_entry_count(t *testing.T) {
	s := NewWithThresholds(4, 64)
	members := []Member{"a", "b", "c", "d"}
	for i, m := range members {
		s.Add(m, Score(i), AddFlags{})
	}
	if s.Encoding() != EncodingPacked {
		t.Fatal("set must stay packed at exactly the entry threshold")
	}
	s.Add("e", 5, AddFlags{})
	if s.Encoding() != EncodingIndexed {
		t.Fatal("set must promote once the entry threshold is exceeded")
	}
	if s.Length() != 5 {
		t.Fatalf("expected 5 members survive promotion, got %d", s.Length())
	}
}

func Test_promotion_by_member_length(t *testing.T) {
	s := NewWithThresholds(128, 4)
	s.Add("ok", 1, AddFlags{})
	if s.Encoding() != EncodingPacked {
		t.Fatal("short members must stay packed")
	}
	s.Add("toolongmember", 2, AddFlags{})
	if s.Encoding() != EncodingIndexed {
		t.Fatal("a member longer than the threshold must force promotion")
	}
}

func Test_promotion_is_one_way(t *testing.T) {
	s := NewWithThresholds(2, 64)
	s.Add("a", 1, AddFlags{})
	s.Add("b", 2, AddFlags{})
	s.Add("c", 3, AddFlags{})
	if s.Encoding() != EncodingIndexed {
		t.Fatal("expected promotion after exceeding the entry threshold")
	}
	s.Delete("b")
	s.Delete("c")
	if s.Encoding() != EncodingIndexed {
		t.Fatal("a set must never demote back to packed once promoted")
	}
}

func Test_Rank_ascending_and_reverse(t *testing.T) {
	s := New()
	s.Add("a", 1, AddFlags{})
	s.Add("b", 2, AddFlags{})
	s.Add("c", 3, AddFlags{})

	r, ok := s.Rank("b", false)
	if !ok || r != 1 {
		t.Fatalf("got ascending rank %d, ok=%v, want 1", r, ok)
	}
	r, ok = s.Rank("b", true)
	if !ok || r != 1 {
		t.Fatalf("got reverse rank %d, ok=%v, want 1", r, ok)
	}
	r, ok = s.Rank("c", true)
	if !ok || r != 0 {
		t.Fatalf("got reverse rank %d for top member, want 0", r)
	}
	if _, ok := s.Rank("missing", false); ok {
		t.Fatal("expected ok=false for an absent member")
	}
}

func Test_Rank_matches_across_encodings(t *testing.T) {
	packed := New()
	indexed := NewWithThresholds(0, 64)
	for i, m := range []Member{"a", "b", "c", "d"} {
		packed.Add(m, Score(i), AddFlags{})
		indexed.Add(m, Score(i), AddFlags{})
	}
	if packed.Encoding() != EncodingPacked {
		t.Fatal("control set must stay packed")
	}
	if indexed.Encoding() != EncodingIndexed {
		t.Fatal("zero-threshold set must promote immediately")
	}
	for _, m := range []Member{"a", "b", "c", "d"} {
		pr, _ := packed.Rank(m, false)
		ir, _ := indexed.Rank(m, false)
		if pr != ir {
			t.Fatalf("rank mismatch for %q: packed=%d indexed=%d", m, pr, ir)
		}
	}
}

func Test_All_returns_ascending_score_member_order(t *testing.T) {
	s := New()
	s.Add("z", 1, AddFlags{})
	s.Add("a", 1, AddFlags{})
	s.Add("m", 0, AddFlags{})

	all := s.All()
	want := []Member{"m", "a", "z"}
	for i, e := range all {
		if e.Member() != want[i] {
			t.Fatalf("index %d: got %q, want %q", i, e.Member(), want[i])
		}
	}
}
