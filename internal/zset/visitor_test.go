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
	"testing"

	"github.com/go-test/deep"
)

type memberScore struct {
	m  Member
	sc Score
}

func buildSet(indexed bool, pairs ...memberScore) *SortedSet {
	var s *SortedSet
	if indexed {
		s = NewWithThresholds(0, 64)
	} else {
		s = New()
	}
	for _, p := range pairs {
		s.Add(p.m, p.sc, AddFlags{})
	}
	return s
}

func abcde(indexed bool) *SortedSet {
	return buildSet(indexed,
		memberScore{"a", 1},
		memberScore{"b", 2},
		memberScore{"c", 3},
		memberScore{"d", 4},
		memberScore{"e", 5},
	)
}

func fruitSet(indexed bool) *SortedSet {
	return buildSet(indexed,
		memberScore{"apple", 0},
		memberScore{"banana", 0},
		memberScore{"cherry", 0},
	)
}

func membersOf(rows []ScoredMember) []Member {
	out := make([]Member, len(rows))
	for i, r := range rows {
		out[i] = r.Member
	}
	return out
}

func assertMembers(t *testing.T, got []ScoredMember, want []Member) {
	t.Helper()
	gm := membersOf(got)
	if diff := deep.Equal(gm, want); diff != nil {
		t.Fatalf("unexpected diff: %v", diff)
	}
}

func Test_RangeByIndex_full_range_both_encodings(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		got := s.RangeByIndex(IndexInterval{Start: 0, End: -1}, RangeParams{})
		assertMembers(t, got, []Member{"a", "b", "c", "d", "e"})
	}
}

func Test_RangeByIndex_reverse(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		got := s.RangeByIndex(IndexInterval{Start: 0, End: -1}, RangeParams{Reverse: true})
		assertMembers(t, got, []Member{"e", "d", "c", "b", "a"})
	}
}

func Test_RangeByIndex_out_of_range_returns_empty(t *testing.T) {
	s := abcde(false)
	got := s.RangeByIndex(IndexInterval{Start: 10, End: 20}, RangeParams{})
	if got != nil {
		t.Fatalf("expected nil for a start beyond the set, got %v", got)
	}
}

func Test_RemoveByIndex(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		removed := s.RemoveByIndex(IndexInterval{Start: 1, End: 2})
		if removed != 2 {
			t.Fatalf("expected 2 removed, got %d", removed)
		}
		got := s.RangeByIndex(IndexInterval{Start: 0, End: -1}, RangeParams{})
		assertMembers(t, got, []Member{"a", "d", "e"})
	}
}

func Test_RangeByScore_closed_bounds(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		got := s.RangeByScore(ScoreInterval{
			Min: ScoreBound{Value: 2},
			Max: ScoreBound{Value: 4},
		}, RangeParams{Limit: NoLimit})
		assertMembers(t, got, []Member{"b", "c", "d"})
	}
}

func Test_RangeByScore_open_bounds_exclude_endpoints(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		got := s.RangeByScore(ScoreInterval{
			Min: ScoreBound{Value: 2, Exclusive: true},
			Max: ScoreBound{Value: 4, Exclusive: true},
		}, RangeParams{Limit: NoLimit})
		assertMembers(t, got, []Member{"c"})
	}
}

func Test_RangeByScore_identical_open_bounds_is_empty(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		got := s.RangeByScore(ScoreInterval{
			Min: ScoreBound{Value: 3, Exclusive: true},
			Max: ScoreBound{Value: 3, Exclusive: true},
		}, RangeParams{Limit: NoLimit})
		if len(got) != 0 {
			t.Fatalf("expected empty result for an open-open identical bound, got %v", got)
		}
	}
}

func Test_RangeByScore_reverse(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		got := s.RangeByScore(ScoreInterval{
			Min: ScoreBound{Value: 2},
			Max: ScoreBound{Value: 4},
		}, RangeParams{Reverse: true, Limit: NoLimit})
		assertMembers(t, got, []Member{"d", "c", "b"})
	}
}

func Test_RangeByScore_offset_and_limit(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		got := s.RangeByScore(ScoreInterval{
			Min: ScoreBound{Value: Score(0)},
			Max: ScoreBound{Value: Score(10)},
		}, RangeParams{Offset: 1, Limit: 2})
		assertMembers(t, got, []Member{"b", "c"})
	}
}

func Test_RangeByLex_full_range(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := fruitSet(indexed)
		got := s.RangeByLex(LexInterval{
			Min: LexBound{Kind: LexMinusInf},
			Max: LexBound{Kind: LexPlusInf},
		}, RangeParams{Limit: NoLimit})
		assertMembers(t, got, []Member{"apple", "banana", "cherry"})
	}
}

func Test_RangeByLex_bounded(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := fruitSet(indexed)
		got := s.RangeByLex(LexInterval{
			Min: LexBound{Kind: LexClosed, Value: "banana"},
			Max: LexBound{Kind: LexPlusInf},
		}, RangeParams{Limit: NoLimit})
		assertMembers(t, got, []Member{"banana", "cherry"})
	}
}

func Test_RemoveByScore(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		removed := s.RemoveByScore(ScoreInterval{
			Min: ScoreBound{Value: 2},
			Max: ScoreBound{Value: 4},
		})
		if removed != 3 {
			t.Fatalf("expected 3 removed, got %d", removed)
		}
		if s.Length() != 2 {
			t.Fatalf("expected 2 remaining, got %d", s.Length())
		}
	}
}

func Test_RemoveByLex(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := fruitSet(indexed)
		removed := s.RemoveByLex(LexInterval{
			Min: LexBound{Kind: LexClosed, Value: "banana"},
			Max: LexBound{Kind: LexPlusInf},
		})
		if removed != 2 {
			t.Fatalf("expected 2 removed, got %d", removed)
		}
	}
}

func Test_CountByScore(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := abcde(indexed)
		count := s.CountByScore(ScoreInterval{
			Min: ScoreBound{Value: 2},
			Max: ScoreBound{Value: 4},
		})
		if count != 3 {
			t.Fatalf("expected count 3, got %d", count)
		}
	}
}

func Test_CountByLex(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		s := fruitSet(indexed)
		count := s.CountByLex(LexInterval{
			Min: LexBound{Kind: LexMinusInf},
			Max: LexBound{Kind: LexPlusInf},
		})
		if count != 3 {
			t.Fatalf("expected count 3, got %d", count)
		}
	}
}
