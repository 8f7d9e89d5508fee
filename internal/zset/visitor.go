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

// NoLimit is the parsed "no limit" sentinel for LIMIT count (spec 4.4).
const NoLimit = ^uint32(0)

// IndexInterval is a rank-based interval; negative bounds count from the
// tail after normalization (spec 3).
type IndexInterval struct {
	Start int32
	End   int32
}

// ScoreInterval is a [min,max] range over scores.
type ScoreInterval struct {
	Min ScoreBound
	Max ScoreBound
}

// LexInterval is a range over member bytes.
type LexInterval struct {
	Min LexBound
	Max LexBound
}

// RangeParams carries the parameters that modulate a range visit. Offset
// and Limit only apply to ScoreInterval and LexInterval; the visitor
// silently ignores them for IndexInterval (spec 4.4/9).
type RangeParams struct {
	Reverse    bool
	WithScores bool
	Offset     uint32
	Limit      uint32
}

// ScoredMember is one result row of a Range visit.
type ScoredMember struct {
	Member Member
	Score  Score
	HasScore bool
}

// normalizeIndex clamps an IndexInterval to [0, length-1], returning
// ok=false if the resulting range is empty.
func normalizeIndex(ii IndexInterval, length int) (start, end int, ok bool) {
	s, e := int(ii.Start), int(ii.End)
	if s < 0 {
		s += length
	}
	if e < 0 {
		e += length
	}
	if s < 0 {
		s = 0
	}
	if s > e || s >= length {
		return 0, 0, false
	}
	if e >= length {
		e = length - 1
	}
	return s, e, true
}

// RangeByIndex implements the IndexInterval case of the range visitor for
// the Range action, in either encoding.
func (s *SortedSet) RangeByIndex(ii IndexInterval, params RangeParams) []ScoredMember {
	length := s.Length()
	start, end, ok := normalizeIndex(ii, length)
	if !ok {
		return nil
	}

	var fwdStart, fwdEnd int
	if params.Reverse {
		fwdStart = length - 1 - end
		fwdEnd = length - 1 - start
	} else {
		fwdStart = start
		fwdEnd = end
	}
	n := fwdEnd - fwdStart + 1
	out := make([]ScoredMember, 0, n)

	if s.encoding == EncodingPacked {
		all := s.pk.all()
		for i := fwdStart; i <= fwdEnd; i++ {
			out = append(out, ScoredMember{Member: all[i].member, Score: all[i].score, HasScore: params.WithScores})
		}
	} else {
		node := s.idx.sl.byRank(fwdStart + 1)
		for i := 0; i < n && node != nil; i++ {
			out = append(out, ScoredMember{Member: node.member, Score: node.score, HasScore: params.WithScores})
			node = node.level[0].forward
		}
	}

	if params.Reverse {
		for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}

// RemoveByIndex implements the IndexInterval case of the range visitor for
// the Remove action; returns the count removed.
func (s *SortedSet) RemoveByIndex(ii IndexInterval) int {
	length := s.Length()
	start, end, ok := normalizeIndex(ii, length)
	if !ok {
		return 0
	}
	if s.encoding == EncodingPacked {
		all := s.pk.all()
		removed := 0
		for i := start; i <= end; i++ {
			s.pk.delete(all[i].member)
			removed++
		}
		return removed
	}
	return s.idx.sl.deleteRangeByRank(start+1, end+1, s.idx.index)
}

// RangeByScore implements the ScoreInterval case of the range visitor for
// the Range action. It starts at the boundary element and walks forward
// (or backward, if reverse) skipping Offset elements unconditionally, then
// emits up to Limit elements that still satisfy the trailing bound.
func (s *SortedSet) RangeByScore(si ScoreInterval, params RangeParams) []ScoredMember {
	lowBound, highBound := si.Min, si.Max

	var candidates []entry
	if s.encoding == EncodingPacked {
		for _, e := range s.pk.all() {
			if lowBound.satisfiesLower(e.score) && highBound.satisfiesUpper(e.score) {
				candidates = append(candidates, e)
			}
		}
		if params.Reverse {
			for l, r := 0, len(candidates)-1; l < r; l, r = l+1, r-1 {
				candidates[l], candidates[r] = candidates[r], candidates[l]
			}
		}
	} else {
		var start *skiplistNode
		if params.Reverse {
			start = s.idx.sl.lastInScoreRange(lowBound, highBound)
		} else {
			start = s.idx.sl.firstInScoreRange(lowBound, highBound)
		}
		for n := start; n != nil; {
			candidates = append(candidates, entry{member: n.member, score: n.score})
			if params.Reverse {
				n = n.backward
				if n == s.idx.sl.head {
					n = nil
				}
			} else {
				n = n.level[0].forward
			}
			if len(candidates) > 0 {
				last := candidates[len(candidates)-1]
				if params.Reverse && !lowBound.satisfiesLower(last.score) {
					candidates = candidates[:len(candidates)-1]
					break
				}
				if !params.Reverse && !highBound.satisfiesUpper(last.score) {
					candidates = candidates[:len(candidates)-1]
					break
				}
			}
		}
	}

	return applyOffsetLimit(candidates, params)
}

// RangeByLex is the lex-comparator analogue of RangeByScore.
func (s *SortedSet) RangeByLex(li LexInterval, params RangeParams) []ScoredMember {
	lowBound, highBound := li.Min, li.Max

	var candidates []entry
	if s.encoding == EncodingPacked {
		for _, e := range s.pk.all() {
			if lowBound.satisfiesLower(e.member) && highBound.satisfiesUpper(e.member) {
				candidates = append(candidates, e)
			}
		}
		if params.Reverse {
			for l, r := 0, len(candidates)-1; l < r; l, r = l+1, r-1 {
				candidates[l], candidates[r] = candidates[r], candidates[l]
			}
		}
	} else {
		var start *skiplistNode
		if params.Reverse {
			start = s.idx.sl.lastInLexRange(lowBound, highBound)
		} else {
			start = s.idx.sl.firstInLexRange(lowBound, highBound)
		}
		for n := start; n != nil; {
			candidates = append(candidates, entry{member: n.member, score: n.score})
			if params.Reverse {
				n = n.backward
				if n == s.idx.sl.head {
					n = nil
				}
			} else {
				n = n.level[0].forward
			}
			if len(candidates) > 0 {
				last := candidates[len(candidates)-1]
				if params.Reverse && !lowBound.satisfiesLower(last.member) {
					candidates = candidates[:len(candidates)-1]
					break
				}
				if !params.Reverse && !highBound.satisfiesUpper(last.member) {
					candidates = candidates[:len(candidates)-1]
					break
				}
			}
		}
	}

	return applyOffsetLimit(candidates, params)
}

func applyOffsetLimit(candidates []entry, params RangeParams) []ScoredMember {
	if int(params.Offset) >= len(candidates) {
		return nil
	}
	candidates = candidates[params.Offset:]
	if params.Limit != NoLimit && int(params.Limit) < len(candidates) {
		candidates = candidates[:params.Limit]
	}
	out := make([]ScoredMember, len(candidates))
	for i, e := range candidates {
		out[i] = ScoredMember{Member: e.member, Score: e.score, HasScore: params.WithScores}
	}
	return out
}

// RemoveByScore deletes every member whose score is within si and returns
// the count removed, using the skiplist's native O((removed)+log N)
// range deletion on the indexed encoding.
func (s *SortedSet) RemoveByScore(si ScoreInterval) int {
	if s.encoding == EncodingIndexed {
		return s.idx.sl.deleteRangeByScore(si.Min, si.Max, s.idx.index)
	}
	matched := s.RangeByScore(si, RangeParams{Limit: NoLimit})
	for _, m := range matched {
		s.pk.delete(m.Member)
	}
	return len(matched)
}

// RemoveByLex deletes every member within li and returns the count
// removed, using the skiplist's native range deletion on the indexed
// encoding.
func (s *SortedSet) RemoveByLex(li LexInterval) int {
	if s.encoding == EncodingIndexed {
		return s.idx.sl.deleteRangeByLex(li.Min, li.Max, s.idx.index)
	}
	matched := s.RangeByLex(li, RangeParams{Limit: NoLimit})
	for _, m := range matched {
		s.pk.delete(m.Member)
	}
	return len(matched)
}

// CountByScore returns the number of members within si without
// materializing the range; it uses first/last-in-range rank arithmetic on
// the indexed encoding and a linear scan on packed (spec 4.5).
func (s *SortedSet) CountByScore(si ScoreInterval) int {
	if s.encoding == EncodingPacked {
		count := 0
		for _, e := range s.pk.all() {
			if si.Min.satisfiesLower(e.score) && si.Max.satisfiesUpper(e.score) {
				count++
			}
		}
		return count
	}
	first := s.idx.sl.firstInScoreRange(si.Min, si.Max)
	if first == nil {
		return 0
	}
	last := s.idx.sl.lastInScoreRange(si.Min, si.Max)
	return s.idx.sl.rank(last.score, last.member) - s.idx.sl.rank(first.score, first.member) + 1
}

// CountByLex is the lex-comparator analogue of CountByScore.
func (s *SortedSet) CountByLex(li LexInterval) int {
	if s.encoding == EncodingPacked {
		count := 0
		for _, e := range s.pk.all() {
			if li.Min.satisfiesLower(e.member) && li.Max.satisfiesUpper(e.member) {
				count++
			}
		}
		return count
	}
	first := s.idx.sl.firstInLexRange(li.Min, li.Max)
	if first == nil {
		return 0
	}
	last := s.idx.sl.lastInLexRange(li.Min, li.Max)
	return s.idx.sl.rank(last.score, last.member) - s.idx.sl.rank(first.score, first.member) + 1
}
