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

import "math"

const (
	defaultMaxPackedEntries   = 128
	defaultMaxPackedMemberLen = 64
)

// Encoding names the live representation of a SortedSet.
type Encoding int

const (
	EncodingPacked Encoding = iota
	EncodingIndexed
)

// AddFlags controls ZADD-style upsert semantics (spec 4.3).
type AddFlags struct {
	NX   bool
	XX   bool
	GT   bool
	LT   bool
	INCR bool
	CH   bool
}

// AddOutcome discriminates the per-pair result of Add.
type AddOutcome int

const (
	Added AddOutcome = iota
	Updated
	NoOp
	Nan
)

// SortedSet owns exactly one encoding and promotes packed -> indexed the
// moment an insertion would violate the count or member-length threshold.
// There is no back-transition (spec 4.7).
type SortedSet struct {
	encoding Encoding
	pk       *packed
	idx      *indexedSet

	maxPackedEntries   int
	maxPackedMemberLen int
}

// indexedSet is the skiplist + hash-index pair used once a set has been
// promoted (spec 4.2).
type indexedSet struct {
	sl    *skiplist
	index map[Member]Score
}

func newIndexedSet() *indexedSet {
	return &indexedSet{sl: newSkiplist(), index: make(map[Member]Score)}
}

// New creates an empty SortedSet, packed if the first member (once added)
// stays within the default thresholds. The encoding is chosen lazily on
// first insert per spec 3's lifecycle rule; New itself always starts
// packed since it has no members yet.
func New() *SortedSet {
	return &SortedSet{
		encoding:           EncodingPacked,
		pk:                 newPacked(),
		maxPackedEntries:   defaultMaxPackedEntries,
		maxPackedMemberLen: defaultMaxPackedMemberLen,
	}
}

// NewWithThresholds creates an empty SortedSet with custom packed
// thresholds. cmd/sugarzetd uses it to apply the configured limits, and
// tests use it to exercise promotion boundaries without needing to insert
// hundreds of members.
func NewWithThresholds(maxEntries, maxMemberLen int) *SortedSet {
	s := New()
	s.maxPackedEntries = maxEntries
	s.maxPackedMemberLen = maxMemberLen
	return s
}

func (s *SortedSet) Encoding() Encoding {
	return s.encoding
}

func (s *SortedSet) Length() int {
	if s.encoding == EncodingPacked {
		return s.pk.length()
	}
	return s.idx.sl.length
}

func (s *SortedSet) Score(m Member) (Score, bool) {
	if s.encoding == EncodingPacked {
		return s.pk.score(m)
	}
	sc, ok := s.idx.index[m]
	return sc, ok
}

// Rank returns the 0-based rank of member, ascending unless reverse is set.
func (s *SortedSet) Rank(m Member, reverse bool) (int, bool) {
	var r int
	if s.encoding == EncodingPacked {
		var ok bool
		r, ok = s.pk.rank(m)
		if !ok {
			return 0, false
		}
	} else {
		sc, ok := s.idx.index[m]
		if !ok {
			return 0, false
		}
		r = s.idx.sl.rank(sc, m) - 1
	}
	if reverse {
		return s.Length() - 1 - r, true
	}
	return r, true
}

// needsPromotion reports whether inserting a member of the given length
// while at the given current length would violate a packed threshold.
func (s *SortedSet) needsPromotion(memberLen int, isNewMember bool) bool {
	if memberLen > s.maxPackedMemberLen {
		return true
	}
	if isNewMember && s.pk.length()+1 > s.maxPackedEntries {
		return true
	}
	return false
}

func (s *SortedSet) promote() {
	if s.encoding == EncodingIndexed {
		return
	}
	idx := newIndexedSet()
	for _, e := range s.pk.all() {
		idx.sl.insert(e.score, e.member)
		idx.index[e.member] = e.score
	}
	s.idx = idx
	s.pk = nil
	s.encoding = EncodingIndexed
}

func (s *SortedSet) maybePromote(m Member) {
	if s.encoding == EncodingIndexed {
		return
	}
	_, exists := s.pk.find(m)
	if s.needsPromotion(len(m), !exists) {
		s.promote()
	}
}

// rawUpsert inserts or updates member with score s, dispatching to whichever
// encoding is currently live. Returns true if the member was newly added.
func (s *SortedSet) rawUpsert(m Member, sc Score) bool {
	s.maybePromote(m)
	if s.encoding == EncodingPacked {
		return s.pk.upsert(m, sc)
	}
	if old, exists := s.idx.index[m]; exists {
		s.idx.sl.delete(old, m)
		s.idx.sl.insert(sc, m)
		s.idx.index[m] = sc
		return false
	}
	s.idx.sl.insert(sc, m)
	s.idx.index[m] = sc
	return true
}

// Delete removes member if present. Returns true if it was removed.
func (s *SortedSet) Delete(m Member) bool {
	if s.encoding == EncodingPacked {
		return s.pk.delete(m)
	}
	sc, ok := s.idx.index[m]
	if !ok {
		return false
	}
	s.idx.sl.delete(sc, m)
	delete(s.idx.index, m)
	return true
}

// Add applies flags to a single (member, score) pair per the ZADD
// contract in spec 4.3. The caller is responsible for rejecting
// incompatible flag combinations before calling Add.
func (s *SortedSet) Add(m Member, scoreOrIncrement Score, flags AddFlags) AddOutcome {
	existing, exists := s.Score(m)

	if flags.INCR {
		if !exists {
			if flags.XX {
				return NoOp
			}
			s.rawUpsert(m, scoreOrIncrement)
			return Added
		}
		if flags.NX {
			return NoOp
		}
		newScore := Score(float64(existing) + float64(scoreOrIncrement))
		if math.IsNaN(float64(newScore)) {
			return Nan
		}
		if flags.GT && CompareScore(newScore, existing) <= 0 {
			return NoOp
		}
		if flags.LT && CompareScore(newScore, existing) >= 0 {
			return NoOp
		}
		s.rawUpsert(m, newScore)
		return Updated
	}

	if !exists {
		if flags.XX {
			return NoOp
		}
		s.rawUpsert(m, scoreOrIncrement)
		return Added
	}

	if flags.NX {
		return NoOp
	}
	if flags.GT && CompareScore(scoreOrIncrement, existing) <= 0 {
		return NoOp
	}
	if flags.LT && CompareScore(scoreOrIncrement, existing) >= 0 {
		return NoOp
	}
	if scoreOrIncrement == existing {
		return NoOp
	}
	s.rawUpsert(m, scoreOrIncrement)
	return Updated
}

// All returns every (member, score) pair in ascending (score, member)
// order. Used by the range visitor and by cross-key aggregation.
func (s *SortedSet) All() []entry {
	if s.encoding == EncodingPacked {
		return s.pk.all()
	}
	out := make([]entry, 0, s.idx.sl.length)
	for n := s.idx.sl.head.level[0].forward; n != nil; n = n.level[0].forward {
		out = append(out, entry{member: n.member, score: n.score})
	}
	return out
}
