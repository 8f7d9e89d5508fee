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

import "sort"

// entry is one (member, score) pair. In the packed encoding entries live in
// a single sorted slice; in the indexed encoding they are the payload of a
// skiplist node.
type entry struct {
	member Member
	score  Score
}

// Member returns the entry's member. Exported so that callers outside
// this package can read the result of SortedSet.All without needing to
// name the unexported entry type.
func (e entry) Member() Member { return e.member }

// ScoreValue returns the entry's score.
func (e entry) ScoreValue() Score { return e.score }

// entryLess orders entries by (score, member) as required by the total-order
// invariant.
func entryLess(a, b entry) bool {
	if a.score != b.score {
		return CompareScore(a.score, b.score) < 0
	}
	return CompareLex(a.member, b.member) < 0
}

// packed is the compact contiguous layout used while a set is small. It
// keeps entries sorted at all times; insertion and lookup are linear scans,
// which is acceptable given the encoding is only used below the packed
// thresholds.
type packed struct {
	entries []entry
}

func newPacked() *packed {
	return &packed{}
}

func (p *packed) length() int {
	return len(p.entries)
}

// find returns the index of member and whether it was found.
func (p *packed) find(m Member) (int, bool) {
	for i, e := range p.entries {
		if e.member == m {
			return i, true
		}
	}
	return -1, false
}

func (p *packed) score(m Member) (Score, bool) {
	if i, ok := p.find(m); ok {
		return p.entries[i].score, true
	}
	return 0, false
}

// insertionPoint returns the index of the first entry that is not less than
// e under (score, member) order.
func (p *packed) insertionPoint(e entry) int {
	return sort.Search(len(p.entries), func(i int) bool {
		return !entryLess(p.entries[i], e)
	})
}

// upsert inserts a new (member, score) or updates the score of an existing
// member, preserving sort order. Returns true if the member was newly
// added.
func (p *packed) upsert(m Member, s Score) bool {
	if i, ok := p.find(m); ok {
		p.entries = append(p.entries[:i], p.entries[i+1:]...)
		ne := entry{member: m, score: s}
		at := p.insertionPoint(ne)
		p.entries = append(p.entries, entry{})
		copy(p.entries[at+1:], p.entries[at:])
		p.entries[at] = ne
		return false
	}
	ne := entry{member: m, score: s}
	at := p.insertionPoint(ne)
	p.entries = append(p.entries, entry{})
	copy(p.entries[at+1:], p.entries[at:])
	p.entries[at] = ne
	return true
}

func (p *packed) delete(m Member) bool {
	i, ok := p.find(m)
	if !ok {
		return false
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	return true
}

// rank returns the 0-based position of member in ascending order.
func (p *packed) rank(m Member) (int, bool) {
	i, ok := p.find(m)
	return i, ok
}

func (p *packed) at(rank int) (entry, bool) {
	if rank < 0 || rank >= len(p.entries) {
		return entry{}, false
	}
	return p.entries[rank], true
}

func (p *packed) all() []entry {
	out := make([]entry, len(p.entries))
	copy(out, p.entries)
	return out
}
