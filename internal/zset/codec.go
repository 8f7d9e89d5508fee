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
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

// Persisted encoding tags. Packed and indexed sets serialize identically;
// only the live in-memory form differs (spec 6).
const (
	tagPacked  byte = 0
	tagIndexed byte = 1
)

var ErrCorruptEncoding = errors.New("corrupt sorted set encoding")

// Encode writes the persisted layout: an encoding-tag byte, a
// length-prefix, then (member-bytes, score-bits) pairs in ascending
// iteration order.
func (s *SortedSet) Encode() []byte {
	all := s.All()

	var buf bytes.Buffer
	if s.encoding == EncodingIndexed {
		buf.WriteByte(tagIndexed)
	} else {
		buf.WriteByte(tagPacked)
	}

	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(all)))
	buf.Write(lenBuf[:])

	for _, e := range all {
		var memberLen [4]byte
		binary.BigEndian.PutUint32(memberLen[:], uint32(len(e.member)))
		buf.Write(memberLen[:])
		buf.WriteString(string(e.member))

		var scoreBits [8]byte
		binary.BigEndian.PutUint64(scoreBits[:], math.Float64bits(float64(e.score)))
		buf.Write(scoreBits[:])
	}

	return buf.Bytes()
}

// Decode rebuilds a SortedSet from the persisted layout produced by
// Encode. The encoding tag in the stream is informational only: Decode
// always re-derives the live encoding from the thresholds, per spec 6's
// note that packed and indexed representations serialize identically.
func Decode(data []byte) (*SortedSet, error) {
	if len(data) < 9 {
		return nil, ErrCorruptEncoding
	}
	// data[0] is the encoding tag; it is not needed to reconstruct the
	// set because both encodings share this wire format.
	count := binary.BigEndian.Uint64(data[1:9])
	rest := data[9:]

	s := New()
	for i := uint64(0); i < count; i++ {
		if len(rest) < 4 {
			return nil, ErrCorruptEncoding
		}
		memberLen := binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
		if uint64(len(rest)) < uint64(memberLen)+8 {
			return nil, ErrCorruptEncoding
		}
		member := Member(rest[:memberLen])
		rest = rest[memberLen:]
		scoreBits := binary.BigEndian.Uint64(rest[:8])
		rest = rest[8:]

		s.rawUpsert(member, Score(math.Float64frombits(scoreBits)))
	}
	if len(rest) != 0 {
		return nil, ErrCorruptEncoding
	}
	return s, nil
}
