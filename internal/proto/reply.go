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

// Package proto builds RESP replies the way the teacher's command
// handlers do: raw strings assembled with fmt.Sprintf rather than a
// generic encoder object, since every handler in this domain already
// knows exactly which reply shape it needs.
package proto

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Int returns a RESP integer reply.
func Int(n int) []byte {
	return []byte(fmt.Sprintf(":%d\r\n", n))
}

// Bulk returns a RESP bulk string reply.
func Bulk(s string) []byte {
	return []byte(fmt.Sprintf("$%d\r\n%s\r\n", len(s), s))
}

// Null returns the RESP null bulk-string reply, used for a missing key or
// member lookup miss.
func Null() []byte {
	return []byte("$-1\r\n")
}

// Err returns a RESP error reply. msg should not itself contain a leading
// error-kind token unless the caller wants one on the wire, matching how
// the teacher's handlers return errors.New(msg) up to the caller for the
// server loop to format as "-%s\r\n" wrapped.
func Err(msg string) []byte {
	return []byte(fmt.Sprintf("-%s\r\n", msg))
}

// Array wraps pre-encoded elements in a RESP array header.
func Array(elements ...[]byte) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\r\n", len(elements))
	for _, e := range elements {
		b.Write(e)
	}
	return []byte(b.String())
}

// Double formats a score for the wire: the shortest decimal string that
// round-trips to the same float64, matching redis's "up to 17 significant
// digits, trailing zeros trimmed" convention, then wraps it as a bulk
// string (scores are returned as bulk strings, not RESP doubles, to stay
// compatible with RESP2 clients, exactly as the teacher's ZSCORE handler
// does with "+%f\r\n" style replies generalized to full precision).
func Double(f float64) []byte {
	return Bulk(FormatScore(f))
}

// FormatScore renders f using the shortest round-tripping decimal
// representation, matching the wire convention for ZSCORE/ZINCRBY/
// ZRANGE WITHSCORES replies. Infinite scores use the lowercase
// "inf"/"-inf" spelling ParseScore accepts back, not strconv's "+Inf"/
// "-Inf".
func FormatScore(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
