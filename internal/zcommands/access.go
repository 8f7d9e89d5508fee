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

package zcommands

import (
	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/zset"
)

// NewSet constructs an empty sorted set for a newly created key. It
// defaults to zset.New's built-in thresholds; cmd/sugarzetd overrides it
// at startup with zset.NewWithThresholds using the configured packed
// limits, so the whole command layer honors one runtime configuration
// without every call site needing to know about it.
var NewSet = zset.New

// getSet fetches the sorted set stored at key, or nil if the key is
// absent. It returns keyspace.ErrWrongType if the key holds something
// else, matching the WRONGTYPE handling every read/write command needs
// before touching a value.
func getSet(a keyspace.Accessor, key string) (*zset.SortedSet, error) {
	v := a.Get(key)
	if v == nil {
		return nil, nil
	}
	s, ok := v.(*zset.SortedSet)
	if !ok {
		return nil, keyspace.ErrWrongType
	}
	return s, nil
}

// putOrDelete writes s back to key, deleting the key entirely once the
// set has become empty (spec 3's lifecycle rule).
func putOrDelete(a keyspace.Accessor, key string, s *zset.SortedSet) {
	if s.Length() == 0 {
		a.Delete(key)
		return
	}
	a.Set(key, s)
}
