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
	"strconv"

	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/proto"
	"github.com/sugarzet/sugarzet/internal/zset"
)

// ZRem implements ZREM key member [member ...].
func ZRem(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 3 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	members := cmd[2:]

	var reply []byte
	err := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Int(0)
			return nil
		}
		removed := 0
		for _, m := range members {
			if set.Delete(zset.Member(m)) {
				removed++
			}
		}
		putOrDelete(a, key, set)
		reply = proto.Int(removed)
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}

// ZRemRangeByRank implements ZREMRANGEBYRANK key start stop.
func ZRemRangeByRank(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	start, err := strconv.ParseInt(cmd[2], 10, 32)
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	stop, err := strconv.ParseInt(cmd[3], 10, 32)
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}

	var reply []byte
	rerr := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Int(0)
			return nil
		}
		n := set.RemoveByIndex(zset.IndexInterval{Start: int32(start), End: int32(stop)})
		putOrDelete(a, key, set)
		reply = proto.Int(n)
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}

// ZRemRangeByScore implements ZREMRANGEBYSCORE key min max.
func ZRemRangeByScore(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	minB, err := zset.ParseScoreBound(cmd[2])
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	maxB, err := zset.ParseScoreBound(cmd[3])
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}

	var reply []byte
	rerr := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Int(0)
			return nil
		}
		n := set.RemoveByScore(zset.ScoreInterval{Min: minB, Max: maxB})
		putOrDelete(a, key, set)
		reply = proto.Int(n)
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}

// ZRemRangeByLex implements ZREMRANGEBYLEX key min max.
func ZRemRangeByLex(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	minB, err := zset.ParseLexBound(cmd[2])
	if err != nil {
		return proto.Err(errInvalidLexRange.Error())
	}
	maxB, err := zset.ParseLexBound(cmd[3])
	if err != nil {
		return proto.Err(errInvalidLexRange.Error())
	}

	var reply []byte
	rerr := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Int(0)
			return nil
		}
		n := set.RemoveByLex(zset.LexInterval{Min: minB, Max: maxB})
		putOrDelete(a, key, set)
		reply = proto.Int(n)
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}
