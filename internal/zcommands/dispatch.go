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
	"strings"

	"github.com/sugarzet/sugarzet/internal/keyspace"
)

// Handler is the shape every Z-command entry point shares: a tokenized
// command (cmd[0] is the command name) in, a fully formatted RESP reply
// out.
type Handler func(store *keyspace.Store, cmd []string) []byte

// Dispatch maps upper-cased command names to their handlers, mirroring
// the teacher's per-module command table (internal/modules/*/commands.go
// registers one CommandKeyExtractionFunc + HandlerFunc pair per name;
// this table plays the same role for a single shard-routed store).
var Dispatch = map[string]Handler{
	"ZADD":             ZAdd,
	"ZINCRBY":          ZIncrBy,
	"ZCARD":            ZCard,
	"ZSCORE":           ZScore,
	"ZMSCORE":          ZMScore,
	"ZRANK":            ZRank,
	"ZREVRANK":         ZRevRank,
	"ZCOUNT":           ZCount,
	"ZLEXCOUNT":        ZLexCount,
	"ZRANDMEMBER":      ZRandMember,
	"ZRANGE":           ZRange,
	"ZRANGEBYSCORE":    ZRangeByScore,
	"ZREVRANGEBYSCORE": ZRevRangeByScore,
	"ZRANGEBYLEX":      ZRangeByLex,
	"ZREVRANGE":        ZRevRange,
	"ZRANGESTORE":      ZRangeStore,
	"ZREM":             ZRem,
	"ZREMRANGEBYRANK":  ZRemRangeByRank,
	"ZREMRANGEBYSCORE": ZRemRangeByScore,
	"ZREMRANGEBYLEX":   ZRemRangeByLex,
	"ZSCAN":            ZScan,
	"ZUNIONSTORE":      ZUnionStore,
	"ZINTERSTORE":      ZInterStore,
	"ZDIFF":            ZDiff,
	"ZDIFFSTORE":       ZDiffStore,
}

// Execute looks up cmd[0] in Dispatch and runs it, or returns an unknown
// command error reply.
func Execute(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) == 0 {
		return []byte("-ERR empty command\r\n")
	}
	h, ok := Dispatch[strings.ToUpper(cmd[0])]
	if !ok {
		return []byte("-ERR unknown command '" + cmd[0] + "'\r\n")
	}
	return h(store, cmd)
}
