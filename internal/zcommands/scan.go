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
	"strings"

	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/proto"
)

// parseScanOptions validates the trailing [MATCH pattern] [COUNT count]
// tokens of a ZSCAN call. Neither option changes the reply: no SPEC_FULL
// component filters by glob pattern (see DESIGN.md) and the cursor scheme
// already caps batch size internally, but malformed tokens are still
// rejected the way every other command's trailing-option loop does.
func parseScanOptions(tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		switch strings.ToUpper(tokens[i]) {
		case "MATCH":
			if i+1 >= len(tokens) {
				return errWrongArgs
			}
			i++
		case "COUNT":
			if i+1 >= len(tokens) {
				return errWrongArgs
			}
			if _, err := strconv.ParseUint(tokens[i+1], 10, 64); err != nil {
				return errInvalidFloat
			}
			i++
		default:
			return errUnknownOption
		}
	}
	return nil
}

// ZScan implements ZSCAN key cursor [MATCH pattern] [COUNT count].
func ZScan(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 3 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	cursor, err := strconv.ParseUint(cmd[2], 10, 64)
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	if err := parseScanOptions(cmd[3:]); err != nil {
		return proto.Err(err.Error())
	}

	var reply []byte
	rerr := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Array(proto.Bulk("0"), proto.Array())
			return nil
		}
		results, next := set.Scan(cursor)
		elements := make([][]byte, 0, len(results)*2)
		for _, r := range results {
			elements = append(elements, proto.Bulk(string(r.Member)), proto.Double(float64(r.Score)))
		}
		reply = proto.Array(proto.Bulk(strconv.FormatUint(next, 10)), proto.Array(elements...))
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}
