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

// Package zcommands implements the per-command handlers (C6) that sit
// between the wire and internal/zset: argument parsing, flag validation
// and reply formatting for every Z-command.
package zcommands

import "errors"

const wrongArgsResponse = "wrong number of arguments"

var (
	errWrongArgs         = errors.New(wrongArgsResponse)
	errXXAndNX           = errors.New("XX and NX options at the same time are not compatible")
	errGTLTNX            = errors.New("GT, LT, and/or NX options at the same time are not compatible")
	errIncrMultiplePairs = errors.New("INCR option supports a single increment-element pair")
	errNaN               = errors.New("resulting score is not a number (NaN)")
	errInvalidFloat      = errors.New("min or max is not a float")
	errInvalidLexRange   = errors.New("min or max not valid string range item")
	errInvalidWeight     = errors.New("weight value is not a float")
	errUnknownOption     = errors.New("syntax error")
)

func errAtLeastOneKey(command string) error {
	return errors.New("at least 1 input key is needed for " + command)
}
