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

package proto

import (
	"bytes"
	"errors"
	"io"

	"github.com/tidwall/resp"
)

// ErrNotACommand is returned by Decode when the client sent a RESP value
// that is never a valid request shape: a real client always issues a
// command as an array of bulk strings, never a bare simple string,
// integer or error (those are reply-only types on this wire).
var ErrNotACommand = errors.New("request is not a command array")

// Decode parses a single RESP value out of raw and flattens the command
// array into its tokens.
func Decode(raw []byte) ([]string, error) {
	rd := resp.NewReader(bytes.NewBuffer(raw))

	v, _, err := rd.ReadValue()
	if err != nil {
		return nil, err
	}
	if v.Type().String() != "Array" {
		return nil, ErrNotACommand
	}

	res := make([]string, 0, len(v.Array()))
	for _, elem := range v.Array() {
		res = append(res, elem.String())
	}
	return res, nil
}

// ReadMessage reads one client request off r up to the terminating
// "\r\n\r\n" the wire framing uses between requests.
func ReadMessage(r io.Reader) ([]byte, error) {
	delim := []byte{'\r', '\n', '\r', '\n'}
	buffSize := 8
	buff := make([]byte, buffSize)

	var n int
	var err error
	var res []byte

	for {
		n, err = r.Read(buff)
		res = append(res, buff...)
		if n < buffSize || err != nil {
			break
		}
		if bytes.Equal(buff[len(buff)-4:], delim) {
			break
		}
		clear(buff)
	}

	return res, err
}
