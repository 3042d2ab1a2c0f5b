/*
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
"License"); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
"AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package connection

import (
	"bufio"
	"io"
)

// MessageReader splits a byte stream into OpenFlow messages.
type MessageReader struct {
	reader *bufio.Reader
}

func NewMessageReader(r io.Reader) *MessageReader {
	return &MessageReader{reader: bufio.NewReader(r)}
}

// Next returns the next complete message. It returns io.EOF at a clean end
// of stream and io.ErrUnexpectedEOF when the stream stops mid-message.
func (mr *MessageReader) Next() ([]byte, error) {
	// peek into the header, it carries the length of the entire message
	header, err := mr.reader.Peek(HeaderLen)
	if err != nil {
		if err == io.EOF && len(header) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	msgLen, err := MessageLength(header)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, msgLen)
	if _, err := io.ReadFull(mr.reader, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}
