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

package oxm

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Reader is a bounds-checked cursor over a byte slice. Reads past the end
// return ErrShortBuffer and leave the cursor where it was.
type Reader struct {
	buf []byte
	off int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Peek returns the next n bytes without advancing. The returned slice
// aliases the underlying buffer.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, errors.Wrapf(ErrShortBuffer, "peek %d bytes at offset %d, %d remaining", n, r.off, r.Len())
	}
	return r.buf[r.off : r.off+n], nil
}

// PeekUint16At reads a big endian uint16 at off bytes past the cursor
// without advancing.
func (r *Reader) PeekUint16At(off int) (uint16, error) {
	b, err := r.Peek(off + 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[off:]), nil
}

// PeekUint32At reads a big endian uint32 at off bytes past the cursor
// without advancing.
func (r *Reader) PeekUint32At(off int) (uint32, error) {
	b, err := r.Peek(off + 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[off:]), nil
}

// Next returns the next n bytes and advances past them. The returned
// slice aliases the underlying buffer.
func (r *Reader) Next(n int) ([]byte, error) {
	b, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.off += n
	return b, nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.Next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) Uint64() (uint64, error) {
	b, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Skip advances by up to n bytes and returns how many were skipped.
func (r *Reader) Skip(n int) int {
	if n < 0 {
		return 0
	}
	if n > r.Len() {
		n = r.Len()
	}
	r.off += n
	return n
}

// Writer appends big endian values to a growing buffer.
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) PutUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) PutUint16(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

func (w *Writer) PutUint32(v uint32) {
	w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (w *Writer) PutUint64(v uint64) {
	w.PutUint32(uint32(v >> 32))
	w.PutUint32(uint32(v))
}

func (w *Writer) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutZeros appends n zero bytes.
func (w *Writer) PutZeros(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// SetUint16At overwrites two bytes already written at off.
func (w *Writer) SetUint16At(off int, v uint16) {
	binary.BigEndian.PutUint16(w.buf[off:], v)
}

func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}
