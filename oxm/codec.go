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
	"github.com/pkg/errors"
)

// Codec encodes and decodes the TLV of a single field.
//
// Deserialize leaves the reader untouched when the next TLV belongs to
// another field or is truncated. When the TLV is complete but its length
// does not fit the field, the TLV is consumed and ErrBadLength returned so
// that the caller stays aligned on the next TLV.
type Codec interface {
	Field() *Field
	Serialize(mf *MatchField, w *Writer) error
	Deserialize(r *Reader) (*MatchField, error)
}

// NewCodec returns the codec for f.
func NewCodec(f *Field) Codec {
	if f.IsExperimenter() {
		return ExperimenterCodec{field: f}
	}
	return BasicCodec{field: f}
}

// BasicCodec handles the NXM_0, NXM_1 and OpenFlow basic classes.
type BasicCodec struct {
	field *Field
}

func (c BasicCodec) Field() *Field {
	return c.field
}

func (c BasicCodec) Serialize(mf *MatchField, w *Writer) error {
	if err := checkEntry(c.field, mf); err != nil {
		return err
	}
	writeHeader(c.field, mf.hasMask, w)
	writeValue(mf, w)
	return nil
}

func (c BasicCodec) Deserialize(r *Reader) (*MatchField, error) {
	hdr, err := peekHeader(c.field, r)
	if err != nil {
		return nil, err
	}
	tlv, err := r.Next(HeaderLen + hdr.Length())
	if err != nil {
		return nil, err
	}
	if err := checkLength(c.field, hdr); err != nil {
		return nil, err
	}
	return readValue(c.field, hdr, tlv[HeaderLen:]), nil
}

// peekHeader checks that the next TLV belongs to f and is complete,
// without consuming anything.
func peekHeader(f *Field, r *Reader) (Header, error) {
	v, err := r.PeekUint32At(0)
	if err != nil {
		return 0, errors.Wrapf(err, "%s header", f.Name)
	}
	hdr := Header(v)
	if hdr.Class() != f.Class || hdr.Field() != f.Code {
		return 0, errors.Wrapf(ErrFieldMismatch, "%s: got %s", f.Name, hdr)
	}
	if _, err := r.Peek(HeaderLen + hdr.Length()); err != nil {
		return 0, errors.Wrapf(err, "%s payload", f.Name)
	}
	return hdr, nil
}

func checkLength(f *Field, hdr Header) error {
	if want := f.PayloadLen(hdr.HasMask()); hdr.Length() != want {
		return errors.Wrapf(ErrBadLength, "%s: payload length %d, want %d", f.Name, hdr.Length(), want)
	}
	return nil
}

func checkEntry(f *Field, mf *MatchField) error {
	if mf.id != f.ID() {
		return errors.Wrapf(ErrFieldMismatch, "%s codec given %s", f.Name, mf.id)
	}
	if len(mf.value) != f.Bytes() {
		return errors.Wrapf(ErrBadLength, "%s: value is %d bytes, want %d", f.Name, len(mf.value), f.Bytes())
	}
	if mf.hasMask && len(mf.mask) != f.Bytes() {
		return errors.Wrapf(ErrBadLength, "%s: mask is %d bytes, want %d", f.Name, len(mf.mask), f.Bytes())
	}
	return nil
}

func writeHeader(f *Field, hasMask bool, w *Writer) {
	w.PutUint32(uint32(NewHeader(f.Class, f.Code, hasMask, uint8(f.PayloadLen(hasMask)))))
}

func writeValue(mf *MatchField, w *Writer) {
	w.PutBytes(mf.value)
	if mf.hasMask {
		w.PutBytes(mf.mask)
	}
}

// readValue splits body, already checked against the field width, into
// value and mask.
func readValue(f *Field, hdr Header, body []byte) *MatchField {
	n := f.Bytes()
	mf := &MatchField{id: f.ID(), field: f, value: clone(body[:n])}
	if hdr.HasMask() {
		mf.hasMask = true
		mf.mask = clone(body[n : 2*n])
	}
	return mf
}
