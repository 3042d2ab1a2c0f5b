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
	"bytes"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// MatchField is one decoded match entry. Value and Mask hold the wire
// bytes in network order. A field whose identity is not registered keeps
// its whole payload in Value and reports Known() == false.
type MatchField struct {
	id      FieldID
	field   *Field
	hasMask bool
	value   []byte
	mask    []byte
}

// NewMatchField copies value and mask into a field entry. mask may be nil.
func NewMatchField(f *Field, value, mask []byte) (*MatchField, error) {
	if len(value) != f.Bytes() {
		return nil, errors.Wrapf(ErrBadLength, "%s: value is %d bytes, want %d", f.Name, len(value), f.Bytes())
	}
	if mask != nil && len(mask) != f.Bytes() {
		return nil, errors.Wrapf(ErrBadLength, "%s: mask is %d bytes, want %d", f.Name, len(mask), f.Bytes())
	}
	mf := &MatchField{id: f.ID(), field: f, value: clone(value)}
	if mask != nil {
		mf.hasMask = true
		mf.mask = clone(mask)
	}
	return mf, nil
}

// NewUint sets an integer value, truncated to the width of f.
func NewUint(f *Field, v uint64) *MatchField {
	mf := &MatchField{id: f.ID(), field: f, value: make([]byte, f.Bytes())}
	putUint(mf.value, v)
	return mf
}

func NewUintMasked(f *Field, v, mask uint64) *MatchField {
	mf := NewUint(f, v)
	mf.hasMask = true
	mf.mask = make([]byte, f.Bytes())
	putUint(mf.mask, mask)
	return mf
}

func NewHardwareAddr(f *Field, addr net.HardwareAddr) (*MatchField, error) {
	return NewMatchField(f, addr, nil)
}

func NewHardwareAddrMasked(f *Field, addr, mask net.HardwareAddr) (*MatchField, error) {
	return NewMatchField(f, addr, mask)
}

// NewIP accepts an IPv4 address for 4-byte fields and any address for
// 16-byte fields.
func NewIP(f *Field, ip net.IP) (*MatchField, error) {
	b, err := ipBytes(f, ip)
	if err != nil {
		return nil, err
	}
	return NewMatchField(f, b, nil)
}

func NewIPMasked(f *Field, ip net.IP, mask net.IPMask) (*MatchField, error) {
	b, err := ipBytes(f, ip)
	if err != nil {
		return nil, err
	}
	return NewMatchField(f, b, mask)
}

// NewRaw builds an opaque entry for a field that is not registered.
// payload excludes the TLV header and the experimenter id.
func NewRaw(id FieldID, hasMask bool, payload []byte) *MatchField {
	return &MatchField{id: id, hasMask: hasMask, value: clone(payload)}
}

func ipBytes(f *Field, ip net.IP) ([]byte, error) {
	switch f.Bytes() {
	case net.IPv4len:
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
	case net.IPv6len:
		if v6 := ip.To16(); v6 != nil {
			return v6, nil
		}
	}
	return nil, errors.Wrapf(ErrBadLength, "%s: %v is not a %d-byte address", f.Name, ip, f.Bytes())
}

func (mf *MatchField) ID() FieldID {
	return mf.id
}

// Field returns the registered description, or nil for raw entries.
func (mf *MatchField) Field() *Field {
	return mf.field
}

func (mf *MatchField) Known() bool {
	return mf.field != nil
}

func (mf *MatchField) HasMask() bool {
	return mf.hasMask
}

// Value returns the value bytes. Callers must not modify them.
func (mf *MatchField) Value() []byte {
	return mf.value
}

// Mask returns the mask bytes, nil when the field is not masked.
func (mf *MatchField) Mask() []byte {
	return mf.mask
}

// Uint returns the value as an integer. Values wider than 8 bytes
// return their low 8 bytes.
func (mf *MatchField) Uint() uint64 {
	return getUint(mf.value)
}

func (mf *MatchField) MaskUint() uint64 {
	return getUint(mf.mask)
}

func (mf *MatchField) HardwareAddr() net.HardwareAddr {
	return net.HardwareAddr(clone(mf.value))
}

func (mf *MatchField) IP() net.IP {
	return net.IP(clone(mf.value))
}

func (mf *MatchField) IPMask() net.IPMask {
	if mf.mask == nil {
		return nil
	}
	return net.IPMask(clone(mf.mask))
}

// PayloadLen is the number of bytes after the 4-byte header.
func (mf *MatchField) PayloadLen() int {
	n := len(mf.value) + len(mf.mask)
	if mf.id.Class == ClassExperimenter {
		n += ExperimenterIDLen
	}
	return n
}

// Len is the full TLV length: header plus payload.
func (mf *MatchField) Len() int {
	return HeaderLen + mf.PayloadLen()
}

func (mf *MatchField) Header() Header {
	return NewHeader(mf.id.Class, mf.id.Code, mf.hasMask, uint8(mf.PayloadLen()))
}

// Encode writes the TLV for mf.
func (mf *MatchField) Encode(w *Writer) error {
	if mf.field != nil {
		return NewCodec(mf.field).Serialize(mf, w)
	}
	if mf.PayloadLen() > 0xff {
		return errors.Wrapf(ErrBadLength, "%s: raw payload of %d bytes", mf.id, mf.PayloadLen())
	}
	w.PutUint32(uint32(mf.Header()))
	if mf.id.Class == ClassExperimenter {
		w.PutUint32(mf.id.Experimenter)
	}
	w.PutBytes(mf.value)
	return nil
}

func (mf *MatchField) Clone() *MatchField {
	c := *mf
	c.value = clone(mf.value)
	c.mask = clone(mf.mask)
	return &c
}

func (mf *MatchField) Equal(o *MatchField) bool {
	if mf == nil || o == nil {
		return mf == o
	}
	return mf.id == o.id &&
		mf.hasMask == o.hasMask &&
		bytes.Equal(mf.value, o.value) &&
		bytes.Equal(mf.mask, o.mask)
}

func (mf *MatchField) String() string {
	name := mf.id.String()
	if mf.field != nil {
		name = mf.field.Name
	}
	if mf.hasMask && mf.mask != nil {
		return fmt.Sprintf("%s=%x/%x", name, mf.value, mf.mask)
	}
	if mf.hasMask {
		return fmt.Sprintf("%s(masked)=%x", name, mf.value)
	}
	return fmt.Sprintf("%s=%x", name, mf.value)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// putUint writes v big endian into the low bytes of b.
func putUint(b []byte, v uint64) {
	for i := len(b) - 1; i >= 0 && v != 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

func getUint(b []byte) uint64 {
	if len(b) > 8 {
		b = b[len(b)-8:]
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
