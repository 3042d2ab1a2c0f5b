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

// Package match holds the OpenFlow match structure: an ordered set of
// OXM/NXM fields behind a type and length header, padded to 8 bytes.
package match

import (
	"fmt"
	"strings"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"

	"k8s.io/klog"
)

const (
	// TypeOXM is the only match type this package decodes.
	TypeOXM uint16 = ofp13.OFPMT_OXM

	headerLen = 4
	maxLength = 0xffff
)

var (
	ErrUnsupportedMatchType = errors.New("unsupported match type")
	// ErrDuplicateField is returned when a wire match carries the same
	// field twice.
	ErrDuplicateField = errors.New("duplicate match field")
)

// Match is an ordered collection of fields keyed by field identity.
// The zero value is an empty match of type 0; use New for an OXM match.
type Match struct {
	Type uint16

	fields []*oxm.MatchField
	index  map[oxm.FieldID]int
}

func New() *Match {
	return &Match{Type: TypeOXM}
}

// NewWithFields adds fields in order, see Add.
func NewWithFields(fields ...*oxm.MatchField) *Match {
	m := New()
	for _, mf := range fields {
		m.Add(mf)
	}
	return m
}

// Add appends mf, or replaces the field with the same identity in place.
// A nil field is ignored.
func (m *Match) Add(mf *oxm.MatchField) {
	if mf == nil {
		return
	}
	if m.index == nil {
		m.index = make(map[oxm.FieldID]int)
	}

	if i, ok := m.index[mf.ID()]; ok {
		klog.V(4).Infof("replacing match field %s with %s", m.fields[i], mf)
		m.fields[i] = mf
		return
	}

	m.index[mf.ID()] = len(m.fields)
	m.fields = append(m.fields, mf)
}

func (m *Match) Get(id oxm.FieldID) (*oxm.MatchField, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.fields[i], true
}

// GetField looks up the entry for a registered field.
func (m *Match) GetField(f *oxm.Field) (*oxm.MatchField, bool) {
	return m.Get(f.ID())
}

func (m *Match) Remove(id oxm.FieldID) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}

	m.fields = append(m.fields[:i], m.fields[i+1:]...)
	m.reindex()
	return true
}

func (m *Match) reindex() {
	m.index = make(map[oxm.FieldID]int, len(m.fields))
	for i, mf := range m.fields {
		m.index[mf.ID()] = i
	}
}

// Fields returns the entries in insertion order.
func (m *Match) Fields() []*oxm.MatchField {
	fields := make([]*oxm.MatchField, len(m.fields))
	copy(fields, m.fields)
	return fields
}

// Len returns the number of fields.
func (m *Match) Len() int {
	return len(m.fields)
}

// Length is the unpadded wire length: the 4-byte match header plus every
// field TLV.
func (m *Match) Length() int {
	n := headerLen
	for _, mf := range m.fields {
		n += mf.Len()
	}
	return n
}

// LengthWithPadding is Length rounded up to a multiple of 8.
func (m *Match) LengthWithPadding() int {
	return paddedLength(m.Length())
}

func paddedLength(n int) int {
	return (n + 7) / 8 * 8
}

// Encode writes type, length, the fields in order and zero padding.
func (m *Match) Encode(w *oxm.Writer) error {
	length := m.Length()
	if length > maxLength {
		return errors.Wrapf(oxm.ErrBadLength, "match of %d bytes", length)
	}

	w.PutUint16(m.Type)
	w.PutUint16(uint16(length))
	for _, mf := range m.fields {
		if err := mf.Encode(w); err != nil {
			return errors.Wrapf(err, "encoding match field %s", mf.ID())
		}
	}
	w.PutZeros(paddedLength(length) - length)
	return nil
}

func (m *Match) MarshalBinary() ([]byte, error) {
	w := oxm.NewWriter(m.LengthWithPadding())
	if err := m.Encode(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a match at the start of data with the default
// registry. Bytes after the padded match are ignored.
func (m *Match) UnmarshalBinary(data []byte) error {
	return m.Decode(oxm.NewReader(data))
}

// Decode reads a match with the default registry.
func (m *Match) Decode(r *oxm.Reader) error {
	return m.DecodeRegistry(oxm.Default(), r)
}

// DecodeRegistry reads one match from r, replacing the contents of m on
// success.
//
// A match that is not of type OXM, or whose declared length runs past the
// end of r, is not consumed. Otherwise the declared length and the
// padding after it are consumed even when a field fails to decode; m is
// then left unchanged and the field error returned. Padding missing at
// the very end of r is tolerated.
func (m *Match) DecodeRegistry(reg *oxm.Registry, r *oxm.Reader) error {
	typ, err := r.PeekUint16At(0)
	if err != nil {
		return errors.Wrap(err, "match header")
	}
	length, err := r.PeekUint16At(2)
	if err != nil {
		return errors.Wrap(err, "match header")
	}

	if typ != TypeOXM {
		return errors.Wrapf(ErrUnsupportedMatchType, "match type %d", typ)
	}

	if length < headerLen {
		r.Skip(paddedLength(headerLen))
		return errors.Wrapf(oxm.ErrBadLength, "match length %d", length)
	}

	body, err := r.Next(int(length))
	if err != nil {
		return errors.Wrap(err, "match body")
	}
	r.Skip(paddedLength(int(length)) - int(length))

	fr := oxm.NewReader(body[headerLen:])
	fields := make([]*oxm.MatchField, 0, 8)
	index := make(map[oxm.FieldID]int)
	for fr.Len() > 0 {
		offset := headerLen + fr.Offset()
		mf, err := reg.Decode(fr)
		if err != nil {
			return errors.Wrapf(err, "match field at offset %d", offset)
		}

		if _, ok := index[mf.ID()]; ok {
			return errors.Wrapf(ErrDuplicateField, "%s at offset %d", mf.ID(), offset)
		}

		if !mf.Known() {
			klog.V(5).Infof("keeping unknown match field %s (%d bytes) as raw", mf.ID(), mf.Len())
		}

		index[mf.ID()] = len(fields)
		fields = append(fields, mf)
	}

	m.Type = typ
	m.fields = fields
	m.index = index
	return nil
}

// Clone returns a deep copy of m.
func (m *Match) Clone() *Match {
	c := &Match{Type: m.Type}
	for _, mf := range m.fields {
		c.Add(mf.Clone())
	}
	return c
}

// Equal compares type, length and the set of fields regardless of order.
func (m *Match) Equal(o *Match) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Type != o.Type || m.Len() != o.Len() || m.Length() != o.Length() {
		return false
	}

	for _, mf := range m.fields {
		other, ok := o.Get(mf.ID())
		if !ok || !mf.Equal(other) {
			return false
		}
	}
	return true
}

// Validate reports masks on fields that are not maskable. With strict set
// it also rejects fields the registry does not know.
func (m *Match) Validate(strict bool) error {
	for _, mf := range m.fields {
		f := mf.Field()
		if f == nil {
			if strict {
				return errors.Wrapf(oxm.ErrUnknownField, "%s", mf.ID())
			}
			continue
		}

		if mf.HasMask() && !f.Maskable {
			return errors.Wrapf(oxm.ErrMaskNotAllowed, "%s", f.Name)
		}
	}
	return nil
}

func (m *Match) String() string {
	fields := make([]string, 0, len(m.fields))
	for _, mf := range m.fields {
		fields = append(fields, mf.String())
	}
	return fmt.Sprintf("match(type=%d length=%d) [%s]", m.Type, m.Length(), strings.Join(fields, ", "))
}
