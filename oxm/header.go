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

import "fmt"

// HeaderLen is the size of the TLV prefix in front of every field.
const HeaderLen = 4

// ExperimenterIDLen is the size of the experimenter id following the
// TLV prefix of an experimenter field.
const ExperimenterIDLen = 4

// Header is the 4-byte TLV prefix: class:16 | field:7 | hasmask:1 | length:8.
// The length is the number of payload bytes following the prefix.
type Header uint32

func NewHeader(class Class, field uint8, hasMask bool, length uint8) Header {
	h := uint32(class)<<16 | uint32(field&0x7f)<<9 | uint32(length)
	if hasMask {
		h |= 1 << 8
	}
	return Header(h)
}

func (h Header) Class() Class {
	return Class(h >> 16)
}

func (h Header) Field() uint8 {
	return uint8(h>>9) & 0x7f
}

func (h Header) HasMask() bool {
	return (h>>8)&1 == 1
}

// Length is the payload length in bytes.
func (h Header) Length() int {
	return int(h & 0xff)
}

// Type returns class and field without mask bit and length, the part of
// the header that identifies a field.
func (h Header) Type() uint32 {
	return uint32(h) >> 9
}

// Nxm widens h into the legacy 64-bit packed form.
func (h Header) Nxm() NxmHeader {
	return NxmHeader(uint64(h))
}

func (h Header) String() string {
	return fmt.Sprintf("%s:%d mask=%t len=%d", h.Class(), h.Field(), h.HasMask(), h.Length())
}

// NxmHeader is the legacy packed header
// (class << 16) | (field << 9) | (hasMask << 8) | length held in a
// 64-bit word. Two headers are equal iff their raw values are equal.
type NxmHeader uint64

func NewNxmHeader(class Class, field uint8, hasMask bool, length uint8) NxmHeader {
	return NewHeader(class, field, hasMask, length).Nxm()
}

// NxmHeaderFromRaw accepts any 64-bit value.
func NxmHeaderFromRaw(raw uint64) NxmHeader {
	return NxmHeader(raw)
}

func (h NxmHeader) Raw() uint64 {
	return uint64(h)
}

func (h NxmHeader) Class() Class {
	return Class(h >> 16)
}

func (h NxmHeader) Field() uint8 {
	return uint8(h>>9) & 0x7f
}

func (h NxmHeader) HasMask() bool {
	return (h>>8)&1 == 1
}

func (h NxmHeader) Length() int {
	return int(h & 0xff)
}

// Header truncates h to the 4-byte TLV prefix.
func (h NxmHeader) Header() Header {
	return Header(uint32(h))
}

func (h NxmHeader) String() string {
	return fmt.Sprintf("NxmHeader [headerAsLong=%d, oxmClass=%d, nxmField=%d, hasMask=%t, length=%d]",
		uint64(h), uint16(h.Class()), h.Field(), h.HasMask(), h.Length())
}
