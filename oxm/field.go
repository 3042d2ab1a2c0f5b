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

// Kind selects how a field value is rendered and parsed as text.
type Kind uint8

const (
	KindDecimal Kind = iota
	KindHex
	KindMAC
	KindIPv4
	KindIPv6
)

// FieldID is the wire identity of a field. Experimenter is zero for all
// classes except ClassExperimenter.
type FieldID struct {
	Class        Class
	Experimenter uint32
	Code         uint8
}

func (id FieldID) String() string {
	if id.Class == ClassExperimenter {
		return fmt.Sprintf("experimenter(0x%08x):%d", id.Experimenter, id.Code)
	}
	return fmt.Sprintf("%s:%d", id.Class, id.Code)
}

// Field describes one match field: its identity, how many value bits are
// significant and how many bytes the value occupies on the wire.
type Field struct {
	Name         string
	Class        Class
	Experimenter uint32
	Code         uint8
	// Bits is the number of significant value bits.
	Bits int
	// Width is the value size in bytes on the wire. Zero means Bits
	// rounded up to whole bytes.
	Width    int
	Maskable bool
	Kind     Kind
}

func (f *Field) ID() FieldID {
	return FieldID{Class: f.Class, Experimenter: f.Experimenter, Code: f.Code}
}

// Bytes returns the width of the value, and of the mask when present.
func (f *Field) Bytes() int {
	if f.Width > 0 {
		return f.Width
	}
	return (f.Bits + 7) / 8
}

func (f *Field) IsExperimenter() bool {
	return f.Class == ClassExperimenter
}

// PayloadLen returns the number of bytes following the 4-byte header,
// which is the value of the header length byte.
func (f *Field) PayloadLen(hasMask bool) int {
	n := f.Bytes()
	if hasMask {
		n *= 2
	}
	if f.IsExperimenter() {
		n += ExperimenterIDLen
	}
	return n
}

func (f *Field) String() string {
	return f.Name
}

func (f *Field) validate() error {
	if f.Name == "" {
		return fmt.Errorf("field %s has no name", f.ID())
	}
	if f.Code > 0x7f {
		return fmt.Errorf("field %s: code %d does not fit in 7 bits", f.Name, f.Code)
	}
	if f.Bits <= 0 || f.Bytes()*8 < f.Bits {
		return fmt.Errorf("field %s: %d bits do not fit in %d bytes", f.Name, f.Bits, f.Bytes())
	}
	if f.PayloadLen(true) > 0xff {
		return fmt.Errorf("field %s: masked payload of %d bytes overflows the length byte", f.Name, f.PayloadLen(true))
	}
	if f.IsExperimenter() != (f.Experimenter != 0) {
		return fmt.Errorf("field %s: experimenter id 0x%08x on class %s", f.Name, f.Experimenter, f.Class)
	}
	return nil
}
