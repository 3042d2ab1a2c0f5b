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
	"sort"

	"github.com/pkg/errors"
)

// Registry maps field identities and names to fields and their codecs.
// Fields are registered while the registry is built; once sealed it is
// read-only and safe for concurrent use.
type Registry struct {
	codecs map[FieldID]Codec
	names  map[string]*Field
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[FieldID]Codec),
		names:  make(map[string]*Field),
	}
}

// NewRegistryFromFields registers fields in order and seals the result.
func NewRegistryFromFields(fields []*Field) (*Registry, error) {
	reg := NewRegistry()
	for _, f := range fields {
		if err := reg.Register(f); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return reg, nil
}

var defaultRegistry = mustRegistry(fieldTable)

func mustRegistry(fields []*Field) *Registry {
	reg, err := NewRegistryFromFields(fields)
	if err != nil {
		panic(err)
	}
	return reg
}

// Default returns the sealed registry of all OpenFlow basic, Nicira and
// experimenter fields known to this package.
func Default() *Registry {
	return defaultRegistry
}

// Register adds f. Registering an identity or name twice fails.
func (reg *Registry) Register(f *Field) error {
	if reg.sealed {
		return errors.Wrapf(ErrRegistrySealed, "register %s", f.Name)
	}
	if err := f.validate(); err != nil {
		return err
	}
	if prev, ok := reg.codecs[f.ID()]; ok {
		return errors.Wrapf(ErrDuplicateField, "%s: identity %s already taken by %s", f.Name, f.ID(), prev.Field().Name)
	}
	if _, ok := reg.names[f.Name]; ok {
		return errors.Wrapf(ErrDuplicateField, "name %q", f.Name)
	}
	reg.codecs[f.ID()] = NewCodec(f)
	reg.names[f.Name] = f
	return nil
}

// Seal makes the registry read-only.
func (reg *Registry) Seal() {
	reg.sealed = true
}

func (reg *Registry) Sealed() bool {
	return reg.sealed
}

// Lookup finds a non-experimenter field by class and code.
func (reg *Registry) Lookup(class Class, code uint8) (*Field, bool) {
	if class == ClassExperimenter {
		return nil, false
	}
	return reg.ByID(FieldID{Class: class, Code: code})
}

func (reg *Registry) LookupExperimenter(experimenter uint32, code uint8) (*Field, bool) {
	return reg.ByID(FieldID{Class: ClassExperimenter, Experimenter: experimenter, Code: code})
}

func (reg *Registry) ByID(id FieldID) (*Field, bool) {
	c, ok := reg.codecs[id]
	if !ok {
		return nil, false
	}
	return c.Field(), true
}

func (reg *Registry) ByName(name string) (*Field, bool) {
	f, ok := reg.names[name]
	return f, ok
}

func (reg *Registry) Codec(id FieldID) (Codec, bool) {
	c, ok := reg.codecs[id]
	return c, ok
}

// Fields returns every registered field ordered by class, experimenter
// and code.
func (reg *Registry) Fields() []*Field {
	fields := make([]*Field, 0, len(reg.codecs))
	for _, c := range reg.codecs {
		fields = append(fields, c.Field())
	}
	sort.Slice(fields, func(i, j int) bool {
		a, b := fields[i], fields[j]
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Experimenter != b.Experimenter {
			return a.Experimenter < b.Experimenter
		}
		return a.Code < b.Code
	})
	return fields
}

func (reg *Registry) Len() int {
	return len(reg.codecs)
}

// Decode reads the next TLV from r with the codec registered for it.
// A TLV with no registered codec is consumed whole and returned as a raw
// entry, so unknown fields never desynchronize the reader.
func (reg *Registry) Decode(r *Reader) (*MatchField, error) {
	v, err := r.PeekUint32At(0)
	if err != nil {
		return nil, errors.Wrap(err, "field header")
	}
	hdr := Header(v)
	total := HeaderLen + hdr.Length()
	if r.Len() < total {
		return nil, errors.Wrapf(ErrShortBuffer, "%s: need %d bytes, %d remaining", hdr, total, r.Len())
	}

	id := FieldID{Class: hdr.Class(), Code: hdr.Field()}
	if id.Class == ClassExperimenter {
		if hdr.Length() < ExperimenterIDLen {
			r.Skip(total)
			return nil, errors.Wrapf(ErrBadLength, "%s: experimenter payload of %d bytes", hdr, hdr.Length())
		}
		id.Experimenter, _ = r.PeekUint32At(HeaderLen)
	}

	if c, ok := reg.codecs[id]; ok {
		return c.Deserialize(r)
	}

	tlv, _ := r.Next(total)
	payload := tlv[HeaderLen:]
	if id.Class == ClassExperimenter {
		payload = payload[ExperimenterIDLen:]
	}
	return NewRaw(id, hdr.HasMask(), payload), nil
}
