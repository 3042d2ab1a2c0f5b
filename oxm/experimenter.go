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

// ExperimenterCodec handles fields of ClassExperimenter. The 4-byte
// experimenter id follows the header and precedes value and mask; the
// header length byte counts it.
type ExperimenterCodec struct {
	field *Field
}

func (c ExperimenterCodec) Field() *Field {
	return c.field
}

func (c ExperimenterCodec) ExperimenterID() uint32 {
	return c.field.Experimenter
}

// ValueLength is the width of the value, not counting the experimenter id
// or a mask.
func (c ExperimenterCodec) ValueLength() int {
	return c.field.Bytes()
}

func (c ExperimenterCodec) Serialize(mf *MatchField, w *Writer) error {
	if err := checkEntry(c.field, mf); err != nil {
		return err
	}
	writeHeader(c.field, mf.hasMask, w)
	w.PutUint32(c.field.Experimenter)
	writeValue(mf, w)
	return nil
}

func (c ExperimenterCodec) Deserialize(r *Reader) (*MatchField, error) {
	hdr, err := peekHeader(c.field, r)
	if err != nil {
		return nil, err
	}
	if hdr.Length() >= ExperimenterIDLen {
		exp, _ := r.PeekUint32At(HeaderLen)
		if exp != c.field.Experimenter {
			return nil, errors.Wrapf(ErrFieldMismatch, "%s: experimenter 0x%08x, want 0x%08x", c.field.Name, exp, c.field.Experimenter)
		}
	}
	tlv, err := r.Next(HeaderLen + hdr.Length())
	if err != nil {
		return nil, err
	}
	if err := checkLength(c.field, hdr); err != nil {
		return nil, err
	}
	return readValue(c.field, hdr, tlv[HeaderLen+ExperimenterIDLen:]), nil
}
