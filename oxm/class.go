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

// Package oxm encodes and decodes OpenFlow extensible match (OXM) and
// Nicira extensible match (NXM) TLV fields.
package oxm

import "fmt"

// Class is the 16-bit namespace of an OXM/NXM field.
type Class uint16

const (
	ClassNXM0          Class = 0x0000
	ClassNXM1          Class = 0x0001
	ClassOpenflowBasic Class = 0x8000
	ClassExperimenter  Class = 0xffff
)

// Experimenter ids used by the vendor fields of the default registry.
const (
	// NSHExperimenterID is the vendor id carried by the Nicira NSH fields.
	NSHExperimenterID uint32 = 0x005ad650
	// ONFExperimenterID is the Open Networking Foundation experimenter id.
	ONFExperimenterID uint32 = 0x4f4e4600
)

func (c Class) String() string {
	switch c {
	case ClassNXM0:
		return "nxm0"
	case ClassNXM1:
		return "nxm1"
	case ClassOpenflowBasic:
		return "openflow_basic"
	case ClassExperimenter:
		return "experimenter"
	}
	return fmt.Sprintf("class(0x%04x)", uint16(c))
}

// Known reports whether c is one of the four wire-level classes.
func (c Class) Known() bool {
	switch c {
	case ClassNXM0, ClassNXM1, ClassOpenflowBasic, ClassExperimenter:
		return true
	}
	return false
}
