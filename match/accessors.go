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

package match

import (
	"net"

	"github.com/k-vswitch/ofmatch/oxm"
)

func (m *Match) uintOf(f *oxm.Field) (uint64, bool) {
	mf, ok := m.GetField(f)
	if !ok {
		return 0, false
	}
	return mf.Uint(), true
}

func (m *Match) maskedUintOf(f *oxm.Field) (value, mask uint64, ok bool) {
	mf, ok := m.GetField(f)
	if !ok {
		return 0, 0, false
	}

	mask = 1<<uint(8*f.Bytes()) - 1
	if f.Bytes() >= 8 {
		mask = ^uint64(0)
	}
	if mf.HasMask() {
		mask = mf.MaskUint()
	}
	return mf.Uint(), mask, true
}

func (m *Match) netOf(f *oxm.Field) (*net.IPNet, bool) {
	mf, ok := m.GetField(f)
	if !ok {
		return nil, false
	}

	mask := mf.IPMask()
	if mask == nil {
		mask = net.CIDRMask(8*f.Bytes(), 8*f.Bytes())
	}
	return &net.IPNet{IP: mf.IP(), Mask: mask}, true
}

func (m *Match) InPort() (uint32, bool) {
	v, ok := m.uintOf(oxm.InPort)
	return uint32(v), ok
}

func (m *Match) EthType() (uint16, bool) {
	v, ok := m.uintOf(oxm.EthType)
	return uint16(v), ok
}

func (m *Match) EthSrc() (net.HardwareAddr, bool) {
	mf, ok := m.GetField(oxm.EthSrc)
	if !ok {
		return nil, false
	}
	return mf.HardwareAddr(), true
}

func (m *Match) EthDst() (net.HardwareAddr, bool) {
	mf, ok := m.GetField(oxm.EthDst)
	if !ok {
		return nil, false
	}
	return mf.HardwareAddr(), true
}

// VlanVID includes the OFPVID_PRESENT bit as carried on the wire.
func (m *Match) VlanVID() (uint16, bool) {
	v, ok := m.uintOf(oxm.VlanVID)
	return uint16(v), ok
}

func (m *Match) IPProto() (uint8, bool) {
	v, ok := m.uintOf(oxm.IPProto)
	return uint8(v), ok
}

// IPv4Src returns the address with its mask, /32 when unmasked.
func (m *Match) IPv4Src() (*net.IPNet, bool) {
	return m.netOf(oxm.IPv4Src)
}

func (m *Match) IPv4Dst() (*net.IPNet, bool) {
	return m.netOf(oxm.IPv4Dst)
}

func (m *Match) IPv6Src() (*net.IPNet, bool) {
	return m.netOf(oxm.IPv6Src)
}

func (m *Match) IPv6Dst() (*net.IPNet, bool) {
	return m.netOf(oxm.IPv6Dst)
}

func (m *Match) TCPSrc() (uint16, bool) {
	v, ok := m.uintOf(oxm.TCPSrc)
	return uint16(v), ok
}

func (m *Match) TCPDst() (uint16, bool) {
	v, ok := m.uintOf(oxm.TCPDst)
	return uint16(v), ok
}

func (m *Match) UDPSrc() (uint16, bool) {
	v, ok := m.uintOf(oxm.UDPSrc)
	return uint16(v), ok
}

func (m *Match) UDPDst() (uint16, bool) {
	v, ok := m.uintOf(oxm.UDPDst)
	return uint16(v), ok
}

func (m *Match) Metadata() (value, mask uint64, ok bool) {
	return m.maskedUintOf(oxm.Metadata)
}

func (m *Match) TunnelID() (value, mask uint64, ok bool) {
	return m.maskedUintOf(oxm.TunnelID)
}

// Reg returns Nicira register n.
func (m *Match) Reg(n int) (value, mask uint32, ok bool) {
	if n < 0 || n >= len(oxm.NxmNxReg) {
		return 0, 0, false
	}
	v, msk, ok := m.maskedUintOf(oxm.NxmNxReg[n])
	return uint32(v), uint32(msk), ok
}

func (m *Match) CtState() (state, mask uint32, ok bool) {
	v, msk, ok := m.maskedUintOf(oxm.NxmNxCtState)
	return uint32(v), uint32(msk), ok
}

func (m *Match) CtZone() (uint16, bool) {
	v, ok := m.uintOf(oxm.NxmNxCtZone)
	return uint16(v), ok
}

func (m *Match) CtMark() (mark, mask uint32, ok bool) {
	v, msk, ok := m.maskedUintOf(oxm.NxmNxCtMark)
	return uint32(v), uint32(msk), ok
}
