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
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"

	"k8s.io/klog"
)

// vidPresent is OFPVID_PRESENT, set on vlan_vid for tagged frames.
const vidPresent = 0x1000

var ErrNotEthernet = errors.New("frame has no ethernet header")

// FromPacket builds the exact OpenFlow basic match a switch would report
// for frame received on inPort. Fields are added in prerequisite order.
// Only the outermost headers are matched: decoding stops after the first
// network layer and the transport layer directly above it, so tunnelled
// payloads never contribute fields.
func FromPacket(frame []byte, inPort uint32) (*Match, error) {
	packet := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.DecodeOptions{Lazy: true, NoCopy: true})

	eth, ok := packet.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok {
		return nil, ErrNotEthernet
	}

	m := New()
	m.Add(oxm.NewUint(oxm.InPort, uint64(inPort)))
	if err := addBytes(m, oxm.EthDst, eth.DstMAC); err != nil {
		return nil, err
	}
	if err := addBytes(m, oxm.EthSrc, eth.SrcMAC); err != nil {
		return nil, err
	}

	decoded := packet.Layers()

	ethType := eth.EthernetType
	var dot1q *layers.Dot1Q
	tagged := false
	if len(decoded) > 1 {
		dot1q, tagged = decoded[1].(*layers.Dot1Q)
	}
	if tagged {
		ethType = dot1q.Type
	}
	m.Add(oxm.NewUint(oxm.EthType, uint64(ethType)))
	if tagged {
		m.Add(oxm.NewUint(oxm.VlanVID, uint64(dot1q.VLANIdentifier)|vidPresent))
		m.Add(oxm.NewUint(oxm.VlanPCP, uint64(dot1q.Priority)))
	}

	network := false
	for _, layer := range decoded {
		if network {
			if isIPv6Extension(layer) {
				continue
			}
			addTransport(m, layer)
			break
		}

		var err error
		switch t := layer.(type) {
		case *layers.MPLS:
			if _, ok := m.GetField(oxm.MPLSLabel); ok {
				// outermost label only
				continue
			}
			m.Add(oxm.NewUint(oxm.MPLSLabel, uint64(t.Label)))
			m.Add(oxm.NewUint(oxm.MPLSTC, uint64(t.TrafficClass)))
			m.Add(oxm.NewUint(oxm.MPLSBOS, boolUint(t.StackBottom)))
		case *layers.ARP:
			if t.AddrType != layers.LinkTypeEthernet || t.Protocol != layers.EthernetTypeIPv4 {
				continue
			}
			m.Add(oxm.NewUint(oxm.ARPOp, uint64(t.Operation)))
			err = addAll(m,
				fieldBytes{oxm.ARPSPA, t.SourceProtAddress},
				fieldBytes{oxm.ARPTPA, t.DstProtAddress},
				fieldBytes{oxm.ARPSHA, t.SourceHwAddress},
				fieldBytes{oxm.ARPTHA, t.DstHwAddress},
			)
			network = true
		case *layers.IPv4:
			m.Add(oxm.NewUint(oxm.IPDSCP, uint64(t.TOS>>2)))
			m.Add(oxm.NewUint(oxm.IPECN, uint64(t.TOS&0x03)))
			m.Add(oxm.NewUint(oxm.IPProto, uint64(t.Protocol)))
			err = addAll(m,
				fieldBytes{oxm.IPv4Src, t.SrcIP.To4()},
				fieldBytes{oxm.IPv4Dst, t.DstIP.To4()},
			)
			network = true
		case *layers.IPv6:
			m.Add(oxm.NewUint(oxm.IPDSCP, uint64(t.TrafficClass>>2)))
			m.Add(oxm.NewUint(oxm.IPECN, uint64(t.TrafficClass&0x03)))
			m.Add(oxm.NewUint(oxm.IPProto, uint64(t.NextHeader)))
			err = addAll(m,
				fieldBytes{oxm.IPv6Src, t.SrcIP.To16()},
				fieldBytes{oxm.IPv6Dst, t.DstIP.To16()},
			)
			m.Add(oxm.NewUint(oxm.IPv6FLabel, uint64(t.FlowLabel)))
			network = true
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s layer", layer.LayerType())
		}
	}

	if errLayer := packet.ErrorLayer(); errLayer != nil {
		klog.V(5).Infof("partial decode of %d byte frame: %v", len(frame), errLayer.Error())
	}
	return m, nil
}

// addTransport adds the fields of layer when it is a transport header.
func addTransport(m *Match, layer gopacket.Layer) {
	switch t := layer.(type) {
	case *layers.TCP:
		m.Add(oxm.NewUint(oxm.TCPSrc, uint64(t.SrcPort)))
		m.Add(oxm.NewUint(oxm.TCPDst, uint64(t.DstPort)))
	case *layers.UDP:
		m.Add(oxm.NewUint(oxm.UDPSrc, uint64(t.SrcPort)))
		m.Add(oxm.NewUint(oxm.UDPDst, uint64(t.DstPort)))
	case *layers.SCTP:
		m.Add(oxm.NewUint(oxm.SCTPSrc, uint64(t.SrcPort)))
		m.Add(oxm.NewUint(oxm.SCTPDst, uint64(t.DstPort)))
	case *layers.ICMPv4:
		m.Add(oxm.NewUint(oxm.ICMPv4Type, uint64(t.TypeCode>>8)))
		m.Add(oxm.NewUint(oxm.ICMPv4Code, uint64(t.TypeCode&0xff)))
	case *layers.ICMPv6:
		m.Add(oxm.NewUint(oxm.ICMPv6Type, uint64(t.TypeCode>>8)))
		m.Add(oxm.NewUint(oxm.ICMPv6Code, uint64(t.TypeCode&0xff)))
	}
}

func isIPv6Extension(layer gopacket.Layer) bool {
	switch layer.(type) {
	case *layers.IPv6HopByHop, *layers.IPv6Routing, *layers.IPv6Fragment, *layers.IPv6Destination:
		return true
	}
	return false
}

type fieldBytes struct {
	field *oxm.Field
	value []byte
}

func addAll(m *Match, fields ...fieldBytes) error {
	for _, fb := range fields {
		if err := addBytes(m, fb.field, fb.value); err != nil {
			return err
		}
	}
	return nil
}

func addBytes(m *Match, f *oxm.Field, value []byte) error {
	mf, err := oxm.NewMatchField(f, value, nil)
	if err != nil {
		return err
	}
	m.Add(mf)
	return nil
}

func boolUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
