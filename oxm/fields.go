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

func basic(name string, code uint8, bits int, maskable bool, kind Kind) *Field {
	return &Field{Name: name, Class: ClassOpenflowBasic, Code: code, Bits: bits, Maskable: maskable, Kind: kind}
}

func nxm0(name string, code uint8, bits int, maskable bool, kind Kind) *Field {
	return &Field{Name: name, Class: ClassNXM0, Code: code, Bits: bits, Maskable: maskable, Kind: kind}
}

func nxm1(name string, code uint8, bits int, maskable bool, kind Kind) *Field {
	return &Field{Name: name, Class: ClassNXM1, Code: code, Bits: bits, Maskable: maskable, Kind: kind}
}

func experimenter(name string, id uint32, code uint8, bits int, maskable bool, kind Kind) *Field {
	return &Field{Name: name, Class: ClassExperimenter, Experimenter: id, Code: code, Bits: bits, Maskable: maskable, Kind: kind}
}

// wide sets an explicit wire width for fields carried in a larger
// container than their significant bits need.
func wide(f *Field, width int) *Field {
	f.Width = width
	return f
}

// OpenFlow basic fields.
var (
	InPort       = basic("in_port", 0, 32, false, KindDecimal)
	InPhyPort    = basic("in_phy_port", 1, 32, false, KindDecimal)
	Metadata     = basic("metadata", 2, 64, true, KindHex)
	EthDst       = basic("eth_dst", 3, 48, true, KindMAC)
	EthSrc       = basic("eth_src", 4, 48, true, KindMAC)
	EthType      = basic("eth_type", 5, 16, false, KindHex)
	VlanVID      = basic("vlan_vid", 6, 13, true, KindHex)
	VlanPCP      = basic("vlan_pcp", 7, 3, false, KindDecimal)
	IPDSCP       = basic("ip_dscp", 8, 6, false, KindDecimal)
	IPECN        = basic("ip_ecn", 9, 2, false, KindDecimal)
	IPProto      = basic("ip_proto", 10, 8, false, KindDecimal)
	IPv4Src      = basic("ipv4_src", 11, 32, true, KindIPv4)
	IPv4Dst      = basic("ipv4_dst", 12, 32, true, KindIPv4)
	TCPSrc       = basic("tcp_src", 13, 16, false, KindDecimal)
	TCPDst       = basic("tcp_dst", 14, 16, false, KindDecimal)
	UDPSrc       = basic("udp_src", 15, 16, false, KindDecimal)
	UDPDst       = basic("udp_dst", 16, 16, false, KindDecimal)
	SCTPSrc      = basic("sctp_src", 17, 16, false, KindDecimal)
	SCTPDst      = basic("sctp_dst", 18, 16, false, KindDecimal)
	ICMPv4Type   = basic("icmpv4_type", 19, 8, false, KindDecimal)
	ICMPv4Code   = basic("icmpv4_code", 20, 8, false, KindDecimal)
	ARPOp        = basic("arp_op", 21, 16, false, KindDecimal)
	ARPSPA       = basic("arp_spa", 22, 32, true, KindIPv4)
	ARPTPA       = basic("arp_tpa", 23, 32, true, KindIPv4)
	ARPSHA       = basic("arp_sha", 24, 48, true, KindMAC)
	ARPTHA       = basic("arp_tha", 25, 48, true, KindMAC)
	IPv6Src      = basic("ipv6_src", 26, 128, true, KindIPv6)
	IPv6Dst      = basic("ipv6_dst", 27, 128, true, KindIPv6)
	IPv6FLabel   = wide(basic("ipv6_flabel", 28, 20, true, KindHex), 4)
	ICMPv6Type   = basic("icmpv6_type", 29, 8, false, KindDecimal)
	ICMPv6Code   = basic("icmpv6_code", 30, 8, false, KindDecimal)
	IPv6NDTarget = basic("ipv6_nd_target", 31, 128, false, KindIPv6)
	IPv6NDSLL    = basic("ipv6_nd_sll", 32, 48, false, KindMAC)
	IPv6NDTLL    = basic("ipv6_nd_tll", 33, 48, false, KindMAC)
	MPLSLabel    = wide(basic("mpls_label", 34, 20, false, KindDecimal), 4)
	MPLSTC       = basic("mpls_tc", 35, 3, false, KindDecimal)
	MPLSBOS      = basic("mpls_bos", 36, 1, false, KindDecimal)
	PBBISID      = basic("pbb_isid", 37, 24, true, KindHex)
	TunnelID     = basic("tunnel_id", 38, 64, true, KindHex)
	IPv6ExtHdr   = basic("ipv6_exthdr", 39, 9, true, KindHex)
	PBBUCA       = basic("pbb_uca", 41, 1, false, KindDecimal)
	TCPFlags     = basic("tcp_flags", 42, 12, true, KindHex)
)

// Nicira NXM_OF_* fields.
var (
	NxmOfInPort   = nxm0("NXM_OF_IN_PORT", 0, 16, false, KindDecimal)
	NxmOfEthDst   = nxm0("NXM_OF_ETH_DST", 1, 48, true, KindMAC)
	NxmOfEthSrc   = nxm0("NXM_OF_ETH_SRC", 2, 48, true, KindMAC)
	NxmOfEthType  = nxm0("NXM_OF_ETH_TYPE", 3, 16, false, KindHex)
	NxmOfVlanTCI  = nxm0("NXM_OF_VLAN_TCI", 4, 16, true, KindHex)
	NxmOfIPTos    = nxm0("NXM_OF_IP_TOS", 5, 8, false, KindDecimal)
	NxmOfIPProto  = nxm0("NXM_OF_IP_PROTO", 6, 8, false, KindDecimal)
	NxmOfIPSrc    = nxm0("NXM_OF_IP_SRC", 7, 32, true, KindIPv4)
	NxmOfIPDst    = nxm0("NXM_OF_IP_DST", 8, 32, true, KindIPv4)
	NxmOfTCPSrc   = nxm0("NXM_OF_TCP_SRC", 9, 16, true, KindDecimal)
	NxmOfTCPDst   = nxm0("NXM_OF_TCP_DST", 10, 16, true, KindDecimal)
	NxmOfUDPSrc   = nxm0("NXM_OF_UDP_SRC", 11, 16, true, KindDecimal)
	NxmOfUDPDst   = nxm0("NXM_OF_UDP_DST", 12, 16, true, KindDecimal)
	NxmOfICMPType = nxm0("NXM_OF_ICMP_TYPE", 13, 8, false, KindDecimal)
	NxmOfICMPCode = nxm0("NXM_OF_ICMP_CODE", 14, 8, false, KindDecimal)
	NxmOfARPOp    = nxm0("NXM_OF_ARP_OP", 15, 16, false, KindDecimal)
	NxmOfARPSPA   = nxm0("NXM_OF_ARP_SPA", 16, 32, true, KindIPv4)
	NxmOfARPTPA   = nxm0("NXM_OF_ARP_TPA", 17, 32, true, KindIPv4)
)

// NxmNxReg holds the sixteen 32-bit Nicira registers NXM_NX_REG0..15.
var NxmNxReg = nxRegs()

func nxRegs() [16]*Field {
	var regs [16]*Field
	for i := range regs {
		regs[i] = nxm1(fmt.Sprintf("NXM_NX_REG%d", i), uint8(i), 32, true, KindHex)
	}
	return regs
}

// Nicira NXM_NX_* fields.
var (
	NxmNxTunID       = nxm1("NXM_NX_TUN_ID", 16, 64, true, KindHex)
	NxmNxARPSHA      = nxm1("NXM_NX_ARP_SHA", 17, 48, true, KindMAC)
	NxmNxARPTHA      = nxm1("NXM_NX_ARP_THA", 18, 48, true, KindMAC)
	NxmNxIPv6Src     = nxm1("NXM_NX_IPV6_SRC", 19, 128, true, KindIPv6)
	NxmNxIPv6Dst     = nxm1("NXM_NX_IPV6_DST", 20, 128, true, KindIPv6)
	NxmNxICMPv6Type  = nxm1("NXM_NX_ICMPV6_TYPE", 21, 8, false, KindDecimal)
	NxmNxICMPv6Code  = nxm1("NXM_NX_ICMPV6_CODE", 22, 8, false, KindDecimal)
	NxmNxNDTarget    = nxm1("NXM_NX_ND_TARGET", 23, 128, true, KindIPv6)
	NxmNxNDSLL       = nxm1("NXM_NX_ND_SLL", 24, 48, true, KindMAC)
	NxmNxNDTLL       = nxm1("NXM_NX_ND_TLL", 25, 48, true, KindMAC)
	NxmNxIPFrag      = nxm1("NXM_NX_IP_FRAG", 26, 8, true, KindHex)
	NxmNxIPv6Label   = wide(nxm1("NXM_NX_IPV6_LABEL", 27, 20, true, KindHex), 4)
	NxmNxIPECN       = nxm1("NXM_NX_IP_ECN", 28, 8, false, KindDecimal)
	NxmNxIPTTL       = nxm1("NXM_NX_IP_TTL", 29, 8, false, KindDecimal)
	NxmNxMPLSTTL     = nxm1("NXM_NX_MPLS_TTL", 30, 8, false, KindDecimal)
	NxmNxTunIPv4Src  = nxm1("NXM_NX_TUN_IPV4_SRC", 31, 32, true, KindIPv4)
	NxmNxTunIPv4Dst  = nxm1("NXM_NX_TUN_IPV4_DST", 32, 32, true, KindIPv4)
	NxmNxPktMark     = nxm1("NXM_NX_PKT_MARK", 33, 32, true, KindHex)
	NxmNxTCPFlags    = nxm1("NXM_NX_TCP_FLAGS", 34, 16, true, KindHex)
	NxmNxDPHash      = nxm1("NXM_NX_DP_HASH", 35, 32, true, KindHex)
	NxmNxRecircID    = nxm1("NXM_NX_RECIRC_ID", 36, 32, false, KindDecimal)
	NxmNxConjID      = nxm1("NXM_NX_CONJ_ID", 37, 32, false, KindDecimal)
	NxmNxTunGBPID    = nxm1("NXM_NX_TUN_GBP_ID", 38, 16, true, KindDecimal)
	NxmNxTunGBPFlags = nxm1("NXM_NX_TUN_GBP_FLAGS", 39, 8, true, KindHex)
	NxmNxTunFlags    = nxm1("NXM_NX_TUN_FLAGS", 104, 16, true, KindHex)
	NxmNxCtState     = nxm1("NXM_NX_CT_STATE", 105, 32, true, KindHex)
	NxmNxCtZone      = nxm1("NXM_NX_CT_ZONE", 106, 16, false, KindDecimal)
	NxmNxCtMark      = nxm1("NXM_NX_CT_MARK", 107, 32, true, KindHex)
	NxmNxCtLabel     = nxm1("NXM_NX_CT_LABEL", 108, 128, true, KindHex)
	NxmNxTunIPv6Src  = nxm1("NXM_NX_TUN_IPV6_SRC", 109, 128, true, KindIPv6)
	NxmNxTunIPv6Dst  = nxm1("NXM_NX_TUN_IPV6_DST", 110, 128, true, KindIPv6)
	NxmNxCtNwProto   = nxm1("NXM_NX_CT_NW_PROTO", 119, 8, false, KindDecimal)
	NxmNxCtNwSrc     = nxm1("NXM_NX_CT_NW_SRC", 120, 32, true, KindIPv4)
	NxmNxCtNwDst     = nxm1("NXM_NX_CT_NW_DST", 121, 32, true, KindIPv4)
	NxmNxCtIPv6Src   = nxm1("NXM_NX_CT_IPV6_SRC", 122, 128, true, KindIPv6)
	NxmNxCtIPv6Dst   = nxm1("NXM_NX_CT_IPV6_DST", 123, 128, true, KindIPv6)
	NxmNxCtTpSrc     = nxm1("NXM_NX_CT_TP_SRC", 124, 16, true, KindDecimal)
	NxmNxCtTpDst     = nxm1("NXM_NX_CT_TP_DST", 125, 16, true, KindDecimal)
)

// Experimenter fields: Nicira NSH and ONF.
var (
	NshFlags  = experimenter("NXOXM_NSH_FLAGS", NSHExperimenterID, 1, 8, true, KindHex)
	NshMdType = experimenter("NXOXM_NSH_MDTYPE", NSHExperimenterID, 2, 8, false, KindDecimal)
	NshNp     = experimenter("NXOXM_NSH_NP", NSHExperimenterID, 3, 8, false, KindDecimal)
	NshSPI    = wide(experimenter("NXOXM_NSH_SPI", NSHExperimenterID, 4, 24, false, KindHex), 4)
	NshSI     = experimenter("NXOXM_NSH_SI", NSHExperimenterID, 5, 8, false, KindDecimal)
	NshC1     = experimenter("NXOXM_NSH_C1", NSHExperimenterID, 6, 32, true, KindHex)
	NshC2     = experimenter("NXOXM_NSH_C2", NSHExperimenterID, 7, 32, true, KindHex)
	NshC3     = experimenter("NXOXM_NSH_C3", NSHExperimenterID, 8, 32, true, KindHex)
	NshC4     = experimenter("NXOXM_NSH_C4", NSHExperimenterID, 9, 32, true, KindHex)
	NshTTL    = wide(experimenter("NXOXM_NSH_TTL", NSHExperimenterID, 10, 6, false, KindDecimal), 1)

	OnfTCPFlags = experimenter("ONFOXM_ET_TCP_FLAGS", ONFExperimenterID, 42, 12, true, KindHex)
)

// fieldTable lists every field of the default registry.
var fieldTable = []*Field{
	InPort, InPhyPort, Metadata, EthDst, EthSrc, EthType, VlanVID, VlanPCP,
	IPDSCP, IPECN, IPProto, IPv4Src, IPv4Dst, TCPSrc, TCPDst, UDPSrc, UDPDst,
	SCTPSrc, SCTPDst, ICMPv4Type, ICMPv4Code, ARPOp, ARPSPA, ARPTPA, ARPSHA,
	ARPTHA, IPv6Src, IPv6Dst, IPv6FLabel, ICMPv6Type, ICMPv6Code,
	IPv6NDTarget, IPv6NDSLL, IPv6NDTLL, MPLSLabel, MPLSTC, MPLSBOS, PBBISID,
	TunnelID, IPv6ExtHdr, PBBUCA, TCPFlags,

	NxmOfInPort, NxmOfEthDst, NxmOfEthSrc, NxmOfEthType, NxmOfVlanTCI,
	NxmOfIPTos, NxmOfIPProto, NxmOfIPSrc, NxmOfIPDst, NxmOfTCPSrc,
	NxmOfTCPDst, NxmOfUDPSrc, NxmOfUDPDst, NxmOfICMPType, NxmOfICMPCode,
	NxmOfARPOp, NxmOfARPSPA, NxmOfARPTPA,

	NxmNxReg[0], NxmNxReg[1], NxmNxReg[2], NxmNxReg[3], NxmNxReg[4],
	NxmNxReg[5], NxmNxReg[6], NxmNxReg[7], NxmNxReg[8], NxmNxReg[9],
	NxmNxReg[10], NxmNxReg[11], NxmNxReg[12], NxmNxReg[13], NxmNxReg[14],
	NxmNxReg[15],
	NxmNxTunID, NxmNxARPSHA, NxmNxARPTHA, NxmNxIPv6Src, NxmNxIPv6Dst,
	NxmNxICMPv6Type, NxmNxICMPv6Code, NxmNxNDTarget, NxmNxNDSLL, NxmNxNDTLL,
	NxmNxIPFrag, NxmNxIPv6Label, NxmNxIPECN, NxmNxIPTTL, NxmNxMPLSTTL,
	NxmNxTunIPv4Src, NxmNxTunIPv4Dst, NxmNxPktMark, NxmNxTCPFlags,
	NxmNxDPHash, NxmNxRecircID, NxmNxConjID, NxmNxTunGBPID, NxmNxTunGBPFlags,
	NxmNxTunFlags, NxmNxCtState, NxmNxCtZone, NxmNxCtMark, NxmNxCtLabel,
	NxmNxTunIPv6Src, NxmNxTunIPv6Dst, NxmNxCtNwProto, NxmNxCtNwSrc,
	NxmNxCtNwDst, NxmNxCtIPv6Src, NxmNxCtIPv6Dst, NxmNxCtTpSrc, NxmNxCtTpDst,

	NshFlags, NshMdType, NshNp, NshSPI, NshSI, NshC1, NshC2, NshC3, NshC4,
	NshTTL, OnfTCPFlags,
}
