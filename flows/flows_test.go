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

package flows

import (
	"net"
	"testing"

	"github.com/k-vswitch/ofmatch/match"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"
)

func Test_Flow(t *testing.T) {
	tests := []struct {
		name       string
		flow       *Flow
		flowString string
	}{
		{
			name:       "flow, no match",
			flow:       NewFlow().WithPriority(100),
			flowString: "table=0 priority=100",
		},
		{
			name:       "flow, empty match",
			flow:       NewFlow().WithTable(3).WithPriority(1).WithMatch(match.New()),
			flowString: "table=3 priority=1",
		},
		{
			name: "flow, with ipv4 and tcp match",
			flow: NewFlow().WithPriority(100).WithMatch(match.NewWithFields(
				oxm.NewUint(oxm.EthType, 0x0800),
				oxm.NewUint(oxm.IPProto, 6),
				oxm.NewUint(oxm.TCPDst, 443),
			)),
			flowString: "table=0 priority=100 eth_type=0x800,ip_proto=6,tcp_dst=443",
		},
		{
			name: "flow, with cookie and conntrack state",
			flow: NewFlow().WithTable(40).WithPriority(200).WithCookie(0xabc).WithMatch(match.NewWithFields(
				oxm.NewUintMasked(oxm.NxmNxCtState, 0x21, 0x21),
				oxm.NewUint(oxm.NxmNxCtZone, 5),
			)),
			flowString: "table=40 priority=200 cookie=0xabc NXM_NX_CT_STATE=0x21/0x21,NXM_NX_CT_ZONE=5",
		},
		{
			name: "flow, with nsh experimenter fields",
			flow: NewFlow().WithPriority(10).WithMatch(match.NewWithFields(
				oxm.NewUint(oxm.NshSPI, 0x123),
				oxm.NewUint(oxm.NshSI, 255),
			)),
			flowString: "table=0 priority=10 NXOXM_NSH_SPI=0x123,NXOXM_NSH_SI=255",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actualFlowString := test.flow.String()
			if actualFlowString != test.flowString {
				t.Logf("actual flow: %q", actualFlowString)
				t.Logf("expected flow: %q", test.flowString)
				t.Errorf("unexpected flow")
			}

			if err := test.flow.Validate(); err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func Test_FormatField(t *testing.T) {
	mac, _ := net.ParseMAC("aa:bb:cc:dd:ee:ff")
	macMask, _ := net.ParseMAC("ff:ff:ff:00:00:00")
	ethDst, err := oxm.NewHardwareAddrMasked(oxm.EthDst, mac, macMask)
	if err != nil {
		t.Fatalf("error building eth_dst: %v", err)
	}
	ipv6, err := oxm.NewIP(oxm.IPv6Src, net.ParseIP("fd00::1"))
	if err != nil {
		t.Fatalf("error building ipv6_src: %v", err)
	}
	oddMask, err := oxm.NewIPMasked(oxm.IPv4Src, net.ParseIP("10.0.0.1"), net.IPv4Mask(255, 0, 255, 0))
	if err != nil {
		t.Fatalf("error building ipv4_src: %v", err)
	}
	label := make([]byte, 16)
	label[15] = 0x34
	label[14] = 0x12
	ctLabel, err := oxm.NewMatchField(oxm.NxmNxCtLabel, label, nil)
	if err != nil {
		t.Fatalf("error building ct_label: %v", err)
	}

	tests := []struct {
		name  string
		field *oxm.MatchField
		text  string
	}{
		{
			name:  "masked mac",
			field: ethDst,
			text:  "eth_dst=aa:bb:cc:dd:ee:ff/ff:ff:ff:00:00:00",
		},
		{
			name:  "ipv6 address",
			field: ipv6,
			text:  "ipv6_src=fd00::1",
		},
		{
			name:  "non contiguous ipv4 mask",
			field: oddMask,
			text:  "ipv4_src=10.0.0.1/255.0.255.0",
		},
		{
			name:  "masked metadata",
			field: oxm.NewUintMasked(oxm.Metadata, 0x1, 0xff),
			text:  "metadata=0x1/0xff",
		},
		{
			name:  "masked decimal field renders hex",
			field: oxm.NewUintMasked(oxm.NxmOfTCPSrc, 0x100, 0xff00),
			text:  "NXM_OF_TCP_SRC=0x100/0xff00",
		},
		{
			name:  "128-bit value",
			field: ctLabel,
			text:  "NXM_NX_CT_LABEL=0x1234",
		},
		{
			name:  "unknown field",
			field: oxm.NewRaw(oxm.FieldID{Class: oxm.ClassOpenflowBasic, Code: 120}, false, []byte{0xaa, 0xbb}),
			text:  "openflow_basic:120=0xaabb",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := FormatField(test.field)
			if actual != test.text {
				t.Logf("actual text: %q", actual)
				t.Logf("expected text: %q", test.text)
				t.Errorf("unexpected field text")
			}
		})
	}
}

func Test_ParseMatchRoundTrip(t *testing.T) {
	tests := []string{
		"in_port=1",
		"eth_type=0x800,ipv4_src=10.0.0.0/8,ipv4_dst=192.168.1.1",
		"eth_src=00:11:22:33:44:55,eth_dst=aa:bb:cc:dd:ee:ff/ff:ff:ff:00:00:00",
		"eth_type=0x86dd,ipv6_dst=fd00::/64,ipv6_flabel=0x12345",
		"metadata=0xdeadbeef/0xffffffff,tunnel_id=0x64",
		"NXM_NX_REG3=0x10/0xf0,NXM_NX_CT_LABEL=0x1000000000000000ff",
		"NXOXM_NSH_C1=0x11223344/0xffff0000,NXOXM_NSH_TTL=63",
		"ipv4_dst=10.1.0.0/255.255.0.0",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			m, err := ParseMatch(oxm.Default(), text)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}

			actual := FormatMatch(m)
			expected := text
			if text == "ipv4_dst=10.1.0.0/255.255.0.0" {
				expected = "ipv4_dst=10.1.0.0/16"
			}
			if actual != expected {
				t.Logf("actual text: %q", actual)
				t.Logf("expected text: %q", expected)
				t.Errorf("unexpected match text")
			}

			wire, err := m.MarshalBinary()
			if err != nil {
				t.Fatalf("unexpected encode error: %v", err)
			}
			decoded := match.New()
			if err := decoded.UnmarshalBinary(wire); err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !decoded.Equal(m) {
				t.Logf("actual match: %s", decoded)
				t.Errorf("match changed over the wire")
			}
		})
	}
}

func Test_ParseFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		err   error
	}{
		{
			name:  "unknown name",
			field: "no_such_field",
			value: "1",
			err:   oxm.ErrUnknownField,
		},
		{
			name:  "value too wide",
			field: "ip_proto",
			value: "256",
			err:   ErrSyntax,
		},
		{
			name:  "not a number",
			field: "tcp_dst",
			value: "http",
			err:   ErrSyntax,
		},
		{
			name:  "bad mac",
			field: "eth_src",
			value: "00:11:22",
			err:   ErrSyntax,
		},
		{
			name:  "ipv6 address for ipv4 field",
			field: "ipv4_src",
			value: "fd00::1",
			err:   oxm.ErrBadLength,
		},
		{
			name:  "prefix too long",
			field: "ipv4_dst",
			value: "10.0.0.0/33",
			err:   ErrSyntax,
		},
		{
			name:  "empty mask",
			field: "metadata",
			value: "0x1/",
			err:   ErrSyntax,
		},
		{
			name:  "wide value without hex prefix",
			field: "NXM_NX_CT_LABEL",
			value: "12",
			err:   ErrSyntax,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseField(oxm.Default(), test.field, test.value)
			if errors.Cause(err) != test.err {
				t.Logf("actual error: %v", err)
				t.Logf("expected error: %v", test.err)
				t.Errorf("unexpected error")
			}
		})
	}
}

func Test_ParseMatchSyntax(t *testing.T) {
	_, err := ParseMatch(oxm.Default(), "in_port=1,eth_type")
	if errors.Cause(err) != ErrSyntax {
		t.Logf("actual error: %v", err)
		t.Errorf("unexpected error")
	}
}
