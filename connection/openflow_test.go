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

package connection

import (
	"testing"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/k-vswitch/ofmatch/match"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"
)

// newMessage builds an OpenFlow 1.3 message around body and fixes up the
// header length.
func newMessage(msgType uint8, body ...[]byte) []byte {
	w := oxm.NewWriter(64)
	w.PutUint8(Version)
	w.PutUint8(msgType)
	w.PutUint16(0)
	w.PutUint32(42)
	for _, b := range body {
		w.PutBytes(b)
	}
	w.SetUint16At(2, uint16(w.Len()))
	return w.Bytes()
}

func mustMarshal(t *testing.T, m *match.Match) []byte {
	b, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("error encoding match: %v", err)
	}
	return b
}

func packetIn(t *testing.T, m *match.Match) []byte {
	w := oxm.NewWriter(64)
	w.PutUint32(ofp13.OFP_NO_BUFFER)
	w.PutUint16(60) // total_len
	w.PutUint8(1)   // reason
	w.PutUint8(3)   // table_id
	w.PutUint64(0xfeed)
	w.PutBytes(mustMarshal(t, m))
	w.PutZeros(2)
	w.PutZeros(60)
	return newMessage(ofp13.OFPT_PACKET_IN, w.Bytes())
}

func flowStatsEntry(table uint8, priority uint16, cookie, packets, bytes uint64, matchBytes []byte) []byte {
	w := oxm.NewWriter(128)
	w.PutUint16(uint16(flowStatsLen + len(matchBytes)))
	w.PutUint8(table)
	w.PutZeros(1)
	w.PutUint32(10) // duration_sec
	w.PutUint32(500)
	w.PutUint16(priority)
	w.PutUint16(0) // idle_timeout
	w.PutUint16(0) // hard_timeout
	w.PutUint16(0) // flags
	w.PutZeros(4)
	w.PutUint64(cookie)
	w.PutUint64(packets)
	w.PutUint64(bytes)
	w.PutBytes(matchBytes)
	return w.Bytes()
}

func flowStatsReply(entries ...[]byte) []byte {
	w := oxm.NewWriter(256)
	w.PutUint16(ofp13.OFPMP_FLOW)
	w.PutUint16(0) // flags
	w.PutZeros(4)
	for _, e := range entries {
		w.PutBytes(e)
	}
	return newMessage(ofp13.OFPT_MULTIPART_REPLY, w.Bytes())
}

func Test_MessageLength(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		length int
		err    error
	}{
		{
			name:   "hello",
			buf:    []byte{0x04, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x01},
			length: 8,
		},
		{
			name:   "only the length is needed",
			buf:    []byte{0x04, 0x0e, 0x01, 0x00},
			length: 256,
		},
		{
			name: "short buffer",
			buf:  []byte{0x04, 0x00, 0x00},
			err:  ErrShortMessage,
		},
		{
			name: "length below header size",
			buf:  []byte{0x04, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01},
			err:  ErrShortMessage,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			length, err := MessageLength(test.buf)
			if errors.Cause(err) != test.err {
				t.Logf("actual error: %v", err)
				t.Errorf("unexpected error")
			}
			if length != test.length {
				t.Logf("actual length: %d", length)
				t.Logf("expected length: %d", test.length)
				t.Errorf("unexpected length")
			}
		})
	}
}

func Test_DecodeMatchFlowMod(t *testing.T) {
	gm := ofp13.NewOfpMatch()
	gm.Append(ofp13.NewOxmEthType(0x0800))
	gm.Append(ofp13.NewOxmIpProto(6))
	gm.Append(ofp13.NewOxmTcpDst(80))

	fm := ofp13.NewOfpFlowModAdd(0x10, 0, 2, 100, 0, gm,
		[]ofp13.OfpInstruction{ofp13.NewOfpInstructionGotoTable(3)})

	m, err := DecodeMatch(fm.Serialize())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ethType, _ := m.EthType()
	proto, _ := m.IPProto()
	port, _ := m.TCPDst()
	if m.Len() != 3 || ethType != 0x0800 || proto != 6 || port != 80 {
		t.Logf("actual match: %s", m)
		t.Errorf("unexpected flow mod match")
	}
}

func Test_DecodeMatchPacketIn(t *testing.T) {
	expected := match.NewWithFields(
		oxm.NewUint(oxm.InPort, 5),
		oxm.NewUintMasked(oxm.Metadata, 0x1, 0xff),
		oxm.NewUint(oxm.NxmNxCtZone, 9),
	)

	m, err := DecodeMatch(packetIn(t, expected))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Equal(expected) {
		t.Logf("actual match: %s", m)
		t.Logf("expected match: %s", expected)
		t.Errorf("unexpected packet in match")
	}
}

func Test_DecodeMatchFailures(t *testing.T) {
	hello := newMessage(ofp13.OFPT_HELLO)
	oldVersion := newMessage(ofp13.OFPT_PACKET_IN, make([]byte, 32))
	oldVersion[0] = 1
	truncated := newMessage(ofp13.OFPT_FLOW_MOD, make([]byte, 16))
	declaredLonger := newMessage(ofp13.OFPT_PACKET_IN, make([]byte, 32))
	declaredLonger[3] += 8

	tests := []struct {
		name string
		msg  []byte
		err  error
	}{
		{
			name: "message without a match",
			msg:  hello,
			err:  ErrNoMatch,
		},
		{
			name: "unsupported version",
			msg:  oldVersion,
			err:  ErrUnsupportedVersion,
		},
		{
			name: "match offset past the end",
			msg:  truncated,
			err:  ErrShortMessage,
		},
		{
			name: "declared length past the buffer",
			msg:  declaredLonger,
			err:  ErrShortMessage,
		},
		{
			name: "short header",
			msg:  hello[:6],
			err:  ErrShortMessage,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeMatch(test.msg)
			if errors.Cause(err) != test.err {
				t.Logf("actual error: %v", err)
				t.Logf("expected error: %v", test.err)
				t.Errorf("unexpected error")
			}
		})
	}
}

func Test_DecodeFlowStats(t *testing.T) {
	first := match.NewWithFields(
		oxm.NewUint(oxm.EthType, 0x0806),
		oxm.NewUint(oxm.ARPOp, 1),
	)
	second := match.NewWithFields(oxm.NewUint(oxm.InPort, 2))
	standardMatch := []byte{0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00}

	msg := flowStatsReply(
		flowStatsEntry(0, 100, 0x1, 7, 420, mustMarshal(t, first)),
		flowStatsEntry(1, 50, 0x2, 0, 0, standardMatch),
		flowStatsEntry(2, 10, 0, 3, 180, mustMarshal(t, second)),
	)

	stats, err := DecodeFlowStats(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stats))
	}

	if stats[0].TableID != 0 || stats[0].Priority != 100 || stats[0].Cookie != 0x1 ||
		stats[0].PacketCount != 7 || stats[0].ByteCount != 420 || stats[0].DurationSec != 10 {
		t.Logf("actual entry: %+v", stats[0])
		t.Errorf("unexpected first entry")
	}
	if !stats[0].Match.Equal(first) || !stats[1].Match.Equal(second) {
		t.Logf("actual matches: %s, %s", stats[0].Match, stats[1].Match)
		t.Errorf("unexpected entry matches")
	}

	expectedFlow := "table=2 priority=10 n_packets=3 n_bytes=180 in_port=2"
	if actual := stats[1].Flow().String(); actual != expectedFlow {
		t.Logf("actual flow: %q", actual)
		t.Logf("expected flow: %q", expectedFlow)
		t.Errorf("unexpected flow text")
	}
}

func Test_DecodeFlowStatsFailures(t *testing.T) {
	good := flowStatsEntry(0, 1, 0, 0, 0, mustMarshal(t, match.New()))
	bad := flowStatsEntry(0, 1, 0, 0, 0, mustMarshal(t, match.New()))
	bad[1] = 0x10 // entry shorter than the fixed part

	descReply := newMessage(ofp13.OFPT_MULTIPART_REPLY, []byte{0, 0, 0, 0, 0, 0, 0, 0})

	tests := []struct {
		name    string
		msg     []byte
		entries int
		err     error
	}{
		{
			name:    "bad entry length keeps earlier entries",
			msg:     flowStatsReply(good, bad),
			entries: 1,
			err:     ErrBadFlowStats,
		},
		{
			name: "not a flow stats reply",
			msg:  descReply,
			err:  ErrNoMatch,
		},
		{
			name: "not a multipart reply",
			msg:  newMessage(ofp13.OFPT_ECHO_REPLY),
			err:  ErrNoMatch,
		},
		{
			name: "multipart header cut short",
			msg:  newMessage(ofp13.OFPT_MULTIPART_REPLY, []byte{0, 1}),
			err:  ErrShortMessage,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stats, err := DecodeFlowStats(test.msg)
			if errors.Cause(err) != test.err {
				t.Logf("actual error: %v", err)
				t.Logf("expected error: %v", test.err)
				t.Errorf("unexpected error")
			}
			if len(stats) != test.entries {
				t.Logf("actual entries: %d", len(stats))
				t.Errorf("unexpected number of entries")
			}
		})
	}
}
