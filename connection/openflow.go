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
	"encoding/binary"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/k-vswitch/ofmatch/flows"
	"github.com/k-vswitch/ofmatch/match"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"
	"k8s.io/klog"
)

const (
	// HeaderLen is the size of the OpenFlow message header.
	HeaderLen = 8
	// Version is the OpenFlow 1.3 wire version.
	Version = 4

	multipartHeaderLen = HeaderLen + 8
	flowStatsLen       = 48
)

var (
	ErrShortMessage       = errors.New("short openflow message")
	ErrUnsupportedVersion = errors.New("unsupported openflow version")
	ErrNoMatch            = errors.New("message carries no match")
	ErrBadFlowStats       = errors.New("malformed flow stats entry")
)

// matchOffsets maps message types to the offset of their ofp_match.
var matchOffsets = map[uint8]int{
	ofp13.OFPT_PACKET_IN:    24,
	ofp13.OFPT_FLOW_REMOVED: 48,
	ofp13.OFPT_FLOW_MOD:     48,
}

// ParseHeader reads the 8-byte header at the start of buf.
func ParseHeader(buf []byte) (ofp13.OfpHeader, error) {
	var h ofp13.OfpHeader
	if len(buf) < HeaderLen {
		return h, errors.Wrapf(ErrShortMessage, "%d bytes for a header", len(buf))
	}
	h.Parse(buf)
	return h, nil
}

// MessageLength returns the total message length declared in the header.
func MessageLength(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, errors.Wrapf(ErrShortMessage, "%d bytes for a header", len(buf))
	}

	// version(1) type(1) length(2), big endian
	n := int(binary.BigEndian.Uint16(buf[2:]))
	if n < HeaderLen {
		return 0, errors.Wrapf(ErrShortMessage, "declared length %d", n)
	}
	return n, nil
}

// MatchOffset returns where the match starts in messages of the given
// type. Multipart replies carry one match per entry, see DecodeFlowStats.
func MatchOffset(msgType uint8) (int, bool) {
	off, ok := matchOffsets[msgType]
	return off, ok
}

// message checks the header of msg and returns it trimmed to its
// declared length.
func message(msg []byte) (ofp13.OfpHeader, []byte, error) {
	h, err := ParseHeader(msg)
	if err != nil {
		return h, nil, err
	}
	if h.Version != Version {
		return h, nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", h.Version)
	}

	n, err := MessageLength(msg)
	if err != nil {
		return h, nil, err
	}
	if n > len(msg) {
		return h, nil, errors.Wrapf(ErrShortMessage, "declared length %d, have %d bytes", n, len(msg))
	}
	return h, msg[:n], nil
}

// DecodeMatch decodes the match of a PACKET_IN, FLOW_REMOVED or FLOW_MOD
// message.
func DecodeMatch(msg []byte) (*match.Match, error) {
	h, msg, err := message(msg)
	if err != nil {
		return nil, err
	}

	off, ok := MatchOffset(h.Type)
	if !ok {
		return nil, errors.Wrapf(ErrNoMatch, "message type %d", h.Type)
	}
	if off > len(msg) {
		return nil, errors.Wrapf(ErrShortMessage, "type %d message of %d bytes", h.Type, len(msg))
	}

	m := match.New()
	if err := m.Decode(oxm.NewReader(msg[off:])); err != nil {
		return nil, errors.Wrapf(err, "message type %d", h.Type)
	}
	return m, nil
}

// FlowStats is one entry of an OFPMP_FLOW multipart reply.
type FlowStats struct {
	TableID      uint8
	DurationSec  uint32
	DurationNsec uint32
	Priority     uint16
	IdleTimeout  uint16
	HardTimeout  uint16
	Flags        uint16
	Cookie       uint64
	PacketCount  uint64
	ByteCount    uint64
	Match        *match.Match
}

// Flow converts the entry into its ovs-ofctl text form.
func (s *FlowStats) Flow() *flows.Flow {
	return flows.NewFlow().
		WithTable(int(s.TableID)).
		WithPriority(int(s.Priority)).
		WithCookie(s.Cookie).
		WithCounters(s.PacketCount, s.ByteCount).
		WithMatch(s.Match)
}

// DecodeFlowStats decodes the entries of an OFPMP_FLOW multipart reply.
// Entries whose match cannot be decoded are logged and skipped. An entry
// with a bad length ends decoding; the entries before it are returned
// with the error.
func DecodeFlowStats(msg []byte) ([]*FlowStats, error) {
	h, msg, err := message(msg)
	if err != nil {
		return nil, err
	}
	if h.Type != ofp13.OFPT_MULTIPART_REPLY {
		return nil, errors.Wrapf(ErrNoMatch, "message type %d is not a multipart reply", h.Type)
	}
	if len(msg) < multipartHeaderLen {
		return nil, errors.Wrapf(ErrShortMessage, "multipart reply of %d bytes", len(msg))
	}
	if mpType := binary.BigEndian.Uint16(msg[HeaderLen:]); mpType != ofp13.OFPMP_FLOW {
		return nil, errors.Wrapf(ErrNoMatch, "multipart type %d", mpType)
	}

	var stats []*FlowStats
	body := msg[multipartHeaderLen:]
	for off := 0; off < len(body); {
		if len(body)-off < 2 {
			return stats, errors.Wrapf(ErrBadFlowStats, "trailing %d bytes", len(body)-off)
		}

		n := int(binary.BigEndian.Uint16(body[off:]))
		if n < flowStatsLen || off+n > len(body) {
			return stats, errors.Wrapf(ErrBadFlowStats, "entry length %d at offset %d", n, off)
		}

		entry := body[off : off+n]
		off += n

		s := parseFlowStats(entry)
		s.Match = match.New()
		if err := s.Match.Decode(oxm.NewReader(entry[flowStatsLen:])); err != nil {
			klog.Warningf("skipping flow stats entry in table %d priority %d: %v", s.TableID, s.Priority, err)
			continue
		}
		stats = append(stats, s)
	}
	return stats, nil
}

func parseFlowStats(entry []byte) *FlowStats {
	return &FlowStats{
		TableID:      entry[2],
		DurationSec:  binary.BigEndian.Uint32(entry[4:]),
		DurationNsec: binary.BigEndian.Uint32(entry[8:]),
		Priority:     binary.BigEndian.Uint16(entry[12:]),
		IdleTimeout:  binary.BigEndian.Uint16(entry[14:]),
		HardTimeout:  binary.BigEndian.Uint16(entry[16:]),
		Flags:        binary.BigEndian.Uint16(entry[18:]),
		Cookie:       binary.BigEndian.Uint64(entry[24:]),
		PacketCount:  binary.BigEndian.Uint64(entry[32:]),
		ByteCount:    binary.BigEndian.Uint64(entry[40:]),
	}
}
