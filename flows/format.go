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
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/k-vswitch/ofmatch/match"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"
)

// ErrSyntax is returned for field text that cannot be parsed.
var ErrSyntax = errors.New("invalid field syntax")

// FormatField renders a match field in ovs-ofctl style, e.g.
// "ipv4_dst=10.0.0.0/24" or "metadata=0x1/0xff". Fields the registry does
// not know are rendered as their identity with the raw payload in hex.
func FormatField(mf *oxm.MatchField) string {
	f := mf.Field()
	if f == nil {
		return fmt.Sprintf("%s=0x%x", mf.ID(), mf.Value())
	}

	value := formatValue(f, mf.Value())
	if !mf.HasMask() {
		return fmt.Sprintf("%s=%s", f.Name, value)
	}

	switch f.Kind {
	case oxm.KindIPv4, oxm.KindIPv6:
		if ones, bits := mf.IPMask().Size(); bits != 0 {
			return fmt.Sprintf("%s=%s/%d", f.Name, value, ones)
		}
		return fmt.Sprintf("%s=%s/%s", f.Name, value, net.IP(mf.Mask()))
	case oxm.KindMAC:
		return fmt.Sprintf("%s=%s/%s", f.Name, value, net.HardwareAddr(mf.Mask()))
	}
	return fmt.Sprintf("%s=%s/%s", f.Name, formatHex(mf.Value()), formatHex(mf.Mask()))
}

func formatValue(f *oxm.Field, value []byte) string {
	switch f.Kind {
	case oxm.KindMAC:
		return net.HardwareAddr(value).String()
	case oxm.KindIPv4, oxm.KindIPv6:
		return net.IP(value).String()
	case oxm.KindDecimal:
		if len(value) <= 8 {
			return strconv.FormatUint(uintOf(value), 10)
		}
	}
	return formatHex(value)
}

func formatHex(b []byte) string {
	if len(b) <= 8 {
		return fmt.Sprintf("0x%x", uintOf(b))
	}
	s := strings.TrimLeft(hex.EncodeToString(b), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// FormatMatch renders every field of m, comma separated, in match order.
func FormatMatch(m *match.Match) string {
	fields := m.Fields()
	out := make([]string, 0, len(fields))
	for _, mf := range fields {
		out = append(out, FormatField(mf))
	}
	return strings.Join(out, ",")
}

// ParseField parses value for the field called name. value may carry a
// mask after a "/", either as a prefix length for address fields or in
// the same notation as the value.
func ParseField(reg *oxm.Registry, name, value string) (*oxm.MatchField, error) {
	f, ok := reg.ByName(name)
	if !ok {
		return nil, errors.Wrapf(oxm.ErrUnknownField, "%q", name)
	}

	v, m := value, ""
	if i := strings.Index(value, "/"); i >= 0 {
		v, m = value[:i], value[i+1:]
		if m == "" {
			return nil, errors.Wrapf(ErrSyntax, "%s: empty mask in %q", name, value)
		}
	}

	switch f.Kind {
	case oxm.KindMAC:
		return parseMAC(f, v, m)
	case oxm.KindIPv4, oxm.KindIPv6:
		return parseIP(f, v, m)
	}

	val, err := parseBytes(f, v)
	if err != nil {
		return nil, err
	}
	var mask []byte
	if m != "" {
		if mask, err = parseBytes(f, m); err != nil {
			return nil, err
		}
	}
	return oxm.NewMatchField(f, val, mask)
}

// ParseMatch parses a comma separated list of name=value pairs, the form
// FormatMatch produces.
func ParseMatch(reg *oxm.Registry, s string) (*match.Match, error) {
	m := match.New()
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		kv := strings.SplitN(token, "=", 2)
		if len(kv) != 2 {
			return nil, errors.Wrapf(ErrSyntax, "expected name=value, got %q", token)
		}

		mf, err := ParseField(reg, kv[0], kv[1])
		if err != nil {
			return nil, err
		}
		m.Add(mf)
	}
	return m, nil
}

func parseBytes(f *oxm.Field, s string) ([]byte, error) {
	width := f.Bytes()
	b := make([]byte, width)

	if width > 8 {
		if !strings.HasPrefix(s, "0x") {
			return nil, errors.Wrapf(ErrSyntax, "%s: %d-byte value %q must be hex", f.Name, width, s)
		}
		digits := s[2:]
		if len(digits)%2 == 1 {
			digits = "0" + digits
		}
		raw, err := hex.DecodeString(digits)
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "%s: %v", f.Name, err)
		}
		if len(raw) > width {
			return nil, errors.Wrapf(ErrSyntax, "%s: %q exceeds %d bytes", f.Name, s, width)
		}
		copy(b[width-len(raw):], raw)
		return b, nil
	}

	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrSyntax, "%s: %v", f.Name, err)
	}
	if width < 8 && v>>(8*uint(width)) != 0 {
		return nil, errors.Wrapf(ErrSyntax, "%s: %q exceeds %d bytes", f.Name, s, width)
	}
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b, nil
}

func parseMAC(f *oxm.Field, v, m string) (*oxm.MatchField, error) {
	addr, err := net.ParseMAC(v)
	if err != nil {
		return nil, errors.Wrapf(ErrSyntax, "%s: %v", f.Name, err)
	}
	if m == "" {
		return oxm.NewHardwareAddr(f, addr)
	}

	mask, err := net.ParseMAC(m)
	if err != nil {
		return nil, errors.Wrapf(ErrSyntax, "%s: %v", f.Name, err)
	}
	return oxm.NewHardwareAddrMasked(f, addr, mask)
}

func parseIP(f *oxm.Field, v, m string) (*oxm.MatchField, error) {
	ip := net.ParseIP(v)
	if ip == nil {
		return nil, errors.Wrapf(ErrSyntax, "%s: bad address %q", f.Name, v)
	}
	if m == "" {
		return oxm.NewIP(f, ip)
	}

	bits := 8 * f.Bytes()
	if ones, err := strconv.Atoi(m); err == nil {
		if ones < 0 || ones > bits {
			return nil, errors.Wrapf(ErrSyntax, "%s: prefix length %d out of range", f.Name, ones)
		}
		return oxm.NewIPMasked(f, ip, net.CIDRMask(ones, bits))
	}

	mask := net.ParseIP(m)
	if mask == nil {
		return nil, errors.Wrapf(ErrSyntax, "%s: bad mask %q", f.Name, m)
	}
	if bits == 32 {
		mask = mask.To4()
		if mask == nil {
			return nil, errors.Wrapf(ErrSyntax, "%s: bad mask %q", f.Name, m)
		}
	}
	return oxm.NewIPMasked(f, ip, net.IPMask(mask))
}

func uintOf(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
