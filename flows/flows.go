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
	"fmt"

	"github.com/k-vswitch/ofmatch/match"
)

// Flow is a flow table entry rendered in ovs-ofctl syntax.
type Flow struct {
	table    int
	priority int
	cookie   uint64

	packets   uint64
	bytes     uint64
	hasCounts bool

	match *match.Match
}

func NewFlow() *Flow {
	return &Flow{}
}

func (f *Flow) String() string {
	flow := fmt.Sprintf("table=%d priority=%d", f.table, f.priority)

	if f.cookie != 0 {
		flow = fmt.Sprintf("%s cookie=0x%x", flow, f.cookie)
	}

	if f.hasCounts {
		flow = fmt.Sprintf("%s n_packets=%d n_bytes=%d", flow, f.packets, f.bytes)
	}

	if f.match != nil && f.match.Len() > 0 {
		flow = fmt.Sprintf("%s %s", flow, FormatMatch(f.match))
	}

	return flow
}

// Validate checks the match of the flow, rejecting unknown fields.
func (f *Flow) Validate() error {
	if f.match == nil {
		return nil
	}
	return f.match.Validate(true)
}

func (f *Flow) Match() *match.Match {
	return f.match
}

func (f *Flow) WithTable(table int) *Flow {
	f.table = table
	return f
}

func (f *Flow) WithPriority(priority int) *Flow {
	f.priority = priority
	return f
}

func (f *Flow) WithCookie(cookie uint64) *Flow {
	f.cookie = cookie
	return f
}

func (f *Flow) WithCounters(packets, bytes uint64) *Flow {
	f.packets = packets
	f.bytes = bytes
	f.hasCounts = true
	return f
}

func (f *Flow) WithMatch(m *match.Match) *Flow {
	f.match = m
	return f
}
