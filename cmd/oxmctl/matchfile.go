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

package main

import (
	"strings"

	"github.com/k-vswitch/ofmatch/flows"
	"github.com/k-vswitch/ofmatch/match"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// MatchFile is the YAML form of a match, e.g.
//
//	fields:
//	- field: eth_type
//	  value: "0x800"
//	- field: ipv4_dst
//	  value: 10.0.0.0
//	  mask: "24"
type MatchFile struct {
	Type   uint16      `json:"type,omitempty"`
	Fields []FileField `json:"fields"`
}

type FileField struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Mask  string `json:"mask,omitempty"`
}

func parseMatchFile(data []byte) (*MatchFile, error) {
	f := &MatchFile{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrap(err, "error parsing match file")
	}
	return f, nil
}

// Match builds the match the file describes. A zero type means OXM.
func (s *MatchFile) Match(reg *oxm.Registry) (*match.Match, error) {
	m := match.New()
	if s.Type != 0 {
		m.Type = s.Type
	}

	for i, fs := range s.Fields {
		value := fs.Value
		if fs.Mask != "" {
			value = value + "/" + fs.Mask
		}

		mf, err := flows.ParseField(reg, fs.Field, value)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d", i)
		}
		m.Add(mf)
	}
	return m, nil
}

func fileFromMatch(m *match.Match) *MatchFile {
	f := &MatchFile{Type: m.Type}
	for _, mf := range m.Fields() {
		kv := strings.SplitN(flows.FormatField(mf), "=", 2)
		fs := FileField{Field: kv[0], Value: kv[1]}
		if i := strings.Index(fs.Value, "/"); i >= 0 {
			fs.Value, fs.Mask = fs.Value[:i], fs.Value[i+1:]
		}
		f.Fields = append(f.Fields, fs)
	}
	return f
}

func (s *MatchFile) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
