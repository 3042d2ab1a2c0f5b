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
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/Kmotiko/gofc/ofprotocol/ofp13"
	"github.com/davecgh/go-spew/spew"
	"github.com/k-vswitch/ofmatch/connection"
	"github.com/k-vswitch/ofmatch/flows"
	"github.com/k-vswitch/ofmatch/match"
	"github.com/k-vswitch/ofmatch/oxm"
	"github.com/pkg/errors"
	"k8s.io/klog"
)

const usage = `usage: oxmctl [klog flags] <command> [flags]

commands:
  decode    decode a hex encoded ofp_match
  encode    encode a match from text or a YAML file
  frame     derive the exact match of an ethernet frame
  messages  decode the matches of a stream of OpenFlow messages
  fields    list the registered match fields
  tap       listen for OpenFlow connections and log their matches
`

type command func(args []string, out io.Writer) error

var commands = map[string]command{
	"decode":   runDecode,
	"encode":   runEncode,
	"frame":    runFrame,
	"messages": runMessages,
	"fields":   runFields,
	"tap":      runTap,
}

func main() {
	klog.InitFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	run, ok := commands[args[0]]
	if !ok {
		klog.Errorf("unknown command %q", args[0])
		flag.Usage()
		os.Exit(2)
	}

	if err := run(args[1:], os.Stdout); err != nil {
		klog.Errorf("%s: %v", args[0], err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

// readInput returns the hex decoded contents of the first argument, or of
// file when set. Whitespace and colons are ignored.
func readInput(args []string, file string) ([]byte, error) {
	var text string
	switch {
	case file != "":
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %q", file)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, "")
	default:
		return nil, errors.New("no input, pass hex bytes or -file")
	}

	text = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, text)
	text = strings.TrimPrefix(text, "0x")

	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding hex input")
	}
	return data, nil
}

func printMatch(out io.Writer, m *match.Match, format string) error {
	switch format {
	case "text":
		fmt.Fprintln(out, flows.FormatMatch(m))
	case "yaml":
		data, err := fileFromMatch(m).YAML()
		if err != nil {
			return err
		}
		out.Write(data)
	case "dump":
		spew.Fdump(out, m)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
	return nil
}

func runDecode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	file := fs.String("file", "", "read hex input from a file")
	format := fs.String("o", "text", "output format: text, yaml or dump")
	strict := fs.Bool("strict", false, "reject fields missing from the registry")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(fs.Args(), *file)
	if err != nil {
		return err
	}

	m := match.New()
	r := oxm.NewReader(data)
	if err := m.Decode(r); err != nil {
		return err
	}
	if r.Len() > 0 {
		klog.Warningf("ignoring %d bytes after the match", r.Len())
	}

	if err := m.Validate(*strict); err != nil {
		return err
	}
	return printMatch(out, m, *format)
}

func runEncode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	file := fs.String("f", "", "YAML match file")
	text := fs.String("match", "", "match in name=value,... form")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var m *match.Match
	switch {
	case *file != "":
		data, err := ioutil.ReadFile(*file)
		if err != nil {
			return errors.Wrapf(err, "error reading %q", *file)
		}
		matchFile, err := parseMatchFile(data)
		if err != nil {
			return err
		}
		if m, err = matchFile.Match(oxm.Default()); err != nil {
			return err
		}
	case *text != "":
		var err error
		if m, err = flows.ParseMatch(oxm.Default(), *text); err != nil {
			return err
		}
	default:
		return errors.New("one of -f or -match is required")
	}

	if err := m.Validate(true); err != nil {
		return err
	}

	data, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hex.EncodeToString(data))
	return nil
}

func runFrame(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("frame", flag.ContinueOnError)
	file := fs.String("file", "", "read the hex encoded frame from a file")
	inPort := fs.Uint("in-port", 1, "ingress port")
	format := fs.String("o", "text", "output format: text, yaml or dump")
	if err := fs.Parse(args); err != nil {
		return err
	}

	frame, err := readInput(fs.Args(), *file)
	if err != nil {
		return err
	}

	m, err := match.FromPacket(frame, uint32(*inPort))
	if err != nil {
		return err
	}
	return printMatch(out, m, *format)
}

// describeMessage renders the matches carried by one OpenFlow message.
func describeMessage(msg []byte) (string, error) {
	h, err := connection.ParseHeader(msg)
	if err != nil {
		return "", err
	}

	if h.Type == ofp13.OFPT_MULTIPART_REPLY {
		stats, err := connection.DecodeFlowStats(msg)
		buffer := flows.NewFlowsBuffer()
		for _, s := range stats {
			buffer.AddFlow(s.Flow())
		}
		out := fmt.Sprintf("xid=%d flow stats (%d entries)\n%s", h.Xid, buffer.Len(), buffer.String())
		return strings.TrimSuffix(out, "\n"), err
	}

	m, err := connection.DecodeMatch(msg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("xid=%d type=%d %s", h.Xid, h.Type, flows.FormatMatch(m)), nil
}

func runMessages(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("messages", flag.ContinueOnError)
	file := fs.String("file", "", "file of raw OpenFlow messages, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if *file != "" && *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return errors.Wrapf(err, "error opening %q", *file)
		}
		defer f.Close()
		in = f
	}

	reader := connection.NewMessageReader(in)
	for {
		msg, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line, err := describeMessage(msg)
		if errors.Cause(err) == connection.ErrNoMatch {
			klog.V(4).Infof("skipping message: %v", err)
			continue
		}
		if err != nil {
			klog.Errorf("error decoding message: %v", err)
			continue
		}
		fmt.Fprintln(out, line)
	}
}

func runFields(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("fields", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCLASS\tCODE\tBITS\tBYTES\tMASKABLE")
	for _, f := range oxm.Default().Fields() {
		class := f.Class.String()
		if f.IsExperimenter() {
			class = fmt.Sprintf("experimenter(0x%08x)", f.Experimenter)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%t\n", f.Name, class, f.Code, f.Bits, f.Bytes(), f.Maskable)
	}
	return w.Flush()
}

func runTap(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tap", flag.ContinueOnError)
	listen := fs.String("listen", connection.DefaultListenAddr, "address to accept OpenFlow connections on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tap, err := connection.NewTap(*listen, func(remote net.Addr, msg []byte) {
		line, err := describeMessage(msg)
		if errors.Cause(err) == connection.ErrNoMatch {
			return
		}
		if err != nil {
			klog.Errorf("error decoding message from %s: %v", remote, err)
			return
		}
		fmt.Fprintf(out, "%s %s\n", remote, line)
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := make(chan os.Signal, 1)
	signal.Notify(term, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-term
		cancel()
	}()

	klog.Infof("listening for OpenFlow connections on %s", tap.Addr())
	return tap.Serve(ctx)
}
