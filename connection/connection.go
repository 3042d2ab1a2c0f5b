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
	"context"
	"io"
	"net"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog"
)

// DefaultListenAddr is the OpenFlow controller port.
const DefaultListenAddr = ":6653"

// Handler is called for every message a tapped connection delivers.
type Handler func(remote net.Addr, msg []byte)

// Tap accepts OpenFlow connections and hands every message to a Handler.
// It only reads; nothing is ever written back to the switch.
type Tap struct {
	listener *net.TCPListener
	handler  Handler

	wg sync.WaitGroup
}

func NewTap(addr string, handler Handler) (*Tap, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving %q", addr)
	}

	listener, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "error listening on %q", addr)
	}

	return &Tap{
		listener: listener,
		handler:  handler,
	}, nil
}

func (t *Tap) Addr() net.Addr {
	return t.listener.Addr()
}

// Serve accepts connections until ctx is done, then waits for the open
// connections to finish.
func (t *Tap) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		t.listener.Close()
	}()

	for {
		conn, err := t.listener.AcceptTCP()
		if err != nil {
			if ctx.Err() != nil {
				t.wg.Wait()
				return nil
			}

			if netErr, ok := err.(net.Error); ok && netErr.Temporary() {
				klog.Errorf("error accepting TCP connections: %v", err)
				continue
			}

			t.wg.Wait()
			return errors.Wrap(err, "error accepting TCP connections")
		}

		klog.V(2).Infof("accepted connection from %s", conn.RemoteAddr())
		t.wg.Add(1)
		go t.handleConn(ctx, conn)
	}
}

func (t *Tap) handleConn(ctx context.Context, conn *net.TCPConn) {
	defer t.wg.Done()
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	reader := NewMessageReader(conn)
	for {
		msg, err := reader.Next()
		if err != nil {
			if err != io.EOF && ctx.Err() == nil {
				klog.Errorf("error reading connection from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		t.handler(conn.RemoteAddr(), msg)
	}
}
