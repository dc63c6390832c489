// go-ieee802154
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-ieee802154.
//
// go-ieee802154 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-ieee802154 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ieee802154; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package uart provides a serial transport for USB 802.15.4 radio dongles
package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
	"github.com/ZaparooProject/go-ieee802154/internal/frame"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the rate used by common sniffer firmware
	DefaultBaudRate = 115200

	// pollInterval bounds how long a single serial read blocks so that
	// context cancellation is noticed promptly
	pollInterval = 50 * time.Millisecond
)

var errInterByteTimeout = errors.New("inter-byte timeout")

// port is the subset of serial.Port the transport uses
type port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Transport implements the ieee802154.Transport interface for serial dongles
type Transport struct {
	port     port
	portName string
	writeBuf [frame.MaxRecordSize]byte
	timeout  atomic.Int64
	readMu   sync.Mutex
	writeMu  sync.Mutex
	closed   atomic.Bool
}

// Option configures the serial port
type Option func(*serial.Mode)

// WithBaudRate overrides DefaultBaudRate
func WithBaudRate(baud int) Option {
	return func(m *serial.Mode) {
		m.BaudRate = baud
	}
}

// New opens portName (8N1) and returns a transport reading length-prefixed records
func New(portName string, opts ...Option) (*Transport, error) {
	mode := &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	for _, opt := range opts {
		opt(mode)
	}

	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	t, err := newTransport(p, portName)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return t, nil
}

func newTransport(p port, portName string) (*Transport, error) {
	if err := p.SetReadTimeout(pollInterval); err != nil {
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}
	if err := p.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("failed to flush %s: %w", portName, err)
	}
	t := &Transport{
		port:     p,
		portName: portName,
	}
	t.timeout.Store(int64(time.Second))
	return t, nil
}

// ReadRecord blocks until a full record arrives or ctx is done. ctx only
// bounds the wait for the length byte: once a record has started it is read
// to the end even past the deadline, so the stream stays aligned on record
// boundaries. A gap longer than the transport timeout between bytes abandons
// the record and flushes the input buffer.
func (t *Transport) ReadRecord(ctx context.Context) ([]byte, error) {
	t.readMu.Lock()
	defer t.readMu.Unlock()
	if t.closed.Load() {
		return nil, ieee802154.ErrTransportClosed
	}

	r := &recordReader{ctx: ctx, port: t.port, gap: time.Duration(t.timeout.Load())}
	record, err := frame.ReadRecord(r)
	switch {
	case err == nil:
		return record, nil
	case t.closed.Load():
		return nil, ieee802154.ErrTransportClosed
	case ctx.Err() != nil && !r.started:
		return nil, ctx.Err()
	case errors.Is(err, frame.ErrInvalidLength), errors.Is(err, errInterByteTimeout),
		errors.Is(err, io.ErrUnexpectedEOF):
		_ = t.port.ResetInputBuffer()
		return nil, ieee802154.NewRecordCorruptedError("ReadRecord", t.portName)
	default:
		return nil, ieee802154.NewTransportError("ReadRecord", t.portName,
			fmt.Errorf("%w: %w", ieee802154.ErrTransportRead, err), ieee802154.ErrorTypeTransient)
	}
}

// WriteRecord sends record with its length prefix
func (t *Transport) WriteRecord(_ context.Context, record []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if t.closed.Load() {
		return ieee802154.ErrTransportClosed
	}

	n, err := frame.EncodeRecord(t.writeBuf[:], record)
	if err != nil {
		return ieee802154.NewRecordTooLargeError("WriteRecord", t.portName)
	}

	written, err := t.port.Write(t.writeBuf[:n])
	if err != nil {
		return ieee802154.NewTransportError("WriteRecord", t.portName,
			fmt.Errorf("%w: %w", ieee802154.ErrTransportWrite, err), ieee802154.ErrorTypeTransient)
	}
	if written != n {
		return ieee802154.NewTransportError("WriteRecord", t.portName,
			fmt.Errorf("%w: short write %d/%d", ieee802154.ErrTransportWrite, written, n),
			ieee802154.ErrorTypeTransient)
	}
	return nil
}

// SetTimeout sets the inter-byte timeout used while a record is in flight
func (t *Transport) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("invalid timeout: %v", timeout)
	}
	t.timeout.Store(int64(timeout))
	return nil
}

// Close closes the serial port, unblocking any pending ReadRecord
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", t.portName, err)
	}
	return nil
}

// IsConnected returns true until Close is called
func (t *Transport) IsConnected() bool {
	return !t.closed.Load()
}

// Type returns the transport type
func (*Transport) Type() ieee802154.TransportType {
	return ieee802154.TransportUART
}

// recordReader adapts a polling serial port to io.Reader. Before the first
// byte it waits for ctx; afterwards only a silent gap ends the record.
type recordReader struct {
	ctx     context.Context
	port    port
	last    time.Time
	gap     time.Duration
	started bool
}

func (r *recordReader) Read(p []byte) (int, error) {
	for {
		if !r.started {
			if err := r.ctx.Err(); err != nil {
				return 0, err
			}
		}

		n, err := r.port.Read(p)
		if err != nil {
			return n, err
		}
		if n > 0 {
			r.started = true
			r.last = time.Now()
			return n, nil
		}

		// Read timed out with no data
		if r.started && time.Since(r.last) > r.gap {
			return 0, errInterByteTimeout
		}
	}
}

// Ensure Transport implements ieee802154.Transport
var _ ieee802154.Transport = (*Transport)(nil)
