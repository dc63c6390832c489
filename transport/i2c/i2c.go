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

// Package i2c provides an I2C transport for 802.15.4 radio bridges
package i2c

import (
	"context"
	"fmt"
	"sync"
	"time"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
	"github.com/ZaparooProject/go-ieee802154/internal/frame"
	"github.com/ZaparooProject/go-ieee802154/internal/transport"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddress is the 7-bit I2C address of the radio bridge
	DefaultAddress = 0x24

	// Status byte values
	statusIdle  = 0x00
	statusReady = 0x01

	// Max clock frequency (400 kHz).
	maxClockFreq = 400 * physic.KiloHertz

	pollInterval = time.Millisecond

	// A NACKed read transaction is repeated this many times
	txRetries    = 2
	txRetryDelay = time.Millisecond
)

// conn is the subset of i2c.Dev the transport uses
type conn interface {
	Tx(w, r []byte) error
}

// Transport implements the ieee802154.Transport interface for I2C bridges
type Transport struct {
	dev     conn
	closer  func() error
	busName string
	timeout time.Duration
	mu      sync.Mutex
	closed  bool
}

// Option configures the I2C transport
type Option func(*i2c.Dev)

// WithAddress overrides DefaultAddress
func WithAddress(addr uint16) Option {
	return func(d *i2c.Dev) {
		d.Addr = addr
	}
}

// New opens busName and returns a transport talking to the bridge on it
func New(busName string, opts ...Option) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	dev := &i2c.Dev{Addr: DefaultAddress, Bus: bus}
	for _, opt := range opts {
		opt(dev)
	}

	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	t := newTransport(dev, busName)
	t.closer = bus.Close
	return t, nil
}

func newTransport(dev conn, busName string) *Transport {
	return &Transport{
		dev:     dev,
		busName: busName,
		timeout: 50 * time.Millisecond,
	}
}

// ReadRecord polls the bridge status until a record is ready, then reads the
// length byte and the record body in two transactions. A bus error on either
// transaction is retried before it is reported. If no record becomes ready
// within the transport timeout a retryable timeout error is returned.
func (t *Transport) ReadRecord(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ieee802154.ErrTransportClosed
	}

	if _, err := transport.TimeoutRetry(ctx, t.timeout, pollInterval, t.busName, t.checkReady); err != nil {
		return nil, err
	}

	var prefix [frame.LengthPrefixSize]byte
	if err := t.readTx(prefix[:]); err != nil {
		return nil, err
	}
	n := int(prefix[0])
	if err := frame.ValidateRecordLength(n); err != nil {
		return nil, ieee802154.NewRecordCorruptedError("ReadRecord", t.busName)
	}

	record := make([]byte, n)
	if err := t.readTx(record); err != nil {
		return nil, err
	}
	return record, nil
}

// readTx fills buf in one read transaction, repeating it while the bus fails
func (t *Transport) readTx(buf []byte) error {
	var lastErr error
	_, err := transport.WithRetry(transport.RetryConfig{
		Description: "ReadRecord",
		Port:        t.busName,
		MaxRetries:  txRetries,
		RetryDelay:  txRetryDelay,
		OnRetryFailed: func() error {
			return t.readError(lastErr)
		},
	}, func() (struct{}, bool, error) {
		if lastErr = t.dev.Tx(nil, buf); lastErr != nil {
			return struct{}{}, true, nil
		}
		return struct{}{}, false, nil
	})
	return err
}

// checkReady reads the status byte; idle asks for another poll
func (t *Transport) checkReady() (byte, bool, error) {
	var status [1]byte
	if err := t.dev.Tx(nil, status[:]); err != nil {
		return 0, false, t.readError(err)
	}

	switch status[0] {
	case statusReady:
		return status[0], false, nil
	case statusIdle:
		return status[0], true, nil
	default:
		return 0, false, ieee802154.NewRecordCorruptedError("checkReady", t.busName)
	}
}

// WriteRecord sends record with its length prefix in a single transaction
func (t *Transport) WriteRecord(ctx context.Context, record []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ieee802154.ErrTransportClosed
	}

	var buf [frame.MaxRecordSize]byte
	n, err := frame.EncodeRecord(buf[:], record)
	if err != nil {
		return ieee802154.NewRecordTooLargeError("WriteRecord", t.busName)
	}

	if err := t.dev.Tx(buf[:n], nil); err != nil {
		return ieee802154.NewTransportError("WriteRecord", t.busName,
			fmt.Errorf("%w: %w", ieee802154.ErrTransportWrite, err), ieee802154.ErrorTypeTransient)
	}
	return nil
}

// SetTimeout sets how long ReadRecord waits for the bridge to become ready
func (t *Transport) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("invalid timeout: %v", timeout)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
	return nil
}

// Close releases the I2C bus
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.closer != nil {
		if err := t.closer(); err != nil {
			return fmt.Errorf("failed to close I2C bus %s: %w", t.busName, err)
		}
	}
	return nil
}

// IsConnected returns true until Close is called
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dev != nil && !t.closed
}

// Type returns the transport type
func (*Transport) Type() ieee802154.TransportType {
	return ieee802154.TransportI2C
}

func (t *Transport) readError(err error) error {
	return ieee802154.NewTransportError("ReadRecord", t.busName,
		fmt.Errorf("%w: %w", ieee802154.ErrTransportRead, err), ieee802154.ErrorTypeTransient)
}

// Ensure Transport implements ieee802154.Transport
var _ ieee802154.Transport = (*Transport)(nil)
