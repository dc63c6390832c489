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

package ieee802154

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-ieee802154/internal/frame"
)

// Device errors
var (
	ErrNilTransport  = errors.New("nil transport")
	ErrFrameTooLarge = errors.New("frame exceeds maximum PHY packet size")
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig configures retry behavior for transport operations
	RetryConfig *RetryConfig
	// Timeout is the default timeout for operations
	Timeout time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		RetryConfig: DefaultRetryConfig(),
		Timeout:     1 * time.Second,
	}
}

// Device receives and transmits MAC frames through a radio transport.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine or protected with external synchronization. The frame
// codec itself (Decode, Encode) is stateless and safe for concurrent use.
type Device struct {
	transport Transport
	config    *DeviceConfig
	txBuf     [frame.MaxPHYPacketSize]byte
}

// New creates a new device with the given transport. The transport is
// wrapped with retry logic unless it already is.
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}

	device := &Device{config: DefaultDeviceConfig()}
	if tr, ok := transport.(*TransportWithRetry); ok {
		device.transport = tr
	} else {
		device.transport = NewTransportWithRetry(transport, device.config.RetryConfig)
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Transport returns the underlying transport, without the retry wrapper
func (d *Device) Transport() Transport {
	if tr, ok := d.transport.(*TransportWithRetry); ok {
		return tr.Unwrap()
	}
	return d.transport
}

// Config returns the device configuration
func (d *Device) Config() *DeviceConfig {
	return d.config
}

// SetTimeout sets the default operation timeout and the transport read timeout
func (d *Device) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("invalid timeout: %v", timeout)
	}
	d.config.Timeout = timeout
	if err := d.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set transport timeout: %w", err)
	}
	return nil
}

// SetRetryConfig updates the retry configuration
func (d *Device) SetRetryConfig(config *RetryConfig) {
	d.config.RetryConfig = config
	if tr, ok := d.transport.(*TransportWithRetry); ok {
		tr.SetRetryConfig(config)
	}
}

// ReceiveRecord blocks until the radio delivers a raw record (MAC frame plus
// trailing quality byte), the device timeout elapses, or ctx is done.
func (d *Device) ReceiveRecord(ctx context.Context) ([]byte, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	record, err := d.transport.ReadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	return record, nil
}

// Receive blocks until the radio delivers a frame, the device timeout
// elapses, or ctx is done. Records that fail to decode are returned as errors
// wrapping ErrTruncatedInput; the caller decides whether to keep receiving.
func (d *Device) Receive(ctx context.Context) (*Frame, error) {
	record, err := d.ReceiveRecord(ctx)
	if err != nil {
		return nil, err
	}

	f, err := Decode(record)
	if err != nil {
		debugf("dropping undecodable record (%d bytes): %v", len(record), err)
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	debugf("received %s frame seq=%d len=%d quality=0x%02x",
		f.Control.FrameType, f.SequenceNumber, len(record), f.Quality)
	return f, nil
}

// Transmit encodes f and hands it to the radio for transmission.
func (d *Device) Transmit(ctx context.Context, f *Frame) error {
	if f.EncodedLen() > frame.MaxPHYPacketSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, f.EncodedLen())
	}

	n, err := Encode(f, d.txBuf[:])
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if err := d.transport.WriteRecord(ctx, d.txBuf[:n]); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	debugf("transmitted %s frame seq=%d len=%d", f.Control.FrameType, f.SequenceNumber, n)
	return nil
}

// Close closes the device and its transport
func (d *Device) Close() error {
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	debugln("device closed")
	return nil
}

func (d *Device) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.config.Timeout)
}
