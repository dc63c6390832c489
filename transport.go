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
	"fmt"
	"time"
)

// Transport moves length-prefixed records between the host and a radio.
// Received records carry a MAC frame followed by its quality byte; records
// passed to WriteRecord carry a MAC frame only.
type Transport interface {
	// ReadRecord blocks until one record is received or ctx is done
	ReadRecord(ctx context.Context) ([]byte, error)

	// WriteRecord sends one record to the radio for transmission
	WriteRecord(ctx context.Context, record []byte) error

	// SetTimeout sets the read timeout for the transport
	SetTimeout(timeout time.Duration) error

	// Close closes the transport connection
	Close() error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents a USB/serial radio dongle.
	TransportUART TransportType = "uart"
	// TransportI2C represents an I2C radio bridge.
	TransportI2C TransportType = "i2c"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportWithRetry wraps a Transport with retry capabilities
type TransportWithRetry struct {
	transport Transport
	config    *RetryConfig
}

// NewTransportWithRetry creates a new transport wrapper with retry logic
func NewTransportWithRetry(transport Transport, config *RetryConfig) *TransportWithRetry {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &TransportWithRetry{
		transport: transport,
		config:    config,
	}
}

// ReadRecord reads a record, retrying retryable failures
func (t *TransportWithRetry) ReadRecord(ctx context.Context) ([]byte, error) {
	var result []byte
	err := RetryWithConfig(ctx, t.config, func() error {
		var err error
		result, err = t.transport.ReadRecord(ctx)
		if err != nil {
			return &TransportError{
				Op:        "ReadRecord",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		return nil
	})
	return result, err
}

// WriteRecord writes a record, retrying retryable failures
func (t *TransportWithRetry) WriteRecord(ctx context.Context, record []byte) error {
	return RetryWithConfig(ctx, t.config, func() error {
		if err := t.transport.WriteRecord(ctx, record); err != nil {
			return &TransportError{
				Op:        "WriteRecord",
				Err:       err,
				Type:      GetErrorType(err),
				Retryable: IsRetryable(err),
			}
		}
		return nil
	})
}

// Close closes the transport connection
func (t *TransportWithRetry) Close() error {
	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close underlying transport: %w", err)
	}
	return nil
}

// SetTimeout sets the read timeout for the transport
func (t *TransportWithRetry) SetTimeout(timeout time.Duration) error {
	if err := t.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on underlying transport: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *TransportWithRetry) IsConnected() bool {
	return t.transport.IsConnected()
}

// Type returns the transport type
func (t *TransportWithRetry) Type() TransportType {
	return t.transport.Type()
}

// SetRetryConfig updates the retry configuration
func (t *TransportWithRetry) SetRetryConfig(config *RetryConfig) {
	t.config = config
}

// Unwrap returns the wrapped transport
func (t *TransportWithRetry) Unwrap() Transport {
	return t.transport
}
