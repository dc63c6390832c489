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
	"errors"
	"fmt"
)

// Codec errors
var (
	// ErrTruncatedInput is returned when decode runs out of bytes before a
	// mandatory field (or the trailing quality byte) could be read.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrBufferTooSmall is returned when encode's destination cannot hold the frame.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrAddressLength is returned when an address slice does not match its address mode.
	ErrAddressLength = errors.New("address length does not match address mode")
)

// Transport errors
var (
	ErrTransportTimeout = errors.New("transport timeout")
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportClosed  = errors.New("transport closed")
	ErrRecordCorrupted  = errors.New("record corrupted")
	ErrRecordTooLarge   = errors.New("record too large")
	ErrDeviceNotFound   = errors.New("device not found")
)

// FrameError describes a codec failure at a specific position in the frame
type FrameError struct {
	Err    error
	Op     string // "decode" or "encode"
	Field  string // Field being read or written when the failure occurred
	Offset int    // Byte offset of the field
	Need   int    // Bytes the field requires
	Have   int    // Bytes that were available at Offset
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s %s at offset %d: %v (need %d bytes, have %d)",
		e.Op, e.Field, e.Offset, e.Err, e.Need, e.Have)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

func newTruncatedError(field string, offset, need, have int) *FrameError {
	return &FrameError{Op: "decode", Field: field, Offset: offset, Need: need, Have: have, Err: ErrTruncatedInput}
}

func newBufferTooSmallError(field string, offset, need, have int) *FrameError {
	return &FrameError{Op: "encode", Field: field, Offset: offset, Need: need, Have: have, Err: ErrBufferTooSmall}
}

// ErrorType classifies an error for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away on retry
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on retry
	ErrorTypeTransient
	// ErrorTypeTimeout errors are timeouts and may succeed on retry
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "permanent"
	}
}

// TransportError wraps a transport failure with context about where it happened
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error; retryability follows the error type
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a retryable timeout error
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// NewRecordCorruptedError creates a retryable corrupted record error
func NewRecordCorruptedError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrRecordCorrupted, ErrorTypeTransient)
}

// NewRecordTooLargeError creates a permanent error for records exceeding the PHY limit
func NewRecordTooLargeError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrRecordTooLarge, ErrorTypePermanent)
}

// IsRetryable reports whether an operation that failed with err may succeed if repeated
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	return GetErrorType(err) != ErrorTypePermanent
}

// GetErrorType returns the classification of err
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrRecordCorrupted):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
