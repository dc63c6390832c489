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

package frame

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidLength is returned for record lengths outside 1..MaxRecordLength
	ErrInvalidLength = errors.New("invalid record length")
	// ErrShortBuffer is returned when a record does not fit the destination
	ErrShortBuffer = errors.New("short buffer")
)

// ValidateRecordLength checks a record length prefix
func ValidateRecordLength(n int) error {
	if n < MinRecordLength || n > MaxRecordLength {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return nil
}

// EncodeRecord writes body as a length-prefixed record into dst and returns
// the number of bytes written.
func EncodeRecord(dst, body []byte) (int, error) {
	if err := ValidateRecordLength(len(body)); err != nil {
		return 0, err
	}
	total := LengthPrefixSize + len(body)
	if len(dst) < total {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, total, len(dst))
	}
	dst[0] = byte(len(body))
	copy(dst[LengthPrefixSize:], body)
	return total, nil
}

// ReadRecord reads one length-prefixed record from r. The returned slice is
// freshly allocated.
func ReadRecord(r io.Reader) ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}

	n := int(prefix[0])
	if err := ValidateRecordLength(n); err != nil {
		return nil, err
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return body, nil
}
