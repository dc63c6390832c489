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

import "encoding/binary"

// Decode parses a received MAC frame. The last byte of data is the quality
// (RSSI/LQI) byte appended by the receiving radio; everything between the
// MAC header and that byte is payload.
//
// The returned Frame owns copies of the address and payload bytes. On error
// no Frame is returned.
func Decode(data []byte) (*Frame, error) {
	if len(data) < FrameControlSize+QualitySize {
		return nil, newTruncatedError("frame control", 0, FrameControlSize+QualitySize, len(data))
	}

	// Reserve the trailing quality byte; header and payload reads stop before it.
	r := reader{buf: data[:len(data)-QualitySize]}
	var f Frame

	fcf, err := r.readUint16("frame control")
	if err != nil {
		return nil, err
	}
	f.Control = ParseFrameControl(fcf)
	fc := f.Control

	if !fc.SequenceNumberSuppression {
		if f.SequenceNumber, err = r.readByte("sequence number"); err != nil {
			return nil, err
		}
	}

	if fc.DestAddrMode.Present() {
		if f.DestPANID, err = r.readUint16("destination PAN ID"); err != nil {
			return nil, err
		}
	}
	if f.DestAddress, err = r.readBytes("destination address", fc.DestAddrMode.Len()); err != nil {
		return nil, err
	}

	if fc.SrcAddrMode.Present() {
		if fc.PANIDCompression {
			f.SrcPANID = f.DestPANID
		} else if f.SrcPANID, err = r.readUint16("source PAN ID"); err != nil {
			return nil, err
		}
	}
	if f.SrcAddress, err = r.readBytes("source address", fc.SrcAddrMode.Len()); err != nil {
		return nil, err
	}

	if f.Payload, err = r.readBytes("payload", r.remaining()); err != nil {
		return nil, err
	}
	f.Quality = data[len(data)-QualitySize]

	return &f, nil
}

// reader is a bounds-checked cursor over a byte slice
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) need(field string, n int) error {
	if r.off+n > len(r.buf) {
		return newTruncatedError(field, r.off, n, r.remaining())
	}
	return nil
}

func (r *reader) readByte(field string) (byte, error) {
	if err := r.need(field, 1); err != nil {
		return 0, err
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) readUint16(field string) (uint16, error) {
	if err := r.need(field, 2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// readBytes returns an owned copy of the next n bytes, or nil when n is zero.
func (r *reader) readBytes(field string, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if err := r.need(field, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}
