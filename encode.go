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

// Encode writes the MAC header and payload of f into buf and returns the
// number of bytes written. The quality byte is never written.
//
// If buf is too small the error wraps ErrBufferTooSmall and the contents of
// buf are unspecified. Encode does not allocate.
func Encode(f *Frame, buf []byte) (int, error) {
	fc := f.Control
	if err := checkAddress("destination address", f.DestAddress, fc.DestAddrMode); err != nil {
		return 0, err
	}
	if err := checkAddress("source address", f.SrcAddress, fc.SrcAddrMode); err != nil {
		return 0, err
	}

	w := writer{buf: buf}

	if err := w.putUint16("frame control", fc.Uint16()); err != nil {
		return 0, err
	}

	if !fc.SequenceNumberSuppression {
		if err := w.putByte("sequence number", f.SequenceNumber); err != nil {
			return 0, err
		}
	}

	if fc.DestAddrMode.Present() {
		if err := w.putUint16("destination PAN ID", f.DestPANID); err != nil {
			return 0, err
		}
	}
	if err := w.putBytes("destination address", f.DestAddress); err != nil {
		return 0, err
	}

	// A compressed source PAN ID is implied by the destination PAN ID.
	if fc.SrcAddrMode.Present() && !fc.PANIDCompression {
		if err := w.putUint16("source PAN ID", f.SrcPANID); err != nil {
			return 0, err
		}
	}
	if err := w.putBytes("source address", f.SrcAddress); err != nil {
		return 0, err
	}

	if err := w.putBytes("payload", f.Payload); err != nil {
		return 0, err
	}

	return w.off, nil
}

// AppendFrame appends the encoded form of f to dst.
func AppendFrame(dst []byte, f *Frame) ([]byte, error) {
	start := len(dst)
	need := f.EncodedLen()
	if cap(dst)-start < need {
		grown := make([]byte, start, start+need)
		copy(grown, dst)
		dst = grown
	}
	n, err := Encode(f, dst[start:start+need])
	if err != nil {
		return dst[:start], err
	}
	return dst[:start+n], nil
}

func checkAddress(field string, addr []byte, mode AddrMode) error {
	if len(addr) != mode.Len() {
		return &FrameError{
			Op: "encode", Field: field,
			Need: mode.Len(), Have: len(addr),
			Err: ErrAddressLength,
		}
	}
	return nil
}

// writer is a bounds-checked cursor over a destination buffer
type writer struct {
	buf []byte
	off int
}

func (w *writer) need(field string, n int) error {
	if w.off+n > len(w.buf) {
		return newBufferTooSmallError(field, w.off, n, len(w.buf)-w.off)
	}
	return nil
}

func (w *writer) putByte(field string, b byte) error {
	if err := w.need(field, 1); err != nil {
		return err
	}
	w.buf[w.off] = b
	w.off++
	return nil
}

func (w *writer) putUint16(field string, v uint16) error {
	if err := w.need(field, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
	return nil
}

func (w *writer) putBytes(field string, b []byte) error {
	if err := w.need(field, len(b)); err != nil {
		return err
	}
	w.off += copy(w.buf[w.off:], b)
	return nil
}
