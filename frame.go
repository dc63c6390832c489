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

// Wire sizes of the fixed-width MAC header fields
const (
	FrameControlSize   = 2 // Frame control field
	SequenceNumberSize = 1 // Sequence number (unless suppressed)
	PANIDSize          = 2 // PAN identifier, little-endian
	ShortAddrSize      = 2 // 16-bit short address, little-endian
	ExtendedAddrSize   = 8 // 64-bit extended address, copied verbatim
	QualitySize        = 1 // Combined RSSI/LQI byte appended by the receiver
	MaxAddrSize        = ExtendedAddrSize
)

// FrameType identifies the MAC frame type (FCF bits 0-2)
type FrameType uint8

const (
	FrameTypeBeacon     FrameType = 0x0
	FrameTypeData       FrameType = 0x1
	FrameTypeAck        FrameType = 0x2
	FrameTypeMacCommand FrameType = 0x3
	// 0x4 to 0x7 are reserved
)

// String returns the frame type label
func (t FrameType) String() string {
	return FrameTypeLabel(uint8(t))
}

// AddrMode selects how an address is carried on the wire
type AddrMode uint8

const (
	AddrModeNone     AddrMode = 0x0 // No PAN identifier, no address
	AddrModeReserved AddrMode = 0x1 // PAN identifier only, zero-length address
	AddrModeShort    AddrMode = 0x2 // 16-bit short address
	AddrModeExtended AddrMode = 0x3 // 64-bit extended address
)

// Len returns the number of address bytes implied by the mode.
func (m AddrMode) Len() int {
	switch m & 0x3 {
	case AddrModeShort:
		return ShortAddrSize
	case AddrModeExtended:
		return ExtendedAddrSize
	default:
		return 0
	}
}

// Present reports whether the mode brings a PAN identifier onto the wire.
func (m AddrMode) Present() bool {
	return m&0x3 != AddrModeNone
}

// String returns a human readable label for the mode
func (m AddrMode) String() string {
	switch m & 0x3 {
	case AddrModeNone:
		return "None"
	case AddrModeShort:
		return "16-bit short"
	case AddrModeExtended:
		return "64-bit extended"
	default:
		return "Reserved"
	}
}

// FrameVersion is the frame version subfield (FCF bits 12-13)
type FrameVersion uint8

const (
	FrameVersion2003      FrameVersion = 0x0 // IEEE 802.15.4-2003
	FrameVersion2006      FrameVersion = 0x1 // IEEE 802.15.4-2006
	FrameVersionReserved1 FrameVersion = 0x2
	FrameVersionReserved2 FrameVersion = 0x3
)

// String returns a human readable label for the version
func (v FrameVersion) String() string {
	switch v & 0x3 {
	case FrameVersion2003:
		return "IEEE 802.15.4-2003"
	case FrameVersion2006:
		return "IEEE 802.15.4-2006"
	default:
		return "Reserved"
	}
}

// Frame is a decoded IEEE 802.15.4 MAC frame.
//
// Frames returned by Decode own their address and payload slices; they never
// alias the input buffer. Quality is only meaningful on received frames and
// is never written by Encode.
type Frame struct {
	DestAddress    []byte
	SrcAddress     []byte
	Payload        []byte
	Control        FrameControl
	DestPANID      uint16
	SrcPANID       uint16
	SequenceNumber uint8
	Quality        uint8
}

// HeaderLen returns the number of MAC header bytes the frame occupies on the wire.
func (f *Frame) HeaderLen() int {
	fc := f.Control
	n := FrameControlSize
	if !fc.SequenceNumberSuppression {
		n += SequenceNumberSize
	}
	if fc.DestAddrMode.Present() {
		n += PANIDSize
	}
	n += fc.DestAddrMode.Len()
	if fc.SrcAddrMode.Present() && !fc.PANIDCompression {
		n += PANIDSize
	}
	n += fc.SrcAddrMode.Len()
	return n
}

// EncodedLen returns the number of bytes Encode writes for the frame.
func (f *Frame) EncodedLen() int {
	return f.HeaderLen() + len(f.Payload)
}

// MarshalBinary implements encoding.BinaryMarshaler. The quality byte is not included.
func (f *Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, f.EncodedLen())
	n, err := Encode(f, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The last byte of data
// is taken as the quality byte. f is left untouched on error.
func (f *Frame) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}
