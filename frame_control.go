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

// Frame control field bit positions (bit 0 is the LSB of the first byte)
const (
	fcfFrameTypeShift    = 0
	fcfSecurityBit       = 3
	fcfFramePendingBit   = 4
	fcfAckRequestBit     = 5
	fcfPANIDCompressBit  = 6
	fcfReservedBit       = 7
	fcfSeqSuppressBit    = 8
	fcfIEPresentBit      = 9
	fcfDestAddrModeShift = 10
	fcfVersionShift      = 12
	fcfSrcAddrModeShift  = 14

	fcfFrameTypeMask = 0x7
	fcfTwoBitMask    = 0x3
)

// FrameControl is the unpacked 2-byte frame control field
type FrameControl struct {
	FrameType                  FrameType
	DestAddrMode               AddrMode
	SrcAddrMode                AddrMode
	FrameVersion               FrameVersion
	SecurityEnabled            bool
	FramePending               bool
	AckRequest                 bool
	PANIDCompression           bool
	Reserved                   bool
	SequenceNumberSuppression  bool
	InformationElementsPresent bool
}

// ParseFrameControl unpacks a frame control value read little-endian off the wire.
func ParseFrameControl(v uint16) FrameControl {
	return FrameControl{
		FrameType:                  FrameType((v >> fcfFrameTypeShift) & fcfFrameTypeMask),
		SecurityEnabled:            bit(v, fcfSecurityBit),
		FramePending:               bit(v, fcfFramePendingBit),
		AckRequest:                 bit(v, fcfAckRequestBit),
		PANIDCompression:           bit(v, fcfPANIDCompressBit),
		Reserved:                   bit(v, fcfReservedBit),
		SequenceNumberSuppression:  bit(v, fcfSeqSuppressBit),
		InformationElementsPresent: bit(v, fcfIEPresentBit),
		DestAddrMode:               AddrMode((v >> fcfDestAddrModeShift) & fcfTwoBitMask),
		FrameVersion:               FrameVersion((v >> fcfVersionShift) & fcfTwoBitMask),
		SrcAddrMode:                AddrMode((v >> fcfSrcAddrModeShift) & fcfTwoBitMask),
	}
}

// Uint16 packs the field. Subfields wider than their slot are masked.
func (fc FrameControl) Uint16() uint16 {
	v := uint16(fc.FrameType&fcfFrameTypeMask) << fcfFrameTypeShift
	v |= flag(fc.SecurityEnabled, fcfSecurityBit)
	v |= flag(fc.FramePending, fcfFramePendingBit)
	v |= flag(fc.AckRequest, fcfAckRequestBit)
	v |= flag(fc.PANIDCompression, fcfPANIDCompressBit)
	v |= flag(fc.Reserved, fcfReservedBit)
	v |= flag(fc.SequenceNumberSuppression, fcfSeqSuppressBit)
	v |= flag(fc.InformationElementsPresent, fcfIEPresentBit)
	v |= uint16(fc.DestAddrMode&fcfTwoBitMask) << fcfDestAddrModeShift
	v |= uint16(fc.FrameVersion&fcfTwoBitMask) << fcfVersionShift
	v |= uint16(fc.SrcAddrMode&fcfTwoBitMask) << fcfSrcAddrModeShift
	return v
}

func bit(v uint16, pos uint) bool {
	return v&(1<<pos) != 0
}

func flag(set bool, pos uint) uint16 {
	if set {
		return 1 << pos
	}
	return 0
}
