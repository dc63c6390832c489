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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFrameControl(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want FrameControl
		raw  uint16
	}{
		{
			name: "data short addresses compressed",
			raw:  0x8841,
			want: FrameControl{
				FrameType:        FrameTypeData,
				PANIDCompression: true,
				DestAddrMode:     AddrModeShort,
				SrcAddrMode:      AddrModeShort,
				FrameVersion:     FrameVersion2003,
			},
		},
		{
			name: "data ack request 2006",
			raw:  0x9861,
			want: FrameControl{
				FrameType:        FrameTypeData,
				AckRequest:       true,
				PANIDCompression: true,
				DestAddrMode:     AddrModeShort,
				SrcAddrMode:      AddrModeShort,
				FrameVersion:     FrameVersion2006,
			},
		},
		{
			name: "all single-bit flags",
			raw:  0x03F8,
			want: FrameControl{
				FrameType:                  FrameTypeBeacon,
				SecurityEnabled:            true,
				FramePending:               true,
				AckRequest:                 true,
				PANIDCompression:           true,
				Reserved:                   true,
				SequenceNumberSuppression:  true,
				InformationElementsPresent: true,
			},
		},
		{
			name: "reserved frame type and version",
			raw:  0x3007,
			want: FrameControl{
				FrameType:    FrameType(7),
				FrameVersion: FrameVersionReserved2,
			},
		},
		{
			name: "extended source only",
			raw:  0xC003,
			want: FrameControl{
				FrameType:   FrameTypeMacCommand,
				SrcAddrMode: AddrModeExtended,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseFrameControl(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.raw, got.Uint16())
		})
	}
}

// TestFrameControlBijection verifies every 16-bit value survives unpack then pack
func TestFrameControlBijection(t *testing.T) {
	t.Parallel()
	for v := 0; v <= 0xFFFF; v++ {
		if got := ParseFrameControl(uint16(v)).Uint16(); got != uint16(v) {
			t.Fatalf("ParseFrameControl(0x%04x).Uint16() = 0x%04x", v, got)
		}
	}
}

func TestFrameControl_MasksWideSubfields(t *testing.T) {
	t.Parallel()
	fc := FrameControl{
		FrameType:    FrameType(0x09),
		DestAddrMode: AddrMode(0x06),
		FrameVersion: FrameVersion(0x05),
		SrcAddrMode:  AddrMode(0x07),
	}
	assert.Equal(t, uint16(0x1|0x2<<10|0x1<<12|0x3<<14), fc.Uint16())
}

func TestAddrMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		label   string
		mode    AddrMode
		length  int
		present bool
	}{
		{mode: AddrModeNone, length: 0, present: false, label: "None"},
		{mode: AddrModeReserved, length: 0, present: true, label: "Reserved"},
		{mode: AddrModeShort, length: 2, present: true, label: "16-bit short"},
		{mode: AddrModeExtended, length: 8, present: true, label: "64-bit extended"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.length, tt.mode.Len(), "Len(%d)", tt.mode)
		assert.Equal(t, tt.present, tt.mode.Present(), "Present(%d)", tt.mode)
		assert.Equal(t, tt.label, tt.mode.String())
	}
}

func TestFrameVersion_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "IEEE 802.15.4-2003", FrameVersion2003.String())
	assert.Equal(t, "IEEE 802.15.4-2006", FrameVersion2006.String())
	assert.Equal(t, "Reserved", FrameVersionReserved1.String())
	assert.Equal(t, "Reserved", FrameVersionReserved2.String())
	assert.Equal(t, "MAC Command", FrameTypeMacCommand.String())
}

func TestFrame_HeaderLen(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fc   FrameControl
		want int
	}{
		{name: "bare", fc: FrameControl{SequenceNumberSuppression: true}, want: 2},
		{name: "sequence only", fc: FrameControl{}, want: 3},
		{
			name: "short compressed",
			fc:   FrameControl{DestAddrMode: AddrModeShort, SrcAddrMode: AddrModeShort, PANIDCompression: true},
			want: 9,
		},
		{
			name: "extended uncompressed",
			fc:   FrameControl{DestAddrMode: AddrModeExtended, SrcAddrMode: AddrModeExtended},
			want: 23,
		},
		{
			name: "source only compressed",
			fc:   FrameControl{SrcAddrMode: AddrModeShort, PANIDCompression: true},
			want: 5,
		},
	}

	for _, tt := range tests {
		f := Frame{Control: tt.fc}
		assert.Equal(t, tt.want, f.HeaderLen(), tt.name)
	}
}
