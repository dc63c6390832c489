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

// Package frame provides record framing and size constants for radio links
package frame

// PHY limits
const (
	MaxPHYPacketSize = 127 // aMaxPHYPacketSize, the largest MAC frame a radio carries
	QualitySize      = 1   // Trailing RSSI/LQI byte on received records
)

// Record layout: [length][length bytes]
const (
	LengthPrefixSize = 1
	MinRecordLength  = 1
	MaxRecordLength  = MaxPHYPacketSize + QualitySize
	MaxRecordSize    = LengthPrefixSize + MaxRecordLength
)
