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

// FrameTypeLabel returns a diagnostic label for a 3-bit frame type code.
// Codes 4-7 and anything wider than three bits are "Reserved".
func FrameTypeLabel(code uint8) string {
	switch FrameType(code) {
	case FrameTypeBeacon:
		return "Beacon"
	case FrameTypeData:
		return "Data"
	case FrameTypeAck:
		return "ACK"
	case FrameTypeMacCommand:
		return "MAC Command"
	default:
		return "Reserved"
	}
}
