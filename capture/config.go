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

package capture

import "time"

// Config contains configuration for a capture Monitor
type Config struct {
	// NodeTimeout is how long a node may stay silent before OnNodeLost fires.
	// Zero keeps nodes forever.
	NodeTimeout time.Duration
	// MaxFrames stops the capture after this many decoded frames. Zero means unlimited.
	MaxFrames int
}

// DefaultConfig returns default capture configuration
func DefaultConfig() *Config {
	return &Config{
		NodeTimeout: 30 * time.Second,
	}
}
