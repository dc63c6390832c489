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

import (
	"encoding/hex"
	"fmt"
	"time"
)

// Node is a transmitter identified by its source PAN ID and address
type Node struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Address   []byte
	Frames    int
	PANID     uint16
}

// Key returns the node table key
func (n Node) Key() string {
	return nodeKey(n.PANID, n.Address)
}

// clone returns n with its own copy of Address
func (n Node) clone() Node {
	n.Address = append([]byte(nil), n.Address...)
	return n
}

func nodeKey(pan uint16, addr []byte) string {
	return fmt.Sprintf("%04x/%s", pan, hex.EncodeToString(addr))
}

// nodeState tracks a node and the timer that declares it lost
type nodeState struct {
	lostTimer *time.Timer
	node      Node
}

// safeTimerStop safely stops a timer and drains its channel to prevent resource leaks
func safeTimerStop(timer *time.Timer) {
	if timer != nil {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

// touch records a frame from the node and re-arms its lost timer
func (ns *nodeState) touch(now time.Time, timeout time.Duration, onLost func()) {
	ns.node.LastSeen = now
	ns.node.Frames++
	safeTimerStop(ns.lostTimer)
	ns.lostTimer = nil
	if timeout > 0 {
		ns.lostTimer = time.AfterFunc(timeout, onLost)
	}
}

// stop cancels the lost timer
func (ns *nodeState) stop() {
	safeTimerStop(ns.lostTimer)
	ns.lostTimer = nil
}
