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

/*
Package ieee802154 decodes and encodes IEEE 802.15.4 MAC frames and talks to
802.15.4 radio dongles.

The codec is pure: Decode turns a received buffer into a Frame, and Encode
writes a Frame into a caller-supplied buffer. A received buffer always ends in
one quality byte (combined RSSI/LQI) appended by the radio; transmitted frames
never carry it, and the FCS is handled by the radio on both paths.

Features:
  - Frame control field packing and unpacking for every subfield
  - Short, extended and absent addresses, with PAN ID compression
  - Sequence number suppression
  - UART and I2C radio transports with length-prefixed records
  - Automatic dongle detection
  - Retry logic with configurable backoff

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-ieee802154"
	    "github.com/ZaparooProject/go-ieee802154/transport/uart"
	)

	transport, err := uart.New("/dev/ttyACM0")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := ieee802154.New(transport,
	    ieee802154.WithTimeout(2*time.Second),
	    ieee802154.WithMaxRetries(5),
	)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	f, err := device.Receive(ctx)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("%s frame seq=%d from %x\n", f.Control.FrameType, f.SequenceNumber, f.SrcAddress)

Codec Only:

	f, err := ieee802154.Decode(received)
	if errors.Is(err, ieee802154.ErrTruncatedInput) {
	    // The header ran past the end of the buffer
	}

	buf := make([]byte, 127)
	n, err := ieee802154.Encode(f, buf)

Error Handling:

Codec failures are *FrameError values wrapping ErrTruncatedInput,
ErrBufferTooSmall or ErrAddressLength. Transport failures are
*TransportError values; IsRetryable reports whether repeating the
operation may help.

Thread Safety:

Decode and Encode are safe for concurrent use. Device operations are not
thread-safe. If you need concurrent access, implement appropriate
synchronization in your application.
*/
package ieee802154
