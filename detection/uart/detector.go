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

// Package uart detects USB serial 802.15.4 sniffer dongles
package uart

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-ieee802154/detection"
	"go.bug.st/serial/enumerator"
)

// knownDongle is a USB serial device known to carry 802.15.4 sniffer firmware
type knownDongle struct {
	name       string
	confidence detection.Confidence
}

// knownDongles maps VID:PID to dongle descriptions
var knownDongles = map[string]knownDongle{
	"0451:16A8": {name: "TI CC2531 USB dongle", confidence: detection.High},
	"0451:BEF3": {name: "TI CC26x2/CC13x2 LaunchPad (XDS110)", confidence: detection.Medium},
	"1915:520F": {name: "Nordic nRF52840 dongle", confidence: detection.High},
	"1915:522A": {name: "Nordic nRF 802.15.4 sniffer", confidence: detection.High},
	"1CF1:0030": {name: "dresden elektronik ConBee II", confidence: detection.High},
	"10C4:EA60": {name: "Silicon Labs CP210x bridge", confidence: detection.Low},
}

// listPorts is replaced in tests
var listPorts = enumerator.GetDetailedPortsList

type detector struct{}

// New creates a new UART detector
func New() detection.Detector {
	return &detector{}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "uart"
}

// Detect lists USB serial ports and keeps those matching known dongles
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	select {
	case <-ctx.Done():
		return nil, detection.ErrDetectionTimeout
	default:
	}

	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := matchPorts(ports, opts)
	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func matchPorts(ports []*enumerator.PortDetails, opts *detection.Options) []detection.DeviceInfo {
	var devices []detection.DeviceInfo
	for _, port := range ports {
		if port == nil || !port.IsUSB {
			continue
		}

		vidpid := detection.NormalizeVIDPID(port.VID + ":" + port.PID)
		if vidpid == "" || detection.IsBlocked(vidpid, opts.Blocklist) {
			continue
		}

		dongle, ok := knownDongles[vidpid]
		if !ok {
			continue
		}

		name := dongle.name
		if port.Product != "" && !strings.EqualFold(port.Product, name) {
			name = fmt.Sprintf("%s (%s)", dongle.name, port.Product)
		}

		devices = append(devices, detection.DeviceInfo{
			Transport:  "uart",
			Path:       port.Name,
			Name:       name,
			Confidence: dongle.confidence,
			Metadata: map[string]string{
				"vid_pid":       vidpid,
				"serial_number": port.SerialNumber,
			},
		})
	}
	return devices
}
