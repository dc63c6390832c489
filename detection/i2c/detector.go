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

// Package i2c detects radio bridges on I2C buses
package i2c

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-ieee802154/detection"
	bridge "github.com/ZaparooProject/go-ieee802154/transport/i2c"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultBridgeAddress is the 7-bit I2C address probed on each bus
const DefaultBridgeAddress = bridge.DefaultAddress

// detector implements the Detector interface for I2C devices
type detector struct{}

// New creates a new I2C detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "i2c"
}

// Detect probes every I2C bus for a bridge answering at DefaultBridgeAddress.
// Passive mode never touches the bus.
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if opts.Mode == detection.Passive {
		return nil, detection.ErrNoDevicesFound
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", detection.ErrUnsupportedPlatform, err)
	}

	var devices []detection.DeviceInfo
	for _, ref := range i2creg.All() {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		if detection.IsPathIgnored(ref.Name, opts.IgnorePaths) {
			continue
		}
		if dev, ok := probeBus(ref); ok {
			devices = append(devices, dev)
		}
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

// probeBus reads the bridge status byte; any ACKed read counts as present
func probeBus(ref *i2creg.Ref) (detection.DeviceInfo, bool) {
	bus, err := ref.Open()
	if err != nil {
		return detection.DeviceInfo{}, false
	}
	defer func() { _ = bus.Close() }()

	dev := &i2c.Dev{Addr: DefaultBridgeAddress, Bus: bus}
	status := make([]byte, 1)
	if err := dev.Tx(nil, status); err != nil {
		return detection.DeviceInfo{}, false
	}

	return detection.DeviceInfo{
		Transport:  "i2c",
		Path:       ref.Name,
		Name:       "802.15.4 I2C radio bridge",
		Confidence: detection.Medium,
		Metadata: map[string]string{
			"address": fmt.Sprintf("0x%02X", DefaultBridgeAddress),
			"status":  fmt.Sprintf("0x%02X", status[0]),
		},
	}, true
}
