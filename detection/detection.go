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

// Package detection finds 802.15.4 radio dongles attached to the host
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Detection errors
var (
	ErrNoDevicesFound      = errors.New("no radio devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	ErrDetectionTimeout    = errors.New("detection timed out")
)

// Mode controls how intrusive detection may be
type Mode int

const (
	// Passive only inspects descriptors; nothing is opened
	Passive Mode = iota
	// Safe opens buses read-only, never writes
	Safe
)

// Confidence indicates how sure a detector is that a device is a radio
type Confidence int

const (
	Low Confidence = iota
	Medium
	High
)

func (c Confidence) String() string {
	switch c {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

// DeviceInfo describes a detected device
type DeviceInfo struct {
	Metadata   map[string]string
	Transport  string
	Path       string
	Name       string
	Confidence Confidence
}

// String returns a one-line description of the device
func (d DeviceInfo) String() string {
	if d.Name != "" {
		return fmt.Sprintf("%s:%s (%s, %s confidence)", d.Transport, d.Path, d.Name, d.Confidence)
	}
	return fmt.Sprintf("%s:%s (%s confidence)", d.Transport, d.Path, d.Confidence)
}

// Options configures detection
type Options struct {
	Blocklist   []string
	IgnorePaths []string
	Timeout     time.Duration
	Mode        Mode
}

// DefaultOptions returns default detection options
func DefaultOptions() Options {
	return Options{
		Mode:      Passive,
		Timeout:   2 * time.Second,
		Blocklist: DefaultBlocklist(),
	}
}

// Detector finds devices reachable through one transport type
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Detector{}
)

// RegisterDetector makes a detector available to DetectAll. Detector packages
// call it from init.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors ordered by transport name
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Detector, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Transport() < out[j].Transport() })
	return out
}

// DetectAll runs every registered detector and returns devices ordered by
// descending confidence. Ignored paths are filtered out.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var devices []DeviceInfo
	for _, d := range Detectors() {
		found, err := d.Detect(ctx, opts)
		if err != nil && !errors.Is(err, ErrNoDevicesFound) && !errors.Is(err, ErrUnsupportedPlatform) {
			if ctx.Err() != nil {
				return devices, ErrDetectionTimeout
			}
			continue
		}
		for _, dev := range found {
			if IsPathIgnored(dev.Path, opts.IgnorePaths) {
				continue
			}
			devices = append(devices, dev)
		}
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Confidence > devices[j].Confidence
	})
	return devices, nil
}
