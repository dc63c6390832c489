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

// Command sniffer receives 802.15.4 frames from a radio dongle and logs them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
	"github.com/ZaparooProject/go-ieee802154/capture"
	"github.com/ZaparooProject/go-ieee802154/detection"
	// Import all detectors to register them
	_ "github.com/ZaparooProject/go-ieee802154/detection/i2c"
	_ "github.com/ZaparooProject/go-ieee802154/detection/uart"
	"github.com/ZaparooProject/go-ieee802154/framelog"
	"github.com/ZaparooProject/go-ieee802154/transport/i2c"
	"github.com/ZaparooProject/go-ieee802154/transport/uart"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML/TOML/JSON config file (default: ./sniffer.yaml if present)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "sniffer: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, debug := newLoggers(cfg.Logging, os.Stdout)
	defer func() { _ = logger.Sync() }()

	if debug != nil {
		ieee802154.SetDebugLogger(debug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport, err := openTransport(ctx, cfg, logger)
	if err != nil {
		return err
	}

	device, err := ieee802154.New(transport, ieee802154.WithTimeout(cfg.Serial.Timeout))
	if err != nil {
		_ = transport.Close()
		return fmt.Errorf("failed to create device: %w", err)
	}
	defer func() { _ = device.Close() }()

	return runCapture(ctx, device, cfg.Capture, logger)
}

// openTransport uses the configured port, or the best detected device
func openTransport(ctx context.Context, cfg *Config, logger *zap.Logger) (ieee802154.Transport, error) {
	if cfg.Serial.Port != "" {
		logger.Info("opening radio", zap.String("port", cfg.Serial.Port))
		return newTransport(detection.DeviceInfo{Transport: guessTransport(cfg.Serial.Port), Path: cfg.Serial.Port},
			cfg.Serial.BaudRate)
	}

	opts := detection.DefaultOptions()
	opts.Mode = detection.Safe
	devices, err := detection.DetectAll(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("%w: auto-detection failed: %w", ieee802154.ErrDeviceNotFound, err)
	}
	if len(devices) == 0 {
		return nil, ieee802154.ErrDeviceNotFound
	}

	logger.Info("detected radio", zap.Stringer("device", devices[0]), zap.Int("candidates", len(devices)))
	return newTransport(devices[0], cfg.Serial.BaudRate)
}

func guessTransport(path string) string {
	if strings.Contains(strings.ToLower(path), "i2c") {
		return "i2c"
	}
	return "uart"
}

// newTransport creates a new transport from a detected device.
func newTransport(device detection.DeviceInfo, baud int) (ieee802154.Transport, error) {
	switch strings.ToLower(device.Transport) {
	case "uart":
		transport, err := uart.New(device.Path, uart.WithBaudRate(baud))
		if err != nil {
			return nil, fmt.Errorf("failed to create UART transport: %w", err)
		}
		return transport, nil
	case "i2c":
		transport, err := i2c.New(device.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport: %w", err)
		}
		return transport, nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", device.Transport)
	}
}

// runCapture logs frames and node activity until ctx is done, the transport
// closes, or cfg.MaxFrames frames (if non-zero) have been logged
func runCapture(ctx context.Context, rx capture.Receiver, cfg CaptureConfig, logger *zap.Logger) error {
	monitor := capture.NewMonitor(rx, &capture.Config{
		NodeTimeout: cfg.NodeTimeout,
		MaxFrames:   cfg.MaxFrames,
	})
	defer monitor.Close()

	monitor.OnFrame = func(f *ieee802154.Frame) {
		framelog.Log(logger, "frame", f)
	}
	monitor.OnUndecodable = func(record []byte, err error) {
		if cfg.DumpBad {
			framelog.LogError(logger, record, err)
		}
	}
	monitor.OnReceiveErr = func(err error) {
		logger.Warn("receive failed", zap.Error(err))
	}
	monitor.OnNodeSeen = func(n capture.Node) {
		logger.Info("node seen", nodeFields(n)...)
	}
	monitor.OnNodeLost = func(n capture.Node) {
		logger.Info("node lost", nodeFields(n)...)
	}

	err := monitor.Start(ctx)
	metrics := monitor.GetMetrics()
	summary := []zap.Field{
		zap.Int64("frames", metrics.Frames),
		zap.Int64("decode_errors", metrics.DecodeErrors),
		zap.Int64("receive_errors", metrics.ReceiveErrors),
		zap.Int("nodes", len(monitor.Nodes())),
	}

	switch {
	case err == nil:
		logger.Info("capture complete", summary...)
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		logger.Info("capture stopped", summary...)
		return nil
	default:
		return err
	}
}

func nodeFields(n capture.Node) []zap.Field {
	return []zap.Field{
		zap.String("pan", framelog.FormatPANID(n.PANID)),
		zap.String("addr", framelog.FormatAddress(n.Address)),
		zap.Int("frames", n.Frames),
		zap.Time("first_seen", n.FirstSeen),
	}
}
