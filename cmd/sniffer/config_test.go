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

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.Serial.AutoDetect)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, time.Second, cfg.Serial.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Logging.File.Filename)
	assert.True(t, cfg.Capture.DumpBad)
	assert.Equal(t, 30*time.Second, cfg.Capture.NodeTimeout)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sniffer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
serial:
  port: /dev/ttyACM0
  baudRate: 460800
  timeout: 250ms
logging:
  level: debug
  format: json
  file:
    filename: capture.log
capture:
  maxFrames: 10
`), 0o600))

	t.Setenv("SNIFFER_SERIAL_PORT", "/dev/ttyUSB1")
	t.Setenv("SNIFFER_CAPTURE_DUMPBAD", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 460800, cfg.Serial.BaudRate)
	assert.Equal(t, 250*time.Millisecond, cfg.Serial.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "capture.log", cfg.Logging.File.Filename)
	assert.Equal(t, 10, cfg.Capture.MaxFrames)
	assert.False(t, cfg.Capture.DumpBad)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{Serial: SerialConfig{Port: "/dev/ttyACM0", BaudRate: 115200, Timeout: time.Second}}
	}

	tests := []struct {
		mutate  func(*Config)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "auto-detect without port", mutate: func(c *Config) {
			c.Serial.Port = ""
			c.Serial.AutoDetect = true
		}},
		{name: "no port", mutate: func(c *Config) { c.Serial.Port = "" }, wantErr: true},
		{name: "zero baud", mutate: func(c *Config) { c.Serial.BaudRate = 0 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Serial.Timeout = 0 }, wantErr: true},
		{name: "negative max frames", mutate: func(c *Config) { c.Capture.MaxFrames = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
