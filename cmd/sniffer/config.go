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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SerialConfig selects the radio
type SerialConfig struct {
	Port       string        `mapstructure:"port"`
	BaudRate   int           `mapstructure:"baudRate"`
	Timeout    time.Duration `mapstructure:"timeout"`
	AutoDetect bool          `mapstructure:"autoDetect"`
}

// LumberjackConfig configures the rolling log file
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig configures the frame log
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
	Debug  bool             `mapstructure:"debug"`
}

// CaptureConfig bounds a capture session
type CaptureConfig struct {
	NodeTimeout time.Duration `mapstructure:"nodeTimeout"`
	MaxFrames   int           `mapstructure:"maxFrames"`
	DumpBad     bool          `mapstructure:"dumpBad"`
}

// Config is the sniffer configuration
type Config struct {
	Serial  SerialConfig  `mapstructure:"serial"`
	Logging LoggingConfig `mapstructure:"logging"`
	Capture CaptureConfig `mapstructure:"capture"`
}

var errNoPort = errors.New("serial.port is empty and autoDetect is disabled")

// LoadConfig reads a YAML/TOML/JSON file (optional) and SNIFFER_* env vars
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sniffer")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("SNIFFER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the sniffer cannot run with
func (c *Config) Validate() error {
	if c.Serial.Port == "" && !c.Serial.AutoDetect {
		return errNoPort
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid serial.baudRate: %d", c.Serial.BaudRate)
	}
	if c.Serial.Timeout <= 0 {
		return fmt.Errorf("invalid serial.timeout: %v", c.Serial.Timeout)
	}
	if c.Capture.NodeTimeout < 0 {
		return fmt.Errorf("invalid capture.nodeTimeout: %v", c.Capture.NodeTimeout)
	}
	if c.Capture.MaxFrames < 0 {
		return fmt.Errorf("invalid capture.maxFrames: %d", c.Capture.MaxFrames)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "")
	v.SetDefault("serial.baudRate", 115200)
	v.SetDefault("serial.timeout", "1s")
	v.SetDefault("serial.autoDetect", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.debug", false)
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("capture.nodeTimeout", "30s")
	v.SetDefault("capture.maxFrames", 0)
	v.SetDefault("capture.dumpBad", true)
}
