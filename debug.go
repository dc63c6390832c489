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

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var debugLogger atomic.Pointer[zap.SugaredLogger]

// SetDebugEnabled turns package debug output on or off. Output goes to a
// development zap logger unless SetDebugLogger supplied one.
func SetDebugEnabled(enabled bool) {
	if !enabled {
		debugLogger.Store(nil)
		return
	}
	if debugLogger.Load() != nil {
		return
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	debugLogger.Store(logger.Named("ieee802154").Sugar())
}

// SetDebugLogger routes package debug output to logger. A nil logger disables it.
func SetDebugLogger(logger *zap.Logger) {
	if logger == nil {
		debugLogger.Store(nil)
		return
	}
	debugLogger.Store(logger.Named("ieee802154").Sugar())
}

func debugf(format string, args ...any) {
	if l := debugLogger.Load(); l != nil {
		l.Debugf(format, args...)
	}
}

func debugln(args ...any) {
	if l := debugLogger.Load(); l != nil {
		l.Debugln(args...)
	}
}
