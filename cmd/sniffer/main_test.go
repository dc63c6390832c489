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
	"bytes"
	"context"
	"errors"
	"testing"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type scriptedReceiver struct {
	results []result
}

type result struct {
	err    error
	record []byte
}

func (s *scriptedReceiver) ReceiveRecord(ctx context.Context) ([]byte, error) {
	if len(s.results) == 0 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.record, r.err
}

var ackRecord = []byte{0x02, 0x00, 0x07, 0xb4}

func TestCapture(t *testing.T) {
	t.Parallel()

	rx := &scriptedReceiver{results: []result{
		{record: ackRecord},
		{err: ieee802154.NewTimeoutError("ReadRecord", "fake")},
		{record: []byte{0x41, 0x88}},
		{err: ieee802154.NewRecordCorruptedError("ReadRecord", "fake")},
		{record: ackRecord},
	}}

	core, logs := observer.New(zapcore.InfoLevel)
	err := runCapture(context.Background(), rx, CaptureConfig{MaxFrames: 2, DumpBad: true}, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage("frame").Len())
	assert.Equal(t, 1, logs.FilterMessage("frame decode failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("receive failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("capture complete").Len())
	assert.Equal(t, 0, logs.FilterMessage("node seen").Len())
}

func TestCapture_NodeSeen(t *testing.T) {
	t.Parallel()

	rx := &scriptedReceiver{results: []result{
		{record: []byte{0x41, 0x88, 0xdb, 0xe7, 0x00, 0xff, 0xff, 0x96, 0xf0, 0xc9, 0x80, 0xcc}},
	}}

	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, runCapture(context.Background(), rx, CaptureConfig{MaxFrames: 1}, zap.New(core)))

	seen := logs.FilterMessage("node seen").All()
	require.Len(t, seen, 1)
	assert.Equal(t, "0xf096", seen[0].ContextMap()["addr"])
	assert.Equal(t, "0x00e7", seen[0].ContextMap()["pan"])
}

func TestCapture_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, runCapture(ctx, &scriptedReceiver{}, CaptureConfig{}, zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("capture stopped").Len())
}

func TestCapture_PermanentError(t *testing.T) {
	t.Parallel()

	rx := &scriptedReceiver{results: []result{{err: ieee802154.ErrTransportClosed}}}
	err := runCapture(context.Background(), rx, CaptureConfig{}, zap.NewNop())
	require.ErrorIs(t, err, ieee802154.ErrTransportClosed)
}

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, debug := newLoggers(LoggingConfig{Level: "warn", Format: "json"}, &buf)
	assert.Nil(t, debug)
	logger.Info("hidden")
	logger.Warn("shown", zap.Error(errors.New("boom")))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestNewLoggers_Debug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, debug := newLoggers(LoggingConfig{Level: "info", Format: "json", Debug: true}, &buf)
	require.NotNil(t, debug)
	logger.Debug("frame detail")
	debug.Debug("library detail")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "frame detail")
	assert.Contains(t, out, `"msg":"library detail"`)
	assert.Contains(t, out, `"level":"debug"`)
}

func TestGuessTransport(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "i2c", guessTransport("/dev/i2c-1"))
	assert.Equal(t, "uart", guessTransport("/dev/ttyACM0"))
}
