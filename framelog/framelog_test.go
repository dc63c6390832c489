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

package framelog

import (
	"errors"
	"testing"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func dataFrame() *ieee802154.Frame {
	return &ieee802154.Frame{
		Control: ieee802154.FrameControl{
			FrameType:        ieee802154.FrameTypeData,
			AckRequest:       true,
			PANIDCompression: true,
			DestAddrMode:     ieee802154.AddrModeShort,
			FrameVersion:     ieee802154.FrameVersion2006,
			SrcAddrMode:      ieee802154.AddrModeExtended,
		},
		SequenceNumber: 0x02,
		DestPANID:      0x1234,
		DestAddress:    []byte{0x56, 0x78},
		SrcPANID:       0x1234,
		SrcAddress:     []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		Payload:        []byte{0x44, 0x55, 0x66},
		Quality:        0xcc,
	}
}

func TestLog(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	Log(zap.New(core), "frame", dataFrame())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "frame", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "Data", fields["frame_type"])
	assert.Equal(t, "0x02", fields["seq"])
	assert.Equal(t, "0x1234", fields["dst_pan"])
	assert.Equal(t, "0x7856", fields["dst_addr"])
	assert.Equal(t, "01:02:03:04:05:06:07:08", fields["src_addr"])
	assert.Equal(t, true, fields["src_pan_compressed"])
	assert.Equal(t, "445566", fields["payload"])
	assert.Equal(t, int64(3), fields["payload_len"])
	assert.Equal(t, "0xcc", fields["quality"])

	fcf, ok := fields["fcf"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0xd861", fcf["raw"])
	assert.Equal(t, true, fcf["ack_request"])
	assert.Equal(t, "16-bit short", fcf["dst_addr_mode"])
	assert.Equal(t, "64-bit extended", fcf["src_addr_mode"])
	assert.Equal(t, "IEEE 802.15.4-2006", fcf["version"])
}

func TestFields_AbsentElements(t *testing.T) {
	t.Parallel()

	f := &ieee802154.Frame{
		Control: ieee802154.FrameControl{
			FrameType:                 ieee802154.FrameTypeAck,
			SequenceNumberSuppression: true,
		},
	}

	core, logs := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("ack", Fields(f)...)

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "suppressed", fields["seq"])
	assert.NotContains(t, fields, "dst_pan")
	assert.NotContains(t, fields, "src_addr")
	assert.Equal(t, "", fields["payload"])
}

func TestLogError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	LogError(zap.New(core), []byte{0x41, 0x88}, errors.New("truncated"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "4188", fields["data"])
	assert.Equal(t, int64(2), fields["len"])
	assert.Equal(t, "truncated", fields["error"])
}

func TestFormatAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
		addr []byte
	}{
		{name: "none", addr: nil, want: "none"},
		{name: "short", addr: []byte{0xff, 0xff}, want: "0xffff"},
		{name: "short little-endian", addr: []byte{0x34, 0x12}, want: "0x1234"},
		{name: "extended", addr: []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03}, want: "de:ad:be:ef:00:01:02:03"},
		{name: "odd length", addr: []byte{0x01, 0x02, 0x03}, want: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatAddress(tt.addr))
		})
	}
}

func TestFormatPayload_Truncates(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i)
	}
	assert.Equal(t, "000102030405060708090a0b0c0d0e0f...", FormatPayload(payload))
	assert.Equal(t, "0001", FormatPayload(payload[:2]))
}

func TestFrame_MarshalLogObject(t *testing.T) {
	t.Parallel()

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, Frame{dataFrame()}.MarshalLogObject(enc))
	assert.Equal(t, "0x7856", enc.Fields["dst_addr"])

	empty := zapcore.NewMapObjectEncoder()
	require.NoError(t, Frame{}.MarshalLogObject(empty))
	assert.Empty(t, empty.Fields)
}
