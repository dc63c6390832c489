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

// Package framelog renders decoded MAC frames as structured zap fields.
package framelog

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxPayloadDump is the number of payload bytes included in a rendering
const MaxPayloadDump = 16

// Fields returns one zap field per header element of f
func Fields(f *ieee802154.Frame) []zap.Field {
	if f == nil {
		return []zap.Field{zap.Skip()}
	}

	fc := f.Control
	fields := []zap.Field{
		zap.Object("fcf", Control(fc)),
		zap.String("frame_type", fc.FrameType.String()),
	}

	if fc.SequenceNumberSuppression {
		fields = append(fields, zap.String("seq", "suppressed"))
	} else {
		fields = append(fields, zap.String("seq", fmt.Sprintf("0x%02x", f.SequenceNumber)))
	}

	if fc.DestAddrMode.Present() {
		fields = append(fields,
			zap.String("dst_pan", FormatPANID(f.DestPANID)),
			zap.String("dst_addr", FormatAddress(f.DestAddress)))
	}
	if fc.SrcAddrMode.Present() {
		fields = append(fields,
			zap.String("src_pan", FormatPANID(f.SrcPANID)),
			zap.Bool("src_pan_compressed", fc.PANIDCompression),
			zap.String("src_addr", FormatAddress(f.SrcAddress)))
	}

	return append(fields,
		zap.Int("payload_len", len(f.Payload)),
		zap.String("payload", FormatPayload(f.Payload)),
		zap.String("quality", fmt.Sprintf("0x%02x", f.Quality)))
}

// Log writes f at info level
func Log(logger *zap.Logger, msg string, f *ieee802154.Frame) {
	logger.Info(msg, Fields(f)...)
}

// LogError writes a failed decode at warn level with a dump of the input
func LogError(logger *zap.Logger, data []byte, err error) {
	logger.Warn("frame decode failed",
		zap.Error(err),
		zap.Int("len", len(data)),
		zap.String("data", hex.EncodeToString(data)))
}

// FormatPANID renders a PAN identifier as 0xNNNN
func FormatPANID(id uint16) string {
	return fmt.Sprintf("0x%04x", id)
}

// FormatAddress renders a short address as 0xNNNN and an extended address
// as colon-separated bytes in wire order. Other lengths render as "none".
func FormatAddress(addr []byte) string {
	switch len(addr) {
	case ieee802154.ShortAddrSize:
		return fmt.Sprintf("0x%04x", binary.LittleEndian.Uint16(addr))
	case ieee802154.ExtendedAddrSize:
		parts := make([]string, len(addr))
		for i, b := range addr {
			parts[i] = fmt.Sprintf("%02x", b)
		}
		return strings.Join(parts, ":")
	default:
		return "none"
	}
}

// FormatPayload hex-encodes up to MaxPayloadDump bytes of payload
func FormatPayload(payload []byte) string {
	if len(payload) <= MaxPayloadDump {
		return hex.EncodeToString(payload)
	}
	return hex.EncodeToString(payload[:MaxPayloadDump]) + "..."
}

// Frame wraps a frame for use with zap.Object
type Frame struct {
	*ieee802154.Frame
}

// MarshalLogObject implements zapcore.ObjectMarshaler
func (f Frame) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if f.Frame == nil {
		return nil
	}
	for _, field := range Fields(f.Frame) {
		field.AddTo(enc)
	}
	return nil
}

// Control wraps a frame control field for use with zap.Object
type Control ieee802154.FrameControl

// MarshalLogObject implements zapcore.ObjectMarshaler
func (c Control) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("raw", fmt.Sprintf("0x%04x", ieee802154.FrameControl(c).Uint16()))
	enc.AddUint8("frame_type", uint8(c.FrameType))
	enc.AddBool("security", c.SecurityEnabled)
	enc.AddBool("pending", c.FramePending)
	enc.AddBool("ack_request", c.AckRequest)
	enc.AddBool("pan_id_compression", c.PANIDCompression)
	enc.AddBool("reserved", c.Reserved)
	enc.AddBool("seq_suppressed", c.SequenceNumberSuppression)
	enc.AddBool("ie_present", c.InformationElementsPresent)
	enc.AddString("dst_addr_mode", c.DestAddrMode.String())
	enc.AddString("version", c.FrameVersion.String())
	enc.AddString("src_addr_mode", c.SrcAddrMode.String())
	return nil
}

var (
	_ zapcore.ObjectMarshaler = Frame{}
	_ zapcore.ObjectMarshaler = Control{}
)
