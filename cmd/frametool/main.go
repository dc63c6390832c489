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

// Command frametool decodes and builds 802.15.4 MAC frames from the command line.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
	"github.com/ZaparooProject/go-ieee802154/framelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `usage:
  frametool decode [-json] [-no-quality] <hex>
  frametool encode [flags]

Run "frametool encode -h" for the encode flags.
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprint(os.Stderr, usage)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "frametool: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "decode":
		return runDecode(args[1:], out)
	case "encode":
		return runEncode(args[1:], out)
	default:
		return errUsage
	}
}

func runDecode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print the frame as a JSON log line")
	noQuality := fs.Bool("no-quality", false,
		"Input is a transmitted frame without the trailing quality byte")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	data, err := parseHex(fs.Arg(0))
	if err != nil {
		return err
	}
	if *noQuality {
		data = append(data, 0x00)
	}

	f, err := ieee802154.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if *asJSON {
		logger := zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "msg"}),
			zapcore.AddSync(out), zapcore.DebugLevel))
		framelog.Log(logger, "frame", f)
		return logger.Sync()
	}

	return printFrame(out, f)
}

// printFrame writes one line per header element
func printFrame(out io.Writer, f *ieee802154.Frame) error {
	fc := f.Control
	var b strings.Builder
	fmt.Fprintf(&b, "FCF:              0x%04x\n", fc.Uint16())
	fmt.Fprintf(&b, "  Frame type:     %s (%d)\n", fc.FrameType, fc.FrameType)
	fmt.Fprintf(&b, "  Security:       %t\n", fc.SecurityEnabled)
	fmt.Fprintf(&b, "  Frame pending:  %t\n", fc.FramePending)
	fmt.Fprintf(&b, "  Ack request:    %t\n", fc.AckRequest)
	fmt.Fprintf(&b, "  PAN ID compr.:  %t\n", fc.PANIDCompression)
	fmt.Fprintf(&b, "  Reserved:       %t\n", fc.Reserved)
	fmt.Fprintf(&b, "  Seq suppressed: %t\n", fc.SequenceNumberSuppression)
	fmt.Fprintf(&b, "  IE present:     %t\n", fc.InformationElementsPresent)
	fmt.Fprintf(&b, "  Dst addr mode:  %s\n", fc.DestAddrMode)
	fmt.Fprintf(&b, "  Version:        %s\n", fc.FrameVersion)
	fmt.Fprintf(&b, "  Src addr mode:  %s\n", fc.SrcAddrMode)

	if fc.SequenceNumberSuppression {
		b.WriteString("Sequence number:  suppressed\n")
	} else {
		fmt.Fprintf(&b, "Sequence number:  0x%02x\n", f.SequenceNumber)
	}

	if fc.DestAddrMode.Present() {
		fmt.Fprintf(&b, "Dst PAN ID:       %s\n", framelog.FormatPANID(f.DestPANID))
		fmt.Fprintf(&b, "Dst address:      %s\n", framelog.FormatAddress(f.DestAddress))
	}
	if fc.SrcAddrMode.Present() {
		suffix := ""
		if fc.PANIDCompression {
			suffix = " (compressed)"
		}
		fmt.Fprintf(&b, "Src PAN ID:       %s%s\n", framelog.FormatPANID(f.SrcPANID), suffix)
		fmt.Fprintf(&b, "Src address:      %s\n", framelog.FormatAddress(f.SrcAddress))
	}

	fmt.Fprintf(&b, "Payload:          %d bytes %s\n", len(f.Payload), framelog.FormatPayload(f.Payload))
	fmt.Fprintf(&b, "Quality:          0x%02x\n", f.Quality)

	_, err := io.WriteString(out, b.String())
	return err
}

func runEncode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	frameType := fs.Uint("type", uint(ieee802154.FrameTypeData), "Frame type (0-7)")
	version := fs.Uint("version", uint(ieee802154.FrameVersion2006), "Frame version (0-3)")
	seq := fs.Uint("seq", 0, "Sequence number")
	seqSuppress := fs.Bool("seq-suppress", false, "Suppress the sequence number")
	ackReq := fs.Bool("ack", false, "Set the ack request flag")
	pending := fs.Bool("pending", false, "Set the frame pending flag")
	security := fs.Bool("security", false, "Set the security enabled flag")
	panCompress := fs.Bool("pan-compress", false, "Omit the source PAN ID")
	dstPAN := fs.String("dst-pan", "", "Destination PAN ID (e.g. 0x1234)")
	dst := fs.String("dst", "", "Destination address: 0xNNNN (short) or 8 colon-separated bytes (extended)")
	srcPAN := fs.String("src-pan", "", "Source PAN ID (e.g. 0x1234)")
	src := fs.String("src", "", "Source address: 0xNNNN (short) or 8 colon-separated bytes (extended)")
	payload := fs.String("payload", "", "Payload as hex")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}

	f := &ieee802154.Frame{
		Control: ieee802154.FrameControl{
			FrameType:                 ieee802154.FrameType(*frameType),
			FrameVersion:              ieee802154.FrameVersion(*version),
			SequenceNumberSuppression: *seqSuppress,
			AckRequest:                *ackReq,
			FramePending:              *pending,
			SecurityEnabled:           *security,
			PANIDCompression:          *panCompress,
		},
		SequenceNumber: uint8(*seq), //nolint:gosec // range checked below
	}
	if *frameType > 7 || *version > 3 || *seq > 0xff {
		return errors.New("type, version or seq out of range")
	}

	var err error
	if f.Control.DestAddrMode, f.DestAddress, err = parseAddress(*dst); err != nil {
		return fmt.Errorf("-dst: %w", err)
	}
	if f.Control.SrcAddrMode, f.SrcAddress, err = parseAddress(*src); err != nil {
		return fmt.Errorf("-src: %w", err)
	}
	if f.DestPANID, err = parsePANID(*dstPAN); err != nil {
		return fmt.Errorf("-dst-pan: %w", err)
	}
	if f.SrcPANID, err = parsePANID(*srcPAN); err != nil {
		return fmt.Errorf("-src-pan: %w", err)
	}
	if f.Payload, err = parseHex(*payload); err != nil {
		return fmt.Errorf("-payload: %w", err)
	}

	encoded, err := ieee802154.AppendFrame(nil, f)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	_, err = fmt.Fprintln(out, hex.EncodeToString(encoded))
	return err
}

// parseAddress maps "" to no address, 0xNNNN to a short address and
// aa:bb:..:hh to an extended address in wire order
func parseAddress(s string) (ieee802154.AddrMode, []byte, error) {
	switch {
	case s == "":
		return ieee802154.AddrModeNone, nil, nil
	case strings.Contains(s, ":"):
		addr, err := hex.DecodeString(strings.ReplaceAll(s, ":", ""))
		if err != nil {
			return 0, nil, fmt.Errorf("invalid extended address %q: %w", s, err)
		}
		if len(addr) != ieee802154.ExtendedAddrSize {
			return 0, nil, fmt.Errorf("extended address %q must be %d bytes", s, ieee802154.ExtendedAddrSize)
		}
		return ieee802154.AddrModeExtended, addr, nil
	default:
		v, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid short address %q: %w", s, err)
		}
		return ieee802154.AddrModeShort, binary.LittleEndian.AppendUint16(nil, uint16(v)), nil
	}
}

func parsePANID(s string) (uint16, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid PAN ID %q: %w", s, err)
	}
	return uint16(v), nil
}

// parseHex accepts plain, space-separated or colon-separated hex
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "0x", "", "0X", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}
