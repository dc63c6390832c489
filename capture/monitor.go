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

// Package capture runs a continuous receive loop over a radio and tracks
// which nodes are transmitting.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
)

// Receiver delivers raw records; *ieee802154.Device implements it
type Receiver interface {
	ReceiveRecord(ctx context.Context) ([]byte, error)
}

// Metrics tracks operational counters for a Monitor
type Metrics struct {
	LastFrame     time.Time // Time of the last decoded frame
	Records       int64     // Records received from the transport
	Frames        int64     // Records that decoded
	DecodeErrors  int64     // Records that did not decode
	ReceiveErrors int64     // Retryable transport failures
}

// Monitor receives frames continuously and maintains a node table.
//
// Callbacks run on the receive goroutine, except OnNodeLost which runs on a
// timer goroutine.
type Monitor struct {
	receiver      Receiver
	config        *Config
	OnFrame       func(f *ieee802154.Frame)
	OnUndecodable func(record []byte, err error)
	OnReceiveErr  func(err error)
	OnNodeSeen    func(n Node)
	OnNodeLost    func(n Node)
	nodes         map[string]*nodeState
	records       atomic.Int64
	frames        atomic.Int64
	decodeErrors  atomic.Int64
	receiveErrors atomic.Int64
	lastFrame     atomic.Int64 // unix nanoseconds
	mu            sync.Mutex
}

// NewMonitor creates a new capture monitor
func NewMonitor(receiver Receiver, config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{
		receiver: receiver,
		config:   config,
		nodes:    make(map[string]*nodeState),
	}
}

// Start receives until ctx is done, MaxFrames frames have decoded, or the
// transport fails permanently. Reaching MaxFrames returns nil.
func (m *Monitor) Start(ctx context.Context) error {
	for m.config.MaxFrames == 0 || m.frames.Load() < int64(m.config.MaxFrames) {
		record, err := m.receiver.ReceiveRecord(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ieee802154.ErrTransportTimeout):
			// Quiet channel
			continue
		case ieee802154.IsRetryable(err):
			m.receiveErrors.Add(1)
			if m.OnReceiveErr != nil {
				m.OnReceiveErr(err)
			}
			continue
		default:
			return fmt.Errorf("capture stopped: %w", err)
		}

		m.handleRecord(record)
	}
	return nil
}

func (m *Monitor) handleRecord(record []byte) {
	m.records.Add(1)

	f, err := ieee802154.Decode(record)
	if err != nil {
		m.decodeErrors.Add(1)
		if m.OnUndecodable != nil {
			m.OnUndecodable(record, err)
		}
		return
	}

	now := time.Now()
	m.frames.Add(1)
	m.lastFrame.Store(now.UnixNano())

	if f.Control.SrcAddrMode.Present() {
		m.updateNode(f, now)
	}
	if m.OnFrame != nil {
		m.OnFrame(f)
	}
}

// updateNode adds or refreshes the node that sent f
func (m *Monitor) updateNode(f *ieee802154.Frame, now time.Time) {
	key := nodeKey(f.SrcPANID, f.SrcAddress)

	m.mu.Lock()
	ns, ok := m.nodes[key]
	if !ok {
		ns = &nodeState{node: Node{
			PANID:     f.SrcPANID,
			Address:   append([]byte(nil), f.SrcAddress...),
			FirstSeen: now,
		}}
		m.nodes[key] = ns
	}
	ns.touch(now, m.config.NodeTimeout, func() { m.handleNodeLost(key) })
	seen := ns.node.clone()
	m.mu.Unlock()

	if !ok && m.OnNodeSeen != nil {
		m.OnNodeSeen(seen)
	}
}

// handleNodeLost removes a node whose lost timer fired
func (m *Monitor) handleNodeLost(key string) {
	m.mu.Lock()
	ns, ok := m.nodes[key]
	if !ok || time.Since(ns.node.LastSeen) < m.config.NodeTimeout {
		// Removed by Close, or refreshed after the timer fired
		m.mu.Unlock()
		return
	}
	delete(m.nodes, key)
	lost := ns.node
	m.mu.Unlock()

	if m.OnNodeLost != nil {
		m.OnNodeLost(lost)
	}
}

// Nodes returns a snapshot of the node table ordered by key
func (m *Monitor) Nodes() []Node {
	m.mu.Lock()
	defer m.mu.Unlock()

	nodes := make([]Node, 0, len(m.nodes))
	for _, ns := range m.nodes {
		nodes = append(nodes, ns.node.clone())
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Key() < nodes[j].Key() })
	return nodes
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() Metrics {
	metrics := Metrics{
		Records:       m.records.Load(),
		Frames:        m.frames.Load(),
		DecodeErrors:  m.decodeErrors.Load(),
		ReceiveErrors: m.receiveErrors.Load(),
	}
	if ts := m.lastFrame.Load(); ts != 0 {
		metrics.LastFrame = time.Unix(0, ts)
	}
	return metrics
}

// Close stops all node timers and clears the node table
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, ns := range m.nodes {
		ns.stop()
		delete(m.nodes, key)
	}
}
