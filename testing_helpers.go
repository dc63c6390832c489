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
	"context"
	"sync"
	"time"
)

// MockTransport is an in-memory transport for tests. Queued records are
// returned by ReadRecord in order; when the queue is empty ReadRecord blocks
// until a record is queued, the transport is closed, or ctx is done.
type MockTransport struct {
	notify   chan struct{}
	readErrs []error
	records  [][]byte
	written  [][]byte
	writeErr error
	timeout  time.Duration
	reads    int
	mu       sync.Mutex
	closed   bool
}

// NewMockTransport creates a new mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{
		notify:  make(chan struct{}, 1),
		timeout: time.Second,
	}
}

// QueueRecord appends a record to be returned by ReadRecord
func (m *MockTransport) QueueRecord(record []byte) {
	m.mu.Lock()
	m.records = append(m.records, append([]byte(nil), record...))
	m.mu.Unlock()
	m.signal()
}

// QueueReadError makes the next ReadRecord call fail with err before any
// queued record is returned
func (m *MockTransport) QueueReadError(err error) {
	m.mu.Lock()
	m.readErrs = append(m.readErrs, err)
	m.mu.Unlock()
	m.signal()
}

// SetWriteError configures the error returned by WriteRecord
func (m *MockTransport) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Written returns copies of all records passed to WriteRecord
func (m *MockTransport) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	for i, w := range m.written {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// ReadCount returns how many times ReadRecord was called
func (m *MockTransport) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// ReadRecord returns the next queued error or record
func (m *MockTransport) ReadRecord(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	m.reads++
	m.mu.Unlock()

	for {
		m.mu.Lock()
		switch {
		case m.closed:
			m.mu.Unlock()
			return nil, ErrTransportClosed
		case len(m.readErrs) > 0:
			err := m.readErrs[0]
			m.readErrs = m.readErrs[1:]
			m.mu.Unlock()
			return nil, err
		case len(m.records) > 0:
			rec := m.records[0]
			m.records = m.records[1:]
			m.mu.Unlock()
			return rec, nil
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-m.notify:
		}
	}
}

// WriteRecord records the written bytes
func (m *MockTransport) WriteRecord(_ context.Context, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTransportClosed
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, append([]byte(nil), record...))
	return nil
}

// SetTimeout stores the timeout
func (m *MockTransport) SetTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return nil
}

// Timeout returns the last timeout set
func (m *MockTransport) Timeout() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeout
}

// Close marks the transport closed and wakes blocked readers
func (m *MockTransport) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
	return nil
}

// IsConnected returns true until Close is called
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

func (m *MockTransport) signal() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
