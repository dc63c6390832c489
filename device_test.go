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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T, opts ...Option) (*Device, *MockTransport) {
	t.Helper()
	mock := NewMockTransport()
	opts = append([]Option{WithRetryConfig(fastRetryConfig(3))}, opts...)
	device, err := New(mock, opts...)
	require.NoError(t, err)
	return device, mock
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		transport Transport
		wantErr   error
		name      string
	}{
		{
			name:      "Valid_MockTransport",
			transport: NewMockTransport(),
		},
		{
			name:      "Nil_Transport",
			transport: nil,
			wantErr:   ErrNilTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			device, err := New(tt.transport)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, device)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, device)
			assert.Equal(t, tt.transport, device.Transport())
		})
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	device, mock := newTestDevice(t,
		WithTimeout(2*time.Second),
		WithMaxRetries(7),
		WithRetryBackoff(3*time.Millisecond),
	)

	assert.Equal(t, 2*time.Second, device.Config().Timeout)
	assert.Equal(t, 2*time.Second, mock.Timeout())
	assert.Equal(t, 7, device.Config().RetryConfig.MaxAttempts)
	assert.Equal(t, 3*time.Millisecond, device.Config().RetryConfig.InitialBackoff)
}

func TestNew_InvalidTimeout(t *testing.T) {
	t.Parallel()

	device, err := New(NewMockTransport(), WithTimeout(0))
	require.Error(t, err)
	assert.Nil(t, device)
}

func TestDevice_Receive(t *testing.T) {
	t.Parallel()

	device, mock := newTestDevice(t)
	mock.QueueRecord([]byte{
		0x41, 0x88, 0xdb, 0xe7, 0x00, 0xff, 0xff, 0x96, 0xf0,
		0xc9, 0x80, 0x00, 0x00, 0x00, 0xb7, 0xcc,
	})

	f, err := device.Receive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, FrameTypeData, f.Control.FrameType)
	assert.Equal(t, uint8(0xdb), f.SequenceNumber)
	assert.Equal(t, uint16(0x00e7), f.SrcPANID)
	assert.Equal(t, []byte{0xc9, 0x80, 0x00, 0x00, 0x00, 0xb7}, f.Payload)
	assert.Equal(t, uint8(0xcc), f.Quality)
}

func TestDevice_ReceiveRecord(t *testing.T) {
	t.Parallel()

	device, mock := newTestDevice(t)
	mock.QueueRecord([]byte{0x41, 0x88})

	record, err := device.ReceiveRecord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 0x88}, record)

	_, err = Decode(record)
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDevice_Receive_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setupMock func(*MockTransport)
		wantErr   error
		name      string
	}{
		{
			name: "Undecodable_Record",
			setupMock: func(m *MockTransport) {
				m.QueueRecord([]byte{0x41, 0x88})
			},
			wantErr: ErrTruncatedInput,
		},
		{
			name: "Transport_Closed",
			setupMock: func(m *MockTransport) {
				_ = m.Close()
			},
			wantErr: ErrTransportClosed,
		},
		{
			name:      "Nothing_Received",
			setupMock: func(*MockTransport) {},
			wantErr:   context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			device, mock := newTestDevice(t, WithTimeout(20*time.Millisecond))
			tt.setupMock(mock)

			f, err := device.Receive(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.Nil(t, f)
		})
	}
}

func TestDevice_Transmit(t *testing.T) {
	t.Parallel()

	device, mock := newTestDevice(t)
	require.NoError(t, device.Transmit(context.Background(), scenarioDFrame()))

	written := mock.Written()
	require.Len(t, written, 1)
	assert.Equal(t, []byte{
		0x61, 0x98, 0x02, 0x34, 0x12, 0x56, 0x78, 0x9A, 0xBC, 0x44, 0x55, 0x66,
	}, written[0])
}

func TestDevice_Transmit_Errors(t *testing.T) {
	t.Parallel()

	t.Run("Frame_Too_Large", func(t *testing.T) {
		t.Parallel()
		device, mock := newTestDevice(t)
		f := scenarioDFrame()
		f.Payload = make([]byte, 120)

		err := device.Transmit(context.Background(), f)
		require.ErrorIs(t, err, ErrFrameTooLarge)
		assert.Empty(t, mock.Written())
	})

	t.Run("Address_Mismatch", func(t *testing.T) {
		t.Parallel()
		device, _ := newTestDevice(t)
		f := scenarioDFrame()
		f.DestAddress = nil

		err := device.Transmit(context.Background(), f)
		require.ErrorIs(t, err, ErrAddressLength)
	})

	t.Run("Write_Failure", func(t *testing.T) {
		t.Parallel()
		device, mock := newTestDevice(t)
		mock.SetWriteError(ErrTransportWrite)

		err := device.Transmit(context.Background(), scenarioDFrame())
		require.ErrorIs(t, err, ErrTransportWrite)
	})
}

func TestDevice_ReceiveTransmitLoopback(t *testing.T) {
	t.Parallel()

	device, mock := newTestDevice(t)
	sent := scenarioDFrame()
	require.NoError(t, device.Transmit(context.Background(), sent))

	// Echo what was written back as a received record with a quality byte
	mock.QueueRecord(append(mock.Written()[0], 0x40))

	got, err := device.Receive(context.Background())
	require.NoError(t, err)

	sent.Quality = 0x40
	assert.Equal(t, sent, got)
}

func TestDevice_Close(t *testing.T) {
	t.Parallel()

	device, mock := newTestDevice(t)
	require.NoError(t, device.Close())
	assert.False(t, mock.IsConnected())
}
