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

// Package transport provides polling helpers shared by the transports
package transport

import (
	"context"
	"time"

	ieee802154 "github.com/ZaparooProject/go-ieee802154"
)

// RetryOperation represents a function that can be retried
// Returns: data, shouldRetry, error
// - data: the result if successful
// - shouldRetry: true if the operation should be retried
// - error: any permanent error that should stop retries
type RetryOperation[T any] func() (T, bool, error)

// RetryConfig configures retry behavior
type RetryConfig struct {
	OnRetry       func() error
	OnRetryFailed func() error
	Description   string
	Port          string
	MaxRetries    int
	RetryDelay    time.Duration
}

// WithRetry executes an operation up to MaxRetries+1 times
func WithRetry[T any](config RetryConfig, operation RetryOperation[T]) (T, error) {
	var zero T

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}

		if !shouldRetry {
			return result, nil
		}

		if attempt >= config.MaxRetries {
			break
		}

		if config.OnRetry != nil {
			if err := config.OnRetry(); err != nil {
				return zero, err
			}
		}

		if config.RetryDelay > 0 {
			time.Sleep(config.RetryDelay)
		}
	}

	if config.OnRetryFailed != nil {
		if err := config.OnRetryFailed(); err != nil {
			return zero, err
		}
	}

	return zero, ieee802154.NewTransportError(opName(config.Description, "retry"), config.Port,
		ieee802154.ErrTransportRead, ieee802154.ErrorTypeTransient)
}

// TimeoutRetry polls operation until it stops asking for a retry, timeout
// elapses, or ctx is done. interval is the pause between polls.
func TimeoutRetry[T any](
	ctx context.Context, timeout, interval time.Duration, port string, operation RetryOperation[T],
) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)

	for {
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}
		if !shouldRetry {
			return result, nil
		}
		if !time.Now().Before(deadline) {
			return zero, ieee802154.NewTimeoutError("timeoutRetry", port)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func opName(desc, fallback string) string {
	if desc == "" {
		return fallback
	}
	return desc
}
