// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

// Timeout applies a deadline to each request. A handler that overruns it gets
// its context cancelled and the client receives 503, unless the handler
// already started writing.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			tw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if tw.started.CompareAndSwap(false, true) {
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte("Request timeout"))
				}
			}
		})
	}
}

// deadlineWriter tracks whether the wrapped handler began a response, so the
// timeout path never writes a second header.
type deadlineWriter struct {
	http.ResponseWriter
	started atomic.Bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	if dw.started.CompareAndSwap(false, true) {
		dw.ResponseWriter.WriteHeader(code)
	}
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	if dw.started.CompareAndSwap(false, true) {
		dw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return dw.ResponseWriter.Write(b)
}
