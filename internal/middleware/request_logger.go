package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	maxRequestIDLen = 128
)

// LogRequest writes one record per request once the response is done.
// Callers may supply an X-Request-ID; otherwise one is generated. Either way
// it is echoed on the response and logged as request_id.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		writer := recorderFor(w)
		next.ServeHTTP(writer, r)

		status := writer.Status()
		slog.LogAttrs(r.Context(), levelFor(status), "request handled",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
			slog.Int("status_code", status),
			slog.Int("bytes", writer.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", clientIP(r)),
			slog.String("user_agent", r.UserAgent()),
			slog.String("origin", r.Header.Get(HeaderOrigin)),
		)
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// clientIP prefers proxy headers and falls back to the peer address. Header
// values that are not IP addresses are ignored.
func clientIP(r *http.Request) string {
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
