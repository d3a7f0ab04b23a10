package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// OpenObserveConfig describes where and how log lines are shipped.
type OpenObserveConfig struct {
	URL           string
	Username      string
	Password      string
	BatchSize     int
	BufferSize    int
	FlushInterval time.Duration
	Timeout       time.Duration
}

// OpenObserveShipper is an io.Writer that forwards JSON log lines to the
// OpenObserve JSON ingestion API in batches.
//
// Write never blocks: when the buffer is full the line is dropped and counted.
type OpenObserveShipper struct {
	cfg     OpenObserveConfig
	client  *http.Client
	lines   chan []byte
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	errOut  io.Writer
}

var _ io.Writer = (*OpenObserveShipper)(nil)

func NewOpenObserveShipper(cfg OpenObserveConfig) *OpenObserveShipper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	s := &OpenObserveShipper{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		lines:  make(chan []byte, cfg.BufferSize),
		done:   make(chan struct{}),
		errOut: os.Stderr,
	}
	go s.run()
	return s
}

func (s *OpenObserveShipper) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.dropped.Add(1)
		return len(p), nil
	}

	select {
	case s.lines <- bytes.Clone(line):
	default:
		s.dropped.Add(1)
	}

	return len(p), nil
}

// Dropped returns the number of lines discarded because the buffer was full
// or the shipper was closed.
func (s *OpenObserveShipper) Dropped() int64 {
	return s.dropped.Load()
}

// Close flushes buffered lines and stops the shipper.
func (s *OpenObserveShipper) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.lines)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush openobserve logs: %w", ctx.Err())
	}
}

func (s *OpenObserveShipper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([][]byte, 0, s.cfg.BatchSize)
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				s.flush(batch)
				return
			}
			batch = append(batch, line)
			if len(batch) >= s.cfg.BatchSize {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			s.flush(batch)
			batch = batch[:0]
		}
	}
}

func (s *OpenObserveShipper) flush(batch [][]byte) {
	if len(batch) == 0 {
		return
	}

	var body bytes.Buffer
	body.WriteByte('[')
	body.Write(bytes.Join(batch, []byte{','}))
	body.WriteByte(']')

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, &body)
	if err != nil {
		fmt.Fprintf(s.errOut, "openobserve: build request: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.cfg.Username, s.cfg.Password)

	res, err := s.client.Do(req)
	if err != nil {
		fmt.Fprintf(s.errOut, "openobserve: ship %d lines: %v\n", len(batch), err)
		return
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode >= http.StatusMultipleChoices {
		fmt.Fprintf(s.errOut, "openobserve: ship %d lines: unexpected status %s\n", len(batch), res.Status)
	}
}
