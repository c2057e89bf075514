// Package session serializes calculator calls for one logical session.
//
// A Session owns a FIFO queue and a single consumer goroutine, so the
// answer register written by request N is the one read by request N+1
// no matter how many goroutines submit.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/cloudycalc/internal/calc"
)

// ErrClosed is returned when submitting to a closed session.
var ErrClosed = errors.New("session closed")

// Processor is the calculator surface a session drives.
type Processor interface {
	ProcessValue(ctx context.Context, v any) calc.Result
	Reset(ctx context.Context) error
}

// Response is the outcome of one submitted input.
type Response struct {
	RequestID string
	Result    calc.Result

	// Cleared is true when the input was "clear" and the reset succeeded.
	Cleared bool

	// Err is set when the reset after "clear" failed or the session was
	// stopped before the request ran.
	Err error
}

type request struct {
	id    string
	input any
	reply chan Response
}

// Session is a single-flight request loop around a Processor.
type Session struct {
	id     string
	proc   Processor
	ids    IDGenerator
	logger *slog.Logger
	queue  *requestQueue
	done   chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator sets the generator for session and request ids.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		s.ids = g
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Start creates a session and launches its loop. The loop stops when ctx
// is cancelled or after Close once the queue has drained.
func Start(ctx context.Context, proc Processor, opts ...Option) *Session {
	s := &Session{
		proc:   proc,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
		queue:  newRequestQueue(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.id = s.ids.Generate()

	go s.run(ctx)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Pending reports how many requests are waiting.
func (s *Session) Pending() int {
	return s.queue.len()
}

// Submit queues input and returns its request id and a channel that
// receives exactly one Response.
func (s *Session) Submit(input any) (string, <-chan Response, error) {
	r := &request{
		id:    s.ids.Generate(),
		input: input,
		reply: make(chan Response, 1),
	}
	if !s.queue.enqueue(r) {
		return "", nil, ErrClosed
	}
	return r.id, r.reply, nil
}

// Do submits input and waits for its response.
func (s *Session) Do(ctx context.Context, input any) (Response, error) {
	_, reply, err := s.Submit(input)
	if err != nil {
		return Response{}, err
	}
	select {
	case resp := <-reply:
		return resp, resp.Err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Close stops accepting requests. Queued requests still run.
func (s *Session) Close() {
	s.queue.close()
}

// Wait blocks until the loop has stopped.
func (s *Session) Wait() {
	<-s.done
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Info("session started", "session", s.id)
	processed := 0
	defer func() {
		s.logger.Info("session stopped", "session", s.id, "processed", processed)
	}()

	for {
		if r, ok := s.queue.tryDequeue(); ok {
			s.handle(ctx, r)
			processed++
			continue
		}
		if s.queue.drained() {
			return
		}

		select {
		case <-ctx.Done():
			s.queue.close()
			s.abandon(ctx.Err())
			return
		case <-s.queue.wait():
		}
	}
}

func (s *Session) handle(ctx context.Context, r *request) {
	resp := Response{RequestID: r.id, Result: s.proc.ProcessValue(ctx, r.input)}

	if resp.Result.Kind == calc.KindClear {
		if err := s.proc.Reset(ctx); err != nil {
			s.logger.Error("reset failed", "session", s.id, "error", err)
			resp.Err = fmt.Errorf("reset: %w", err)
		} else {
			resp.Cleared = true
		}
	}

	s.logger.Debug("request processed", "session", s.id, "request", r.id, "kind", resp.Result.Kind.String())
	r.reply <- resp
}

// abandon answers every queued request with err.
func (s *Session) abandon(err error) {
	for {
		r, ok := s.queue.tryDequeue()
		if !ok {
			return
		}
		r.reply <- Response{RequestID: r.id, Err: fmt.Errorf("%w: %w", ErrClosed, err)}
	}
}
