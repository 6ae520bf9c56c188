package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"IPOSentinel/internal/analysis"
	"IPOSentinel/internal/collector"
	"IPOSentinel/internal/notifier"
	"IPOSentinel/internal/recorder"
	"IPOSentinel/internal/scheduler"
)

// slowPoller keeps running after cancellation until release is closed.
type slowPoller struct {
	release chan struct{}
	done    chan struct{}
}

func (p *slowPoller) StartPolling(ctx context.Context, _ notifier.CommandHandler) {
	defer close(p.done)
	<-ctx.Done()
	<-p.release
}

type countingSender struct {
	mu sync.Mutex
	n  int
}

func (s *countingSender) SendWithRetry(context.Context, string, int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *countingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func newServeScheduler(sender scheduler.Sender) *scheduler.Scheduler {
	fetcher := &collector.MockFetcher{Price: 20}
	factory := func() *analysis.Tracker {
		return analysis.NewTracker(&collector.StaticLister{Tickers: []string{"ABCD", "WXYZ"}}, fetcher, analysis.Options{})
	}
	return scheduler.NewScheduler(context.Background(), factory, fetcher.Name(), sender, recorder.NewNoopRecorder(), zap.NewNop())
}

func TestServeUntil_WaitsForPolling(t *testing.T) {
	p := &slowPoller{release: make(chan struct{}), done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan struct{})
	go func() {
		serveUntil(ctx, newServeScheduler(&countingSender{}), p, false, zap.NewNop())
		close(returned)
	}()

	cancel()
	select {
	case <-returned:
		t.Fatal("serveUntil returned while polling was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(p.release)
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("serveUntil did not return after polling stopped")
	}
	select {
	case <-p.done:
	default:
		t.Error("polling had not finished when serveUntil returned")
	}
}

func TestServeUntil_WaitsForStartupRun(t *testing.T) {
	p := &slowPoller{release: make(chan struct{}), done: make(chan struct{})}
	close(p.release)
	sender := &countingSender{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	serveUntil(ctx, newServeScheduler(sender), p, true, zap.NewNop())

	if sender.count() != 1 {
		t.Errorf("expected the startup summary to be sent before return, got %d sends", sender.count())
	}
}
