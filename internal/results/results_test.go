package results

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type chanSink struct {
	got chan Match
	err error
}

func newChanSink(err error) *chanSink {
	return &chanSink{got: make(chan Match, 8), err: err}
}

func (s *chanSink) Record(_ context.Context, m Match) error {
	s.got <- m
	return s.err
}

func recvMatch(t *testing.T, ch <-chan Match, within time.Duration) Match {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(within):
		t.Fatalf("timed out waiting for match")
		return Match{}
	}
}

func TestPipeline_DeliversToEverySink(t *testing.T) {
	failing := newChanSink(errors.New("db down"))
	ok := newChanSink(nil)
	p := NewPipeline(zaptest.NewLogger(t), 4, failing, ok)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	p.Record(Match{SessionID: 3, WinnerID: "A", LoserID: "B", Reason: "sunk"})

	assert.Equal(t, int64(3), recvMatch(t, failing.got, time.Second).SessionID)
	// a failing sink must not stop the next one
	assert.Equal(t, "A", recvMatch(t, ok.got, time.Second).WinnerID)

	cancel()
	require.NoError(t, <-done)
}

func TestPipeline_DropsWhenFull(t *testing.T) {
	sink := newChanSink(nil)
	p := NewPipeline(zaptest.NewLogger(t), 1, sink)

	p.Record(Match{SessionID: 1})
	p.Record(Match{SessionID: 2}) // nobody is draining yet

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, int64(1), recvMatch(t, sink.got, time.Second).SessionID)
	select {
	case m := <-sink.got:
		t.Fatalf("expected the second match to be dropped, got %+v", m)
	default:
	}
}

func TestPipeline_FlushesOnShutdown(t *testing.T) {
	sink := newChanSink(nil)
	p := NewPipeline(zaptest.NewLogger(t), 4, sink)

	for i := int64(1); i <= 3; i++ {
		p.Record(Match{SessionID: i})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))

	for i := int64(1); i <= 3; i++ {
		assert.Equal(t, i, recvMatch(t, sink.got, time.Second).SessionID)
	}
}

func TestToRecord(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := Match{
		SessionID: 9,
		WinnerID:  "w",
		LoserID:   "l",
		Reason:    "abort",
		Shots:     12,
		StartedAt: start,
		EndedAt:   start.Add(time.Minute),
	}

	rec := toRecord(m)
	assert.Zero(t, rec.ID)
	assert.Equal(t, int64(9), rec.SessionID)
	assert.Equal(t, "w", rec.WinnerID)
	assert.Equal(t, "l", rec.LoserID)
	assert.Equal(t, "abort", rec.Reason)
	assert.Equal(t, 12, rec.Shots)
	assert.Equal(t, start, rec.StartedAt)
	assert.Equal(t, start.Add(time.Minute), rec.EndedAt)
}

func TestPublisherSubject(t *testing.T) {
	p := &Publisher{subject: "battleship.matches"}
	assert.Equal(t, "battleship.matches.sunk", p.Subject(Match{Reason: "sunk"}))
	assert.Equal(t, "battleship.matches.abort", p.Subject(Match{Reason: "abort"}))
}
