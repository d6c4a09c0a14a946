package results

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Match is the outcome of one finished session.
type Match struct {
	SessionID int64     `json:"sessionId"`
	WinnerID  string    `json:"winnerId"`
	LoserID   string    `json:"loserId"`
	Reason    string    `json:"reason"`
	Shots     int       `json:"shots"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

// Sink stores or forwards a finished match.
type Sink interface {
	Record(ctx context.Context, m Match) error
}

// Pipeline hands matches from the hub to the sinks without blocking the hub.
type Pipeline struct {
	in      chan Match
	sinks   []Sink
	log     *zap.Logger
	timeout time.Duration
}

func NewPipeline(log *zap.Logger, buffer int, sinks ...Sink) *Pipeline {
	if buffer <= 0 {
		buffer = 1
	}
	return &Pipeline{
		in:      make(chan Match, buffer),
		sinks:   sinks,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// Record queues m. When the buffer is full the match is dropped and logged.
func (p *Pipeline) Record(m Match) {
	select {
	case p.in <- m:
	default:
		p.log.Warn("results buffer full, dropping match", zap.Int64("session", m.SessionID))
	}
}

// Run drains the queue until ctx is cancelled, then flushes whatever is left.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case m := <-p.in:
					p.deliver(context.Background(), m)
				default:
					return nil
				}
			}
		case m := <-p.in:
			p.deliver(ctx, m)
		}
	}
}

func (p *Pipeline) deliver(parent context.Context, m Match) {
	p.log.Info("match finished",
		zap.Int64("session", m.SessionID),
		zap.String("winner", m.WinnerID),
		zap.String("loser", m.LoserID),
		zap.String("reason", m.Reason),
		zap.Int("shots", m.Shots),
	)

	for _, s := range p.sinks {
		ctx, cancel := context.WithTimeout(parent, p.timeout)
		if err := s.Record(ctx, m); err != nil {
			p.log.Error("recording match failed", zap.Int64("session", m.SessionID), zap.Error(err))
		}
		cancel()
	}
}
