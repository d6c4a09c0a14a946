package results

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher announces finished matches on a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("battleship-server"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

// Subject is "<prefix>.<reason>", e.g. matches.sunk.
func (p *Publisher) Subject(m Match) string {
	return fmt.Sprintf("%s.%s", p.subject, m.Reason)
}

func (p *Publisher) Record(ctx context.Context, m Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode match: %w", err)
	}
	if err := p.conn.Publish(p.Subject(m), data); err != nil {
		return fmt.Errorf("publish match %d: %w", m.SessionID, err)
	}
	return p.conn.FlushWithContext(ctx)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
