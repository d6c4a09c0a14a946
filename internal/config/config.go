package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	OutboxSize   int
	PingInterval time.Duration
	WriteTimeout time.Duration

	// PlacementSeed seeds fleet placement. Zero means seed from the clock.
	PlacementSeed int64

	DatabaseURL   string
	NatsURL       string
	NatsSubject   string
	ResultsBuffer int
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "json",
		OutboxSize:    16,
		PingInterval:  20 * time.Second,
		WriteTimeout:  3 * time.Second,
		NatsSubject:   "battleship.matches",
		ResultsBuffer: 64,
	}
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to Default for unset keys.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str("ADDR", &cfg.Addr)
	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.str("LOG_FORMAT", &cfg.LogFormat)
	p.positiveInt("OUTBOX_SIZE", &cfg.OutboxSize)
	p.duration("PING_INTERVAL", &cfg.PingInterval)
	p.duration("WRITE_TIMEOUT", &cfg.WriteTimeout)
	p.signedInt("PLACEMENT_SEED", &cfg.PlacementSeed)
	p.str("DATABASE_URL", &cfg.DatabaseURL)
	p.str("NATS_URL", &cfg.NatsURL)
	p.str("NATS_SUBJECT", &cfg.NatsSubject)
	p.positiveInt("RESULTS_BUFFER", &cfg.ResultsBuffer)

	if p.err != nil {
		return Config{}, p.err
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT: want json or console, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

// parser keeps the first error so the field list above stays flat.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) positiveInt(key string, dst *int) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.err = fmt.Errorf("%s: want a positive integer, got %q", key, v)
		return
	}
	*dst = n
}

func (p *parser) signedInt(key string, dst *int64) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.err = fmt.Errorf("%s: want a positive duration, got %q", key, v)
		return
	}
	*dst = d
}
