package results

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MatchRecord is the match_records row.
type MatchRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID int64     `gorm:"index" json:"sessionId"`
	WinnerID  string    `gorm:"size:64" json:"winnerId"`
	LoserID   string    `gorm:"size:64" json:"loserId"`
	Reason    string    `gorm:"size:16" json:"reason"`
	Shots     int       `json:"shots"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `gorm:"index" json:"endedAt"`
	CreatedAt time.Time `json:"-"`
}

func toRecord(m Match) MatchRecord {
	return MatchRecord{
		SessionID: m.SessionID,
		WinnerID:  m.WinnerID,
		LoserID:   m.LoserID,
		Reason:    m.Reason,
		Shots:     m.Shots,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
	}
}

// Store keeps match history in Postgres.
type Store struct {
	db *gorm.DB
}

func OpenStore(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, fmt.Errorf("migrate match_records: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, m Match) error {
	rec := toRecord(m)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert match %d: %w", m.SessionID, err)
	}
	return nil
}

// Recent returns the latest matches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	var recs []MatchRecord
	err := s.db.WithContext(ctx).Order("ended_at desc").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("load recent matches: %w", err)
	}
	return recs, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
