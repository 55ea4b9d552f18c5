// Package store persists backtest runs and their simulated fills.
// Results land in SQLite by default; a postgres DSN switches the
// backend.
package store

import (
	"strings"
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/pkg/conn"
)

// Run is one backtest execution.
type Run struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Mode      string
	BeginMs   int64
	EndMs     int64
	StartedAt int64
	EndedAt   int64
	Trades    uint64
	Status    string
}

// Trade is one simulated fill.
type Trade struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	RunID     uint64 `gorm:"index"`
	LocalID   uint64
	Symbol    string `gorm:"index"`
	Buy       bool
	Qty       float64
	FirePrice float64
	Price     float64
	Fee       float64
	Position  float64
	Ts        int64
}

// OrderUpdate is one order state change.
type OrderUpdate struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	RunID    uint64 `gorm:"index"`
	LocalID  uint64
	Symbol   string
	Buy      bool
	Leftover float64
	Price    float64
	Canceled bool
	Ts       int64
}

// Store wraps the result database.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the result tables. A
// "postgres://" prefix selects PostgreSQL, anything else is treated
// as a SQLite file path.
func Open(dsn string) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = conn.NewPostgres(conn.Option{ConnString: dsn})
	} else {
		db, err = conn.NewSqlite(dsn)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open result store")
	}
	return New(db)
}

// New migrates the result tables on an existing connection.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("invalid store config: nil db")
	}
	if err := db.AutoMigrate(&Run{}, &Trade{}, &OrderUpdate{}); err != nil {
		return nil, errors.Wrap(err, "migrate result store")
	}
	return &Store{db: db}, nil
}

// CreateRun inserts a new run row and returns its id.
func (s *Store) CreateRun(mode string, beginMs, endMs int64) (uint64, error) {
	run := &Run{
		Mode:      mode,
		BeginMs:   beginMs,
		EndMs:     endMs,
		StartedAt: time.Now().UnixMilli(),
		Status:    "running",
	}
	if err := s.db.Create(run).Error; err != nil {
		return 0, errors.Wrap(err, "create run")
	}
	return run.ID, nil
}

// AppendTrade records one fill for a run.
func (s *Store) AppendTrade(trade *Trade) error {
	return errors.Wrap(s.db.Create(trade).Error, "append trade")
}

// AppendOrderUpdate records one order state change for a run.
func (s *Store) AppendOrderUpdate(update *OrderUpdate) error {
	return errors.Wrap(s.db.Create(update).Error, "append order update")
}

// FinishRun closes a run row with its final status and trade count.
func (s *Store) FinishRun(runID uint64, status string, trades uint64) error {
	err := s.db.Model(&Run{}).Where("id = ?", runID).Updates(map[string]any{
		"status":   status,
		"trades":   trades,
		"ended_at": time.Now().UnixMilli(),
	}).Error
	return errors.Wrap(err, "finish run")
}

// DB exposes the underlying connection for ad-hoc queries.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
