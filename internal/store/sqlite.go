package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"idx-signals/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timestamp)
	);

	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		bar_index INTEGER NOT NULL,
		side TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		entry_price REAL,
		atr_value REAL,
		sl_price REAL,
		tp_price REAL,
		sl_price_rounded REAL,
		tp_price_rounded REAL,
		note TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, bar_index, side)
	);

	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		entry_index INTEGER NOT NULL,
		entry_time DATETIME NOT NULL,
		entry_price REAL NOT NULL,
		exit_index INTEGER NOT NULL,
		exit_time DATETIME NOT NULL,
		exit_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		take_profit REAL NOT NULL,
		atr_at_entry REAL NOT NULL,
		pnl REAL NOT NULL,
		reason TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, entry_index)
	);

	CREATE INDEX IF NOT EXISTS idx_bars_symbol ON bars(symbol);
	CREATE INDEX IF NOT EXISTS idx_bars_timestamp ON bars(timestamp);
	CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveBars upserts bars for a symbol in one transaction.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, bars []models.Bar) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars (symbol, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}
	return tx.Commit()
}

// GetBars returns bars for a symbol in [from, to], ordered by timestamp.
func (s *SQLiteStore) GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM bars
		WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// SaveSignals upserts generated signals for a symbol.
func (s *SQLiteStore) SaveSignals(ctx context.Context, symbol string, signals []models.Signal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO signals
		(symbol, bar_index, side, timestamp, entry_price, atr_value, sl_price, tp_price, sl_price_rounded, tp_price_rounded, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sig := range signals {
		_, err := stmt.ExecContext(ctx, symbol, sig.Index, string(sig.Side), sig.Timestamp,
			nullable(sig.EntryPrice), nullable(sig.ATRValue),
			nullable(sig.SLPrice), nullable(sig.TPPrice),
			nullable(sig.RoundedSL), nullable(sig.RoundedTP), sig.Note)
		if err != nil {
			return fmt.Errorf("failed to insert signal: %w", err)
		}
	}
	return tx.Commit()
}

// GetSignals returns all stored signals for a symbol, ordered by bar index.
func (s *SQLiteStore) GetSignals(ctx context.Context, symbol string) ([]models.Signal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bar_index, side, timestamp, entry_price, atr_value, sl_price, tp_price, sl_price_rounded, tp_price_rounded, note
		FROM signals
		WHERE symbol = ?
		ORDER BY bar_index ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []models.Signal
	for rows.Next() {
		var sig models.Signal
		var side string
		var entry, atr, sl, tp, rsl, rtp sql.NullFloat64
		if err := rows.Scan(&sig.Index, &side, &sig.Timestamp, &entry, &atr, &sl, &tp, &rsl, &rtp, &sig.Note); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		sig.Side = models.Side(side)
		sig.EntryPrice = fromNullable(entry)
		sig.ATRValue = fromNullable(atr)
		sig.SLPrice = fromNullable(sl)
		sig.TPPrice = fromNullable(tp)
		sig.RoundedSL = fromNullable(rsl)
		sig.RoundedTP = fromNullable(rtp)
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

// SaveTrades upserts simulated trades for a symbol.
func (s *SQLiteStore) SaveTrades(ctx context.Context, symbol string, trades []models.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO trades
		(symbol, side, entry_index, entry_time, entry_price, exit_index, exit_time, exit_price, stop_loss, take_profit, atr_at_entry, pnl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.ExecContext(ctx, symbol, string(t.Side), t.EntryIndex, t.EntryTime, t.EntryPrice,
			t.ExitIndex, t.ExitTime, t.ExitPrice, t.StopLoss, t.TakeProfit, t.ATRAtEntry, t.PnL, string(t.Reason))
		if err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}
	return tx.Commit()
}

// GetTrades returns all stored trades for a symbol, ordered by entry index.
func (s *SQLiteStore) GetTrades(ctx context.Context, symbol string) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT side, entry_index, entry_time, entry_price, exit_index, exit_time, exit_price, stop_loss, take_profit, atr_at_entry, pnl, reason
		FROM trades
		WHERE symbol = ?
		ORDER BY entry_index ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var side, reason string
		if err := rows.Scan(&side, &t.EntryIndex, &t.EntryTime, &t.EntryPrice, &t.ExitIndex, &t.ExitTime,
			&t.ExitPrice, &t.StopLoss, &t.TakeProfit, &t.ATRAtEntry, &t.PnL, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.Side = models.Side(side)
		t.Reason = models.CloseReason(reason)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
