// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package store persists completed GPS fixes to MySQL. It owns the
// connection pool and the insert statement; ingest treats every insert
// failure as recovered-and-logged, never fatal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/relabs-tech/gps_recorder/internal/gps"
)

// Config holds the MySQL connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// insertFixSQL matches the historical tbl_gps_data schema: the fix
// quality lands in the interval_type column.
const insertFixSQL = `INSERT INTO tbl_gps_data
	(latd, lond, gps_date, gps_time, speed, bearing, interval_type)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// Store writes fix records to the GPS table.
type Store struct {
	db *sql.DB
}

// Open connects to MySQL and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Name
	mc.ParseTime = true

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", mc.Addr, err)
	}
	return &Store{db: db}, nil
}

// InsertFix persists one completed fix. The coordinate range is checked
// once more on the way in; a record that fails here is rejected, not
// stored.
func (s *Store) InsertFix(ctx context.Context, rec gps.FixRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, insertFixSQL, fixArgs(rec)...); err != nil {
		return fmt.Errorf("store: insert fix: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// fixArgs binds a record to the seven insert columns. Optional speed
// and bearing become SQL NULLs.
func fixArgs(rec gps.FixRecord) []any {
	return []any{
		rec.Latitude,
		rec.Longitude,
		rec.Date,
		rec.Time,
		nullFloat(rec.SpeedKmh),
		nullFloat(rec.Bearing),
		int(rec.Quality),
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
