// Package store is the persistence collaborator: collection-style operations
// over gorm with driver errors mapped onto a small set of sentinels.
package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicate   = errors.New("duplicate key")
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("store unavailable")
	ErrConflict    = errors.New("record changed concurrently")
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return translate(err)
	}
	return translate(sqlDB.PingContext(ctx))
}

// InsertMany inserts a slice of models in one batch.
func (s *Store) InsertMany(ctx context.Context, records any) error {
	return translate(s.db(ctx).Create(records).Error)
}

// DeleteMany removes every row of the model's table.
func (s *Store) DeleteMany(ctx context.Context, model any) (int64, error) {
	res := s.db(ctx).Where("1 = 1").Delete(model)
	return res.RowsAffected, translate(res.Error)
}

// Count returns the number of rows of the model's table.
func (s *Store) Count(ctx context.Context, model any) (int64, error) {
	var n int64
	err := s.db(ctx).Model(model).Count(&n).Error
	return n, translate(err)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func isUnavailable(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "database is closed")
}
