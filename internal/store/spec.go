package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no spec matches a lookup.
var ErrNotFound = errors.New("spec not found")

// Record is one persisted rendered spec.
type Record struct {
	ID           string
	Hash         string
	SequenceName string
	ConfigCount  int
	Text         string
	CreatedAt    string
}

// Put stores a rendered spec and returns its record ID. Put is
// idempotent per content hash: storing text that already exists returns
// the existing record's ID without writing.
func (s *Store) Put(ctx context.Context, sequenceName string, configCount int, text string) (string, error) {
	hash := ContentHash(text)

	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM specs WHERE spec_hash = ?", hash).Scan(&existing)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("lookup spec by hash: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO specs (id, spec_hash, sequence_name, config_count, spec_text) VALUES (?, ?, ?, ?, ?)",
		id, hash, sequenceName, configCount, text)
	if err != nil {
		return "", fmt.Errorf("insert spec: %w", err)
	}
	return id, nil
}

// Get returns the spec with the given record ID, or one whose content
// hash starts with the given prefix. Returns ErrNotFound if nothing
// matches, and an error if a hash prefix is ambiguous.
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, spec_hash, sequence_name, config_count, spec_text, created_at FROM specs WHERE id = ? OR spec_hash LIKE ? ORDER BY rowid",
		key, key+"%")
	if err != nil {
		return nil, fmt.Errorf("query spec: %w", err)
	}
	defer rows.Close()

	var matches []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan specs: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous key %q matches %d specs", key, len(matches))
	}
}

// List returns all stored specs in insertion order.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, spec_hash, sequence_name, config_count, spec_text, created_at FROM specs ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list specs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan specs: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var rec Record
	if err := rows.Scan(&rec.ID, &rec.Hash, &rec.SequenceName, &rec.ConfigCount, &rec.Text, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan spec row: %w", err)
	}
	return &rec, nil
}
