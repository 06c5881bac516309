package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/david/proposal-vault/internal/models"
)

// sqliteTimeLayout is fixed width so stored timestamps sort as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS proposal_sections (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	section TEXT NOT NULL,
	version TEXT NOT NULL DEFAULT 'base',
	data TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (owner_id, section, version)
);
CREATE INDEX IF NOT EXISTS idx_proposal_sections_owner_updated
	ON proposal_sections (owner_id, updated_at DESC);
`

// SQLiteStore keeps section data in a single-file embedded database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, owner, section, version string) (models.SectionData, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM proposal_sections
		WHERE owner_id = ? AND section = ? AND version = ?
	`, owner, section, version).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get section %s/%s: %w", section, version, err)
	}
	return decodeData([]byte(raw))
}

func (s *SQLiteStore) Put(ctx context.Context, owner, section, version string, data models.SectionData) error {
	raw, err := encodeData(data)
	if err != nil {
		return err
	}
	now := s.now().UTC().Format(sqliteTimeLayout)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO proposal_sections (id, owner_id, section, version, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, section, version)
		DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, uuid.NewString(), owner, section, version, string(raw), now, now)
	if err != nil {
		return fmt.Errorf("put section %s/%s: %w", section, version, err)
	}
	return nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context, owner string) (models.StoredData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, version, data FROM proposal_sections WHERE owner_id = ?
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	stored := models.StoredData{}
	for rows.Next() {
		var section, version, raw string
		if err := rows.Scan(&section, &version, &raw); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		data, err := decodeData([]byte(raw))
		if err != nil {
			continue
		}
		addToStored(stored, section, version, data)
	}
	return stored, rows.Err()
}

func (s *SQLiteStore) History(ctx context.Context, owner string) ([]models.SectionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner_id, section, version, data, created_at, updated_at
		FROM proposal_sections
		WHERE owner_id = ?
		ORDER BY updated_at DESC, section
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var records []models.SectionRecord
	for rows.Next() {
		var rec models.SectionRecord
		var raw, created, updated string
		if err := rows.Scan(&rec.Owner, &rec.Section, &rec.Version, &raw, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		data, err := decodeData([]byte(raw))
		if err != nil {
			continue
		}
		rec.Data = data
		rec.CreatedAt, _ = time.Parse(sqliteTimeLayout, created)
		rec.UpdatedAt, _ = time.Parse(sqliteTimeLayout, updated)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Owners(ctx context.Context) ([]OwnerSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner_id, COUNT(DISTINCT section), COUNT(*), MAX(updated_at)
		FROM proposal_sections
		GROUP BY owner_id
		ORDER BY owner_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var out []OwnerSummary
	for rows.Next() {
		var o OwnerSummary
		var last string
		if err := rows.Scan(&o.Owner, &o.Sections, &o.Records, &last); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		o.LastUpdated, _ = time.Parse(sqliteTimeLayout, last)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
