package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/david/proposal-vault/internal/models"
)

// PGStore keeps section data in the proposal_sections table.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Get(ctx context.Context, owner, section, version string) (models.SectionData, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data
		FROM proposal_sections
		WHERE owner_id = $1 AND section = $2 AND version = $3
	`, owner, section, version).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get section %s/%s: %w", section, version, err)
	}
	return decodeData(raw)
}

func (s *PGStore) Put(ctx context.Context, owner, section, version string, data models.SectionData) error {
	raw, err := encodeData(data)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO proposal_sections (id, owner_id, section, version, data)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		ON CONFLICT (owner_id, section, version)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, uuid.New(), owner, section, version, string(raw))
	if err != nil {
		return fmt.Errorf("put section %s/%s: %w", section, version, err)
	}
	return nil
}

func (s *PGStore) LoadAll(ctx context.Context, owner string) (models.StoredData, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT section, version, data
		FROM proposal_sections
		WHERE owner_id = $1
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	stored := models.StoredData{}
	for rows.Next() {
		var section, version string
		var raw []byte
		if err := rows.Scan(&section, &version, &raw); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		data, err := decodeData(raw)
		if err != nil {
			continue
		}
		addToStored(stored, section, version, data)
	}
	return stored, rows.Err()
}

func (s *PGStore) History(ctx context.Context, owner string) ([]models.SectionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT owner_id, section, version, data, created_at, updated_at
		FROM proposal_sections
		WHERE owner_id = $1
		ORDER BY updated_at DESC, section
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var records []models.SectionRecord
	for rows.Next() {
		var rec models.SectionRecord
		var raw []byte
		if err := rows.Scan(&rec.Owner, &rec.Section, &rec.Version, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if rec.Data, err = decodeData(raw); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PGStore) Owners(ctx context.Context) ([]OwnerSummary, error) {
	rows, err := s.pool.Query(ctx, `
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
		var last time.Time
		if err := rows.Scan(&o.Owner, &o.Sections, &o.Records, &last); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		o.LastUpdated = last
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
