// Package db persists section data keyed by (owner, section, version).
package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/david/proposal-vault/internal/models"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("section data not found")

// SectionStore is the persistence boundary of the proposal core. A single Put
// is atomic; there is no cross-call locking.
type SectionStore interface {
	Get(ctx context.Context, owner, section, version string) (models.SectionData, error)
	Put(ctx context.Context, owner, section, version string, data models.SectionData) error
	LoadAll(ctx context.Context, owner string) (models.StoredData, error)
	History(ctx context.Context, owner string) ([]models.SectionRecord, error)
	Owners(ctx context.Context) ([]OwnerSummary, error)
	Close() error
}

// OwnerSummary counts what one owner has stored.
type OwnerSummary struct {
	Owner       string    `json:"owner"`
	Sections    int       `json:"sections"`
	Records     int       `json:"records"`
	LastUpdated time.Time `json:"last_updated"`
}

// encodeData serializes a payload keeping non-ASCII text as is.
func encodeData(data models.SectionData) ([]byte, error) {
	if data == nil {
		data = models.SectionData{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode section data: %w", err)
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

func decodeData(raw []byte) (models.SectionData, error) {
	data := models.SectionData{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode section data: %w", err)
	}
	return data, nil
}

// addToStored places data under section and version, creating maps as needed.
func addToStored(stored models.StoredData, section, version string, data models.SectionData) {
	versions, ok := stored[section]
	if !ok {
		versions = map[string]models.SectionData{}
		stored[section] = versions
	}
	versions[version] = data
}
