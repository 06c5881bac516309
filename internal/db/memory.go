package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/david/proposal-vault/internal/models"
)

type sectionKey struct {
	owner   string
	section string
	version string
}

func (k sectionKey) less(o sectionKey) bool {
	if k.owner != o.owner {
		return k.owner < o.owner
	}
	if k.section != o.section {
		return k.section < o.section
	}
	return k.version < o.version
}

type memoryRecord struct {
	raw       []byte
	createdAt time.Time
	updatedAt time.Time
}

// MemoryStore is a process-local SectionStore ordered by its composite key.
// Payloads are stored encoded so callers never share maps with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	keys    []sectionKey
	records map[sectionKey]*memoryRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[sectionKey]*memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, owner, section, version string) (models.SectionData, error) {
	s.mu.RLock()
	rec, ok := s.records[sectionKey{owner, section, version}]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeData(rec.raw)
}

func (s *MemoryStore) Put(_ context.Context, owner, section, version string, data models.SectionData) error {
	raw, err := encodeData(data)
	if err != nil {
		return err
	}
	key := sectionKey{owner, section, version}
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[key]; ok {
		rec.raw = raw
		rec.updatedAt = now
		return nil
	}
	s.records[key] = &memoryRecord{raw: raw, createdAt: now, updatedAt: now}
	i := sort.Search(len(s.keys), func(i int) bool { return !s.keys[i].less(key) })
	s.keys = append(s.keys, sectionKey{})
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = key
	return nil
}

// ownerRange returns the slice of keys belonging to owner.
func (s *MemoryStore) ownerRange(owner string) []sectionKey {
	lo := sort.Search(len(s.keys), func(i int) bool { return s.keys[i].owner >= owner })
	hi := sort.Search(len(s.keys), func(i int) bool { return s.keys[i].owner > owner })
	return s.keys[lo:hi]
}

func (s *MemoryStore) LoadAll(_ context.Context, owner string) (models.StoredData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := models.StoredData{}
	for _, key := range s.ownerRange(owner) {
		data, err := decodeData(s.records[key].raw)
		if err != nil {
			continue
		}
		addToStored(stored, key.section, key.version, data)
	}
	return stored, nil
}

func (s *MemoryStore) History(_ context.Context, owner string) ([]models.SectionRecord, error) {
	s.mu.RLock()
	var records []models.SectionRecord
	for _, key := range s.ownerRange(owner) {
		rec := s.records[key]
		data, err := decodeData(rec.raw)
		if err != nil {
			continue
		}
		records = append(records, models.SectionRecord{
			Owner:     key.owner,
			Section:   key.section,
			Version:   key.version,
			Data:      data,
			CreatedAt: rec.createdAt,
			UpdatedAt: rec.updatedAt,
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

func (s *MemoryStore) Owners(_ context.Context) ([]OwnerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []OwnerSummary
	lastSection := ""
	for _, key := range s.keys {
		if len(out) == 0 || out[len(out)-1].Owner != key.owner {
			out = append(out, OwnerSummary{Owner: key.owner})
			lastSection = ""
		}
		o := &out[len(out)-1]
		o.Records++
		if key.section != lastSection || o.Sections == 0 {
			o.Sections++
			lastSection = key.section
		}
		if updated := s.records[key].updatedAt; updated.After(o.LastUpdated) {
			o.LastUpdated = updated
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
