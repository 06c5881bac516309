package models

import "time"

// Well-known version labels.
const (
	VersionBase = "base"
	VersionKIF  = "2025 KIF Version"
)

// Reusability tiers of a catalog section.
const (
	ReusabilityLow    = "low"
	ReusabilityMedium = "medium"
	ReusabilityHigh   = "high"
)

// Section is one catalog entry.
type Section struct {
	Name        string `json:"name" yaml:"name"`
	Reusability string `json:"reusability" yaml:"reusability"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// SectionData maps field name (or cell address) to a scalar or short text value.
type SectionData map[string]any

// StoredData is section -> version -> fields for a single owner.
type StoredData map[string]map[string]SectionData

// Base returns the base version of a section, or nil.
func (s StoredData) Base(section string) SectionData {
	versions, ok := s[section]
	if !ok {
		return nil
	}
	return versions[VersionBase]
}

// SectionRecord is one persisted (owner, section, version) row.
type SectionRecord struct {
	Owner     string      `json:"owner"`
	Section   string      `json:"section"`
	Version   string      `json:"version"`
	Data      SectionData `json:"data"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
