package models

import "time"

// Completeness buckets.
const (
	StatusAvailable = "available"
	StatusPartial   = "partial"
	StatusMissing   = "missing"
)

// ComparisonResult partitions the catalog into three buckets.
type ComparisonResult struct {
	Available   []string `json:"available"`
	Partial     []string `json:"partial"`
	Missing     []string `json:"missing"`
	Suggestions []string `json:"suggestions"`
}

// StatusOf returns the bucket holding the given section, or "" if none does.
func (r ComparisonResult) StatusOf(section string) string {
	for _, s := range r.Available {
		if s == section {
			return StatusAvailable
		}
	}
	for _, s := range r.Partial {
		if s == section {
			return StatusPartial
		}
	}
	for _, s := range r.Missing {
		if s == section {
			return StatusMissing
		}
	}
	return ""
}

type CategoryProgress struct {
	Category   string  `json:"category"`
	Total      int     `json:"total"`
	Complete   float64 `json:"complete"`
	Percentage float64 `json:"percentage"`
}

type SectionStatus struct {
	Section
	Status string `json:"status"`
}

type TemplateSummary struct {
	TotalSheets    int            `json:"total_sheets"`
	DataSheets     int            `json:"data_sheets"`
	FieldCount     int            `json:"field_count"`
	FormulaCount   int            `json:"formula_count"`
	FieldTypes     map[string]int `json:"field_types"`
	UnmatchedSheet []string       `json:"unmatched_sheets"`
}

type VersionHistory struct {
	Version      string    `json:"version"`
	Sections     []string  `json:"sections"`
	LastModified time.Time `json:"last_modified"`
}
