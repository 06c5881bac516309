package analysis

import (
	"sort"

	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/models"
)

// VaultStatus reports each catalog section as available when some stored
// version holds fields, partial when only empty versions exist, and missing
// otherwise.
func VaultStatus(c *catalog.Catalog, stored models.StoredData) []models.SectionStatus {
	if c == nil {
		c = catalog.Default()
	}
	out := make([]models.SectionStatus, 0, c.Len())
	for _, section := range c.Sections() {
		status := models.StatusMissing
		if versions := stored[section.Name]; len(versions) > 0 {
			status = models.StatusPartial
			for _, data := range versions {
				if len(data) > 0 {
					status = models.StatusAvailable
					break
				}
			}
		}
		out = append(out, models.SectionStatus{Section: section, Status: status})
	}
	return out
}

// CategoryProgress scores each category in catalog order. An available section
// counts one, a partial section half.
func CategoryProgress(c *catalog.Catalog, result models.ComparisonResult) []models.CategoryProgress {
	if c == nil {
		c = catalog.Default()
	}
	index := make(map[string]int)
	var out []models.CategoryProgress
	for _, section := range c.Sections() {
		i, ok := index[section.Category]
		if !ok {
			i = len(out)
			index[section.Category] = i
			out = append(out, models.CategoryProgress{Category: section.Category})
		}
		p := &out[i]
		p.Total++
		switch result.StatusOf(section.Name) {
		case models.StatusAvailable:
			p.Complete++
		case models.StatusPartial:
			p.Complete += 0.5
		}
	}
	for i := range out {
		if out[i].Total > 0 {
			out[i].Percentage = out[i].Complete / float64(out[i].Total) * 100
		}
	}
	return out
}

// History groups records by version. Versions are ordered by their most recent
// change and sections within a version by recency.
func History(records []models.SectionRecord) []models.VersionHistory {
	sorted := make([]models.SectionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	index := make(map[string]int)
	var out []models.VersionHistory
	for _, rec := range sorted {
		i, ok := index[rec.Version]
		if !ok {
			i = len(out)
			index[rec.Version] = i
			out = append(out, models.VersionHistory{Version: rec.Version, LastModified: rec.UpdatedAt})
		}
		out[i].Sections = append(out[i].Sections, rec.Section)
	}
	return out
}
