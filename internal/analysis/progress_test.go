package analysis

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/models"
)

func TestVaultStatus(t *testing.T) {
	stored := models.StoredData{
		"표지":                       {models.VersionBase: {"회사명": "케이펀드"}},
		catalog.FinancialPerformance: {models.VersionBase: {}},
		catalog.Compliance:           {models.VersionBase: {}, models.VersionKIF: {"리스크": "운영"}},
	}

	statuses := VaultStatus(nil, stored)
	require.Len(t, statuses, catalog.Default().Len())

	got := map[string]string{}
	for _, s := range statuses {
		got[s.Name] = s.Status
	}
	assert.Equal(t, models.StatusAvailable, got["표지"])
	assert.Equal(t, models.StatusPartial, got[catalog.FinancialPerformance])
	assert.Equal(t, models.StatusAvailable, got[catalog.Compliance])
	assert.Equal(t, models.StatusMissing, got[catalog.KIFFundPerformance])
	assert.Equal(t, "표지", statuses[0].Name)
	assert.Equal(t, "기본정보", statuses[0].Category)
}

func TestCategoryProgress(t *testing.T) {
	cat := catalog.Default()
	result := models.ComparisonResult{
		Available: []string{"표지"},
		Partial:   []string{catalog.FinancialPerformance},
	}
	for _, name := range cat.Names() {
		if name != "표지" && name != catalog.FinancialPerformance {
			result.Missing = append(result.Missing, name)
		}
	}

	progress := CategoryProgress(cat, result)
	require.Len(t, progress, len(cat.Categories()))

	byCategory := map[string]models.CategoryProgress{}
	for i, p := range progress {
		assert.Equal(t, cat.Categories()[i], p.Category)
		byCategory[p.Category] = p
	}
	assert.Equal(t, 1.0, byCategory["기본정보"].Complete)
	assert.InDelta(t, 100.0/float64(byCategory["기본정보"].Total), byCategory["기본정보"].Percentage, 1e-9)
	assert.Equal(t, 0.5, byCategory["재무정보"].Complete)
	assert.Zero(t, byCategory["투자실적"].Percentage)

	total := 0
	for _, p := range progress {
		total += p.Total
	}
	assert.Equal(t, cat.Len(), total)
}

func TestHistory(t *testing.T) {
	t0 := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	records := []models.SectionRecord{
		{Section: "표지", Version: models.VersionBase, UpdatedAt: t0},
		{Section: catalog.Compliance, Version: models.VersionKIF, UpdatedAt: t0.Add(2 * time.Hour)},
		{Section: catalog.FinancialPerformance, Version: models.VersionBase, UpdatedAt: t0.Add(time.Hour)},
	}

	want := []models.VersionHistory{
		{Version: models.VersionKIF, Sections: []string{catalog.Compliance}, LastModified: t0.Add(2 * time.Hour)},
		{Version: models.VersionBase, Sections: []string{catalog.FinancialPerformance, "표지"}, LastModified: t0.Add(time.Hour)},
	}
	if diff := cmp.Diff(want, History(records)); diff != "" {
		t.Fatalf("History mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "표지", records[0].Section, "input order is untouched")
	assert.Empty(t, History(nil))
}
