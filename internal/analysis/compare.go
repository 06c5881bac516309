// Package analysis measures how much of the proposal catalog an owner's stored
// data covers.
package analysis

import (
	"fmt"
	"strings"

	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/models"
	"github.com/david/proposal-vault/internal/workbook"
)

// Fill-ratio thresholds, as fractions of ten.
const (
	availableTenths = 8
	partialTenths   = 3

	// maxSectorSuggestions caps the investment areas turned into suggestions.
	maxSectorSuggestions = 3
	// manyMissing is the missing-section count above which basics come first.
	manyMissing = 5
)

const (
	aiStrategySuggestion  = "AI/인공지능 투자 전략을 '2-4.투자전략 및 계획'에 추가 필요"
	sectorSuggestion      = "%s 분야 투자 실적을 '2-3.주요펀드 운용 실적'에 강조"
	basicsFirstSuggestion = "주요 데이터가 많이 누락됨. 기본 정보부터 순차적으로 입력 권장"
)

// Comparator buckets catalog sections by how completely they are stored.
type Comparator struct {
	catalog *catalog.Catalog
}

func NewComparator(c *catalog.Catalog) *Comparator {
	if c == nil {
		c = catalog.Default()
	}
	return &Comparator{catalog: c}
}

// Compare uses the default catalog.
func Compare(stored models.StoredData, req models.RequirementsRecord, tmpl models.TemplateStructure) models.ComparisonResult {
	return NewComparator(nil).Compare(stored, req, tmpl)
}

// Compare places every catalog section in exactly one bucket, in catalog order,
// and derives advisory suggestions from the requirements record.
func (c *Comparator) Compare(stored models.StoredData, req models.RequirementsRecord, tmpl models.TemplateStructure) models.ComparisonResult {
	result := models.ComparisonResult{
		Available:   []string{},
		Partial:     []string{},
		Missing:     []string{},
		Suggestions: []string{},
	}

	for _, name := range c.catalog.Names() {
		switch c.classify(name, stored.Base(name), tmpl) {
		case models.StatusAvailable:
			result.Available = append(result.Available, name)
		case models.StatusPartial:
			result.Partial = append(result.Partial, name)
		default:
			result.Missing = append(result.Missing, name)
		}
	}

	result.Suggestions = suggestions(req, len(result.Missing))
	return result
}

func (c *Comparator) classify(section string, base models.SectionData, tmpl models.TemplateStructure) string {
	if len(base) == 0 {
		return models.StatusMissing
	}
	required := workbook.FieldCount(tmpl, section)
	if required == 0 {
		return models.StatusAvailable
	}
	filled := FilledCount(base)
	switch {
	case filled*10 >= required*availableTenths:
		return models.StatusAvailable
	case filled*10 >= required*partialTenths:
		return models.StatusPartial
	default:
		return models.StatusMissing
	}
}

func suggestions(req models.RequirementsRecord, missing int) []string {
	out := []string{}
	if mi := req.MandatoryInvestment; strings.Contains(mi, "AI") || strings.Contains(mi, "인공지능") {
		out = append(out, aiStrategySuggestion)
	}
	for i, sector := range req.InvestmentAreas {
		if i == maxSectorSuggestions {
			break
		}
		out = append(out, fmt.Sprintf(sectorSuggestion, sector))
	}
	if missing > manyMissing {
		out = append(out, basicsFirstSuggestion)
	}
	return out
}

// FilledCount counts values that are present. Zero and false count; nil and
// blank strings do not.
func FilledCount(data models.SectionData) int {
	n := 0
	for _, v := range data {
		if Filled(v) {
			n++
		}
	}
	return n
}

func Filled(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	return true
}
