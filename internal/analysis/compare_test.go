package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/models"
)

// templateWithFields returns a template whose sheet named section has n labels.
func templateWithFields(section string, n int) models.TemplateStructure {
	tmpl := models.NewTemplateStructure()
	sheet := &models.SheetStructure{Fields: map[string]models.FieldCell{}, MatchedConfig: section}
	for i := 1; i <= n; i++ {
		sheet.Fields[fmt.Sprintf("A%d", i)] = models.FieldCell{Label: fmt.Sprintf("항목%d", i), Row: i, Col: 1}
	}
	tmpl.Sheets[section] = sheet
	tmpl.SheetOrder = append(tmpl.SheetOrder, section)
	tmpl.TotalSheets = 1
	return tmpl
}

// baseWithFilled stores filled non-empty values and pads with blanks up to total.
func baseWithFilled(section string, filled, total int) models.StoredData {
	data := models.SectionData{}
	for i := 1; i <= total; i++ {
		if i <= filled {
			data[fmt.Sprintf("A%d", i)] = fmt.Sprintf("값%d", i)
		} else {
			data[fmt.Sprintf("A%d", i)] = ""
		}
	}
	return models.StoredData{section: {models.VersionBase: data}}
}

func TestCompare_FillRatioThresholds(t *testing.T) {
	section := catalog.FinancialPerformance
	tmpl := templateWithFields(section, 10)

	tests := []struct {
		filled int
		want   string
	}{
		{10, models.StatusAvailable},
		{8, models.StatusAvailable},
		{7, models.StatusPartial},
		{3, models.StatusPartial},
		{2, models.StatusMissing},
		{0, models.StatusMissing},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of 10", tt.filled), func(t *testing.T) {
			result := Compare(baseWithFilled(section, tt.filled, 10), models.NewRequirementsRecord(), tmpl)
			assert.Equal(t, tt.want, result.StatusOf(section))
		})
	}
}

func TestCompare_BaseAndTemplateRules(t *testing.T) {
	section := catalog.Compliance

	t.Run("no base version", func(t *testing.T) {
		stored := models.StoredData{section: {models.VersionKIF: {"A1": "값"}}}
		result := Compare(stored, models.NewRequirementsRecord(), templateWithFields(section, 2))
		assert.Equal(t, models.StatusMissing, result.StatusOf(section))
	})

	t.Run("no detected fields", func(t *testing.T) {
		stored := models.StoredData{section: {models.VersionBase: {"리스크": ""}}}
		result := Compare(stored, models.NewRequirementsRecord(), models.NewTemplateStructure())
		assert.Equal(t, models.StatusAvailable, result.StatusOf(section))
	})

	t.Run("zero counts as filled", func(t *testing.T) {
		stored := models.StoredData{section: {models.VersionBase: {"A1": 0.0, "A2": false}}}
		result := Compare(stored, models.NewRequirementsRecord(), templateWithFields(section, 2))
		assert.Equal(t, models.StatusAvailable, result.StatusOf(section))
	})

	t.Run("template sheet matched by name", func(t *testing.T) {
		tmpl := templateWithFields("(양식) "+section, 10)
		tmpl.Sheets["(양식) "+section].MatchedConfig = section
		result := Compare(baseWithFilled(section, 2, 2), models.NewRequirementsRecord(), tmpl)
		assert.Equal(t, models.StatusMissing, result.StatusOf(section))
	})
}

func TestCompare_PartitionsCatalog(t *testing.T) {
	cat := catalog.Default()
	stored := models.StoredData{}
	for i, name := range cat.Names() {
		if i%3 == 1 {
			continue
		}
		stored[name] = map[string]models.SectionData{models.VersionBase: {"A1": "값", "A2": ""}}
	}
	tmpl := templateWithFields(catalog.FinancialPerformance, 3)

	result := NewComparator(cat).Compare(stored, models.NewRequirementsRecord(), tmpl)

	seen := map[string]int{}
	for _, bucket := range [][]string{result.Available, result.Partial, result.Missing} {
		for _, name := range bucket {
			seen[name]++
		}
	}
	require.Len(t, seen, cat.Len())
	for _, name := range cat.Names() {
		assert.Equal(t, 1, seen[name], name)
	}
	assert.Equal(t, models.StatusPartial, result.StatusOf(catalog.FinancialPerformance))
}

func TestCompare_Suggestions(t *testing.T) {
	req := models.NewRequirementsRecord()
	req.MandatoryInvestment = "AI 분야 60%"
	req.InvestmentAreas = []string{"AI/인공지능", "5G/6G", "블록체인", "메타버스"}

	result := Compare(models.StoredData{}, req, models.NewTemplateStructure())

	assert.Equal(t, []string{
		"AI/인공지능 투자 전략을 '2-4.투자전략 및 계획'에 추가 필요",
		"AI/인공지능 분야 투자 실적을 '2-3.주요펀드 운용 실적'에 강조",
		"5G/6G 분야 투자 실적을 '2-3.주요펀드 운용 실적'에 강조",
		"블록체인 분야 투자 실적을 '2-3.주요펀드 운용 실적'에 강조",
		"주요 데이터가 많이 누락됨. 기본 정보부터 순차적으로 입력 권장",
	}, result.Suggestions)
}

func TestCompare_NoSuggestionsWhenMostlyStored(t *testing.T) {
	stored := models.StoredData{}
	for _, name := range catalog.Default().Names() {
		stored[name] = map[string]models.SectionData{models.VersionBase: {"A1": "값"}}
	}
	result := Compare(stored, models.NewRequirementsRecord(), models.NewTemplateStructure())

	assert.Len(t, result.Available, catalog.Default().Len())
	assert.Empty(t, result.Suggestions)
	assert.NotNil(t, result.Suggestions)
}
