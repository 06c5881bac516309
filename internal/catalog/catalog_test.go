package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasNineteenOrderedSections(t *testing.T) {
	c := Default()
	require.Equal(t, 19, c.Len())

	names := c.Names()
	assert.Equal(t, "표지", names[0])
	assert.Equal(t, "3-4.개별 투자실적3", names[len(names)-1])

	s, ok := c.Lookup(FinancialPerformance)
	require.True(t, ok)
	assert.Equal(t, "high", s.Reusability)
	assert.Equal(t, "재무정보", s.Category)

	for _, name := range []string{Compliance, CorePersonnel, KIFFundPerformance} {
		assert.True(t, c.Contains(name), name)
	}
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"기본정보", "펀드구성", "재무정보", "컴플라이언스", "인력정보", "운용실적", "투자실적"},
		Default().Categories())
}

func TestMatch(t *testing.T) {
	c := Default()
	tests := []struct {
		sheet string
		want  string
		found bool
	}{
		{sheet: "1-2.재무실적", want: "1-2.재무실적", found: true},
		{sheet: "(양식) 1-3.준법성", want: "1-3.준법성", found: true},
		{sheet: "재무실적 요약", want: "1-2.재무실적", found: true},
		// First token hit wins even when a longer entry fits better.
		{sheet: "2-1-1.청산펀드 세부1", want: "1-1.펀드체계 제안", found: true},
		{sheet: "Sheet1", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			got, ok := c.Match(tt.sheet)
			require.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":        "sections: []",
		"blank name":   "sections:\n  - name: ' '\n    reusability: low",
		"duplicate":    "sections:\n  - {name: a, reusability: low}\n  - {name: a, reusability: high}",
		"bad tier":     "sections:\n  - {name: a, reusability: extreme}",
		"invalid yaml": "sections: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EmptyPathUsesEmbedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), c)
}
