package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/proposal-vault/internal/catalog"
)

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want []string
	}{
		{"blank string", map[string]any{"회사명": "  "}, []string{"회사명: 빈 셀 불허 (0 또는 해당 데이터 입력 필수)"}},
		{"null", map[string]any{"비고": nil}, []string{"비고: 빈 셀 불허 (0 또는 해당 데이터 입력 필수)"}},
		{"zero is present", map[string]any{"자산총계": 0.0, "비고": false}, nil},
		{"iso date", map[string]any{"설립일자": "2025-08-12"}, nil},
		{"dotted date", map[string]any{"설립일자": "2025.08.12"}, []string{"설립일자: KIF 날짜 형식은 YYYY-MM-DD"}},
		{"percent one decimal", map[string]any{"운용보수 비율": "1.5%", "IRR": 12.3}, nil},
		{"percent two decimals", map[string]any{"IRR": 12.25}, []string{"IRR: 퍼센트는 소수점 첫째 자리까지만 입력"}},
		{"falsy percent is skipped", map[string]any{"출자비율": false, "IRR": 0}, nil},
		{"zero name is skipped", map[string]any{"회사명": 0}, nil},
		{"percent not a number", map[string]any{"출자비율": "약 5%"}, []string{"출자비율: 유효한 퍼센트 값이 아님"}},
		{"amount with separators", map[string]any{"투자금액": "1,500"}, nil},
		{"amount words", map[string]any{"투자금액": "천오백억"}, []string{"투자금액: 유효한 금액이 아님"}},
		{"short name", map[string]any{"펀드명": "A"}, []string{"펀드명: 정식 명칭 입력 필요"}},
		{"full name", map[string]any{"펀드명": "케이아이에프 제1호"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.data, "")
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_CollectsEveryFailure(t *testing.T) {
	got := Validate(map[string]any{
		"펀드명":  "A",
		"설립일자": "12/08/2025",
		"비고":   "",
	}, "")

	assert.Equal(t, []string{
		"비고: 빈 셀 불허 (0 또는 해당 데이터 입력 필수)",
		"설립일자: KIF 날짜 형식은 YYYY-MM-DD",
		"펀드명: 정식 명칭 입력 필요",
	}, got)
}

func TestValidate_CareerRange(t *testing.T) {
	const rangeMsg = "경력년수: 경력년수는 0-50년 범위"

	assert.Contains(t, Validate(map[string]any{"경력년수": 55.0}, catalog.CorePersonnel), rangeMsg)
	assert.NotContains(t, Validate(map[string]any{"경력년수": 12.0}, catalog.CorePersonnel), rangeMsg)
	assert.NotContains(t, Validate(map[string]any{"경력년수": "십년"}, catalog.CorePersonnel), rangeMsg)

	assert.Empty(t, Validate(map[string]any{
		"경력년수":    12.0,
		"대표펀드매니저": "대표 홍길동",
	}, catalog.CorePersonnel))
}

func TestValidate_SectionRules(t *testing.T) {
	t.Run("financial performance", func(t *testing.T) {
		got := Validate(map[string]any{"자산총계": 10.0, "부채총계": 5.0}, catalog.FinancialPerformance)
		assert.Equal(t, []string{"재무실적: 자본 데이터 필수", "재무실적: 매출 데이터 필수"}, got)

		assert.Empty(t, Validate(map[string]any{
			"자산총계": 10.0, "부채총계": 5.0, "자본총계": 5.0, "매출액": "1,200",
		}, catalog.FinancialPerformance))
	})

	t.Run("core personnel", func(t *testing.T) {
		assert.Equal(t, []string{"핵심운용인력: 대표이사/CEO 정보 필수"},
			Validate(map[string]any{"성명": "홍길동"}, catalog.CorePersonnel))
		assert.Empty(t, Validate(map[string]any{"직위": "CEO"}, catalog.CorePersonnel))
	})

	t.Run("kif fund performance", func(t *testing.T) {
		got := Validate(map[string]any{"IRR": 8.5}, catalog.KIFFundPerformance)
		assert.Equal(t, []string{"KIF 펀드 실적: 수익률 데이터 필수", "KIF 펀드 실적: TVPI 데이터 필수"}, got)

		assert.Empty(t, Validate(map[string]any{"IRR": 8.5, "TVPI": 1.4, "수익률": "8.2"}, catalog.KIFFundPerformance))
	})

	t.Run("compliance", func(t *testing.T) {
		assert.Equal(t, []string{"준법성: 리스크 관리 체계 정보 필수"},
			Validate(map[string]any{"제재 이력": "없음"}, catalog.Compliance))
		assert.Empty(t, Validate(map[string]any{"리스크 관리 체계": "운영 중"}, catalog.Compliance))
		assert.Empty(t, Validate(map[string]any{"컴플라이언스 담당": "준법감시인"}, catalog.Compliance))
	})

	t.Run("other sections have no extra rules", func(t *testing.T) {
		assert.Empty(t, Validate(map[string]any{"비고": "없음"}, "표지"))
	})
}

func TestCheck_PrintSizeWarningDoesNotBlock(t *testing.T) {
	violations := Check(map[string]any{"사업 개요": strings.Repeat("가", PrintSizeLimit+1)}, "")

	require.Len(t, violations, 1)
	assert.True(t, violations[0].Warning)
	assert.Equal(t, printSizeWarning, violations[0].Message)
	assert.Empty(t, Blocking(violations))
	assert.Len(t, Warnings(violations), 1)

	assert.Empty(t, Check(map[string]any{"사업 개요": strings.Repeat("가", 100)}, ""))
}

func TestCheck_BlankAlwaysFails(t *testing.T) {
	for _, section := range catalog.Default().Names() {
		for _, blankValue := range []any{nil, ""} {
			got := Blocking(Check(map[string]any{"항목": blankValue}, section))
			assert.NotEmpty(t, got, section)
		}
	}
}
