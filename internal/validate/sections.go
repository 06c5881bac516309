package validate

import (
	"strconv"
	"strings"

	"github.com/david/proposal-vault/internal/catalog"
)

// sectionRule checks a whole payload. fields are the payload keys in order.
type sectionRule func(data map[string]any, fields []string) []Violation

var sectionRules = map[string]sectionRule{
	catalog.FinancialPerformance: requireKeys("재무실적", []string{"자산", "부채", "자본", "매출"}),
	catalog.CorePersonnel:        corePersonnelRule,
	catalog.KIFFundPerformance:   requireKeys("KIF 펀드 실적", []string{"수익률", "IRR", "TVPI"}),
	catalog.Compliance:           complianceRule,
}

// requireKeys reports each keyword that appears in no field name.
func requireKeys(prefix string, keywords []string) sectionRule {
	return func(_ map[string]any, fields []string) []Violation {
		var out []Violation
		for _, kw := range keywords {
			if !anyContains(fields, kw) {
				out = append(out, Violation{Message: prefix + ": " + kw + " 데이터 필수"})
			}
		}
		return out
	}
}

const (
	minCareerYears = 0
	maxCareerYears = 50
)

func corePersonnelRule(data map[string]any, fields []string) []Violation {
	var out []Violation

	hasRepresentative := false
	for _, field := range fields {
		v := text(data[field])
		if strings.Contains(v, "대표") || strings.Contains(v, "CEO") {
			hasRepresentative = true
			break
		}
	}
	if !hasRepresentative {
		out = append(out, Violation{Message: "핵심운용인력: 대표이사/CEO 정보 필수"})
	}

	for _, field := range fields {
		if !strings.Contains(field, "경력") {
			continue
		}
		years, err := strconv.ParseFloat(strings.TrimSpace(text(data[field])), 64)
		if err != nil {
			continue
		}
		if years < minCareerYears || years > maxCareerYears {
			out = append(out, Violation{Field: field, Message: field + ": 경력년수는 0-50년 범위"})
		}
	}
	return out
}

func complianceRule(_ map[string]any, fields []string) []Violation {
	if anyContains(fields, "리스크") || anyContains(fields, "컴플라이언스") {
		return nil
	}
	return []Violation{{Message: "준법성: 리스크 관리 체계 정보 필수"}}
}

func anyContains(fields []string, kw string) bool {
	for _, f := range fields {
		if strings.Contains(f, kw) {
			return true
		}
	}
	return false
}
