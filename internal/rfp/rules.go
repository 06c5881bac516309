package rfp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/david/proposal-vault/internal/models"
)

// ws matches optional whitespace, including full-width and no-break spaces
// that PDF text layers commonly emit.
const ws = `[\s\p{Zs}]*`

// labelSep is the punctuation allowed between a label and its value.
const labelSep = ws + `[:：]?` + ws + `[•∙·]?` + ws

// spaced turns a literal label into a pattern that tolerates whitespace
// between every character ("조합수" also matches "조 합 수").
func spaced(label string) string {
	var b strings.Builder
	first := true
	for _, r := range label {
		if r == ' ' {
			continue
		}
		if !first {
			b.WriteString(ws)
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
		first = false
	}
	return b.String()
}

// captureRule fills one field from the capture groups of an anchored pattern.
type captureRule struct {
	field   string
	pattern *regexp.Regexp
	format  func(groups []string) string
	assign  func(rec *models.RequirementsRecord, value string)
}

// term is a literal needle and the value emitted when it is present.
type term struct {
	needle string
	value  string
}

// presenceRule emits, in vocabulary order, the value of every present needle.
type presenceRule struct {
	field  string
	terms  []term
	assign func(rec *models.RequirementsRecord, values []string)
}

// personnelRule populates the core personnel sub-object. The minimum-count
// terms are alternatives: the first present one wins.
type personnelRule struct {
	gate    string
	minimum []term
	lead    term
	other   term
}

// isoDate assembles year, month and day groups into YYYY-MM-DD.
func isoDate(groups []string) string {
	month, _ := strconv.Atoi(groups[2])
	day, _ := strconv.Atoi(groups[3])
	return fmt.Sprintf("%s-%02d-%02d", groups[1], month, day)
}

func mustCapture(field, pattern string, format func([]string) string, assign func(*models.RequirementsRecord, string)) captureRule {
	return captureRule{field: field, pattern: regexp.MustCompile(pattern), format: format, assign: assign}
}

var dateSep = ws + `[.\-/년]` + ws

func defaultCaptureRules() []captureRule {
	return []captureRule{
		mustCapture("announcement_date",
			spaced("공고일")+labelSep+`(\d{4})`+dateSep+`(\d{1,2})`+ws+`[.\-/월]`+ws+`(\d{1,2})`,
			isoDate,
			func(r *models.RequirementsRecord, v string) { r.AnnouncementDate = v }),
		mustCapture("submission_deadline",
			spaced("접수마감")+labelSep+`(\d{4})`+ws+`[.\-/년]?`+ws+`(\d{1,2})`+ws+`[.\-/월]?`+ws+`(\d{1,2})`+ws+`일?`,
			isoDate,
			func(r *models.RequirementsRecord, v string) { r.SubmissionDeadline = v }),
		mustCapture("total_fund_size",
			spaced("출자규모")+labelSep+`(\d[\d,]*)`+ws+`억`,
			func(g []string) string { return strings.ReplaceAll(g[1], ",", "") + "억원" },
			func(r *models.RequirementsRecord, v string) { r.TotalFundSize = v }),
		mustCapture("fund_count",
			spaced("조합수")+labelSep+`(\d+)`+ws+`개`,
			func(g []string) string { return g[1] + "개" },
			func(r *models.RequirementsRecord, v string) { r.FundCount = v }),
		mustCapture("mandatory_investment",
			spaced("의무투자금액")+labelSep+`.*?(\d+)`+ws+`%`+ws+spaced("이상"),
			func(g []string) string { return g[1] + "%" },
			func(r *models.RequirementsRecord, v string) { r.MandatoryInvestment = v }),
		mustCapture("fund_duration",
			spaced("존속기간")+labelSep+`(\d+)`+ws+`년`+ws+spaced("이내"),
			func(g []string) string { return g[1] + "년 이내" },
			func(r *models.RequirementsRecord, v string) { r.FundDuration = v }),
		mustCapture("gp_contribution",
			spaced("운용사출자비율")+labelSep+spaced("약정총액의")+ws+`(\d+)`+ws+`%`+ws+spaced("이상"),
			func(g []string) string { return "약정총액의 " + g[1] + "% 이상" },
			func(r *models.RequirementsRecord, v string) { r.GPContribution = v }),
	}
}

func defaultPresenceRules() []presenceRule {
	return []presenceRule{
		{
			field: "investment_areas",
			terms: []term{
				{needle: "AI·AX 혁신", value: "AI·AX 혁신"},
				{needle: "AI·ICT", value: "AI·ICT"},
				{needle: "ICT 기술사업화", value: "ICT 기술사업화"},
				{needle: "AI 반도체", value: "AI 반도체"},
			},
			assign: func(r *models.RequirementsRecord, v []string) { r.InvestmentAreas = v },
		},
		{
			field: "evaluation_process",
			terms: []term{
				{needle: "1차심의(서류평가)", value: "1차 심의 (서류평가)"},
				{needle: "현장실사", value: "현장실사"},
				{needle: "2차심의(PT발표평가)", value: "2차 심의 (PT발표평가)"},
				{needle: "최종선정", value: "최종선정 (우선협상대상자)"},
			},
			assign: func(r *models.RequirementsRecord, v []string) { r.EvaluationProcess = v },
		},
		{
			field: "exclusion_criteria",
			terms: []term{
				{needle: "투자비율이60%미만", value: "기존 KIF 펀드 투자비율 60% 미만"},
				{needle: "2년이미경과", value: "최근 선정 후 2년 미경과"},
				{needle: "자본잠식률50%이상", value: "자본잠식률 50% 이상"},
				{needle: "감봉 이상의 제재", value: "대표펀드매니저 제재 이력 (3년 이내)"},
			},
			assign: func(r *models.RequirementsRecord, v []string) { r.ExclusionCriteria = v },
		},
		{
			field: "kif_specific_requirements",
			terms: []term{
				{needle: "KIF ERP시스템 의무 사용", value: "KIF ERP 시스템 의무 사용"},
				{needle: "수탁기관", value: "KIF 지정 수탁기관 사용"},
				{needle: "회계감사인", value: "KIF 지정 조건 만족 회계감사인"},
				{needle: "분야별 중복지원 불가", value: "분야별 중복지원 불가"},
			},
			assign: func(r *models.RequirementsRecord, v []string) { r.KIFSpecificRequirements = v },
		},
	}
}

func defaultPersonnelRule() personnelRule {
	return personnelRule{
		gate: "핵심운용인력",
		minimum: []term{
			{needle: "총3인이상", value: "3인 이상"},
			{needle: "2인이상", value: "2인 이상 (200억원 이하 펀드)"},
		},
		lead:  term{needle: "대표펀드매니저는 5년 이상", value: "5년 이상"},
		other: term{needle: "기타 핵심운용인력은3년이상", value: "3년 이상"},
	}
}
