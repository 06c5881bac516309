package workbook

import (
	"strings"

	"github.com/david/proposal-vault/internal/models"
)

// fieldDictionary is one semantic type and the keywords that select it.
type fieldDictionary struct {
	fieldType string
	keywords  []string
}

// fieldDictionaries are tried in order; the first with a keyword contained in
// the label decides the type.
var fieldDictionaries = []fieldDictionary{
	{models.FieldTypeFinancial, []string{"자산", "자본", "매출", "이익", "부채", "자본금", "잉여금", "현금", "투자", "손익", "수익", "비용", "감가상각"}},
	{models.FieldTypePersonnel, []string{"성명", "직위", "경력", "학력", "자격", "담당", "인원", "조직", "부서", "팀"}},
	{models.FieldTypeFund, []string{"펀드", "규모", "기간", "수익률", "배수", "IRR", "TVPI", "DPI", "투자금액", "회수금액"}},
	{models.FieldTypeStrategy, []string{"전략", "계획", "목표", "분야", "섹터", "단계", "정책", "방향", "포트폴리오"}},
	{models.FieldTypeCompliance, []string{"컴플라이언스", "리스크", "관리", "체계", "절차", "제재", "소송", "분쟁"}},
	{models.FieldTypeFees, []string{"보수", "수수료", "비용", "요율", "관리보수", "성과보수", "운용보수"}},
	{models.FieldTypeDates, []string{"일자", "날짜", "기간", "년도", "월", "일", "시점", "기준일"}},
	{models.FieldTypeAmounts, []string{"금액", "원", "억원", "백만원", "천원", "달러", "규모", "가치", "평가액"}},
}

// ClassifyLabel returns the semantic type of a label, or "general".
func ClassifyLabel(label string) string {
	for _, dict := range fieldDictionaries {
		for _, kw := range dict.keywords {
			if strings.Contains(label, kw) {
				return dict.fieldType
			}
		}
	}
	return models.FieldTypeGeneral
}
