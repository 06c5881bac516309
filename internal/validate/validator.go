// Package validate checks section payloads before they are stored.
package validate

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// PrintSizeLimit is the serialized payload size above which a section is
// unlikely to fit its printed A4 page.
const PrintSizeLimit = 10000

const printSizeWarning = "주의: 데이터가 A4 인쇄 크기를 초과할 수 있음"

// Violation is one failed rule. Warnings are reported but do not block a save.
type Violation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Warning bool   `json:"warning,omitempty"`
}

func (v Violation) String() string { return v.Message }

var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// fieldRule applies to every field whose name contains one of its keywords.
type fieldRule struct {
	keywords []string
	check    func(field string, value any) []string
}

func (r fieldRule) appliesTo(field string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(field, kw) {
			return true
		}
	}
	return false
}

// fieldRules run in order against each non-blank value.
var fieldRules = []fieldRule{
	{
		keywords: []string{"일자", "날짜", "기간", "년도"},
		check: func(field string, value any) []string {
			if truthy(value) && !isoDateRegex.MatchString(text(value)) {
				return []string{field + ": KIF 날짜 형식은 YYYY-MM-DD"}
			}
			return nil
		},
	},
	{
		keywords: []string{"비율", "%", "IRR"},
		check: func(field string, value any) []string {
			if !truthy(value) {
				return nil
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text(value), "%", "")), 64)
			if err != nil {
				return []string{field + ": 유효한 퍼센트 값이 아님"}
			}
			if math.Abs(n-math.Round(n*10)/10) > 0.01 {
				return []string{field + ": 퍼센트는 소수점 첫째 자리까지만 입력"}
			}
			return nil
		},
	},
	{
		keywords: []string{"금액", "규모", "자산", "자본", "매출", "투자"},
		check: func(field string, value any) []string {
			if !truthy(value) {
				return nil
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text(value), ",", "")), 64); err != nil {
				return []string{field + ": 유효한 금액이 아님"}
			}
			return nil
		},
	},
	{
		keywords: []string{"회사명", "펀드명", "법인명"},
		check: func(field string, value any) []string {
			if truthy(value) && utf8.RuneCountInString(text(value)) < 2 {
				return []string{field + ": 정식 명칭 입력 필요"}
			}
			return nil
		},
	},
}

// Validate returns every violation message for data saved under section.
func Validate(data map[string]any, section string) []string {
	violations := Check(data, section)
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return out
}

// Check runs all applicable rules and collects every failure. Fields are
// visited in name order so the result is stable.
func Check(data map[string]any, section string) []Violation {
	var out []Violation

	fields := make([]string, 0, len(data))
	for field := range data {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := data[field]
		if blank(value) {
			out = append(out, Violation{Field: field, Message: field + ": 빈 셀 불허 (0 또는 해당 데이터 입력 필수)"})
			continue
		}
		for _, rule := range fieldRules {
			if !rule.appliesTo(field) {
				continue
			}
			for _, msg := range rule.check(field, value) {
				out = append(out, Violation{Field: field, Message: msg})
			}
		}
	}

	if rule, ok := sectionRules[section]; ok {
		out = append(out, rule(data, fields)...)
	}

	if serializedLength(data) > PrintSizeLimit {
		out = append(out, Violation{Message: printSizeWarning, Warning: true})
	}
	return out
}

// Blocking returns the violations that must prevent a save.
func Blocking(violations []Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		if !v.Warning {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns the advisory violations.
func Warnings(violations []Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Warning {
			out = append(out, v)
		}
	}
	return out
}

// blank reports a missing value. Zero and false are present values.
func blank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case int32:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}

// text renders a decoded JSON value the way a user typed it.
func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	}
	b, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(b)
}

func serializedLength(data map[string]any) int {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return 0
	}
	return utf8.RuneCount(bytes.TrimSpace(buf.Bytes()))
}

