package workbook

import "github.com/david/proposal-vault/internal/models"

// Summarize counts sheets, fields and formulas of a scanned template and lists
// the sheets that matched no catalog entry.
func Summarize(t models.TemplateStructure) models.TemplateSummary {
	summary := models.TemplateSummary{
		TotalSheets:    t.TotalSheets,
		DataSheets:     len(t.Sheets),
		FieldTypes:     map[string]int{},
		UnmatchedSheet: []string{},
	}
	for _, name := range t.SheetOrder {
		sheet := t.Sheets[name]
		if sheet == nil {
			continue
		}
		summary.FieldCount += len(sheet.Fields)
		summary.FormulaCount += len(sheet.Formulas)
		for _, field := range sheet.Fields {
			summary.FieldTypes[field.Type]++
		}
		if sheet.MatchedConfig == "" {
			summary.UnmatchedSheet = append(summary.UnmatchedSheet, name)
		}
	}
	return summary
}

// FieldCount returns the number of labels detected for a catalog section: the
// sheet of that exact name when present, otherwise the first sheet matched to it.
func FieldCount(t models.TemplateStructure, section string) int {
	if sheet := t.Sheet(section); sheet != nil {
		return len(sheet.Fields)
	}
	for _, name := range t.SheetOrder {
		if sheet := t.Sheets[name]; sheet != nil && sheet.MatchedConfig == section {
			return len(sheet.Fields)
		}
	}
	return 0
}
