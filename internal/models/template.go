package models

import "time"

// Semantic field types assigned by the template scanner.
const (
	FieldTypeFinancial  = "financial"
	FieldTypePersonnel  = "personnel"
	FieldTypeFund       = "fund"
	FieldTypeStrategy   = "strategy"
	FieldTypeCompliance = "compliance"
	FieldTypeFees       = "fees"
	FieldTypeDates      = "dates"
	FieldTypeAmounts    = "amounts"
	FieldTypeGeneral    = "general"
)

// Data cell type tags.
const (
	DataTypeNumeric = "numeric"
	DataTypeDate    = "date"
)

// SheetCategoryUnknown is used for sheets that match no catalog entry.
const SheetCategoryUnknown = "unknown"

type FieldCell struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

type DataCell struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// SheetStructure is the scan result for a single worksheet.
type SheetStructure struct {
	MaxRow        int                  `json:"max_row"`
	MaxCol        int                  `json:"max_col"`
	Fields        map[string]FieldCell `json:"fields"`
	Formulas      map[string]string    `json:"formulas"`
	DataCells     map[string]DataCell  `json:"data_cells"`
	MergedCells   []string             `json:"merged_cells"`
	MatchedConfig string               `json:"matched_config,omitempty"`
	SheetCategory string               `json:"sheet_category"`
}

// TemplateStructure is keyed by sheet name. SheetOrder keeps workbook order.
type TemplateStructure struct {
	Sheets      map[string]*SheetStructure `json:"sheets"`
	SheetOrder  []string                   `json:"sheet_order"`
	TotalSheets int                        `json:"total_sheets"`
	ScannedAt   time.Time                  `json:"scanned_at"`
}

// NewTemplateStructure returns an empty structure.
func NewTemplateStructure() TemplateStructure {
	return TemplateStructure{Sheets: map[string]*SheetStructure{}, SheetOrder: []string{}}
}

// Sheet returns the named sheet or nil.
func (t TemplateStructure) Sheet(name string) *SheetStructure {
	if t.Sheets == nil {
		return nil
	}
	return t.Sheets[name]
}
