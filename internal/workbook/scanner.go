package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/models"
)

// ErrUnreadableTemplate marks a spreadsheet that could not be opened.
var ErrUnreadableTemplate = errors.New("unreadable template")

const (
	// Scan caps bound the cost of pathologically large sheets. Both are
	// exclusive: rows 1..149 and columns 1..29 are classified.
	DefaultMaxRows = 150
	DefaultMaxCols = 30

	probeRows = 20
	probeCols = 10

	maxLabelLength = 100
	formulaMarker  = "="
)

// Scanner classifies template cells into labels, formulas and data values.
type Scanner struct {
	catalog *catalog.Catalog
	maxRows int
	maxCols int
	now     func() time.Time
}

func NewScanner(c *catalog.Catalog) *Scanner {
	if c == nil {
		c = catalog.Default()
	}
	return &Scanner{
		catalog: c,
		maxRows: DefaultMaxRows,
		maxCols: DefaultMaxCols,
		now:     time.Now,
	}
}

// ScanFile opens path and scans it. On failure it returns an empty structure
// and an error wrapping ErrUnreadableTemplate.
func (s *Scanner) ScanFile(path string) (models.TemplateStructure, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.NewTemplateStructure(), fmt.Errorf("%w: %v", ErrUnreadableTemplate, err)
	}
	defer f.Close()
	return s.Scan(f), nil
}

func (s *Scanner) ScanReader(r io.Reader) (models.TemplateStructure, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.NewTemplateStructure(), fmt.Errorf("%w: %v", ErrUnreadableTemplate, err)
	}
	defer f.Close()
	return s.Scan(f), nil
}

// Scan walks every sheet that has data near its top-left corner.
func (s *Scanner) Scan(f *excelize.File) models.TemplateStructure {
	out := models.NewTemplateStructure()
	out.ScannedAt = s.now().UTC()

	sheets := f.GetSheetList()
	out.TotalSheets = len(sheets)

	// First pass: bounds and the empty-sheet probe.
	type sheetBounds struct{ rows, cols int }
	bounds := make(map[string]sheetBounds, len(sheets))
	merges := make(map[string]mergeLayout, len(sheets))
	var withData []string
	for _, name := range sheets {
		rows, cols := sheetDimensions(f, name)
		bounds[name] = sheetBounds{rows, cols}
		merges[name] = readMerges(f, name)
		if hasData(f, name, merges[name], min(rows, probeRows), min(cols, probeCols)) {
			withData = append(withData, name)
		}
	}

	// Second pass: classify cells inside the capped region.
	for _, name := range withData {
		b := bounds[name]
		sheet := s.scanSheet(f, name, merges[name], b.rows, b.cols)
		out.Sheets[name] = sheet
		out.SheetOrder = append(out.SheetOrder, name)
	}
	return out
}

func (s *Scanner) scanSheet(f *excelize.File, name string, merges mergeLayout, maxRow, maxCol int) *models.SheetStructure {
	sheet := &models.SheetStructure{
		MaxRow:        maxRow,
		MaxCol:        maxCol,
		Fields:        map[string]models.FieldCell{},
		Formulas:      map[string]string{},
		DataCells:     map[string]models.DataCell{},
		MergedCells:   append([]string{}, merges.ranges...),
		SheetCategory: models.SheetCategoryUnknown,
	}

	lastRow := min(maxRow, s.maxRows-1)
	lastCol := min(maxCol, s.maxCols-1)
	for row := 1; row <= lastRow; row++ {
		for col := 1; col <= lastCol; col++ {
			addr, err := excelize.CoordinatesToCellName(col, row)
			if err != nil || merges.covers(addr) {
				continue
			}
			c := readCell(f, name, addr)
			switch c.kind {
			case cellFormula:
				sheet.Formulas[addr] = c.text
			case cellText:
				label := strings.TrimSpace(c.text)
				if label == "" || utf8.RuneCountInString(label) >= maxLabelLength || !hasNonASCII(label) {
					continue
				}
				sheet.Fields[addr] = models.FieldCell{Label: label, Type: ClassifyLabel(label), Row: row, Col: col}
			case cellNumber:
				sheet.DataCells[addr] = models.DataCell{Value: c.number, Type: models.DataTypeNumeric, Row: row, Col: col}
			case cellDate:
				sheet.DataCells[addr] = models.DataCell{Value: c.date, Type: models.DataTypeDate, Row: row, Col: col}
			}
		}
	}

	if section, ok := s.catalog.Match(name); ok {
		sheet.MatchedConfig = section.Name
		sheet.SheetCategory = section.Category
	}
	return sheet
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellFormula
	cellText
	cellNumber
	cellDate
	cellOther
)

type cellContent struct {
	kind   cellKind
	text   string
	number float64
	date   time.Time
}

// readCell reports what a single cell holds. Formulas are returned with their
// leading marker, as they would be typed.
func readCell(f *excelize.File, sheet, addr string) cellContent {
	if formula, err := f.GetCellFormula(sheet, addr); err == nil && formula != "" {
		if !strings.HasPrefix(formula, formulaMarker) {
			formula = formulaMarker + formula
		}
		return cellContent{kind: cellFormula, text: formula}
	}

	raw, err := f.GetCellValue(sheet, addr, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return cellContent{kind: cellEmpty}
	}
	if strings.HasPrefix(raw, formulaMarker) {
		return cellContent{kind: cellFormula, text: raw}
	}

	cellType, err := f.GetCellType(sheet, addr)
	if err != nil {
		return cellContent{kind: cellOther}
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return cellContent{kind: cellText, text: raw}
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return cellContent{kind: cellDate, date: t}
		}
		return cellContent{kind: cellOther}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cellContent{kind: cellOther}
		}
		if isDateStyled(f, sheet, addr) {
			if t, err := excelize.ExcelDateToTime(n, false); err == nil {
				return cellContent{kind: cellDate, date: t}
			}
		}
		return cellContent{kind: cellNumber, number: n}
	default:
		return cellContent{kind: cellOther}
	}
}

// isDateStyled reports whether the cell's number format renders a date.
func isDateStyled(f *excelize.File, sheet, addr string) bool {
	idx, err := f.GetCellStyle(sheet, addr)
	if err != nil || idx == 0 {
		return false
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return looksLikeDateFormat(*style.CustomNumFmt)
	}
	switch {
	case style.NumFmt >= 14 && style.NumFmt <= 22, style.NumFmt >= 45 && style.NumFmt <= 47:
		return true
	}
	return false
}

func looksLikeDateFormat(format string) bool {
	lower := strings.ToLower(format)
	// Strip quoted literals so "원" or "yy" inside quotes do not count.
	var b strings.Builder
	inQuote := false
	for _, r := range lower {
		if r == '"' {
			inQuote = !inQuote
			continue
		}
		if !inQuote {
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	return strings.Contains(stripped, "yy") || strings.Contains(stripped, "dd") ||
		(strings.Contains(stripped, "m") && strings.Contains(stripped, "d"))
}

// sheetDimensions returns the used range of a sheet, taking the larger of the
// declared dimension and the populated rows.
func sheetDimensions(f *excelize.File, sheet string) (rows, cols int) {
	if dim, err := f.GetSheetDimension(sheet); err == nil && dim != "" {
		parts := strings.Split(dim, ":")
		if c, r, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil {
			rows, cols = r, c
		}
	}
	if all, err := f.GetRows(sheet, excelize.Options{RawCellValue: true}); err == nil {
		rows = max(rows, len(all))
		for _, r := range all {
			cols = max(cols, len(r))
		}
	}
	return rows, cols
}

// mergeLayout lists a sheet's merged ranges and the cells they cover. Only
// the top-left anchor of a range holds a value; excelize reports the anchor's
// value for every covered cell, so covered cells are treated as empty.
type mergeLayout struct {
	ranges  []string
	covered map[string]struct{}
}

func (m mergeLayout) covers(addr string) bool {
	_, ok := m.covered[addr]
	return ok
}

func readMerges(f *excelize.File, sheet string) mergeLayout {
	layout := mergeLayout{covered: map[string]struct{}{}}
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return layout
	}
	for _, mc := range merged {
		start, end := mc.GetStartAxis(), mc.GetEndAxis()
		layout.ranges = append(layout.ranges, start+":"+end)

		c1, r1, err := excelize.CellNameToCoordinates(start)
		if err != nil {
			continue
		}
		c2, r2, err := excelize.CellNameToCoordinates(end)
		if err != nil {
			continue
		}
		for row := min(r1, r2); row <= max(r1, r2); row++ {
			for col := min(c1, c2); col <= max(c1, c2); col++ {
				if row == r1 && col == c1 {
					continue
				}
				if addr, err := excelize.CoordinatesToCellName(col, row); err == nil {
					layout.covered[addr] = struct{}{}
				}
			}
		}
	}
	return layout
}

func hasData(f *excelize.File, sheet string, merges mergeLayout, rows, cols int) bool {
	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			addr, err := excelize.CoordinatesToCellName(col, row)
			if err != nil || merges.covers(addr) {
				continue
			}
			c := readCell(f, sheet, addr)
			if c.kind == cellEmpty {
				continue
			}
			if c.kind == cellText && strings.TrimSpace(c.text) == "" {
				continue
			}
			return true
		}
	}
	return false
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}
