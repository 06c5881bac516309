package workbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/david/proposal-vault/internal/catalog"
)

const (
	complianceSheet = "1-3.준법성"
	notesSheet      = "Notes"
)

// writeTemplate saves a small KIF-style workbook and returns its path.
func writeTemplate(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	fin := catalog.FinancialPerformance
	for _, name := range []string{fin, complianceSheet, notesSheet} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	set := func(sheet, cell string, v any) {
		t.Helper()
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}

	set(fin, "A1", "재무실적 (단위: 백만원)")
	set(fin, "A2", "Total")
	set(fin, "A3", strings.Repeat("가", 100))
	set(fin, "E2", time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC))
	set(fin, "F2", true)
	set(fin, "B7", "유동자산")
	set(fin, "C7", "비유동자산")
	set(fin, "A8", "자산")
	set(fin, "B8", 100)
	set(fin, "C8", 200)
	require.NoError(t, f.SetCellFormula(fin, "D8", "SUM(B8:C8)"))
	set(fin, "A9", "성명")
	set(fin, "B9", 10)
	set(fin, "C9", 20)
	require.NoError(t, f.SetCellFormula(fin, "D9", "B9+C9"))
	set(fin, "A10", "기타")
	set(fin, "A151", "범위 밖 항목")
	set(fin, "AE1", "열 밖 항목")
	require.NoError(t, f.MergeCell(fin, "A1", "D1"))

	set(complianceSheet, "A1", "리스크 관리 체계")
	set(complianceSheet, "B2", 3.5)

	// Data only outside the 20x10 probe region.
	set(notesSheet, "K25", "메모")

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
