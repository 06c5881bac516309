package workbook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/models"
)

// ErrGenerationFailed marks a proposal workbook that could not be produced.
var ErrGenerationFailed = errors.New("proposal generation failed")

var cellAddressRegex = regexp.MustCompile(`^[A-Z]+\d+$`)

// financialFieldCells places named financial statement fields regardless of
// any cell-address keys stored for the sheet.
var financialFieldCells = []struct {
	cell  string
	field string
}{
	{"B8", "유동자산"}, {"C8", "비유동자산"}, {"D8", "자산총계"},
	{"B9", "유동부채"}, {"C9", "비유동부채"}, {"D9", "부채총계"},
	{"B10", "자본금"}, {"C10", "자본잉여금"}, {"D10", "자본총계"},
	{"B11", "매출액"}, {"C11", "영업이익"}, {"D11", "당기순이익"},
}

// IsCellAddress reports whether key names a single A1-style cell.
func IsCellAddress(key string) bool {
	return cellAddressRegex.MatchString(key)
}

// Filler writes stored section values into a copy of a template workbook.
type Filler struct {
	outputDir       string
	overrideVersion string
	logger          *zap.Logger
	now             func() time.Time
}

// NewFiller creates a filler that writes under outputDir (the OS temp dir when
// empty) and layers overrideVersion over the base version of each section.
func NewFiller(outputDir, overrideVersion string, logger *zap.Logger) *Filler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{
		outputDir:       outputDir,
		overrideVersion: overrideVersion,
		logger:          logger,
		now:             time.Now,
	}
}

// FillStats counts what happened during a fill.
type FillStats struct {
	Sheets  int
	Written int
	Skipped int
}

// Fill copies templatePath, writes stored values into it and returns the path
// of the new workbook. Cells holding formulas are never overwritten and a
// failing cell is skipped. If the workbook cannot be saved, the partial output
// is removed and an ErrGenerationFailed error is returned.
func (fl *Filler) Fill(templatePath string, stored models.StoredData) (string, error) {
	path, _, err := fl.FillWithStats(templatePath, stored)
	return path, err
}

func (fl *Filler) FillWithStats(templatePath string, stored models.StoredData) (string, FillStats, error) {
	var stats FillStats

	dir, err := os.MkdirTemp(fl.outputDir, "proposal-")
	if err != nil {
		return "", stats, fmt.Errorf("%w: create output dir: %v", ErrGenerationFailed, err)
	}
	outputPath := filepath.Join(dir, fmt.Sprintf("filled_proposal_%s.xlsx", fl.now().Format("20060102_150405")))
	discard := func() { _ = os.RemoveAll(dir) }

	if err := copyFile(templatePath, outputPath); err != nil {
		discard()
		return "", stats, fmt.Errorf("%w: copy template: %v", ErrGenerationFailed, err)
	}

	wb, err := excelize.OpenFile(outputPath)
	if err != nil {
		discard()
		return "", stats, fmt.Errorf("%w: open copy: %v", ErrGenerationFailed, err)
	}

	present := make(map[string]bool)
	for _, name := range wb.GetSheetList() {
		present[name] = true
	}

	sections := make([]string, 0, len(stored))
	for name := range stored {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, sheet := range sections {
		if !present[sheet] {
			continue
		}
		stats.Sheets++
		data := MergeVersions(stored[sheet], fl.overrideVersion)

		for _, key := range sortedKeys(data) {
			if !IsCellAddress(key) {
				continue
			}
			if fl.writeCell(wb, sheet, key, data[key]) {
				stats.Written++
			} else {
				stats.Skipped++
			}
		}

		if sheet == catalog.FinancialPerformance {
			for _, m := range financialFieldCells {
				value, ok := data[m.field]
				if !ok {
					continue
				}
				if fl.writeCell(wb, sheet, m.cell, value) {
					stats.Written++
				} else {
					stats.Skipped++
				}
			}
		}
	}

	if err := wb.SaveAs(outputPath); err != nil {
		_ = wb.Close()
		discard()
		return "", stats, fmt.Errorf("%w: save: %v", ErrGenerationFailed, err)
	}
	if err := wb.Close(); err != nil {
		fl.logger.Warn("closing filled workbook", zap.Error(err))
	}

	fl.logger.Info("proposal workbook generated",
		zap.String("path", outputPath),
		zap.Int("sheets", stats.Sheets),
		zap.Int("written", stats.Written),
		zap.Int("skipped", stats.Skipped))
	return outputPath, stats, nil
}

// MergeVersions returns the base version overlaid with the override version.
// Neither input map is modified.
func MergeVersions(versions map[string]models.SectionData, override string) models.SectionData {
	out := models.SectionData{}
	for k, v := range versions[models.VersionBase] {
		out[k] = v
	}
	if override != "" && override != models.VersionBase {
		for k, v := range versions[override] {
			out[k] = v
		}
	}
	return out
}

func (fl *Filler) writeCell(wb *excelize.File, sheet, addr string, value any) bool {
	formula, err := wb.GetCellFormula(sheet, addr)
	if err != nil {
		fl.logger.Debug("skip cell", zap.String("sheet", sheet), zap.String("cell", addr), zap.Error(err))
		return false
	}
	if formula != "" {
		return false
	}
	if existing, err := wb.GetCellValue(sheet, addr, excelize.Options{RawCellValue: true}); err == nil && strings.HasPrefix(existing, formulaMarker) {
		return false
	}

	cellValue, ok := toCellValue(value)
	if !ok {
		return false
	}
	if err := wb.SetCellValue(sheet, addr, cellValue); err != nil {
		fl.logger.Debug("skip cell", zap.String("sheet", sheet), zap.String("cell", addr), zap.Error(err))
		return false
	}
	return true
}

// toCellValue converts a decoded JSON value into something excelize can store.
func toCellValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string, bool, float64, float32, int, int64, int32:
		return v, true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", "), true
	case []string:
		return strings.Join(v, ", "), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

func sortedKeys(data models.SectionData) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return cellLess(keys[i], keys[j])
	})
	return keys
}

// cellLess orders cell addresses row-major and everything else lexically after them.
func cellLess(a, b string) bool {
	ca, ra, errA := excelize.CellNameToCoordinates(a)
	cb, rb, errB := excelize.CellNameToCoordinates(b)
	switch {
	case errA == nil && errB == nil:
		if ra != rb {
			return ra < rb
		}
		return ca < cb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
