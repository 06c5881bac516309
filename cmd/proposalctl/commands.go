package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/proposal-vault/internal/analysis"
	"github.com/david/proposal-vault/internal/models"
	"github.com/david/proposal-vault/internal/rfp"
	"github.com/david/proposal-vault/internal/validate"
	"github.com/david/proposal-vault/internal/workbook"
)

func (c *cli) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <document>",
		Short: "Extract requirements from an RFP announcement (PDF, HTML or text)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := rfp.ExtractFile(args[0])
			if err != nil {
				c.logger.Warn("document unreadable; requirements are empty", zap.String("file", args[0]), zap.Error(err))
			}
			out := cmd.OutOrStdout()
			if c.jsonOutput {
				return writeJSON(out, rec)
			}

			var fields map[string]any
			raw, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, &fields); err != nil {
				return err
			}
			t := c.newTable(out, table.Row{"Field", "Value"})
			for _, name := range rfp.NewExtractor().Fields() {
				t.AppendRow(table.Row{name, renderValue(fields[name])})
			}
			t.Render()
			return nil
		},
	}
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, val[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(val)
	}
}

func (c *cli) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <template.xlsx>",
		Short: "Scan an Excel template for labels, formulas and data cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := workbook.NewScanner(c.catalog).ScanFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			summary := workbook.Summarize(tmpl)
			if c.jsonOutput {
				return writeJSON(out, map[string]any{"template": tmpl, "summary": summary})
			}

			t := c.newTable(out, table.Row{"Sheet", "Matched Section", "Category", "Fields", "Formulas", "Data Cells", "Merged"})
			for _, name := range tmpl.SheetOrder {
				sheet := tmpl.Sheets[name]
				t.AppendRow(table.Row{name, sheet.MatchedConfig, sheet.SheetCategory,
					len(sheet.Fields), len(sheet.Formulas), len(sheet.DataCells), len(sheet.MergedCells)})
			}
			t.AppendFooter(table.Row{"Total", fmt.Sprintf("%d of %d sheets", summary.DataSheets, summary.TotalSheets), "",
				summary.FieldCount, summary.FormulaCount, "", ""})
			t.Render()
			return nil
		},
	}
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <section> <data.json>",
		Short: "Validate a section payload and report every violation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := args[0]
			if !c.catalog.Contains(section) {
				c.logger.Warn("section is not in the catalog; only field rules apply", zap.String("section", section))
			}
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			var data map[string]any
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("decode %s: %w", args[1], err)
			}

			violations := validate.Check(data, section)
			out := cmd.OutOrStdout()
			if c.jsonOutput {
				if err := writeJSON(out, violations); err != nil {
					return err
				}
			} else if len(violations) == 0 {
				fmt.Fprintln(out, "OK")
			} else {
				t := c.newTable(out, table.Row{"Field", "Message", "Blocking"})
				for _, v := range violations {
					t.AppendRow(table.Row{v.Field, v.Message, !v.Warning})
				}
				t.Render()
			}

			if n := len(validate.Blocking(violations)); n > 0 {
				return fmt.Errorf("%d blocking violation(s)", n)
			}
			return nil
		},
	}
}

func (c *cli) fillCmd() *cobra.Command {
	var outDir, override string
	cmd := &cobra.Command{
		Use:   "fill <template.xlsx> <stored.json>",
		Short: "Write stored section data into a copy of the template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := readStored(args[1])
			if err != nil {
				return err
			}
			path, stats, err := workbook.NewFiller(outDir, override, c.logger).FillWithStats(args[0], stored)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c.jsonOutput {
				return writeJSON(out, map[string]any{"path": path, "sheets": stats.Sheets, "written": stats.Written, "skipped": stats.Skipped})
			}
			t := c.newTable(out, table.Row{"Output", "Sheets", "Written", "Skipped"})
			t.AppendRow(table.Row{path, stats.Sheets, stats.Written, stats.Skipped})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (OS temp dir when empty)")
	cmd.Flags().StringVar(&override, "override", models.VersionKIF, "version layered over base")
	return cmd
}

func (c *cli) compareCmd() *cobra.Command {
	var rfpPath, templatePath string
	cmd := &cobra.Command{
		Use:   "compare <stored.json>",
		Short: "Bucket catalog sections by completeness and print suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := readStored(args[0])
			if err != nil {
				return err
			}

			req := models.NewRequirementsRecord()
			if rfpPath != "" {
				if req, err = rfp.ExtractFile(rfpPath); err != nil {
					c.logger.Warn("document unreadable; requirements are empty", zap.String("file", rfpPath), zap.Error(err))
				}
			}
			tmpl := models.NewTemplateStructure()
			if templatePath != "" {
				if tmpl, err = workbook.NewScanner(c.catalog).ScanFile(templatePath); err != nil {
					if !errors.Is(err, workbook.ErrUnreadableTemplate) {
						return err
					}
					c.logger.Warn("template unreadable; field counts are unknown", zap.String("file", templatePath), zap.Error(err))
				}
			}

			result := analysis.NewComparator(c.catalog).Compare(stored, req, tmpl)
			progress := analysis.CategoryProgress(c.catalog, result)
			out := cmd.OutOrStdout()
			if c.jsonOutput {
				return writeJSON(out, map[string]any{"comparison": result, "progress": progress})
			}

			t := c.newTable(out, table.Row{"Section", "Category", "Status"})
			for _, section := range c.catalog.Sections() {
				t.AppendRow(table.Row{section.Name, section.Category, result.StatusOf(section.Name)})
			}
			t.Render()

			p := c.newTable(out, table.Row{"Category", "Complete", "Total", "%"})
			for _, cp := range progress {
				p.AppendRow(table.Row{cp.Category, cp.Complete, cp.Total, fmt.Sprintf("%.0f", cp.Percentage)})
			}
			p.Render()

			for _, s := range result.Suggestions {
				fmt.Fprintln(out, "• "+s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rfpPath, "rfp", "", "RFP announcement to extract requirements from")
	cmd.Flags().StringVar(&templatePath, "template", "", "Excel template used for field counts")
	return cmd
}
