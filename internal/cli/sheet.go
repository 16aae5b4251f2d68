package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ADITYAK333/satellite-tracker/internal/sheet"
)

type sheetOutput struct {
	sheet.Table `yaml:",inline"`

	Rules []sheet.RuleResult `json:"rules" yaml:"rules"`
}

func (c *cli) newSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Inspect and clean product listing workbooks (.xlsx)",
	}
	cmd.AddCommand(c.newSheetListCmd(), c.newSheetCleanCmd())
	return cmd
}

func (c *cli) newSheetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE",
		Short: "List the sheets in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := sheet.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = wb.Close() }()

			for _, name := range wb.Sheets() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *cli) newSheetCleanCmd() *cobra.Command {
	var (
		name   string
		format string
	)
	cmd := &cobra.Command{
		Use:     "clean FILE",
		Short:   "Normalise price, rating and discount columns of one sheet",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error { return checkFormat(format) },
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := sheet.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = wb.Close() }()

			raw, err := wb.Read(name)
			if err != nil {
				return err
			}
			cleaned, results := sheet.Clean(raw)
			c.app.logger.Debug("sheet cleaned",
				"file", args[0],
				"sheet", cleaned.Sheet,
				"rows", len(cleaned.Rows),
				"rules", len(results),
			)

			w := cmd.OutOrStdout()
			if format != formatTable {
				if results == nil {
					results = []sheet.RuleResult{}
				}
				return writeStructured(w, format, sheetOutput{Table: cleaned, Rules: results})
			}

			st := newStyles()
			if len(results) == 0 {
				printWarning(cmd.ErrOrStderr(), st, "no known columns to clean in sheet %q", cleaned.Sheet)
			}
			if len(cleaned.Rows) == 0 {
				printEmpty(w, st, "No rows.")
				return nil
			}
			rows := make([][]string, 0, len(cleaned.Rows))
			for _, r := range cleaned.Rows {
				cells := make([]string, len(r))
				for i, v := range r {
					cells[i] = cellString(v)
				}
				rows = append(rows, cells)
			}
			summary := make([]string, 0, len(results)+1)
			summary = append(summary, fmt.Sprintf("Rows: %d", len(cleaned.Rows)))
			for _, res := range results {
				summary = append(summary, fmt.Sprintf("%s -> %s: %d parsed, %d missing", res.Source, res.Target, res.Parsed, res.Missing))
			}
			printSection(w, st, "Sheet "+cleaned.Sheet, renderTable(st, cleaned.Columns, rows), summary...)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "sheet", "", "sheet name (default: first sheet)")
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
