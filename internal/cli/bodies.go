package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
)

type bodiesOutput struct {
	Count  int          `json:"count" yaml:"count"`
	Types  []string     `json:"types" yaml:"types"`
	Bodies []bodies.Row `json:"bodies" yaml:"bodies"`
}

func (c *cli) newBodiesCmd() *cobra.Command {
	var (
		typ    string
		format string
	)
	cmd := &cobra.Command{
		Use:     "bodies",
		Short:   "List planetary bodies",
		Args:    cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error { return checkFormat(format) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, _ := c.app.tracker.Bodies(cmd.Context())
			rows := bodies.Rows(list)
			matched := bodies.FilterRows(rows, typ)
			if matched == nil {
				matched = []bodies.Row{}
			}

			w := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(w, format, bodiesOutput{
					Count:  len(matched),
					Types:  bodies.Types(rows),
					Bodies: matched,
				})
			}

			st := newStyles()
			if len(rows) == 0 {
				printWarning(cmd.ErrOrStderr(), st, "planetary bodies feed unavailable")
			}
			if len(matched) == 0 {
				printEmpty(w, st, "No bodies to show.")
				return nil
			}
			table := make([][]string, 0, len(matched))
			for _, r := range matched {
				mass := "-"
				if r.MassKg != nil {
					mass = strconv.FormatFloat(*r.MassKg, 'e', 4, 64)
				}
				table = append(table, []string{
					r.Name,
					r.Type,
					mass,
					strconv.FormatFloat(r.Gravity, 'f', 2, 64),
					strconv.FormatFloat(r.MeanRadiusKm, 'f', 1, 64),
					strconv.FormatFloat(r.SideralOrbitDays, 'f', 2, 64),
				})
			}
			printSection(w, st, "Planetary bodies",
				renderTable(st, []string{"Name", "Type", "Mass (kg)", "Gravity", "Mean radius (km)", "Orbit (days)"}, table),
				fmt.Sprintf("Bodies loaded: %d", len(rows)),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "body type (\"All\" for any)")
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")

	cmd.AddCommand(c.newBodyShowCmd())
	return cmd
}

func (c *cli) newBodyShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "show NAME",
		Short:   "Show every field of one body",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error { return checkFormat(format) },
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _ := c.app.tracker.Bodies(cmd.Context())
			b, ok := bodies.Find(list, args[0])
			if !ok {
				return fmt.Errorf("body %q not found", args[0])
			}
			if format == formatTable {
				format = formatJSON
			}
			return writeStructured(cmd.OutOrStdout(), format, b)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatJSON, "output format: json or yaml")
	return cmd
}
