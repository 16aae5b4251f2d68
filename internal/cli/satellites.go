package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ADITYAK333/satellite-tracker/internal/tracker"
)

type satellitesOutput struct {
	EvaluatedAt time.Time                `json:"evaluated_at" yaml:"evaluated_at"`
	Count       int                      `json:"count" yaml:"count"`
	Total       int                      `json:"total" yaml:"total"`
	Report      tracker.ReportSummary    `json:"report" yaml:"report"`
	Satellites  []tracker.PositionRecord `json:"satellites" yaml:"satellites"`
}

func (c *cli) newSatellitesCmd() *cobra.Command {
	var (
		q      tracker.Query
		format string
	)
	cmd := &cobra.Command{
		Use:     "satellites",
		Aliases: []string{"sats"},
		Short:   "Show every satellite at its current sub-point",
		Args:    cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error { return checkFormat(format) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			frame, err := c.app.tracker.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			matched := tracker.Filter(frame, q)
			if matched == nil {
				matched = []tracker.PositionRecord{}
			}

			w := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(w, format, satellitesOutput{
					EvaluatedAt: frame.EvaluatedAt,
					Count:       len(matched),
					Total:       len(frame.Records),
					Report:      frame.Report.Summary(),
					Satellites:  matched,
				})
			}

			st := newStyles()
			if failed := frame.Report.FailedCategories(); len(failed) > 0 {
				printWarning(cmd.ErrOrStderr(), st, "unavailable categories: %s", strings.Join(failed, ", "))
			}
			if len(matched) == 0 {
				printEmpty(w, st, "No satellites match.")
				_, _ = fmt.Fprintf(w, "Satellites loaded: %d\n", len(frame.Records))
				return nil
			}
			rows := make([][]string, 0, len(matched))
			for _, r := range matched {
				rows = append(rows, []string{
					r.Name,
					noradID(r.NORADID),
					strconv.FormatFloat(r.Latitude, 'f', 4, 64),
					strconv.FormatFloat(r.Longitude, 'f', 4, 64),
					strconv.FormatFloat(r.AltitudeKm, 'f', 1, 64),
					r.Country,
					r.Type,
				})
			}
			printSection(w, st,
				"Satellites at "+frame.EvaluatedAt.Format(time.RFC3339),
				renderTable(st, []string{"Name", "NORAD", "Latitude", "Longitude", "Altitude (km)", "Country", "Type"}, rows),
				fmt.Sprintf("Satellites loaded: %d", len(frame.Records)),
				fmt.Sprintf("Shown: %d  Malformed: %d  Skipped: %d", len(matched), frame.Report.Malformed, frame.Report.PropagationSkipped),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "case-insensitive name substring")
	cmd.Flags().StringVarP(&q.Type, "type", "t", "", "exact type tag (\"All\" for any)")
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")

	cmd.AddCommand(c.newSatelliteTypesCmd(), c.newSatelliteShowCmd())
	return cmd
}

func (c *cli) newSatelliteTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the type tags present in the current frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			frame, err := c.app.tracker.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tracker.Types(frame) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func (c *cli) newSatelliteShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "show NAME",
		Short:   "Show one satellite with its element set",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error { return checkFormat(format) },
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := c.app.tracker.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			rec, ok := tracker.Lookup(frame, args[0])
			if !ok {
				return fmt.Errorf("satellite %q not found", args[0])
			}
			w := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(w, format, rec)
			}
			st := newStyles()
			printSection(w, st, rec.Name, renderTable(st, []string{"Field", "Value"}, [][]string{
				{"NORAD", noradID(rec.NORADID)},
				{"Latitude", strconv.FormatFloat(rec.Latitude, 'f', 4, 64)},
				{"Longitude", strconv.FormatFloat(rec.Longitude, 'f', 4, 64)},
				{"Altitude (km)", strconv.FormatFloat(rec.AltitudeKm, 'f', 1, 64)},
				{"Country", rec.Country},
				{"Type", rec.Type},
			}), rec.Line1, rec.Line2)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

func noradID(id int) string {
	if id == 0 {
		return "-"
	}
	return strconv.Itoa(id)
}
