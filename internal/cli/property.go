package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ADITYAK333/satellite-tracker/internal/property"
)

func (c *cli) newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property",
		Aliases: []string{"properties"},
		Short:   "Manage property listings",
	}
	cmd.AddCommand(
		c.newPropertyAddCmd(),
		c.newPropertyListCmd(),
		c.newPropertyDeleteCmd(),
	)
	return cmd
}

func (c *cli) newPropertyAddCmd() *cobra.Command {
	var form property.Form
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// An incomplete form never opens the store.
			if err := form.Validate(); err != nil {
				return err
			}
			repo, err := c.app.openProperties(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			p, err := form.Submit(cmd.Context(), repo)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Property added successfully")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), property.Format(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "property name")
	cmd.Flags().StringVar(&form.Location, "location", "", "location")
	cmd.Flags().StringVar(&form.Price, "price", "", "price")
	cmd.Flags().StringVar(&form.Size, "size", "", "size in sq ft")
	return cmd
}

func (c *cli) newPropertyListCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List properties",
		Args:    cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error { return checkFormat(format) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := c.app.openProperties(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			list, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if format != formatTable {
				return writeStructured(w, format, list)
			}
			if len(list) == 0 {
				printEmpty(w, newStyles(), "No properties.")
				return nil
			}
			for _, p := range list {
				_, _ = fmt.Fprintln(w, property.Format(p))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

func (c *cli) newPropertyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID|LINE",
		Short: "Delete a property by id or by a line printed by list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := selectionID(args[0])
			if err != nil {
				return err
			}
			repo, err := c.app.openProperties(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			var form property.Form
			form.Select(id)
			if err := form.DeleteSelected(cmd.Context(), repo); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Property %d deleted\n", id)
			return nil
		},
	}
}

// selectionID accepts a bare id or a formatted listing line.
func selectionID(arg string) (int64, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, nil
	}
	return property.ParseID(arg)
}
