package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type styles struct {
	title   lipgloss.Style
	summary lipgloss.Style
	warning lipgloss.Style
	empty   lipgloss.Style
	border  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		summary: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:   lipgloss.NewStyle().Faint(true),
		border:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want table, json or yaml)", format)
	}
}

// writeStructured encodes v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return checkFormat(format)
	}
}

func renderTable(st styles, headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers(headers...).
		Rows(rows...).
		String()
}

func printSection(w io.Writer, st styles, title string, body string, summary ...string) {
	_, _ = fmt.Fprintln(w, st.title.Render(title))
	_, _ = fmt.Fprintln(w, body)
	for _, s := range summary {
		_, _ = fmt.Fprintln(w, st.summary.Render(s))
	}
}

func printEmpty(w io.Writer, st styles, msg string) {
	_, _ = fmt.Fprintln(w, st.empty.Render(msg))
}

func printWarning(w io.Writer, st styles, format string, args ...any) {
	_, _ = fmt.Fprintln(w, st.warning.Render(strings.TrimSpace(fmt.Sprintf(format, args...))))
}
