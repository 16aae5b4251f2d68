package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	firstDigits  = regexp.MustCompile(`\d+`)
	firstDecimal = regexp.MustCompile(`[\d.]+`)
	percent      = regexp.MustCompile(`(\d+)%`)
)

// Rule derives a numeric column from a source column. Target may equal
// Source, in which case the column is replaced in place.
type Rule struct {
	Source  string
	Target  string
	Extract func(string) (float64, bool)
}

// Rules are applied in order; a rule whose source column is absent is skipped.
var Rules = []Rule{
	{Source: "Price", Target: "Price (INR)", Extract: amount},
	{Source: "Rating Value", Target: "Rating", Extract: rating},
	{Source: "Rating Count", Target: "Rating Count", Extract: count},
	{Source: "Original Price", Target: "Original Price (INR)", Extract: amount},
	{Source: "Discount Percentage", Target: "Discount (%)", Extract: discount},
}

// RuleResult counts how many cells one rule could convert.
type RuleResult struct {
	Source  string `json:"source" yaml:"source"`
	Target  string `json:"target" yaml:"target"`
	Parsed  int    `json:"parsed" yaml:"parsed"`
	Missing int    `json:"missing" yaml:"missing"`
}

// Clean returns a copy of t with every applicable rule applied. New target
// columns are appended in rule order.
func Clean(t Table) (Table, []RuleResult) {
	out := Table{
		Sheet:   t.Sheet,
		Columns: append([]string{}, t.Columns...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]any{}, r...)
	}

	var results []RuleResult
	for _, rule := range Rules {
		src := out.Column(rule.Source)
		if src < 0 {
			continue
		}
		dst := out.Column(rule.Target)
		if dst < 0 {
			out.Columns = append(out.Columns, rule.Target)
			dst = len(out.Columns) - 1
			for i := range out.Rows {
				out.Rows[i] = append(out.Rows[i], nil)
			}
		}

		res := RuleResult{Source: rule.Source, Target: rule.Target}
		for _, row := range out.Rows {
			v, ok := rule.Extract(cellText(row[src]))
			if !ok {
				row[dst] = nil
				res.Missing++
				continue
			}
			row[dst] = v
			res.Parsed++
		}
		results = append(results, res)
	}
	return out, results
}

func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}

// amount strips rupee signs and thousands separators and keeps the first run
// of digits: "₹1,299.00" is 1299.
func amount(s string) (float64, bool) {
	s = strings.NewReplacer("₹", "", ",", "").Replace(s)
	return parseMatch(firstDigits.FindString(s))
}

// rating keeps the first run of digits and dots: "4.3 out of 5" is 4.3.
func rating(s string) (float64, bool) {
	return parseMatch(firstDecimal.FindString(s))
}

// count drops thousands separators and keeps the first run of digits.
func count(s string) (float64, bool) {
	return parseMatch(firstDigits.FindString(strings.ReplaceAll(s, ",", "")))
}

// discount keeps the digits directly before a percent sign: "40% off" is 40.
func discount(s string) (float64, bool) {
	m := percent.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseMatch(m[1])
}

func parseMatch(m string) (float64, bool) {
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
