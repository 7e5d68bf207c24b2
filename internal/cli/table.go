package cli

import (
	"io"
	"strings"
	"text/tabwriter"
)

// writeTable prints tab-aligned columns with a header row.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	all := rows
	if len(headers) > 0 {
		all = append([][]string{headers}, rows...)
	}
	for _, row := range all {
		if _, err := io.WriteString(tw, strings.Join(row, "\t")+"\n"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// formatOptional renders an unset value as "-" and an empty one as "".
func formatOptional(value string, ok bool) string {
	switch {
	case !ok:
		return "-"
	case value == "":
		return `""`
	default:
		return value
	}
}

// shorten collapses whitespace and cuts value to maxLen runes.
func shorten(value string, maxLen int) string {
	runes := []rune(strings.Join(strings.Fields(value), " "))
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen-3]) + "..."
}
