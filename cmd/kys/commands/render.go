package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

// summaryRows flattens a summary into sorted metric/value rows. Breakdown maps render
// as "key=value" lists in one cell.
func summaryRows(summary any) ([][]string, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, errors.Wrap(err, "encode summary")
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrap(err, "decode summary")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, formatValue(fields[name])})
	}
	return rows, nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case map[string]any:
		if len(v) == 0 {
			return "-"
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(v[k])))
		}
		return strings.Join(parts, ", ")
	case float64:
		return fmt.Sprintf("%g", v)
	case nil:
		return "-"
	default:
		return fmt.Sprint(v)
	}
}

// renderTable prints rows under a header as a pterm table
func renderTable(w io.Writer, header []string, rows [][]string) error {
	data := append(pterm.TableData{header}, rows...)
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}
