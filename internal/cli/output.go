package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/nutrio/internal/nutrition"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

var errUsage = errors.New("invalid arguments")

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// table writes tab-separated rows aligned in columns, trimming trailing
// padding from each line.
type table struct {
	out io.Writer
	sb  strings.Builder
	tw  *tabwriter.Writer
}

func newTable(out io.Writer, header ...string) *table {
	t := &table{out: out}
	t.tw = tabwriter.NewWriter(&t.sb, 0, 0, 2, ' ', 0)
	t.row(header...)
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush() {
	t.tw.Flush()
	for _, line := range strings.Split(strings.TrimRight(t.sb.String(), "\n"), "\n") {
		fmt.Fprintln(t.out, strings.TrimRight(line, " "))
	}
}

func macroCols(m types.Macros) []string {
	d := nutrition.Display(m)
	return []string{d.Calories, d.Protein, d.Carbs, d.Fat}
}

// parseDate reads a YYYY-MM-DD flag value; empty means today.
func parseDate(s string, now func() time.Time) (time.Time, error) {
	if s == "" || s == "today" {
		return now(), nil
	}
	return types.ParseDate(s)
}

// parseUnit accepts a known unit or a free-form label such as "grams".
func parseUnit(s string) types.Unit {
	u := types.Unit(strings.ToLower(strings.TrimSpace(s)))
	if u.Valid() {
		return u
	}
	return nutrition.ParseUnit(s)
}
