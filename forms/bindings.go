package forms

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/janus-sparql/executor"
	"github.com/wbrown/janus-sparql/store"
	"github.com/wbrown/janus-sparql/term"
)

// Bindings is the result of a SELECT query (§4.6): one row per
// solution, one column per projected variable, in projection order.
// An unbound variable in a row is represented as a nil *term.Decoded.
type Bindings struct {
	Vars []string
	Rows [][]*term.Decoded
}

// Select drains it, decoding each bound slot through enc, and returns
// the named bindings in row order. vars[i] names the variable bound to
// tuple slot i.
func Select(it executor.TupleIterator, vars []string, enc store.Encoder) (*Bindings, error) {
	b := &Bindings{Vars: vars}
	for it.Next() {
		row := it.Tuple()
		out := make([]*term.Decoded, len(vars))
		for i := range vars {
			v := row.Get(i)
			if v == nil {
				continue
			}
			d, err := enc.DecodeTerm(*v)
			if err != nil {
				it.Close()
				return nil, err
			}
			out[i] = &d
		}
		b.Rows = append(b.Rows, out)
	}
	if err := it.Err(); err != nil {
		it.Close()
		return nil, err
	}
	return b, it.Close()
}

// Ask probes it for at least one solution (§4.6: ASK never decodes the
// matched row, it only checks existence) and always closes it.
func Ask(it executor.TupleIterator) (bool, error) {
	has := it.Next()
	err := it.Err()
	closeErr := it.Close()
	if err != nil {
		return false, err
	}
	if closeErr != nil {
		return false, closeErr
	}
	return has, nil
}

// Table renders the bindings as a Markdown table, in the same style as
// the teacher's relation debug printer.
func (b *Bindings) Table() string {
	if len(b.Rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_", b.Vars)
	}

	var sb strings.Builder
	alignment := make([]tw.Align, len(b.Vars))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}
	table := tablewriter.NewTable(&sb,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(b.Vars)
	for _, row := range b.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = ""
				continue
			}
			cells[i] = v.String()
		}
		table.Append(cells)
	}
	table.Render()
	sb.WriteString(fmt.Sprintf("\n_%d rows_\n", len(b.Rows)))
	return sb.String()
}
