package ui

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tvx/internal/filter"
	"github.com/oakwood-commons/tvx/internal/formatter"
	"github.com/oakwood-commons/tvx/internal/tree"
	"github.com/oakwood-commons/tvx/pkg/loader"
)

// SnapshotOptions controls non-interactive rendering.
type SnapshotOptions struct {
	// Expr is an optional filter expression applied to every dataset.
	Expr string
	// Clauses are applied after the expression, left-to-right.
	Clauses []filter.Clause
	// Width bounds the rendered grid; 0 means unbounded.
	Width     int
	SortKeys  bool
	ShowUnits bool
	// ShowRowNumbers prefixes each row with its 1-based index.
	ShowRowNumbers bool
	Logger         logr.Logger
}

// RenderSnapshot renders a loaded snapshot once to a string, for --snapshot
// mode and non-TTY stdout. Tabular snapshots render as plain-text grids, one
// per dataset; structured roots render as a tree.
func RenderSnapshot(snap *loader.Snapshot, opts SnapshotOptions) (string, error) {
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}

	if !snap.Tabular() {
		t := tree.Flatten(snap.Value, tree.Options{
			SortKeys:  opts.SortKeys,
			ShowUnits: opts.ShowUnits,
			Logger:    opts.Logger,
		})
		return t.Render(), nil
	}

	eval := filter.NewEvaluator()
	gridOpts := formatter.DefaultGridOptions()
	gridOpts.MaxWidth = opts.Width
	gridOpts.ShowRowNumbers = opts.ShowRowNumbers

	var b strings.Builder
	for i, ds := range snap.Datasets {
		rows := ds.Rows
		if opts.Expr != "" || len(opts.Clauses) > 0 {
			mask, err := eval.Apply(ds.Columns, ds.Rows, opts.Expr, opts.Clauses)
			if err != nil {
				return "", fmt.Errorf("filter failed for %q: %w", ds.Name, err)
			}
			rows = filter.Select(ds.Rows, mask)
		}

		if i > 0 {
			b.WriteString("\n")
		}
		if len(snap.Datasets) > 1 {
			b.WriteString("== " + ds.Name + " ==\n")
		}
		b.WriteString(formatter.FormatGrid(ds.Columns, rows, gridOpts))
	}
	return b.String(), nil
}
