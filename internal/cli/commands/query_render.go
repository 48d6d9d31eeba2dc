package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/leapstack-labs/inspectomop/internal/cli/output"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

// executeAndRender runs sqlQuery and streams the result to w. The run is
// recorded in the query history, failures included.
func executeAndRender(ctx context.Context, cmdCtx *CommandContext, w io.Writer, sqlQuery string, format output.Format, chunkSize int) error {
	start := time.Now()
	rows, err := renderQuery(ctx, cmdCtx.Inspector, w, sqlQuery, format, chunkSize)
	cmdCtx.recordQuery(ctx, sqlQuery, rows, time.Since(start), err)
	cmdCtx.Logger.Debug("query finished", "rows", rows, "elapsed", time.Since(start), "error", err)
	return err
}

func renderQuery(ctx context.Context, insp *inspector.Inspector, w io.Writer, sqlQuery string, format output.Format, chunkSize int) (int, error) {
	res, err := insp.Execute(ctx, sqlQuery)
	if err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}

	fw := output.NewFrameWriter(w, format)
	if chunkSize > 0 {
		for f, err := range res.Chunks(chunkSize) {
			if err != nil {
				return fw.Rows(), fmt.Errorf("query failed: %w", err)
			}
			if err := fw.Write(f); err != nil {
				return fw.Rows(), err
			}
		}
	} else {
		f, err := res.Frame()
		if err != nil {
			return 0, fmt.Errorf("query failed: %w", err)
		}
		if err := fw.Write(f); err != nil {
			return fw.Rows(), err
		}
	}
	return fw.Rows(), fw.Close()
}
