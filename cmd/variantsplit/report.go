package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"variantsplit/internal/job"
	"variantsplit/internal/splitter"
)

// printResult writes one line per job, plus the offending line for marker errors.
func printResult(w io.Writer, res job.Result) {
	if res.OK() {
		detail := fmt.Sprintf("%d lines, %d blocks", res.Stats.LinesRead, res.Stats.Blocks)
		if res.Outputs.A != "" {
			fmt.Fprintf(w, "%s %s -> %s, %s %s\n",
				okStyle.Render("OK"), res.Input, res.Outputs.A, res.Outputs.B, dimStyle.Render("("+detail+")"))
			return
		}
		fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("OK"), res.Input, dimStyle.Render("("+detail+")"))
		return
	}

	var se *splitter.SplitError
	if errors.As(res.Err, &se) {
		fmt.Fprintf(w, "%s %s:%d: %s: %s\n",
			errorStyle.Render("ERROR"), res.Input, se.LineNo, labelStyle.Render(se.Kind.String()), ruleText(se))
		fmt.Fprintf(w, "  offending line: %s\n", strings.TrimRight(se.Line, "\r\n"))
		return
	}
	fmt.Fprintf(w, "%s %s: %v\n", errorStyle.Render("ERROR"), res.Input, res.Err)
}

func printResults(w io.Writer, results []job.Result) {
	for _, res := range results {
		printResult(w, res)
	}
}

// ruleText names the rule the line broke.
func ruleText(se *splitter.SplitError) string {
	switch se.Kind {
	case splitter.MisplacedOpen:
		return fmt.Sprintf("open marker for variant %s inside an open block (blocks cannot nest)", se.Variant)
	case splitter.MisplacedClose:
		return "close marker without a matching open marker"
	case splitter.UnterminatedBlock:
		return fmt.Sprintf("block for variant %s opened here is never closed", se.Variant)
	default:
		return se.Error()
	}
}
