package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Faultbox/cadconv/internal/convert"
)

var rule = strings.Repeat("=", 60)

func printHeader(out io.Writer, title string, req *convert.Request) {
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Input:  %s\n", req.SourcePath())
	fmt.Fprintf(out, "Output: %s\n", req.TargetPath())
	fmt.Fprintf(out, "Size:   %.2f MB\n", fileSizeMB(req.SourcePath()))
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
}

func printAttempts(out io.Writer, attempts []convert.Attempt) {
	for _, a := range attempts {
		if a.Failed() {
			fmt.Fprintf(out, "  [%s] %s (%s)\n", a.Kind, a.Strategy, a.Duration.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(out, "  [ok] %s (%s)\n", a.Strategy, a.Duration.Round(time.Millisecond))
	}
}

func printSuccess(out io.Writer, res *convert.Result) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "CONVERSION COMPLETE")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Backend:   %s\n", res.Strategy)
	fmt.Fprintf(out, "Vertices:  %d\n", res.Vertices)
	fmt.Fprintf(out, "Faces:     %d\n", res.Faces)
	fmt.Fprintf(out, "Output:    %s\n", res.OutputPath)
	fmt.Fprintf(out, "File size: %.2f MB\n", fileSizeMB(res.OutputPath))
}

func printFailure(out io.Writer, res *convert.Result, hints []string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "CONVERSION FAILED")
	fmt.Fprintln(out, rule)

	if len(res.Attempts) > 0 {
		fmt.Fprintln(out, "\nBackends tried:")
		for _, a := range res.Attempts {
			fmt.Fprintf(out, "  - %s: %s\n", a.Strategy, a.Kind)
			if a.Err != nil {
				fmt.Fprintf(out, "      %s\n", indent(a.Err.Error()))
			}
		}
	} else if res.Err != nil {
		fmt.Fprintf(out, "\n%v\n", res.Err)
	}

	if len(hints) > 0 {
		fmt.Fprintln(out)
		for _, h := range hints {
			fmt.Fprintln(out, h)
		}
	}
	fmt.Fprintln(out)
}

func printBackends(out io.Writer, probes []convert.Availability) {
	fmt.Fprintln(out, "Backends (in priority order):")
	for i, p := range probes {
		if p.Available() {
			fmt.Fprintf(out, "  %d. %-16s available\n", i+1, p.Strategy)
			continue
		}
		fmt.Fprintf(out, "  %d. %-16s unavailable\n", i+1, p.Strategy)
		fmt.Fprintf(out, "      %s\n", indent(p.Err.Error()))
	}
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n      ")
}
