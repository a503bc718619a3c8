package poolctl

import (
	"fmt"
	"io"
	"text/tabwriter"

	"tensorpool/pkg/types"
)

func writePlanTable(out io.Writer, planner string, arenaBytes int, eff float64, tensors []types.TensorPlacement) error {
	fmt.Fprintf(out, "planner=%s arena=%dB efficiency=%.3f\n", planner, arenaBytes, eff)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBYTES\tOFFSET\tLIFESPAN\tVIEW OF")
	for _, t := range tensors {
		off := "-"
		if t.Offset >= 0 {
			off = fmt.Sprint(t.Offset)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", t.Name, t.Bytes, off, t.Lifespan, t.ViewOf)
	}
	return tw.Flush()
}
