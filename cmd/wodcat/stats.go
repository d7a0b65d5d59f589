package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iquod/wod/view"
)

func newStatsCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "stats [file...]",
		Short: "Print per-variable statistics of every cast",
		RunE: func(cmd *cobra.Command, args []string) error {
			casts, err := a.loadCasts(cmd.Context(), cmd.InOrStdin(), args, filter)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "UID\tSERIES\tCOUNT\tABSENT\tMIN\tMAX\tMEAN\tSTDDEV")
			for _, p := range casts {
				s := view.Summarize(p)
				for _, st := range append([]view.Stats{s.Depth}, s.Variables...) {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
						s.UID, st.Name, st.Count, st.Absent,
						formatFloat(st.Min), formatFloat(st.Max),
						formatFloat(st.Mean), formatFloat(st.StdDev))
				}
			}

			return tw.Flush()
		},
	}

	addFilterFlag(cmd.Flags(), &filter)

	return cmd
}
