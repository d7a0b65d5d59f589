package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iquod/wod/profile"
	"github.com/iquod/wod/view"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		levels bool
		filter string
	)

	cmd := &cobra.Command{
		Use:   "dump [file...]",
		Short: "Print cast headers and optionally their levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			casts, err := a.loadCasts(cmd.Context(), cmd.InOrStdin(), args, filter)
			if err != nil {
				return err
			}

			for _, p := range casts {
				if err := dumpCast(a.out, p, levels); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&levels, "levels", false, "print the level table of each cast")
	addFilterFlag(cmd.Flags(), &filter)

	return cmd
}

func dumpCast(w io.Writer, p profile.Profile, levels bool) error {
	h := view.HeaderOf(p)

	probe := h.ProbeName
	if probe == "" {
		probe = "-"
	}
	_, err := fmt.Fprintf(w,
		"uid=%d dialect=%s country=%s cruise=%d date=%04d-%02d-%02d time=%s lat=%s lon=%s levels=%d probe=%q vars=%s\n",
		h.UID, h.Dialect, h.Country, h.Cruise, h.Year, h.Month, h.Day,
		formatFloat(h.Time), formatFloat(h.Latitude), formatFloat(h.Longitude),
		h.NLevels, probe, strings.Join(h.Variables, ","))
	if err != nil || !levels {
		return err
	}

	t := view.TableOf(p)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(t.Names(), "\t")+"\t")
	row := make([]string, len(t.Columns))
	for i := range t.NRows() {
		for j, c := range t.Columns {
			row[j] = formatFloat(c.Data[i])
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	return tw.Flush()
}
