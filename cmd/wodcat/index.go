package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/internal/collision"
)

func newIndexCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "index [file...]",
		Short: "List record offsets and fingerprints, and report duplicate casts",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.load(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			tracker := collision.NewTracker()
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tOFFSET\tLENGTH\tDIALECT\tUID\tHASH")
			for _, in := range inputs {
				for i, e := range in.index {
					uid := in.casts[i].UID()
					fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%016x\n", in.path, e.Offset, e.Length, e.Dialect, uid, e.Hash)

					if err := tracker.Track(uid, e.Hash); errors.Is(err, errs.ErrDuplicateCast) {
						a.log.WithField("uid", uid).WithField("path", in.path).Warn("duplicate cast")
					}
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%d distinct casts, %d duplicates, %d conflicts\n",
				tracker.Count(), tracker.Duplicates(), len(tracker.Conflicts()))

			if tracker.HasConflict() {
				a.log.WithField("uids", tracker.Conflicts()).Warn("casts with differing content share a unique number")
				if strict {
					return fmt.Errorf("%d conflicting casts", len(tracker.Conflicts()))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when two different casts share a unique number")

	return cmd
}
