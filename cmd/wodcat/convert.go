package main

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/internal/collision"
	"github.com/iquod/wod/profile"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		output      string
		filter      string
		dedupe      bool
		compression compressionFlag
	)

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Re-encode casts, optionally filtering, deduplicating and recompressing them",
		Long: `convert decodes every input and writes the casts back in WOD ASCII.
The output codec comes from --compression, else the output file extension,
else the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.load(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var casts []profile.Profile
			if dedupe {
				casts = a.dedupe(inputs)
			} else {
				for _, in := range inputs {
					casts = append(casts, in.casts...)
				}
			}

			if casts, err = a.selectCasts(casts, filter); err != nil {
				return err
			}

			return a.writeCasts(output, &compression, casts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", `output file, "-" for standard output`)
	cmd.Flags().Var(&compression, "compression", "output codec: none, gzip, zstd, s2 or lz4")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "drop exact duplicate casts")
	addFilterFlag(cmd.Flags(), &filter)

	return cmd
}

// dedupe keeps the first copy of every cast. Casts sharing a unique number but
// not content are all kept.
func (a *app) dedupe(inputs []input) []profile.Profile {
	tracker := collision.NewTracker()

	var out []profile.Profile
	for _, in := range inputs {
		for i, p := range in.casts {
			if err := tracker.Track(p.UID(), in.index[i].Hash); errors.Is(err, errs.ErrDuplicateCast) {
				continue
			}
			out = append(out, p)
		}
	}

	if tracker.Duplicates() > 0 || tracker.HasConflict() {
		a.log.WithFields(logrus.Fields{
			"dropped":   tracker.Duplicates(),
			"conflicts": tracker.Conflicts(),
		}).Warn("duplicate casts in input")
	}

	return out
}
