package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iquod/wod/profile"
	"github.com/iquod/wod/ragged"
	"github.com/iquod/wod/view"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		filter string
		kind   = formatNetCDF
	)

	cmd := &cobra.Command{
		Use:   "export [file...]",
		Short: "Export casts to a netCDF ragged-array file or an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			casts, err := a.loadCasts(cmd.Context(), cmd.InOrStdin(), args, filter)
			if err != nil {
				return err
			}
			if len(casts) == 0 {
				return errors.New("no casts to export")
			}

			switch kind {
			case formatXLSX:
				err = a.exportXLSX(output, casts)
			default:
				err = a.exportNetCDF(output, casts)
			}
			if err != nil {
				return err
			}

			a.log.WithField("path", output).WithField("format", string(kind)).
				Infof("exported %d casts", len(casts))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for standard output`)
	cmd.Flags().VarP(&kind, "format", "f", "export format: netcdf or xlsx")
	addFilterFlag(cmd.Flags(), &filter)
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) exportXLSX(path string, casts []profile.Profile) (err error) {
	out, err := a.createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	return view.WriteXLSX(out, casts)
}

// exportNetCDF writes the ragged table of casts. The netCDF writer seeks, so
// standard output goes through an in-memory buffer.
func (a *app) exportNetCDF(path string, casts []profile.Profile) error {
	t := ragged.FromProfiles(casts)
	if err := t.Check(); err != nil {
		return err
	}

	if path == "-" {
		buf := ragged.NewBuffer(nil)
		if err := ragged.WriteNetCDF(buf, t); err != nil {
			return err
		}
		_, err := a.out.Write(buf.Bytes())

		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ragged.WriteNetCDF(f, t); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}
