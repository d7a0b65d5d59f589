package main

import (
	"math"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/profile"
)

func newGenCmd(a *app) *cobra.Command {
	var (
		output      string
		casts       int
		levels      int
		seed        uint64
		compression compressionFlag
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate synthetic XBT casts for testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := synthesize(casts, levels, seed)
			if err != nil {
				return err
			}

			return a.writeCasts(output, &compression, ps)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", `output file, "-" for standard output`)
	cmd.Flags().IntVarP(&casts, "casts", "n", 10, "number of casts")
	cmd.Flags().IntVar(&levels, "levels", 50, "levels per cast")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Var(&compression, "compression", "output codec: none, gzip, zstd, s2 or lz4")

	return cmd
}

// synthesize builds n temperature casts with an exponential thermocline.
func synthesize(n, levels int, seed uint64) ([]profile.Profile, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]profile.Profile, 0, n)
	for i := range n {
		surface := 5 + 25*rng.Float64()
		c := profile.SimpleCast{
			UID:       int64(i + 1),
			Country:   "US",
			Cruise:    int64(seed%100000) + 1,
			Year:      1970 + rng.IntN(50),
			Month:     1 + rng.IntN(12),
			Day:       1 + rng.IntN(28),
			Time:      round(24*rng.Float64(), 2),
			Latitude:  round(-70+140*rng.Float64(), 3),
			Longitude: round(-180+360*rng.Float64(), 3),
			ProbeType: probe.XBT,
			Z:         make([]float64, levels),
			T:         make([]float64, levels),
		}
		for j := range levels {
			z := float64(j) * 5
			c.Z[j] = z
			c.T[j] = round(2+(surface-2)*math.Exp(-z/150)+rng.NormFloat64()*0.05, 3)
		}

		p, err := profile.NewSimpleProfile(c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

func round(v float64, precision int) float64 {
	scale := math.Pow10(precision)
	return math.Round(v*scale) / scale
}
