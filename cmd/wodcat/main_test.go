package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/iquod/wod"
	"github.com/iquod/wod/compress"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/probe"
	"github.com/iquod/wod/ragged"
	"github.com/iquod/wod/view"
)

var (
	classicPath = filepath.Join("..", "..", "profile", "testdata", "classic.dat")
	iquodPath   = filepath.Join("..", "..", "profile", "testdata", "iquod.dat")
)

func run(t *testing.T, stdin []byte, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

// duplicated writes a file holding the classic fixture twice.
func duplicated(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(classicPath)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "dup.dat")
	require.NoError(t, os.WriteFile(path, append(append([]byte{}, data...), data...), 0o600))

	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, nil, "version")
	require.NoError(t, err)
	require.Equal(t, "wodcat v"+wod.Version+"\n", out)
}

// =============================================================================
// dump
// =============================================================================

func TestDump(t *testing.T) {
	t.Run("Headers", func(t *testing.T) {
		out, _, err := run(t, nil, "dump", classicPath, iquodPath)
		require.NoError(t, err)
		require.Contains(t, out, "uid=67064 dialect=Classic country=US cruise=4936 date=1934-08-07")
		require.Contains(t, out, `probe="bottle/rossete/net"`)
		require.Contains(t, out, "uid=13393621 dialect=IQuOD")
		require.Contains(t, out, "uid=13393622")
		require.Contains(t, out, "time=-")
	})

	t.Run("Levels", func(t *testing.T) {
		out, _, err := run(t, nil, "dump", "--levels", classicPath)
		require.NoError(t, err)
		require.Contains(t, out, "z_wod_flag")
		require.Contains(t, out, "8.96")
		require.Contains(t, out, "-1.23")
	})

	t.Run("CompressedStdin", func(t *testing.T) {
		data, err := os.ReadFile(iquodPath)
		require.NoError(t, err)
		packed, err := compress.NewZstdCompressor().Compress(data)
		require.NoError(t, err)

		out, _, err := run(t, packed, "dump", "-")
		require.NoError(t, err)
		require.Contains(t, out, "uid=13393621")
		require.Contains(t, out, "uid=13393622")
	})

	t.Run("Filter", func(t *testing.T) {
		out, _, err := run(t, nil, "dump", "--filter", "uid == 13393622", classicPath, iquodPath)
		require.NoError(t, err)
		require.Equal(t, 1, bytes.Count([]byte(out), []byte("uid=")))
		require.Contains(t, out, "uid=13393622")
	})

	t.Run("BadFilter", func(t *testing.T) {
		_, _, err := run(t, nil, "dump", "--filter", "uid ==", classicPath)
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := run(t, nil, "dump", filepath.Join(t.TempDir(), "none.dat"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Corrupt", func(t *testing.T) {
		_, _, err := run(t, []byte("X99"), "dump")
		require.Error(t, err)
	})
}

// =============================================================================
// index and stats
// =============================================================================

func TestIndex(t *testing.T) {
	out, errOut, err := run(t, nil, "index", iquodPath)
	require.NoError(t, err)
	require.Contains(t, out, "2 distinct casts, 0 duplicates, 0 conflicts")
	require.NotContains(t, errOut, "duplicate cast")

	out, errOut, err = run(t, nil, "index", duplicated(t))
	require.NoError(t, err)
	require.Contains(t, out, "1 distinct casts, 1 duplicates, 0 conflicts")
	require.Contains(t, errOut, "duplicate cast")
}

func TestStats(t *testing.T) {
	out, _, err := run(t, nil, "stats", classicPath)
	require.NoError(t, err)
	require.Contains(t, out, "STDDEV")
	require.Contains(t, out, "Depth")
	require.Contains(t, out, "21.25")
	require.Contains(t, out, "Temperature")
}

// =============================================================================
// export
// =============================================================================

func TestExport(t *testing.T) {
	t.Run("NetCDF", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "casts.nc")
		_, _, err := run(t, nil, "export", "-o", path, classicPath, iquodPath)
		require.NoError(t, err)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		tbl, err := ragged.ReadNetCDF(f)
		require.NoError(t, err)
		require.Equal(t, 3, tbl.Len())
		require.Equal(t, []int{4, 5, 3}, tbl.Z.RowSize)
	})

	t.Run("NetCDFStdout", func(t *testing.T) {
		out, _, err := run(t, nil, "export", "-o", "-", classicPath)
		require.NoError(t, err)

		tbl, err := ragged.ReadNetCDF(ragged.NewBuffer([]byte(out)))
		require.NoError(t, err)
		require.Equal(t, int64(67064), tbl.Casts[0].UID)
	})

	t.Run("XLSX", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "casts.xlsx")
		_, _, err := run(t, nil, "export", "--format", "xlsx", "-o", path, iquodPath)
		require.NoError(t, err)

		book, err := xlsx.OpenFile(path)
		require.NoError(t, err)
		require.Len(t, book.Sheet[view.CastSheet].Rows, 3)
		require.Len(t, book.Sheet[view.LevelSheet].Rows, 9)
	})

	t.Run("Errors", func(t *testing.T) {
		_, _, err := run(t, nil, "export", classicPath)
		require.ErrorContains(t, err, "output")

		_, _, err = run(t, nil, "export", "--format", "csv", "-o", "-", classicPath)
		require.ErrorContains(t, err, "unknown export format")

		_, _, err = run(t, nil, "export", "--filter", "uid < 0", "-o", "-", classicPath)
		require.ErrorContains(t, err, "no casts")
	})
}

// =============================================================================
// convert and gen
// =============================================================================

func TestConvert(t *testing.T) {
	t.Run("CompressionFromExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.dat.gz")
		_, _, err := run(t, nil, "convert", "-o", path, classicPath, iquodPath)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, format.CompressionGzip, compress.Detect(data))

		ps, err := wod.DecodeFile(path)
		require.NoError(t, err)
		require.Len(t, ps, 3)
	})

	t.Run("ExplicitCompression", func(t *testing.T) {
		out, _, err := run(t, nil, "convert", "--compression", "lz4", classicPath)
		require.NoError(t, err)
		require.Equal(t, format.CompressionLZ4, compress.Detect([]byte(out)))
	})

	t.Run("Dedupe", func(t *testing.T) {
		path := duplicated(t)

		out, _, err := run(t, nil, "convert", path)
		require.NoError(t, err)
		ps, err := wod.DecodeAll([]byte(out))
		require.NoError(t, err)
		require.Len(t, ps, 2)

		out, _, err = run(t, nil, "convert", "--dedupe", path)
		require.NoError(t, err)
		ps, err = wod.DecodeAll([]byte(out))
		require.NoError(t, err)
		require.Len(t, ps, 1)
	})

	t.Run("BadCompression", func(t *testing.T) {
		_, _, err := run(t, nil, "convert", "--compression", "brotli", classicPath)
		require.Error(t, err)
	})
}

func TestGen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthetic.zst")
	_, _, err := run(t, nil, "gen", "-n", "3", "--levels", "10", "--seed", "7", "-o", path)
	require.NoError(t, err)

	ps, err := wod.DecodeFile(path)
	require.NoError(t, err)
	require.Len(t, ps, 3)
	for i, p := range ps {
		require.Equal(t, int64(i+1), p.UID())
		require.Equal(t, 10, p.NLevels())
		require.Equal(t, probe.XBT, p.ProbeType())
		require.Equal(t, 10, p.T().Count())
	}

	a, _, err := run(t, nil, "gen", "-n", "2", "--seed", "7")
	require.NoError(t, err)
	b, _, err := run(t, nil, "gen", "-n", "2", "--seed", "7")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

// =============================================================================
// configuration
// =============================================================================

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "wodcat.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
workers:
  concurrency: 2
encode:
  compression: s2
logs:
  level: debug
  format: json
  file: logs/wodcat.log
`), 0o600))

	out, errOut, err := run(t, nil, "--config", cfgPath, "convert", classicPath)
	require.NoError(t, err)
	require.Equal(t, format.CompressionS2, compress.Detect([]byte(out)))
	require.Contains(t, errOut, `"msg":"wodcat started"`)

	logged, err := os.ReadFile(filepath.Join(dir, "logs", "wodcat.log"))
	require.NoError(t, err)
	require.Contains(t, string(logged), "decoded input")

	t.Run("Errors", func(t *testing.T) {
		_, _, err := run(t, nil, "--config", filepath.Join(dir, "none.yaml"), "dump", classicPath)
		require.Error(t, err)

		_, _, err = run(t, nil, "--log-level", "loud", "dump", classicPath)
		require.Error(t, err)
	})
}
