package wod

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iquod/wod/compress"
	"github.com/iquod/wod/format"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("profile", "testdata", name))
	require.NoError(t, err)

	return data
}

func TestDecode(t *testing.T) {
	p, err := Decode(fixture(t, "classic.dat"))
	require.NoError(t, err)
	require.Equal(t, int64(67064), p.UID())
	require.Equal(t, format.Classic, p.Dialect())
}

func TestReadAll_Compressed(t *testing.T) {
	data := fixture(t, "iquod.dat")

	for _, kind := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionGzip,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			c, err := compress.GetCodec(kind)
			require.NoError(t, err)
			packed, err := c.Compress(data)
			require.NoError(t, err)

			ps, err := ReadAll(bytes.NewReader(packed))
			require.NoError(t, err)
			require.Len(t, ps, 2)
			require.Equal(t, int64(13393621), ps[0].UID())
			require.Equal(t, int64(13393622), ps[1].UID())
		})
	}
}

func TestDecodeFile(t *testing.T) {
	ps, err := DecodeFile(filepath.Join("profile", "testdata", "classic.dat"))
	require.NoError(t, err)
	require.Len(t, ps, 1)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.dat"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.dat")
	require.NoError(t, os.WriteFile(bad, []byte("X123"), 0o600))
	_, err = DecodeFile(bad)
	require.ErrorContains(t, err, "bad.dat")
}

func TestEncodeAll_RoundTrip(t *testing.T) {
	data := fixture(t, "iquod.dat")
	ps, err := DecodeAll(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeAll(&buf, ps))

	back, err := DecodeAll(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, ps, back)

	single, err := Encode(ps[0])
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), single))
}
