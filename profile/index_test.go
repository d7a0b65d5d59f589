package profile

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/iquod/wod/errs"
	"github.com/iquod/wod/format"
	"github.com/iquod/wod/workpool"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex(t *testing.T) {
	data := loadFixture(t, "iquod.dat")

	index, err := BuildIndex(data)
	require.NoError(t, err)
	require.Len(t, index, 2)

	require.Equal(t, 0, index[0].Offset)
	require.Equal(t, 313, index[0].Length)
	require.Equal(t, format.IQuOD, index[0].Dialect)
	require.Equal(t, iquodSecondRecord, index[1].Offset)
	require.Equal(t, 236, index[1].Length)

	for _, e := range index {
		require.True(t, e.Verify(data))
		require.Equal(t, byte('A'), e.Bytes(data)[0])
	}
	require.NotEqual(t, index[0].Hash, index[1].Hash)
}

func TestBuildIndex_AgreesWithScanner(t *testing.T) {
	data := append(loadFixture(t, "classic.dat"), loadFixture(t, "iquod.dat")...)

	index, err := BuildIndex(data)
	require.NoError(t, err)

	sc, err := NewScanner(bytes.NewReader(data))
	require.NoError(t, err)

	i := 0
	for p := range sc.All() {
		require.Less(t, i, len(index))
		require.Equal(t, index[i].Offset, sc.Span().Start)
		require.Equal(t, index[i].Dialect, p.Dialect())
		i++
	}
	require.NoError(t, sc.Err())
	require.Equal(t, len(index), i)
}

func TestIndexEntry_HashIgnoresWrapping(t *testing.T) {
	data := loadFixture(t, "classic.dat")
	p, err := Decode(data)
	require.NoError(t, err)

	single, err := Encode(p, WithLineWidth(0))
	require.NoError(t, err)

	wrapped, err := BuildIndex(data)
	require.NoError(t, err)
	flat, err := BuildIndex(single)
	require.NoError(t, err)

	require.Equal(t, wrapped[0].Hash, flat[0].Hash)
	require.Equal(t, wrapped[0].Length, flat[0].Length)
}

func TestIndexEntry_VerifyDetectsChange(t *testing.T) {
	data := bytes.Clone(loadFixture(t, "classic.dat"))
	index, err := BuildIndex(data)
	require.NoError(t, err)

	data[30] = '9'
	require.False(t, index[0].Verify(data))
	require.False(t, index[0].Verify(data[:10]))
}

func TestBuildIndex_Errors(t *testing.T) {
	data := loadFixture(t, "classic.dat")

	_, err := BuildIndex(data[:100])
	require.ErrorIs(t, err, errs.ErrUnexpectedEndOfInput)

	_, err = BuildIndex([]byte("Z3100"))
	require.ErrorIs(t, err, errs.ErrUnknownDialect)

	index, err := BuildIndex([]byte("  \n"))
	require.NoError(t, err)
	require.Empty(t, index)
}

// =============================================================================
// Parallel decoding
// =============================================================================

func TestDecodeParallel_KeepsOrder(t *testing.T) {
	var data []byte
	for range 10 {
		data = append(data, loadFixture(t, "iquod.dat")...)
		data = append(data, loadFixture(t, "classic.dat")...)
	}

	want, err := DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, want, 30)

	got, err := DecodeParallel(context.Background(), data, workpool.Config{Concurrency: 4})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeIndexed_Error(t *testing.T) {
	data := append(loadFixture(t, "classic.dat"), loadFixture(t, "iquod.dat")...)
	index, err := BuildIndex(data)
	require.NoError(t, err)

	broken := bytes.Clone(data)
	// Year of the second record.
	broken[index[1].Offset+22] = 'x'

	_, err = DecodeIndexed(context.Background(), broken, index, workpool.Config{Concurrency: 2})
	require.ErrorIs(t, err, errs.ErrInvalidDigit)
}

func TestDecodeIndexed_ErrorOffset(t *testing.T) {
	classic := loadFixture(t, "classic.dat")
	data := append(bytes.Clone(classic), classic...)
	index, err := BuildIndex(data)
	require.NoError(t, err)
	require.Len(t, index, 2)

	// Year of the second record.
	data[index[1].Offset+22] = 'x'

	_, seqErr := DecodeAll(data)
	var want *errs.DecodeError
	require.ErrorAs(t, seqErr, &want)

	_, err = DecodeIndexed(context.Background(), data, index, workpool.Config{Concurrency: 2})
	var got *errs.DecodeError
	require.ErrorAs(t, err, &got)
	require.Equal(t, want.Offset, got.Offset)
	require.Equal(t, want.Field, got.Field)
	require.Greater(t, got.Offset, index[1].Offset)
	require.ErrorContains(t, err, fmt.Sprintf("record at offset %d", index[1].Offset))
}

func TestDecodeIndexed_Cancelled(t *testing.T) {
	data := loadFixture(t, "iquod.dat")
	index, err := BuildIndex(data)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = DecodeIndexed(ctx, data, index, workpool.DefaultConfig())
	require.Error(t, err)
}
