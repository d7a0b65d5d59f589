package collision

import (
	"testing"

	"github.com/iquod/wod/errs"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasConflict())
	require.Empty(t, tracker.UIDs())
	require.Zero(t, tracker.Duplicates())
}

func TestTracker_Track_Distinct(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track(67064, 0x1234567890abcdef))
	require.NoError(t, tracker.Track(13393621, 0xfedcba0987654321))

	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasConflict())
	require.Equal(t, []int64{67064, 13393621}, tracker.UIDs())
}

func TestTracker_Track_Duplicate(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track(67064, 0x1234567890abcdef))
	err := tracker.Track(67064, 0x1234567890abcdef)

	require.ErrorIs(t, err, errs.ErrDuplicateCast)
	require.Equal(t, 1, tracker.Count())
	require.Equal(t, 1, tracker.Duplicates())
	require.False(t, tracker.HasConflict())
}

func TestTracker_Track_Conflict(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track(67064, 0x1234567890abcdef))

	// Same cast number, different record content: not an error.
	require.NoError(t, tracker.Track(67064, 0x1111111111111111))
	require.NoError(t, tracker.Track(67064, 0x2222222222222222))

	require.True(t, tracker.HasConflict())
	require.Equal(t, []int64{67064, 67064}, tracker.Conflicts())
	require.Equal(t, 1, tracker.Count())

	// The first version stays the reference.
	require.ErrorIs(t, tracker.Track(67064, 0x1234567890abcdef), errs.ErrDuplicateCast)
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Track(1, 1))
	require.NoError(t, tracker.Track(1, 2))
	require.Error(t, tracker.Track(1, 1))

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasConflict())
	require.Zero(t, tracker.Duplicates())
	require.NoError(t, tracker.Track(1, 2))
}
