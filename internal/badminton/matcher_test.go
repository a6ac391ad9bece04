package badminton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchShotsToHits(t *testing.T) {
	t.Parallel()

	t.Run("pairs within tolerance", func(t *testing.T) {
		t.Parallel()
		shots := []ShotEvent{
			{Frame: 30, Timestamp: 1.0, ShotType: ShotDrive},
			{Frame: 90, Timestamp: 3.0, ShotType: ShotClear},
		}
		hits := []HitEvent{
			{Frame: 36, Timestamp: 1.2, SpeedPxPerSec: 250},
			{Frame: 105, Timestamp: 3.5},
		}
		matchShotsToHits(shots, hits, 0.3)

		require.NotNil(t, shots[0].Hit)
		assert.Equal(t, 36, shots[0].Hit.Frame)
		// 0.5 s away is outside the tolerance.
		assert.Nil(t, shots[1].Hit)
	})

	t.Run("each hit claimed at most once", func(t *testing.T) {
		t.Parallel()
		shots := []ShotEvent{
			{Frame: 30, Timestamp: 1.00},
			{Frame: 33, Timestamp: 1.10},
		}
		hits := []HitEvent{{Frame: 31, Timestamp: 1.05}}
		matchShotsToHits(shots, hits, 0.3)

		require.NotNil(t, shots[0].Hit)
		assert.Nil(t, shots[1].Hit)
	})

	t.Run("nearest hit wins", func(t *testing.T) {
		t.Parallel()
		shots := []ShotEvent{{Frame: 30, Timestamp: 1.0}}
		hits := []HitEvent{
			{Frame: 24, Timestamp: 0.80},
			{Frame: 33, Timestamp: 1.10},
		}
		matchShotsToHits(shots, hits, 0.3)

		require.NotNil(t, shots[0].Hit)
		assert.Equal(t, 33, shots[0].Hit.Frame)
	})

	t.Run("no hits leaves shots unlinked", func(t *testing.T) {
		t.Parallel()
		shots := []ShotEvent{{Frame: 30, Timestamp: 1.0}}
		matchShotsToHits(shots, nil, 0.3)
		assert.Nil(t, shots[0].Hit)
	})
}
