package badminton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrajectoryInterpolation(t *testing.T) {
	t.Parallel()

	t.Run("bridges gaps up to the limit", func(t *testing.T) {
		t.Parallel()
		frames := []FrameRecord{
			shuttleFrame(0, testFPS, 100, 200),
			invisibleShuttleFrame(1, testFPS),
			invisibleShuttleFrame(2, testFPS),
			invisibleShuttleFrame(3, testFPS),
			shuttleFrame(4, testFPS, 140, 240),
		}
		tr := buildTrajectory(frames, 5)

		for i := 0; i < 5; i++ {
			assert.True(t, tr.valid[i], "frame %d should be valid", i)
		}
		assert.InDelta(t, 110, tr.xs[1], 1e-9)
		assert.InDelta(t, 120, tr.xs[2], 1e-9)
		assert.InDelta(t, 130, tr.xs[3], 1e-9)
		assert.InDelta(t, 220, tr.ys[2], 1e-9)

		// Interpolated frames are usable positions but not ground truth.
		assert.False(t, tr.rawValid[2])
		assert.True(t, tr.rawValid[0])
	})

	t.Run("leaves long gaps invalid", func(t *testing.T) {
		t.Parallel()
		frames := []FrameRecord{shuttleFrame(0, testFPS, 100, 200)}
		for i := 1; i <= 6; i++ {
			frames = append(frames, invisibleShuttleFrame(i, testFPS))
		}
		frames = append(frames, shuttleFrame(7, testFPS, 170, 200))

		tr := buildTrajectory(frames, 5)
		for i := 1; i <= 6; i++ {
			assert.False(t, tr.valid[i], "frame %d should stay invalid", i)
		}
		assert.True(t, tr.valid[0])
		assert.True(t, tr.valid[7])
	})

	t.Run("leaves leading and trailing gaps invalid", func(t *testing.T) {
		t.Parallel()
		frames := []FrameRecord{
			invisibleShuttleFrame(0, testFPS),
			shuttleFrame(1, testFPS, 100, 200),
			invisibleShuttleFrame(2, testFPS),
		}
		tr := buildTrajectory(frames, 5)
		assert.False(t, tr.valid[0])
		assert.True(t, tr.valid[1])
		assert.False(t, tr.valid[2])
	})
}

func TestMedianFilterSuppressesJitter(t *testing.T) {
	t.Parallel()
	xs := []float64{100, 104, 160, 112, 116} // one detector spike at index 2
	frames := make([]FrameRecord, len(xs))
	for i, x := range xs {
		frames[i] = shuttleFrame(i, testFPS, x, 300)
	}
	tr := buildTrajectory(frames, 5)

	// median(104, 160, 112) = 112: the spike is replaced by its neighbours.
	assert.InDelta(t, 112, tr.xs[2], 1e-9)
	assert.InDelta(t, 300, tr.ys[2], 1e-9)
}

func TestCentralDifferenceVelocity(t *testing.T) {
	t.Parallel()
	frames := make([]FrameRecord, 10)
	for i := range frames {
		frames[i] = shuttleFrame(i, testFPS, 100+4*float64(i), 300)
	}
	tr := buildTrajectory(frames, 5)

	// v[i] = (pos[i] - pos[i-2]) / 2 = 4 px/frame on a linear track.
	require.True(t, tr.valid[5])
	assert.InDelta(t, 4, tr.vx[5], 1e-9)
	assert.InDelta(t, 0, tr.vy[5], 1e-9)
	assert.InDelta(t, 4, tr.speed[5], 1e-9)

	// Frames without two valid trailing neighbours get zero, not an error.
	assert.Zero(t, tr.speed[0])
	assert.Zero(t, tr.speed[1])
}

func TestCentralDifferenceSkipsInvalidNeighbours(t *testing.T) {
	t.Parallel()
	frames := []FrameRecord{
		shuttleFrame(0, testFPS, 100, 300),
		invisibleShuttleFrame(1, testFPS),
	}
	for i := 2; i < 12; i++ {
		frames = append(frames, invisibleShuttleFrame(i, testFPS))
	}
	frames = append(frames, shuttleFrame(12, testFPS, 148, 300))
	frames = append(frames, shuttleFrame(13, testFPS, 152, 300))

	tr := buildTrajectory(frames, 5)
	// Frame 13 is valid but frame 11 is not; velocity stays zero.
	assert.Zero(t, tr.speed[13])
}
