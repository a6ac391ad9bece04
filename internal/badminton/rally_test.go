package badminton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countedShot(frame int, t float64, shotType ShotType) ShotEvent {
	return ShotEvent{Frame: frame, Timestamp: t, ShotType: shotType, Confidence: 0.7}
}

func TestPoseRallies(t *testing.T) {
	t.Parallel()
	rb := newRallyBuilder(DefaultRallyConfig())

	t.Run("splits on large time gaps", func(t *testing.T) {
		t.Parallel()
		shots := []ShotEvent{
			countedShot(10, 0.5, ShotClear),
			countedShot(40, 1.5, ShotDrive),
			countedShot(70, 2.5, ShotSmash),
			// 5 second pause, then a second exchange.
			countedShot(230, 7.5, ShotLift),
			countedShot(260, 8.5, ShotClear),
		}
		rallies := rb.buildPoseRallies(shots)

		require.Len(t, rallies, 2)
		assert.Equal(t, 1, rallies[0].RallyID)
		assert.Equal(t, 3, rallies[0].ShotCount)
		assert.Equal(t, []ShotType{ShotClear, ShotDrive, ShotSmash}, rallies[0].Shots)
		assert.InDelta(t, 2.0, rallies[0].Duration, 1e-9)
		assert.Equal(t, 2, rallies[1].ShotCount)
	})

	t.Run("requires at least two shots", func(t *testing.T) {
		t.Parallel()
		shots := []ShotEvent{
			countedShot(10, 0.5, ShotClear),
			// Too far from the first to share a rally, and alone.
			countedShot(200, 9.0, ShotSmash),
		}
		rallies := rb.buildPoseRallies(shots)
		assert.Empty(t, rallies)
	})

	t.Run("ignores non-shot states", func(t *testing.T) {
		t.Parallel()
		shots := []ShotEvent{
			countedShot(10, 0.5, ShotClear),
			{Frame: 20, Timestamp: 0.8, ShotType: StateFollowThrough, Confidence: 0.3},
			countedShot(40, 1.5, ShotDrive),
		}
		rallies := rb.buildPoseRallies(shots)
		require.Len(t, rallies, 1)
		assert.Equal(t, 2, rallies[0].ShotCount)
	})
}

// scenarioDFrames is the 200-frame sequence with a 150-frame run of
// shuttle invisibility in the middle.
func scenarioDFrames() []FrameRecord {
	frames := make([]FrameRecord, 200)
	for i := range frames {
		if i < 25 || i >= 175 {
			frames[i] = shuttleFrame(i, testFPS, float64(100+i), 300)
		} else {
			frames[i] = invisibleShuttleFrame(i, testFPS)
		}
	}
	return frames
}

func TestShuttleGapZones(t *testing.T) {
	t.Parallel()
	cfg := RallyConfig{GapSeconds: 2.0, ShuttleGapFrames: 90, ShuttleGapMissPct: 80}
	rb := newRallyBuilder(cfg)

	rallies, zones := rb.buildShuttleRallies(scenarioDFrames())

	// Exactly one gap zone, covering at least the invisibility run that
	// qualifying windows can reach.
	require.Len(t, zones, 1)
	assert.LessOrEqual(t, zones[0].StartFrame, 25)
	assert.GreaterOrEqual(t, zones[0].EndFrame, 174)

	// No rally overlaps the zone.
	for _, r := range rallies {
		overlap := r.StartFrame <= zones[0].EndFrame && r.EndFrame >= zones[0].StartFrame
		assert.False(t, overlap, "rally %d overlaps the gap zone", r.RallyID)
	}
}

func TestShuttleRalliesRequireVisibleFrames(t *testing.T) {
	t.Parallel()
	rb := newRallyBuilder(DefaultRallyConfig())

	// Shuttle data exists but the shuttle is never visible and the
	// sequence is shorter than the gap window: no rallies either way.
	frames := make([]FrameRecord, 60)
	for i := range frames {
		frames[i] = invisibleShuttleFrame(i, testFPS)
	}
	rallies, zones := rb.buildShuttleRallies(frames)
	assert.Empty(t, rallies)
	assert.Empty(t, zones)
}

func TestShuttleRalliesMergeOverlappingWindows(t *testing.T) {
	t.Parallel()
	// Two overlapping qualifying windows produce one zone longer than the
	// window length. This is the intended merge semantics.
	cfg := RallyConfig{GapSeconds: 2.0, ShuttleGapFrames: 10, ShuttleGapMissPct: 80}
	rb := newRallyBuilder(cfg)

	frames := make([]FrameRecord, 60)
	for i := range frames {
		if i >= 20 && i < 45 {
			frames[i] = invisibleShuttleFrame(i, testFPS)
		} else {
			frames[i] = shuttleFrame(i, testFPS, float64(100+4*i), 300)
		}
	}
	_, zones := rb.buildShuttleRallies(frames)

	require.Len(t, zones, 1)
	span := zones[0].EndFrame - zones[0].StartFrame + 1
	assert.Greater(t, span, cfg.ShuttleGapFrames)
}

func TestAttachShotsAndHits(t *testing.T) {
	t.Parallel()
	rb := newRallyBuilder(DefaultRallyConfig())

	t.Run("two hits tighten the rally", func(t *testing.T) {
		t.Parallel()
		rallies := []Rally{{RallyID: 1, StartFrame: 0, EndFrame: 100, StartTime: 0, EndTime: 3.33, Duration: 3.33}}
		shots := []ShotEvent{
			countedShot(20, 0.66, ShotClear),
			countedShot(60, 2.0, ShotSmash),
		}
		hits := []HitEvent{
			{Frame: 21, Timestamp: 0.70},
			{Frame: 61, Timestamp: 2.03},
		}
		rb.attachShotsAndHits(rallies, shots, hits)

		assert.Equal(t, 2, rallies[0].ShotCount)
		assert.Equal(t, 2, rallies[0].HitCount)
		assert.Equal(t, 21, rallies[0].StartFrame)
		assert.Equal(t, 61, rallies[0].EndFrame)
		assert.InDelta(t, 1.33, rallies[0].Duration, 1e-9)
	})

	t.Run("single hit collapses duration", func(t *testing.T) {
		t.Parallel()
		rallies := []Rally{{RallyID: 1, StartFrame: 0, EndFrame: 100, StartTime: 0, EndTime: 3.33, Duration: 3.33}}
		hits := []HitEvent{{Frame: 50, Timestamp: 1.66}}
		rb.attachShotsAndHits(rallies, nil, hits)

		assert.Equal(t, 1, rallies[0].HitCount)
		assert.Zero(t, rallies[0].Duration)
	})

	t.Run("no hits keep the gap-bounded duration", func(t *testing.T) {
		t.Parallel()
		rallies := []Rally{{RallyID: 1, StartFrame: 0, EndFrame: 100, StartTime: 0, EndTime: 3.33, Duration: 3.33}}
		rb.attachShotsAndHits(rallies, nil, nil)
		assert.InDelta(t, 3.33, rallies[0].Duration, 1e-9)
	})
}

func TestDropShotsInGapZones(t *testing.T) {
	t.Parallel()
	shots := []ShotEvent{
		countedShot(10, 0.33, ShotClear),
		countedShot(50, 1.66, ShotDrive), // inside the zone
		countedShot(90, 3.0, ShotSmash),
	}
	zones := []GapZone{{StartFrame: 40, EndFrame: 70}}

	kept := dropShotsInGapZones(shots, zones)
	require.Len(t, kept, 2)
	assert.Equal(t, 10, kept[0].Frame)
	assert.Equal(t, 90, kept[1].Frame)
}
