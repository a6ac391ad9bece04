package badminton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSingleReversal(t *testing.T) {
	t.Parallel()
	// Scenario: a clean linear flight reversing direction at frame 45 with
	// a >2x speed change must yield exactly one hit near the reversal.
	cfg := DefaultHitDetectorConfig()
	detector := NewHitDetector(cfg, testFPS)

	hits, _ := detector.Detect(reversalSequence())

	require.Len(t, hits, 1)
	assert.InDelta(t, 45, hits[0].Frame, float64(cfg.DispWindow))
	assert.Greater(t, hits[0].Confidence, 0.0)
	assert.LessOrEqual(t, hits[0].Confidence, 1.0)
	assert.Greater(t, hits[0].SpeedPxPerSec, 0.0)
}

func TestDetectHitSpeedReflectsOutgoingFlight(t *testing.T) {
	t.Parallel()
	detector := NewHitDetector(DefaultHitDetectorConfig(), testFPS)
	hits, _ := detector.Detect(reversalSequence())
	require.Len(t, hits, 1)

	// Outgoing flight is 10 px/frame at 30 fps = 300 px/s. The median
	// filter rounds the corner, so allow a generous band.
	assert.InDelta(t, 300, hits[0].SpeedPxPerSec, 90)
}

func TestDetectNoShuttleDataProducesNoHits(t *testing.T) {
	t.Parallel()
	frames := make([]FrameRecord, 60)
	for i := range frames {
		frames[i] = blankFrame(i, testFPS)
	}
	detector := NewHitDetector(DefaultHitDetectorConfig(), testFPS)
	hits, _ := detector.Detect(frames)
	assert.Empty(t, hits)
}

func TestDetectWristBonusAloneCannotGate(t *testing.T) {
	t.Parallel()
	// Strong wrist velocity with zero trajectory signals must never pass
	// the 2-of-3 gate.
	frames := make([]FrameRecord, 60)
	for i := range frames {
		frames[i] = blankFrame(i, testFPS)
		frames[i].WristVelocity = 5.0
	}
	detector := NewHitDetector(DefaultHitDetectorConfig(), testFPS)
	hits, _ := detector.Detect(frames)
	assert.Empty(t, hits)
}

func TestDetectCapturesSignalsOnRequest(t *testing.T) {
	t.Parallel()
	cfg := DefaultHitDetectorConfig()
	cfg.CaptureSignals = true
	detector := NewHitDetector(cfg, testFPS)

	frames := reversalSequence()
	_, dbg := detector.Detect(frames)

	require.NotNil(t, dbg)
	assert.Len(t, dbg.Composite, len(frames))
	assert.Len(t, dbg.SpeedRatio, len(frames))

	detector = NewHitDetector(DefaultHitDetectorConfig(), testFPS)
	_, dbg = detector.Detect(reversalSequence())
	assert.Nil(t, dbg)
}

func TestPercentileNormalizeScaleInvariance(t *testing.T) {
	t.Parallel()
	values := []float64{0, 0.1, 0.5, 2, 3, 0, 0.2, 1.4, 0.05}
	base := percentileNormalize(values, 90)

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v * 7.3
	}
	got := percentileNormalize(scaled, 90)

	require.Len(t, got, len(base))
	for i := range base {
		assert.InDelta(t, base[i], got[i], 1e-12, "index %d", i)
	}
}

func TestPercentileNormalizeClipsAndZeroes(t *testing.T) {
	t.Parallel()

	t.Run("all zero input stays zero", func(t *testing.T) {
		t.Parallel()
		out := percentileNormalize(make([]float64, 5), 90)
		for _, v := range out {
			assert.Zero(t, v)
		}
	})

	t.Run("values above the percentile clip to one", func(t *testing.T) {
		t.Parallel()
		out := percentileNormalize([]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 100}, 90)
		assert.Equal(t, 1.0, out[len(out)-1])
		for _, v := range out {
			assert.LessOrEqual(t, v, 1.0)
			assert.GreaterOrEqual(t, v, 0.0)
		}
	})
}

func TestSelectPeaksCooldown(t *testing.T) {
	t.Parallel()
	// Scenario: two candidates 10 frames apart, both over threshold,
	// cooldown 25, second scoring higher. Only the second survives.
	composite := make([]float64, 200)
	composite[100] = 0.8
	composite[110] = 0.9

	peaks := selectPeaks(composite, 0.5, 25)
	require.Len(t, peaks, 1)
	assert.Equal(t, 110, peaks[0].frame)
	assert.InDelta(t, 0.9, peaks[0].score, 1e-12)
}

func TestSelectPeaksEnforcesMinimumSeparation(t *testing.T) {
	t.Parallel()
	composite := make([]float64, 300)
	for i := 10; i < 290; i += 7 {
		composite[i] = 0.5 + float64(i%13)/26.0
	}

	cooldown := 25
	peaks := selectPeaks(composite, 0.5, cooldown)
	require.NotEmpty(t, peaks)
	for i := 1; i < len(peaks); i++ {
		assert.Greater(t, peaks[i].frame-peaks[i-1].frame, cooldown,
			"peaks %d and %d too close", i-1, i)
	}
}

func TestPolyfit(t *testing.T) {
	t.Parallel()

	t.Run("recovers an exact quadratic", func(t *testing.T) {
		t.Parallel()
		ts := []float64{-4, -3, -2, -1, 0}
		vs := make([]float64, len(ts))
		for i, x := range ts {
			vs[i] = 2 + 3*x + 0.5*x*x
		}
		coeffs, ok := polyfit(ts, vs, 2)
		require.True(t, ok)
		assert.InDelta(t, 2, coeffs[0], 1e-9)
		assert.InDelta(t, 3, coeffs[1], 1e-9)
		assert.InDelta(t, 0.5, coeffs[2], 1e-9)
	})

	t.Run("rejects underdetermined systems", func(t *testing.T) {
		t.Parallel()
		_, ok := polyfit([]float64{1, 2}, []float64{1, 2}, 2)
		assert.False(t, ok)
	})
}
