package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/shuttle.report/internal/badminton"
	"github.com/banshee-data/shuttle.report/internal/db"
	"github.com/banshee-data/shuttle.report/internal/monitoring"
)

func newTestStore(t *testing.T) *ReportStore {
	t.Helper()
	defer monitoring.Mute()()

	database, err := db.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.MigrateUp())
	return NewReportStore(database.DB)
}

func sampleReport() *badminton.Report {
	rate := 0.85
	return &badminton.Report{
		Shots: []badminton.ShotEvent{
			{Frame: 40, Timestamp: 1.33, ShotType: badminton.ShotSmash, Confidence: 0.9},
			{Frame: 80, Timestamp: 2.67, ShotType: badminton.ShotClear, Confidence: 0.8},
		},
		Rallies: []badminton.Rally{
			{StartFrame: 30, EndFrame: 90, StartTime: 1.0, EndTime: 3.0, Duration: 2.0, ShotCount: 2},
		},
		GapZones:    []badminton.GapZone{},
		ShuttleHits: []badminton.HitEvent{{Frame: 40, Timestamp: 1.33}},
		ShotTimeline: []badminton.TimelineEntry{
			{Time: 1.33, Shot: badminton.ShotSmash, Confidence: 0.9},
		},
		ShotDistribution: map[badminton.ShotType]int{
			badminton.ShotSmash: 1,
			badminton.ShotClear: 1,
		},
		Summary: badminton.Summary{
			TotalShots:           2,
			TotalRallies:         1,
			ShuttleHitsDetected:  1,
			FramesProcessed:      120,
			PlayerDetectionRate:  0.95,
			ShuttleDetectionRate: &rate,
			AvgConfidence:        0.85,
		},
	}
}

func TestReportStoreInsertAndGet(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.Insert("match.mp4", 30, sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, stored.ReportID)
	assert.Equal(t, "match.mp4", stored.Source)
	assert.Equal(t, 2, stored.TotalShots)
	assert.NotZero(t, stored.CreatedAt)

	got, err := store.Get(stored.ReportID)
	require.NoError(t, err)
	assert.Equal(t, stored.ReportID, got.ReportID)
	assert.Equal(t, 30.0, got.FPS)
	assert.Equal(t, 120, got.FramesProcessed)
	require.NotNil(t, got.ShuttleDetectionRate)
	assert.InDelta(t, 0.85, *got.ShuttleDetectionRate, 1e-9)

	// The full payload round-trips through the JSON column.
	require.NotNil(t, got.Report)
	require.Len(t, got.Report.Shots, 2)
	assert.Equal(t, badminton.ShotSmash, got.Report.Shots[0].ShotType)
	assert.Equal(t, 1, got.Report.ShotDistribution[badminton.ShotClear])
}

func TestReportStoreNullShuttleRate(t *testing.T) {
	store := newTestStore(t)

	report := sampleReport()
	report.Summary.ShuttleDetectionRate = nil
	stored, err := store.Insert("pose-only.mp4", 25, report)
	require.NoError(t, err)

	got, err := store.Get(stored.ReportID)
	require.NoError(t, err)
	assert.Nil(t, got.ShuttleDetectionRate)
}

func TestReportStoreList(t *testing.T) {
	store := newTestStore(t)

	for _, source := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		_, err := store.Insert(source, 30, sampleReport())
		require.NoError(t, err)
	}

	all, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first; list entries carry no payload.
	assert.Equal(t, "c.mp4", all[0].Source)
	assert.Nil(t, all[0].Report)

	limited, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestReportStoreDelete(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.Insert("match.mp4", 30, sampleReport())
	require.NoError(t, err)

	require.NoError(t, store.Delete(stored.ReportID))

	_, err = store.Get(stored.ReportID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = store.Delete(stored.ReportID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReportStoreInsertNilReport(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Insert("x.mp4", 30, nil)
	require.Error(t, err)
}

func TestRetryOnBusy(t *testing.T) {
	t.Parallel()

	t.Run("retries busy then succeeds", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-busy error returns immediately", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			return errors.New("syntax error")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
