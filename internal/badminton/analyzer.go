package badminton

import "github.com/banshee-data/shuttle.report/internal/monitoring"

// Analyzer runs one synchronous classification pass over a fully buffered
// frame sequence. It holds no mutable state between runs, so independent
// analyzers (or repeated calls on one) may run concurrently; the only input
// mutation is the documented wrist-velocity injection into the frame slice.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer builds an analyzer with the given immutable configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze converts per-frame pose and shuttle measurements into the shot /
// hit / rally report. Empty input or a non-positive frame rate yields an
// empty, well-formed all-zero report; missing per-frame data is a normal
// no-signal state and never an error.
func (a *Analyzer) Analyze(frames []FrameRecord, fps float64) *Report {
	if len(frames) == 0 || fps <= 0 {
		return emptyReport()
	}

	// Velocity estimation pass; wrist velocity is injected into the frames
	// so the hit detector can use it as a bonus signal.
	estimator := NewVelocityEstimator(fps)
	records := make([]VelocityRecord, len(frames))
	for i := range frames {
		records[i] = estimator.Process(frames[i])
		frames[i].WristVelocity = records[i].WristVelocity
	}

	detector := NewHitDetector(a.cfg.HitDetector, fps)
	hits, signals := detector.Detect(frames)

	classifier := selectClassifier(a.cfg, hits)
	monitoring.Logf("analysis: %d frames, %d hits, strategy=%s",
		len(frames), len(hits), classifier.Name())
	shots := classifier.Classify(frames, records, hits)

	anyShuttleData := false
	for i := range frames {
		if frames[i].Shuttle != nil {
			anyShuttleData = true
			break
		}
	}

	builder := newRallyBuilder(a.cfg.Rally)
	var rallies []Rally
	var zones []GapZone
	if anyShuttleData {
		rallies, zones = builder.buildShuttleRallies(frames)
		shots = dropShotsInGapZones(shots, zones)
		builder.attachShotsAndHits(rallies, shots, hits)
	} else {
		rallies = builder.buildPoseRallies(shots)
	}

	report := &Report{
		Shots:            shots,
		Rallies:          rallies,
		GapZones:         zones,
		ShuttleHits:      hits,
		ShotTimeline:     buildTimeline(shots),
		ShotDistribution: buildDistribution(shots),
		Signals:          signals,
	}
	report.Summary = buildSummary(frames, shots, rallies, hits, anyShuttleData)
	normalizeReport(report)
	return report
}

func buildTimeline(shots []ShotEvent) []TimelineEntry {
	timeline := make([]TimelineEntry, 0, len(shots))
	for _, s := range shots {
		entry := TimelineEntry{
			Time:       s.Timestamp,
			Shot:       s.ShotType,
			Confidence: s.Confidence,
		}
		if s.Hit != nil {
			speed := s.Hit.SpeedPxPerSec
			matched := true
			entry.ShuttleSpeedPxSec = &speed
			entry.ShuttleHitMatched = &matched
		}
		timeline = append(timeline, entry)
	}
	return timeline
}

func buildDistribution(shots []ShotEvent) map[ShotType]int {
	dist := make(map[ShotType]int)
	for _, s := range shots {
		if IsCountedShot(s.ShotType) {
			dist[s.ShotType]++
		}
	}
	return dist
}

func buildSummary(frames []FrameRecord, shots []ShotEvent, rallies []Rally, hits []HitEvent, anyShuttleData bool) Summary {
	summary := Summary{
		FramesProcessed:     len(frames),
		TotalRallies:        len(rallies),
		ShuttleHitsDetected: len(hits),
	}

	detected := 0
	visible := 0
	for i := range frames {
		if frames[i].PlayerDetected {
			detected++
		}
		if frames[i].Shuttle != nil && frames[i].Shuttle.Visible {
			visible++
		}
	}
	summary.PlayerDetectionRate = float64(detected) / float64(len(frames))
	if anyShuttleData {
		rate := float64(visible) / float64(len(frames))
		summary.ShuttleDetectionRate = &rate
	}

	confSum := 0.0
	for _, s := range shots {
		if IsCountedShot(s.ShotType) {
			summary.TotalShots++
			confSum += s.Confidence
		}
	}
	if summary.TotalShots > 0 {
		summary.AvgConfidence = confSum / float64(summary.TotalShots)
	}
	return summary
}

// normalizeReport replaces nil slices with empty ones so encoded reports
// always carry arrays, never nulls.
func normalizeReport(r *Report) {
	if r.Shots == nil {
		r.Shots = []ShotEvent{}
	}
	if r.Rallies == nil {
		r.Rallies = []Rally{}
	}
	if r.GapZones == nil {
		r.GapZones = []GapZone{}
	}
	if r.ShuttleHits == nil {
		r.ShuttleHits = []HitEvent{}
	}
	if r.ShotTimeline == nil {
		r.ShotTimeline = []TimelineEntry{}
	}
	if r.ShotDistribution == nil {
		r.ShotDistribution = map[ShotType]int{}
	}
}

func emptyReport() *Report {
	r := &Report{}
	normalizeReport(r)
	return r
}
