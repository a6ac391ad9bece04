package badminton

// ShotClassifier is one of the two shot classification strategies. The
// strategy is chosen exactly once per run, by whether the hit detector
// produced any events, and never switches mid-run.
type ShotClassifier interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// Classify maps the run's frames, velocity records and hit events to
	// shot events in frame order.
	Classify(frames []FrameRecord, records []VelocityRecord, hits []HitEvent) []ShotEvent
}

// selectClassifier picks the hit-centric strategy whenever hit events
// exist; the legacy per-frame strategy is the fallback for runs where the
// shuttle was never tracked well enough to detect contacts.
func selectClassifier(cfg Config, hits []HitEvent) ShotClassifier {
	if len(hits) > 0 {
		return newHitWindowClassifier(cfg)
	}
	return newLegacyClassifier(cfg)
}

// shotConfidence computes the standard confidence ramp: a base value plus
// slope times the velocity margin over the branch threshold, capped per
// label.
func shotConfidence(base, slope, velocity, threshold, cap float64) float64 {
	conf := base + slope*(velocity-threshold)
	if conf > cap {
		return cap
	}
	if conf < 0 {
		return 0
	}
	return conf
}
