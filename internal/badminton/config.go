package badminton

// VelocityThresholds are the wrist-speed boundaries used by the legacy
// per-frame decision list. Speeds are in normalised screen units per second.
// The values are heuristic tuning points, not ground-truth calibrated.
type VelocityThresholds struct {
	// ArcSmashMin and ArcClearMin split overhead arcs into smash / clear /
	// drop by strictly descending current velocity.
	ArcSmashMin float64
	ArcClearMin float64

	PowerOverheadMin  float64
	GentleOverheadMin float64
	DriveMin          float64
	NetPlayMin        float64
	NetPlayMax        float64
	LiftMin           float64
	MovementMin       float64
}

// DefaultVelocityThresholds returns the compiled-in legacy velocity tuning.
func DefaultVelocityThresholds() VelocityThresholds {
	return VelocityThresholds{
		ArcSmashMin:       2.2,
		ArcClearMin:       1.2,
		PowerOverheadMin:  1.8,
		GentleOverheadMin: 0.9,
		DriveMin:          1.4,
		NetPlayMin:        0.15,
		NetPlayMax:        0.9,
		LiftMin:           0.6,
		MovementMin:       0.25,
	}
}

// PositionThresholds are the normalised screen-position boundaries shared by
// the legacy decision list. Y grows downward, so "low on court" means a
// larger Y value.
type PositionThresholds struct {
	// OverheadOffset relaxes the wrist-above-shoulder test: the wrist counts
	// as overhead when wristY < shoulderY - OverheadOffset. This is the
	// legacy constant and is tuned independently of the window-aggregate
	// overhead offset.
	OverheadOffset float64

	// LowWristY marks the wrist as "low" (net play, lifts) when wristY
	// exceeds it.
	LowWristY float64

	// ArmExtensionMin is the minimum wrist-elbow distance for an extended
	// arm (net play reach).
	ArmExtensionMin float64
}

// DefaultPositionThresholds returns the compiled-in legacy position tuning.
func DefaultPositionThresholds() PositionThresholds {
	return PositionThresholds{
		OverheadOffset:  0.05,
		LowWristY:       0.62,
		ArmExtensionMin: 0.10,
	}
}

// WindowAggregateThresholds tune the hit-centric classifier, which works on
// aggregates over the attribution window preceding each hit rather than on
// single-frame features.
type WindowAggregateThresholds struct {
	// OverheadOffset is the window-aggregate wrist-above-shoulder slack.
	// Deliberately a separate constant from the legacy offset; the two were
	// tuned on different feature distributions.
	OverheadOffset float64

	// OverheadFractionMin is the minimum fraction of in-window frames with
	// the wrist overhead for any overhead shot branch to fire.
	OverheadFractionMin float64

	// Net shot: wrist high on screen while the hips are low (lunge).
	NetWristMaxY float64
	NetHipMinY   float64

	// Lift: either the hips are very low, or moderately low with the wrist
	// close to the hips and not high on screen (crouched defensive shape).
	LiftHipDeepY       float64
	LiftHipLowY        float64
	LiftWristHipGapMax float64
	LiftWristMinY      float64

	// Peak-velocity boundaries. SmashVelocityMin is the smash/clear
	// boundary, ClearVelocityMin the gentle-overhead boundary and
	// DropVelocityMin the minimal overhead floor.
	SmashVelocityMin float64
	ClearVelocityMin float64
	DropVelocityMin  float64

	// MovementVelocityMin is the activity gate: hits whose window never
	// reaches this peak velocity are attributed to the opponent and
	// discarded.
	MovementVelocityMin float64
}

// DefaultWindowAggregateThresholds returns the compiled-in hit-centric tuning.
func DefaultWindowAggregateThresholds() WindowAggregateThresholds {
	return WindowAggregateThresholds{
		OverheadOffset:      0.03,
		OverheadFractionMin: 0.30,
		NetWristMaxY:        0.40,
		NetHipMinY:          0.60,
		LiftHipDeepY:        0.72,
		LiftHipLowY:         0.62,
		LiftWristHipGapMax:  0.18,
		LiftWristMinY:       0.35,
		SmashVelocityMin:    2.2,
		ClearVelocityMin:    1.0,
		DropVelocityMin:     0.35,
		MovementVelocityMin: 0.25,
	}
}

// HitDetectorConfig tunes the multi-signal shuttle hit detector.
type HitDetectorConfig struct {
	// DispWindow is the trailing/leading window length (frames) for the
	// displacement-cosine reversal signal.
	DispWindow int

	// SpeedWindow is the per-side window length (frames) for the speed
	// ratio signal.
	SpeedWindow int

	// BreakWindow is the trailing sample count for the trajectory-break
	// line/quadratic fit.
	BreakWindow int

	// NormPercentile is the percentile of strictly positive signal values
	// used as the normalisation divisor.
	NormPercentile float64

	// Signal weights for fusion. The three trajectory signals should sum
	// to 1; the wrist bonus is additive on top.
	WeightDisp  float64
	WeightSpeed float64
	WeightBreak float64

	// GateMin is the per-signal floor for the 2-of-3 gate: the composite is
	// zeroed unless at least two normalised trajectory signals exceed it.
	GateMin float64

	// HitThreshold is the minimum composite score for a peak candidate.
	HitThreshold float64

	// CooldownFrames is the NMS suppression radius. Accepted hits are
	// always strictly more than CooldownFrames apart.
	CooldownFrames int

	// WristBonusWeight and WristWindow control the optional wrist-velocity
	// bonus signal. A weight of zero disables it.
	WristBonusWeight float64
	WristWindow      int

	// MaxInterpolationGap is the longest run of missing shuttle frames the
	// trajectory builder will bridge linearly.
	MaxInterpolationGap int

	// CaptureSignals retains the per-frame signal arrays on the report for
	// debugging and plotting.
	CaptureSignals bool
}

// DefaultHitDetectorConfig returns the compiled-in hit detector tuning.
func DefaultHitDetectorConfig() HitDetectorConfig {
	return HitDetectorConfig{
		DispWindow:          5,
		SpeedWindow:         4,
		BreakWindow:         8,
		NormPercentile:      90,
		WeightDisp:          0.30,
		WeightSpeed:         0.40,
		WeightBreak:         0.30,
		GateMin:             0.25,
		HitThreshold:        0.50,
		CooldownFrames:      12,
		WristBonusWeight:    0.15,
		WristWindow:         3,
		MaxInterpolationGap: 5,
	}
}

// RallyConfig tunes rally segmentation and gap-zone detection.
type RallyConfig struct {
	// GapSeconds is the pose-based shot-to-shot gap that closes a rally.
	GapSeconds float64

	// ShuttleGapFrames is the forward window length for the shuttle
	// visibility miss-rate test.
	ShuttleGapFrames int

	// ShuttleGapMissPct is the miss percentage (0-100) at or above which a
	// window marks its whole span as a gap.
	ShuttleGapMissPct float64
}

// DefaultRallyConfig returns the compiled-in rally tuning.
func DefaultRallyConfig() RallyConfig {
	return RallyConfig{
		GapSeconds:        2.0,
		ShuttleGapFrames:  90,
		ShuttleGapMissPct: 80,
	}
}

// Config is the immutable configuration for one classification run. Build it
// once with DefaultConfig and apply overrides before constructing the
// Analyzer; the analyzer never mutates it.
type Config struct {
	Velocity        VelocityThresholds
	Position        PositionThresholds
	WindowAggregate WindowAggregateThresholds
	HitDetector     HitDetectorConfig
	Rally           RallyConfig

	// AttributionWindow is the lookback span (frames) preceding a hit used
	// by the hit-centric classifier.
	AttributionWindow int

	// ShotCooldownSeconds downgrades a second qualifying legacy shot inside
	// this span to follow_through so one swing is not counted twice.
	ShotCooldownSeconds float64

	// MatchToleranceSeconds is the legacy shot-to-hit pairing tolerance.
	MatchToleranceSeconds float64
}

// DefaultConfig returns the full compiled-in tuning.
func DefaultConfig() Config {
	return Config{
		Velocity:              DefaultVelocityThresholds(),
		Position:              DefaultPositionThresholds(),
		WindowAggregate:       DefaultWindowAggregateThresholds(),
		HitDetector:           DefaultHitDetectorConfig(),
		Rally:                 DefaultRallyConfig(),
		AttributionWindow:     30,
		ShotCooldownSeconds:   0.8,
		MatchToleranceSeconds: 0.3,
	}
}
