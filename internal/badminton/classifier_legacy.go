package badminton

import "math"

// Confidence caps per shot label, shared by both strategies.
const (
	smashConfidenceCap = 0.95
	clearConfidenceCap = 0.90
	dropConfidenceCap  = 0.85
	netConfidenceCap   = 0.75
	driveConfidenceCap = 0.75
	liftConfidenceCap  = 0.70

	// Fixed confidences for non-shot states.
	preparationConfidence   = 0.40
	readyConfidence         = 0.35
	staticConfidence        = 0.30
	followThroughConfidence = 0.30
)

// arcSpanMaxSeconds bounds the overhead arc window: three velocity records
// spread over more than this are separate motions, not one swing.
const arcSpanMaxSeconds = 0.5

// staticVelocityMax is the wrist speed below which the player is treated
// as static rather than merely ready.
const staticVelocityMax = 0.05

// legacyClassifier is the per-frame decision-tree strategy. It predates the
// hit detector and is kept for sequences where no shuttle contact could be
// detected at all; every frame with a valid velocity record is pushed
// through an ordered first-match-wins decision list.
type legacyClassifier struct {
	cfg Config
}

func newLegacyClassifier(cfg Config) *legacyClassifier {
	return &legacyClassifier{cfg: cfg}
}

func (c *legacyClassifier) Name() string { return "legacy-per-frame" }

// Classify walks the velocity records, emits a shot event for every
// qualifying swing (confidence above 0.5), downgrades swings inside the
// shot cooldown to follow_through, then pairs accepted shots with hit
// events when any exist.
func (c *legacyClassifier) Classify(frames []FrameRecord, records []VelocityRecord, hits []HitEvent) []ShotEvent {
	var shots []ShotEvent
	var recent []VelocityRecord // trailing valid records, newest last
	lastAccepted := math.Inf(-1)

	for i := range records {
		rec := records[i]
		if !rec.Valid {
			continue
		}

		swing, shotType, conf := c.classifyFrame(rec, recent)
		recent = append(recent, rec)
		if len(recent) > 4 {
			recent = recent[1:]
		}

		// Only confident, counted swings become shot events.
		if conf <= 0.5 || !IsCountedShot(shotType) {
			continue
		}
		if rec.Timestamp-lastAccepted < c.cfg.ShotCooldownSeconds {
			// Second qualifying swing inside the cooldown is the tail of
			// the same motion, not a new shot.
			shots = append(shots, ShotEvent{
				Frame:         rec.FrameNumber,
				Timestamp:     rec.Timestamp,
				ShotType:      StateFollowThrough,
				Confidence:    followThroughConfidence,
				SwingType:     swing,
				WristVelocity: rec.WristVelocity,
			})
			continue
		}
		lastAccepted = rec.Timestamp
		shots = append(shots, ShotEvent{
			Frame:         rec.FrameNumber,
			Timestamp:     rec.Timestamp,
			ShotType:      shotType,
			Confidence:    conf,
			SwingType:     swing,
			WristVelocity: rec.WristVelocity,
		})
	}

	matchShotsToHits(shots, hits, c.cfg.MatchToleranceSeconds)
	return shots
}

// classifyFrame runs arc detection and then the ordered decision list for a
// single frame. recent holds the trailing valid records before rec.
func (c *legacyClassifier) classifyFrame(rec VelocityRecord, recent []VelocityRecord) (SwingType, ShotType, float64) {
	if shotType, conf, ok := c.detectOverheadArc(rec, recent); ok {
		return SwingOverheadArc, shotType, conf
	}
	return c.decisionList(rec)
}

// detectOverheadArc looks for the up-up-down signature of an overhead
// swing over the last three velocity records, with the wrist above the
// shoulder at some point and the whole arc inside half a second.
func (c *legacyClassifier) detectOverheadArc(rec VelocityRecord, recent []VelocityRecord) (ShotType, float64, bool) {
	if len(recent) < 3 || rec.WristDirection != DirectionDown {
		return "", 0, false
	}
	window := recent[len(recent)-3:]

	ups := 0
	wristWasOverhead := false
	for _, r := range window {
		if r.WristDirection == DirectionUp {
			ups++
		}
		if r.Pose != nil && r.Pose.Wrist.Y < r.Pose.Shoulder.Y-c.cfg.Position.OverheadOffset {
			wristWasOverhead = true
		}
	}
	if ups < 2 || !wristWasOverhead {
		return "", 0, false
	}
	if rec.Timestamp-window[0].Timestamp >= arcSpanMaxSeconds {
		return "", 0, false
	}

	// Arc subtype by strictly descending velocity thresholds.
	v := rec.WristVelocity
	switch {
	case v >= c.cfg.Velocity.ArcSmashMin:
		return ShotSmash, shotConfidence(0.70, 0.10, v, c.cfg.Velocity.ArcSmashMin, smashConfidenceCap), true
	case v >= c.cfg.Velocity.ArcClearMin:
		return ShotClear, shotConfidence(0.65, 0.10, v, c.cfg.Velocity.ArcClearMin, clearConfidenceCap), true
	default:
		return ShotDropShot, shotConfidence(0.60, 0.10, v, 0, dropConfidenceCap), true
	}
}

// decisionList is the ordered first-match-wins swing classification. The
// order is load-bearing: later branches assume earlier ones already
// excluded the more specific cases.
func (c *legacyClassifier) decisionList(rec VelocityRecord) (SwingType, ShotType, float64) {
	pose := rec.Pose
	v := rec.WristVelocity
	vel := c.cfg.Velocity
	pos := c.cfg.Position

	wristOverhead := pose.Wrist.Y < pose.Shoulder.Y-pos.OverheadOffset
	wristLow := pose.Wrist.Y > pos.LowWristY
	wristBetweenShoulderAndHip := pose.Wrist.Y >= pose.Shoulder.Y && pose.Wrist.Y <= pose.HipCenter.Y
	lateral := rec.WristDirection == DirectionLeft || rec.WristDirection == DirectionRight
	armExtended := math.Hypot(pose.Wrist.X-pose.Elbow.X, pose.Wrist.Y-pose.Elbow.Y) >= pos.ArmExtensionMin

	switch {
	case wristOverhead && v >= vel.PowerOverheadMin:
		return SwingPowerOverhead, ShotSmash,
			shotConfidence(0.70, 0.10, v, vel.PowerOverheadMin, smashConfidenceCap)

	case wristOverhead && v >= vel.GentleOverheadMin:
		return SwingGentleOverhead, ShotClear,
			shotConfidence(0.65, 0.10, v, vel.GentleOverheadMin, clearConfidenceCap)

	case lateral && v >= vel.DriveMin && wristBetweenShoulderAndHip:
		return SwingDrive, ShotDrive,
			shotConfidence(0.55, 0.10, v, vel.DriveMin, driveConfidenceCap)

	case wristLow && armExtended && v >= vel.NetPlayMin && v <= vel.NetPlayMax &&
		rec.WristDirection != DirectionUp:
		return SwingNetPlay, ShotNetShot,
			shotConfidence(0.55, 0.15, v, vel.NetPlayMin, netConfidenceCap)

	case wristLow && rec.WristDirection == DirectionUp && v >= vel.LiftMin:
		return SwingLift, ShotLift,
			shotConfidence(0.50, 0.10, v, vel.LiftMin, liftConfidenceCap)

	case v >= vel.MovementMin:
		return SwingMovement, StatePreparation, preparationConfidence

	case v < staticVelocityMax:
		return SwingStatic, StateStatic, staticConfidence

	default:
		return SwingReady, StateReadyPosition, readyConfidence
	}
}
