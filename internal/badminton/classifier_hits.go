package badminton

// windowFeatures are the pose aggregates over the attribution window
// preceding one hit event.
type windowFeatures struct {
	meanWristY       float64
	meanShoulderY    float64
	meanHipY         float64
	overheadFraction float64
	peakWristVel     float64
	sampleCount      int
}

// hitWindowClassifier is the hit-centric strategy: each detected shuttle
// contact is classified from pose aggregates over the attribution window
// that precedes it, since the swing happens before the contact. This is
// the common path whenever the hit detector found anything.
type hitWindowClassifier struct {
	cfg Config
}

func newHitWindowClassifier(cfg Config) *hitWindowClassifier {
	return &hitWindowClassifier{cfg: cfg}
}

func (c *hitWindowClassifier) Name() string { return "hit-window-aggregate" }

// Classify emits at most one shot event per hit. Hits whose window shows no
// meaningful wrist activity are attributed to the opponent and skipped.
func (c *hitWindowClassifier) Classify(frames []FrameRecord, records []VelocityRecord, hits []HitEvent) []ShotEvent {
	shots := make([]ShotEvent, 0, len(hits))
	for i := range hits {
		hit := &hits[i]
		feats := c.windowFeatures(frames, records, hit.Frame)

		if feats.sampleCount == 0 {
			// No pose data at all around the contact: report a neutral
			// drive at low confidence rather than dropping the hit.
			shots = append(shots, ShotEvent{
				Frame:      hit.Frame,
				Timestamp:  hit.Timestamp,
				ShotType:   ShotDrive,
				Confidence: 0.3,
				SwingType:  SwingWindowProfile,
				Hit:        hit,
			})
			continue
		}
		if feats.peakWristVel < c.cfg.WindowAggregate.MovementVelocityMin {
			// The tracked player never moved: the opponent hit this one.
			continue
		}

		shotType, swing, conf := c.classifyWindow(feats)
		shots = append(shots, ShotEvent{
			Frame:         hit.Frame,
			Timestamp:     hit.Timestamp,
			ShotType:      shotType,
			Confidence:    conf,
			SwingType:     swing,
			WristVelocity: feats.peakWristVel,
			Hit:           hit,
		})
	}
	return shots
}

// windowFeatures aggregates pose samples over the attribution window
// [hitFrame-window, hitFrame). Frame numbers index the input sequence via
// linear scan because input frame numbers may not start at zero.
func (c *hitWindowClassifier) windowFeatures(frames []FrameRecord, records []VelocityRecord, hitFrame int) windowFeatures {
	var f windowFeatures
	lo := hitFrame - c.cfg.AttributionWindow
	overhead := 0

	for i := range frames {
		fn := frames[i].FrameNumber
		if fn < lo || fn >= hitFrame {
			continue
		}
		pose := frames[i].Pose
		if !frames[i].PlayerDetected || pose == nil {
			continue
		}
		f.meanWristY += pose.Wrist.Y
		f.meanShoulderY += pose.Shoulder.Y
		f.meanHipY += pose.HipCenter.Y
		if pose.Wrist.Y < pose.Shoulder.Y-c.cfg.WindowAggregate.OverheadOffset {
			overhead++
		}
		if i < len(records) && records[i].Valid && records[i].WristVelocity > f.peakWristVel {
			f.peakWristVel = records[i].WristVelocity
		}
		f.sampleCount++
	}
	if f.sampleCount == 0 {
		return f
	}
	n := float64(f.sampleCount)
	f.meanWristY /= n
	f.meanShoulderY /= n
	f.meanHipY /= n
	f.overheadFraction = float64(overhead) / n
	return f
}

// classifyWindow is the ordered first-match-wins decision list over window
// aggregates. net_shot must be tested before the overhead branches: a net
// lunge can briefly put the wrist above the shoulder too.
func (c *hitWindowClassifier) classifyWindow(f windowFeatures) (ShotType, SwingType, float64) {
	wa := c.cfg.WindowAggregate
	v := f.peakWristVel
	overhead := f.overheadFraction >= wa.OverheadFractionMin

	switch {
	case f.meanWristY <= wa.NetWristMaxY && f.meanHipY >= wa.NetHipMinY:
		return ShotNetShot, SwingNetPlay,
			shotConfidence(0.50, 0.15, v, wa.MovementVelocityMin, netConfidenceCap)

	case overhead && v >= wa.SmashVelocityMin:
		return ShotSmash, SwingPowerOverhead,
			shotConfidence(0.65, 0.10, v, wa.SmashVelocityMin, smashConfidenceCap)

	case overhead && v >= wa.ClearVelocityMin:
		return ShotClear, SwingGentleOverhead,
			shotConfidence(0.60, 0.10, v, wa.ClearVelocityMin, clearConfidenceCap)

	case overhead && v >= wa.DropVelocityMin:
		return ShotDropShot, SwingOverheadArc,
			shotConfidence(0.55, 0.10, v, wa.DropVelocityMin, dropConfidenceCap)

	case f.meanHipY >= wa.LiftHipDeepY ||
		(f.meanHipY >= wa.LiftHipLowY &&
			f.meanHipY-f.meanWristY <= wa.LiftWristHipGapMax &&
			f.meanWristY >= wa.LiftWristMinY):
		return ShotLift, SwingLift,
			shotConfidence(0.50, 0.10, v, wa.MovementVelocityMin, liftConfidenceCap)

	default:
		return ShotDrive, SwingDrive,
			shotConfidence(0.45, 0.08, v, 0, driveConfidenceCap)
	}
}
