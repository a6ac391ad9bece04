package badminton

import "math"

// poseHistorySize bounds the estimator's trailing pose window. Velocity is
// always computed against the most recent entry, but the window gives the
// legacy classifier a short kinematic context.
const poseHistorySize = 10

type poseSample struct {
	frameNumber int
	timestamp   float64
	pose        PoseState
}

// VelocityEstimator derives per-frame wrist and body speed from consecutive
// pose observations. It is stateful across frames of one run only; build a
// fresh estimator per run.
type VelocityEstimator struct {
	fps     float64
	history []poseSample
}

// NewVelocityEstimator returns an estimator for the given frame rate. The
// frame rate is the time-delta fallback when timestamps are non-increasing.
func NewVelocityEstimator(fps float64) *VelocityEstimator {
	return &VelocityEstimator{fps: fps}
}

// Process consumes one frame and returns its velocity record. Frames
// without a detected player produce an empty record (Valid=false) and leave
// the pose history untouched; that is a normal "no signal" state, not an
// error.
func (e *VelocityEstimator) Process(fr FrameRecord) VelocityRecord {
	rec := VelocityRecord{
		FrameNumber:    fr.FrameNumber,
		Timestamp:      fr.Timestamp,
		WristDirection: DirectionNone,
	}
	if !fr.PlayerDetected || fr.Pose == nil {
		return rec
	}
	pose := *fr.Pose
	rec.Pose = fr.Pose
	rec.Valid = true

	if len(e.history) > 0 {
		prev := e.history[len(e.history)-1]
		dt := fr.Timestamp - prev.timestamp
		if dt <= 0 && e.fps > 0 {
			dt = 1 / e.fps
		}
		if dt > 0 {
			dx := pose.Wrist.X - prev.pose.Wrist.X
			dy := pose.Wrist.Y - prev.pose.Wrist.Y
			rec.TimeDelta = dt
			rec.WristVelocity = math.Hypot(dx, dy) / dt
			rec.WristDYPerSec = dy / dt
			rec.WristDirection = dominantDirection(dx, dy)

			bdx := pose.ShoulderCenter.X - prev.pose.ShoulderCenter.X
			bdy := pose.ShoulderCenter.Y - prev.pose.ShoulderCenter.Y
			rec.BodyVelocity = math.Hypot(bdx, bdy) / dt
		}
	}

	e.history = append(e.history, poseSample{
		frameNumber: fr.FrameNumber,
		timestamp:   fr.Timestamp,
		pose:        pose,
	})
	if len(e.history) > poseHistorySize {
		e.history = e.history[len(e.history)-poseHistorySize:]
	}
	return rec
}

// dominantDirection picks the axis with the larger displacement. Screen Y
// grows downward, so a negative dy is upward motion.
func dominantDirection(dx, dy float64) Direction {
	if dx == 0 && dy == 0 {
		return DirectionNone
	}
	if math.Abs(dy) > math.Abs(dx) {
		if dy < 0 {
			return DirectionUp
		}
		return DirectionDown
	}
	if dx < 0 {
		return DirectionLeft
	}
	return DirectionRight
}
