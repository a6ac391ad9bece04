package badminton

// Point is a 2D position in image coordinates. Pose joints are normalised to
// [0,1] with the origin at the top-left corner; shuttle positions are in
// pixels. Y grows downward in both spaces.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PoseState holds the subset of pose-estimator joints the classifier uses.
// All coordinates are normalised screen positions.
type PoseState struct {
	Wrist          Point `json:"wrist"`
	Elbow          Point `json:"elbow"`
	Shoulder       Point `json:"shoulder"`
	ShoulderCenter Point `json:"shoulder_center"`
	HipCenter      Point `json:"hip_center"`
}

// ShuttleObservation is one shuttle-detector output for a frame. Visible
// reports whether the detector considers the shuttle actually in frame;
// positions with Visible=false are ignored by the trajectory builder.
type ShuttleObservation struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
	Visible    bool    `json:"visible"`
}

// FrameRecord is one input frame from the perception layer. Pose is present
// iff PlayerDetected. The analyzer mutates a record in exactly one way: it
// injects the derived WristVelocity before hit detection so the detector can
// use it as a bonus signal.
type FrameRecord struct {
	FrameNumber    int                 `json:"frame_number"`
	Timestamp      float64             `json:"timestamp"`
	Pose           *PoseState          `json:"pose,omitempty"`
	Shuttle        *ShuttleObservation `json:"shuttle,omitempty"`
	PlayerDetected bool                `json:"player_detected"`
	WristVelocity  float64             `json:"wrist_velocity,omitempty"`
}

// Direction is the dominant axis of wrist motion between two frames.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionNone  Direction = "none"
)

// VelocityRecord is the per-frame output of the velocity estimator. Records
// are recomputed fresh on every run from a bounded pose-history window and
// never persisted. A frame without a detected player yields a record with
// Valid=false, which downstream consumers treat as "no signal".
type VelocityRecord struct {
	FrameNumber    int
	Timestamp      float64
	WristVelocity  float64
	BodyVelocity   float64
	WristDirection Direction
	WristDYPerSec  float64
	TimeDelta      float64
	Pose           *PoseState
	Valid          bool
}

// ReversalType labels which fused signal dominated an accepted hit.
type ReversalType string

const (
	ReversalDirection  ReversalType = "direction_reversal"
	ReversalSpeed      ReversalType = "speed_change"
	ReversalTrajectory ReversalType = "trajectory_break"
)

// HitEvent is a detected instant of racket-shuttle contact, inferred purely
// from trajectory and wrist-velocity signals. For any two hits h1 before h2,
// h2.Frame - h1.Frame > the configured NMS cooldown.
type HitEvent struct {
	Frame         int          `json:"frame"`
	Timestamp     float64      `json:"timestamp"`
	Position      Point        `json:"hit_position"`
	SpeedPxPerSec float64      `json:"speed_px_per_sec"`
	Confidence    float64      `json:"confidence"`
	ReversalType  ReversalType `json:"reversal_type"`
}

// ShotType is the closed vocabulary of shot labels. The first six are
// counted shots; the remainder are non-shot kinematic states that may appear
// on the timeline but never in the shot distribution.
type ShotType string

const (
	ShotSmash    ShotType = "smash"
	ShotClear    ShotType = "clear"
	ShotDropShot ShotType = "drop_shot"
	ShotNetShot  ShotType = "net_shot"
	ShotDrive    ShotType = "drive"
	ShotLift     ShotType = "lift"

	StateStatic        ShotType = "static"
	StateReadyPosition ShotType = "ready_position"
	StatePreparation   ShotType = "preparation"
	StateFollowThrough ShotType = "follow_through"
)

// CountedShotTypes lists the labels that participate in the shot
// distribution, in reporting order.
var CountedShotTypes = []ShotType{
	ShotSmash, ShotClear, ShotDropShot, ShotNetShot, ShotDrive, ShotLift,
}

// IsCountedShot reports whether t is one of the six counted shot labels.
func IsCountedShot(t ShotType) bool {
	switch t {
	case ShotSmash, ShotClear, ShotDropShot, ShotNetShot, ShotDrive, ShotLift:
		return true
	}
	return false
}

// SwingType is the intermediate kinematic label bridging raw velocity and
// position features and the final shot label.
type SwingType string

const (
	SwingOverheadArc    SwingType = "overhead_arc"
	SwingPowerOverhead  SwingType = "power_overhead"
	SwingGentleOverhead SwingType = "gentle_overhead"
	SwingDrive          SwingType = "drive"
	SwingNetPlay        SwingType = "net_play"
	SwingLift           SwingType = "lift"
	SwingMovement       SwingType = "movement"
	SwingReady          SwingType = "ready"
	SwingStatic         SwingType = "static"
	SwingWindowProfile  SwingType = "window_profile"
)

// ShotEvent is one classified swing. Hit is the matched shuttle contact when
// one exists; nil means the shot could not be paired with a hit event.
type ShotEvent struct {
	Frame         int       `json:"frame"`
	Timestamp     float64   `json:"timestamp"`
	ShotType      ShotType  `json:"shot_type"`
	Confidence    float64   `json:"confidence"`
	SwingType     SwingType `json:"swing_type"`
	WristVelocity float64   `json:"wrist_velocity"`
	Hit           *HitEvent `json:"shuttle_hit,omitempty"`
}

// Rally is a contiguous play exchange. Rallies are sequence-ordered and
// non-overlapping. Pose-based rallies carry at least two shots; shuttle-based
// rallies have positive duration and at least one truly visible shuttle
// frame inside their span.
type Rally struct {
	RallyID    int        `json:"rally_id"`
	StartFrame int        `json:"start_frame"`
	EndFrame   int        `json:"end_frame"`
	StartTime  float64    `json:"start_time"`
	EndTime    float64    `json:"end_time"`
	Duration   float64    `json:"duration"`
	ShotCount  int        `json:"shot_count"`
	Shots      []ShotType `json:"shots"`
	HitCount   int        `json:"hit_count"`
}

// GapZone is a contiguous frame run judged "shuttle not in play". Shot
// events falling inside a gap zone are dropped before reporting.
type GapZone struct {
	StartIdx   int     `json:"start_idx"`
	EndIdx     int     `json:"end_idx"`
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// TimelineEntry is one compact row of the report timeline.
type TimelineEntry struct {
	Time              float64  `json:"time"`
	Shot              ShotType `json:"shot"`
	Confidence        float64  `json:"confidence"`
	ShuttleSpeedPxSec *float64 `json:"shuttle_speed_px_per_sec,omitempty"`
	ShuttleHitMatched *bool    `json:"shuttle_hit_matched,omitempty"`
}

// Summary aggregates whole-run statistics. ShuttleDetectionRate is nil when
// no frame in the input carried any shuttle data at all.
type Summary struct {
	TotalShots           int      `json:"total_shots"`
	TotalRallies         int      `json:"total_rallies"`
	FramesProcessed      int      `json:"frames_processed"`
	PlayerDetectionRate  float64  `json:"player_detection_rate"`
	AvgConfidence        float64  `json:"avg_confidence"`
	ShuttleDetectionRate *float64 `json:"shuttle_detection_rate"`
	ShuttleHitsDetected  int      `json:"shuttle_hits_detected"`
}

// Report is the final output of one classification pass.
type Report struct {
	Shots            []ShotEvent      `json:"shots"`
	Rallies          []Rally          `json:"rallies"`
	GapZones         []GapZone        `json:"gap_zones"`
	ShuttleHits      []HitEvent       `json:"shuttle_hits"`
	ShotTimeline     []TimelineEntry  `json:"shot_timeline"`
	ShotDistribution map[ShotType]int `json:"shot_distribution"`
	Summary          Summary          `json:"summary"`
	Signals          *SignalDebug     `json:"signals,omitempty"`
}

// SignalDebug holds the hit detector's per-frame signal arrays. It is only
// populated when Config.HitDetector.CaptureSignals is set and exists for the
// plot-signals tool and the monitor endpoints.
type SignalDebug struct {
	DisplacementCosine []float64 `json:"displacement_cosine"`
	SpeedRatio         []float64 `json:"speed_ratio"`
	TrajectoryBreak    []float64 `json:"trajectory_break"`
	WristBonus         []float64 `json:"wrist_bonus"`
	Composite          []float64 `json:"composite"`
}
