package badminton

// Shared synthetic sequence builders for tests. All sequences use clean
// 1/fps timestamps unless a test overrides them.

const testFPS = 30.0

// shuttleFrame builds a frame with a visible shuttle at (x, y).
func shuttleFrame(i int, fps, x, y float64) FrameRecord {
	return FrameRecord{
		FrameNumber: i,
		Timestamp:   float64(i) / fps,
		Shuttle:     &ShuttleObservation{X: x, Y: y, Confidence: 0.9, Visible: true},
	}
}

// blankFrame builds a frame with no pose and no shuttle data at all.
func blankFrame(i int, fps float64) FrameRecord {
	return FrameRecord{FrameNumber: i, Timestamp: float64(i) / fps}
}

// invisibleShuttleFrame builds a frame whose shuttle detector ran but saw
// nothing.
func invisibleShuttleFrame(i int, fps float64) FrameRecord {
	return FrameRecord{
		FrameNumber: i,
		Timestamp:   float64(i) / fps,
		Shuttle:     &ShuttleObservation{Visible: false},
	}
}

// poseFrame builds a player-detected frame with the given wrist position
// and a fixed torso (shoulder 0.40, shoulder centre 0.42, hip 0.70).
func poseFrame(i int, fps, wristX, wristY float64) FrameRecord {
	return FrameRecord{
		FrameNumber:    i,
		Timestamp:      float64(i) / fps,
		PlayerDetected: true,
		Pose: &PoseState{
			Wrist:          Point{X: wristX, Y: wristY},
			Elbow:          Point{X: wristX - 0.15, Y: wristY + 0.05},
			Shoulder:       Point{X: 0.45, Y: 0.40},
			ShoulderCenter: Point{X: 0.50, Y: 0.42},
			HipCenter:      Point{X: 0.50, Y: 0.70},
		},
	}
}

// reversalSequence is the Scenario A fixture: 90 frames of clean shuttle
// visibility moving linearly right at 4 px/frame, reversing at frame 45
// into 10 px/frame leftward flight.
func reversalSequence() []FrameRecord {
	frames := make([]FrameRecord, 90)
	for i := range frames {
		x := 100.0 + 4.0*float64(i)
		if i > 45 {
			x = 280.0 - 10.0*float64(i-45)
		}
		frames[i] = shuttleFrame(i, testFPS, x, 300)
	}
	return frames
}

// copyFrames deep-copies a frame slice so a second Analyze call sees
// pristine input.
func copyFrames(frames []FrameRecord) []FrameRecord {
	out := make([]FrameRecord, len(frames))
	for i, fr := range frames {
		out[i] = fr
		if fr.Pose != nil {
			pose := *fr.Pose
			out[i].Pose = &pose
		}
		if fr.Shuttle != nil {
			shuttle := *fr.Shuttle
			out[i].Shuttle = &shuttle
		}
	}
	return out
}
