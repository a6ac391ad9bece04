// Package main generates synthetic frame-record fixtures for exercising the
// analysis pipeline without a perception stack: a clean shuttle reversal, a
// pose-only session, a long shuttle outage, or a mix of all three.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/banshee-data/shuttle.report/internal/badminton"
)

type genConfig struct {
	Scenario string
	Frames   int
	FPS      float64
	Output   string
}

func main() {
	cfg := genConfig{}
	flag.StringVar(&cfg.Scenario, "scenario", "reversal", "Scenario: reversal, pose-only, gap, mixed")
	flag.IntVar(&cfg.Frames, "frames", 300, "Number of frames to generate")
	flag.Float64Var(&cfg.FPS, "fps", 30, "Frame rate")
	flag.StringVar(&cfg.Output, "out", "", "Output file (default stdout)")
	flag.Parse()

	frames, err := generate(cfg)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(frames); err != nil {
		log.Fatalf("encode frames: %v", err)
	}
	if cfg.Output != "" {
		log.Printf("wrote %d frames to %s", len(frames), cfg.Output)
	}
}

func generate(cfg genConfig) ([]badminton.FrameRecord, error) {
	switch cfg.Scenario {
	case "reversal":
		return reversalFrames(cfg.Frames, cfg.FPS), nil
	case "pose-only":
		return poseOnlyFrames(cfg.Frames, cfg.FPS), nil
	case "gap":
		return gapFrames(cfg.Frames, cfg.FPS), nil
	case "mixed":
		return mixedFrames(cfg.Frames, cfg.FPS), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
}

func baseFrame(i int, fps float64) badminton.FrameRecord {
	return badminton.FrameRecord{
		FrameNumber: i,
		Timestamp:   float64(i) / fps,
	}
}

func withShuttle(f badminton.FrameRecord, x, y float64) badminton.FrameRecord {
	f.Shuttle = &badminton.ShuttleObservation{X: x, Y: y, Confidence: 0.9, Visible: true}
	return f
}

func withPose(f badminton.FrameRecord, wristX, wristY float64) badminton.FrameRecord {
	f.PlayerDetected = true
	f.Pose = &badminton.PoseState{
		Wrist:          badminton.Point{X: wristX, Y: wristY},
		Elbow:          badminton.Point{X: wristX - 0.05, Y: wristY + 0.05},
		Shoulder:       badminton.Point{X: 0.45, Y: 0.40},
		ShoulderCenter: badminton.Point{X: 0.50, Y: 0.42},
		HipCenter:      badminton.Point{X: 0.50, Y: 0.70},
	}
	return f
}

// reversalFrames produces a shuttle flying right then sharply reversing at
// the midpoint, the canonical single-hit trajectory.
func reversalFrames(n int, fps float64) []badminton.FrameRecord {
	frames := make([]badminton.FrameRecord, n)
	mid := n / 2
	for i := range frames {
		x := 100 + 4*float64(i)
		if i > mid {
			x = 100 + 4*float64(mid) - 10*float64(i-mid)
		}
		y := 300 + 20*math.Sin(float64(i)/15)
		frames[i] = withShuttle(baseFrame(i, fps), x, y)
	}
	return frames
}

// poseOnlyFrames produces a session with no shuttle data and a wrist burst
// once per second.
func poseOnlyFrames(n int, fps float64) []badminton.FrameRecord {
	frames := make([]badminton.FrameRecord, n)
	wristX := 0.30
	period := int(fps)
	if period < 1 {
		period = 1
	}
	for i := range frames {
		if i%period > 0 && i%period <= 3 {
			wristX += 0.08
		}
		if wristX > 0.85 {
			wristX = 0.30
		}
		frames[i] = withPose(baseFrame(i, fps), wristX, 0.55)
	}
	return frames
}

// gapFrames produces a shuttle run with a long invisible stretch in the
// middle third, which should surface as a gap zone.
func gapFrames(n int, fps float64) []badminton.FrameRecord {
	frames := make([]badminton.FrameRecord, n)
	for i := range frames {
		f := baseFrame(i, fps)
		if i >= n/3 && i < 2*n/3 {
			f.Shuttle = &badminton.ShuttleObservation{Visible: false}
		} else {
			f = withShuttle(f, 100+3*float64(i), 300)
		}
		frames[i] = f
	}
	return frames
}

// mixedFrames layers pose bursts over the reversal trajectory so both the
// hit detector and the classifier have signal.
func mixedFrames(n int, fps float64) []badminton.FrameRecord {
	frames := reversalFrames(n, fps)
	wristX := 0.30
	period := int(fps)
	if period < 1 {
		period = 1
	}
	for i := range frames {
		if i%period > 0 && i%period <= 3 {
			wristX += 0.08
		}
		if wristX > 0.85 {
			wristX = 0.30
		}
		pose := withPose(baseFrame(i, fps), wristX, 0.55)
		frames[i].PlayerDetected = true
		frames[i].Pose = pose.Pose
	}
	return frames
}
