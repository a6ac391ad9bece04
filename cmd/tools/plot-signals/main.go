// Package main plots the hit detector's per-frame signal arrays for one
// frame-record file: the three fused signals, the wrist bonus, and the
// composite score with accepted hits marked. Useful when tuning detector
// weights against a new recording.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/shuttle.report/internal/badminton"
	"github.com/banshee-data/shuttle.report/internal/config"
)

func main() {
	var (
		input      = flag.String("input", "", "Path to frame records JSON file")
		fps        = flag.Float64("fps", 30, "Frame rate of the source video")
		configPath = flag.String("config", "", "Path to tuning config JSON (optional)")
		output     = flag.String("out", "signals.png", "Output PNG path")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("-input is required")
	}

	frames, err := loadFrames(*input)
	if err != nil {
		log.Fatalf("load frames: %v", err)
	}

	analysisCfg := badminton.DefaultConfig()
	if *configPath != "" {
		tuning, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		analysisCfg = tuning.Apply()
	}
	analysisCfg.HitDetector.CaptureSignals = true

	analyzer := badminton.NewAnalyzer(analysisCfg)
	report := analyzer.Analyze(frames, *fps)
	if report.Signals == nil {
		log.Fatal("no signals captured; input has no shuttle data")
	}

	if err := plotSignals(report, analysisCfg, *output); err != nil {
		log.Fatalf("plot: %v", err)
	}
	log.Printf("wrote %s (%d frames, %d hits)", *output, len(frames), len(report.ShuttleHits))
}

func loadFrames(path string) ([]badminton.FrameRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var frames []badminton.FrameRecord
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("parse frame records: %w", err)
	}
	return frames, nil
}

func plotSignals(report *badminton.Report, cfg badminton.Config, path string) error {
	p := plot.New()
	p.Title.Text = "Hit Detector Signals"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Normalised score"
	p.Y.Min = 0
	p.Y.Max = 1.1

	series := []struct {
		name   string
		values []float64
		color  color.RGBA
		width  vg.Length
	}{
		{"displacement cosine", report.Signals.DisplacementCosine, color.RGBA{R: 214, G: 69, B: 65, A: 255}, vg.Points(1)},
		{"speed ratio", report.Signals.SpeedRatio, color.RGBA{R: 65, G: 131, B: 215, A: 255}, vg.Points(1)},
		{"trajectory break", report.Signals.TrajectoryBreak, color.RGBA{R: 46, G: 204, B: 113, A: 255}, vg.Points(1)},
		{"wrist bonus", report.Signals.WristBonus, color.RGBA{R: 155, G: 89, B: 182, A: 255}, vg.Points(1)},
		{"composite", report.Signals.Composite, color.RGBA{A: 255}, vg.Points(2)},
	}

	for _, s := range series {
		if len(s.values) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.values))
		for i, v := range s.values {
			pts[i] = plotter.XY{X: float64(i), Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = s.color
		line.Width = s.width
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	// Threshold line and accepted hits.
	threshold := plotter.NewFunction(func(x float64) float64 { return cfg.HitDetector.HitThreshold })
	threshold.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	threshold.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	p.Add(threshold)
	p.Legend.Add("threshold", threshold)

	if len(report.ShuttleHits) > 0 {
		hitPts := make(plotter.XYs, len(report.ShuttleHits))
		for i, h := range report.ShuttleHits {
			hitPts[i] = plotter.XY{X: float64(h.Frame), Y: h.Confidence}
		}
		hits, err := plotter.NewScatter(hitPts)
		if err != nil {
			return err
		}
		hits.GlyphStyle.Radius = vg.Points(4)
		hits.GlyphStyle.Color = color.RGBA{R: 243, G: 156, B: 18, A: 255}
		p.Add(hits)
		p.Legend.Add("accepted hits", hits)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
