// Package config loads and validates the JSON tuning file for the analysis
// pipeline. Every field is optional; fields omitted from the JSON keep the
// compiled-in defaults from the badminton package, so partial configs are
// safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/shuttle.report/internal/badminton"
)

// maxConfigFileSize bounds tuning files; anything larger is a mistake.
const maxConfigFileSize = 1 * 1024 * 1024

// VelocityTuning overrides the legacy velocity thresholds.
type VelocityTuning struct {
	ArcSmashMin       *float64 `json:"arc_smash_min,omitempty"`
	ArcClearMin       *float64 `json:"arc_clear_min,omitempty"`
	PowerOverheadMin  *float64 `json:"power_overhead_min,omitempty"`
	GentleOverheadMin *float64 `json:"gentle_overhead_min,omitempty"`
	DriveMin          *float64 `json:"drive_min,omitempty"`
	NetPlayMin        *float64 `json:"net_play_min,omitempty"`
	NetPlayMax        *float64 `json:"net_play_max,omitempty"`
	LiftMin           *float64 `json:"lift_min,omitempty"`
	MovementMin       *float64 `json:"movement_min,omitempty"`
}

// PositionTuning overrides the legacy position thresholds.
type PositionTuning struct {
	OverheadOffset  *float64 `json:"overhead_offset,omitempty"`
	LowWristY       *float64 `json:"low_wrist_y,omitempty"`
	ArmExtensionMin *float64 `json:"arm_extension_min,omitempty"`
}

// WindowAggregateTuning overrides the hit-centric classifier thresholds.
type WindowAggregateTuning struct {
	OverheadOffset      *float64 `json:"overhead_offset,omitempty"`
	OverheadFractionMin *float64 `json:"overhead_fraction_min,omitempty"`
	NetWristMaxY        *float64 `json:"net_wrist_max_y,omitempty"`
	NetHipMinY          *float64 `json:"net_hip_min_y,omitempty"`
	LiftHipDeepY        *float64 `json:"lift_hip_deep_y,omitempty"`
	LiftHipLowY         *float64 `json:"lift_hip_low_y,omitempty"`
	LiftWristHipGapMax  *float64 `json:"lift_wrist_hip_gap_max,omitempty"`
	LiftWristMinY       *float64 `json:"lift_wrist_min_y,omitempty"`
	SmashVelocityMin    *float64 `json:"smash_velocity_min,omitempty"`
	ClearVelocityMin    *float64 `json:"clear_velocity_min,omitempty"`
	DropVelocityMin     *float64 `json:"drop_velocity_min,omitempty"`
	MovementVelocityMin *float64 `json:"movement_velocity_min,omitempty"`
}

// HitDetectorTuning overrides the hit detector parameters.
type HitDetectorTuning struct {
	DispWindow          *int     `json:"disp_window,omitempty"`
	SpeedWindow         *int     `json:"speed_window,omitempty"`
	BreakWindow         *int     `json:"break_window,omitempty"`
	NormPercentile      *float64 `json:"norm_percentile,omitempty"`
	WeightDisp          *float64 `json:"weight_disp,omitempty"`
	WeightSpeed         *float64 `json:"weight_speed,omitempty"`
	WeightBreak         *float64 `json:"weight_break,omitempty"`
	GateMin             *float64 `json:"gate_min,omitempty"`
	HitThreshold        *float64 `json:"hit_threshold,omitempty"`
	CooldownFrames      *int     `json:"cooldown_frames,omitempty"`
	WristBonusWeight    *float64 `json:"wrist_bonus_weight,omitempty"`
	WristWindow         *int     `json:"wrist_window,omitempty"`
	MaxInterpolationGap *int     `json:"max_interpolation_gap,omitempty"`
	CaptureSignals      *bool    `json:"capture_signals,omitempty"`
}

// RallyTuning overrides rally segmentation and gap-zone parameters.
type RallyTuning struct {
	GapSeconds        *float64 `json:"rally_gap_seconds,omitempty"`
	ShuttleGapFrames  *int     `json:"shuttle_gap_frames,omitempty"`
	ShuttleGapMissPct *float64 `json:"shuttle_gap_miss_pct,omitempty"`
}

// TuningConfig is the root of the tuning JSON. Groups may be omitted
// entirely; present groups may override any subset of their fields.
type TuningConfig struct {
	Velocity        *VelocityTuning        `json:"velocity,omitempty"`
	Position        *PositionTuning        `json:"position,omitempty"`
	WindowAggregate *WindowAggregateTuning `json:"window_aggregate,omitempty"`
	HitDetector     *HitDetectorTuning     `json:"hit_detector,omitempty"`
	Rally           *RallyTuning           `json:"rally,omitempty"`

	AttributionWindow     *int     `json:"attribution_window,omitempty"`
	ShotCooldownSeconds   *float64 `json:"shot_cooldown_seconds,omitempty"`
	MatchToleranceSeconds *float64 `json:"match_tolerance_seconds,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must end
// in .json and the file must stay under the size cap.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges on every field that is set.
func (c *TuningConfig) Validate() error {
	if hd := c.HitDetector; hd != nil {
		if hd.NormPercentile != nil && (*hd.NormPercentile <= 0 || *hd.NormPercentile > 100) {
			return fmt.Errorf("norm_percentile must be in (0, 100], got %f", *hd.NormPercentile)
		}
		for name, w := range map[string]*float64{
			"weight_disp":        hd.WeightDisp,
			"weight_speed":       hd.WeightSpeed,
			"weight_break":       hd.WeightBreak,
			"wrist_bonus_weight": hd.WristBonusWeight,
		} {
			if w != nil && *w < 0 {
				return fmt.Errorf("%s must be non-negative, got %f", name, *w)
			}
		}
		for name, w := range map[string]*int{
			"disp_window":           hd.DispWindow,
			"speed_window":          hd.SpeedWindow,
			"break_window":          hd.BreakWindow,
			"cooldown_frames":       hd.CooldownFrames,
			"wrist_window":          hd.WristWindow,
			"max_interpolation_gap": hd.MaxInterpolationGap,
		} {
			if w != nil && *w < 0 {
				return fmt.Errorf("%s must be non-negative, got %d", name, *w)
			}
		}
		if hd.HitThreshold != nil && *hd.HitThreshold < 0 {
			return fmt.Errorf("hit_threshold must be non-negative, got %f", *hd.HitThreshold)
		}
	}

	if r := c.Rally; r != nil {
		if r.GapSeconds != nil && *r.GapSeconds <= 0 {
			return fmt.Errorf("rally_gap_seconds must be positive, got %f", *r.GapSeconds)
		}
		if r.ShuttleGapFrames != nil && *r.ShuttleGapFrames < 0 {
			return fmt.Errorf("shuttle_gap_frames must be non-negative, got %d", *r.ShuttleGapFrames)
		}
		if r.ShuttleGapMissPct != nil && (*r.ShuttleGapMissPct < 0 || *r.ShuttleGapMissPct > 100) {
			return fmt.Errorf("shuttle_gap_miss_pct must be in [0, 100], got %f", *r.ShuttleGapMissPct)
		}
	}

	if v := c.Velocity; v != nil && v.NetPlayMin != nil && v.NetPlayMax != nil &&
		*v.NetPlayMin > *v.NetPlayMax {
		return fmt.Errorf("net_play_min %f exceeds net_play_max %f", *v.NetPlayMin, *v.NetPlayMax)
	}

	if c.AttributionWindow != nil && *c.AttributionWindow <= 0 {
		return fmt.Errorf("attribution_window must be positive, got %d", *c.AttributionWindow)
	}
	if c.ShotCooldownSeconds != nil && *c.ShotCooldownSeconds < 0 {
		return fmt.Errorf("shot_cooldown_seconds must be non-negative, got %f", *c.ShotCooldownSeconds)
	}
	if c.MatchToleranceSeconds != nil && *c.MatchToleranceSeconds < 0 {
		return fmt.Errorf("match_tolerance_seconds must be non-negative, got %f", *c.MatchToleranceSeconds)
	}
	return nil
}

// Apply merges the overrides onto the compiled-in defaults and returns the
// immutable analysis configuration for a run.
func (c *TuningConfig) Apply() badminton.Config {
	cfg := badminton.DefaultConfig()
	if c == nil {
		return cfg
	}

	if v := c.Velocity; v != nil {
		setFloat(&cfg.Velocity.ArcSmashMin, v.ArcSmashMin)
		setFloat(&cfg.Velocity.ArcClearMin, v.ArcClearMin)
		setFloat(&cfg.Velocity.PowerOverheadMin, v.PowerOverheadMin)
		setFloat(&cfg.Velocity.GentleOverheadMin, v.GentleOverheadMin)
		setFloat(&cfg.Velocity.DriveMin, v.DriveMin)
		setFloat(&cfg.Velocity.NetPlayMin, v.NetPlayMin)
		setFloat(&cfg.Velocity.NetPlayMax, v.NetPlayMax)
		setFloat(&cfg.Velocity.LiftMin, v.LiftMin)
		setFloat(&cfg.Velocity.MovementMin, v.MovementMin)
	}
	if p := c.Position; p != nil {
		setFloat(&cfg.Position.OverheadOffset, p.OverheadOffset)
		setFloat(&cfg.Position.LowWristY, p.LowWristY)
		setFloat(&cfg.Position.ArmExtensionMin, p.ArmExtensionMin)
	}
	if w := c.WindowAggregate; w != nil {
		setFloat(&cfg.WindowAggregate.OverheadOffset, w.OverheadOffset)
		setFloat(&cfg.WindowAggregate.OverheadFractionMin, w.OverheadFractionMin)
		setFloat(&cfg.WindowAggregate.NetWristMaxY, w.NetWristMaxY)
		setFloat(&cfg.WindowAggregate.NetHipMinY, w.NetHipMinY)
		setFloat(&cfg.WindowAggregate.LiftHipDeepY, w.LiftHipDeepY)
		setFloat(&cfg.WindowAggregate.LiftHipLowY, w.LiftHipLowY)
		setFloat(&cfg.WindowAggregate.LiftWristHipGapMax, w.LiftWristHipGapMax)
		setFloat(&cfg.WindowAggregate.LiftWristMinY, w.LiftWristMinY)
		setFloat(&cfg.WindowAggregate.SmashVelocityMin, w.SmashVelocityMin)
		setFloat(&cfg.WindowAggregate.ClearVelocityMin, w.ClearVelocityMin)
		setFloat(&cfg.WindowAggregate.DropVelocityMin, w.DropVelocityMin)
		setFloat(&cfg.WindowAggregate.MovementVelocityMin, w.MovementVelocityMin)
	}
	if h := c.HitDetector; h != nil {
		setInt(&cfg.HitDetector.DispWindow, h.DispWindow)
		setInt(&cfg.HitDetector.SpeedWindow, h.SpeedWindow)
		setInt(&cfg.HitDetector.BreakWindow, h.BreakWindow)
		setFloat(&cfg.HitDetector.NormPercentile, h.NormPercentile)
		setFloat(&cfg.HitDetector.WeightDisp, h.WeightDisp)
		setFloat(&cfg.HitDetector.WeightSpeed, h.WeightSpeed)
		setFloat(&cfg.HitDetector.WeightBreak, h.WeightBreak)
		setFloat(&cfg.HitDetector.GateMin, h.GateMin)
		setFloat(&cfg.HitDetector.HitThreshold, h.HitThreshold)
		setInt(&cfg.HitDetector.CooldownFrames, h.CooldownFrames)
		setFloat(&cfg.HitDetector.WristBonusWeight, h.WristBonusWeight)
		setInt(&cfg.HitDetector.WristWindow, h.WristWindow)
		setInt(&cfg.HitDetector.MaxInterpolationGap, h.MaxInterpolationGap)
		if h.CaptureSignals != nil {
			cfg.HitDetector.CaptureSignals = *h.CaptureSignals
		}
	}
	if r := c.Rally; r != nil {
		setFloat(&cfg.Rally.GapSeconds, r.GapSeconds)
		setInt(&cfg.Rally.ShuttleGapFrames, r.ShuttleGapFrames)
		setFloat(&cfg.Rally.ShuttleGapMissPct, r.ShuttleGapMissPct)
	}
	setInt(&cfg.AttributionWindow, c.AttributionWindow)
	setFloat(&cfg.ShotCooldownSeconds, c.ShotCooldownSeconds)
	setFloat(&cfg.MatchToleranceSeconds, c.MatchToleranceSeconds)
	return cfg
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
