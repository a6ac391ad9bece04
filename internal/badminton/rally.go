package badminton

// rallyBuilder segments the timeline into rallies and gap zones. The
// shuttle-based path is primary; the pose-based path is the fallback for
// inputs with no shuttle data at all.
type rallyBuilder struct {
	cfg RallyConfig
}

func newRallyBuilder(cfg RallyConfig) *rallyBuilder {
	return &rallyBuilder{cfg: cfg}
}

// buildPoseRallies groups consecutive shots into rallies while the
// shot-to-shot time gap stays within GapSeconds. Only rallies with at least
// two shots are emitted; a single isolated swing is not an exchange.
func (rb *rallyBuilder) buildPoseRallies(shots []ShotEvent) []Rally {
	var rallies []Rally
	var current []ShotEvent

	flush := func() {
		if len(current) >= 2 {
			rally := Rally{
				RallyID:    len(rallies) + 1,
				StartFrame: current[0].Frame,
				EndFrame:   current[len(current)-1].Frame,
				StartTime:  current[0].Timestamp,
				EndTime:    current[len(current)-1].Timestamp,
				ShotCount:  len(current),
			}
			rally.Duration = rally.EndTime - rally.StartTime
			for _, s := range current {
				rally.Shots = append(rally.Shots, s.ShotType)
			}
			rallies = append(rallies, rally)
		}
		current = current[:0]
	}

	for _, s := range shots {
		if !IsCountedShot(s.ShotType) {
			continue
		}
		if len(current) > 0 && s.Timestamp-current[len(current)-1].Timestamp > rb.cfg.GapSeconds {
			flush()
		}
		current = append(current, s)
	}
	flush()
	return rallies
}

// buildShuttleRallies segments by shuttle-visibility run-length analysis.
// A frame is "in gap" when the forward window of ShuttleGapFrames frames
// starting there misses the shuttle at least ShuttleGapMissPct percent of
// the time; the entire covering window is marked, so overlapping qualifying
// windows merge into one contiguous zone (zones can therefore run longer
// than the window itself). Maximal non-gap runs containing at least one
// truly visible frame, with positive duration, become rallies.
func (rb *rallyBuilder) buildShuttleRallies(frames []FrameRecord) ([]Rally, []GapZone) {
	n := len(frames)
	if n == 0 {
		return nil, nil
	}

	visible := make([]bool, n)
	for i := range frames {
		visible[i] = frames[i].Shuttle != nil && frames[i].Shuttle.Visible
	}

	inGap := rb.gapMask(visible)

	var rallies []Rally
	var zones []GapZone
	i := 0
	for i < n {
		start := i
		gap := inGap[i]
		for i < n && inGap[i] == gap {
			i++
		}
		end := i - 1

		if gap {
			zones = append(zones, GapZone{
				StartIdx:   start,
				EndIdx:     end,
				StartFrame: frames[start].FrameNumber,
				EndFrame:   frames[end].FrameNumber,
				StartTime:  frames[start].Timestamp,
				EndTime:    frames[end].Timestamp,
			})
			continue
		}

		anyVisible := false
		for j := start; j <= end; j++ {
			if visible[j] {
				anyVisible = true
				break
			}
		}
		startTime := frames[start].Timestamp
		endTime := frames[end].Timestamp
		if !anyVisible || endTime <= startTime {
			continue
		}
		rallies = append(rallies, Rally{
			RallyID:    len(rallies) + 1,
			StartFrame: frames[start].FrameNumber,
			EndFrame:   frames[end].FrameNumber,
			StartTime:  startTime,
			EndTime:    endTime,
			Duration:   endTime - startTime,
		})
	}
	return rallies, zones
}

// gapMask computes the in-gap boolean mask with a sliding miss counter.
// Qualifying windows mark their whole span; markedUntil avoids re-marking
// overlap, keeping the pass linear.
func (rb *rallyBuilder) gapMask(visible []bool) []bool {
	n := len(visible)
	inGap := make([]bool, n)
	w := rb.cfg.ShuttleGapFrames
	if w <= 0 || n < w {
		return inGap
	}
	need := rb.cfg.ShuttleGapMissPct / 100 * float64(w)

	misses := 0
	for i := 0; i < w; i++ {
		if !visible[i] {
			misses++
		}
	}
	markedUntil := 0
	for i := 0; i+w <= n; i++ {
		if i > 0 {
			if !visible[i-1] {
				misses--
			}
			if !visible[i+w-1] {
				misses++
			}
		}
		if float64(misses) >= need {
			from := i
			if from < markedUntil {
				from = markedUntil
			}
			for j := from; j < i+w; j++ {
				inGap[j] = true
			}
			markedUntil = i + w
		}
	}
	return inGap
}

// attachShotsAndHits annotates each rally with the shot labels and hit
// count inside its span. With two or more hits the rally duration is
// tightened to the first/last contact; with exactly one hit the rally
// collapses to that instant.
func (rb *rallyBuilder) attachShotsAndHits(rallies []Rally, shots []ShotEvent, hits []HitEvent) {
	for i := range rallies {
		r := &rallies[i]
		r.Shots = nil
		r.ShotCount = 0
		for _, s := range shots {
			if !IsCountedShot(s.ShotType) {
				continue
			}
			if s.Frame >= r.StartFrame && s.Frame <= r.EndFrame {
				r.Shots = append(r.Shots, s.ShotType)
				r.ShotCount++
			}
		}

		var contained []HitEvent
		for _, h := range hits {
			if h.Frame >= r.StartFrame && h.Frame <= r.EndFrame {
				contained = append(contained, h)
			}
		}
		r.HitCount = len(contained)
		switch {
		case len(contained) >= 2:
			first := contained[0]
			last := contained[len(contained)-1]
			r.StartFrame = first.Frame
			r.EndFrame = last.Frame
			r.StartTime = first.Timestamp
			r.EndTime = last.Timestamp
			r.Duration = last.Timestamp - first.Timestamp
		case len(contained) == 1:
			r.Duration = 0
		}
	}
}

// dropShotsInGapZones removes shot events whose frame lies inside any gap
// zone; the shuttle was not in play, so the swing was noise.
func dropShotsInGapZones(shots []ShotEvent, zones []GapZone) []ShotEvent {
	if len(zones) == 0 {
		return shots
	}
	kept := make([]ShotEvent, 0, len(shots))
	for _, s := range shots {
		inZone := false
		for _, z := range zones {
			if s.Frame >= z.StartFrame && s.Frame <= z.EndFrame {
				inZone = true
				break
			}
		}
		if !inZone {
			kept = append(kept, s)
		}
	}
	return kept
}
