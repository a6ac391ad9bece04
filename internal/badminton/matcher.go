package badminton

import "math"

// matchShotsToHits pairs each shot with its nearest not-yet-claimed hit
// event within the time tolerance, in shot order. Shots without a match
// keep a nil Hit. Only the legacy strategy needs this; the hit-centric
// strategy links shots to hits by construction.
func matchShotsToHits(shots []ShotEvent, hits []HitEvent, toleranceSeconds float64) {
	if len(shots) == 0 || len(hits) == 0 {
		return
	}
	claimed := make([]bool, len(hits))

	for i := range shots {
		best := -1
		bestDist := toleranceSeconds
		for j := range hits {
			if claimed[j] {
				continue
			}
			dist := math.Abs(hits[j].Timestamp - shots[i].Timestamp)
			if dist <= bestDist {
				best = j
				bestDist = dist
			}
		}
		if best >= 0 {
			claimed[best] = true
			shots[i].Hit = &hits[best]
		}
	}
}
