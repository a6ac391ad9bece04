package badminton

import "math"

// trajectory holds the cleaned per-frame shuttle position and velocity
// arrays the hit detector works on. All slices are frame-indexed and the
// same length as the input sequence.
type trajectory struct {
	xs    []float64
	ys    []float64
	valid []bool // position usable (observed or interpolated)

	// rawValid marks frames where the shuttle was truly visible, before
	// interpolation. Used for prediction-error ground truth and per-hit
	// speed sampling.
	rawValid []bool

	vx    []float64
	vy    []float64
	speed []float64
}

// buildTrajectory cleans the raw shuttle observations into position and
// velocity arrays. Gaps of up to maxGap consecutive missing frames are
// bridged linearly between the bounding valid samples; longer gaps stay
// invalid. A 3-tap median filter suppresses detector jitter, then velocity
// is a 2-frame-span central difference. Frames without enough valid
// neighbours get zero velocity rather than an error.
func buildTrajectory(frames []FrameRecord, maxGap int) *trajectory {
	n := len(frames)
	tr := &trajectory{
		xs:       make([]float64, n),
		ys:       make([]float64, n),
		valid:    make([]bool, n),
		rawValid: make([]bool, n),
		vx:       make([]float64, n),
		vy:       make([]float64, n),
		speed:    make([]float64, n),
	}

	for i, fr := range frames {
		if fr.Shuttle != nil && fr.Shuttle.Visible {
			tr.xs[i] = fr.Shuttle.X
			tr.ys[i] = fr.Shuttle.Y
			tr.valid[i] = true
			tr.rawValid[i] = true
		}
	}

	tr.interpolateGaps(maxGap)
	tr.medianFilter()
	tr.computeVelocity()
	return tr
}

// interpolateGaps linearly fills runs of up to maxGap invalid frames that
// are bounded by valid samples on both sides.
func (tr *trajectory) interpolateGaps(maxGap int) {
	n := len(tr.valid)
	i := 0
	for i < n {
		if tr.valid[i] {
			i++
			continue
		}
		start := i
		for i < n && !tr.valid[i] {
			i++
		}
		gap := i - start
		if start == 0 || i >= n || gap > maxGap {
			continue // unbounded or too long; leave invalid
		}
		x0, y0 := tr.xs[start-1], tr.ys[start-1]
		x1, y1 := tr.xs[i], tr.ys[i]
		span := float64(gap + 1)
		for j := start; j < i; j++ {
			t := float64(j-start+1) / span
			tr.xs[j] = x0 + (x1-x0)*t
			tr.ys[j] = y0 + (y1-y0)*t
			tr.valid[j] = true
		}
	}
}

// medianFilter applies a 3-tap median (centre +/- 1) to each valid frame,
// ignoring invalid neighbours.
func (tr *trajectory) medianFilter() {
	n := len(tr.valid)
	fx := make([]float64, n)
	fy := make([]float64, n)
	for i := 0; i < n; i++ {
		if !tr.valid[i] {
			continue
		}
		var wx, wy [3]float64
		count := 0
		for j := i - 1; j <= i+1; j++ {
			if j < 0 || j >= n || !tr.valid[j] {
				continue
			}
			wx[count] = tr.xs[j]
			wy[count] = tr.ys[j]
			count++
		}
		fx[i] = median3(wx, count)
		fy[i] = median3(wy, count)
	}
	for i := 0; i < n; i++ {
		if tr.valid[i] {
			tr.xs[i] = fx[i]
			tr.ys[i] = fy[i]
		}
	}
}

// median3 returns the median of the first count entries of w.
func median3(w [3]float64, count int) float64 {
	switch count {
	case 1:
		return w[0]
	case 2:
		return (w[0] + w[1]) / 2
	default:
		a, b, c := w[0], w[1], w[2]
		if a > b {
			a, b = b, a
		}
		if b > c {
			b = c
		}
		if a > b {
			b = a
		}
		return b
	}
}

// computeVelocity fills vx/vy/speed with the 2-frame-span central
// difference v[i] = (pos[i] - pos[i-2]) / 2.
func (tr *trajectory) computeVelocity() {
	n := len(tr.valid)
	for i := 2; i < n; i++ {
		if !tr.valid[i] || !tr.valid[i-2] {
			continue
		}
		tr.vx[i] = (tr.xs[i] - tr.xs[i-2]) / 2
		tr.vy[i] = (tr.ys[i] - tr.ys[i-2]) / 2
		tr.speed[i] = math.Hypot(tr.vx[i], tr.vy[i])
	}
}

// displacementOver returns the net displacement vector between the first
// and last valid samples in [lo, hi] (inclusive, clamped). ok is false when
// the window spans fewer than minSpan frames of valid coverage or the
// vector is degenerate.
func (tr *trajectory) displacementOver(lo, hi, minSpan int) (dx, dy float64, ok bool) {
	n := len(tr.valid)
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	first, last := -1, -1
	for i := lo; i <= hi; i++ {
		if tr.valid[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 || last-first < minSpan {
		return 0, 0, false
	}
	dx = tr.xs[last] - tr.xs[first]
	dy = tr.ys[last] - tr.ys[first]
	if math.Hypot(dx, dy) < 1e-6 {
		return 0, 0, false
	}
	return dx, dy, true
}
