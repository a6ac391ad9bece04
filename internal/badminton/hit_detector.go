package badminton

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// predictAheadSamples is how many future samples the trajectory-break
// signal predicts and scores against ground truth.
const predictAheadSamples = 5

// perHitSpeedSamples is how many visible-shuttle frames after a hit
// contribute to its outgoing speed estimate.
const perHitSpeedSamples = 10

// HitDetector finds racket-shuttle contact instants by fusing three
// independent trajectory anomaly signals plus an optional wrist-velocity
// bonus, then peak-picking with non-max suppression.
type HitDetector struct {
	cfg HitDetectorConfig
	fps float64
}

// NewHitDetector builds a detector for one run at the given frame rate.
func NewHitDetector(cfg HitDetectorConfig, fps float64) *HitDetector {
	return &HitDetector{cfg: cfg, fps: fps}
}

// Detect runs the full signal pipeline over the frame sequence and returns
// the accepted hit events in frame order. The second return value carries
// the per-frame signal arrays when CaptureSignals is set, nil otherwise.
func (d *HitDetector) Detect(frames []FrameRecord) ([]HitEvent, *SignalDebug) {
	n := len(frames)
	if n == 0 {
		return nil, nil
	}

	tr := buildTrajectory(frames, d.cfg.MaxInterpolationGap)

	dispRaw := d.displacementCosineSignal(tr)
	speedRaw := d.speedRatioSignal(tr)
	breakRaw := d.trajectoryBreakSignal(tr)
	wristRaw := d.wristBonusSignal(frames)

	disp := percentileNormalize(dispRaw, d.cfg.NormPercentile)
	speed := percentileNormalize(speedRaw, d.cfg.NormPercentile)
	brk := percentileNormalize(breakRaw, d.cfg.NormPercentile)
	wrist := percentileNormalize(wristRaw, d.cfg.NormPercentile)

	composite := make([]float64, n)
	for i := 0; i < n; i++ {
		score := d.cfg.WeightDisp*disp[i] + d.cfg.WeightSpeed*speed[i] + d.cfg.WeightBreak*brk[i]
		if d.cfg.WristBonusWeight > 0 {
			score += d.cfg.WristBonusWeight * wrist[i]
		}

		// 2-of-3 gate: a single noisy signal must not produce a hit.
		agreeing := 0
		if disp[i] > d.cfg.GateMin {
			agreeing++
		}
		if speed[i] > d.cfg.GateMin {
			agreeing++
		}
		if brk[i] > d.cfg.GateMin {
			agreeing++
		}
		if agreeing < 2 {
			score = 0
		}
		composite[i] = score
	}

	peaks := selectPeaks(composite, d.cfg.HitThreshold, d.cfg.CooldownFrames)

	hits := make([]HitEvent, 0, len(peaks))
	for _, p := range peaks {
		hits = append(hits, HitEvent{
			Frame:         frames[p.frame].FrameNumber,
			Timestamp:     frames[p.frame].Timestamp,
			Position:      hitPosition(tr, p.frame),
			SpeedPxPerSec: d.hitSpeed(frames, tr, p.frame),
			Confidence:    clamp01(p.score),
			ReversalType:  dominantReversal(disp[p.frame], speed[p.frame], brk[p.frame]),
		})
	}

	var dbg *SignalDebug
	if d.cfg.CaptureSignals {
		dbg = &SignalDebug{
			DisplacementCosine: disp,
			SpeedRatio:         speed,
			TrajectoryBreak:    brk,
			WristBonus:         wrist,
			Composite:          composite,
		}
	}
	return hits, dbg
}

// displacementCosineSignal peaks where the net displacement of the trailing
// window points opposite to that of the leading window: a reversal.
func (d *HitDetector) displacementCosineSignal(tr *trajectory) []float64 {
	n := len(tr.valid)
	out := make([]float64, n)
	w := d.cfg.DispWindow
	minSpan := w / 3
	for i := 0; i < n; i++ {
		bdx, bdy, ok := tr.displacementOver(i-w, i, minSpan)
		if !ok {
			continue
		}
		adx, ady, ok := tr.displacementOver(i, i+w, minSpan)
		if !ok {
			continue
		}
		cos := (bdx*adx + bdy*ady) / (math.Hypot(bdx, bdy) * math.Hypot(adx, ady))
		if cos < 0 {
			out[i] = -cos
		}
	}
	return out
}

// speedRatioSignal peaks where the mean shuttle speed changes sharply
// across the frame, in either direction.
func (d *HitDetector) speedRatioSignal(tr *trajectory) []float64 {
	n := len(tr.valid)
	out := make([]float64, n)
	w := d.cfg.SpeedWindow
	for i := 0; i < n; i++ {
		before := meanNonzeroSpeed(tr, i-w, i-1)
		after := meanNonzeroSpeed(tr, i+1, i+w)
		if before <= 0 || after <= 0 {
			continue
		}
		ratio := after / before
		out[i] = math.Max(ratio, 1/ratio) - 1
	}
	return out
}

func meanNonzeroSpeed(tr *trajectory, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(tr.speed) {
		hi = len(tr.speed) - 1
	}
	sum, count := 0.0, 0
	for i := lo; i <= hi; i++ {
		if tr.valid[i] && tr.speed[i] > 0 {
			sum += tr.speed[i]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// trajectoryBreakSignal fits a line to x(t) and a quadratic to y(t) over the
// trailing BreakWindow samples, predicts the next few samples and scores
// the mean prediction error against frames that have real shuttle data.
// Degenerate fits contribute zero.
func (d *HitDetector) trajectoryBreakSignal(tr *trajectory) []float64 {
	n := len(tr.valid)
	out := make([]float64, n)
	w := d.cfg.BreakWindow
	for i := 0; i < n; i++ {
		var ts, xs, ys []float64
		for j := i - w + 1; j <= i; j++ {
			if j < 0 || !tr.valid[j] {
				continue
			}
			// Offsets relative to i keep the Vandermonde system well
			// conditioned and make prediction offsets 1..K.
			ts = append(ts, float64(j-i))
			xs = append(xs, tr.xs[j])
			ys = append(ys, tr.ys[j])
		}
		if len(ts) < 4 {
			continue
		}
		cx, ok := polyfit(ts, xs, 1)
		if !ok {
			continue
		}
		cy, ok := polyfit(ts, ys, 2)
		if !ok {
			continue
		}

		sum, count := 0.0, 0
		for k := 1; k <= predictAheadSamples; k++ {
			j := i + k
			if j >= n || !tr.rawValid[j] {
				continue
			}
			t := float64(k)
			px := cx[0] + cx[1]*t
			py := cy[0] + cy[1]*t + cy[2]*t*t
			sum += math.Hypot(px-tr.xs[j], py-tr.ys[j])
			count++
		}
		if count > 0 {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// wristBonusSignal max-pools the injected per-frame wrist velocity over
// +/- WristWindow frames. It compensates for the timing offset between
// racket contact and the visible shuttle reversal.
func (d *HitDetector) wristBonusSignal(frames []FrameRecord) []float64 {
	n := len(frames)
	out := make([]float64, n)
	w := d.cfg.WristWindow
	for i := 0; i < n; i++ {
		peak := 0.0
		for j := i - w; j <= i+w; j++ {
			if j < 0 || j >= n {
				continue
			}
			if frames[j].WristVelocity > peak {
				peak = frames[j].WristVelocity
			}
		}
		out[i] = peak
	}
	return out
}

// polyfit solves a least-squares polynomial fit of the given degree via QR
// factorisation. ok is false for underdetermined or singular systems.
func polyfit(ts, vs []float64, degree int) (coeffs []float64, ok bool) {
	if len(ts) <= degree || len(ts) != len(vs) {
		return nil, false
	}
	a := mat.NewDense(len(ts), degree+1, nil)
	for i, t := range ts {
		p := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, p)
			p *= t
		}
	}
	b := mat.NewVecDense(len(vs), vs)

	var qr mat.QR
	qr.Factorize(a)
	coef := mat.NewVecDense(degree+1, nil)
	if err := qr.SolveVecTo(coef, false, b); err != nil {
		return nil, false
	}
	out := make([]float64, degree+1)
	for j := range out {
		out[j] = coef.AtVec(j)
	}
	return out, true
}

// percentileNormalize divides every value by the p-th percentile of the
// strictly positive values and clips to [0,1]. Scaling all raw values by a
// positive constant leaves the output unchanged, and a single outlier
// cannot flatten the rest of the signal.
func percentileNormalize(values []float64, percentile float64) []float64 {
	out := make([]float64, len(values))
	positives := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positives = append(positives, v)
		}
	}
	if len(positives) == 0 {
		return out
	}
	sort.Float64s(positives)
	divisor := stat.Quantile(percentile/100, stat.Empirical, positives, nil)
	if divisor <= 0 {
		return out
	}
	for i, v := range values {
		if v <= 0 {
			continue
		}
		out[i] = clamp01(v / divisor)
	}
	return out
}

type peakCandidate struct {
	frame int
	score float64
}

// selectPeaks performs greedy non-max suppression: candidates at or above
// threshold are taken best-first, each accepted peak suppressing all
// candidates within the cooldown radius. The result is frame-ordered and
// any two accepted peaks are strictly more than cooldown frames apart.
func selectPeaks(composite []float64, threshold float64, cooldown int) []peakCandidate {
	var candidates []peakCandidate
	for i, score := range composite {
		if score >= threshold {
			candidates = append(candidates, peakCandidate{frame: i, score: score})
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].frame < candidates[b].frame
	})

	var accepted []peakCandidate
	for _, c := range candidates {
		suppressed := false
		for _, a := range accepted {
			if abs(c.frame-a.frame) <= cooldown {
				suppressed = true
				break
			}
		}
		if !suppressed {
			accepted = append(accepted, c)
		}
	}
	sort.Slice(accepted, func(a, b int) bool { return accepted[a].frame < accepted[b].frame })
	return accepted
}

// hitPosition returns the cleaned shuttle position at idx, falling back to
// the nearest valid sample.
func hitPosition(tr *trajectory, idx int) Point {
	if tr.valid[idx] {
		return Point{X: tr.xs[idx], Y: tr.ys[idx]}
	}
	for off := 1; off < len(tr.valid); off++ {
		if j := idx - off; j >= 0 && tr.valid[j] {
			return Point{X: tr.xs[j], Y: tr.ys[j]}
		}
		if j := idx + off; j < len(tr.valid) && tr.valid[j] {
			return Point{X: tr.xs[j], Y: tr.ys[j]}
		}
	}
	return Point{}
}

// hitSpeed estimates outgoing shuttle speed as the mean frame-to-frame
// displacement rate over up to the next perHitSpeedSamples visible frames.
func (d *HitDetector) hitSpeed(frames []FrameRecord, tr *trajectory, idx int) float64 {
	var samples []int
	for j := idx + 1; j < len(frames) && len(samples) < perHitSpeedSamples; j++ {
		if tr.rawValid[j] {
			samples = append(samples, j)
		}
	}
	if len(samples) < 2 {
		return 0
	}
	sum, count := 0.0, 0
	for k := 1; k < len(samples); k++ {
		a, b := samples[k-1], samples[k]
		dt := frames[b].Timestamp - frames[a].Timestamp
		if dt <= 0 {
			if d.fps <= 0 {
				continue
			}
			dt = float64(b-a) / d.fps
		}
		dist := math.Hypot(tr.xs[b]-tr.xs[a], tr.ys[b]-tr.ys[a])
		sum += dist / dt
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func dominantReversal(disp, speed, brk float64) ReversalType {
	if disp >= speed && disp >= brk {
		return ReversalDirection
	}
	if speed >= brk {
		return ReversalSpeed
	}
	return ReversalTrajectory
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
