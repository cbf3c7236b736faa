package analysis

import "math"

// SettleStep returns the 1-based step from which energy stayed below
// threshold for at least window samples, or -1.
func SettleStep(energy []float64, threshold float64, window int) int {
	window = max(window, 1)
	run := 0
	for i, e := range energy {
		if e >= threshold {
			run = 0
			continue
		}
		run++
		if run >= window {
			return i - window + 2
		}
	}
	return -1
}

// DecayRate fits E(t) ≈ E0·exp(-λt) by least squares on ln E and returns
// λ. Non-positive samples are skipped. A positive rate means the layout is
// calming down.
func DecayRate(energy []float64, dt float64) float64 {
	var n, sumT, sumY, sumTT, sumTY float64
	for i, e := range energy {
		if e <= 0 {
			continue
		}
		t := float64(i+1) * dt
		y := math.Log(e)
		n++
		sumT += t
		sumY += y
		sumTT += t * t
		sumTY += t * y
	}
	denom := n*sumTT - sumT*sumT
	if n < 2 || denom == 0 {
		return 0
	}
	slope := (n*sumTY - sumT*sumY) / denom
	return -slope
}
