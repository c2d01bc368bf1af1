// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "math"

// stepToBoundary returns the largest damped step α ≥ 0 such that
// v[i] + α·(dv[i] + weight·cor[i]) stays non-negative for every
// component where present(i) holds, plus the index of the component
// that blocks it (or -1 if none does). cor may be nil, in which case
// weight is ignored.
func stepToBoundary(v, dv, cor []float64, weight float64, present func(int) bool) (alpha float64, block int) {
	const damp = 1 - 1e-12
	alpha, block = 1.0, -1
	for i := range v {
		if !present(i) {
			continue
		}
		d := dv[i]
		if cor != nil {
			d += weight * cor[i]
		}
		if d >= 0 {
			continue
		}
		ratio := damp * (-v[i] / d)
		if ratio < alpha {
			alpha, block = ratio, i
		}
	}
	return alpha, block
}

// stepsToBoundary caps a trial direction, optionally perturbed by a
// corrector scaled by weight, against the current iterate's bounds —
// used by the corrector weight search.
func (d *Driver) stepsToBoundary(dir, cor *Direction, weight float64) (alphaPrimal, alphaDual float64) {
	var dxl, dxu, dzl, dzu []float64
	if cor != nil {
		dxl, dxu, dzl, dzu = cor.DXL, cor.DXU, cor.DZL, cor.DZU
	}
	axl, _ := stepToBoundary(d.it.XL, dir.DXL, dxl, weight, d.model.HasLower)
	axu, _ := stepToBoundary(d.it.XU, dir.DXU, dxu, weight, d.model.HasUpper)
	azl, _ := stepToBoundary(d.it.ZL, dir.DZL, dzl, weight, d.model.HasLower)
	azu, _ := stepToBoundary(d.it.ZU, dir.DZU, dzu, weight, d.model.HasUpper)
	alphaPrimal = math.Min(math.Min(axl, axu), 1.0)
	alphaDual = math.Min(math.Min(azl, azu), 1.0)
	return alphaPrimal, alphaDual
}

// stepSizes applies the Mehrotra heuristic to the driver's current
// direction: it first finds the plain boundary caps, then predicts mu
// at those caps and nudges the blocking side's step so its final
// complementarity product lands near mu_full·(1-gamma_f) (mu_full
// divided by 1/(1-gamma_f)), clipped to
// keep 90% of the plain cap and to stay under 1-1e-4.
func (d *Driver) stepSizes() (alphaPrimal, alphaDual float64) {
	const gammaF = 0.9
	gammaA := 1.0 / (1.0 - gammaF)

	alphaXl, blockXl := stepToBoundary(d.it.XL, d.dir.DXL, nil, 0, d.model.HasLower)
	alphaXu, blockXu := stepToBoundary(d.it.XU, d.dir.DXU, nil, 0, d.model.HasUpper)
	alphaZl, blockZl := stepToBoundary(d.it.ZL, d.dir.DZL, nil, 0, d.model.HasLower)
	alphaZu, blockZu := stepToBoundary(d.it.ZU, d.dir.DZU, nil, 0, d.model.HasUpper)

	maxP := math.Min(alphaXl, alphaXu)
	maxD := math.Min(alphaZl, alphaZu)

	var muFull float64
	var numFinite int
	for j := 0; j < d.model.N; j++ {
		if d.model.HasLower(j) {
			muFull += (d.it.XL[j] + maxP*d.dir.DXL[j]) * (d.it.ZL[j] + maxD*d.dir.DZL[j])
			numFinite++
		}
		if d.model.HasUpper(j) {
			muFull += (d.it.XU[j] + maxP*d.dir.DXU[j]) * (d.it.ZU[j] + maxD*d.dir.DZU[j])
			numFinite++
		}
	}
	if numFinite > 0 {
		muFull /= float64(numFinite)
	}
	muFull /= gammaA

	alphaP := 1.0
	if maxP < 1.0 {
		var block int
		var temp float64
		if alphaXl <= alphaXu {
			block = blockXl
			temp = muFull / (d.it.ZL[block] + maxD*d.dir.DZL[block])
			alphaP = (temp - d.it.XL[block]) / d.dir.DXL[block]
		} else {
			block = blockXu
			temp = muFull / (d.it.ZU[block] + maxD*d.dir.DZU[block])
			alphaP = (temp - d.it.XU[block]) / d.dir.DXU[block]
		}
		alphaP = math.Max(alphaP, gammaF*maxP)
		alphaP = math.Min(alphaP, 1.0)
	}

	alphaD := 1.0
	if maxD < 1.0 {
		var block int
		var temp float64
		if alphaZl <= alphaZu {
			block = blockZl
			temp = muFull / (d.it.XL[block] + maxP*d.dir.DXL[block])
			alphaD = (temp - d.it.ZL[block]) / d.dir.DZL[block]
		} else {
			block = blockZu
			temp = muFull / (d.it.XU[block] + maxP*d.dir.DXU[block])
			alphaD = (temp - d.it.ZU[block]) / d.dir.DZU[block]
		}
		alphaD = math.Max(alphaD, gammaF*maxD)
		alphaD = math.Min(alphaD, 1.0)
	}

	alphaPrimal = math.Min(alphaP, 1.0-1e-4)
	alphaDual = math.Min(alphaD, 1.0-1e-4)
	return alphaPrimal, alphaDual
}
