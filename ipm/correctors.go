// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"math"

	"github.com/ipmcore/ipm/linsolve"
)

const (
	sigmaAffineValue  = 0.01
	gammaCorrector    = 0.1
	mccIncreaseAlpha  = 0.1
	mccIncreaseMin    = 0.1
	correctorEffort   = 1.0 / 112.0
	// refinementIterEstimate stands in for the source's iterative-refinement
	// step count, which this driver's dense back end never performs; kept
	// as a fixed estimate so the corrector-count formula still shrinks
	// with solve cost the way describes.
	refinementIterEstimate = 3
)

// sigmaAffine sets the centring parameter for the predictor step.
func (d *Driver) sigmaAffine() {
	d.sigma = sigmaAffineValue
}

// sigmaCorrectors sets the centring parameter for the corrector loop
// from the previous iteration's step sizes. SigmaMehrotra uses a
// five-band schedule; SigmaGondzio replaces the bands with the
// continuous rule sigma = (1-alpha)³ on the smaller achieved step,
// clamped to [0.01, 0.9], the schedule Gondzio's centrality-corrector
// paper uses in place of Mehrotra's discrete cutoffs.
func (d *Driver) sigmaCorrectors() {
	if d.opts.SigmaSchedule == SigmaGondzio {
		alpha := math.Min(d.alphaPrimal, d.alphaDual)
		if d.iter == 1 {
			alpha = 1
		}
		sigma := (1 - alpha) * (1 - alpha) * (1 - alpha)
		d.sigma = math.Min(0.9, math.Max(0.01, sigma))
		return
	}

	switch {
	case (d.alphaPrimal > 0.5 && d.alphaDual > 0.5) || d.iter == 1:
		d.sigma = 0.01
	case d.alphaPrimal > 0.2 && d.alphaDual > 0.2:
		d.sigma = 0.1
	case d.alphaPrimal > 0.1 && d.alphaDual > 0.1:
		d.sigma = 0.25
	case d.alphaPrimal > 0.05 && d.alphaDual > 0.05:
		d.sigma = 0.5
	default:
		d.sigma = 0.9
	}
}

// residualsMcc rebuilds r5, r6 as the multiple-centrality-corrector
// right-hand side: it looks at the complementarity products the
// current direction would reach at a slightly-increased step, and
// asks the corrector to push any product that would land outside
// [sigma·mu·gamma, sigma·mu/gamma] back toward that band.
func (d *Driver) residualsMcc() {
	mu := d.it.Mu(d.model)

	alphaP, alphaD := d.stepsToBoundary(d.dir, nil, 0)
	alphaP = math.Max(1.0, alphaP+mccIncreaseAlpha)
	alphaD = math.Max(1.0, alphaD+mccIncreaseAlpha)

	for j := 0; j < d.model.N; j++ {
		if d.model.HasLower(j) {
			xlt := d.it.XL[j] + alphaP*d.dir.DXL[j]
			zlt := d.it.ZL[j] + alphaD*d.dir.DZL[j]
			prod := xlt * zlt
			switch {
			case prod < d.sigma*mu*gammaCorrector:
				d.res.R5[j] = d.sigma*mu*gammaCorrector - prod
			case prod > d.sigma*mu/gammaCorrector:
				temp := d.sigma*mu/gammaCorrector - prod
				d.res.R5[j] = math.Max(temp, -d.sigma*mu/gammaCorrector)
			default:
				d.res.R5[j] = 0
			}
		} else {
			d.res.R5[j] = 0
		}

		if d.model.HasUpper(j) {
			xut := d.it.XU[j] + alphaP*d.dir.DXU[j]
			zut := d.it.ZU[j] + alphaD*d.dir.DZU[j]
			prod := xut * zut
			switch {
			case prod < d.sigma*mu*gammaCorrector:
				d.res.R6[j] = d.sigma*mu*gammaCorrector - prod
			case prod > d.sigma*mu/gammaCorrector:
				temp := d.sigma*mu/gammaCorrector - prod
				d.res.R6[j] = math.Max(temp, -d.sigma*mu/gammaCorrector)
			default:
				d.res.R6[j] = 0
			}
		} else {
			d.res.R6[j] = 0
		}
	}
}

// bestWeight searches nine equally spaced weights in [w, 1] for the
// one that pushes the primal (resp. dual) step size furthest, given a
// trial direction perturbed by a corrector.
func (d *Driver) bestWeight(dir, cor *Direction, wp, wd float64) (bestWp, bestWd, alphaP, alphaD float64) {
	bestWp, bestWd = wp, wd
	w := wp
	step := (1.0 - w) / 8
	for {
		ap, ad := d.stepsToBoundary(dir, cor, w)
		if ap > alphaP {
			alphaP, bestWp = ap, w
		}
		if ad > alphaD {
			alphaD, bestWd = ad, w
		}
		if step == 0 {
			break
		}
		w += step
		if w > 1.0+1e-12 {
			break
		}
	}
	return bestWp, bestWd, alphaP, alphaD
}

// centralityCorrectors runs up to d.maxCorrectors rounds of multiple
// centrality correction, each solving a fresh Newton system against
// the MCC residual and folding in whichever of its primal/dual halves
// improves the step size enough to be worth the extra solve.
func (d *Driver) centralityCorrectors() (int, linsolve.Status) {
	alphaPOld, alphaDOld := d.stepsToBoundary(d.dir, nil, 0)

	corr := newDirection(d.model.N, d.model.M)
	used := 0
	for used = 0; used < d.maxCorrectors; used++ {
		d.residualsMcc()

		corr.reset()
		saved := d.dir
		d.dir = corr
		status := d.solveNewtonSystem()
		d.dir = saved
		if status.Failed() {
			return used, status
		}
		if corr.hasNonFinite() {
			return used, linsolve.ErrSolve
		}

		w0 := alphaPOld * alphaDOld
		wp, wd, alphaP, alphaD := d.bestWeight(d.dir, corr, w0, w0)

		if alphaP < alphaPOld+mccIncreaseAlpha*mccIncreaseMin &&
			alphaD < alphaDOld+mccIncreaseAlpha*mccIncreaseMin {
			break
		}

		if alphaP >= alphaPOld+mccIncreaseAlpha*mccIncreaseMin {
			addScaled(d.dir.DX, corr.DX, wp)
			addScaled(d.dir.DXL, corr.DXL, wp)
			addScaled(d.dir.DXU, corr.DXU, wp)
			alphaPOld = alphaP
		}
		if alphaD >= alphaDOld+mccIncreaseAlpha*mccIncreaseMin {
			addScaled(d.dir.DY, corr.DY, wd)
			addScaled(d.dir.DZL, corr.DZL, wd)
			addScaled(d.dir.DZU, corr.DZU, wd)
			alphaDOld = alphaD
		}

		if alphaP > 0.95 && alphaD > 0.95 {
			used++
			break
		}
	}

	return used, linsolve.OK
}

func addScaled(dst, src []float64, w float64) {
	for i := range dst {
		dst[i] += w * src[i]
	}
}

// computeMaxCorrectors picks how many MCC rounds are worth their solve cost,
// using the solver's reported factorization flops and nonzero count
// when available.
func (d *Driver) computeMaxCorrectors() int {
	maxCap := d.opts.MaxCorrectors
	if maxCap <= 0 {
		return 1
	}

	flopser, okF := d.solver.(linsolve.FlopsReporter)
	nnzer, okN := d.solver.(linsolve.NNZReporter)
	if !okF || !okN {
		return maxCap
	}
	factEffort := flopser.Flops()
	nnz := nnzer.NNZ()
	if factEffort <= 0 || nnz <= 0 {
		return maxCap
	}
	solveEffort := 2.0 * float64(nnz)
	ratio := correctorEffort * factEffort / solveEffort
	thresh := ratio/(1.0+refinementIterEstimate/2.0) - 1
	n := int(math.Floor(thresh))
	if n < 1 {
		n = 1
	}
	if n > maxCap {
		n = maxCap
	}
	return n
}
