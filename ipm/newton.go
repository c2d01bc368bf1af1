// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"math"

	"github.com/ipmcore/ipm/linsolve"
)

// computeR7 fills r7 = r4 − (r5 + zl·r2)/xl + (r6 − zu·r3)/xu,
// component-wise over present bounds.
func (d *Driver) computeR7(r7 []float64) {
	for j := range r7 {
		v := d.res.R4[j]
		if d.model.HasLower(j) {
			v -= (d.res.R5[j] + d.it.ZL[j]*d.res.R2[j]) / d.it.XL[j]
		}
		if d.model.HasUpper(j) {
			v += (d.res.R6[j] - d.it.ZU[j]*d.res.R3[j]) / d.it.XU[j]
		}
		r7[j] = v
	}
}

// solveNewtonSystem solves the reduced KKT system for Δx, Δy via the
// configured linear-algebra path, then recovers the four bound deltas
// and breaks the zl/zu symmetry of bounded variables.
func (d *Driver) solveNewtonSystem() linsolve.Status {
	d.computeR7(d.r7)

	switch d.opts.NLA {
	case linsolve.NormEq:
		if !d.solver.Valid() {
			if st := d.solver.FactorNE(d.model.A, d.thetaInv); st.Failed() {
				return st
			}
		}
		for j := range d.theta {
			d.theta[j] = 1 / (d.thetaInv[j] + linsolve.PrimalReg)
		}
		for j := range d.thetaR7 {
			d.thetaR7[j] = d.theta[j] * d.r7[j]
		}
		d.model.A.MulVec(d.r8, d.thetaR7)
		for i := range d.r8 {
			d.r8[i] += d.res.R1[i]
		}
		dy, status := d.solver.SolveNE(d.r8)
		if status.Failed() {
			return status
		}
		copy(d.dir.DY, dy)
		d.model.A.MulVecT(d.aty, d.dir.DY)
		for j := range d.dir.DX {
			d.dir.DX[j] = d.theta[j] * (d.aty[j] - d.r7[j])
		}

	case linsolve.Augmented:
		if !d.solver.Valid() {
			if st := d.solver.FactorAS(d.model.A, d.thetaInv); st.Failed() {
				return st
			}
		}
		dx, dy, status := d.solver.SolveAS(d.r7, d.res.R1)
		if status.Failed() {
			return status
		}
		copy(d.dir.DX, dx)
		copy(d.dir.DY, dy)

	default:
		return linsolve.ErrAnalyse
	}

	d.recoverBoundDeltas()
	return linsolve.OK
}

// recoverBoundDeltas fills Δxl, Δxu, Δzl, Δzu from Δx, Δy, then
// recomputes one dual delta per bounded variable from r4: for a
// variable with both bounds it replaces whichever of Δzl, Δzu has the
// worse-conditioned division, for a one-sided bound it replaces that
// side's delta; free variables are left untouched. Each block is
// gated independently on HasLower/HasUpper, matching residuals.go and
// theta.go rather than the source's combined hasLb||hasUb guard.
func (d *Driver) recoverBoundDeltas() {
	n := d.model.N
	for j := 0; j < n; j++ {
		if d.model.HasLower(j) {
			d.dir.DXL[j] = d.dir.DX[j] - d.res.R2[j]
			d.dir.DZL[j] = (d.res.R5[j] - d.it.ZL[j]*d.dir.DXL[j]) / d.it.XL[j]
		}
		if d.model.HasUpper(j) {
			d.dir.DXU[j] = d.res.R3[j] - d.dir.DX[j]
			d.dir.DZU[j] = (d.res.R6[j] - d.it.ZU[j]*d.dir.DXU[j]) / d.it.XU[j]
		}
	}

	d.model.A.MulVecT(d.aty, d.dir.DY)
	for j := 0; j < n; j++ {
		hasL, hasU := d.model.HasLower(j), d.model.HasUpper(j)
		switch {
		case hasL && hasU:
			if d.it.ZL[j]*d.it.XU[j] >= d.it.ZU[j]*d.it.XL[j] {
				d.dir.DZL[j] = d.res.R4[j] + d.dir.DZU[j] - d.aty[j]
			} else {
				d.dir.DZU[j] = -d.res.R4[j] + d.dir.DZL[j] + d.aty[j]
			}
		case hasL:
			d.dir.DZL[j] = d.res.R4[j] + d.dir.DZU[j] - d.aty[j]
		case hasU:
			d.dir.DZU[j] = -d.res.R4[j] + d.dir.DZL[j] + d.aty[j]
		}
	}
}

// hasNonFinite reports whether any block of the direction contains a
// NaN or an infinity, the signal that this Newton system was too
// ill-conditioned to trust.
func (d *Direction) hasNonFinite() bool {
	for _, v := range [][]float64{d.DX, d.DXL, d.DXU, d.DY, d.DZL, d.DZU} {
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return true
			}
		}
	}
	return false
}
