// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ipm implements a primal-dual interior-point method for
// linear programs with two-sided variable bounds, using a Mehrotra
// predictor-corrector loop with multiple centrality correctors.
package ipm

import (
	"fmt"
	"math"

	"github.com/ipmcore/ipm/linsolve"
	"github.com/ipmcore/ipm/model"
	"github.com/ipmcore/ipm/vecops"
)

const maxBadIter = 5

// Driver runs the interior-point loop against a single Model. It is
// not safe for concurrent use; create one Driver per solve.
type Driver struct {
	model  *model.Model
	opts   Options
	solver linsolve.Solver

	it  *Iterate
	res *Residuals
	dir *Direction

	thetaInv []float64
	r7, r8   []float64
	theta    []float64
	thetaR7  []float64
	aty      []float64

	sigma                  float64
	alphaPrimal, alphaDual float64
	badIter                int
	iter                   int
	maxCorrectors          int

	diag Diagnostics
}

// NewDriver validates opts and prepares a Driver for mdl, using solver
// for every Newton system it needs to factor and solve.
func NewDriver(mdl *model.Model, solver linsolve.Solver, opts Options) (*Driver, error) {
	opts, err := opts.Validate()
	if err != nil {
		return nil, fmt.Errorf("ipm: %w", err)
	}
	if solver == nil {
		return nil, fmt.Errorf("ipm: solver must not be nil")
	}

	n, m := mdl.N, mdl.M
	if st := solver.Setup(mdl.A, linsolve.Options{NLA: opts.NLA, Fact: opts.Fact}); st.Failed() {
		return nil, fmt.Errorf("ipm: solver setup: %s", st)
	}

	d := &Driver{
		model:  mdl,
		opts:   opts,
		solver: solver,

		res: newResiduals(n, m),
		dir: newDirection(n, m),

		thetaInv: make([]float64, n),
		r7:       make([]float64, n),
		r8:       make([]float64, m),
		theta:    make([]float64, n),
		thetaR7:  make([]float64, n),
		aty:      make([]float64, n),
	}
	d.maxCorrectors = opts.MaxCorrectors
	return d, nil
}

// Solve runs the predictor-corrector loop to termination and returns
// a Result describing the outcome.
func (d *Driver) Solve() *Result {
	it, err := startingPoint(d.model)
	if err != nil {
		return d.errorResult(fmt.Sprintf("starting point: %v", err))
	}
	d.it = it
	d.res.primalDual(d.model, d.it)
	d.maxCorrectors = d.computeMaxCorrectors()

	if d.opts.Logger.enable(LogIteration) {
		d.opts.Logger.log("iter %14s %10s %10s %10s %10s %10s\n", "obj", "pinf", "dinf", "mu", "ap", "ad")
	}

	for d.iter < d.opts.MaxIter {
		if !d.it.valid(d.model) {
			return d.errorResult("iterate is not finite")
		}
		if d.badIter >= maxBadIter {
			return d.finish(StatusNoProgress)
		}
		if d.terminated() {
			return d.finish(StatusOptimal)
		}

		d.iter++
		d.dir.reset()
		d.solver.Clear()
		computeThetaInv(d.model, d.it, d.thetaInv)

		d.sigmaAffine()
		mu := d.it.Mu(d.model)
		d.res.centrality(d.model, d.it, d.sigma*mu)
		if st := d.solveNewtonSystem(); st.Failed() {
			return d.errorResult(fmt.Sprintf("predictor solve: %s", st))
		}
		if d.dir.hasNonFinite() {
			return d.errorResult("predictor direction is not finite")
		}

		d.sigmaCorrectors()
		correctors, st := d.centralityCorrectors()
		if st.Failed() {
			return d.errorResult(fmt.Sprintf("corrector solve: %s", st))
		}

		d.alphaPrimal, d.alphaDual = d.stepSizes()
		d.advance()
		d.res.primalDual(d.model, d.it)

		d.record(correctors)
	}
	return d.finish(StatusMaxIter)
}

// terminated reports primal/dual feasibility and gap against opts.Tol,
// each normalized by the scale of the problem data so the same
// tolerance means the same thing regardless of how rhs/cost are
// scaled. Crossover is out of scope, so a feasible-and-optimal point
// always terminates.
func (d *Driver) terminated() bool {
	if d.iter == 0 {
		return false
	}
	pinf := vecops.NormInf(d.res.R1)
	pinf = math.Max(pinf, vecops.NormInf(d.res.R2))
	pinf = math.Max(pinf, vecops.NormInf(d.res.R3))
	pinf /= 1 + vecops.NormInf(d.model.B)

	dinf := vecops.NormInf(d.res.R4) / (1 + vecops.NormInf(d.model.C))

	pobj, dobj := d.it.pobj(d.model), d.it.dobj(d.model)
	gap := math.Abs(pobj-dobj) / (1 + 0.5*math.Abs(pobj+dobj))

	return pinf < d.opts.Tol && dinf < d.opts.Tol && gap < d.opts.Tol
}

// advance updates the iterate by the accepted step sizes and tracks
// consecutive small-step iterations.
func (d *Driver) advance() {
	if math.Min(d.alphaPrimal, d.alphaDual) < 0.05 {
		d.badIter++
	} else {
		d.badIter = 0
	}

	vecAdd(d.it.X, d.dir.DX, d.alphaPrimal)
	vecAdd(d.it.XL, d.dir.DXL, d.alphaPrimal)
	vecAdd(d.it.XU, d.dir.DXU, d.alphaPrimal)
	vecAdd(d.it.Y, d.dir.DY, d.alphaDual)
	vecAdd(d.it.ZL, d.dir.DZL, d.alphaDual)
	vecAdd(d.it.ZU, d.dir.DZU, d.alphaDual)
}

func vecAdd(dst, delta []float64, alpha float64) {
	for i := range dst {
		dst[i] += alpha * delta[i]
	}
}

func (d *Driver) record(correctors int) {
	pobj, dobj := d.it.pobj(d.model), d.it.dobj(d.model)
	r := Record{
		Iter:         d.iter,
		PObj:         pobj,
		DObj:         dobj,
		PrimalInfeas: math.Max(vecops.NormInf(d.res.R1), math.Max(vecops.NormInf(d.res.R2), vecops.NormInf(d.res.R3))),
		DualInfeas:   vecops.NormInf(d.res.R4),
		Gap:          math.Abs(pobj - dobj),
		Mu:           d.it.Mu(d.model),
		AlphaPrimal:  d.alphaPrimal,
		AlphaDual:    d.alphaDual,
		Correctors:   correctors,
	}
	d.diag.append(r, d.opts.Format)

	if d.opts.Logger.enable(LogIteration) {
		d.opts.Logger.log("%4d %14.6e %10.2e %10.2e %10.2e %10.2e %10.2e\n",
			d.iter, r.PObj, r.PrimalInfeas, r.DualInfeas, r.Mu, r.AlphaPrimal, r.AlphaDual)
	}
}

func (d *Driver) finish(status Status) *Result {
	if d.opts.Logger.enable(LogSummary) {
		d.opts.Logger.log("%s after %d iterations\n", status, d.iter)
	}
	return newResult(d.model, d.it, status, d.iter, d.diag)
}

func (d *Driver) errorResult(msg string) *Result {
	if d.opts.Logger.enable(LogSummary) {
		d.opts.Logger.log("error: %s\n", msg)
	}
	r := newResult(d.model, d.it, StatusError, d.iter, d.diag)
	r.Message = msg
	return r
}
