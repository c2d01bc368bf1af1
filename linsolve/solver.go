// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import "github.com/ipmcore/ipm/sparsemat"

// NLA selects which representation of the Newton system a Solver
// factors: the symmetric indefinite augmented (KKT) block, or the
// reduced symmetric positive-definite normal-equation form.
type NLA int

const (
	Augmented NLA = iota
	NormEq
)

// Options configures Setup. Fact is a back-end-specific factorization
// hint (e.g. "minimum-degree" ordering); back ends that do not support
// hints ignore it.
type Options struct {
	NLA  NLA
	Fact string
}

// Solver is the polymorphic linear-solver back end: dispatch between
// augmented and normal-equation representations is
// chosen once at construction, never per call. The zero value of a
// concrete implementation is not usable; call Setup first.
//
// solveAS/solveNE may be called only once the corresponding factor
// call has returned OK; Valid reports that state. Clear invalidates
// it; Finalise releases any back-end resources.
type Solver interface {
	Setup(a *sparsemat.Matrix, opts Options) Status

	FactorAS(a *sparsemat.Matrix, thetaInv []float64) Status
	SolveAS(rhsX, rhsY []float64) (lhsX, lhsY []float64, status Status)

	FactorNE(a *sparsemat.Matrix, thetaInv []float64) Status
	SolveNE(rhs []float64) (lhs []float64, status Status)

	Clear()
	Finalise()
	Valid() bool
}

// FlopsReporter is an optional capability: back ends that can report
// factorization cost implement it so the IPM driver can size the
// multiple-centrality-corrector budget.
type FlopsReporter interface {
	Flops() float64
}

// NNZReporter is an optional capability: back ends that track fill-in
// implement it to expose the factor's nonzero count.
type NNZReporter interface {
	NNZ() int
}

// Refiner is an optional capability for back ends that support
// iterative refinement of a solved system.
type Refiner interface {
	Refine(rhs, lhs []float64, iters int) Status
}
