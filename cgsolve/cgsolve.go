// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cgsolve implements the preconditioned conjugate-gradient
// method on an abstract symmetric positive-definite operator as a
// direct blocking call, since the interior-point core never suspends
// mid-solve.
package cgsolve

import (
	"errors"
	"math"

	"github.com/ipmcore/ipm/vecops"
)

// ErrMaxIter is returned when the residual has not reached the
// requested tolerance within MaxIter iterations.
var ErrMaxIter = errors.New("cgsolve: exceeded max iterations without converging")

// Operator applies a symmetric positive-definite linear map to src,
// writing the result into dst. dst and src must not alias.
type Operator func(dst, src []float64)

// Solver runs preconditioned CG. It carries no state between calls and
// is safe to reuse sequentially for multiple systems.
type Solver struct {
	// Apply computes the SPD operator's action; required.
	Apply Operator
	// Precondition applies a preconditioner; if nil, CG runs
	// unpreconditioned (identity preconditioner).
	Precondition Operator
	// Tol is the relative residual tolerance: solve stops when
	// ||r|| <= Tol*||rhs||.
	Tol float64
	// MaxIter caps the number of iterations.
	MaxIter int
}

// Solve finds x such that Apply(x) ≈ rhs, starting from the values
// already in x (the caller's initial guess, zero if unset), overwriting
// x in place. It returns the number of iterations performed. On
// failure to converge within MaxIter iterations it returns ErrMaxIter
// and the iteration count is returned negated, per // ("on failure, return negative").
func (s Solver) Solve(x, rhs []float64) (int, error) {
	n := len(rhs)
	if len(x) != n {
		panic("cgsolve: x and rhs length mismatch")
	}
	if s.Apply == nil {
		panic("cgsolve: Apply operator is required")
	}
	tol := s.Tol
	if tol <= 0 {
		tol = 1e-6
	}
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 1000
	}

	rhsNorm := vecops.Norm2(rhs)
	if rhsNorm == 0 {
		vecops.Zero(x)
		return 0, nil
	}

	r := make([]float64, n)
	s.Apply(r, x)
	for i := range r {
		r[i] = rhs[i] - r[i]
	}

	z := make([]float64, n)
	s.applyPrecond(z, r)

	p := append([]float64(nil), z...)
	rz := vecops.Dot(r, z)

	ap := make([]float64, n)
	for iter := 1; iter <= maxIter; iter++ {
		s.Apply(ap, p)
		pap := vecops.Dot(p, ap)
		if pap == 0 || math.IsNaN(pap) {
			return -iter, ErrMaxIter
		}
		alpha := rz / pap

		vecops.AXPY(x, alpha, p)
		vecops.AXPY(r, -alpha, ap)

		if vecops.Norm2(r) <= tol*rhsNorm {
			return iter, nil
		}

		s.applyPrecond(z, r)
		rzNew := vecops.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew

		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
	return -maxIter, ErrMaxIter
}

func (s Solver) applyPrecond(dst, src []float64) {
	if s.Precondition == nil {
		copy(dst, src)
		return
	}
	s.Precondition(dst, src)
}

// DiagonalPreconditioner builds a Jacobi (diagonal) preconditioner
// Operator from the diagonal entries diag, used by crscale for its
// diag(M), diag(N) preconditioner.
func DiagonalPreconditioner(diag []float64) Operator {
	inv := make([]float64, len(diag))
	for i, d := range diag {
		if d != 0 {
			inv[i] = 1 / d
		}
	}
	return func(dst, src []float64) {
		for i := range dst {
			dst[i] = inv[i] * src[i]
		}
	}
}
