// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vecops provides the dense vector primitives shared by the
// interior-point core: in-place AXPY, dot products, norms and scalar
// add/scale. AXPY, Dot, Norm2, Scale and AddConst delegate to gonum's
// floats package; NormInf, Clip, Zero and Copy are plain loops or
// builtins.
package vecops

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AXPY computes dst[i] += alpha*src[i] for every i.
func AXPY(dst []float64, alpha float64, src []float64) {
	if alpha == 0 {
		return
	}
	floats.AddScaled(dst, alpha, src)
}

// Dot returns the inner product of a and b.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Scale multiplies every element of dst by alpha.
func Scale(dst []float64, alpha float64) {
	floats.Scale(alpha, dst)
}

// AddConst adds alpha to every element of dst.
func AddConst(dst []float64, alpha float64) {
	floats.AddConst(alpha, dst)
}

// Zero sets every element of dst to zero.
func Zero(dst []float64) {
	clear(dst)
}

// Copy copies src into dst, dst must be at least as long as src.
func Copy(dst, src []float64) {
	copy(dst, src)
}

// Norm2 returns the Euclidean (2-)norm of x.
func Norm2(x []float64) float64 {
	return floats.Norm(x, 2)
}

// NormInf returns the infinity (max-abs) norm of x.
func NormInf(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// Clip returns v clamped to [lo, hi]. lo/hi may be ±Inf to represent an
// absent bound, matching the model's representation of unbounded
// variables; comparisons against an infinite bound never trigger.
func Clip(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
