// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linsolve provides the augmented- and normal-equation linear
// solver abstraction consumed by the IPM driver, along with the
// row-wise assembly of the normal-equation matrix A·Θ·Aᵀ.
package linsolve

// Status is the outcome of a factor or solve call. The zero value is
// OK so a freshly declared Status reads as success only where that is
// explicitly intended; every factor/solve path here sets it.
type Status int

const (
	OK Status = iota
	ErrOOM
	ErrAnalyse
	ErrFactor
	ErrSolve
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case ErrOOM:
		return "out of memory"
	case ErrAnalyse:
		return "analyse failed"
	case ErrFactor:
		return "factor failed"
	case ErrSolve:
		return "solve failed"
	default:
		return "unknown status"
	}
}

// Failed reports whether s is any non-OK status.
func (s Status) Failed() bool { return s != OK }
