// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ipmsolve is a minimal runnable entry point for the ipm
// solver core: it builds a small embedded example LP, solves it, and
// prints the result. It does not read MPS files or any other model
// format — that is out of scope for this module.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/ipmcore/ipm/ipm"
	"github.com/ipmcore/ipm/linsolve"
	"github.com/ipmcore/ipm/model"
)

func main() {
	nla := flag.String("nla", "augmented", "linear algebra path: augmented or normeq")
	tol := flag.Float64("tol", 1e-8, "termination tolerance")
	maxIter := flag.Int("max-iter", 100, "maximum iterations")
	verbose := flag.Bool("v", false, "print per-iteration progress")
	flag.Parse()

	var nlaMode linsolve.NLA
	switch *nla {
	case "augmented":
		nlaMode = linsolve.Augmented
	case "normeq":
		nlaMode = linsolve.NormEq
	default:
		fmt.Fprintf(os.Stderr, "ipmsolve: unknown -nla %q\n", *nla)
		os.Exit(2)
	}

	mdl, err := model.New(exampleProblem())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipmsolve: building model: %v\n", err)
		os.Exit(1)
	}

	logger := ipm.Logger{}
	if *verbose {
		logger = ipm.Logger{Level: ipm.LogIteration, Out: os.Stdout}
	}

	driver, err := ipm.NewDriver(mdl, linsolve.NewDenseGonum(), ipm.Options{
		NLA:     nlaMode,
		MaxIter: *maxIter,
		Tol:     *tol,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipmsolve: %v\n", err)
		os.Exit(1)
	}

	result := driver.Solve()
	fmt.Printf("status: %s (%d iterations)\n", result.Status, result.Iter)
	if result.X != nil {
		fmt.Printf("x: %v\n", result.X)
		fmt.Printf("y: %v\n", result.Y)
	}
	if result.Status != ipm.StatusOptimal {
		os.Exit(1)
	}
}

// exampleProblem returns a tiny two-variable LP:
//
//	minimize   -x0 - 2x1
//	subject to  x0 +  x1 <= 4
//	            x0 + 3x1 <= 6
//	            0 <= x0, x1
//
// whose optimum is x=(3,1), objective -5.
func exampleProblem() model.Raw {
	return model.Raw{
		NumVar: 2,
		NumCon: 2,
		Obj:    []float64{-1, -2},
		Rhs:    []float64{4, 6},
		Lower:  []float64{0, 0},
		Upper:  []float64{math.Inf(1), math.Inf(1)},
		Ptr:    []int{0, 2, 4},
		Row:    []int{0, 1, 0, 1},
		Val:    []float64{1, 1, 1, 3},
		Sense:  []model.Sense{model.LE, model.LE},
	}
}
