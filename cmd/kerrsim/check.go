package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// runCheck samples random points outside the horizon and compares the
// analytic gradient with central differences, and g·g⁻¹ with the identity.
func runCheck(cmd *cobra.Command, args []string) error {
	bh := kerr.New(spin, mass, charge)
	if err := bh.Validate(); err != nil {
		return err
	}
	if samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", samples)
	}
	horizon, err := bh.Horizon()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	gradErr := make([]float64, 0, samples)
	relErr := make([]float64, 0, samples)
	invErr := make([]float64, 0, samples)
	skipped := 0

	for len(gradErr)+skipped < samples {
		x := samplePoint(rng, 1.5*horizon, 20)
		p := geom.Vec4{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}

		analytic, err := bh.Gradient(x, p)
		if err != nil {
			skipped++
			continue
		}
		numeric, err := bh.NumericalGradient(x, p)
		if err != nil {
			skipped++
			continue
		}
		res, err := bh.InverseResidual(x)
		if err != nil {
			skipped++
			continue
		}

		a, n := [4]float64(analytic), [4]float64(numeric)
		d := floats.Distance(a[:], n[:], math.Inf(1))
		gradErr = append(gradErr, d)
		relErr = append(relErr, d/math.Max(floats.Norm(n[:], math.Inf(1)), 1e-12))
		invErr = append(invErr, res)
	}

	if len(gradErr) == 0 {
		return fmt.Errorf("all %d samples hit singular points", samples)
	}

	count := float64(len(gradErr))
	fmt.Printf("black hole: %s (horizon %.4f)\n", bh, horizon)
	fmt.Printf("samples: %d (%d skipped)\n\n", len(gradErr), skipped)
	fmt.Printf("gradient |analytic - numeric|  max %.3e  mean %.3e\n", floats.Max(gradErr), floats.Sum(gradErr)/count)
	fmt.Printf("gradient relative error        max %.3e  mean %.3e\n", floats.Max(relErr), floats.Sum(relErr)/count)
	fmt.Printf("metric |g·g⁻¹ - I|             max %.3e  mean %.3e\n", floats.Max(invErr), floats.Sum(invErr)/count)

	if worst := floats.Max(gradErr); worst > tolerance {
		fmt.Println(errStyle.Render("FAIL"))
		return fmt.Errorf("gradient deviation %.3e exceeds tolerance %.3e", worst, tolerance)
	}
	fmt.Println(okStyle.Render("ok"))
	return nil
}

// samplePoint draws a spacetime point with spatial radius in [rMin, rMax)
// and a uniformly random direction.
func samplePoint(rng *rand.Rand, rMin, rMax float64) geom.Vec4 {
	var dir geom.Vec3
	for dir.Len() < 1e-3 {
		dir = geom.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}
	r := rMin + rng.Float64()*(rMax-rMin)
	return geom.WithTime(rng.Float64()*10, dir.Normalize().Mul(r))
}
