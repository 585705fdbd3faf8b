/*
DESCRIPTION
  analysis_bench_test.go cross-checks the fixed-point block variance
  estimator against a floating-point reference computed with gonum/stat.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package evx1

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

// referenceVariance2 mirrors computeBlockVariance2's definition,
// sum_of_squares - (sum^2)/count over nonzero AC coefficients, but
// computed in floating point with gonum/stat so rounding behavior can be
// compared against the codec's integer implementation.
func referenceVariance2(t *testing.T, src *Macroblock) float64 {
	t.Helper()

	y := src.LumaBlock()
	var samples []float64
	for j := 0; j < MacroblockSize; j++ {
		for i := 0; i < MacroblockSize; i++ {
			if i == 0 && j == 0 {
				continue
			}
			v := y[j*MacroblockSize+i]
			if v != 0 {
				samples = append(samples, float64(v))
			}
		}
	}
	if len(samples) == 0 {
		return 0
	}

	mean := stat.Mean(samples, nil)
	var sumOfSquares float64
	for _, s := range samples {
		sumOfSquares += s * s
	}
	return sumOfSquares - mean*mean*float64(len(samples))
}

func TestComputeBlockVariance2AgainstReference(t *testing.T) {
	cache, err := NewImageSet(FormatY16S, MacroblockSize, MacroblockSize)
	if err != nil {
		t.Fatalf("NewImageSet: %v", err)
	}
	mb := NewMacroblock(cache, 0, 0)

	var block [MacroblockSize * MacroblockSize]int16
	for i := range block {
		block[i] = int16((i*37)%61 - 30)
	}
	mb.SetLumaBlock(&block)

	got := float64(computeBlockVariance2(mb))
	want := referenceVariance2(t, mb)

	// The integer estimator rounds its divisions to whole numbers where
	// the float reference does not, so allow slack proportional to
	// the sample count rather than demanding bit-exact agreement.
	if diff := math.Abs(got - want); diff > float64(MacroblockSize*MacroblockSize) {
		t.Errorf("computeBlockVariance2() = %v, reference = %v, diff %v exceeds tolerance", got, want, diff)
	}
}
