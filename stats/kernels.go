// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"math"
	"sort"

	"github.com/penny-vault/pvstats/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// observed returns the values of the series that are not NaN. Unobserved periods
// are skipped by every summary statistic.
func observed(s *dataframe.Series) []float64 {
	res := make([]float64, 0, len(s.Vals))
	for _, v := range s.Vals {
		if !math.IsNaN(v) {
			res = append(res, v)
		}
	}
	return res
}

// filter returns the values for which keep returns true
func filter(vals []float64, keep func(float64) bool) []float64 {
	res := make([]float64, 0, len(vals))
	for _, v := range vals {
		if keep(v) {
			res = append(res, v)
		}
	}
	return res
}

// mean of x or NaN if x is empty
func mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// stdDev is the sample standard deviation (n-1 denominator); NaN with fewer than 2 values
func stdDev(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

func sum(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Sum(x)
}

// divide returns num/den or NaN when den is zero
func divide(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// compoundVals returns prod(1+r) - 1
func compoundVals(x []float64) float64 {
	total := 1.0
	for _, v := range x {
		total *= 1.0 + v
	}
	return total - 1.0
}

// quantile computes the q-th quantile of x using linear interpolation between the
// closest ranks (Hyndman & Fan type 7). Returns NaN for empty input.
func quantile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * q
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}

	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// iqrFence returns the Tukey fences [Q1 - 1.5 IQR, Q3 + 1.5 IQR]
func iqrFence(x []float64) (lower, upper float64) {
	q1 := quantile(x, .25)
	q3 := quantile(x, .75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// normCDF is the standard normal cumulative distribution function
func normCDF(x float64) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.CDF(x)
}

// normPPF is the quantile function of the normal distribution N(mu, sigma)
func normPPF(p, mu, sigma float64) float64 {
	if math.IsNaN(mu) || math.IsNaN(sigma) {
		return math.NaN()
	}
	if sigma == 0 {
		return mu
	}
	n := distuv.Normal{Mu: mu, Sigma: sigma}
	return n.Quantile(p)
}

// annualizeFactor returns sqrt(periods), or 1 if periods is not set
func annualizeFactor(periods int) float64 {
	if periods <= 0 {
		return 1
	}
	return math.Sqrt(float64(periods))
}

// deannualize converts an annual rate into the equivalent per-period rate
func deannualize(rate float64, periods int) float64 {
	return math.Pow(1.0+rate, 1.0/float64(periods)) - 1.0
}

// AutocorrPenalty computes the penalty applied to the denominator of the smart
// ratios: sqrt(1 + 2 * sum_{k=1}^{n-1} ((n-k)/n) * |rho|^k) where rho is the lag-1
// autocorrelation of the returns.
func AutocorrPenalty(r *dataframe.Series) float64 {
	vals := observed(r)
	num := len(vals)
	if num < 3 {
		return math.NaN()
	}

	coef := math.Abs(stat.Correlation(vals[:num-1], vals[1:], nil))

	corr := 0.0
	for x := 1; x < num; x++ {
		corr += (float64(num-x) / float64(num)) * math.Pow(coef, float64(x))
	}

	return math.Sqrt(1 + 2*corr)
}
