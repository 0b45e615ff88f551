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
	"time"

	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Greeks holds the CAPM alpha and beta of a strategy relative to its benchmark
type Greeks struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Comparison is a single period of Compare
type Comparison struct {
	Date       time.Time `json:"date"`
	Benchmark  float64   `json:"benchmark"`
	Returns    float64   `json:"returns"`
	Multiplier float64   `json:"multiplier"`
	Won        bool      `json:"won"`
}

// AlignBenchmark prepares a benchmark return (or price) series and reindexes it to
// the strategy's dates. Dates missing from the benchmark, and unobserved benchmark
// periods, are filled with 0.
func AlignBenchmark(benchmark *dataframe.Series, index []time.Time, rf float64, periods int) (*dataframe.Series, error) {
	prepared, err := PrepareReturns(benchmark, rf, periods)
	if err != nil {
		return nil, err
	}
	return prepared.Reindex(index, 0).FillNaN(0), nil
}

// MatchDates trims both series so that they start on the later of the dates at
// which each first has a non-zero return
func MatchDates(r, benchmark *dataframe.Series) (*dataframe.Series, *dataframe.Series) {
	firstActive := func(s *dataframe.Series) time.Time {
		for idx, v := range s.Vals {
			if v != 0 && !math.IsNaN(v) {
				return s.Index[idx]
			}
		}
		return s.Start()
	}

	start := firstActive(r)
	if b := firstActive(benchmark); b.After(start) {
		start = b
	}

	return r.Since(start), benchmark.Since(start)
}

// paired returns the values where both series are observed. The series must share
// an index.
func paired(r, benchmark *dataframe.Series) (x, y []float64) {
	x = make([]float64, 0, r.Len())
	y = make([]float64, 0, r.Len())
	for idx, v := range r.Vals {
		if idx >= len(benchmark.Vals) {
			break
		}
		b := benchmark.Vals[idx]
		if math.IsNaN(v) || math.IsNaN(b) {
			continue
		}
		x = append(x, v)
		y = append(y, b)
	}
	return
}

// CalculateGreeks computes beta = cov(r, b) / var(b) and the annualized alpha
// (mean(r) - beta * mean(b)) * periods. Undefined values are reported as 0.
func CalculateGreeks(r, benchmark *dataframe.Series, periods int) *Greeks {
	x, y := paired(r, benchmark)
	if len(x) < 2 {
		return &Greeks{}
	}

	beta := stat.Covariance(x, y, nil) / stat.Variance(y, nil)
	alpha := (stat.Mean(x, nil) - beta*stat.Mean(y, nil)) * float64(periods)

	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		beta = 0
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		alpha = 0
	}

	return &Greeks{
		Alpha: alpha,
		Beta:  beta,
	}
}

// RollingGreeks computes beta over a trailing window of periods observations along
// with alpha measured against the full-sample means
func RollingGreeks(r, benchmark *dataframe.Series, periods int) (beta, alpha *dataframe.Series) {
	rets := r.FillNaN(0)
	bench := benchmark.FillNaN(0)

	beta = rets.Copy()
	alpha = rets.Copy()
	meanR := mean(rets.Vals)
	meanB := mean(bench.Vals)

	for idx := range rets.Vals {
		if periods <= 1 || idx < periods-1 {
			beta.Vals[idx] = math.NaN()
			alpha.Vals[idx] = math.NaN()
			continue
		}

		x := rets.Vals[idx-periods+1 : idx+1]
		y := bench.Vals[idx-periods+1 : idx+1]
		beta.Vals[idx] = stat.Correlation(x, y, nil) * divide(stat.StdDev(x, nil), stat.StdDev(y, nil))
		alpha.Vals[idx] = meanR - beta.Vals[idx]*meanB
	}

	beta.Name = "beta"
	alpha.Name = "alpha"
	return beta, alpha
}

// Correlation is the Pearson correlation between the strategy and benchmark
func Correlation(r, benchmark *dataframe.Series) float64 {
	x, y := paired(r, benchmark)
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// RSquared measures how well a straight line fits strategy returns against
// benchmark returns
func RSquared(r, benchmark *dataframe.Series) float64 {
	corr := Correlation(r, benchmark)
	return corr * corr
}

// InformationRatio is the mean active return divided by the tracking error
func InformationRatio(r, benchmark *dataframe.Series) float64 {
	x, y := paired(r, benchmark)
	diff := make([]float64, len(x))
	for idx := range x {
		diff[idx] = x[idx] - y[idx]
	}
	return divide(mean(diff), stdDev(diff))
}

// TreynorRatio is the excess compounded return per unit of beta. Returns 0 when
// beta is 0.
func TreynorRatio(r, benchmark *dataframe.Series, periods int, rf float64) float64 {
	greeks := CalculateGreeks(r, benchmark, periods)
	if greeks.Beta == 0 {
		return 0
	}
	return (Compound(r) - rf) / greeks.Beta
}

// Compare aggregates the strategy and benchmark to bucket and compares them period
// by period. Returns are expressed in percent.
func Compare(r, benchmark *dataframe.Series, bucket calendar.Bucket, compounded bool) []*Comparison {
	rets := AggregateReturns(r.FillNaN(0), bucket, compounded)
	bench := AggregateReturns(benchmark.Reindex(r.Index, 0).FillNaN(0), bucket, compounded)

	res := make([]*Comparison, 0, rets.Len())
	for idx, dt := range rets.Index {
		cmp := &Comparison{
			Date:      dt,
			Returns:   rets.Vals[idx] * 100,
			Benchmark: bench.Vals[idx] * 100,
		}
		cmp.Multiplier = divide(cmp.Returns, cmp.Benchmark)
		cmp.Won = cmp.Returns >= cmp.Benchmark
		res = append(res, cmp)
	}

	return res
}
