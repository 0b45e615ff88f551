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
)

// Exposure is the fraction of periods with a non-zero return (time in the
// market), rounded up to the next whole percent
func Exposure(r *dataframe.Series) float64 {
	if r.Len() == 0 {
		return math.NaN()
	}

	active := 0
	for _, v := range r.Vals {
		if !math.IsNaN(v) && v != 0 {
			active++
		}
	}

	ex := float64(active) / float64(r.Len())
	return math.Ceil(ex*100) / 100
}

// WinRate is the fraction of non-zero periods that were positive, after
// aggregating to bucket. Returns 0 when there are no non-zero periods.
func WinRate(r *dataframe.Series, bucket calendar.Bucket, compounded bool) float64 {
	vals := observed(AggregateReturns(r, bucket, compounded))
	nonZero := filter(vals, func(v float64) bool { return v != 0 })
	if len(nonZero) == 0 {
		return 0
	}
	wins := filter(nonZero, func(v float64) bool { return v > 0 })
	return float64(len(wins)) / float64(len(nonZero))
}

// AvgReturn is the mean of the non-zero returns after aggregating to bucket
func AvgReturn(r *dataframe.Series, bucket calendar.Bucket, compounded bool) float64 {
	vals := observed(AggregateReturns(r, bucket, compounded))
	return mean(filter(vals, func(v float64) bool { return v != 0 }))
}

// AvgWin is the mean of the positive returns after aggregating to bucket
func AvgWin(r *dataframe.Series, bucket calendar.Bucket, compounded bool) float64 {
	vals := observed(AggregateReturns(r, bucket, compounded))
	return mean(filter(vals, func(v float64) bool { return v > 0 }))
}

// AvgLoss is the mean of the negative returns after aggregating to bucket
func AvgLoss(r *dataframe.Series, bucket calendar.Bucket, compounded bool) float64 {
	vals := observed(AggregateReturns(r, bucket, compounded))
	return mean(filter(vals, func(v float64) bool { return v < 0 }))
}

// PayoffRatio is the average win divided by the absolute average loss
func PayoffRatio(r *dataframe.Series) float64 {
	return divide(AvgWin(r, calendar.None, true), math.Abs(AvgLoss(r, calendar.None, true)))
}

// ProfitRatio compares the average win per winning period to the average loss per
// losing period. Returns 0 when either side is undefined.
func ProfitRatio(r *dataframe.Series) float64 {
	vals := observed(r)
	wins := filter(vals, func(v float64) bool { return v >= 0 })
	loss := filter(vals, func(v float64) bool { return v < 0 })

	winRatio := math.Abs(mean(wins) / float64(len(wins)))
	lossRatio := math.Abs(mean(loss) / float64(len(loss)))

	res := winRatio / lossRatio
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return 0
	}
	return res
}

// ProfitFactor is the sum of the winning returns divided by the absolute sum of the
// losing returns
func ProfitFactor(r *dataframe.Series) float64 {
	vals := observed(r)
	wins := sum(filter(vals, func(v float64) bool { return v >= 0 }))
	loss := sum(filter(vals, func(v float64) bool { return v < 0 }))
	return math.Abs(divide(wins, loss))
}

// CPCIndex is profit factor * win rate * payoff ratio
func CPCIndex(r *dataframe.Series) float64 {
	return ProfitFactor(r) * WinRate(r, calendar.None, true) * PayoffRatio(r)
}

// CommonSenseRatio is profit factor * tail ratio
func CommonSenseRatio(r *dataframe.Series) float64 {
	return ProfitFactor(r) * TailRatio(r, 0.95)
}

// countConsecutive returns the longest run of values matching pred
func countConsecutive(vals []float64, pred func(float64) bool) int {
	longest := 0
	current := 0
	for _, v := range vals {
		if pred(v) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// ConsecutiveWins is the longest streak of positive periods after aggregating
// to bucket
func ConsecutiveWins(r *dataframe.Series, bucket calendar.Bucket, compounded bool) int {
	vals := AggregateReturns(r, bucket, compounded).Vals
	return countConsecutive(vals, func(v float64) bool { return v > 0 })
}

// ConsecutiveLosses is the longest streak of negative periods after aggregating
// to bucket
func ConsecutiveLosses(r *dataframe.Series, bucket calendar.Bucket, compounded bool) int {
	vals := AggregateReturns(r, bucket, compounded).Vals
	return countConsecutive(vals, func(v float64) bool { return v < 0 })
}

// Best is the highest return after aggregating to bucket
func Best(r *dataframe.Series, bucket calendar.Bucket, compounded bool) float64 {
	return maxOf(observed(AggregateReturns(r, bucket, compounded)))
}

// Worst is the lowest return after aggregating to bucket
func Worst(r *dataframe.Series, bucket calendar.Bucket, compounded bool) float64 {
	return minOf(observed(AggregateReturns(r, bucket, compounded)))
}

// ExpectedReturn is the geometric holding period return of the aggregated
// returns, prod(1+r)^(1/n) - 1
func ExpectedReturn(r *dataframe.Series, bucket calendar.Bucket, compounded bool) float64 {
	vals := observed(AggregateReturns(r, bucket, compounded))
	if len(vals) == 0 {
		return math.NaN()
	}
	return math.Pow(compoundVals(vals)+1, 1/float64(len(vals))) - 1
}

// Outliers returns the observations above the q-th quantile
func Outliers(r *dataframe.Series, q float64) *dataframe.Series {
	cutoff := quantile(observed(r), q)
	return selectWhere(r, func(v float64) bool { return v > cutoff })
}

// RemoveOutliers returns the observations below the q-th quantile
func RemoveOutliers(r *dataframe.Series, q float64) *dataframe.Series {
	cutoff := quantile(observed(r), q)
	return selectWhere(r, func(v float64) bool { return v < cutoff })
}

func selectWhere(r *dataframe.Series, keep func(float64) bool) *dataframe.Series {
	res := &dataframe.Series{
		Name:  r.Name,
		Index: make([]time.Time, 0, r.Len()),
		Vals:  make([]float64, 0, r.Len()),
	}
	for idx, v := range r.Vals {
		if keep(v) {
			res.Index = append(res.Index, r.Index[idx])
			res.Vals = append(res.Vals, v)
		}
	}
	return res
}
