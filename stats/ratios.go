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
	"strings"

	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Volatility is the sample standard deviation of returns, annualized by
// sqrt(periods) when annualize is set
func Volatility(r *dataframe.Series, periods int, annualize bool) float64 {
	std := stdDev(observed(r))
	if annualize {
		return std * annualizeFactor(periods)
	}
	return std
}

// RollingVolatility computes the annualized volatility over a trailing window
func RollingVolatility(r *dataframe.Series, window, periods int) *dataframe.Series {
	return r.Rolling(window, stdDev).MulScalar(annualizeFactor(periods))
}

// Sharpe computes the ratio of mean excess return to its standard deviation. rf is
// an annualized risk-free rate, de-annualized with periods. The result is scaled by
// sqrt(periods) when annualize is set.
func Sharpe(r *dataframe.Series, rf float64, periods int, annualize bool) (float64, error) {
	return sharpe(r, rf, periods, annualize, false)
}

// SmartSharpe is Sharpe with the denominator penalized for autocorrelation
func SmartSharpe(r *dataframe.Series, rf float64, periods int, annualize bool) (float64, error) {
	return sharpe(r, rf, periods, annualize, true)
}

func sharpe(r *dataframe.Series, rf float64, periods int, annualize, smart bool) (float64, error) {
	excess, err := ToExcessReturns(r, rf, periods)
	if err != nil {
		return math.NaN(), err
	}

	vals := observed(excess)
	divisor := stdDev(vals)
	if smart {
		divisor *= AutocorrPenalty(excess)
	}

	res := divide(mean(vals), divisor)
	if annualize {
		res *= annualizeFactor(periods)
	}

	return res, nil
}

// RollingSharpe computes the Sharpe ratio over a trailing window
func RollingSharpe(r *dataframe.Series, rf float64, window, periods int, annualize bool) (*dataframe.Series, error) {
	excess, err := ToExcessReturns(r, rf, periods)
	if err != nil {
		return nil, err
	}

	res := excess.Rolling(window, func(x []float64) float64 {
		return divide(mean(x), stdDev(x))
	})
	if annualize {
		res = res.MulScalar(annualizeFactor(periods))
	}
	return res, nil
}

// downsideDeviation is the root-mean-square of the negative returns divided by the
// total number of observations, not just the number of losing periods
func downsideDeviation(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sq := 0.0
	for _, v := range vals {
		if v < 0 {
			sq += v * v
		}
	}
	return math.Sqrt(sq / float64(len(vals)))
}

// Sortino is like Sharpe but only penalizes downside volatility
func Sortino(r *dataframe.Series, rf float64, periods int, annualize bool) (float64, error) {
	return sortino(r, rf, periods, annualize, false)
}

// SmartSortino is Sortino with the denominator penalized for autocorrelation
func SmartSortino(r *dataframe.Series, rf float64, periods int, annualize bool) (float64, error) {
	return sortino(r, rf, periods, annualize, true)
}

// AdjustedSortino divides the Sortino ratio by sqrt(2) so that it can be compared
// directly with the Sharpe ratio
func AdjustedSortino(r *dataframe.Series, rf float64, periods int, annualize, smart bool) (float64, error) {
	res, err := sortino(r, rf, periods, annualize, smart)
	return res / math.Sqrt2, err
}

func sortino(r *dataframe.Series, rf float64, periods int, annualize, smart bool) (float64, error) {
	excess, err := ToExcessReturns(r, rf, periods)
	if err != nil {
		return math.NaN(), err
	}

	vals := observed(excess)
	downside := downsideDeviation(vals)
	if smart {
		downside *= AutocorrPenalty(excess)
	}

	res := divide(mean(vals), downside)
	if annualize {
		res *= annualizeFactor(periods)
	}

	return res, nil
}

// RollingSortino computes the Sortino ratio over a trailing window
func RollingSortino(r *dataframe.Series, rf float64, window, periods int, annualize bool) (*dataframe.Series, error) {
	excess, err := ToExcessReturns(r, rf, periods)
	if err != nil {
		return nil, err
	}

	res := excess.Rolling(window, func(x []float64) float64 {
		return divide(mean(x), downsideDeviation(x))
	})
	if annualize {
		res = res.MulScalar(annualizeFactor(periods))
	}
	return res, nil
}

// ProbabilisticRatio converts a non-annualized base ratio ("sharpe", "sortino" or
// "adjusted_sortino") into the probability that the true ratio exceeds rf, using
// the standard error sqrt((1 + SR^2/2 + skew*SR + kurt/4*SR^2) / (n-1)).
func ProbabilisticRatio(r *dataframe.Series, rf float64, base string, periods int, annualize, smart bool) (float64, error) {
	var (
		ratio float64
		err   error
	)

	switch strings.ToLower(base) {
	case "sharpe":
		ratio, err = sharpe(r, 0, periods, false, smart)
	case "sortino":
		ratio, err = sortino(r, 0, periods, false, smart)
	case "adjusted_sortino":
		ratio, err = AdjustedSortino(r, 0, periods, false, smart)
	default:
		return math.NaN(), ErrUnknownRatioBase
	}
	if err != nil {
		return math.NaN(), err
	}

	n := float64(len(observed(r)))
	skewNo := Skew(r)
	kurtosisNo := Kurtosis(r)

	sigmaSR := math.Sqrt((1 / (n - 1)) * (1 + 0.5*ratio*ratio + skewNo*ratio + (kurtosisNo/4)*ratio*ratio))
	psr := normCDF((ratio - rf) / sigmaSR)

	if annualize {
		return psr * annualizeFactor(periods), nil
	}
	return psr, nil
}

// ProbabilisticSharpe is ProbabilisticRatio with a Sharpe base
func ProbabilisticSharpe(r *dataframe.Series, rf float64, periods int, annualize, smart bool) (float64, error) {
	return ProbabilisticRatio(r, rf, "sharpe", periods, annualize, smart)
}

// ProbabilisticSortino is ProbabilisticRatio with a Sortino base
func ProbabilisticSortino(r *dataframe.Series, rf float64, periods int, annualize, smart bool) (float64, error) {
	return ProbabilisticRatio(r, rf, "sortino", periods, annualize, smart)
}

// ProbabilisticAdjustedSortino is ProbabilisticRatio with an adjusted Sortino base
func ProbabilisticAdjustedSortino(r *dataframe.Series, rf float64, periods int, annualize, smart bool) (float64, error) {
	return ProbabilisticRatio(r, rf, "adjusted_sortino", periods, annualize, smart)
}

// Omega computes the probability weighted ratio of gains over losses relative to
// the annual required return. Returns NaN with fewer than 2 observations, a
// required return of -100% or less, or no returns below the threshold.
func Omega(r *dataframe.Series, rf, required float64, periods int) (float64, error) {
	if r.Len() < 2 || required <= -1 {
		return math.NaN(), nil
	}

	excess, err := ToExcessReturns(r, rf, periods)
	if err != nil {
		return math.NaN(), err
	}

	threshold := required
	if periods != 1 && periods > 0 {
		threshold = deannualize(required, periods)
	}

	numer := 0.0
	denom := 0.0
	for _, v := range observed(excess) {
		diff := v - threshold
		if diff > 0 {
			numer += diff
		} else if diff < 0 {
			denom -= diff
		}
	}

	if denom > 0 {
		return numer / denom, nil
	}

	return math.NaN(), nil
}

// GainToPain is Jack Schwager's gain-to-pain ratio: the sum of all returns divided
// by the absolute sum of the losing returns after resampling to bucket
func GainToPain(r *dataframe.Series, rf float64, periods int, bucket calendar.Bucket) (float64, error) {
	excess, err := ToExcessReturns(r, rf, periods)
	if err != nil {
		return math.NaN(), err
	}

	if bucket != calendar.None {
		excess = Resample(excess, bucket, sum)
	}

	vals := observed(excess)
	downside := math.Abs(sum(filter(vals, func(v float64) bool { return v < 0 })))
	return divide(sum(vals), downside), nil
}

// CAGR is the compound annual growth rate of the excess returns. Years are
// measured as calendar days between the first and last observation divided by 365;
// a series spanning less than a day returns 0.
func CAGR(r *dataframe.Series, rf float64, periods int, compounded bool) (float64, error) {
	excess, err := ToExcessReturns(r, rf, periods)
	if err != nil {
		return math.NaN(), err
	}

	if r.Len() == 0 {
		return math.NaN(), nil
	}

	total := Total(excess, compounded)

	years := float64(calendar.DaysBetween(r.Start(), r.End())) / 365.0
	if years == 0 {
		return 0, nil
	}

	return math.Pow(math.Abs(total+1.0), 1.0/years) - 1, nil
}

// RAR is the risk-adjusted return: CAGR divided by exposure
func RAR(r *dataframe.Series, rf float64, periods int) (float64, error) {
	cagr, err := CAGR(r, rf, periods, true)
	if err != nil {
		return math.NaN(), err
	}
	return divide(cagr, Exposure(r)), nil
}

// Skew is the bias-corrected sample skewness of the returns
func Skew(r *dataframe.Series) float64 {
	vals := observed(r)
	if len(vals) < 3 {
		return math.NaN()
	}
	return stat.Skew(vals, nil)
}

// Kurtosis is the bias-corrected sample excess kurtosis of the returns
func Kurtosis(r *dataframe.Series) float64 {
	vals := observed(r)
	if len(vals) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(vals, nil)
}

// Calmar is CAGR divided by the absolute maximum drawdown
func Calmar(r *dataframe.Series) float64 {
	cagr, _ := CAGR(r, 0, 0, true)
	return divide(cagr, math.Abs(minOf(returnsDrawdown(r).Vals)))
}

// UlcerIndex measures the depth and duration of drawdowns,
// sqrt(sum(dd^2) / (n-1))
func UlcerIndex(r *dataframe.Series) float64 {
	if r.Len() < 2 {
		return math.NaN()
	}

	sq := 0.0
	for _, v := range returnsDrawdown(r).Vals {
		sq += v * v
	}

	return math.Sqrt(sq / float64(r.Len()-1))
}

// UlcerPerformanceIndex is the excess compounded return per unit of ulcer index
func UlcerPerformanceIndex(r *dataframe.Series, rf float64) float64 {
	return divide(Compound(r)-rf, UlcerIndex(r))
}

// SerenityIndex scales the excess compounded return by the ulcer index and a
// pitfall indicator, the conditional value-at-risk of the drawdown series in units
// of return volatility
func SerenityIndex(r *dataframe.Series, rf float64) float64 {
	dd := returnsDrawdown(r)
	pitfall := divide(-CVaR(dd, 1, 0.95), stdDev(observed(r)))
	return divide(Compound(r)-rf, UlcerIndex(r)*pitfall)
}

// RecoveryFactor is the total compounded return divided by the absolute maximum
// drawdown
func RecoveryFactor(r *dataframe.Series) float64 {
	return divide(Compound(r), math.Abs(minOf(returnsDrawdown(r).Vals)))
}

// RiskReturnRatio is the mean return divided by its standard deviation (Sharpe
// without a risk-free rate or annualization)
func RiskReturnRatio(r *dataframe.Series) float64 {
	vals := observed(r)
	return divide(mean(vals), stdDev(vals))
}
