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

	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
)

// ValueAtRisk is the parametric (variance-covariance) value-at-risk of the returns:
// the (1-confidence) quantile of a normal distribution with the sample mean and
// sigma times the sample standard deviation. Confidence levels above 1 are read as
// percentages.
func ValueAtRisk(r *dataframe.Series, sigma, confidence float64) float64 {
	vals := observed(r)
	mu := mean(vals)
	sigma *= stdDev(vals)

	if confidence > 1 {
		confidence /= 100
	}

	return normPPF(1-confidence, mu, sigma)
}

// CVaR (expected shortfall) is the mean of the returns strictly below the
// value-at-risk. If no return breaches the threshold the value-at-risk itself is
// returned.
func CVaR(r *dataframe.Series, sigma, confidence float64) float64 {
	threshold := ValueAtRisk(r, sigma, confidence)
	tail := filter(observed(r), func(v float64) bool { return v < threshold })
	if len(tail) == 0 {
		return threshold
	}
	return mean(tail)
}

// TailRatio compares the right tail to the left tail, |q(cutoff) / q(1-cutoff)|
func TailRatio(r *dataframe.Series, cutoff float64) float64 {
	vals := observed(r)
	return math.Abs(divide(quantile(vals, cutoff), quantile(vals, 1-cutoff)))
}

// RiskOfRuin is the likelihood of losing all invested capital,
// ((1 - winRate) / (1 + winRate)) ^ n
func RiskOfRuin(r *dataframe.Series) float64 {
	wins := WinRate(r, calendar.None, true)
	return math.Pow((1-wins)/(1+wins), float64(r.Len()))
}

// KellyCriterion is the recommended fraction of capital to allocate,
// (b*p - q) / b where b is the payoff ratio, p the win rate and q = 1 - p
func KellyCriterion(r *dataframe.Series) float64 {
	winLossRatio := PayoffRatio(r)
	winProb := WinRate(r, calendar.None, true)
	loseProb := 1 - winProb

	return divide(winLossRatio*winProb-loseProb, winLossRatio)
}

// OutlierWinRatio is the q-th quantile of returns divided by the mean positive
// return (q is typically 0.99)
func OutlierWinRatio(r *dataframe.Series, q float64) float64 {
	vals := observed(r)
	return divide(quantile(vals, q), mean(filter(vals, func(v float64) bool { return v >= 0 })))
}

// OutlierLossRatio is the q-th quantile of returns divided by the mean negative
// return (q is typically 0.01)
func OutlierLossRatio(r *dataframe.Series, q float64) float64 {
	vals := observed(r)
	return divide(quantile(vals, q), mean(filter(vals, func(v float64) bool { return v < 0 })))
}
