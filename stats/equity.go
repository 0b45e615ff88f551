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

	"github.com/penny-vault/pvstats/dataframe"
)

// ToEquityCurve computes the cumulative compounded growth of 1 unit of capital,
// prod(1+r_j) for j <= i. Unobserved periods leave the equity unchanged. Returns
// at or below -1 drive the curve to zero or negative values; they are not clamped.
func ToEquityCurve(r *dataframe.Series) *dataframe.Series {
	equity := r.Copy()
	total := 1.0
	for idx, v := range r.Vals {
		if !math.IsNaN(v) {
			total *= 1.0 + v
		}
		equity.Vals[idx] = total
	}
	return equity
}

// Compound returns the total compounded return of the series, prod(1+r) - 1
func Compound(r *dataframe.Series) float64 {
	return compoundVals(observed(r))
}

// CompSum returns the rolling compounded return, ToEquityCurve(r) - 1
func CompSum(r *dataframe.Series) *dataframe.Series {
	return ToEquityCurve(r).AddScalar(-1)
}

// Sum returns the additive total return of the series
func Sum(r *dataframe.Series) float64 {
	return sum(observed(r))
}

// Total returns Compound(r) when compounded is set, otherwise Sum(r)
func Total(r *dataframe.Series, compounded bool) float64 {
	if compounded {
		return Compound(r)
	}
	return Sum(r)
}
