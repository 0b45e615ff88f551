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

	"github.com/penny-vault/pvstats/dataframe"
	"github.com/rs/zerolog/log"
)

// IsPriceLike reports whether the series looks like a price (or equity) series
// rather than a series of fractional returns: every observed value is
// non-negative and at least one value is greater than 1.
func IsPriceLike(s *dataframe.Series) bool {
	vals := s.Finite()
	if len(vals) == 0 {
		return false
	}

	maxVal := math.Inf(-1)
	for _, v := range vals {
		if v < 0 {
			return false
		}
		if v > maxVal {
			maxVal = v
		}
	}

	return maxVal > 1
}

// PrepareReturns converts a raw return or price series into a canonical return
// series. Price-like input is converted with a period-over-period percent change
// and the placeholder first observation is dropped. Infinite values are replaced
// with 0 while NaN values (unobserved periods) are preserved.
//
// If rf is non-zero it is treated as an annualized risk-free rate and the
// per-period equivalent is subtracted from every return; periods must then be
// set or ErrPeriodsRequired is returned.
func PrepareReturns(s *dataframe.Series, rf float64, periods int) (*dataframe.Series, error) {
	if rf != 0 && periods <= 0 {
		return nil, ErrPeriodsRequired
	}

	var res *dataframe.Series
	if IsPriceLike(s) {
		log.Debug().Str("Series", s.Name).Int("NumObs", s.Len()).Msg("converting price series to returns")
		res = s.PctChange()
		if res.Len() > 0 {
			res = res.Slice(1, res.Len())
		}
	} else {
		res = s.Copy()
	}

	for idx, v := range res.Vals {
		if math.IsInf(v, 0) {
			res.Vals[idx] = 0
		}
	}

	if rf != 0 {
		return ToExcessReturns(res, rf, periods)
	}

	return res, nil
}

// ToExcessReturns subtracts the per-period equivalent of the annualized risk-free
// rate rf from every return
func ToExcessReturns(r *dataframe.Series, rf float64, periods int) (*dataframe.Series, error) {
	if rf == 0 {
		return r.Copy(), nil
	}

	if periods <= 0 {
		return nil, ErrPeriodsRequired
	}

	return r.AddScalar(-deannualize(rf, periods)), nil
}

// FillNaN returns a copy of the series with unobserved periods replaced by val
func FillNaN(s *dataframe.Series, val float64) *dataframe.Series {
	return s.FillNaN(val)
}

// SelectSeries chooses the single series to analyze from a multi-column frame.
// A column named "close" (case-insensitive) wins, otherwise the first column is
// used. When more than one column is present the selected series is returned
// together with ErrShapeMismatch, which callers should treat as a warning.
func SelectSeries(df *dataframe.DataFrame[time.Time]) (*dataframe.Series, error) {
	if df.ColCount() == 0 {
		return nil, dataframe.ErrColumnNotFound
	}

	if df.ColCount() == 1 {
		return dataframe.ColumnSeries(df, 0), nil
	}

	selected := df.ColIndex("close")
	if selected == -1 {
		selected = 0
	}

	log.Warn().Strs("Columns", df.ColNames).Str("Selected", df.ColNames[selected]).Msg("multi-column data passed where a single series was expected")

	return dataframe.ColumnSeries(df, selected), ErrShapeMismatch
}

// LogReturns converts fractional returns into log returns, ln(1+r)
func LogReturns(r *dataframe.Series) *dataframe.Series {
	res := r.Copy()
	for idx, v := range res.Vals {
		res.Vals[idx] = math.Log1p(v)
		if math.IsInf(res.Vals[idx], 0) {
			res.Vals[idx] = 0
		}
	}
	return res
}

// RebaseEquity converts a return series into a price series starting from base
func RebaseEquity(r *dataframe.Series, base float64) *dataframe.Series {
	return ToEquityCurve(r).MulScalar(base)
}
