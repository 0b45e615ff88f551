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

package dataframe

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AddScalar adds the scalar value to every value in the series and returns a new series
func (s *Series) AddScalar(scalar float64) *Series {
	s2 := s.Copy()
	floats.AddConst(scalar, s2.Vals)
	return s2
}

// MulScalar multiplies every value in the series by scalar and returns a new series
func (s *Series) MulScalar(scalar float64) *Series {
	s2 := s.Copy()
	floats.Scale(scalar, s2.Vals)
	return s2
}

// Sub subtracts other from s element-wise and returns a new series.
// Panics if lengths are not equal.
func (s *Series) Sub(other *Series) *Series {
	s2 := s.Copy()
	floats.Sub(s2.Vals, other.Vals)
	return s2
}

// Div divides s by other element-wise and returns a new series.
// Panics if lengths are not equal.
func (s *Series) Div(other *Series) *Series {
	s2 := s.Copy()
	floats.Div(s2.Vals, other.Vals)
	return s2
}

// CumProd computes the running product of the values
func (s *Series) CumProd() *Series {
	s2 := s.Copy()
	if len(s2.Vals) > 0 {
		floats.CumProd(s2.Vals, s2.Vals)
	}
	return s2
}

// CumMax computes the running maximum of the values; NaN values are ignored
func (s *Series) CumMax() *Series {
	s2 := s.Copy()
	runMax := math.NaN()
	for idx, v := range s2.Vals {
		if !math.IsNaN(v) && (math.IsNaN(runMax) || v > runMax) {
			runMax = v
		}
		s2.Vals[idx] = runMax
	}
	return s2
}

// PctChange computes the fractional change of each value against the last
// observed value before it. The first observation has no predecessor and NaN
// values stay NaN, so the period after a gap is still measured.
func (s *Series) PctChange() *Series {
	s2 := s.Copy()
	last := math.NaN()
	for idx, v := range s.Vals {
		s2.Vals[idx] = v/last - 1.0
		if !math.IsNaN(v) {
			last = v
		}
	}
	return s2
}

// Lag shifts the series by n rows, replacing shifted values by math.NaN() and returns a new series
func (s *Series) Lag(n int) *Series {
	s2 := s.Copy()
	for idx := range s2.Vals {
		if idx < n {
			s2.Vals[idx] = math.NaN()
		} else {
			s2.Vals[idx] = s.Vals[idx-n]
		}
	}
	return s2
}

// Rolling applies fn to every trailing window of size lookback. The result has the
// same length as the input with NaN during the warm-up period.
func (s *Series) Rolling(lookback int, fn func([]float64) float64) *Series {
	s2 := s.Copy()
	for idx := range s2.Vals {
		if lookback <= 0 || idx < lookback-1 {
			s2.Vals[idx] = math.NaN()
			continue
		}
		s2.Vals[idx] = fn(s.Vals[idx-lookback+1 : idx+1])
	}
	return s2
}
