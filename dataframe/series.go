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
	"sort"
	"time"
)

// NewSeries creates a series from parallel index and value slices. The slices are
// used as-is; call Validate to check the index invariants.
func NewSeries(name string, index []time.Time, vals []float64) *Series {
	return &Series{
		Name:  name,
		Index: index,
		Vals:  vals,
	}
}

// Validate checks that the series has one value per date and that dates are strictly increasing
func (s *Series) Validate() error {
	if len(s.Index) != len(s.Vals) {
		return ErrLengthMismatch
	}

	for idx := 1; idx < len(s.Index); idx++ {
		if s.Index[idx].Equal(s.Index[idx-1]) {
			return ErrDuplicateIndex
		}
		if s.Index[idx].Before(s.Index[idx-1]) {
			return ErrUnsortedIndex
		}
	}

	return nil
}

// Len returns the number of observations in the series
func (s *Series) Len() int {
	return len(s.Vals)
}

// Copy creates a deep copy of the series
func (s *Series) Copy() *Series {
	s2 := &Series{
		Name:  s.Name,
		Index: make([]time.Time, len(s.Index)),
		Vals:  make([]float64, len(s.Vals)),
	}
	copy(s2.Index, s.Index)
	copy(s2.Vals, s.Vals)
	return s2
}

// WithVals returns a new series sharing the index of s with the given values
func (s *Series) WithVals(vals []float64) *Series {
	return &Series{
		Name:  s.Name,
		Index: s.Index,
		Vals:  vals,
	}
}

// Start returns the first date of the series
func (s *Series) Start() time.Time {
	if len(s.Index) == 0 {
		return time.Time{}
	}
	return s.Index[0]
}

// End returns the last date of the series
func (s *Series) End() time.Time {
	if len(s.Index) == 0 {
		return time.Time{}
	}
	return s.Index[len(s.Index)-1]
}

// Last returns the last value of the series or NaN if it is empty
func (s *Series) Last() float64 {
	if len(s.Vals) == 0 {
		return math.NaN()
	}
	return s.Vals[len(s.Vals)-1]
}

// Slice returns the observations in [i, j) as a new series
func (s *Series) Slice(i, j int) *Series {
	s2 := &Series{
		Name:  s.Name,
		Index: make([]time.Time, j-i),
		Vals:  make([]float64, j-i),
	}
	copy(s2.Index, s.Index[i:j])
	copy(s2.Vals, s.Vals[i:j])
	return s2
}

// Since returns the observations dated on or after t
func (s *Series) Since(t time.Time) *Series {
	idx := sort.Search(len(s.Index), func(i int) bool {
		return !s.Index[i].Before(t)
	})
	return s.Slice(idx, len(s.Index))
}

// Trim the series to the specified date range (inclusive)
func (s *Series) Trim(begin, end time.Time) *Series {
	if end.Before(begin) {
		return s.Slice(0, 0)
	}

	beginIdx := sort.Search(len(s.Index), func(i int) bool {
		return !s.Index[i].Before(begin)
	})
	endIdx := sort.Search(len(s.Index), func(i int) bool {
		return s.Index[i].After(end)
	})
	if beginIdx > endIdx {
		beginIdx = endIdx
	}
	return s.Slice(beginIdx, endIdx)
}

// IndexOf returns the position of t in the series index or -1 if it is not present
func (s *Series) IndexOf(t time.Time) int {
	idx := sort.Search(len(s.Index), func(i int) bool {
		return !s.Index[i].Before(t)
	})
	if idx < len(s.Index) && s.Index[idx].Equal(t) {
		return idx
	}
	return -1
}

// DropNaN returns a new series without the unobserved (NaN) periods
func (s *Series) DropNaN() *Series {
	s2 := &Series{
		Name:  s.Name,
		Index: make([]time.Time, 0, len(s.Index)),
		Vals:  make([]float64, 0, len(s.Vals)),
	}
	for idx, v := range s.Vals {
		if !math.IsNaN(v) {
			s2.Index = append(s2.Index, s.Index[idx])
			s2.Vals = append(s2.Vals, v)
		}
	}
	return s2
}

// FillNaN returns a copy of the series with NaN values replaced by val
func (s *Series) FillNaN(val float64) *Series {
	s2 := s.Copy()
	for idx, v := range s2.Vals {
		if math.IsNaN(v) {
			s2.Vals[idx] = val
		}
	}
	return s2
}

// Pad returns a copy of the series with each NaN replaced by the last observed
// value before it. Leading NaN values have nothing to carry and are kept.
func (s *Series) Pad() *Series {
	s2 := s.Copy()
	last := math.NaN()
	for idx, v := range s2.Vals {
		if math.IsNaN(v) {
			s2.Vals[idx] = last
			continue
		}
		last = v
	}
	return s2
}

// Reindex aligns the series to the given dates. Dates not present in the series are
// filled with fill.
func (s *Series) Reindex(index []time.Time, fill float64) *Series {
	vals := make([]float64, len(index))
	for idx, dt := range index {
		pos := s.IndexOf(dt)
		if pos == -1 {
			vals[idx] = fill
		} else {
			vals[idx] = s.Vals[pos]
		}
	}
	res := make([]time.Time, len(index))
	copy(res, index)
	return &Series{
		Name:  s.Name,
		Index: res,
		Vals:  vals,
	}
}

// Finite returns the values of the series that are neither NaN nor infinite
func (s *Series) Finite() []float64 {
	res := make([]float64, 0, len(s.Vals))
	for _, v := range s.Vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			res = append(res, v)
		}
	}
	return res
}

// Table prints an ASCII formatted table of the series
func (s *Series) Table() string {
	df := &DataFrame[time.Time]{
		Index:    s.Index,
		ColNames: []string{s.Name},
		Vals:     [][]float64{s.Vals},
	}
	return df.Table()
}
