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

// Resample groups the observed values of s into calendar buckets and reduces each
// bucket with fn. Each output value is labeled by the period end of its bucket.
// NaN values are skipped and a bucket without any observed value is omitted.
func Resample(s *dataframe.Series, bucket calendar.Bucket, fn func([]float64) float64) *dataframe.Series {
	res := &dataframe.Series{
		Name:  s.Name,
		Index: make([]time.Time, 0),
		Vals:  make([]float64, 0),
	}

	var (
		members []float64
		lastKey int
		label   time.Time
	)

	flush := func() {
		if len(members) > 0 {
			res.Index = append(res.Index, label)
			res.Vals = append(res.Vals, fn(members))
		}
		members = members[:0]
	}

	for idx, dt := range s.Index {
		key := bucket.Key(dt)
		if idx == 0 || key != lastKey {
			flush()
			lastKey = key
			label = bucket.PeriodEnd(dt)
		}
		if v := s.Vals[idx]; !math.IsNaN(v) {
			members = append(members, v)
		}
	}
	flush()

	return res
}

// AggregateReturns resamples a return series into coarser calendar buckets. When
// compounded is true the returns inside a bucket are combined geometrically,
// prod(1+r) - 1, otherwise they are summed. calendar.None returns the input
// unchanged.
func AggregateReturns(r *dataframe.Series, bucket calendar.Bucket, compounded bool) *dataframe.Series {
	if bucket == calendar.None {
		return r.Copy()
	}

	if compounded {
		return Resample(r, bucket, compoundVals)
	}
	return Resample(r, bucket, sum)
}
