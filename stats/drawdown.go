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
	"time"

	"github.com/penny-vault/pvstats/calendar"
	"github.com/penny-vault/pvstats/dataframe"
)

// Episode is a maximal contiguous underwater period of a drawdown series
type Episode struct {
	Start         time.Time `json:"start"`
	Valley        time.Time `json:"valley"`
	End           time.Time `json:"end"`
	Days          int       `json:"days"`
	MaxDrawdown   float64   `json:"maxDrawdown"`
	MaxDrawdown99 float64   `json:"maxDrawdown99"`
	Recovered     bool      `json:"recovered"`
}

// ToDrawdownSeries computes the percentage decline of the equity curve from its
// running peak, equity / max(equity) - 1. Price-like input is used as the equity
// curve directly, anything else is treated as returns. Infinite and negative zero
// artifacts are replaced with exactly 0 so that the result is 0 exactly at new
// highs.
func ToDrawdownSeries(s *dataframe.Series) *dataframe.Series {
	if IsPriceLike(s) {
		return DrawdownFromEquity(s)
	}
	return DrawdownFromEquity(ToEquityCurve(s))
}

// DrawdownFromEquity computes the drawdown series of an equity curve. Missing
// values carry the last observed equity forward. While the running peak is not
// positive (the curve started with a total loss) the drawdown is measured against
// the 1.0 base the curve started from.
func DrawdownFromEquity(equity *dataframe.Series) *dataframe.Series {
	filled := equity.Pad()
	peak := filled.CumMax()
	dd := filled.Copy()
	for idx, v := range filled.Vals {
		ref := peak.Vals[idx]
		if ref <= 0 {
			ref = 1.0
		}
		val := v/ref - 1.0
		if math.IsNaN(val) || math.IsInf(val, 0) || val == 0 {
			val = 0 // leading gaps, overflow and -0
		}
		dd.Vals[idx] = val
	}
	return dd
}

// returnsDrawdown is the drawdown series of a return series without price detection
func returnsDrawdown(r *dataframe.Series) *dataframe.Series {
	return DrawdownFromEquity(ToEquityCurve(r))
}

// MaxDrawdown returns the deepest decline from peak as a fraction (<= 0)
func MaxDrawdown(s *dataframe.Series) float64 {
	dd := ToDrawdownSeries(s)
	return minOf(dd.Vals)
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	minVal := math.Inf(1)
	for _, v := range vals {
		if v < minVal {
			minVal = v
		}
	}
	return minVal
}

// DrawdownDetails segments a drawdown series into underwater episodes.
//
// Every timestamp with a drawdown of exactly 0 is at a high, everything else is
// underwater. An episode starts at the first underwater timestamp after a high (or
// at the first timestamp if the series begins underwater) and ends at the next
// high. An episode that never recovers ends at the last timestamp with Recovered
// set to false. Statistics are computed over the underwater run itself. Episodes
// are ordered by start date; a series that never goes underwater returns an empty
// slice.
func DrawdownDetails(dd *dataframe.Series) []*Episode {
	episodes := make([]*Episode, 0)
	n := dd.Len()

	underwater := func(idx int) bool {
		v := dd.Vals[idx]
		return v != 0 && !math.IsNaN(v)
	}

	idx := 0
	for idx < n {
		if !underwater(idx) {
			idx++
			continue
		}

		startIdx := idx
		for idx < n && underwater(idx) {
			idx++
		}

		episode := &Episode{
			Start: dd.Index[startIdx],
		}

		if idx < n {
			episode.End = dd.Index[idx]
			episode.Recovered = true
		} else {
			episode.End = dd.Index[n-1]
		}

		window := dd.Vals[startIdx:idx]
		valleyIdx := 0
		for ii, v := range window {
			if v < window[valleyIdx] {
				valleyIdx = ii
			}
		}

		episode.Valley = dd.Index[startIdx+valleyIdx]
		episode.Days = calendar.DaysBetween(episode.Start, episode.End)
		episode.MaxDrawdown = window[valleyIdx] * 100
		episode.MaxDrawdown99 = trimmedMin(window) * 100

		episodes = append(episodes, episode)
	}

	return episodes
}

// trimmedMin returns the minimum of the window after removing values outside the
// IQR fences of the negated window. Windows with fewer than 4 observations are not
// trimmed.
func trimmedMin(window []float64) float64 {
	if len(window) < 4 {
		return minOf(window)
	}

	negated := make([]float64, len(window))
	for idx, v := range window {
		negated[idx] = -v
	}

	lower, upper := iqrFence(negated)
	kept := filter(negated, func(v float64) bool {
		return v >= lower && v <= upper
	})

	if len(kept) == 0 {
		return minOf(window)
	}

	return -maxOf(kept)
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	maxVal := math.Inf(-1)
	for _, v := range vals {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// EpisodeOrder selects the sort key used by SortEpisodes
type EpisodeOrder int

const (
	ByStart EpisodeOrder = iota
	ByDepth
	ByDuration
)

// SortEpisodes returns a sorted copy of episodes. ByDepth sorts the deepest
// episode first, ByDuration the longest first and ByStart by start date.
func SortEpisodes(episodes []*Episode, by EpisodeOrder) []*Episode {
	sorted := make([]*Episode, len(episodes))
	copy(sorted, episodes)

	switch by {
	case ByDepth:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].MaxDrawdown < sorted[j].MaxDrawdown
		})
	case ByDuration:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Days > sorted[j].Days
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Start.Before(sorted[j].Start)
		})
	}

	return sorted
}
