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

package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/penny-vault/pvstats/dataframe"
	"github.com/penny-vault/pvstats/stats"
)

// DrawdownSummary condenses the drawdown episodes of a return series
type DrawdownSummary struct {
	MaxDrawdown float64          `json:"maxDrawdown"` // fraction
	LongestDays int              `json:"longestDays"`
	AvgDrawdown float64          `json:"avgDrawdown"` // fraction
	AvgDays     int              `json:"avgDays"`
	Episodes    []*stats.Episode `json:"episodes"`
}

// Drawdowns segments the drawdown series of the return series r into episodes and
// summarizes them. A series that is never underwater has a zero summary.
func Drawdowns(r *dataframe.Series) *DrawdownSummary {
	episodes := stats.DrawdownDetails(stats.DrawdownFromEquity(stats.ToEquityCurve(r)))
	summary := &DrawdownSummary{
		Episodes: episodes,
	}

	if len(episodes) == 0 {
		return summary
	}

	totalDD := 0.0
	totalDays := 0
	summary.MaxDrawdown = math.Inf(1)
	for _, ep := range episodes {
		if ep.MaxDrawdown < summary.MaxDrawdown {
			summary.MaxDrawdown = ep.MaxDrawdown
		}
		if ep.Days > summary.LongestDays {
			summary.LongestDays = ep.Days
		}
		totalDD += ep.MaxDrawdown
		totalDays += ep.Days
	}

	n := float64(len(episodes))
	summary.MaxDrawdown /= 100
	summary.AvgDrawdown = totalDD / n / 100
	summary.AvgDays = int(math.Round(float64(totalDays) / n))

	return summary
}

// TopDrawdowns returns the n deepest drawdown episodes of r, deepest first
func TopDrawdowns(r *dataframe.Series, n int) []*stats.Episode {
	episodes := stats.SortEpisodes(Drawdowns(r).Episodes, stats.ByDepth)
	if n > 0 && n < len(episodes) {
		episodes = episodes[:n]
	}
	return episodes
}

// RenderDrawdowns writes a table of drawdown episodes to w
func RenderDrawdowns(w io.Writer, episodes []*stats.Episode, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		rows := make([][]string, 0, len(episodes))
		for _, ep := range episodes {
			end := ep.End.Format("2006-01-02")
			if !ep.Recovered {
				end += " *"
			}
			rows = append(rows, []string{
				ep.Start.Format("2006-01-02"),
				ep.Valley.Format("2006-01-02"),
				end,
				fmt.Sprintf("%d", ep.Days),
				trimZero(ep.MaxDrawdown),
				trimZero(ep.MaxDrawdown99),
			})
		}
		renderTable(w, []string{"Start", "Valley", "End", "Days", "Max Drawdown", "99% Max Drawdown"}, rows)
		return nil
	case FormatJSON:
		return renderJSON(w, episodes)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
