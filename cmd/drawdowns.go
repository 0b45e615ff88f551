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


package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvstats/report"
	"github.com/penny-vault/pvstats/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	drawdownsTop  int
	drawdownsSort string
)

func init() {
	rootCmd.AddCommand(drawdownsCmd)

	drawdownsCmd.Flags().IntVarP(&drawdownsTop, "top", "n", 5, "Number of episodes to print, 0 for all")
	drawdownsCmd.Flags().StringVar(&drawdownsSort, "sort", "depth", "Episode order: `depth`, `duration` or `start`")
}

func parseEpisodeOrder(name string) (stats.EpisodeOrder, error) {
	switch strings.ToLower(name) {
	case "depth", "":
		return stats.ByDepth, nil
	case "duration", "length":
		return stats.ByDuration, nil
	case "start", "date":
		return stats.ByStart, nil
	default:
		return stats.ByDepth, fmt.Errorf("unknown episode order %q", name)
	}
}

var drawdownsCmd = &cobra.Command{
	Use:   "drawdowns <returns.csv>",
	Short: "List the drawdown episodes of a return or price series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := parseEpisodeOrder(drawdownsSort)
		if err != nil {
			return err
		}

		r, err := loadReturns(args[0])
		if err != nil {
			return err
		}

		summary := report.Drawdowns(r.FillNaN(0))
		episodes := stats.SortEpisodes(report.TopDrawdowns(r.FillNaN(0), drawdownsTop), order)
		log.Debug().Int("Episodes", len(summary.Episodes)).Float64("MaxDrawdown", summary.MaxDrawdown).Msg("segmented drawdowns")

		w := cmd.OutOrStdout()
		switch strings.ToLower(outputFormat()) {
		case report.FormatJSON:
			summary.Episodes = episodes
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		default:
			printDrawdownSummary(w, summary)
			return report.RenderDrawdowns(w, episodes, outputFormat())
		}
	},
}

func printDrawdownSummary(w io.Writer, summary *report.DrawdownSummary) {
	fmt.Fprintf(w, "Max Drawdown:      %.2f%%\n", summary.MaxDrawdown*100)
	fmt.Fprintf(w, "Longest DD Days:   %d\n", summary.LongestDays)
	fmt.Fprintf(w, "Avg. Drawdown:     %.2f%%\n", summary.AvgDrawdown*100)
	fmt.Fprintf(w, "Avg. Drawdown Days: %d\n", summary.AvgDays)
	fmt.Fprintf(w, "Episodes:          %d\n\n", len(summary.Episodes))
}
