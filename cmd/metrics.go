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
	"io"

	"github.com/penny-vault/pvstats/cache"
	"github.com/penny-vault/pvstats/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var metricsBenchmark string

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringVarP(&metricsBenchmark, "benchmark", "b", "", "Benchmark name (resolved in --benchmark-dir) or csv path")
}

var metricsCmd = &cobra.Command{
	Use:   "metrics <returns.csv>",
	Short: "Print the performance report of a return or price series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := loadSeries(args[0])
		if err != nil {
			return err
		}

		benchmark, err := loadBenchmark(metricsBenchmark)
		if err != nil {
			log.Error().Err(err).Str("Benchmark", metricsBenchmark).Msg("could not load benchmark")
			return err
		}

		opts := reportOptions()
		opts.BenchmarkName = metricsBenchmark
		format := outputFormat()

		key := cache.Key("metrics", sourceDigest(args[0]), sourceDigest(metricsBenchmark), metricsBenchmark, optionsKey(opts), format)
		return cachedOutput(cmd.Context(), key, cmd.OutOrStdout(), func(w io.Writer) error {
			rep, err := report.Metrics(strategy, benchmark, opts)
			if err != nil {
				log.Error().Stack().Err(err).Msg("could not compute metrics")
				return err
			}
			return rep.Render(w, format)
		})
	},
}
