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
	"context"
	"fmt"
	"os"

	"github.com/penny-vault/pvstats/cache"
	"github.com/penny-vault/pvstats/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	flags := rootCmd.PersistentFlags()

	// Logging configuration
	viper.BindEnv("log.level", "PVSTATS_LOG_LEVEL")
	flags.String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", flags.Lookup("log-level"))

	viper.BindEnv("log.report_caller", "PVSTATS_LOG_REPORT_CALLER")
	flags.Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", flags.Lookup("log-report-caller"))

	viper.BindEnv("log.output", "PVSTATS_LOG_OUTPUT")
	flags.String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", flags.Lookup("log-output"))

	viper.BindEnv("log.pretty", "PVSTATS_LOG_PRETTY")
	flags.Bool("log-pretty", true, "Pretty print log messages")
	viper.BindPFlag("log.pretty", flags.Lookup("log-pretty"))

	// Statistics
	viper.BindEnv("stats.risk_free", "PVSTATS_RISK_FREE")
	flags.Float64("risk-free", 0, "Annualized risk-free rate, e.g. 0.02 for 2%")
	viper.BindPFlag("stats.risk_free", flags.Lookup("risk-free"))

	viper.BindEnv("stats.periods_per_year", "PVSTATS_PERIODS_PER_YEAR")
	flags.Int("periods", 252, "Number of return periods in a year")
	viper.BindPFlag("stats.periods_per_year", flags.Lookup("periods"))

	viper.BindEnv("stats.mode", "PVSTATS_MODE")
	flags.String("mode", "basic", "Report mode: `basic` or `full`")
	viper.BindPFlag("stats.mode", flags.Lookup("mode"))

	viper.BindEnv("stats.compounded", "PVSTATS_COMPOUNDED")
	flags.Bool("compounded", true, "Compound returns when aggregating periods")
	viper.BindPFlag("stats.compounded", flags.Lookup("compounded"))

	viper.BindEnv("stats.match_dates", "PVSTATS_MATCH_DATES")
	flags.Bool("match-dates", false, "Start strategy and benchmark on their first common non-zero date")
	viper.BindPFlag("stats.match_dates", flags.Lookup("match-dates"))

	// Output
	viper.BindEnv("output.format", "PVSTATS_FORMAT")
	flags.StringP("format", "f", "text", "Output format: `text` or `json`")
	viper.BindPFlag("output.format", flags.Lookup("format"))

	// Data
	viper.BindEnv("data.benchmark_dir", "PVSTATS_BENCHMARK_DIR")
	flags.String("benchmark-dir", ".", "Directory holding <NAME>.csv benchmark files")
	viper.BindPFlag("data.benchmark_dir", flags.Lookup("benchmark-dir"))

	// Cache
	viper.BindEnv("cache.local_size", "PVSTATS_CACHE_LOCAL_SIZE")
	flags.Int("cache-local-size", 128, "Number of rendered reports held in memory")
	viper.BindPFlag("cache.local_size", flags.Lookup("cache-local-size"))

	viper.BindEnv("cache.redis", "PVSTATS_CACHE_REDIS")
	flags.Bool("cache-redis", false, "Store rendered reports in redis")
	viper.BindPFlag("cache.redis", flags.Lookup("cache-redis"))

	viper.BindEnv("cache.redis_url", "REDIS_URL")
	flags.String("cache-redis-url", "redis://localhost:6379/0", "Redis connection string")
	viper.BindPFlag("cache.redis_url", flags.Lookup("cache-redis-url"))

	viper.BindEnv("cache.ttl", "PVSTATS_CACHE_TTL")
	flags.Int("cache-ttl", 3600, "Seconds a cached report lives in redis")
	viper.BindPFlag("cache.ttl", flags.Lookup("cache-ttl"))
}

var rootCmd = &cobra.Command{
	Use:     "pvstats",
	Version: common.CurrentVersion.String(),
	Short:   "Portfolio performance analytics",
	Long: `pvstats computes performance and risk statistics (Sharpe, Sortino, drawdowns,
VaR, monthly returns, ...) from a csv of periodic returns or prices.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		common.SetupLogging()
		loader = nil
		if err := cache.Setup(); err != nil {
			log.Error().Stack().Err(err).Msg("could not setup report cache")
			return err
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
