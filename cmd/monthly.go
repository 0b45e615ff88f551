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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var monthlyEOY bool

func init() {
	rootCmd.AddCommand(monthlyCmd)

	monthlyCmd.Flags().BoolVar(&monthlyEOY, "eoy", true, "Include the end of year column")
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly <returns.csv>",
	Short: "Print the year by month table of returns in percent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadReturns(args[0])
		if err != nil {
			return err
		}

		compounded := viper.GetBool("stats.compounded")
		format := outputFormat()
		key := cache.Key("monthly", sourceDigest(args[0]), boolKey(monthlyEOY), boolKey(compounded), format)

		return cachedOutput(cmd.Context(), key, cmd.OutOrStdout(), func(w io.Writer) error {
			return report.RenderTable(w, report.MonthlyTable(r, monthlyEOY, compounded), format)
		})
	},
}

func boolKey(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
